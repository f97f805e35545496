package engine

import "time"

// testTime returns a fixed instant so assertions on timestamps are
// deterministic.
func testTime() time.Time {
	return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
}
