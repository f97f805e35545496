// Package engine implements the interview orchestration core: the bandit
// question selector, the response-score aggregator, the termination policy,
// the performance summarizer, and the session controller that drives them.
package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// cryptoSeededSource seeds a math/rand source from the OS entropy pool so
// each process draws an independent sampling sequence.
func cryptoSeededSource() rand.Source {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.NewSource(time.Now().UnixNano())
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// popStdDev returns the population standard deviation of xs.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// slope returns the least-squares slope of xs over their indices 0..n-1.
func slope(xs []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	// Index mean is (n-1)/2 for 0..n-1.
	mx := (n - 1) / 2
	my := mean(xs)
	num, den := 0.0, 0.0
	for i, y := range xs {
		dx := float64(i) - mx
		num += dx * (y - my)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// sampleBeta draws one sample from Beta(alpha, beta) as the ratio of two
// gamma draws. The selector samples each arm's posterior with this on
// every Next call.
func sampleBeta(r *rand.Rand, alpha, beta float64) float64 {
	x := sampleGamma(r, alpha)
	y := sampleGamma(r, beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// sampleGamma draws from Gamma(shape, 1) using the Marsaglia-Tsang
// squeeze method, with the standard boost for shape < 1.
func sampleGamma(r *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := r.Float64()
		return sampleGamma(r, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
