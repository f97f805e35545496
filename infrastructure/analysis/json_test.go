package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"a": 1}`,
			want:     `{"a": 1}`,
		},
		{
			name:     "json fence",
			response: "```json\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "plain fence",
			response: "```\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "surrounding prose",
			response: "Here you go: {\"a\": 1} hope that helps!",
			want:     `{"a": 1}`,
		},
		{
			name:     "nested objects",
			response: `{"a": {"b": 2}, "c": 3}`,
			want:     `{"a": {"b": 2}, "c": 3}`,
		},
		{
			name:     "braces inside strings",
			response: `{"text": "use {} literals", "n": 1}`,
			want:     `{"text": "use {} literals", "n": 1}`,
		},
		{
			name:     "escaped quotes inside strings",
			response: `{"text": "she said \"hi\" {", "n": 1}`,
			want:     `{"text": "she said \"hi\" {", "n": 1}`,
		},
		{
			name:     "no object",
			response: "sorry, nothing here",
			want:     "",
		},
		{
			name:     "unbalanced",
			response: `{"a": 1`,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.response),
				"extracted object should match")
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[{"a": 1}, {"b": 2}]`,
		extractJSONArray("Result:\n```json\n[{\"a\": 1}, {\"b\": 2}]\n```"),
		"fenced arrays should unwrap")
	assert.Equal(t, `[1, 2, 3]`, extractJSONArray("the list is [1, 2, 3]."),
		"arrays inside prose should extract")
	assert.Empty(t, extractJSONArray("no array"), "missing arrays yield empty")
}
