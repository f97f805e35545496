package analysis

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// foldCaser is a package-level Unicode case folder, shared because caser
// construction is comparatively expensive.
var foldCaser = cases.Fold()

// Default thresholds for the keyword analyzer.
const (
	// DefaultMatchThreshold is the minimum fuzzy similarity for a
	// keyword to count as covered.
	DefaultMatchThreshold = 0.8

	// fullConfidenceWords is the answer length, in words, at which the
	// confidence heuristic saturates.
	fullConfidenceWords = 60
)

var _ ports.TextAnalyzer = (*KeywordAnalyzer)(nil)

// KeywordAnalyzer scores transcripts without an LLM: the technical score
// is the fraction of the question's expected keywords covered by the
// transcript under Levenshtein fuzzy matching, sentiment comes from a
// small lexicon, and confidence grows with answer length. Deterministic,
// so it also anchors tests and the offline CLI mode.
type KeywordAnalyzer struct {
	threshold float64
}

// NewKeywordAnalyzer builds an analyzer with the given match threshold;
// values outside (0,1] fall back to the default.
func NewKeywordAnalyzer(threshold float64) *KeywordAnalyzer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return &KeywordAnalyzer{threshold: threshold}
}

// AnalyzeText scores the transcript from keyword coverage. It never
// fails; an empty transcript scores zero on every axis except sentiment.
func (a *KeywordAnalyzer) AnalyzeText(_ context.Context, question domain.Question, transcript string) (ports.TextAnalysis, error) {
	words := tokenize(transcript)
	if len(words) == 0 {
		return ports.TextAnalysis{Technical: 0, Sentiment: 0, Confidence: 0}, nil
	}

	return ports.TextAnalysis{
		Technical:  a.coverage(question.ExpectedKeywords, words),
		Sentiment:  lexiconSentiment(words),
		Confidence: lengthConfidence(len(words)),
	}, nil
}

// coverage is the fraction of keywords with a fuzzy match in the
// transcript. No keywords means nothing to verify, scored neutrally.
func (a *KeywordAnalyzer) coverage(keywords []string, words []string) float64 {
	if len(keywords) == 0 {
		return 0.5
	}

	matched := 0
	for _, keyword := range keywords {
		folded := foldCaser.String(keyword)
		for _, word := range words {
			if similarity(folded, word) >= a.threshold {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(keywords))
}

// similarity maps Levenshtein distance onto [0,1], 1 for identical
// strings. The library operates on runes, so multi-byte input is safe.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	longest := len([]rune(s1))
	if l := len([]rune(s2)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(s1, s2)
	return 1.0 - float64(distance)/float64(longest)
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(foldCaser.String(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r > 127)
	})
	return fields
}

var (
	positiveWords = map[string]bool{
		"good": true, "great": true, "excellent": true, "confident": true,
		"successful": true, "achieved": true, "improved": true, "enjoy": true,
		"love": true, "effective": true, "proud": true, "solved": true,
	}
	negativeWords = map[string]bool{
		"bad": true, "poor": true, "failed": true, "difficult": true,
		"problem": true, "hate": true, "struggle": true, "wrong": true,
		"worried": true, "nervous": true, "unfortunately": true,
	}
)

// lexiconSentiment is the signed fraction of sentiment-bearing words,
// clamped to [-1,1].
func lexiconSentiment(words []string) float64 {
	var positive, negative int
	for _, word := range words {
		if positiveWords[word] {
			positive++
		}
		if negativeWords[word] {
			negative++
		}
	}
	if positive+negative == 0 {
		return 0
	}
	score := float64(positive-negative) / float64(positive+negative)
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// lengthConfidence treats longer answers as more confident, saturating
// at fullConfidenceWords.
func lengthConfidence(words int) float64 {
	c := float64(words) / fullConfidenceWords
	if c > 1 {
		return 1
	}
	return c
}
