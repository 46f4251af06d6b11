// Package feedback analyses free-text citizen noise reports: which sources
// the report mentions, how urgent it reads, and a naive sentiment. The
// analysis is keyword-driven on purpose; reports are short and the output
// only feeds coarse statistics.
package feedback

import (
	"errors"
	"fmt"
	"strings"
)

// MaxFeedbackLength caps report size; longer submissions are rejected.
const MaxFeedbackLength = 1000

var (
	// ErrEmptyFeedback rejects blank submissions.
	ErrEmptyFeedback = errors.New("feedback cannot be empty")
	// ErrFeedbackTooLong rejects reports above MaxFeedbackLength characters.
	ErrFeedbackTooLong = errors.New("feedback too long (max 1000 characters)")
)

// Analysis is the structured read of one report.
type Analysis struct {
	NoiseSources   []string `json:"noiseSources"`
	Urgency        string   `json:"urgency"`
	TimeIndicators []string `json:"timeIndicators"`
	Sentiment      string   `json:"sentiment"`
}

var sourceKeywords = []struct {
	source   string
	keywords []string
}{
	{"traffic", []string{"car", "traffic", "vehicle", "truck", "motorcycle"}},
	{"construction", []string{"construction", "drill", "hammer", "building", "work"}},
	{"human", []string{"music", "party", "loud", "neighbor", "voice"}},
	{"emergency", []string{"siren", "alarm", "emergency"}},
	{"industrial", []string{"industrial", "factory", "machine", "equipment"}},
}

var (
	highUrgencyWords   = []string{"urgent", "emergency", "extremely", "unbearable", "constant"}
	mediumUrgencyWords = []string{"loud", "disruptive", "annoying", "frequent"}

	negativeWords = []string{"terrible", "awful", "annoying", "disturbing", "unbearable", "loud", "noise"}
	positiveWords = []string{"quiet", "peaceful", "better", "improved", "good"}
)

// Validate checks a report before it is accepted.
func Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyFeedback
	}
	if len(trimmed) > MaxFeedbackLength {
		return ErrFeedbackTooLong
	}
	return nil
}

// Analyze derives noise sources, urgency, time-of-day hints and sentiment
// from the report text. Total for any input.
func Analyze(text string) Analysis {
	lowered := strings.ToLower(text)

	var sources []string
	for _, entry := range sourceKeywords {
		if containsAny(lowered, entry.keywords) {
			sources = append(sources, entry.source)
		}
	}

	urgency := "low"
	if containsAny(lowered, highUrgencyWords) {
		urgency = "high"
	} else if containsAny(lowered, mediumUrgencyWords) {
		urgency = "medium"
	}

	var timeIndicators []string
	if containsAny(lowered, []string{"night", "evening", "late"}) {
		timeIndicators = append(timeIndicators, "night")
	}
	if containsAny(lowered, []string{"morning", "early"}) {
		timeIndicators = append(timeIndicators, "morning")
	}
	if containsAny(lowered, []string{"day", "afternoon"}) {
		timeIndicators = append(timeIndicators, "day")
	}

	return Analysis{
		NoiseSources:   sources,
		Urgency:        urgency,
		TimeIndicators: timeIndicators,
		Sentiment:      sentiment(lowered),
	}
}

func sentiment(lowered string) string {
	var negative, positive int
	for _, word := range negativeWords {
		if strings.Contains(lowered, word) {
			negative++
		}
	}
	for _, word := range positiveWords {
		if strings.Contains(lowered, word) {
			positive++
		}
	}

	switch {
	case negative > positive:
		return "negative"
	case positive > negative:
		return "positive"
	default:
		return "neutral"
	}
}

// ApproximateArea blurs a coordinate to two decimals (~1 km) for the public
// recent-feedback listing.
func ApproximateArea(latitude, longitude *float64) string {
	if latitude == nil || longitude == nil {
		return "Unknown"
	}
	return fmt.Sprintf("Area near %.2f, %.2f", *latitude, *longitude)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
