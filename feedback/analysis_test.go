package feedback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDetectsSourcesAndUrgency(t *testing.T) {
	t.Parallel()

	analysis := Analyze("Construction drilling is unbearable and constant, plus heavy truck traffic at night")

	assert.Contains(t, analysis.NoiseSources, "construction")
	assert.Contains(t, analysis.NoiseSources, "traffic")
	assert.Equal(t, "high", analysis.Urgency)
	assert.Contains(t, analysis.TimeIndicators, "night")
	assert.Equal(t, "negative", analysis.Sentiment)
}

func TestAnalyzeMediumUrgency(t *testing.T) {
	t.Parallel()

	analysis := Analyze("Annoying music from the neighbor every evening")

	assert.Equal(t, "medium", analysis.Urgency)
	assert.Contains(t, analysis.NoiseSources, "human")
}

func TestAnalyzeNeutralDefault(t *testing.T) {
	t.Parallel()

	analysis := Analyze("Something is happening outside")

	assert.Empty(t, analysis.NoiseSources)
	assert.Equal(t, "low", analysis.Urgency)
	assert.Equal(t, "neutral", analysis.Sentiment)
}

func TestAnalyzePositiveSentiment(t *testing.T) {
	t.Parallel()

	analysis := Analyze("Much more peaceful since the roadworks ended, it is quiet now")
	assert.Equal(t, "positive", analysis.Sentiment)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate("Traffic is loud here"))
	assert.ErrorIs(t, Validate("   "), ErrEmptyFeedback)
	assert.ErrorIs(t, Validate(strings.Repeat("a", MaxFeedbackLength+1)), ErrFeedbackTooLong)
	assert.NoError(t, Validate(strings.Repeat("a", MaxFeedbackLength)))
}

func TestApproximateArea(t *testing.T) {
	t.Parallel()

	lat, lng := 40.71283, -74.00603
	assert.Equal(t, "Area near 40.71, -74.01", ApproximateArea(&lat, &lng))
	assert.Equal(t, "Unknown", ApproximateArea(nil, &lng))
	assert.Equal(t, "Unknown", ApproximateArea(&lat, nil))
}
