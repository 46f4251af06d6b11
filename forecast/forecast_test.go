package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecosound/noise"
)

// Tuesday 2025-09-23; a weekday with a rush hour at 08:00.
var weekdayMorning = time.Date(2025, 9, 23, 8, 0, 0, 0, time.UTC)

func TestForecastWithoutHistoryUsesDefaultPattern(t *testing.T) {
	t.Parallel()

	predictions := Forecast(1, "clear", nil, weekdayMorning)
	require.Len(t, predictions, 1)

	// Rush hour default 75 + traffic adjustment 8.
	assert.Equal(t, 83.0, predictions[0].PredictedDb)
	assert.Equal(t, "traffic", predictions[0].DominantSource)
	assert.Equal(t, noise.VerdictCritical, predictions[0].Verdict)
	assert.Equal(t, defaultUncertaintyDb, predictions[0].Uncertainty)
}

func TestForecastWeatherAdjustment(t *testing.T) {
	t.Parallel()

	clear := Forecast(1, "clear", nil, weekdayMorning)[0].PredictedDb
	rain := Forecast(1, "rain", nil, weekdayMorning)[0].PredictedDb
	wind := Forecast(1, "wind", nil, weekdayMorning)[0].PredictedDb

	assert.Equal(t, clear-5, rain)
	assert.Equal(t, clear+3, wind)
	// Unknown weather behaves like clear.
	assert.Equal(t, clear, Forecast(1, "hail", nil, weekdayMorning)[0].PredictedDb)
}

func TestForecastUsesHistoricalAverage(t *testing.T) {
	t.Parallel()

	// Two samples at the same hour and weekday one/two weeks earlier.
	history := []Sample{
		{Timestamp: weekdayMorning.AddDate(0, 0, -7), NoiseDb: 60},
		{Timestamp: weekdayMorning.AddDate(0, 0, -14), NoiseDb: 70},
	}

	prediction := Forecast(1, "clear", history, weekdayMorning)[0]
	// mean 65 + rush traffic 8
	assert.Equal(t, 73.0, prediction.PredictedDb)
	// Two samples at this hour: uncertainty is their stddev (5), not default.
	assert.Equal(t, 5.0, prediction.Uncertainty)
	assert.Equal(t, 75.0, prediction.Confidence)
}

func TestForecastClampsToRealisticRange(t *testing.T) {
	t.Parallel()

	loud := []Sample{
		{Timestamp: weekdayMorning.AddDate(0, 0, -7), NoiseDb: 150},
		{Timestamp: weekdayMorning.AddDate(0, 0, -14), NoiseDb: 150},
	}
	assert.Equal(t, maxPredictedDb, Forecast(1, "clear", loud, weekdayMorning)[0].PredictedDb)

	quiet := []Sample{
		{Timestamp: weekdayMorning.AddDate(0, 0, -7), NoiseDb: 0},
		{Timestamp: weekdayMorning.AddDate(0, 0, -14), NoiseDb: 0},
	}
	assert.Equal(t, minPredictedDb, Forecast(1, "rain", quiet, weekdayMorning)[0].PredictedDb)
}

func TestDefaultNoisePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 75.0, DefaultNoisePattern(8, time.Monday))
	assert.Equal(t, 65.0, DefaultNoisePattern(13, time.Monday))
	assert.Equal(t, 50.0, DefaultNoisePattern(2, time.Monday))
	assert.Equal(t, 55.0, DefaultNoisePattern(7, time.Saturday))
	assert.Equal(t, 60.0, DefaultNoisePattern(15, time.Sunday))
	assert.Equal(t, 45.0, DefaultNoisePattern(3, time.Saturday))
}

func TestPredictDominantSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "traffic", PredictDominantSource(8, time.Monday))
	assert.Equal(t, "urban_activity", PredictDominantSource(13, time.Monday))
	assert.Equal(t, "ambient", PredictDominantSource(2, time.Monday))
	assert.Equal(t, "human_activity", PredictDominantSource(15, time.Saturday))
}

func TestConfidenceInterval(t *testing.T) {
	t.Parallel()

	predictions := []Prediction{
		{Confidence: 90, Uncertainty: 2},
		{Confidence: 80, Uncertainty: 4},
	}
	interval := ConfidenceInterval(predictions)
	assert.Equal(t, 85.0, interval.AverageConfidence)
	assert.Equal(t, 3.0, interval.AverageUncertainty)
	assert.Equal(t, "high", interval.Reliability)

	assert.Equal(t, "low", ConfidenceInterval(nil).Reliability)
}

func TestAnalyzeTrendsDetectsDirection(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	var history []Sample
	for i := 0; i < 10; i++ {
		history = append(history, Sample{
			Timestamp: base.AddDate(0, 0, i),
			NoiseDb:   50 + float64(i)*3,
		})
	}

	trends := AnalyzeTrends(history)
	assert.Equal(t, "increasing", trends.TrendDirection)
	assert.Greater(t, trends.ChangePercentage, 2.0)
	assert.Len(t, trends.HourlyAverages, 24)
}

func TestAnalyzeTrendsPeakHours(t *testing.T) {
	t.Parallel()

	// Default weekday pattern peaks at rush hours (75 dB > 70).
	trends := AnalyzeTrends(nil)
	require.NotEmpty(t, trends.PeakHours)
	for _, peak := range trends.PeakHours {
		assert.Greater(t, peak.LevelDb, peakHourThresholdDb)
	}
	assert.Equal(t, "stable", trends.TrendDirection)
}
