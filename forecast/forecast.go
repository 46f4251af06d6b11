// Package forecast predicts near-term noise levels for a location from
// historical observations, with a deterministic hour/weekday fallback pattern
// when no history exists. The model is a pattern table plus additive weather
// and traffic adjustments, which is all the demo's accuracy claims support.
package forecast

import (
	"math"
	"time"

	"ecosound/noise"
)

// Sample is one historical measurement feeding the forecaster.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	NoiseDb   float64   `json:"noiseDb"`
}

// Prediction is one forecast point.
type Prediction struct {
	Timestamp      time.Time     `json:"timestamp"`
	PredictedDb    float64       `json:"predictedDb"`
	Uncertainty    float64       `json:"uncertainty"`
	Confidence     float64       `json:"confidence"`
	DominantSource string        `json:"dominantSource"`
	Verdict        noise.Verdict `json:"verdict"`
}

// Interval summarises forecast reliability across all points.
type Interval struct {
	AverageConfidence  float64 `json:"averageConfidence"`
	AverageUncertainty float64 `json:"averageUncertainty"`
	Reliability        string  `json:"reliability"`
}

const (
	minPredictedDb = 35.0
	maxPredictedDb = 100.0

	defaultUncertaintyDb = 5.0
	maxUncertaintyDb     = 15.0
)

var weatherAdjustments = map[string]float64{
	"clear":      0,
	"rain":       -5, // rain dampens noise
	"heavy_rain": -8,
	"snow":       -3,
	"wind":       3, // wind can amplify noise
	"fog":        -2,
}

// Forecast produces one prediction per hour starting at now.
func Forecast(hours int, weather string, history []Sample, now time.Time) []Prediction {
	predictions := make([]Prediction, 0, hours)
	for i := 0; i < hours; i++ {
		future := now.Add(time.Duration(i) * time.Hour)
		hour := future.Hour()
		weekday := future.Weekday()

		predicted := historicalAverage(history, hour, weekday) +
			WeatherAdjustment(weather) +
			TrafficAdjustment(hour, weekday)
		predicted = math.Max(minPredictedDb, math.Min(maxPredictedDb, predicted))

		uncertainty := uncertaintyAt(history, hour)

		predictions = append(predictions, Prediction{
			Timestamp:      future,
			PredictedDb:    math.Round(predicted*10) / 10,
			Uncertainty:    math.Round(uncertainty*100) / 100,
			Confidence:     math.Round((1-uncertainty/20)*1000) / 10,
			DominantSource: PredictDominantSource(hour, weekday),
			Verdict:        noise.EvaluateCompliance(predicted),
		})
	}
	return predictions
}

// DefaultNoisePattern is the fallback hour/weekday loudness table used when
// no history covers the slot.
func DefaultNoisePattern(hour int, weekday time.Weekday) float64 {
	if isWeekend(weekday) {
		switch {
		case hour >= 6 && hour <= 10:
			return 55
		case hour >= 10 && hour <= 22:
			return 60
		default:
			return 45
		}
	}

	switch {
	case isRushHour(hour):
		return 75
	case hour >= 9 && hour <= 17:
		return 65
	case hour >= 22 || hour <= 6:
		return 50
	default:
		return 58
	}
}

// WeatherAdjustment shifts a prediction for the given conditions; unknown
// conditions leave it untouched.
func WeatherAdjustment(weather string) float64 {
	return weatherAdjustments[weather]
}

// TrafficAdjustment shifts a prediction for typical traffic patterns.
func TrafficAdjustment(hour int, weekday time.Weekday) float64 {
	if isWeekend(weekday) {
		return -3
	}
	switch {
	case isRushHour(hour):
		return 8
	case hour >= 22 || hour <= 6:
		return -5
	default:
		return 0
	}
}

// PredictDominantSource names the most likely source for a time slot.
func PredictDominantSource(hour int, weekday time.Weekday) string {
	weekend := isWeekend(weekday)
	switch {
	case isRushHour(hour):
		return "traffic"
	case hour >= 9 && hour <= 17 && !weekend:
		return "urban_activity"
	case hour >= 22 || hour <= 6:
		return "ambient"
	case weekend && hour >= 10 && hour <= 22:
		return "human_activity"
	default:
		return "mixed"
	}
}

// ConfidenceInterval summarises a forecast run.
func ConfidenceInterval(predictions []Prediction) Interval {
	if len(predictions) == 0 {
		return Interval{Reliability: "low"}
	}

	var confidenceSum, uncertaintySum float64
	for _, p := range predictions {
		confidenceSum += p.Confidence
		uncertaintySum += p.Uncertainty
	}
	avgConfidence := confidenceSum / float64(len(predictions))
	avgUncertainty := uncertaintySum / float64(len(predictions))

	reliability := "low"
	if avgConfidence > 80 {
		reliability = "high"
	} else if avgConfidence > 60 {
		reliability = "medium"
	}

	return Interval{
		AverageConfidence:  math.Round(avgConfidence*10) / 10,
		AverageUncertainty: math.Round(avgUncertainty*100) / 100,
		Reliability:        reliability,
	}
}

// historicalAverage means the samples matching this hour and weekday, falling
// back to the default pattern when none match.
func historicalAverage(history []Sample, hour int, weekday time.Weekday) float64 {
	var sum float64
	var count int
	for _, sample := range history {
		if sample.Timestamp.Hour() == hour && sample.Timestamp.Weekday() == weekday {
			sum += sample.NoiseDb
			count++
		}
	}
	if count == 0 {
		return DefaultNoisePattern(hour, weekday)
	}
	return sum / float64(count)
}

// uncertaintyAt estimates forecast uncertainty for an hour from the standard
// deviation of its historical samples, capped at maxUncertaintyDb.
func uncertaintyAt(history []Sample, hour int) float64 {
	var values []float64
	for _, sample := range history {
		if sample.Timestamp.Hour() == hour {
			values = append(values, sample.NoiseDb)
		}
	}
	if len(values) < 2 {
		return defaultUncertaintyDb
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return math.Min(maxUncertaintyDb, math.Sqrt(variance))
}

func isWeekend(weekday time.Weekday) bool {
	return weekday == time.Saturday || weekday == time.Sunday
}

func isRushHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)
}
