package forecast

import (
	"math"
	"sort"
	"time"
)

// HourlyAverage is the mean loudness for one hour of the day.
type HourlyAverage struct {
	Hour      int     `json:"hour"`
	AverageDb float64 `json:"averageDb"`
}

// PeakHour is an hour whose average breaches the critical threshold.
type PeakHour struct {
	Hour    int     `json:"hour"`
	LevelDb float64 `json:"levelDb"`
}

// Trends bundles the trend analysis for a location.
type Trends struct {
	HourlyAverages   []HourlyAverage    `json:"hourlyAverages"`
	SourceMix        map[string]float64 `json:"sourceMix"`
	TrendDirection   string             `json:"trendDirection"`
	ChangePercentage float64            `json:"changePercentage"`
	PeakHours        []PeakHour         `json:"peakHours"`
}

const peakHourThresholdDb = 70.0

// defaultSourceMix is the assumed urban source composition (percent) reported
// when observations carry no per-source breakdown.
var defaultSourceMix = map[string]float64{
	"traffic":        45,
	"construction":   20,
	"human_activity": 25,
	"industrial":     10,
}

// AnalyzeTrends computes hourly averages and the overall direction of change
// from historical samples. With no history the default weekday pattern is
// reported so the endpoint still returns a usable shape.
func AnalyzeTrends(history []Sample) Trends {
	hourly := hourlyAverages(history)

	direction, change := trendDirection(history)

	return Trends{
		HourlyAverages:   hourly,
		SourceMix:        defaultSourceMix,
		TrendDirection:   direction,
		ChangePercentage: change,
		PeakHours:        peakHours(hourly),
	}
}

func hourlyAverages(history []Sample) []HourlyAverage {
	averages := make([]HourlyAverage, 0, 24)
	for hour := 0; hour < 24; hour++ {
		var sum float64
		var count int
		for _, sample := range history {
			if sample.Timestamp.Hour() == hour {
				sum += sample.NoiseDb
				count++
			}
		}
		average := DefaultNoisePattern(hour, time.Tuesday)
		if count > 0 {
			average = math.Round(sum/float64(count)*10) / 10
		}
		averages = append(averages, HourlyAverage{Hour: hour, AverageDb: average})
	}
	return averages
}

// trendDirection compares the older and newer halves of the history.
func trendDirection(history []Sample) (string, float64) {
	if len(history) < 4 {
		return "stable", 0
	}

	sorted := make([]Sample, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	half := len(sorted) / 2
	olderMean := meanDb(sorted[:half])
	newerMean := meanDb(sorted[half:])
	if olderMean == 0 {
		return "stable", 0
	}

	change := (newerMean - olderMean) / olderMean * 100
	direction := "stable"
	if change > 2 {
		direction = "increasing"
	} else if change < -2 {
		direction = "decreasing"
	}

	return direction, math.Round(change*10) / 10
}

func peakHours(averages []HourlyAverage) []PeakHour {
	var peaks []PeakHour
	for _, entry := range averages {
		if entry.AverageDb > peakHourThresholdDb {
			peaks = append(peaks, PeakHour{Hour: entry.Hour, LevelDb: entry.AverageDb})
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].LevelDb != peaks[j].LevelDb {
			return peaks[i].LevelDb > peaks[j].LevelDb
		}
		return peaks[i].Hour < peaks[j].Hour
	})
	return peaks
}

func meanDb(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += sample.NoiseDb
	}
	return sum / float64(len(samples))
}
