// Package zoning assesses measured noise against per-zone regulatory limits:
// day and night limits plus a never-exceed critical limit per zone type. The
// output is a compliance report with violations, a risk score and mitigation
// recommendations.
package zoning

import (
	"math"
	"sort"
	"strconv"
	"time"

	"ecosound/forecast"
)

// Limits holds the decibel limits for one zone type.
type Limits struct {
	DayDb      float64 `json:"dayDb"`      // 06:00 - 22:00
	NightDb    float64 `json:"nightDb"`    // 22:00 - 06:00
	CriticalDb float64 `json:"criticalDb"` // never exceed
}

// zoneLimits is the static regulatory table; unknown zone types fall back to
// residential.
var zoneLimits = map[string]Limits{
	"residential": {DayDb: 55, NightDb: 45, CriticalDb: 65},
	"commercial":  {DayDb: 65, NightDb: 55, CriticalDb: 75},
	"industrial":  {DayDb: 70, NightDb: 60, CriticalDb: 80},
	"mixed":       {DayDb: 60, NightDb: 50, CriticalDb: 70},
	"educational": {DayDb: 50, NightDb: 45, CriticalDb: 60},
	"hospital":    {DayDb: 45, NightDb: 40, CriticalDb: 55},
}

// Violation records one measurement breaching the applicable limit.
type Violation struct {
	Type       string    `json:"type"` // "critical" or "period_violation"
	Timestamp  time.Time `json:"timestamp"`
	MeasuredDb float64   `json:"measuredDb"`
	LimitDb    float64   `json:"limitDb"`
	ExcessDb   float64   `json:"excessDb"`
	Severity   string    `json:"severity"`
	Period     string    `json:"period,omitempty"` // "day" or "night"
}

// Recommendation is an actionable mitigation suggestion.
type Recommendation struct {
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// PeakHour counts violations in one hour of the day.
type PeakHour struct {
	Hour       int `json:"hour"`
	Violations int `json:"violations"`
}

// Report is the full compliance assessment for a zone.
type Report struct {
	ZoneType        string           `json:"zoneType"`
	Status          string           `json:"status"` // "compliant" or "non_compliant"
	ComplianceScore int              `json:"complianceScore"`
	Violations      []Violation      `json:"violations"`
	TotalViolations int              `json:"totalViolations"`
	Recommendations []Recommendation `json:"recommendations"`
	RiskScore       float64          `json:"riskScore"`
	PeakHours       []PeakHour       `json:"peakHours"`
	Limits          Limits           `json:"zoneLimits"`
}

// LimitsFor returns the limits for a zone type, defaulting to residential.
func LimitsFor(zoneType string) (Limits, string) {
	if limits, ok := zoneLimits[zoneType]; ok {
		return limits, zoneType
	}
	return zoneLimits["residential"], "residential"
}

// Assess scans historical measurements against the zone's limits.
func Assess(history []forecast.Sample, zoneType string) Report {
	limits, resolvedZone := LimitsFor(zoneType)

	var violations []Violation
	score := 100
	for _, sample := range history {
		hour := sample.Timestamp.Hour()
		night := isNight(hour)
		applicable := limits.DayDb
		if night {
			applicable = limits.NightDb
		}

		switch {
		case sample.NoiseDb > limits.CriticalDb:
			violations = append(violations, Violation{
				Type:       "critical",
				Timestamp:  sample.Timestamp,
				MeasuredDb: sample.NoiseDb,
				LimitDb:    limits.CriticalDb,
				ExcessDb:   sample.NoiseDb - limits.CriticalDb,
				Severity:   "high",
			})
			score -= 10
		case sample.NoiseDb > applicable:
			severity := "low"
			if sample.NoiseDb > applicable+5 {
				severity = "medium"
			}
			period := "day"
			penalty := 1
			if night {
				period = "night"
				penalty = 2
			}
			violations = append(violations, Violation{
				Type:       "period_violation",
				Timestamp:  sample.Timestamp,
				MeasuredDb: sample.NoiseDb,
				LimitDb:    applicable,
				ExcessDb:   sample.NoiseDb - applicable,
				Severity:   severity,
				Period:     period,
			})
			score -= penalty
		}
	}
	if score < 0 {
		score = 0
	}

	status := "compliant"
	if score < 80 {
		status = "non_compliant"
	}

	return Report{
		ZoneType:        resolvedZone,
		Status:          status,
		ComplianceScore: score,
		Violations:      violations,
		TotalViolations: len(violations),
		Recommendations: recommendations(violations, resolvedZone, limits),
		RiskScore:       riskScore(violations, len(history)),
		PeakHours:       peakViolationHours(violations),
		Limits:          limits,
	}
}

func recommendations(violations []Violation, zoneType string, limits Limits) []Recommendation {
	var recs []Recommendation

	var critical, night, day int
	for _, v := range violations {
		switch {
		case v.Type == "critical":
			critical++
		case v.Period == "night":
			night++
		case v.Period == "day":
			day++
		}
	}

	if critical > 0 {
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "immediate_action",
			Title:       "Critical Noise Level Violations",
			Description: describeCount(critical, "instances exceeded the critical limit"),
			Actions: []string{
				"Immediate noise source investigation required",
				"Consider temporary noise barriers",
				"Implement continuous noise monitoring",
				"Issue noise citations if applicable",
			},
		})
	}

	if night > day && night > 5 {
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "nighttime_mitigation",
			Title:       "Excessive Nighttime Noise",
			Description: describeCount(night, "nighttime violations"),
			Actions: []string{
				"Enforce stricter nighttime noise ordinances",
				"Install noise barriers along major roads",
				"Restrict heavy vehicle traffic during night hours",
				"Consider rezoning if violations persist",
			},
		})
	}

	if zoneType == "residential" && day > 10 {
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "green_infrastructure",
			Title:       "Green Space Noise Mitigation",
			Description: "Multiple daytime violations in residential zone",
			Actions: []string{
				"Plant noise-absorbing vegetation barriers",
				"Create buffer zones with parks and green spaces",
				"Install acoustic fencing where appropriate",
				"Consider traffic calming measures",
			},
		})
	}

	if len(violations) > 20 {
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "infrastructure",
			Title:       "Infrastructure Improvements",
			Description: "High frequency of noise violations indicates systemic issues",
			Actions: []string{
				"Conduct comprehensive noise source mapping",
				"Evaluate quieter road surface options",
				"Optimize traffic signal timing to reduce stop-start noise",
				"Consider alternative transportation options",
			},
		})
	}

	return recs
}

// riskScore weighs violation frequency and severity into a 0-100 score.
func riskScore(violations []Violation, totalMeasurements int) float64 {
	if totalMeasurements == 0 {
		return 0
	}

	severityWeights := map[string]float64{"high": 3, "medium": 2, "low": 1}
	var weighted float64
	for _, v := range violations {
		weight, ok := severityWeights[v.Severity]
		if !ok {
			weight = 1
		}
		weighted += weight
	}

	rate := float64(len(violations)) / float64(totalMeasurements)
	score := math.Min(100, rate*100+weighted/float64(totalMeasurements)*50)
	return math.Round(score*10) / 10
}

// peakViolationHours returns the top three hours by violation count.
func peakViolationHours(violations []Violation) []PeakHour {
	counts := map[int]int{}
	for _, v := range violations {
		counts[v.Timestamp.Hour()]++
	}

	peaks := make([]PeakHour, 0, len(counts))
	for hour, count := range counts {
		peaks = append(peaks, PeakHour{Hour: hour, Violations: count})
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Violations != peaks[j].Violations {
			return peaks[i].Violations > peaks[j].Violations
		}
		return peaks[i].Hour < peaks[j].Hour
	})
	if len(peaks) > 3 {
		peaks = peaks[:3]
	}
	return peaks
}

func isNight(hour int) bool {
	return hour >= 22 || hour <= 6
}

func describeCount(count int, what string) string {
	return strconv.Itoa(count) + " " + what
}
