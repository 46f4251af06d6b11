package zoning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecosound/forecast"
)

func sampleAt(hour int, db float64) forecast.Sample {
	return forecast.Sample{
		Timestamp: time.Date(2025, 9, 23, hour, 0, 0, 0, time.UTC),
		NoiseDb:   db,
	}
}

func TestAssessCompliantZone(t *testing.T) {
	t.Parallel()

	report := Assess([]forecast.Sample{
		sampleAt(10, 50),
		sampleAt(14, 52),
		sampleAt(23, 40),
	}, "residential")

	assert.Equal(t, "compliant", report.Status)
	assert.Equal(t, 100, report.ComplianceScore)
	assert.Empty(t, report.Violations)
	assert.Zero(t, report.RiskScore)
}

func TestAssessCriticalViolation(t *testing.T) {
	t.Parallel()

	report := Assess([]forecast.Sample{sampleAt(12, 80)}, "residential")

	require.Len(t, report.Violations, 1)
	violation := report.Violations[0]
	assert.Equal(t, "critical", violation.Type)
	assert.Equal(t, "high", violation.Severity)
	assert.Equal(t, 65.0, violation.LimitDb)
	assert.Equal(t, 15.0, violation.ExcessDb)
	assert.Equal(t, 90, report.ComplianceScore)
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "immediate_action", report.Recommendations[0].Category)
}

func TestAssessNightLimitsAreStricter(t *testing.T) {
	t.Parallel()

	// 50 dB passes the residential day limit (55) but breaches night (45).
	day := Assess([]forecast.Sample{sampleAt(12, 50)}, "residential")
	night := Assess([]forecast.Sample{sampleAt(23, 50)}, "residential")

	assert.Empty(t, day.Violations)
	require.Len(t, night.Violations, 1)
	assert.Equal(t, "period_violation", night.Violations[0].Type)
	assert.Equal(t, "night", night.Violations[0].Period)
	assert.Equal(t, 98, night.ComplianceScore)
}

func TestAssessUnknownZoneFallsBackToResidential(t *testing.T) {
	t.Parallel()

	report := Assess(nil, "spaceport")
	assert.Equal(t, "residential", report.ZoneType)
	assert.Equal(t, 55.0, report.Limits.DayDb)
}

func TestAssessNonCompliantStatus(t *testing.T) {
	t.Parallel()

	var history []forecast.Sample
	for i := 0; i < 3; i++ {
		history = append(history, sampleAt(10+i, 80)) // three critical breaches, -30
	}

	report := Assess(history, "residential")
	assert.Equal(t, "non_compliant", report.Status)
	assert.Equal(t, 70, report.ComplianceScore)
	assert.Greater(t, report.RiskScore, 50.0)
}

func TestPeakViolationHours(t *testing.T) {
	t.Parallel()

	history := []forecast.Sample{
		sampleAt(8, 80), sampleAt(8, 82), sampleAt(8, 85),
		sampleAt(17, 81), sampleAt(17, 79),
		sampleAt(12, 90),
		sampleAt(14, 75),
	}

	report := Assess(history, "residential")
	require.Len(t, report.PeakHours, 3)
	assert.Equal(t, 8, report.PeakHours[0].Hour)
	assert.Equal(t, 3, report.PeakHours[0].Violations)
	assert.Equal(t, 17, report.PeakHours[1].Hour)
}

func TestRiskScoreCappedAt100(t *testing.T) {
	t.Parallel()

	var history []forecast.Sample
	for i := 0; i < 24; i++ {
		history = append(history, sampleAt(i%24, 95))
	}

	report := Assess(history, "hospital")
	assert.LessOrEqual(t, report.RiskScore, 100.0)
	assert.Equal(t, 0, report.ComplianceScore)
}

func TestLimitsForTable(t *testing.T) {
	t.Parallel()

	hospital, zone := LimitsFor("hospital")
	assert.Equal(t, "hospital", zone)
	assert.Equal(t, 45.0, hospital.DayDb)

	industrial, _ := LimitsFor("industrial")
	assert.Greater(t, industrial.DayDb, hospital.DayDb)
}
