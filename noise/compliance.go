package noise

// Compliance evaluator
//
// Pure mapping from an estimated decibel value to a verdict against the WHO
// community-noise thresholds the original demo used. The thresholds are named
// constants so they stay independently testable and overridable in derived
// tooling.

const (
	// QuietThresholdDb bounds the fully quiet sub-band; levels below it are
	// still VerdictSafe, the constant exists for reporting granularity.
	QuietThresholdDb = 40.0

	// DaytimeLimitDb is the WHO daytime guideline; at or above it the level
	// exceeds the limit.
	DaytimeLimitDb = 55.0

	// CriticalThresholdDb marks a health-risk level.
	CriticalThresholdDb = 70.0
)

// Verdict classifies an estimated decibel value against the fixed thresholds.
type Verdict string

const (
	VerdictSafe         Verdict = "safe"
	VerdictExceedsLimit Verdict = "exceeds_limit"
	VerdictCritical     Verdict = "critical"

	// VerdictModerate is the alternate name the UI uses for the
	// [DaytimeLimitDb, CriticalThresholdDb) band.
	VerdictModerate = VerdictExceedsLimit
)

// EvaluateCompliance maps a decibel value to its verdict. Boundaries are
// inclusive on the upper band: 55.0 already exceeds, 70.0 is already critical.
func EvaluateCompliance(decibel float64) Verdict {
	switch {
	case decibel >= CriticalThresholdDb:
		return VerdictCritical
	case decibel >= DaytimeLimitDb:
		return VerdictExceedsLimit
	default:
		return VerdictSafe
	}
}

// Severity orders verdicts for monotonicity checks and severity comparisons.
func (v Verdict) Severity() int {
	switch v {
	case VerdictCritical:
		return 2
	case VerdictExceedsLimit:
		return 1
	default:
		return 0
	}
}

// Exceeds reports whether the verdict breaches the daytime limit.
func (v Verdict) Exceeds() bool {
	return v.Severity() >= 1
}

// Label returns the user-facing status string for the verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictCritical:
		return "Critical - Health Risk"
	case VerdictExceedsLimit:
		return "Exceeds WHO Daytime Limit"
	default:
		return "Within Safe Limits"
	}
}
