package noise

import "testing"

func TestEvaluateComplianceBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		decibel float64
		want    Verdict
	}{
		{0, VerdictSafe},
		{39.9, VerdictSafe},
		{40.0, VerdictSafe},
		{54.9, VerdictSafe},
		{55.0, VerdictExceedsLimit},
		{69.9, VerdictExceedsLimit},
		{70.0, VerdictCritical},
		{110, VerdictCritical},
	}

	for _, tc := range cases {
		if got := EvaluateCompliance(tc.decibel); got != tc.want {
			t.Errorf("EvaluateCompliance(%.1f) = %s, want %s", tc.decibel, got, tc.want)
		}
	}
}

func TestVerdictSeverityMonotone(t *testing.T) {
	t.Parallel()

	prev := -1
	for decibel := 0.0; decibel <= 120.0; decibel += 0.1 {
		severity := EvaluateCompliance(decibel).Severity()
		if severity < prev {
			t.Fatalf("severity decreased at %.1f dB", decibel)
		}
		prev = severity
	}
}

func TestVerdictExceeds(t *testing.T) {
	t.Parallel()

	if VerdictSafe.Exceeds() {
		t.Error("safe verdict must not report a limit breach")
	}
	if !VerdictExceedsLimit.Exceeds() || !VerdictCritical.Exceeds() {
		t.Error("exceeds_limit and critical must report a limit breach")
	}
	if VerdictModerate != VerdictExceedsLimit {
		t.Error("moderate must alias the exceeds_limit band")
	}
}
