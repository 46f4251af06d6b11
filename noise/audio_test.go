package noise

import (
	"encoding/base64"
	"errors"
	"testing"

	"ecosound/models"
)

func wavPayload(size int) string {
	data := make([]byte, size)
	copy(data, "RIFF")
	copy(data[8:], "WAVE")
	return base64.StdEncoding.EncodeToString(data)
}

func TestPrepareAudioSampleAcceptsWav(t *testing.T) {
	t.Parallel()

	sample, err := PrepareAudioSample(models.RecordData{
		Audio:      wavPayload(1024),
		Duration:   2.5,
		SampleRate: 44100,
		Channels:   1,
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.Format != "wav" {
		t.Fatalf("expected wav format, got %s", sample.Format)
	}
	if sample.Duration != 2.5 {
		t.Fatalf("expected client duration to pass through, got %.2f", sample.Duration)
	}
	if sample.Persisted != "" {
		t.Fatal("sample must not persist unless requested")
	}
}

func TestPrepareAudioSampleStripsDataURLPrefix(t *testing.T) {
	t.Parallel()

	sample, err := PrepareAudioSample(models.RecordData{
		Audio: "data:audio/wav;base64," + wavPayload(64),
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.Format != "wav" {
		t.Fatalf("expected wav format, got %s", sample.Format)
	}
}

func TestPrepareAudioSampleRejectsOversizePayload(t *testing.T) {
	t.Parallel()

	_, err := PrepareAudioSample(models.RecordData{
		Audio: wavPayload(MaxAudioBytes + 1),
	}, false)
	if !errors.Is(err, ErrAudioTooLarge) {
		t.Fatalf("expected ErrAudioTooLarge, got %v", err)
	}
}

func TestPrepareAudioSampleRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	junk := base64.StdEncoding.EncodeToString([]byte("definitely not audio data"))
	_, err := PrepareAudioSample(models.RecordData{Audio: junk}, false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPrepareAudioSampleRejectsBadBase64(t *testing.T) {
	t.Parallel()

	if _, err := PrepareAudioSample(models.RecordData{Audio: "%%%not-base64%%%"}, false); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	ogg := append([]byte("OggS"), make([]byte, 12)...)
	if got := sniffFormat(ogg); got != "ogg" {
		t.Fatalf("expected ogg, got %q", got)
	}

	webm := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, make([]byte, 12)...)
	if got := sniffFormat(webm); got != "webm" {
		t.Fatalf("expected webm, got %q", got)
	}

	m4a := make([]byte, 16)
	copy(m4a[4:], "ftyp")
	if got := sniffFormat(m4a); got != "m4a" {
		t.Fatalf("expected m4a, got %q", got)
	}

	if got := sniffFormat([]byte{1, 2, 3}); got != "" {
		t.Fatalf("expected empty format for short data, got %q", got)
	}
}
