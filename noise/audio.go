package noise

// Inbound audio validation
//
// The browser sends audio as a base64 payload (optionally a data URL). Before
// anything reaches the classification pipeline the payload is decoded, capped
// in size, and sniffed for a supported container. Invalid input is rejected
// here, surfaced to the caller, and never produces a classification attempt.

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecosound/models"
	"ecosound/utils"
)

const (
	// MaxAudioBytes caps uploads at 16 MiB, matching the original demo limit.
	MaxAudioBytes = 16 << 20
)

var (
	// ErrAudioTooLarge rejects oversize uploads.
	ErrAudioTooLarge = errors.New("audio payload exceeds 16 MiB limit")
	// ErrUnsupportedFormat rejects containers the tagging model cannot read.
	ErrUnsupportedFormat = errors.New("unsupported audio format (expected wav, mp3, m4a, ogg or webm)")
)

// AudioSample bundles the validated audio bytes with capture metadata.
type AudioSample struct {
	Data       []byte
	Format     string
	SampleRate int
	Channels   int
	Duration   float64
	Persisted  string
}

// PrepareAudioSample decodes and validates the client payload. When persist is
// set the sample is written under the recording directory so the tagging
// service can read it from disk.
func PrepareAudioSample(recData models.RecordData, persist bool) (*AudioSample, error) {
	payload := recData.Audio
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		payload = payload[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio: %w", err)
	}

	if len(decoded) > MaxAudioBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrAudioTooLarge, len(decoded))
	}

	format := sniffFormat(decoded)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	duration := recData.Duration
	if duration <= 0 && recData.SampleRate > 0 && recData.SampleSize > 0 {
		bytesPerSecond := recData.SampleRate * recData.Channels * recData.SampleSize / 8
		if bytesPerSecond > 0 {
			duration = float64(len(decoded)) / float64(bytesPerSecond)
		}
	}

	sample := &AudioSample{
		Data:       decoded,
		Format:     format,
		SampleRate: recData.SampleRate,
		Channels:   recData.Channels,
		Duration:   duration,
	}

	if persist {
		recordingDir := utils.GetEnv("NOISE_RECORDING_DIR", filepath.Join("tmp", "recordings"))
		if err := utils.CreateFolder(recordingDir); err == nil {
			fileName := fmt.Sprintf("rec_%d.%s", time.Now().UnixNano(), format)
			destination := filepath.Join(recordingDir, fileName)
			if err := os.WriteFile(destination, decoded, 0644); err == nil {
				sample.Persisted = destination
			}
		}
	}

	return sample, nil
}

// sniffFormat identifies the container from its magic bytes. Returns "" when
// the data matches none of the supported formats.
func sniffFormat(data []byte) string {
	if len(data) < 12 {
		return ""
	}
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "wav"
	case bytes.HasPrefix(data, []byte("ID3")),
		len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "ogg"
	case bytes.Equal(data[4:8], []byte("ftyp")):
		return "m4a"
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "webm"
	default:
		return ""
	}
}
