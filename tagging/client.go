package tagging

// Client for the pretrained audio-tagging service. The model itself (loading,
// inference runtime) lives behind this HTTP boundary; the Go side only ships
// audio over and receives (label, score) pairs back. Any failure here is
// absorbed by the caller with a synthetic classification, never propagated as
// a crash.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ecosound/noise"
)

// Client communicates with the audio-tagging model service.
type Client struct {
	serviceURL string
	client     *http.Client
}

// tagResponse is the wire format of the /classify endpoint.
type tagResponse struct {
	Results []noise.LabelScore `json:"results"`
}

// NewClient creates a tagging client for the given service URL.
func NewClient(serviceURL string) *Client {
	if serviceURL == "" {
		serviceURL = "http://localhost:5002"
	}

	return &Client{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthCheck verifies the tagging service is running.
func (c *Client) HealthCheck() error {
	resp, err := c.client.Get(c.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("tagging service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tagging service unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

// Classify sends an audio file to the tagging service and returns its raw
// (label, score) pairs, best first.
func (c *Client) Classify(audioPath string) ([]noise.LabelScore, error) {
	file, err := os.Open(filepath.Clean(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.post(body, writer.FormDataContentType())
}

// ClassifyBytes sends in-memory audio to the tagging service.
func (c *Client) ClassifyBytes(audioData []byte, filename string) ([]noise.LabelScore, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.post(body, writer.FormDataContentType())
}

func (c *Client) post(body *bytes.Buffer, contentType string) ([]noise.LabelScore, error) {
	req, err := http.NewRequest(http.MethodPost, c.serviceURL+"/classify", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagging request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tagging service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tagResp tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&tagResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(tagResp.Results) == 0 {
		return nil, fmt.Errorf("received empty tag list")
	}

	return tagResp.Results, nil
}
