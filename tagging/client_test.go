package tagging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTagServer(t *testing.T, status int, payload interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/classify":
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			if _, _, err := r.FormFile("audio"); err != nil {
				t.Errorf("missing audio form file: %v", err)
			}
			w.WriteHeader(status)
			if payload != nil {
				json.NewEncoder(w).Encode(payload)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClassifyBytes(t *testing.T) {
	server := newTagServer(t, http.StatusOK, map[string]interface{}{
		"results": []map[string]interface{}{
			{"label": "car engine", "score": 0.6},
			{"label": "speech", "score": 0.3},
		},
	})
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.ClassifyBytes([]byte("fake audio"), "clip.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Label != "car engine" || results[0].Score != 0.6 {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
}

func TestClassifyBytesEmptyResults(t *testing.T) {
	server := newTagServer(t, http.StatusOK, map[string]interface{}{"results": []interface{}{}})
	defer server.Close()

	if _, err := NewClient(server.URL).ClassifyBytes([]byte("x"), "clip.wav"); err == nil {
		t.Fatal("expected error for empty tag list")
	}
}

func TestClassifyBytesServiceError(t *testing.T) {
	server := newTagServer(t, http.StatusInternalServerError, nil)
	defer server.Close()

	if _, err := NewClient(server.URL).ClassifyBytes([]byte("x"), "clip.wav"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestHealthCheck(t *testing.T) {
	server := newTagServer(t, http.StatusOK, nil)
	defer server.Close()

	if err := NewClient(server.URL).HealthCheck(); err != nil {
		t.Fatalf("unexpected health check error: %v", err)
	}

	server.Close()
	if err := NewClient(server.URL).HealthCheck(); err == nil {
		t.Fatal("expected error once server is down")
	}
}
