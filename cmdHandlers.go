package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecosound/chat"
	"ecosound/db"
	"ecosound/feedback"
	"ecosound/forecast"
	"ecosound/models"
	"ecosound/noise"
	"ecosound/observations"
	"ecosound/tagging"
	"ecosound/utils"
	"ecosound/zoning"

	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/mdobak/go-xerrors"
)

type apiError struct {
	Message string `json:"message"`
}

const (
	defaultForecastHours = 24
	maxForecastHours     = 72

	defaultHistoryRadiusKm = 1.0
	defaultHistoryDays     = 30
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

// handleCORS writes the shared CORS headers and answers preflight requests.
// Returns true when the request was fully handled.
func handleCORS(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Credentials", "true")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// loadHistory turns stored observations near a point into forecast samples.
// Without a database the file log is used unfiltered; the demo map is small
// enough that the distinction does not matter there.
func loadHistory(database db.NoiseDB, lat, lng, radiusKm float64, days int) ([]forecast.Sample, error) {
	var (
		stored []models.Observation
		err    error
	)
	if database != nil {
		stored, err = database.GetObservationsNear(lat, lng, radiusKm, days)
	} else {
		stored, err = observations.LoadObservations()
	}
	if err != nil {
		return nil, err
	}

	samples := make([]forecast.Sample, 0, len(stored))
	for _, observation := range stored {
		samples = append(samples, forecast.Sample{
			Timestamp: observation.Timestamp,
			NoiseDb:   observation.NoiseDb,
		})
	}
	return samples, nil
}

func newAudioClassificationHandler(analyzer *analyzer) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.WithRequestID(context.Background(), uuid.NewString())

		if handleCORS(w, r, "POST") {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var recData models.RecordData
		if err := json.NewDecoder(r.Body).Decode(&recData); err != nil {
			logger.ErrorContext(ctx, "failed to parse request body", slog.Any("error", err))
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		log.Printf("[HTTP] Audio classification request: sampleRate=%d, channels=%d, duration=%.2f, lat=%v, lng=%v\n",
			recData.SampleRate, recData.Channels, recData.Duration, recData.Latitude, recData.Longitude)

		summary, err := analyzer.analyze(ctx, recData)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to analyze recording", slog.Any("error", err))
			message := "unable to decode audio"
			if errors.Is(err, noise.ErrAudioTooLarge) || errors.Is(err, noise.ErrUnsupportedFormat) {
				message = err.Error()
			}
			writeJSONError(w, http.StatusBadRequest, message)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

func newObservationsHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var (
			stored []models.Observation
			err    error
		)
		if database != nil {
			stored, err = database.GetAllObservations()
		} else {
			stored, err = observations.LoadObservations()
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to load observations", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to load observations")
			return
		}

		writeJSON(w, http.StatusOK, stored)
	}
}

type feedbackRequest struct {
	Feedback   string   `json:"feedback"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	NoiseLevel *float64 `json:"noiseLevel,omitempty"`
}

type feedbackResponse struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Analysis feedback.Analysis `json:"analysis"`
}

func newFeedbackSubmitHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "POST") {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if database == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "feedback storage not configured")
			return
		}

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		if err := feedback.Validate(req.Feedback); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		analysis := feedback.Analyze(req.Feedback)
		analysisJSON, err := json.Marshal(analysis)
		if err != nil {
			logger.ErrorContext(ctx, "failed to marshal feedback analysis", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to process feedback")
			return
		}

		entry := &models.FeedbackEntry{
			ID:        uuid.NewString(),
			Text:      strings.TrimSpace(req.Feedback),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			NoiseDb:   req.NoiseLevel,
			Timestamp: time.Now(),
			Analysis:  analysisJSON,
			Status:    "received",
		}

		if err := database.StoreFeedback(entry); err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to store feedback", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to store feedback")
			return
		}

		logger.InfoContext(ctx, "feedback stored",
			slog.String("id", entry.ID),
			slog.String("urgency", analysis.Urgency),
			slog.Int("sources", len(analysis.NoiseSources)),
		)

		writeJSON(w, http.StatusOK, feedbackResponse{
			ID:       entry.ID,
			Status:   entry.Status,
			Analysis: analysis,
		})
	}
}

// recentFeedbackItem is the anonymized public listing: coordinates are blurred
// to an area description and the reporter-side fields are dropped.
type recentFeedbackItem struct {
	ID        string          `json:"id"`
	Feedback  string          `json:"feedback"`
	Timestamp time.Time       `json:"timestamp"`
	NoiseDb   *float64        `json:"noiseDb,omitempty"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Area      string          `json:"area"`
}

func newFeedbackRecentHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if database == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "feedback storage not configured")
			return
		}

		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				writeJSONError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = parsed
		}

		entries, err := database.GetRecentFeedback(limit)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to load recent feedback", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to load feedback")
			return
		}

		items := make([]recentFeedbackItem, 0, len(entries))
		for _, entry := range entries {
			items = append(items, recentFeedbackItem{
				ID:        entry.ID,
				Feedback:  entry.Text,
				Timestamp: entry.Timestamp,
				NoiseDb:   entry.NoiseDb,
				Analysis:  entry.Analysis,
				Area:      feedback.ApproximateArea(entry.Latitude, entry.Longitude),
			})
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func newFeedbackStatsHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if database == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "feedback storage not configured")
			return
		}

		stats, err := database.GetFeedbackStats()
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to compute feedback stats", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to compute stats")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

type forecastRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TimeHorizon int     `json:"timeHorizon"`
	Weather     string  `json:"weather"`
}

type forecastResponse struct {
	Predictions        []forecast.Prediction `json:"predictions"`
	ConfidenceInterval forecast.Interval     `json:"confidenceInterval"`
	Weather            string                `json:"weather"`
	HistorySamples     int                   `json:"historySamples"`
	GeneratedAt        time.Time             `json:"generatedAt"`
}

func newForecastHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "POST") {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req forecastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		hours := req.TimeHorizon
		if hours <= 0 {
			hours = defaultForecastHours
		}
		if hours > maxForecastHours {
			writeJSONError(w, http.StatusBadRequest, "timeHorizon must be at most 72 hours")
			return
		}
		weather := req.Weather
		if weather == "" {
			weather = "clear"
		}

		history, err := loadHistory(database, req.Latitude, req.Longitude, defaultHistoryRadiusKm, defaultHistoryDays)
		if err != nil {
			logger.WarnContext(ctx, "failed to load history, forecasting from default pattern",
				slog.Any("error", err))
			history = nil
		}

		now := time.Now()
		predictions := forecast.Forecast(hours, weather, history, now)

		if database != nil {
			for _, prediction := range predictions {
				record := &models.PredictionRecord{
					Latitude:    req.Latitude,
					Longitude:   req.Longitude,
					PredictedDb: prediction.PredictedDb,
					Confidence:  prediction.Confidence,
					Weather:     weather,
					Timestamp:   prediction.Timestamp,
				}
				if err := database.StorePrediction(record); err != nil {
					logger.ErrorContext(ctx, "failed to store prediction", slog.Any("error", err))
					break
				}
			}
		}

		writeJSON(w, http.StatusOK, forecastResponse{
			Predictions:        predictions,
			ConfidenceInterval: forecast.ConfidenceInterval(predictions),
			Weather:            weather,
			HistorySamples:     len(history),
			GeneratedAt:        now,
		})
	}
}

func newTrendsHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		query := r.URL.Query()
		lat, latErr := strconv.ParseFloat(query.Get("latitude"), 64)
		lng, lngErr := strconv.ParseFloat(query.Get("longitude"), 64)
		if latErr != nil || lngErr != nil {
			writeJSONError(w, http.StatusBadRequest, "latitude and longitude query parameters are required")
			return
		}

		days := defaultHistoryDays
		if raw := query.Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 365 {
				writeJSONError(w, http.StatusBadRequest, "days must be between 1 and 365")
				return
			}
			days = parsed
		}

		history, err := loadHistory(database, lat, lng, defaultHistoryRadiusKm, days)
		if err != nil {
			logger.WarnContext(ctx, "failed to load history, reporting default pattern",
				slog.Any("error", err))
			history = nil
		}

		writeJSON(w, http.StatusOK, forecast.AnalyzeTrends(history))
	}
}

func newHotspotsHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if database == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "hotspot analysis requires a database")
			return
		}

		query := r.URL.Query()

		threshold := noise.CriticalThresholdDb
		if raw := query.Get("threshold"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 || parsed > 150 {
				writeJSONError(w, http.StatusBadRequest, "threshold must be between 0 and 150")
				return
			}
			threshold = parsed
		}

		days := 7
		if raw := query.Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 365 {
				writeJSONError(w, http.StatusBadRequest, "days must be between 1 and 365")
				return
			}
			days = parsed
		}

		hotspots, err := database.GetHotspots(threshold, days)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to compute hotspots", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to compute hotspots")
			return
		}

		writeJSON(w, http.StatusOK, hotspots)
	}
}

type zoningRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ZoneType  string  `json:"zoneType"`
	RadiusKm  float64 `json:"radiusKm"`
	Days      int     `json:"days"`
}

func newZoningHandler(database db.NoiseDB) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "POST") {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req zoningRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		radius := req.RadiusKm
		if radius <= 0 {
			radius = 0.5
		}
		days := req.Days
		if days <= 0 {
			days = defaultHistoryDays
		}

		history, err := loadHistory(database, req.Latitude, req.Longitude, radius, days)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to load history for zoning analysis", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to load measurements")
			return
		}

		writeJSON(w, http.StatusOK, zoning.Assess(history, req.ZoneType))
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func newChatHandler(gemini *chat.GeminiClient) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if handleCORS(w, r, "POST") {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if gemini == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "chat assistant not configured")
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSONError(w, http.StatusBadRequest, "message is required")
			return
		}

		reply, err := gemini.GenerateResponse(req.Message)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "chat generation failed", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to generate response")
			return
		}

		writeJSON(w, http.StatusOK, chatResponse{Response: reply})
	}
}

type statusResponse struct {
	Status   string `json:"status"`
	Tagging  string `json:"tagging"`
	Database string `json:"database"`
	Chat     string `json:"chat"`
}

func newStatusHandler(tagger *tagging.Client, database db.NoiseDB, gemini *chat.GeminiClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handleCORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		status := statusResponse{
			Status:   "ok",
			Tagging:  "available",
			Database: "file",
			Chat:     "unavailable",
		}
		if err := tagger.HealthCheck(); err != nil {
			status.Tagging = "unavailable"
		}
		if database != nil {
			status.Database = strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite"))
		}
		if gemini != nil {
			status.Chat = "available"
		}

		writeJSON(w, http.StatusOK, status)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if handleCORS(w, r, "GET") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)
	var allowOriginFunc = func(r *http.Request) bool {
		return true
	}

	tagger := tagging.NewClient(utils.GetEnv("TAGGING_SERVICE_URL", "http://localhost:5002"))

	database, err := db.NewDBClient()
	if err != nil {
		log.Printf("WARNING: database unavailable (%v), falling back to file-backed observation log\n", err)
		database = nil
	} else {
		defer database.Close()
	}

	var gemini *chat.GeminiClient
	if client, chatErr := chat.NewGeminiClient(); chatErr != nil {
		log.Printf("Chat assistant disabled: %v\n", chatErr)
	} else {
		gemini = client
	}

	persistRecordings := strings.EqualFold(utils.GetEnv("NOISE_PERSIST_RECORDINGS", "true"), "true")
	aggregator := noise.NewAggregator(time.Now().UnixNano())
	pipeline := newAnalyzer(tagger, aggregator, database, persistRecordings)
	controller := newSocketController(pipeline)

	server := socketio.NewServer(&engineio.Options{
		PingTimeout:  60 * time.Second,
		PingInterval: 25 * time.Second,
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: allowOriginFunc,
			},
			&polling.Transport{
				CheckOrigin: allowOriginFunc,
			},
		},
	})

	server.OnConnect("/", func(socket socketio.Conn) error {
		socket.SetContext("")
		connURL := socket.URL()
		log.Printf("CONNECTED: %s, transport: %s, remote addr: %s\n", socket.ID(), connURL.String(), socket.RemoteAddr())
		controller.emitObservationHistory(socket)
		return nil
	})

	server.OnEvent("/", "requestObservations", func(socket socketio.Conn) {
		controller.handleRequestObservations(socket)
	})

	server.OnEvent("/", "newRecording", func(socket socketio.Conn, msg string) {
		log.Printf("newRecording event received from %s, data length: %d\n", socket.ID(), len(msg))
		// Run handler in goroutine to prevent blocking, with panic recovery
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleNewRecording for socket %s: %v\n", socket.ID(), r)
					socket.Emit("analysisError", map[string]string{"message": "internal server error during processing"})
				}
			}()
			controller.handleNewRecording(socket, msg)
		}()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("meet error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("Socket disconnected - ID: %s, Reason: %s\n", s.ID(), reason)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socketio listen error: %s\n", err)
		}
	}()
	defer server.Close()

	serveHTTPS := protocol == "https"

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	mux.HandleFunc("/api/audio/classify", newAudioClassificationHandler(pipeline))
	mux.HandleFunc("/api/observations", newObservationsHandler(database))
	mux.HandleFunc("/api/feedback/submit", newFeedbackSubmitHandler(database))
	mux.HandleFunc("/api/feedback/recent", newFeedbackRecentHandler(database))
	mux.HandleFunc("/api/feedback/stats", newFeedbackStatsHandler(database))
	mux.HandleFunc("/api/prediction/forecast", newForecastHandler(database))
	mux.HandleFunc("/api/prediction/trends", newTrendsHandler(database))
	mux.HandleFunc("/api/prediction/hotspots", newHotspotsHandler(database))
	mux.HandleFunc("/api/zoning/analysis", newZoningHandler(database))
	mux.HandleFunc("/api/chat", newChatHandler(gemini))
	mux.HandleFunc("/api/status", newStatusHandler(tagger, database, gemini))
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/", http.FileServer(http.Dir("static")))

	serveHTTP(server, serveHTTPS, port, mux)
}

func serveHTTP(socketServer *socketio.Server, serveHTTPS bool, port string, handler http.Handler) {
	if handler == nil {
		handler = socketServer
	}
	if serveHTTPS {
		httpsAddr := ":" + port
		httpsServer := &http.Server{
			Addr: httpsAddr,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			Handler: handler,
		}

		cert_key := utils.GetEnv("CERT_KEY", "")
		cert_file := utils.GetEnv("CERT_FILE", "")
		if cert_key == "" || cert_file == "" {
			log.Fatal("Missing cert")
		}

		log.Printf("Starting HTTPS server on %s\n", httpsAddr)
		if err := httpsServer.ListenAndServeTLS(cert_file, cert_key); err != nil {
			log.Fatalf("HTTPS server ListenAndServeTLS: %v", err)
		}
	}

	log.Printf("Starting HTTP server on port %v", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
