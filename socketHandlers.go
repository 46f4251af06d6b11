package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"

	"ecosound/models"
	"ecosound/noise"
	"ecosound/observations"
	"ecosound/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/mdobak/go-xerrors"
)

type socketController struct {
	analyzer *analyzer
}

func newSocketController(analyzer *analyzer) *socketController {
	return &socketController{analyzer: analyzer}
}

// socketMapSink pushes finished annotations to the connected browser as
// mapAnnotation events.
type socketMapSink struct {
	socket socketio.Conn
}

func (s socketMapSink) AddMarker(annotation noise.MapAnnotation) {
	s.socket.Emit("mapAnnotation", annotation)
}

// socketNotifier surfaces status banners on the client.
type socketNotifier struct {
	socket socketio.Conn
}

func (s socketNotifier) ShowStatus(message, severity string) {
	s.socket.Emit("status", map[string]string{
		"message":  message,
		"severity": severity,
	})
}

// emitObservationHistory sends the stored markers so a fresh client can paint
// the map before its first recording.
func (c *socketController) emitObservationHistory(socket socketio.Conn) {
	logger := utils.GetLogger()
	ctx := context.Background()

	var (
		history []models.Observation
		err     error
	)
	if c.analyzer.database != nil {
		history, err = c.analyzer.database.GetAllObservations()
	} else {
		history, err = observations.LoadObservations()
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load observation history", slog.Any("error", err))
		return
	}

	socket.Emit("observationHistory", history)
}

func (c *socketController) handleRequestObservations(socket socketio.Conn) {
	c.emitObservationHistory(socket)
}

func (c *socketController) handleNewRecording(socket socketio.Conn, recordData string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	log.Printf("[handleNewRecording] Starting for socket %s, data length: %d\n", socket.ID(), len(recordData))

	if recordData == "" {
		logger.ErrorContext(ctx, "no data received in newRecording event")
		socket.Emit("analysisError", map[string]string{"message": "no audio data received"})
		return
	}

	var recData models.RecordData
	if err := json.Unmarshal([]byte(recordData), &recData); err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to parse record payload", slog.Any("error", err))
		socket.Emit("analysisError", map[string]string{"message": "invalid audio payload"})
		return
	}

	logger.InfoContext(ctx, "received recording",
		slog.String("socketID", socket.ID()),
		slog.Int("sampleRate", recData.SampleRate),
		slog.Int("channels", recData.Channels),
		slog.Float64("duration", recData.Duration),
		slog.Bool("hasLocation", recData.Latitude != nil && recData.Longitude != nil),
	)

	summary, err := c.analyzer.analyze(ctx, recData)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to analyze recording", slog.Any("error", err))
		socket.Emit("analysisError", map[string]string{"message": "unable to decode audio"})
		return
	}

	c.analyzer.aggregator.Publish(summary.Annotation, socketMapSink{socket}, socketNotifier{socket})
	socket.Emit("classification", summary)

	log.Printf("[handleNewRecording] Emitted classification for socket %s: category=%s, estimatedDb=%.1f\n",
		socket.ID(), summary.Annotation.Category, summary.EstimatedDb)
}
