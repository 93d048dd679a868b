package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/middleware"
	"BizPulse/internal/service/stream"
	"BizPulse/internal/usecase"
	xhttp "BizPulse/pkg/http"
	xlogger "BizPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const streamWriteWait = 10 * time.Second

// StreamEchoHandler upgrades a session to a websocket. The server pushes a
// snapshot frame on connect and after every applied input change; the client
// sends partial input updates which are merged and fed through the input
// pipeline.
type StreamEchoHandler struct {
	logger       *xlogger.Logger
	sessions     *usecase.SessionUsecase
	bus          *stream.Broadcaster
	pipeline     *middleware.InputPipeline
	pingInterval time.Duration
	upgrader     websocket.Upgrader
}

func NewStreamEchoHandler(
	logger *xlogger.Logger,
	sessions *usecase.SessionUsecase,
	bus *stream.Broadcaster,
	pipeline *middleware.InputPipeline,
	pingInterval time.Duration,
) *StreamEchoHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &StreamEchoHandler{
		logger:       logger,
		sessions:     sessions,
		bus:          bus,
		pipeline:     pipeline,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser origin policy is handled by CORS on the REST surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/sessions/:id/stream", h.Stream)
}

type streamFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type inboundFrame struct {
	Type string                     `json:"type"`
	Data models.UpdateInputsRequest `json:"data"`
}

func (h *StreamEchoHandler) Stream(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessions.Get(c.Request().Context(), id); err != nil {
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed",
			xlogger.String("session_id", id), xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	sub, cancel := h.bus.Subscribe(id)
	defer cancel()

	snap, err := h.sessions.Snapshot(context.Background(), id)
	if err != nil {
		h.logger.Error("stream first snapshot failed",
			xlogger.String("session_id", id), xlogger.Error(err))
		return nil
	}
	if err := h.writeFrame(conn, streamFrame{Type: "snapshot", Data: models.NewSnapshotPayload(snap)}); err != nil {
		return nil
	}
	h.logger.Debug("stream connected", xlogger.String("session_id", id))

	done := make(chan struct{})
	go h.readPump(conn, id, done)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case snap, ok := <-sub:
			if !ok {
				return nil
			}
			if err := h.writeFrame(conn, streamFrame{Type: "snapshot", Data: models.NewSnapshotPayload(snap)}); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// readPump consumes client frames until the connection drops. Only "inputs"
// frames are acted on; anything else is ignored.
func (h *StreamEchoHandler) readPump(conn *websocket.Conn, id string, done chan<- struct{}) {
	defer close(done)

	pongWait := 2 * h.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame inboundFrame
		if err := json.Unmarshal(b, &frame); err != nil || frame.Type != "inputs" {
			continue
		}
		if verr := xhttp.ValidateStruct(context.Background(), &frame.Data); verr != nil {
			h.logger.Debug("stream inputs rejected",
				xlogger.String("session_id", id), xlogger.Any("errors", verr))
			continue
		}

		sess, err := h.sessions.Get(context.Background(), id)
		if err != nil {
			h.logger.Debug("stream session gone", xlogger.String("session_id", id))
			return
		}
		ev := middleware.InputEvent{
			SessionID: id,
			Kind:      changeKind(&frame.Data),
			Inputs:    mergeInputs(sess.Inputs, &frame.Data),
		}
		if err := h.pipeline.Submit(context.Background(), ev); err != nil {
			h.logger.Warn("stream submit failed",
				xlogger.String("session_id", id), xlogger.Error(err))
		}
	}
}

func (h *StreamEchoHandler) writeFrame(conn *websocket.Conn, f streamFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(f)
}
