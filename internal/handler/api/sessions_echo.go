package api

import (
	"errors"

	"BizPulse/internal/domain/models"
	domrepo "BizPulse/internal/domain/repository"
	"BizPulse/internal/middleware"
	"BizPulse/internal/usecase"
	xhttp "BizPulse/pkg/http"
	xlogger "BizPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SessionsEchoHandler manages dashboard sessions over REST. Input updates
// through PATCH are applied synchronously; the websocket stream shares the
// same session state but goes through the input pipeline.
type SessionsEchoHandler struct {
	logger   *xlogger.Logger
	sessions *usecase.SessionUsecase
	pipeline *middleware.InputPipeline
}

func NewSessionsEchoHandler(logger *xlogger.Logger, sessions *usecase.SessionUsecase, pipeline *middleware.InputPipeline) *SessionsEchoHandler {
	return &SessionsEchoHandler{logger: logger, sessions: sessions, pipeline: pipeline}
}

func (h *SessionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/inputs", h.UpdateInputs)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/snapshot", h.Snapshot)
}

func (h *SessionsEchoHandler) Create(c echo.Context) error {
	req := &models.CreateSessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, snap, err := h.sessions.Create(c.Request().Context(), seedInputs(req))
	if err != nil {
		h.logger.Error("session create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}
	return xhttp.CreatedResponse(c, &models.SessionSnapshotPayload{
		Session:  models.NewSessionPayload(sess),
		Snapshot: models.NewSnapshotPayload(snap),
	})
}

func (h *SessionsEchoHandler) Get(c echo.Context) error {
	sess, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}
	return xhttp.SuccessResponse(c, models.NewSessionPayload(sess))
}

func (h *SessionsEchoHandler) UpdateInputs(c echo.Context) error {
	req := &models.UpdateInputsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}

	sess, snap, err := h.sessions.UpdateInputs(ctx, id, mergeInputs(sess.Inputs, req))
	if err != nil {
		h.logger.Error("session update error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}
	return xhttp.SuccessResponse(c, &models.SessionSnapshotPayload{
		Session:  models.NewSessionPayload(sess),
		Snapshot: models.NewSnapshotPayload(snap),
	})
}

func (h *SessionsEchoHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.sessions.Delete(c.Request().Context(), id); err != nil {
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}
	h.pipeline.Forget(id)
	return xhttp.NoContentResponse(c)
}

func (h *SessionsEchoHandler) Snapshot(c echo.Context) error {
	snap, err := h.sessions.Snapshot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapSessionError(err))
	}
	return xhttp.SuccessResponse(c, models.NewSnapshotPayload(snap))
}

// seedInputs builds the initial inputs from an optional create body. Zero
// fields are filled with defaults by the session store.
func seedInputs(req *models.CreateSessionRequest) models.Inputs {
	var in models.Inputs
	if req.From != "" {
		in.Range.Start = xhttp.ParseDateDefault(req.From, in.Range.Start)
	}
	if req.To != "" {
		in.Range.End = xhttp.ParseDateDefault(req.To, in.Range.End)
	}
	if req.Metric != "" {
		in.Metric = models.Metric(req.Metric)
	}
	if req.Window != nil {
		in.Window = *req.Window
	}
	return in
}

// mergeInputs overlays a partial update onto the session's current inputs,
// so an update never loses fields the client did not send.
func mergeInputs(cur models.Inputs, req *models.UpdateInputsRequest) models.Inputs {
	in := cur
	if req.From != "" {
		in.Range.Start = xhttp.ParseDateDefault(req.From, in.Range.Start)
	}
	if req.To != "" {
		in.Range.End = xhttp.ParseDateDefault(req.To, in.Range.End)
	}
	if req.Metric != "" {
		in.Metric = models.Metric(req.Metric)
	}
	if req.Window != nil {
		in.Window = *req.Window
	}
	return in
}

// changeKind classifies which control a partial update touches.
func changeKind(req *models.UpdateInputsRequest) string {
	touched := make([]string, 0, 3)
	if req.From != "" || req.To != "" {
		touched = append(touched, "range")
	}
	if req.Metric != "" {
		touched = append(touched, "metric")
	}
	if req.Window != nil {
		touched = append(touched, "window")
	}
	if len(touched) == 1 {
		return touched[0]
	}
	return "inputs"
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, domrepo.ErrSessionNotFound):
		return xhttp.NotFoundError("session not found").WithError(err)
	case errors.Is(err, domrepo.ErrSessionLimit):
		return xhttp.ConflictError("session limit reached").WithError(err)
	default:
		return err
	}
}
