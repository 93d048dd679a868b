package api

import (
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/usecase"
	xhttp "BizPulse/pkg/http"
	xlogger "BizPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the stateless dashboard read endpoints. All of
// them accept an explicit date range; an omitted bound falls back to the
// dataset span.
type DashboardEchoHandler struct {
	logger *xlogger.Logger
	dash   *usecase.DashboardUsecase
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.DashboardUsecase) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/dashboard/snapshot", h.Snapshot)
	g.GET("/dashboard/trend", h.Trend)
	g.GET("/dashboard/summary", h.Summary)
	g.GET("/dashboard/rows", h.Rows)
	g.GET("/dataset/meta", h.DatasetMeta)
	e.GET("/healthz", h.Health)
}

func (h *DashboardEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.dash.Snapshot(c.Request().Context(), usecase.SnapshotParams{
		Range:  h.rangeOf(req.From, req.To),
		Metric: models.NormalizeMetric(req.Metric),
		Window: req.Window,
	})
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=5")
	return xhttp.SuccessResponse(c, models.NewSnapshotPayload(snap))
}

func (h *DashboardEchoHandler) Trend(c echo.Context) error {
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	view := h.dash.GetFilteredView(ctx, h.rangeOf(req.From, req.To))
	series := h.dash.GetTrendSeries(ctx, view, models.NormalizeMetric(req.Metric), req.Window)
	return xhttp.SuccessResponse(c, models.NewTrendPayload(series))
}

func (h *DashboardEchoHandler) Summary(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	view := h.dash.GetFilteredView(ctx, h.rangeOf(req.From, req.To))
	stats := h.dash.GetSummaryTable(ctx, view)
	return xhttp.SuccessResponse(c, models.NewSummaryPayload(stats))
}

func (h *DashboardEchoHandler) Rows(c echo.Context) error {
	req := &models.RowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	view := h.dash.GetFilteredView(ctx, h.rangeOf(req.From, req.To))
	rows := h.dash.GetRawRows(ctx, view, req.Limit)
	return xhttp.ListResponse(c, models.NewRowPayloads(rows), int64(len(view)))
}

func (h *DashboardEchoHandler) DatasetMeta(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.NewDatasetMetaPayload(h.dash.Meta()))
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"rows":   h.dash.Meta().Rows,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// rangeOf resolves optional from/to strings against the dataset span.
func (h *DashboardEchoHandler) rangeOf(from, to string) models.DateRange {
	span := h.dash.Meta().Span
	return models.NewDateRange(
		xhttp.ParseDateDefault(from, span.Start),
		xhttp.ParseDateDefault(to, span.End),
	)
}
