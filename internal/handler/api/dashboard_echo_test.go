package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BizPulse/internal/handler/api"
	"BizPulse/internal/middleware"
	"BizPulse/internal/repository"
	"BizPulse/internal/service/ratelimit"
	"BizPulse/internal/service/stream"
	"BizPulse/internal/service/viewcache"
	"BizPulse/internal/services/analytics"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordRecompute(string, float64) {}
func (nopMetrics) RecordViewCache(bool)            {}
func (nopMetrics) RecordInputChange(string)        {}
func (nopMetrics) RecordSessions(int)              {}
func (nopMetrics) RecordStreamClients(int)         {}
func (nopMetrics) RecordError(string)              {}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	l := logger.Nop()

	ds := repository.NewMemoryDataset(repository.DatasetConfig{})
	views := viewcache.New(ds, analytics.NewRangeFilter(), nopMetrics{}, viewcache.Config{})
	t.Cleanup(func() { _ = views.Close() })
	dash := usecase.NewDashboardUsecase(ds, views, analytics.NewMetricDeriver(), analytics.NewTableSummarizer(), nopMetrics{})

	store := repository.NewMemorySessions(repository.SessionConfig{}, dash.DefaultInputs())
	t.Cleanup(func() { _ = store.Close() })
	bus := stream.NewBroadcaster(nopMetrics{})
	sessions := usecase.NewSessionUsecase(store, dash, bus, nopMetrics{}, l)

	pipeline := middleware.NewInputPipeline(sessions, ratelimit.New(), nopMetrics{},
		middleware.WithCoalesceWindow(time.Millisecond))
	t.Cleanup(pipeline.Stop)

	e := echo.New()
	api.NewRouter(
		api.NewDashboardEchoHandler(l, dash),
		api.NewSessionsEchoHandler(l, sessions, pipeline),
		api.NewStreamEchoHandler(l, sessions, bus, pipeline, time.Second),
	).RegisterRoutes(e)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestSnapshotEndpoint(t *testing.T) {
	e := newTestServer(t)

	_, env := doRequest(t, e, http.MethodGet, "/api/v1/dashboard/snapshot", "")
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var snap struct {
		From     string `json:"from"`
		To       string `json:"to"`
		Metric   string `json:"metric"`
		Window   int    `json:"window"`
		RowCount int    `json:"row_count"`
		Cards    struct {
			TotalSales string `json:"total_sales"`
		} `json:"cards"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.From != "2023-01-01" || snap.To != "2023-04-10" {
		t.Errorf("span = %s..%s", snap.From, snap.To)
	}
	if snap.Metric != "sales" || snap.Window != 7 || snap.RowCount != 100 {
		t.Errorf("defaults = %s/%d/%d rows", snap.Metric, snap.Window, snap.RowCount)
	}
	if !strings.HasPrefix(snap.Cards.TotalSales, "$") {
		t.Errorf("TotalSales card = %q", snap.Cards.TotalSales)
	}
}

func TestSnapshotEndpointRejectsBadInputs(t *testing.T) {
	e := newTestServer(t)

	_, env := doRequest(t, e, http.MethodGet, "/api/v1/dashboard/snapshot?window=99", "")
	if env.Status != http.StatusBadRequest {
		t.Errorf("window=99 status = %d, want 400", env.Status)
	}
	_, env = doRequest(t, e, http.MethodGet, "/api/v1/dashboard/snapshot?metric=revenue", "")
	if env.Status != http.StatusBadRequest {
		t.Errorf("metric=revenue status = %d, want 400", env.Status)
	}
	_, env = doRequest(t, e, http.MethodGet, "/api/v1/dashboard/snapshot?from=01-02-2023", "")
	if env.Status != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", env.Status)
	}
}

func TestRowsEndpointLimits(t *testing.T) {
	e := newTestServer(t)

	_, env := doRequest(t, e, http.MethodGet, "/api/v1/dashboard/rows?limit=10", "")
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var list struct {
		Rows  []json.RawMessage `json:"rows"`
		Total int64             `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Rows) != 10 || list.Total != 100 {
		t.Errorf("rows = %d total = %d, want 10 of 100", len(list.Rows), list.Total)
	}
}

func TestEmptyRangeDegrades(t *testing.T) {
	e := newTestServer(t)

	_, env := doRequest(t, e, http.MethodGet,
		"/api/v1/dashboard/snapshot?from=2022-01-01&to=2022-01-31", "")
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var snap struct {
		RowCount int `json:"row_count"`
		Cards    struct {
			TotalSales     string `json:"total_sales"`
			AvgUsers       string `json:"avg_users"`
			ConversionRate string `json:"conversion_rate"`
		} `json:"cards"`
		TotalSales *float64 `json:"total_sales"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.RowCount != 0 {
		t.Errorf("RowCount = %d, want 0", snap.RowCount)
	}
	for _, card := range []string{snap.Cards.TotalSales, snap.Cards.AvgUsers, snap.Cards.ConversionRate} {
		if card != "no data" {
			t.Errorf("card = %q, want \"no data\"", card)
		}
	}
	if snap.TotalSales != nil {
		t.Errorf("total_sales = %v, want null", *snap.TotalSales)
	}
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec, env := doRequest(t, e, http.MethodPost, "/api/v1/sessions", `{}`)
	if rec.Code != http.StatusOK || env.Status != http.StatusCreated {
		t.Fatalf("create status = %d (envelope %d)", rec.Code, env.Status)
	}
	var created struct {
		Session struct {
			ID     string `json:"id"`
			Metric string `json:"metric"`
			Window int    `json:"window"`
		} `json:"session"`
		Snapshot struct {
			RowCount int `json:"row_count"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Session.ID == "" || created.Session.Metric != "sales" || created.Session.Window != 7 {
		t.Fatalf("session = %+v", created.Session)
	}
	if created.Snapshot.RowCount != 100 {
		t.Errorf("first snapshot rows = %d, want 100", created.Snapshot.RowCount)
	}
	id := created.Session.ID

	_, env = doRequest(t, e, http.MethodPatch, "/api/v1/sessions/"+id+"/inputs",
		`{"metric":"users","window":14}`)
	if env.Status != http.StatusOK {
		t.Fatalf("patch status = %d", env.Status)
	}
	var updated struct {
		Session struct {
			Metric string `json:"metric"`
			Window int    `json:"window"`
			From   string `json:"from"`
		} `json:"session"`
		Snapshot struct {
			Metric string `json:"metric"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	if updated.Session.Metric != "users" || updated.Session.Window != 14 {
		t.Errorf("updated session = %+v", updated.Session)
	}
	// Partial update kept the untouched range.
	if updated.Session.From != "2023-01-01" {
		t.Errorf("range lost on partial update: from = %q", updated.Session.From)
	}
	if updated.Snapshot.Metric != "users" {
		t.Errorf("snapshot metric = %q", updated.Snapshot.Metric)
	}

	_, env = doRequest(t, e, http.MethodPatch, "/api/v1/sessions/"+id+"/inputs",
		`{"window":99}`)
	if env.Status != http.StatusBadRequest {
		t.Errorf("window=99 patch status = %d, want 400", env.Status)
	}

	rec, _ = doRequest(t, e, http.MethodDelete, "/api/v1/sessions/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	_, env = doRequest(t, e, http.MethodGet, "/api/v1/sessions/"+id, "")
	if env.Status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", env.Status)
	}
}

func TestSessionSnapshotNotFound(t *testing.T) {
	e := newTestServer(t)
	_, env := doRequest(t, e, http.MethodGet, "/api/v1/sessions/nope/snapshot", "")
	if env.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", env.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec, env := doRequest(t, e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || env.Status != http.StatusOK {
		t.Fatalf("health status = %d (envelope %d)", rec.Code, env.Status)
	}
}
