package ioweb_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/revatlas/revatlas/internal/iostore"
	"github.com/revatlas/revatlas/internal/iotesting"
	"github.com/revatlas/revatlas/internal/ioweb"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/lifecycle"
	"github.com/revatlas/revatlas/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventResp struct {
	ID              uint     `json:"id"`
	ExternalID      *string  `json:"externalId"`
	Name            string   `json:"name"`
	StartDate       string   `json:"startDate"`
	EndDate         *string  `json:"endDate"`
	Country         string   `json:"country"`
	CountryISO      *string  `json:"countryIso"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	EstimatedDeaths *int64   `json:"estimatedDeaths"`
}

func fixture() []schema.Event {
	return []schema.Event{
		{
			ExternalID: iotesting.NullString("Q1"),
			Name:       "May 68",
			StartDate:  iotesting.Date(1968, 5, 2),
			EndDate:    sql.NullTime{Time: iotesting.Date(1968, 6, 23), Valid: true},
			Country:    "France",
			CountryISO: iotesting.NullString("FR"),
			Latitude:   sql.NullFloat64{Float64: 48.85, Valid: true},
			Longitude:  sql.NullFloat64{Float64: 2.35, Valid: true},
		},
		{
			Name:      "Uncoded strike",
			StartDate: iotesting.Date(1995, 11, 24),
			Country:   "République Française",
		},
		{
			Name:       "Revolution of 1848",
			StartDate:  iotesting.Date(1848, 2, 22),
			Country:    "France",
			CountryISO: iotesting.NullString("FR"),
		},
		{
			Name:            "Carnation Revolution",
			StartDate:       iotesting.Date(1974, 4, 25),
			Country:         "Portugal",
			CountryISO:      iotesting.NullString("PT"),
			EstimatedDeaths: sql.NullInt64{Int64: 5, Valid: true},
		},
	}
}

func newHandler(t *testing.T, opts ...config.Option) http.Handler {
	t.Helper()
	cfg := iotesting.GetTestConfig(t)
	cfg.Update(opts)
	op := iotesting.NewOperator(t, cfg)
	st := iostore.New(op)

	events := fixture()
	err := st.InTx(context.Background(), func(tx lifecycle.EventTx) error {
		for i := range events {
			if err := tx.Save(&events[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return ioweb.New(cfg, st).Handler()
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEvents(t *testing.T, w *httptest.ResponseRecorder) []eventResp {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var res []eventResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func eventNames(events []eventResp) []string {
	res := make([]string, len(events))
	for i, v := range events {
		res[i] = v.Name
	}
	return res
}

func TestListEvents(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		msg, url string
		names    []string
	}{
		{"alpha-2", "/api/events?countryIso=fr", []string{"May 68"}},
		{"alpha-3", "/api/events?countryIso=FRA", []string{"May 68"}},
		{
			"name with diacritics",
			"/api/events?country=republique%20francaise",
			[]string{"Uncoded strike"},
		},
		{"name", "/api/events?country=France", []string{"May 68"}},
		{
			"iso without rows falls back to name",
			"/api/events?countryIso=DE&country=Portugal",
			[]string{"Carnation Revolution"},
		},
		{"no match", "/api/events?countryIso=JP", []string{}},
	}

	for _, v := range tests {
		events := decodeEvents(t, get(t, h, v.url))
		assert.Equal(t, v.names, eventNames(events), v.msg)
	}
}

func TestListEventsPayload(t *testing.T) {
	h := newHandler(t)

	w := get(t, h, "/api/events?countryIso=FR")
	assert.NotContains(t, w.Body.String(), "T00:00:00")

	events := decodeEvents(t, w)
	require.Len(t, events, 1)
	ev := events[0]
	assert.NotZero(t, ev.ID)
	require.NotNil(t, ev.ExternalID)
	assert.Equal(t, "Q1", *ev.ExternalID)
	assert.Equal(t, "1968-05-02", ev.StartDate)
	require.NotNil(t, ev.EndDate)
	assert.Equal(t, "1968-06-23", *ev.EndDate)
	require.NotNil(t, ev.CountryISO)
	assert.Equal(t, "FR", *ev.CountryISO)
	require.NotNil(t, ev.Latitude)
	assert.InDelta(t, 48.85, *ev.Latitude, 1e-9)
	assert.Nil(t, ev.EstimatedDeaths)

	events = decodeEvents(t, get(t, h, "/api/events?countryIso=PRT"))
	require.Len(t, events, 1)
	assert.Nil(t, events[0].ExternalID)
	assert.Nil(t, events[0].EndDate)
	assert.Nil(t, events[0].Latitude)
	require.NotNil(t, events[0].EstimatedDeaths)
	assert.Equal(t, int64(5), *events[0].EstimatedDeaths)
}

func TestListEventsEmptyIsArray(t *testing.T) {
	h := newHandler(t)
	w := get(t, h, "/api/events?country=Atlantis")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListEventsBadRequest(t *testing.T) {
	h := newHandler(t)

	for _, url := range []string{
		"/api/events",
		"/api/events?countryIso=&country=%20",
		"/api/events?countryIso=F",
		"/api/events?countryIso=FRAN",
		"/api/events?countryIso=F1",
	} {
		w := get(t, h, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)

		var res struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), url)
		assert.NotEmpty(t, res.Error, url)
	}
}

func TestMinYear(t *testing.T) {
	h := newHandler(t, config.OptMinYear(1800))
	events := decodeEvents(t, get(t, h, "/api/events?countryIso=FR"))
	assert.Equal(t, []string{"May 68", "Revolution of 1848"}, eventNames(events))

	h = newHandler(t, config.OptMinYear(1970))
	events = decodeEvents(t, get(t, h, "/api/events?countryIso=FR"))
	assert.Empty(t, events)
}

func TestGetEvent(t *testing.T) {
	h := newHandler(t)

	w := get(t, h, "/api/events/1")
	require.Equal(t, http.StatusOK, w.Code)
	var ev eventResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, uint(1), ev.ID)
	assert.Equal(t, "May 68", ev.Name)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/events/999").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/events/abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/events/0").Code)
}

func TestHealth(t *testing.T) {
	h := newHandler(t)
	w := get(t, h, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Status  string `json:"status"`
		Events  int64  `json:"events"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, int64(4), res.Events)
	assert.NotEmpty(t, res.Version)
}

type brokenStore struct {
	lifecycle.EventStore
}

func (brokenStore) Count(context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func (brokenStore) FindEvents(context.Context, lifecycle.EventFilter) ([]schema.Event, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailures(t *testing.T) {
	h := ioweb.New(config.New(), brokenStore{}).Handler()

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/health").Code)
	assert.Equal(t, http.StatusInternalServerError,
		get(t, h, "/api/events?countryIso=FR").Code)
}

func TestRateLimit(t *testing.T) {
	h := newHandler(t, config.OptServerRateLimit(2))

	assert.Equal(t, http.StatusOK, get(t, h, "/api/events?countryIso=FR").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/events?countryIso=FR").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/api/events?countryIso=FR").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/health").Code, "health is not limited")
}

func TestCORS(t *testing.T) {
	h := newHandler(t, config.OptServerCORSOrigins([]string{"https://atlas.example.org"}))

	req := httptest.NewRequest(http.MethodGet, "/api/events?countryIso=FR", nil)
	req.Header.Set("Origin", "https://atlas.example.org")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://atlas.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/events?countryIso=FR", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunShutsDown(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	cfg.Update([]config.Option{config.OptServerPort(freePort(t))})
	srv := ioweb.New(cfg, brokenStore{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
