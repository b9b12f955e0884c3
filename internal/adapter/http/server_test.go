package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/safejourney/internal/adapter/http"
	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/ingest"
	"github.com/couchcryptid/safejourney/internal/region"
	"github.com/couchcryptid/safejourney/internal/route"
	"github.com/couchcryptid/safejourney/internal/scoring"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stubBatches struct {
	batch domain.Batch
	asOf  time.Time
	err   error
}

func (s *stubBatches) Snapshot(_ context.Context) (ingest.Result, error) {
	if s.err != nil {
		return ingest.Result{}, s.err
	}
	return ingest.Result{Batch: s.batch, Cached: true, AsOf: s.asOf}, nil
}

type stubSubs struct {
	subs    []domain.Subscription
	lastSub domain.Subscription
}

func (s *stubSubs) Subscribe(_ context.Context, sub domain.Subscription) (domain.Subscription, error) {
	if sub.Platform == "" || sub.UserID == "" {
		return domain.Subscription{}, errors.New("subscription requires platform, user, and target")
	}
	sub.ID = "sub-1"
	sub.Active = true
	s.lastSub = sub
	return sub, nil
}

func (s *stubSubs) Unsubscribe(_ context.Context, id string) error {
	if id != "sub-1" {
		return fmt.Errorf("subscription %q not found", id)
	}
	return nil
}

func (s *stubSubs) Subscriptions(_ context.Context, _, _ string) ([]domain.Subscription, error) {
	return s.subs, nil
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testBatch() domain.Batch {
	return domain.NewBatch([]domain.Incident{
		{
			ID:         "kidnapping-aaa",
			Category:   domain.CategoryKidnapping,
			Region:     "Kaduna",
			Title:      "Travellers abducted on the highway",
			OccurredAt: testNow.Add(-48 * time.Hour),
			Kidnapped:  5,
		},
		{
			ID:         "banditry-bbb",
			Category:   domain.CategoryBanditry,
			Region:     "Niger",
			Title:      "Village raid",
			OccurredAt: testNow.Add(-72 * time.Hour),
			Killed:     2,
		},
	})
}

func newTestServer(t *testing.T, batches httpadapter.BatchProvider, subs httpadapter.SubscriptionStore, readyErr error) *httpadapter.Server {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := httpadapter.NewAPI(
		region.Default(),
		route.Default(),
		scoring.New(scoring.DefaultConfig()),
		batches,
		subs,
		30,
		logger,
	)
	return httpadapter.NewServer(":0", api, &mockReadiness{err: readyErr}, logger)
}

func doRequest(srv *httpadapter.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, &stubBatches{asOf: testNow}, &stubSubs{}, nil)
	rec := doRequest(srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(t, &stubBatches{asOf: testNow}, &stubSubs{}, fmt.Errorf("no batch yet"))
	rec := doRequest(srv, http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no batch yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubBatches{asOf: testNow}, &stubSubs{}, nil)
	rec := doRequest(srv, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSafetyEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubBatches{batch: testBatch(), asOf: testNow}, &stubSubs{}, nil)

	t.Run("single state with alias", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/safety?state=kaduna", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		state := body["state"].(map[string]any)
		assert.Equal(t, "Kaduna", state["region"])
		assert.Equal(t, float64(1), state["incidents"])
		assert.Greater(t, state["score"], float64(0))
	})

	t.Run("unknown state", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/safety?state=Atlantis", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("all states", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/safety", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		states := body["states"].([]any)
		assert.Len(t, states, 37)
	})

	t.Run("invalid days", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/safety?days=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouteCheckEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubBatches{batch: testBatch(), asOf: testNow}, &stubSubs{}, nil)

	t.Run("known route", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/routes/check?from=Lagos&to=Kano", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		score := body["score"].(map[string]any)
		assert.NotEmpty(t, score["tier"])
		assert.NotEmpty(t, score["recommendations"])
		// The route crosses Niger and Kaduna, both of which carry incidents.
		hotspots := score["hotspots"].([]any)
		assert.NotEmpty(t, hotspots)
	})

	t.Run("missing params", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/routes/check?from=Lagos", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/routes/check?from=Lagos&to=Atlantis", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNationalEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubBatches{batch: testBatch(), asOf: testNow}, &stubSubs{}, nil)
	rec := doRequest(srv, http.MethodGet, "/api/national", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	national := body["national"].(map[string]any)
	assert.Equal(t, float64(2), national["total_incidents"])
	assert.Equal(t, float64(2), national["regions_affected"])
}

func TestTrendsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubBatches{batch: testBatch(), asOf: testNow}, &stubSubs{}, nil)

	t.Run("weekly buckets", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/trends?bucket=week", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		summary := body["summary"].(map[string]any)
		assert.Equal(t, float64(2), summary["total_incidents"])
	})

	t.Run("invalid bucket", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/trends?bucket=year", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSafetyEndpointFeedsUnavailable(t *testing.T) {
	srv := newTestServer(t, &stubBatches{err: errors.New("all feed sources failed")}, &stubSubs{}, nil)
	rec := doRequest(srv, http.MethodGet, "/api/safety", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAlertEndpoints(t *testing.T) {
	subs := &stubSubs{}
	srv := newTestServer(t, &stubBatches{batch: testBatch(), asOf: testNow}, subs, nil)

	t.Run("subscribe normalizes state target", func(t *testing.T) {
		payload := `{"platform":"telegram","user_id":"12345","type":"state","target":"abuja"}`
		rec := doRequest(srv, http.MethodPost, "/api/alerts", strings.NewReader(payload))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Federal Capital Territory", subs.lastSub.Target)
	})

	t.Run("subscribe rejects unknown state", func(t *testing.T) {
		payload := `{"platform":"telegram","user_id":"12345","type":"state","target":"Atlantis"}`
		rec := doRequest(srv, http.MethodPost, "/api/alerts", strings.NewReader(payload))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list requires identity", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/alerts?platform=telegram", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsubscribe unknown id", func(t *testing.T) {
		rec := doRequest(srv, http.MethodDelete, "/api/alerts?id=nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unsubscribe known id", func(t *testing.T) {
		rec := doRequest(srv, http.MethodDelete, "/api/alerts?id=sub-1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
