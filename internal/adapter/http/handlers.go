package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/region"
	"github.com/couchcryptid/safejourney/internal/route"
	"github.com/couchcryptid/safejourney/internal/scoring"
)

// API bundles the domain collaborators behind the HTTP surface.
type API struct {
	regions *region.Registry
	routes  *route.Graph
	engine  *scoring.Engine
	batches BatchProvider
	subs    SubscriptionStore
	logger  *slog.Logger

	// defaultDays is the scoring window applied when a request does not
	// carry a days parameter.
	defaultDays int
}

// NewAPI wires the safety API handlers.
func NewAPI(regions *region.Registry, routes *route.Graph, engine *scoring.Engine, batches BatchProvider, subs SubscriptionStore, defaultDays int, logger *slog.Logger) *API {
	return &API{
		regions:     regions,
		routes:      routes,
		engine:      engine,
		batches:     batches,
		subs:        subs,
		logger:      logger,
		defaultDays: defaultDays,
	}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/regions", a.handleRegions)
	mux.HandleFunc("GET /api/safety", a.handleSafety)
	mux.HandleFunc("GET /api/routes", a.handleRoutes)
	mux.HandleFunc("GET /api/routes/check", a.handleRouteCheck)
	mux.HandleFunc("GET /api/national", a.handleNational)
	mux.HandleFunc("GET /api/trends", a.handleTrends)
	mux.HandleFunc("GET /api/alerts", a.handleListAlerts)
	mux.HandleFunc("POST /api/alerts", a.handleSubscribe)
	mux.HandleFunc("DELETE /api/alerts", a.handleUnsubscribe)
}

func (a *API) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": a.regions.All()})
}

// handleSafety scores one region (?state=) or, without a state, every region.
func (a *API) handleSafety(w http.ResponseWriter, r *http.Request) {
	days, ok := a.daysParam(w, r)
	if !ok {
		return
	}

	res, err := a.batches.Snapshot(r.Context())
	if err != nil {
		a.snapshotError(w, err)
		return
	}

	if state := r.URL.Query().Get("state"); state != "" {
		name, known := a.regions.Normalize(state)
		if !known {
			writeError(w, http.StatusNotFound, "unknown state: "+state)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"as_of": res.AsOf,
			"state": a.scoreRegion(name, res.Batch.Incidents, days),
		})
		return
	}

	scores := a.scoreAllRegions(res.Batch.Incidents, days)
	writeJSON(w, http.StatusOK, map[string]any{"as_of": res.AsOf, "states": scores})
}

func (a *API) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": a.routes.All()})
}

func (a *API) handleRouteCheck(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	days, ok := a.daysParam(w, r)
	if !ok {
		return
	}

	edge, found := a.routes.Find(from, to)
	if !found {
		writeError(w, http.StatusNotFound, "no known route between "+from+" and "+to)
		return
	}

	res, err := a.batches.Snapshot(r.Context())
	if err != nil {
		a.snapshotError(w, err)
		return
	}

	regions := edge.Regions()
	byRegion := make(map[string][]domain.Incident, len(regions))
	for _, inc := range res.Batch.Incidents {
		byRegion[inc.Region] = append(byRegion[inc.Region], inc)
	}

	score := a.engine.Route(edge.From, edge.To, regions, byRegion, days)
	writeJSON(w, http.StatusOK, map[string]any{
		"as_of": res.AsOf,
		"route": edge,
		"score": score,
	})
}

func (a *API) handleNational(w http.ResponseWriter, r *http.Request) {
	days, ok := a.daysParam(w, r)
	if !ok {
		return
	}

	res, err := a.batches.Snapshot(r.Context())
	if err != nil {
		a.snapshotError(w, err)
		return
	}

	scores := a.scoreAllRegions(res.Batch.Incidents, days)
	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":    res.AsOf,
		"national": a.engine.National(scores),
	})
}

func (a *API) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, ok := a.daysParam(w, r)
	if !ok {
		return
	}

	bucket := scoring.BucketDay
	switch b := r.URL.Query().Get("bucket"); b {
	case "", "day":
	case "week":
		bucket = scoring.BucketWeek
	case "month":
		bucket = scoring.BucketMonth
	default:
		writeError(w, http.StatusBadRequest, "invalid bucket: "+b)
		return
	}

	res, err := a.batches.Snapshot(r.Context())
	if err != nil {
		a.snapshotError(w, err)
		return
	}

	to := res.AsOf
	from := to.AddDate(0, 0, -days)
	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":    res.AsOf,
		"timeline": scoring.Timeline(res.Batch.Incidents, from, to, bucket),
		"summary":  a.engine.Summarize(res.Batch.Incidents, from, to),
	})
}

func (a *API) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	userID := r.URL.Query().Get("user_id")
	if platform == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "platform and user_id are required")
		return
	}

	subs, err := a.subs.Subscriptions(r.Context(), platform, userID)
	if err != nil {
		a.logger.Error("list subscriptions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

func (a *API) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub domain.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Normalize state targets so "abuja" and "FCT" subscribe to the same
	// region.
	if sub.Type == domain.SubscribeState {
		name, known := a.regions.Normalize(sub.Target)
		if !known {
			writeError(w, http.StatusBadRequest, "unknown state: "+sub.Target)
			return
		}
		sub.Target = name
	}

	created, err := a.subs.Subscribe(r.Context(), sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"subscription": created})
}

func (a *API) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := a.subs.Unsubscribe(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// scoreRegion scores one region's slice of the batch, deriving the trend
// from the preceding same-length window.
func (a *API) scoreRegion(name string, incidents []domain.Incident, days int) scoring.RegionScore {
	now := domain.Clock().Now()
	windowStart := now.AddDate(0, 0, -days)
	prevStart := windowStart.AddDate(0, 0, -days)

	var current []domain.Incident
	previous := 0
	for _, inc := range incidents {
		if inc.Region != name {
			continue
		}
		switch {
		case !inc.OccurredAt.Before(windowStart):
			current = append(current, inc)
		case !inc.OccurredAt.Before(prevStart):
			previous++
		}
	}
	return a.engine.Region(name, current, days, &previous)
}

func (a *API) scoreAllRegions(incidents []domain.Incident, days int) []scoring.RegionScore {
	names := a.regions.Names()
	scores := make([]scoring.RegionScore, 0, len(names))
	for _, name := range names {
		scores = append(scores, a.scoreRegion(name, incidents, days))
	}
	return scores
}

func (a *API) daysParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("days")
	if s == "" {
		return a.defaultDays, true
	}
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 || days > 365 {
		writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
		return 0, false
	}
	return days, true
}

func (a *API) snapshotError(w http.ResponseWriter, err error) {
	a.logger.Error("batch snapshot failed", "error", err)
	writeError(w, http.StatusServiceUnavailable, "incident feeds unavailable")
}
