package controllers

import (
	"context"
	"errors"
	"net/http"
	"panelkeeper/internal/models"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/reports"
	"panelkeeper/internal/services"
	"panelkeeper/internal/structures"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type PanelController struct {
	logger    providers.Logger
	service   services.PanelServiceInterface
	cache     providers.CacheProviderInterface
	publisher reports.PublisherInterface
	timeout   time.Duration
}

func NewPanelController(conf *structures.Config, logger providers.Logger, service services.PanelServiceInterface, cache providers.CacheProviderInterface, publisher reports.PublisherInterface) *PanelController {
	return &PanelController{
		logger:    logger,
		service:   service,
		cache:     cache,
		publisher: publisher,
		timeout:   conf.Notifier.Timeout,
	}
}

type userRequest struct {
	User models.UserID `json:"user"`
	Name string        `json:"name,omitempty"`
}

type actionRequest struct {
	User   models.UserID `json:"user"`
	Action string        `json:"action"`
}

type actionResponse struct {
	Action string `json:"action"`
	Value  int64  `json:"value"`
}

type dashboardResponse struct {
	Ref string `json:"ref"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// serveFromCacheOrCompute keys every entry by the service revision, so a
// cached report never outlives the next mutation.
func (pc *PanelController) serveFromCacheOrCompute(w http.ResponseWriter, key string, compute func() (any, error)) {
	cacheKey := strconv.FormatUint(pc.service.Revision(), 10) + ":" + key
	if data, ok := pc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// respondMutation answers a mutation. A storage error still refreshes the
// dashboard since the in-memory state has already changed.
func (pc *PanelController) respondMutation(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	pc.refreshDashboard(r.Context())
	if err != nil {
		pc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "state changed but could not be saved")
		return
	}
	writeJSON(w, status, body)
}

func (pc *PanelController) refreshDashboard(ctx context.Context) {
	if pc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), pc.timeout)
		defer cancel()
	}
	if err := pc.publisher.RefreshDashboard(ctx); err != nil {
		pc.logger.Warnf(providers.TypeApp, "Dashboard refresh: %s", err)
	}
}

func (pc *PanelController) GetPanels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.service.ActivePanels())
}

func (pc *PanelController) Place(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.User == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	res, err := pc.service.Place(req.User, req.Name)
	pc.respondMutation(w, r, http.StatusCreated, res, err)
}

func (pc *PanelController) Fix(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.User == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	res, err := pc.service.Fix(req.User)
	if err == nil && res.EligibleCount == 0 {
		writeJSON(w, http.StatusOK, res)
		return
	}
	pc.respondMutation(w, r, http.StatusOK, res, err)
}

func (pc *PanelController) LogAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.User == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "user and action are required")
		return
	}

	value, err := pc.service.LogAction(req.User, req.Action)
	if errors.Is(err, models.ErrUnknownAction) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pc.respondMutation(w, r, http.StatusOK, actionResponse{Action: req.Action, Value: value}, err)
}

func (pc *PanelController) GetActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.service.Actions())
}

// ranking returns how a leaderboard is ordered: "profit" (default) or "acts".
func ranking(r *http.Request) string {
	if r.URL.Query().Get("by") == "acts" {
		return "acts"
	}
	return "profit"
}

func ranked(by string, entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	if by == "acts" {
		return models.RankByActs(entries)
	}
	return entries
}

func (pc *PanelController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	by := ranking(r)
	pc.serveFromCacheOrCompute(w, "leaderboard:"+by, func() (any, error) {
		return ranked(by, pc.service.Leaderboard()), nil
	})
}

func (pc *PanelController) GetLifetimeLeaderboard(w http.ResponseWriter, r *http.Request) {
	by := ranking(r)
	pc.serveFromCacheOrCompute(w, "leaderboard:lifetime:"+by, func() (any, error) {
		return ranked(by, pc.service.LifetimeLeaderboard()), nil
	})
}

func (pc *PanelController) GetHistory(w http.ResponseWriter, r *http.Request) {
	pc.serveFromCacheOrCompute(w, "history", func() (any, error) {
		return pc.service.History(), nil
	})
}

func (pc *PanelController) PostDashboard(w http.ResponseWriter, r *http.Request) {
	ref, err := pc.publisher.PostDashboard(r.Context())
	if err != nil {
		pc.logger.Errorf(providers.TypePost, "Posting dashboard: %s", err)
		writeError(w, http.StatusBadGateway, "could not post dashboard")
		return
	}
	writeJSON(w, http.StatusCreated, dashboardResponse{Ref: ref})
}
