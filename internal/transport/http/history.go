package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/stats"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type StatsReader interface {
	Stats(ctx context.Context, id stats.Identity) (domain.StatsRecord, error)
	History(ctx context.Context, id stats.Identity, limit int) ([]domain.MatchRecord, error)
	Leaderboard(ctx context.Context, page int) (*domain.LeaderboardPage, error)
}

const maxHistoryLimit = 100

type StatsHandler struct {
	Stats StatsReader
	log   *zap.SugaredLogger
}

func NewStatsHandler(s StatsReader, logger *zap.SugaredLogger) *StatsHandler {
	return &StatsHandler{Stats: s, log: logger}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	record, err := h.Stats.Stats(r.Context(), id)
	if err != nil {
		h.log.Errorw("[STATS] load failed", "player", id.Key(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":   record,
		"games":   record.Games(),
		"winRate": record.WinRate(),
	})
}

func (h *StatsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > maxHistoryLimit {
		limit = 20
	}

	history, err := h.Stats.History(r.Context(), id, limit)
	if err != nil {
		h.log.Errorw("[STATS] history failed", "player", id.Key(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if history == nil {
		history = []domain.MatchRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	lb, err := h.Stats.Leaderboard(r.Context(), page)
	if err != nil {
		h.log.Errorw("[STATS] leaderboard failed", "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
