package api

import (
	"context"
	"net/http"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/sim"
)

// GameDependencies defines the synchronous simulation operations.
type GameDependencies interface {
	Simulate(ctx context.Context, req model.GameRequest) (model.GameRecord, error)
	Series(ctx context.Context, req model.SeriesRequest) (sim.SeriesResult, error)
}

// GamesHandler handles game and series requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandlePostGame handles POST /games requests.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.GameRequest
	if err := decode(r, w, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.Simulate(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandlePostSeries handles POST /series requests.
func (h *GamesHandler) HandlePostSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_series"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.SeriesRequest
	if err := decode(r, w, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Series(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
