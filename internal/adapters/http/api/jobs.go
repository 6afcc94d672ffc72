package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/hoopsim/internal/adapters/mq/queue"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
)

// JobDependencies defines the asynchronous job operations.
type JobDependencies interface {
	SubmitJob(ctx context.Context, req model.GameRequest) (types.JobAck, error)
	Job(ctx context.Context, id string) (types.JobView, error)
}

// JobsHandler handles job requests.
type JobsHandler struct {
	deps JobDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandlePostJob handles POST /jobs requests. A repeated request_id is
// answered 200 with the original job; a new job is answered 202.
func (h *JobsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.GameRequest
	if err := decode(r, w, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.RequestID) == "" {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing request_id")))
		return
	}
	ack, err := h.deps.SubmitJob(r.Context(), req)
	if errors.Is(err, queue.ErrFull) {
		writeFailure(w, WrapKind(op, ErrBackpressure, err))
		return
	}
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if ack.Duplicate {
		writeJSON(w, http.StatusOK, ack)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

// HandleGetJob handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
