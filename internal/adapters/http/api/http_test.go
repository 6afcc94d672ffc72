package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/hoopsim/internal/adapters/http/api"
	"github.com/okian/hoopsim/internal/adapters/mq/queue"
	"github.com/okian/hoopsim/internal/adapters/repository"
	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/sim"
	"github.com/okian/hoopsim/internal/domain/types"
	"github.com/okian/hoopsim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies records the last request and returns canned results.
type mockDependencies struct {
	err        error
	ack        types.JobAck
	lastGame   model.GameRequest
	lastSeries model.SeriesRequest
	lastLimit  int
	lastID     string
}

func (m *mockDependencies) Teams(context.Context) ([]types.TeamSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []types.TeamSummary{{ID: "harbor", Name: "Harbor City Gulls"}}, nil
}

func (m *mockDependencies) Simulate(_ context.Context, req model.GameRequest) (model.GameRecord, error) {
	m.lastGame = req
	if m.err != nil {
		return model.GameRecord{}, m.err
	}
	return model.GameRecord{ID: "g1", Result: sim.GameResult{
		Home: sim.TeamResult{ID: req.Home, Score: 101},
		Away: sim.TeamResult{ID: req.Away, Score: 99},
	}}, nil
}

func (m *mockDependencies) Series(_ context.Context, req model.SeriesRequest) (sim.SeriesResult, error) {
	m.lastSeries = req
	if m.err != nil {
		return sim.SeriesResult{}, m.err
	}
	return sim.SeriesResult{Games: req.Games, HomeWins: req.Games}, nil
}

func (m *mockDependencies) SubmitJob(_ context.Context, req model.GameRequest) (types.JobAck, error) {
	m.lastGame = req
	if m.err != nil {
		return types.JobAck{}, m.err
	}
	return m.ack, nil
}

func (m *mockDependencies) Job(_ context.Context, id string) (types.JobView, error) {
	m.lastID = id
	if m.err != nil {
		return types.JobView{}, m.err
	}
	return types.JobView{Job: model.Job{ID: id, Status: model.JobDone, GameID: "g1"}}, nil
}

func (m *mockDependencies) Standings(_ context.Context, limit int) ([]types.Standing, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return []types.Standing{{Rank: 1, TeamID: "harbor", Games: 2, Wins: 2, WinShare: 1}}, nil
}

func (m *mockDependencies) Standing(_ context.Context, teamID string) (types.Standing, error) {
	m.lastID = teamID
	if m.err != nil {
		return types.Standing{}, m.err
	}
	return types.Standing{Rank: 1, TeamID: teamID}, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true}}, 25)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	So(body.Message, ShouldNotBeEmpty)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Health answers ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Metrics are exposed in the Prometheus format", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "hoopsim_engine_http_requests_total")
		})

		Convey("Stats are served as JSON", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			So(w.Body.String(), ShouldContainSubstring, `"uptimeSeconds":`)
		})

		Convey("Teams are listed", func() {
			w := do(mux, http.MethodGet, "/teams", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Harbor City Gulls")
		})

		Convey("Wrong methods and unknown paths are 404", func() {
			So(do(mux, http.MethodPost, "/teams", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/games", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodDelete, "/jobs/x", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGamesHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a valid game is posted", func() {
			w := do(mux, http.MethodPost, "/games",
				`{"home":"harbor","away":"sierra","seed":9,"home_tactics":{"offense":"horns","mix":{"rim":50,"mid":10,"three":40}}}`)

			Convey("Then the record is returned and the request decoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rec model.GameRecord
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.ID, ShouldEqual, "g1")
				So(rec.Result.Home.Score, ShouldEqual, 101)

				So(deps.lastGame.Home, ShouldEqual, "harbor")
				So(*deps.lastGame.Seed, ShouldEqual, uint64(9))
				So(deps.lastGame.HomeTactics.Offense, ShouldEqual, "horns")
				So(deps.lastGame.HomeTactics.Mix.Rim, ShouldEqual, 50.0)
			})
		})

		Convey("When the body is malformed", func() {
			for _, body := range []string{`{`, `{"home":"a","colour":"red"}`, `{"home":"a"} {"home":"b"}`} {
				w := do(mux, http.MethodPost, "/games", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			}
		})

		Convey("When upstream errors carry a kind", func() {
			cases := []struct {
				err    error
				status int
				code   string
			}{
				{fmt.Errorf("away: %w", league.ErrTeamNotFound), http.StatusNotFound, "not_found"},
				{fmt.Errorf("home tactics: %w", sim.ErrInvalidConfiguration), http.StatusBadRequest, "bad_request"},
				{fmt.Errorf("%w: home and away are required", model.ErrInvalidRequest), http.StatusBadRequest, "bad_request"},
				{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
			}
			for _, c := range cases {
				deps.err = c.err
				w := do(mux, http.MethodPost, "/games", `{"home":"harbor","away":"sierra"}`)
				So(w.Code, ShouldEqual, c.status)
				So(errorCode(w), ShouldEqual, c.code)
			}
		})

		Convey("When a series is posted", func() {
			w := do(mux, http.MethodPost, "/series", `{"home":"harbor","away":"sierra","games":40,"seed":3}`)

			Convey("Then the summary is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res sim.SeriesResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.Games, ShouldEqual, 40)
				So(deps.lastSeries.Seed, ShouldEqual, uint64(3))
			})
		})
	})
}

func TestJobsHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{ack: types.JobAck{JobID: "j1", Status: model.JobPending}}
		mux := newMux(deps)

		Convey("A job without request_id is rejected", func() {
			w := do(mux, http.MethodPost, "/jobs", `{"home":"harbor","away":"sierra"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
		})

		Convey("A new job is accepted", func() {
			w := do(mux, http.MethodPost, "/jobs", `{"request_id":"r1","home":"harbor","away":"sierra"}`)
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(w.Body.String(), ShouldContainSubstring, `"job_id":"j1"`)
			So(deps.lastGame.RequestID, ShouldEqual, "r1")
		})

		Convey("A duplicate job is acknowledged with 200", func() {
			deps.ack.Duplicate = true
			w := do(mux, http.MethodPost, "/jobs", `{"request_id":"r1","home":"harbor","away":"sierra"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
		})

		Convey("A full queue is reported as backpressure", func() {
			deps.err = fmt.Errorf("enqueue job: %w", queue.ErrFull)
			w := do(mux, http.MethodPost, "/jobs", `{"request_id":"r2","home":"harbor","away":"sierra"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(errorCode(w), ShouldEqual, "backpressure")
		})

		Convey("A closed queue is reported as unavailable", func() {
			deps.err = fmt.Errorf("enqueue job: %w", queue.ErrClosed)
			w := do(mux, http.MethodPost, "/jobs", `{"request_id":"r3","home":"harbor","away":"sierra"}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("A job is fetched by id", func() {
			w := do(mux, http.MethodGet, "/jobs/j1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastID, ShouldEqual, "j1")
			So(w.Body.String(), ShouldContainSubstring, `"status":"done"`)
		})

		Convey("A malformed job path is rejected", func() {
			So(do(mux, http.MethodGet, "/jobs/", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/jobs/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown job is 404", func() {
			deps.err = fmt.Errorf("%w: job x", repository.ErrNotFound)
			w := do(mux, http.MethodGet, "/jobs/x", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "not_found")
		})
	})
}

func TestStandingsHandler(t *testing.T) {
	Convey("Given a registered API server with a limit cap of 25", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Without a limit the default applies", func() {
			w := do(mux, http.MethodGet, "/standings", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 10)
			var rows []types.Standing
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].TeamID, ShouldEqual, "harbor")
		})

		Convey("An explicit limit is passed through", func() {
			So(do(mux, http.MethodGet, "/standings?limit=25", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 25)
		})

		Convey("Bad limits are rejected", func() {
			for _, q := range []string{"abc", "0", "-4"} {
				w := do(mux, http.MethodGet, "/standings?limit="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			}
			w := do(mux, http.MethodGet, "/standings?limit=26", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "limit_exceeded")
		})

		Convey("One team's row is served", func() {
			w := do(mux, http.MethodGet, "/standings/harbor", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastID, ShouldEqual, "harbor")
		})

		Convey("An unknown team is 404", func() {
			deps.err = fmt.Errorf("%w: %q", league.ErrTeamNotFound, "nowhere")
			So(do(mux, http.MethodGet, "/standings/nowhere", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("eof")

		Convey("NewKind carries its kind", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("WrapKind carries kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBackpressure, cause)
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: backpressure: eof")
		})

		Convey("Wrap keeps the cause and passes nil through", func() {
			err := api.Wrap("api.op", cause)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: eof")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that panics", t, func() {
		h := api.MetricsMiddleware(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}, "panicky")

		Convey("Then the client gets a JSON 500", func() {
			w := httptest.NewRecorder()
			So(func() { h(w, httptest.NewRequest(http.MethodGet, "/panicky", http.NoBody)) }, ShouldNotPanic)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "internal_error")
		})
	})

	Convey("Given a handler that writes twice", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.WriteHeader(http.StatusTeapot)
		}, "twice")

		Convey("Then the first status wins", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodPost, "/twice", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusAccepted)
		})
	})
}
