package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	service "github.com/okian/hoopsim/internal/app"
	"github.com/okian/hoopsim/internal/adapters/repository"
	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// waitJob polls until the job reaches a terminal state or the deadline.
func waitJob(svc *service.Service, id string) types.JobView {
	deadline := time.Now().Add(10 * time.Second)
	for {
		view, err := svc.Job(context.Background(), id)
		So(err, ShouldBeNil)
		if view.Terminal() || time.Now().After(deadline) {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := startService(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(50),
		)
		defer stopService(svc)
		ctx := context.Background()

		Convey("When a job is submitted", func() {
			ack, err := svc.SubmitJob(ctx, model.GameRequest{RequestID: "req-1", Home: "harbor", Away: "ironwood", Seed: seed(3)})
			So(err, ShouldBeNil)
			So(ack.JobID, ShouldNotBeEmpty)
			So(ack.Status, ShouldEqual, model.JobPending)
			So(ack.Duplicate, ShouldBeFalse)

			view := waitJob(svc, ack.JobID)

			Convey("Then a worker plays and stores the game", func() {
				So(view.Status, ShouldEqual, model.JobDone)
				So(view.Game, ShouldNotBeNil)
				So(view.Game.ID, ShouldEqual, view.GameID)
				So(view.FinishedAt, ShouldNotBeNil)

				row, err := svc.Standing(ctx, "ironwood")
				So(err, ShouldBeNil)
				So(row.Games, ShouldEqual, 1)
			})

			Convey("Then the game matches a synchronous run with the same seed", func() {
				rec, err := svc.Simulate(ctx, model.GameRequest{Home: "harbor", Away: "ironwood", Seed: seed(3)})
				So(err, ShouldBeNil)
				So(view.Game.Result.Home.Score, ShouldEqual, rec.Result.Home.Score)
				So(view.Game.Result.Away.Score, ShouldEqual, rec.Result.Away.Score)
			})

			Convey("Then resubmitting the request id is acknowledged without a new job", func() {
				dup, err := svc.SubmitJob(ctx, model.GameRequest{RequestID: "req-1", Home: "harbor", Away: "ironwood"})
				So(err, ShouldBeNil)
				So(dup.Duplicate, ShouldBeTrue)
				So(dup.JobID, ShouldEqual, ack.JobID)
				So(dup.Status, ShouldEqual, model.JobDone)
				So(svc.GetStats()["gamesStored"], ShouldEqual, 1)
			})
		})

		Convey("When many jobs are submitted", func() {
			ids := make([]string, 0, 20)
			for i := range 20 {
				ack, err := svc.SubmitJob(ctx, model.GameRequest{
					RequestID: fmt.Sprintf("batch-%d", i),
					Home:      "thunder",
					Away:      "sierra",
				})
				So(err, ShouldBeNil)
				ids = append(ids, ack.JobID)
			}

			Convey("Then every job completes and every game counts", func() {
				for _, id := range ids {
					So(waitJob(svc, id).Status, ShouldEqual, model.JobDone)
				}
				row, err := svc.Standing(ctx, "thunder")
				So(err, ShouldBeNil)
				So(row.Games, ShouldEqual, 20)
				So(row.Wins+row.Losses+row.Ties, ShouldEqual, 20)
			})
		})

		Convey("When a job names an unknown team", func() {
			_, err := svc.SubmitJob(ctx, model.GameRequest{RequestID: "bad", Home: "harbor", Away: "nowhere"})

			Convey("Then it is rejected before queueing", func() {
				So(errors.Is(err, league.ErrTeamNotFound), ShouldBeTrue)
				So(svc.GetStats()["dedupeEntries"], ShouldEqual, int64(0))
			})
		})

		Convey("When an unknown job is requested", func() {
			_, err := svc.Job(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
