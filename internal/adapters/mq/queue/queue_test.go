package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/hoopsim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) model.Job {
	return model.Job{ID: id, Status: model.JobPending, Request: model.GameRequest{Home: "harbor", Away: "sierra"}}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity two", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When a job is enqueued and taken", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeNil)
			So(q.Len(ctx), ShouldEqual, 1)
			got, err := q.Next(ctx)

			Convey("Then the same job comes back", func() {
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "a")
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeNil)
			So(q.Enqueue(ctx, job("b")), ShouldBeNil)
			err := q.Enqueue(ctx, job("c"))

			Convey("Then enqueue fails fast", func() {
				So(errors.Is(err, ErrFull), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed with a job inside", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then new jobs are refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, job("b")), ErrClosed), ShouldBeTrue)
			})

			Convey("Then queued jobs drain before ErrClosed", func() {
				got, err := q.Next(ctx)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "a")
				_, err = q.Next(ctx)
				So(errors.Is(err, ErrClosed), ShouldBeTrue)
			})
		})

		Convey("When waiting on an empty queue with a deadline", func() {
			cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()
			_, err := q.Next(cctx)

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When enqueueing with a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(errors.Is(q.Enqueue(cctx, job("a")), context.Canceled), ShouldBeTrue)
		})
	})
}

func TestInMemoryQueueConcurrency(t *testing.T) {
	Convey("Given producers and consumers sharing a queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(16))
		const producers, perProducer = 8, 50

		var consumed sync.Map
		var cwg sync.WaitGroup
		for range 4 {
			cwg.Add(1)
			go func() {
				defer cwg.Done()
				for {
					j, err := q.Next(ctx)
					if err != nil {
						return
					}
					consumed.Store(j.ID, true)
				}
			}()
		}

		var pwg sync.WaitGroup
		for p := range producers {
			pwg.Add(1)
			go func() {
				defer pwg.Done()
				for i := range perProducer {
					for q.Enqueue(ctx, job(fmt.Sprintf("%d-%d", p, i))) != nil {
						time.Sleep(time.Millisecond)
					}
				}
			}()
		}
		pwg.Wait()
		So(q.Close(), ShouldBeNil)
		cwg.Wait()

		Convey("Then every job is consumed once", func() {
			n := 0
			consumed.Range(func(_, _ any) bool { n++; return true })
			So(n, ShouldEqual, producers*perProducer)
		})
	})
}
