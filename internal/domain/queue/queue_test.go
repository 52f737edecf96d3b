package queue_test

import (
	"testing"

	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQueue(t *testing.T) {
	Convey("Given a queue with team size 2", t, func() {
		q := queue.New(queue.WithTeamSize(2))

		Convey("Then it starts empty and open", func() {
			So(q.Size(), ShouldEqual, 0)
			So(q.Capacity(), ShouldEqual, 4)
			So(q.Full(), ShouldBeFalse)
			So(q.Frozen(), ShouldBeFalse)
		})

		Convey("When players join", func() {
			So(q.Join("a"), ShouldBeNil)
			So(q.Join("b"), ShouldBeNil)

			Convey("Then size grows and order is preserved", func() {
				So(q.Size(), ShouldEqual, 2)
				So(q.Snapshot(), ShouldResemble, []model.PlayerID{"a", "b"})
			})

			Convey("And a duplicate join fails", func() {
				So(q.Join("a"), ShouldEqual, queue.ErrAlreadyQueued)
				So(q.Size(), ShouldEqual, 2)
			})

			Convey("And the queue fills at twice the team size", func() {
				So(q.Join("c"), ShouldBeNil)
				So(q.Full(), ShouldBeFalse)
				So(q.Join("d"), ShouldBeNil)
				So(q.Full(), ShouldBeTrue)
			})
		})

		Convey("When players leave", func() {
			So(q.Join("a"), ShouldBeNil)
			So(q.Join("b"), ShouldBeNil)

			Convey("Then leaving removes only that player", func() {
				So(q.Leave("a"), ShouldBeNil)
				So(q.Snapshot(), ShouldResemble, []model.PlayerID{"b"})
			})

			Convey("And leaving while absent fails", func() {
				So(q.Leave("x"), ShouldEqual, queue.ErrNotQueued)
			})
		})

		Convey("When the team size changes", func() {
			So(q.SetTeamSize(3), ShouldBeNil)
			So(q.Capacity(), ShouldEqual, 6)

			Convey("Then zero or negative sizes are rejected", func() {
				So(q.SetTeamSize(0), ShouldEqual, queue.ErrInvalidTeamSize)
				So(q.TeamSize(), ShouldEqual, 3)
			})
		})

		Convey("When the queue is frozen and cleared", func() {
			q.Freeze()
			So(q.Frozen(), ShouldBeTrue)
			q.Unfreeze()
			So(q.Frozen(), ShouldBeFalse)

			So(q.Join("a"), ShouldBeNil)
			q.Clear()
			So(q.Size(), ShouldEqual, 0)
		})

		Convey("When mutating a snapshot", func() {
			So(q.Join("a"), ShouldBeNil)
			snap := q.Snapshot()
			snap[0] = "mutated"

			Convey("Then the queue is unaffected", func() {
				So(q.Snapshot(), ShouldResemble, []model.PlayerID{"a"})
			})
		})
	})

	Convey("Given the default configuration", t, func() {
		q := queue.New()

		Convey("Then the team size defaults to 4", func() {
			So(q.TeamSize(), ShouldEqual, 4)
			So(q.Capacity(), ShouldEqual, 8)
		})
	})
}
