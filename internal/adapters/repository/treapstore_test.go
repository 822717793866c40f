package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	repository "github.com/strideworks/stride/internal/adapters/repository"
	model "github.com/strideworks/stride/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func workout(week int, day, raw string) model.NormalizedWorkout {
	return model.NormalizedWorkout{
		ID:   fmt.Sprintf("w%d-%s", week, day),
		Week: week,
		Day:  day,
		Raw:  raw,
	}
}

func TestTreapStore(t *testing.T) {
	Convey("Given a new treap store", t, func() {
		ctx := context.Background()
		s := repository.NewTreapStore(ctx)
		defer func() { _ = s.Close() }()

		Convey("When it is empty", func() {
			So(s.Count(ctx), ShouldEqual, 0)

			_, err := s.Get(ctx, 1, "monday")
			So(err, ShouldEqual, repository.ErrNotFound)

			_, err = s.Position(ctx, 1, "monday")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When workouts are inserted out of calendar order", func() {
			cells := []model.NormalizedWorkout{
				workout(2, "wednesday", "Tempo 4 miles"),
				workout(1, "saturday", "Long run 10 miles"),
				workout(1, "monday", "Rest day"),
				workout(2, "monday", "5 miles easy"),
				workout(1, "wednesday", "6x400m"),
			}
			for _, w := range cells {
				created, err := s.Upsert(ctx, w)
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
			}

			Convey("Then All walks the plan in calendar order", func() {
				all, err := s.All(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 5)

				So(all[0].Workout.Raw, ShouldEqual, "Rest day")
				So(all[1].Workout.Raw, ShouldEqual, "6x400m")
				So(all[2].Workout.Raw, ShouldEqual, "Long run 10 miles")
				So(all[3].Workout.Raw, ShouldEqual, "5 miles easy")
				So(all[4].Workout.Raw, ShouldEqual, "Tempo 4 miles")

				for i, e := range all {
					So(e.Position, ShouldEqual, i+1)
				}
			})

			Convey("Then Position agrees with the traversal", func() {
				pos, err := s.Position(ctx, 1, "saturday")
				So(err, ShouldBeNil)
				So(pos, ShouldEqual, 3)

				pos, err = s.Position(ctx, 2, "wednesday")
				So(err, ShouldBeNil)
				So(pos, ShouldEqual, 5)
			})

			Convey("Then FirstN truncates without reordering", func() {
				head, err := s.FirstN(ctx, 2)
				So(err, ShouldBeNil)
				So(head, ShouldHaveLength, 2)
				So(head[0].Workout.Raw, ShouldEqual, "Rest day")
				So(head[1].Workout.Raw, ShouldEqual, "6x400m")
			})

			Convey("Then FirstN beyond the stored count returns everything", func() {
				head, err := s.FirstN(ctx, 100)
				So(err, ShouldBeNil)
				So(head, ShouldHaveLength, 5)
			})

			Convey("Then Get returns the stored workout", func() {
				w, err := s.Get(ctx, 1, "wednesday")
				So(err, ShouldBeNil)
				So(w.Raw, ShouldEqual, "6x400m")
			})
		})

		Convey("When the same slot is upserted twice", func() {
			created, err := s.Upsert(ctx, workout(3, "friday", "first parse"))
			So(err, ShouldBeNil)
			So(created, ShouldBeTrue)

			created, err = s.Upsert(ctx, workout(3, "friday", "second parse"))
			So(err, ShouldBeNil)

			Convey("Then the slot is replaced, not duplicated", func() {
				So(created, ShouldBeFalse)
				So(s.Count(ctx), ShouldEqual, 1)

				w, err := s.Get(ctx, 3, "friday")
				So(err, ShouldBeNil)
				So(w.Raw, ShouldEqual, "second parse")
			})
		})

		Convey("When FirstN is asked for a non-positive limit", func() {
			_, err := s.FirstN(ctx, 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("When day labels are mixed case", func() {
			_, err := s.Upsert(ctx, workout(1, "Tuesday", "strides"))
			So(err, ShouldBeNil)

			w, err := s.Get(ctx, 1, "tuesday")
			So(err, ShouldBeNil)
			So(w.Raw, ShouldEqual, "strides")
		})

		Convey("When a snapshot interval elapses", func() {
			fast := repository.NewTreapStore(ctx, repository.WithSnapshotInterval(10*time.Millisecond))
			defer func() { _ = fast.Close() }()

			_, err := fast.Upsert(ctx, workout(1, "monday", "Rest day"))
			So(err, ShouldBeNil)
			_, err = fast.Upsert(ctx, workout(1, "tuesday", "Easy 5 miles"))
			So(err, ShouldBeNil)

			time.Sleep(50 * time.Millisecond)

			Convey("Then the cached schedule is served lock-free", func() {
				cached := fast.CachedSchedule()
				So(cached, ShouldHaveLength, 2)
				So(cached[0].Workout.Raw, ShouldEqual, "Rest day")
				So(cached[0].Position, ShouldEqual, 1)
			})
		})
	})
}

func TestTreapStoreScale(t *testing.T) {
	Convey("Given a plan covering a full year", t, func() {
		ctx := context.Background()
		s := repository.NewTreapStore(ctx)
		defer func() { _ = s.Close() }()

		days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
		for week := 52; week >= 1; week-- {
			for _, day := range days {
				_, err := s.Upsert(ctx, workout(week, day, "easy run"))
				So(err, ShouldBeNil)
			}
		}

		Convey("Then every slot is tracked with a consistent position", func() {
			So(s.Count(ctx), ShouldEqual, 52*7)

			pos, err := s.Position(ctx, 1, "monday")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 1)

			pos, err = s.Position(ctx, 52, "sunday")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 52*7)

			pos, err = s.Position(ctx, 2, "monday")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 8)
		})
	})
}
