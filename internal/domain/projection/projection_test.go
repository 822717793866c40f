package projection_test

import (
	"testing"
	"time"

	model "github.com/strideworks/stride/internal/domain/model"
	projection "github.com/strideworks/stride/internal/domain/projection"
	types "github.com/strideworks/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func TestProjectTime(t *testing.T) {
	Convey("Given the Riegel projector", t, func() {
		Convey("When projecting to the same distance", func() {
			So(projection.ProjectTime(10, 2400, 10), ShouldAlmostEqual, 2400, 1e-9)
		})

		Convey("When projecting 10k up to half marathon", func() {
			projected := projection.ProjectTime(10, 2400, 21.0975)

			Convey("Then the time grows superlinearly", func() {
				linear := 2400 * 21.0975 / 10
				So(projected, ShouldBeGreaterThan, linear)
				So(projected, ShouldBeLessThan, linear*1.1)
			})
		})

		Convey("When projecting down to a shorter distance", func() {
			So(projection.ProjectTime(10, 2400, 5), ShouldBeLessThan, 1200)
		})

		Convey("When inputs are degenerate they are clamped", func() {
			So(projection.ProjectTime(0, 0, 0), ShouldAlmostEqual, 60, 1e-9)
		})
	})
}

func TestEstimateGoalTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	Convey("Given heterogeneous performance evidence", t, func() {
		Convey("When three recent consistent results exist", func() {
			evidence := []model.PerformanceEvidence{
				{Source: types.SourceManual, DistanceKm: 10, TimeSec: 2400, Date: daysAgo(now, 10)},
				{Source: types.SourceSynced, DistanceKm: 10, TimeSec: 2430, Date: daysAgo(now, 30)},
				{Source: types.SourceSynced, DistanceKm: 10, TimeSec: 2390, Date: daysAgo(now, 60)},
			}
			est := projection.EstimateGoalTime(10, evidence, now)

			Convey("Then confidence is high and the spread is tight", func() {
				So(est, ShouldNotBeNil)
				So(est.Confidence, ShouldEqual, types.ConfidenceHigh)
				So(est.EvidenceUsed, ShouldEqual, 3)
				So(est.SpreadSec, ShouldBeLessThanOrEqualTo, 300)
				So(est.GoalTimeSec, ShouldBeBetween, 2390, 2430)
			})
		})

		Convey("When only a single result exists", func() {
			evidence := []model.PerformanceEvidence{
				{Source: types.SourceManual, DistanceKm: 5, TimeSec: 1200},
			}
			est := projection.EstimateGoalTime(10, evidence, now)

			Convey("Then confidence is low and the spread is zero", func() {
				So(est, ShouldNotBeNil)
				So(est.Confidence, ShouldEqual, types.ConfidenceLow)
				So(est.EvidenceUsed, ShouldEqual, 1)
				So(est.SpreadSec, ShouldEqual, 0)
			})
		})

		Convey("When two results disagree moderately", func() {
			evidence := []model.PerformanceEvidence{
				{Source: types.SourceManual, DistanceKm: 10, TimeSec: 2400, Date: daysAgo(now, 10)},
				{Source: types.SourceManual, DistanceKm: 10, TimeSec: 2800, Date: daysAgo(now, 20)},
			}
			est := projection.EstimateGoalTime(10, evidence, now)

			Convey("Then confidence is medium", func() {
				So(est, ShouldNotBeNil)
				So(est.Confidence, ShouldEqual, types.ConfidenceMedium)
				So(est.SpreadSec, ShouldEqual, 400)
			})
		})

		Convey("When old evidence competes with fresh evidence", func() {
			fresh := []model.PerformanceEvidence{
				{DistanceKm: 10, TimeSec: 2400, Date: daysAgo(now, 10)},
				{DistanceKm: 10, TimeSec: 3000, Date: daysAgo(now, 800)},
			}
			est := projection.EstimateGoalTime(10, fresh, now)

			Convey("Then the weighted mean leans toward the fresh result", func() {
				So(est, ShouldNotBeNil)
				// Equal weights would give 2700; recency decay pulls lower.
				So(est.GoalTimeSec, ShouldBeLessThan, 2700)
			})
		})

		Convey("When evidence from a distant distance competes with a near one", func() {
			evidence := []model.PerformanceEvidence{
				{DistanceKm: 10, TimeSec: 2400},
				{DistanceKm: 1, TimeSec: 300},
			}
			est := projection.EstimateGoalTime(10, evidence, now)
			So(est, ShouldNotBeNil)

			// The 1k result projects to ~3444s at 10k; relevance weighting
			// keeps the estimate closer to the 10k observation.
			midpoint := (2400 + 3444) / 2
			So(est.GoalTimeSec, ShouldBeLessThan, midpoint)
		})

		Convey("When evidence is invalid it is filtered, not corrected", func() {
			evidence := []model.PerformanceEvidence{
				{DistanceKm: -5, TimeSec: 2400},
				{DistanceKm: 10, TimeSec: 30},
				{DistanceKm: 0, TimeSec: 1200},
			}
			So(projection.EstimateGoalTime(10, evidence, now), ShouldBeNil)
		})

		Convey("When no evidence exists", func() {
			So(projection.EstimateGoalTime(10, nil, now), ShouldBeNil)
		})

		Convey("When evidence has no date it counts as fresh", func() {
			evidence := []model.PerformanceEvidence{
				{DistanceKm: 10, TimeSec: 2400},
				{DistanceKm: 10, TimeSec: 2420},
				{DistanceKm: 10, TimeSec: 2410},
			}
			est := projection.EstimateGoalTime(10, evidence, now)
			So(est, ShouldNotBeNil)
			So(est.Confidence, ShouldEqual, types.ConfidenceHigh)
		})
	})
}

func TestTimeHelpers(t *testing.T) {
	Convey("Given the h:m:s helpers", t, func() {
		Convey("When formatting", func() {
			So(projection.FormatTimeHMS(3725), ShouldEqual, "1:02:05")
			So(projection.FormatTimeHMS(2400), ShouldEqual, "40:00")
			So(projection.FormatTimeHMS(59), ShouldEqual, "0:59")
		})

		Convey("When parsing valid parts", func() {
			sec, ok := projection.ParseTimeParts(1, 2, 5)
			So(ok, ShouldBeTrue)
			So(sec, ShouldEqual, 3725)

			sec, ok = projection.ParseTimeParts(0, 40, 0)
			So(ok, ShouldBeTrue)
			So(sec, ShouldEqual, 2400)
		})

		Convey("When parsing overflow parts they are rejected, not carried", func() {
			_, ok := projection.ParseTimeParts(0, 0, 90)
			So(ok, ShouldBeFalse)

			_, ok = projection.ParseTimeParts(0, 75, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("When parsing negative parts", func() {
			_, ok := projection.ParseTimeParts(-1, 0, 0)
			So(ok, ShouldBeFalse)

			_, ok = projection.ParseTimeParts(0, -5, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Then format and parse are symmetric for in-range parts", func() {
			sec, ok := projection.ParseTimeParts(2, 15, 30)
			So(ok, ShouldBeTrue)
			So(projection.FormatTimeHMS(sec), ShouldEqual, "2:15:30")
		})
	})
}
