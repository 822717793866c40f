package intensity_test

import (
	"testing"

	intensity "github.com/strideworks/stride/internal/domain/intensity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractPaceTarget(t *testing.T) {
	Convey("Given free-text workout descriptions", t, func() {
		Convey("When the text holds a concrete pace", func() {
			out, ok := intensity.ExtractPaceTarget("steady run @ 7:30/km")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "7:30/km")
		})

		Convey("When the pace uses 'per' instead of a slash", func() {
			out, ok := intensity.ExtractPaceTarget("hold 7:30 per km on the flats")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "7:30/km")
		})

		Convey("When the pace is a range", func() {
			out, ok := intensity.ExtractPaceTarget("7:30 - 8:00 / mi")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "7:30-8:00/mi")
		})

		Convey("When the pace range uses the word 'to'", func() {
			out, ok := intensity.ExtractPaceTarget("8:00 to 8:30/km")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "8:00-8:30/km")
		})

		Convey("When the text holds no unit conversion should happen", func() {
			out, ok := intensity.ExtractPaceTarget("10:00/mi")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "10:00/mi")
		})

		Convey("When only a bucket keyword is present", func() {
			out, ok := intensity.ExtractPaceTarget("Tempo 20min")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "Tempo pace")

			out, ok = intensity.ExtractPaceTarget("nice easy jog around the park")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "Easy pace")
		})

		Convey("When both race and easy keywords appear race must win", func() {
			out, ok := intensity.ExtractPaceTarget("easy warm up then 3 miles at race pace")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "Race pace")
		})

		Convey("When a bare repetition pattern marks interval work", func() {
			out, ok := intensity.ExtractPaceTarget("6x400 on the track")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "Interval pace")
		})

		Convey("When nothing matches", func() {
			_, ok := intensity.ExtractPaceTarget("strength and mobility session")
			So(ok, ShouldBeFalse)

			_, ok = intensity.ExtractPaceTarget("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestExtractEffortTarget(t *testing.T) {
	Convey("Given free-text effort descriptions", t, func() {
		Convey("When the text holds an RPE marker", func() {
			out, ok := intensity.ExtractEffortTarget("RPE 7/10")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "RPE 7/10")
		})

		Convey("When the RPE has no /10 suffix it gets normalized", func() {
			out, ok := intensity.ExtractEffortTarget("rpe 6")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "RPE 6/10")
		})

		Convey("When the RPE is a range", func() {
			out, ok := intensity.ExtractEffortTarget("RPE 6-7 throughout")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "RPE 6-7/10")
		})

		Convey("When a bare N/10 appears without the keyword", func() {
			out, ok := intensity.ExtractEffortTarget("effort around 8/10 today")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "RPE 8/10")
		})

		Convey("When an HR zone is named", func() {
			out, ok := intensity.ExtractEffortTarget("Zone 3 HR")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "HR Zone Z3")

			out, ok = intensity.ExtractEffortTarget("stay in z2")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "HR Zone Z2")
		})

		Convey("When a bpm range is given", func() {
			out, ok := intensity.ExtractEffortTarget("keep HR 150-160 bpm")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "HR 150-160")
		})

		Convey("When a single bpm is given", func() {
			out, ok := intensity.ExtractEffortTarget("cap at 155 bpm")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "HR 155")
		})

		Convey("When only a qualitative word is present", func() {
			out, ok := intensity.ExtractEffortTarget("moderate effort hills")
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, "Moderate effort")
		})

		Convey("When nothing matches", func() {
			_, ok := intensity.ExtractEffortTarget("just enjoy the scenery")
			So(ok, ShouldBeFalse)
		})
	})
}
