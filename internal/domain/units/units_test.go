package units_test

import (
	"math"
	"testing"

	types "github.com/strideworks/stride/internal/domain/types"
	units "github.com/strideworks/stride/internal/domain/units"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConvertDistance(t *testing.T) {
	Convey("Given raw distance conversion", t, func() {
		Convey("When converting between the same unit", func() {
			So(units.ConvertDistance(5, types.KM, types.KM), ShouldEqual, 5)
			So(units.ConvertDistance(5, types.Miles, types.Miles), ShouldEqual, 5)
		})

		Convey("When converting miles to km", func() {
			So(units.ConvertDistance(1, types.Miles, types.KM), ShouldAlmostEqual, 1.609344, 1e-12)
		})

		Convey("When converting km to miles", func() {
			So(units.ConvertDistance(1.609344, types.KM, types.Miles), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Then a round trip should return the original value", func() {
			for _, v := range []float64{0.1, 1, 3.2, 5, 10, 26.2, 42.195, 100} {
				back := units.ConvertDistance(units.ConvertDistance(v, types.KM, types.Miles), types.Miles, types.KM)
				So(back, ShouldAlmostEqual, v, 1e-9)

				back = units.ConvertDistance(units.ConvertDistance(v, types.Miles, types.KM), types.KM, types.Miles)
				So(back, ShouldAlmostEqual, v, 1e-9)
			}
		})
	})
}

func TestConvertDistanceForDisplay(t *testing.T) {
	Convey("Given distance display conversion", t, func() {
		Convey("When source and viewer units match", func() {
			out, ok := units.ConvertDistanceForDisplay(5.126, "km", types.KM)
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 5.13)
		})

		Convey("When the source unit is missing the viewer unit is assumed", func() {
			out, ok := units.ConvertDistanceForDisplay(3.2, "", types.Miles)
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 3.2)
		})

		Convey("When the snap rule hits a .99 artifact", func() {
			// A 5k displayed as 3.1 miles converts back to 4.99 km raw;
			// the snap restores the intended whole number.
			out, ok := units.ConvertDistanceForDisplay(3.1, "mi", types.KM)
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 5.0)
		})

		Convey("When the snap rule hits a .49 artifact", func() {
			// 2.169 miles -> 3.4907 km -> rounds to 3.49 -> snaps to 3.5.
			out, ok := units.ConvertDistanceForDisplay(2.169, "mi", types.KM)
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 3.5)
		})

		Convey("When the value is clean it stays at 2 decimals", func() {
			// 2.157 miles -> 3.4714 km -> 3.47, no snapping.
			out, ok := units.ConvertDistanceForDisplay(2.157, "mi", types.KM)
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 3.47)
		})

		Convey("When the value is invalid it is rejected", func() {
			_, ok := units.ConvertDistanceForDisplay(0, "km", types.KM)
			So(ok, ShouldBeFalse)

			_, ok = units.ConvertDistanceForDisplay(-3, "km", types.KM)
			So(ok, ShouldBeFalse)

			_, ok = units.ConvertDistanceForDisplay(math.NaN(), "km", types.KM)
			So(ok, ShouldBeFalse)

			_, ok = units.ConvertDistanceForDisplay(math.Inf(1), "km", types.KM)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestConvertPaceForDisplay(t *testing.T) {
	Convey("Given pace display conversion", t, func() {
		Convey("When the pace embeds its unit", func() {
			out := units.ConvertPaceForDisplay("5:00/km", types.Miles, nil)
			So(out, ShouldEqual, "8:03 /mi")
		})

		Convey("When converting miles to km", func() {
			out := units.ConvertPaceForDisplay("8:00 /mi", types.KM, nil)
			So(out, ShouldEqual, "4:58 /km")
		})

		Convey("When source and target units match only the format changes", func() {
			out := units.ConvertPaceForDisplay("7:30/km", types.KM, nil)
			So(out, ShouldEqual, "7:30 /km")
		})

		Convey("When the pace is bare and a hint is supplied", func() {
			hint := types.KM
			out := units.ConvertPaceForDisplay("5:00", types.Miles, &hint)
			So(out, ShouldEqual, "8:03 /mi")
		})

		Convey("When the pace is bare and no hint exists it passes through", func() {
			So(units.ConvertPaceForDisplay("5:00", types.Miles, nil), ShouldEqual, "5:00")
		})

		Convey("When the pace cannot be parsed it passes through", func() {
			So(units.ConvertPaceForDisplay("fast", types.KM, nil), ShouldEqual, "fast")
			So(units.ConvertPaceForDisplay("5:75/km", types.Miles, nil), ShouldEqual, "5:75/km")
			So(units.ConvertPaceForDisplay("", types.KM, nil), ShouldEqual, "")
		})
	})
}

func TestFormatPace(t *testing.T) {
	Convey("Given seconds-per-unit values", t, func() {
		Convey("When formatting", func() {
			So(units.FormatPace(450, types.Miles), ShouldEqual, "7:30 /mi")
			So(units.FormatPace(299.6, types.KM), ShouldEqual, "5:00 /km")
			So(units.FormatPace(59, types.KM), ShouldEqual, "0:59 /km")
		})
	})
}
