package planparse_test

import (
	"testing"

	planparse "github.com/strideworks/stride/internal/domain/planparse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCleanCellText(t *testing.T) {
	Convey("Given raw table cells", t, func() {
		Convey("When the cell carries footnote digits glued to words", func() {
			So(planparse.CleanCellText("5 miles2 easy"), ShouldEqual, "5 miles easy")
			So(planparse.CleanCellText("XT3 or rest"), ShouldEqual, "XT or rest")
		})

		Convey("When a word was split by extraction", func() {
			So(planparse.CleanCellText("4 iles easy"), ShouldEqual, "4 miles easy")
			So(planparse.CleanCellText("est; then stretch"), ShouldEqual, "Rest; then stretch")
		})

		Convey("When the cell has embedded newlines and ragged spacing", func() {
			So(planparse.CleanCellText("5 miles\n easy  pace"), ShouldEqual, "5 miles easy pace")
		})

		Convey("When the cell is empty", func() {
			So(planparse.CleanCellText("   \n "), ShouldEqual, "")
		})

		Convey("Then cleaning is idempotent", func() {
			once := planparse.CleanCellText("5 miles2\neasy")
			So(planparse.CleanCellText(once), ShouldEqual, once)
		})
	})
}

func TestClassifySegment(t *testing.T) {
	Convey("Given workout segments", t, func() {
		cases := map[string]string{
			"Rest day":                  "rest",
			"Strength 2":                "strength",
			"Cross training 30 mins":    "cross-training",
			"Training race 5k":          "training-race",
			"Goal race":                 "race",
			"Tempo 4 miles":             "tempo",
			"Hill pyramid":              "hill-pyramid",
			"Hills 6x":                  "hills",
			"Progression run":           "progression",
			"Recovery run or hike":      "recovery",
			"Trail run 8 miles":         "trail-run",
			"Fast finish long run":      "fast-finish",
			"LRL 90 mins":               "lrl",
			"Easy 5 miles":              "easy-run",
			"Something unclassifiable.": "unknown",
		}

		Convey("When classifying each", func() {
			for text, want := range cases {
				So(planparse.ClassifySegment(text), ShouldEqual, want)
			}
		})

		Convey("When several rules could match, the earlier rule wins", func() {
			So(planparse.ClassifySegment("Training race at easy effort"), ShouldEqual, "training-race")
		})
	})
}

func TestExtractMetrics(t *testing.T) {
	Convey("Given workout texts with figures", t, func() {
		Convey("When a single distance is present", func() {
			m := planparse.ExtractMetrics("5 miles easy")
			So(m.DistanceValue, ShouldNotBeNil)
			So(*m.DistanceValue, ShouldEqual, 5)
			So(m.DistanceUnit, ShouldEqual, "miles")
			So(m.DistanceKm, ShouldBeNil)
			So(m.Minutes, ShouldBeNil)
		})

		Convey("When a distance range is present", func() {
			m := planparse.ExtractMetrics("4-6 km steady")
			So(m.DistanceRange, ShouldResemble, []float64{4, 6})
			So(m.DistanceUnit, ShouldEqual, "km")
			So(*m.DistanceValue, ShouldEqual, 6)
			So(*m.DistanceKm, ShouldEqual, 6)
			So(m.DistanceKmRng, ShouldResemble, []float64{4, 6})
		})

		Convey("When meters are given they mirror into km", func() {
			m := planparse.ExtractMetrics("6 x 400m repeats")
			So(m.DistanceUnit, ShouldEqual, "m")
			So(*m.Meters, ShouldEqual, 400)
			So(*m.DistanceKm, ShouldEqual, 0.4)
		})

		Convey("When a short bare m has no interval context it means minutes", func() {
			m := planparse.ExtractMetrics("run 45 m at ease")
			So(m.DistanceValue, ShouldBeNil)
			So(m.Minutes, ShouldNotBeNil)
			So(*m.Minutes, ShouldEqual, 45)
		})

		Convey("When a short bare m sits in interval context it means meters", func() {
			m := planparse.ExtractMetrics("8 x 80 m strides")
			So(m.DistanceUnit, ShouldEqual, "m")
			So(*m.Meters, ShouldEqual, 80)
		})

		Convey("When a duration follows a distance", func() {
			m := planparse.ExtractMetrics("5 miles in 45 minutes")
			So(*m.DistanceValue, ShouldEqual, 5)
			So(*m.Minutes, ShouldEqual, 45)
		})

		Convey("When a duration range is present", func() {
			m := planparse.ExtractMetrics("cross training 30-40 mins")
			So(m.MinutesRange, ShouldResemble, []int{30, 40})
			So(m.Minutes, ShouldBeNil)
		})

		Convey("When the text has no figures", func() {
			m := planparse.ExtractMetrics("Rest day")
			So(m.DistanceValue, ShouldBeNil)
			So(m.Minutes, ShouldBeNil)
			So(m.MinutesRange, ShouldBeNil)
		})
	})
}

func TestParseCell(t *testing.T) {
	Convey("Given whole plan cells", t, func() {
		Convey("When the cell has several segments", func() {
			cell := planparse.ParseCell("5 miles easy + Strength 1")

			Convey("Then each segment is classified with its own metrics", func() {
				So(cell.Segments, ShouldHaveLength, 2)
				So(cell.Segments[0].Type, ShouldEqual, "easy-run")
				So(*cell.Segments[0].Metrics.DistanceValue, ShouldEqual, 5)
				So(cell.Segments[1].Type, ShouldEqual, "strength")
			})

			Convey("Then the cell-level guess follows the priority ranking", func() {
				So(cell.TypeGuess, ShouldEqual, "strength")
			})
		})

		Convey("When rest appears alongside anything else it dominates", func() {
			cell := planparse.ParseCell("Rest day + optional easy 20 mins")
			So(cell.TypeGuess, ShouldEqual, "rest")
		})

		Convey("When the cell is empty", func() {
			cell := planparse.ParseCell("")
			So(cell.Raw, ShouldEqual, "")
			So(cell.Segments, ShouldBeEmpty)
			So(cell.TypeGuess, ShouldEqual, "unknown")
		})
	})
}
