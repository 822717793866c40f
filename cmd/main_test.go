package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/strideworks/stride/internal/app"
	"github.com/strideworks/stride/internal/config"
	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/internal/domain/zones"
	"github.com/strideworks/stride/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("STRIDE_QUEUE_SIZE", "1000")
			_ = os.Setenv("STRIDE_WORKER_COUNT", "4")
			_ = os.Setenv("STRIDE_FALLBACK_UNIT", "miles")
			defer func() {
				_ = os.Unsetenv("STRIDE_QUEUE_SIZE")
				_ = os.Unsetenv("STRIDE_WORKER_COUNT")
				_ = os.Unsetenv("STRIDE_FALLBACK_UNIT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.CellQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.FallbackUnit, convey.ShouldEqual, "miles")
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestEvidenceLoading(t *testing.T) {
	convey.Convey("Given a manual evidence file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "evidence.json")

		convey.Convey("When the file holds a valid evidence array", func() {
			content := `[
				{"source": "manual", "distance_km": 10, "time_sec": 2400, "date": "2026-05-01T08:00:00Z"},
				{"source": "synced", "distance_km": 5, "time_sec": 1150}
			]`
			convey.So(os.WriteFile(path, []byte(content), 0600), convey.ShouldBeNil)

			evidence, err := loadManualEvidence(path)

			convey.Convey("Then both observations decode", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(evidence, convey.ShouldHaveLength, 2)
				convey.So(evidence[0].Source, convey.ShouldEqual, types.SourceManual)
				convey.So(evidence[0].Date, convey.ShouldNotBeNil)
				convey.So(evidence[1].Source, convey.ShouldEqual, types.SourceSynced)
				convey.So(evidence[1].Date, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file is not JSON", func() {
			convey.So(os.WriteFile(path, []byte("not json"), 0600), convey.ShouldBeNil)

			_, err := loadManualEvidence(path)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := loadManualEvidence(filepath.Join(dir, "missing.json"))

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestOutputAssembly(t *testing.T) {
	convey.Convey("Given a drained pipeline", t, func() {
		_ = logger.Init()
		ctx := context.Background()
		svc := app.New(
			app.WithWorkerCount(1),
			app.WithGoalDistanceKm(10),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		doc := &model.PlanDocument{
			ProgramName: "10k builder",
			Weeks: []model.PlanWeek{
				{WeekNumber: 1, Days: map[string]model.PlanCell{
					"monday":   {Raw: "Rest day"},
					"saturday": {Raw: "8 km easy"},
				}},
			},
		}
		_, err := svc.NormalizePlan(ctx, doc)
		convey.So(err, convey.ShouldBeNil)
		drainCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		convey.So(svc.Drain(drainCtx), convey.ShouldBeNil)

		convey.Convey("When building output without evidence", func() {
			out := buildOutput(ctx, svc, doc, "km", nil)

			convey.Convey("Then the schedule is present and the projection is absent", func() {
				convey.So(out.ProgramName, convey.ShouldEqual, "10k builder")
				convey.So(out.Schedule, convey.ShouldHaveLength, 2)
				convey.So(out.Schedule[0].Position, convey.ShouldEqual, 1)
				convey.So(out.GoalEstimate, convey.ShouldBeNil)
				convey.So(out.PaceProfile, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When building output with recent evidence", func() {
			recent := time.Now().UTC().Add(-14 * 24 * time.Hour)
			evidence := []model.PerformanceEvidence{
				{Source: types.SourceManual, DistanceKm: 10, TimeSec: 3000, Date: &recent},
				{Source: types.SourceSynced, DistanceKm: 10, TimeSec: 3030, Date: &recent},
			}
			out := buildOutput(ctx, svc, doc, "km", evidence)

			convey.Convey("Then the projection is populated", func() {
				convey.So(out.GoalEstimate, convey.ShouldNotBeNil)
				convey.So(out.GoalEstimate.EvidenceUsed, convey.ShouldEqual, 2)
				convey.So(out.GoalTimeHMS, convey.ShouldNotBeEmpty)
				convey.So(out.PaceProfile, convey.ShouldNotBeEmpty)
				convey.So(out.PaceProfile["race"], convey.ShouldNotBeEmpty)
			})
		})
	})
}

func TestProfilePaces(t *testing.T) {
	convey.Convey("Given a derived zone profile", t, func() {
		profile := zones.DeriveProfile(10, 2400, types.KM)

		convey.Convey("When flattening for output", func() {
			flat := profilePaces(profile)

			convey.Convey("Then every bucket is keyed by its storage name", func() {
				convey.So(flat, convey.ShouldHaveLength, len(profile.Paces))
				convey.So(flat["race"], convey.ShouldEqual, "4:00 /km")
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing the system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing the system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
