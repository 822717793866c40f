package testcorpus

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/pkg/logger"
)

// cellTemplate is one raw plan cell paired with what the pipeline must make
// of it. The templates cover the extraction surface: locale rewrites, typed
// segments, distance and duration metrics, pace and effort targets.
type cellTemplate struct {
	raw           string
	wantType      string
	wantSubstring string
	wantPace      bool
	wantEffort    bool
	wantKm        float64
	wantMinutes   int
}

var cellTemplates = []cellTemplate{
	{raw: "Rest day", wantType: "rest", wantSubstring: "rest day"},
	{raw: "Ruhetag", wantType: "rest", wantSubstring: "rest day"},
	{raw: "5 miles easy", wantType: "easy-run"},
	{raw: "Tempo 4 miles at 8:30/mile", wantType: "tempo", wantPace: true},
	{raw: "6 x 400m repeats", wantKm: 0.4},
	{raw: "Cross training 30-40 mins", wantType: "cross-training"},
	{raw: "Footing 40 minutes", wantType: "easy-run", wantSubstring: "easy run", wantMinutes: 40},
	{raw: "Hill pyramid + 20 mins easy", wantType: "hill-pyramid"},
	{raw: "Zone 2 run 45 mins", wantEffort: true, wantMinutes: 45},
	{raw: "Trail run 8 km", wantType: "trail-run", wantKm: 8},
}

// getRandomIndex returns a uniform random index below n using crypto/rand.
func getRandomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePlan builds a synthetic plan document of NumWeeks weeks, filling
// every weekday with a randomly chosen template, and returns the document
// together with the per-cell expectations.
func generatePlan(ctx context.Context, config *Config, stats *Stats) (*model.PlanDocument, []expectation, error) {
	logger.Get().Info(ctx, "generating synthetic plan", logger.Int("numWeeks", config.NumWeeks))

	type weekResult struct {
		index        int
		week         model.PlanWeek
		expectations []expectation
		err          error
	}

	resultChan := make(chan weekResult, config.NumWeeks)

	workerCount := minInt(config.Workers, config.NumWeeks)
	weeksPerWorker := config.NumWeeks / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * weeksPerWorker
		end := start + weeksPerWorker
		if worker == workerCount-1 {
			end = config.NumWeeks // Last worker gets remaining weeks
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- weekResult{index: i, err: ctx.Err()}
					return
				default:
					week, exps := generateSingleWeek(i + 1)
					resultChan <- weekResult{index: i, week: week, expectations: exps}
				}
			}
		}(start, end)
	}

	weeks := make([]model.PlanWeek, config.NumWeeks)
	var expectations []expectation
	for i := 0; i < config.NumWeeks; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("context cancelled during plan generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, nil, fmt.Errorf("failed to generate week %d: %w", result.index+1, result.err)
			}
			weeks[result.index] = result.week
			expectations = append(expectations, result.expectations...)
		}
	}

	doc := &model.PlanDocument{
		ProgramName: "corpus verification plan",
		GeneratedAt: time.Now().UTC(),
		Weeks:       weeks,
	}

	stats.CellsGenerated = len(expectations)
	logger.Get().Info(ctx, "generated plan successfully",
		logger.Int("weeks", len(weeks)),
		logger.Int("cells", len(expectations)),
	)

	return doc, expectations, nil
}

// generateSingleWeek fills all seven weekday columns of one week.
func generateSingleWeek(weekNumber int) (model.PlanWeek, []expectation) {
	days := make(map[string]model.PlanCell, 7)
	expectations := make([]expectation, 0, 7)

	for _, day := range types.Days() {
		tpl := cellTemplates[getRandomIndex(len(cellTemplates))]
		dayName := day.String()
		days[dayName] = model.PlanCell{Raw: tpl.raw}
		expectations = append(expectations, expectation{
			Week:          weekNumber,
			Day:           dayName,
			Raw:           tpl.raw,
			WantType:      tpl.wantType,
			WantSubstring: tpl.wantSubstring,
			WantPace:      tpl.wantPace,
			WantEffort:    tpl.wantEffort,
			WantKm:        tpl.wantKm,
			WantMinutes:   tpl.wantMinutes,
		})
	}

	return model.PlanWeek{WeekNumber: weekNumber, Days: days}, expectations
}

// syntheticEvidence builds three recent, consistent performance
// observations around a 5:00/km pace over the goal distance plus a shorter
// tune-up race.
func syntheticEvidence(goalDistanceKm float64) []model.PerformanceEvidence {
	recent := time.Now().UTC().Add(-21 * 24 * time.Hour)
	base := goalDistanceKm * 300
	return []model.PerformanceEvidence{
		{Source: types.SourceManual, DistanceKm: goalDistanceKm, TimeSec: base, Date: &recent},
		{Source: types.SourceSynced, DistanceKm: goalDistanceKm, TimeSec: base * 1.01, Date: &recent},
		{Source: types.SourceManual, DistanceKm: goalDistanceKm / 2, TimeSec: base / 2 * 0.96, Date: &recent},
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
