package testcorpus

import (
	"context"
	"fmt"
	"log"
	"strings"

	service "github.com/strideworks/stride/internal/app"
	"github.com/strideworks/stride/internal/domain/model"
)

// verifyResults checks every generated cell against its stored normalized
// workout. Individual failures are counted and logged; the run only fails
// when nothing could be verified.
func verifyResults(ctx context.Context, svc *service.Service, expectations []expectation, stats *Stats) error {
	log.Println("verifying normalized schedule...")

	if len(expectations) == 0 {
		return fmt.Errorf("no expectations to verify")
	}

	for _, exp := range expectations {
		w, err := svc.Workout(ctx, exp.Week, exp.Day)
		if err != nil {
			stats.ChecksRun++
			stats.ChecksFailed++
			log.Printf("MISSING week %d %s (%q): %v", exp.Week, exp.Day, exp.Raw, err)
			continue
		}
		stats.CellsNormalized++
		stats.ChecksRun += checkWorkout(exp, w, stats)
	}

	if stats.CellsNormalized == 0 {
		return fmt.Errorf("no cells reached the store")
	}

	log.Printf("verification completed: %d checks, %d failed", stats.ChecksRun, stats.ChecksFailed)
	return nil
}

// checkWorkout runs every applicable expectation check against one workout
// and returns the number of checks performed.
func checkWorkout(exp expectation, w model.NormalizedWorkout, stats *Stats) int {
	checks := 0
	fail := func(format string, args ...any) {
		stats.ChecksFailed++
		log.Printf("FAIL week %d %s (%q): %s", exp.Week, exp.Day, exp.Raw, fmt.Sprintf(format, args...))
	}

	if exp.WantType != "" {
		checks++
		if w.TypeGuess != exp.WantType {
			fail("type guess %q, want %q", w.TypeGuess, exp.WantType)
		}
	}
	if exp.WantSubstring != "" {
		checks++
		if !strings.Contains(strings.ToLower(w.Normalized), strings.ToLower(exp.WantSubstring)) {
			fail("normalized %q does not contain %q", w.Normalized, exp.WantSubstring)
		}
	}
	if exp.WantPace {
		checks++
		if w.PaceDisplay == "" {
			fail("no pace display extracted")
		}
	}
	if exp.WantEffort {
		checks++
		if w.EffortDisplay == "" {
			fail("no effort display extracted")
		}
	}
	if exp.WantKm > 0 {
		checks++
		if w.Metrics.DistanceKm == nil {
			fail("no km distance extracted")
		} else if *w.Metrics.DistanceKm != exp.WantKm {
			fail("km distance %.4f, want %.4f", *w.Metrics.DistanceKm, exp.WantKm)
		}
	}
	if exp.WantMinutes > 0 {
		checks++
		if w.Metrics.Minutes == nil {
			fail("no duration extracted")
		} else if *w.Metrics.Minutes != exp.WantMinutes {
			fail("duration %d minutes, want %d", *w.Metrics.Minutes, exp.WantMinutes)
		}
	}

	return checks
}

// verifyProjection runs a deterministic goal-time estimate through the
// service and checks the projection and pace-profile invariants.
func verifyProjection(ctx context.Context, svc *service.Service, stats *Stats) error {
	log.Println("verifying goal projection...")

	evidence := syntheticEvidence(svc.GoalDistanceKm())
	est := svc.EstimateGoal(ctx, evidence)

	stats.ChecksRun++
	if est == nil {
		stats.ChecksFailed++
		return fmt.Errorf("no estimate from %d evidence entries", len(evidence))
	}

	stats.ChecksRun++
	if est.EvidenceUsed != len(evidence) {
		stats.ChecksFailed++
		log.Printf("FAIL projection: used %d of %d evidence entries", est.EvidenceUsed, len(evidence))
	}

	profile := svc.PaceProfile(est.GoalTimeSec)
	stats.ChecksRun++
	if len(profile.Paces) == 0 {
		stats.ChecksFailed++
		log.Printf("FAIL projection: empty pace profile")
	}

	log.Printf("goal estimate: %ds over %.2f km, confidence %s, paces %d",
		est.GoalTimeSec, svc.GoalDistanceKm(), est.Confidence, len(profile.Paces))
	return nil
}
