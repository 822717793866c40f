// Package repository defines the normalized-schedule store interface and errors.
package repository

import (
	"context"

	model "github.com/strideworks/stride/internal/domain/model"
)

// Entry represents one scheduled workout with its calendar position.
type Entry struct {
	Position int
	Week     int
	Day      string
	Workout  model.NormalizedWorkout
}

// Store provides read/write access to the normalized schedule.
type Store interface {
	// Upsert stores the workout under its (week, day) slot, replacing any
	// previous normalization of the same cell. Returns true if the slot
	// was newly created.
	Upsert(ctx context.Context, w model.NormalizedWorkout) (bool, error)

	// Get returns the workout stored for a (week, day) slot.
	// Returns ErrNotFound if the slot is empty.
	Get(ctx context.Context, week int, day string) (model.NormalizedWorkout, error)

	// Position returns the 1-based calendar position of a slot within the
	// full schedule. Returns ErrNotFound if the slot is empty.
	Position(ctx context.Context, week int, day string) (int, error)

	// FirstN returns up to n entries in calendar order (week asc, day asc).
	FirstN(ctx context.Context, n int) ([]Entry, error)

	// All returns every entry in calendar order.
	All(ctx context.Context) ([]Entry, error)

	// Count returns the number of populated slots.
	Count(ctx context.Context) int
}
