package testcorpus

import "time"

// Run timing constants.
const (
	DefaultDrainTimeout  = 2 * time.Minute
	PercentageMultiplier = 100.0
)
