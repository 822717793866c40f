package testcorpus

import "time"

// Config holds configuration for the corpus verification run.
type Config struct {
	NumWeeks     int           // Number of plan weeks to generate
	Workers      int           // Number of normalization workers
	Timeout      time.Duration // Drain timeout
	FallbackUnit string        // Unit assumed for bare distances
	OutputFile   string        // Output file for the generated plan
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// expectation records what the pipeline must produce for one generated cell.
type expectation struct {
	Week          int
	Day           string
	Raw           string
	WantType      string  // expected cell-level type guess
	WantSubstring string  // must appear in the normalized text
	WantPace      bool    // a pace display must be present
	WantEffort    bool    // an effort display must be present
	WantKm        float64 // expected km mirror, 0 when not checked
	WantMinutes   int     // expected duration minutes, 0 when not checked
}

// Stats holds run statistics.
type Stats struct {
	CellsGenerated  int
	CellsEnqueued   int
	CellsNormalized int
	ChecksRun       int
	ChecksFailed    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
