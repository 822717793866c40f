package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/strideworks/stride/internal/testcorpus"
)

// Default configuration constants.
const (
	defaultNumWeeks   = 12
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		numWeeks   = flag.Int("weeks", defaultNumWeeks, "Number of plan weeks to generate")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of normalization workers")
		unit       = flag.String("unit", "km", "Fallback unit for bare distances")
		timeout    = flag.Duration("timeout", testcorpus.DefaultDrainTimeout, "Pipeline drain timeout")
		outputFile = flag.String("output", "", "Output file for the generated plan (default: generated_plan_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: corpus_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testcorpus.ShowHelp()
		return
	}

	// Setup logging
	if err := testcorpus.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &testcorpus.Config{
		NumWeeks:     *numWeeks,
		Workers:      *workers,
		FallbackUnit: *unit,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the verification
	if err := testcorpus.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Verification failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
