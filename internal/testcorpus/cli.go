package testcorpus

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/strideworks/stride/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "corpus_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the corpus verification tool.
func ShowHelp() {
	os.Stdout.WriteString(`Stride Corpus Verification Tool
===============================

Generates a synthetic training plan, runs it through the normalization
pipeline in process, and verifies every stored workout.

Usage:
  go run cmd/test-corpus/main.go [options]

Options:
  -weeks int
        Number of plan weeks to generate (default 12)
  -workers int
        Number of normalization workers (default CPU cores * 2)
  -unit string
        Fallback unit for bare distances, "km" or "miles" (default "km")
  -timeout duration
        Pipeline drain timeout (default 2m)
  -output string
        Output file for the generated plan (default: generated_plan_TIMESTAMP.json)
  -log string
        Log file for run output (default: corpus_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Verify with default settings
  go run cmd/test-corpus/main.go

  # A year-long plan with more workers
  go run cmd/test-corpus/main.go -weeks 52 -workers 16

  # Mile-based plans
  go run cmd/test-corpus/main.go -unit miles -verbose
`)
}
