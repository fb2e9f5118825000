package synth

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "synth_log_" + timestamp + ".log"
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

// ShowHelp prints usage information for the archive generator.
func ShowHelp() {
	os.Stdout.WriteString(`League Archive Generator
========================

Generates a synthetic multi-season snapshot tree spanning all three source
generations, for exercising ingestion and reconciliation locally.

Usage:
  go run cmd/synth-league/main.go [options]

Options:
  -dir string
        Destination directory for the snapshot tree (default "./data")
  -start int
        First season year (default 2015)
  -seasons int
        Number of consecutive seasons (default 9)
  -teams int
        Teams per season (default 10)
  -weeks int
        Regular-season weeks per season (default 14)
  -workers int
        Number of concurrent season writers (default 4)
  -log string
        Log file for generator output (default: synth_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate with default settings
  go run cmd/synth-league/main.go

  # A longer league with more teams
  go run cmd/synth-league/main.go -seasons 12 -teams 12 -dir ./archive
`)
}
