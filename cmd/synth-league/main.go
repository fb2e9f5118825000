package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/synth"
)

// Default configuration constants.
const (
	defaultStartSeason = 2015
	defaultNumSeasons  = 9
	defaultNumTeams    = 10
	defaultNumWeeks    = 14
	defaultWorkers     = 4
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		dataDir     = flag.String("dir", "./data", "Destination directory for the snapshot tree")
		startSeason = flag.Int("start", defaultStartSeason, "First season year")
		numSeasons  = flag.Int("seasons", defaultNumSeasons, "Number of consecutive seasons")
		numTeams    = flag.Int("teams", defaultNumTeams, "Teams per season")
		numWeeks    = flag.Int("weeks", defaultNumWeeks, "Regular-season weeks per season")
		workers     = flag.Int("workers", defaultWorkers, "Number of concurrent season writers")
		logFile     = flag.String("log", "", "Log file for generator output (default: synth_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synth.ShowHelp()
		return
	}

	if err := synth.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &synth.Config{
		DataDir:     *dataDir,
		StartSeason: *startSeason,
		NumSeasons:  *numSeasons,
		NumTeams:    *numTeams,
		NumWeeks:    *numWeeks,
		Workers:     *workers,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	if err := synth.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		return
	}
}
