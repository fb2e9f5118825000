package synth

import "time"

// Config holds configuration for a synthetic archive run.
type Config struct {
	DataDir     string // Destination snapshot tree root
	StartSeason int    // First season year
	NumSeasons  int    // Number of consecutive seasons
	NumTeams    int    // Teams per season, rounded up to even
	NumWeeks    int    // Regular-season weeks per season
	Workers     int    // Number of concurrent season writers
	LogFile     string // Log file for generator output
	Verbose     bool   // Enable verbose logging
}

// Stats holds generation statistics.
type Stats struct {
	SeasonsWritten  int
	WeeksWritten    int
	RowsWritten     int
	MatchupsWritten int
	PlayersInPool   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
