package snapshots

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrSeasonNotFound = errors.New("season not found")
	ErrWeekNotFound   = errors.New("week not found")
	ErrMalformed      = errors.New("malformed snapshot")
	ErrUnknownSource  = errors.New("unknown snapshot source")
)
