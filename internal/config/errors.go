package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	ErrEmptyAddr    = fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	ErrEmptyDataDir = fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
)

// wrapLoadError tags provider and unmarshal failures with ErrLoadConfig.
func wrapLoadError(err error) error {
	return fmt.Errorf("%w: %v", ErrLoadConfig, err)
}
