package config

import (
	"errors"
)

// Sentinel kinds callers match with errors.Is. ErrInvalidConfig wraps every
// threshold consistency failure from Validate; ErrLoadConfig wraps provider
// failures (missing file, bad YAML, unmarshal) during layered loading.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
