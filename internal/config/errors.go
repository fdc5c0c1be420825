package config

import "errors"

var (
	// ErrInvalidConfig marks a configuration that loaded but failed Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
)
