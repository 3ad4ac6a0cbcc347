package config

import "errors"

var (
	// ErrInvalidPort is returned when the listen port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrEmptyCommand is returned when a required command is blank.
	ErrEmptyCommand = errors.New("command must not be empty")

	// ErrNegativeDuration is returned for timeouts below zero.
	ErrNegativeDuration = errors.New("duration must not be negative")
)
