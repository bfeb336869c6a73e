package config

import "time"

const (
	// MaxRequestBodyBytes caps the /convert request body.
	// Documents arrive inline as JSON strings, so this bounds the source size.
	MaxRequestBodyBytes = 10 << 20

	// ReadTimeout bounds how long the server waits for a request body
	ReadTimeout = 15 * time.Second

	// WriteTimeout bounds a whole request, including the converter run.
	// PDF output through a LaTeX engine can take tens of seconds.
	WriteTimeout = 120 * time.Second

	// IdleTimeout for keep-alive connections
	IdleTimeout = 60 * time.Second

	// ShutdownTimeout is the grace period for in-flight conversions on SIGTERM
	ShutdownTimeout = 30 * time.Second
)
