package models

import "time"

// BrowserConfig contains runtime options for navigation sessions.
type BrowserConfig struct {
	Proxies           []string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}
