package models

import "time"

// RateLimitWindow is a counter's state right after a request was counted.
type RateLimitWindow struct {
	Count   int
	ResetAt time.Time
}
