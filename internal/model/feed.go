package model

import "time"

// Feed is a subscription to a remote RSS/Atom document.
type Feed struct {
	ID              int64
	URL             string
	Title           string
	CreatedAt       time.Time
	LastRefreshedAt *time.Time
}
