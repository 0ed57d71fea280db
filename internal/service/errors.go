package service

import (
	"errors"
	"fmt"

	"feedsync/backend/internal/ingest"
	"feedsync/backend/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid")
	ErrFeedFetch       = errors.New("feed fetch failed")
	ErrNoSubscriptions = errors.New("no subscriptions")
)

// FeedConflictError is returned when a feed URL already exists.
type FeedConflictError struct {
	ExistingFeed model.Feed
}

func (e *FeedConflictError) Error() string {
	return "feed already exists"
}

func (e *FeedConflictError) Is(target error) bool {
	return target == ErrConflict
}

// FetchFailedError carries the ingest failure kind of a subscribe or refresh.
type FetchFailedError struct {
	Kind ingest.Kind
	Err  error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("feed fetch failed: %s", e.Kind)
}

func (e *FetchFailedError) Is(target error) bool {
	return target == ErrFeedFetch
}

func (e *FetchFailedError) Unwrap() error {
	return e.Err
}

// fetchFailure converts an ingest error into a FetchFailedError. Errors
// without a kind, such as caller cancellation, pass through unchanged.
func fetchFailure(err error) error {
	kind, ok := ingest.KindOf(err)
	if !ok {
		return err
	}
	return &FetchFailedError{Kind: kind, Err: err}
}
