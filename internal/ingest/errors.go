package ingest

import (
	"errors"
	"fmt"
)

// ErrBlockedAddress is returned when a connection or redirect to a blocked
// address is refused below the pre-flight guard.
var ErrBlockedAddress = errors.New("connection to blocked address refused")

// Kind classifies a failed fetch. The set is closed.
type Kind int

const (
	KindInvalidURL Kind = iota + 1
	KindSSRFBlocked
	KindSelfSignedCertificate
	KindHTTPError
	KindTimeout
	KindParseError
	KindNotAFeed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindSSRFBlocked:
		return "ssrf_blocked"
	case KindSelfSignedCertificate:
		return "self_signed_certificate"
	case KindHTTPError:
		return "http_error"
	case KindTimeout:
		return "timeout"
	case KindParseError:
		return "parse_error"
	case KindNotAFeed:
		return "not_a_feed"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by Transport, Parser and Fetcher.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ingestErr *Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind, true
	}
	return 0, false
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
