package ingest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// FetchTimeout bounds a whole fetch, from guard check to last body byte.
	FetchTimeout = 10 * time.Second
	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 10 << 20
)

var errBodyTooLarge = errors.New("response body exceeds size limit")

// URLChecker gates outbound requests. *Guard satisfies it.
type URLChecker interface {
	Check(ctx context.Context, rawURL string) (bool, error)
}

// Transport performs guarded, time-bounded GET requests.
type Transport struct {
	client    *http.Client
	checker   URLChecker
	userAgent string
	timeout   time.Duration
	maxBody   int64
}

func NewTransport(client *http.Client, checker URLChecker, userAgent string) *Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &Transport{
		client:    client,
		checker:   checker,
		userAgent: userAgent,
		timeout:   FetchTimeout,
		maxBody:   MaxBodySize,
	}
}

// Fetch returns the full response body. Failures are *Error values, except
// that cancellation of ctx by the caller is returned as ctx.Err().
func (t *Transport) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, ok := ParseFeedURL(rawURL)
	if !ok {
		return nil, newError(KindInvalidURL, fmt.Errorf("unsupported url %q", rawURL))
	}
	target := u.String()

	fetchCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	allowed, err := t.checker.Check(fetchCtx, target)
	if err != nil {
		return nil, t.classify(ctx, fetchCtx, err)
	}
	if !allowed {
		return nil, newError(KindSSRFBlocked, fmt.Errorf("host %q is not allowed", u.Hostname()))
	}

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newError(KindInvalidURL, err)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.classify(ctx, fetchCtx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newError(KindHTTPError, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, t.classify(ctx, fetchCtx, err)
	}
	if int64(len(body)) > t.maxBody {
		return nil, newError(KindHTTPError, errBodyTooLarge)
	}
	return body, nil
}

// classify maps a transport failure onto the taxonomy. ctx is the caller's
// context and fetchCtx the one carrying the fetch deadline.
func (t *Transport) classify(ctx, fetchCtx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, ErrBlockedAddress) {
		return newError(KindSSRFBlocked, err)
	}
	if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTimeout, err)
	}
	if isCertificateError(err) {
		return newError(KindSelfSignedCertificate, err)
	}
	return newError(KindHTTPError, err)
}

func isCertificateError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var invalid x509.CertificateInvalidError
	var hostname x509.HostnameError
	var verification *tls.CertificateVerificationError
	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &invalid),
		errors.As(err, &hostname),
		errors.As(err, &verification):
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "certificate") || strings.Contains(msg, "x509")
}
