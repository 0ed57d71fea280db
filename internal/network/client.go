package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/proxy"

	"feedsync/backend/internal/ingest"
	"feedsync/backend/internal/logger"
)

// ErrBlockedAddress is returned when a connection to a blocked address is refused.
var ErrBlockedAddress = ingest.ErrBlockedAddress

const (
	dialTimeout  = 10 * time.Second
	maxRedirects = 10
)

// ClientFactory creates HTTP clients for feed fetching, optionally through a proxy.
type ClientFactory struct {
	proxyURL        string
	redirectChecker ingest.URLChecker
	testHTTPClient  *http.Client // For testing only
}

// NewClientFactory creates a new client factory. An empty proxyURL means direct connections.
func NewClientFactory(proxyURL string) *ClientFactory {
	return &ClientFactory{
		proxyURL:        strings.TrimSpace(proxyURL),
		redirectChecker: ingest.NewGuard(nil),
	}
}

// NewClientFactoryForTest creates a client factory that uses the given http.Client for testing.
// This is only for use in tests.
func NewClientFactoryForTest(client *http.Client) *ClientFactory {
	return &ClientFactory{testHTTPClient: client}
}

// ProxyURL returns the configured proxy URL.
func (f *ClientFactory) ProxyURL() string {
	return f.proxyURL
}

// NewHTTPClient creates an http.Client without a client-wide timeout; callers
// bound each request through its context.
func (f *ClientFactory) NewHTTPClient() *http.Client {
	// For testing: return the injected client
	if f.testHTTPClient != nil {
		return f.testHTTPClient
	}
	return &http.Client{
		Transport:     f.NewHTTPTransport(),
		CheckRedirect: checkRedirect(f.redirectChecker),
	}
}

// checkRedirect runs every redirect target through the guard. Proxied
// connections never reach guardedControl, so this is their only check
// after the first hop.
func checkRedirect(checker ingest.URLChecker) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if checker == nil {
			return nil
		}
		allowed, err := checker.Check(req.Context(), req.URL.String())
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: redirect to %s", ErrBlockedAddress, req.URL.Host)
		}
		return nil
	}
}

// NewHTTPTransport creates an http.Transport with proxy configuration.
// Direct connections re-check the dialed address against the guard's
// blocked ranges, which catches hosts whose DNS answer changed after the
// pre-flight check.
func (f *ClientFactory) NewHTTPTransport() *http.Transport {
	if f.proxyURL != "" {
		transport, err := newTransportWithProxy(f.proxyURL)
		if err == nil {
			return transport
		}
		logger.Warn("proxy ignored", "module", "network", "action", "configure", "resource", "proxy", "result", "failed", "error", err)
	}

	dialer := &net.Dialer{Timeout: dialTimeout, Control: guardedControl}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return transport
}

func guardedControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("split dial address: %w", err)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("parse dial address: %w", err)
	}
	if ingest.IsBlockedAddr(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

// newTransportWithProxy creates an http.Transport with proper proxy support.
// For SOCKS5 proxies, it uses golang.org/x/net/proxy for correct handling.
// For HTTP/HTTPS proxies, it uses the standard http.ProxyURL.
func newTransportWithProxy(proxyURL string) (*http.Transport, error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}

	switch {
	case strings.HasPrefix(parsed.Scheme, "socks"):
		var auth *proxy.Auth
		if parsed.User != nil {
			auth = &proxy.Auth{User: parsed.User.Username()}
			if password, ok := parsed.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, &net.Dialer{Timeout: dialTimeout})
		if err != nil {
			return nil, fmt.Errorf("create socks5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					return dialer.Dial(network, addr)
				},
			}, nil
		}
		return &http.Transport{DialContext: contextDialer.DialContext}, nil
	case parsed.Scheme == "http" || parsed.Scheme == "https":
		return &http.Transport{Proxy: http.ProxyURL(parsed)}, nil
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
}
