package ingest

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// blockedPrefixes lists the non-routable ranges a feed host may not resolve to.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("fec0::/10"),
}

// Guard rejects URLs whose host resolves to a private, loopback or
// link-local address.
type Guard struct {
	resolver Resolver
}

// NewGuard returns a Guard using resolver, or net.DefaultResolver when nil.
func NewGuard(resolver Resolver) *Guard {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Guard{resolver: resolver}
}

// IsAllowed reports whether rawURL may be fetched.
func (g *Guard) IsAllowed(ctx context.Context, rawURL string) bool {
	allowed, err := g.Check(ctx, rawURL)
	return err == nil && allowed
}

// Check is IsAllowed that also returns the context error when ctx ends
// during resolution. Every other failure is reported as not allowed.
func (g *Guard) Check(ctx context.Context, rawURL string) (bool, error) {
	u, ok := ParseFeedURL(rawURL)
	if !ok {
		return false, nil
	}
	host := u.Hostname()

	if addr, err := netip.ParseAddr(host); err == nil {
		return !IsBlockedAddr(addr), nil
	}

	addrs, err := g.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}
	if len(addrs) == 0 {
		return false, nil
	}
	for _, addr := range addrs {
		if IsBlockedAddr(addr) {
			return false, nil
		}
	}
	return true, nil
}

// IsBlockedAddr reports whether addr falls in a range feeds may not target.
// IPv4-mapped IPv6 addresses are checked as IPv4.
func IsBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() || addr.IsUnspecified() {
		return true
	}
	for _, prefix := range blockedPrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseFeedURL accepts only absolute http and https URLs with a host.
func ParseFeedURL(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Hostname() == "" {
		return nil, false
	}
	return u, true
}
