package webhook

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/tuannda/membership-payments/internal"
	"github.com/tuannda/membership-payments/internal/transport"
)

// Guard authenticates webhook deliveries before any business logic runs:
// a mandatory API-key check plus an optional source-IP allow-list. An empty
// allow-list disables the IP check; the key check is always enforced.
type Guard struct {
	keys          [][]byte
	allowedAddrs  []netip.Addr
	allowedRanges []netip.Prefix
	proxies       []netip.Prefix
	logger        *slog.Logger
}

func NewGuard(cfg internal.WebhookConfig, logger *slog.Logger) (*Guard, error) {
	g := &Guard{logger: logger}

	for _, key := range cfg.APIKeys {
		g.keys = append(g.keys, []byte(key))
	}
	if len(g.keys) == 0 {
		return nil, fmt.Errorf("webhook guard requires at least one api key")
	}

	for _, entry := range cfg.IPAllowlist {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid allow-list entry %q: %w", entry, err)
			}
			g.allowedRanges = append(g.allowedRanges, prefix)
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid allow-list entry %q: %w", entry, err)
		}
		g.allowedAddrs = append(g.allowedAddrs, addr)
	}

	for _, entry := range cfg.TrustedProxies {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			g.proxies = append(g.proxies, prefix)
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		g.proxies = append(g.proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return g, nil
}

// Middleware rejects unauthenticated requests with 401 (bad key) or 403
// (disallowed IP) before the payload is even read.
func (g *Guard) Middleware(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.ValidKey(r) {
				g.logger.Warn("webhook rejected: invalid api key",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr)
				base.HandleError(w, internal.ErrInvalidAPIKey)
				return
			}

			ip := g.ClientIP(r)
			if !g.AllowedIP(ip) {
				g.logger.Warn("webhook rejected: ip not allowed",
					"path", r.URL.Path,
					"client_ip", ip.String())
				base.HandleError(w, internal.ErrIPNotAllowed)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidKey extracts the API key from whichever header spelling the gateway
// uses and compares it against every configured key in constant time.
func (g *Guard) ValidKey(r *http.Request) bool {
	candidate := extractAPIKey(r)
	if candidate == "" {
		return false
	}

	candidateBytes := []byte(candidate)
	valid := false
	for _, key := range g.keys {
		if subtle.ConstantTimeCompare(candidateBytes, key) == 1 {
			valid = true
		}
	}
	return valid
}

// extractAPIKey accepts "Authorization: ApiKey <k>", "Authorization: Bearer <k>"
// and the bare "X-Api-Key" header; gateways disagree on the spelling.
func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		for _, scheme := range []string{"ApiKey ", "Apikey ", "Bearer "} {
			if len(auth) > len(scheme) && strings.EqualFold(auth[:len(scheme)], scheme) {
				return strings.TrimSpace(auth[len(scheme):])
			}
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Api-Key"))
}

// AllowedIP applies the allow-list. An unconfigured list fails open: the key
// check is still mandatory and some gateways publish no stable egress ranges.
func (g *Guard) AllowedIP(ip netip.Addr) bool {
	if len(g.allowedAddrs) == 0 && len(g.allowedRanges) == 0 {
		return true
	}
	if !ip.IsValid() {
		return false
	}
	ip = ip.Unmap()
	for _, addr := range g.allowedAddrs {
		if addr.Unmap() == ip {
			return true
		}
	}
	for _, prefix := range g.allowedRanges {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP resolves the apparent client address. X-Forwarded-For is honored
// only when the direct peer is a configured trusted proxy; otherwise the
// connection's remote address wins, so senders cannot spoof their way past
// the allow-list with a header.
func (g *Guard) ClientIP(r *http.Request) netip.Addr {
	peer := parseHostAddr(r.RemoteAddr)
	if !peer.IsValid() || !g.trustedProxy(peer) {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return peer
	}

	// walk right to left: the first hop not belonging to our proxy chain is
	// the real client
	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return peer
		}
		if !g.trustedProxy(addr) {
			return addr
		}
	}
	return peer
}

func (g *Guard) trustedProxy(addr netip.Addr) bool {
	for _, prefix := range g.proxies {
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

func parseHostAddr(remoteAddr string) netip.Addr {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}
