package gateway

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies lists the networks whose X-Forwarded-For header is
// believed. Requests from anywhere else are keyed on the TCP peer.
type TrustedProxies []*net.IPNet

// ParseTrustedProxies accepts CIDR blocks or bare addresses.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var proxies TrustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, network)
	}
	return proxies, nil
}

func (p TrustedProxies) trusts(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range p {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP is the peer address unless the peer is a trusted proxy. Then the
// forwarded chain is walked from the right and the first hop not owned by a
// trusted proxy wins.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	peer := peerIP(r)
	if !p.trusts(peer) {
		return peer
	}

	hops := strings.Split(forwardedChain(r), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if net.ParseIP(hop) == nil {
			break
		}
		if !p.trusts(hop) {
			return hop
		}
	}
	return peer
}

// ForwardedFor is the X-Forwarded-For value sent upstream. The incoming
// chain is kept only when a trusted proxy supplied it; the peer is always
// appended.
func (p TrustedProxies) ForwardedFor(r *http.Request) string {
	peer := peerIP(r)
	if prior := forwardedChain(r); prior != "" && p.trusts(peer) {
		return prior + ", " + peer
	}
	return peer
}

func forwardedChain(r *http.Request) string {
	return strings.Join(r.Header.Values("X-Forwarded-For"), ", ")
}
