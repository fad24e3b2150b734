// Package security restricts which clients may read probe results.
package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Allowlist validates client addresses against a set of networks. A nil or
// empty allowlist admits everyone.
type Allowlist struct {
	nets []*net.IPNet
}

// NewAllowlist parses CIDRs. Bare addresses are treated as single hosts.
func NewAllowlist(cidrs []string) (*Allowlist, error) {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if !strings.Contains(cidr, "/") {
			ip := net.ParseIP(cidr)
			if ip == nil {
				return nil, fmt.Errorf("parsing address %q: invalid IP", cidr)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("parsing CIDR %q: %w", cidr, err)
		}
		nets = append(nets, ipNet)
	}
	return &Allowlist{nets: nets}, nil
}

// Allows checks if the given IP is admitted
func (a *Allowlist) Allows(ipStr string) bool {
	if a == nil || len(a.nets) == 0 {
		return true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Middleware rejects requests whose remote address is not allowed
func (a *Allowlist) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !a.Allows(host) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
