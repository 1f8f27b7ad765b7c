package middleware

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

const trustedProxyKey = "trusted_proxy"

// ParseTrustedProxies accepts addresses and CIDRs in the form gin's
// SetTrustedProxies takes. A bare address is a single host.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// TrustedProxies marks requests whose direct peer is one of the given proxies.
// Only marked requests may have their X-Forwarded-* headers believed.
func TrustedProxies(prefixes []netip.Prefix) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(prefixes) > 0 {
			if addr, err := netip.ParseAddr(c.RemoteIP()); err == nil {
				addr = addr.Unmap()
				for _, p := range prefixes {
					if p.Contains(addr) {
						c.Set(trustedProxyKey, true)
						break
					}
				}
			}
		}
		c.Next()
	}
}

// ViaTrustedProxy reports whether TrustedProxies marked the request.
func ViaTrustedProxy(c *gin.Context) bool {
	return c.GetBool(trustedProxyKey)
}
