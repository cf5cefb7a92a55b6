package config

import (
	"net/netip"
	"strings"
	"time"
)

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
	GetRefreshTimeout() time.Duration
	GetUpstreamTimeout() time.Duration
	GetTrustedProxies() []netip.Prefix
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetEnableRateLimiting() bool {
	return GetEnvBool("RATE_LIMIT_ENABLED", true)
}

// GetRateLimitPerSecond applies per client IP on the refresh endpoint.
func (Security) GetRateLimitPerSecond() float64 {
	return GetEnvFloat("RATE_LIMIT_PER_SECOND", 2)
}

func (Security) GetRateLimitBurst() int {
	return int(GetEnvFloat("RATE_LIMIT_BURST", 10))
}

// GetRefreshTimeout bounds a single coalesced refresh so a hung upstream
// cannot hold every waiting request.
func (Security) GetRefreshTimeout() time.Duration {
	return GetEnvDuration("REFRESH_TIMEOUT", 10*time.Second)
}

func (Security) GetUpstreamTimeout() time.Duration {
	return GetEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second)
}

// GetTrustedProxies reads TRUSTED_PROXIES, a comma separated list of IPs or
// CIDRs whose X-Forwarded-For headers are believed. Invalid entries are skipped.
func (Security) GetTrustedProxies() []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(GetEnv("TRUSTED_PROXIES", ""), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}
