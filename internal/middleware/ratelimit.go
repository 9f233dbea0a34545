package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultIdleTTL is how long a client's bucket survives without requests
const defaultIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and forgets idle clients
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per client
func NewRateLimiter(rps, burst int) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   defaultIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether the client may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.evictIdle(now)
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictIdle drops buckets unused for idleTTL. Caller holds mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

// ProxyTrust lists the peers allowed to report the client address in X-Forwarded-For
type ProxyTrust struct {
	nets []*net.IPNet
}

// ParseProxyTrust accepts CIDRs or bare IPs. An empty list trusts no one.
func ParseProxyTrust(entries []string) (*ProxyTrust, error) {
	trust := &ProxyTrust{}
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
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			trust.nets = append(trust.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		trust.nets = append(trust.nets, ipNet)
	}
	return trust, nil
}

func (p *ProxyTrust) trusts(host string) bool {
	if p == nil {
		return false
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientKey identifies the caller. X-Forwarded-For is honoured only when the
// direct peer is a trusted proxy; the key is then the rightmost hop that is
// not itself trusted.
func (p *ProxyTrust) ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !p.trusts(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !p.trusts(hop) {
			return hop
		}
	}
	return host
}

// RateLimit rejects requests over the client's budget with 429
func RateLimit(rl *RateLimiter, trust *ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(trust.ClientKey(r)) {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
