package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP request", entry.Message)
	assert.Equal(t, int64(http.StatusTeapot), entry.ContextMap()["status"])
	assert.Equal(t, "/api/words", entry.ContextMap()["path"])
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, 2), nil)(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, statuses)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRateLimit_ForwardedHeaderIgnoredFromUntrustedPeer(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, 1), nil)(okHandler())

	statuses := make([]int, 0, 2)
	for _, fwd := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.50:4000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusTeapot, http.StatusTooManyRequests}, statuses)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Len(t, rl.visitors, 2)

	now = now.Add(defaultIdleTTL / 2)
	assert.True(t, rl.Allow("b"))

	now = now.Add(defaultIdleTTL / 2)
	assert.True(t, rl.Allow("c"))

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
	assert.Contains(t, rl.visitors, "c")
}

func TestParseProxyTrust(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{name: "empty", entries: nil},
		{name: "cidr and bare ip", entries: []string{"10.0.0.0/8", " 192.168.1.4 ", "::1"}},
		{name: "bad ip", entries: []string{"10.0.0.300"}, wantErr: true},
		{name: "bad cidr", entries: []string{"10.0.0.0/40"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProxyTrust(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClientKey(t *testing.T) {
	trust, err := ParseProxyTrust([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		remote    string
		forwarded string
		expected  string
	}{
		{name: "remote host", remote: "192.168.1.4:1234", expected: "192.168.1.4"},
		{name: "trusted proxy forwards client", remote: "10.0.0.1:1", forwarded: "203.0.113.9", expected: "203.0.113.9"},
		{name: "spoofed leftmost hop ignored", remote: "10.0.0.1:1", forwarded: "1.2.3.4, 203.0.113.9, 10.0.0.2", expected: "203.0.113.9"},
		{name: "untrusted peer header ignored", remote: "192.168.1.4:1234", forwarded: "203.0.113.9", expected: "192.168.1.4"},
		{name: "trusted proxy without header", remote: "10.0.0.1:1", expected: "10.0.0.1"},
		{name: "remote without port", remote: "unix", expected: "unix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.expected, trust.ClientKey(req))
		})
	}
}
