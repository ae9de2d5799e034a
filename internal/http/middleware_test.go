package http

import (
	"net/http"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:52100",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header ignored from untrusted peer",
			remoteAddr: "203.0.113.7:52100",
			xff:        "198.51.100.9",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header honored behind trusted proxy",
			remoteAddr: "10.0.0.5:52100",
			xff:        "198.51.100.9, 10.0.0.5",
			want:       "198.51.100.9",
		},
		{
			name:       "real-ip fallback behind trusted proxy",
			remoteAddr: "127.0.0.1:52100",
			xri:        "198.51.100.9",
			want:       "198.51.100.9",
		},
		{
			name:       "garbage forwarded value falls back to peer",
			remoteAddr: "192.168.1.10:52100",
			xff:        "not-an-ip",
			want:       "192.168.1.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("allow() = false on request %d within the budget", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("allow() = true past the per-minute budget")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("allow() = false for a different client")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hola  ", want: "hola"},
		{name: "strips control characters", input: "ho\x00la\x07", want: "hola"},
		{name: "keeps tabs and newlines", input: "a\tb\nc", want: "a\tb\nc"},
		{name: "keeps unicode", input: "Alimentación 🛒", want: "Alimentación 🛒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeInput(tt.input); got != tt.want {
				t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
