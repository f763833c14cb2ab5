package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultKeyFunc(t *testing.T) {
	cases := []struct {
		name       string
		keyHeader  string
		trustXFF   bool
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "header wins",
			keyHeader:  "X-Admin-Key",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Admin-Key": " dash-123 "},
			want:       "dash-123",
		},
		{
			name:       "blank header falls back to remote host",
			keyHeader:  "X-Admin-Key",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Admin-Key": "   "},
			want:       "10.0.0.1",
		},
		{
			name:       "first forwarded ip when trusted",
			trustXFF:   true,
			remoteAddr: "10.0.0.9:5555",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			want:       "1.2.3.4",
		},
		{
			name:       "forwarded ignored when not trusted",
			remoteAddr: "10.0.0.9:5555",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:       "10.0.0.9",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "unix-socket",
			want:       "unix-socket",
		},
		{
			name: "nothing to key on",
			want: "unknown",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := DefaultKeyFunc(tc.keyHeader, tc.trustXFF)(r); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
