package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"unionhub/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "first forwarded hop wins",
			remoteAddr: "10.0.0.1:5555",
			headers:    map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1", "X-Real-IP": "198.51.100.2"},
			expected:   "203.0.113.7",
		},
		{
			name:       "real ip without forwarded-for",
			remoteAddr: "10.0.0.1:5555",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			expected:   "198.51.100.2",
		},
		{name: "remote address host", remoteAddr: "192.0.2.10:41000", expected: "192.0.2.10"},
		{name: "remote address without port", remoteAddr: "192.0.2.10", expected: "192.0.2.10"},
		{name: "nothing known", remoteAddr: "", expected: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/elections", nil)
	req.RemoteAddr = "192.0.2.44:1234"
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14)")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.44", gotIP)
	assert.Equal(t, "Mozilla/5.0 (Linux; Android 14)", gotUA)
}
