package metrics

import "testing"

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/api/v1/sync", "/api/v1/sync"},
		{"/api/v1/align/initialise", "/api/v1/align/initialise"},
		{"/api/v1/align/celestial-to-telescope", "/api/v1/align/celestial-to-telescope"},
		{"/api/v1/align/telescope-to-celestial", "/api/v1/align/telescope-to-celestial"},

		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/something", "other"},
		{"/favicon.ico", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
