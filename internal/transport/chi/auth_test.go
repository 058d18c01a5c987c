package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys disables auth", nil, "/v1/chat", "", http.StatusNoContent},
		{"blank keys disable auth", []string{"", "  "}, "/v1/chat", "", http.StatusNoContent},
		{"missing header", []string{"k1"}, "/v1/chat", "", http.StatusUnauthorized},
		{"basic scheme", []string{"k1"}, "/v1/search", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong key", []string{"k1"}, "/v1/search", "Bearer k2", http.StatusUnauthorized},
		{"valid key", []string{"k1"}, "/v1/search", "Bearer k1", http.StatusNoContent},
		{"second of two keys", []string{"k1", "k2"}, "/v1/usage", "Bearer k2", http.StatusNoContent},
		{"configured key is trimmed", []string{" k1\n"}, "/v1/stats", "Bearer k1", http.StatusNoContent},
		{"health is exempt", []string{"k1"}, "/health", "", http.StatusNoContent},
		{"metrics is exempt", []string{"k1"}, "/metrics", "", http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tc.keys)(next).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}

			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Code != ErrorCodeUnauthorized {
				t.Errorf("code = %s, want %s", body.Code, ErrorCodeUnauthorized)
			}
		})
	}
}
