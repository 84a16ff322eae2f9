package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func corsRequest(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = allowed

	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/v1/quiz", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	webClient := []string{"https://app.constanfit.com.br"}

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"nothing configured", nil, "https://app.constanfit.com.br", http.MethodGet, http.StatusOK, ""},
		{"web client", webClient, "https://app.constanfit.com.br", http.MethodGet, http.StatusOK, "https://app.constanfit.com.br"},
		{"case insensitive", []string{"HTTPS://APP.CONSTANFIT.COM.BR"}, "https://app.constanfit.com.br", http.MethodGet, http.StatusOK, "https://app.constanfit.com.br"},
		{"foreign preflight", webClient, "https://evil.example", http.MethodOptions, http.StatusForbidden, ""},
		{"foreign simple request", webClient, "https://evil.example", http.MethodGet, http.StatusOK, ""},
		{"preflight", webClient, "https://app.constanfit.com.br", http.MethodOptions, http.StatusNoContent, "https://app.constanfit.com.br"},
		{"same origin", webClient, "", http.MethodGet, http.StatusOK, ""},
		{"wildcard subdomain", []string{"*.constanfit.com.br"}, "https://staging.constanfit.com.br", http.MethodGet, http.StatusOK, "https://staging.constanfit.com.br"},
		{"wildcard rejects lookalike", []string{"*.constanfit.com.br"}, "https://notconstanfit.com.br", http.MethodGet, http.StatusOK, ""},
		{"wildcard rejects apex", []string{"*.constanfit.com.br"}, "https://.constanfit.com.br", http.MethodGet, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := corsRequest(t, tt.allowed, tt.method, tt.origin)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
				t.Errorf("credentials must never be allowed, got %q", got)
			}
		})
	}
}

func TestCORS_PreflightAllowsSessionHeader(t *testing.T) {
	rec := corsRequest(t, []string{"https://app.constanfit.com.br"}, http.MethodOptions, "https://app.constanfit.com.br")

	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("Access-Control-Allow-Methods = %q, want PUT for quiz fields", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Access-Control-Max-Age = %q, want 86400", got)
	}
}

func TestCORS_ExposesRateLimitHeaders(t *testing.T) {
	rec := corsRequest(t, []string{"https://app.constanfit.com.br"}, http.MethodPost, "https://app.constanfit.com.br")

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{"Retry-After", "X-RateLimit-Remaining", RequestIDHeader} {
		if !strings.Contains(exposed, h) {
			t.Errorf("Access-Control-Expose-Headers = %q, missing %s", exposed, h)
		}
	}
}
