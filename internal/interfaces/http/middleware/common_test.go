package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSWithConfig(t *testing.T) {
	explicit := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://dashboard.example.com"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           2 * time.Hour,
	}

	tests := []struct {
		name            string
		cfg             CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
	}{
		{"allows listed origin", explicit, http.MethodGet, "https://dashboard.example.com", http.StatusOK, "https://dashboard.example.com", "true"},
		{"ignores unlisted origin", explicit, http.MethodGet, "http://malicious.com", http.StatusOK, "", ""},
		{"same origin request", explicit, http.MethodGet, "", http.StatusOK, "", ""},
		{"empty whitelist sets nothing", DefaultCORSConfig(), http.MethodGet, "http://localhost:3000", http.StatusOK, "", ""},
		{
			"wildcard never sends credentials",
			CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true},
			http.MethodGet, "http://any.example", http.StatusOK, "*", "",
		},
		{"preflight allowed origin", explicit, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000", "true"},
		{"preflight disallowed origin", explicit, http.MethodOptions, "http://malicious.com", http.StatusNoContent, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveCORS(tt.cfg, tt.method, tt.origin)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}

	t.Run("sets method, header, expose and max-age headers", func(t *testing.T) {
		w := serveCORS(explicit, http.MethodGet, "http://localhost:3000")

		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-API-Key", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "7200", w.Header().Get("Access-Control-Max-Age"))
	})
}

func TestRequestID(t *testing.T) {
	var seenKey, seenCtx string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		seenKey = c.GetString(logger.GinRequestIDKey)
		seenCtx = logger.GetRequestID(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generates when missing", "", false},
		{"reuses well-formed id", "req-abc-123", true},
		{"replaces id with spaces", "bad id", false},
		{"replaces id with control characters", "bad\x01id", false},
		{"replaces oversize id", strings.Repeat("a", MaxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			echoed := w.Header().Get(RequestIDHeader)
			if tt.reuse {
				assert.Equal(t, tt.incoming, echoed)
			} else {
				_, err := uuid.Parse(echoed)
				assert.NoError(t, err)
			}
			assert.Equal(t, echoed, seenKey)
			assert.Equal(t, echoed, seenCtx)
		})
	}
}

func TestSecureWithConfig(t *testing.T) {
	serve := func(cfg SecurityConfig) http.Header {
		router := gin.New()
		router.Use(SecureWithConfig(cfg))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		return w.Header()
	}

	t.Run("defaults", func(t *testing.T) {
		h := serve(DefaultSecurityConfig())

		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Equal(t, "no-referrer", h.Get("Referrer-Policy"))
		assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", h.Get("Content-Security-Policy"))
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("HSTS enabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true

		assert.Equal(t, "max-age=31536000; includeSubDomains", serve(cfg).Get("Strict-Transport-Security"))
	})

	t.Run("HSTS without subdomains and no CSP", func(t *testing.T) {
		h := serve(SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 60})

		assert.Equal(t, "max-age=60", h.Get("Strict-Transport-Security"))
		assert.Empty(t, h.Get("Content-Security-Policy"))
	})
}
