package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRedirectStatus(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		htmx     bool
		status   int
		location string
		header   string
	}{
		{name: "get", method: http.MethodGet, status: http.StatusFound, location: "/login"},
		{name: "post", method: http.MethodPost, status: http.StatusSeeOther, location: "/login"},
		{name: "htmx", method: http.MethodPost, htmx: true, status: http.StatusNoContent, header: "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Handle(tt.method, "/x", func(c *gin.Context) { Redirect(c, "/login") })

			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			assert.Equal(t, tt.header, w.Header().Get("HX-Redirect"))
		})
	}
}

func TestRequestIDAndVisitor(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Visitor(session.CookieOptions{TTL: time.Hour}))
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetVisitorID(c)
		c.String(http.StatusOK, "%v", c.Request.Context().Value(logging.RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	_, ok := security.ULIDTime(seen)
	assert.True(t, ok, "visitor id should be a ULID")

	existing := security.NewULID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	req.AddCookie(&http.Cookie{Name: "oc_visitor", Value: existing})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, existing, seen)
	assert.Empty(t, w.Result().Cookies(), "a valid visitor cookie is not reissued")
}

func TestFormLimiter(t *testing.T) {
	limiter := NewFormLimiter(2, logging.NewDiscardLogger())
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(visitorKey, c.GetHeader("X-Visitor")); c.Next() })
	r.Any("/contact", limiter.Middleware(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, visitor string) int {
		req := httptest.NewRequest(method, "/contact", nil)
		req.Header.Set("X-Visitor", visitor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "a"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "a"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "a"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "b"), "limits are per visitor")
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "a"), "only posts are limited")

	assert.Zero(t, limiter.Sweep(time.Now()))
	assert.Equal(t, 2, limiter.Sweep(time.Now().Add(11*time.Minute)))
}

func TestFormLimiterDisabled(t *testing.T) {
	limiter := NewFormLimiter(0, logging.NewDiscardLogger())
	for i := 0; i < 50; i++ {
		assert.True(t, limiter.allow("a", time.Now()))
	}
}

func TestCORSMiddleware(t *testing.T) {
	serve := func(origins []string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.GET("/fragments/services", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/fragments/services", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("configured origin is allowed", func(t *testing.T) {
		w := serve([]string{"http://localhost:3000"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	for name, origins := range map[string][]string{"nil": nil, "blank": {"", " "}} {
		t.Run("no origins "+name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			require.NotPanics(t, func() { w = serve(origins) })
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
