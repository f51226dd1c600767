package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeAuth struct {
	authenticated bool
	id            int64
}

func (f fakeAuth) IsAuthenticated(*http.Request) bool { return f.authenticated }
func (f fakeAuth) CustomerID(*http.Request) int64     { return f.id }

func TestProtectedRoute(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	ProtectedRoute(fakeAuth{}, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	ProtectedRoute(fakeAuth{authenticated: true, id: 3}, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(time.Minute)
	rl.now = func() time.Time { return now }
	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5001"), "port does not matter")
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"))

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	_, found := rl.visitors.Load("10.0.0.1")
	assert.False(t, found)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self'")
}

func TestSameSiteReferer(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"http://example.com/searchpage?query=tie", "/searchpage?query=tie"},
		{"http://evil.test/phish", "/"},
		{"//evil.test/phish", "/"},
		{"/checkout", "/checkout"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/favorites/click", nil)
		req.Header.Set("Referer", tt.referer)
		assert.Equal(t, tt.want, sameSiteReferer(req), tt.referer)
	}
}

func TestRegistrationValidate(t *testing.T) {
	valid := registration{Username: "andrew", Email: "andrew@example.com", Password: "12345678", PaymentMethod: "paypal"}
	assert.Empty(t, valid.validate())

	tests := []struct {
		name string
		edit func(*registration)
		want string
	}{
		{"username", func(r *registration) { r.Username = "" }, "Username is required."},
		{"email", func(r *registration) { r.Email = "" }, "Email is required."},
		{"bad email", func(r *registration) { r.Email = "Andrew <andrew@example.com>" }, "Please enter a valid email address."},
		{"password", func(r *registration) { r.Password = "1234567" }, "Password must be at least 8 characters."},
		{"payment", func(r *registration) { r.PaymentMethod = "cash" }, "Please choose Visa, M-Pesa or PayPal."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			assert.Equal(t, tt.want, f.validate())
		})
	}
}
