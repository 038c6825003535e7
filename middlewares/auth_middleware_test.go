package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":        uint(7),
		"role":       "warden",
		"email":      "warden@hostel.local",
		"student_id": uint(0),
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	handler := RequireAuth(testSecret)(func(c echo.Context) error { return nil })
	return c, handler(c)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	c, err := runAuth(t, "Bearer "+signToken(t, testSecret, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, uint(7), c.Get("user_id"))
	assert.Equal(t, "warden", c.Get("role"))
	assert.Equal(t, "warden@hostel.local", c.Get("email"))
	assert.Equal(t, uint(0), c.Get("student_id"))
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	_, err := runAuth(t, "Token abc")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	_, err := runAuth(t, "Bearer "+signToken(t, "other-secret", time.Hour))
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	_, err := runAuth(t, "Bearer "+signToken(t, testSecret, -time.Hour))
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireRole(t *testing.T) {
	run := func(role string, allowed ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.Set("role", role)
		return RequireRole(allowed...)(func(c echo.Context) error { return nil })(c)
	}

	require.NoError(t, run("admin", "admin", "warden"))
	require.NoError(t, run("Warden", "admin", "warden")) // case insensitive

	err := run("student", "admin", "warden")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	err = run("", "admin")
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}
