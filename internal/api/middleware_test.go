package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/service"
	"github.com/classhub/authcore/internal/util"
)

func newTestTokenService() *service.TokenService {
	return service.NewTokenService(&util.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
}

func invokeAuthenticate(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(newTestTokenService())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, err := invokeAuthenticate(t, "")

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Basic abc", "Bearer", "just-a-token"} {
		_, err := invokeAuthenticate(t, header)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, he.Code, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, err := invokeAuthenticate(t, "Bearer not-a-jwt")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService()
	token, _, err := ts.CreateAccessToken("user-1", models.RoleStudent, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, handlerErr := invokeAuthenticate(t, "Bearer "+token)
	assert.ErrorIs(t, handlerErr, service.ErrTokenExpired)
}

func TestAuthenticate_ValidTokenAttachesClaims(t *testing.T) {
	ts := newTestTokenService()
	token, _, err := ts.CreateAccessToken("user-1", models.RoleInstructor, time.Now())
	require.NoError(t, err)

	c, handlerErr := invokeAuthenticate(t, "Bearer "+token)
	require.NoError(t, handlerErr)
	assert.Equal(t, "user-1", c.Get(models.UserIDContextKey))
	assert.Equal(t, models.RoleInstructor, c.Get(models.RoleContextKey))
}

func invokeRequireRoles(t *testing.T, attached models.Role, allowed ...models.Role) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if attached != "" {
		c.Set(models.RoleContextKey, attached)
	}

	handler := RequireRoles(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRoles(t *testing.T) {
	assert.NoError(t, invokeRequireRoles(t, models.RoleAdmin, models.RoleAdmin))
	assert.NoError(t, invokeRequireRoles(t, models.RoleInstructor, models.RoleAdmin, models.RoleInstructor))

	err := invokeRequireRoles(t, models.RoleStudent, models.RoleAdmin)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	// No role attached at all: still forbidden.
	err = invokeRequireRoles(t, "", models.RoleAdmin)
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestExpiredTokenResponseCarriesFlag(t *testing.T) {
	ts := newTestTokenService()
	token, _, err := ts.CreateAccessToken("user-1", models.RoleStudent, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop().Sugar())
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Authenticate(ts))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"expired":true`)
}

func TestInvalidTokenResponseHasNoFlag(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop().Sugar())
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Authenticate(newTestTokenService()))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bogus.token.value")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "expired"))
}
