package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-showtime-planner/internal/utils"
)

const testSecret = "test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string, pre func(echo.Context)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if pre != nil {
		pre(c)
	}
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "PLANNER", 15)
	require.NoError(t, err)

	rec, c := invoke(t, JWTAuth(testSecret), "Bearer "+tok.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get("user_id"))
	assert.Equal(t, "PLANNER", c.Get("role"))
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, "PLANNER", 15)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + tok.Token},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := invoke(t, JWTAuth(testSecret), tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "PLANNER", -5)
	require.NoError(t, err)

	rec, _ := invoke(t, JWTAuth(testSecret), "Bearer "+tok.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("PLANNER", "OWNER")

	rec, _ := invoke(t, mw, "", func(c echo.Context) { c.Set("role", "OWNER") })
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = invoke(t, mw, "", func(c echo.Context) { c.Set("role", "VIEWER") })
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No role in context at all.
	rec, _ = invoke(t, mw, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
