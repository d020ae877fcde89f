package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"userapp/config"
	"userapp/services/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(expiry time.Duration) *token.Service {
	return token.NewService(&config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", Issuer: "userapp", Expiry: expiry},
	}, nil)
}

func request(t *testing.T, tokens *token.Service, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"user_id": GetUserID(c)})
	}, RequireJWT(tokens))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireJWT(t *testing.T) {
	tokens := testTokenService(time.Hour)

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		signed, err := tokens.Generate(42, "a@x.com")
		require.NoError(t, err)

		rec := request(t, tokens, "Bearer "+signed)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "42")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := request(t, tokens, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		rec := request(t, tokens, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := testTokenService(-time.Minute)
		signed, err := expired.Generate(42, "a@x.com")
		require.NoError(t, err)

		rec := request(t, tokens, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := request(t, tokens, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetClaimsOutsideMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, GetClaims(c))
	assert.Zero(t, GetUserID(c))
}
