package middlewares

import (
	"codeclash/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDContextKey))
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestErrorHandlerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandlerMiddleware())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("secret")
	router := gin.New()
	router.Use(OptionalAuthMiddleware(tokens))
	router.GET("/whoami", func(c *gin.Context) {
		teamID, ok := TeamFromContext(c)
		c.JSON(http.StatusOK, gin.H{"team_id": teamID, "authenticated": ok})
	})

	t.Run("Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.JSONEq(t, `{"team_id":0,"authenticated":false}`, w.Body.String())
	})

	t.Run("ValidCookie", func(t *testing.T) {
		token, err := tokens.GenerateToken(5, "alpha")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.JSONEq(t, `{"team_id":5,"authenticated":true}`, w.Body.String())
	})

	t.Run("InvalidCookieIgnored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "junk"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.JSONEq(t, `{"team_id":0,"authenticated":false}`, w.Body.String())
	})
}

func TestAuthMiddleware_RequiresCookie(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(services.NewTokenService("secret")))
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
