package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ZapLogger(zap.NewNop()), ZapRecovery(zap.NewNop()), BearerAuth(token))
	r.GET("/whoami", func(c *gin.Context) {
		ok, id := Identity(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user": id})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/boom", func(*gin.Context) {
		panic("boom")
	})
	return r
}

func serve(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth(t *testing.T) {
	r := newEngine("secret")

	rec := serve(r, "/whoami", "Bearer secret")
	require.JSONEq(t, `{"authenticated":true,"user":"admin"}`, rec.Body.String())

	rec = serve(r, "/whoami", "Bearer wrong")
	require.JSONEq(t, `{"authenticated":false,"user":""}`, rec.Body.String())

	require.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "").Code)
	require.Equal(t, http.StatusNoContent, serve(r, "/admin", "Bearer secret").Code)
}

func TestBearerAuthWithoutToken(t *testing.T) {
	r := newEngine("")

	rec := serve(r, "/whoami", "Bearer ")
	require.JSONEq(t, `{"authenticated":false,"user":""}`, rec.Body.String())
	require.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "Bearer ").Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine("")

	rec := serve(r, "/whoami", "")
	require.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestRecoveryRespondsWithJSON(t *testing.T) {
	rec := serve(newEngine(""), "/boom", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":"internal_error","message":"internal error"}`, rec.Body.String())
}
