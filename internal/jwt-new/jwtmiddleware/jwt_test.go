package jwtmiddleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	security "github.com/linemk/marketplace-shop/internal/jwt-new"
	"github.com/linemk/marketplace-shop/internal/jwt-new/jwtmiddleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("testsecret")

// createTestToken создаёт JWT-токен с заданными claims и секретом.
func createTestToken(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(t *testing.T, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestJWTMiddleware_MissingAuthorization(t *testing.T) {
	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "missing token"))
}

func TestJWTMiddleware_InvalidAuthorizationFormat(t *testing.T) {
	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "InvalidFormat")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "invalid token format"))
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "Bearer invalid.token.value")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "invalid token"))
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	tokenStr, err := createTestToken(jwt.MapClaims{"sub": "u1", "role": "buyer"}, "othersecret")
	require.NoError(t, err)

	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "Bearer "+tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_UnknownRole(t *testing.T) {
	tokenStr, err := createTestToken(jwt.MapClaims{"sub": "u1", "role": "superuser"}, "testsecret")
	require.NoError(t, err)

	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "Bearer "+tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "unknown role"))
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	// токен выпускаем тем же кодом, что и при логине
	tokenStr, err := security.NewToken(context.Background(), &models.User{
		ID:    "7d1c0f6e-1b7a-4a53-9a55-2f3f6bd1e001",
		Email: "seller@example.com",
		Role:  models.RoleSeller,
	}, testSecret, time.Hour)
	require.NoError(t, err)

	var got models.Viewer
	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			http.Error(w, "viewer not found", http.StatusInternalServerError)
			return
		}
		got = v
		w.WriteHeader(http.StatusOK)
	}))

	rr := serve(t, handler, "Bearer "+tokenStr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7d1c0f6e-1b7a-4a53-9a55-2f3f6bd1e001", got.ID)
	assert.Equal(t, models.RoleSeller, got.Role)
}

func TestNewToken_MissingSecret(t *testing.T) {
	_, err := security.NewToken(context.Background(), &models.User{ID: "u1", Role: models.RoleBuyer}, nil, time.Hour)
	assert.ErrorIs(t, err, security.ErrNoSecret)
}

func TestFromContext(t *testing.T) {
	ctx := jwtmiddleware.WithViewer(context.Background(), models.Viewer{ID: "u1", Role: models.RoleBuyer})
	v, ok := jwtmiddleware.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", v.ID)

	_, ok = jwtmiddleware.FromContext(context.Background())
	assert.False(t, ok)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	tokenStr, err := createTestToken(jwt.MapClaims{
		"sub":  "u1",
		"role": "buyer",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}, "testsecret")
	require.NoError(t, err)

	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "Bearer "+tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_MissingSubject(t *testing.T) {
	tokenStr, err := createTestToken(jwt.MapClaims{"role": "buyer"}, "testsecret")
	require.NoError(t, err)

	rr := serve(t, jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler()), "Bearer "+tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestNewJWTMiddleware_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { jwtmiddleware.NewJWTMiddleware(nil) })
}
