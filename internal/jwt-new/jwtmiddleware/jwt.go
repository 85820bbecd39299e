package jwtmiddleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/linemk/marketplace-shop/internal/domain/models"
	security "github.com/linemk/marketplace-shop/internal/jwt-new"
)

type contextKey string

const ViewerKey contextKey = "viewer"

// NewJWTMiddleware создаёт middleware для проверки JWT, подписанных secret.
// В контекст запроса кладётся пользователь (id и роль) из токена.
func NewJWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	if len(secret) == 0 {
		panic(security.ErrNoSecret)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// формат заголовка: "Bearer <token>"
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" || strings.Contains(tokenStr, " ") {
				http.Error(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			viewer, err := security.ParseToken(tokenStr, secret)
			if err != nil {
				http.Error(w, "invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// WithViewer кладёт пользователя в контекст.
func WithViewer(ctx context.Context, v models.Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, v)
}

// FromContext извлекает пользователя из контекста.
func FromContext(ctx context.Context) (models.Viewer, bool) {
	v, ok := ctx.Value(ViewerKey).(models.Viewer)
	return v, ok
}
