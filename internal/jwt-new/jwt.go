package security

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/marketplace-shop/internal/domain/models"
)

// ErrNoSecret секрет для подписи не задан
var ErrNoSecret = errors.New("jwt secret is not set")

// Claims содержимое токена: sub это id пользователя, role его роль на витрине
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// NewToken генерирует HS256-токен для пользователя с заданным временем жизни.
func NewToken(ctx context.Context, user *models.User, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
		Role:  user.Role.String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken проверяет подпись и срок действия и возвращает пользователя из токена.
func ParseToken(tokenStr string, secret []byte) (models.Viewer, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Viewer{}, err
	}

	if claims.Subject == "" {
		return models.Viewer{}, errors.New("sub not found")
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Viewer{}, err
	}
	return models.Viewer{ID: claims.Subject, Role: role}, nil
}
