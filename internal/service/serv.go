package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	security "github.com/linemk/marketplace-shop/internal/jwt-new"
	"github.com/linemk/marketplace-shop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// RegisterInput данные для регистрации покупателя или продавца
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Role      models.Role
	BrandName string
}

// Register создаёт пользователя. Самостоятельно зарегистрироваться можно только
// покупателем или продавцом; администраторы заводятся вне сервиса.
// Пароль хэшируется через bcrypt, который автоматически добавляет соль.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "auth.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", in.Email),
		slog.String("role", string(in.Role)),
	)

	switch in.Role {
	case models.RoleBuyer, models.RoleSeller:
	case models.RoleAdmin:
		return nil, fmt.Errorf("%s: %w: admin accounts cannot be self-registered", op, errs.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("%s: %w", op, errs.Invalid("unknown role %q", in.Role))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user := &models.User{
		Email:    in.Email,
		Name:     in.Name,
		PassHash: passHash,
		Role:     in.Role,
	}
	if in.Role == models.RoleSeller {
		user.BrandName = in.BrandName
	}

	user, err = a.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			logger.Warn("user already exists")
			return nil, fmt.Errorf("%s: %w: %w", op, errs.Invalid("email %s is already registered", in.Email), err)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, persistenceError(op, "failed to create user", err)
	}

	logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// Login осуществляет аутентификацию пользователя.
// Введённый пароль сравнивается с сохранённым хэшем, после чего генерируется JWT-токен
// с идентификатором и ролью пользователя (секрет для подписи берется из переменной окружения).
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", persistenceError(op, "failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.String("userID", user.ID))
	return token, nil
}
