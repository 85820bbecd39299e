package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/marketplace-shop/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

const userColumns = "id, email, name, brand_name, pass_hash, role"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var brand sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &brand, &user.PassHash, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.BrandName = brand.String
	return user, nil
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var brand sql.NullString
	if user.BrandName != "" {
		brand = sql.NullString{String: user.BrandName, Valid: true}
	}

	var id string
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, name, brand_name, pass_hash, role) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		user.Email, user.Name, brand, user.PassHash, user.Role,
	).Scan(&id)
	if err != nil {
		if hasPQCode(err, pqUniqueViolation) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}
