package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/marketplace-shop/internal/domain/models"
)

// ProductStorage описывает методы для чтения каталога товаров.
type ProductStorage interface {
	// GetProductByID получает товар по идентификатору.
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	// GetStockByIDs возвращает текущие остатки товаров; отсутствующих товаров в ответе нет.
	GetStockByIDs(ctx context.Context, ids []string) (map[string]int, error)
}

// productRepository конкретная реализация интерфейса ProductStorage.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

var ErrProductNotFound = errors.New("product not found")

// GetProductByID ищет товар по id в таблице products.
func (r *productRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{}
	var imageURL sql.NullString
	query := "SELECT id, seller_id, name, price, image_url, quantity FROM products WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &imageURL, &p.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) || hasPQCode(err, pqInvalidTextRepresentation) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.ImageURL = imageURL.String
	return p, nil
}

func (r *productRepository) GetStockByIDs(ctx context.Context, ids []string) (map[string]int, error) {
	stock := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return stock, nil
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, quantity FROM products WHERE id = ANY($1::uuid[])", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       string
			quantity int
		)
		if err := rows.Scan(&id, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stock[id] = quantity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stock, nil
}
