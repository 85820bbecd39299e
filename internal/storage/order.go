package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/marketplace-shop/internal/domain/models"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// InsertOrders вставляет пакет заказов в одной транзакции: либо все, либо ни одного.
	InsertOrders(ctx context.Context, rows []models.OrderCreateRequest) ([]string, error)
	// GetOrderByID возвращает заказ по идентификатору.
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// UpdateOrderStatus меняет статус заказа, если текущий статус равен from.
	UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) error
	// GetOrdersForViewer возвращает заказы, где пользователь покупатель или продавец, с JOIN товара и сторон.
	GetOrdersForViewer(ctx context.Context, viewerID string) ([]models.OrderView, error)
}

// orderRepository конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const insertOrderQuery = `INSERT INTO orders (buyer_id, seller_id, product_id, quantity, total_price, payment_method, status, batch_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING id`

// InsertOrders вставляет заказы. При любой ошибке транзакция откатывается.
func (r *orderRepository) InsertOrders(ctx context.Context, rows []models.OrderCreateRequest) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		var id string
		err := tx.QueryRowContext(ctx, insertOrderQuery,
			row.BuyerID, row.SellerID, row.ProductID, row.Quantity, row.TotalPrice, row.PaymentMethod, row.Status, row.BatchID,
		).Scan(&id)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return nil, fmt.Errorf("failed to create order: %w (rollback: %v)", err, rbErr)
			}
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit orders: %w", err)
	}
	return ids, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	o := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, buyer_id, seller_id, product_id, quantity, total_price, payment_method, status, created_at FROM orders WHERE id = $1", id)
	if err := row.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.PaymentMethod, &o.Status, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || hasPQCode(err, pqInvalidTextRepresentation) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus обновляет одно поле status. Условие по старому статусу не даёт
// перезаписать переход, выполненный параллельно.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2 AND status = $3", to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// GetOrdersForViewer возвращает заказы пользователя, новые первыми.
// Товар и пользователи подтягиваются через LEFT JOIN и могут отсутствовать.
func (r *orderRepository) GetOrdersForViewer(ctx context.Context, viewerID string) ([]models.OrderView, error) {
	query := `
		SELECT o.id, o.buyer_id, o.seller_id, o.product_id, o.quantity, o.total_price, o.payment_method, o.status, o.created_at,
		       p.name, p.image_url,
		       b.name, b.email,
		       s.name, s.email, s.brand_name
		FROM orders o
		LEFT JOIN products p ON o.product_id = p.id
		LEFT JOIN users b ON o.buyer_id = b.id
		LEFT JOIN users s ON o.seller_id = s.id
		WHERE o.buyer_id = $1 OR o.seller_id = $1
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var views []models.OrderView
	for rows.Next() {
		var (
			v                                    models.OrderView
			productName, productImage            sql.NullString
			buyerName, buyerEmail                sql.NullString
			sellerName, sellerEmail, sellerBrand sql.NullString
		)
		if err := rows.Scan(
			&v.ID, &v.BuyerID, &v.SellerID, &v.ProductID, &v.Quantity, &v.TotalPrice, &v.PaymentMethod, &v.Status, &v.CreatedAt,
			&productName, &productImage,
			&buyerName, &buyerEmail,
			&sellerName, &sellerEmail, &sellerBrand,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if productName.Valid {
			v.Product = &models.ProductSummary{Name: productName.String, ImageURL: productImage.String}
		}
		if buyerEmail.Valid {
			v.Buyer = &models.Party{Name: buyerName.String, Email: buyerEmail.String}
		}
		if sellerEmail.Valid {
			v.Seller = &models.Party{Name: sellerName.String, Email: sellerEmail.String, BrandName: sellerBrand.String}
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
