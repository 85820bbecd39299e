package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/storage/kv"
)

// Store загружает и сохраняет корзину в хранилище ключ-значение
type Store struct {
	log    *slog.Logger
	kv     kv.Store
	prefix string
}

func NewStore(log *slog.Logger, store kv.Store, prefix string) *Store {
	if prefix == "" {
		prefix = "cart"
	}
	return &Store{log: log, kv: store, prefix: prefix}
}

// Key ключ корзины владельца
func (s *Store) Key(ownerID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, ownerID)
}

// Load читает корзину. Никогда не возвращает ошибку: если данных нет, они битые
// или хранилище недоступно, возвращается пустая корзина. Позиции с нарушенным
// инвариантом количества приводятся в порядок или отбрасываются.
func (s *Store) Load(ctx context.Context, key string) models.Cart {
	const op = "cart.Store.Load"
	logger := s.log.With(slog.String("op", op), slog.String("key", key))

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.Warn("failed to read cart, using empty cart", slog.Any("error", err))
		return models.Cart{}
	}
	if !ok {
		return models.Cart{}
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		logger.Warn("malformed cart data, using empty cart", slog.Any("error", err))
		return models.Cart{}
	}
	return sanitize(c)
}

// Save полностью перезаписывает сохранённую корзину
func (s *Store) Save(ctx context.Context, key string, c models.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}

func sanitize(c models.Cart) models.Cart {
	out := models.Cart{}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if l.ProductID == "" || l.MaxQuantity < 1 || l.Price.IsNegative() {
			continue
		}
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		l.Quantity = max(1, min(l.Quantity, l.MaxQuantity))
		out.Lines = append(out.Lines, l)
	}
	return out
}
