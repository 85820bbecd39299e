package kv

import "context"

// Store хранилище ключ-значение, в котором лежит корзина.
// Отсутствие ключа не ошибка: Get возвращает ok == false.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}
