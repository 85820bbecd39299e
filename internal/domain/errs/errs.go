// Package errs описывает классы ошибок ядра корзины и заказов.
// Ни одна из них не фатальна: вызывающий получает неизменённые корзину/заказ и сообщение для пользователя.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation некорректные или отсутствующие входные данные
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized роль пользователя не подходит для операции
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyCart попытка оформить пустую корзину
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIllegalTransition запрошенный переход статуса заказа недопустим
	ErrIllegalTransition = errors.New("illegal order status transition")
	// ErrPersistence хранилище недоступно или вернуло ошибку; можно повторить
	ErrPersistence = errors.New("persistence error")
	// ErrInFlight такая же операция уже выполняется
	ErrInFlight = errors.New("operation already in progress")
	// ErrNotFound заказ или товар не найден (или не виден пользователю)
	ErrNotFound = errors.New("not found")
	// ErrStaleCart остатки изменились с момента добавления товара в корзину
	ErrStaleCart = fmt.Errorf("%w: stock changed since items were added to cart", ErrValidation)
)

// ValidationError ошибка валидации с пояснением, которое можно показать пользователю
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid создаёт ValidationError с отформатированным пояснением
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
