package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/stretchr/testify/assert"
)

func TestInvalid(t *testing.T) {
	err := fmt.Errorf("service.CartService.AddItem: %w", errs.Invalid("product %s is out of stock", "p1"))

	assert.ErrorIs(t, err, errs.ErrValidation)

	var verr *errs.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "product p1 is out of stock", verr.Reason)
	assert.Equal(t, "validation error: product p1 is out of stock", verr.Error())
}

func TestStaleCartIsValidation(t *testing.T) {
	assert.ErrorIs(t, errs.ErrStaleCart, errs.ErrValidation)

	var verr *errs.ValidationError
	assert.False(t, errors.As(errs.ErrStaleCart, &verr))
}
