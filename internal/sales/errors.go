package sales

import (
	"errors"
	"fmt"

	"backoffice/internal/catalog"
	"backoffice/internal/ledger"
)

// Error kinds returned by the Coordinator. Every error it returns matches
// exactly one of them with errors.Is.
var (
	ErrProductNotFound   = errors.New("sales: product not found")
	ErrSaleNotFound      = errors.New("sales: sale not found")
	ErrInsufficientStock = errors.New("sales: insufficient stock")
	ErrStoreUnavailable  = errors.New("sales: store unavailable")
	ErrInvalidQuantity   = errors.New("sales: quantity must be greater than zero")
	ErrInvalidTotal      = errors.New("sales: total must not be negative")
)

var kinds = []error{
	ErrProductNotFound,
	ErrSaleNotFound,
	ErrInsufficientStock,
	ErrStoreUnavailable,
	ErrInvalidQuantity,
	ErrInvalidTotal,
}

// classify maps a store error onto a coordinator error kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	case errors.Is(err, ledger.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrSaleNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

// outcome is the low-cardinality label recorded for an operation result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrSaleNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidTotal):
		return "invalid"
	default:
		return "error"
	}
}
