// Package ledger stores sale records.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backoffice/internal/models"
)

var (
	ErrNotFound  = errors.New("ledger: sale not found")
	ErrNoChanges = errors.New("ledger: no fields to update")
)

// Store reads and writes sales through gorm. Every call is its own
// statement; grouping calls atomically is up to the caller's transaction.
type Store struct {
	db *gorm.DB
}

// NewStore returns a store bound to db (a pool or a transaction).
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Fields is a partial sale update; nil fields are left alone.
type Fields struct {
	Quantity *int
	Total    *decimal.Decimal
}

// Filter narrows ListSales. Zero values match everything; From is
// inclusive and To exclusive.
type Filter struct {
	BuyerID   uint
	ProductID uint
	From      time.Time
	To        time.Time
}

// InsertSale records a new sale.
func (s *Store) InsertSale(ctx context.Context, buyerID, productID uint, quantity int, total decimal.Decimal) (models.Sale, error) {
	sale := models.Sale{
		BuyerID:   buyerID,
		ProductID: productID,
		Quantity:  quantity,
		Total:     total,
	}
	if err := s.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return models.Sale{}, fmt.Errorf("ledger: insert: %w", err)
	}
	return sale, nil
}

// GetSale returns the sale with the given id.
func (s *Store) GetSale(ctx context.Context, id uint) (models.Sale, error) {
	var sale models.Sale
	if err := s.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sale{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return models.Sale{}, fmt.Errorf("ledger: get %d: %w", id, err)
	}
	return sale, nil
}

// UpdateSaleFields writes the non-nil fields and returns the stored sale.
func (s *Store) UpdateSaleFields(ctx context.Context, id uint, f Fields) (models.Sale, error) {
	fields := map[string]any{}
	if f.Quantity != nil {
		fields["quantity"] = *f.Quantity
	}
	if f.Total != nil {
		fields["total"] = *f.Total
	}
	if len(fields) == 0 {
		return models.Sale{}, ErrNoChanges
	}
	res := s.db.WithContext(ctx).Model(&models.Sale{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.Sale{}, fmt.Errorf("ledger: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Sale{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.GetSale(ctx, id)
}

// DeleteSale removes the sale.
func (s *Store) DeleteSale(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Sale{}, id)
	if res.Error != nil {
		return fmt.Errorf("ledger: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// ListSales returns the sales matching f in id order.
func (s *Store) ListSales(ctx context.Context, f Filter) ([]models.Sale, error) {
	q := s.db.WithContext(ctx).Model(&models.Sale{})
	if f.BuyerID != 0 {
		q = q.Where("buyer_id = ?", f.BuyerID)
	}
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	sales := []models.Sale{}
	if err := q.Order("id").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	return sales, nil
}
