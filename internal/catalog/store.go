// Package catalog stores products and their stock levels.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models"
)

var (
	ErrNotFound      = errors.New("catalog: product not found")
	ErrNegativeStock = errors.New("catalog: stock must not be negative")
	ErrNegativePrice = errors.New("catalog: price must not be negative")
	ErrInvalid       = errors.New("catalog: invalid product")
	ErrNoChanges     = errors.New("catalog: no fields to update")
)

// Store reads and writes products through gorm.
type Store struct {
	db        *gorm.DB
	forUpdate bool
}

// NewStore returns a store bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NewLockingStore returns a store whose GetProduct takes a row lock on
// dialects that support one. It is only meaningful inside a transaction.
func NewLockingStore(tx *gorm.DB) *Store {
	return &Store{db: tx, forUpdate: true}
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Name     string // substring
	Category string
}

// Changes is a partial product update; nil fields are left alone.
type Changes struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int
}

// GetProduct returns the product with the given id.
func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	q := s.db.WithContext(ctx)
	if s.forUpdate && s.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return models.Product{}, fmt.Errorf("catalog: get %d: %w", id, err)
	}
	return p, nil
}

// SetStock overwrites the stock of a product.
func (s *Store) SetStock(ctx context.Context, id uint, stock int) error {
	if stock < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeStock, stock)
	}
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return fmt.Errorf("catalog: set stock %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// Create validates and inserts p, filling its id and timestamps.
func (s *Store) Create(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" || p.Category == "" {
		return fmt.Errorf("%w: name and category are required", ErrInvalid)
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeStock, p.Stock)
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("catalog: create: %w", err)
	}
	return nil
}

// List returns products matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Name != "" {
		q = q.Where("name LIKE ?", "%"+f.Name+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	items := []models.Product{}
	if err := q.Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return items, nil
}

// Update applies c to the product and returns the stored result.
func (s *Store) Update(ctx context.Context, id uint, c Changes) (models.Product, error) {
	fields := map[string]any{}
	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return models.Product{}, fmt.Errorf("%w: empty name", ErrInvalid)
		}
		fields["name"] = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	if c.Price != nil {
		if c.Price.IsNegative() {
			return models.Product{}, ErrNegativePrice
		}
		fields["price"] = *c.Price
	}
	if c.Category != nil {
		if strings.TrimSpace(*c.Category) == "" {
			return models.Product{}, fmt.Errorf("%w: empty category", ErrInvalid)
		}
		fields["category"] = strings.TrimSpace(*c.Category)
	}
	if c.Stock != nil {
		if *c.Stock < 0 {
			return models.Product{}, fmt.Errorf("%w: %d", ErrNegativeStock, *c.Stock)
		}
		fields["stock"] = *c.Stock
	}
	if len(fields) == 0 {
		return models.Product{}, ErrNoChanges
	}

	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.Product{}, fmt.Errorf("catalog: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.GetProduct(ctx, id)
}

// Delete removes the product. Sales referencing it are kept.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}
