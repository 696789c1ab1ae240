package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backoffice/internal/catalog"
	"backoffice/internal/ledger"
	"backoffice/internal/models"
)

// CatalogStore is the part of the catalog the Coordinator may touch.
// SetStock is the only inventory mutation it uses.
type CatalogStore interface {
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	SetStock(ctx context.Context, id uint, stock int) error
}

// LedgerStore is the sale ledger seen by the Coordinator.
type LedgerStore interface {
	InsertSale(ctx context.Context, buyerID, productID uint, quantity int, total decimal.Decimal) (models.Sale, error)
	GetSale(ctx context.Context, id uint) (models.Sale, error)
	UpdateSaleFields(ctx context.Context, id uint, f ledger.Fields) (models.Sale, error)
	DeleteSale(ctx context.Context, id uint) error
	ListSales(ctx context.Context, f ledger.Filter) ([]models.Sale, error)
}

// Stores is the pair of stores bound to one unit of work.
type Stores struct {
	Catalog CatalogStore
	Ledger  LedgerStore
}

// Transactor runs fn against stores whose writes commit together or not at all.
type Transactor interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

// GormTransactor wraps each unit of work in a gorm transaction.
type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) InTx(ctx context.Context, fn func(Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Stores{
			Catalog: catalog.NewLockingStore(tx),
			Ledger:  ledger.NewStore(tx),
		})
	})
}
