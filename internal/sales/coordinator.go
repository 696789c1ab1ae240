// Package sales keeps sale records and product stock consistent.
//
// Every operation reads the product, validates, writes the ledger and then
// the stock, all inside one transaction guarded by a per-product mutex, so
// for any product the initial stock minus the quantities of its live sales
// equals its current stock.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"backoffice/internal/catalog"
	"backoffice/internal/ledger"
	"backoffice/internal/logging"
	"backoffice/internal/models"
)

const (
	opCreate   = "create_sale"
	opUpdate   = "update_sale"
	opOverride = "override_total"
	opDelete   = "delete_sale"

	tracerName = "backoffice/sales"
)

// Coordinator creates, edits and deletes sales together with the matching
// stock adjustment on the referenced product.
type Coordinator struct {
	tx     Transactor
	locks  *productLocks
	logger *zap.Logger
	tracer trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used when the context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer replaces the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

func NewCoordinator(tx Transactor, opts ...Option) *Coordinator {
	c := &Coordinator{
		tx:     tx,
		locks:  newProductLocks(),
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaleUpdate describes an edit of an existing sale. A nil Quantity keeps
// the current one. TotalOverride, when set, is stored as-is instead of
// price times quantity.
type SaleUpdate struct {
	Quantity      *int
	TotalOverride *decimal.Decimal
}

// CreateSale sells quantity units of productID to buyerID.
func (c *Coordinator) CreateSale(ctx context.Context, buyerID, productID uint, quantity int) (sale models.Sale, err error) {
	ctx, logger, done := c.begin(ctx, opCreate,
		zap.Uint("buyer_id", buyerID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
	)
	defer func() { done(err, zap.Uint("sale_id", sale.ID)) }()

	if quantity <= 0 {
		return models.Sale{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	err = c.apply(ctx, productID, func(s Stores) error {
		p, err := s.Catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if p.Stock < quantity {
			return insufficient(p, quantity, p.Stock)
		}
		total := p.Price.Mul(decimal.NewFromInt(int64(quantity)))

		// ledger first: a failed stock write must not leave a silent deduction
		sale, err = s.Ledger.InsertSale(ctx, buyerID, productID, quantity, total)
		if err != nil {
			return err
		}
		return s.Catalog.SetStock(ctx, productID, p.Stock-quantity)
	})
	if err != nil {
		return models.Sale{}, err
	}

	unitsSold.Add(float64(quantity))
	logger.Debug("stock deducted", zap.Uint("sale_id", sale.ID))
	return sale, nil
}

// UpdateSale changes the quantity (and so the total) of a sale, moving the
// difference between old and new quantity back to or out of stock.
func (c *Coordinator) UpdateSale(ctx context.Context, saleID uint, u SaleUpdate) (sale models.Sale, err error) {
	fields := []zap.Field{zap.Uint("sale_id", saleID)}
	if u.Quantity != nil {
		fields = append(fields, zap.Int("quantity", *u.Quantity))
	}
	ctx, logger, done := c.begin(ctx, opUpdate, fields...)
	defer func() { done(err) }()

	if u.Quantity != nil && *u.Quantity <= 0 {
		return models.Sale{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, *u.Quantity)
	}
	if u.TotalOverride != nil {
		if u.TotalOverride.IsNegative() {
			return models.Sale{}, fmt.Errorf("%w: got %s", ErrInvalidTotal, u.TotalOverride)
		}
		logger.Warn("sale total overridden", zap.String("total", u.TotalOverride.String()))
	}

	productID, err := c.productOf(ctx, saleID)
	if err != nil {
		return models.Sale{}, err
	}

	err = c.apply(ctx, productID, func(s Stores) error {
		old, err := s.Ledger.GetSale(ctx, saleID)
		if err != nil {
			return err
		}
		p, err := s.Catalog.GetProduct(ctx, old.ProductID)
		if err != nil {
			return err
		}

		quantity := old.Quantity
		if u.Quantity != nil {
			quantity = *u.Quantity
		}
		// restore the old deduction and apply the new one in one step
		adjusted := p.Stock + old.Quantity - quantity
		if adjusted < 0 {
			return insufficient(p, quantity, p.Stock+old.Quantity)
		}

		total := p.Price.Mul(decimal.NewFromInt(int64(quantity)))
		if u.TotalOverride != nil {
			total = *u.TotalOverride
		}

		sale, err = s.Ledger.UpdateSaleFields(ctx, saleID, ledger.Fields{Quantity: &quantity, Total: &total})
		if err != nil {
			return err
		}
		return s.Catalog.SetStock(ctx, p.ID, adjusted)
	})
	if err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// OverrideTotal stores total on the sale without checking it against the
// product price. Stock is untouched.
func (c *Coordinator) OverrideTotal(ctx context.Context, saleID uint, total decimal.Decimal) (sale models.Sale, err error) {
	ctx, logger, done := c.begin(ctx, opOverride,
		zap.Uint("sale_id", saleID),
		zap.String("total", total.String()),
	)
	defer func() { done(err) }()

	if total.IsNegative() {
		return models.Sale{}, fmt.Errorf("%w: got %s", ErrInvalidTotal, total)
	}

	productID, err := c.productOf(ctx, saleID)
	if err != nil {
		return models.Sale{}, err
	}

	err = c.apply(ctx, productID, func(s Stores) error {
		var err error
		sale, err = s.Ledger.UpdateSaleFields(ctx, saleID, ledger.Fields{Total: &total})
		return err
	})
	if err != nil {
		return models.Sale{}, err
	}
	logger.Warn("sale total overridden")
	return sale, nil
}

// DeleteSale removes a sale and gives its quantity back to the product.
// When the product no longer exists there is nothing to restore and only
// the sale is removed.
func (c *Coordinator) DeleteSale(ctx context.Context, saleID uint) (err error) {
	ctx, logger, done := c.begin(ctx, opDelete, zap.Uint("sale_id", saleID))
	defer func() { done(err) }()

	productID, err := c.productOf(ctx, saleID)
	if err != nil {
		return err
	}

	return c.apply(ctx, productID, func(s Stores) error {
		old, err := s.Ledger.GetSale(ctx, saleID)
		if err != nil {
			return err
		}

		p, err := s.Catalog.GetProduct(ctx, old.ProductID)
		switch {
		case err == nil:
			if err := s.Catalog.SetStock(ctx, p.ID, p.Stock+old.Quantity); err != nil {
				return err
			}
		case errors.Is(err, catalog.ErrNotFound):
			logger.Info("product gone, stock not restored", zap.Uint("product_id", old.ProductID))
		default:
			return err
		}

		return s.Ledger.DeleteSale(ctx, saleID)
	})
}

// apply runs fn as one atomic unit while holding the product's mutex.
// Any error rolls back every write fn made.
func (c *Coordinator) apply(ctx context.Context, productID uint, fn func(Stores) error) error {
	unlock := c.locks.lock(productID)
	defer unlock()
	return classify(c.tx.InTx(ctx, fn))
}

// productOf returns the product a sale references. A sale never changes
// product, so reading it before taking the product lock is safe.
func (c *Coordinator) productOf(ctx context.Context, saleID uint) (uint, error) {
	var productID uint
	err := c.tx.InTx(ctx, func(s Stores) error {
		sale, err := s.Ledger.GetSale(ctx, saleID)
		if err != nil {
			return err
		}
		productID = sale.ProductID
		return nil
	})
	return productID, classify(err)
}

// begin opens a span and returns the scoped logger and a func that records
// metrics, span status and the final log line.
func (c *Coordinator) begin(ctx context.Context, op string, fields ...zap.Field) (context.Context, *zap.Logger, func(error, ...zap.Field)) {
	logger := logging.FromContextOr(ctx, c.logger).With(zap.String("operation", op))
	logger = logger.With(fields...)

	// integer fields double as span attributes
	attrs := []attribute.KeyValue{attribute.String("operation", op)}
	for _, f := range fields {
		if f.Type == zapcore.Int64Type || f.Type == zapcore.Uint64Type {
			attrs = append(attrs, attribute.Int64(f.Key, f.Integer))
		}
	}
	ctx, span := c.tracer.Start(ctx, "sales."+op, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, logger, func(err error, extra ...zap.Field) {
		result := outcome(err)
		operationsTotal.WithLabelValues(op, result).Inc()
		operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		} else {
			span.SetStatus(codes.Ok, result)
		}
		span.End()

		switch result {
		case "success":
			logger.Info("sale operation completed", extra...)
		case "error":
			logger.Error("sale operation failed", zap.Error(err))
		default:
			logger.Warn("sale operation rejected", zap.String("outcome", result), zap.Error(err))
		}
	}
}

func insufficient(p models.Product, requested, available int) error {
	return fmt.Errorf("%w: product %d has %d units available, %d requested", ErrInsufficientStock, p.ID, available, requested)
}
