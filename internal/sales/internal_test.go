package sales

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/catalog"
	"backoffice/internal/ledger"
	"backoffice/internal/models"
)

func TestProductLocksSerializeSameID(t *testing.T) {
	locks := newProductLocks()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(1)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, locks.size(), "idle locks are released")
}

func TestProductLocksIndependentIDs(t *testing.T) {
	locks := newProductLocks()
	unlockA := locks.lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on product 2 blocked behind product 1")
	}
	assert.Equal(t, 1, locks.size())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))

	err := classify(catalog.ErrNotFound)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = classify(ledger.ErrNotFound)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	cause := errors.New("connection reset")
	err = classify(cause)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)

	already := insufficient(catalogProduct(3), 5, 3)
	assert.Same(t, already, classify(already))
	assert.NotErrorIs(t, classify(already), ErrStoreUnavailable)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", outcome(nil))
	assert.Equal(t, "insufficient_stock", outcome(ErrInsufficientStock))
	assert.Equal(t, "not_found", outcome(classify(ledger.ErrNotFound)))
	assert.Equal(t, "invalid", outcome(ErrInvalidQuantity))
	assert.Equal(t, "error", outcome(classify(errors.New("boom"))))
}

type emptyTransactor struct{}

func (emptyTransactor) InTx(ctx context.Context, fn func(Stores) error) error {
	return ledger.ErrNotFound
}

func TestOperationsAreCounted(t *testing.T) {
	c := NewCoordinator(emptyTransactor{})
	before := testutil.ToFloat64(operationsTotal.WithLabelValues(opDelete, "not_found"))

	err := c.DeleteSale(context.Background(), 1)
	require.ErrorIs(t, err, ErrSaleNotFound)

	after := testutil.ToFloat64(operationsTotal.WithLabelValues(opDelete, "not_found"))
	assert.Equal(t, before+1, after)
}

func catalogProduct(stock int) models.Product {
	return models.Product{Stock: stock}
}
