package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/catalog"
	"backoffice/internal/models"
	"backoffice/internal/testutil"
)

func TestGetProductAndSetStock(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := catalog.NewStore(gdb)
	ctx := context.Background()
	seeded := testutil.SeedProduct(t, gdb, "Mouse", "10.00", 5)

	p, err := store.GetProduct(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", p.Name)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, decimal.RequireFromString("10").Equal(p.Price))

	require.NoError(t, store.SetStock(ctx, seeded.ID, 2))
	p, err = store.GetProduct(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	require.NoError(t, store.SetStock(ctx, seeded.ID, 0))
	p, err = store.GetProduct(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestMissingProduct(t *testing.T) {
	store := catalog.NewStore(testutil.NewDB(t))
	ctx := context.Background()

	_, err := store.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorIs(t, store.SetStock(ctx, 404, 1), catalog.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 404), catalog.ErrNotFound)

	name := "x"
	_, err = store.Update(ctx, 404, catalog.Changes{Name: &name})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSetStockRejectsNegative(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := catalog.NewStore(gdb)
	p := testutil.SeedProduct(t, gdb, "Cable", "3.50", 1)

	err := store.SetStock(context.Background(), p.ID, -1)
	require.ErrorIs(t, err, catalog.ErrNegativeStock)

	got, err := store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestCreateValidates(t *testing.T) {
	store := catalog.NewStore(testutil.NewDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.Product
		want error
	}{
		{"missing name", models.Product{Category: "c"}, catalog.ErrInvalid},
		{"missing category", models.Product{Name: "n"}, catalog.ErrInvalid},
		{"negative price", models.Product{Name: "n", Category: "c", Price: decimal.NewFromInt(-1)}, catalog.ErrNegativePrice},
		{"negative stock", models.Product{Name: "n", Category: "c", Stock: -3}, catalog.ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			assert.ErrorIs(t, store.Create(ctx, &p), tt.want)
		})
	}

	p := models.Product{Name: " Keyboard ", Category: "peripherals", Price: decimal.RequireFromString("25.90"), Stock: 4}
	require.NoError(t, store.Create(ctx, &p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Keyboard", p.Name)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestListFilters(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := catalog.NewStore(gdb)
	ctx := context.Background()
	for _, p := range []models.Product{
		{Name: "Red Mug", Category: "kitchen", Price: decimal.NewFromInt(5), Stock: 1},
		{Name: "Blue Mug", Category: "kitchen", Price: decimal.NewFromInt(6), Stock: 1},
		{Name: "Red Shirt", Category: "clothing", Price: decimal.NewFromInt(20), Stock: 1},
	} {
		p := p
		require.NoError(t, store.Create(ctx, &p))
	}

	all, err := store.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Red Shirt", all[0].Name)

	red, err := store.List(ctx, catalog.Filter{Name: "Red"})
	require.NoError(t, err)
	assert.Len(t, red, 2)

	redKitchen, err := store.List(ctx, catalog.Filter{Name: "Red", Category: "kitchen"})
	require.NoError(t, err)
	require.Len(t, redKitchen, 1)
	assert.Equal(t, "Red Mug", redKitchen[0].Name)
}

func TestUpdateAndDelete(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := catalog.NewStore(gdb)
	ctx := context.Background()
	p := testutil.SeedProduct(t, gdb, "Lamp", "12.00", 3)

	_, err := store.Update(ctx, p.ID, catalog.Changes{})
	assert.ErrorIs(t, err, catalog.ErrNoChanges)

	neg := -1
	_, err = store.Update(ctx, p.ID, catalog.Changes{Stock: &neg})
	assert.ErrorIs(t, err, catalog.ErrNegativeStock)

	name, price, stock := "Desk Lamp", decimal.RequireFromString("15.50"), 7
	got, err := store.Update(ctx, p.ID, catalog.Changes{Name: &name, Price: &price, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name)
	assert.Equal(t, 7, got.Stock)
	assert.True(t, price.Equal(got.Price))
	assert.Equal(t, "general", got.Category)

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLockingStoreReadsInsideTransaction(t *testing.T) {
	gdb := testutil.NewDB(t)
	p := testutil.SeedProduct(t, gdb, "Chair", "40", 2)

	tx := gdb.Begin()
	defer tx.Rollback()
	got, err := catalog.NewLockingStore(tx).GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}
