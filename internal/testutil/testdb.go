// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/models"
)

// NewDB opens a migrated sqlite database in a temporary directory.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// SeedProduct inserts a product with the given price and stock.
func SeedProduct(t testing.TB, gdb *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "general",
		Stock:    stock,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

// SeedUser inserts a user with a unique email and phone derived from name.
func SeedUser(t testing.TB, gdb *gorm.DB, name string) models.User {
	t.Helper()
	hash, err := models.HashPassword("password")
	require.NoError(t, err)
	u := models.User{
		FirstName:    name,
		LastName:     "Test",
		Age:          30,
		Phone:        "+51-" + name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		City:         "Lima",
		Country:      "Peru",
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
