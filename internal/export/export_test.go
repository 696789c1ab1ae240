package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models"
)

var at = time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)

func sale(id uint, qty int, total string) models.Sale {
	s := models.Sale{BuyerID: 1, ProductID: 2, Quantity: qty, Total: decimal.RequireFromString(total)}
	s.ID = id
	s.CreatedAt = at
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSON, "json": JSON, " CSV ": CSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, "sales.csv", CSV.Filename("sales"))
	assert.Contains(t, CSV.ContentType(), "text/csv")
	assert.Contains(t, JSON.ContentType(), "application/json")
}

func TestSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sales(&buf, CSV, []models.Sale{sale(1, 3, "30"), sale(2, 1, "9.5")}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, saleHeader, records[0])
	assert.Equal(t, []string{"1", "1", "2", "3", "30.00", "2025-03-04 10:30:00"}, records[1])
	assert.Equal(t, "9.50", records[2][4])
}

func TestSalesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sales(&buf, JSON, []models.Sale{sale(1, 3, "30")}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, float64(3), out[0]["quantity"])
	assert.Equal(t, "30", out[0]["total"])
}

func TestUsersNeverExportPasswordHash(t *testing.T) {
	u := models.User{FirstName: "Ana", Email: "ana@x.com", PasswordHash: "$2a$10$secret"}
	for _, f := range []Format{CSV, JSON} {
		var buf bytes.Buffer
		require.NoError(t, Users(&buf, f, []models.User{u}))
		assert.NotContains(t, buf.String(), "$2a$10$secret")
		assert.Contains(t, buf.String(), "ana@x.com")
	}
}

func TestProductsCSV(t *testing.T) {
	p := models.Product{Name: "Mug, large", Price: decimal.RequireFromString("4.5"), Category: "kitchen", Stock: 2}
	p.ID = 9
	var buf bytes.Buffer
	require.NoError(t, Products(&buf, CSV, []models.Product{p}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Mug, large", records[1][1])
	assert.Equal(t, "4.50", records[1][3])
}

func TestMonthlyReport(t *testing.T) {
	r, err := MonthlyReport(2025, 3, []models.Sale{sale(1, 3, "30"), sale(2, 2, "5.25")})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, 5, r.Units)
	assert.True(t, decimal.RequireFromString("35.25").Equal(r.Revenue))
	assert.Equal(t, "Sales 3-2025", r.Title())

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, CSV, r))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"total", "", "", "5", "35.25", ""}, records[3])

	_, err = MonthlyReport(2025, 13, nil)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestPeriod(t *testing.T) {
	from, to, err := Period(2024, 12, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = Period(2024, 0, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
