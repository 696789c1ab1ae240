// Package export renders users, products and sales as CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/models"
)

// Format is an export file format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("export: unknown format")

const timeLayout = "2006-01-02 15:04:05"

// ParseFormat accepts "json" (the default when empty) or "csv".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Filename names an export of kind in format f.
func (f Format) Filename(kind string) string {
	return kind + "." + string(f)
}

// Sales writes sales in format f.
func Sales(w io.Writer, f Format, sales []models.Sale) error {
	if f == JSON {
		return writeJSON(w, sales)
	}
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, saleRow(s))
	}
	return writeCSV(w, saleHeader, rows)
}

// Products writes products in format f.
func Products(w io.Writer, f Format, products []models.Product) error {
	if f == JSON {
		return writeJSON(w, products)
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			uitoa(p.ID), p.Name, p.Description, p.Price.StringFixed(2), p.Category,
			strconv.Itoa(p.Stock), p.CreatedAt.Format(timeLayout),
		})
	}
	return writeCSV(w, []string{"id", "name", "description", "price", "category", "stock", "created_at"}, rows)
}

// Users writes users in format f. Password hashes are never written.
func Users(w io.Writer, f Format, users []models.User) error {
	if f == JSON {
		return writeJSON(w, users)
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			uitoa(u.ID), u.FirstName, u.LastName, strconv.Itoa(u.Age), u.Email, u.Phone,
			u.City, u.Country, u.CreatedAt.Format(timeLayout),
		})
	}
	return writeCSV(w, []string{"id", "first_name", "last_name", "age", "email", "phone", "city", "country", "created_at"}, rows)
}

var saleHeader = []string{"id", "buyer_id", "product_id", "quantity", "total", "created_at"}

func saleRow(s models.Sale) []string {
	return []string{
		uitoa(s.ID), uitoa(s.BuyerID), uitoa(s.ProductID), strconv.Itoa(s.Quantity),
		s.Total.StringFixed(2), s.CreatedAt.Format(timeLayout),
	}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export: csv rows: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

func uitoa(v uint) string { return strconv.FormatUint(uint64(v), 10) }

// MonthBounds returns [first instant of month, first instant of next month) in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
