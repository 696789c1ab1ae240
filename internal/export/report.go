package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/models"
)

var ErrInvalidMonth = errors.New("export: month must be between 1 and 12")

// Report summarises the sales of one calendar month.
type Report struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Count   int             `json:"count"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   []models.Sale   `json:"sales"`
}

// MonthlyReport totals sales, which the caller has already narrowed to the month.
func MonthlyReport(year, month int, sales []models.Sale) (Report, error) {
	if month < 1 || month > 12 {
		return Report{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	r := Report{Year: year, Month: month, Revenue: decimal.Zero, Sales: sales}
	for _, s := range sales {
		r.Count++
		r.Units += s.Quantity
		r.Revenue = r.Revenue.Add(s.Total)
	}
	return r, nil
}

// Title is the human name of the report period, e.g. "Sales 3-2025".
func (r Report) Title() string {
	return fmt.Sprintf("Sales %d-%d", r.Month, r.Year)
}

// WriteReport writes r in format f. The CSV form lists every sale followed
// by a totals row.
func WriteReport(w io.Writer, f Format, r Report) error {
	if f == JSON {
		return writeJSON(w, r)
	}
	rows := make([][]string, 0, len(r.Sales)+1)
	for _, s := range r.Sales {
		rows = append(rows, saleRow(s))
	}
	rows = append(rows, []string{"total", "", "", strconv.Itoa(r.Units), r.Revenue.StringFixed(2), ""})
	return writeCSV(w, saleHeader, rows)
}

// Period returns the bounds of the report month in loc.
func Period(year, month int, loc *time.Location) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	from, to := MonthBounds(year, time.Month(month), loc)
	return from, to, nil
}
