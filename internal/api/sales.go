package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backoffice/internal/export"
	"backoffice/internal/ledger"
	"backoffice/internal/sales"
)

type createSaleRequest struct {
	BuyerID   uint `json:"buyer_id"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type updateSaleRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,gt=0"`
}

type overrideTotalRequest struct {
	Total *decimal.Decimal `json:"total" binding:"required"`
}

// createSale sells to buyer_id, or to the caller when it is omitted.
func (s *server) createSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	if req.BuyerID == 0 {
		req.BuyerID = c.GetUint(ctxUserID)
	}
	if _, err := s.Users.Get(ctx, req.BuyerID); err != nil {
		failErr(c, err)
		return
	}

	sale, err := s.Sales.CreateSale(ctx, req.BuyerID, req.ProductID, req.Quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "sale created", sale)
}

func (s *server) listSales(c *gin.Context) {
	buyer, good := queryUint(c, "buyer_id")
	if !good {
		return
	}
	product, good := queryUint(c, "product_id")
	if !good {
		return
	}
	list, err := s.Ledger.ListSales(c.Request.Context(), ledger.Filter{BuyerID: buyer, ProductID: product})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (s *server) salesByUser(c *gin.Context) {
	s.salesBy(c, func(id uint) ledger.Filter { return ledger.Filter{BuyerID: id} }, "no sales for this user")
}

func (s *server) salesByProduct(c *gin.Context) {
	s.salesBy(c, func(id uint) ledger.Filter { return ledger.Filter{ProductID: id} }, "no sales for this product")
}

func (s *server) salesBy(c *gin.Context, filter func(uint) ledger.Filter, emptyMsg string) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	list, err := s.Ledger.ListSales(c.Request.Context(), filter(id))
	if err != nil {
		failErr(c, err)
		return
	}
	msg := ""
	if len(list) == 0 {
		msg = emptyMsg
	}
	ok(c, http.StatusOK, msg, list)
}

func (s *server) getSale(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	sale, err := s.Ledger.GetSale(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", sale)
}

func (s *server) updateSale(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := s.Sales.UpdateSale(c.Request.Context(), id, sales.SaleUpdate{Quantity: req.Quantity})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "sale updated", sale)
}

func (s *server) overrideTotal(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	var req overrideTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := s.Sales.OverrideTotal(c.Request.Context(), id, *req.Total)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "sale total overridden", sale)
}

func (s *server) deleteSale(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	if err := s.Sales.DeleteSale(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "sale deleted", nil)
}

func (s *server) exportSales(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		failErr(c, err)
		return
	}
	list, err := s.Ledger.ListSales(c.Request.Context(), ledger.Filter{})
	if err != nil {
		failErr(c, err)
		return
	}
	download(c, f, "sales", func(b *bytes.Buffer) error { return export.Sales(b, f, list) })
}

// monthlyReport summarises ?month= of ?year= (default: current year).
func (s *server) monthlyReport(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		failErr(c, err)
		return
	}
	month, good := queryInt(c, "month")
	if !good {
		return
	}
	if month == nil {
		fail(c, http.StatusBadRequest, export.ErrInvalidMonth.Error())
		return
	}
	year := time.Now().Year()
	if y, good := queryInt(c, "year"); !good {
		return
	} else if y != nil {
		year = *y
	}

	from, to, err := export.Period(year, *month, time.UTC)
	if err != nil {
		failErr(c, err)
		return
	}
	list, err := s.Ledger.ListSales(c.Request.Context(), ledger.Filter{From: from, To: to})
	if err != nil {
		failErr(c, err)
		return
	}
	if len(list) == 0 {
		fail(c, http.StatusNotFound, "no sales in that month")
		return
	}
	report, err := export.MonthlyReport(year, *month, list)
	if err != nil {
		failErr(c, err)
		return
	}
	if f == export.JSON {
		ok(c, http.StatusOK, report.Title(), report)
		return
	}
	download(c, f, "sales_report", func(b *bytes.Buffer) error { return export.WriteReport(b, f, report) })
}
