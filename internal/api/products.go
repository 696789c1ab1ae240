package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backoffice/internal/catalog"
	"backoffice/internal/export"
	"backoffice/internal/models"
)

type createProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Stock       *int             `json:"stock" binding:"required"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
}

func (s *server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Stock:       *req.Stock,
	}
	if err := s.Catalog.Create(c.Request.Context(), &p); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "product created", p)
}

func (s *server) listProducts(c *gin.Context) {
	items, err := s.Catalog.List(c.Request.Context(), catalog.Filter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", items)
}

func (s *server) getProduct(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	p, err := s.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", p)
}

func (s *server) updateProduct(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.Catalog.Update(c.Request.Context(), id, catalog.Changes{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "product updated", p)
}

func (s *server) deleteProduct(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	if err := s.Catalog.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "product deleted", nil)
}

func (s *server) exportProducts(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		failErr(c, err)
		return
	}
	items, err := s.Catalog.List(c.Request.Context(), catalog.Filter{})
	if err != nil {
		failErr(c, err)
		return
	}
	download(c, f, "products", func(b *bytes.Buffer) error { return export.Products(b, f, items) })
}
