// Package api exposes the back office over HTTP/JSON.
package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice/internal/auth"
	"backoffice/internal/catalog"
	"backoffice/internal/db"
	"backoffice/internal/ledger"
	"backoffice/internal/sales"
	"backoffice/internal/users"
)

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	DB            *gorm.DB
	Users         *users.Store
	Catalog       *catalog.Store
	Ledger        *ledger.Store
	Sales         *sales.Coordinator
	Tokens        *auth.Tokens
	SessionSecret string
	Logger        *zap.Logger
}

// NewDeps wires every store and the coordinator onto one database.
func NewDeps(gdb *gorm.DB, tokens *auth.Tokens, sessionSecret string, logger *zap.Logger) Deps {
	return Deps{
		DB:            gdb,
		Users:         users.NewStore(gdb),
		Catalog:       catalog.NewStore(gdb),
		Ledger:        ledger.NewStore(gdb),
		Sales:         sales.NewCoordinator(sales.NewGormTransactor(gdb), sales.WithLogger(logger)),
		Tokens:        tokens,
		SessionSecret: sessionSecret,
		Logger:        logger,
	}
}

type server struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	s := &server{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), observe(d.Logger))

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("bo_session", store))

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "resource not found")
	})

	r.GET("/", func(c *gin.Context) {
		ok(c, http.StatusOK, "e-commerce back office API is running", nil)
	})
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pub := r.Group("/api")
	pub.POST("/register", s.register)
	pub.POST("/login", s.login)

	api := r.Group("/api", mustLogin(d.Tokens))
	api.POST("/logout", s.logout)

	api.GET("/users", s.listUsers)
	api.GET("/users/export", s.exportUsers)
	api.GET("/users/email/:email", s.userByEmail)
	api.GET("/users/country/:country", s.usersByCountry)
	api.GET("/users/:id", s.getUser)
	api.PUT("/users/:id", s.updateUser)
	api.DELETE("/users/:id", s.deleteUser)

	api.POST("/products", s.createProduct)
	api.GET("/products", s.listProducts)
	api.GET("/products/export", s.exportProducts)
	api.GET("/products/:id", s.getProduct)
	api.PUT("/products/:id", s.updateProduct)
	api.DELETE("/products/:id", s.deleteProduct)

	api.POST("/sales", s.createSale)
	api.GET("/sales", s.listSales)
	api.GET("/sales/export", s.exportSales)
	api.GET("/sales/report", s.monthlyReport)
	api.GET("/sales/user/:id", s.salesByUser)
	api.GET("/sales/product/:id", s.salesByProduct)
	api.GET("/sales/:id", s.getSale)
	api.PATCH("/sales/:id", s.updateSale)
	api.PUT("/sales/:id/total", s.overrideTotal)
	api.DELETE("/sales/:id", s.deleteSale)

	return r
}

func (s *server) health(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), s.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
