package router

import (
	"event-inventory/internal/config"
	"event-inventory/internal/handler"
	"event-inventory/internal/inventory"
	"event-inventory/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the JSON API.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *inventory.Service, logger zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	r.GET("/health", handler.Health(db))

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	inv := handler.NewInventoryHandler(svc, logger)

	// reads are public
	api.GET("/articles", inv.ListArticles)
	api.GET("/articles/:id/stock", inv.GetStock)
	api.GET("/events", inv.ListEvents)
	api.GET("/events/:id/transactions", inv.ListEventTransactions)
	api.GET("/events/:id/stats", inv.GetEventStats)
	api.GET("/todos", inv.ListTodos)

	// writes and downloads need an operator when auth is configured
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer, db))

	protected.GET("/me", handler.GetMe)
	protected.PUT("/me", handler.UpdateProfile(db))
	protected.POST("/me/password", handler.ChangePassword(db))

	protected.POST("/articles", inv.CreateArticle)
	protected.PUT("/articles/:id", inv.UpdateArticle)
	protected.DELETE("/articles/:id", inv.DeleteArticle)

	protected.POST("/events", inv.CreateEvent)
	protected.DELETE("/events/:id", inv.DeleteEvent)

	protected.POST("/transactions", inv.RecordTransaction)

	protected.POST("/todos", inv.CreateTodo)
	protected.DELETE("/todos/:id", inv.CompleteTodo)

	export := handler.NewExportHandler(svc, logger)
	protected.GET("/export/articles.csv", export.ArticlesCSV)
	protected.GET("/export/articles.xlsx", export.ArticlesXLSX)
	protected.GET("/export/events/:id/stats.xlsx", export.EventStatsXLSX)

	return r
}
