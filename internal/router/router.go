// Package router assembles the gin engine: middleware, services, handlers
// and routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"gorm.io/gorm"

	"moneyboard/internal/config"
	_ "moneyboard/internal/docs" // swagger docs
	"moneyboard/internal/events"
	"moneyboard/internal/handlers"
	"moneyboard/internal/middleware"
	"moneyboard/internal/services"
	"moneyboard/internal/validator"
)

// Options configures New. Publisher and Limiter are optional.
type Options struct {
	DB        *gorm.DB
	Config    *config.Config
	Publisher events.Publisher
	Limiter   *limiter.Limiter
}

// New builds the HTTP engine.
func New(opts Options) *gin.Engine {
	cfg := opts.Config
	db := opts.DB
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	validator.Register()

	// Services
	auditService := services.NewAuditService(db)
	tenantService := services.NewTenantService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	transferService := services.NewTransferService(db)
	payableService := services.NewPayableService(db, categoryService)
	budgetService := services.NewBudgetService(db, categoryService)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantService, accountService, auditService, publisher, cfg.JWTSecret, cfg.JWTExpirationDur)
	accountHandler := handlers.NewAccountHandler(accountService, auditService, publisher)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService, publisher)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService, publisher)
	transferHandler := handlers.NewTransferHandler(transferService, auditService, publisher)
	payableHandler := handlers.NewPayableHandler(payableService, auditService, publisher)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService, publisher)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	if opts.Limiter != nil {
		router.Use(middleware.RateLimit(opts.Limiter))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.AdminAPIKey))
	admin.POST("/tenants", tenantHandler.CreateTenant)
	admin.GET("/reconcile", tenantHandler.ReconcileAll)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.GET("/tenant", tenantHandler.GetCurrentTenant)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/reconcile", accountHandler.ReconcileAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)
	accounts.GET("/:id/transfers", transferHandler.GetAccountTransfers)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.GET("/:id/descendants", categoryHandler.GetDescendants)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	transfers := protected.Group("/transfers")
	transfers.POST("", transferHandler.CreateTransfer)
	transfers.GET("", transferHandler.GetTransfers)
	transfers.GET("/:id", transferHandler.GetTransferByID)
	transfers.DELETE("/:id", transferHandler.DeleteTransfer)

	payables := protected.Group("/payables")
	payables.POST("", payableHandler.CreatePayable)
	payables.GET("", payableHandler.GetPayables)
	payables.GET("/:id", payableHandler.GetPayableByID)
	payables.PUT("/:id", payableHandler.UpdatePayable)
	payables.DELETE("/:id", payableHandler.DeletePayable)
	payables.POST("/:id/pay", payableHandler.PayPayable)
	payables.POST("/:id/cancel", payableHandler.CancelPayable)

	budget := protected.Group("/budget")
	budget.POST("/items", budgetHandler.CreateBudgetItem)
	budget.GET("/items", budgetHandler.GetBudgetItems)
	budget.GET("/items/:id", budgetHandler.GetBudgetItemByID)
	budget.PUT("/items/:id", budgetHandler.UpdateBudgetItem)
	budget.DELETE("/items/:id", budgetHandler.DeleteBudgetItem)
	budget.GET("/summary", budgetHandler.GetBudgetSummary)

	return router
}
