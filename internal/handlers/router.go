package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gastocerto/internal/feed"
	"gastocerto/internal/middleware"
	"gastocerto/internal/services"
)

// Services bundles what the HTTP surface depends on.
type Services struct {
	Transactions services.TransactionServicer
	Entries      services.EntryServicer
	Imports      services.ImportServicer
	Descriptions services.DescriptionServicer
	Broker       *feed.Broker
}

// NewRouter builds the Gin engine with every route registered.
func NewRouter(svc Services) *gin.Engine {
	transactionHandler := NewTransactionHandler(svc.Transactions, svc.Entries)
	descriptionHandler := NewDescriptionHandler(svc.Descriptions)
	entryHandler := NewEntryHandler(svc.Entries)
	importHandler := NewImportHandler(svc.Imports)
	streamHandler := NewStreamHandler(svc.Transactions, svc.Broker)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.HouseholdContext())

	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	v1.GET("/summary", transactionHandler.GetSummary)
	v1.GET("/stream", streamHandler.Stream)

	descriptions := v1.Group("/descriptions")
	descriptions.GET("", descriptionHandler.ListDescriptions)
	descriptions.POST("", descriptionHandler.AddDescription)

	v1.POST("/scans", entryHandler.ScanReceipt)

	pending := v1.Group("/pending")
	pending.GET("/:id", entryHandler.GetPending)
	pending.POST("/:id/confirm", entryHandler.ConfirmPending)
	pending.DELETE("/:id", entryHandler.CancelPending)

	imports := v1.Group("/imports")
	imports.POST("", importHandler.BeginImport)
	imports.GET("/:id", importHandler.GetImport)
	imports.POST("/:id/toggle/:index", importHandler.ToggleLine)
	imports.POST("/:id/commit", importHandler.CommitImport)
	imports.DELETE("/:id", importHandler.DiscardImport)

	return router
}
