package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups every HTTP adapter the router mounts.
type Handlers struct {
	Webhook    *handlers.WebhookHandler
	PettyCash  *handlers.PettyCashHandler
	Operations *handlers.OperationsHandler
	Reports    *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", h.Webhook.Verify)
	r.POST("/webhook", h.Webhook.Receive)
	r.POST("/send-message", h.Webhook.SendMessage)

	api := r.Group("/api")
	{
		cash := api.Group("/petty-cash")
		cash.GET("", h.PettyCash.List)
		cash.POST("", h.PettyCash.Create)
		cash.GET("/verify", h.PettyCash.Verify)
		cash.PUT("/:id", h.PettyCash.Update)
		cash.DELETE("/:id", h.PettyCash.Delete)

		production := api.Group("/production")
		production.GET("", h.Operations.ListProduction)
		production.POST("", h.Operations.CreateProduction)
		production.PUT("/:id", h.Operations.UpdateProduction)
		production.DELETE("/:id", h.Operations.DeleteProduction)

		orders := api.Group("/purchase-orders")
		orders.GET("", h.Operations.ListPurchaseOrders)
		orders.POST("", h.Operations.CreatePurchaseOrder)
		orders.GET("/:id", h.Operations.GetPurchaseOrder)

		deliveries := api.Group("/deliveries")
		deliveries.GET("", h.Operations.ListDeliveries)
		deliveries.POST("", h.Operations.CreateDelivery)
		deliveries.PATCH("/:id/status", h.Operations.TransitionDelivery)
		deliveries.DELETE("/:id", h.Operations.DeleteDelivery)

		api.GET("/purchases", h.Operations.ListPurchases)
		api.POST("/purchases", h.Operations.CreatePurchase)
		api.GET("/expenses", h.Operations.ListExpenses)
		api.POST("/expenses", h.Operations.CreateExpense)

		employees := api.Group("/employees")
		employees.GET("", h.Operations.ListEmployees)
		employees.POST("", h.Operations.CreateEmployee)
		employees.POST("/:id/salaries", h.Operations.PaySalary)

		api.GET("/audit", h.Reports.Audit)
		api.GET("/reports/summary", h.Reports.Summary)
	}

	logger.Info("router initialized")
	return r
}

// requestIDMiddleware keeps a caller-supplied UUID or mints a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(handlers.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
