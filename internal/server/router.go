package server

import (
	"net/http"

	handler "antique-catalog/services/catalog/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(catalogService handler.CatalogServiceInterface, inbox handler.NotificationInbox) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	catalogHandler := handler.NewCatalogHandler(catalogService, inbox)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/categories", catalogHandler.ListCategoriesHandler)

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.ListProductsHandler)
		products.POST("", catalogHandler.CreateProductHandler)
		products.GET("/:id", catalogHandler.GetProductHandler)
		products.PUT("/:id", catalogHandler.UpdateProductHandler)
		products.DELETE("/:id", catalogHandler.DeleteProductHandler)
		products.GET("/:id/offers", catalogHandler.ListProductOffersHandler)
	}

	submissions := router.Group("/submissions")
	{
		submissions.GET("", catalogHandler.ListSubmissionsHandler)
		submissions.POST("", catalogHandler.CreateSubmissionHandler)
		submissions.GET("/:id", catalogHandler.GetSubmissionHandler)
		submissions.PUT("/:id", catalogHandler.UpdateSubmissionHandler)
		submissions.DELETE("/:id", catalogHandler.DeleteSubmissionHandler)
		submissions.POST("/:id/promote", catalogHandler.PromoteSubmissionHandler)
	}

	offers := router.Group("/offers")
	{
		offers.GET("", catalogHandler.ListOffersHandler)
		offers.POST("", catalogHandler.CreateOfferHandler)
		offers.GET("/:id", catalogHandler.GetOfferHandler)
		offers.PUT("/:id", catalogHandler.UpdateOfferHandler)
		offers.DELETE("/:id", catalogHandler.DeleteOfferHandler)
	}

	discounts := router.Group("/offers-discounts")
	{
		discounts.GET("", catalogHandler.ListOfferDiscountsHandler)
		discounts.POST("", catalogHandler.CreateOfferDiscountHandler)
		discounts.PUT("/:id", catalogHandler.UpdateOfferDiscountHandler)
		discounts.DELETE("/:id", catalogHandler.DeleteOfferDiscountHandler)
	}

	notifications := router.Group("/notifications")
	{
		notifications.GET("", catalogHandler.ListNotificationsHandler)
		notifications.POST("/:id/read", catalogHandler.MarkNotificationReadHandler)
	}

	return router
}
