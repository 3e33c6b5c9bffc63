package routes

import (
	"os"

	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/models"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.Logger(config.Logger))
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS(os.Getenv("CORS_ORIGINS")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.Refresh)
	}

	// Public feedback routes (anonymous institution users submit these)
	rating := api.Group("/rating-food")
	{
		rating.GET("", controllers.ListFeedbackRatings)
		rating.GET("/:institution_id", controllers.GetOrderForRating)
		rating.POST("/:institution_id", controllers.SubmitFeedbackRating)
	}

	adminOnly := middlewares.RequireRole(models.RoleDKAdmin, models.RoleSuperAdmin)

	institutions := api.Group("/institutions")
	institutions.Use(middlewares.AuthMiddleware())
	{
		institutions.GET("", controllers.ListInstitutions)
		institutions.POST("", adminOnly, controllers.CreateInstitution)
	}

	orders := api.Group("/orders")
	orders.Use(middlewares.AuthMiddleware())
	{
		orders.GET("", controllers.ListOrders)
		orders.POST("", controllers.CreateOrder)

		// bulk routes before :id so gin does not swallow "bulk" as an id
		orders.POST("/bulk/preview", controllers.PreviewBulkUpload)
		orders.POST("/bulk/submit", adminOnly, controllers.SubmitBulkUpload)
		orders.DELETE("/bulk", adminOnly, controllers.BulkDeleteOrders)
		orders.PUT("/status", adminOnly, controllers.UpdateOrderStatusByBody)

		orders.GET("/:id", controllers.GetOrder)
		orders.PUT("/:id", controllers.UpdateOrder)
		orders.DELETE("/:id", controllers.DeleteOrder)
		orders.POST("/:id/submit", controllers.SubmitOrder)
		orders.PUT("/:id/status", adminOnly, controllers.UpdateOrderStatus)
		orders.GET("/:id/tracker", controllers.GetOrderTracker)
	}

	editRequests := api.Group("/edit-requests")
	editRequests.Use(middlewares.AuthMiddleware())
	{
		editRequests.GET("", controllers.ListEditRequests)
		editRequests.POST("", controllers.CreateEditRequest)
		editRequests.GET("/pending", adminOnly, controllers.ListPendingEditRequests)
		editRequests.POST("/:id/approve", adminOnly, controllers.ApproveEditRequest)
		editRequests.POST("/:id/reject", adminOnly, controllers.RejectEditRequest)
		editRequests.POST("/:id/accept-with-note", adminOnly, controllers.AcceptEditRequestWithNote)
	}

	return r
}
