package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/config"
	"github.com/mkraemer/craftmarket/internal/handlers"
	"github.com/mkraemer/craftmarket/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	SetupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	r.Static("/uploads", "./uploads")

	public := r.Group("/api")
	{
		public.POST("/registration", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/base-info", handlers.GetBaseInfo)
		public.GET("/offers", handlers.ListOffers)
	}

	protected := r.Group("/api")
	protected.Use(middleware.TokenAuthMiddleware())
	{
		profileProtected := protected.Group("/profile")
		{
			profileProtected.GET("/:user_id", handlers.GetProfile)
			profileProtected.PATCH("/:user_id", handlers.UpdateProfile)
		}
		protected.GET("/profiles/business", handlers.ListBusinessProfiles)
		protected.GET("/profiles/customer", handlers.ListCustomerProfiles)

		offerProtected := protected.Group("/offers")
		{
			offerProtected.POST("", handlers.CreateOffer)
			offerProtected.GET("/:id", handlers.GetOffer)
			offerProtected.PATCH("/:id", handlers.UpdateOffer)
			offerProtected.DELETE("/:id", handlers.DeleteOffer)
		}
		protected.GET("/offerdetails/:id", handlers.GetOfferDetail)

		orderProtected := protected.Group("/orders")
		{
			orderProtected.GET("", handlers.ListOrders)
			orderProtected.POST("", handlers.CreateOrder)
			orderProtected.GET("/:id", handlers.GetOrder)
			orderProtected.PATCH("/:id", handlers.UpdateOrderStatus)
			orderProtected.DELETE("/:id", handlers.DeleteOrder)
		}
		protected.GET("/order-count/:business_user_id", handlers.GetOrderCount)
		protected.GET("/completed-order-count/:business_user_id", handlers.GetCompletedOrderCount)

		reviewProtected := protected.Group("/reviews")
		{
			reviewProtected.GET("", handlers.ListReviews)
			reviewProtected.POST("", handlers.CreateReview)
			reviewProtected.GET("/:id", handlers.GetReview)
			reviewProtected.PATCH("/:id", handlers.UpdateReview)
			reviewProtected.DELETE("/:id", handlers.DeleteReview)
		}
	}
}
