package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/controllers"
	"github.com/warbler-app/api-go/middleware"
	"github.com/warbler-app/api-go/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, metrics *middleware.Metrics) {
	userService := services.NewUserService(db)
	followService := services.NewFollowService(db)
	messageService := services.NewMessageService(db)
	likeService := services.NewLikeService(db)

	authController := controllers.NewAuthController(db, userService, metrics)
	userController := controllers.NewUserController(db, userService, followService, likeService)
	messageController := controllers.NewMessageController(db, messageService, likeService, metrics)
	interactionController := controllers.NewInteractionController(db, followService, likeService, metrics)
	feedController := controllers.NewFeedController(db, messageService, likeService)
	uploadController := controllers.NewUploadController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/register/check-username", authController.RegisterUsernameCheck)
		public.POST("/register/check-email", authController.RegisterEmailCheck)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
		public.POST("/refresh-token", authController.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)
		protected.DELETE("/profile", authController.DeleteAccount)

		SetupUserRoutes(protected, userController)
		SetupMessageRoutes(protected, messageController)
		SetupInteractionRoutes(protected, interactionController)
		SetupFeedRoutes(protected, feedController)
		SetupUploadRoutes(protected, uploadController)
	}
}
