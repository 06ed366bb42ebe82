package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/warbler-app/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController) {
	users := protected.Group("/users")
	{
		users.GET("", userController.ListUsers)
		users.GET("/:userId", userController.GetUserProfile)
	}
}
