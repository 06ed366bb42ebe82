package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/warbler-app/api-go/controllers"
)

func SetupMessageRoutes(protected *gin.RouterGroup, messageController *controllers.MessageController) {
	messages := protected.Group("/messages")
	{
		messages.POST("", messageController.CreateMessage)
		messages.GET("/:id", messageController.GetMessage)
		messages.DELETE("/:id", messageController.DeleteMessage)
	}

	users := protected.Group("/users")
	{
		users.GET("/:userId/messages", messageController.GetUserMessages)
		users.GET("/:userId/liked-messages", messageController.GetLikedMessages)
	}
}
