package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/warbler-app/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := protected.Group("/upload")
	{
		upload.POST("/image", uploadController.GetImageUploadURL)
		upload.POST("/image/confirm", uploadController.ConfirmImageUpload)
		upload.DELETE("/image/temp/*tempKey", uploadController.CleanupTempImage)
	}
}
