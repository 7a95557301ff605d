package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewApi registers the image CRUD routes. Every /api/images route runs
// behind the supplied auth middleware.
func NewApi(router *gin.Engine, images *ImagesHandler, auth gin.HandlerFunc) {
	imagesV1 := router.Group("/api/images", auth)
	{
		imagesV1.POST("", images.CreateImage)
		imagesV1.GET("", images.GetImages)
		imagesV1.GET("/:id", images.GetImageByID)
		imagesV1.PUT("/:id", images.UpdateImage)
		imagesV1.DELETE("/:id", images.DeleteImage)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
