package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	items := rg.Group("/items", authMiddleware)
	{
		items.POST("/:id/photos", h.Upload)
		items.GET("/:id/photos", h.ListByItem)
	}

	photos := rg.Group("/photos", authMiddleware)
	{
		photos.GET("/:id", h.Download)
		photos.GET("/:id/thumbnail", h.DownloadThumbnail)
		photos.DELETE("/:id", h.Delete)
	}
}
