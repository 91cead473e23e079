package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	items := rg.Group("/items", authMiddleware)
	{
		items.POST("", h.Create)
		items.GET("", h.ListMine)
		items.GET("/:id", h.Get)
		items.PATCH("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.POST("/:id/comments", h.AddComment)
	}
}
