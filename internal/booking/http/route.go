package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListForBooker)
		group.GET("/owner", h.ListForOwner)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Decide)
	}
}
