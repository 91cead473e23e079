package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	requests := rg.Group("/requests", authMiddleware)
	{
		requests.POST("", h.Create)
		requests.GET("", h.ListOwn)
		requests.GET("/all", h.ListOthers)
		requests.GET("/:id", h.Get)
	}
}
