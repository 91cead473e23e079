package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users", authMiddleware)
	{
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/me", h.UpdateMe)
		users.DELETE("/me", h.DeleteMe)
	}
}
