package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
	"github.com/shareloop/shareloop-backend/internal/pkg/response"
	"github.com/shareloop/shareloop-backend/internal/user"
)

type Handler struct {
	service user.Service
}

func NewHandler(service user.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid user id"))
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

func (h *Handler) List(c *gin.Context) {
	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid query parameters"))
		return
	}

	users, total, err := h.service.List(c.Request.Context(), user.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	from := (query.Page - 1) * query.PageSize
	c.JSON(http.StatusOK, response.NewPageResponse(NewUserResponses(users), from, query.PageSize, total))
}

// UpdateMe updates the caller's own profile. Blank fields are ignored.
func (h *Handler) UpdateMe(c *gin.Context) {
	var body UpdateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}

	u, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), user.UpdateRequest{
		Name:  body.Name,
		Email: body.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

// DeleteMe deactivates the caller's account.
func (h *Handler) DeleteMe(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
