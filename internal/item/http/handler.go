package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/item"
	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
	"github.com/shareloop/shareloop-backend/internal/pkg/response"
)

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}

	it, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), item.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var body UpdateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}

	it, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), id, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDetailsResponse(d))
}

func (h *Handler) ListMine(c *gin.Context) {
	var query ListItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid query parameters"))
		return
	}
	if query.From < 0 || query.Size < 1 {
		response.Error(c, apperror.New(apperror.KindValidation, "from must be non-negative and size positive"))
		return
	}

	details, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemResponse, 0, len(details))
	for _, d := range details {
		out = append(out, NewDetailsResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var body CreateCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}

	cm, err := h.service.AddComment(c.Request.Context(), auth.GetUserID(c), id, body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewCommentResponse(cm))
}

func itemID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid item id"))
		return "", false
	}
	return id, true
}
