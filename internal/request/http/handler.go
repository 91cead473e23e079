package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
	"github.com/shareloop/shareloop-backend/internal/pkg/response"
	"github.com/shareloop/shareloop-backend/internal/request"
)

type Handler struct {
	service request.Service
}

func NewHandler(service request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}

	req, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewRequestResponse(req))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid request id"))
		return
	}

	w, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWithItemsResponse(w))
}

func (h *Handler) ListOwn(c *gin.Context) {
	ws, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWithItemsResponses(ws))
}

func (h *Handler) ListOthers(c *gin.Context) {
	var query ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "invalid query parameters"))
		return
	}

	ws, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWithItemsResponses(ws))
}
