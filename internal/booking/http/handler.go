package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/booking"
	"github.com/shareloop/shareloop-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/bookings.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		RequesterID: auth.GetUserID(c),
		ItemID:      body.ItemID,
		Start:       body.Start,
		End:         body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide handles PATCH /v1/bookings/:id?approved=true|false.
func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
		return
	}

	b, err := h.service.Decide(c.Request.Context(), auth.GetUserID(c), id, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Get handles GET /v1/bookings/:id.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.GetForViewer(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListForBooker handles GET /v1/bookings.
func (h *Handler) ListForBooker(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListForOwner handles GET /v1/bookings/owner.
func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFunc func(ctx context.Context, actorID, state string, from, size int) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, fn listFunc) {
	var query ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	bookings, err := fn(c.Request.Context(), auth.GetUserID(c), query.State, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponses(bookings))
}
