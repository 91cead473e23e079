package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/photo"
	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
	"github.com/shareloop/shareloop-backend/internal/pkg/response"
)

type Handler struct {
	service photo.Service
}

func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Upload(c *gin.Context) {
	itemID, ok := pathID(c, "invalid item id")
	if !ok {
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, "photo file is required"))
		return
	}

	p, err := h.service.Upload(c.Request.Context(), auth.GetUserID(c), itemID, header)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

func (h *Handler) ListByItem(c *gin.Context) {
	itemID, ok := pathID(c, "invalid item id")
	if !ok {
		return
	}

	photos, err := h.service.ListByItem(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPhotoResponses(photos))
}

func (h *Handler) Download(c *gin.Context) {
	id, ok := pathID(c, "invalid photo id")
	if !ok {
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Disposition", `inline; filename="`+p.Filename+`"`)
	c.Header("Content-Type", p.ContentType)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		logrus.WithError(err).Warn("photo stream interrupted")
	}
}

func (h *Handler) DownloadThumbnail(c *gin.Context) {
	id, ok := pathID(c, "invalid photo id")
	if !ok {
		return
	}

	stream, _, err := h.service.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	if _, err := io.Copy(c.Writer, stream); err != nil {
		logrus.WithError(err).Warn("thumbnail stream interrupted")
	}
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid photo id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, message string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.New(apperror.KindValidation, message))
		return "", false
	}
	return id, true
}
