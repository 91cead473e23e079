package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response. The status code comes from the error's
// kind; unknown errors are logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
		c.JSON(appErr.Kind.HTTPStatus(), ErrorResponse{Error: appErr.Message})
		return
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	c.JSON(apperror.KindInternal.HTTPStatus(), ErrorResponse{Error: "internal server error"})
}
