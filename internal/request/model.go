package request

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "request not found")
	ErrDescriptionRequired = apperror.New(apperror.KindValidation, "request description is required")
	ErrInvalidPaging       = apperror.New(apperror.KindValidation, "from must be non-negative and size positive")
)

// Request is a wish for an item nobody has listed yet. Owners reply by
// creating items that reference the request.
type Request struct {
	ID          string // UUID
	RequesterID string
	Description string
	CreatedAt   time.Time
}
