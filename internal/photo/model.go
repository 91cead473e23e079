package photo

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(apperror.KindNotFound, "photo not found")
	ErrNotImage     = apperror.New(apperror.KindValidation, "uploaded file must be an image")
	ErrNoThumbnail  = apperror.New(apperror.KindNotFound, "no thumbnail for this photo")
	ErrNotItemOwner = apperror.New(apperror.KindForbidden, "only the item owner can manage its photos")
)

// Photo is an image attached to an item listing.
type Photo struct {
	ID            string
	ItemID        string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

func URL(id string) string {
	return "/photos/" + id
}

func ThumbnailURL(id string) string {
	return "/photos/" + id + "/thumbnail"
}
