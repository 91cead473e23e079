package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shareloop/shareloop-backend/internal/clock"
	"github.com/shareloop/shareloop-backend/internal/item"
	"github.com/shareloop/shareloop-backend/internal/pkg/storage"
)

const (
	thumbnailWidth  = 200
	thumbnailHeight = 200
)

// ItemGetter resolves the item a photo belongs to, for ownership checks.
type ItemGetter interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// Service defines business logic related to item photos.
type Service interface {
	// Upload attaches an image to an item. Only the item owner may upload.
	Upload(ctx context.Context, actorID, itemID string, header *multipart.FileHeader) (*Photo, error)

	Get(ctx context.Context, id string) (*Photo, error)
	ListByItem(ctx context.Context, itemID string) ([]*Photo, error)

	// Download streams the original image.
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)

	// DownloadThumbnail streams the JPEG thumbnail.
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)

	// Delete removes the photo and its blobs. Only the item owner may delete.
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	repo  Repository
	items ItemGetter
	blobs storage.Storage
	clk   clock.Clock
}

func NewService(repo Repository, items ItemGetter, blobs storage.Storage, clk clock.Clock) Service {
	return &service{repo: repo, items: items, blobs: blobs, clk: clk}
}

func (s *service) Upload(ctx context.Context, actorID, itemID string, header *multipart.FileHeader) (*Photo, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrNotItemOwner
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffered so the content can be read twice: once for the original blob
	// and once for the thumbnail.
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}

	id := uuid.New().String()
	shard := id[:2]
	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := fmt.Sprintf("photos/%s/%s%s", shard, id, ext)

	if err := s.blobs.Save(ctx, storagePath, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("save photo blob failed: %w", err)
	}

	// Thumbnail failure never fails the upload.
	var thumbnailPath *string
	if thumb, err := storage.Thumbnail(bytes.NewReader(raw), thumbnailWidth, thumbnailHeight); err != nil {
		logrus.WithError(err).WithField("photo_id", id).Warn("thumbnail generation failed")
	} else {
		tp := fmt.Sprintf("photos/%s/%s_thumb.jpg", shard, id)
		if err := s.blobs.Save(ctx, tp, thumb); err != nil {
			logrus.WithError(err).WithField("photo_id", id).Warn("thumbnail save failed")
		} else {
			thumbnailPath = &tp
		}
	}

	p := &Photo{
		ID:            id,
		ItemID:        itemID,
		UploaderID:    actorID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     s.clk.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.blobs.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.blobs.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Photo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Photo, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListByItem(ctx, itemID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.blobs.Open(ctx, p.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open photo blob failed: %w", err)
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.blobs.Open(ctx, *p.ThumbnailPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNoThumbnail
		}
		return nil, nil, fmt.Errorf("open thumbnail blob failed: %w", err)
	}
	return stream, p, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	it, err := s.items.GetByID(ctx, p.ItemID)
	if err != nil {
		return err
	}
	if it.OwnerID != actorID {
		return ErrNotItemOwner
	}

	if err := s.blobs.Delete(ctx, p.StoragePath); err != nil {
		logrus.WithError(err).WithField("photo_id", id).Warn("photo blob cleanup failed")
	}
	if p.ThumbnailPath != nil {
		_ = s.blobs.Delete(ctx, *p.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}
