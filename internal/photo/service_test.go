package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/shareloop-backend/internal/clock"
	"github.com/shareloop/shareloop-backend/internal/item"
	"github.com/shareloop/shareloop-backend/internal/pkg/storage"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type memRepo struct {
	photos map[string]*Photo
}

func newMemRepo() *memRepo {
	return &memRepo{photos: map[string]*Photo{}}
}

func (r *memRepo) Create(_ context.Context, p *Photo) error {
	cp := *p
	r.photos[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) ListByItem(_ context.Context, itemID string) ([]*Photo, error) {
	var out []*Photo
	for _, p := range r.photos {
		if p.ItemID == itemID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.photos[id]; !ok {
		return ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

type memItems struct {
	items map[string]*item.Item
}

func (m *memItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

type memBlobs struct {
	blobs map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string][]byte{}}
}

func (b *memBlobs) Save(_ context.Context, path string, content io.Reader) error {
	raw, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	b.blobs[path] = raw
	return nil
}

func (b *memBlobs) Open(_ context.Context, path string) (io.ReadCloser, error) {
	raw, ok := b.blobs[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (b *memBlobs) Delete(_ context.Context, path string) error {
	delete(b.blobs, path)
	return nil
}

func newTestService() (Service, *memRepo, *memBlobs) {
	repo := newMemRepo()
	blobs := newMemBlobs()
	items := &memItems{items: map[string]*item.Item{
		"11111111-1111-1111-1111-111111111111": {
			ID:        "11111111-1111-1111-1111-111111111111",
			OwnerID:   "owner",
			Name:      "Drill",
			Available: true,
		},
	}}
	return NewService(repo, items, blobs, clock.Fixed{Instant: now}), repo, blobs
}

const testItemID = "11111111-1111-1111-1111-111111111111"

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["photo"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestUploadWithThumbnail(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	p, err := svc.Upload(ctx, "owner", testItemID, fileHeader(t, "drill.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, testItemID, p.ItemID)
	assert.Equal(t, "owner", p.UploaderID)
	assert.Equal(t, now, p.CreatedAt)
	require.NotNil(t, p.ThumbnailPath)
	assert.Contains(t, blobs.blobs, p.StoragePath)
	assert.Contains(t, blobs.blobs, *p.ThumbnailPath)

	stream, got, err := svc.Download(ctx, p.ID)
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, "drill.png", got.Filename)

	thumb, _, err := svc.DownloadThumbnail(ctx, p.ID)
	require.NoError(t, err)
	thumb.Close()
}

func TestUploadUndecodableImageSkipsThumbnail(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Upload(context.Background(), "owner", testItemID,
		fileHeader(t, "broken.png", "image/png", []byte("not an image")))
	require.NoError(t, err)
	assert.Nil(t, p.ThumbnailPath)

	_, _, err = svc.DownloadThumbnail(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNoThumbnail)
}

func TestUploadAuthorization(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upload(ctx, "intruder", testItemID, fileHeader(t, "drill.png", "image/png", pngBytes(t)))
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = svc.Upload(ctx, "owner", "22222222-2222-2222-2222-222222222222",
		fileHeader(t, "drill.png", "image/png", pngBytes(t)))
	assert.ErrorIs(t, err, item.ErrNotFound)

	_, err = svc.Upload(ctx, "owner", testItemID, fileHeader(t, "notes.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDeleteRemovesBlobs(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	p, err := svc.Upload(ctx, "owner", testItemID, fileHeader(t, "drill.png", "image/png", pngBytes(t)))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "intruder", p.ID), ErrNotItemOwner)

	require.NoError(t, svc.Delete(ctx, "owner", p.ID))
	assert.NotContains(t, blobs.blobs, p.StoragePath)
	assert.NotContains(t, blobs.blobs, *p.ThumbnailPath)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
