package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Storage persists binary blobs under relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// Disk stores blobs on the local file system under a base directory.
type Disk struct {
	base string
}

func NewDisk(base string) (*Disk, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory failed: %w", err)
	}
	return &Disk{base: base}, nil
}

func (d *Disk) Save(_ context.Context, path string, content io.Reader) error {
	full := filepath.Join(d.base, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create blob directory failed: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create blob failed: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return fmt.Errorf("write blob failed: %w", err)
	}
	return nil
}

func (d *Disk) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.base, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob failed: %w", err)
	}
	return f, nil
}

func (d *Disk) Delete(_ context.Context, path string) error {
	if err := os.Remove(filepath.Join(d.base, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob failed: %w", err)
	}
	return nil
}
