package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("stored file not found")

// ImageStorage stores uploaded product images and serves them back by
// public URL. The hosted object bucket is an external collaborator;
// this interface is the boundary to it.
type ImageStorage interface {
	// Save writes the file and returns the public URL it is served from.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Remove deletes the file behind a previously returned URL.
	Remove(ctx context.Context, publicURL string) error
}
