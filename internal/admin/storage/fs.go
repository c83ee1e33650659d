package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStorage keeps images on the local filesystem, served under a
// public path prefix by the HTTP layer.
type FSStorage struct {
	dir        string
	publicPath string
}

func NewFSStorage(dir, publicPath string) (*FSStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &FSStorage{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
	}, nil
}

func (s *FSStorage) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := sanitize(filename)
	if name == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.publicPath + "/" + name, nil
}

func (s *FSStorage) Remove(_ context.Context, publicURL string) error {
	name := sanitize(path.Base(publicURL))
	if name == "" {
		return ErrFileNotFound
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return ErrFileNotFound
	}
	return err
}

// Dir returns the directory files are written to, for the static file
// route.
func (s *FSStorage) Dir() string {
	return s.dir
}

// sanitize keeps the base name only, dropping anything that could
// escape the media directory.
func sanitize(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.Contains(name, "..") {
		return ""
	}
	return name
}
