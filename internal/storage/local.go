// Package storage keeps request attachments on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/frahmantamala/academic-requests/internal"
)

// RequestFilesDir is the sub directory attachments are written to. Stored
// paths are relative to the storage root, e.g. "request_files/<uuid>.pdf".
const RequestFilesDir = "request_files"

type LocalStorage struct {
	basePath string
	logger   *slog.Logger
}

func NewLocalStorage(basePath string, logger *slog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, RequestFilesDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath, logger: logger}, nil
}

// Root is the directory served under the upload base URL.
func (ls *LocalStorage) Root() string {
	return ls.basePath
}

// Save writes content under a fresh unique name that keeps the original
// extension and returns the stored relative path.
func (ls *LocalStorage) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	rel := path.Join(RequestFilesDir, name)
	dst := filepath.Join(ls.basePath, RequestFilesDir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", internal.NewInternalError("failed to create attachment", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", internal.NewInternalError("failed to write attachment", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", internal.NewInternalError("failed to write attachment", err)
	}

	ls.logger.InfoContext(ctx, "attachment stored", "original", filename, "path", rel)
	return rel, nil
}

// Remove deletes a stored attachment. Missing files are not an error.
func (ls *LocalStorage) Remove(ctx context.Context, stored string) error {
	name := path.Base(stored)
	if name == "" || name == "." || name == "/" || name == RequestFilesDir {
		return fmt.Errorf("invalid attachment path: %s", stored)
	}

	err := os.Remove(filepath.Join(ls.basePath, RequestFilesDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	ls.logger.InfoContext(ctx, "attachment removed", "path", stored)
	return nil
}
