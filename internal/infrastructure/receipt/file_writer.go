package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/Zhima-Mochi/marketplace-console/internal/domain/receipt"
)

const (
	DefaultDir = "checks"
	fileSuffix = "_receipt.txt"
)

// FileWriter appends receipts to one plain-text file per customer under Dir.
// Files are keyed by customer id, so customer names never reach the filesystem.
type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) *FileWriter {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileWriter{dir: dir}
}

// PathFor returns the file a customer's receipts are appended to.
func (w *FileWriter) PathFor(customerID int) string {
	return filepath.Join(w.dir, fmt.Sprintf("customer-%d%s", customerID, fileSuffix))
}

func (w *FileWriter) Write(ctx context.Context, r domain.Receipt) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir: %w", domain.ErrWriteFailed, err)
	}

	path = w.PathFor(r.CustomerID)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: open: %w", domain.ErrWriteFailed, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			path, err = "", fmt.Errorf("%w: close: %w", domain.ErrWriteFailed, closeErr)
		}
	}()

	if _, err := f.WriteString(r.Render()); err != nil {
		return "", fmt.Errorf("%w: append: %w", domain.ErrWriteFailed, err)
	}
	return path, nil
}
