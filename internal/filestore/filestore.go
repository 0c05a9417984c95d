// Package filestore keeps uploaded files in a local directory or a MinIO bucket.
package filestore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "swarmfeedback/internal/errors"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Object is an opened stored file. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store persists uploads under flat object names.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
}

// ObjectName derives the stored name for an uploaded file: a random prefix
// joined to the base of the client supplied name.
func ObjectName(original string) (string, error) {
	if strings.Contains(original, "..") {
		return "", apperrors.ErrInvalidFileName
	}
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(original, "\\", "/")))
	if base == "/" || base == "." {
		base = "file"
	}
	return uuid.NewString() + "_" + base, nil
}

// ValidName reports whether name is safe to look up as a flat object name.
func ValidName(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.ContainsAny(name, "/\\")
}
