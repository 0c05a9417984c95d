package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/filestore"
)

// FileService stores uploads and resolves their public URLs.
type FileService interface {
	// Upload stores the file and returns its public URL.
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, name string) (*filestore.Object, error)
}

type fileService struct {
	store   filestore.Store
	baseURL string
}

// NewFileService creates a file service serving URLs under baseURL + "/uploads/".
func NewFileService(store filestore.Store, publicBaseURL string) FileService {
	return &fileService{store: store, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *fileService) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := filestore.ObjectName(filename)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, name, r, size, contentType); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return s.baseURL + "/uploads/" + name, nil
}

func (s *fileService) Open(ctx context.Context, name string) (*filestore.Object, error) {
	obj, err := s.store.Open(ctx, name)
	if errors.Is(err, filestore.ErrNotFound) {
		return nil, apperrors.ErrFileNotFound
	}
	return obj, err
}
