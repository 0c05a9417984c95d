package service

import (
	"context"
	"errors"
	"time"

	"swarmfeedback/internal/repository"
)

// Cache is the fail-safe key/value cache used for read-through lookups.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// notFound replaces repository.ErrNotFound with the domain error for the entity.
func notFound(err error, domainErr error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domainErr
	}
	return err
}
