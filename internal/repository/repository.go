package repository

import (
	"context"
	"errors"

	"github.com/mvidal/urlshort/internal/models"
)

var (
	// ErrDuplicateCode is returned by Insert when the short code already
	// exists. Expected under concurrency; callers regenerate and retry.
	ErrDuplicateCode = errors.New("short code already exists")

	// ErrNotFound is returned by FindByCode when no mapping has the given
	// code.
	ErrNotFound = errors.New("short code not found")
)

// Repository is the durable short_code -> original_url mapping. Uniqueness of
// short codes is enforced by the store itself: two concurrent inserts racing
// on the same code yield exactly one success and one ErrDuplicateCode.
type Repository interface {
	// Insert persists a new mapping and returns it with the store-assigned
	// id and timestamps. The insert is atomic with respect to the
	// uniqueness constraint.
	Insert(ctx context.Context, originalURL, shortCode string) (models.URLMapping, error)

	// FindByCode returns the mapping with the exact, case-sensitive code.
	FindByCode(ctx context.Context, shortCode string) (models.URLMapping, error)

	Ping(ctx context.Context) error
	Close() error
}
