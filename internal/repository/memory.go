package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/urlshort/internal/models"
)

// MemoryRepository keeps mappings in a mutex-guarded map. It honors the same
// contract as PostgresRepository, including atomic insert-or-fail on
// duplicate codes, and backs the service when no database is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]models.URLMapping
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[string]models.URLMapping),
	}
}

func (m *MemoryRepository) Insert(_ context.Context, originalURL, shortCode string) (models.URLMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[shortCode]; exists {
		return models.URLMapping{}, ErrDuplicateCode
	}

	now := time.Now().UTC()
	mapping := models.URLMapping{
		ID:          uuid.New().String(),
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.data[shortCode] = mapping

	return mapping, nil
}

func (m *MemoryRepository) FindByCode(_ context.Context, shortCode string) (models.URLMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, exists := m.data[shortCode]
	if !exists {
		return models.URLMapping{}, ErrNotFound
	}

	return mapping, nil
}

// Len reports the number of stored mappings.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
