package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/generator"
	"github.com/mvidal/urlshort/internal/metrics"
	"github.com/mvidal/urlshort/internal/models"
	"github.com/mvidal/urlshort/internal/repository"
)

func newTestService(t *testing.T, repo repository.Repository, gen CodeGenerator) *ShortenerService {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewShortenerService(repo, gen, zap.NewNop(), m)
}

// scriptedGenerator returns a fixed sequence of codes, then repeats the last
// one.
type scriptedGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *scriptedGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next < len(g.codes)-1 {
		g.next++
		return g.codes[g.next-1], nil
	}
	return g.codes[len(g.codes)-1], nil
}

// countingRepository records FindByCode calls on top of a MemoryRepository.
type countingRepository struct {
	*repository.MemoryRepository
	finds int
}

func (r *countingRepository) FindByCode(ctx context.Context, code string) (models.URLMapping, error) {
	r.finds++
	return r.MemoryRepository.FindByCode(ctx, code)
}

// brokenRepository simulates an unavailable store.
type brokenRepository struct {
	repository.Repository
	err error
}

func (r *brokenRepository) Insert(context.Context, string, string) (models.URLMapping, error) {
	return models.URLMapping{}, r.err
}

func (r *brokenRepository) FindByCode(context.Context, string) (models.URLMapping, error) {
	return models.URLMapping{}, r.err
}

func TestShorten(t *testing.T) {
	ctx := context.Background()

	t.Run("code shape", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRepository(), generator.New())

		mapping, err := svc.Shorten(ctx, "https://example.com/page")
		require.NoError(t, err)

		assert.Regexp(t, `^[a-zA-Z0-9]{6}$`, mapping.ShortCode)
		assert.Equal(t, "https://example.com/page", mapping.OriginalURL)
		assert.NotEmpty(t, mapping.ID)
		assert.False(t, mapping.CreatedAt.IsZero())
	})

	t.Run("same URL twice yields distinct codes", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRepository(), generator.New())

		first, err := svc.Shorten(ctx, "https://example.com/same")
		require.NoError(t, err)
		second, err := svc.Shorten(ctx, "https://example.com/same")
		require.NoError(t, err)

		assert.NotEqual(t, first.ShortCode, second.ShortCode)

		for _, mapping := range []models.URLMapping{first, second} {
			resolved, err := svc.Resolve(ctx, mapping.ShortCode)
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/same", resolved)
		}
	})

	t.Run("collision triggers regeneration", func(t *testing.T) {
		repo := repository.NewMemoryRepository()
		_, err := repo.Insert(ctx, "https://example.com/existing", "taken1")
		require.NoError(t, err)

		gen := &scriptedGenerator{codes: []string{"taken1", "fresh1"}}
		svc := newTestService(t, repo, gen)

		mapping, err := svc.Shorten(ctx, "https://example.com/new")
		require.NoError(t, err)
		assert.Equal(t, "fresh1", mapping.ShortCode)
	})

	t.Run("exhausted retries surface as anomaly", func(t *testing.T) {
		repo := repository.NewMemoryRepository()
		_, err := repo.Insert(ctx, "https://example.com/existing", "stuck1")
		require.NoError(t, err)

		gen := &scriptedGenerator{codes: []string{"stuck1"}}
		svc := newTestService(t, repo, gen)

		_, err = svc.Shorten(ctx, "https://example.com/new")
		assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	})

	t.Run("store failure is not retried", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		repo := &brokenRepository{err: storeErr}
		gen := &scriptedGenerator{codes: []string{"any000"}}
		svc := newTestService(t, repo, gen)

		_, err := svc.Shorten(ctx, "https://example.com/page")
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("100 concurrent shortens all unique", func(t *testing.T) {
		repo := repository.NewMemoryRepository()
		svc := newTestService(t, repo, generator.New())

		const requests = 100
		results := make(chan models.URLMapping, requests)
		errs := make(chan error, requests)

		var wg sync.WaitGroup
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				mapping, err := svc.Shorten(ctx, "https://example.com/concurrent")
				if err != nil {
					errs <- err
					return
				}
				results <- mapping
			}()
		}
		wg.Wait()
		close(results)
		close(errs)

		for err := range errs {
			t.Errorf("concurrent shorten failed: %v", err)
		}

		codes := make(map[string]bool)
		for mapping := range results {
			assert.False(t, codes[mapping.ShortCode],
				"duplicate code %q issued", mapping.ShortCode)
			codes[mapping.ShortCode] = true
		}

		assert.Len(t, codes, requests)
		assert.Equal(t, requests, repo.Len())
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip preserves the URL verbatim", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRepository(), generator.New())

		const original = "https://example.com/a/b?c=1#d"
		mapping, err := svc.Shorten(ctx, original)
		require.NoError(t, err)

		resolved, err := svc.Resolve(ctx, mapping.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, original, resolved)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRepository(), generator.New())

		_, err := svc.Resolve(ctx, "zzzzz9")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("case differences do not match", func(t *testing.T) {
		repo := repository.NewMemoryRepository()
		_, err := repo.Insert(ctx, "https://example.com/case", "AbCdEf")
		require.NoError(t, err)

		svc := newTestService(t, repo, generator.New())

		_, err = svc.Resolve(ctx, "abcdef")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed code skips the store", func(t *testing.T) {
		repo := &countingRepository{MemoryRepository: repository.NewMemoryRepository()}
		svc := newTestService(t, repo, generator.New())

		for _, code := range []string{"", "abc", "toolong1", "ab!cd5"} {
			_, err := svc.Resolve(ctx, code)
			assert.ErrorIs(t, err, ErrNotFound)
		}

		assert.Zero(t, repo.finds)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		svc := newTestService(t, &brokenRepository{err: storeErr}, generator.New())

		_, err := svc.Resolve(ctx, "abc123")
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, repository.NewMemoryRepository(), generator.New())

	mapping, err := svc.Shorten(ctx, "https://example.com/details")
	require.NoError(t, err)

	found, err := svc.Lookup(ctx, mapping.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, mapping, found)
}
