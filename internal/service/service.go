package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/metrics"
	"github.com/mvidal/urlshort/internal/models"
	"github.com/mvidal/urlshort/internal/repository"
)

var (
	// ErrCodeSpaceExhausted means every generated candidate collided. With a
	// ~62^6 code space this signals a near-saturated store or a generator
	// defect, not a routine condition.
	ErrCodeSpaceExhausted = errors.New("failed to generate a unique short code")

	// ErrNotFound is returned by Resolve and Lookup for unknown codes.
	ErrNotFound = repository.ErrNotFound
)

// maxAttempts bounds collision retries per shorten request.
const maxAttempts = 5

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

// CodeGenerator produces short-code candidates.
type CodeGenerator interface {
	Generate() (string, error)
}

// ShortenerService orchestrates code generation, collision retry and
// persistence. It takes validated input; URL validation happens at the HTTP
// boundary.
type ShortenerService struct {
	repo      repository.Repository
	generator CodeGenerator
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewShortenerService(
	repo repository.Repository,
	generator CodeGenerator,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ShortenerService {
	return &ShortenerService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		metrics:   m,
	}
}

// Shorten mints a new mapping for originalURL. Two requests for the same URL
// deliberately produce two distinct mappings: shorten requests are
// independent and codes are unique per code, not per URL.
func (s *ShortenerService) Shorten(ctx context.Context, originalURL string) (models.URLMapping, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := s.generator.Generate()
		if err != nil {
			return models.URLMapping{}, fmt.Errorf("generate candidate: %w", err)
		}

		mapping, err := s.repo.Insert(ctx, originalURL, code)
		if err == nil {
			return mapping, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return models.URLMapping{}, fmt.Errorf("insert mapping: %w", err)
		}

		s.metrics.ShortenCollisions.Inc()
		s.logger.Warn("Short code collision, regenerating",
			zap.String("short_code", code),
			zap.Int("attempt", attempt),
		)
	}

	s.metrics.ShortenExhaustions.Inc()
	s.logger.Error("All short code candidates collided",
		zap.Int("attempts", maxAttempts),
	)

	return models.URLMapping{}, ErrCodeSpaceExhausted
}

// Resolve returns the original URL for a code, verbatim. A structurally
// invalid code short-circuits to ErrNotFound without touching the store.
func (s *ShortenerService) Resolve(ctx context.Context, shortCode string) (string, error) {
	mapping, err := s.Lookup(ctx, shortCode)
	if err != nil {
		return "", err
	}
	return mapping.OriginalURL, nil
}

// Lookup returns the full mapping for a code. Pure read, no mutation.
func (s *ShortenerService) Lookup(ctx context.Context, shortCode string) (models.URLMapping, error) {
	if !codePattern.MatchString(shortCode) {
		return models.URLMapping{}, ErrNotFound
	}

	mapping, err := s.repo.FindByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.URLMapping{}, ErrNotFound
		}
		return models.URLMapping{}, fmt.Errorf("find by code: %w", err)
	}

	return mapping, nil
}

func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
