package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mvidal/urlshort/internal/models"
)

const connectTimeout = 10 * time.Second

// PostgresRepository stores mappings in the urls table. The unique index on
// short_code is the single source of truth for code uniqueness.
type PostgresRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver,
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (p *PostgresRepository) Insert(ctx context.Context, originalURL, shortCode string) (models.URLMapping, error) {
	query, args, err := p.sb.
		Insert("urls").
		Columns("original_url", "short_code").
		Values(originalURL, shortCode).
		Suffix("RETURNING id::text, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.URLMapping{}, fmt.Errorf("build query: %w", err)
	}

	mapping := models.URLMapping{
		OriginalURL: originalURL,
		ShortCode:   shortCode,
	}

	err = p.pool.QueryRow(ctx, query, args...).
		Scan(&mapping.ID, &mapping.CreatedAt, &mapping.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.URLMapping{}, ErrDuplicateCode
		}
		return models.URLMapping{}, fmt.Errorf("execute insert: %w", err)
	}

	return mapping, nil
}

func (p *PostgresRepository) FindByCode(ctx context.Context, shortCode string) (models.URLMapping, error) {
	query, args, err := p.sb.
		Select("id::text", "original_url", "short_code", "created_at", "updated_at").
		From("urls").
		Where(squirrel.Eq{"short_code": shortCode}).
		ToSql()
	if err != nil {
		return models.URLMapping{}, fmt.Errorf("build query: %w", err)
	}

	var mapping models.URLMapping
	err = p.pool.QueryRow(ctx, query, args...).Scan(
		&mapping.ID,
		&mapping.OriginalURL,
		&mapping.ShortCode,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.URLMapping{}, ErrNotFound
		}
		return models.URLMapping{}, fmt.Errorf("query row: %w", err)
	}

	return mapping, nil
}

func (p *PostgresRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresRepository) Close() error {
	p.pool.Close()
	return nil
}
