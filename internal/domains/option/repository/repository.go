package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resursbank-gateway/internal/domains/option/model"
)

// Repository is the plugin-wide options store.
type Repository interface {
	// Get returns nil, nil when the option does not exist.
	Get(ctx context.Context, key string) (*model.Option, error)
	// Set writes value stamped with at (callers pass their clock so salt age stays testable).
	Set(ctx context.Context, key, value string, at time.Time) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Get(ctx context.Context, key string) (*model.Option, error) {
	var opt model.Option
	err := r.pool.QueryRow(ctx,
		`SELECT option_key, option_value, updated_at FROM options WHERE option_key = $1`,
		key,
	).Scan(&opt.Key, &opt.Value, &opt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read option %s: %w", key, err)
	}
	return &opt, nil
}

func (r *postgresRepository) Set(ctx context.Context, key, value string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO options (option_key, option_value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (option_key)
		DO UPDATE SET option_value = EXCLUDED.option_value, updated_at = EXCLUDED.updated_at
	`, key, value, at)
	if err != nil {
		return fmt.Errorf("failed to write option %s: %w", key, err)
	}
	return nil
}
