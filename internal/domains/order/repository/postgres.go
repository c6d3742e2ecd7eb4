package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resursbank-gateway/internal/domains/order/model"
	pgdb "resursbank-gateway/internal/infrastructure/database"
	"resursbank-gateway/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, payment_method, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.PaymentMethod,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	return &order, nil
}

// =====================================================
// STATUS & NOTES
// =====================================================

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status string, notes []string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			id, status,
		)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOrderNotFound
		}

		for _, note := range notes {
			if err := insertNote(ctx, tx, id, note); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresRepository) AddNote(ctx context.Context, id int64, content string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return insertNote(ctx, tx, id, content)
	})
}

func insertNote(ctx context.Context, tx pgx.Tx, id int64, content string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO order_notes (order_id, content, created_at) VALUES ($1, $2, NOW())`,
		id, content,
	)
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListNotes(ctx context.Context, id int64) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, content, created_at FROM order_notes WHERE order_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list order notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.OrderID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// =====================================================
// METADATA
// =====================================================

func (r *postgresRepository) FindOrderIDByMeta(ctx context.Context, key, value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	// Newest order wins if a reference was ever reused.
	query := `
		SELECT order_id
		FROM order_meta
		WHERE meta_key = $1 AND meta_value = $2
		ORDER BY order_id DESC
		LIMIT 1
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, key, value).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to search order meta %s: %w", key, err)
	}
	return id, nil
}

func (r *postgresRepository) GetMeta(ctx context.Context, id int64, keys []string) (map[string]string, error) {
	query := `
		SELECT meta_key, meta_value
		FROM order_meta
		WHERE order_id = $1 AND meta_key = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, id, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to read order meta: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan order meta: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

func (r *postgresRepository) SetMeta(ctx context.Context, id int64, values map[string]string) error {
	query := `
		INSERT INTO order_meta (order_id, meta_key, meta_value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (order_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = NOW()
	`

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for k, v := range values {
			if _, err := tx.Exec(ctx, query, id, k, v); err != nil {
				if pgdb.IsUniqueViolation(err) {
					return fmt.Errorf("order meta %s: %w", k, model.ErrReferenceInUse)
				}
				return fmt.Errorf("failed to set order meta %s: %w", k, err)
			}
		}
		return nil
	})
}
