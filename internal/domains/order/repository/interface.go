package repository

import (
	"context"

	"resursbank-gateway/internal/domains/order/model"
)

// Repository is the order status, note and metadata store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// UpdateStatus sets the status and appends notes atomically.
	UpdateStatus(ctx context.Context, id int64, status string, notes []string) error
	AddNote(ctx context.Context, id int64, content string) error
	ListNotes(ctx context.Context, id int64) ([]model.Note, error)

	// FindOrderIDByMeta returns 0 when no order carries key=value.
	FindOrderIDByMeta(ctx context.Context, key, value string) (int64, error)
	GetMeta(ctx context.Context, id int64, keys []string) (map[string]string, error)
	// SetMeta upserts values; a current reference already held by another order
	// yields model.ErrReferenceInUse.
	SetMeta(ctx context.Context, id int64, values map[string]string) error
}
