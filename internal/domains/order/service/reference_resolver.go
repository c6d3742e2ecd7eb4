package service

import (
	"context"
	"fmt"

	"resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/order/repository"
	"resursbank-gateway/pkg/logger"
)

// AlternateReferenceLookup asks the remote API which other references a
// payment is known by (e.g. the order reference stored at creation time).
type AlternateReferenceLookup interface {
	AlternateReferences(ctx context.Context, reference string) ([]string, error)
}

// ReferenceResolver maps a payment reference to an order id.
// A miss returns 0 and a nil error.
type ReferenceResolver interface {
	Resolve(ctx context.Context, reference string) (int64, error)
}

type referenceResolver struct {
	repo     repository.Repository
	keys     []string
	fallback AlternateReferenceLookup
}

// NewReferenceResolver searches model.ReferenceKeys in order. fallback may be nil.
func NewReferenceResolver(repo repository.Repository, fallback AlternateReferenceLookup) ReferenceResolver {
	return &referenceResolver{
		repo:     repo,
		keys:     model.ReferenceKeys,
		fallback: fallback,
	}
}

func (r *referenceResolver) Resolve(ctx context.Context, reference string) (int64, error) {
	if reference == "" {
		return 0, nil
	}

	id, err := r.search(ctx, reference)
	if err != nil || id != 0 {
		return id, err
	}

	if r.fallback == nil {
		return 0, nil
	}

	alternates, err := r.fallback.AlternateReferences(ctx, reference)
	if err != nil {
		logger.Warn("alternate reference lookup failed", map[string]interface{}{
			"reference": reference,
			"error":     err.Error(),
		})
		return 0, nil
	}

	for _, alt := range alternates {
		if alt == "" || alt == reference {
			continue
		}
		id, err := r.search(ctx, alt)
		if err != nil {
			return 0, err
		}
		if id != 0 {
			logger.Info("order resolved through alternate reference", map[string]interface{}{
				"reference": reference,
				"alternate": alt,
				"order_id":  id,
			})
			return id, nil
		}
	}

	return 0, nil
}

func (r *referenceResolver) search(ctx context.Context, reference string) (int64, error) {
	for _, key := range r.keys {
		id, err := r.repo.FindOrderIDByMeta(ctx, key, reference)
		if err != nil {
			return 0, fmt.Errorf("resolve reference via %s: %w", key, err)
		}
		if id != 0 {
			return id, nil
		}
	}
	return 0, nil
}
