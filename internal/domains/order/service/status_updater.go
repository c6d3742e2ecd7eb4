package service

import (
	"context"
	"fmt"
	"strings"

	"resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/order/repository"
	"resursbank-gateway/internal/infrastructure/queue"
	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/logger"
)

const autoDebitedNote = "Resurs Bank: the payment was automatically debited at purchase (not a manual capture)."

// StatusUpdater defers order status transitions to the worker queue and
// applies them idempotently when the task runs.
type StatusUpdater interface {
	// Queue is fire-and-forget: an unavailable queue is logged, never returned.
	Queue(ctx context.Context, update model.StatusUpdate)

	// Apply performs the transition. applied=false means the order already had
	// the target status and nothing was written.
	Apply(ctx context.Context, update model.StatusUpdate) (applied bool, err error)
}

type statusUpdater struct {
	repo  repository.Repository
	queue queue.Enqueuer
}

func NewStatusUpdater(repo repository.Repository, q queue.Enqueuer) StatusUpdater {
	return &statusUpdater{repo: repo, queue: q}
}

func (u *statusUpdater) Queue(ctx context.Context, update model.StatusUpdate) {
	fields := map[string]interface{}{
		"order_id":      update.OrderID,
		"target_status": update.TargetStatus,
		"source":        update.Source,
	}

	if u.queue == nil {
		logger.Warn("status update dropped: queue not configured", fields)
		return
	}

	if err := u.queue.Enqueue(ctx, shared.TypeOrderUpdateStatus, update); err != nil {
		logger.ErrorWithFields("status update dropped: enqueue failed", err, fields)
		return
	}

	logger.Info("status update queued", fields)
}

func (u *statusUpdater) Apply(ctx context.Context, update model.StatusUpdate) (bool, error) {
	order, err := u.repo.GetByID(ctx, update.OrderID)
	if err != nil {
		return false, err
	}

	if strings.EqualFold(order.Status, update.TargetStatus) {
		logger.Info("order already has target status, skipping", map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
			"source":   update.Source,
		})
		return false, nil
	}

	note := update.Note
	if note == "" {
		note = fmt.Sprintf("Resurs Bank: status changed from %s to %s.", order.Status, update.TargetStatus)
	}
	notes := []string{note}
	if update.AutoDebited {
		notes = append(notes, autoDebitedNote)
	}

	if err := u.repo.UpdateStatus(ctx, order.ID, update.TargetStatus, notes); err != nil {
		return false, fmt.Errorf("apply status %s to order %d: %w", update.TargetStatus, order.ID, err)
	}

	logger.Info("order status updated", map[string]interface{}{
		"order_id":     order.ID,
		"from":         order.Status,
		"to":           update.TargetStatus,
		"auto_debited": update.AutoDebited,
		"source":       update.Source,
	})
	return true, nil
}
