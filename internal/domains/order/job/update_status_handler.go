package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/order/service"
	"resursbank-gateway/internal/shared/utils"
	"resursbank-gateway/pkg/logger"
)

type UpdateStatusHandler struct {
	updater service.StatusUpdater
}

func NewUpdateStatusHandler(updater service.StatusUpdater) *UpdateStatusHandler {
	return &UpdateStatusHandler{updater: updater}
}

func (h *UpdateStatusHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.StatusUpdate
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	if payload.OrderID <= 0 || payload.TargetStatus == "" {
		return fmt.Errorf("invalid status update payload: %w", asynq.SkipRetry)
	}

	_, err := h.updater.Apply(ctx, payload)
	if errors.Is(err, model.ErrOrderNotFound) {
		logger.Warn("status update for unknown order discarded", map[string]interface{}{
			"order_id": payload.OrderID,
		})
		return fmt.Errorf("order %d: %w", payload.OrderID, asynq.SkipRetry)
	}
	return err
}
