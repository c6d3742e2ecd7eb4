package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/domains/callback/service"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/internal/shared/utils"
	"resursbank-gateway/pkg/logger"
)

// RegisterCallbacksHandler pushes the callback URLs and current salt to the provider.
type RegisterCallbacksHandler struct {
	registrar service.Registrar
}

func NewRegisterCallbacksHandler(registrar service.Registrar) *RegisterCallbacksHandler {
	return &RegisterCallbacksHandler{registrar: registrar}
}

func (h *RegisterCallbacksHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.RegisterPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("registering callbacks", map[string]interface{}{"reason": payload.Reason})

	_, err := h.registrar.RegisterAll(ctx)
	if errors.Is(err, paymentModel.ErrCredentialsNotConfigured) {
		logger.Warn("callback registration skipped: credentials not configured", nil)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}
