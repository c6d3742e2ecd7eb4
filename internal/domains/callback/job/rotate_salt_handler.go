package job

import (
	"context"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/domains/callback/service"
)

// RotateSaltHandler refreshes an expired salt ahead of the next callback.
// Rotation itself (and the re-registration it triggers) lives in the validator.
type RotateSaltHandler struct {
	digest service.DigestValidator
}

func NewRotateSaltHandler(digest service.DigestValidator) *RotateSaltHandler {
	return &RotateSaltHandler{digest: digest}
}

func (h *RotateSaltHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	_, err := h.digest.CurrentSalt(ctx)
	return err
}
