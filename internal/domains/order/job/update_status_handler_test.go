package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/shared"
)

type stubUpdater struct {
	got model.StatusUpdate
	err error
}

func (s *stubUpdater) Queue(context.Context, model.StatusUpdate) {}

func (s *stubUpdater) Apply(_ context.Context, u model.StatusUpdate) (bool, error) {
	s.got = u
	return s.err == nil, s.err
}

func task(t *testing.T, payload interface{}) *asynq.Task {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeOrderUpdateStatus, data)
}

func TestProcessTask_AppliesPayload(t *testing.T) {
	stub := &stubUpdater{}
	h := NewUpdateStatusHandler(stub)

	err := h.ProcessTask(context.Background(), task(t, model.StatusUpdate{OrderID: 4, TargetStatus: "completed", AutoDebited: true}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stub.got.OrderID)
	assert.True(t, stub.got.AutoDebited)
}

func TestProcessTask_SkipsRetryForBadInput(t *testing.T) {
	h := NewUpdateStatusHandler(&stubUpdater{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeOrderUpdateStatus, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), task(t, model.StatusUpdate{OrderID: 0, TargetStatus: "completed"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	h = NewUpdateStatusHandler(&stubUpdater{err: model.ErrOrderNotFound})
	err = h.ProcessTask(context.Background(), task(t, model.StatusUpdate{OrderID: 9, TargetStatus: "completed"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTask_TransientErrorIsRetried(t *testing.T) {
	transient := errors.New("db down")
	h := NewUpdateStatusHandler(&stubUpdater{err: transient})

	err := h.ProcessTask(context.Background(), task(t, model.StatusUpdate{OrderID: 9, TargetStatus: "completed"}))
	assert.ErrorIs(t, err, transient)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
