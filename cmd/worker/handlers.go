package main

import (
	"github.com/hibiken/asynq"

	callbackJob "resursbank-gateway/internal/domains/callback/job"
	orderJob "resursbank-gateway/internal/domains/order/job"
	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Order handlers
	updateStatus *orderJob.UpdateStatusHandler

	// Callback maintenance handlers
	registerCallbacks *callbackJob.RegisterCallbacksHandler
	rotateSalt        *callbackJob.RotateSaltHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		updateStatus:      orderJob.NewUpdateStatusHandler(c.StatusUpdater),
		registerCallbacks: callbackJob.NewRegisterCallbacksHandler(c.Registrar),
		rotateSalt:        callbackJob.NewRotateSaltHandler(c.DigestValidator),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeOrderUpdateStatus, h.updateStatus.ProcessTask)

	mux.HandleFunc(shared.TypeCallbackRegister, h.registerCallbacks.ProcessTask)
	mux.HandleFunc(shared.TypeCallbackRotateSalt, h.rotateSalt.ProcessTask)
}
