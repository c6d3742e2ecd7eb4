package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resursbank-gateway/internal/domains/admin/model"
	"resursbank-gateway/internal/domains/admin/service"
	paymentHandler "resursbank-gateway/internal/domains/payment/handler"
	"resursbank-gateway/internal/shared"
	"resursbank-gateway/internal/shared/response"
	"resursbank-gateway/pkg/logger"
)

type AdminHandler struct {
	dispatcher *service.Dispatcher
}

func NewAdminHandler(dispatcher *service.Dispatcher) *AdminHandler {
	return &AdminHandler{dispatcher: dispatcher}
}

// ListCommands returns the available commands
// GET /api/v1/admin/commands
func (h *AdminHandler) ListCommands(c *gin.Context) {
	response.Success(c, http.StatusOK, h.dispatcher.Commands())
}

// RunCommand executes one admin command with optional JSON object arguments
// POST /api/v1/admin/commands/:command
func (h *AdminHandler) RunCommand(c *gin.Context) {
	var args model.Args
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "arguments must be a JSON object of strings")
		return
	}

	name := c.Param("command")
	result, err := h.dispatcher.Dispatch(c.Request.Context(), name, args)
	if err != nil {
		if errors.Is(err, model.ErrUnknownCommand) {
			response.ErrorWithDetails(c, http.StatusNotFound, "UNKNOWN_COMMAND", err.Error(), gin.H{
				"available": h.dispatcher.Commands(),
			})
			return
		}

		status, code := paymentHandler.MapPaymentError(err)
		logger.ErrorWithFields("admin command failed", err, map[string]interface{}{
			"command": name,
			"subject": c.GetString(shared.ContextSubject),
		})
		response.ErrorResponse(c, status, code, err.Error())
		return
	}

	logger.Info("admin command executed", map[string]interface{}{
		"command": name,
		"subject": c.GetString(shared.ContextSubject),
	})
	response.Success(c, http.StatusOK, result)
}
