package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/internal/domains/payment/service"
	"resursbank-gateway/internal/shared/response"
	"resursbank-gateway/pkg/logger"
)

type PaymentHandler struct {
	paymentService service.Service
	returnService  service.ReturnService
}

func NewPaymentHandler(paymentService service.Service, returnService service.ReturnService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		returnService:  returnService,
	}
}

// =====================================================
// CHECKOUT ENDPOINTS
// =====================================================

// LinkPayment stores a newly created remote payment on its order
// POST /api/v1/payments/link
func (h *PaymentHandler) LinkPayment(c *gin.Context) {
	var req service.LinkRequest
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	result, err := h.paymentService.LinkPayment(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "link payment failed", err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// CustomerReturn reconciles an order when the customer is redirected back
// GET /api/v1/checkout/return?order_id=&ref=
func (h *PaymentHandler) CustomerReturn(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "order_id must be a positive integer")
		return
	}

	result, err := h.returnService.HandleReturn(c.Request.Context(), orderID, c.Query("ref"))
	if err != nil {
		h.fail(c, "customer return failed", err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// PaymentMethods lists the store's payment methods
// GET /api/v1/payments/methods
func (h *PaymentHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.paymentService.PaymentMethods(c.Request.Context())
	if err != nil {
		h.fail(c, "list payment methods failed", err)
		return
	}
	response.Success(c, http.StatusOK, methods)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func (h *PaymentHandler) fail(c *gin.Context, msg string, err error) {
	statusCode, errCode := MapPaymentError(err)
	if statusCode >= http.StatusInternalServerError {
		logger.ErrorWithFields(msg, err, map[string]interface{}{
			"path": c.FullPath(),
			"code": errCode,
		})
	}
	response.ErrorResponse(c, statusCode, errCode, err.Error())
}

// MapPaymentError converts a *model.PaymentError into an HTTP status and error code.
func MapPaymentError(err error) (statusCode int, errorCode string) {
	statusCode = http.StatusInternalServerError
	errorCode = "INTERNAL_ERROR"

	var paymentErr *model.PaymentError
	if !errors.As(err, &paymentErr) {
		return statusCode, errorCode
	}
	errorCode = paymentErr.Code

	switch paymentErr.Code {
	case model.ErrCodeInvalidRequest:
		statusCode = http.StatusBadRequest
	case model.ErrCodePaymentNotFound, model.ErrCodeOrderNotFound:
		statusCode = http.StatusNotFound
	case model.ErrCodeReferenceConflict, model.ErrCodeReferenceMismatch:
		statusCode = http.StatusConflict
	case model.ErrCodeCredentialsNotConfigured:
		statusCode = http.StatusServiceUnavailable
	case model.ErrCodeRemoteUnavailable, model.ErrCodeRemoteUnauthorized, model.ErrCodeMalformedResponse:
		statusCode = http.StatusBadGateway
	}
	return statusCode, errorCode
}

func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
