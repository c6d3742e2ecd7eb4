package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resursbank-gateway/internal/domains/admin/service"
	"resursbank-gateway/internal/domains/payment/mapper"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	paymentService "resursbank-gateway/internal/domains/payment/service"
)

type stubPayments struct {
	paymentService.Service
	err error
}

func (s *stubPayments) PaymentMethods(context.Context) ([]paymentModel.PaymentMethod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []paymentModel.PaymentMethod{{ID: "inv", Name: "Invoice"}}, nil
}

func newRouter(payments paymentService.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(service.NewDispatcher(service.Deps{Payments: payments, Mapper: mapper.New(nil)}))
	r := gin.New()
	r.GET("/admin/commands", h.ListCommands)
	r.POST("/admin/commands/:command", h.RunCommand)
	return r
}

func TestRunCommand(t *testing.T) {
	router := newRouter(&stubPayments{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/commands/payment_methods", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Invoice"`)
}

func TestRunCommand_Unknown(t *testing.T) {
	router := newRouter(&stubPayments{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/commands/get_address", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_COMMAND")
}

func TestRunCommand_Errors(t *testing.T) {
	router := newRouter(&stubPayments{err: paymentModel.NewCredentialsNotConfiguredError(paymentModel.EnvironmentTest)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/commands/payment_methods", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), paymentModel.ErrCodeCredentialsNotConfigured)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/commands/payment_methods", strings.NewReader(`[1,2]`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCommands(t *testing.T) {
	router := newRouter(&stubPayments{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/commands", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "register_callbacks")
}
