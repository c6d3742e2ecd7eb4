package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resursbank-gateway/internal/domains/callback/model"
	optionModel "resursbank-gateway/internal/domains/option/model"
	optionRepo "resursbank-gateway/internal/domains/option/repository"
	orderModel "resursbank-gateway/internal/domains/order/model"
	orderService "resursbank-gateway/internal/domains/order/service"
	"resursbank-gateway/internal/domains/payment/mapper"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	paymentService "resursbank-gateway/internal/domains/payment/service"
	"resursbank-gateway/pkg/logger"
)

// Service runs one inbound callback to a terminal outcome. Handle never fails:
// every error is folded into the reply envelope.
type Service interface {
	Handle(ctx context.Context, req model.Request) model.Result
}

type callbackService struct {
	digest   DigestValidator
	resolver orderService.ReferenceResolver
	payments paymentService.Service
	mapper   *mapper.StatusMapper
	updater  orderService.StatusUpdater
	options  optionRepo.Repository
	now      func() time.Time
}

func NewCallbackService(
	digest DigestValidator,
	resolver orderService.ReferenceResolver,
	payments paymentService.Service,
	m *mapper.StatusMapper,
	updater orderService.StatusUpdater,
	options optionRepo.Repository,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	return &callbackService{
		digest:   digest,
		resolver: resolver,
		payments: payments,
		mapper:   m,
		updater:  updater,
		options:  options,
		now:      now,
	}
}

func (s *callbackService) Handle(ctx context.Context, req model.Request) (result model.Result) {
	req = req.Normalize()
	fields := map[string]interface{}{
		"type":      string(req.Type),
		"reference": req.Reference,
	}

	defer func() {
		if r := recover(); r != nil {
			result = failed(req, fmt.Errorf("panic: %v", r))
			logger.ErrorWithFields("callback handling panicked", fmt.Errorf("%v", r), fields)
		}
	}()

	// A referenced callback is authenticated before anything else is looked at.
	if req.Reference != "" {
		return s.handlePayment(ctx, req, fields)
	}

	if err := s.validate(req, fields); err != nil {
		return failed(req, err)
	}
	if req.Type == model.TypeTest {
		return s.recordTest(ctx, req, fields)
	}
	logger.Warn("callback without payment reference acknowledged", fields)
	return reply(req, model.OutcomeMissingReference, http.StatusAccepted, model.DigestCodeAccepted)
}

func (s *callbackService) validate(req model.Request, fields map[string]interface{}) error {
	if err := req.Validate(); err != nil {
		logger.Warn("invalid callback", withError(fields, err))
		return model.NewCallbackError(model.ErrCodeInvalidCallback, err.Error(), model.ErrInvalidCallback)
	}
	return nil
}

func (s *callbackService) handlePayment(ctx context.Context, req model.Request, fields map[string]interface{}) model.Result {
	valid, err := s.digest.Validate(ctx, req)
	if err != nil {
		logger.ErrorWithFields("callback digest check failed", err, fields)
		return failed(req, err)
	}
	if !valid {
		logger.Warn("callback digest rejected", fields)
		return reply(req, model.OutcomeRejected, http.StatusNotAcceptable, model.DigestCodeRejected)
	}
	if err := s.validate(req, fields); err != nil {
		return failed(req, err)
	}

	orderID, err := s.resolver.Resolve(ctx, req.Reference)
	if err != nil {
		logger.ErrorWithFields("callback reference lookup failed", err, fields)
		return failed(req, model.NewCallbackError(model.ErrCodeReferenceLookup, "resolve payment reference", err))
	}
	if orderID == 0 {
		logger.Info("callback for unknown reference acknowledged", fields)
		return reply(req, model.OutcomeUnknownReference, http.StatusAccepted, model.DigestCodeAccepted)
	}
	fields["order_id"] = orderID

	payment, err := s.payments.FetchRemotePayment(ctx, orderID, req.Reference)
	if err != nil {
		logger.ErrorWithFields("callback payment fetch failed", err, fields)
		return failed(req, err)
	}

	target, resolved, ok := s.mapper.Map(payment.Status)
	if !ok {
		logger.Info("remote status carries no mappable flag, order left unchanged", map[string]interface{}{
			"order_id": orderID,
			"status":   payment.Status.String(),
		})
		res := reply(req, model.OutcomeNoChange, http.StatusAccepted, model.DigestCodeOK)
		res.OrderID = orderID
		return res
	}

	s.updater.Queue(ctx, orderModel.StatusUpdate{
		OrderID:      orderID,
		TargetStatus: target,
		Note:         fmt.Sprintf("Resurs Bank callback %s: payment %s is %s.", req.Type, req.Reference, resolved),
		AutoDebited:  payment.Status.Has(paymentModel.StatusAutoDebited),
		Reference:    req.Reference,
		Source:       string(req.Type),
	})

	res := reply(req, model.OutcomeQueued, http.StatusAccepted, model.DigestCodeOK)
	res.OrderID = orderID
	res.TargetStatus = target
	return res
}

func (s *callbackService) recordTest(ctx context.Context, req model.Request, fields map[string]interface{}) model.Result {
	now := s.now()
	if err := s.options.Set(ctx, optionModel.KeyCallbackTestReceived, now.UTC().Format(time.RFC3339), now); err != nil {
		logger.ErrorWithFields("recording test callback failed", err, fields)
		return failed(req, model.NewCallbackError(model.ErrCodeOptionsStore, "record test callback", err))
	}

	logger.Info("test callback received", fields)
	return reply(req, model.OutcomeTestRecorded, http.StatusAccepted, model.DigestCodeOK)
}

// =====================================================
// REPLIES
// =====================================================

func reply(req model.Request, outcome model.Outcome, status int, code string) model.Result {
	return model.Result{
		Outcome:    outcome,
		HTTPStatus: status,
		Reply: model.Reply{
			AliveConfirm: true,
			Actual:       string(req.Type),
			DigestCode:   code,
		},
	}
}

// failed keeps the 202 envelope and surfaces the error in digestCode.
func failed(req model.Request, err error) model.Result {
	return reply(req, model.OutcomeFailed, http.StatusAccepted, DigestCodeFor(err))
}

// DigestCodeFor renders err as "CODE: message".
func DigestCodeFor(err error) string {
	var cbErr *model.CallbackError
	if errors.As(err, &cbErr) {
		return cbErr.Code + ": " + cbErr.Message
	}
	var payErr *paymentModel.PaymentError
	if errors.As(err, &payErr) {
		return payErr.Code + ": " + payErr.Message
	}
	return model.ErrCodeInternal + ": " + err.Error()
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
