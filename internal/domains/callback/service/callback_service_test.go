package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resursbank-gateway/internal/domains/callback/model"
	optionModel "resursbank-gateway/internal/domains/option/model"
	orderModel "resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/payment/mapper"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
)

const salt = "pepper"

type callbackFixture struct {
	options  *memoryOptions
	resolver *fakeResolver
	payments *fakePayments
	updater  *fakeUpdater
	svc      Service
}

func newCallbackFixture() *callbackFixture {
	f := &callbackFixture{
		options:  newMemoryOptions(),
		resolver: &fakeResolver{ids: map[string]int64{}},
		payments: &fakePayments{payments: map[string]*paymentModel.RemotePayment{}},
		updater:  &fakeUpdater{},
	}
	f.options.values[optionModel.KeyCallbackSalt] = optionModel.Option{Key: optionModel.KeyCallbackSalt, Value: salt, UpdatedAt: start}

	c := &clock{now: start}
	digest := NewDigestValidator(f.options, DigestConfig{Now: c.Now})
	f.svc = NewCallbackService(digest, f.resolver, f.payments, mapper.New(nil), f.updater, f.options, c.Now)
	return f
}

func signed(t model.Type, ref string) model.Request {
	return model.Request{Type: t, Reference: ref, Digest: Digest(salt, ref)}
}

func TestHandle_QueuesMappedStatus(t *testing.T) {
	f := newCallbackFixture()
	f.resolver.ids["pay-1"] = 42
	f.payments.payments["pay-1"] = &paymentModel.RemotePayment{ID: "pay-1", Status: paymentModel.StatusCompleted}

	res := f.svc.Handle(context.Background(), signed(model.TypeBooked, "pay-1"))

	assert.Equal(t, model.OutcomeQueued, res.Outcome)
	assert.Equal(t, http.StatusAccepted, res.HTTPStatus)
	assert.Equal(t, model.Reply{AliveConfirm: true, Actual: "BOOKED", DigestCode: "200"}, res.Reply)
	assert.Equal(t, int64(42), res.OrderID)

	require.Len(t, f.updater.queued, 1)
	update := f.updater.queued[0]
	assert.Equal(t, int64(42), update.OrderID)
	assert.Equal(t, orderModel.StatusCompleted, update.TargetStatus)
	assert.False(t, update.AutoDebited)
	assert.Equal(t, "BOOKED", update.Source)
}

func TestHandle_PriorityAndAutoDebit(t *testing.T) {
	f := newCallbackFixture()
	f.resolver.ids["pay-1"] = 1
	f.resolver.ids["pay-2"] = 2
	f.payments.payments["pay-1"] = &paymentModel.RemotePayment{Status: paymentModel.StatusPending | paymentModel.StatusCompleted}
	f.payments.payments["pay-2"] = &paymentModel.RemotePayment{Status: paymentModel.StatusAutoDebited}

	f.svc.Handle(context.Background(), signed(model.TypeUpdate, "pay-1"))
	f.svc.Handle(context.Background(), signed(model.TypeFinalization, "pay-2"))

	require.Len(t, f.updater.queued, 2)
	assert.Equal(t, orderModel.StatusOnHold, f.updater.queued[0].TargetStatus)
	assert.Equal(t, orderModel.StatusCompleted, f.updater.queued[1].TargetStatus)
	assert.True(t, f.updater.queued[1].AutoDebited)
}

func TestHandle_DigestRejected(t *testing.T) {
	cases := []struct {
		name string
		req  model.Request
	}{
		{"wrong salt", model.Request{Type: model.TypeBooked, Reference: "pay-1", Digest: Digest("other-salt", "pay-1")}},
		{"unknown type", model.Request{Type: "SOMETHING", Reference: "pay-1", Digest: "BAD"}},
		{"empty type", model.Request{Reference: "pay-1", Digest: "BAD"}},
		{"oversized reference", model.Request{Type: model.TypeBooked, Reference: strings.Repeat("x", 129), Digest: "BAD"}},
		{"missing digest", model.Request{Type: model.TypeBooked, Reference: "pay-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCallbackFixture()
			f.resolver.ids["pay-1"] = 42
			f.payments.payments["pay-1"] = &paymentModel.RemotePayment{Status: paymentModel.StatusCompleted}
			writesBefore := f.options.writes

			res := f.svc.Handle(context.Background(), tc.req)

			assert.Equal(t, model.OutcomeRejected, res.Outcome)
			assert.Equal(t, http.StatusNotAcceptable, res.HTTPStatus)
			assert.Equal(t, "Digest rejected", res.Reply.DigestCode)
			assert.True(t, res.Reply.AliveConfirm)

			assert.Zero(t, f.resolver.calls)
			assert.Zero(t, f.payments.calls)
			assert.Empty(t, f.updater.queued)
			assert.Equal(t, writesBefore, f.options.writes)
		})
	}
}

func TestHandle_FraudControlDigestCoversResult(t *testing.T) {
	f := newCallbackFixture()
	f.resolver.ids["pay-1"] = 42
	f.payments.payments["pay-1"] = &paymentModel.RemotePayment{Status: paymentModel.StatusManualInspection}

	req := model.Request{Type: model.TypeAutomaticFraudControl, Reference: "pay-1", Result: "FROZEN", Digest: Digest(salt, "pay-1", "FROZEN")}
	res := f.svc.Handle(context.Background(), req)
	assert.Equal(t, model.OutcomeQueued, res.Outcome)

	req.Result = "THAWED"
	res = f.svc.Handle(context.Background(), req)
	assert.Equal(t, model.OutcomeRejected, res.Outcome)
}

func TestHandle_UnknownReference(t *testing.T) {
	f := newCallbackFixture()

	res := f.svc.Handle(context.Background(), signed(model.TypeAnnulment, "nobody"))

	assert.Equal(t, model.OutcomeUnknownReference, res.Outcome)
	assert.Equal(t, http.StatusAccepted, res.HTTPStatus)
	assert.Equal(t, "Accepted", res.Reply.DigestCode)
	assert.Zero(t, f.payments.calls)
	assert.Empty(t, f.updater.queued)
}

func TestHandle_TestCallback(t *testing.T) {
	f := newCallbackFixture()

	res := f.svc.Handle(context.Background(), model.Request{Type: "test"})

	assert.Equal(t, model.OutcomeTestRecorded, res.Outcome)
	assert.Equal(t, http.StatusAccepted, res.HTTPStatus)
	assert.Equal(t, model.Reply{AliveConfirm: true, Actual: "TEST", DigestCode: "200"}, res.Reply)
	assert.Equal(t, "2026-03-01T12:00:00Z", f.options.values[optionModel.KeyCallbackTestReceived].Value)
}

func TestHandle_MissingReference(t *testing.T) {
	f := newCallbackFixture()

	res := f.svc.Handle(context.Background(), model.Request{Type: model.TypeUnfreeze})

	assert.Equal(t, model.OutcomeMissingReference, res.Outcome)
	assert.Equal(t, http.StatusAccepted, res.HTTPStatus)
	assert.Equal(t, "Accepted", res.Reply.DigestCode)
}

func TestHandle_NoMappableFlag(t *testing.T) {
	f := newCallbackFixture()
	f.resolver.ids["pay-1"] = 9
	f.payments.payments["pay-1"] = &paymentModel.RemotePayment{}

	res := f.svc.Handle(context.Background(), signed(model.TypeUpdate, "pay-1"))

	assert.Equal(t, model.OutcomeNoChange, res.Outcome)
	assert.Equal(t, "200", res.Reply.DigestCode)
	assert.Empty(t, f.updater.queued)
}

func TestHandle_ErrorsFoldIntoDigestCode(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *callbackFixture)
		req   model.Request
		code  string
	}{
		{
			name: "unknown type",
			req:  model.Request{Type: "SOMETHING"},
			code: "CB001: ",
		},
		{
			name: "unknown type with authentic digest",
			req:  signed("SOMETHING", "pay-1"),
			code: "CB001: ",
		},
		{
			name: "credentials missing",
			setup: func(f *callbackFixture) {
				f.resolver.ids["pay-1"] = 1
				f.payments.err = paymentModel.NewCredentialsNotConfiguredError(paymentModel.EnvironmentProduction)
			},
			req:  signed(model.TypeBooked, "pay-1"),
			code: "PAY001: no API credentials configured for environment prod",
		},
		{
			name: "remote timeout",
			setup: func(f *callbackFixture) {
				f.resolver.ids["pay-1"] = 1
				f.payments.err = paymentModel.NewRemoteError(paymentModel.ErrCodeRemoteUnavailable, "GET /v2/payments/pay-1 failed", paymentModel.ErrRemoteUnavailable, context.DeadlineExceeded)
			},
			req:  signed(model.TypeBooked, "pay-1"),
			code: "PAY002: GET /v2/payments/pay-1 failed",
		},
		{
			name: "metadata store down",
			setup: func(f *callbackFixture) {
				f.resolver.err = errors.New("connection refused")
			},
			req:  signed(model.TypeBooked, "pay-1"),
			code: "CB003: resolve payment reference",
		},
		{
			name: "options store down",
			setup: func(f *callbackFixture) {
				f.options.err = errors.New("connection refused")
			},
			req:  signed(model.TypeBooked, "pay-1"),
			code: "CB002: read callback salt",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCallbackFixture()
			if tc.setup != nil {
				tc.setup(f)
			}

			res := f.svc.Handle(context.Background(), tc.req)

			assert.Equal(t, model.OutcomeFailed, res.Outcome)
			assert.Equal(t, http.StatusAccepted, res.HTTPStatus)
			assert.True(t, res.Reply.AliveConfirm)
			assert.Contains(t, res.Reply.DigestCode, tc.code)
			assert.Empty(t, f.updater.queued)
		})
	}
}

func TestDigestCodeFor_Generic(t *testing.T) {
	assert.Equal(t, "CB000: boom", DigestCodeFor(errors.New("boom")))
}
