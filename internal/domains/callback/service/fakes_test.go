package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	optionModel "resursbank-gateway/internal/domains/option/model"
	orderModel "resursbank-gateway/internal/domains/order/model"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	paymentService "resursbank-gateway/internal/domains/payment/service"
)

type memoryOptions struct {
	mu     sync.Mutex
	values map[string]optionModel.Option
	writes int
	err    error
}

func newMemoryOptions() *memoryOptions {
	return &memoryOptions{values: map[string]optionModel.Option{}}
}

func (m *memoryOptions) Get(_ context.Context, key string) (*optionModel.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	opt, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return &opt, nil
}

func (m *memoryOptions) Set(_ context.Context, key, value string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.values[key] = optionModel.Option{Key: key, Value: value, UpdatedAt: at}
	return nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// saltSequence returns salt-1, salt-2, ...
func saltSequence() func() string {
	n := 0
	return func() string {
		n++
		return "salt-" + strconv.Itoa(n)
	}
}

type fakeResolver struct {
	ids   map[string]int64
	err   error
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, ref string) (int64, error) {
	r.calls++
	return r.ids[ref], r.err
}

type fakePayments struct {
	paymentService.Service
	payments map[string]*paymentModel.RemotePayment
	err      error
	calls    int
}

func (p *fakePayments) FetchRemotePayment(_ context.Context, _ int64, ref string) (*paymentModel.RemotePayment, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	payment, ok := p.payments[ref]
	if !ok {
		return nil, paymentModel.NewRemoteError(paymentModel.ErrCodePaymentNotFound, "remote returned 404", paymentModel.ErrPaymentNotFound, nil)
	}
	return payment, nil
}

type fakeUpdater struct {
	queued []orderModel.StatusUpdate
}

func (u *fakeUpdater) Queue(_ context.Context, update orderModel.StatusUpdate) {
	u.queued = append(u.queued, update)
}

func (u *fakeUpdater) Apply(context.Context, orderModel.StatusUpdate) (bool, error) {
	return false, nil
}
