package service

import (
	"context"
	"errors"
	"sync"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/domains/order/model"
)

type fakeRepo struct {
	mu       sync.Mutex
	orders   map[int64]*model.Order
	meta     map[int64]map[string]string
	notes    map[int64][]string
	updates  int
	failFind error
	lookups  []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders: map[int64]*model.Order{},
		meta:   map[int64]map[string]string{},
		notes:  map[int64][]string{},
	}
}

func (f *fakeRepo) addOrder(id int64, status string, meta map[string]string) {
	f.orders[id] = &model.Order{ID: id, Status: status, PaymentMethod: "resurs_bank"}
	f.meta[id] = meta
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status string, notes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = status
	f.notes[id] = append(f.notes[id], notes...)
	f.updates++
	return nil
}

func (f *fakeRepo) AddNote(_ context.Context, id int64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[id] = append(f.notes[id], content)
	return nil
}

func (f *fakeRepo) ListNotes(context.Context, int64) ([]model.Note, error) { return nil, nil }

func (f *fakeRepo) FindOrderIDByMeta(_ context.Context, key, value string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, key+"="+value)
	if f.failFind != nil {
		return 0, f.failFind
	}
	var found int64
	for id, m := range f.meta {
		if m[key] == value && id > found {
			found = id
		}
	}
	return found, nil
}

func (f *fakeRepo) GetMeta(_ context.Context, id int64, keys []string) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := f.meta[id][k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeRepo) SetMeta(_ context.Context, id int64, values map[string]string) error {
	if f.meta[id] == nil {
		f.meta[id] = map[string]string{}
	}
	for k, v := range values {
		f.meta[id][k] = v
	}
	return nil
}

type fakeQueue struct {
	tasks   []string
	payload []interface{}
	err     error
}

func (q *fakeQueue) Enqueue(_ context.Context, taskType string, payload interface{}, _ ...asynq.Option) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, taskType)
	q.payload = append(q.payload, payload)
	return nil
}

type fakeLookup struct {
	alternates []string
	err        error
	calls      int
}

func (l *fakeLookup) AlternateReferences(context.Context, string) ([]string, error) {
	l.calls++
	return l.alternates, l.err
}

var errBoom = errors.New("boom")
