package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	orderModel "resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/payment/credentials"
	"resursbank-gateway/internal/domains/payment/gateway/mock"
	"resursbank-gateway/internal/domains/payment/model"
)

type fakeOrders struct {
	mu     sync.Mutex
	orders map[int64]*orderModel.Order
	meta   map[int64]map[string]string
	// conflict makes SetMeta fail like the unique index would.
	conflict bool
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders: map[int64]*orderModel.Order{},
		meta:   map[int64]map[string]string{},
	}
}

func (f *fakeOrders) add(id int64, status string, meta map[string]string) {
	f.orders[id] = &orderModel.Order{ID: id, Status: status}
	if meta == nil {
		meta = map[string]string{}
	}
	f.meta[id] = meta
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*orderModel.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, orderModel.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, status string, _ []string) error {
	f.orders[id].Status = status
	return nil
}

func (f *fakeOrders) AddNote(context.Context, int64, string) error { return nil }

func (f *fakeOrders) ListNotes(context.Context, int64) ([]orderModel.Note, error) { return nil, nil }

func (f *fakeOrders) FindOrderIDByMeta(_ context.Context, key, value string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.meta {
		if m[key] == value {
			return id, nil
		}
	}
	return 0, nil
}

func (f *fakeOrders) GetMeta(_ context.Context, id int64, keys []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := f.meta[id][k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeOrders) SetMeta(_ context.Context, id int64, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflict {
		return orderModel.ErrReferenceInUse
	}
	for k, v := range values {
		f.meta[id][k] = v
	}
	return nil
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

type memoryCache struct {
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

var snapshotKey = strings.Repeat("5a", 32)

func liveCreds() model.CredentialSet {
	return model.CredentialSet{Username: "live", Secret: "s", Environment: model.EnvironmentTest, Flavour: model.FlavourMerchantAPI}
}

func legacyCreds() model.CredentialSet {
	return model.CredentialSet{Username: "legacy", Secret: "s", Environment: model.EnvironmentTest, Flavour: model.FlavourECommerce}
}

type fixture struct {
	orders   *fakeOrders
	gateways map[string]*mock.Gateway
	sealer   *credentials.Sealer
	resolver *credentials.Resolver
	cache    *memoryCache
	svc      Service
}

func newFixture(active, secondary model.CredentialSet) *fixture {
	sealer, err := credentials.NewSealer(snapshotKey)
	if err != nil {
		panic(err)
	}
	f := &fixture{
		orders: newFakeOrders(),
		gateways: map[string]*mock.Gateway{
			"live":   mock.New(model.FlavourMerchantAPI),
			"legacy": mock.New(model.FlavourECommerce),
		},
		sealer: sealer,
		cache:  newMemoryCache(),
	}
	f.resolver = credentials.NewResolver(active, secondary, mock.Factory(f.gateways), sealer)
	f.svc = NewPaymentService(f.resolver, f.orders, f.cache, time.Hour)
	return f
}
