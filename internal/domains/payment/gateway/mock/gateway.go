package mock

import (
	"context"
	"sync"

	"resursbank-gateway/internal/domains/payment/gateway"
	"resursbank-gateway/internal/domains/payment/model"
)

// Gateway is an in-memory gateway.Gateway for tests and local development.
type Gateway struct {
	mu sync.Mutex

	Payments      map[string]*model.RemotePayment
	Methods       []model.PaymentMethod
	FlavourValue  model.APIFlavour
	ValidateErr   error
	GetErr        error
	RegisterErr   error
	Registrations []gateway.CallbackRegistration
	Calls         []string
}

func New(flavour model.APIFlavour) *Gateway {
	return &Gateway{
		Payments:     map[string]*model.RemotePayment{},
		FlavourValue: flavour,
	}
}

// AddPayment stores a payment under its ID.
func (g *Gateway) AddPayment(p *model.RemotePayment) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Payments[p.ID] = p
}

func (g *Gateway) record(call string) {
	g.Calls = append(g.Calls, call)
}

func (g *Gateway) GetPayment(ctx context.Context, reference string) (*model.RemotePayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetPayment:" + reference)

	if g.GetErr != nil {
		return nil, g.GetErr
	}
	p, ok := g.Payments[reference]
	if !ok {
		return nil, model.NewRemoteError(model.ErrCodePaymentNotFound, "remote returned 404", model.ErrPaymentNotFound, nil)
	}
	cp := *p
	return &cp, nil
}

func (g *Gateway) ValidateCredentials(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("ValidateCredentials")
	return g.ValidateErr
}

func (g *Gateway) RegisterCallback(ctx context.Context, reg gateway.CallbackRegistration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("RegisterCallback:" + reg.Type)

	if g.RegisterErr != nil {
		return g.RegisterErr
	}
	g.Registrations = append(g.Registrations, reg)
	return nil
}

func (g *Gateway) GetPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetPaymentMethods")
	return append([]model.PaymentMethod(nil), g.Methods...), nil
}

func (g *Gateway) Flavour() model.APIFlavour {
	return g.FlavourValue
}

// Factory returns a gateway.Factory that hands out gateways keyed by credential username.
// Unknown usernames get a fresh empty gateway recorded in the map.
func Factory(gateways map[string]*Gateway) gateway.Factory {
	var mu sync.Mutex
	return func(creds model.CredentialSet) (gateway.Gateway, error) {
		if !creds.IsComplete() {
			return nil, model.NewCredentialsNotConfiguredError(creds.Environment)
		}
		mu.Lock()
		defer mu.Unlock()
		g, ok := gateways[creds.Username]
		if !ok {
			g = New(creds.Flavour)
			gateways[creds.Username] = g
		}
		return g, nil
	}
}
