package credentials

import (
	"sync"

	"resursbank-gateway/internal/domains/payment/gateway"
	"resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/pkg/logger"
)

// =====================================================
// CREDENTIAL / CONNECTION RESOLVER
// =====================================================

// Resolver hands out gateways for the active credentials, the optional
// secondary (legacy flavour) credentials, or an order's sealed snapshot.
type Resolver struct {
	active    model.CredentialSet
	secondary model.CredentialSet
	factory   gateway.Factory
	sealer    *Sealer

	mu      sync.Mutex
	primary gateway.Gateway
}

func NewResolver(active, secondary model.CredentialSet, factory gateway.Factory, sealer *Sealer) *Resolver {
	return &Resolver{
		active:    active,
		secondary: secondary,
		factory:   factory,
		sealer:    sealer,
	}
}

// Active returns the live credential set; ok=false means nothing is configured yet.
func (r *Resolver) Active() (model.CredentialSet, bool) {
	return r.active, r.active.IsComplete()
}

func (r *Resolver) Secondary() (model.CredentialSet, bool) {
	return r.secondary, r.secondary.IsComplete()
}

// Candidates lists every configured credential set, active first.
func (r *Resolver) Candidates() []model.CredentialSet {
	var out []model.CredentialSet
	if c, ok := r.Active(); ok {
		out = append(out, c)
	}
	if c, ok := r.Secondary(); ok {
		out = append(out, c)
	}
	return out
}

// Primary returns the gateway for the active credentials, built once.
func (r *Resolver) Primary() (gateway.Gateway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.primary != nil {
		return r.primary, nil
	}
	creds, ok := r.Active()
	if !ok {
		return nil, model.NewCredentialsNotConfiguredError(r.active.Environment)
	}
	gw, err := r.factory(creds)
	if err != nil {
		return nil, err
	}
	r.primary = gw
	return gw, nil
}

// SecondaryGateway builds a gateway for the secondary credentials.
// ok=false when none are configured.
func (r *Resolver) SecondaryGateway() (gw gateway.Gateway, ok bool, err error) {
	creds, ok := r.Secondary()
	if !ok {
		return nil, false, nil
	}
	gw, err = r.factory(creds)
	return gw, err == nil, err
}

// Gateways returns a gateway per configured credential set, in Candidates order.
func (r *Resolver) Gateways() ([]gateway.Gateway, error) {
	var out []gateway.Gateway

	if _, ok := r.Active(); ok {
		gw, err := r.Primary()
		if err != nil {
			return nil, err
		}
		out = append(out, gw)
	}

	gw, ok, err := r.SecondaryGateway()
	if err != nil {
		return nil, err
	}
	if ok {
		out = append(out, gw)
	}
	return out, nil
}

// Connect returns a gateway for an order. When the order carries a snapshot
// whose credentials differ from the active ones, a temporary gateway is built
// from the snapshot so payments created under rotated credentials stay reachable.
func (r *Resolver) Connect(snapshot string) (gateway.Gateway, error) {
	if snapshot == "" {
		return r.Primary()
	}

	historic, err := r.sealer.Open(snapshot)
	if err != nil {
		logger.Warn("credential snapshot unreadable, using active credentials", map[string]interface{}{
			"error": err.Error(),
		})
		return r.Primary()
	}

	active, ok := r.Active()
	if !historic.IsComplete() || (ok && !Differs(active, historic)) {
		return r.Primary()
	}

	logger.Info("using order credential snapshot", map[string]interface{}{
		"environment": historic.Environment,
		"flavour":     historic.Flavour,
	})
	return r.factory(historic)
}

// Snapshot seals the active credentials for storage on a new order.
func (r *Resolver) Snapshot() (string, error) {
	creds, ok := r.Active()
	if !ok {
		return "", model.NewCredentialsNotConfiguredError(r.active.Environment)
	}
	return r.sealer.Seal(creds)
}

// Differs reports whether two credential sets are not the same set: the
// intersection of their key/value maps is smaller than either map.
func Differs(a, b model.CredentialSet) bool {
	am, bm := a.Map(), b.Map()
	shared := 0
	for k, v := range am {
		if bv, ok := bm[k]; ok && bv == v {
			shared++
		}
	}
	return shared < len(am) || shared < len(bm)
}
