package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resursbank-gateway/internal/domains/callback/model"
	optionModel "resursbank-gateway/internal/domains/option/model"
	"resursbank-gateway/internal/domains/payment/credentials"
	"resursbank-gateway/internal/domains/payment/gateway/mock"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
)

const baseURL = "https://shop.example.com/api/v1/callbacks/resurs"

func newRegistrarFixture(active, secondary paymentModel.CredentialSet, gateways map[string]*mock.Gateway) (Registrar, *memoryOptions) {
	opts := newMemoryOptions()
	opts.values[optionModel.KeyCallbackSalt] = optionModel.Option{Value: salt, UpdatedAt: start}
	c := &clock{now: start}

	resolver := credentials.NewResolver(active, secondary, mock.Factory(gateways), &credentials.Sealer{})
	digest := NewDigestValidator(opts, DigestConfig{Now: c.Now})
	return NewRegistrar(resolver, digest, opts, baseURL, c.Now), opts
}

func TestRegisterAll(t *testing.T) {
	mapi := mock.New(paymentModel.FlavourMerchantAPI)
	mapi.RegisterErr = paymentModel.ErrRegistrationNotSupported
	ecom := mock.New(paymentModel.FlavourECommerce)

	r, opts := newRegistrarFixture(
		paymentModel.CredentialSet{Username: "live", Secret: "s", Flavour: paymentModel.FlavourMerchantAPI},
		paymentModel.CredentialSet{Username: "legacy", Secret: "s", Flavour: paymentModel.FlavourECommerce},
		map[string]*mock.Gateway{"live": mapi, "legacy": ecom},
	)

	report, err := r.RegisterAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mapi"}, report.Skipped)
	assert.Len(t, report.Registered, len(model.Types))
	assert.Len(t, mapi.Calls, 1)

	require.Len(t, ecom.Registrations, len(model.Types))
	for _, reg := range ecom.Registrations {
		assert.Equal(t, salt, reg.Salt)
		assert.Contains(t, reg.URITemplate, "c="+reg.Type+"&p={paymentId}&d={digest}")
	}
	assert.Contains(t, opts.values, optionModel.KeyCallbacksRegistered)
}

func TestRegisterAll_PartialFailure(t *testing.T) {
	ecom := mock.New(paymentModel.FlavourECommerce)
	ecom.RegisterErr = errors.New("remote returned 500")

	r, opts := newRegistrarFixture(
		paymentModel.CredentialSet{Username: "legacy", Secret: "s", Flavour: paymentModel.FlavourECommerce},
		paymentModel.CredentialSet{},
		map[string]*mock.Gateway{"legacy": ecom},
	)

	report, err := r.RegisterAll(context.Background())
	require.Error(t, err)
	assert.Len(t, report.Failed, len(model.Types))
	assert.NotContains(t, opts.values, optionModel.KeyCallbacksRegistered)
}

func TestRegisterAll_NotConfigured(t *testing.T) {
	r, _ := newRegistrarFixture(paymentModel.CredentialSet{}, paymentModel.CredentialSet{}, map[string]*mock.Gateway{})

	_, err := r.RegisterAll(context.Background())
	assert.ErrorIs(t, err, paymentModel.ErrCredentialsNotConfigured)
}

func TestURITemplate(t *testing.T) {
	assert.Equal(t, baseURL+"?c=BOOKED&p={paymentId}&d={digest}", URITemplate(baseURL, model.TypeBooked))
	assert.Equal(t,
		"https://shop/cb?shop=1&c=AUTOMATIC_FRAUD_CONTROL&p={paymentId}&d={digest}&result={result}",
		URITemplate("https://shop/cb?shop=1", model.TypeAutomaticFraudControl))
	assert.Equal(t, []string{"paymentId", "result"}, model.TypeAutomaticFraudControl.DigestParameters())
}
