package gateway

import (
	"context"

	"resursbank-gateway/internal/domains/payment/model"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway is a connection to the Resurs Bank API opened with one credential set.
type Gateway interface {
	// GetPayment fetches the payment and its status bitmask.
	GetPayment(ctx context.Context, reference string) (*model.RemotePayment, error)

	// ValidateCredentials performs a cheap authenticated call.
	ValidateCredentials(ctx context.Context) error

	// RegisterCallback registers one callback type with the provider.
	// Flavours without registration return model.ErrRegistrationNotSupported.
	RegisterCallback(ctx context.Context, reg CallbackRegistration) error

	GetPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)

	Flavour() model.APIFlavour
}

// CallbackRegistration describes one callback type to register.
type CallbackRegistration struct {
	Type        string
	URITemplate string
	Salt        string

	// DigestParameters are the template parameters folded into the digest, in order.
	DigestParameters []string
}

// Factory opens a Gateway for a credential set.
type Factory func(creds model.CredentialSet) (Gateway, error)
