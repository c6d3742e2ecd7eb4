package service

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"resursbank-gateway/internal/domains/payment/model"
)

// =====================================================
// SERVICE INTERFACES
// =====================================================

type Service interface {
	// FetchRemotePayment loads a payment using the credentials the order was created with.
	// orderID 0 means "no order context": the active credentials are used.
	FetchRemotePayment(ctx context.Context, orderID int64, reference string) (*model.RemotePayment, error)

	// AlternateReferences asks every configured credential set which other
	// references the payment is known by.
	AlternateReferences(ctx context.Context, reference string) ([]string, error)

	// LinkPayment records a freshly created remote payment on its order.
	LinkPayment(ctx context.Context, req LinkRequest) (*LinkResult, error)

	PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)

	ValidateCredentials(ctx context.Context) ([]CredentialCheck, error)
}

type ReturnService interface {
	// HandleReturn reconciles the order when the customer is redirected back from checkout.
	HandleReturn(ctx context.Context, orderID int64, reference string) (*ReturnResult, error)
}

// =====================================================
// DTOs
// =====================================================

type LinkRequest struct {
	OrderID   int64  `json:"order_id"`
	Reference string `json:"reference"`
	Flavour   string `json:"flavour"`
}

func (r LinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Reference,
			validation.Required,
			validation.Length(1, 128),
			validation.When(r.Flavour == "" || r.Flavour == string(model.FlavourMerchantAPI), is.UUID),
		),
		validation.Field(&r.Flavour, validation.In(string(model.FlavourMerchantAPI), string(model.FlavourECommerce))),
	)
}

type LinkResult struct {
	OrderID           int64  `json:"order_id"`
	Reference         string `json:"reference"`
	PreviousReference string `json:"previous_reference,omitempty"`
	SnapshotStored    bool   `json:"snapshot_stored"`
}

type CredentialCheck struct {
	Environment model.Environment `json:"environment"`
	Flavour     model.APIFlavour  `json:"flavour"`
	Username    string            `json:"username"`
	Valid       bool              `json:"valid"`
	Error       string            `json:"error,omitempty"`
}

type ReturnResult struct {
	OrderID      int64  `json:"order_id"`
	Reference    string `json:"reference"`
	RemoteStatus string `json:"remote_status"`
	TargetStatus string `json:"target_status,omitempty"`
	Queued       bool   `json:"queued"`
}
