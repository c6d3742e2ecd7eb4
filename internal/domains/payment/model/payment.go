package model

import (
	"github.com/shopspring/decimal"
)

type Environment string

const (
	EnvironmentTest       Environment = "test"
	EnvironmentProduction Environment = "prod"
)

// APIFlavour selects the remote API generation a credential set talks to.
type APIFlavour string

const (
	FlavourMerchantAPI APIFlavour = "mapi" // v2, OAuth2 client credentials, UUID references
	FlavourECommerce   APIFlavour = "ecom" // legacy, basic auth
)

// CredentialSet is everything needed to open a connection to the remote API.
type CredentialSet struct {
	Username    string      `json:"username"`
	Secret      string      `json:"secret"`
	Environment Environment `json:"environment"`
	Flavour     APIFlavour  `json:"flavour"`
	StoreID     string      `json:"store_id,omitempty"`
}

func (c CredentialSet) IsComplete() bool {
	return c.Username != "" && c.Secret != ""
}

// Map is the flat form compared when deciding whether an order was created
// under different credentials than the active ones.
func (c CredentialSet) Map() map[string]string {
	m := map[string]string{
		"username":    c.Username,
		"secret":      c.Secret,
		"environment": string(c.Environment),
		"flavour":     string(c.Flavour),
	}
	if c.StoreID != "" {
		m["store_id"] = c.StoreID
	}
	return m
}

// RemotePayment is the subset of the remote payment object reconciliation needs.
type RemotePayment struct {
	ID string `json:"id"`
	// OrderReference is the alternate reference the payment was created with.
	OrderReference  string          `json:"order_reference,omitempty"`
	Status          RemoteStatus    `json:"status"`
	Flavour         APIFlavour      `json:"flavour"`
	PaymentMethodID string          `json:"payment_method_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CapturedAmount  decimal.Decimal `json:"captured_amount"`
	RefundedAmount  decimal.Decimal `json:"refunded_amount"`
}

type PaymentMethod struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	MinLimit decimal.Decimal `json:"min_limit"`
	MaxLimit decimal.Decimal `json:"max_limit"`
}
