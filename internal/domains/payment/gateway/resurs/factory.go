package resurs

import (
	"fmt"

	"resursbank-gateway/internal/domains/payment/gateway"
	"resursbank-gateway/internal/domains/payment/model"
)

// NewFactory returns a gateway.Factory choosing the client by credential flavour.
func NewFactory(cfg Config) gateway.Factory {
	return func(creds model.CredentialSet) (gateway.Gateway, error) {
		switch creds.Flavour {
		case model.FlavourECommerce:
			return NewECommerceClient(cfg, creds)
		case model.FlavourMerchantAPI, "":
			return NewMerchantClient(cfg, creds)
		default:
			return nil, fmt.Errorf("unsupported api flavour %q", creds.Flavour)
		}
	}
}
