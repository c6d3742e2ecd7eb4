package resurs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"resursbank-gateway/internal/domains/payment/model"
)

// Endpoints are the base URLs of both API generations plus the token endpoint.
type Endpoints struct {
	MerchantAPI string
	ECommerce   string
	TokenURL    string
}

var defaultEndpoints = map[model.Environment]Endpoints{
	model.EnvironmentTest: {
		MerchantAPI: "https://merchant-api.integration.resurs.com",
		ECommerce:   "https://omnitest.resurs.com/ecommerce-test/rest",
		TokenURL:    "https://merchant-api.integration.resurs.com/oauth2/token",
	},
	model.EnvironmentProduction: {
		MerchantAPI: "https://merchant-api.resurs.com",
		ECommerce:   "https://ecommerce.resurs.com/ecommerce/rest",
		TokenURL:    "https://merchant-api.resurs.com/oauth2/token",
	},
}

// DefaultEndpoints returns the provider URLs for env, with any non-empty override applied.
func DefaultEndpoints(env model.Environment, override Endpoints) Endpoints {
	e := defaultEndpoints[env]
	if e.MerchantAPI == "" {
		e = defaultEndpoints[model.EnvironmentTest]
	}
	if override.MerchantAPI != "" {
		e.MerchantAPI = override.MerchantAPI
	}
	if override.ECommerce != "" {
		e.ECommerce = override.ECommerce
	}
	if override.TokenURL != "" {
		e.TokenURL = override.TokenURL
	}
	e.MerchantAPI = strings.TrimRight(e.MerchantAPI, "/")
	e.ECommerce = strings.TrimRight(e.ECommerce, "/")
	return e
}

// Config configures a client factory.
type Config struct {
	Endpoints Endpoints
	Timeout   time.Duration
}

func (c Config) Validate() error {
	for _, raw := range []string{c.Endpoints.MerchantAPI, c.Endpoints.ECommerce, c.Endpoints.TokenURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid resurs endpoint %q", raw)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("resurs timeout must be positive")
	}
	return nil
}
