package resurs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"resursbank-gateway/internal/domains/payment/gateway"
	"resursbank-gateway/internal/domains/payment/model"
)

// =====================================================
// MERCHANT API (v2) CLIENT
// =====================================================

// autoDebitMethodTypes settle at purchase time; a captured payment with one of
// these methods carries the AUTO_DEBITED flag.
var autoDebitMethodTypes = map[string]bool{
	"SWISH":       true,
	"DEBIT_CARD":  true,
	"CREDIT_CARD": true,
	"MOBILEPAY":   true,
	"INTERNET":    true,
}

type merchantClient struct {
	baseURL string
	storeID string
	http    *http.Client
}

// NewMerchantClient opens an OAuth2 client-credentials connection to the Merchant API.
func NewMerchantClient(cfg Config, creds model.CredentialSet) (gateway.Gateway, error) {
	if !creds.IsComplete() {
		return nil, model.NewCredentialsNotConfiguredError(creds.Environment)
	}

	endpoints := DefaultEndpoints(creds.Environment, cfg.Endpoints)
	oauthCfg := &clientcredentials.Config{
		ClientID:     creds.Username,
		ClientSecret: creds.Secret,
		TokenURL:     endpoints.TokenURL,
		Scopes:       []string{"merchant-api"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// Token requests reuse the bounded client.
	base := &http.Client{Timeout: cfg.Timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauthCfg.Client(ctx)
	client.Timeout = cfg.Timeout

	return &merchantClient{
		baseURL: endpoints.MerchantAPI,
		storeID: creds.StoreID,
		http:    client,
	}, nil
}

func (c *merchantClient) Flavour() model.APIFlavour {
	return model.FlavourMerchantAPI
}

type mapiAmounts struct {
	OrderReference   string          `json:"orderReference"`
	TotalOrderAmount decimal.Decimal `json:"totalOrderAmount"`
	AuthorizedAmount decimal.Decimal `json:"authorizedAmount"`
	CapturedAmount   decimal.Decimal `json:"capturedAmount"`
	CanceledAmount   decimal.Decimal `json:"canceledAmount"`
	RefundedAmount   decimal.Decimal `json:"refundedAmount"`
}

type mapiPayment struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Order         mapiAmounts `json:"order"`
	PaymentMethod struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"paymentMethod"`
}

func (c *merchantClient) GetPayment(ctx context.Context, reference string) (*model.RemotePayment, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, model.NewPaymentError(model.ErrCodeInvalidRequest, "payment reference is required", nil)
	}

	var p mapiPayment
	if err := doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/v2/payments/"+url.PathEscape(reference), nil, &p, nil); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, model.NewRemoteError(model.ErrCodeMalformedResponse, "payment without id", model.ErrMalformedResponse, nil)
	}

	return &model.RemotePayment{
		ID:              p.ID,
		OrderReference:  p.Order.OrderReference,
		Status:          merchantStatus(p),
		Flavour:         model.FlavourMerchantAPI,
		PaymentMethodID: p.PaymentMethod.ID,
		TotalAmount:     p.Order.TotalOrderAmount,
		CapturedAmount:  p.Order.CapturedAmount,
		RefundedAmount:  p.Order.RefundedAmount,
	}, nil
}

// merchantStatus folds the v2 status string and order amounts into a bitmask.
func merchantStatus(p mapiPayment) model.RemoteStatus {
	var s model.RemoteStatus
	o := p.Order

	switch strings.ToUpper(p.Status) {
	case "FROZEN", "INSPECTION":
		s |= model.StatusManualInspection
	case "REJECTED":
		s |= model.StatusError
	case "TASK_REDIRECTION_REQUIRED", "SIGNING", "SCORED":
		s |= model.StatusPending
	case "ACCEPTED":
		switch {
		case o.TotalOrderAmount.IsPositive() && o.CanceledAmount.GreaterThanOrEqual(o.TotalOrderAmount):
			s |= model.StatusAnnulled
		case o.RefundedAmount.IsPositive() && o.RefundedAmount.GreaterThanOrEqual(o.CapturedAmount):
			// Everything captured went back: credited, not completed.
			return model.StatusCredited
		case o.CapturedAmount.IsPositive() && o.CapturedAmount.GreaterThanOrEqual(o.TotalOrderAmount.Sub(o.CanceledAmount)):
			s |= model.StatusCompleted
		case o.AuthorizedAmount.IsPositive() || o.CapturedAmount.IsPositive():
			s |= model.StatusProcessing
		default:
			s |= model.StatusPending
		}
		if o.RefundedAmount.IsPositive() {
			s |= model.StatusCredited
		}
		if o.CapturedAmount.IsPositive() && autoDebitMethodTypes[strings.ToUpper(p.PaymentMethod.Type)] {
			s |= model.StatusAutoDebited
		}
	}
	return s
}

func (c *merchantClient) ValidateCredentials(ctx context.Context) error {
	if c.storeID == "" {
		var stores struct {
			Content []struct {
				ID string `json:"id"`
			} `json:"content"`
		}
		return doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/v2/stores", nil, &stores, nil)
	}
	_, err := c.GetPaymentMethods(ctx)
	return err
}

func (c *merchantClient) RegisterCallback(ctx context.Context, reg gateway.CallbackRegistration) error {
	return model.ErrRegistrationNotSupported
}

type mapiPaymentMethod struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	Type             string          `json:"type"`
	MinPurchaseLimit decimal.Decimal `json:"minPurchaseLimit"`
	MaxPurchaseLimit decimal.Decimal `json:"maxPurchaseLimit"`
}

func (c *merchantClient) GetPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	if c.storeID == "" {
		return nil, model.NewPaymentError(model.ErrCodeInvalidRequest, "store id is required for merchant api payment methods", nil)
	}

	var body struct {
		Content []mapiPaymentMethod `json:"content"`
	}
	endpoint := fmt.Sprintf("%s/v2/stores/%s/payment_methods", c.baseURL, url.PathEscape(c.storeID))
	if err := doJSON(ctx, c.http, http.MethodGet, endpoint, nil, &body, nil); err != nil {
		return nil, err
	}

	methods := make([]model.PaymentMethod, 0, len(body.Content))
	for _, m := range body.Content {
		methods = append(methods, model.PaymentMethod{
			ID:       m.ID,
			Name:     m.Description,
			Type:     m.Type,
			MinLimit: m.MinPurchaseLimit,
			MaxLimit: m.MaxPurchaseLimit,
		})
	}
	return methods, nil
}

// isAuthFailure reports whether err came from a rejected token request.
func isAuthFailure(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return false
	}
	switch re.Response.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}
