package resurs

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"resursbank-gateway/internal/domains/payment/gateway"
	"resursbank-gateway/internal/domains/payment/model"
)

// =====================================================
// ECOMMERCE (legacy) CLIENT
// =====================================================

type ecommerceClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewECommerceClient opens a basic-auth connection to the legacy eCommerce REST API.
func NewECommerceClient(cfg Config, creds model.CredentialSet) (gateway.Gateway, error) {
	if !creds.IsComplete() {
		return nil, model.NewCredentialsNotConfiguredError(creds.Environment)
	}

	endpoints := DefaultEndpoints(creds.Environment, cfg.Endpoints)
	return &ecommerceClient{
		baseURL:  endpoints.ECommerce,
		username: creds.Username,
		password: creds.Secret,
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *ecommerceClient) Flavour() model.APIFlavour {
	return model.FlavourECommerce
}

func (c *ecommerceClient) auth(req *http.Request) {
	req.SetBasicAuth(c.username, c.password)
}

type ecomPayment struct {
	ID                string          `json:"id"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaymentMethodID   string          `json:"paymentMethodId"`
	PaymentMethodType string          `json:"paymentMethodType"`
	Status            []string        `json:"status"`
	Frozen            bool            `json:"frozen"`
	Fraud             bool            `json:"fraud"`
	MetaData          []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"metaData"`
	PaymentDiffs []ecomPaymentDiff `json:"paymentDiffs"`
}

// ecomPaymentDiff is one AUTHORIZE/DEBIT/CREDIT/ANNUL entry in the payment history.
type ecomPaymentDiff struct {
	Type        string `json:"type"`
	PaymentSpec struct {
		TotalAmount decimal.Decimal `json:"totalAmount"`
	} `json:"paymentSpec"`
}

func (p ecomPayment) meta(key string) string {
	for _, m := range p.MetaData {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}

func (p ecomPayment) diffTotal(kind string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.PaymentDiffs {
		if strings.EqualFold(d.Type, kind) {
			total = total.Add(d.PaymentSpec.TotalAmount)
		}
	}
	return total
}

func (c *ecommerceClient) GetPayment(ctx context.Context, reference string) (*model.RemotePayment, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, model.NewPaymentError(model.ErrCodeInvalidRequest, "payment reference is required", nil)
	}

	var p ecomPayment
	if err := doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/payment/"+url.PathEscape(reference), nil, &p, c.auth); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, model.NewRemoteError(model.ErrCodeMalformedResponse, "payment without id", model.ErrMalformedResponse, nil)
	}

	return &model.RemotePayment{
		ID:              p.ID,
		OrderReference:  p.meta("orderReference"),
		Status:          ecommerceStatus(p),
		Flavour:         model.FlavourECommerce,
		PaymentMethodID: p.PaymentMethodID,
		TotalAmount:     p.TotalAmount,
		CapturedAmount:  p.diffTotal("DEBIT"),
		RefundedAmount:  p.diffTotal("CREDIT"),
	}, nil
}

// ecommerceStatus folds the legacy status array and flags into a bitmask.
// A frozen or fraud-flagged payment is only ever reported for inspection.
func ecommerceStatus(p ecomPayment) model.RemoteStatus {
	if p.Frozen || p.Fraud {
		return model.StatusManualInspection
	}

	var s model.RemoteStatus
	for _, st := range p.Status {
		switch strings.ToUpper(st) {
		case "IS_ANNULLED":
			s |= model.StatusAnnulled
		case "IS_CREDITED":
			s |= model.StatusCredited
		case "IS_DEBITED":
			s |= model.StatusCompleted
			if autoDebitMethodTypes[strings.ToUpper(p.PaymentMethodType)] {
				s |= model.StatusAutoDebited
			}
		case "DEBITABLE":
			s |= model.StatusProcessing
		}
	}
	// Credited with nothing left debited: the refund wins over the earlier capture.
	if s.Has(model.StatusCredited) && p.diffTotal("CREDIT").GreaterThanOrEqual(p.diffTotal("DEBIT")) {
		s &^= model.StatusCompleted | model.StatusAutoDebited
	}
	if s == 0 {
		s = model.StatusPending
	}
	return s
}

func (c *ecommerceClient) ValidateCredentials(ctx context.Context) error {
	var registered []map[string]interface{}
	return doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/callbacks", nil, &registered, c.auth)
}

type ecomRegistration struct {
	URITemplate         string `json:"uriTemplate"`
	DigestConfiguration struct {
		DigestAlgorithm  string   `json:"digestAlgorithm"`
		DigestParameters []string `json:"digestParameters"`
		DigestSalt       string   `json:"digestSalt"`
	} `json:"digestConfiguration"`
}

func (c *ecommerceClient) RegisterCallback(ctx context.Context, reg gateway.CallbackRegistration) error {
	if reg.Type == "" || reg.URITemplate == "" {
		return model.NewPaymentError(model.ErrCodeInvalidRequest, "callback type and uri template are required", nil)
	}

	var body ecomRegistration
	body.URITemplate = reg.URITemplate
	body.DigestConfiguration.DigestAlgorithm = "SHA1"
	body.DigestConfiguration.DigestParameters = reg.DigestParameters
	body.DigestConfiguration.DigestSalt = reg.Salt

	endpoint := c.baseURL + "/callbacks/" + url.PathEscape(strings.ToUpper(reg.Type))
	return doJSON(ctx, c.http, http.MethodPost, endpoint, body, nil, c.auth)
}

type ecomPaymentMethod struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	SpecificType string          `json:"specificType"`
	MinLimit     decimal.Decimal `json:"minLimit"`
	MaxLimit     decimal.Decimal `json:"maxLimit"`
}

func (c *ecommerceClient) GetPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	var raw []ecomPaymentMethod
	if err := doJSON(ctx, c.http, http.MethodGet, c.baseURL+"/paymentMethods", nil, &raw, c.auth); err != nil {
		return nil, err
	}

	methods := make([]model.PaymentMethod, 0, len(raw))
	for _, m := range raw {
		typ := m.SpecificType
		if typ == "" {
			typ = m.Type
		}
		methods = append(methods, model.PaymentMethod{
			ID:       m.ID,
			Name:     m.Description,
			Type:     typ,
			MinLimit: m.MinLimit,
			MaxLimit: m.MaxLimit,
		})
	}
	return methods, nil
}
