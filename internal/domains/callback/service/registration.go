package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resursbank-gateway/internal/domains/callback/model"
	optionModel "resursbank-gateway/internal/domains/option/model"
	optionRepo "resursbank-gateway/internal/domains/option/repository"
	"resursbank-gateway/internal/domains/payment/credentials"
	"resursbank-gateway/internal/domains/payment/gateway"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/pkg/logger"
)

// RegisterPayload is the body of a callback:register task.
type RegisterPayload struct {
	Reason string `json:"reason"`
}

// RegistrationReport summarises one RegisterAll run.
type RegistrationReport struct {
	Registered []string          `json:"registered"`
	Skipped    []string          `json:"skipped,omitempty"`
	Failed     map[string]string `json:"failed,omitempty"`
}

// Registrar tells the provider where to send callbacks and which salt to digest with.
type Registrar interface {
	RegisterAll(ctx context.Context) (*RegistrationReport, error)
}

type registrar struct {
	resolver *credentials.Resolver
	digest   DigestValidator
	options  optionRepo.Repository
	baseURL  string
	now      func() time.Time
}

func NewRegistrar(resolver *credentials.Resolver, digest DigestValidator, options optionRepo.Repository, baseURL string, now func() time.Time) Registrar {
	if now == nil {
		now = time.Now
	}
	return &registrar{
		resolver: resolver,
		digest:   digest,
		options:  options,
		baseURL:  baseURL,
		now:      now,
	}
}

func (r *registrar) RegisterAll(ctx context.Context) (*RegistrationReport, error) {
	gateways, err := r.resolver.Gateways()
	if err != nil {
		return nil, err
	}
	if len(gateways) == 0 {
		active, _ := r.resolver.Active()
		return nil, paymentModel.NewCredentialsNotConfiguredError(active.Environment)
	}

	salt, err := r.digest.CurrentSalt(ctx)
	if err != nil {
		return nil, err
	}

	report := &RegistrationReport{Failed: map[string]string{}}
	var errs []error

	for _, gw := range gateways {
		flavour := string(gw.Flavour())
		for _, t := range model.Types {
			err := gw.RegisterCallback(ctx, gateway.CallbackRegistration{
				Type:             string(t),
				URITemplate:      URITemplate(r.baseURL, t),
				Salt:             salt,
				DigestParameters: t.DigestParameters(),
			})
			if errors.Is(err, paymentModel.ErrRegistrationNotSupported) {
				report.Skipped = append(report.Skipped, flavour)
				break
			}
			key := flavour + ":" + string(t)
			if err != nil {
				report.Failed[key] = err.Error()
				errs = append(errs, fmt.Errorf("register %s: %w", key, err))
				continue
			}
			report.Registered = append(report.Registered, key)
		}
	}

	if len(report.Registered) > 0 {
		now := r.now()
		if err := r.options.Set(ctx, optionModel.KeyCallbacksRegistered, now.UTC().Format(time.RFC3339), now); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info("callback registration finished", map[string]interface{}{
		"registered": len(report.Registered),
		"skipped":    report.Skipped,
		"failed":     len(report.Failed),
	})
	return report, errors.Join(errs...)
}

// URITemplate builds the callback URL the provider expands per payment.
func URITemplate(baseURL string, t model.Type) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	tmpl := baseURL + sep + "c=" + string(t) + "&p={paymentId}&d={digest}"
	if t == model.TypeAutomaticFraudControl {
		tmpl += "&result={result}"
	}
	return tmpl
}
