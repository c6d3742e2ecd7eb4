package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderModel "resursbank-gateway/internal/domains/order/model"
	orderRepo "resursbank-gateway/internal/domains/order/repository"
	"resursbank-gateway/internal/domains/payment/credentials"
	"resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/pkg/cache"
	"resursbank-gateway/pkg/logger"
)

const paymentMethodsCacheKey = "payment_methods"

type paymentService struct {
	resolver   *credentials.Resolver
	orders     orderRepo.Repository
	cache      cache.Cache
	methodsTTL time.Duration
}

// NewPaymentService wires the remote API behind the credential resolver.
// c may be nil, in which case payment methods are fetched on every call.
func NewPaymentService(resolver *credentials.Resolver, orders orderRepo.Repository, c cache.Cache, methodsTTL time.Duration) Service {
	return &paymentService{
		resolver:   resolver,
		orders:     orders,
		cache:      c,
		methodsTTL: methodsTTL,
	}
}

// =====================================================
// REMOTE LOOKUPS
// =====================================================

// FetchRemotePayment reads a payment through the credentials the order was
// created under. Orders without a snapshot that the active credentials cannot
// see are retried on the secondary (legacy) credentials.
func (s *paymentService) FetchRemotePayment(ctx context.Context, orderID int64, reference string) (*model.RemotePayment, error) {
	snapshot := ""
	if orderID > 0 {
		meta, err := s.orders.GetMeta(ctx, orderID, []string{orderModel.MetaCredentialSnapshot})
		if err != nil {
			return nil, fmt.Errorf("read credential snapshot: %w", err)
		}
		snapshot = meta[orderModel.MetaCredentialSnapshot]
	}

	gw, err := s.resolver.Connect(snapshot)
	if err == nil {
		var payment *model.RemotePayment
		payment, err = gw.GetPayment(ctx, reference)
		if err == nil || snapshot != "" || !errors.Is(err, model.ErrPaymentNotFound) {
			return payment, err
		}
	} else if snapshot != "" || !errors.Is(err, model.ErrCredentialsNotConfigured) {
		return nil, err
	}

	secondary, ok, serr := s.resolver.SecondaryGateway()
	if serr != nil || !ok {
		return nil, err
	}
	logger.Debug("payment not reachable with active credentials, trying secondary", map[string]interface{}{
		"order_id":  orderID,
		"reference": reference,
		"reason":    err.Error(),
	})
	return secondary.GetPayment(ctx, reference)
}

func (s *paymentService) AlternateReferences(ctx context.Context, reference string) ([]string, error) {
	gateways, err := s.resolver.Gateways()
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, gw := range gateways {
		p, err := gw.GetPayment(ctx, reference)
		if errors.Is(err, model.ErrPaymentNotFound) {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}

		var out []string
		for _, alt := range []string{p.OrderReference, p.ID} {
			if alt != "" && alt != reference {
				out = append(out, alt)
			}
		}
		return out, nil
	}
	return nil, lastErr
}

// =====================================================
// LINK PAYMENT
// =====================================================

func (s *paymentService) LinkPayment(ctx context.Context, req LinkRequest) (*LinkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPaymentError(model.ErrCodeInvalidRequest, err.Error(), err)
	}

	if _, err := s.orders.GetByID(ctx, req.OrderID); err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.NewPaymentError(model.ErrCodeOrderNotFound, fmt.Sprintf("order %d not found", req.OrderID), err)
		}
		return nil, err
	}

	owner, err := s.orders.FindOrderIDByMeta(ctx, orderModel.MetaResursReference, req.Reference)
	if err != nil {
		return nil, err
	}
	if owner != 0 && owner != req.OrderID {
		return nil, referenceConflict(req.Reference, owner, nil)
	}

	current, err := s.orders.GetMeta(ctx, req.OrderID, []string{orderModel.MetaResursReference})
	if err != nil {
		return nil, err
	}

	flavour := req.Flavour
	if flavour == "" {
		flavour = string(model.FlavourMerchantAPI)
	}

	result := &LinkResult{OrderID: req.OrderID, Reference: req.Reference}
	values := map[string]string{
		orderModel.MetaResursReference: req.Reference,
		orderModel.MetaPaymentID:       req.Reference,
		orderModel.MetaAPIFlavour:      flavour,
	}
	if prev := current[orderModel.MetaResursReference]; prev != "" && prev != req.Reference {
		values[orderModel.MetaPaymentIDLast] = prev
		result.PreviousReference = prev
	}

	snapshot, err := s.resolver.Snapshot()
	switch {
	case err == nil:
		values[orderModel.MetaCredentialSnapshot] = snapshot
		result.SnapshotStored = true
	case errors.Is(err, model.ErrSnapshotUnavailable), errors.Is(err, model.ErrCredentialsNotConfigured):
		logger.Debug("credential snapshot skipped", map[string]interface{}{
			"order_id": req.OrderID,
			"reason":   err.Error(),
		})
	default:
		return nil, err
	}

	if err := s.orders.SetMeta(ctx, req.OrderID, values); err != nil {
		if errors.Is(err, orderModel.ErrReferenceInUse) {
			return nil, referenceConflict(req.Reference, 0, err)
		}
		return nil, err
	}

	logger.Info("payment linked to order", map[string]interface{}{
		"order_id":  req.OrderID,
		"reference": req.Reference,
		"flavour":   flavour,
		"previous":  result.PreviousReference,
	})
	return result, nil
}

func referenceConflict(reference string, owner int64, cause error) error {
	msg := fmt.Sprintf("reference %s already linked to another order", reference)
	if owner != 0 {
		msg = fmt.Sprintf("reference %s already linked to order %d", reference, owner)
	}
	return model.NewRemoteError(model.ErrCodeReferenceConflict, msg, model.ErrReferenceConflict, cause)
}

// =====================================================
// PAYMENT METHODS & CREDENTIALS
// =====================================================

func (s *paymentService) PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	creds, ok := s.resolver.Active()
	if !ok {
		return nil, model.NewCredentialsNotConfiguredError(creds.Environment)
	}

	key := fmt.Sprintf("%s:%s:%s:%s", paymentMethodsCacheKey, creds.Environment, creds.Flavour, creds.Username)
	return cache.GetOrCompute(ctx, s.cache, key, s.methodsTTL, func(ctx context.Context) ([]model.PaymentMethod, error) {
		gw, err := s.resolver.Primary()
		if err != nil {
			return nil, err
		}
		return gw.GetPaymentMethods(ctx)
	})
}

func (s *paymentService) ValidateCredentials(ctx context.Context) ([]CredentialCheck, error) {
	candidates := s.resolver.Candidates()
	if len(candidates) == 0 {
		active, _ := s.resolver.Active()
		return nil, model.NewCredentialsNotConfiguredError(active.Environment)
	}

	gateways, err := s.resolver.Gateways()
	if err != nil {
		return nil, err
	}

	checks := make([]CredentialCheck, 0, len(gateways))
	for i, gw := range gateways {
		c := candidates[i]
		check := CredentialCheck{
			Environment: c.Environment,
			Flavour:     gw.Flavour(),
			Username:    c.Username,
			Valid:       true,
		}
		if err := gw.ValidateCredentials(ctx); err != nil {
			check.Valid = false
			check.Error = err.Error()
			logger.Warn("credential validation failed", map[string]interface{}{
				"environment": c.Environment,
				"flavour":     c.Flavour,
				"error":       err.Error(),
			})
		}
		checks = append(checks, check)
	}
	return checks, nil
}
