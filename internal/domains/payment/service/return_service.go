package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderModel "resursbank-gateway/internal/domains/order/model"
	orderRepo "resursbank-gateway/internal/domains/order/repository"
	orderService "resursbank-gateway/internal/domains/order/service"
	"resursbank-gateway/internal/domains/payment/mapper"
	"resursbank-gateway/internal/domains/payment/model"
	"resursbank-gateway/pkg/logger"
)

// SourceCustomerReturn tags status updates triggered by the checkout redirect.
const SourceCustomerReturn = "return"

type returnService struct {
	orders   orderRepo.Repository
	payments Service
	mapper   *mapper.StatusMapper
	updater  orderService.StatusUpdater
}

func NewReturnService(orders orderRepo.Repository, payments Service, m *mapper.StatusMapper, updater orderService.StatusUpdater) ReturnService {
	return &returnService{
		orders:   orders,
		payments: payments,
		mapper:   m,
		updater:  updater,
	}
}

func (s *returnService) HandleReturn(ctx context.Context, orderID int64, reference string) (*ReturnResult, error) {
	if orderID <= 0 || strings.TrimSpace(reference) == "" {
		return nil, model.NewPaymentError(model.ErrCodeInvalidRequest, "order_id and ref are required", nil)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.NewPaymentError(model.ErrCodeOrderNotFound, fmt.Sprintf("order %d not found", orderID), err)
		}
		return nil, err
	}

	meta, err := s.orders.GetMeta(ctx, orderID, orderModel.ReferenceKeys)
	if err != nil {
		return nil, err
	}
	if !hasReference(meta, reference) {
		return nil, model.NewPaymentError(model.ErrCodeReferenceMismatch,
			fmt.Sprintf("reference %s does not belong to order %d", reference, orderID), model.ErrReferenceMismatch)
	}

	payment, err := s.payments.FetchRemotePayment(ctx, orderID, reference)
	if err != nil {
		return nil, err
	}

	result := &ReturnResult{
		OrderID:      orderID,
		Reference:    reference,
		RemoteStatus: payment.Status.String(),
	}

	target, resolved, ok := s.mapper.Map(payment.Status)
	if !ok {
		logger.Info("customer return without mappable status", map[string]interface{}{
			"order_id": orderID,
			"status":   payment.Status.String(),
		})
		return result, nil
	}
	result.TargetStatus = target

	if strings.EqualFold(order.Status, target) {
		return result, nil
	}

	s.updater.Queue(ctx, orderModel.StatusUpdate{
		OrderID:      orderID,
		TargetStatus: target,
		Note:         fmt.Sprintf("Resurs Bank: customer returned from checkout, payment %s (%s).", reference, resolved),
		AutoDebited:  payment.Status.Has(model.StatusAutoDebited),
		Reference:    reference,
		Source:       SourceCustomerReturn,
	})
	result.Queued = true
	return result, nil
}

func hasReference(meta map[string]string, reference string) bool {
	for _, v := range meta {
		if v == reference {
			return true
		}
	}
	return false
}
