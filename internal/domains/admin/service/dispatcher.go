package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"resursbank-gateway/internal/domains/admin/model"
	callbackService "resursbank-gateway/internal/domains/callback/service"
	optionModel "resursbank-gateway/internal/domains/option/model"
	optionRepo "resursbank-gateway/internal/domains/option/repository"
	orderRepo "resursbank-gateway/internal/domains/order/repository"
	orderService "resursbank-gateway/internal/domains/order/service"
	"resursbank-gateway/internal/domains/payment/mapper"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	paymentService "resursbank-gateway/internal/domains/payment/service"
	"resursbank-gateway/internal/infrastructure/queue"
	"resursbank-gateway/internal/shared"
)

// HandlerFunc runs one admin command.
type HandlerFunc func(ctx context.Context, args model.Args) (interface{}, error)

// Deps are the collaborators the admin commands reach into.
type Deps struct {
	Payments paymentService.Service
	Resolver orderService.ReferenceResolver
	Orders   orderRepo.Repository
	Options  optionRepo.Repository
	Mapper   *mapper.StatusMapper
	Queue    queue.Enqueuer
}

// Dispatcher maps each Command to its handler; the map is fixed at construction.
type Dispatcher struct {
	handlers map[model.Command]HandlerFunc
	deps     Deps
}

func NewDispatcher(deps Deps) *Dispatcher {
	d := &Dispatcher{deps: deps}
	d.handlers = map[model.Command]HandlerFunc{
		model.CommandValidateCredentials: d.validateCredentials,
		model.CommandCallbackTestStatus:  d.callbackTestStatus,
		model.CommandRegisterCallbacks:   d.registerCallbacks,
		model.CommandPaymentStatus:       d.paymentStatus,
		model.CommandPaymentMethods:      d.paymentMethods,
	}
	return d
}

// Dispatch runs the named command. Unknown names yield *model.UnknownCommandError.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args model.Args) (interface{}, error) {
	handler, ok := d.handlers[model.Command(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, &model.UnknownCommandError{Name: name}
	}
	if args == nil {
		args = model.Args{}
	}
	return handler(ctx, args)
}

// Commands lists the registered command names, sorted.
func (d *Dispatcher) Commands() []model.Command {
	out := make([]model.Command, 0, len(d.handlers))
	for c := range d.handlers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// =====================================================
// COMMAND HANDLERS
// =====================================================

func (d *Dispatcher) validateCredentials(ctx context.Context, _ model.Args) (interface{}, error) {
	return d.deps.Payments.ValidateCredentials(ctx)
}

func (d *Dispatcher) paymentMethods(ctx context.Context, _ model.Args) (interface{}, error) {
	return d.deps.Payments.PaymentMethods(ctx)
}

func (d *Dispatcher) callbackTestStatus(ctx context.Context, _ model.Args) (interface{}, error) {
	opt, err := d.deps.Options.Get(ctx, optionModel.KeyCallbackTestReceived)
	if err != nil {
		return nil, err
	}
	if opt == nil || opt.Value == "" {
		return model.CallbackTestStatus{}, nil
	}
	return model.CallbackTestStatus{Received: true, ReceivedAt: opt.Value}, nil
}

func (d *Dispatcher) registerCallbacks(ctx context.Context, _ model.Args) (interface{}, error) {
	payload := callbackService.RegisterPayload{Reason: "admin"}
	if err := d.deps.Queue.Enqueue(ctx, shared.TypeCallbackRegister, payload); err != nil {
		return nil, fmt.Errorf("queue callback registration: %w", err)
	}
	return map[string]bool{"queued": true}, nil
}

func (d *Dispatcher) paymentStatus(ctx context.Context, args model.Args) (interface{}, error) {
	reference := args["reference"]
	if err := validation.Validate(reference, validation.Required, validation.Length(1, 128)); err != nil {
		return nil, paymentModel.NewPaymentError(paymentModel.ErrCodeInvalidRequest, "reference: "+err.Error(), err)
	}

	orderID, err := d.deps.Resolver.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}

	payment, err := d.deps.Payments.FetchRemotePayment(ctx, orderID, reference)
	if err != nil {
		return nil, err
	}

	report := model.PaymentStatusReport{
		Reference:    reference,
		OrderID:      orderID,
		RemoteStatus: payment.Status.String(),
	}
	if target, resolved, ok := d.deps.Mapper.Map(payment.Status); ok {
		report.Resolved = resolved.String()
		report.TargetStatus = target
	}

	if orderID != 0 {
		order, err := d.deps.Orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		report.OrderStatus = order.Status
		report.InSync = report.TargetStatus == "" || strings.EqualFold(order.Status, report.TargetStatus)
	}
	return report, nil
}
