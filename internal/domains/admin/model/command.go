package model

import (
	"errors"
	"fmt"
)

// Command is the closed set of admin operations.
type Command string

const (
	CommandValidateCredentials Command = "validate_credentials"
	CommandCallbackTestStatus  Command = "callback_test_status"
	CommandRegisterCallbacks   Command = "register_callbacks"
	CommandPaymentStatus       Command = "payment_status"
	CommandPaymentMethods      Command = "payment_methods"
)

var ErrUnknownCommand = errors.New("unknown admin command")

// UnknownCommandError names the rejected command; it matches ErrUnknownCommand.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCommand, e.Name)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// Args are the command arguments posted as a JSON object.
type Args map[string]string

// CallbackTestStatus reports the last TEST callback.
type CallbackTestStatus struct {
	Received   bool   `json:"received"`
	ReceivedAt string `json:"received_at,omitempty"`
}

// PaymentStatusReport is the reconciliation view of one reference.
type PaymentStatusReport struct {
	Reference    string `json:"reference"`
	OrderID      int64  `json:"order_id,omitempty"`
	OrderStatus  string `json:"order_status,omitempty"`
	RemoteStatus string `json:"remote_status"`
	Resolved     string `json:"resolved,omitempty"`
	TargetStatus string `json:"target_status,omitempty"`
	InSync       bool   `json:"in_sync"`
}
