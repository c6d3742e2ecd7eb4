package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrCredentialsNotConfigured = errors.New("api credentials not configured")
	ErrPaymentNotFound          = errors.New("remote payment not found")
	ErrRemoteUnavailable        = errors.New("remote payment api unavailable")
	ErrRemoteUnauthorized       = errors.New("remote payment api rejected credentials")
	ErrMalformedResponse        = errors.New("malformed remote response")
	ErrSnapshotUnavailable      = errors.New("credential snapshot unavailable")
	ErrReferenceConflict        = errors.New("reference already linked to another order")
	ErrReferenceMismatch        = errors.New("reference does not belong to order")
	ErrRegistrationNotSupported = errors.New("callback registration not supported by api flavour")
)

// =====================================================
// ERROR CODES
// =====================================================

const (
	ErrCodeCredentialsNotConfigured = "PAY001"
	ErrCodeRemoteUnavailable        = "PAY002"
	ErrCodeRemoteUnauthorized       = "PAY003"
	ErrCodePaymentNotFound          = "PAY004"
	ErrCodeMalformedResponse        = "PAY005"
	ErrCodeInvalidRequest           = "PAY006"
	ErrCodeReferenceConflict        = "PAY007"
	ErrCodeOrderNotFound            = "PAY008"
	ErrCodeReferenceMismatch        = "PAY009"
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{Code: code, Message: message, Err: err}
}

func NewCredentialsNotConfiguredError(env Environment) *PaymentError {
	return NewPaymentError(
		ErrCodeCredentialsNotConfigured,
		fmt.Sprintf("no API credentials configured for environment %s", env),
		ErrCredentialsNotConfigured,
	)
}

func NewRemoteError(code, message string, sentinel, cause error) *PaymentError {
	if cause == nil {
		return NewPaymentError(code, message, sentinel)
	}
	return NewPaymentError(code, message, fmt.Errorf("%w: %w", sentinel, cause))
}
