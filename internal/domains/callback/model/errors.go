package model

import (
	"errors"
	"fmt"
)

var ErrInvalidCallback = errors.New("invalid callback request")

const (
	ErrCodeInternal        = "CB000"
	ErrCodeInvalidCallback = "CB001"
	ErrCodeSaltUnavailable = "CB002"
	ErrCodeReferenceLookup = "CB003"
	ErrCodeOptionsStore    = "CB004"
)

type CallbackError struct {
	Code    string
	Message string
	Err     error
}

func (e *CallbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

func NewCallbackError(code, message string, err error) *CallbackError {
	return &CallbackError{Code: code, Message: message, Err: err}
}
