package model

import (
	"errors"
	"time"
)

// Host order statuses.
const (
	StatusPending    = "pending"
	StatusOnHold     = "on-hold"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
	StatusFailed     = "failed"
)

// KnownStatuses lists every status an order may be moved to.
var KnownStatuses = []string{
	StatusPending,
	StatusOnHold,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
	StatusFailed,
}

// =====================================================
// METADATA KEYS
// =====================================================

const (
	MetaResursReference    = "resursReference"
	MetaPluginReference    = "resursbank_reference"
	MetaPaymentID          = "paymentId"
	MetaPaymentIDLast      = "paymentIdLast"
	MetaDefaultReference   = "resursDefaultReference"
	MetaCredentialSnapshot = "resursCredentialSnapshot"
	MetaAPIFlavour         = "resursApiFlavour"
)

// ReferenceKeys is the search order used to map a payment reference to an order.
// Earlier keys win when an order was touched by more than one plugin generation.
var ReferenceKeys = []string{
	MetaResursReference,
	MetaPluginReference,
	MetaPaymentID,
	MetaPaymentIDLast,
	MetaDefaultReference,
}

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrReferenceInUse = errors.New("payment reference already stored on another order")
)

type Order struct {
	ID            int64     `json:"id"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Note struct {
	OrderID   int64     `json:"order_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
