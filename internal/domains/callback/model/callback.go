package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Type is the callback type tag sent in the "c" parameter.
type Type string

const (
	TypeUnfreeze              Type = "UNFREEZE"
	TypeAnnulment             Type = "ANNULMENT"
	TypeAutomaticFraudControl Type = "AUTOMATIC_FRAUD_CONTROL"
	TypeFinalization          Type = "FINALIZATION"
	TypeTest                  Type = "TEST"
	TypeUpdate                Type = "UPDATE"
	TypeBooked                Type = "BOOKED"
)

// Types lists every callback type registered with the provider.
var Types = []Type{
	TypeUnfreeze,
	TypeAnnulment,
	TypeAutomaticFraudControl,
	TypeFinalization,
	TypeTest,
	TypeUpdate,
	TypeBooked,
}

// Digest template parameters.
const (
	ParamPaymentID = "paymentId"
	ParamResult    = "result"
)

// DigestParameters are the template parameters the provider hashes for t, in order.
func (t Type) DigestParameters() []string {
	if t == TypeAutomaticFraudControl {
		return []string{ParamPaymentID, ParamResult}
	}
	return []string{ParamPaymentID}
}

// Request is one inbound callback.
type Request struct {
	Type      Type
	Reference string
	Digest    string
	Random    string
	// Result is the fraud-control verdict (FROZEN/THAWED). Only AUTOMATIC_FRAUD_CONTROL hashes it.
	Result string
	Extra  map[string]string
}

// Normalize upper-cases the type and trims every parameter.
func (r Request) Normalize() Request {
	r.Type = Type(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	r.Reference = strings.TrimSpace(r.Reference)
	r.Digest = strings.TrimSpace(r.Digest)
	r.Random = strings.TrimSpace(r.Random)
	r.Result = strings.TrimSpace(r.Result)
	return r
}

// DigestValues returns the values hashed for r: the registered parameters of
// its type followed by the random component.
func (r Request) DigestValues() []string {
	params := r.Type.DigestParameters()
	values := make([]string, 0, len(params)+1)
	for _, p := range params {
		switch p {
		case ParamPaymentID:
			values = append(values, r.Reference)
		case ParamResult:
			values = append(values, r.Result)
		}
	}
	return append(values, r.Random)
}

func (r Request) Validate() error {
	allowed := make([]interface{}, len(Types))
	for i, t := range Types {
		allowed[i] = t
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(allowed...)),
		validation.Field(&r.Reference, validation.Length(0, 128)),
	)
}

// =====================================================
// REPLY
// =====================================================

// Reply is the fixed JSON envelope returned to the provider.
type Reply struct {
	AliveConfirm bool   `json:"aliveConfirm"`
	Actual       string `json:"actual"`
	DigestCode   string `json:"digestCode"`
}

// Digest codes.
const (
	DigestCodeRejected = "Digest rejected"
	DigestCodeAccepted = "Accepted"
	DigestCodeOK       = "200"
)

// Outcome is the terminal state a callback reached.
type Outcome int

const (
	OutcomeRejected Outcome = iota + 1
	OutcomeUnknownReference
	OutcomeMissingReference
	OutcomeQueued
	OutcomeNoChange
	OutcomeTestRecorded
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeRejected:         "rejected",
	OutcomeUnknownReference: "unknown_reference",
	OutcomeMissingReference: "missing_reference",
	OutcomeQueued:           "queued",
	OutcomeNoChange:         "no_change",
	OutcomeTestRecorded:     "test_recorded",
	OutcomeFailed:           "failed",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return "unknown"
}

// Result is what the endpoint writes back plus what happened.
type Result struct {
	Outcome      Outcome
	HTTPStatus   int
	Reply        Reply
	OrderID      int64
	TargetStatus string
}
