package model

import "time"

// Option keys persisted in the options store.
const (
	KeyCallbackSalt         = "resurs_callback_salt"
	KeyCallbackTestReceived = "resurs_callback_test_received"
	KeyCallbacksRegistered  = "resurs_callbacks_registered"
)

// Option is one plugin-wide key/value setting.
type Option struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
