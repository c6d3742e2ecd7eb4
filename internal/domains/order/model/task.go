package model

// StatusUpdate is the payload of a queued order status transition.
type StatusUpdate struct {
	OrderID      int64  `json:"order_id"`
	TargetStatus string `json:"target_status"`
	Note         string `json:"note"`
	AutoDebited  bool   `json:"auto_debited"`
	Reference    string `json:"reference,omitempty"`
	Source       string `json:"source,omitempty"` // callback type or "return"
}
