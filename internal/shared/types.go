package shared

// Task types handled by cmd/worker.
const (
	TypeOrderUpdateStatus  = "order:update_status"
	TypeCallbackRegister   = "callback:register"
	TypeCallbackRotateSalt = "callback:rotate_salt"
)

// Queue names and their asynq priority weights.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Context keys set by middleware.
const (
	ContextRequestID = "request_id"
	ContextClientIP  = "client_ip"
	ContextSubject   = "subject"
	ContextScope     = "scope"
)
