// Package log holds shared structured-logging vocabulary so field names
// stay consistent across components.
package log

// Common field names for structured logging.
const (
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldTransactionID = "transaction_id"
	FieldTitle         = "title"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldMonth         = "month"
	FieldBackend       = "backend"
	FieldStateKey      = "state_key"
)
