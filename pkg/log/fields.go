package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware keys)
	FieldUserID   = "user_id"
	FieldUserName = "user_name"

	// Domain
	FieldPhemeID  = "pheme_id"
	FieldTargetID = "target_id"

	// Service
	FieldService = "service"
)
