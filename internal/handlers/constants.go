package handlers

const (
	ErrInvalidRequest      = "Invalid request"
	ErrInvalidModuleID     = "Invalid module id"
	ErrInvalidBubbleID     = "Invalid bubble id"
	ErrInvalidMode         = "Unknown mode"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"

	maxRequestBody = 1 << 10
)
