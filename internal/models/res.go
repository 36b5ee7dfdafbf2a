package models

// ApiResponse is the envelope every handler returns. Failures carry the
// error message in Error with Success false; nothing propagates to the
// client as an unhandled fault.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Total   int    `json:"total,omitempty"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

// ErrorResponseWithMessage pairs a user-facing message with the underlying
// error detail.
func ErrorResponseWithMessage(message, err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Message: message,
		Error:   err,
	}
}
