package dto

import "time"

// ErrorResponse is the JSON body returned for every failed API request.
//
// Fields:
//   - Message: short, user-facing description.
//   - ErrorDetails: underlying error text, if any.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message"`
	ErrorDetails string    `json:"error_details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements error so an ErrorResponse can travel through gin's
// c.Error chain.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
