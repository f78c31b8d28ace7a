package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
//
// Fields:
//   - Message: human readable summary (e.g., "invalid filter parameters").
//   - ErrorDetails: the underlying error text, omitted when there is none.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid filter parameters"`
	ErrorDetails string    `json:"error,omitempty" example:"Unknown preset \"bogus\". Valid presets: details, info"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can travel through
// gin's c.Errors.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
//
// Parameters:
//   - message (string): summary shown to the client.
//   - err (error): optional cause; nil leaves ErrorDetails empty.
//
// Returns:
//   - ErrorResponse: ready to be serialized with c.JSON.
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
