package youtube

import "fmt"

// APIError is a non-2xx response from the YouTube Data API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api request failed (%d, %s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api request failed (%d): %s", e.StatusCode, e.Message)
}

// errorEnvelope is the Google API error response body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func (e *errorEnvelope) apiError(statusCode int) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    e.Error.Message,
	}
	if len(e.Error.Errors) > 0 {
		apiErr.Reason = e.Error.Errors[0].Reason
	}
	if apiErr.Message == "" {
		apiErr.Message = "unexpected response"
	}
	return apiErr
}
