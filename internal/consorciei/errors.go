package consorciei

import "fmt"

// APIError is the typed failure returned after retries are exhausted. Message
// carries the human-readable text delivered in the API's JSON error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("consorciei: status=%d message=%s", e.StatusCode, e.Message)
}

type UnprocessableEntityError struct{ APIError }

type EntityNotFoundError struct{ APIError }

type InternalServerError struct{ APIError }

func newAPIError(statusCode int, message string) error {
	base := APIError{StatusCode: statusCode, Message: message}
	switch statusCode {
	case 422:
		return &UnprocessableEntityError{base}
	case 404:
		return &EntityNotFoundError{base}
	case 500:
		return &InternalServerError{base}
	default:
		return &base
	}
}
