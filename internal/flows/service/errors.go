package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/llm"
)

// Every failure mode of the pipeline is terminal for the invocation and maps
// to a distinct, user-displayable message. Nothing is retried automatically.
var (
	ErrEmptyInput    = errors.New("please add some content to analyze")
	ErrEmptyResponse = errors.New("no response from the generation service")
)

// MalformedResponseError: the model returned something that is not JSON.
// Raw is kept for diagnostics, never silently dropped.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse JSON response from the generation service: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// InvalidResponseShapeError: valid JSON, but not a non-empty array of features.
type InvalidResponseShapeError struct {
	Reason string
}

func (e *InvalidResponseShapeError) Error() string {
	return "invalid response format: " + e.Reason
}

// HTTPStatus classifies an error for the HTTP layer. Transport failures are
// distinguished from parse/shape failures so the client can suggest "try
// again" versus "rephrase your input".
func HTTPStatus(err error) int {
	var reqErr *llm.RequestError
	switch {
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.As(err, &reqErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		var malformed *MalformedResponseError
		var shape *InvalidResponseShapeError
		if errors.As(err, &malformed) || errors.As(err, &shape) {
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
