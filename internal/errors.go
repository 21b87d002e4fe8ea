package contact

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrRateLimited        = errors.New("rate limited")
	ErrVerificationFailed = errors.New("verification failed")
	ErrBadRequest         = errors.New("bad request")
	ErrTooLarge           = errors.New("payload too large")
)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// DeliveryError wraps a relay failure. The cause is logged, never returned to clients.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// errorResult maps a pipeline error to the status and body sent to the client.
func errorResult(err error) (int, Result) {
	var (
		verr *ValidationError
		derr *DeliveryError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, Result{Errors: verr.Fields}
	case errors.Is(err, ErrVerificationFailed):
		return http.StatusForbidden, Result{Error: "reCAPTCHA failed"}
	case errors.As(err, &derr):
		return http.StatusInternalServerError, Result{Error: "Email send failed"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, Result{Error: "Too many requests, please try again later."}
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, Result{Error: "Payload too large"}
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, Result{Error: "Invalid request body"}
	default:
		return http.StatusInternalServerError, Result{Error: "Internal error"}
	}
}
