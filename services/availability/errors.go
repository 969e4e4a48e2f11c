package availability

import (
	"errors"
	"fmt"
)

// Kind classifies scheduling failures surfaced to callers.
type Kind string

const (
	KindValidation          Kind = "ValidationError"
	KindProviderUnavailable Kind = "ProviderUnavailable"
	KindBookingFailed       Kind = "BookingFailed"
	KindSlotMismatch        Kind = "SlotMismatch"
)

// Sentinels for errors.Is matching on kind.
var (
	ErrValidation          = &SchedulingError{Kind: KindValidation}
	ErrProviderUnavailable = &SchedulingError{Kind: KindProviderUnavailable}
	ErrBookingFailed       = &SchedulingError{Kind: KindBookingFailed}
	ErrSlotMismatch        = &SchedulingError{Kind: KindSlotMismatch}
)

// SchedulingError carries a kind, a human readable detail and the underlying cause.
type SchedulingError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *SchedulingError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// Is matches any SchedulingError of the same kind.
func (e *SchedulingError) Is(target error) bool {
	t, ok := target.(*SchedulingError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the scheduling kind of err, or "" if err is not a SchedulingError.
func KindOf(err error) Kind {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func validationError(format string, args ...any) error {
	return &SchedulingError{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func providerUnavailable(op string, err error) error {
	return &SchedulingError{Kind: KindProviderUnavailable, Detail: fmt.Sprintf("%s: %v", op, err), Err: err}
}

// NewValidationError is used by callers that validate at the boundary.
func NewValidationError(detail string) error {
	return &SchedulingError{Kind: KindValidation, Detail: detail}
}

// ProviderRejection is returned by calendar adapters when the provider refused a write.
// Any other adapter error is treated as the provider being unavailable.
type ProviderRejection struct {
	Reason string
}

func (r *ProviderRejection) Error() string {
	return "provider rejected request: " + r.Reason
}
