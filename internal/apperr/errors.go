package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation (HTTP 400).
var ErrInvalid = errors.New("invalid input")

// ErrUnauthenticated is returned when the credential is missing or invalid (HTTP 401).
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when the caller may not perform the action (HTTP 403).
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that the requested resource does not exist (HTTP 404).
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a state conflict, such as a lost status race (HTTP 409).
var ErrConflict = errors.New("conflict")

// Reason is a machine-readable rejection code returned to callers.
type Reason string

// List of reason codes
const (
	ReasonBadRequest            Reason = "bad_request"
	ReasonSameOriginDestination Reason = "same_origin_destination"
	ReasonInvalidReference      Reason = "invalid_reference"
	ReasonInvalidFilter         Reason = "invalid_filter"
	ReasonNotFound              Reason = "not_found"
	ReasonInvalidTransition     Reason = "invalid_transition"
	ReasonNotAssignedWarehouse  Reason = "not_assigned_warehouse"
	ReasonNotAssignedCarrier    Reason = "not_assigned_carrier"
	ReasonWrongRole             Reason = "wrong_role"
	ReasonNotInTransit          Reason = "not_in_transit"
	ReasonUnauthenticated       Reason = "unauthenticated"
	ReasonInvalidCredentials    Reason = "invalid_credentials"
	ReasonAlreadyExists         Reason = "already_exists"
)

// Error is a typed rejection: one of the kinds above plus a reason code.
type Error struct {
	Kind   error
	Reason Reason
}

// New returns an *Error of the given kind.
func New(kind error, reason Reason) error {
	return &Error{Kind: kind, Reason: reason}
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + string(e.Reason)
}

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error { return e.Kind }

// ReasonOf extracts the reason code from err, if it carries one.
func ReasonOf(err error) (Reason, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}

// IsDomain reports whether err is one of the typed rejections rather than an
// infrastructure failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrInvalid) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
