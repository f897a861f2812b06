package estimate

import (
	"errors"
	"fmt"
)

// ErrEstimation is the sentinel every EstimationError unwraps to.
var ErrEstimation = errors.New("estimation failed")

// Kind classifies why an estimate could not be produced.
type Kind string

const (
	KindCredentialMissing Kind = "credential_missing"
	KindNetwork           Kind = "network"
	KindMalformedResponse Kind = "malformed_response"
	KindOutOfRange        Kind = "out_of_range"
)

// EstimationError is returned when neither the offline table nor the remote
// model produced a usable value. Callers fall back to manual entry.
type EstimationError struct {
	Kind Kind
	Err  error
}

func (e *EstimationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("estimate: %s", e.Kind)
	}
	return fmt.Sprintf("estimate: %s: %v", e.Kind, e.Err)
}

func (e *EstimationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEstimation}
	}
	return []error{ErrEstimation, e.Err}
}

func newError(kind Kind, format string, args ...any) *EstimationError {
	return &EstimationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of an EstimationError in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var eerr *EstimationError
	if errors.As(err, &eerr) {
		return eerr.Kind
	}
	return ""
}
