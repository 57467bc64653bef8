package metadata

import (
	"em27-metadata/internal/timeseries"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("metadata integrity check failed")
	ErrUnknownSensor     = errors.New("unknown sensor")
	ErrInvalidRange      = errors.New("invalid time range")
	ErrInternalInvariant = errors.New("internal invariant violated")
)

type ViolationKind string

const (
	ViolationDuplicateID      ViolationKind = "DUPLICATE_ID"
	ViolationUnknownReference ViolationKind = "UNKNOWN_REFERENCE"
	ViolationInvalidSeries    ViolationKind = "INVALID_SERIES"
)

// Violation is a single failed integrity check. IDs names the offending entities, starting with the one
// the check was run on.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	IDs     []string      `json:"ids"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// ValidationError lists every integrity violation found while building a catalog.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for idx, v := range e.Violations {
		messages[idx] = v.String()
	}
	return fmt.Sprintf("%v (%d violations): %s", ErrValidation, len(e.Violations), strings.Join(messages, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether any violation of the given kind names id.
func (e *ValidationError) Has(kind ViolationKind, id string) bool {
	for _, v := range e.Violations {
		if v.Kind != kind {
			continue
		}
		for _, vid := range v.IDs {
			if vid == id {
				return true
			}
		}
	}
	return false
}

// InvariantError signals a bug: the catalog passed validation, yet resolving a query hit an impossible state.
type InvariantError struct {
	SensorID string
	Segment  timeseries.Interval
	Reason   string
	Err      error
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("%v: sensor %q, segment %s: %s", ErrInternalInvariant, e.SensorID, e.Segment, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInternalInvariant
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
