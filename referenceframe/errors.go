package referenceframe

import (
	"errors"
	"fmt"
)

// TransformErrorKind classifies why a transform lookup failed.
type TransformErrorKind int

const (
	// UnknownFrame means one of the frames is not part of the frame system.
	UnknownFrame TransformErrorKind = iota + 1
	// Extrapolation means the newest transform on the path is too old (or too new) for the
	// requested time.
	Extrapolation
	// NoData means a frame exists but has never received a transform.
	NoData
)

func (k TransformErrorKind) String() string {
	switch k {
	case UnknownFrame:
		return "unknown frame"
	case Extrapolation:
		return "extrapolation"
	case NoData:
		return "no data"
	default:
		return fmt.Sprintf("TransformErrorKind(%d)", int(k))
	}
}

// TransformError is returned by every failed Lookup. It never escapes as a panic; callers branch
// on it with errors.As.
type TransformError struct {
	Kind   TransformErrorKind
	Src    string
	Dst    string
	Detail string
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("cannot transform from %q to %q: %s", e.Src, e.Dst, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsTransformError reports whether err is (or wraps) a TransformError of any kind.
func IsTransformError(err error) bool {
	var tfErr *TransformError
	return errors.As(err, &tfErr)
}

// NewParentFrameMissingError returns an error indicating that a frame is missing a parent.
func NewParentFrameMissingError(name string) error {
	return fmt.Errorf("parent frame for %q is empty", name)
}

// NewFrameAlreadyExistsError is returned when adding a frame whose name is taken.
func NewFrameAlreadyExistsError(name string) error {
	return fmt.Errorf("frame with name %q already in frame system", name)
}
