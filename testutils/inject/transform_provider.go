package inject

import (
	"sync"
	"time"

	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/spatialmath"
)

// TransformProvider is an injectable referenceframe.TransformProvider that records its calls.
type TransformProvider struct {
	referenceframe.TransformProvider
	LookupFunc func(src, dst string, at time.Time) (spatialmath.Pose, error)

	mu    sync.Mutex
	calls []LookupCall
}

// LookupCall is one recorded Lookup.
type LookupCall struct {
	Src string
	Dst string
}

// Lookup calls the injected Lookup or the real version.
func (tp *TransformProvider) Lookup(src, dst string, at time.Time) (spatialmath.Pose, error) {
	tp.mu.Lock()
	tp.calls = append(tp.calls, LookupCall{Src: src, Dst: dst})
	tp.mu.Unlock()
	if tp.LookupFunc == nil {
		return tp.TransformProvider.Lookup(src, dst, at)
	}
	return tp.LookupFunc(src, dst, at)
}

// Calls returns the lookups made so far.
func (tp *TransformProvider) Calls() []LookupCall {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return append([]LookupCall(nil), tp.calls...)
}
