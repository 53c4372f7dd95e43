package motionplan

import "errors"

// Reasons a planning call can fail. Errors returned by RegionPlanner.MakePlan match exactly one of
// these with errors.Is and unwrap to the underlying cause, if any.
var (
	ErrNotInitialized          = errors.New("planner has not been initialized")
	ErrNoConstraint            = errors.New("no goal constraint given")
	ErrStartOffGrid            = errors.New("start pose is outside the costmap")
	ErrTransformUnavailable    = errors.New("transform between grid and constraint frames unavailable")
	ErrConstraintCompileFailed = errors.New("goal constraint failed to compile")
	ErrNoReachableGoal         = errors.New("goal area is empty")
	ErrSearchExhausted         = errors.New("no path to the goal area")
	ErrSynthesisEmpty          = errors.New("planned path produced no poses")
)

// PlanningError pairs a failure reason with the error that caused it.
type PlanningError struct {
	Reason error
	Err    error
}

func newPlanningError(reason, cause error) *PlanningError {
	return &PlanningError{Reason: reason, Err: cause}
}

func (e *PlanningError) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return e.Reason.Error() + ": " + e.Err.Error()
}

// Is matches the failure reason.
func (e *PlanningError) Is(target error) bool {
	return target == e.Reason
}

// Unwrap returns the cause.
func (e *PlanningError) Unwrap() error {
	return e.Err
}
