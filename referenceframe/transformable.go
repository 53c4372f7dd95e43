package referenceframe

import (
	"fmt"

	"github.com/cbrobotics/regionplanner/spatialmath"
)

// PoseInFrame is a data structure that packages a pose with the name of the
// frame in which it was observed.
type PoseInFrame struct {
	parent string
	pose   spatialmath.Pose
}

// NewPoseInFrame generates a new PoseInFrame.
func NewPoseInFrame(frame string, pose spatialmath.Pose) *PoseInFrame {
	return &PoseInFrame{
		parent: frame,
		pose:   pose,
	}
}

// Parent returns the name of the frame in which the pose was observed.
func (pF *PoseInFrame) Parent() string {
	return pF.parent
}

// Pose returns the pose that was observed.
func (pF *PoseInFrame) Pose() spatialmath.Pose {
	return pF.pose
}

// AlmostEqual compares frame names exactly and poses within a small tolerance.
func (pF *PoseInFrame) AlmostEqual(other *PoseInFrame) bool {
	return pF.parent == other.parent && spatialmath.PoseAlmostEqual(pF.pose, other.pose)
}

func (pF *PoseInFrame) String() string {
	return fmt.Sprintf("%s@%v", pF.parent, pF.pose)
}
