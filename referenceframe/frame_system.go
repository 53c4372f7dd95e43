// Package referenceframe keeps a tree of planar coordinate frames and answers transform lookups
// between any two of them.
package referenceframe

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/cbrobotics/regionplanner/spatialmath"
)

// TransformProvider resolves the rigid transform that maps points expressed in src into dst.
// A zero `at` asks for the latest available transform.
type TransformProvider interface {
	Lookup(src, dst string, at time.Time) (spatialmath.Pose, error)
}

// link is the pose of a frame in its parent. Static links never expire; dynamic links carry the
// stamp of their newest sample and are only valid within maxAge of the lookup time.
type link struct {
	parent  string
	static  bool
	pose    spatialmath.Pose
	stamp   time.Time
	maxAge  time.Duration
	hasData bool
}

// FrameSystem is a tree of frames rooted at a single frame. It is safe for concurrent use.
type FrameSystem struct {
	mu    sync.RWMutex
	root  string
	links map[string]*link
	clk   clock.Clock
}

var _ TransformProvider = (*FrameSystem)(nil)

// NewFrameSystem returns a frame system containing only the root frame. A nil clock uses the
// wall clock.
func NewFrameSystem(root string, clk clock.Clock) *FrameSystem {
	if clk == nil {
		clk = clock.New()
	}
	return &FrameSystem{root: root, links: map[string]*link{}, clk: clk}
}

// Root returns the name of the root frame.
func (fs *FrameSystem) Root() string {
	return fs.root
}

// AddStaticFrame attaches a frame to parent at a fixed pose.
func (fs *FrameSystem) AddStaticFrame(name, parent string, poseInParent spatialmath.Pose) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkName(name, parent); err != nil {
		return err
	}
	fs.links[name] = &link{parent: parent, static: true, pose: poseInParent, hasData: true}
	return nil
}

// AddDynamicFrame attaches a frame whose pose arrives later through UpdateFrame. Lookups through
// it fail with NoData until the first update and with Extrapolation once the newest sample is
// older than maxAge.
func (fs *FrameSystem) AddDynamicFrame(name, parent string, maxAge time.Duration) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkName(name, parent); err != nil {
		return err
	}
	fs.links[name] = &link{parent: parent, maxAge: maxAge}
	return nil
}

// UpdateFrame records a new pose sample for a dynamic frame.
func (fs *FrameSystem) UpdateFrame(name string, poseInParent spatialmath.Pose, stamp time.Time) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	l, ok := fs.links[name]
	if !ok {
		return &TransformError{Kind: UnknownFrame, Src: name, Dst: fs.root}
	}
	if l.static {
		return fmt.Errorf("frame %q is static and cannot be updated", name)
	}
	l.pose = poseInParent
	l.stamp = stamp
	l.hasData = true
	return nil
}

// RemoveFrame deletes the frame and all of its descendants.
func (fs *FrameSystem) RemoveFrame(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.removeFrame(name)
}

func (fs *FrameSystem) removeFrame(name string) {
	delete(fs.links, name)
	for child, l := range fs.links {
		if l.parent == name {
			fs.removeFrame(child)
		}
	}
}

// FrameNames returns the sorted names of every frame except the root.
func (fs *FrameSystem) FrameNames() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	names := make([]string, 0, len(fs.links))
	for name := range fs.links {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parent returns the parent of the named frame. The root has no parent.
func (fs *FrameSystem) Parent(name string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if name == fs.root {
		return "", fmt.Errorf("frame %q is the root and has no parent", name)
	}
	l, ok := fs.links[name]
	if !ok {
		return "", fmt.Errorf("frame with name %q not in frame system", name)
	}
	return l.parent, nil
}

// TracebackFrame traces the parentage of the given frame up to the root, and returns the full
// list of frames in between. The list includes both the query frame and the root.
func (fs *FrameSystem) TracebackFrame(name string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.traceback(name)
}

func (fs *FrameSystem) traceback(name string) ([]string, error) {
	if name == fs.root {
		return []string{name}, nil
	}
	l, ok := fs.links[name]
	if !ok {
		return nil, fmt.Errorf("frame with name %q not in frame system", name)
	}
	parents, err := fs.traceback(l.parent)
	if err != nil {
		return nil, err
	}
	return append([]string{name}, parents...), nil
}

// Lookup returns the transform mapping points in src into dst.
func (fs *FrameSystem) Lookup(src, dst string, at time.Time) (spatialmath.Pose, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	for _, name := range []string{src, dst} {
		if !fs.frameExists(name) {
			return nil, &TransformError{Kind: UnknownFrame, Src: src, Dst: dst, Detail: fmt.Sprintf("%q not in frame system", name)}
		}
	}
	if src == dst {
		return spatialmath.NewZeroPose(), nil
	}

	ref := at
	if ref.IsZero() {
		ref = fs.clk.Now()
	}
	srcToRoot, err := fs.toRoot(src, ref)
	if err != nil {
		err.Src, err.Dst = src, dst
		return nil, err
	}
	dstToRoot, err := fs.toRoot(dst, ref)
	if err != nil {
		err.Src, err.Dst = src, dst
		return nil, err
	}
	return spatialmath.Compose(spatialmath.PoseInverse(dstToRoot), srcToRoot), nil
}

// TransformPose re-expresses a framed pose in dst.
func (fs *FrameSystem) TransformPose(pif *PoseInFrame, dst string, at time.Time) (*PoseInFrame, error) {
	tf, err := fs.Lookup(pif.Parent(), dst, at)
	if err != nil {
		return nil, err
	}
	return NewPoseInFrame(dst, spatialmath.Compose(tf, pif.Pose())), nil
}

// composes link poses from the frame up to the root, validating each dynamic link against ref.
func (fs *FrameSystem) toRoot(name string, ref time.Time) (spatialmath.Pose, *TransformError) {
	tf := spatialmath.NewZeroPose()
	for name != fs.root {
		l := fs.links[name]
		if !l.hasData {
			return nil, &TransformError{Kind: NoData, Detail: fmt.Sprintf("frame %q has not received a transform", name)}
		}
		if !l.static {
			age := ref.Sub(l.stamp)
			if age < 0 {
				age = -age
			}
			if l.maxAge > 0 && age > l.maxAge {
				return nil, &TransformError{
					Kind:   Extrapolation,
					Detail: fmt.Sprintf("frame %q sample is %s away from the requested time (max %s)", name, age, l.maxAge),
				}
			}
		}
		tf = spatialmath.Compose(l.pose, tf)
		name = l.parent
	}
	return tf, nil
}

func (fs *FrameSystem) frameExists(name string) bool {
	if name == fs.root {
		return true
	}
	_, ok := fs.links[name]
	return ok
}

func (fs *FrameSystem) checkName(name, parent string) error {
	if parent == "" {
		return NewParentFrameMissingError(name)
	}
	if !fs.frameExists(parent) {
		return fmt.Errorf("parent frame with name %q not in frame system", parent)
	}
	if fs.frameExists(name) {
		return NewFrameAlreadyExistsError(name)
	}
	return nil
}
