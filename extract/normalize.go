package extract

import (
	"math"
	"strings"

	"github.com/binzume/rigsplit/geom"
	"github.com/binzume/rigsplit/scene"
)

// DefaultForwardHint is the child name fragment used to estimate the
// facing direction of a rig.
const DefaultForwardHint = "Spine"

// Recenter moves root's animated horizontal position so that its static
// translation maps to the origin. The offset (-x, 0, -z) is added to every
// key of root's translation X and Z curves in all layers. The static
// translation itself is left as is; playback is driven by the curves.
func Recenter(s *scene.Scene, root scene.NodeID) *geom.Vector3 {
	t := s.Node(root).Translation
	offset := &geom.Vector3{X: -t.X, Y: 0, Z: -t.Z}

	s.EachCurve(root, scene.TranslationX, func(c *scene.Curve) { c.Offset(offset.X) })
	s.EachCurve(root, scene.TranslationZ, func(c *scene.Curve) { c.Offset(offset.Z) })
	return offset
}

// ForwardReference returns the child of root used to estimate the facing
// direction: the first child whose name contains hint, else the first
// child, else scene.NoNode.
func ForwardReference(s *scene.Scene, root scene.NodeID, hint string) scene.NodeID {
	children := s.Children(root)
	if len(children) == 0 {
		return scene.NoNode
	}
	if hint != "" {
		for _, c := range children {
			if strings.Contains(s.Node(c).Name, hint) {
				return c
			}
		}
	}
	return children[0]
}

// FacingAngle returns the heading of ref relative to root in degrees,
// measured from +Z towards +X on the horizontal plane, at the static pose.
func FacingAngle(s *scene.Scene, root, ref scene.NodeID) float64 {
	forward := s.GlobalPosition(ref).Sub(s.GlobalPosition(root))
	return math.Atan2(forward.X, forward.Z) * 180 / math.Pi
}

// FaceForward rotates root around Y so that its reference child lies on
// +Z. The rotation offset is added once to the static rotation and to every
// key of root's rotation Y curves. It returns the applied Y offset in
// degrees, or false if root has no children.
func FaceForward(s *scene.Scene, root scene.NodeID, hint string) (float64, bool) {
	ref := ForwardReference(s, root, hint)
	if ref == scene.NoNode {
		return 0, false
	}
	offset := -FacingAngle(s, root, ref)

	s.Node(root).Rotation.Y += offset
	s.EachCurve(root, scene.RotationY, func(c *scene.Curve) { c.Offset(offset) })
	return offset, true
}
