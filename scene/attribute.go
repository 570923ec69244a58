package scene

import (
	"github.com/pkg/errors"

	"github.com/binzume/rigsplit/geom"
)

type AttributeType int

const (
	AttributeSkeleton AttributeType = iota
	AttributeMesh
	AttributeOther
)

func (t AttributeType) String() string {
	switch t {
	case AttributeSkeleton:
		return "Skeleton"
	case AttributeMesh:
		return "Mesh"
	default:
		return "Other"
	}
}

// Attribute is the optional payload of a node.
// Implemented by *Skeleton, *Mesh and *Other.
type Attribute interface {
	Type() AttributeType
}

type SkeletonType int

const (
	SkeletonRoot SkeletonType = iota
	SkeletonLimb
	SkeletonLimbNode
	SkeletonEffector
)

var skeletonTypeNames = [...]string{"Root", "Limb", "LimbNode", "Effector"}

func (t SkeletonType) String() string {
	if int(t) < len(skeletonTypeNames) {
		return skeletonTypeNames[t]
	}
	return "LimbNode"
}

// ParseSkeletonType maps an FBX model kind to a skeleton type.
func ParseSkeletonType(kind string) (SkeletonType, bool) {
	for i, n := range skeletonTypeNames {
		if n == kind {
			return SkeletonType(i), true
		}
	}
	return SkeletonLimbNode, false
}

type Skeleton struct {
	SkeletonType SkeletonType
	Size         float64
}

func (*Skeleton) Type() AttributeType { return AttributeSkeleton }

type Mesh struct {
	Name          string
	ControlPoints []geom.Vector3
	Polygons      [][]int
	Skins         []*Skin
}

func (*Mesh) Type() AttributeType { return AttributeMesh }

// Validate checks that every polygon vertex refers to a control point.
func (m *Mesh) Validate() error {
	for i, poly := range m.Polygons {
		for _, idx := range poly {
			if idx < 0 || idx >= len(m.ControlPoints) {
				return errors.Errorf("mesh %q: polygon %d refers to control point %d of %d", m.Name, i, idx, len(m.ControlPoints))
			}
		}
	}
	return nil
}

// PolygonVertexCount returns the total number of polygon vertices.
func (m *Mesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

// Skin is a skin deformer bound to a mesh.
type Skin struct {
	Name     string
	Clusters []*Cluster
}

// Cluster links a skin to the node that drives it, by node name.
type Cluster struct {
	Name string
	Link string
}

// Other is any attribute that is neither a skeleton nor a mesh.
type Other struct {
	Kind string
}

func (*Other) Type() AttributeType { return AttributeOther }

func IsSkeleton(a Attribute) bool {
	_, ok := a.(*Skeleton)
	return ok
}
