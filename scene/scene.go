// Package scene implements the in-memory scene graph that rigs are
// extracted from and into.
//
// Nodes live in an arena owned by the Scene and are addressed by NodeID.
// The graph is a tree: every node except the root has exactly one parent.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/binzume/rigsplit/geom"
)

// NodeID identifies a node in a Scene.
type NodeID int

// NoNode represents an invalid NodeID.
const NoNode NodeID = -1

// RootName is the name of the implicit scene root.
const RootName = "RootNode"

type AxisSystem struct {
	UpAxis             int
	UpAxisSign         int
	FrontAxis          int
	FrontAxisSign      int
	CoordAxis          int
	CoordAxisSign      int
	OriginalUpAxis     int
	OriginalUpAxisSign int
}

// YUpAxisSystem is the FBX default (Y up, +Z front, right handed).
var YUpAxisSystem = AxisSystem{
	UpAxis: 1, UpAxisSign: 1,
	FrontAxis: 2, FrontAxisSign: 1,
	CoordAxis: 0, CoordAxisSign: 1,
	OriginalUpAxis: 1, OriginalUpAxisSign: 1,
}

type GlobalSettings struct {
	Axis                    AxisSystem
	UnitScaleFactor         float64
	OriginalUnitScaleFactor float64
	TimeMode                int
	CustomFrameRate         float64
}

func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		Axis:                    YUpAxisSystem,
		UnitScaleFactor:         1,
		OriginalUnitScaleFactor: 1,
		CustomFrameRate:         -1,
	}
}

type Node struct {
	Name        string
	Translation geom.Vector3
	Rotation    geom.Vector3 // Euler degrees, XYZ order
	Scaling     geom.Vector3
	PreRotation geom.Vector3
	Attribute   Attribute

	parent   NodeID
	children []NodeID
}

type Scene struct {
	Name     string
	Settings GlobalSettings
	Stacks   []*AnimationStack

	nodes []Node
}

// New creates an empty scene holding only the root node.
func New(name string) *Scene {
	s := &Scene{Name: name, Settings: DefaultGlobalSettings()}
	s.nodes = append(s.nodes, Node{Name: RootName, Scaling: geom.Vector3{X: 1, Y: 1, Z: 1}, parent: NoNode})
	return s
}

// Root returns the scene root.
func (s *Scene) Root() NodeID {
	return 0
}

// NodeCount returns the number of nodes including the root.
func (s *Scene) NodeCount() int {
	return len(s.nodes)
}

// Node returns the node for id. The pointer is invalidated by AddNode.
func (s *Scene) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return &s.nodes[id]
}

// AddNode appends a new child with identity transform under parent.
func (s *Scene) AddNode(parent NodeID, name string) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, Node{Name: name, Scaling: geom.Vector3{X: 1, Y: 1, Z: 1}, parent: parent})
	s.nodes[parent].children = append(s.nodes[parent].children, id)
	return id
}

func (s *Scene) Parent(id NodeID) NodeID {
	return s.nodes[id].parent
}

func (s *Scene) Children(id NodeID) []NodeID {
	return s.nodes[id].children
}

// FindNode returns the first node in arena order with the name.
func (s *Scene) FindNode(name string) NodeID {
	for i := range s.nodes {
		if s.nodes[i].Name == name {
			return NodeID(i)
		}
	}
	return NoNode
}

// IsAncestor reports whether a is a proper ancestor of id.
func (s *Scene) IsAncestor(a, id NodeID) bool {
	for p := s.nodes[id].parent; p != NoNode; p = s.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants in pre-order.
// Returning false from fn skips the node's children.
func (s *Scene) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	s.walk(id, 0, fn)
}

func (s *Scene) walk(id NodeID, depth int, fn func(id NodeID, depth int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range s.nodes[id].children {
		s.walk(c, depth+1, fn)
	}
}

// LocalMatrix returns the node's static local transform.
func (s *Scene) LocalMatrix(id NodeID) mgl64.Mat4 {
	n := &s.nodes[id]
	return geom.NewTRSMatrix4(&n.Translation, &n.PreRotation, &n.Rotation, &n.Scaling)
}

// GlobalMatrix evaluates the node's transform at the default pose.
func (s *Scene) GlobalMatrix(id NodeID) mgl64.Mat4 {
	m := s.LocalMatrix(id)
	for p := s.nodes[id].parent; p != NoNode; p = s.nodes[p].parent {
		m = s.LocalMatrix(p).Mul4(m)
	}
	return m
}

// GlobalPosition returns the node's position at the default pose.
func (s *Scene) GlobalPosition(id NodeID) *geom.Vector3 {
	return geom.Position(s.GlobalMatrix(id))
}

// AddStack appends a new animation stack.
func (s *Scene) AddStack(name string) *AnimationStack {
	stack := &AnimationStack{Name: name}
	s.Stacks = append(s.Stacks, stack)
	return stack
}

// Validate checks mesh index invariants for every node.
func (s *Scene) Validate() error {
	for i := range s.nodes {
		if m, ok := s.nodes[i].Attribute.(*Mesh); ok {
			if err := m.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
