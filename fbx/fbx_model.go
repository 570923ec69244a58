package fbx

import (
	"github.com/binzume/rigsplit/geom"
)

type Model struct {
	Obj
	Parent *Model
}

func NewModel(id int64, name, kind string) *Model {
	model := &Model{
		Obj: *newObj(id, "Model", name, "Model", kind,
			NewNode("Version", 232),
			NewNode("Shading", true),
			NewNode("Culling", "CullingOff"),
		),
	}
	model.SetEnumProperty("InheritType", 1)
	return model
}

func (m *Model) GetTranslation() *geom.Vector3 {
	return m.GetProperty70("Lcl Translation").ToVector3(0, 0, 0)
}

func (m *Model) SetTranslation(v *geom.Vector3) {
	m.SetVector3Property("Lcl Translation", "Lcl Translation", "", "A", v)
}

// GetRotation returns Euler XYZ angles in degrees.
func (m *Model) GetRotation() *geom.Vector3 {
	return m.GetProperty70("Lcl Rotation").ToVector3(0, 0, 0)
}

func (m *Model) SetRotation(v *geom.Vector3) {
	m.SetVector3Property("Lcl Rotation", "Lcl Rotation", "", "A", v)
}

func (m *Model) GetScaling() *geom.Vector3 {
	return m.GetProperty70("Lcl Scaling").ToVector3(1, 1, 1)
}

func (m *Model) SetScaling(v *geom.Vector3) {
	m.SetVector3Property("Lcl Scaling", "Lcl Scaling", "", "A", v)
}

func (m *Model) GetPreRotation() *geom.Vector3 {
	return m.GetProperty70("PreRotation").ToVector3(0, 0, 0)
}

func (m *Model) SetPreRotation(v *geom.Vector3) {
	m.SetVector3Property("PreRotation", "Vector3D", "Vector", "", v)
	m.SetIntProperty("RotationActive", 1)
}

func (m *Model) GetChildModels() []*Model {
	var r []*Model
	for _, o := range m.Refs {
		if c, ok := o.(*Model); ok && c.Parent == m {
			r = append(r, c)
		}
	}
	return r
}

func (m *Model) GetGeometry() *Geometry {
	for _, o := range m.Refs {
		if g, ok := o.(*Geometry); ok {
			return g
		}
	}
	return nil
}

func (m *Model) GetNodeAttribute() *NodeAttribute {
	for _, o := range m.Refs {
		if a, ok := o.(*NodeAttribute); ok {
			return a
		}
	}
	return nil
}

// IsSkeleton reports whether the model is a skeleton joint, either by its
// kind or by an attached skeleton node attribute.
func (m *Model) IsSkeleton() bool {
	switch m.Kind() {
	case "Root", "Limb", "LimbNode":
		return true
	}
	if a := m.GetNodeAttribute(); a != nil {
		return a.TypeFlags() == "Skeleton"
	}
	return false
}

type NodeAttribute struct {
	Obj
}

func NewNodeAttribute(id int64, name, kind, typeFlags string) *NodeAttribute {
	return &NodeAttribute{
		Obj: *newObj(id, "NodeAttribute", name, "NodeAttribute", kind,
			NewNode("TypeFlags", typeFlags),
		),
	}
}

func (a *NodeAttribute) TypeFlags() string {
	return a.FindChild("TypeFlags").GetString()
}

func (a *NodeAttribute) GetSize() float64 {
	return a.GetProperty70("Size").ToFloat64(100)
}

func (a *NodeAttribute) SetSize(size float64) {
	a.SetFloatProperty("Size", size)
}
