package fbx

import (
	"strings"

	"github.com/binzume/rigsplit/geom"
)

// Property70 is an entry of a Properties70 block.
type Property70 struct {
	AttributeList
	Type  string
	Label string
	Flag  string
}

type Connection struct {
	Type string
	From int64
	To   int64
	Prop string
}

type Object interface {
	GetNode() *Node
	NodeName() string
	ID() int64
	Name() string
	Kind() string
	GetProperty70(name string) *Property70
	FindRefs(name string) []Object
	RefProp(o Object) string
	AddRef(o Object, prop string)
}

type Obj struct {
	*Node
	Template   *Obj
	Refs       []Object
	refProps   []string
	properties map[string]*Property70 // lazy initialize
}

func newObj(id int64, typ, name, class, kind string, children ...*Node) *Obj {
	children = append(children, &Node{Name: "Properties70"})
	return &Obj{Node: &Node{
		Name:       typ,
		Attributes: AttributeList{{Value: id}, {Value: name + "\x00\x01" + class}, {Value: kind}},
		Children:   children,
	}}
}

// SplitName splits an object name in either binary ("Name\x00\x01Class")
// or ASCII ("Class::Name") form.
func SplitName(s string) (name, class string) {
	if i := strings.Index(s, "\x00\x01"); i >= 0 {
		return s[:i], s[i+2:]
	}
	if i := strings.Index(s, "::"); i >= 0 {
		return s[i+2:], s[:i]
	}
	return s, ""
}

func (o *Obj) GetNode() *Node {
	return o.Node
}

func (o *Obj) NodeName() string {
	return o.Node.Name
}

func (o *Obj) ID() int64 {
	return o.Attr(0).ToInt64(0)
}

func (o *Obj) Name() string {
	name, _ := SplitName(o.Attr(1).ToString())
	return name
}

func (o *Obj) Kind() string {
	return o.Attr(2).ToString()
}

func (o *Obj) GetProperty70(name string) *Property70 {
	if o.properties == nil {
		o.properties = map[string]*Property70{}
		for _, node := range o.FindChild("Properties70").GetChildren() {
			if len(node.Attributes) < 4 {
				continue
			}
			o.properties[node.Attr(0).ToString()] = &Property70{
				AttributeList: node.Attributes[4:],
				Type:          node.Attr(1).ToString(),
				Label:         node.Attr(2).ToString(),
				Flag:          node.Attr(3).ToString()}
		}
	}
	if p, ok := o.properties[name]; ok {
		return p
	} else if o.Template != nil {
		return o.Template.GetProperty70(name)
	}
	return &Property70{}
}

func (o *Obj) SetProperty70(name string, prop *Property70) *Property70 {
	if o.properties != nil {
		o.properties[name] = prop
	}
	attrs := AttributeList{
		{Value: name},
		{Value: prop.Type},
		{Value: prop.Label},
		{Value: prop.Flag},
	}
	attrs = append(attrs, prop.AttributeList...)
	properties70 := o.FindChild("Properties70")
	if properties70 == nil {
		properties70 = &Node{Name: "Properties70"}
		o.Children = append(o.Children, properties70)
	}
	for _, node := range properties70.Children {
		if node.Attr(0).ToString() == name {
			node.Attributes = attrs
			return prop
		}
	}
	properties70.Children = append(properties70.Children, &Node{Name: "P", Attributes: attrs})
	return prop
}

func (o *Obj) SetIntProperty(name string, v int) *Property70 {
	return o.SetProperty70(name, &Property70{Type: "int", Label: "Integer", AttributeList: AttributeList{{Value: int32(v)}}})
}

func (o *Obj) SetEnumProperty(name string, v int) *Property70 {
	return o.SetProperty70(name, &Property70{Type: "enum", AttributeList: AttributeList{{Value: int32(v)}}})
}

func (o *Obj) SetFloatProperty(name string, v float64) *Property70 {
	return o.SetProperty70(name, &Property70{Type: "double", Label: "Number", AttributeList: AttributeList{{Value: v}}})
}

func (o *Obj) SetTimeProperty(name string, v int64) *Property70 {
	return o.SetProperty70(name, &Property70{Type: "KTime", Label: "Time", AttributeList: AttributeList{{Value: v}}})
}

func (o *Obj) SetVector3Property(name, typ, label, flag string, v *geom.Vector3) *Property70 {
	return o.SetProperty70(name, &Property70{Type: typ, Label: label, Flag: flag,
		AttributeList: AttributeList{{Value: v.X}, {Value: v.Y}, {Value: v.Z}}})
}

func (o *Obj) FindRefs(typ string) []Object {
	var refs []Object
	for _, r := range o.Refs {
		if r.NodeName() == typ {
			refs = append(refs, r)
		}
	}
	return refs
}

// RefProp returns the property name of the connection from ref, or "" for
// object-object connections.
func (o *Obj) RefProp(ref Object) string {
	for i, r := range o.Refs {
		if r == ref {
			return o.refProps[i]
		}
	}
	return ""
}

func (o *Obj) AddRef(ref Object, prop string) {
	o.Refs = append(o.Refs, ref)
	o.refProps = append(o.refProps, prop)
}
