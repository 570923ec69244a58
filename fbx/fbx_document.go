package fbx

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	DefaultVersion = 7400
	Creator        = "rigsplit"
)

type Document struct {
	Version      int
	FileId       []byte
	Creator      string
	CreationTime string

	GlobalSettings *Obj
	Objects        map[int64]Object
	Scene          *Model
	Connections    []*Connection

	RawNode *Node

	objectOrder []Object
	lastID      int64
}

func newRootModel() *Model {
	return &Model{Obj: Obj{Node: &Node{
		Name:       "Model",
		Attributes: AttributeList{{Value: int64(0)}, {Value: "RootNode"}, {Value: ""}},
	}}}
}

// NewDocument creates an empty document with a root model (id 0).
func NewDocument() *Document {
	globalSettings := &Obj{Node: &Node{Name: "GlobalSettings", Children: []*Node{
		NewNode("Version", 1000),
		{Name: "Properties70"},
	}}}
	root := &Node{Name: "_FBX_ROOT"}
	root.AddChild(
		NewNode("FBXHeaderExtension").AddChild(
			NewNode("FBXHeaderVersion", 1003),
			NewNode("FBXVersion", DefaultVersion),
			NewNode("Creator", Creator),
		),
		globalSettings.Node,
		NewNode("Documents").AddChild(
			NewNode("Count", 1),
			NewNode("Document", int64(1000000000), "Scene", "Scene").AddChild(
				NewNode("RootNode", int64(0)),
			),
		),
		NewNode("References"),
		NewNode("Definitions"),
		NewNode("Objects"),
		NewNode("Connections"),
	)

	scene := newRootModel()
	return &Document{
		Version:        DefaultVersion,
		Creator:        Creator,
		GlobalSettings: globalSettings,
		Objects:        map[int64]Object{0: scene},
		Scene:          scene,
		RawNode:        root,
		lastID:         1000000000,
	}
}

// NewID returns an object id unused in the document.
func (doc *Document) NewID() int64 {
	doc.lastID++
	for doc.Objects[doc.lastID] != nil {
		doc.lastID++
	}
	return doc.lastID
}

func (doc *Document) AddObject(o Object) {
	doc.Objects[o.ID()] = o
	doc.objectOrder = append(doc.objectOrder, o)
	objects := doc.RawNode.FindChild("Objects")
	objects.Children = append(objects.Children, o.GetNode())
}

// AddConnection connects child to parent ("OO").
func (doc *Document) AddConnection(parent, child Object) {
	doc.addConnection(&Connection{Type: "OO", From: child.ID(), To: parent.ID()}, parent, child)
}

// AddPropertyConnection connects child to a property of parent ("OP").
func (doc *Document) AddPropertyConnection(parent, child Object, prop string) {
	doc.addConnection(&Connection{Type: "OP", From: child.ID(), To: parent.ID(), Prop: prop}, parent, child)
}

func (doc *Document) addConnection(c *Connection, parent, child Object) {
	doc.Connections = append(doc.Connections, c)
	parent.AddRef(child, c.Prop)
	if m, ok := child.(*Model); ok {
		if p, ok := parent.(*Model); ok {
			m.Parent = p
		}
	}
	node := NewNode("C", c.Type, c.From, c.To)
	if c.Type == "OP" {
		node.Attributes = append(node.Attributes, &Attribute{Value: c.Prop})
	}
	connections := doc.RawNode.FindChild("Connections")
	connections.Children = append(connections.Children, node)
}

// FindObjects returns the objects with the node name in file order.
func (doc *Document) FindObjects(name string) []Object {
	var r []Object
	for _, o := range doc.objectOrder {
		if o.NodeName() == name {
			r = append(r, o)
		}
	}
	return r
}

func (doc *Document) GetAnimationStacks() []*AnimationStack {
	var r []*AnimationStack
	for _, o := range doc.objectOrder {
		if s, ok := o.(*AnimationStack); ok {
			r = append(r, s)
		}
	}
	return r
}

// UpdateDefinitions rebuilds the Definitions block from the object counts.
func (doc *Document) UpdateDefinitions() {
	counts := map[string]int{"GlobalSettings": 1}
	for _, o := range doc.objectOrder {
		counts[o.NodeName()]++
	}
	var names []string
	total := 0
	for name, count := range counts {
		names = append(names, name)
		total += count
	}
	sort.Strings(names)

	definitions := NewNode("Definitions").AddChild(NewNode("Version", 100), NewNode("Count", total))
	for _, name := range names {
		definitions.AddChild(NewNode("ObjectType", name).AddChild(NewNode("Count", counts[name])))
	}
	doc.RawNode.AddOrReplaceChild(definitions)
}

func parseObject(node *Node, template *Obj) (Object, error) {
	base := &Obj{Node: node, Template: template}
	switch node.Name {
	case "Model":
		return &Model{Obj: *base}, nil
	case "NodeAttribute":
		return &NodeAttribute{Obj: *base}, nil
	case "Geometry":
		if base.Kind() != "Mesh" {
			return base, nil
		}
		return parseGeometry(base)
	case "Deformer":
		return &Deformer{Obj: *base}, nil
	case "AnimationStack":
		return &AnimationStack{Obj: *base}, nil
	case "AnimationLayer":
		return &AnimationLayer{Obj: *base}, nil
	case "AnimationCurveNode":
		return &AnimationCurveNode{Obj: *base}, nil
	case "AnimationCurve":
		return &AnimationCurve{Obj: *base}, nil
	}
	return base, nil
}

func parseConnection(node *Node) *Connection {
	c := &Connection{
		Type: node.Attr(0).ToString(),
		From: node.Attr(1).ToInt64(0),
		To:   node.Attr(2).ToInt64(0),
	}
	if c.Type == "OP" {
		c.Prop = node.Attr(3).ToString()
	}
	return c
}

// BuildDocument resolves objects and connections of a parsed node tree.
func BuildDocument(root *Node) (*Document, error) {
	scene := newRootModel()
	doc := &Document{RawNode: root, Scene: scene, Objects: map[int64]Object{0: scene}}

	header := root.FindChild("FBXHeaderExtension")
	doc.Version = header.FindChild("FBXVersion").GetInt()
	if doc.Version == 0 {
		doc.Version = DefaultVersion
	}
	doc.Creator = root.FindChild("Creator").GetString()
	if doc.Creator == "" {
		doc.Creator = header.FindChild("Creator").GetString()
	}
	doc.CreationTime = root.FindChild("CreationTime").GetString()
	if id := root.FindChild("FileId").Attr(0); id != nil {
		doc.FileId, _ = id.Value.([]byte)
	}

	templates := map[string]*Obj{}
	for _, node := range root.FindChild("Definitions").FindChildren("ObjectType") {
		if t := node.FindChild("PropertyTemplate"); t != nil {
			templates[node.GetString()] = &Obj{Node: t}
		}
	}
	gs := root.FindChild("GlobalSettings")
	if gs == nil {
		gs = &Node{Name: "GlobalSettings"}
	}
	doc.GlobalSettings = &Obj{Node: gs, Template: templates["GlobalSettings"]}

	for _, node := range root.FindChild("Objects").GetChildren() {
		obj, err := parseObject(node, templates[node.Name])
		if err != nil {
			return nil, err
		}
		if _, exists := doc.Objects[obj.ID()]; exists {
			return nil, errors.Errorf("duplicate object id %d", obj.ID())
		}
		doc.Objects[obj.ID()] = obj
		doc.objectOrder = append(doc.objectOrder, obj)
		if obj.ID() > doc.lastID {
			doc.lastID = obj.ID()
		}
	}

	for _, node := range root.FindChild("Connections").FindChildren("C") {
		c := parseConnection(node)
		if c.Type != "OO" && c.Type != "OP" {
			continue
		}
		doc.Connections = append(doc.Connections, c)
		from, to := doc.Objects[c.From], doc.Objects[c.To]
		if from == nil || to == nil {
			continue
		}
		to.AddRef(from, c.Prop)
		if m, ok := from.(*Model); ok {
			if p, ok := to.(*Model); ok {
				m.Parent = p
			}
		}
	}

	return doc, nil
}

// GetIntSetting returns an int property of GlobalSettings.
func (doc *Document) GetIntSetting(name string, def int) int {
	return doc.GlobalSettings.GetProperty70(name).ToInt(def)
}

func (doc *Document) GetFloatSetting(name string, def float64) float64 {
	return doc.GlobalSettings.GetProperty70(name).ToFloat64(def)
}
