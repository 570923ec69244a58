package converter

import (
	"github.com/binzume/rigsplit/fbx"
	"github.com/binzume/rigsplit/geom"
	"github.com/binzume/rigsplit/scene"
)

type SceneToFBXOption struct {
}

type sceneToFbx struct {
	options *SceneToFBXOption
	doc     *fbx.Document
	models  map[scene.NodeID]*fbx.Model
}

func NewSceneToFBXConverter(options *SceneToFBXOption) *sceneToFbx {
	if options == nil {
		options = &SceneToFBXOption{}
	}
	return &sceneToFbx{
		options: options,
	}
}

func (c *sceneToFbx) convertSettings(gs *scene.GlobalSettings) {
	o := c.doc.GlobalSettings
	o.SetIntProperty("UpAxis", gs.Axis.UpAxis)
	o.SetIntProperty("UpAxisSign", gs.Axis.UpAxisSign)
	o.SetIntProperty("FrontAxis", gs.Axis.FrontAxis)
	o.SetIntProperty("FrontAxisSign", gs.Axis.FrontAxisSign)
	o.SetIntProperty("CoordAxis", gs.Axis.CoordAxis)
	o.SetIntProperty("CoordAxisSign", gs.Axis.CoordAxisSign)
	o.SetIntProperty("OriginalUpAxis", gs.Axis.OriginalUpAxis)
	o.SetIntProperty("OriginalUpAxisSign", gs.Axis.OriginalUpAxisSign)
	o.SetFloatProperty("UnitScaleFactor", gs.UnitScaleFactor)
	o.SetFloatProperty("OriginalUnitScaleFactor", gs.OriginalUnitScaleFactor)
	o.SetEnumProperty("TimeMode", gs.TimeMode)
	o.SetFloatProperty("CustomFrameRate", gs.CustomFrameRate)
}

func modelKind(a scene.Attribute) string {
	switch a := a.(type) {
	case *scene.Skeleton:
		return a.SkeletonType.String()
	case *scene.Mesh:
		return "Mesh"
	case *scene.Other:
		if a.Kind != "" {
			return a.Kind
		}
	}
	return "Null"
}

func (c *sceneToFbx) convertNode(s *scene.Scene, id scene.NodeID, parent *fbx.Model) {
	n := s.Node(id)
	model := fbx.NewModel(c.doc.NewID(), n.Name, modelKind(n.Attribute))
	model.SetTranslation(&n.Translation)
	model.SetRotation(&n.Rotation)
	model.SetScaling(&n.Scaling)
	if n.PreRotation != (geom.Vector3{}) {
		model.SetPreRotation(&n.PreRotation)
	}
	c.doc.AddObject(model)
	c.doc.AddConnection(parent, model)
	c.models[id] = model

	switch a := n.Attribute.(type) {
	case *scene.Skeleton:
		attr := fbx.NewNodeAttribute(c.doc.NewID(), n.Name, a.SkeletonType.String(), "Skeleton")
		attr.SetSize(a.Size)
		c.doc.AddObject(attr)
		c.doc.AddConnection(model, attr)
	case *scene.Mesh:
		name := a.Name
		if name == "" {
			name = n.Name
		}
		g := fbx.NewGeometry(c.doc.NewID(), name, a.ControlPoints, a.Polygons)
		c.doc.AddObject(g)
		c.doc.AddConnection(model, g)
	case *scene.Other:
		if a.Kind == "Null" {
			attr := fbx.NewNodeAttribute(c.doc.NewID(), n.Name, "Null", "Null")
			c.doc.AddObject(attr)
			c.doc.AddConnection(model, attr)
		}
	}

	for _, child := range s.Children(id) {
		c.convertNode(s, child, model)
	}
}

// convertSkins adds skin deformers after all models exist so that clusters
// can be linked by name.
func (c *sceneToFbx) convertSkins(s *scene.Scene) {
	byName := map[string]*fbx.Model{}
	for i := s.NodeCount() - 1; i > 0; i-- {
		byName[s.Node(scene.NodeID(i)).Name] = c.models[scene.NodeID(i)]
	}
	for i := 1; i < s.NodeCount(); i++ {
		mesh, ok := s.Node(scene.NodeID(i)).Attribute.(*scene.Mesh)
		if !ok || len(mesh.Skins) == 0 {
			continue
		}
		g := c.models[scene.NodeID(i)].GetGeometry()
		for _, sk := range mesh.Skins {
			skin := fbx.NewSkin(c.doc.NewID(), sk.Name)
			c.doc.AddObject(skin)
			c.doc.AddConnection(g, skin)
			for _, cl := range sk.Clusters {
				cluster := fbx.NewCluster(c.doc.NewID(), cl.Name)
				c.doc.AddObject(cluster)
				c.doc.AddConnection(skin, cluster)
				if target := byName[cl.Link]; target != nil {
					c.doc.AddConnection(cluster, target)
				}
			}
		}
	}
}

func toKeyFlags(i scene.Interpolation) int32 {
	switch i {
	case scene.InterpolationConstant:
		return fbx.KeyInterpolationConstant
	case scene.InterpolationLinear:
		return fbx.KeyInterpolationLinear
	default:
		return fbx.KeyInterpolationCubic | fbx.KeyTangentAuto
	}
}

var curveNodeKinds = map[string]string{
	scene.PropTranslation: "T",
	scene.PropRotation:    "R",
	scene.PropScaling:     "S",
}

func (c *sceneToFbx) convertAnimation(s *scene.Scene) {
	for _, st := range s.Stacks {
		stack := fbx.NewAnimationStack(c.doc.NewID(), st.Name)
		stack.SetTimeSpan(int64(st.LocalStart), int64(st.LocalStop))
		c.doc.AddObject(stack)
		for _, l := range st.Layers {
			layer := fbx.NewAnimationLayer(c.doc.NewID(), l.Name)
			layer.SetWeight(l.Weight)
			c.doc.AddObject(layer)
			c.doc.AddConnection(stack, layer)
			for _, id := range l.Nodes() {
				c.convertNodeCurves(s, id, l, layer)
			}
		}
	}
}

func (c *sceneToFbx) convertNodeCurves(s *scene.Scene, id scene.NodeID, l *scene.AnimationLayer, layer *fbx.AnimationLayer) {
	model := c.models[id]
	if model == nil {
		return
	}
	n := s.Node(id)
	static := [...]*geom.Vector3{&n.Translation, &n.Rotation, &n.Scaling}
	for ch := scene.Channel(0); ch < scene.ChannelCount; ch += 3 {
		if l.Curve(id, ch) == nil && l.Curve(id, ch+1) == nil && l.Curve(id, ch+2) == nil {
			continue
		}
		v := static[int(ch)/3]
		cn := fbx.NewAnimationCurveNode(c.doc.NewID(), curveNodeKinds[ch.Property()], [3]float64{v.X, v.Y, v.Z})
		c.doc.AddObject(cn)
		c.doc.AddConnection(layer, cn)
		c.doc.AddPropertyConnection(model, cn, ch.Property())
		for axis := 0; axis < 3; axis++ {
			curve := l.Curve(id, ch+scene.Channel(axis))
			if curve == nil {
				continue
			}
			keys := make([]fbx.AnimationKey, len(curve.Keys))
			for i, k := range curve.Keys {
				keys[i] = fbx.AnimationKey{Time: int64(k.Time), Value: float32(k.Value), Flags: toKeyFlags(k.Interpolation)}
			}
			fc := fbx.NewAnimationCurve(c.doc.NewID(), keys)
			c.doc.AddObject(fc)
			c.doc.AddPropertyConnection(cn, fc, "d|"+[...]string{"X", "Y", "Z"}[axis])
		}
	}
}

// Convert builds an FBX document from a scene graph.
func (c *sceneToFbx) Convert(s *scene.Scene) (*fbx.Document, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c.doc = fbx.NewDocument()
	c.models = map[scene.NodeID]*fbx.Model{}

	c.convertSettings(&s.Settings)
	for _, id := range s.Children(s.Root()) {
		c.convertNode(s, id, c.doc.Scene)
	}
	c.convertSkins(s)
	c.convertAnimation(s)
	return c.doc, nil
}
