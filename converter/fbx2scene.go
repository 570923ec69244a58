package converter

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/binzume/rigsplit/fbx"
	"github.com/binzume/rigsplit/scene"
)

type FBXToSceneOption struct {
	// NameEncoding is the charset of object names, e.g. "shift_jis".
	// Empty means UTF-8.
	NameEncoding string
}

type fbxToScene struct {
	options *FBXToSceneOption
	decoder *encoding.Decoder

	nodes map[*fbx.Model]scene.NodeID
}

func NewFBXToSceneConverter(options *FBXToSceneOption) *fbxToScene {
	if options == nil {
		options = &FBXToSceneOption{}
	}
	return &fbxToScene{
		options: options,
	}
}

func (c *fbxToScene) decodeName(name string) string {
	if c.decoder == nil {
		return name
	}
	s, err := c.decoder.String(name)
	if err != nil {
		return name
	}
	return s
}

func (c *fbxToScene) convertSettings(doc *fbx.Document) scene.GlobalSettings {
	def := scene.DefaultGlobalSettings()
	return scene.GlobalSettings{
		Axis: scene.AxisSystem{
			UpAxis:             doc.GetIntSetting("UpAxis", def.Axis.UpAxis),
			UpAxisSign:         doc.GetIntSetting("UpAxisSign", def.Axis.UpAxisSign),
			FrontAxis:          doc.GetIntSetting("FrontAxis", def.Axis.FrontAxis),
			FrontAxisSign:      doc.GetIntSetting("FrontAxisSign", def.Axis.FrontAxisSign),
			CoordAxis:          doc.GetIntSetting("CoordAxis", def.Axis.CoordAxis),
			CoordAxisSign:      doc.GetIntSetting("CoordAxisSign", def.Axis.CoordAxisSign),
			OriginalUpAxis:     doc.GetIntSetting("OriginalUpAxis", def.Axis.OriginalUpAxis),
			OriginalUpAxisSign: doc.GetIntSetting("OriginalUpAxisSign", def.Axis.OriginalUpAxisSign),
		},
		UnitScaleFactor:         doc.GetFloatSetting("UnitScaleFactor", def.UnitScaleFactor),
		OriginalUnitScaleFactor: doc.GetFloatSetting("OriginalUnitScaleFactor", def.OriginalUnitScaleFactor),
		TimeMode:                doc.GetIntSetting("TimeMode", def.TimeMode),
		CustomFrameRate:         doc.GetFloatSetting("CustomFrameRate", def.CustomFrameRate),
	}
}

func (c *fbxToScene) convertAttribute(m *fbx.Model) scene.Attribute {
	if m.IsSkeleton() {
		kind := m.Kind()
		size := 100.0
		if a := m.GetNodeAttribute(); a != nil {
			if a.Kind() != "" {
				kind = a.Kind()
			}
			size = a.GetSize()
		}
		typ, _ := scene.ParseSkeletonType(kind)
		return &scene.Skeleton{SkeletonType: typ, Size: size}
	}
	if g := m.GetGeometry(); g != nil {
		mesh := &scene.Mesh{
			Name:          c.decodeName(g.Name()),
			ControlPoints: g.Vertices,
			Polygons:      g.Polygons,
		}
		for _, d := range g.GetSkins() {
			skin := &scene.Skin{Name: c.decodeName(d.Name())}
			for _, cl := range d.GetClusters() {
				cluster := &scene.Cluster{Name: c.decodeName(cl.Name())}
				if target := cl.GetTarget(); target != nil {
					cluster.Link = c.decodeName(target.Name())
				}
				skin.Clusters = append(skin.Clusters, cluster)
			}
			mesh.Skins = append(mesh.Skins, skin)
		}
		return mesh
	}
	return &scene.Other{Kind: m.Kind()}
}

func (c *fbxToScene) convertModel(s *scene.Scene, m *fbx.Model, parent scene.NodeID) {
	id := s.AddNode(parent, c.decodeName(m.Name()))
	c.nodes[m] = id
	n := s.Node(id)
	n.Translation = *m.GetTranslation()
	n.Rotation = *m.GetRotation()
	n.Scaling = *m.GetScaling()
	n.PreRotation = *m.GetPreRotation()
	n.Attribute = c.convertAttribute(m)

	for _, child := range m.GetChildModels() {
		c.convertModel(s, child, id)
	}
}

func toInterpolation(k *fbx.AnimationKey) scene.Interpolation {
	switch k.Interpolation() {
	case fbx.KeyInterpolationConstant:
		return scene.InterpolationConstant
	case fbx.KeyInterpolationLinear:
		return scene.InterpolationLinear
	default:
		return scene.InterpolationCubic
	}
}

type curveTarget struct {
	node scene.NodeID
	prop string
}

func (c *fbxToScene) convertAnimation(s *scene.Scene, doc *fbx.Document) {
	targets := map[*fbx.AnimationCurveNode]curveTarget{}
	for m, id := range c.nodes {
		for _, ref := range m.Refs {
			if cn, ok := ref.(*fbx.AnimationCurveNode); ok {
				targets[cn] = curveTarget{node: id, prop: m.RefProp(cn)}
			}
		}
	}

	for _, st := range doc.GetAnimationStacks() {
		stack := s.AddStack(c.decodeName(st.Name()))
		stack.LocalStart = scene.Time(st.LocalStart())
		stack.LocalStop = scene.Time(st.LocalStop())
		for _, l := range st.GetLayers() {
			layer := stack.AddLayer(c.decodeName(l.Name()))
			layer.Weight = l.Weight()
			for _, cn := range l.GetCurveNodes() {
				target, ok := targets[cn]
				if !ok {
					continue
				}
				for axis := 0; axis < 3; axis++ {
					ch, ok := scene.ChannelOf(target.prop, axis)
					curve := cn.GetCurve(axis)
					if !ok || curve == nil {
						continue
					}
					dst := layer.CreateCurve(target.node, ch)
					for _, k := range curve.Keys() {
						dst.AddKey(scene.Time(k.Time), float64(k.Value), toInterpolation(&k))
					}
				}
			}
		}
	}
}

// Convert builds a scene graph from a parsed FBX document.
func (c *fbxToScene) Convert(doc *fbx.Document) (*scene.Scene, error) {
	c.decoder = nil
	if c.options.NameEncoding != "" {
		enc, err := htmlindex.Get(c.options.NameEncoding)
		if err != nil {
			return nil, errors.Wrapf(err, "name encoding %q", c.options.NameEncoding)
		}
		c.decoder = enc.NewDecoder()
	}
	c.nodes = map[*fbx.Model]scene.NodeID{}

	s := scene.New("")
	s.Settings = c.convertSettings(doc)
	for _, m := range doc.Scene.GetChildModels() {
		c.convertModel(s, m, s.Root())
	}
	c.convertAnimation(s, doc)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
