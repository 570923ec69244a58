package fbx

import (
	"bytes"
	"testing"

	"github.com/binzume/rigsplit/geom"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	doc.GlobalSettings.SetIntProperty("UpAxis", 1)
	doc.GlobalSettings.SetFloatProperty("UnitScaleFactor", 2.54)

	hips := NewModel(doc.NewID(), "Hips", "LimbNode")
	hips.SetTranslation(&geom.Vector3{X: 1, Y: 90, Z: 0})
	hips.SetPreRotation(&geom.Vector3{X: -90})
	doc.AddObject(hips)
	attr := NewNodeAttribute(doc.NewID(), "Hips", "LimbNode", "Skeleton")
	attr.SetSize(3)
	doc.AddObject(attr)
	spine := NewModel(doc.NewID(), "Spine", "LimbNode")
	spine.SetScaling(&geom.Vector3{X: 1, Y: 2, Z: 1})
	doc.AddObject(spine)

	body := NewModel(doc.NewID(), "Body", "Mesh")
	doc.AddObject(body)
	g := NewGeometry(doc.NewID(), "Body", []geom.Vector3{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, [][]int{{0, 1, 2, 3}, {0, 2, 3}})
	doc.AddObject(g)
	skin := NewSkin(doc.NewID(), "Skin")
	doc.AddObject(skin)
	cluster := NewCluster(doc.NewID(), "Cluster")
	doc.AddObject(cluster)

	stack := NewAnimationStack(doc.NewID(), "Take 001")
	stack.SetTimeSpan(0, TimeSecond)
	doc.AddObject(stack)
	layer := NewAnimationLayer(doc.NewID(), "BaseLayer")
	doc.AddObject(layer)
	curveNode := NewAnimationCurveNode(doc.NewID(), "T", [3]float64{1, 90, 0})
	doc.AddObject(curveNode)
	curve := NewAnimationCurve(doc.NewID(), []AnimationKey{
		{Time: 0, Value: 1, Flags: KeyInterpolationLinear},
		{Time: TimeSecond / 2, Value: 2, Flags: KeyInterpolationLinear},
		{Time: TimeSecond, Value: 3, Flags: KeyInterpolationConstant},
	})
	doc.AddObject(curve)

	doc.AddConnection(doc.Scene, hips)
	doc.AddConnection(hips, attr)
	doc.AddConnection(hips, spine)
	doc.AddConnection(doc.Scene, body)
	doc.AddConnection(body, g)
	doc.AddConnection(g, skin)
	doc.AddConnection(skin, cluster)
	doc.AddConnection(cluster, spine)
	doc.AddConnection(stack, layer)
	doc.AddConnection(layer, curveNode)
	doc.AddPropertyConnection(hips, curveNode, "Lcl Translation")
	doc.AddPropertyConnection(curveNode, curve, "d|X")

	var b bytes.Buffer
	if err := Write(&b, doc); err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(&b)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Version != 7400 || parsed.Creator != Creator {
		t.Error("header: ", parsed.Version, parsed.Creator)
	}
	if parsed.GetIntSetting("UpAxis", -1) != 1 || parsed.GetFloatSetting("UnitScaleFactor", 1) != 2.54 {
		t.Error("global settings")
	}
	if n := len(parsed.FindObjects("Model")); n != 3 {
		t.Error("models: ", n)
	}
	if parsed.RawNode.FindChild("Definitions").FindChild("Count").GetInt() != 12 {
		t.Error("definitions count")
	}

	roots := parsed.Scene.GetChildModels()
	if len(roots) != 2 || roots[0].Name() != "Hips" || roots[1].Name() != "Body" {
		t.Fatal("root children: ", len(roots))
	}
	h := roots[0]
	if !h.IsSkeleton() || h.Parent != parsed.Scene {
		t.Error("hips")
	}
	if *h.GetTranslation() != (geom.Vector3{X: 1, Y: 90, Z: 0}) || h.GetPreRotation().X != -90 {
		t.Error("transform: ", h.GetTranslation(), h.GetPreRotation())
	}
	if a := h.GetNodeAttribute(); a == nil || a.TypeFlags() != "Skeleton" || a.GetSize() != 3 {
		t.Error("node attribute")
	}
	children := h.GetChildModels()
	if len(children) != 1 || children[0].Name() != "Spine" || children[0].GetScaling().Y != 2 {
		t.Error("spine")
	}

	geometry := roots[1].GetGeometry()
	if geometry == nil || len(geometry.Vertices) != 4 || len(geometry.Polygons) != 2 || len(geometry.Polygons[1]) != 3 {
		t.Fatal("geometry")
	}
	skins := geometry.GetSkins()
	if len(skins) != 1 || len(skins[0].GetClusters()) != 1 {
		t.Fatal("skins")
	}
	if target := skins[0].GetClusters()[0].GetTarget(); target == nil || target.Name() != "Spine" {
		t.Error("cluster target")
	}

	stacks := parsed.GetAnimationStacks()
	if len(stacks) != 1 || stacks[0].Name() != "Take 001" || stacks[0].LocalStop() != TimeSecond {
		t.Fatal("stacks")
	}
	layers := stacks[0].GetLayers()
	if len(layers) != 1 || layers[0].Weight() != 100 || len(layers[0].GetCurveNodes()) != 1 {
		t.Fatal("layers")
	}
	cn := layers[0].GetCurveNodes()[0]
	if h.RefProp(cn) != "Lcl Translation" || cn.Name() != "T" {
		t.Error("curve node target")
	}
	if cn.GetCurve(1) != nil {
		t.Error("d|Y should not be connected")
	}
	keys := cn.GetCurve(0).Keys()
	if len(keys) != 3 || keys[1].Time != TimeSecond/2 || keys[2].Value != 3 {
		t.Fatal("keys: ", keys)
	}
	if keys[0].Interpolation() != KeyInterpolationLinear || keys[2].Interpolation() != KeyInterpolationConstant {
		t.Error("interpolation: ", keys)
	}
}

func TestParseGeometryInvalid(t *testing.T) {
	for _, indices := range [][]int32{{0, 1, ^5}, {0, 1}} {
		root := NewNode("_FBX_ROOT").AddChild(NewNode("Objects").AddChild(
			NewNode("Geometry", int64(1), "G\x00\x01Geometry", "Mesh").AddChild(
				NewNode("Vertices", []float64{0, 0, 0, 1, 0, 0, 1, 1, 0}),
				NewNode("PolygonVertexIndex", indices),
			),
		))
		if _, err := BuildDocument(root); err == nil {
			t.Error("should fail: ", indices)
		}
	}
}

func TestSplitName(t *testing.T) {
	for _, tc := range []struct{ in, name, class string }{
		{"Hips\x00\x01Model", "Hips", "Model"},
		{"Model::Hips", "Hips", "Model"},
		{"Hips", "Hips", ""},
		{"\x00\x01AnimCurve", "", "AnimCurve"},
	} {
		if name, class := SplitName(tc.in); name != tc.name || class != tc.class {
			t.Errorf("%q: %q %q", tc.in, name, class)
		}
	}
}
