package converter

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/binzume/rigsplit/geom"
	"github.com/binzume/rigsplit/scene"
)

type SceneToGLTFOption struct {
	// Scale is applied to translations and vertices.
	// Default: UnitScaleFactor * 0.01 (centimeters to meters)
	Scale float32
}

type sceneToGltf struct {
	*SceneToGLTFOption
	*gltf.Document
	scale float32
	nodes map[scene.NodeID]uint32
}

func NewSceneToGLTFConverter(options *SceneToGLTFOption) *sceneToGltf {
	if options == nil {
		options = &SceneToGLTFOption{}
	}
	return &sceneToGltf{
		SceneToGLTFOption: options,
	}
}

func toQuat(preRotation, rotation *geom.Vector3) [4]float32 {
	q := geom.NewEulerQuaternion(preRotation).Mul(geom.NewEulerQuaternion(rotation)).Normalize()
	return [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)}
}

func (c *sceneToGltf) scaled(v *geom.Vector3) [3]float32 {
	a := v.ToFloat32Array()
	return [3]float32{a[0] * c.scale, a[1] * c.scale, a[2] * c.scale}
}

func (c *sceneToGltf) addMesh(mesh *scene.Mesh, name string) *uint32 {
	points := make([]*geom.Vector3, len(mesh.ControlPoints))
	for i := range mesh.ControlPoints {
		points[i] = &mesh.ControlPoints[i]
	}
	var indices []uint32
	for _, p := range mesh.Polygons {
		for _, t := range geom.Triangulate(points, p) {
			indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		}
	}
	if len(indices) == 0 {
		return nil
	}

	vertexes := make([][3]float32, len(points))
	for i, p := range points {
		vertexes[i] = c.scaled(p)
	}
	if mesh.Name != "" {
		name = mesh.Name
	}
	c.Meshes = append(c.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(c.Document, indices)),
			Attributes: map[string]uint32{"POSITION": modeler.WritePosition(c.Document, vertexes)},
		}},
	})
	return gltf.Index(uint32(len(c.Meshes) - 1))
}

func (c *sceneToGltf) addNode(s *scene.Scene, id scene.NodeID) uint32 {
	n := s.Node(id)
	index := uint32(len(c.Nodes))
	node := &gltf.Node{
		Name:        n.Name,
		Translation: c.scaled(&n.Translation),
		Rotation:    toQuat(&n.PreRotation, &n.Rotation),
		Scale:       n.Scaling.ToFloat32Array(),
	}
	c.Nodes = append(c.Nodes, node)
	c.nodes[id] = index
	if mesh, ok := n.Attribute.(*scene.Mesh); ok {
		node.Mesh = c.addMesh(mesh, n.Name)
	}
	for _, child := range s.Children(id) {
		node.Children = append(node.Children, c.addNode(s, child))
	}
	return index
}

// keyTimes returns the sorted union of key times of the given curves.
func keyTimes(curves []*scene.Curve) []scene.Time {
	set := map[scene.Time]bool{}
	for _, c := range curves {
		if c == nil {
			continue
		}
		for _, k := range c.Keys {
			set[k.Time] = true
		}
	}
	times := make([]scene.Time, 0, len(set))
	for t := range set {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

func sample(c *scene.Curve, t scene.Time, def float64) float64 {
	if c == nil {
		return def
	}
	return c.Evaluate(t)
}

// sampleVector evaluates three component curves at t, using def where a
// component is not animated.
func sampleVector(curves []*scene.Curve, t scene.Time, def *geom.Vector3) *geom.Vector3 {
	return &geom.Vector3{
		X: sample(curves[0], t, def.X),
		Y: sample(curves[1], t, def.Y),
		Z: sample(curves[2], t, def.Z),
	}
}

func (c *sceneToGltf) addSampler(a *gltf.Animation, node uint32, path gltf.TRSProperty, input, output uint32) {
	a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(input),
		Output:        gltf.Index(output),
		Interpolation: gltf.InterpolationLinear,
	})
	a.Channels = append(a.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

// addAnimation bakes the first layer of the stack. Every animated
// property is resampled at the union of its component key times.
func (c *sceneToGltf) addAnimation(s *scene.Scene, stack *scene.AnimationStack) {
	if len(stack.Layers) == 0 {
		return
	}
	layer := stack.Layers[0]
	a := &gltf.Animation{Name: stack.Name}
	for _, id := range layer.Nodes() {
		index, ok := c.nodes[id]
		if !ok {
			continue
		}
		n := s.Node(id)
		for ch := scene.Channel(0); ch < scene.ChannelCount; ch += 3 {
			curves := []*scene.Curve{layer.Curve(id, ch), layer.Curve(id, ch+1), layer.Curve(id, ch+2)}
			times := keyTimes(curves)
			if len(times) == 0 {
				continue
			}
			input := make([]float32, len(times))
			for i, t := range times {
				input[i] = float32((t - stack.LocalStart).Seconds())
			}
			inputAcc := modeler.WriteAccessor(c.Document, gltf.TargetArrayBuffer, input)

			switch ch.Property() {
			case scene.PropTranslation:
				values := make([][3]float32, len(times))
				for i, t := range times {
					values[i] = c.scaled(sampleVector(curves, t, &n.Translation))
				}
				c.addSampler(a, index, gltf.TRSTranslation, inputAcc, modeler.WritePosition(c.Document, values))
			case scene.PropRotation:
				values := make([][4]float32, len(times))
				var prev mgl64.Quat
				for i, t := range times {
					q := toQuat(&n.PreRotation, sampleVector(curves, t, &n.Rotation))
					cur := mgl64.Quat{W: float64(q[3]), V: mgl64.Vec3{float64(q[0]), float64(q[1]), float64(q[2])}}
					// keep consecutive samples in the same hemisphere
					if i > 0 && prev.Dot(cur) < 0 {
						q = [4]float32{-q[0], -q[1], -q[2], -q[3]}
						cur = cur.Scale(-1)
					}
					values[i] = q
					prev = cur
				}
				c.addSampler(a, index, gltf.TRSRotation, inputAcc, modeler.WriteTangent(c.Document, values))
			case scene.PropScaling:
				values := make([][3]float32, len(times))
				for i, t := range times {
					values[i] = sampleVector(curves, t, &n.Scaling).ToFloat32Array()
				}
				c.addSampler(a, index, gltf.TRSScale, inputAcc, modeler.WriteAccessor(c.Document, gltf.TargetArrayBuffer, values))
			}
		}
	}
	if len(a.Channels) > 0 {
		c.Animations = append(c.Animations, a)
	}
}

// Convert builds a glTF document from a scene graph.
func (c *sceneToGltf) Convert(s *scene.Scene) (*gltf.Document, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c.Document = gltf.NewDocument()
	c.nodes = map[scene.NodeID]uint32{}
	c.scale = c.Scale
	if c.scale == 0 {
		c.scale = float32(s.Settings.UnitScaleFactor * 0.01)
	}

	for _, id := range s.Children(s.Root()) {
		c.Scenes[0].Nodes = append(c.Scenes[0].Nodes, c.addNode(s, id))
	}
	for _, stack := range s.Stacks {
		c.addAnimation(s, stack)
	}
	return c.Document, nil
}
