package fbx

import (
	"math"
)

// KTime ticks per second.
const TimeSecond = 46186158000

// Key interpolation flags of AnimationCurve.KeyAttrFlags.
const (
	KeyInterpolationConstant int32 = 0x00000002
	KeyInterpolationLinear   int32 = 0x00000004
	KeyInterpolationCubic    int32 = 0x00000008
	KeyTangentAuto           int32 = 0x00000100

	keyInterpolationMask int32 = 0x0000000e
)

// default KeyAttrDataFloat: zero slopes, 1/3 weights
var defaultKeyAttrData = [4]float32{0, 0, math.Float32frombits(218434821), 0}

type AnimationStack struct {
	Obj
}

func NewAnimationStack(id int64, name string) *AnimationStack {
	return &AnimationStack{Obj: *newObj(id, "AnimationStack", name, "AnimStack", "")}
}

func (s *AnimationStack) LocalStart() int64 {
	return s.GetProperty70("LocalStart").Get(0).ToInt64(0)
}

func (s *AnimationStack) LocalStop() int64 {
	return s.GetProperty70("LocalStop").Get(0).ToInt64(0)
}

func (s *AnimationStack) SetTimeSpan(start, stop int64) {
	s.SetTimeProperty("LocalStart", start)
	s.SetTimeProperty("LocalStop", stop)
	s.SetTimeProperty("ReferenceStart", start)
	s.SetTimeProperty("ReferenceStop", stop)
}

func (s *AnimationStack) GetLayers() []*AnimationLayer {
	var r []*AnimationLayer
	for _, o := range s.Refs {
		if l, ok := o.(*AnimationLayer); ok {
			r = append(r, l)
		}
	}
	return r
}

type AnimationLayer struct {
	Obj
}

func NewAnimationLayer(id int64, name string) *AnimationLayer {
	return &AnimationLayer{Obj: *newObj(id, "AnimationLayer", name, "AnimLayer", "")}
}

func (l *AnimationLayer) Weight() float64 {
	return l.GetProperty70("Weight").ToFloat64(100)
}

func (l *AnimationLayer) SetWeight(w float64) {
	l.SetProperty70("Weight", &Property70{Type: "Number", Flag: "A", AttributeList: AttributeList{{Value: w}}})
}

func (l *AnimationLayer) GetCurveNodes() []*AnimationCurveNode {
	var r []*AnimationCurveNode
	for _, o := range l.Refs {
		if n, ok := o.(*AnimationCurveNode); ok {
			r = append(r, n)
		}
	}
	return r
}

// AnimationCurveNode groups the X/Y/Z curves of one model property.
// Kind is "T", "R" or "S".
type AnimationCurveNode struct {
	Obj
}

func NewAnimationCurveNode(id int64, kind string, def [3]float64) *AnimationCurveNode {
	n := &AnimationCurveNode{Obj: *newObj(id, "AnimationCurveNode", kind, "AnimCurveNode", "")}
	for i, c := range []string{"d|X", "d|Y", "d|Z"} {
		n.SetProperty70(c, &Property70{Type: "Number", Flag: "A", AttributeList: AttributeList{{Value: def[i]}}})
	}
	return n
}

// GetCurve returns the curve connected as "d|X", "d|Y" or "d|Z".
func (n *AnimationCurveNode) GetCurve(axis int) *AnimationCurve {
	prop := [...]string{"d|X", "d|Y", "d|Z"}[axis]
	for i, o := range n.Refs {
		if c, ok := o.(*AnimationCurve); ok && n.refProps[i] == prop {
			return c
		}
	}
	return nil
}

type AnimationKey struct {
	Time  int64
	Value float32
	Flags int32
}

type AnimationCurve struct {
	Obj
}

func NewAnimationCurve(id int64, keys []AnimationKey) *AnimationCurve {
	times := make([]int64, len(keys))
	values := make([]float32, len(keys))
	var flags, refCount []int32
	var data []float32
	for i, k := range keys {
		times[i] = k.Time
		values[i] = k.Value
		if len(flags) > 0 && flags[len(flags)-1] == k.Flags {
			refCount[len(refCount)-1]++
			continue
		}
		flags = append(flags, k.Flags)
		refCount = append(refCount, 1)
		data = append(data, defaultKeyAttrData[:]...)
	}
	if flags == nil {
		flags, refCount, data = []int32{}, []int32{}, []float32{}
	}
	var def float64
	if len(keys) > 0 {
		def = float64(keys[0].Value)
	}

	c := &AnimationCurve{Obj: Obj{Node: &Node{
		Name:       "AnimationCurve",
		Attributes: AttributeList{{Value: id}, {Value: "\x00\x01AnimCurve"}, {Value: ""}},
	}}}
	c.AddChild(
		NewNode("Default", def),
		NewNode("KeyVer", 4008),
		NewNode("KeyTime", times),
		NewNode("KeyValueFloat", values),
		NewNode("KeyAttrFlags", flags),
		NewNode("KeyAttrDataFloat", data),
		NewNode("KeyAttrRefCount", refCount),
	)
	return c
}

// Keys decodes the keyframes. Attribute flags are expanded by their
// reference counts; keys without flags default to cubic.
func (c *AnimationCurve) Keys() []AnimationKey {
	times := c.FindChild("KeyTime").GetInt64Array()
	values := c.FindChild("KeyValueFloat").GetFloat32Array()
	flags := c.FindChild("KeyAttrFlags").GetInt32Array()
	refCount := c.FindChild("KeyAttrRefCount").GetInt32Array()

	keys := make([]AnimationKey, 0, len(times))
	attr, remain := 0, int32(0)
	if len(refCount) > 0 {
		remain = refCount[0]
	}
	for i, t := range times {
		k := AnimationKey{Time: t, Flags: KeyInterpolationCubic}
		if i < len(values) {
			k.Value = values[i]
		}
		for remain <= 0 && attr+1 < len(refCount) {
			attr++
			remain = refCount[attr]
		}
		if attr < len(flags) {
			k.Flags = flags[attr]
		}
		remain--
		keys = append(keys, k)
	}
	return keys
}

// Interpolation returns the interpolation bits of the key flags.
func (k *AnimationKey) Interpolation() int32 {
	return k.Flags & keyInterpolationMask
}
