package scene

import "sort"

// Time is an FBX time value in ticks.
type Time int64

// Second is the number of ticks per second.
const Second Time = 46186158000

func (t Time) Seconds() float64 {
	return float64(t) / float64(Second)
}

type Interpolation int

const (
	InterpolationConstant Interpolation = iota
	InterpolationLinear
	InterpolationCubic
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "Constant"
	case InterpolationLinear:
		return "Linear"
	default:
		return "Cubic"
	}
}

type Keyframe struct {
	Time          Time
	Value         float64
	Interpolation Interpolation
}

type Curve struct {
	Keys []Keyframe
}

// AddKey appends a key. Keys are kept in insertion order.
func (c *Curve) AddKey(t Time, v float64, interp Interpolation) int {
	c.Keys = append(c.Keys, Keyframe{Time: t, Value: v, Interpolation: interp})
	return len(c.Keys) - 1
}

// Offset adds d to every key value.
func (c *Curve) Offset(d float64) {
	for i := range c.Keys {
		c.Keys[i].Value += d
	}
}

// Evaluate samples the curve at t. Cubic segments are evaluated linearly.
func (c *Curve) Evaluate(t Time) float64 {
	if len(c.Keys) == 0 {
		return 0
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	last := c.Keys[len(c.Keys)-1]
	if t >= last.Time {
		return last.Value
	}
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > t }) - 1
	k0, k1 := c.Keys[i], c.Keys[i+1]
	if k0.Interpolation == InterpolationConstant || k1.Time == k0.Time {
		return k0.Value
	}
	r := float64(t-k0.Time) / float64(k1.Time-k0.Time)
	return k0.Value + (k1.Value-k0.Value)*r
}

// Channel is one animatable component of a node's local transform.
type Channel int

const (
	TranslationX Channel = iota
	TranslationY
	TranslationZ
	RotationX
	RotationY
	RotationZ
	ScalingX
	ScalingY
	ScalingZ

	ChannelCount = 9
)

// Property names used by FBX for each transform group.
const (
	PropTranslation = "Lcl Translation"
	PropRotation    = "Lcl Rotation"
	PropScaling     = "Lcl Scaling"
)

var channelProps = [...]string{PropTranslation, PropRotation, PropScaling}

// ChannelOf returns the channel for a property name and axis (0..2).
func ChannelOf(prop string, axis int) (Channel, bool) {
	for i, p := range channelProps {
		if p == prop && axis >= 0 && axis < 3 {
			return Channel(i*3 + axis), true
		}
	}
	return 0, false
}

func (c Channel) Property() string {
	return channelProps[int(c)/3]
}

// Axis returns 0, 1 or 2 for X, Y, Z.
func (c Channel) Axis() int {
	return int(c) % 3
}

func (c Channel) Component() string {
	return [...]string{"X", "Y", "Z"}[c.Axis()]
}

func (c Channel) String() string {
	return c.Property() + "." + c.Component()
}

type AnimationStack struct {
	Name       string
	LocalStart Time
	LocalStop  Time
	Layers     []*AnimationLayer
}

func (s *AnimationStack) AddLayer(name string) *AnimationLayer {
	layer := &AnimationLayer{Name: name, Weight: 100, curves: map[NodeID]*[ChannelCount]*Curve{}}
	s.Layers = append(s.Layers, layer)
	return layer
}

type AnimationLayer struct {
	Name   string
	Weight float64

	curves map[NodeID]*[ChannelCount]*Curve
	nodes  []NodeID
}

// Curve returns the curve for the node channel or nil.
func (l *AnimationLayer) Curve(node NodeID, ch Channel) *Curve {
	if cc := l.curves[node]; cc != nil {
		return cc[ch]
	}
	return nil
}

// CreateCurve returns the curve for the node channel, creating it if needed.
func (l *AnimationLayer) CreateCurve(node NodeID, ch Channel) *Curve {
	cc := l.curves[node]
	if cc == nil {
		if l.curves == nil {
			l.curves = map[NodeID]*[ChannelCount]*Curve{}
		}
		cc = &[ChannelCount]*Curve{}
		l.curves[node] = cc
		l.nodes = append(l.nodes, node)
	}
	if cc[ch] == nil {
		cc[ch] = &Curve{}
	}
	return cc[ch]
}

// Nodes returns animated nodes in the order their first curve was created.
func (l *AnimationLayer) Nodes() []NodeID {
	return l.nodes
}

// CurveCount returns the number of curves in the layer.
func (l *AnimationLayer) CurveCount() int {
	n := 0
	for _, cc := range l.curves {
		for _, c := range cc {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// EachCurve calls fn for every curve of the node channel across all
// layers of all stacks.
func (s *Scene) EachCurve(node NodeID, ch Channel, fn func(c *Curve)) {
	for _, stack := range s.Stacks {
		for _, layer := range stack.Layers {
			if c := layer.Curve(node, ch); c != nil {
				fn(c)
			}
		}
	}
}
