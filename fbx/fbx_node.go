package fbx

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/binzume/rigsplit/geom"
)

// Node is a raw FBX record: a name, a list of typed values and child records.
type Node struct {
	Name       string
	Attributes AttributeList
	Children   []*Node
}

// Attribute is a single value of a node.
// ArraySize is non-zero for array values.
type Attribute struct {
	Value     interface{}
	ArraySize uint
}

type AttributeList []*Attribute

// NewNode creates a node. Slice values become array attributes.
func NewNode(name string, values ...interface{}) *Node {
	node := &Node{Name: name}
	for _, v := range values {
		node.Attributes = append(node.Attributes, newAttribute(v))
	}
	return node
}

func newAttribute(v interface{}) *Attribute {
	switch v := v.(type) {
	case int:
		return &Attribute{Value: int32(v)}
	case []bool:
		return &Attribute{Value: v, ArraySize: uint(len(v))}
	case []int32:
		return &Attribute{Value: v, ArraySize: uint(len(v))}
	case []int64:
		return &Attribute{Value: v, ArraySize: uint(len(v))}
	case []float32:
		return &Attribute{Value: v, ArraySize: uint(len(v))}
	case []float64:
		return &Attribute{Value: v, ArraySize: uint(len(v))}
	}
	return &Attribute{Value: v}
}

func (n *Node) FindChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) FindChildren(name string) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, c := range n.Children {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

func (n *Node) AddChild(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// AddOrReplaceChild replaces the first child with the same name.
// Returns true if the node was appended.
func (n *Node) AddOrReplaceChild(node *Node) bool {
	for i, c := range n.Children {
		if c.Name == node.Name {
			n.Children[i] = node
			return false
		}
	}
	n.Children = append(n.Children, node)
	return true
}

func (n *Node) Attr(i int) *Attribute {
	if n == nil {
		return nil
	}
	return n.Attributes.Get(i)
}

func (n *Node) GetInt() int {
	return n.Attr(0).ToInt(0)
}

func (n *Node) GetString() string {
	return n.Attr(0).ToString()
}

func (n *Node) GetInt32Array() []int32 {
	return n.Attr(0).ToInt32Array()
}

func (n *Node) GetInt64Array() []int64 {
	return n.Attr(0).ToInt64Array()
}

func (n *Node) GetFloat32Array() []float32 {
	return n.Attr(0).ToFloat32Array()
}

func (n *Node) GetFloat64Array() []float64 {
	return n.Attr(0).ToFloat64Array()
}

func (n *Node) GetVec3Array() []geom.Vector3 {
	return n.Attr(0).ToVec3Array()
}

func (l AttributeList) Get(i int) *Attribute {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (l AttributeList) ToFloat64(def float64) float64 {
	return l.Get(0).ToFloat64(def)
}

func (l AttributeList) ToInt(def int) int {
	return l.Get(0).ToInt(def)
}

func (l AttributeList) ToString(def string) string {
	if a := l.Get(0); a != nil {
		if s, ok := a.Value.(string); ok {
			return s
		}
	}
	return def
}

func (l AttributeList) ToVector3(x, y, z float64) *geom.Vector3 {
	return &geom.Vector3{X: l.Get(0).ToFloat64(x), Y: l.Get(1).ToFloat64(y), Z: l.Get(2).ToFloat64(z)}
}

func (a *Attribute) ToInt(def int) int {
	return int(a.ToInt64(int64(def)))
}

func (a *Attribute) ToInt64(def int64) int64 {
	if a == nil {
		return def
	}
	switch v := a.Value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case uint8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return def
}

func (a *Attribute) ToFloat64(def float64) float64 {
	if a == nil {
		return def
	}
	switch v := a.Value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (a *Attribute) ToString() string {
	if a == nil {
		return ""
	}
	switch v := a.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func (a *Attribute) ToBool() bool {
	if a == nil {
		return false
	}
	if b, ok := a.Value.(bool); ok {
		return b
	}
	return a.ToInt64(0) != 0
}

func (a *Attribute) ToInt32Array() []int32 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []int32:
		return vv
	case []int64:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	case []float64:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToInt64Array() []int64 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []int64:
		return vv
	case []int32:
		r := make([]int64, len(vv))
		for i, v := range vv {
			r[i] = int64(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToFloat32Array() []float32 {
	if a == nil {
		return nil
	}
	if vv, ok := a.Value.([]float32); ok {
		return vv
	}
	f := a.ToFloat64Array()
	if f == nil {
		return nil
	}
	r := make([]float32, len(f))
	for i, v := range f {
		r[i] = float32(v)
	}
	return r
}

func (a *Attribute) ToFloat64Array() []float64 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []float64:
		return vv
	case []float32:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	case []int32:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	case []int64:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToVec3Array() []geom.Vector3 {
	v := a.ToFloat64Array()
	r := make([]geom.Vector3, len(v)/3)
	for i := range r {
		r[i] = geom.Vector3{X: v[i*3], Y: v[i*3+1], Z: v[i*3+2]}
	}
	return r
}

var quoteReplacer = strings.NewReplacer("\"", "&quot;", "\n", "&#10;")

// asciiName converts a binary object name "Name\x00\x01Class" to "Class::Name".
func asciiName(s string) string {
	if i := strings.Index(s, "\x00\x01"); i >= 0 {
		return s[i+2:] + "::" + s[:i]
	}
	return s
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func (a *Attribute) String() string {
	switch v := a.Value.(type) {
	case string:
		return "\"" + quoteReplacer.Replace(asciiName(v)) + "\""
	case []byte:
		return "\"" + base64.StdEncoding.EncodeToString(v) + "\""
	case bool:
		if v {
			return "T"
		}
		return "F"
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case []bool:
		s := make([]string, len(v))
		for i, b := range v {
			s[i] = "0"
			if b {
				s[i] = "1"
			}
		}
		return strings.Join(s, ",")
	case []float32:
		s := make([]string, len(v))
		for i, f := range v {
			s[i] = formatFloat(float64(f))
		}
		return strings.Join(s, ",")
	case []float64:
		s := make([]string, len(v))
		for i, f := range v {
			s[i] = formatFloat(f)
		}
		return strings.Join(s, ",")
	case []int32:
		s := make([]string, len(v))
		for i, n := range v {
			s[i] = strconv.FormatInt(int64(n), 10)
		}
		return strings.Join(s, ",")
	case []int64:
		s := make([]string, len(v))
		for i, n := range v {
			s[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(s, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Dump writes the node in FBX ASCII syntax. Arrays longer than 16 elements
// are elided unless full is set.
func (n *Node) Dump(w io.Writer, d int, full bool) {
	indent := strings.Repeat("  ", d)
	fmt.Fprint(w, indent, n.Name, ":")
	for i, a := range n.Attributes {
		sep := ", "
		if i == 0 {
			sep = " "
		}
		if a.ArraySize > 0 || isArray(a.Value) {
			if !full && a.ArraySize > 16 {
				fmt.Fprintf(w, "%s*%d { SKIPPED }", sep, a.ArraySize)
				continue
			}
			fmt.Fprintf(w, "%s*%d {\n%s  a: %s\n%s}", sep, a.ArraySize, indent, a.String(), indent)
			continue
		}
		fmt.Fprint(w, sep, a.String())
	}
	if len(n.Children) > 0 || len(n.Attributes) == 0 {
		fmt.Fprintln(w, " {")
		for _, c := range n.Children {
			c.Dump(w, d+1, full)
		}
		fmt.Fprintln(w, indent+"}")
	} else {
		fmt.Fprintln(w, "")
	}
}

func isArray(v interface{}) bool {
	switch v.(type) {
	case []bool, []int32, []int64, []float32, []float64:
		return true
	}
	return false
}
