package fbx

import (
	"github.com/pkg/errors"

	"github.com/binzume/rigsplit/geom"
)

type Geometry struct {
	Obj
	Vertices []geom.Vector3
	Polygons [][]int
}

func NewGeometry(id int64, name string, verts []geom.Vector3, polygons [][]int) *Geometry {
	varray := make([]float64, 0, len(verts)*3)
	for _, v := range verts {
		varray = append(varray, v.X, v.Y, v.Z)
	}
	var indices []int32
	for _, f := range polygons {
		for _, i := range f {
			indices = append(indices, int32(i))
		}
		if len(f) > 0 {
			indices[len(indices)-1] = ^indices[len(indices)-1]
		}
	}
	if indices == nil {
		indices = []int32{}
	}

	return &Geometry{
		Obj: *newObj(id, "Geometry", name, "Geometry", "Mesh",
			NewNode("GeometryVersion", 124),
			NewNode("Vertices", varray),
			NewNode("PolygonVertexIndex", indices),
		),
		Vertices: verts,
		Polygons: polygons,
	}
}

func parseGeometry(base *Obj) (*Geometry, error) {
	g := &Geometry{Obj: *base}
	g.Vertices = base.FindChild("Vertices").GetVec3Array()

	var poly []int
	for _, index := range base.FindChild("PolygonVertexIndex").GetInt32Array() {
		last := index < 0
		if last {
			index = ^index
		}
		if int(index) >= len(g.Vertices) {
			return nil, errors.Errorf("geometry %q: vertex index %d out of range %d", g.Name(), index, len(g.Vertices))
		}
		poly = append(poly, int(index))
		if last {
			g.Polygons = append(g.Polygons, poly)
			poly = nil
		}
	}
	if len(poly) > 0 {
		return nil, errors.Errorf("geometry %q: unterminated polygon", g.Name())
	}
	return g, nil
}

// GetSkins returns the skin deformers bound to the geometry.
func (g *Geometry) GetSkins() []*Deformer {
	var r []*Deformer
	for _, o := range g.FindRefs("Deformer") {
		if d, ok := o.(*Deformer); ok && d.Kind() == "Skin" {
			r = append(r, d)
		}
	}
	return r
}

// Deformer is a skin ("Skin") or one of its clusters ("Cluster").
type Deformer struct {
	Obj
}

func NewSkin(id int64, name string) *Deformer {
	return &Deformer{Obj: *newObj(id, "Deformer", name, "Deformer", "Skin",
		NewNode("Version", 101),
		NewNode("Link_DeformAcuracy", 50.0),
	)}
}

func NewCluster(id int64, name string) *Deformer {
	identity := []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	return &Deformer{Obj: *newObj(id, "Deformer", name, "SubDeformer", "Cluster",
		NewNode("Version", 100),
		NewNode("UserData", "", ""),
		NewNode("Transform", identity),
		NewNode("TransformLink", identity),
	)}
}

func (d *Deformer) GetClusters() []*Deformer {
	var r []*Deformer
	for _, o := range d.FindRefs("Deformer") {
		if c, ok := o.(*Deformer); ok && c.Kind() == "Cluster" {
			r = append(r, c)
		}
	}
	return r
}

// GetTarget returns the model linked to a cluster.
func (d *Deformer) GetTarget() *Model {
	for _, o := range d.Refs {
		if m, ok := o.(*Model); ok {
			return m
		}
	}
	return nil
}
