package extract

import (
	"github.com/binzume/rigsplit/geom"
	"github.com/binzume/rigsplit/scene"
)

// CloneSubtree copies srcNode and all its descendants from src into dst,
// attaching the copy under dstParent, and returns the new node.
//
// Names and local transforms are copied verbatim. Skeleton attributes keep
// their type and size. Meshes are rebuilt from control points and polygons
// only: skins, materials, UVs and normals are not carried over.
func CloneSubtree(src *scene.Scene, srcNode scene.NodeID, dst *scene.Scene, dstParent scene.NodeID) scene.NodeID {
	sn := src.Node(srcNode)
	id := dst.AddNode(dstParent, sn.Name)
	dn := dst.Node(id)
	dn.Translation = sn.Translation
	dn.Rotation = sn.Rotation
	dn.Scaling = sn.Scaling
	dn.PreRotation = sn.PreRotation
	dn.Attribute = cloneAttribute(sn.Attribute)

	for _, c := range src.Children(srcNode) {
		CloneSubtree(src, c, dst, id)
	}
	return id
}

func cloneAttribute(a scene.Attribute) scene.Attribute {
	switch a := a.(type) {
	case *scene.Skeleton:
		return &scene.Skeleton{SkeletonType: a.SkeletonType, Size: a.Size}
	case *scene.Mesh:
		return cloneMesh(a)
	default:
		// other attributes are not carried over
		return nil
	}
}

func cloneMesh(m *scene.Mesh) *scene.Mesh {
	mesh := &scene.Mesh{Name: m.Name}
	mesh.ControlPoints = make([]geom.Vector3, len(m.ControlPoints))
	copy(mesh.ControlPoints, m.ControlPoints)

	mesh.Polygons = make([][]int, len(m.Polygons))
	for i, poly := range m.Polygons {
		p := make([]int, len(poly))
		copy(p, poly)
		mesh.Polygons[i] = p
	}
	return mesh
}
