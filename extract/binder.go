package extract

import "github.com/binzume/rigsplit/scene"

// FindSkinnedMeshes returns the mesh nodes of src that have a skin cluster
// linked to a node named like root, in arena order.
//
// Links are matched by name, not identity, so two rigs sharing a root name
// claim each other's meshes.
//
// Meshes inside root's own subtree are never returned, even when skinned to
// root. CloneSubtree already copies them in place, and attaching them again
// would put a second copy of the mesh directly under the root.
func FindSkinnedMeshes(src *scene.Scene, root scene.NodeID) []scene.NodeID {
	rootName := src.Node(root).Name
	var found []scene.NodeID
	for i := 0; i < src.NodeCount(); i++ {
		id := scene.NodeID(i)
		mesh, ok := src.Node(id).Attribute.(*scene.Mesh)
		if !ok {
			continue
		}
		if id == root || src.IsAncestor(root, id) {
			continue
		}
		if isLinkedTo(mesh, rootName) {
			found = append(found, id)
		}
	}
	return found
}

func isLinkedTo(mesh *scene.Mesh, name string) bool {
	for _, skin := range mesh.Skins {
		for _, cluster := range skin.Clusters {
			if cluster.Link == name {
				return true
			}
		}
	}
	return false
}
