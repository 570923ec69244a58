package extract

import "github.com/binzume/rigsplit/scene"

// FindSkeletonRoots returns the topmost skeleton nodes of s in pre-order.
// Skeleton nodes below an already found root belong to that root's rig and
// are not reported, but traversal continues into every subtree so rigs
// parented under non-skeleton nodes are still found.
func FindSkeletonRoots(s *scene.Scene) []scene.NodeID {
	var roots []scene.NodeID
	findSkeletons(s, s.Root(), false, &roots)
	return roots
}

func findSkeletons(s *scene.Scene, id scene.NodeID, inSkeleton bool, roots *[]scene.NodeID) {
	isSkeleton := scene.IsSkeleton(s.Node(id).Attribute)
	if isSkeleton && !inSkeleton {
		*roots = append(*roots, id)
	}
	for _, c := range s.Children(id) {
		findSkeletons(s, c, inSkeleton || isSkeleton, roots)
	}
}
