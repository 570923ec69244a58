// Package extract splits the skeletons of a scene into standalone scenes.
package extract

import (
	"log"

	"github.com/binzume/rigsplit/scene"
)

// Logger receives progress and diagnostic messages. *log.Logger implements it.
type Logger interface {
	Printf(format string, v ...interface{})
}

type Options struct {
	// RotateToFaceZ turns each extracted rig to face +Z.
	RotateToFaceZ bool
	// ForwardHint selects the child used to estimate the facing direction.
	ForwardHint string
}

type Extractor struct {
	options *Options
	log     Logger
}

func NewExtractor(options *Options, logger Logger) *Extractor {
	var o Options
	if options != nil {
		o = *options
	}
	if o.ForwardHint == "" {
		o.ForwardHint = DefaultForwardHint
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{options: &o, log: logger}
}

// Extract builds a new scene holding a copy of the skeleton rooted at root,
// the meshes skinned to it, and its animation. src is not modified.
func (e *Extractor) Extract(src *scene.Scene, root scene.NodeID) *scene.Scene {
	dst := scene.New(src.Node(root).Name)
	dst.Settings = src.Settings

	newRoot := CloneSubtree(src, root, dst, dst.Root())
	e.attachSkinnedMeshes(src, dst, root, newRoot)
	CopyAnimation(src, dst, root, newRoot)
	return dst
}

func (e *Extractor) attachSkinnedMeshes(src, dst *scene.Scene, root, dstRoot scene.NodeID) {
	for _, id := range FindSkinnedMeshes(src, root) {
		CloneSubtree(src, id, dst, dstRoot)
		e.log.Printf("  Attached mesh: %s", src.Node(id).Name)
	}
}

// Normalize recenters the first skeleton of s and, if enabled, turns it to
// face +Z. A scene without skeletons is left untouched.
func (e *Extractor) Normalize(s *scene.Scene) {
	roots := FindSkeletonRoots(s)
	if len(roots) == 0 {
		e.log.Printf("No skeletons found in the scene %q", s.Name)
		return
	}
	root := roots[0]

	Recenter(s, root)

	if e.options.RotateToFaceZ {
		if angle, ok := FaceForward(s, root, e.options.ForwardHint); ok {
			e.log.Printf("  Rotated %s by %.3f degrees", s.Node(root).Name, angle)
		} else {
			e.log.Printf("  %s has no children, skipped rotation", s.Node(root).Name)
		}
	}
}
