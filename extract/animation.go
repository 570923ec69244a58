package extract

import "github.com/binzume/rigsplit/scene"

// CopyAnimation transplants every stack and layer of src into dst, copying
// the curves of srcNode and its descendants onto dstNode and its
// descendants. Nodes are paired by child index; pairing stops at the
// shorter child list of each level.
func CopyAnimation(src, dst *scene.Scene, srcNode, dstNode scene.NodeID) {
	for _, srcStack := range src.Stacks {
		dstStack := dst.AddStack(srcStack.Name)
		dstStack.LocalStart = srcStack.LocalStart
		dstStack.LocalStop = srcStack.LocalStop
		for _, srcLayer := range srcStack.Layers {
			dstLayer := dstStack.AddLayer(srcLayer.Name)
			dstLayer.Weight = srcLayer.Weight
			copyNodeAnimation(src, dst, srcNode, dstNode, srcLayer, dstLayer)
		}
	}
}

func copyNodeAnimation(src, dst *scene.Scene, srcNode, dstNode scene.NodeID, srcLayer, dstLayer *scene.AnimationLayer) {
	for ch := scene.Channel(0); ch < scene.ChannelCount; ch++ {
		if c := srcLayer.Curve(srcNode, ch); c != nil {
			copyCurve(c, dstLayer.CreateCurve(dstNode, ch))
		}
	}

	srcChildren := src.Children(srcNode)
	dstChildren := dst.Children(dstNode)
	for i := 0; i < len(srcChildren) && i < len(dstChildren); i++ {
		copyNodeAnimation(src, dst, srcChildren[i], dstChildren[i], srcLayer, dstLayer)
	}
}

func copyCurve(src, dst *scene.Curve) {
	for _, k := range src.Keys {
		dst.AddKey(k.Time, k.Value, k.Interpolation)
	}
}
