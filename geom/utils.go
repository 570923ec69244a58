package geom

func IsInTriangle(p, a, b, c *Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) > 0 && c2.Dot(c3) > 0 && c3.Dot(c1) > 0
}

// polygonNormal returns the Newell normal of the polygon.
func polygonNormal(points []*Vector3, polygon []int) *Vector3 {
	n := &Vector3{}
	for i, cur := range polygon {
		p := points[cur]
		q := points[polygon[(i+1)%len(polygon)]]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n.Normalize()
}

func isEar(points []*Vector3, ring []int, i int, normal *Vector3) bool {
	prev, cur, next := ring[(i+len(ring)-1)%len(ring)], ring[i], ring[(i+1)%len(ring)]
	a, b, c := points[prev], points[cur], points[next]
	if c.Sub(b).Cross(a.Sub(b)).Dot(normal) < 0 {
		return false
	}
	for _, j := range ring {
		if j != prev && j != cur && j != next && IsInTriangle(points[j], a, b, c) {
			return false
		}
	}
	return true
}

// Triangulate splits a polygon, given as indices into points, into
// triangles by ear clipping. Triangles refer to indices into points.
func Triangulate(points []*Vector3, polygon []int) [][3]int {
	if len(polygon) < 3 {
		return nil
	}
	if len(polygon) == 3 {
		return [][3]int{{polygon[0], polygon[1], polygon[2]}}
	}
	normal := polygonNormal(points, polygon)
	ring := append([]int(nil), polygon...)
	dst := make([][3]int, 0, len(polygon)-2)
	for len(ring) > 3 {
		ear := -1
		for i := len(ring) - 1; i >= 0; i-- {
			if isEar(points, ring, i, normal) {
				ear = i
				break
			}
		}
		if ear < 0 {
			// self-intersecting polygon: fan the rest
			break
		}
		dst = append(dst, [3]int{ring[(ear+len(ring)-1)%len(ring)], ring[ear], ring[(ear+1)%len(ring)]})
		ring = append(ring[:ear], ring[ear+1:]...)
	}
	for i := 1; i+1 < len(ring); i++ {
		dst = append(dst, [3]int{ring[0], ring[i], ring[i+1]})
	}
	return dst
}
