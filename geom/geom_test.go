package geom

import (
	"math"
	"testing"
)

func TestEulerRotation(t *testing.T) {
	const eps = 0.000001

	for i, c := range []struct {
		rot  Vector3
		in   Vector3
		want Vector3
	}{
		{Vector3{0, 0, 0}, Vector3{1, 2, 3}, Vector3{1, 2, 3}},
		{Vector3{0, 90, 0}, Vector3{0, 0, 1}, Vector3{1, 0, 0}},
		{Vector3{90, 0, 0}, Vector3{0, 1, 0}, Vector3{0, 0, 1}},
		{Vector3{0, 0, 90}, Vector3{1, 0, 0}, Vector3{0, 1, 0}},
		{Vector3{90, 90, 0}, Vector3{0, 1, 0}, Vector3{1, 0, 0}},
	} {
		m := NewEulerRotationMatrix4(&c.rot)
		got := NewVector3FromVec3(m.Mul4x1(c.in.Vec3().Vec4(1)).Vec3())
		if got.Sub(&c.want).Len() > eps {
			t.Error("rotation: ", i, got, c.want)
		}

		q := NewEulerQuaternion(&c.rot)
		if math.Abs(q.Len()-1) > eps {
			t.Error("Quaternion.Len() != 1", c.rot)
		}
		got = NewVector3FromVec3(q.Rotate(c.in.Vec3()))
		if got.Sub(&c.want).Len() > eps {
			t.Error("quaternion: ", i, got, c.want)
		}
	}
}

func TestTRSMatrix(t *testing.T) {
	const eps = 0.000001

	mat := NewTRSMatrix4(NewVector3(1, 2, 3), &Vector3{}, NewVector3(0, 90, 0), NewVector3(2, 2, 2))
	got := NewVector3FromVec3(mat.Mul4x1(NewVector3(0, 0, 1).Vec3().Vec4(1)).Vec3())
	want := NewVector3(3, 2, 3)
	if got.Sub(want).Len() > eps {
		t.Error("TRS: ", got, want)
	}
	if Position(mat).Sub(NewVector3(1, 2, 3)).Len() > eps {
		t.Error("position: ", Position(mat))
	}
}

func TestTriangulate(t *testing.T) {
	points := []*Vector3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 0},
	}

	tris := Triangulate(points, []int{0, 1, 2, 3})
	if len(tris) != 2 {
		t.Fatal("quad should have 2 triangles: ", tris)
	}
	for _, tri := range tris {
		for _, i := range tri {
			if i > 3 {
				t.Error("invalid index: ", tri)
			}
		}
	}

	tris = Triangulate(points, []int{2, 3, 4})
	if len(tris) != 1 || tris[0] != [3]int{2, 3, 4} {
		t.Error("triangle should be kept as is: ", tris)
	}

	if len(Triangulate(points, []int{0, 1})) != 0 {
		t.Error("degenerate polygon")
	}

	// reflex vertex at 2: the only valid diagonal is 0-2
	dart := []*Vector3{{0, 0, 0}, {4, 0, 0}, {1, 1, 0}, {0, 4, 0}}
	tris = Triangulate(dart, []int{0, 1, 2, 3})
	if len(tris) != 2 {
		t.Fatal("dart: ", tris)
	}
	for _, tri := range tris {
		has := map[int]bool{tri[0]: true, tri[1]: true, tri[2]: true}
		if !has[0] || !has[2] {
			t.Error("triangle crosses the reflex vertex: ", tri)
		}
	}

	// winding does not matter
	if tris = Triangulate(dart, []int{3, 2, 1, 0}); len(tris) != 2 {
		t.Error("reversed dart: ", tris)
	}
}
