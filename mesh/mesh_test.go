package mesh

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetisov/ttf2mesh/sfnt"
)

func onPt(x, y float32) sfnt.Point { return sfnt.Point{X: x, Y: y, OnCurve: true} }

func octagonOutline() *sfnt.Outline {
	pts := []sfnt.Point{
		onPt(200, 0), onPt(400, 0), onPt(600, 200), onPt(600, 400),
		onPt(400, 600), onPt(200, 600), onPt(0, 400), onPt(0, 200),
	}
	return &sfnt.Outline{Contours: []sfnt.Contour{{Points: pts}}, TotalPoints: len(pts)}
}

func squareOutline(x0, y0, x1, y1 float32) []sfnt.Point {
	return []sfnt.Point{onPt(x0, y0), onPt(x1, y0), onPt(x1, y1), onPt(x0, y1)}
}

func signedArea(a, b, c Vec2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func TestMeshOctagonAllFacesCCW(t *testing.T) {
	o := octagonOutline()
	m, err := ToMesh2D(o, 20, Features{})
	require.NoError(t, err)
	require.NotEmpty(t, m.Faces)
	for _, f := range m.Faces {
		area := signedArea(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
		assert.Greater(t, area, float32(0), "face %v must be CCW", f)
	}
}

func TestMeshFaceIndicesInBounds(t *testing.T) {
	o := octagonOutline()
	m, err := ToMesh2D(o, 20, Features{})
	require.NoError(t, err)
	for _, f := range m.Faces {
		for _, idx := range f {
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, len(m.Vertices))
		}
	}
}

func TestMeshSquareWithHoleExcludesHoleInterior(t *testing.T) {
	outer := squareOutline(0, 0, 100, 100)
	inner := squareOutline(30, 30, 70, 70)
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: outer}, {Points: inner}}}
	for _, c := range o.Contours {
		o.TotalPoints += len(c.Points)
	}

	m, err := ToMesh2D(o, 20, Features{})
	require.NoError(t, err)

	for _, f := range m.Faces {
		cx := (m.Vertices[f[0]].X + m.Vertices[f[1]].X + m.Vertices[f[2]].X) / 3
		cy := (m.Vertices[f[0]].Y + m.Vertices[f[1]].Y + m.Vertices[f[2]].Y) / 3
		insideHole := cx > 30 && cx < 70 && cy > 30 && cy < 70
		assert.False(t, insideHole, "triangle centroid (%v,%v) falls inside the hole", cx, cy)
	}
}

func TestToMesh3DHasTwinVerticesAndUnitNormals(t *testing.T) {
	o := octagonOutline()
	m, err := ToMesh3D(o, 20, Features{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, m.Faces)
	require.Equal(t, len(m.Vertices), len(m.Normals))

	for _, nrm := range m.Normals {
		l2 := nrm.X*nrm.X + nrm.Y*nrm.Y + nrm.Z*nrm.Z
		assert.InDelta(t, 1.0, l2, 1e-3)
	}
}

func TestMeshFailsOnEmptyOutline(t *testing.T) {
	o := &sfnt.Outline{}
	_, err := ToMesh2D(o, 20, Features{})
	assert.Error(t, err)
}

func TestClassifyContoursAgreesWithOutlinePackage(t *testing.T) {
	outer := squareOutline(0, 0, 100, 100)
	inner := squareOutline(20, 20, 80, 80)
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: outer}, {Points: inner}}}
	groups := classifyContours(o)
	if diff := cmp.Diff(false, groups[0].isHole); diff != "" {
		t.Errorf("outer contour misclassified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(true, groups[1].isHole); diff != "" {
		t.Errorf("inner contour misclassified (-want +got):\n%s", diff)
	}
}
