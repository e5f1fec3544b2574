package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetisov/ttf2mesh/sfnt"
)

func onPt(x, y float32) sfnt.Point { return sfnt.Point{X: x, Y: y, OnCurve: true} }
func offPt(x, y float32) sfnt.Point { return sfnt.Point{X: x, Y: y} }

func square(x0, y0, x1, y1 float32) []sfnt.Point {
	return []sfnt.Point{onPt(x0, y0), onPt(x1, y0), onPt(x1, y1), onPt(x0, y1)}
}

func TestLinearPassesThroughPolylineContour(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: square(0, 0, 100, 100)}}}
	out := Linear(o, 64)
	require.Len(t, out.Contours, 1)
	assert.Len(t, out.Contours[0].Points, 4)
	for _, p := range out.Contours[0].Points {
		assert.True(t, p.OnCurve)
	}
}

func TestLinearSubdividesCurve(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: []sfnt.Point{
		onPt(0, 0), offPt(50, 100), onPt(100, 0), onPt(50, -50),
	}}}}
	out := Linear(o, 128)
	require.Len(t, out.Contours, 1)
	assert.Greater(t, len(out.Contours[0].Points), 4)
	for _, p := range out.Contours[0].Points {
		assert.True(t, p.OnCurve)
	}
}

func TestLinearDropsDegenerateContour(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: square(0, 0, 1, 1)[:2]}}}
	out := Linear(o, 64)
	assert.Empty(t, out.Contours)
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, uint8(8), ClampQuality(0))
	assert.Equal(t, uint8(128), ClampQuality(255))
	assert.Equal(t, uint8(32), ClampQuality(32))
}

func TestSplitInsertsMidpointBetweenAdjacentOffCurvePoints(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: []sfnt.Point{
		onPt(0, 0), offPt(50, 50), offPt(100, 0), onPt(150, -50),
	}}}}
	out := Split(o)
	require.Len(t, out.Contours, 1)
	pts := out.Contours[0].Points
	require.Len(t, pts, 5)
	assert.True(t, pts[2].OnCurve)
	assert.True(t, pts[2].Split)
	assert.InDelta(t, 75, pts[2].X, 1e-6)
	assert.InDelta(t, 25, pts[2].Y, 1e-6)
}

func TestSplitLeavesSimpleOnCurveContourUnchanged(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: square(0, 0, 10, 10)}}}
	out := Split(o)
	assert.Equal(t, o.Contours[0].Points, out.Contours[0].Points)
}

func TestContainsInsideAndOutsideSquare(t *testing.T) {
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: square(0, 0, 100, 100)}}}
	assert.True(t, Contains(o, 50, 50, -1))
	assert.False(t, Contains(o, 200, 200, -1))
}

func TestContourInfoFindsHoleAndParent(t *testing.T) {
	outer := square(0, 0, 100, 100)
	inner := square(20, 20, 80, 80)
	o := &sfnt.Outline{Contours: []sfnt.Contour{{Points: outer}, {Points: inner}}}

	isHole, parent := MajorityContourInfo(o, -1, 1)
	assert.True(t, isHole)
	assert.Equal(t, 0, parent)

	isHole, _ = MajorityContourInfo(o, -1, 0)
	assert.False(t, isHole)
}
