// Package outline implements the pure transforms spec §4.2/§4.3 describe:
// quadratic-Bézier linearization, three-point-Bézier splitting, and the
// even-odd point-in-polygon test with hole discovery. All three operate on
// sfnt.Outline values and never touch raw font bytes.
package outline

import (
	"math"

	"github.com/fetisov/ttf2mesh/sfnt"
)

const (
	epsilon          = 1e-7
	degenerateArea   = 1e-5
	minQuality       = 8
	maxQuality       = 128
	twoPi    float64 = 2 * math.Pi
)

// ClampQuality enforces spec §4.2's `quality` clamp.
func ClampQuality(q uint8) uint8 {
	switch {
	case q < minQuality:
		return minQuality
	case q > maxQuality:
		return maxQuality
	default:
		return q
	}
}

func qbezier(p0, p1, p2, t float32) float32 {
	tt := 1 - t
	return tt*tt*p0 + 2*t*tt*p1 + t*t*p2
}

func qbezierDiff1(p0, p1, p2, t float32) float32 {
	return 2 * (t*(p0-2*p1+p2) - p0 + p1)
}

func heronsArea(a, b, c float64) float64 {
	p := (a + b + c) / 2
	v := p * (p - a) * (p - b) * (p - c)
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

func dist(a, b sfnt.Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func heronsAreaPts(a, b, c sfnt.Point) float64 {
	return heronsArea(dist(a, b), dist(b, c), dist(c, a))
}

// linearizeQBezier samples the quadratic Bézier curve[0..2] with a point
// count chosen from the tangent-angle budget (spec §4.2), returning the
// interior samples (never the endpoints).
func linearizeQBezier(curve [3]sfnt.Point, quality uint8) []sfnt.Point {
	v1x := qbezierDiff1(curve[0].X, curve[1].X, curve[2].X, 0)
	v1y := qbezierDiff1(curve[0].Y, curve[1].Y, curve[2].Y, 0)
	v2x := qbezierDiff1(curve[0].X, curve[1].X, curve[2].X, 1)
	v2y := qbezierDiff1(curve[0].Y, curve[1].Y, curve[2].Y, 1)

	cross := math.Abs(float64(v1x)*float64(v2y) - float64(v1y)*float64(v2x))
	if cross < epsilon {
		return nil
	}
	len1 := math.Hypot(float64(v1x), float64(v1y))
	len2 := math.Hypot(float64(v2x), float64(v2y))
	if len1 == 0 || len2 == 0 {
		return nil
	}
	angle := cross / len1 / len2
	if angle >= 1 {
		angle = 1
	}
	angle = math.Asin(angle)

	n := int(math.Round(angle / twoPi * float64(quality)))
	if n <= 0 {
		return nil
	}

	out := make([]sfnt.Point, n)
	step := float32(1) / float32(n+1)
	for i := 0; i < n; i++ {
		t := step * float32(i+1)
		out[i] = sfnt.Point{
			X:       qbezier(curve[0].X, curve[1].X, curve[2].X, t),
			Y:       qbezier(curve[0].Y, curve[1].Y, curve[2].Y, t),
			OnCurve: true,
		}
	}
	return out
}

// linearizeContour walks src as the three-state machine of spec §4.2,
// producing a polyline of purely on-curve points.
func linearizeContour(src []sfnt.Point, quality uint8) []sfnt.Point {
	if len(src) == 0 {
		return nil
	}
	var dst []sfnt.Point
	var queue [3]sfnt.Point
	state := 0

	for i := 0; i < len(src); i++ {
		switch state {
		case 0:
			queue[0] = src[0]
			dst = append(dst, src[0])
			state = 1
		case 1:
			if src[i].OnCurve {
				dst = append(dst, src[i])
				queue[0] = src[i]
			} else {
				queue[1] = src[i]
				state = 2
			}
		case 2:
			if src[i].OnCurve {
				queue[2] = src[i]
				if heronsAreaPts(queue[0], queue[1], queue[2]) > degenerateArea {
					dst = append(dst, linearizeQBezier(queue, quality)...)
				}
				dst = append(dst, src[i])
				queue[0] = src[i]
				state = 1
			} else {
				mid := sfnt.Point{
					X:       (queue[1].X + src[i].X) / 2,
					Y:       (queue[1].Y + src[i].Y) / 2,
					OnCurve: true,
				}
				queue[2] = mid
				if heronsAreaPts(queue[0], queue[1], queue[2]) > degenerateArea {
					dst = append(dst, linearizeQBezier(queue, quality)...)
					dst = append(dst, mid)
					queue[0] = mid
					queue[1] = src[i]
				} else {
					queue[1] = mid
				}
			}
		}
	}

	if state == 2 {
		queue[2] = src[0]
		if heronsAreaPts(queue[0], queue[1], queue[2]) > degenerateArea {
			dst = append(dst, linearizeQBezier(queue, quality)...)
		}
	}
	return dst
}

// fixLinearBags removes collinear-bag runs and a trailing point equal to
// the first (spec §4.2's post-pass), returning nil if fewer than 3 points
// survive.
func fixLinearBags(pts []sfnt.Point) []sfnt.Point {
	if len(pts) < 3 {
		return nil
	}
	out := make([]sfnt.Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts)-1; i++ {
		if heronsAreaPts(out[len(out)-1], pts[i], pts[i+1]) > epsilon {
			out = append(out, pts[i])
		}
	}
	out = append(out, pts[len(pts)-1])
	for len(out) > 1 {
		dx := float64(out[0].X - out[len(out)-1].X)
		dy := float64(out[0].Y - out[len(out)-1].Y)
		if math.Abs(dx) > epsilon || math.Abs(dy) > epsilon {
			break
		}
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// Linear replaces every curve in an Outline's contours with a polyline
// (spec §4.2's `linearize` operation), clamping quality to [8,128].
func Linear(o *sfnt.Outline, quality uint8) *sfnt.Outline {
	quality = ClampQuality(quality)
	out := &sfnt.Outline{Contours: make([]sfnt.Contour, 0, len(o.Contours))}
	for _, c := range o.Contours {
		pts := fixLinearBags(linearizeContour(c.Points, quality))
		if pts == nil {
			continue
		}
		out.Contours = append(out.Contours, sfnt.Contour{
			Points:        pts,
			SubglyphID:    c.SubglyphID,
			SubglyphOrder: c.SubglyphOrder,
		})
		out.TotalPoints += len(pts)
	}
	return out
}
