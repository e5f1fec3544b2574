package outline

import "github.com/fetisov/ttf2mesh/sfnt"

// splitQBezierContour rewrites a contour so every curve is an explicit
// three-point quadratic Bézier: on-curve, off-curve, on-curve. Where two
// off-curve points are adjacent, a synthesized on-curve midpoint (flagged
// Split) is inserted between them (spec §4.2's "split" transform, grounded
// on original_source/ttf2mesh.c's split_qbezier_contour).
func splitQBezierContour(src []sfnt.Point) []sfnt.Point {
	if len(src) == 0 {
		return nil
	}
	dst := make([]sfnt.Point, 0, len(src)*2)
	state := 0
	for i := 0; i < len(src); i++ {
		switch state {
		case 0:
			dst = append(dst, src[i])
			state = 1
		case 1:
			dst = append(dst, src[i])
			if src[i].OnCurve {
				state = 1
			} else {
				state = 2
			}
		case 2:
			if src[i].OnCurve {
				dst = append(dst, src[i])
				state = 1
				continue
			}
			prev := dst[len(dst)-1]
			mid := sfnt.Point{
				X:       (prev.X + src[i].X) / 2,
				Y:       (prev.Y + src[i].Y) / 2,
				OnCurve: true,
				Split:   true,
			}
			dst = append(dst, mid, src[i])
			state = 2
		}
	}
	return dst
}

// Split converts every contour of o into three-point-Bézier form (spec
// §4.1's `split` operation / §6's `glyph_split_outline`).
func Split(o *sfnt.Outline) *sfnt.Outline {
	out := &sfnt.Outline{Contours: make([]sfnt.Contour, len(o.Contours))}
	for i, c := range o.Contours {
		pts := splitQBezierContour(c.Points)
		out.Contours[i] = sfnt.Contour{
			Points:        pts,
			SubglyphID:    c.SubglyphID,
			SubglyphOrder: c.SubglyphOrder,
		}
		out.TotalPoints += len(pts)
	}
	return out
}
