package mesh

import "math"

// point2 is a bare coordinate pair used by contour repair, kept free of any
// sfnt/outline dependency so this file only deals with numbers.
type point2 struct{ x, y float32 }

// repairCoincidentPoints nudges two consecutive contour vertices that
// coincide within epsCoord apart along the bisector of their contour
// neighbors, by 1e-4 of the neighbor-edge lengths (spec §4.4 phase 1). Only
// neighbors in contour order are compared; coincident vertices that are not
// adjacent in the contour are left as they are.
func repairCoincidentPoints(pts []point2) []point2 {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := make([]point2, n)
	copy(out, pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if dist2(out[i].x, out[i].y, out[j].x, out[j].y) >= epsCoord*epsCoord {
			continue
		}
		prev := out[(i-1+n)%n]
		next := out[(j+1)%n]

		bx, by := bisector(prev, out[i], next)
		l1 := float32(math.Hypot(float64(out[i].x-prev.x), float64(out[i].y-prev.y)))
		out[i].x += bx * l1 * 1e-4
		out[i].y += by * l1 * 1e-4

		bx2, by2 := bisector(out[i], out[j], next)
		l2 := float32(math.Hypot(float64(next.x-out[j].x), float64(next.y-out[j].y)))
		out[j].x -= bx2 * l2 * 1e-4
		out[j].y -= by2 * l2 * 1e-4
	}
	return out
}

// bisector returns the unit bisector direction at vertex b of the angle
// formed by a-b-c.
func bisector(a, b, c point2) (float32, float32) {
	ax, ay := a.x-b.x, a.y-b.y
	cx, cy := c.x-b.x, c.y-b.y
	la := float32(math.Hypot(float64(ax), float64(ay)))
	lc := float32(math.Hypot(float64(cx), float64(cy)))
	if la < epsCoord || lc < epsCoord {
		return 0, 0
	}
	ax, ay = ax/la, ay/la
	cx, cy = cx/lc, cy/lc
	bx, by := ax+cx, ay+cy
	l := float32(math.Hypot(float64(bx), float64(by)))
	if l < epsCoord {
		return -ay, ax
	}
	return bx / l, by / l
}

// repairContourTwists untangles four consecutive points A,B,C,D whose edges
// A-B and C-D cross interior-to-interior, by swapping B and C in the
// contour order (spec §4.4 phase 1).
func repairContourTwists(pts []point2) []point2 {
	n := len(pts)
	if n < 4 {
		return pts
	}
	out := make([]point2, n)
	copy(out, pts)
	for i := 0; i < n; i++ {
		a, b := out[i], out[(i+1)%n]
		c, d := out[(i+2)%n], out[(i+3)%n]
		if segmentsIntersect(a.x, a.y, b.x, b.y, c.x, c.y, d.x, d.y) {
			out[(i+1)%n], out[(i+2)%n] = out[(i+2)%n], out[(i+1)%n]
		}
	}
	return out
}

// removeExcessTriangles implements spec §4.4 phase 5: a parity flood-fill
// starting from any triangle incident to a seed vertex, labeling 0/1,
// preserving the label across non-contour edges and flipping it across
// contour edges, then deleting every label-0 triangle.
func removeExcessTriangles(a *arena, seeds [2]VertexId) {
	start := TriangleId(noId)
	for i := range a.tris {
		if !a.tris[i].alive {
			continue
		}
		for _, v := range a.tris[i].verts {
			if v == seeds[0] || v == seeds[1] {
				start = TriangleId(i)
				break
			}
		}
		if start != TriangleId(noId) {
			break
		}
	}
	if start == TriangleId(noId) {
		return
	}

	label := map[TriangleId]int{start: 0}
	queue := []TriangleId{start}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		lbl := label[t]
		tr := a.tri(t)
		for _, e := range tr.edges {
			ed := a.edgeAt(e)
			nb := a.neighborTriangle(e, t)
			if nb == TriangleId(noId) || !a.tri(nb).alive {
				continue
			}
			nl := lbl
			if ed.contour {
				nl = 1 - lbl
			}
			if _, ok := label[nb]; !ok {
				label[nb] = nl
				queue = append(queue, nb)
			}
		}
	}

	for tid, lbl := range label {
		if lbl == 0 {
			a.freeTriangle(tid)
		}
	}
	// any triangle never reached by the flood fill is unconnected debris
	// from a degenerate input; drop it too rather than leave it orphaned.
	for i := range a.tris {
		t := TriangleId(i)
		if !a.tris[i].alive {
			continue
		}
		if _, ok := label[t]; !ok {
			a.freeTriangle(t)
		}
	}
}
