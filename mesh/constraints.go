package mesh

import (
	"fmt"
	"math"
)

// findTrianglesTrack walks the strip of triangles crossed by segment u-v,
// starting from a triangle incident to u whose opposite edge intersects
// u-v, and marching triangle-to-triangle across whichever far edge the
// segment crosses next (spec §4.4 phase 4, grounded on
// find_triangles_track). It returns every crossed interior edge, in walk
// order, or an error if one is itself a contour edge (a genuine
// self-intersection in the input).
func findTrianglesTrack(a *arena, u, v VertexId) ([]EdgeId, error) {
	pu, pv := a.vert(u), a.vert(v)

	startTri, startEdge, ok := firstCrossingFromVertex(a, u, v)
	if !ok {
		return nil, nil // u-v is already an edge, or no interior to cross
	}

	var crossed []EdgeId
	cur := startEdge
	curTri := startTri
	for {
		ed := a.edgeAt(cur)
		if ed.contour {
			return nil, fmt.Errorf("contours intersect")
		}
		crossed = append(crossed, cur)

		next := a.neighborTriangle(cur, curTri)
		if next == TriangleId(noId) {
			break
		}
		tr := a.tri(next)
		var advance EdgeId
		found := false
		for _, e := range tr.edges {
			if e == cur {
				continue
			}
			ee := a.edgeAt(e)
			p1, p2 := a.vert(ee.v1), a.vert(ee.v2)
			if segmentsIntersect(pu.x, pu.y, pv.x, pv.y, p1.x, p1.y, p2.x, p2.y) {
				advance = e
				found = true
				break
			}
		}
		if !found {
			break // reached v's incident triangle
		}
		cur = advance
		curTri = next
	}
	return crossed, nil
}

// firstCrossingFromVertex finds the triangle incident to u whose edge
// opposite u intersects segment u-v.
func firstCrossingFromVertex(a *arena, u, v VertexId) (TriangleId, EdgeId, bool) {
	pu, pv := a.vert(u), a.vert(v)
	for i := range a.tris {
		t := &a.tris[i]
		if !t.alive {
			continue
		}
		hasU := false
		for _, vv := range t.verts {
			if vv == u {
				hasU = true
			}
		}
		if !hasU {
			continue
		}
		for _, e := range t.edges {
			ee := a.edgeAt(e)
			if ee.v1 == u || ee.v2 == u {
				continue
			}
			p1, p2 := a.vert(ee.v1), a.vert(ee.v2)
			if segmentsIntersect(pu.x, pu.y, pv.x, pv.y, p1.x, p1.y, p2.x, p2.y) {
				return TriangleId(i), e, true
			}
		}
	}
	return 0, 0, false
}

// holeWork is one explicit worklist item for the hole re-triangulation
// recursion the source expresses via stack depth (spec §9: "convert to an
// explicit worklist to bound stack use on degenerate inputs").
type holeWork struct {
	poly    []VertexId // open polyline, endpoints are the base edge's vertices
	baseU   VertexId
	baseV   VertexId
}

// insertFixedEdge enforces one input contour edge (u,v) in the
// triangulation: it deletes the strip of triangles the segment crosses,
// collects the two bordering open polylines, re-inserts (u,v) as a
// constraint, and re-triangulates each side via an ear-finding rule (spec
// §4.4 phase 4).
func insertFixedEdge(a *arena, u, v VertexId) error {
	if _, ok := a.findEdge(u, v); ok {
		e, _ := a.findEdge(u, v)
		a.edgeAt(e).contour = true
		return nil
	}

	crossed, err := findTrianglesTrack(a, u, v)
	if err != nil {
		return err
	}
	if len(crossed) == 0 {
		newE := a.addEdge(u, v, true)
		_ = newE
		return nil
	}

	upper, lower := splitStripIntoPolylines(a, crossed, u, v)

	seen := map[TriangleId]bool{}
	for _, e := range crossed {
		ed := a.edgeAt(e)
		for _, t := range ed.tris {
			if t != TriangleId(noId) && !seen[t] {
				seen[t] = true
			}
		}
	}
	for t := range seen {
		a.freeTriangle(t)
	}
	for _, e := range crossed {
		a.freeEdge(e)
	}

	base := a.addEdge(u, v, true)

	work := []holeWork{{poly: upper, baseU: u, baseV: v}, {poly: lower, baseU: u, baseV: v}}
	_ = base
	for len(work) > 0 {
		w := work[len(work)-1]
		work = work[:len(work)-1]
		if len(w.poly) == 0 {
			continue
		}
		if len(w.poly) == 1 {
			e1 := mustEdge(a, w.baseU, w.poly[0])
			e2 := mustEdge(a, w.poly[0], w.baseV)
			eb := mustEdge(a, w.baseU, w.baseV)
			a.addTriangle(e1, e2, eb)
			continue
		}
		pu, pv := a.vert(w.baseU), a.vert(w.baseV)
		bestI, bestD := 0, float32(math.MaxFloat32)
		for i, vid := range w.poly {
			p := a.vert(vid)
			d := pointLineDist(pu.x, pu.y, pv.x, pv.y, p.x, p.y)
			if d < bestD {
				bestD, bestI = d, i
			}
		}
		ear := w.poly[bestI]
		e1 := ensureEdge(a, w.baseU, ear, false)
		e2 := ensureEdge(a, ear, w.baseV, false)
		eb := mustEdge(a, w.baseU, w.baseV)
		a.addTriangle(e1, e2, eb)

		if bestI > 0 {
			work = append(work, holeWork{poly: w.poly[:bestI], baseU: w.baseU, baseV: ear})
		}
		if bestI < len(w.poly)-1 {
			work = append(work, holeWork{poly: w.poly[bestI+1:], baseU: ear, baseV: w.baseV})
		}
	}
	return nil
}

func mustEdge(a *arena, v1, v2 VertexId) EdgeId {
	e, ok := a.findEdge(v1, v2)
	if !ok {
		return a.addEdge(v1, v2, false)
	}
	return e
}

func ensureEdge(a *arena, v1, v2 VertexId, contour bool) EdgeId {
	if e, ok := a.findEdge(v1, v2); ok {
		return e
	}
	return a.addEdge(v1, v2, contour)
}

// splitStripIntoPolylines walks the deleted triangle strip's boundary and
// buckets its vertices into the "upper" and "lower" open polylines on
// either side of the constraint segment u-v.
func splitStripIntoPolylines(a *arena, crossed []EdgeId, u, v VertexId) (upper, lower []VertexId) {
	pu, pv := a.vert(u), a.vert(v)
	side := func(p *vertex) float32 {
		return cross(pv.x-pu.x, pv.y-pu.y, p.x-pu.x, p.y-pu.y)
	}
	seen := map[VertexId]bool{u: true, v: true}
	for _, e := range crossed {
		ed := a.edgeAt(e)
		for _, vid := range [2]VertexId{ed.v1, ed.v2} {
			if seen[vid] {
				continue
			}
			seen[vid] = true
			p := a.vert(vid)
			if side(p) > 0 {
				upper = append(upper, vid)
			} else {
				lower = append(lower, vid)
			}
		}
	}
	return upper, lower
}

// handleConstraints runs insertFixedEdge for every contour edge of object
// not already present in the triangulation.
func handleConstraints(a *arena, contourEdges [][2]VertexId) error {
	for _, ce := range contourEdges {
		if err := insertFixedEdge(a, ce[0], ce[1]); err != nil {
			return err
		}
	}
	return nil
}
