package mesh

// opposingVertex returns the vertex of triangle t that is not an endpoint
// of edge e.
func opposingVertex(a *arena, t TriangleId, e EdgeId) VertexId {
	ed := a.edgeAt(e)
	tr := a.tri(t)
	for _, v := range tr.verts {
		if v != ed.v1 && v != ed.v2 {
			return v
		}
	}
	return tr.verts[0]
}

// otherTwoEdges returns the two edges of t other than e.
func otherTwoEdges(a *arena, t TriangleId, e EdgeId) (EdgeId, EdgeId) {
	tr := a.tri(t)
	var out []EdgeId
	for _, ed := range tr.edges {
		if ed != e {
			out = append(out, ed)
		}
	}
	return out[0], out[1]
}

// canFlip reports whether e is an interior, non-contour edge between two
// triangles forming a convex quadrilateral (spec §4.4's flip precondition).
func canFlip(a *arena, e EdgeId) (t0, t1 TriangleId, ok bool) {
	ed := a.edgeAt(e)
	if ed.contour {
		return 0, 0, false
	}
	t0, t1 = ed.tris[0], ed.tris[1]
	if t0 == TriangleId(noId) || t1 == TriangleId(noId) {
		return 0, 0, false
	}
	v1, v2 := ed.v1, ed.v2
	A := opposingVertex(a, t0, e)
	B := opposingVertex(a, t1, e)
	p1, p2, pA, pB := a.vert(v1), a.vert(v2), a.vert(A), a.vert(B)
	if !convexQuad(pA.x, pA.y, p1.x, p1.y, pB.x, pB.y, p2.x, p2.y) {
		return 0, 0, false
	}
	return t0, t1, true
}

// flipEdge replaces e=(v1,v2), shared by t0=(v1,v2,A) and t1=(v1,v2,B),
// with the edge (A,B) and its two new triangles. Returns the new edge and
// the edges of the two new triangles, for recursive re-optimization.
func flipEdge(a *arena, e EdgeId, t0, t1 TriangleId) (EdgeId, [4]EdgeId) {
	ed := a.edgeAt(e)
	v1, v2 := ed.v1, ed.v2
	A := opposingVertex(a, t0, e)
	B := opposingVertex(a, t1, e)

	e0a, e0b := otherTwoEdges(a, t0, e) // t0's edges touching v1/A and v2/A
	e1a, e1b := otherTwoEdges(a, t1, e) // t1's edges touching v1/B and v2/B

	// sort each pair by which endpoint (v1 or v2) they touch.
	touchesV1 := func(eid EdgeId) bool {
		ee := a.edgeAt(eid)
		return ee.v1 == v1 || ee.v2 == v1
	}
	v1A, v2A := e0a, e0b
	if !touchesV1(v1A) {
		v1A, v2A = v2A, v1A
	}
	v1B, v2B := e1a, e1b
	if !touchesV1(v1B) {
		v1B, v2B = v2B, v1B
	}

	a.freeTriangle(t0)
	a.freeTriangle(t1)
	a.freeEdge(e)

	newEdge := a.addEdge(A, B, false)
	a.addTriangle(v1A, v1B, newEdge)
	a.addTriangle(v2A, v2B, newEdge)
	return newEdge, [4]EdgeId{v1A, v2A, v1B, v2B}
}

// optimize is spec §4.4 phase 3's sum-of-circumradii test: flipping e is
// beneficial when R(abd)+R(acd) < R(abc)+R(bcd). Recurses up to deep levels
// into the four surrounding edges after a successful flip.
func optimize(a *arena, e EdgeId, deep int) {
	t0, t1, ok := canFlip(a, e)
	if !ok {
		return
	}
	before := a.tri(t0).ccR + a.tri(t1).ccR

	newEdge, around := flipEdge(a, e, t0, t1)
	nt0, nt1 := a.edgeAt(newEdge).tris[0], a.edgeAt(newEdge).tris[1]
	after := a.tri(nt0).ccR + a.tri(nt1).ccR

	if after >= before {
		// undo: flip back.
		t0b, t1b, ok2 := canFlip(a, newEdge)
		if ok2 {
			flipEdge(a, newEdge, t0b, t1b)
		}
		return
	}

	if deep <= 0 {
		return
	}
	for _, ed := range around {
		optimize(a, ed, deep-1)
	}
}

// optimizeAll runs phase 3/6 over every live, non-contour edge.
func optimizeAll(a *arena, deep int) {
	for i := 0; i < len(a.edges); i++ {
		e := EdgeId(i)
		if !a.edges[i].alive || a.edges[i].contour {
			continue
		}
		optimize(a, e, deep)
	}
}
