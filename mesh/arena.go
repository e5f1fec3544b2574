// Package mesh implements the constrained Delaunay sweep-line mesher (spec
// §4.4) and 2D/3D mesh emission (spec §4.5). It consumes a linearized
// outline.Outline and never touches raw font bytes.
package mesh

// VertexId, EdgeId and TriangleId are indices into an arena's slabs. The
// source's intrusive doubly-linked lists (spec §9) become these small
// integers plus free-lists; "the arena owns everything, everything else
// holds an index."
type VertexId int
type EdgeId int
type TriangleId int

const noId = -1

type vertex struct {
	x, y   float32
	hole   bool // true if this vertex belongs to a hole contour
	object int  // triangulation-object index this vertex was assigned to
}

// edge is a segment between two vertices. contour marks a constraint edge
// that must survive to the final triangulation; tris holds the (up to) two
// triangles it bounds, noId where absent.
type edge struct {
	v1, v2  VertexId
	contour bool
	tris    [2]TriangleId
	alive   bool
}

// triangle caches its circumcircle so the Delaunay optimization pass (spec
// §4.4 phase 3) can re-test neighbors cheaply after a flip.
type triangle struct {
	edges                     [3]EdgeId
	verts                     [3]VertexId // CCW order
	ccX, ccY, ccR             float32
	alive                     bool
}

// arena is the mesher's self-contained allocator: one per Mesher run, sized
// up front from the input vertex count (spec §5's "allocation-bounded").
type arena struct {
	verts []vertex
	edges []edge
	tris  []triangle

	freeEdges []EdgeId
	freeTris  []TriangleId
}

func newArena(expectVerts int) *arena {
	return &arena{
		verts: make([]vertex, 0, expectVerts),
		edges: make([]edge, 0, expectVerts*3),
		tris:  make([]triangle, 0, expectVerts*2),
	}
}

func (a *arena) addVertex(x, y float32) VertexId {
	a.verts = append(a.verts, vertex{x: x, y: y, object: -1})
	return VertexId(len(a.verts) - 1)
}

func (a *arena) vert(id VertexId) *vertex { return &a.verts[id] }

func (a *arena) addEdge(v1, v2 VertexId, contour bool) EdgeId {
	e := edge{v1: v1, v2: v2, contour: contour, tris: [2]TriangleId{TriangleId(noId), TriangleId(noId)}, alive: true}
	if n := len(a.freeEdges); n > 0 {
		id := a.freeEdges[n-1]
		a.freeEdges = a.freeEdges[:n-1]
		a.edges[id] = e
		return id
	}
	a.edges = append(a.edges, e)
	return EdgeId(len(a.edges) - 1)
}

func (a *arena) edgeAt(id EdgeId) *edge { return &a.edges[id] }

func (a *arena) freeEdge(id EdgeId) {
	a.edges[id].alive = false
	a.freeEdges = append(a.freeEdges, id)
}

// otherVertex returns the endpoint of e that is not v.
func (a *arena) otherVertex(id EdgeId, v VertexId) VertexId {
	e := &a.edges[id]
	if e.v1 == v {
		return e.v2
	}
	return e.v1
}

// attachTriangle records t as one of the (at most two) triangles bordering
// edge id.
func (a *arena) attachTriangle(id EdgeId, t TriangleId) {
	e := &a.edges[id]
	if e.tris[0] == TriangleId(noId) {
		e.tris[0] = t
	} else {
		e.tris[1] = t
	}
}

func (a *arena) detachTriangle(id EdgeId, t TriangleId) {
	e := &a.edges[id]
	if e.tris[0] == t {
		e.tris[0] = TriangleId(noId)
	} else if e.tris[1] == t {
		e.tris[1] = TriangleId(noId)
	}
}

// neighborTriangle returns the triangle across edge id from t, or noId if e
// is a boundary edge.
func (a *arena) neighborTriangle(id EdgeId, t TriangleId) TriangleId {
	e := &a.edges[id]
	if e.tris[0] == t {
		return e.tris[1]
	}
	if e.tris[1] == t {
		return e.tris[0]
	}
	return TriangleId(noId)
}

func (a *arena) addTriangle(e1, e2, e3 EdgeId) TriangleId {
	verts := orderCCW(a, e1, e2, e3)
	tr := triangle{edges: [3]EdgeId{e1, e2, e3}, verts: verts, alive: true}
	tr.ccX, tr.ccY, tr.ccR = circumcircle(
		a.vert(verts[0]).x, a.vert(verts[0]).y,
		a.vert(verts[1]).x, a.vert(verts[1]).y,
		a.vert(verts[2]).x, a.vert(verts[2]).y,
	)

	var id TriangleId
	if n := len(a.freeTris); n > 0 {
		id = a.freeTris[n-1]
		a.freeTris = a.freeTris[:n-1]
		a.tris[id] = tr
	} else {
		a.tris = append(a.tris, tr)
		id = TriangleId(len(a.tris) - 1)
	}
	a.attachTriangle(e1, id)
	a.attachTriangle(e2, id)
	a.attachTriangle(e3, id)
	return id
}

func (a *arena) tri(id TriangleId) *triangle { return &a.tris[id] }

func (a *arena) freeTriangle(id TriangleId) {
	t := &a.tris[id]
	for _, e := range t.edges {
		a.detachTriangle(e, id)
	}
	t.alive = false
	a.freeTris = append(a.freeTris, id)
}

// orderCCW picks a consistent, positively-oriented vertex triple for the
// three edges of a new triangle (spec §4.4's "triangulation ordering
// guarantee").
func orderCCW(a *arena, e1, e2, e3 EdgeId) [3]VertexId {
	v := make(map[VertexId]int, 3)
	ids := [3]EdgeId{e1, e2, e3}
	var order []VertexId
	for _, eid := range ids {
		e := a.edgeAt(eid)
		for _, v1 := range [2]VertexId{e.v1, e.v2} {
			if _, ok := v[v1]; !ok {
				v[v1] = len(order)
				order = append(order, v1)
			}
		}
	}
	var out [3]VertexId
	copy(out[:], order)
	p0, p1, p2 := a.vert(out[0]), a.vert(out[1]), a.vert(out[2])
	if cross(p1.x-p0.x, p1.y-p0.y, p2.x-p0.x, p2.y-p0.y) < 0 {
		out[1], out[2] = out[2], out[1]
	}
	return out
}

// findEdge locates an existing edge between v1 and v2, if any.
func (a *arena) findEdge(v1, v2 VertexId) (EdgeId, bool) {
	for i := range a.edges {
		e := &a.edges[i]
		if !e.alive {
			continue
		}
		if (e.v1 == v1 && e.v2 == v2) || (e.v1 == v2 && e.v2 == v1) {
			return EdgeId(i), true
		}
	}
	return 0, false
}
