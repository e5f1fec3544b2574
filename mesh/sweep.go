package mesh

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
)

// front is the moving convex-hull boundary of the sweep (spec §4.4 phase 2),
// stored left-to-right as EdgeIds. gods' arraylist gives the insert/remove
// at an arbitrary index the algorithm needs without hand-rolling a ring
// buffer.
type front struct {
	list *arraylist.List
	a    *arena
}

func newFront(a *arena) *front {
	return &front{list: arraylist.New(), a: a}
}

func (f *front) insert(i int, e EdgeId) { f.list.Insert(i, e) }
func (f *front) removeAt(i int)         { f.list.Remove(i) }
func (f *front) size() int              { return f.list.Size() }

func (f *front) at(i int) EdgeId {
	v, _ := f.list.Get(i)
	return v.(EdgeId)
}

// leftVertex/rightVertex assume every front edge was created with v1 the
// geometrically-left endpoint, an invariant maintained by every mutation
// below.
func (f *front) leftVertex(i int) VertexId  { return f.a.edgeAt(f.at(i)).v1 }
func (f *front) rightVertex(i int) VertexId { return f.a.edgeAt(f.at(i)).v2 }

// locate finds the front index whose edge's x-range brackets px, scanning
// outward from cursor (amortized near-constant for contour-clustered
// input, per spec §4.4 phase 2a).
func (f *front) locate(px float32, cursor int) int {
	n := f.size()
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	i := cursor
	for i > 0 && f.a.vert(f.leftVertex(i)).x > px {
		i--
	}
	for i < n-1 && f.a.vert(f.rightVertex(i)).x < px {
		i++
	}
	return i
}

// seedTriangulation creates the two seed vertices and the single seed front
// edge below and around the glyph's bounding box (spec §4.4 phase 2).
func seedTriangulation(a *arena, minX, minY, maxX, maxY float32) *front {
	width := maxX - minX
	if width <= 0 {
		width = 1
	}
	padX := width * 0.21
	padY := (maxY - minY)
	if padY <= 0 {
		padY = 1
	}
	padY *= 0.12

	y := minY - padY
	v1 := a.addVertex(minX-padX, y)
	v2 := a.addVertex(maxX+padX, y)
	e := a.addEdge(v1, v2, false)

	fr := newFront(a)
	fr.insert(0, e)
	return fr
}

// sweepPoints runs phase 2 of the mesher over verts, already sorted by
// (y, x), against the seeded front.
func sweepPoints(a *arena, fr *front, verts []VertexId) error {
	cursor := 0
	for _, v := range verts {
		vv := a.vert(v)
		idx := fr.locate(vv.x, cursor)
		cursor = idx

		e := fr.at(idx)
		ev := a.edgeAt(e)
		v1, v2 := ev.v1, ev.v2
		p1, p2 := a.vert(v1), a.vert(v2)

		if dist2(p1.x, p1.y, vv.x, vv.y) < epsCoord || dist2(p2.x, p2.y, vv.x, vv.y) < epsCoord {
			return fmt.Errorf("dup points")
		}

		L := a.addEdge(v1, v, false)
		R := a.addEdge(v, v2, false)
		a.addTriangle(L, R, e)

		fr.removeAt(idx)
		fr.insert(idx, R)
		fr.insert(idx, L)

		mergeFront(a, fr, idx)
	}

	closeFront(a, fr)
	return nil
}

// mergeFront repeatedly merges the front edges around idx while the corner
// they meet at is convex at ≤90° (make_convex90) or is itself nearly
// vertical (force merge), each merge replacing two front edges and adding
// one triangle (spec §4.4 phase 2d).
func mergeFront(a *arena, fr *front, idx int) {
	for {
		mergedAny := false

		if idx+1 < fr.size() {
			if tryMerge(a, fr, idx) {
				mergedAny = true
				continue
			}
		}
		if idx > 0 {
			if tryMerge(a, fr, idx-1) {
				idx--
				mergedAny = true
				continue
			}
		}
		if !mergedAny {
			break
		}
	}
}

// tryMerge attempts to merge the front edges at positions i and i+1 into a
// single new front edge, if the shared vertex forms a convex ≤90° corner or
// one of the edges is near-vertical.
func tryMerge(a *arena, fr *front, i int) bool {
	if i+1 >= fr.size() {
		return false
	}
	e1, e2 := fr.at(i), fr.at(i+1)
	l := fr.leftVertex(i)
	shared := fr.rightVertex(i)
	r := fr.rightVertex(i + 1)
	if fr.leftVertex(i+1) != shared {
		return false
	}

	pl, ps, pr := a.vert(l), a.vert(shared), a.vert(r)
	vertical := func(p1, p2 *vertex) bool {
		dx, dy := p2.x-p1.x, p2.y-p1.y
		return dy != 0 && float32absLess(dx, dy*0.01)
	}
	if !convex90(pl.x, pl.y, ps.x, ps.y, pr.x, pr.y) && !vertical(pl, ps) && !vertical(ps, pr) {
		return false
	}

	newEdge := a.addEdge(l, r, false)
	a.addTriangle(e1, e2, newEdge)
	fr.removeAt(i + 1)
	fr.removeAt(i)
	fr.insert(i, newEdge)
	return true
}

func float32absLess(a, b float32) bool {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	return a < b
}

// closeFront collapses the remaining front down to a single globally convex
// chain by repeated make_convex merges (spec §4.4 phase 2 "Finish"): any two
// adjacent front edges meeting at a left turn are merged, until none remain.
func closeFront(a *arena, fr *front) {
	for i := 0; i < fr.size()-1; {
		l, s, r := fr.leftVertex(i), fr.rightVertex(i), fr.rightVertex(i+1)
		pl, ps, pr := a.vert(l), a.vert(s), a.vert(r)
		if fr.leftVertex(i+1) == s && cross(ps.x-pl.x, ps.y-pl.y, pr.x-ps.x, pr.y-ps.y) > 0 {
			newEdge := a.addEdge(l, r, false)
			a.addTriangle(fr.at(i), fr.at(i+1), newEdge)
			fr.removeAt(i + 1)
			fr.removeAt(i)
			fr.insert(i, newEdge)
			if i > 0 {
				i--
			}
			continue
		}
		i++
	}
}
