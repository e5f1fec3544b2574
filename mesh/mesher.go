package mesh

import (
	"sort"

	"github.com/fetisov/ttf2mesh/outline"
	"github.com/fetisov/ttf2mesh/sfnt"
)

// Status is the mesher's outcome, spec §4.4's four-way result.
type Status int

const (
	Done Status = iota
	Warn
	Failed
	Trapped
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Warn:
		return "warn"
	case Failed:
		return "failed"
	case Trapped:
		return "trapped"
	default:
		return "unknown"
	}
}

// Features mirrors spec §6's `features` flags.
type Features struct {
	IgnoreMesherWarnings bool
}

// Triangulation is the mesher's raw output: a flat 2D vertex array plus a
// CCW face list, ready for emit.go to pack into a Mesh2D/Mesh3D.
type Triangulation struct {
	Vertices     []sfnt.Point
	Faces        [][3]int
	ContourEdges [][2]int
	Status       Status
	Message      string
}

type contourGroup struct {
	points []sfnt.Point
	isHole bool
	parent int
}

// Mesh builds a constrained Delaunay triangulation of a glyph's linearized
// outline (spec §4.4). quality is clamped as in §4.2; stop_at_step
// single-stepping (spec §9) is out of scope for this port.
func Mesh(o *sfnt.Outline, quality uint8, features Features) *Triangulation {
	lin := outline.Linear(o, quality)
	if len(lin.Contours) == 0 {
		return &Triangulation{Status: Failed, Message: "empty outline"}
	}

	groups := classifyContours(lin)
	objects := groupByObject(groups)

	a := newArena(lin.TotalPoints + 2*len(objects))
	var allFaces [][3]int
	var allContourEdges [][2]VertexId
	status := Done
	var message string

	for _, obj := range objects {
		tri, ceList, st, msg := meshOneObject(a, obj)
		if st == Failed {
			return &Triangulation{Status: Failed, Message: msg}
		}
		if st == Warn && status == Done {
			status, message = Warn, msg
		}
		allFaces = append(allFaces, tri...)
		allContourEdges = append(allContourEdges, ceList...)
	}

	if status == Warn && features.IgnoreMesherWarnings {
		status, message = Done, ""
	}

	verts := make([]sfnt.Point, len(a.verts))
	for i, v := range a.verts {
		verts[i] = sfnt.Point{X: v.x, Y: v.y, OnCurve: true}
	}
	contourEdges := make([][2]int, len(allContourEdges))
	for i, ce := range allContourEdges {
		contourEdges[i] = [2]int{int(ce[0]), int(ce[1])}
	}

	return &Triangulation{Vertices: verts, Faces: allFaces, ContourEdges: contourEdges, Status: status, Message: message}
}

// classifyContours assigns each contour its hole/outer role via the
// even-odd majority vote (spec §4.3) and its immediate parent contour.
func classifyContours(o *sfnt.Outline) []contourGroup {
	groups := make([]contourGroup, len(o.Contours))
	for i, c := range o.Contours {
		isHole, parent := outline.MajorityContourInfo(o, -1, i)
		groups[i] = contourGroup{points: c.Points, isHole: isHole, parent: parent}
	}
	return groups
}

// groupByObject assigns one triangulation object per filled outer contour;
// holes join their parent's object (spec §4.4 phase 1).
func groupByObject(groups []contourGroup) [][]contourGroup {
	objIndex := make(map[int]int)
	var objects [][]contourGroup
	for i, g := range groups {
		if g.isHole {
			continue
		}
		objIndex[i] = len(objects)
		objects = append(objects, []contourGroup{g})
	}
	for i, g := range groups {
		if !g.isHole {
			continue
		}
		root := rootOuter(groups, i)
		if oi, ok := objIndex[root]; ok {
			objects[oi] = append(objects[oi], g)
		}
	}
	return objects
}

func rootOuter(groups []contourGroup, i int) int {
	seen := map[int]bool{}
	for groups[i].isHole {
		if seen[i] || groups[i].parent < 0 {
			return i
		}
		seen[i] = true
		i = groups[i].parent
	}
	return i
}

// meshOneObject runs phases 1-6 of spec §4.4 over one triangulation object
// (one filled outer contour plus its holes) and returns its final faces as
// arena vertex-index triples.
func meshOneObject(a *arena, object []contourGroup) ([][3]int, [][2]VertexId, Status, string) {
	var minX, minY, maxX, maxY float32
	first := true
	var repaired [][]point2
	for _, g := range object {
		pts := make([]point2, len(g.points))
		for i, p := range g.points {
			pts[i] = point2{x: p.X, y: p.Y}
			if first {
				minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
				first = false
			} else {
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
			}
		}
		pts = repairCoincidentPoints(pts)
		pts = repairContourTwists(pts)
		repaired = append(repaired, pts)
	}

	type indexedVertex struct {
		id       VertexId
		x, y     float32
		contourI int
		inContI  int
	}
	var verts []indexedVertex
	var contourEdges [][2]VertexId
	contourVertStart := make([][]VertexId, len(repaired))

	for ci, pts := range repaired {
		ids := make([]VertexId, len(pts))
		for i, p := range pts {
			id := a.addVertex(p.x, p.y)
			ids[i] = id
			verts = append(verts, indexedVertex{id: id, x: p.x, y: p.y, contourI: ci, inContI: i})
		}
		contourVertStart[ci] = ids
		n := len(ids)
		for i := 0; i < n; i++ {
			contourEdges = append(contourEdges, [2]VertexId{ids[i], ids[(i+1)%n]})
		}
	}

	sort.Slice(verts, func(i, j int) bool {
		if verts[i].y != verts[j].y {
			return verts[i].y < verts[j].y
		}
		return verts[i].x < verts[j].x
	})
	sorted := make([]VertexId, len(verts))
	for i, v := range verts {
		sorted[i] = v.id
	}

	fr := seedTriangulation(a, minX, minY, maxX, maxY)
	seed0 := a.edgeAt(fr.at(0)).v1
	seed1 := a.edgeAt(fr.at(0)).v2

	if err := sweepPoints(a, fr, sorted); err != nil {
		return nil, nil, Failed, err.Error()
	}

	optimizeAll(a, 4)

	status := Done
	var message string
	for _, ce := range contourEdges {
		if err := insertFixedEdge(a, ce[0], ce[1]); err != nil {
			return nil, nil, Failed, err.Error()
		}
		if e, ok := a.findEdge(ce[0], ce[1]); ok {
			a.edgeAt(e).contour = true
		} else {
			status, message = Warn, "not all contour edges inserted"
		}
	}

	removeExcessTriangles(a, [2]VertexId{seed0, seed1})
	optimizeAll(a, 4)

	var faces [][3]int
	for i := range a.tris {
		if !a.tris[i].alive {
			continue
		}
		v := a.tris[i].verts
		faces = append(faces, [3]int{int(v[0]), int(v[1]), int(v[2])})
	}
	return faces, contourEdges, status, message
}
