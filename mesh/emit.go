package mesh

import (
	"math"

	"github.com/fetisov/ttf2mesh/sfnt"
)

// Vec2 and Vec3 are the plain coordinate types of the emitted meshes (spec
// §6's output contracts).
type Vec2 struct{ X, Y float32 }
type Vec3 struct{ X, Y, Z float32 }

// Mesh2D is `glyph_to_mesh_2d`'s output: an ordered vertex array plus a CCW
// face list, with the source outline attached for debugging.
type Mesh2D struct {
	Vertices []Vec2
	Faces    [][3]int
	Outline  *sfnt.Outline
}

// Mesh3D is `glyph_to_mesh_3d`'s output: two extruded copies of the 2D
// mesh joined by side walls, with one flat-shaded normal per vertex.
type Mesh3D struct {
	Vertices []Vec3
	Normals  []Vec3
	Faces    [][3]int
}

// ToMesh2D runs the mesher and packs its result (spec §4.5).
func ToMesh2D(o *sfnt.Outline, quality uint8, features Features) (*Mesh2D, error) {
	t := Mesh(o, quality, features)
	if t.Status == Failed || t.Status == Trapped {
		return nil, sfnt.NewError("glyph_to_mesh_2d", sfnt.MesherFailed, t.Message)
	}
	verts := make([]Vec2, len(t.Vertices))
	for i, v := range t.Vertices {
		verts[i] = Vec2{X: v.X, Y: v.Y}
	}
	return &Mesh2D{Vertices: verts, Faces: t.Faces, Outline: o}, nil
}

// ToMesh3D extrudes the 2D mesh to depth: two capped copies of the 2D
// triangulation at z=±depth/2 (opposite winding) plus a side-wall quad per
// contour edge, with flat per-face normals duplicated at seams (spec §4.5).
func ToMesh3D(o *sfnt.Outline, quality uint8, features Features, depth float32) (*Mesh3D, error) {
	t := Mesh(o, quality, features)
	if t.Status == Failed || t.Status == Trapped {
		return nil, sfnt.NewError("glyph_to_mesh_3d", sfnt.MesherFailed, t.Message)
	}

	n := len(t.Vertices)
	half := depth / 2
	verts := make([]Vec3, 2*n)
	for i, v := range t.Vertices {
		verts[i] = Vec3{X: v.X, Y: v.Y, Z: half}
		verts[n+i] = Vec3{X: v.X, Y: v.Y, Z: -half}
	}

	var faces [][3]int
	for _, f := range t.Faces {
		faces = append(faces, [3]int{f[0], f[1], f[2]})
	}
	for _, f := range t.Faces {
		faces = append(faces, [3]int{n + f[0], n + f[2], n + f[1]})
	}

	for _, ce := range t.ContourEdges {
		u, v := ce[0], ce[1]
		uTop, vTop := u, v
		uBot, vBot := n+u, n+v
		iu := len(verts)
		verts = append(verts, verts[uTop], verts[vTop], verts[uBot], verts[vBot])
		faces = append(faces, [3]int{iu, iu + 1, iu + 3})
		faces = append(faces, [3]int{iu, iu + 3, iu + 2})
	}

	// Cap vertices start with the cap's normal, so a vertex that no face
	// references (the sweep's seed vertices) still gets a unit normal.
	normals := make([]Vec3, len(verts))
	for i := 0; i < n; i++ {
		normals[i] = Vec3{0, 0, 1}
		normals[n+i] = Vec3{0, 0, -1}
	}
	assigned := make([]bool, len(verts))
	for _, f := range faces {
		nx, ny, nz := faceNormal(verts[f[0]], verts[f[1]], verts[f[2]])
		for _, idx := range f {
			if !assigned[idx] {
				normals[idx] = Vec3{nx, ny, nz}
				assigned[idx] = true
			}
		}
	}

	return &Mesh3D{Vertices: verts, Normals: normals, Faces: faces}, nil
}

func faceNormal(a, b, c Vec3) (float32, float32, float32) {
	ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	l := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if l < epsCoord {
		return 0, 0, 1
	}
	return nx / l, ny / l, nz / l
}
