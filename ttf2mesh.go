// Package ttf2mesh provides a convenient API over sfnt, outline and mesh:
// load a font, look up a glyph, and turn it into a 2D or 3D triangle mesh.
// Use the sfnt, outline and mesh packages directly for lower-level control.
package ttf2mesh

import (
	"github.com/fetisov/ttf2mesh/mesh"
	"github.com/fetisov/ttf2mesh/outline"
	"github.com/fetisov/ttf2mesh/sfnt"
)

// Re-exported so callers that only need the facade don't have to also
// import the sfnt package.
type (
	Font  = sfnt.Font
	Glyph = sfnt.Glyph
	Names = sfnt.Names
)

// Features mirrors spec §6's `features` flags.
type Features = mesh.Features

// Mesh2D and Mesh3D are the packed outputs of ToMesh2D/ToMesh3D.
type Mesh2D = mesh.Mesh2D
type Mesh3D = mesh.Mesh3D

// LoadFont decodes font bytes into a Font (`font_load`).
func LoadFont(data []byte, headersOnly bool) (*Font, error) {
	return sfnt.Load(data, headersOnly)
}

// FindGlyph maps a Unicode code point to a glyph index (`font_find_glyph`).
func FindGlyph(f *Font, code rune) (int, bool) {
	return f.FindGlyph(uint32(code))
}

// MatchFont selects the best-scoring font from list against a requirement
// string (`font_match`).
func MatchFont(list []*Font, requirements string, familySubstring string) *Font {
	reqs := sfnt.ParseRequirements(requirements, familySubstring)
	idx := sfnt.MatchFont(list, reqs)
	if idx < 0 {
		return nil
	}
	return list[idx]
}

// LinearOutline replaces every curve of a glyph's outline with a polyline
// (`glyph_linear_outline`).
func LinearOutline(g *Glyph, quality uint8) *sfnt.Outline {
	if g.Outline == nil {
		return nil
	}
	return outline.Linear(g.Outline, quality)
}

// SplitOutline converts a glyph's outline to three-point-Bézier form
// (`glyph_split_outline`).
func SplitOutline(g *Glyph) *sfnt.Outline {
	if g.Outline == nil {
		return nil
	}
	return outline.Split(g.Outline)
}

// Contains is the even-odd point-in-polygon test (`outline_contains`).
func Contains(o *sfnt.Outline, x, y float32, subglyph int) bool {
	return outline.Contains(o, x, y, subglyph)
}

// ContourInfo reports hole/parent classification for one contour
// (`outline_contour_info`), robustified with a three-sample majority vote.
func ContourInfo(o *sfnt.Outline, subglyph, contour int) (isHole bool, nestedTo int) {
	return outline.MajorityContourInfo(o, subglyph, contour)
}

// ToMesh2D triangulates a glyph's filled interior (`glyph_to_mesh_2d`). A
// glyph with no outline or fewer than three outline points is rejected with
// a NoOutline *sfnt.Error.
func ToMesh2D(g *Glyph, quality uint8, features Features) (*Mesh2D, error) {
	if g.Outline == nil || g.TotalPoints < 3 {
		return nil, sfnt.NewError("glyph_to_mesh_2d", sfnt.NoOutline, "glyph has fewer than three points")
	}
	return mesh.ToMesh2D(g.Outline, quality, features)
}

// ToMesh3D extrudes a glyph's 2D mesh to the given depth
// (`glyph_to_mesh_3d`).
func ToMesh3D(g *Glyph, quality uint8, features Features, depth float32) (*Mesh3D, error) {
	if g.Outline == nil || g.TotalPoints < 3 {
		return nil, sfnt.NewError("glyph_to_mesh_3d", sfnt.NoOutline, "glyph has fewer than three points")
	}
	return mesh.ToMesh3D(g.Outline, quality, features, depth)
}
