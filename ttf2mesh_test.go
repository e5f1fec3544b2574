package ttf2mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetisov/ttf2mesh/sfnt"
)

func TestMatchFontFacade(t *testing.T) {
	mk := func(family, subfamily string) *Font {
		return &Font{Names: Names{Family: family, Subfamily: subfamily}}
	}
	list := []*Font{
		mk("Times New Roman", "Regular"),
		mk("Times New Roman", "Bold"),
		mk("Arial", "Bold"),
	}
	got := MatchFont(list, "b!f", "Times New Roman")
	require.NotNil(t, got)
	assert.Equal(t, "Bold", got.Subfamily)
}

func TestMatchFontFacadeOblique(t *testing.T) {
	const fsOblique = 1 << 8
	mkFS := func(family string, fsSelection uint16) *Font {
		return &Font{Names: Names{Family: family}, OS2: sfnt.OS2{FSSelection: fsSelection}}
	}
	list := []*Font{
		mkFS("Roboto", 0),
		mkFS("Roboto Oblique", fsOblique),
	}
	got := MatchFont(list, "o!", "")
	require.NotNil(t, got)
	assert.Equal(t, "Roboto Oblique", got.Names.Family)
}

func TestMatchFontFacadeWeight(t *testing.T) {
	mkWeight := func(family string, weight uint16) *Font {
		return &Font{Names: Names{Family: family}, OS2: sfnt.OS2{WeightClass: weight}}
	}
	list := []*Font{
		mkWeight("Roboto Light", 200),
		mkWeight("Roboto", 400),
		mkWeight("Roboto Black", 700),
	}
	got := MatchFont(list, "w", "440")
	require.NotNil(t, got)
	assert.Equal(t, "Roboto", got.Names.Family)
}

func TestToMesh2DRejectsSparseOutline(t *testing.T) {
	g := &Glyph{Outline: &sfnt.Outline{Contours: []sfnt.Contour{{Points: []sfnt.Point{{X: 0, Y: 0}}}}}, TotalPoints: 1}
	_, err := ToMesh2D(g, 20, Features{})
	require.Error(t, err)
	var sfntErr *sfnt.Error
	require.ErrorAs(t, err, &sfntErr)
	assert.Equal(t, sfnt.NoOutline, sfntErr.Code)
}
