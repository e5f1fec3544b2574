package sfnt

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMinimalFont(t *testing.T) {
	data := buildMinimalTTF()

	font, err := Load(data, false)
	require.NoError(t, err)
	require.Equal(t, 2, font.NGlyphs)

	gi, ok := font.FindGlyph('A')
	assert.True(t, ok)
	assert.Equal(t, 1, gi)

	_, ok = font.FindGlyph('Z')
	assert.False(t, ok)

	a := font.Glyphs[1]
	require.NotNil(t, a.Outline)
	assert.Equal(t, 1, a.NContours)
	assert.Equal(t, 8, a.TotalPoints)
	for _, p := range a.Outline.Contours[0].Points {
		assert.True(t, p.OnCurve)
	}
	assert.Equal(t, "Test", font.Names.Family)
}

func TestLoadHeadersOnly(t *testing.T) {
	data := buildMinimalTTF()
	font, err := Load(data, true)
	require.NoError(t, err)
	assert.True(t, font.HeadersOnly)
	assert.Nil(t, font.Glyphs)
}

func TestLoadRejectsBadChecksum(t *testing.T) {
	data := buildMinimalTTF()
	data[len(data)-1] ^= 0xFF
	_, err := Load(data, false)
	require.Error(t, err)
	var sfntErr *Error
	require.ErrorAs(t, err, &sfntErr)
	assert.Equal(t, CorruptChecksum, sfntErr.Code)
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	data := buildMinimalTTF()
	// Swap in the OTF/CFF version tag. The change to the first word is
	// offset in the entrySelector/rangeShift word (bytes 8-11), which the
	// decoder does not read, so the whole-file checksum still holds and Load
	// reaches the version check.
	oldTag := binary.BigEndian.Uint32(data[0:4])
	data[0], data[1], data[2], data[3] = 'O', 'T', 'T', 'O'
	newTag := binary.BigEndian.Uint32(data[0:4])
	binary.BigEndian.PutUint32(data[8:12], binary.BigEndian.Uint32(data[8:12])-(newTag-oldTag))
	_, err := Load(data, false)
	require.Error(t, err)
	var sfntErr *Error
	require.ErrorAs(t, err, &sfntErr)
	assert.Equal(t, UnsupportedVersion, sfntErr.Code)
}

func TestMatchFont(t *testing.T) {
	mk := func(family, subfamily string) *Font {
		return &Font{Names: Names{Family: family, Subfamily: subfamily}}
	}
	list := []*Font{
		mk("Times New Roman", "Regular"),
		mk("Times New Roman", "Bold"),
		mk("Arial", "Bold"),
	}
	reqs := ParseRequirements("b!f", "Times New Roman")
	idx := MatchFont(list, reqs)
	assert.Equal(t, 1, idx)
}

func TestScoreOneWeight(t *testing.T) {
	mkWeight := func(weight uint16) *Font {
		return &Font{OS2: OS2{WeightClass: weight}}
	}
	cases := []struct {
		name   string
		weight uint16
		want   string
		score  int
	}{
		{"exact match", 400, "400", 3},
		{"delta 50 rounds down", 400, "450", 3},
		{"delta 99 still under 100", 400, "499", 3},
		{"delta 100 costs one point", 400, "500", 2},
		{"delta 150 floors to one bucket", 400, "550", 2},
		{"delta 250", 400, "650", 1},
		{"delta 300 still in the d==3 bucket", 400, "700", 0},
		{"delta 350", 400, "750", 0},
		{"delta 400 disqualifying", 400, "800", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reqs := ParseRequirements("w", c.want)
			got := scoreOne(mkWeight(c.weight), reqs[0])
			assert.Equal(t, c.score, got)
		})
	}
}

func TestScoreOneOblique(t *testing.T) {
	const (
		fsItalic  = 1 << 0
		fsOblique = 1 << 8
	)
	mkFS := func(fsSelection uint16) *Font {
		return &Font{OS2: OS2{FSSelection: fsSelection}}
	}
	cases := []struct {
		name        string
		fsSelection uint16
		score       int
	}{
		{"oblique bit set", fsOblique, 3},
		{"oblique wins over italic when both set", fsOblique | fsItalic, 3},
		{"italic only falls back to two", fsItalic, 2},
		{"neither bit set", 0, 0},
	}
	reqs := ParseRequirements("o")
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := scoreOne(mkFS(c.fsSelection), reqs[0])
			assert.Equal(t, c.score, got)
		})
	}
}

func TestMatchFontWeight(t *testing.T) {
	mkWeight := func(family string, weight uint16) *Font {
		return &Font{Names: Names{Family: family}, OS2: OS2{WeightClass: weight}}
	}
	list := []*Font{
		mkWeight("Roboto", 200),
		mkWeight("Roboto", 400),
		mkWeight("Roboto", 700),
	}
	reqs := ParseRequirements("w", "440")
	idx := MatchFont(list, reqs)
	assert.Equal(t, 1, idx, "weight 400 is closest to requested 440")
}

func TestMatchFontOblique(t *testing.T) {
	const fsOblique = 1 << 8
	mkFS := func(family string, fsSelection uint16) *Font {
		return &Font{Names: Names{Family: family}, OS2: OS2{FSSelection: fsSelection}}
	}
	list := []*Font{
		mkFS("Roboto", 0),
		mkFS("Roboto Oblique", fsOblique),
	}
	reqs := ParseRequirements("o!")
	idx := MatchFont(list, reqs)
	assert.Equal(t, 1, idx, "only the oblique font should survive an exact 'o!' requirement")
}

func TestFindUBRange(t *testing.T) {
	assert.Equal(t, 0, findUBRange(0x41))
	assert.Equal(t, -1, findUBRange(0x110000))
}
