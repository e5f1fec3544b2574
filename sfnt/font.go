package sfnt

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/slices"
)

// MaxFileMB bounds the file size accepted by LoadFile (spec §7 FileTooLarge).
const MaxFileMB = 32

// Point is one outline vertex: an (x, y) pair in em units plus the two bits
// spec §3 calls out (on_curve, and the internal split marker used by the
// three-point-Bézier transform in package outline).
type Point struct {
	X, Y    float32
	OnCurve bool
	Split   bool
}

// Contour is one closed boundary loop of an Outline.
type Contour struct {
	Points        []Point
	SubglyphID    int
	SubglyphOrder int
}

// Outline is a glyph's vector boundary: one or more Contours.
type Outline struct {
	Contours    []Contour
	TotalPoints int
}

// Glyph is one decoded glyph: metrics plus an optional Outline (nil for
// whitespace glyphs with no contours).
type Glyph struct {
	Index       int
	Symbol      uint32
	HasSymbol   bool
	NContours   int
	TotalPoints int
	Advance     float32
	LBearing    float32
	RBearing    float32
	XBounds     [2]float32
	YBounds     [2]float32
	Composite   bool
	Outline     *Outline
}

// Font is a fully decoded TrueType font (spec §3).
type Font struct {
	Filename     string
	NGlyphs      int
	Glyphs       []Glyph
	Codes        []uint32 // strictly ascending
	GlyphIndices []uint16 // parallel to Codes
	UnitsPerEm   uint16
	MacStyle     MacStyle
	Hhea         Hhea
	OS2          OS2
	Names        Names
	ranges       [(NumUnicodeRanges + 31) / 32]uint32
	HeadersOnly  bool
}

// NChars is the number of character-code entries (spec §3's "number of
// character-code entries").
func (f *Font) NChars() int { return len(f.Codes) }

// FindGlyph performs the O(log N) binary search spec §4.1 describes.
func (f *Font) FindGlyph(code uint32) (glyphIndex int, ok bool) {
	i := sort.Search(len(f.Codes), func(i int) bool { return f.Codes[i] >= code })
	if i < len(f.Codes) && f.Codes[i] == code {
		return int(f.GlyphIndices[i]), true
	}
	return 0, false
}

// coversRange reports whether the font's cmap touched any code point in the
// named Unicode block index (0..NumUnicodeRanges-1); used by font_match's
// "t" requirement.
func (f *Font) coversRange(idx int) bool {
	return f.ranges[idx/32]&(1<<uint(idx%32)) != 0
}

// Load decodes a TTF blob (spec §4.1's `load` entry point). When
// headersOnly is true, only steps 1-8 run (checksum, directory, head,
// maxp, name, OS/2, hhea, cmap): the sorted code map and the em-scaled
// header metrics are filled in, and Glyphs is left nil.
func Load(data []byte, headersOnly bool) (*Font, error) {
	idx, err := readTableIndex(data)
	if err != nil {
		return nil, err
	}

	h, err := parseHead(idx.table("head"))
	if err != nil {
		return nil, err
	}
	nglyphs, err := parseMaxp(idx.table("maxp"))
	if err != nil {
		return nil, err
	}
	names, err := parseName(idx.table("name"))
	if err != nil {
		return nil, err
	}
	os2, err := parseOS2(idx.table("OS/2"))
	if err != nil {
		return nil, err
	}
	hhea, err := parseHhea(idx.table("hhea"))
	if err != nil {
		return nil, err
	}
	cm, err := parseCmap(idx.table("cmap"), nglyphs)
	if err != nil {
		return nil, err
	}

	font := &Font{
		NGlyphs:    nglyphs,
		UnitsPerEm: h.unitsPerEm,
		MacStyle:   macStyleFrom(h.macStyle),
		Hhea:       hhea,
		OS2:        os2,
		Names:      names,
		ranges:     cm.ranges,
	}

	font.Codes, font.GlyphIndices = cm.codes, cm.glyphs

	if headersOnly {
		font.HeadersOnly = true
		prepareToOutput(font)
		return font, nil
	}

	font.Glyphs = make([]Glyph, nglyphs)
	for i := range font.Glyphs {
		font.Glyphs[i].Index = i
	}
	for i, code := range cm.codes {
		g := int(cm.glyphs[i])
		font.Glyphs[g].Symbol = code
		font.Glyphs[g].HasSymbol = true
	}

	offs, err := parseLoca(idx.table("loca"), nglyphs, h.indexToLocFormat == 1)
	if err != nil {
		return nil, err
	}
	raws, err := parseGlyfTable(idx.table("glyf"), offs, nglyphs)
	if err != nil {
		return nil, err
	}
	for i, r := range raws {
		g := &font.Glyphs[i]
		g.Outline = r.outline
		g.Composite = r.composite
		g.XBounds = [2]float32{float32(r.xMin), float32(r.xMax)}
		g.YBounds = [2]float32{float32(r.yMin), float32(r.yMax)}
		if r.outline != nil {
			g.NContours = len(r.outline.Contours)
			g.TotalPoints = r.outline.TotalPoints
		}
	}

	advances, lsbs, err := parseHmtx(idx.table("hmtx"), nglyphs, hhea.NumberOfHMetrics)
	if err != nil {
		return nil, err
	}
	for i := range font.Glyphs {
		font.Glyphs[i].Advance = advances[i]
		font.Glyphs[i].LBearing = lsbs[i]
	}

	prepareToOutput(font)
	return font, nil
}

// prepareToOutput performs spec §4.1 step 11 (em-unit scaling, macStyle
// already unpacked, stable sort of the code/glyph pairs) — grounded on
// original_source/ttf2mesh.c's ttf_prepare_to_output. The source's sort is
// a bubble variant flagged in spec §9 as a known bug; this rewrite uses
// golang.org/x/exp/slices.SortStableFunc instead (DOMAIN STACK, Open Questions).
func prepareToOutput(f *Font) {
	scale := float32(0)
	if f.UnitsPerEm != 0 {
		scale = 1 / float32(f.UnitsPerEm)
	}

	for i := range f.Glyphs {
		g := &f.Glyphs[i]
		g.XBounds[0] *= scale
		g.XBounds[1] *= scale
		g.YBounds[0] *= scale
		g.YBounds[1] *= scale
		g.Advance *= scale
		g.LBearing *= scale
		g.RBearing = g.Advance - (g.LBearing + g.XBounds[1] - g.XBounds[0])
		if g.Outline != nil {
			for c := range g.Outline.Contours {
				pts := g.Outline.Contours[c].Points
				for p := range pts {
					pts[p].X *= scale
					pts[p].Y *= scale
				}
			}
		}
	}

	f.Hhea.Ascender *= scale
	f.Hhea.Descender *= scale
	f.Hhea.LineGap *= scale
	f.Hhea.AdvanceWidthMax *= scale
	f.Hhea.MinLSideBearing *= scale
	f.Hhea.MinRSideBearing *= scale
	f.Hhea.XMaxExtent *= scale

	f.OS2.XAvgCharWidth *= scale
	f.OS2.YStrikeoutSize *= scale
	f.OS2.YStrikeoutPos *= scale
	f.OS2.TypoAscender *= scale
	f.OS2.TypoDescender *= scale
	f.OS2.TypoLineGap *= scale
	f.OS2.WinAscent *= scale
	f.OS2.WinDescent *= scale

	type pair struct {
		code  uint32
		glyph uint16
	}
	pairs := make([]pair, len(f.Codes))
	for i := range f.Codes {
		pairs[i] = pair{f.Codes[i], f.GlyphIndices[i]}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		switch {
		case a.code < b.code:
			return -1
		case a.code > b.code:
			return 1
		default:
			return 0
		}
	})
	for i := range pairs {
		f.Codes[i] = pairs[i].code
		f.GlyphIndices[i] = pairs[i].glyph
	}
}

func parseHmtx(t ByteView, nglyphs, numberOfHMetrics int) (advances, lsbs []float32, err error) {
	if numberOfHMetrics <= 0 || numberOfHMetrics > nglyphs {
		return nil, nil, errf("parse hmtx", CorruptFormat, "bad numberOfHMetrics %d", numberOfHMetrics)
	}
	advances = make([]float32, nglyphs)
	lsbs = make([]float32, nglyphs)
	off := 0
	var lastAdvance uint16
	for i := 0; i < numberOfHMetrics; i++ {
		adv, err := t.u16(off)
		if err != nil {
			return nil, nil, errf("parse hmtx", CorruptFormat, "truncated long metric %d: %w", i, err)
		}
		lsb, err := t.i16(off + 2)
		if err != nil {
			return nil, nil, errf("parse hmtx", CorruptFormat, "truncated long metric %d: %w", i, err)
		}
		advances[i] = float32(adv)
		lsbs[i] = float32(lsb)
		lastAdvance = adv
		off += 4
	}
	for i := numberOfHMetrics; i < nglyphs; i++ {
		lsb, err := t.i16(off)
		if err != nil {
			return nil, nil, errf("parse hmtx", CorruptFormat, "truncated trailing lsb %d: %w", i, err)
		}
		advances[i] = float32(lastAdvance)
		lsbs[i] = float32(lsb)
		off += 2
	}
	return advances, lsbs, nil
}

// LoadFile reads filename and decodes it, per spec §6 (OpenFailed wraps I/O).
func LoadFile(filename string, headersOnly bool) (*Font, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, errf("load file", OpenFailed, "stat %s: %w", filename, err)
	}
	if fi.Size() <= 0 || fi.Size() > MaxFileMB*1024*1024 {
		return nil, errf("load file", FileTooLarge, "%s is %d bytes", filename, fi.Size())
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errf("load file", OpenFailed, "read %s: %w", filename, err)
	}
	font, err := Load(data, headersOnly)
	if err != nil {
		return nil, err
	}
	font.Filename = filename
	return font, nil
}

func (f *Font) String() string {
	return fmt.Sprintf("Font{%q, glyphs=%d, chars=%d}", f.Names.Family, f.NGlyphs, len(f.Codes))
}
