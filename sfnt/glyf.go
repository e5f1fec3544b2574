package sfnt

// simple glyph point flags (spec §4.1 step 9 table), named in the teacher's
// style (freetype/truetype/truetype.go's flagOnCurve etc.)
const (
	flagOnCurve      = 1 << 0
	flagXShort       = 1 << 1
	flagYShort       = 1 << 2
	flagRepeat       = 1 << 3
	flagXIsSameOrPos = 1 << 4
	flagYIsSameOrPos = 1 << 5
)

// composite glyph component flags, grounded on freetype/truetype/glyph.go's
// flagArg1And2AreWords and neighbors.
const (
	flagArg1And2AreWords = 1 << 0
	flagArgsAreXYValues  = 1 << 1
	flagWeHaveAScale     = 1 << 3
	flagMoreComponents   = 1 << 5
	flagWeHaveAnXYScale  = 1 << 6
	flagWeHaveATwoByTwo  = 1 << 7
)

// f2dot14 decodes a signed 2.14 fixed-point value exactly as spec §6
// defines it: value / 16384.0. golang.org/x/image/math/fixed has no 2.14
// type (Int26_6 is a 6-fraction-bit format and doesn't apply here), so this
// stays a direct division rather than a decorative round-trip through the
// wrong fixed-point shape.
func f2dot14(raw int16) float32 {
	return float32(raw) / 16384.0
}

// rawGlyph is the not-yet-normalized glyph geometry straight out of glyf,
// still in font design units.
type rawGlyph struct {
	numberOfContours int16
	xMin, yMin       int16
	xMax, yMax       int16
	outline          *Outline // nil until resolved (simple: immediate; composite: second pass)
	composite        bool
	compData         ByteView // component stream, for composites
}

// parseLoca converts the `loca` table to a slice of nglyphs+1 byte offsets
// into `glyf`, per spec §4.1 step 9.
func parseLoca(loca ByteView, nglyphs int, longFormat bool) ([]uint32, error) {
	offs := make([]uint32, nglyphs+1)
	if longFormat {
		if len(loca) < (nglyphs+1)*4 {
			return nil, errf("parse loca", CorruptFormat, "loca table too short for long format")
		}
		for i := range offs {
			v, _ := loca.u32(i * 4)
			offs[i] = v
		}
	} else {
		if len(loca) < (nglyphs+1)*2 {
			return nil, errf("parse loca", CorruptFormat, "loca table too short for short format")
		}
		for i := range offs {
			v, _ := loca.u16(i * 2)
			offs[i] = uint32(v) * 2
		}
	}
	return offs, nil
}

// parseGlyfTable decodes every glyph's outline, in two passes: simple
// glyphs are fully resolved in pass one; composite glyphs are parsed into
// a pending component stream in pass one and stitched together in pass two,
// in glyph-index order, against the outlines resolved so far: every simple
// glyph, plus composites with a lower glyph index (spec §4.1 step 9).
func parseGlyfTable(glyf ByteView, locaOffsets []uint32, nglyphs int) ([]rawGlyph, error) {
	raws := make([]rawGlyph, nglyphs)

	for gi := 0; gi < nglyphs; gi++ {
		start, end := locaOffsets[gi], locaOffsets[gi+1]
		if end <= start {
			continue // empty glyph, e.g. space
		}
		g, err := glyf.slice(int(start), int(end-start))
		if err != nil {
			return nil, errf("parse glyf", CorruptFormat, "glyph %d out of bounds: %w", gi, err)
		}
		nc, err := g.i16(0)
		if err != nil {
			return nil, errf("parse glyf", CorruptFormat, "glyph %d header truncated", gi)
		}
		xMin, _ := g.i16(2)
		yMin, _ := g.i16(4)
		xMax, _ := g.i16(6)
		yMax, _ := g.i16(8)
		raws[gi] = rawGlyph{numberOfContours: nc, xMin: xMin, yMin: yMin, xMax: xMax, yMax: yMax}

		if nc >= 0 {
			outline, err := parseSimpleGlyph(g, int(nc))
			if err != nil {
				return nil, errf("parse glyf", CorruptFormat, "glyph %d: %w", gi, err)
			}
			raws[gi].outline = outline
		} else {
			raws[gi].composite = true
			raws[gi].compData = g[10:]
		}
	}

	for gi := range raws {
		if !raws[gi].composite {
			continue
		}
		outline, err := parseCompositeGlyph(raws[gi].compData, raws)
		if err != nil {
			code := CorruptFormat
			if e, ok := err.(*Error); ok {
				code = e.Code
			}
			return nil, errf("parse glyf", code, "composite glyph %d: %w", gi, err)
		}
		raws[gi].outline = outline
	}
	return raws, nil
}

// parseSimpleGlyph decodes the endpoint array, flag run, and delta-coded
// coordinate streams of a simple glyph, then rotates each contour so it
// starts on an on-curve point (spec §4.1 step 9).
func parseSimpleGlyph(g ByteView, numberOfContours int) (*Outline, error) {
	off := 10
	endPts := make([]int, numberOfContours)
	for i := 0; i < numberOfContours; i++ {
		v, err := g.u16(off)
		if err != nil {
			return nil, errf("parse simple glyph", CorruptFormat, "truncated endPtsOfContours")
		}
		endPts[i] = int(v)
		off += 2
	}
	numPoints := 0
	if numberOfContours > 0 {
		numPoints = endPts[numberOfContours-1] + 1
	}

	instrLen, err := g.u16(off)
	if err != nil {
		return nil, errf("parse simple glyph", CorruptFormat, "truncated instructionLength")
	}
	off += 2 + int(instrLen)

	flags := make([]uint8, numPoints)
	for i := 0; i < numPoints; {
		f, err := g.u8(off)
		if err != nil {
			return nil, errf("parse simple glyph", CorruptFormat, "truncated flags")
		}
		off++
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			rep, err := g.u8(off)
			if err != nil {
				return nil, errf("parse simple glyph", CorruptFormat, "truncated flag repeat count")
			}
			off++
			for r := 0; r < int(rep) && i < numPoints; r++ {
				flags[i] = f
				i++
			}
		}
	}

	xs := make([]int32, numPoints)
	var x int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagXShort != 0:
			v, err := g.u8(off)
			if err != nil {
				return nil, errf("parse simple glyph", CorruptFormat, "truncated x delta")
			}
			off++
			if f&flagXIsSameOrPos == 0 {
				x -= int32(v)
			} else {
				x += int32(v)
			}
		case f&flagXIsSameOrPos != 0:
			// x equals previous; no delta stored.
		default:
			v, err := g.i16(off)
			if err != nil {
				return nil, errf("parse simple glyph", CorruptFormat, "truncated x delta")
			}
			off += 2
			x += int32(v)
		}
		xs[i] = x
	}

	ys := make([]int32, numPoints)
	var y int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagYShort != 0:
			v, err := g.u8(off)
			if err != nil {
				return nil, errf("parse simple glyph", CorruptFormat, "truncated y delta")
			}
			off++
			if f&flagYIsSameOrPos == 0 {
				y -= int32(v)
			} else {
				y += int32(v)
			}
		case f&flagYIsSameOrPos != 0:
			// y equals previous
		default:
			v, err := g.i16(off)
			if err != nil {
				return nil, errf("parse simple glyph", CorruptFormat, "truncated y delta")
			}
			off += 2
			y += int32(v)
		}
		ys[i] = y
	}

	o := &Outline{Contours: make([]Contour, numberOfContours)}
	start := 0
	for c := 0; c < numberOfContours; c++ {
		end := endPts[c] + 1
		n := end - start
		pts := make([]Point, n)
		for i := 0; i < n; i++ {
			pts[i] = Point{
				X:       float32(xs[start+i]),
				Y:       float32(ys[start+i]),
				OnCurve: flags[start+i]&flagOnCurve != 0,
			}
		}
		rotateToOnCurveStart(pts)
		o.Contours[c] = Contour{Points: pts}
		o.TotalPoints += n
		start = end
	}
	return o, nil
}

// rotateToOnCurveStart rotates pts in place so index 0 is on-curve, if any
// on-curve point exists (spec §4.1 step 9).
func rotateToOnCurveStart(pts []Point) {
	first := -1
	for i, p := range pts {
		if p.OnCurve {
			first = i
			break
		}
	}
	if first <= 0 {
		return
	}
	rotated := make([]Point, len(pts))
	for i := range pts {
		rotated[i] = pts[(first+i)%len(pts)]
	}
	copy(pts, rotated)
}

// parseCompositeGlyph stitches transformed copies of already-resolved
// simple-glyph outlines into one Outline (spec §4.1 step 9, second pass).
// A component whose subglyph has no outline yet contributes nothing: a
// composite with a higher glyph index is not resolved at this point and is
// dropped, while a composite with a lower index is used with its already
// stitched outline (SPEC_FULL §9).
func parseCompositeGlyph(comp ByteView, raws []rawGlyph) (*Outline, error) {
	out := &Outline{}
	off := 0
	order := 0
	for {
		flags, err := comp.u16(off)
		if err != nil {
			return nil, errf("parse composite glyph", CorruptFormat, "truncated component header")
		}
		glyphIndex, err := comp.u16(off + 2)
		if err != nil {
			return nil, errf("parse composite glyph", CorruptFormat, "truncated component header")
		}
		off += 4

		if flags&flagArgsAreXYValues == 0 {
			return nil, errf("parse composite glyph", UnsupportedTable, "point-anchored component placement")
		}

		var dx, dy float32
		if flags&flagArg1And2AreWords != 0 {
			a1, err := comp.i16(off)
			if err != nil {
				return nil, errf("parse composite glyph", CorruptFormat, "truncated component args")
			}
			a2, _ := comp.i16(off + 2)
			dx, dy = float32(a1), float32(a2)
			off += 4
		} else {
			a1, err := comp.u8(off)
			if err != nil {
				return nil, errf("parse composite glyph", CorruptFormat, "truncated component args")
			}
			a2, _ := comp.u8(off + 1)
			dx, dy = float32(int8(a1)), float32(int8(a2))
			off += 2
		}

		var xx, xy, yx, yy float32 = 1, 0, 0, 1
		switch {
		case flags&flagWeHaveATwoByTwo != 0:
			v0, err := comp.i16(off)
			if err != nil {
				return nil, errf("parse composite glyph", CorruptFormat, "truncated 2x2 transform")
			}
			v1, _ := comp.i16(off + 2)
			v2, _ := comp.i16(off + 4)
			v3, _ := comp.i16(off + 6)
			xx, xy, yx, yy = f2dot14(v0), f2dot14(v1), f2dot14(v2), f2dot14(v3)
			off += 8
		case flags&flagWeHaveAnXYScale != 0:
			v0, err := comp.i16(off)
			if err != nil {
				return nil, errf("parse composite glyph", CorruptFormat, "truncated x/y scale")
			}
			v1, _ := comp.i16(off + 2)
			xx, yy = f2dot14(v0), f2dot14(v1)
			off += 4
		case flags&flagWeHaveAScale != 0:
			v0, err := comp.i16(off)
			if err != nil {
				return nil, errf("parse composite glyph", CorruptFormat, "truncated scale")
			}
			xx, yy = f2dot14(v0), f2dot14(v0)
			off += 2
		}

		if int(glyphIndex) < len(raws) {
			if sub := raws[glyphIndex].outline; sub != nil {
				for _, c := range sub.Contours {
					pts := make([]Point, len(c.Points))
					for i, p := range c.Points {
						pts[i] = Point{
							X:       xx*p.X + yx*p.Y + dx,
							Y:       xy*p.X + yy*p.Y + dy,
							OnCurve: p.OnCurve,
						}
					}
					out.Contours = append(out.Contours, Contour{
						Points:          pts,
						SubglyphID:      int(glyphIndex),
						SubglyphOrder:   order,
					})
					out.TotalPoints += len(pts)
				}
			}
		}
		order++

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	return out, nil
}
