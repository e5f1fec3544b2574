package sfnt

// cmapResult is the merged (code, glyph) map plus the coverage bitmap,
// produced by whichever of format 4 / format 12 the font carries (spec
// §4.1 step 8). The bitmap has NumUnicodeRanges bits, one per predefined
// Unicode BMP block.
type cmapResult struct {
	codes   []uint32 // strictly ascending after CharMap's sort pass
	glyphs  []uint16 // parallel to codes
	ranges  [(NumUnicodeRanges + 31) / 32]uint32
}

func (r *cmapResult) markRange(code uint32) {
	if idx := findUBRange(code); idx >= 0 {
		r.ranges[idx/32] |= 1 << uint(idx%32)
	}
}

// locateSubtable walks the cmap header's encoding records looking for the
// given subtable format (4 or 12), returning the subtable's own ByteView.
// Grounded on original_source/ttf2mesh.c's locate_fmt4_table/locate_fmt12_table.
func locateSubtable(cmap ByteView, wantFormat uint16) (ByteView, bool, error) {
	if len(cmap) < 4 {
		return nil, false, errf("locate cmap subtable", CorruptFormat, "cmap table too short")
	}
	version, _ := cmap.u16(0)
	if version != 0 {
		return nil, false, errf("locate cmap subtable", UnsupportedTable, "cmap version %d", version)
	}
	numTables, _ := cmap.u16(2)
	if int(numTables)*8+4 > len(cmap) {
		return nil, false, errf("locate cmap subtable", CorruptFormat, "encoding record table overruns cmap")
	}
	for i := 0; i < int(numTables); i++ {
		rec := 4 + i*8
		offset, err := cmap.u32(rec + 4)
		if err != nil {
			return nil, false, errf("locate cmap subtable", CorruptFormat, "truncated encoding record %d: %w", i, err)
		}
		if int(offset)+4 > len(cmap) {
			return nil, false, errf("locate cmap subtable", CorruptFormat, "encoding record %d offset out of bounds", i)
		}
		format, _ := cmap.u16(int(offset))
		if format != wantFormat {
			continue
		}
		return cmap[offset:], true, nil
	}
	return nil, false, nil
}

// parseFmt4 decodes a format-4 cmap subtable (spec §4.1 step 8).
func parseFmt4(t ByteView, numGlyphs int) (*cmapResult, error) {
	const hdrSize = 14
	length, err := t.u16(2)
	if err != nil || int(length) > len(t) {
		return nil, errf("parse cmap fmt4", CorruptFormat, "bad format-4 length")
	}
	segCountX2, err := t.u16(6)
	if err != nil {
		return nil, errf("parse cmap fmt4", CorruptFormat, "truncated format-4 header")
	}
	segCount := int(segCountX2) / 2

	endCodeOff := hdrSize
	startCodeOff := endCodeOff + segCount*2 + 2 // +2 skips reservedPad
	idDeltaOff := startCodeOff + segCount*2
	idRangeOff := idDeltaOff + segCount*2
	glyphIDArrayOff := idRangeOff + segCount*2

	res := &cmapResult{}
	var pairs []struct{ code uint32; glyph uint16 }

	for i := 0; i < segCount; i++ {
		startCode, err := t.u16(startCodeOff + i*2)
		if err != nil {
			return nil, errf("parse cmap fmt4", CorruptFormat, "truncated segment %d", i)
		}
		endCode, _ := t.u16(endCodeOff + i*2)
		idDelta, _ := t.i16(idDeltaOff + i*2)
		idRangeOffset, _ := t.u16(idRangeOff + i*2)

		if i == segCount-1 && startCode != 0xFFFF {
			return nil, errf("parse cmap fmt4", CorruptFormat, "final segment missing sentinel")
		}
		if startCode == 0xFFFF {
			break
		}
		for code := uint32(startCode); code <= uint32(endCode); code++ {
			res.markRange(code)
			var glyph uint16
			if idRangeOffset == 0 {
				glyph = uint16(code + uint32(int32(idDelta)))
			} else {
				addrOff := idRangeOff + i*2 + int(idRangeOffset) + 2*int(code-uint32(startCode))
				g, err := t.u16(addrOff)
				if err != nil {
					return nil, errf("parse cmap fmt4", CorruptFormat, "glyphIdArray out of bounds: %w", err)
				}
				glyph = g
			}
			pairs = append(pairs, struct {
				code  uint32
				glyph uint16
			}{code, glyph})
		}
	}
	_ = glyphIDArrayOff

	res.codes = make([]uint32, 0, len(pairs))
	res.glyphs = make([]uint16, 0, len(pairs))
	for _, p := range pairs {
		if int(p.glyph) >= numGlyphs {
			return nil, errf("parse cmap fmt4", CorruptFormat, "glyph index %d out of range", p.glyph)
		}
		res.codes = append(res.codes, p.code)
		res.glyphs = append(res.glyphs, p.glyph)
	}
	return res, nil
}

// parseFmt12 decodes a format-12 cmap subtable (supplementary planes).
func parseFmt12(t ByteView, numGlyphs int) (*cmapResult, error) {
	const hdrSize = 16
	length, err := t.u32(4)
	if err != nil || int(length) > len(t) {
		return nil, errf("parse cmap fmt12", CorruptFormat, "bad format-12 length")
	}
	numGroups, err := t.u32(12)
	if err != nil {
		return nil, errf("parse cmap fmt12", CorruptFormat, "truncated format-12 header")
	}
	const groupSize = 12
	if uint64(len(t)-hdrSize) < uint64(numGroups)*groupSize {
		return nil, errf("parse cmap fmt12", CorruptFormat, "group array overruns subtable")
	}

	res := &cmapResult{}
	for i := uint32(0); i < numGroups; i++ {
		off := hdrSize + int(i)*groupSize
		startChar, _ := t.u32(off)
		endChar, _ := t.u32(off + 4)
		startGlyph, _ := t.u32(off + 8)
		if startChar > endChar {
			return nil, errf("parse cmap fmt12", CorruptFormat, "group %d has startChar > endChar", i)
		}
		for code := startChar; code <= endChar; code++ {
			res.markRange(code)
			glyph := startGlyph + (code - startChar)
			if int(glyph) >= numGlyphs {
				return nil, errf("parse cmap fmt12", CorruptFormat, "glyph index %d out of range", glyph)
			}
			res.codes = append(res.codes, code)
			res.glyphs = append(res.glyphs, uint16(glyph))
		}
	}
	return res, nil
}

// parseCmap prefers format 12 over format 4 (spec §4.1 step 8: "Prefer a
// format-12 subtable if present").
func parseCmap(cmap ByteView, numGlyphs int) (*cmapResult, error) {
	if sub, ok, err := locateSubtable(cmap, 12); err != nil {
		return nil, err
	} else if ok {
		return parseFmt12(sub, numGlyphs)
	}
	sub, ok, err := locateSubtable(cmap, 4)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errf("parse cmap", UnsupportedTable, "no format 4 or 12 subtable")
	}
	return parseFmt4(sub, numGlyphs)
}
