package sfnt

import (
	"bytes"
	"encoding/binary"
)

// buildMinimalTTF assembles a tiny, hand-built but wire-valid TTF containing
// two glyphs: an empty .notdef and a single-contour, 8-on-curve-point glyph
// mapped to 'A' (spec §8 scenario 1). It exercises the same directory /
// checksum / table layout a real font uses, in the teacher's style of
// hand-built byte fixtures (freetype/truetype/truetype_test.go).
func buildMinimalTTF() []byte {
	const unitsPerEm = 1000

	// --- glyf: glyph 0 is empty, glyph 1 is an 8-point convex octagon ---
	type pt struct{ x, y int16 }
	pts := []pt{
		{200, 0}, {400, 0}, {600, 200}, {600, 400},
		{400, 600}, {200, 600}, {0, 400}, {0, 200},
	}
	var glyf bytes.Buffer
	// glyph 0: .notdef, zero length, contributes nothing.
	glyph1Off := glyf.Len()
	be(&glyf, int16(1))   // numberOfContours
	be(&glyf, int16(0))   // xMin
	be(&glyf, int16(0))   // yMin
	be(&glyf, int16(600)) // xMax
	be(&glyf, int16(600)) // yMax
	be(&glyf, uint16(len(pts)-1)) // endPtsOfContours[0]
	be(&glyf, uint16(0))          // instructionLength
	for range pts {
		glyf.WriteByte(flagOnCurve) // on-curve, 2-byte x and y deltas
	}
	px, py := int16(0), int16(0)
	for _, p := range pts {
		be(&glyf, p.x-px)
		px = p.x
	}
	for _, p := range pts {
		be(&glyf, p.y-py)
		py = p.y
	}
	glyph1Len := glyf.Len() - glyph1Off

	// --- loca: short format, 3 entries (2 glyphs + 1 end marker) ---
	var loca bytes.Buffer
	be(&loca, uint16(0))
	be(&loca, uint16(0))
	be(&loca, uint16(glyph1Len/2))

	// --- cmap: format 4, one segment mapping 'A'(0x41) -> glyph 1 ---
	var fmt4 bytes.Buffer
	be(&fmt4, uint16(4))  // format
	be(&fmt4, uint16(32)) // length
	be(&fmt4, uint16(0))  // language
	be(&fmt4, uint16(4))  // segCountX2 (2 segments)
	be(&fmt4, uint16(0))  // searchRange (unused by this decoder)
	be(&fmt4, uint16(0))  // entrySelector
	be(&fmt4, uint16(0))  // rangeShift
	be(&fmt4, uint16(0x41))   // endCode[0]
	be(&fmt4, uint16(0xFFFF)) // endCode[1]
	be(&fmt4, uint16(0))      // reservedPad
	be(&fmt4, uint16(0x41))   // startCode[0]
	be(&fmt4, uint16(0xFFFF)) // startCode[1]
	be(&fmt4, int16(1-0x41))  // idDelta[0]: char2glyph = code + delta = 1
	be(&fmt4, int16(1))       // idDelta[1]
	be(&fmt4, uint16(0))      // idRangeOffset[0]
	be(&fmt4, uint16(0))      // idRangeOffset[1]

	var cmap bytes.Buffer
	be(&cmap, uint16(0)) // version
	be(&cmap, uint16(1)) // numTables
	be(&cmap, uint16(3)) // platformID (Windows)
	be(&cmap, uint16(1)) // encodingID (Unicode BMP)
	be(&cmap, uint32(12))
	cmap.Write(fmt4.Bytes())

	// --- name: one record, family="Test", mac-roman ---
	var name bytes.Buffer
	be(&name, uint16(0)) // format
	be(&name, uint16(1)) // count
	be(&name, uint16(18))
	be(&name, uint16(1)) // platformID mac
	be(&name, uint16(0)) // encodingID roman
	be(&name, uint16(0)) // languageID
	be(&name, uint16(1)) // nameID family
	be(&name, uint16(4)) // length
	be(&name, uint16(0)) // offset
	name.WriteString("Test")

	// --- hhea ---
	var hhea bytes.Buffer
	be(&hhea, uint32(0x00010000))
	be(&hhea, int16(800))  // ascender
	be(&hhea, int16(-200)) // descender
	be(&hhea, int16(0))    // lineGap
	be(&hhea, uint16(600)) // advanceWidthMax
	be(&hhea, int16(0))    // minLSideBearing
	be(&hhea, int16(0))    // minRSideBearing
	be(&hhea, int16(600))  // xMaxExtent
	be(&hhea, int16(1))    // caretSlopeRise
	be(&hhea, int16(0))    // caretSlopeRun
	be(&hhea, int16(0))    // caretOffset
	be(&hhea, uint64(0))   // 4 reserved int16s
	be(&hhea, int16(0))    // metricDataFormat
	be(&hhea, uint16(2))   // numberOfHMetrics

	// --- maxp ---
	var maxp bytes.Buffer
	be(&maxp, uint32(0x00010000))
	be(&maxp, uint16(2)) // numGlyphs
	maxp.Write(make([]byte, 26))

	// --- hmtx: 2 long metrics ---
	var hmtx bytes.Buffer
	be(&hmtx, uint16(0)) // glyph0 advance
	be(&hmtx, int16(0))  // glyph0 lsb
	be(&hmtx, uint16(600))
	be(&hmtx, int16(0))

	// --- OS/2 ---
	os2 := make([]byte, os2MinSize)
	binary.BigEndian.PutUint16(os2[4:], 400) // usWeightClass
	binary.BigEndian.PutUint16(os2[6:], 5)   // usWidthClass

	// --- head (checksumAdjustment patched below) ---
	var head bytes.Buffer
	be(&head, uint32(0x00010000)) // version
	be(&head, uint32(0))          // fontRevision
	be(&head, uint32(0))          // checksumAdjustment (placeholder)
	be(&head, uint32(headMagic))
	be(&head, uint16(0))          // flags
	be(&head, uint16(unitsPerEm)) // unitsPerEm
	be(&head, uint64(0))          // created
	be(&head, uint64(0))          // modified
	be(&head, int16(0))           // xMin
	be(&head, int16(0))           // yMin
	be(&head, int16(600))         // xMax
	be(&head, int16(600))         // yMax
	be(&head, uint16(0))          // macStyle
	be(&head, uint16(0))          // lowestRecPPEM
	be(&head, int16(2))           // fontDirectionHint
	be(&head, int16(0))           // indexToLocFormat (short)
	be(&head, int16(0))           // glyphDataFormat

	tables := []struct {
		tag  string
		data []byte
	}{
		{"cmap", cmap.Bytes()},
		{"glyf", glyf.Bytes()},
		{"head", head.Bytes()},
		{"hhea", hhea.Bytes()},
		{"hmtx", hmtx.Bytes()},
		{"loca", loca.Bytes()},
		{"maxp", maxp.Bytes()},
		{"name", name.Bytes()},
		{"OS/2", os2},
	}

	// pad every table to a 4-byte boundary so subsequent word-sums line up.
	for i := range tables {
		for len(tables[i].data)%4 != 0 {
			tables[i].data = append(tables[i].data, 0)
		}
	}

	numTables := len(tables)
	headerSize := 12 + 16*numTables
	offsets := make([]int, numTables)
	off := headerSize
	for i, t := range tables {
		offsets[i] = off
		off += len(t.data)
	}

	var file bytes.Buffer
	be(&file, uint32(sfntVersionTTF))
	be(&file, uint16(numTables))
	be(&file, uint16(0)) // searchRange
	be(&file, uint16(0)) // entrySelector
	be(&file, uint16(0)) // rangeShift
	for i, t := range tables {
		file.WriteString(t.tag)
		be(&file, checksum32(t.data))
		be(&file, uint32(offsets[i]))
		be(&file, uint32(len(t.data)))
	}
	for _, t := range tables {
		file.Write(t.data)
	}

	raw := file.Bytes()
	adjustment := uint32(0xB1B0AFBA) - checksum32(raw)
	binary.BigEndian.PutUint32(raw[offsets[indexOf(tables, "head")]+8:], adjustment)
	return raw
}

func indexOf(tables []struct {
	tag  string
	data []byte
}, tag string) int {
	for i, t := range tables {
		if t.tag == tag {
			return i
		}
	}
	return -1
}

func be(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.BigEndian, v)
}
