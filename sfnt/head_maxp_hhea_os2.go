package sfnt

// head holds the subset of the `head` table spec §4.1 step 4 needs.
type head struct {
	unitsPerEm        uint16
	indexToLocFormat  int16
	macStyle          uint16
	xMin, yMin        int16
	xMax, yMax        int16
}

const headMagic = 0x5F0F3CF5

func parseHead(t ByteView) (head, error) {
	var h head
	magic, err := t.u32(12)
	if err != nil {
		return h, errf("parse head", CorruptFormat, "truncated head table: %w", err)
	}
	if magic != headMagic {
		return h, errf("parse head", CorruptFormat, "bad magicNumber 0x%08X", magic)
	}
	unitsPerEm, err := t.u16(18)
	if err != nil {
		return h, errf("parse head", CorruptFormat, "truncated head table: %w", err)
	}
	xMin, _ := t.i16(36)
	yMin, _ := t.i16(38)
	xMax, _ := t.i16(40)
	yMax, _ := t.i16(42)
	macStyle, _ := t.u16(44)
	indexToLocFormat, err := t.i16(50)
	if err != nil {
		return h, errf("parse head", CorruptFormat, "truncated head table: %w", err)
	}
	if indexToLocFormat < 0 || indexToLocFormat > 1 {
		return h, errf("parse head", CorruptFormat, "bad indexToLocFormat %d", indexToLocFormat)
	}
	h = head{
		unitsPerEm:       unitsPerEm,
		indexToLocFormat: indexToLocFormat,
		macStyle:         macStyle,
		xMin:             xMin,
		yMin:             yMin,
		xMax:             xMax,
		yMax:             yMax,
	}
	return h, nil
}

func parseMaxp(t ByteView) (numGlyphs int, err error) {
	verMaj, err := t.u16(0)
	if err != nil {
		return 0, errf("parse maxp", CorruptFormat, "truncated maxp table: %w", err)
	}
	if verMaj > 1 {
		return 0, errf("parse maxp", UnsupportedTable, "maxp version %d", verMaj)
	}
	n, err := t.u16(4)
	if err != nil {
		return 0, errf("parse maxp", CorruptFormat, "truncated maxp table: %w", err)
	}
	return int(n), nil
}

// Hhea is the public, em-scaled subset of the `hhea` table (spec SPEC_FULL
// §3 supplement: Font carries the full hhea block, not just numberOfHMetrics).
type Hhea struct {
	Ascender         float32
	Descender        float32
	LineGap          float32
	AdvanceWidthMax  float32
	MinLSideBearing  float32
	MinRSideBearing  float32
	XMaxExtent       float32
	NumberOfHMetrics int
}

func parseHhea(t ByteView) (Hhea, error) {
	var h Hhea
	asc, err := t.i16(4)
	if err != nil {
		return h, errf("parse hhea", CorruptFormat, "truncated hhea table: %w", err)
	}
	desc, _ := t.i16(6)
	lineGap, _ := t.i16(8)
	advMax, _ := t.u16(10)
	minL, _ := t.i16(12)
	minR, _ := t.i16(14)
	xMaxExt, _ := t.i16(16)
	numH, err := t.u16(34)
	if err != nil {
		return h, errf("parse hhea", CorruptFormat, "truncated hhea table: %w", err)
	}
	h = Hhea{
		Ascender:         float32(asc),
		Descender:        float32(desc),
		LineGap:          float32(lineGap),
		AdvanceWidthMax:  float32(advMax),
		MinLSideBearing:  float32(minL),
		MinRSideBearing:  float32(minR),
		XMaxExtent:       float32(xMaxExt),
		NumberOfHMetrics: int(numH),
	}
	return h, nil
}

// OS2 is the public, em-scaled subset of the `OS/2` table.
type OS2 struct {
	WeightClass    uint16
	WidthClass     uint16
	FSType         uint16
	FSSelection    uint16
	XAvgCharWidth  float32
	YStrikeoutSize float32
	YStrikeoutPos  float32
	TypoAscender   float32
	TypoDescender  float32
	TypoLineGap    float32
	WinAscent      float32
	WinDescent     float32
}

const os2MinSize = 78

func parseOS2(t ByteView) (OS2, error) {
	var o OS2
	if len(t) < os2MinSize {
		return o, errf("parse os2", CorruptFormat, "OS/2 table too short (%d bytes)", len(t))
	}
	xAvg, _ := t.i16(2)
	weight, _ := t.u16(4)
	width, _ := t.u16(6)
	fsType, _ := t.u16(8)
	strikeSize, _ := t.i16(26)
	strikePos, _ := t.i16(28)
	fsSelection, _ := t.u16(62)
	typoAsc, _ := t.i16(68)
	typoDesc, _ := t.i16(70)
	typoGap, _ := t.i16(72)
	winAsc, _ := t.u16(74)
	winDesc, _ := t.u16(76)
	o = OS2{
		WeightClass:    weight,
		WidthClass:     width,
		FSType:         fsType,
		FSSelection:    fsSelection,
		XAvgCharWidth:  float32(xAvg),
		YStrikeoutSize: float32(strikeSize),
		YStrikeoutPos:  float32(strikePos),
		TypoAscender:   float32(typoAsc),
		TypoDescender:  float32(typoDesc),
		TypoLineGap:    float32(typoGap),
		WinAscent:      float32(winAsc),
		WinDescent:     float32(winDesc),
	}
	return o, nil
}

// MacStyle unpacks the head table's macStyle bitfield.
type MacStyle struct {
	Bold, Italic, Underline, Outline, Shadow, Condensed, Extended bool
}

func macStyleFrom(bits uint16) MacStyle {
	return MacStyle{
		Bold:      bits&1 != 0,
		Italic:    bits&2 != 0,
		Underline: bits&4 != 0,
		Outline:   bits&8 != 0,
		Shadow:    bits&16 != 0,
		Condensed: bits&32 != 0,
		Extended:  bits&64 != 0,
	}
}
