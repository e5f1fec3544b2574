package sfnt

const sfntVersionTTF = 0x00010000

// requiredTables lists the nine tables the decoder must find (spec §4.1
// step 3); ttf2mesh.c's ttf_extract_tables extracts exactly this set.
var requiredTables = [...]string{
	"head", "maxp", "OS/2", "hhea", "hmtx", "name", "cmap", "loca", "glyf",
}

// tableIndex enumerates the sfnt table directory and exposes each required
// table as a bounds-checked ByteView, grounded on freetype/truetype.go's
// Parse()/readTable() pair.
type tableIndex struct {
	data   ByteView
	tables map[string]ByteView
}

// readTableIndex validates the file checksum (step 1), the directory header
// and per-entry bounds (step 2), and collects the required tables (step 3).
func readTableIndex(data []byte) (*tableIndex, error) {
	view := ByteView(data)

	if checksum32(view) != 0xB1B0AFBA {
		return nil, errf("read table index", CorruptChecksum, "file checksum mismatch")
	}

	version, err := view.u32(0)
	if err != nil {
		return nil, errf("read table index", CorruptFormat, "truncated offset table: %w", err)
	}
	if version != sfntVersionTTF {
		return nil, errf("read table index", UnsupportedVersion, "sfntVersion 0x%08X", version)
	}
	numTables, err := view.u16(4)
	if err != nil {
		return nil, errf("read table index", CorruptFormat, "truncated offset table: %w", err)
	}

	idx := &tableIndex{data: view, tables: make(map[string]ByteView, numTables)}

	const dirEntry = 16
	base := 12
	for i := 0; i < int(numTables); i++ {
		entryOff := base + i*dirEntry
		tag, err := view.tag(entryOff)
		if err != nil {
			return nil, errf("read table index", CorruptFormat, "truncated table record %d: %w", i, err)
		}
		csum, err := view.u32(entryOff + 4)
		if err != nil {
			return nil, errf("read table index", CorruptFormat, "truncated table record %d: %w", i, err)
		}
		offset, err := view.u32(entryOff + 8)
		if err != nil {
			return nil, errf("read table index", CorruptFormat, "truncated table record %d: %w", i, err)
		}
		length, err := view.u32(entryOff + 12)
		if err != nil {
			return nil, errf("read table index", CorruptFormat, "truncated table record %d: %w", i, err)
		}
		table, err := view.slice(int(offset), int(length))
		if err != nil {
			return nil, errf("read table index", CorruptFormat, "table %q out of bounds: %w", tag, err)
		}
		if tag == "head" {
			// Only head's checksum is enforced; others are tolerated for
			// compatibility with common faulty producers (spec §4.1 step 2).
			// The stored head checksum is taken with checkSumAdjustment
			// (offset 8) as zero, so that word is subtracted back out.
			adj, _ := table.u32(8)
			if checksum32(table)-adj != csum {
				return nil, errf("read table index", CorruptChecksum, "head table checksum mismatch")
			}
		}
		idx.tables[tag] = table
	}

	for _, name := range requiredTables {
		if _, ok := idx.tables[name]; !ok {
			return nil, errf("read table index", MissingTable, "missing %q table", name)
		}
	}
	return idx, nil
}

func (idx *tableIndex) table(name string) ByteView { return idx.tables[name] }
