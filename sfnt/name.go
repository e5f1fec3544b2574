package sfnt

import (
	"golang.org/x/text/encoding/unicode"
)

// Names holds the decoded `name` table strings (name IDs 0-14 and 19),
// grounded on original_source/ttf2mesh.c's parse_name / namerec2ascii.
type Names struct {
	Copyright, Family, Subfamily, UniqueID   string
	FullName, Version, PSName, Trademark     string
	Manufacturer, Designer, Description      string
	URLVendor, URLDesigner                   string
	LicenseDesc, LicenseURL, SampleText      string
}

var utf16beDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// decodeNameRecord turns a raw name-table record payload into a Go string
// for the two platform/encoding pairs spec §4.1 step 6 recognizes; any
// other pair yields "". Unlike the source's lossy low-byte narrowing of
// UTF-16BE, platform=3/encoding=1 records are decoded properly via
// x/text/encoding/unicode (SPEC_FULL §9 Open Questions).
func decodeNameRecord(raw []byte, platformID, encodingID, languageID uint16) string {
	switch {
	case platformID == 1 && encodingID == 0:
		return string(raw)
	case platformID == 3 && encodingID == 1 && languageID == 0x0409:
		s, err := utf16beDecoder.String(string(raw))
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

func parseName(t ByteView) (Names, error) {
	var n Names
	format, err := t.u16(0)
	if err != nil {
		return n, errf("parse name", CorruptFormat, "truncated name table: %w", err)
	}
	if format != 0 && format != 1 {
		return n, errf("parse name", UnsupportedTable, "name table format %d", format)
	}
	count, err := t.u16(2)
	if err != nil {
		return n, errf("parse name", CorruptFormat, "truncated name table: %w", err)
	}
	stringOffset, err := t.u16(4)
	if err != nil {
		return n, errf("parse name", CorruptFormat, "truncated name table: %w", err)
	}

	const recordSize = 12
	if int(count)*recordSize+6 > len(t) {
		return n, errf("parse name", CorruptFormat, "name record table overruns table")
	}

	set := map[uint16]*string{
		0: &n.Copyright, 1: &n.Family, 2: &n.Subfamily, 3: &n.UniqueID,
		4: &n.FullName, 5: &n.Version, 6: &n.PSName, 7: &n.Trademark,
		8: &n.Manufacturer, 9: &n.Designer, 10: &n.Description,
		11: &n.URLVendor, 12: &n.URLDesigner, 13: &n.LicenseDesc,
		14: &n.LicenseURL, 19: &n.SampleText,
	}

	for i := 0; i < int(count); i++ {
		rec := 6 + i*recordSize
		platformID, _ := t.u16(rec + 0)
		encodingID, _ := t.u16(rec + 2)
		languageID, _ := t.u16(rec + 4)
		nameID, _ := t.u16(rec + 6)
		length, _ := t.u16(rec + 8)
		offset, _ := t.u16(rec + 10)

		dest, want := set[nameID]
		if !want || *dest != "" {
			continue
		}
		start := int(stringOffset) + int(offset)
		payload, err := t.slice(start, int(length))
		if err != nil {
			return n, errf("parse name", CorruptFormat, "name record %d string out of bounds: %w", i, err)
		}
		*dest = decodeNameRecord(payload, platformID, encodingID, languageID)
	}
	return n, nil
}
