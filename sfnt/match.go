package sfnt

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Requirement is one parsed letter of a font_match pattern (spec §4.1
// `match_font`), grounded on original_source/ttf2mesh.c's font_matching_metric.
type Requirement struct {
	Letter byte // one of b,i,h,o,r,w,f,t (case-insensitive)
	Exact  bool // '!' suffix: score below 3 disqualifies the candidate
	Arg    string
}

// ParseRequirements splits a match_font pattern string ("b!f") into its
// per-letter Requirements, consuming one positional arg per letter that
// takes one (w, f, t), in order.
func ParseRequirements(pattern string, args ...string) []Requirement {
	var reqs []Requirement
	argi := 0
	for i := 0; i < len(pattern); i++ {
		letter := pattern[i]
		exact := i+1 < len(pattern) && pattern[i+1] == '!'
		if exact {
			i++
		}
		r := Requirement{Letter: lower(letter), Exact: exact}
		switch r.Letter {
		case 'w', 'f', 't':
			if argi < len(args) {
				r.Arg = args[argi]
				argi++
			}
		}
		reqs = append(reqs, r)
	}
	return reqs
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// scoreOne returns a {0,1,2,3} score for one requirement against font f.
func scoreOne(f *Font, r Requirement) int {
	switch r.Letter {
	case 'b':
		return boolScore(f.MacStyle.Bold || strings.Contains(strings.ToLower(f.Names.Subfamily), "bold"))
	case 'i':
		return boolScore(f.MacStyle.Italic || strings.Contains(strings.ToLower(f.Names.Subfamily), "italic"))
	case 'h':
		return boolScore(f.MacStyle.Outline)
	case 'o':
		const (
			fsItalic  = 1 << 0
			fsOblique = 1 << 8
		)
		switch {
		case f.OS2.FSSelection&fsOblique != 0:
			return 3
		case f.OS2.FSSelection&fsItalic != 0:
			return 2
		default:
			return 0
		}
	case 'r':
		return boolScore(!f.MacStyle.Bold && !f.MacStyle.Italic)
	case 'w':
		want, err := strconv.Atoi(r.Arg)
		if err != nil {
			return 0
		}
		delta := want - int(f.OS2.WeightClass)
		if delta < 0 {
			delta = -delta
		}
		d := delta / 100
		if d > 3 {
			return 0
		}
		return 3 - d
	case 'f':
		return familyScore(f.Names.Family, r.Arg)
	case 't':
		return coverageScore(f, r.Arg)
	default:
		return 0
	}
}

func boolScore(b bool) int {
	if b {
		return 3
	}
	return 0
}

func familyScore(family, want string) int {
	a, b := strings.ToLower(family), strings.ToLower(want)
	switch {
	case a == b:
		return 3
	case strings.HasPrefix(a, b+" "):
		return 2
	case strings.HasPrefix(b, a+" "):
		return 1
	default:
		return 0
	}
}

// coverageScore implements the "t" requirement: decode arg as a UTF-16
// string of code points and check what fraction lie in a Unicode block the
// font's cmap touched.
func coverageScore(f *Font, arg string) int {
	units := make([]uint16, 0, len(arg))
	for _, r := range arg {
		units = append(units, utf16.Encode([]rune{r})...)
	}
	runes := utf16.Decode(units)
	if len(runes) == 0 {
		return 0
	}
	covered := 0
	for _, r := range runes {
		if idx := findUBRange(uint32(r)); idx >= 0 && f.coversRange(idx) {
			covered++
		}
	}
	frac := float64(covered) / float64(len(runes))
	switch {
	case frac >= 1.0:
		return 3
	case frac > 2.0/3.0:
		return 2
	case frac >= 0.5:
		return 1
	default:
		return 0
	}
}

// MatchFont scores every candidate in list against the parsed requirements
// with a base-4 concatenation of per-requirement scores, returning the
// index of the best match or -1 if none qualifies (spec §4.1, scenario 6).
func MatchFont(list []*Font, reqs []Requirement) int {
	best, bestScore := -1, -1
	for i, f := range list {
		total := 0
		disqualified := false
		for _, r := range reqs {
			s := scoreOne(f, r)
			if r.Exact && s < 3 {
				disqualified = true
				break
			}
			total = total*4 + s
		}
		if disqualified {
			continue
		}
		if total > bestScore {
			bestScore, best = total, i
		}
	}
	return best
}
