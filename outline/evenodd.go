package outline

import "github.com/fetisov/ttf2mesh/sfnt"

// evenOddBase casts a horizontal ray from point toward -x and counts the
// crossings against one contour that lie at or to the left of the point
// (dx = px - crossing x >= 0), also reporting the smallest such dx — used
// both by the public even-odd test and by hole/parent discovery (spec
// §4.3, grounded on original_source/ttf2mesh.c's ttf_outline_evenodd_base).
func evenOddBase(contour []sfnt.Point, px, py float32) (count int, closestDx float32) {
	n := len(contour)
	if n == 0 {
		return 0, 0
	}
	prev := contour[n-1]
	first := true
	for i := 0; i < n; i++ {
		cur := contour[i]
		var upper, lower sfnt.Point
		if cur.Y > prev.Y {
			upper, lower = cur, prev
		} else {
			upper, lower = prev, cur
		}
		if py <= upper.Y && py > lower.Y && (px >= upper.X || px >= lower.X) {
			dy := upper.Y - lower.Y
			if absF(dy) > epsilon32 {
				dx := px - (py-lower.Y)/dy*(upper.X-lower.X) - lower.X
				if dx >= 0 {
					if first || dx < closestDx {
						closestDx = dx
					}
					count++
					first = false
				}
			}
		}
		prev = cur
	}
	return count, closestDx
}

const epsilon32 = float32(1e-7)

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Contains is the even-odd point-in-polygon test over every contour of o
// matching subglyphOrder (or all contours, if subglyphOrder < 0). Spec
// §6's `outline_contains`.
func Contains(o *sfnt.Outline, px, py float32, subglyphOrder int) bool {
	total := 0
	for _, c := range o.Contours {
		if subglyphOrder >= 0 && c.SubglyphOrder != subglyphOrder {
			continue
		}
		n, _ := evenOddBase(c.Points, px, py)
		total += n
	}
	return total%2 == 1
}

// ContourInfo reports whether contour index `contour` is a hole (an odd
// number of sibling-contour crossings against its samplePoint-th vertex)
// and, if so, the index of its immediately enclosing parent (the sibling
// contour with the smallest positive crossing distance). Spec §6's
// `outline_contour_info`.
func ContourInfo(o *sfnt.Outline, subglyphOrder, contour, samplePoint int) (isHole bool, nestedTo int) {
	count := 0
	nestedTo = -1
	var closest float32
	sample := o.Contours[contour].Points[samplePoint]
	for i, c := range o.Contours {
		if i == contour {
			continue
		}
		if subglyphOrder >= 0 && c.SubglyphOrder != subglyphOrder {
			continue
		}
		n, dx := evenOddBase(c.Points, sample.X, sample.Y)
		count += n
		if n%2 == 0 {
			continue
		}
		if nestedTo == -1 || dx < closest {
			closest, nestedTo = dx, i
		}
	}
	// An odd number of sibling crossings means the sample sits inside an
	// odd number of enclosing contours, i.e. it is a hole (original_source
	// ttf2mesh.h's raw helper returns the opposite sense — "not a hole" —
	// and its caller negates it; this already returns the isHole sense).
	return count%2 == 1, nestedTo
}

// MajorityContourInfo is ContourInfo robustified against tangential ray
// casts: it samples three vertices of the contour (indices 0, L/3, 2L/3)
// and takes a majority vote on is-hole and on the chosen parent (spec §4.3).
func MajorityContourInfo(o *sfnt.Outline, subglyphOrder, contour int) (isHole bool, nestedTo int) {
	length := len(o.Contours[contour].Points)
	if length == 0 {
		return false, -1
	}
	samples := [3]int{0, length / 3, (2 * length) / 3}

	holeVotes := 0
	parentVotes := map[int]int{}
	for _, s := range samples {
		hole, parent := ContourInfo(o, subglyphOrder, contour, s)
		if hole {
			holeVotes++
		}
		parentVotes[parent]++
	}

	isHole = holeVotes >= 2
	best, bestVotes := -1, -1
	for p, v := range parentVotes {
		if v > bestVotes {
			best, bestVotes = p, v
		}
	}
	return isHole, best
}
