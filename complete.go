/*
 * complete.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package cryst

// ExpandEquivalents returns the set of all the images of the given indices under the operations,
// the identity included.
func ExpandEquivalents(indices []Miller, ops []SymOp) map[Miller]struct{} {
	ops = withIdentity(ops, "ExpandEquivalents")
	ret := make(map[Miller]struct{}, len(indices)*len(ops))
	for _, h := range indices {
		for _, op := range ops {
			ret[op.Apply(h)] = struct{}{}
		}
	}
	return ret
}

// Cuboid returns all the indices with |h|,|k|,|l| <= hmax.
func Cuboid(hmax int) []Miller {
	if hmax < 0 {
		return nil
	}
	side := 2*hmax + 1
	ret := make([]Miller, 0, side*side*side)
	for h := -hmax; h <= hmax; h++ {
		for k := -hmax; k <= hmax; k++ {
			for l := -hmax; l <= hmax; l++ {
				ret = append(ret, Miller{h, k, l})
			}
		}
	}
	return ret
}

// CompletenessMargin is added to the largest index found when building the full set of reflections.
const CompletenessMargin = 5

// Completeness returns the number of different indices obtained by applying the operations to
// the given indices, and the number of indices in the cuboid that contains them, that is,
// |h|,|k|,|l| <= max|index| + CompletenessMargin. Systematic absences are not considered, and
// no resolution limit is applied.
func Completeness(indices []Miller, ops []SymOp) (found, total int) {
	hmax := 0
	for _, h := range indices {
		for _, v := range h {
			if v < 0 {
				v = -v
			}
			if v > hmax {
				hmax = v
			}
		}
	}
	if len(indices) == 0 {
		return 0, 0
	}
	hmax += CompletenessMargin
	side := 2*hmax + 1
	return len(ExpandEquivalents(indices, ops)), side * side * side
}

// CompletenessWithin is like Completeness, but only counts the indices with 0 < d* <= gmax,
// gmax in 1/A, as given by the snlmx key of the M50 file (see Setup.GMax).
func CompletenessWithin(indices []Miller, ops []SymOp, R *Resolver, gmax float64) (found, total int) {
	g2 := gmax * gmax
	inside := func(h Miller) bool {
		d := R.DStar2(h)
		return d > 0 && d <= g2
	}
	hmax := 0
	for h := range ExpandEquivalents(indices, ops) {
		if !inside(h) {
			continue
		}
		found++
		for _, v := range h {
			if v < 0 {
				v = -v
			}
			if v > hmax {
				hmax = v
			}
		}
	}
	if found == 0 {
		return 0, 0
	}
	for _, h := range Cuboid(hmax + CompletenessMargin) {
		if inside(h) {
			total++
		}
	}
	return found, total
}
