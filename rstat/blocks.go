/*
 * blocks.go, part of gocryst.
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

package rstat

import (
	"math"

	cryst "github.com/rmera/gocryst"
)

// BlockFactors are the R factors of one data block, or of one frame within a block if
// Frame is not 0.
type BlockFactors struct {
	RFactors
	Block int
	Frame int
}

// ByBlock returns the R factors of each data block of T.
func ByBlock(T *cryst.Table, O *Options) []BlockFactors {
	blocks := T.Blocks()
	ret := make([]BlockFactors, 0, len(blocks))
	for _, b := range blocks {
		ret = append(ret, BlockFactors{RFactors: Calc(Select(T, BlockSelector(T, b)), O), Block: b})
	}
	return ret
}

// ByFrame returns the R factors of each frame of each data block of T. Frames with no
// reflections are not reported.
func ByFrame(T *cryst.Table, O *Options) []BlockFactors {
	ret := make([]BlockFactors, 0, 10)
	for _, b := range T.Blocks() {
		for _, f := range T.Frames() {
			S := Select(T, FrameSelector(T, b, f))
			if S.Len() == 0 {
				continue
			}
			ret = append(ret, BlockFactors{RFactors: Calc(S, O), Block: b, Frame: f})
		}
	}
	return ret
}

// ListingObservedSigma is the Fo/Fsigma ratio over which the refinement program counts a
// reflection as observed.
const ListingObservedSigma = 6.0

// ListingFactors returns the R factors the way the refinement program computes them from its
// own listing: observed reflections are those with Fo > 6*Fsigma, and wRall is obtained from
// the printed w(Fo-Fc) and 1/weight columns. Only Robs, Rall, WRall, Nobs and Nall are set,
// the rest are NaN. Since the listing columns are rounded, the values are approximate.
func ListingFactors(T *cryst.Table) RFactors {
	nan := math.NaN()
	ret := RFactors{Robs: nan, Rall: nan, WRall: nan, WRobs: nan, WR2obs: nan, WR2all: nan, Nall: T.Len()}
	var all, obs sums
	var wd2, wf2 float64
	for _, r := range T.Refl {
		row := cryst.Row{Fo: r.Fo, Fc: r.Fc}
		all.add(row, 0, 0)
		if r.Fo > ListingObservedSigma*r.Fsigma {
			obs.add(row, 0, 0)
		}
		wd2 += r.WDF * r.WDF
		if r.InvWeight != 0 {
			t := r.Fo / r.InvWeight
			wf2 += t * t
		}
	}
	ret.Nobs = obs.n
	if all.n == 0 {
		return ret
	}
	ret.Rall = all.dF / all.f
	ret.Robs = obs.dF / obs.f
	ret.WRall = math.Sqrt(wd2 / wf2)
	return ret
}
