/*
 * rfactors.go, part of gocryst.
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
	"fmt"
	"log"
	"math"

	cryst "github.com/rmera/gocryst"
)

// RFactors contains the agreement indices of a set of reflections. Values that can't be
// calculated are NaN. Nobs is -1 when the observed reflections can't be told apart (no
// intensities). ClampedIWeights counts the intensity weights that were infinite (Io = 0)
// and were set to zero before the sums.
type RFactors struct {
	Robs            float64
	Rall            float64
	WRall           float64
	WR2all          float64
	WRobs           float64
	WR2obs          float64
	Nobs            int
	Nall            int
	ClampedIWeights int
}

// ObsDefined returns true if the observed subset could be determined.
func (R RFactors) ObsDefined() bool {
	return R.Nobs >= 0
}

// String returns the R factors in percent.
func (R RFactors) String() string {
	return fmt.Sprintf("Robs %6.2f Rall %6.2f wRobs %6.2f wRall %6.2f wR2obs %6.2f wR2all %6.2f Nobs %d Nall %d",
		100*R.Robs, 100*R.Rall, 100*R.WRobs, 100*R.WRall, 100*R.WR2obs, 100*R.WR2all, R.Nobs, R.Nall)
}

// sums accumulates the numerators and denominators of the R factors.
type sums struct {
	dF, f   float64 //sum|Fo-Fc|, sum|Fo|
	wdF, wf float64 //sum (w(Fo-Fc))^2, sum (wFo)^2
	wdI, wi float64 //the same with intensities
	n       int
}

func (s *sums) add(r cryst.Row, fw, iw float64) {
	s.n++
	s.dF += math.Abs(r.Fo - r.Fc)
	s.f += math.Abs(r.Fo)
	t := fw * (r.Fo - r.Fc)
	s.wdF += t * t
	t = fw * r.Fo
	s.wf += t * t
	t = iw * (r.Io - r.Ic)
	s.wdI += t * t
	t = iw * r.Io
	s.wi += t * t
}

// Calc calculates the R factors of the given reflections. The observed reflections are
// those with Io > O.ObservedSigma*Isigma. If O is nil, DefaultOptions is used.
// Missing data never produces an error, it gives NaN values instead:
// without intensities, everything but Rall and (if the weights can be obtained) wRall is NaN.
func Calc(rows cryst.Rows, O *Options) RFactors {
	if O == nil {
		O = DefaultOptions()
	}
	hasI := rows.HasIntensities()
	weights := O.Weights
	if weights.kind == weightsProvided && !rows.HasWeights() {
		log.Printf("goCryst/rstat.Calc: weights requested from the data, but the data has none. Weighted R factors will not be calculated")
		weights = Unavailable()
	}
	var all, obs sums
	ret := RFactors{Nall: rows.Len(), Nobs: -1}
	nan := math.NaN()
	for i := 0; i < rows.Len(); i++ {
		r := rows.Row(i)
		fw, iw := nan, nan
		switch weights.kind {
		case weightsDerived:
			fw = cryst.FWeight(r.Fsigma, r.Fo, weights.instability)
			if hasI {
				iw = cryst.IWeight(r.Fsigma, r.Fo, r.Io, weights.instability)
			}
		case weightsProvided:
			fw = r.Fweight
			if hasI {
				iw = r.Fweight / (2 * math.Sqrt(math.Abs(r.Io)))
			}
		}
		if math.IsInf(iw, 0) {
			iw = 0
			ret.ClampedIWeights++
		}
		all.add(r, fw, iw)
		if hasI && cryst.Observed(r.Io, r.Isigma, O.ObservedSigma) {
			obs.add(r, fw, iw)
		}
	}
	ret.Rall = all.dF / all.f
	ret.WRall = math.Sqrt(all.wdF / all.wf)
	ret.WR2all = math.Sqrt(all.wdI / all.wi)
	if !hasI {
		ret.Robs, ret.WRobs, ret.WR2obs = nan, nan, nan
		return ret
	}
	ret.Nobs = obs.n
	ret.Robs = obs.dF / obs.f
	ret.WRobs = math.Sqrt(obs.wdF / obs.wf)
	ret.WR2obs = math.Sqrt(obs.wdI / obs.wi)
	return ret
}

// Rall returns sum|Fo-Fc|/sum|Fo| over the reflections selected by sel (all of them
// if sel is nil). It is NaN if nothing is selected.
func Rall(rows cryst.Rows, sel Selector) float64 {
	var d, f float64
	n := 0
	for i := 0; i < rows.Len(); i++ {
		if sel != nil && !sel(i) {
			continue
		}
		r := rows.Row(i)
		d += math.Abs(r.Fo - r.Fc)
		f += math.Abs(r.Fo)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return d / f
}

// Selector selects the i-th row of a table. A nil Selector selects everything.
type Selector func(i int) bool

// Subset is a view of some of the rows of a table. It implements cryst.Rows.
type Subset struct {
	rows cryst.Rows
	idx  []int
}

// Select returns a view with the rows selected by sel.
func Select(rows cryst.Rows, sel Selector) *Subset {
	S := &Subset{rows: rows}
	for i := 0; i < rows.Len(); i++ {
		if sel == nil || sel(i) {
			S.idx = append(S.idx, i)
		}
	}
	return S
}

// Len returns the number of selected rows
func (S *Subset) Len() int { return len(S.idx) }

// Row returns the i-th selected row.
func (S *Subset) Row(i int) cryst.Row { return S.rows.Row(S.idx[i]) }

// HasIntensities returns the value of the underlying table.
func (S *Subset) HasIntensities() bool { return S.rows.HasIntensities() }

// HasWeights returns the value of the underlying table.
func (S *Subset) HasWeights() bool { return S.rows.HasWeights() }

// Amplitudes is a table with only amplitudes, as obtained from programs that don't
// write intensities. Only Fo, Fc, Fsigma and, if Weighted is true, Fweight are used.
type Amplitudes struct {
	Rows     []cryst.Row
	Weighted bool
}

// Len returns the number of rows
func (A *Amplitudes) Len() int { return len(A.Rows) }

// Row returns the i-th row.
func (A *Amplitudes) Row(i int) cryst.Row { return A.Rows[i] }

// HasIntensities is always false.
func (A *Amplitudes) HasIntensities() bool { return false }

// HasWeights returns A.Weighted
func (A *Amplitudes) HasWeights() bool { return A.Weighted }
