/*
 * shells.go, part of gocryst.
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

package histo

import (
	"fmt"
	"math"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/rstat"
)

//Indexed is a set of reflection rows that knows the Miller index of each row,
//such as a *cryst.Table or a *cryst.MergedTable.
type Indexed interface {
	cryst.Rows
	Indices() []cryst.Miller
}

//Shell contains the R factors of the reflections with Low <= sin(theta)/lambda < High.
type Shell struct {
	Low, High float64
	rstat.RFactors
}

func (S Shell) String() string {
	return fmt.Sprintf("%5.3f-%5.3f %s", S.Low, S.High, S.RFactors.String())
}

//EqualVolumeDividers returns the limits of n resolution shells from 0 to maxstl
//(in sin(theta)/lambda), such that all the shells have the same volume in reciprocal space.
//A small margin is added to the last limit, so reflections at exactly maxstl are included.
func EqualVolumeDividers(maxstl float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	ret := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		ret[i] = maxstl * math.Cbrt(float64(i)/float64(n))
	}
	ret[n] *= 1 + 1e-9
	return ret
}

//MaxSinThetaOverLambda returns the largest sin(theta)/lambda among the given indices.
func MaxSinThetaOverLambda(indices []cryst.Miller, R *cryst.Resolver) float64 {
	var max float64
	for _, h := range indices {
		max = math.Max(max, R.SinThetaOverLambda(h))
	}
	return max
}

//Resolution returns a histogram of the sin(theta)/lambda values of the indices.
func Resolution(indices []cryst.Miller, R *cryst.Resolver, dividers []float64) *Data {
	s := make([]float64, len(indices))
	for i, h := range indices {
		s[i] = R.SinThetaOverLambda(h)
	}
	return NewData(dividers, s)
}

//IOverSigma returns a histogram of the Io/Isigma ratios of the rows.
//Rows without intensities give an empty histogram.
func IOverSigma(rows cryst.Rows, dividers []float64) *Data {
	D := NewData(dividers, nil)
	if !rows.HasIntensities() {
		return D
	}
	s := make([]float64, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		r := rows.Row(i)
		s = append(s, r.Io/r.Isigma)
	}
	D.ReHisto(D.dividers, s)
	return D
}

//Shells splits the reflections in resolution shells given by dividers (in sin(theta)/lambda)
//and returns the R factors of each shell. Reflections outside the dividers are ignored.
//Empty shells are reported, with undefined (NaN) R factors.
func Shells(T Indexed, R *cryst.Resolver, dividers []float64, O *rstat.Options) []Shell {
	if len(dividers) < 2 {
		panic("goCryst/histo.Shells: at least 2 dividers are needed")
	}
	idx := T.Indices()
	bins := make([]int, len(idx))
	for i, h := range idx {
		bins[i] = bin(dividers, R.SinThetaOverLambda(h))
	}
	ret := make([]Shell, len(dividers)-1)
	for j := range ret {
		j := j
		sel := rstat.Select(T, func(i int) bool { return bins[i] == j })
		ret[j] = Shell{Low: dividers[j], High: dividers[j+1], RFactors: rstat.Calc(sel, O)}
	}
	return ret
}
