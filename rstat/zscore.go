/*
 * zscore.go, part of gocryst.
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
	"math"

	cryst "github.com/rmera/gocryst"
)

/*
The z-score compares two refinements against the same data, typically the two enantiomorphs
of a structure (Klar et al., Nat. Chem. 15, 848-855 (2023), "Absolute structure determination").
For each reflection we check which of the two models gives the smaller |Io-Ic|. If the models
were equally good, the number k of reflections better fitted by the first one would follow a
binomial distribution with mean N/2 and standard deviation sqrt(N)/2.
*/

// ZResult is the outcome of a comparison between two refinements. Z > 0 and a large P mean
// that the first refinement is favored. P is Phi(Z), the standard normal cumulative
// distribution. W is only set by WeightedZScore.
type ZResult struct {
	Z float64
	P float64
	N int
	K int
	W float64
}

func (Z ZResult) String() string {
	return fmt.Sprintf("N %d k %d N-k %d z %.1f p %.1f%%", Z.N, Z.K, Z.N-Z.K, Z.Z, 100*Z.P)
}

// Phi returns the standard normal cumulative distribution at z.
func Phi(z float64) float64 {
	return 0.5 + 0.5*math.Erf(z/math.Sqrt2)
}

// CheckAligned returns an error wrapping cryst.ErrIncompatible unless both tables have the same
// reflections with the same observed intensities, row by row. The z-score routines assume this
// and don't check it themselves.
func CheckAligned(a, b *cryst.Table) error {
	if a.Len() != b.Len() {
		return cryst.NewFileError(cryst.ErrIncompatible, fmt.Sprintf("%d vs %d reflections", a.Len(), b.Len()), b.Name, 0, "CheckAligned")
	}
	for i := range a.Refl {
		if a.Refl[i].H != b.Refl[i].H || a.Refl[i].Io != b.Refl[i].Io {
			return cryst.NewFileError(cryst.ErrIncompatible, fmt.Sprintf("reflection %d differs: %v Io %g vs %v Io %g", i+1, a.Refl[i].H, a.Refl[i].Io, b.Refl[i].H, b.Refl[i].Io), b.Name, 0, "CheckAligned")
		}
	}
	return nil
}

func countBetter(a, b *cryst.Table, sel Selector) (n, k int) {
	if a.Len() != b.Len() {
		panic("goCryst/rstat: the compared tables have different lengths. Use CheckAligned before comparing")
	}
	for i := range a.Refl {
		if sel != nil && !sel(i) {
			continue
		}
		n++
		if math.Abs(a.Refl[i].Io-a.Refl[i].Ic) < math.Abs(b.Refl[i].Io-b.Refl[i].Ic) {
			k++
		}
	}
	return n, k
}

// ZScore compares the refinements a and b over the reflections selected by sel (all if sel
// is nil). k is the number of reflections for which a gives a strictly smaller |Io-Ic| than b,
// and z = (k-N/2)/(sqrt(N)/2). The uncertainties of Io are not used. With no reflections
// selected, Z and P are NaN.
func ZScore(a, b *cryst.Table, sel Selector) ZResult {
	n, k := countBetter(a, b, sel)
	if n == 0 {
		return ZResult{Z: math.NaN(), P: math.NaN()}
	}
	N := float64(n)
	z := (float64(k) - N/2) / (math.Sqrt(N) / 2)
	return ZResult{Z: z, P: Phi(z), N: n, K: k}
}

// WeightedZScore is like ZScore, but it discounts reflections for which the two models can't
// be told apart given the uncertainty of Io. For each reflection,
// w_i = 0.5 - 0.5*erf(|dI1-dI2|/(2*Isigma1*sqrt(2))), where dI = Io-Ic, and
// z = (k-N/2)/(sqrt(N-w)/2), w = sum(w_i).
// This correction is experimental and has not been validated for limiting cases; ZScore
// is the reference method.
func WeightedZScore(a, b *cryst.Table, sel Selector) ZResult {
	n, k := countBetter(a, b, sel)
	if n == 0 {
		return ZResult{Z: math.NaN(), P: math.NaN()}
	}
	var w float64
	for i := range a.Refl {
		if sel != nil && !sel(i) {
			continue
		}
		ra, rb := &a.Refl[i], &b.Refl[i]
		x := math.Abs((ra.Io-ra.Ic)-(rb.Io-rb.Ic)) / (2 * ra.Isigma)
		w += 0.5 - 0.5*math.Erf(x/math.Sqrt2)
	}
	N := float64(n)
	z := (float64(k) - N/2) / (math.Sqrt(N-w) / 2)
	return ZResult{Z: z, P: Phi(z), N: n, K: k, W: w}
}

// BlockSelector selects the reflections of T that belong to the given data block.
func BlockSelector(T *cryst.Table, block int) Selector {
	return func(i int) bool { return T.Refl[i].Block == block }
}

// FrameSelector selects the reflections of T that belong to the given block and frame.
func FrameSelector(T *cryst.Table, block, frame int) Selector {
	return func(i int) bool { return T.Refl[i].Block == block && T.Refl[i].Frame == frame }
}

// BlockComparison is one line of the comparison between two refinements. Combined is true
// for the line that covers all the blocks.
type BlockComparison struct {
	ZResult
	Block    int
	Combined bool
	Rall1    float64
	Rall2    float64
}

// CompareBlocks compares the refinements a and b for each data block and, if there is more
// than one block, for all of them together. If weighted is true, WeightedZScore is used.
// The tables must be aligned (see CheckAligned).
func CompareBlocks(a, b *cryst.Table, weighted bool) []BlockComparison {
	score := ZScore
	if weighted {
		score = WeightedZScore
	}
	blocks := a.Blocks()
	ret := make([]BlockComparison, 0, len(blocks)+1)
	for _, bl := range blocks {
		sel := BlockSelector(a, bl)
		ret = append(ret, BlockComparison{ZResult: score(a, b, sel), Block: bl, Rall1: Rall(a, sel), Rall2: Rall(b, sel)})
	}
	if len(blocks) > 1 {
		ret = append(ret, BlockComparison{ZResult: score(a, b, nil), Combined: true, Rall1: Rall(a, nil), Rall2: Rall(b, nil)})
	}
	return ret
}
