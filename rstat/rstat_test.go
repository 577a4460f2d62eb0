/*
 * rstat_test.go, part of gocryst.
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
	"errors"
	"math"
	"testing"

	cryst "github.com/rmera/gocryst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inst = cryst.DefaultInstability

func refl(h, k, l int, ic, io, isigma float64) cryst.Reflection {
	return cryst.NewReflection(cryst.Miller{h, k, l}, ic, io, isigma, inst)
}

func table(rows ...cryst.Reflection) *cryst.Table {
	return &cryst.Table{Name: "test", Instability: inst, Refl: rows}
}

func TestPerfectFit(Te *testing.T) {
	T := table(
		refl(1, 0, 0, 10, 10, 0.5),
		refl(0, 2, 0, 3, 3, 0.2),
		refl(1, 1, 1, 0.5, 0.5, 0.4),
	)
	R := Calc(T, nil)
	assert.Equal(Te, 0.0, R.Robs)
	assert.Equal(Te, 0.0, R.Rall)
	assert.Equal(Te, 0.0, R.WRall)
	assert.Equal(Te, 0.0, R.WR2all)
	assert.Equal(Te, 3, R.Nall)
	//0.5 < 3*0.4
	assert.Equal(Te, 2, R.Nobs)
	assert.True(Te, R.ObsDefined())
}

func TestThreeReflections(Te *testing.T) {
	T := table(
		refl(1, 0, 0, 4, 4.41, 0.1),
		refl(0, 1, 0, 4, 4.41, 0.1),
		refl(1, 1, 0, 1, 1.0, 0.2),
	)
	ops := []cryst.SymOp{cryst.IdentityOp()}
	M := cryst.Merge(T, ops, nil)
	require.Equal(Te, 3, M.Len())
	for i, r := range T.Refl {
		assert.Equal(Te, r.H, M.Rows[i].H)
		assert.InDelta(Te, r.Io, M.Rows[i].Io, 1e-12)
		assert.InDelta(Te, r.Isigma, M.Rows[i].Isigma, 1e-12)
	}
	want := (0.1 + 0.1 + 0) / (2.1 + 2.1 + 1.0)
	for _, rows := range []cryst.Rows{T, M} {
		R := Calc(rows, &Options{ObservedSigma: 3, Weights: Derived(inst)})
		assert.Equal(Te, 3, R.Nobs)
		assert.InDelta(Te, want, R.Robs, 1e-9)
		assert.InDelta(Te, 0.03846, R.Robs, 1e-5)
		assert.InDelta(Te, R.Robs, R.Rall, 1e-12)
	}
}

func TestZeroIntensityClamp(Te *testing.T) {
	T := table(
		refl(1, 0, 0, 4, 4, 0.1),
		refl(0, 1, 0, 0.3, 0, 0.1),
		refl(0, 0, 1, 2, 2.2, 0.1),
	)
	R := Calc(T, nil)
	assert.Equal(Te, 1, R.ClampedIWeights)
	assert.False(Te, math.IsNaN(R.WR2all))
	assert.False(Te, math.IsInf(R.WR2all, 0))
	assert.Greater(Te, R.WR2all, 0.0)
}

func TestAmplitudeOnly(Te *testing.T) {
	A := &Amplitudes{Rows: []cryst.Row{
		{Fo: 2, Fc: 2.2, Fsigma: 0.1},
		{Fo: 1, Fc: 0.9, Fsigma: 0.1},
	}}
	R := Calc(A, nil)
	assert.True(Te, math.IsNaN(R.Robs))
	assert.True(Te, math.IsNaN(R.WRobs))
	assert.True(Te, math.IsNaN(R.WR2all))
	assert.Equal(Te, -1, R.Nobs)
	assert.False(Te, R.ObsDefined())
	assert.InDelta(Te, 0.3/3.0, R.Rall, 1e-12)
	assert.False(Te, math.IsNaN(R.WRall))
	//no weights in the data, so none can be provided.
	R = Calc(A, &Options{ObservedSigma: 3, Weights: Provided()})
	assert.True(Te, math.IsNaN(R.WRall))
	assert.InDelta(Te, 0.3/3.0, R.Rall, 1e-12)
}

func TestWeightSources(Te *testing.T) {
	T := table(
		refl(1, 0, 0, 4, 4.41, 0.1),
		refl(0, 1, 0, 9, 8, 0.3),
	)
	for i := range T.Refl {
		T.Refl[i].Fweight = 1
	}
	R := Calc(T, &Options{ObservedSigma: 3, Weights: Provided()})
	//unit weights make wRall the root of sum(dF^2)/sum(Fo^2)
	d1, d2 := 2.1-2.0, math.Sqrt(8)-3
	assert.InDelta(Te, math.Sqrt((d1*d1+d2*d2)/(4.41+8)), R.WRall, 1e-9)
	R = Calc(T, &Options{ObservedSigma: 3, Weights: Unavailable()})
	assert.True(Te, math.IsNaN(R.WRall))
	assert.True(Te, math.IsNaN(R.WR2obs))
	assert.False(Te, math.IsNaN(R.Robs))
	w, err := ParseWeightSource("file", inst)
	require.NoError(Te, err)
	assert.Equal(Te, Provided(), w)
	w, err = ParseWeightSource("", 0.02)
	require.NoError(Te, err)
	k, ok := w.Instability()
	assert.True(Te, ok)
	assert.Equal(Te, 0.02, k)
	_, err = ParseWeightSource("sigma", inst)
	assert.Error(Te, err)
}

func TestRallEmpty(Te *testing.T) {
	T := table(refl(1, 0, 0, 4, 4, 0.1))
	assert.True(Te, math.IsNaN(Rall(T, func(int) bool { return false })))
	assert.True(Te, math.IsNaN(Rall(table(), nil)))
	assert.Equal(Te, 0.0, Rall(T, nil))
}

func enantiomers() (*cryst.Table, *cryst.Table) {
	a := table(
		refl(1, 0, 0, 4.1, 4, 0.1),
		refl(0, 1, 0, 2.5, 3, 0.1),
		refl(0, 0, 1, 1.0, 1.1, 0.1),
		refl(1, 1, 0, 7.9, 8, 0.1),
	)
	b := table(
		refl(1, 0, 0, 4.3, 4, 0.1),
		refl(0, 1, 0, 3.1, 3, 0.1),
		refl(0, 0, 1, 1.3, 1.1, 0.1),
		refl(1, 1, 0, 8.5, 8, 0.1),
	)
	return a, b
}

func TestZScore(Te *testing.T) {
	a, b := enantiomers()
	require.NoError(Te, CheckAligned(a, b))
	Z := ZScore(a, b, nil)
	assert.Equal(Te, 4, Z.N)
	assert.Equal(Te, 3, Z.K)
	assert.InDelta(Te, 1.0, Z.Z, 1e-12)
	assert.InDelta(Te, 0.841345, Z.P, 1e-6)
	//no ties, so swapping the models mirrors the result.
	Z2 := ZScore(b, a, nil)
	assert.Equal(Te, Z.N, Z.K+Z2.K)
	assert.InDelta(Te, -Z.Z, Z2.Z, 1e-12)
	assert.InDelta(Te, 1.0, Z.P+Z2.P, 1e-12)
	E := ZScore(a, b, func(int) bool { return false })
	assert.Equal(Te, 0, E.N)
	assert.True(Te, math.IsNaN(E.Z))
	assert.True(Te, math.IsNaN(E.P))
}

func TestWeightedZScore(Te *testing.T) {
	a, b := enantiomers()
	Z := WeightedZScore(a, b, nil)
	assert.Equal(Te, 3, Z.K)
	assert.Greater(Te, Z.W, 0.0)
	assert.Less(Te, Z.W, 4.0)
	assert.InDelta(Te, 1/math.Sqrt(4-Z.W)*2, Z.Z, 1e-12)
	//with identical models every reflection is a coin toss.
	W := WeightedZScore(a, a, nil)
	assert.InDelta(Te, 2.0, W.W, 1e-12)
	assert.Equal(Te, 0, W.K)
}

func TestCheckAligned(Te *testing.T) {
	a, b := enantiomers()
	err := CheckAligned(a, table(a.Refl[:3]...))
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, cryst.ErrIncompatible))
	b.Refl[2].Io = 5
	err = CheckAligned(a, b)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, cryst.ErrIncompatible))
	assert.Panics(Te, func() { ZScore(a, table(), nil) })
}

func TestCompareBlocks(Te *testing.T) {
	a, b := enantiomers()
	C := CompareBlocks(a, b, false)
	require.Len(Te, C, 1)
	assert.False(Te, C[0].Combined)
	a.Refl[3].Block, b.Refl[3].Block = 2, 2
	C = CompareBlocks(a, b, false)
	require.Len(Te, C, 3)
	assert.Equal(Te, 1, C[0].Block)
	assert.Equal(Te, 3, C[0].N)
	assert.Equal(Te, 2, C[1].Block)
	assert.Equal(Te, 1, C[1].N)
	assert.True(Te, C[2].Combined)
	assert.Equal(Te, 4, C[2].N)
	assert.Equal(Te, 3, C[2].K)
	assert.InDelta(Te, Rall(a, nil), C[2].Rall1, 1e-12)
	assert.Less(Te, C[2].Rall1, C[2].Rall2)
}

func TestByBlockAndFrame(Te *testing.T) {
	a, _ := enantiomers()
	a.Refl[2].Frame = 2
	a.Refl[3].Frame, a.Refl[3].Block = 1, 2
	B := ByBlock(a, nil)
	require.Len(Te, B, 2)
	assert.Equal(Te, 3, B[0].Nall)
	assert.Equal(Te, 1, B[1].Nall)
	F := ByFrame(a, nil)
	require.Len(Te, F, 3)
	assert.Equal(Te, [2]int{1, 1}, [2]int{F[0].Block, F[0].Frame})
	assert.Equal(Te, 2, F[0].Nall)
	assert.Equal(Te, [2]int{1, 2}, [2]int{F[1].Block, F[1].Frame})
	assert.Equal(Te, [2]int{2, 1}, [2]int{F[2].Block, F[2].Frame})
}

func TestListingFactors(Te *testing.T) {
	T := table(
		refl(1, 0, 0, 4, 4.41, 0.1),
		refl(0, 1, 0, 1, 0.04, 0.1),
	)
	T.Refl[0].WDF, T.Refl[0].InvWeight = 1, 0.5
	T.Refl[1].WDF, T.Refl[1].InvWeight = 2, 0.25
	R := ListingFactors(T)
	//Fo=0.2 and Fsigma=0.25 for the second reflection.
	assert.Equal(Te, 1, R.Nobs)
	assert.Equal(Te, 2, R.Nall)
	assert.InDelta(Te, 0.1/2.1, R.Robs, 1e-9)
	assert.InDelta(Te, 0.9/2.3, R.Rall, 1e-9)
	assert.InDelta(Te, math.Sqrt(5/(4.2*4.2+0.8*0.8)), R.WRall, 1e-9)
	assert.True(Te, math.IsNaN(R.WR2all))
}
