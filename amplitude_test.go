/*
 * amplitude_test.go, part of gocryst.
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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmplitudesBranches(Te *testing.T) {
	cases := []struct {
		name           string
		io, isigma, ic float64
		fo, fsigma, fc float64
	}{
		{"strong", 4.41, 0.1, 4, 2.1, 0.1 / 4.2, 2},
		{"weak", 0.001, 1, 1, math.Sqrt(0.001), 5, 1},
		{"negative", -2, 4, 9, 0, 10, 3},
		{"zero", 0, 4, 0, 0, 10, 0},
		//exactly at the boundary the strong branch is used.
		{"boundary", 0.01, 1, 1, 0.1, 1 / 0.2, 1},
	}
	for _, c := range cases {
		a := Amplitudes(c.io, c.isigma, c.ic, DefaultInstability)
		assert.InDelta(Te, c.fo, a.Fo, 1e-12, c.name)
		assert.InDelta(Te, c.fsigma, a.Fsigma, 1e-12, c.name)
		assert.InDelta(Te, c.fc, a.Fc, 1e-12, c.name)
		assert.GreaterOrEqual(Te, a.Fo, 0.0, c.name)
		w := 1 / math.Sqrt(c.fsigma*c.fsigma+1e-4*c.fo*c.fo)
		assert.InDelta(Te, w, a.Fweight, 1e-9, c.name)
	}
}

// The rule jumps at Io = 0.01 Isigma. Just below, Fsigma is 5*sqrt(Isigma).
func TestAmplitudesDiscontinuity(Te *testing.T) {
	isigma := 100.0
	below := Amplitudes(math.Nextafter(1, 0), isigma, 1, DefaultInstability)
	at := Amplitudes(1, isigma, 1, DefaultInstability)
	assert.Equal(Te, 50.0, below.Fsigma)
	assert.Equal(Te, 50.0, at.Fsigma) //100/(2*1)
	below = Amplitudes(math.Nextafter(1, 0), 1000, 1, DefaultInstability)
	at = Amplitudes(10, 1000, 1, DefaultInstability)
	assert.InDelta(Te, 5*math.Sqrt(1000), below.Fsigma, 1e-9)
	assert.InDelta(Te, 1000/(2*math.Sqrt(10)), at.Fsigma, 1e-9)
}

func TestAmplitudesNegativeIc(Te *testing.T) {
	a := Amplitudes(1, 0.1, -1, DefaultInstability)
	if !math.IsNaN(a.Fc) {
		Te.Errorf("Fc of a negative Ic should be NaN, got %f", a.Fc)
	}
}

func TestIWeightZeroIntensity(Te *testing.T) {
	if w := IWeight(1, 0, 0, DefaultInstability); !math.IsInf(w, 1) {
		Te.Errorf("expected +Inf, got %f", w)
	}
}
