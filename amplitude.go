/*
 * amplitude.go, part of gocryst.
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

import "math"

// DefaultInstability is the instability factor used when none is given.
const DefaultInstability = 0.01

// DefaultObservedSigma is the default k in the "observed" criterion, Io > k*Isigma.
const DefaultObservedSigma = 3.0

// weakLimit: reflections with Io below weakLimit*Isigma are treated as weak.
const weakLimit = 0.01

// Amplitude contains the structure-factor quantities derived from one set of intensities.
type Amplitude struct {
	Fo      float64
	Fc      float64
	Fsigma  float64
	Fweight float64
}

// Amplitudes derives Fo, Fc, their uncertainty and the weight of Fo from the observed intensity io,
// its uncertainty isigma and the calculated intensity ic. This is the convention used by Jana:
// for weak and negative reflections (io < 0.01*isigma) Fo is sqrt(io), or 0 if io is negative, and
// Fsigma is 5*sqrt(isigma). Otherwise Fsigma = isigma/(2Fo). The jump at the 0.01*isigma boundary
// is part of the convention and must not be smoothed out.
// Fc is sqrt(ic), so a negative ic gives NaN. The weight is 1/sqrt(Fsigma^2 + (instability*Fo)^2).
func Amplitudes(io, isigma, ic, instability float64) Amplitude {
	var a Amplitude
	if io < weakLimit*isigma {
		if io > 0 {
			a.Fo = math.Sqrt(io)
		}
		a.Fsigma = 5 * math.Sqrt(isigma)
	} else {
		a.Fo = math.Sqrt(io)
		a.Fsigma = isigma / (2 * a.Fo)
	}
	a.Fc = math.Sqrt(ic)
	a.Fweight = FWeight(a.Fsigma, a.Fo, instability)
	return a
}

// FWeight returns the weight of an amplitude, 1/sqrt(fsigma^2 + (instability*fo)^2)
func FWeight(fsigma, fo, instability float64) float64 {
	u := instability * fo
	return 1 / math.Sqrt(fsigma*fsigma+u*u)
}

// IWeight returns the weight of an intensity, 1/sqrt((fsigma^2 + (instability*fo)^2)*4|io|).
// It is +Inf when io is zero. The caller decides what to do with that.
func IWeight(fsigma, fo, io, instability float64) float64 {
	u := instability * fo
	return 1 / math.Sqrt((fsigma*fsigma+u*u)*4*math.Abs(io))
}

// Observed returns true if io > k*isigma.
func Observed(io, isigma, k float64) bool {
	return io > k*isigma
}
