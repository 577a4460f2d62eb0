/*
 * options.go, part of gocryst.
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
	"strings"

	cryst "github.com/rmera/gocryst"
)

type weightKind int

const (
	weightsDerived weightKind = iota
	weightsProvided
	weightsUnavailable
)

// WeightSource tells the R-factor routines where the weights come from. It is
// Derived(instability), Provided() or Unavailable().
type WeightSource struct {
	kind        weightKind
	instability float64
}

// Derived weights are computed from Fsigma and Fo with the given instability factor
// (Jana98 manual, equations E57 and E59):
// Fweight = 1/sqrt(Fsigma^2+(k*Fo)^2), Iweight = 1/sqrt((Fsigma^2+(k*Fo)^2)*4|Io|).
func Derived(instability float64) WeightSource {
	return WeightSource{kind: weightsDerived, instability: instability}
}

// Provided weights are the Fweight values of the rows. Iweight is Fweight/(2*sqrt|Io|).
func Provided() WeightSource {
	return WeightSource{kind: weightsProvided}
}

// Unavailable means that the weighted R factors are not calculated. They are reported as NaN.
func Unavailable() WeightSource {
	return WeightSource{kind: weightsUnavailable}
}

// Instability returns the instability factor of derived weights, and false for other sources.
func (W WeightSource) Instability() (float64, bool) {
	return W.instability, W.kind == weightsDerived
}

func (W WeightSource) String() string {
	switch W.kind {
	case weightsDerived:
		return fmt.Sprintf("derived(%g)", W.instability)
	case weightsProvided:
		return "provided"
	}
	return "none"
}

// ParseWeightSource reads "derived", "provided" or "none". The instability
// factor is only used for derived weights.
func ParseWeightSource(s string, instability float64) (WeightSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "derived":
		return Derived(instability), nil
	case "provided", "file":
		return Provided(), nil
	case "none", "unavailable":
		return Unavailable(), nil
	}
	return WeightSource{}, fmt.Errorf("goCryst/rstat: unknown weight source %q", s)
}

// Options for the R-factor calculations.
type Options struct {
	ObservedSigma float64 //reflections with Io > ObservedSigma*Isigma are observed.
	Weights       WeightSource
}

// DefaultOptions returns the usual options: observed above 3 sigma, weights derived
// with an instability factor of 0.01.
func DefaultOptions() *Options {
	return &Options{ObservedSigma: cryst.DefaultObservedSigma, Weights: Derived(cryst.DefaultInstability)}
}
