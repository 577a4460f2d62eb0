/*
 * cell.go, part of gocryst.
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
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const deg2rad = math.Pi / 180

// Cell contains the lattice parameters, lengths in A and angles in degrees.
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// NewCell returns a cell from a slice with a, b, c, alpha, beta and gamma.
// Missing angles are set to 90 degrees.
func NewCell(p []float64) (Cell, error) {
	if len(p) < 3 {
		return Cell{}, fmt.Errorf("goCryst/NewCell: at least 3 cell parameters needed, got %d", len(p))
	}
	c := Cell{A: p[0], B: p[1], C: p[2], Alpha: 90, Beta: 90, Gamma: 90}
	if len(p) >= 6 {
		c.Alpha, c.Beta, c.Gamma = p[3], p[4], p[5]
	}
	return c, nil
}

// MetricTensor returns the metric tensor G of the cell.
func (C Cell) MetricTensor() *mat.SymDense {
	ca := math.Cos(C.Alpha * deg2rad)
	cb := math.Cos(C.Beta * deg2rad)
	cg := math.Cos(C.Gamma * deg2rad)
	return mat.NewSymDense(3, []float64{
		C.A * C.A, C.A * C.B * cg, C.A * C.C * cb,
		C.A * C.B * cg, C.B * C.B, C.B * C.C * ca,
		C.A * C.C * cb, C.B * C.C * ca, C.C * C.C,
	})
}

// Volume returns the volume of the cell, sqrt(det(G)).
func (C Cell) Volume() float64 {
	return math.Sqrt(mat.Det(C.MetricTensor()))
}

// ReciprocalMetric returns G^-1, the metric tensor of the reciprocal lattice.
func (C Cell) ReciprocalMetric() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(C.MetricTensor()); err != nil {
		return nil, fmt.Errorf("goCryst/ReciprocalMetric: %w", err)
	}
	return &inv, nil
}

// Resolver computes d-spacings for many reflections without inverting the metric tensor each time.
type Resolver struct {
	gr *mat.Dense
}

// NewResolver returns a Resolver for the cell.
func NewResolver(C Cell) (*Resolver, error) {
	gr, err := C.ReciprocalMetric()
	if err != nil {
		return nil, err
	}
	return &Resolver{gr: gr}, nil
}

// DStar2 returns (d*)^2 = h^T G^-1 h.
func (R *Resolver) DStar2(h Miller) float64 {
	v := mat.NewVecDense(3, []float64{float64(h[0]), float64(h[1]), float64(h[2])})
	return mat.Inner(v, R.gr, v)
}

// DSpacing returns the interplanar distance of the reflection h, in A.
// It is +Inf for (0,0,0).
func (R *Resolver) DSpacing(h Miller) float64 {
	return 1 / math.Sqrt(R.DStar2(h))
}

// SinThetaOverLambda returns sin(theta)/lambda = 1/(2d) for the reflection h.
func (R *Resolver) SinThetaOverLambda(h Miller) float64 {
	return 0.5 * math.Sqrt(R.DStar2(h))
}

// ParseValueSU reads a number in the crystallographic value(su) notation, such as "1.2345(12)",
// and returns the value and its standard uncertainty, 1.2345 and 0.0012 in the example.
// A number without parentheses has a zero uncertainty.
func ParseValueSU(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	i := strings.Index(s, "(")
	if i < 0 {
		v, err := strconv.ParseFloat(s, 64)
		return v, 0, err
	}
	value := strings.TrimSpace(s[:i])
	su := strings.TrimSuffix(strings.TrimSpace(s[i+1:]), ")")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, err
	}
	u, err := strconv.ParseFloat(su, 64)
	if err != nil {
		return 0, 0, err
	}
	if dot := strings.Index(value, "."); dot >= 0 {
		u *= math.Pow(10, -float64(len(value)-dot-1))
	}
	return v, u, nil
}
