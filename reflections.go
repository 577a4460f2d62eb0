/*
 * reflections.go, part of gocryst.
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

import "sort"

// Reflection is one line of a reflection listing. Fo, Fc, Fsigma and Fweight are derived
// from the intensities with Amplitudes. WDF and InvWeight are the w(Fo-Fc) and 1/weight
// columns as written by the refinement program, which are printed with low precision.
type Reflection struct {
	H         Miller
	Ic        float64
	Io        float64
	Isigma    float64
	Fc        float64
	Fo        float64
	Fsigma    float64
	Fweight   float64
	WDF       float64
	InvWeight float64
	Frame     int
	Block     int
}

// Table is an ordered list of reflections, in the order of the file.
type Table struct {
	Name        string
	Schema      Schema
	Instability float64
	Refl        []Reflection
}

// Len returns the number of reflections in the table
func (T *Table) Len() int { return len(T.Refl) }

// Row returns the i-th reflection as a Row
func (T *Table) Row(i int) Row {
	r := &T.Refl[i]
	return Row{Io: r.Io, Ic: r.Ic, Isigma: r.Isigma, Fo: r.Fo, Fc: r.Fc, Fsigma: r.Fsigma, Fweight: r.Fweight}
}

// HasIntensities is always true for a reflection table.
func (T *Table) HasIntensities() bool { return true }

// HasWeights is always true, the weights are derived when the table is read.
func (T *Table) HasWeights() bool { return true }

// Filter returns a new table with the reflections for which keep returns true. The
// reflections are copied.
func (T *Table) Filter(keep func(r *Reflection) bool) *Table {
	ret := &Table{Name: T.Name, Schema: T.Schema, Instability: T.Instability}
	for i := range T.Refl {
		if keep(&T.Refl[i]) {
			ret.Refl = append(ret.Refl, T.Refl[i])
		}
	}
	return ret
}

// Blocks returns the sorted IDs of the data blocks present in the table.
func (T *Table) Blocks() []int {
	return T.distinct(func(r *Reflection) int { return r.Block })
}

// Frames returns the sorted IDs of the frames (zones) present in the table.
func (T *Table) Frames() []int {
	return T.distinct(func(r *Reflection) int { return r.Frame })
}

func (T *Table) distinct(key func(r *Reflection) int) []int {
	seen := make(map[int]bool)
	ret := make([]int, 0, 1)
	for i := range T.Refl {
		k := key(&T.Refl[i])
		if !seen[k] {
			seen[k] = true
			ret = append(ret, k)
		}
	}
	sort.Ints(ret)
	return ret
}

// Distinct returns the number of different Miller indices in the table.
func (T *Table) Distinct() int {
	seen := make(map[Miller]struct{}, len(T.Refl))
	for _, r := range T.Refl {
		seen[r.H] = struct{}{}
	}
	return len(seen)
}

// Indices returns the Miller indices of the table, in order.
func (T *Table) Indices() []Miller {
	ret := make([]Miller, len(T.Refl))
	for i, r := range T.Refl {
		ret[i] = r.H
	}
	return ret
}

// NewReflection returns a reflection with the amplitudes derived from the
// intensities. Frame and block are set to 1.
func NewReflection(h Miller, ic, io, isigma, instability float64) Reflection {
	a := Amplitudes(io, isigma, ic, instability)
	return Reflection{H: h, Ic: ic, Io: io, Isigma: isigma, Fo: a.Fo, Fc: a.Fc, Fsigma: a.Fsigma, Fweight: a.Fweight, Frame: 1, Block: 1}
}
