/*
 * merge.go, part of gocryst.
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

// MergeOptions contains the parameters of a merge.
type MergeOptions struct {
	ObservedSigma float64 //merged reflections with Io > ObservedSigma*Isigma are flagged as observed
	Instability   float64
}

// DefaultMergeOptions returns the usual values, 3 and 0.01
func DefaultMergeOptions() *MergeOptions {
	return &MergeOptions{ObservedSigma: DefaultObservedSigma, Instability: DefaultInstability}
}

// Merged is one merged reflection, that is, one class of symmetry-equivalent reflections.
type Merged struct {
	H        Miller //the representative of the class
	Io       float64
	Ic       float64
	Isigma   float64
	Fo       float64
	Fc       float64
	Fsigma   float64
	Fweight  float64
	Observed bool
	N        int //number of reflections merged
	Distinct int //number of different indices among the merged reflections
}

// MergedTable is the result of merging a Table. The rows follow the order in which
// the classes were first found in the table.
type MergedTable struct {
	Rows []Merged
	//Duplicates is the number of reflections in the raw table minus the number of different
	//indices in it. It is only informative.
	Duplicates int
}

// Len returns the number of merged reflections
func (M *MergedTable) Len() int { return len(M.Rows) }

// Row returns the i-th merged reflection as a Row
func (M *MergedTable) Row(i int) Row {
	r := &M.Rows[i]
	return Row{Io: r.Io, Ic: r.Ic, Isigma: r.Isigma, Fo: r.Fo, Fc: r.Fc, Fsigma: r.Fsigma, Fweight: r.Fweight}
}

// HasIntensities is always true for merged tables.
func (M *MergedTable) HasIntensities() bool { return true }

// HasWeights is always true for merged tables.
func (M *MergedTable) HasWeights() bool { return true }

// Indices returns the representatives of the merged reflections, in order.
func (M *MergedTable) Indices() []Miller {
	ret := make([]Miller, len(M.Rows))
	for i, r := range M.Rows {
		ret[i] = r.H
	}
	return ret
}

// NObserved returns the number of merged reflections flagged as observed.
func (M *MergedTable) NObserved() int {
	n := 0
	for _, v := range M.Rows {
		if v.Observed {
			n++
		}
	}
	return n
}

type group struct {
	io, ic, isigma []float64
	indices        map[Miller]struct{}
}

// Grouper assigns each Miller index to its class of symmetry-equivalent indices.
// The representative of a class is the first index found, when scanning the reflections
// in order, whose orbit contains the class. It is not the smallest index of the class,
// so the result depends on the order of the input.
type Grouper struct {
	ops    []SymOp
	equiv  map[Miller]Miller
	order  []Miller //representatives, in the order they were found
	groups map[Miller]*group
}

// NewGrouper returns a Grouper for the given operations. If the identity is not among
// them, it is added.
func NewGrouper(ops []SymOp) *Grouper {
	return &Grouper{
		ops:    withIdentity(ops, "NewGrouper"),
		equiv:  make(map[Miller]Miller),
		groups: make(map[Miller]*group),
	}
}

// Assign adds h, and its images under all the operations, to the classes. An
// index that is already assigned is ignored. It returns the representative of h.
func (G *Grouper) Assign(h Miller) Miller {
	if m, ok := G.equiv[h]; ok {
		return m
	}
	G.order = append(G.order, h)
	G.groups[h] = &group{indices: make(map[Miller]struct{})}
	for _, op := range G.ops {
		img := op.Apply(h)
		if _, ok := G.equiv[img]; !ok {
			G.equiv[img] = h
		}
	}
	return G.equiv[h]
}

// Representative returns the representative of the class of h, and false if h has not been assigned.
func (G *Grouper) Representative(h Miller) (Miller, bool) {
	m, ok := G.equiv[h]
	return m, ok
}

// Classes returns the number of classes found so far.
func (G *Grouper) Classes() int {
	return len(G.order)
}

// add puts the intensities of r in the accumulator of its class. r.H must be assigned.
func (G *Grouper) add(r *Reflection) {
	g := G.groups[G.equiv[r.H]]
	g.io = append(g.io, r.Io)
	g.ic = append(g.ic, r.Ic)
	g.isigma = append(g.isigma, r.Isigma)
	g.indices[r.H] = struct{}{}
}

// Merge groups the reflections of T into classes of symmetry-equivalent reflections, using
// the operations acting on Miller indices, and averages each class. Io and Ic are averaged,
// and Isigma is sqrt(sum(sigma_i^2))/n. The amplitudes of the merged reflection are derived
// from the merged intensities with Amplitudes. If O is nil, the default options are used.
func Merge(T *Table, ops []SymOp, O *MergeOptions) *MergedTable {
	if O == nil {
		O = DefaultMergeOptions()
	}
	G := NewGrouper(ops)
	for i := range T.Refl {
		G.Assign(T.Refl[i].H)
	}
	for i := range T.Refl {
		G.add(&T.Refl[i])
	}
	ret := &MergedTable{Rows: make([]Merged, 0, len(G.order))}
	distinct := 0
	for _, h := range G.order {
		g := G.groups[h]
		if len(g.io) == 0 {
			continue //can't happen when the Grouper is filled from the same table.
		}
		m := mergeGroup(h, g, O)
		distinct += m.Distinct
		ret.Rows = append(ret.Rows, m)
	}
	ret.Duplicates = len(T.Refl) - distinct
	return ret
}

func mergeGroup(h Miller, g *group, O *MergeOptions) Merged {
	n := float64(len(g.io))
	var sio, sic, ss float64
	for i := range g.io {
		sio += g.io[i]
		sic += g.ic[i]
		ss += g.isigma[i] * g.isigma[i]
	}
	m := Merged{H: h, N: len(g.io), Distinct: len(g.indices)}
	m.Io = sio / n
	m.Ic = sic / n
	m.Isigma = math.Sqrt(ss) / n
	a := Amplitudes(m.Io, m.Isigma, m.Ic, O.Instability)
	m.Fo, m.Fc, m.Fsigma, m.Fweight = a.Fo, a.Fc, a.Fsigma, a.Fweight
	m.Observed = Observed(m.Io, m.Isigma, O.ObservedSigma)
	return m
}
