/*
 * symmetry.go, part of gocryst.
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
	"log"
	"math"
	"strings"

	matrix "github.com/skelterjohn/go.matrix"
)

// Rotation is the integer matrix of a point group operation, acting on fractional coordinates.
type Rotation [3][3]int

// Identity is the identity operation.
var Identity = Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// MulVec returns R*h.
func (R Rotation) MulVec(h Miller) Miller {
	var r Miller
	for i := 0; i < 3; i++ {
		r[i] = R[i][0]*h[0] + R[i][1]*h[1] + R[i][2]*h[2]
	}
	return r
}

// Mul returns the matrix product R*S.
func (R Rotation) Mul(S Rotation) Rotation {
	var r Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += R[i][k] * S[k][j]
			}
		}
	}
	return r
}

// T returns the transpose of R.
func (R Rotation) T() Rotation {
	var r Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = R[j][i]
		}
	}
	return r
}

// Det returns the determinant of R.
func (R Rotation) Det() int {
	return R[0][0]*(R[1][1]*R[2][2]-R[1][2]*R[2][1]) -
		R[0][1]*(R[1][0]*R[2][2]-R[1][2]*R[2][0]) +
		R[0][2]*(R[1][0]*R[2][1]-R[1][1]*R[2][0])
}

func (R Rotation) dense() *matrix.DenseMatrix {
	data := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data = append(data, float64(R[i][j]))
		}
	}
	return matrix.MakeDenseMatrix(data, 3, 3)
}

// SymOp is a symmetry operation: the rotation part, as read, and the matrix
// that transforms Miller indices, (R^T)^-1. Both are fixed when the SymOp is built.
type SymOp struct {
	xyz string
	rot Rotation
	rec Rotation
}

// NewSymOp builds a SymOp from a rotation matrix. It returns an error if the matrix
// has no integer inverse, which for these matrices means the determinant is not +-1.
func NewSymOp(rot Rotation, xyz string) (SymOp, error) {
	if d := rot.Det(); d != 1 && d != -1 {
		return SymOp{}, NewFileError(ErrMalformedInput, fmt.Sprintf("operator %q has determinant %d", xyz, d), "", 0, "NewSymOp")
	}
	inv, err := rot.dense().Transpose().Inverse()
	if err != nil {
		return SymOp{}, NewFileError(ErrMalformedInput, fmt.Sprintf("operator %q: %v", xyz, err), "", 0, "NewSymOp")
	}
	var rec Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rec[i][j] = int(math.Round(inv.Get(i, j)))
		}
	}
	return SymOp{xyz: xyz, rot: rot, rec: rec}, nil
}

// ParseSymOp reads an operator in the "x,y,z" notation, with components separated by
// commas or by whitespace, as in M50 files ("-x+1/2 y -z"). Only the rotation part is used;
// translations are discarded. A component without any of x, y or z gives a zero row, and the
// operator is then rejected by NewSymOp.
func ParseSymOp(xyz string) (SymOp, error) {
	xyz = strings.TrimSpace(xyz)
	comps := strings.Split(xyz, ",")
	if len(comps) != 3 {
		comps = strings.Fields(xyz)
	}
	if len(comps) != 3 {
		return SymOp{}, NewFileError(ErrMalformedInput, fmt.Sprintf("operator %q does not have 3 components", xyz), "", 0, "ParseSymOp")
	}
	var rot Rotation
	axes := "xyz"
	for i, c := range comps {
		c = strings.ToLower(strings.ReplaceAll(c, " ", ""))
		for j, a := range axes {
			if strings.Contains(c, "-"+string(a)) {
				rot[i][j] = -1
			} else if strings.ContainsRune(c, a) {
				rot[i][j] = 1
			}
		}
	}
	op, err := NewSymOp(rot, xyz)
	return op, errDecorate(err, "ParseSymOp")
}

// IdentityOp returns the x,y,z operator.
func IdentityOp() SymOp {
	return SymOp{xyz: "x,y,z", rot: Identity, rec: Identity}
}

// String returns the operator as it was given.
func (S SymOp) String() string { return S.xyz }

// Rotation returns the rotation part of the operator, acting on fractional coordinates.
func (S SymOp) Rotation() Rotation { return S.rot }

// Reciprocal returns (R^T)^-1, the operation acting on Miller indices.
func (S SymOp) Reciprocal() Rotation { return S.rec }

// Apply returns the image of the Miller index h under the operation.
func (S SymOp) Apply(h Miller) Miller { return S.rec.MulVec(h) }

// hasIdentity returns true if one of the reciprocal operations is the identity.
func hasIdentity(ops []SymOp) bool {
	for _, v := range ops {
		if v.rec == Identity {
			return true
		}
	}
	return false
}

// withIdentity returns ops, with the identity operation prepended if it was missing.
func withIdentity(ops []SymOp, caller string) []SymOp {
	if hasIdentity(ops) {
		return ops
	}
	log.Printf("goCryst/%s: the symmetry operations don't include the identity. It will be added.", caller)
	return append([]SymOp{IdentityOp()}, ops...)
}

// Centering returns the centering translations for the lattice symbol, which is the
// first letter of the space group symbol (P, A, B, C, I or F). (0,0,0) is always
// included. R centering is not supported and gives only (0,0,0), like P.
func Centering(spacegroup string) [][3]float64 {
	ret := [][3]float64{{0, 0, 0}}
	if spacegroup == "" {
		return ret
	}
	a := [3]float64{0, 0.5, 0.5}
	b := [3]float64{0.5, 0, 0.5}
	c := [3]float64{0.5, 0.5, 0}
	switch spacegroup[0] {
	case 'F':
		ret = append(ret, a, b, c)
	case 'C':
		ret = append(ret, c)
	case 'A':
		ret = append(ret, a)
	case 'B':
		ret = append(ret, b)
	case 'I':
		ret = append(ret, [3]float64{0.5, 0.5, 0.5})
	}
	return ret
}
