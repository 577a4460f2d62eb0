/*
 * miller.go, part of gocryst.
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

import "fmt"

// Miller is a reflection index (h,k,l). It is compared exactly, and can be used as a map key.
type Miller [3]int

// H returns the h index
func (M Miller) H() int { return M[0] }

// K returns the k index
func (M Miller) K() int { return M[1] }

// L returns the l index
func (M Miller) L() int { return M[2] }

// Less orders Miller indices by h, then k, then l.
func (M Miller) Less(N Miller) bool {
	for i := range M {
		if M[i] != N[i] {
			return M[i] < N[i]
		}
	}
	return false
}

func (M Miller) String() string {
	return fmt.Sprintf("%4d%4d%4d", M[0], M[1], M[2])
}
