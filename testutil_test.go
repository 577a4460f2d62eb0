/*
 * testutil_test.go, part of gocryst.
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
	"strings"
)

// m83Line builds a fixed-column M83 line of the given width (without terminator). For dynamical
// widths, zone is written as the last token.
func m83Line(h Miller, ic, io, isigma float64, width int, zone string) string {
	s := fmt.Sprintf("%4d%4d%4d%15.6E%15.6E%15.6E o    1%10.3f%10.2f%10.2f%10.2f%15.5E%10.2f%10.2f%10.2f",
		h[0], h[1], h[2], ic, io, isigma, 0.5, 1.0, 1.0, 0.27, 0.0657, 0.0, 0.0, 0.0)
	if width <= len(s) {
		return s[:width]
	}
	pad := width - len(s) - len(zone)
	if pad < 1 {
		panic("m83Line: zone token doesn't fit")
	}
	return s + strings.Repeat(" ", pad) + zone
}

const testM50 = `Version Jana2020
title Test structure
cell 5.4 6.2 7.1 90 101.5 90
esdcell 0.001 0.002 0.003 0 0.01 0
spgroup P21/c 14
lattice P
symmetry x y z
symmetry -x y+1/2 -z+1/2
symmetry -x -y -z
symmetry x -y+1/2 z+1/2
unitsnumb 4
atlist C8 H10
chemform C8 H10
refine
  fsquare 1 cycles 100 snlmx 0.7
 & skipbad 1
  skipflag 42
end refine
`
