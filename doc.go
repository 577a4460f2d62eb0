/*
 * doc.go, part of gocryst.
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

/*Package cryst is the main package of the goCryst library. It provides the data model
for reflection lists produced by the Jana refinement programs, together with readers
for the files that contain them and the routines that derive, group and merge
structure-factor data.



	**goCryst Capabilities**


    Reads M50 files: cell parameters, space group, symmetry operators and refinement keys.
	The rotation part of each operator is kept together with its reciprocal-space
	counterpart, (R^T)^-1, which is the matrix that acts on Miller indices.

    Reads M83 files (reflection listings written after a refinement), both from kinematical
	and dynamical refinements, single or multi-block. Files may be compressed with gzip
	or zstd.

    Derives structure factor amplitudes, their uncertainties and weights from intensities,
	following the convention of Jana for weak and negative reflections.

    Groups symmetry-equivalent reflections and merges them.

    Cell geometry: metric tensor, volume and d-spacings.

R factors and z-scores live in the rstat package, histograms and resolution shells in histo,
plots in rplot, frame geometry (M42 files) in frames and refinement listings (.ref files)
in refsum.*/
package cryst
