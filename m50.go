/*
 * m50.go, part of gocryst.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Setup contains what goCryst uses from an M50 file: the cell, the symmetry and the refinement keys.
type Setup struct {
	Title        string
	Cell         Cell
	CellSU       []float64 //esdcell, if present
	SpaceGroup   string
	SpaceGroupID int
	Symmetry     []SymOp
	Centering    [][3]float64
	Z            int
	Formula      string
	Refinement   []string //the lines of the refine block, continuation lines joined.
	GMax         float64  //2*snlmx, 9 if not given.
	SkipBad      bool
	SkipFlag42   bool
}

// M50FileRead reads the M50 file with the given name. The file can be compressed.
func M50FileRead(name string) (*Setup, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, NewFileError(ErrMalformedInput, err.Error(), name, 0, "M50FileRead")
	}
	defer f.Close()
	s, err := M50Read(f)
	if err != nil {
		if e, ok := err.(FileError); ok {
			e = e.WithFile(name).WithCaller("M50FileRead")
			return nil, e
		}
		return nil, err
	}
	return s, nil
}

// M50Read reads an M50 file from r. It returns an error if the file ends before
// the "end refine" line, which means the file is truncated or is not an M50 file.
func M50Read(r io.Reader) (*Setup, error) {
	S := &Setup{GMax: 9, Cell: Cell{Alpha: 90, Beta: 90, Gamma: 90}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inRefine := false
	ended := false
	n := 0
	malformed := func(msg string) error {
		return NewFileError(ErrMalformedInput, msg, "", n, "M50Read")
	}
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "end refine") {
			ended = true
			break
		}
		if inRefine {
			if strings.HasPrefix(line, " &") && len(S.Refinement) > 0 {
				S.Refinement[len(S.Refinement)-1] += " " + strings.TrimSpace(line[2:])
			} else {
				S.Refinement = append(S.Refinement, line)
			}
			continue
		}
		fields := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "title"):
			if len(line) > 6 {
				S.Title = line[6:]
			}
		case strings.HasPrefix(line, "esdcell"):
			v, err := floatFields(fields[1:])
			if err != nil {
				return nil, malformed(fmt.Sprintf("esdcell: %v", err))
			}
			S.CellSU = v
		case strings.HasPrefix(line, "cell"):
			v, err := floatFields(fields[1:])
			if err != nil {
				return nil, malformed(fmt.Sprintf("cell: %v", err))
			}
			S.Cell, err = NewCell(v)
			if err != nil {
				return nil, malformed(err.Error())
			}
		case strings.HasPrefix(line, "spgroup"):
			if len(fields) < 3 {
				return nil, malformed("spgroup needs a symbol and a number")
			}
			S.SpaceGroup = fields[1]
			id, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, malformed(fmt.Sprintf("spgroup: %v", err))
			}
			S.SpaceGroupID = id
		case strings.HasPrefix(line, "symmetry"):
			op, err := ParseSymOp(line[len("symmetry"):])
			if err != nil {
				return nil, malformed(err.Error())
			}
			S.Symmetry = append(S.Symmetry, op)
		case strings.HasPrefix(line, "unitsnumb"):
			if len(fields) > 1 {
				z, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, malformed(fmt.Sprintf("unitsnumb: %v", err))
				}
				S.Z = z
			}
		case strings.HasPrefix(line, "atlist"):
			if len(line) > 7 {
				S.Formula = line[7:]
			}
		case strings.HasPrefix(line, "refine"):
			inRefine = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed(err.Error())
	}
	if !ended {
		return nil, malformed("no 'end refine' line found before the end of the file")
	}
	S.Centering = Centering(S.SpaceGroup)
	S.refineKeys()
	return S, nil
}

// refineKeys sets the values that goCryst uses from the refine block.
func (S *Setup) refineKeys() {
	for i, l := range S.Refinement {
		f := strings.Fields(l)
		for j, v := range f {
			switch v {
			case "snlmx":
				if j+1 < len(f) {
					if s, err := strconv.ParseFloat(f[j+1], 64); err == nil && i == 0 {
						S.GMax = 2 * s
					}
				}
			case "skipbad":
				if j+1 < len(f) && f[j+1] == "1" && i == 0 {
					S.SkipBad = true
				}
			}
		}
		if strings.HasPrefix(l, "  skipflag 42") || strings.TrimSpace(l) == "skipflag 42" {
			S.SkipFlag42 = true
		}
	}
}

func floatFields(f []string) ([]float64, error) {
	ret := make([]float64, 0, len(f))
	for _, v := range f {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		ret = append(ret, x)
	}
	return ret, nil
}
