/*
 * frames.go, part of gocryst.
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

//Package frames reads the frame geometry file (M42) of a Jana 3D ED refinement.
//The file starts with a configuration block, with the settings of each refinement
//block, and continues with one record per frame (zone).
package frames

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	cryst "github.com/rmera/gocryst"
	"gonum.org/v1/gonum/mat"
)

//Block contains the settings of one refinement (data) block.
type Block struct {
	ID          int
	TiltCorr    bool
	IEDT        bool
	NZones      int
	IntSteps    int
	Orientation *mat.Dense //3x3 orientation matrix
	GMax        float64    //gmax for the Bloch wave calculation
	SgMaxBW     float64
	SgMax       float64
	RSgMax      float64
	DSgMin      float64 //-1 if not given
}

//Frame contains the geometry and refined parameters of one frame.
type Frame struct {
	Block     int
	ID        int
	UVW       [3]float64
	Alpha     float64
	Beta      float64
	Phi       float64 //rotation semiangle or precession angle
	Use       bool
	Scale     float64
	Thickness float64
	EDPhi     float64 //direction of the optimized orientation correction
	EDTheta   float64 //tilt of the optimized orientation correction
}

//Setup is the content of an M42 file.
type Setup struct {
	Commands  string
	Dynamical bool
	ScaleToFc bool
	Blocks    []Block
	Frames    []Frame
}

//Frame returns the frame with the given block and id, and true, or
//false if there is no such frame.
func (S *Setup) Frame(block, id int) (Frame, bool) {
	for _, v := range S.Frames {
		if v.Block == block && v.ID == id {
			return v, true
		}
	}
	return Frame{}, false
}

//M42FileRead reads the M42 file name, which can be compressed.
//If configOnly is given and true, the frame records are not read.
func M42FileRead(name string, configOnly ...bool) (*Setup, error) {
	f, err := cryst.OpenFile(name)
	if err != nil {
		return nil, cryst.NewFileError(cryst.ErrMalformedInput, err.Error(), name, 0, "M42FileRead")
	}
	defer f.Close()
	S, err := M42Read(f, configOnly...)
	if err != nil {
		if e, ok := err.(cryst.FileError); ok {
			e = e.WithFile(name).WithCaller("M42FileRead")
			return nil, e
		}
		return nil, err
	}
	return S, nil
}

func malformed(line int, format string, a ...interface{}) error {
	return cryst.NewFileError(cryst.ErrMalformedInput, fmt.Sprintf(format, a...), "", line, "M42Read")
}

//M42Read reads an M42 file from r. If configOnly is given and true, the frame
//records are not read.
func M42Read(r io.Reader, configOnly ...bool) (*Setup, error) {
	lines := make([]string, 0, 200)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, cryst.NewFileError(cryst.ErrMalformedInput, err.Error(), "", 0, "M42Read")
	}
	end := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == "end" {
			end = i
			break
		}
	}
	if end < 1 {
		return nil, malformed(0, "no end of the configuration block")
	}
	S := &Setup{Commands: strings.TrimSpace(lines[0])}
	if err := S.readConfig(lines[:end]); err != nil {
		return nil, err
	}
	if len(configOnly) > 0 && configOnly[0] {
		return S, nil
	}
	if err := S.readFrames(lines[end+1:], end+1); err != nil {
		return nil, err
	}
	return S, nil
}

//flag returns true if the field after key is "1".
func flag(fields []string, key string) bool {
	for i, v := range fields[:len(fields)-1] {
		if v == key {
			return fields[i+1] == "1"
		}
	}
	return false
}

//numbers parses the fields at the given positions.
func numbers(fields []string, pos ...int) ([]float64, error) {
	ret := make([]float64, len(pos))
	var err error
	for i, p := range pos {
		if p >= len(fields) {
			return nil, fmt.Errorf("field %d missing", p+1)
		}
		ret[i], err = strconv.ParseFloat(fields[p], 64)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (S *Setup) readConfig(lines []string) error {
	if len(lines) > 1 {
		f := strings.Fields(lines[1])
		if len(f) > 1 {
			S.Dynamical = flag(f, "calcdyn")
			S.ScaleToFc = flag(f, "scalefc")
		}
	}
	var cur Block
	cur.DSgMin = -1
	for i, line := range lines {
		f := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "threads"):
			if len(f) < 6 {
				return malformed(i+1, "threads line too short")
			}
			cur.TiltCorr = f[3] == "1"
			cur.IEDT = f[5] == "1"
		case strings.HasPrefix(line, "nzones"):
			n, err := numbers(f, 1, 3)
			if err != nil {
				return malformed(i+1, "nzones line: %s", err)
			}
			cur.NZones, cur.IntSteps = int(n[0]), int(n[1])
		case strings.HasPrefix(line, "ormat"):
			if i+3 >= len(lines) {
				return malformed(i+1, "orientation matrix truncated")
			}
			om := make([]float64, 0, 9)
			for j := i + 1; j <= i+3; j++ {
				n, err := numbers(strings.Fields(lines[j]), 0, 1, 2)
				if err != nil {
					return malformed(j+1, "orientation matrix: %s", err)
				}
				om = append(om, n...)
			}
			cur.Orientation = mat.NewDense(3, 3, om)
		case strings.HasPrefix(line, "omega"):
			offset := 0
			if strings.Contains(line, "sca") {
				offset = 2
			}
			n, err := numbers(f, 3, 5+offset, 7+offset, 9+offset)
			if err != nil {
				return malformed(i+1, "omega line: %s", err)
			}
			cur.GMax, cur.SgMaxBW, cur.SgMax, cur.RSgMax = n[0], n[1], n[2], n[3]
			if strings.Contains(line, "dsgmin") {
				d, err := numbers(f, 11+offset)
				if err != nil {
					return malformed(i+1, "omega line: %s", err)
				}
				cur.DSgMin = d[0]
			}
			//the omega line closes the settings of a block.
			cur.ID = len(S.Blocks) + 1
			S.Blocks = append(S.Blocks, cur)
			cur.DSgMin = -1
		}
	}
	return nil
}

//col returns line[a:b], trimmed, or what is available of it.
func col(line string, a, b int) string {
	if a >= len(line) {
		return ""
	}
	if b > len(line) {
		b = len(line)
	}
	return strings.TrimSpace(line[a:b])
}

func colFloats(line string, width int, n int) ([]float64, error) {
	ret := make([]float64, n)
	var err error
	for i := range ret {
		ret[i], err = strconv.ParseFloat(col(line, i*width, (i+1)*width), 64)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

//readFrames reads the "# Zone" records until the s.u. block. A new data block starts
//whenever the frame number decreases. first is the line number of lines[0], minus 1.
func (S *Setup) readFrames(lines []string, first int) error {
	block, before := 1, 0
	for i, line := range lines {
		if strings.HasPrefix(line, "---------------") {
			break
		}
		if !strings.HasPrefix(line, "# Zone") {
			continue
		}
		ln := first + i + 1
		if i+3 >= len(lines) {
			return malformed(ln, "frame record truncated")
		}
		fields := strings.Fields(line[len("# Zone"):])
		if len(fields) == 0 {
			return malformed(ln, "frame without number")
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return malformed(ln, "frame number: %s", err)
		}
		geo, err := colFloats(lines[i+1], 9, 6)
		if err != nil {
			return malformed(ln+1, "frame geometry: %s", err)
		}
		sc, err := colFloats(lines[i+2], 9, 2)
		if err != nil {
			return malformed(ln+2, "frame scale and thickness: %s", err)
		}
		ed, err := colFloats(lines[i+3], 9, 2)
		if err != nil {
			return malformed(ln+3, "frame orientation correction: %s", err)
		}
		if id < before {
			block++
		}
		before = id
		S.Frames = append(S.Frames, Frame{
			Block:     block,
			ID:        id,
			UVW:       [3]float64{geo[0], geo[1], geo[2]},
			Alpha:     geo[3],
			Beta:      geo[4],
			Phi:       geo[5],
			Use:       col(lines[i+1], 60, 61) == "T",
			Scale:     sc[0],
			Thickness: sc[1],
			EDPhi:     ed[0],
			EDTheta:   ed[1],
		})
	}
	return nil
}
