/*
 * refsum.go, part of gocryst.
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

//Package refsum extracts the final figures of merit from Jana refinement listings (.ref files)
//and prints an overview of many refinements at once.
package refsum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	cryst "github.com/rmera/gocryst"
)

//ErrIncomplete is the kind of error returned for listings that have no final summary,
//usually because the refinement didn't finish.
var ErrIncomplete = errors.New("incomplete refinement output")

//Block contains the figures of merit of one data block of a multi-block refinement.
type Block struct {
	Name        string
	Robs        float64
	WRobs       float64
	Rall        float64
	WRall       float64
	Nobs        int
	Nall        int
	NParameters int
}

//Summary contains the final figures of merit of a refinement, as printed (in %) by Jana.
type Summary struct {
	File        string
	NParameters int
	Nobs        int
	Nall        int
	GOFobs      float64
	GOFall      float64
	Robs        float64
	WRobs       float64
	Rall        float64
	WRall       float64
	Multiblock  bool
	Blocks      []Block
}

//FileRead reads the summary of the .ref file name.
func FileRead(name string) (*Summary, error) {
	f, err := cryst.OpenFile(name)
	if err != nil {
		return nil, cryst.NewFileError(cryst.ErrMalformedInput, err.Error(), name, 0, "refsum.FileRead")
	}
	defer f.Close()
	S, err := Read(f)
	if err != nil {
		if e, ok := err.(cryst.FileError); ok {
			e = e.WithFile(name).WithCaller("refsum.FileRead")
			return nil, e
		}
		return nil, err
	}
	S.File = name
	return S, nil
}

func malformed(line int, format string, a ...interface{}) error {
	return cryst.NewFileError(cryst.ErrMalformedInput, fmt.Sprintf(format, a...), "", line, "refsum.Read")
}

//Read reads the summary of a .ref listing from r. It returns an error of kind
//ErrIncomplete if there is no "Last screen information window" section.
func Read(r io.Reader) (*Summary, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, cryst.NewFileError(cryst.ErrMalformedInput, err.Error(), "", 0, "refsum.Read")
	}
	S := new(Summary)
	found := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "Last screen information window"):
			end, err := S.readScreen(lines, i)
			if err != nil {
				return nil, err
			}
			found = true
			if !S.Multiblock {
				return S, nil
			}
			i = end
		case strings.HasPrefix(line, "* R-factors overview *"):
			end, err := S.readOverview(lines, i+2)
			if err != nil {
				return nil, err
			}
			i = end
		}
	}
	if !found {
		return nil, cryst.NewFileError(ErrIncomplete, "no final summary found", "", 0, "refsum.Read")
	}
	return S, nil
}

//readScreen reads the summary box that starts at lines[start], and returns the
//index of its last line.
func (S *Summary) readScreen(lines []string, start int) (int, error) {
	var ndata, gof, rdata string
	var ndl, gofl, rl int
	dashes := 0
	i := start
	for ; i < len(lines) && dashes < 2; i++ {
		l := lines[i]
		switch {
		case strings.Contains(l, "-"):
			dashes++
		case strings.HasPrefix(l, "|R factors"):
			ndata, ndl = l, i+1
		case strings.HasPrefix(l, "|Overall R factors"):
			S.Multiblock = true
			ndata, ndl = l, i+1
		case strings.HasPrefix(l, "|GOF(obs)="):
			gof, gofl = l, i+1
		case strings.HasPrefix(l, "|R(obs)="):
			rdata, rl = l, i+1
		case strings.HasPrefix(l, "***"):
			dashes = 2
		}
	}
	if ndata == "" || gof == "" || rdata == "" {
		return i, cryst.NewFileError(ErrIncomplete, "summary window without R factors", "", start+1, "refsum.Read")
	}
	a, b := strings.Index(ndata, "["), strings.Index(ndata, "]")
	if a < 0 || b < a {
		return i, malformed(ndl, "no [Nall=Nobs+...] field")
	}
	//[Nall=Nobs+Nrest/Nparameters]
	counts := strings.FieldsFunc(ndata[a+1:b], func(r rune) bool { return r == '=' || r == '+' || r == '/' })
	if len(counts) != 4 {
		return i, malformed(ndl, "can't read %q", ndata[a:b+1])
	}
	n, err := ints(counts[0], counts[1], counts[3])
	if err != nil {
		return i, malformed(ndl, "%s", err)
	}
	S.Nall, S.Nobs, S.NParameters = n[0], n[1], n[2]
	f := strings.Fields(gof)
	if len(f) < 4 {
		return i, malformed(gofl, "GOF line too short")
	}
	g, err := floats(f[1], f[3])
	if err != nil {
		return i, malformed(gofl, "%s", err)
	}
	S.GOFobs, S.GOFall = g[0], g[1]
	f = strings.Fields(rdata)
	if len(f) < 8 {
		return i, malformed(rl, "R factor line too short")
	}
	rf, err := floats(f[1], f[3], f[5], f[7])
	if err != nil {
		return i, malformed(rl, "%s", err)
	}
	S.Robs, S.WRobs, S.Rall, S.WRall = rf[0], rf[1], rf[2], rf[3]
	return i - 1, nil
}

//readOverview reads the per-block table that starts at lines[start] and returns
//the index of its last line.
func (S *Summary) readOverview(lines []string, start int) (int, error) {
	name := ""
	i := start
	for ; i < len(lines); i++ {
		l := lines[i]
		f := strings.Fields(l)
		switch {
		case strings.HasPrefix(l, "***"):
			return i, nil
		case strings.HasPrefix(l, "Block"):
			name = strings.TrimSpace(strings.SplitN(l, "->", 2)[0])
		case strings.HasPrefix(l, "#") && strings.Contains(l, ":"):
			name = "Block" + strings.TrimSpace(strings.SplitN(l[1:], ":", 2)[0])
		case len(f) == 9:
			//cycle Robs wRobs Rall wRall Nobs Nall Nparameters ratio
			rf, err := floats(f[1], f[2], f[3], f[4])
			if err != nil {
				return i, malformed(i+1, "%s", err)
			}
			n, err := ints(f[5], f[6], f[7])
			if err != nil {
				return i, malformed(i+1, "%s", err)
			}
			S.Blocks = append(S.Blocks, Block{Name: name, Robs: rf[0], WRobs: rf[1], Rall: rf[2], WRall: rf[3], Nobs: n[0], Nall: n[1], NParameters: n[2]})
		}
	}
	return i, nil
}

func ints(s ...string) ([]int, error) {
	ret := make([]int, len(s))
	var err error
	for i, v := range s {
		ret[i], err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func floats(s ...string) ([]float64, error) {
	ret := make([]float64, len(s))
	var err error
	for i, v := range s {
		ret[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

//Find returns the .ref files in the given folders, sorted. If none is found, the folders
//are searched recursively. With no folders, the current directory is used.
func Find(folders ...string) ([]string, error) {
	if len(folders) == 0 {
		folders = []string{"."}
	}
	var ret []string
	for _, d := range folders {
		m, err := filepath.Glob(filepath.Join(d, "*.ref"))
		if err != nil {
			return nil, err
		}
		ret = append(ret, m...)
	}
	if len(ret) > 0 {
		sort.Strings(ret)
		return ret, nil
	}
	for _, d := range folders {
		err := filepath.WalkDir(d, func(path string, e fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".ref") {
				ret = append(ret, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(ret)
	return ret, nil
}
