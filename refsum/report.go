/*
 * report.go, part of gocryst.
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

package refsum

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
)

const header = "File                              Parameters    Nobs    Nall  GOFobs  GOFall    Robs    Rall   wRall\n"

func stem(name string) string {
	s := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if len(s) > 40 {
		s = s[len(s)-40:]
	}
	return s
}

//Fprint writes one line for the summary, and one more for each of its blocks.
func (S *Summary) Fprint(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%-36s%8d%8d%8d%8.2f%8.2f%8.2f%8.2f%8.2f\n", stem(S.File), S.NParameters, S.Nobs, S.Nall, S.GOFobs, S.GOFall, S.Robs, S.Rall, S.WRall)
	if err != nil {
		return err
	}
	for _, b := range S.Blocks {
		_, err = fmt.Fprintf(w, "|%-34s %8s%8d%8d%8s%8s%8.2f%8.2f%8.2f\n", b.Name, "", b.Nobs, b.Nall, "", "", b.Robs, b.Rall, b.WRall)
		if err != nil {
			return err
		}
	}
	return nil
}

//Report reads all the given files and writes an overview, grouped by folder, to w.
//Files without a final summary are listed at the end. Files that can't be read
//are logged and skipped. It returns the number of complete summaries written.
func Report(w io.Writer, files []string) (int, error) {
	var incomplete []string
	folder := ""
	n := 0
	for _, f := range files {
		S, err := FileRead(f)
		if errors.Is(err, ErrIncomplete) {
			incomplete = append(incomplete, f)
			continue
		} else if err != nil {
			log.Printf("goCryst/refsum.Report: skipping %s: %v", f, err)
			continue
		}
		if d := filepath.Dir(f); d != folder {
			folder = d
			if _, err := fmt.Fprintf(w, "\n > > %s < <\n%s", d, header); err != nil {
				return n, err
			}
		}
		if err := S.Fprint(w); err != nil {
			return n, err
		}
		n++
	}
	for _, f := range incomplete {
		if _, err := fmt.Fprintf(w, "INCOMPLETE REFINEMENT OUTPUT: %s\n", f); err != nil {
			return n, err
		}
	}
	return n, nil
}
