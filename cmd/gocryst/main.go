/*
 * main.go, part of gocryst.
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

//gocryst prints the figures of merit of Jana 3D ED refinements.
//
//Usage:
//
//	gocryst rfactors [flags] job.m83
//	gocryst zscore [flags] job.m83 [job_INV.m83]
//	gocryst frames [flags] job.m42 [job.m83]
//	gocryst refsum [folder...]
//	gocryst batch config.toml
//
//Run gocryst <command> -h for the flags of each command.
package main

import (
	"fmt"
	"log"
	"os"
)

const usage = `usage: gocryst <command> [flags] [arguments]

commands:
  rfactors  R factors of a refinement, before and after merging equivalents
  zscore    z-score comparison of two refinements (absolute structure)
  frames    R factors per frame, with the refined frame parameters
  refsum    overview of the .ref listings in one or more folders
  batch     rfactors over many folders, from a TOML configuration file
`

type command func(args []string, log *log.Logger) error

func main() {
	log := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmds := map[string]command{
		"rfactors": rfactorsCmd,
		"zscore":   zscoreCmd,
		"frames":   framesCmd,
		"refsum":   refsumCmd,
		"batch":    batchCmd,
	}
	f, ok := cmds[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err := f(os.Args[2:], log); err != nil {
		log.Fatal(fmt.Errorf("%s: %w", os.Args[1], err))
	}
}
