/*
 * commands.go, part of gocryst.
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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/config"
	"github.com/rmera/gocryst/frames"
	"github.com/rmera/gocryst/histo"
	"github.com/rmera/gocryst/refsum"
	"github.com/rmera/gocryst/rplot"
	"github.com/rmera/gocryst/rstat"
)

type rfOptions struct {
	sigma       float64
	instability float64
	weights     string
	shells      int
	merge       bool
	plot        string //file name of the Fo vs Fc plot, none if empty.
}

func (o rfOptions) stats() (*rstat.Options, error) {
	w, err := rstat.ParseWeightSource(o.weights, o.instability)
	if err != nil {
		return nil, err
	}
	return &rstat.Options{ObservedSigma: o.sigma, Weights: w}, nil
}

func (o *rfOptions) flags(fs *flag.FlagSet) {
	fs.Float64Var(&o.sigma, "sigma", cryst.DefaultObservedSigma, "reflections with Io > sigma*Isigma are observed")
	fs.Float64Var(&o.instability, "instability", cryst.DefaultInstability, "instability factor for the weights")
	fs.StringVar(&o.weights, "weights", "derived", "weights for wR: derived, provided or none")
}

func rfactorsCmd(args []string, log *log.Logger) error {
	fs := flag.NewFlagSet("rfactors", flag.ContinueOnError)
	o := rfOptions{merge: true}
	o.flags(fs)
	fs.IntVar(&o.shells, "shells", 0, "number of resolution shells to report, needs the M50 file")
	fs.StringVar(&o.plot, "plot", "", "write a Fo vs Fc plot to this file (png, svg, pdf)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("one reflection file (M83) needed")
	}
	return rfactors(os.Stdout, fs.Arg(0), o, log)
}

//rfactors writes the R factors of the reflection file name to w. The symmetry and cell
//are read from the M50 file of the same job. Without it, no equivalents are merged.
func rfactors(w io.Writer, name string, o rfOptions, log *log.Logger) error {
	O, err := o.stats()
	if err != nil {
		return err
	}
	T, err := cryst.M83FileRead(name, o.instability)
	if err != nil {
		return err
	}
	ops := []cryst.SymOp{cryst.IdentityOp()}
	var res *cryst.Resolver
	setup, err := cryst.M50FileRead(cryst.JobFiles(name, ".m50")[0])
	if err != nil {
		log.Printf("%s: no symmetry available, equivalents will not be merged: %v", name, err)
	} else {
		ops = setup.Symmetry
		if res, err = cryst.NewResolver(setup.Cell); err != nil {
			log.Printf("%s: unusable cell: %v", name, err)
			res = nil
		}
	}
	blocks := T.Blocks()
	fmt.Fprintf(w, "%s: %s, %d reflections, %d blocks\n", name, T.Schema, T.Len(), len(blocks))
	raw := rstat.Calc(T, O)
	if raw.ClampedIWeights > 0 {
		log.Printf("%s: %d reflections with Io=0 had their intensity weight set to 0", name, raw.ClampedIWeights)
	}
	fmt.Fprintf(w, "%-8s%s\n", "R", raw)
	L := rstat.ListingFactors(T)
	fmt.Fprintf(w, "%-8sRobs %6.2f Rall %6.2f wRall %6.2f Nobs %d Nall %d\n", "Jana", 100*L.Robs, 100*L.Rall, 100*L.WRall, L.Nobs, L.Nall)
	var tab histo.Indexed = T
	var M *cryst.MergedTable
	if o.merge {
		M = cryst.Merge(T, ops, &cryst.MergeOptions{ObservedSigma: o.sigma, Instability: o.instability})
		fmt.Fprintf(w, "%-8s%s\n", "MR", rstat.Calc(M, O))
		fmt.Fprintf(w, "%d reflections merged into %d, %d duplicated indices\n", T.Len(), M.Len(), M.Duplicates)
		tab = M
	}
	if len(blocks) > 1 {
		for _, b := range rstat.ByBlock(T, O) {
			fmt.Fprintf(w, "block %-2d%s\n", b.Block, b.RFactors)
		}
	}
	if res != nil {
		found, total := cryst.CompletenessWithin(T.Indices(), ops, res, setup.GMax)
		if total > 0 {
			fmt.Fprintf(w, "completeness %.1f%% (%d of %d within gmax %.2f)\n", 100*float64(found)/float64(total), found, total, setup.GMax)
		}
		if o.shells > 0 {
			div := histo.EqualVolumeDividers(histo.MaxSinThetaOverLambda(tab.Indices(), res), o.shells)
			for _, s := range histo.Shells(tab, res, div, O) {
				fmt.Fprintf(w, "shell %s\n", s)
			}
		}
	}
	if o.plot != "" {
		sets, names := []cryst.Rows{T}, []string{"raw"}
		if M != nil {
			sets, names = append(sets, M), append(names, "merged")
		}
		if err := rplot.FoFc(sets, names, filepath.Base(name), o.plot); err != nil {
			return err
		}
	}
	return nil
}

//invName returns the name of the reflection file of the inverted structure, job_INV.m83 for job.m83.
func invName(name string) string {
	comp := ""
	for _, c := range []string{".zst", ".zstd", ".gz"} {
		if strings.HasSuffix(name, c) {
			comp = c
			name = strings.TrimSuffix(name, c)
			break
		}
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_INV" + ext + comp
}

func zscoreCmd(args []string, log *log.Logger) error {
	fs := flag.NewFlagSet("zscore", flag.ContinueOnError)
	weighted := fs.Bool("weighted", false, "use the experimental correction for reflections that can't tell the models apart")
	plot := fs.String("plot", "", "write a bar plot of the z-scores to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("one or two reflection files (M83) needed")
	}
	n1 := fs.Arg(0)
	n2 := invName(n1)
	if fs.NArg() == 2 {
		n2 = fs.Arg(1)
	}
	if *weighted {
		log.Printf("the weighted z-score is experimental")
	}
	return zscore(os.Stdout, n1, n2, *weighted, *plot)
}

func zscore(w io.Writer, n1, n2 string, weighted bool, plot string) error {
	a, err := cryst.M83FileRead(n1)
	if err != nil {
		return err
	}
	b, err := cryst.M83FileRead(n2)
	if err != nil {
		return err
	}
	if err := rstat.CheckAligned(a, b); err != nil {
		return err
	}
	C := rstat.CompareBlocks(a, b, weighted)
	fmt.Fprintf(w, "#1 %s\n#2 %s\n", n1, n2)
	fmt.Fprintf(w, "%5s%8s%8s%8s%8s%9s %10s%10s\n", "Block", "N", "k", "N-k", "z", "p", "Rall(#1)", "Rall(#2)")
	for _, c := range C {
		label := fmt.Sprintf("%5d", c.Block)
		if c.Combined {
			label = "comb."
		}
		fmt.Fprintf(w, "%s%8d%8d%8d%7.1fσ%8.1f%% %10.4f%10.4f\n", label, c.N, c.K, c.N-c.K, c.Z, 100*c.P, c.Rall1, c.Rall2)
	}
	if plot != "" {
		return rplot.ZScores(C, filepath.Base(n1)+" vs "+filepath.Base(n2), plot)
	}
	return nil
}

func framesCmd(args []string, log *log.Logger) error {
	fs := flag.NewFlagSet("frames", flag.ContinueOnError)
	var o rfOptions
	o.flags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("the M42 file, and optionally the M83 file, needed")
	}
	m83 := cryst.JobFiles(fs.Arg(0), ".m83")[0]
	if fs.NArg() == 2 {
		m83 = fs.Arg(1)
	}
	return frameFactors(os.Stdout, fs.Arg(0), m83, o)
}

func frameFactors(w io.Writer, m42, m83 string, o rfOptions) error {
	O, err := o.stats()
	if err != nil {
		return err
	}
	S, err := frames.M42FileRead(m42)
	if err != nil {
		return err
	}
	T, err := cryst.M83FileRead(m83, o.instability)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%5s%6s%4s%9s%10s%7s%7s%8s%8s%8s\n", "Block", "Frame", "Use", "Scale", "Thickness", "Nobs", "Nall", "Robs", "Rall", "wRall")
	for _, f := range rstat.ByFrame(T, O) {
		use, scale, thick := "?", "", ""
		if fr, ok := S.Frame(f.Block, f.Frame); ok {
			use = "F"
			if fr.Use {
				use = "T"
			}
			scale = fmt.Sprintf("%.4f", fr.Scale)
			thick = fmt.Sprintf("%.1f", fr.Thickness)
		}
		fmt.Fprintf(w, "%5d%6d%4s%9s%10s%7d%7d%8.2f%8.2f%8.2f\n", f.Block, f.Frame, use, scale, thick, f.Nobs, f.Nall, 100*f.Robs, 100*f.Rall, 100*f.WRall)
	}
	return nil
}

func refsumCmd(args []string, log *log.Logger) error {
	files, err := refsum.Find(args...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Printf("no Jana refinements found")
		return nil
	}
	log.Printf("%d Jana refinements found", len(files))
	_, err = refsum.Report(os.Stdout, files)
	return err
}

func batchCmd(args []string, log *log.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("one argument is needed: path of the configuration file")
	}
	c, err := config.New(args[0])
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	return batch(os.Stdout, c, log)
}

//batch runs rfactors on every job of the configuration, c.Workers at a time. Failed jobs
//are logged and don't stop the others. The output of each job is written in one piece.
func batch(w io.Writer, c config.Config, log *log.Logger) error {
	jobs, err := c.Jobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Printf("no reflection files found in %v", c.Folders)
		return nil
	}
	o := rfOptions{sigma: c.ObservedSigma, instability: c.Instability, weights: c.Weights, shells: c.Shells, merge: c.Merge}
	ch := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < c.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				jo := o
				if c.Plot {
					jo.plot = cryst.JobFiles(job, "_fofc.png")[0]
				}
				var b bytes.Buffer
				if err := rfactors(&b, job, jo, log); err != nil {
					log.Println(fmt.Errorf("rfactors %s: %w", job, err))
					continue
				}
				b.WriteString("\n")
				mu.Lock()
				_, err := w.Write(b.Bytes())
				mu.Unlock()
				if err != nil {
					log.Println(fmt.Errorf("writing results of %s: %w", job, err))
				}
			}
		}()
	}
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()
	return nil
}
