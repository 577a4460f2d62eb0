/*
 * main_test.go, part of gocryst.
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
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(h [3]int, ic, io, isigma float64) string {
	return fmt.Sprintf("%4d%4d%4d%15.6E%15.6E%15.6E o    1%10.3f%10.2f%10.2f%10.2f%15.5E%10.2f%10.2f%10.2f\n",
		h[0], h[1], h[2], ic, io, isigma, 0.5, 1.0, 1.0, 0.27, 0.0657, 0.0, 0.0, 0.0)
}

const m50 = `title Test
cell 5.4 6.2 7.1 90 101.5 90
spgroup P21/c 14
symmetry x y z
symmetry -x y+1/2 -z+1/2
symmetry -x -y -z
symmetry x -y+1/2 z+1/2
refine
  fsquare 1 snlmx 0.7
end refine
`

func writeJob(Te *testing.T, dir, name string, delta float64) string {
	var b strings.Builder
	for _, r := range []struct {
		h      [3]int
		ic, io float64
	}{
		{[3]int{1, 2, 3}, 10, 12},
		{[3]int{-1, 2, -3}, 10, 8},
		{[3]int{1, 0, 0}, 4, 4.41},
		{[3]int{0, 1, 1}, 2, 2.2},
		{[3]int{2, 1, 0}, 6, 5},
	} {
		b.WriteString(line(r.h, r.ic+delta, r.io, 0.1))
	}
	p := filepath.Join(dir, name)
	require.NoError(Te, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRFactors(Te *testing.T) {
	dir := Te.TempDir()
	job := writeJob(Te, dir, "job.m83", 0)
	var b bytes.Buffer
	o := rfOptions{sigma: 3, instability: cryst.DefaultInstability, weights: "derived", merge: true, shells: 2}
	//no M50 yet, so nothing is merged
	require.NoError(Te, rfactors(&b, job, o, quiet()))
	assert.Contains(Te, b.String(), "5 reflections merged into 5")
	assert.NotContains(Te, b.String(), "completeness")

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "job.m50"), []byte(m50), 0o644))
	b.Reset()
	o.plot = filepath.Join(dir, "fofc.png")
	require.NoError(Te, rfactors(&b, job, o, quiet()))
	out := b.String()
	assert.Contains(Te, out, "5 reflections merged into 4")
	assert.Contains(Te, out, "completeness")
	assert.Equal(Te, 2, strings.Count(out, "shell "))
	_, err := os.Stat(o.plot)
	assert.NoError(Te, err)

	o.weights = "sigma"
	assert.Error(Te, rfactors(&b, job, o, quiet()))
	o.weights = "none"
	assert.Error(Te, rfactors(&b, filepath.Join(dir, "nothere.m83"), o, quiet()))
}

func TestZScore(Te *testing.T) {
	dir := Te.TempDir()
	job := writeJob(Te, dir, "job.m83", 0)
	inv := writeJob(Te, dir, "job_INV.m83", 0.5)
	assert.Equal(Te, inv, invName(job))
	assert.Equal(Te, "a/job_INV.m83.zst", invName("a/job.m83.zst"))
	var b bytes.Buffer
	require.NoError(Te, zscore(&b, job, inv, false, filepath.Join(dir, "z.png")))
	//the first refinement fits the 2nd, 4th and 5th reflections better.
	assert.Contains(Te, b.String(), "Block")
	assert.Contains(Te, b.String(), "       5       3       2")

	other := filepath.Join(dir, "other.m83")
	require.NoError(Te, os.WriteFile(other, []byte(line([3]int{1, 0, 0}, 1, 1, 0.1)), 0o644))
	err := zscore(&b, job, other, false, "")
	assert.True(Te, errors.Is(err, cryst.ErrIncompatible))
}

func TestBatch(Te *testing.T) {
	dir := Te.TempDir()
	for _, d := range []string{"a", "b"} {
		require.NoError(Te, os.MkdirAll(filepath.Join(dir, d), 0o755))
		writeJob(Te, filepath.Join(dir, d), "job.m83", 0)
	}
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "b", "broken.m83"), []byte("not a reflection file\n"), 0o644))
	c := config.Default()
	c.Folders = []string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}
	c.Workers = 2
	var b, l bytes.Buffer
	require.NoError(Te, batch(&b, c, log.New(&l, "", 0)))
	assert.Equal(Te, 2, strings.Count(b.String(), "Jana    Robs"))
	assert.Contains(Te, b.String(), filepath.Join(dir, "a", "job.m83"))
	assert.Contains(Te, l.String(), "broken.m83")
	//merging is on by default, as in rfactors.
	assert.Equal(Te, 2, strings.Count(b.String(), "MR      Robs"))
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestBatchWriteError(Te *testing.T) {
	dir := Te.TempDir()
	writeJob(Te, dir, "job.m83", 0)
	c := config.Default()
	c.Folders = []string{dir}
	c.Workers = 1
	var l bytes.Buffer
	require.NoError(Te, batch(failWriter{}, c, log.New(&l, "", 0)))
	assert.Contains(Te, l.String(), "writing results of "+filepath.Join(dir, "job.m83"))
	assert.Contains(Te, l.String(), "disk full")
}
