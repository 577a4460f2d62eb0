/*
 * m83_test.go, part of gocryst.
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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestM83Kinematical(Te *testing.T) {
	lines := []string{
		m83Line(Miller{1, 0, 0}, 4, 4.41, 0.1, 149, ""),
		m83Line(Miller{0, 1, 0}, 4, 4.41, 0.1, 149, ""),
		m83Line(Miller{1, 1, 0}, 1, 1.0, 0.2, 149, ""),
		m83Line(Miller{-2, 3, -11}, 25.9254, -28.9628, 0.4664, 149, ""),
	}
	T, err := M83Read(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(Te, err)
	require.Equal(Te, 4, T.Len())
	assert.False(Te, T.Schema.Dynamical)
	assert.Equal(Te, "Jana2006", T.Schema.Program)
	r := T.Refl[3]
	assert.Equal(Te, Miller{-2, 3, -11}, r.H)
	assert.InDelta(Te, 25.9254, r.Ic, 1e-9)
	assert.InDelta(Te, -28.9628, r.Io, 1e-9)
	assert.InDelta(Te, 0.4664, r.Isigma, 1e-9)
	assert.InDelta(Te, 0.5, r.WDF, 1e-9)
	assert.InDelta(Te, 0.27, r.InvWeight, 1e-9)
	assert.Equal(Te, 0.0, r.Fo)
	assert.Equal(Te, 1, r.Frame)
	assert.Equal(Te, 1, r.Block)
	assert.InDelta(Te, 2.1, T.Refl[0].Fo, 1e-12)
}

func TestM83DynamicalBlocks(Te *testing.T) {
	var b strings.Builder
	b.WriteString("Block1\n")
	b.WriteString(m83Line(Miller{2, 2, -7}, 112.63, 299.8, 203.2, 155, "1") + "\r\n")
	b.WriteString(m83Line(Miller{1, -4, -5}, 464.23, 402.3, 168.3, 155, "12") + "\r\n")
	b.WriteString("Block2\n")
	b.WriteString(m83Line(Miller{1, -4, -5}, 464.23, 402.3, 168.3, 155, "3%2") + "\n")
	T, err := M83Read(strings.NewReader(b.String()))
	require.NoError(Te, err)
	require.Equal(Te, 3, T.Len())
	assert.True(Te, T.Schema.Dynamical)
	assert.Equal(Te, 12, T.Refl[1].Frame)
	assert.Equal(Te, 1, T.Refl[1].Block)
	assert.Equal(Te, 3, T.Refl[2].Frame)
	assert.Equal(Te, 2, T.Refl[2].Block)
	assert.Equal(Te, []int{1, 2}, T.Blocks())
	assert.Equal(Te, []int{1, 3, 12}, T.Frames())
	assert.Equal(Te, 2, T.Distinct())
}

func TestM83Jana2020(Te *testing.T) {
	in := m83Line(Miller{1, 2, 3}, 10, 11, 1, 171, "7%1") + "\n"
	T, err := M83Read(strings.NewReader(in))
	require.NoError(Te, err)
	assert.Equal(Te, "Jana2020", T.Schema.Program)
	assert.True(Te, T.Schema.Dynamical)
	assert.Equal(Te, 7, T.Refl[0].Frame)
}

func TestM83UnknownFormat(Te *testing.T) {
	in := m83Line(Miller{1, 2, 3}, 10, 11, 1, 149, "") + "  \n"
	_, err := M83Read(strings.NewReader(in))
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrUnknownFormat), err.Error())
}

// One corrupt line invalidates the whole file.
func TestM83Malformed(Te *testing.T) {
	good := m83Line(Miller{1, 2, 3}, 10, 11, 1, 149, "")
	bad := []byte(m83Line(Miller{1, 2, 4}, 10, 11, 1, 149, ""))
	copy(bad[30:34], "x.yz")
	in := good + "\n" + string(bad) + "\n" + good + "\n"
	T, err := M83Read(strings.NewReader(in))
	require.Error(Te, err)
	assert.Nil(Te, T)
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	var fe FileError
	require.True(Te, errors.As(err, &fe))
	assert.Equal(Te, 2, fe.Line())
}

func TestM83FileReadDecorations(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.m83")
	in := m83Line(Miller{1, 2, 3}, 10, 11, 1, 149, "") + "  \n"
	require.NoError(Te, os.WriteFile(name, []byte(in), 0o644))
	_, err := M83FileRead(name)
	var fe FileError
	require.True(Te, errors.As(err, &fe))
	assert.Equal(Te, name, fe.FileName())
	assert.Equal(Te, []string{"M83Read", "M83FileRead"}, fe.Decorate(""))
	assert.Equal(Te, []string{"M83Read", "M83FileRead", "extra"}, fe.Decorate("extra"))
	assert.Equal(Te, []string{"M83Read", "M83FileRead"}, fe.Decorate(""))
}

func TestM83ZoneError(Te *testing.T) {
	in := m83Line(Miller{1, 2, 3}, 10, 11, 1, 155, "a%1") + "\n"
	_, err := M83Read(strings.NewReader(in))
	assert.True(Te, errors.Is(err, ErrMalformedInput))
}

func TestM83FileReadCompressed(Te *testing.T) {
	dir := Te.TempDir()
	plain := m83Line(Miller{1, 0, 0}, 4, 4.41, 0.1, 164, "") + "\n" + m83Line(Miller{0, 0, 2}, 1, 1, 0.1, 164, "") + "\n"
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(Te, err)
	_, err = w.Write([]byte(plain))
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	name := filepath.Join(dir, "job.m83.zst")
	require.NoError(Te, os.WriteFile(name, buf.Bytes(), 0o644))
	T, err := M83FileRead(name)
	require.NoError(Te, err)
	assert.Equal(Te, 2, T.Len())
	assert.Equal(Te, name, T.Name)

	_, err = M83FileRead(filepath.Join(dir, "nothere.m83"))
	require.Error(Te, err)
	var fe FileError
	require.True(Te, errors.As(err, &fe))
	assert.Equal(Te, filepath.Join(dir, "nothere.m83"), fe.FileName())
	assert.True(Te, fe.Critical())
}

func TestJobFiles(Te *testing.T) {
	assert.Equal(Te, []string{"dir/job.m50", "dir/job.m83"}, JobFiles("dir/job.m83.gz", ".m50", ".m83"))
	assert.Equal(Te, []string{"a.b/job.m50"}, JobFiles("a.b/job", ".m50"))
}
