/*
 * interfaces.go, part of gocryst.
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
	"errors"
	"fmt"
)

// Row is one reflection as seen by the statistics routines.
type Row struct {
	Io      float64
	Ic      float64
	Isigma  float64
	Fo      float64
	Fc      float64
	Fsigma  float64
	Fweight float64
}

// Rows is the input contract for the R-factor calculations. Both raw and merged tables implement it.
// The capabilities are checked once, by the caller, instead of testing for columns row by row.
type Rows interface {
	Len() int
	Row(i int) Row

	//HasIntensities is false for tables that only carry amplitudes.
	HasIntensities() bool

	//HasWeights is true if the Fweight values of the rows can be used directly.
	HasWeights() bool
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type. Each call returns the decoration slice after the call. An empty string only retrieves the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// The kinds of errors returned by the readers. FileError values unwrap to one of them, so they can be checked with errors.Is.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUnknownFormat  = errors.New("unknown file format")
	ErrIncompatible   = errors.New("incompatible data sets")
)

// FileError is the error returned when a file can't be read or parsed. It fullfills Error.
type FileError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //1-based, 0 if the problem is not tied to a line.
	kind     error
	deco     []string
	critical bool
}

// NewFileError returns a new critical FileError of the given kind.
func NewFileError(kind error, message, filename string, line int, caller string) FileError {
	return FileError{message: message, filename: filename, line: line, kind: kind, deco: []string{caller}, critical: true}
}

func (err FileError) Error() string {
	where := err.filename
	if where == "" {
		where = "<input>"
	}
	if err.line > 0 {
		return fmt.Sprintf("%s:%d: %v: %s", where, err.line, err.kind, err.message)
	}
	return fmt.Sprintf("%s: %v: %s", where, err.kind, err.message)
}

// Decorate returns the decorations of the error with deco appended. FileError is a value,
// so the receiver is not changed; use WithCaller to get a decorated copy.
func (err FileError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Unwrap returns the kind of the error.
func (err FileError) Unwrap() error { return err.kind }

// FileName returns the file to which the error was associated
func (err FileError) FileName() string { return err.filename }

// Line returns the offending line, or 0.
func (err FileError) Line() int { return err.line }

// Critical returns true if the error is critical, false otherwise
func (err FileError) Critical() bool { return err.critical }

// WithCaller returns a copy of the error with caller added to its decorations.
func (err FileError) WithCaller(caller string) FileError {
	err.deco = append(err.deco[:len(err.deco):len(err.deco)], caller)
	return err
}

// WithFile returns a copy of the error with the file name set.
func (err FileError) WithFile(name string) FileError {
	err.filename = name
	return err
}

// errDecorate decorates the error with the caller's name before returning it, if
// the error implements Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if fe, ok := err.(FileError); ok {
		return fe.WithCaller(caller)
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
