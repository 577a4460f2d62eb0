/*
 * histo.go, part of gocryst.
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

package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram. Values equal or larger than the last divider, or smaller than the first,
//are not counted.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

type jsonData struct {
	ID         int       `json:"id"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{ID: D.id, Normalized: D.normalized, Total: D.total, Dividers: D.dividers, Histo: D.histo})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("goCryst/histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

//String prints a -hopefully- pretty string representation of
//the histogram, in 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%5.3f-%5.3f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%11.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns a new histogram from the dividers and rawdata given.
//rawdata can be nil. In that case, an empty histogram is created.
//If an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1. rawdata is not modified.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("goCryst/histo.NewData: at least 2 dividers are needed")
	}
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

//Bin returns the index of the bin where v would be counted, or -1 if
//v is out of the range of the histogram.
func (D *Data) Bin(v float64) int {
	return bin(D.dividers, v)
}

func bin(dividers []float64, v float64) int {
	if math.IsNaN(v) || v < dividers[0] || v >= dividers[len(dividers)-1] {
		return -1
	}
	return sort.Search(len(dividers), func(i int) bool { return dividers[i] > v }) - 1
}

//AddData adds the given data point(s) to the histogram
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		if j := D.Bin(v); j >= 0 {
			D.histo[j]++
			D.total++
		}
	}
	//if it was normalized, we return it to that state
	if norma {
		D.Normalize()
	}
}

//Total returns the number of data points counted in the histogram.
func (D *Data) Total() int {
	return D.total
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//CopyDividers copies the dividers of the histogram into dest, if given and large enough, or into a new slice.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	copy(d, D.dividers)
	return d
}

//Copy copies the bins of the histogram into dest, if given and large enough, or into a new slice.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

//View returns the bins of the histogram, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Add adds the histograms a and b putting the result in the receiver.
func (D *Data) Add(a, b *Data) {
	D.combine(a, b, func(x, y float64) float64 { return x + y })
	D.total = a.total + b.total
}

//Sub substracts the histogram b from a, puting the results in the receiver.
//if abs is given and true, absolute values of the differences are stored.
func (D *Data) Sub(a, b *Data, abs ...bool) {
	f := func(x, y float64) float64 { return x - y }
	if len(abs) > 0 && abs[0] {
		f = func(x, y float64) float64 { return math.Abs(x - y) }
	}
	D.combine(a, b, f)
}

func (D *Data) combine(a, b *Data, f func(x, y float64) float64) {
	if !floats.Equal(a.dividers, b.dividers) {
		panic("goCryst/histo.Data: dividers must match in combined histograms")
	}
	D.dividers = a.CopyDividers(D.dividers)
	if len(D.histo) != len(a.histo) {
		D.histo = make([]float64, len(a.histo))
	}
	for i := range a.histo {
		D.histo[i] = f(a.histo[i], b.histo[i])
	}
	D.normalized = a.normalized && b.normalized
}

//Sum returns the sum of all the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//ReHisto replaces the contents of the histogram with a histogram of rawdata
//over the given dividers.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := make([]float64, 0, len(rawdata))
	for _, v := range rawdata {
		//stat.Histogram panics instead of omitting the values that are off limits
		//so we remove them here before the call.
		if bin(dividers, v) >= 0 {
			data = append(data, v)
		}
	}
	sort.Float64s(data)
	D.dividers = dividers
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, dividers, data, nil)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}
