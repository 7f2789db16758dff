// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// Every vector uses nulls to store the rows holding a NULL value.
// You can think of Nulls as a bitmap. A row is valid iff it is not contained.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	Np *roaring.Bitmap
}

func NewWithSize(_ int) *Nulls {
	return &Nulls{Np: roaring.New()}
}

func Build(size int, rows ...uint64) *Nulls {
	nsp := NewWithSize(size)
	Add(nsp, rows...)
	return nsp
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return &Nulls{Np: nil}
	}
	return &Nulls{
		Np: nsp.Np.Clone(),
	}
}

// Or performs union operation on Nulls nsp,m and store the result in r
func Or(nsp, m, r *Nulls) {
	if !Any(nsp) && !Any(m) {
		r.Np = nil
		return
	}

	r.Np = roaring.New()
	if Any(nsp) {
		r.Np.Or(nsp.Np)
	}
	if Any(m) {
		r.Np.Or(m.Np)
	}
}

func Reset(nsp *Nulls) {
	if nsp.Np != nil {
		nsp.Np.Clear()
	}
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Size estimates the memory usage of the Nulls.
func Size(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetSizeInBytes())
}

// Length returns the number of integers contained in the Nulls
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

func String(nsp *Nulls) string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint64) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(uint32(row))
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	for _, row := range rows {
		nsp.Np.Add(uint32(row))
	}
}

// AddRange marks [start, end) as null.
func AddRange(nsp *Nulls, start, end uint64) {
	if start >= end {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	nsp.Np.AddRange(start, end)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(uint32(row))
	}
}

// Set performs union operation on Nulls nsp,m and store the result in nsp
func Set(nsp, m *Nulls) {
	if Any(m) {
		if nsp.Np == nil {
			nsp.Np = roaring.New()
		}
		nsp.Np.Or(m.Np)
	}
}

// SetWithBias unions m shifted by bias into nsp, used when a vector is
// appended behind another one.
func SetWithBias(nsp, m *Nulls, bias uint64) {
	if !Any(m) {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	it := m.Np.Iterator()
	for it.HasNext() {
		nsp.Np.Add(uint32(uint64(it.Next()) + bias))
	}
}

// FilterCount returns the number count that appears in both nsp and sel
func FilterCount(nsp *Nulls, sels []int64) int {
	var cnt int

	if !Any(nsp) {
		return cnt
	}
	for _, sel := range sels {
		if nsp.Np.Contains(uint32(sel)) {
			cnt++
		}
	}
	return cnt
}

func RemoveRange(nsp *Nulls, start, end uint64) {
	if nsp.Np != nil {
		nsp.Np.RemoveRange(start, end)
	}
}

// Range adds the numbers in nsp starting at start and ending at end to m.
// `bias` represents the starting offset used for the Range Output
// Return the result
func Range(nsp *Nulls, start, end, bias uint64, m *Nulls) *Nulls {
	if !Any(nsp) {
		return m
	}
	if m.Np == nil {
		m.Np = roaring.New()
	}
	for ; start < end; start++ {
		if nsp.Np.Contains(uint32(start)) {
			m.Np.Add(uint32(start - bias))
		}
	}
	return m
}

// Filter keeps the rows of sels, renumbered by their position in sels.
func Filter(nsp *Nulls, sels []int64) *Nulls {
	if !Any(nsp) || len(sels) == 0 {
		return nsp
	}
	np := roaring.New()
	for i, sel := range sels {
		if nsp.Np.Contains(uint32(sel)) {
			np.Add(uint32(i))
		}
	}
	nsp.Np = np
	return nsp
}

func (nsp *Nulls) Any() bool {
	return Any(nsp)
}

func (nsp *Nulls) Set(row uint64) {
	Add(nsp, row)
}

func (nsp *Nulls) Contains(row uint64) bool {
	return Contains(nsp, row)
}

func (nsp *Nulls) Count() int {
	return Length(nsp)
}

func (nsp *Nulls) Show() ([]byte, error) {
	if nsp == nil || nsp.Np == nil {
		return nil, nil
	}
	return nsp.Np.ToBytes()
}

func (nsp *Nulls) Read(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	nsp.Np = roaring.New()
	return nsp.Np.UnmarshalBinary(data)
}

func (nsp *Nulls) Or(m *Nulls) *Nulls {
	switch {
	case !Any(m):
		return nsp
	case nsp.Np == nil:
		nsp.Np = m.Np.Clone()
		return nsp
	default:
		nsp.Np.Or(m.Np)
		return nsp
	}
}

func (nsp *Nulls) IsSame(m *Nulls) bool {
	if !Any(nsp) || !Any(m) {
		return Any(nsp) == Any(m)
	}
	return nsp.Np.Equals(m.Np)
}

func (nsp *Nulls) ToArray() []uint64 {
	if !Any(nsp) {
		return []uint64{}
	}
	rows := make([]uint64, 0, nsp.Np.GetCardinality())
	it := nsp.Np.Iterator()
	for it.HasNext() {
		rows = append(rows, uint64(it.Next()))
	}
	return rows
}

// Foreach calls fn for every null row in ascending order.
func (nsp *Nulls) Foreach(fn func(row uint64)) {
	if !Any(nsp) {
		return
	}
	it := nsp.Np.Iterator()
	for it.HasNext() {
		fn(uint64(it.Next()))
	}
}
