// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"bytes"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
)

// StringHashMapCell holds a reference to key bytes owned by the arena the
// map was initialised with. Mapped == 0 marks an empty cell.
type StringHashMapCell struct {
	Hash   uint64
	Ref    arena.Ref
	Mapped uint64
}

// StringHashMap maps serialized keys to dense group ids. Key bytes are
// copied into the arena once, on first insertion, and never freed on their
// own.
type StringHashMap struct {
	arena *arena.Arena

	cellCnt     uint64
	cellCntMask uint64
	elemCnt     uint64
	maxElemCnt  uint64
	cells       []StringHashMapCell
}

func (ht *StringHashMap) Init(a *arena.Arena) {
	if a == nil {
		a = arena.New(arena.DefaultChunkSize)
	}
	ht.arena = a
	ht.cellCnt = kInitialBucketCnt
	ht.cellCntMask = kInitialBucketCnt - 1
	ht.elemCnt = 0
	ht.maxElemCnt = kInitialBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	ht.cells = make([]StringHashMapCell, kInitialBucketCnt)
}

func (ht *StringHashMap) Arena() *arena.Arena {
	return ht.arena
}

// Insert returns the group id of key. The caller keeps ownership of key.
func (ht *StringHashMap) Insert(key []byte) (mapped uint64, inserted bool) {
	ht.resizeOnDemand(1)
	return ht.insert(BytesHash(key), key)
}

func (ht *StringHashMap) InsertBatch(keys [][]byte, values []uint64) {
	ht.resizeOnDemand(len(keys))
	for i, key := range keys {
		values[i], _ = ht.insert(BytesHash(key), key)
	}
}

func (ht *StringHashMap) insert(hash uint64, key []byte) (uint64, bool) {
	cell := ht.findCell(hash, key)
	if cell.Mapped != 0 {
		return cell.Mapped, false
	}
	ht.elemCnt++
	cell.Hash = hash
	cell.Ref = ht.arena.Copy(key)
	cell.Mapped = ht.elemCnt
	return cell.Mapped, true
}

// Find returns 0 for an absent key.
func (ht *StringHashMap) Find(key []byte) uint64 {
	return ht.findCell(BytesHash(key), key).Mapped
}

func (ht *StringHashMap) FindBatch(keys [][]byte, values []uint64) {
	for i, key := range keys {
		values[i] = ht.Find(key)
	}
}

func (ht *StringHashMap) findCell(hash uint64, key []byte) *StringHashMapCell {
	for idx := hash & ht.cellCntMask; true; idx = (idx + 1) & ht.cellCntMask {
		cell := &ht.cells[idx]
		if cell.Mapped == 0 {
			return cell
		}
		if cell.Hash == hash && int(cell.Ref.Len) == len(key) && bytes.Equal(ht.arena.Bytes(cell.Ref), key) {
			return cell
		}
	}
	return nil
}

func (ht *StringHashMap) findEmptyCell(hash uint64) *StringHashMapCell {
	for idx := hash & ht.cellCntMask; true; idx = (idx + 1) & ht.cellCntMask {
		cell := &ht.cells[idx]
		if cell.Mapped == 0 {
			return cell
		}
	}
	return nil
}

func (ht *StringHashMap) resizeOnDemand(n int) {
	targetCnt := ht.elemCnt + uint64(n)
	if targetCnt <= ht.maxElemCnt {
		return
	}

	newCellCnt := ht.cellCnt << 1
	newMaxElemCnt := newCellCnt * kLoadFactorNumerator / kLoadFactorDenominator
	for newMaxElemCnt < targetCnt {
		newCellCnt <<= 1
		newMaxElemCnt = newCellCnt * kLoadFactorNumerator / kLoadFactorDenominator
	}

	oldCells := ht.cells
	ht.cellCnt = newCellCnt
	ht.cellCntMask = newCellCnt - 1
	ht.maxElemCnt = newMaxElemCnt
	ht.cells = make([]StringHashMapCell, newCellCnt)

	// stored hashes make rehashing free of key reads
	for i := range oldCells {
		cell := &oldCells[i]
		if cell.Mapped != 0 {
			*ht.findEmptyCell(cell.Hash) = *cell
		}
	}
}

// Key returns the arena bytes of a cell.
func (ht *StringHashMap) Key(cell *StringHashMapCell) []byte {
	return ht.arena.Bytes(cell.Ref)
}

func (ht *StringHashMap) Cardinality() uint64 {
	return ht.elemCnt
}

// Size is the memory held by the cells, not counting the arena.
func (ht *StringHashMap) Size() int64 {
	return int64(len(ht.cells)) * 32
}

// Free drops the cells. The arena belongs to the caller.
func (ht *StringHashMap) Free() {
	ht.cells = nil
	ht.elemCnt = 0
}

type StringHashMapIterator struct {
	table *StringHashMap
	pos   uint64
}

func (it *StringHashMapIterator) Init(ht *StringHashMap) {
	it.table = ht
	it.pos = 0
}

func (it *StringHashMapIterator) Next() (key []byte, mapped uint64, err error) {
	for it.pos < it.table.cellCnt {
		cell := &it.table.cells[it.pos]
		if cell.Mapped != 0 {
			it.pos++
			return it.table.Key(cell), cell.Mapped, nil
		}
		it.pos++
	}
	return nil, 0, ErrIteratorEnd
}
