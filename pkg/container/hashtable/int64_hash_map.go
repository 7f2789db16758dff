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

type Int64HashMapCell struct {
	Key    uint64
	Mapped uint64
}

// Int64HashMap is an open addressing map from a packed key of up to eight
// bytes to a dense group id. Key 0 marks an empty cell, so the zero key
// lives in its own cell.
type Int64HashMap struct {
	bucketCntBits uint8
	bucketCnt     uint64
	elemCnt       uint64
	maxElemCnt    uint64
	zeroCell      Int64HashMapCell
	bucketData    []Int64HashMapCell
}

func (ht *Int64HashMap) Init() {
	ht.bucketCntBits = kInitialBucketCntBits
	ht.bucketCnt = kInitialBucketCnt
	ht.elemCnt = 0
	ht.maxElemCnt = kInitialBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	ht.zeroCell = Int64HashMapCell{}
	ht.bucketData = make([]Int64HashMapCell, kInitialBucketCnt)
}

func (ht *Int64HashMap) Insert(key uint64) (mapped uint64, inserted bool) {
	if key == 0 {
		return ht.insertZero()
	}

	ht.resizeOnDemand(1)

	empty, _, cell := ht.findBucket(wyhash64(key), key)
	if empty {
		ht.elemCnt++
		cell.Key = key
		cell.Mapped = ht.elemCnt
	}
	return cell.Mapped, empty
}

// InsertBatch looks up or inserts keys, writing the group id of keys[i]
// to values[i].
func (ht *Int64HashMap) InsertBatch(keys []uint64, values []uint64) {
	ht.resizeOnDemand(len(keys))

	var hashes [kRehashBatch]uint64
	for start := 0; start < len(keys); start += kRehashBatch {
		end := start + kRehashBatch
		if end > len(keys) {
			end = len(keys)
		}
		wyhash64Batch(keys[start:end], hashes[:end-start])
		for i, key := range keys[start:end] {
			if key == 0 {
				values[start+i], _ = ht.insertZero()
				continue
			}
			empty, _, cell := ht.findBucket(hashes[i], key)
			if empty {
				ht.elemCnt++
				cell.Key = key
				cell.Mapped = ht.elemCnt
			}
			values[start+i] = cell.Mapped
		}
	}
}

func (ht *Int64HashMap) insertZero() (uint64, bool) {
	if ht.zeroCell.Mapped == 0 {
		ht.elemCnt++
		ht.zeroCell.Mapped = ht.elemCnt
		return ht.zeroCell.Mapped, true
	}
	return ht.zeroCell.Mapped, false
}

// Find returns 0 for an absent key.
func (ht *Int64HashMap) Find(key uint64) uint64 {
	if key == 0 {
		return ht.zeroCell.Mapped
	}
	_, _, cell := ht.findBucket(wyhash64(key), key)
	return cell.Mapped
}

func (ht *Int64HashMap) FindBatch(keys []uint64, values []uint64) {
	for i, key := range keys {
		values[i] = ht.Find(key)
	}
}

func (ht *Int64HashMap) findBucket(hash uint64, key uint64) (empty bool, idx uint64, cell *Int64HashMapCell) {
	mask := ht.bucketCnt - 1
	var equal bool
	for idx = hash & mask; true; idx = (idx + 1) & mask {
		cell = &ht.bucketData[idx]
		empty, equal = cell.Key == 0, cell.Key == key
		if empty || equal {
			return
		}
	}

	return
}

func (ht *Int64HashMap) resizeOnDemand(n int) {
	targetCnt := ht.elemCnt + uint64(n)
	if targetCnt <= ht.maxElemCnt {
		return
	}

	newBucketCntBits := ht.bucketCntBits + 2
	newBucketCnt := uint64(1) << newBucketCntBits
	newMaxElemCnt := newBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	for newMaxElemCnt < targetCnt {
		newBucketCntBits++
		newBucketCnt <<= 1
		newMaxElemCnt = newBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	}

	oldBucketCnt := ht.bucketCnt
	oldBucketData := ht.bucketData

	ht.bucketCntBits = newBucketCntBits
	ht.bucketCnt = newBucketCnt
	ht.maxElemCnt = newMaxElemCnt
	ht.bucketData = make([]Int64HashMapCell, newBucketCnt)

	var hashes [kRehashBatch]uint64
	for i := uint64(0); i < oldBucketCnt; i += kRehashBatch {
		cells := oldBucketData[i : i+kRehashBatch]
		wyhash64CellBatch(cells, hashes[:])
		for j := range cells {
			cell := &cells[j]
			if cell.Key != 0 {
				_, newIdx, _ := ht.findBucket(hashes[j], cell.Key)
				ht.bucketData[newIdx] = *cell
			}
		}
	}
}

func (ht *Int64HashMap) Cardinality() uint64 {
	return ht.elemCnt
}

func (ht *Int64HashMap) Free() {
	ht.bucketData = nil
	ht.zeroCell = Int64HashMapCell{}
	ht.elemCnt = 0
}

type Int64HashMapIterator struct {
	table   *Int64HashMap
	pos     uint64
	visited bool
}

func (it *Int64HashMapIterator) Init(ht *Int64HashMap) {
	it.table = ht
	it.pos = 0
	it.visited = false
}

func (it *Int64HashMapIterator) Next() (cell *Int64HashMapCell, err error) {
	if !it.visited {
		it.visited = true
		if it.table.zeroCell.Mapped > 0 {
			cell = &it.table.zeroCell
			return
		}
	}

	for it.pos < it.table.bucketCnt {
		cell = &it.table.bucketData[it.pos]
		if cell.Key != 0 {
			break
		}
		it.pos++
	}

	if it.pos >= it.table.bucketCnt {
		cell = nil
		err = ErrIteratorEnd
		return
	}

	it.pos++

	return
}
