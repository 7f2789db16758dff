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

// FixedMap is a direct index from a one or two byte key to its group id.
// A zero slot is empty.
type FixedMap struct {
	bucketCnt  uint32
	elemCnt    uint32
	bucketData []uint64
}

type FixedMapIterator struct {
	table *FixedMap
	idx   uint32
}

// Init sizes the map for every possible key, 256 or 65536 buckets.
func (ht *FixedMap) Init(bucketCnt uint32) {
	ht.bucketCnt = bucketCnt
	ht.elemCnt = 0
	ht.bucketData = make([]uint64, bucketCnt)
}

func (ht *FixedMap) Insert(key uint32) (mapped uint64, inserted bool) {
	mapped = ht.bucketData[key]
	if mapped == 0 {
		ht.elemCnt++
		mapped = uint64(ht.elemCnt)
		ht.bucketData[key] = mapped
		inserted = true
	}
	return
}

func (ht *FixedMap) InsertBatch(keys []uint64, values []uint64) {
	for i, key := range keys {
		values[i], _ = ht.Insert(uint32(key))
	}
}

// Find returns 0 for an absent key.
func (ht *FixedMap) Find(key uint32) uint64 {
	if key >= ht.bucketCnt {
		return 0
	}
	return ht.bucketData[key]
}

func (ht *FixedMap) BucketData() []uint64 {
	return ht.bucketData
}

func (ht *FixedMap) Cardinality() uint64 {
	return uint64(ht.elemCnt)
}

func (ht *FixedMap) Free() {
	ht.bucketData = nil
	ht.elemCnt = 0
}

func (it *FixedMapIterator) Init(ht *FixedMap) {
	it.table = ht
	it.idx = 0
}

func (it *FixedMapIterator) Next() (key uint32, value uint64, err error) {
	for it.idx < it.table.bucketCnt && it.table.bucketData[it.idx] == 0 {
		it.idx++
	}

	if it.idx == it.table.bucketCnt {
		err = ErrIteratorEnd
		return
	}

	key = it.idx
	value = it.table.bucketData[key]
	it.idx++

	return
}
