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

package hashmap

import (
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/hashtable"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

var _ HashMap = new(IntHashMap)

func NewIntHashMap(typs []types.Type) (*IntHashMap, error) {
	method := ChooseKeyMethod(typs)
	if !method.IsFixed() {
		return nil, moerr.NewInternalErrorNoCtx("group keys %v do not fit in 8 bytes", typs)
	}
	m := &IntHashMap{
		method:  method,
		builder: NewFixedKeyBuilder(typs),
		keys:    make([]uint64, UnitLimit),
	}
	switch method {
	case KeysU8:
		m.fixedMap = &hashtable.FixedMap{}
		m.fixedMap.Init(1 << 8)
	case KeysU16:
		m.fixedMap = &hashtable.FixedMap{}
		m.fixedMap.Init(1 << 16)
	default:
		m.hashMap = &hashtable.Int64HashMap{}
		m.hashMap.Init()
	}
	return m, nil
}

func (m *IntHashMap) Method() KeyMethod {
	return m.method
}

func (m *IntHashMap) Types() []types.Type {
	return m.builder.typs
}

func (m *IntHashMap) Insert(vecs []*vector.Vector, start, count int, vs []uint64) (int, error) {
	if len(vecs) != len(m.builder.typs) {
		return 0, moerr.NewInternalErrorNoCtx("insert %d columns into a hash map of %d", len(vecs), len(m.builder.typs))
	}
	before := m.GroupCount()
	for i := 0; i < count; i += len(m.keys) {
		n := count - i
		if n > len(m.keys) {
			n = len(m.keys)
		}
		m.builder.BuildKeys(vecs, start+i, n, m.keys)
		m.insertKeys(m.keys[:n], vs[i:i+n])
	}
	return int(m.GroupCount() - before), nil
}

func (m *IntHashMap) insertKeys(keys []uint64, vs []uint64) {
	if m.fixedMap != nil {
		m.fixedMap.InsertBatch(keys, vs)
		return
	}
	m.hashMap.InsertBatch(keys, vs)
}

// InsertKey inserts an already packed key.
func (m *IntHashMap) InsertKey(key uint64) (uint64, bool) {
	if m.fixedMap != nil {
		return m.fixedMap.Insert(uint32(key))
	}
	return m.hashMap.Insert(key)
}

func (m *IntHashMap) Find(vecs []*vector.Vector, start, count int, vs []uint64) error {
	if len(vecs) != len(m.builder.typs) {
		return moerr.NewInternalErrorNoCtx("find %d columns in a hash map of %d", len(vecs), len(m.builder.typs))
	}
	for i := 0; i < count; i += len(m.keys) {
		n := count - i
		if n > len(m.keys) {
			n = len(m.keys)
		}
		m.builder.BuildKeys(vecs, start+i, n, m.keys)
		for j, key := range m.keys[:n] {
			if m.fixedMap != nil {
				vs[i+j] = m.fixedMap.Find(uint32(key))
			} else {
				vs[i+j] = m.hashMap.Find(key)
			}
		}
	}
	return nil
}

func (m *IntHashMap) GroupCount() uint64 {
	if m.fixedMap != nil {
		return m.fixedMap.Cardinality()
	}
	return m.hashMap.Cardinality()
}

// Keys returns the packed keys, keys[i] belonging to group i+1.
func (m *IntHashMap) Keys() []uint64 {
	keys := make([]uint64, m.GroupCount())
	if m.fixedMap != nil {
		var it hashtable.FixedMapIterator
		it.Init(m.fixedMap)
		for {
			key, mapped, err := it.Next()
			if err != nil {
				break
			}
			keys[mapped-1] = uint64(key)
		}
		return keys
	}
	var it hashtable.Int64HashMapIterator
	it.Init(m.hashMap)
	for {
		cell, err := it.Next()
		if err != nil {
			break
		}
		keys[cell.Mapped-1] = cell.Key
	}
	return keys
}

func (m *IntHashMap) MergeGroups(other HashMap) ([]uint64, int, error) {
	o, ok := other.(*IntHashMap)
	if !ok || o.method != m.method {
		return nil, 0, moerr.NewInternalErrorNoCtx("merge %s groups into %s groups", other.Method(), m.method)
	}
	before := m.GroupCount()
	keys := o.Keys()
	mapping := make([]uint64, len(keys))
	for i, key := range keys {
		mapping[i], _ = m.InsertKey(key)
	}
	return mapping, int(m.GroupCount() - before), nil
}

func (m *IntHashMap) BuildKeyColumns() ([]*vector.Vector, error) {
	return DecodeFixedKeys(m.Keys(), m.builder.typs), nil
}

func (m *IntHashMap) Size() int64 {
	if m.fixedMap != nil {
		return int64(len(m.fixedMap.BucketData())) * 8
	}
	return int64(m.hashMap.Cardinality()) * 16 * 2
}

func (m *IntHashMap) Free() {
	if m.fixedMap != nil {
		m.fixedMap.Free()
	}
	if m.hashMap != nil {
		m.hashMap.Free()
	}
	m.keys = nil
}
