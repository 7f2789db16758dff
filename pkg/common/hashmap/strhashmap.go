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
	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/hashtable"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

var _ HashMap = new(StrHashMap)

// NewStrHashMap returns a map whose keys are copied into a. A nil arena gets
// one private to the map.
func NewStrHashMap(typs []types.Type, a *arena.Arena) (*StrHashMap, error) {
	if a == nil {
		a = arena.New(arena.DefaultChunkSize)
	}
	m := &StrHashMap{
		builder: NewSerializedKeyBuilder(typs),
		arena:   a,
		hashMap: &hashtable.StringHashMap{},
		keys:    make([][]byte, UnitLimit),
	}
	m.hashMap.Init(a)
	return m, nil
}

func (m *StrHashMap) Method() KeyMethod {
	return Serialized
}

func (m *StrHashMap) Types() []types.Type {
	return m.builder.typs
}

func (m *StrHashMap) Arena() *arena.Arena {
	return m.arena
}

func (m *StrHashMap) Insert(vecs []*vector.Vector, start, count int, vs []uint64) (int, error) {
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
		m.hashMap.InsertBatch(m.keys[:n], vs[i:i+n])
	}
	return int(m.GroupCount() - before), nil
}

// InsertKey inserts an already serialized key.
func (m *StrHashMap) InsertKey(key []byte) (uint64, bool) {
	return m.hashMap.Insert(key)
}

func (m *StrHashMap) Find(vecs []*vector.Vector, start, count int, vs []uint64) error {
	if len(vecs) != len(m.builder.typs) {
		return moerr.NewInternalErrorNoCtx("find %d columns in a hash map of %d", len(vecs), len(m.builder.typs))
	}
	for i := 0; i < count; i += len(m.keys) {
		n := count - i
		if n > len(m.keys) {
			n = len(m.keys)
		}
		m.builder.BuildKeys(vecs, start+i, n, m.keys)
		m.hashMap.FindBatch(m.keys[:n], vs[i:i+n])
	}
	return nil
}

func (m *StrHashMap) GroupCount() uint64 {
	return m.hashMap.Cardinality()
}

// Keys returns the serialized keys, keys[i] belonging to group i+1. They
// alias the arena.
func (m *StrHashMap) Keys() [][]byte {
	keys := make([][]byte, m.GroupCount())
	var it hashtable.StringHashMapIterator
	it.Init(m.hashMap)
	for {
		key, mapped, err := it.Next()
		if err != nil {
			break
		}
		keys[mapped-1] = key
	}
	return keys
}

func (m *StrHashMap) MergeGroups(other HashMap) ([]uint64, int, error) {
	o, ok := other.(*StrHashMap)
	if !ok {
		return nil, 0, moerr.NewInternalErrorNoCtx("merge %s groups into %s groups", other.Method(), Serialized)
	}
	before := m.GroupCount()
	keys := o.Keys()
	mapping := make([]uint64, len(keys))
	m.hashMap.InsertBatch(keys, mapping)
	return mapping, int(m.GroupCount() - before), nil
}

func (m *StrHashMap) BuildKeyColumns() ([]*vector.Vector, error) {
	return DecodeSerializedKeys(m.Keys(), m.builder.typs)
}

func (m *StrHashMap) Size() int64 {
	return m.hashMap.Size()
}

// Free drops the table. The arena is released by its owner.
func (m *StrHashMap) Free() {
	m.hashMap.Free()
	m.keys = nil
}
