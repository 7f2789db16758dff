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
	"github.com/matrixorigin/mo-vexec/pkg/container/hashtable"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

// UnitLimit is the number of rows whose keys are built and inserted at once.
var UnitLimit = 256

// KeyMethod is the encoding of a row's group-by values.
type KeyMethod uint8

const (
	KeysU8 KeyMethod = iota
	KeysU16
	KeysU32
	KeysU64
	Serialized
)

func (m KeyMethod) String() string {
	switch m {
	case KeysU8:
		return "KeysU8"
	case KeysU16:
		return "KeysU16"
	case KeysU32:
		return "KeysU32"
	case KeysU64:
		return "KeysU64"
	case Serialized:
		return "Serialized"
	}
	return "UnknownKeyMethod"
}

// IsFixed reports whether keys are packed into an integer.
func (m KeyMethod) IsFixed() bool {
	return m != Serialized
}

// HashMap maps the group-by values of a row to a dense group id, starting
// from 1 in order of first appearance. A HashMap is owned by one worker.
type HashMap interface {
	Method() KeyMethod
	// Insert looks up or inserts rows [start, start+count) of vecs, the group
	// id of row start+i is written to vs[i]. It returns the number of groups
	// created by this call.
	Insert(vecs []*vector.Vector, start, count int, vs []uint64) (newGroups int, err error)
	// Find is Insert without inserting, 0 means not found.
	Find(vecs []*vector.Vector, start, count int, vs []uint64) error
	// GroupCount returns the number of distinct keys.
	GroupCount() uint64
	// MergeGroups inserts every key of other. mapping[j] is the group id in
	// this map of the group j+1 of other.
	MergeGroups(other HashMap) (mapping []uint64, newGroups int, err error)
	// BuildKeyColumns decodes the keys into one vector per group-by column,
	// row i holding the key of group i+1.
	BuildKeyColumns() ([]*vector.Vector, error)
	// Size returns the memory held by the table. Keys kept in an arena
	// are counted by the arena's owner.
	Size() int64
	Free()
}

// NewHashMap chooses the key method of typs and returns the matching map.
// Serialized keys are copied into a, which must outlive the map.
func NewHashMap(typs []types.Type, a *arena.Arena) (HashMap, error) {
	if method := ChooseKeyMethod(typs); method.IsFixed() {
		return NewIntHashMap(typs)
	}
	return NewStrHashMap(typs, a)
}

// IntHashMap keys are integers of at most 8 bytes. One and two byte keys
// index a FixedMap directly.
type IntHashMap struct {
	method  KeyMethod
	builder *FixedKeyBuilder

	fixedMap *hashtable.FixedMap
	hashMap  *hashtable.Int64HashMap

	keys []uint64
}

// StrHashMap keys are serialized rows held by an arena.
type StrHashMap struct {
	builder *SerializedKeyBuilder

	arena   *arena.Arena
	hashMap *hashtable.StringHashMap

	keys [][]byte
}
