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

package group

import (
	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/hashmap"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec/agg"
)

// AggregatorState is the hash table of one group by worker with the
// aggregates of each group. Without group columns it holds exactly one
// group and no hash table.
type AggregatorState struct {
	arena   *arena.Arena
	hashMap hashmap.HashMap
	aggs    []agg.Agg
}

// NewAggregatorState chooses the key method of keyTypes. The aggs must be
// empty, they are grown along with the groups.
func NewAggregatorState(keyTypes []types.Type, aggs []agg.Agg, a *arena.Arena) (*AggregatorState, error) {
	if a == nil {
		a = arena.New(arena.DefaultChunkSize)
	}
	s := &AggregatorState{arena: a, aggs: aggs}
	if len(keyTypes) == 0 {
		if err := s.grows(1); err != nil {
			return nil, err
		}
		return s, nil
	}
	var err error
	if s.hashMap, err = hashmap.NewHashMap(keyTypes, a); err != nil {
		return nil, err
	}
	return s, nil
}

// Method is the key method, KeysU8 when there are no group columns.
func (s *AggregatorState) Method() hashmap.KeyMethod {
	if s.hashMap == nil {
		return hashmap.KeysU8
	}
	return s.hashMap.Method()
}

func (s *AggregatorState) HasKeys() bool {
	return s.hashMap != nil
}

func (s *AggregatorState) Arena() *arena.Arena {
	return s.arena
}

func (s *AggregatorState) Aggs() []agg.Agg {
	return s.aggs
}

// GroupCount returns the number of groups.
func (s *AggregatorState) GroupCount() uint64 {
	if s.hashMap == nil {
		return 1
	}
	return s.hashMap.GroupCount()
}

// InsertBatch looks up or inserts rows [start, start+n) of keys. groups[i]
// receives the group id of row start+i. The aggregates are grown for every
// new group.
func (s *AggregatorState) InsertBatch(keys []*vector.Vector, start, n int, groups []uint64) (int, error) {
	if s.hashMap == nil {
		return 0, moerr.NewInternalErrorNoCtx("insert keys into a state without group columns")
	}
	newGroups, err := s.hashMap.Insert(keys, start, n, groups)
	if err != nil {
		return 0, err
	}
	if newGroups > 0 {
		if err = s.grows(newGroups); err != nil {
			return 0, err
		}
	}
	return newGroups, nil
}

// Fill adds rows [start, start+len(groups)) of vecs, one vector per
// aggregate, to their groups.
func (s *AggregatorState) Fill(vecs []*vector.Vector, start int, groups []uint64) error {
	for i, a := range s.aggs {
		if err := a.BatchFill(int64(start), groups, vecs[i]); err != nil {
			return err
		}
	}
	return nil
}

// FillAll adds the first n rows of vecs to the single group.
func (s *AggregatorState) FillAll(vecs []*vector.Vector, n int) error {
	for i, a := range s.aggs {
		if err := a.BulkFill(0, vecs[i], n); err != nil {
			return err
		}
	}
	return nil
}

// Merge folds other into s, other is left untouched. Both states must come
// from the same operator.
func (s *AggregatorState) Merge(other *AggregatorState) error {
	if len(s.aggs) != len(other.aggs) || (s.hashMap == nil) != (other.hashMap == nil) {
		return moerr.NewInternalErrorNoCtx("merge group by states of different operators")
	}
	if s.hashMap == nil {
		for i, a := range s.aggs {
			if err := a.Merge(other.aggs[i], 0, 0); err != nil {
				return err
			}
		}
		return nil
	}
	mapping, newGroups, err := s.hashMap.MergeGroups(other.hashMap)
	if err != nil {
		return err
	}
	if newGroups > 0 {
		if err = s.grows(newGroups); err != nil {
			return err
		}
	}
	for i, a := range s.aggs {
		for j, g := range mapping {
			if err = a.Merge(other.aggs[i], int64(g-1), int64(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildKeyColumns returns one vector per group column, row i holding the
// key of group i+1.
func (s *AggregatorState) BuildKeyColumns() ([]*vector.Vector, error) {
	if s.hashMap == nil {
		return nil, nil
	}
	return s.hashMap.BuildKeyColumns()
}

// EvalAggs returns one vector per aggregate with a row per group.
func (s *AggregatorState) EvalAggs() ([]*vector.Vector, error) {
	vecs := make([]*vector.Vector, len(s.aggs))
	for i, a := range s.aggs {
		vec, err := a.Eval()
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Size returns the memory held by the table and the arena.
func (s *AggregatorState) Size() int64 {
	size := int64(s.arena.Reserved())
	if s.hashMap != nil {
		size += s.hashMap.Size()
	}
	return size
}

// Free releases the table, the aggregates and the arena. Vectors built
// before stay valid.
func (s *AggregatorState) Free() {
	if s.hashMap != nil {
		s.hashMap.Free()
		s.hashMap = nil
	}
	for _, a := range s.aggs {
		a.Free()
	}
	s.aggs = nil
	s.arena.Free()
}

func (s *AggregatorState) grows(n int) error {
	for _, a := range s.aggs {
		if err := a.Grows(n, s.arena); err != nil {
			return err
		}
	}
	return nil
}
