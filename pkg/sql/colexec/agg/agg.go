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

package agg

import (
	"encoding/binary"
	"encoding/json"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

var _ Agg = new(UnaryAgg[int64, int64])

// UnaryAgg generic aggregation function with one input vector. T1 is the
// input value and T2 the per group result.
type UnaryAgg[T1, T2 any] struct {
	// operation type of aggregate
	op int

	// aggregate struct
	priv AggStruct

	// vs is result value list
	vs []T2
	// es, es[i] is true to indicate that this group has not yet been populated with any value
	es []bool

	arena *arena.Arena

	// isCount indicate the result is never NULL, even for an empty group.
	isCount bool
	ityp    types.Type
	otyp    types.Type

	get func(vec *vector.Vector, row int) T1
	put func(vec *vector.Vector, v T2, isNull bool)

	// fill add a value into one group of agg.
	// the arguments are
	// [group index, value to add, result of group, is group empty, is value null]
	fill func(int64, T1, T2, bool, bool) (T2, bool, error)

	// merge used to merge 2 groups of agg.
	// the arguments are
	// [index of group1, index of group2, result of group1, result of group2, is group1 empty, is group2 empty, private structure of group2's owner]
	merge func(int64, int64, T2, T2, bool, bool, any) (T2, bool, error)

	// eval get final result of agg.
	eval func([]T2) ([]T2, error)
}

func NewUnaryAgg[T1, T2 any](op int, priv AggStruct, isCount bool, ityp, otyp types.Type,
	get func(*vector.Vector, int) T1, put func(*vector.Vector, T2, bool),
	fill func(int64, T1, T2, bool, bool) (T2, bool, error),
	merge func(int64, int64, T2, T2, bool, bool, any) (T2, bool, error),
	eval func([]T2) ([]T2, error)) *UnaryAgg[T1, T2] {
	return &UnaryAgg[T1, T2]{
		op:      op,
		priv:    priv,
		isCount: isCount,
		ityp:    ityp,
		otyp:    otyp,
		get:     get,
		put:     put,
		fill:    fill,
		merge:   merge,
		eval:    eval,
	}
}

func (a *UnaryAgg[T1, T2]) Name() string {
	return Names[a.op]
}

func (a *UnaryAgg[T1, T2]) OutputType() types.Type {
	return a.otyp
}

func (a *UnaryAgg[T1, T2]) InputType() types.Type {
	return a.ityp
}

func (a *UnaryAgg[T1, T2]) Grows(n int, ar *arena.Arena) error {
	if a.arena == nil {
		a.arena = ar
	}
	if a.arena == nil {
		a.arena = arena.New(arena.DefaultChunkSize)
	}
	a.priv.Grows(n, a.arena)
	var zero T2
	for i := 0; i < n; i++ {
		a.vs = append(a.vs, zero)
		a.es = append(a.es, true)
	}
	return nil
}

func (a *UnaryAgg[T1, T2]) value(vec *vector.Vector, row int) (v T1, isNull bool) {
	if vec.IsNull(row) {
		return v, true
	}
	return a.get(vec, row), false
}

func (a *UnaryAgg[T1, T2]) Fill(groupIndex int64, row int64, vec *vector.Vector) (err error) {
	v, isNull := a.value(vec, int(row))
	a.vs[groupIndex], a.es[groupIndex], err = a.fill(groupIndex, v, a.vs[groupIndex], a.es[groupIndex], isNull)
	return err
}

func (a *UnaryAgg[T1, T2]) BulkFill(groupIndex int64, vec *vector.Vector, length int) (err error) {
	if vec.IsConst() {
		v, isNull := a.value(vec, 0)
		for i := 0; i < length; i++ {
			a.vs[groupIndex], a.es[groupIndex], err = a.fill(groupIndex, v, a.vs[groupIndex], a.es[groupIndex], isNull)
			if err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < length; i++ {
		v, isNull := a.value(vec, i)
		a.vs[groupIndex], a.es[groupIndex], err = a.fill(groupIndex, v, a.vs[groupIndex], a.es[groupIndex], isNull)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *UnaryAgg[T1, T2]) BatchFill(offset int64, groups []uint64, vec *vector.Vector) (err error) {
	for i, group := range groups {
		if group == GroupNotMatch {
			continue
		}
		g := int64(group - 1)
		v, isNull := a.value(vec, int(offset)+i)
		a.vs[g], a.es[g], err = a.fill(g, v, a.vs[g], a.es[g], isNull)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *UnaryAgg[T1, T2]) Merge(other Agg, groupIndex int64, otherIndex int64) (err error) {
	b, ok := other.(*UnaryAgg[T1, T2])
	if !ok || b.op != a.op {
		return moerr.NewInternalErrorNoCtx("merge %s into %s", other.Name(), a.Name())
	}
	a.vs[groupIndex], a.es[groupIndex], err = a.merge(groupIndex, otherIndex,
		a.vs[groupIndex], b.vs[otherIndex], a.es[groupIndex], b.es[otherIndex], b.priv)
	return err
}

func (a *UnaryAgg[T1, T2]) Eval() (*vector.Vector, error) {
	// eval may rewrite its input, the state stays mergeable
	vs, err := a.eval(append([]T2(nil), a.vs...))
	if err != nil {
		return nil, err
	}
	vec := vector.NewVec(a.otyp)
	vec.PreExtend(len(vs))
	for i, v := range vs {
		a.put(vec, v, a.es[i] && !a.isCount)
	}
	return vec, nil
}

func (a *UnaryAgg[T1, T2]) Dup() Agg {
	dup, err := newAgg(a.op, a.ityp)
	if err != nil {
		// the types were accepted when a was created
		panic(err)
	}
	return dup
}

func (a *UnaryAgg[T1, T2]) Free() {
	a.vs = nil
	a.es = nil
	a.arena = nil
}

func (a *UnaryAgg[T1, T2]) MarshalBinary() ([]byte, error) {
	pData, err := a.priv.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(&EncodeAgg{
		Op:         a.op,
		InputType:  a.ityp,
		OutputType: a.otyp,
		Es:         a.es,
		Da:         encodeValues(a.vs),
		Private:    pData,
	})
}

// UnmarshalBinary replaces the state of a with data, which must come from
// an agg of the same kind and input type.
func (a *UnaryAgg[T1, T2]) UnmarshalBinary(data []byte) error {
	var ea EncodeAgg
	if err := json.Unmarshal(data, &ea); err != nil {
		return moerr.ConvertGoError(moerr.Context(), err)
	}
	if ea.Op != a.op || !ea.InputType.Eq(a.ityp) {
		return moerr.NewDataStructMismatchNoCtx("cannot restore %s(%s) into %s(%s)", Names[ea.Op], ea.InputType, a.Name(), a.ityp)
	}
	if a.arena == nil {
		a.arena = arena.New(arena.DefaultChunkSize)
	}
	vs, err := decodeValues[T2](ea.Da, a.arena)
	if err != nil {
		return err
	}
	if len(vs) != len(ea.Es) {
		return moerr.NewDataStructMismatchNoCtx("%d values for %d groups", len(vs), len(ea.Es))
	}
	a.vs, a.es = vs, ea.Es
	a.priv.Grows(0, a.arena)
	return a.priv.UnmarshalBinary(ea.Private)
}

func encodeValues[T any](vs []T) []byte {
	if strs, ok := any(vs).([][]byte); ok {
		var data []byte
		for _, s := range strs {
			data = binary.AppendUvarint(data, uint64(len(s)))
			data = append(data, s...)
		}
		return data
	}
	return append([]byte(nil), types.EncodeSlice(vs)...)
}

func decodeValues[T any](data []byte, ar *arena.Arena) ([]T, error) {
	var vs []T
	if _, ok := any(vs).([][]byte); ok {
		var strs [][]byte
		for len(data) > 0 {
			l, n := binary.Uvarint(data)
			if n <= 0 || uint64(len(data)-n) < l {
				return nil, moerr.NewInternalErrorNoCtx("corrupted aggregate state")
			}
			strs = append(strs, ar.Bytes(ar.Copy(data[n:n+int(l)])))
			data = data[n+int(l):]
		}
		return any(strs).([]T), nil
	}
	var zero T
	sz := len(types.EncodeSlice([]T{zero}))
	if sz == 0 || len(data)%sz != 0 {
		return nil, moerr.NewInternalErrorNoCtx("corrupted aggregate state")
	}
	vs = make([]T, len(data)/sz)
	copy(types.EncodeSlice(vs), data)
	return vs, nil
}

func getFixed[T types.Fixed](vec *vector.Vector, row int) T {
	return vector.GetFixedAt[T](vec, row)
}

func putFixed[T types.Fixed](vec *vector.Vector, v T, isNull bool) {
	vector.AppendFixed(vec, v, isNull)
}

func getBytes(vec *vector.Vector, row int) []byte {
	return vec.GetBytesAt(row)
}

func putBytes(vec *vector.Vector, v []byte, isNull bool) {
	vector.AppendBytes(vec, v, isNull)
}

// getRaw is the in-memory representation of any row, used to hash it.
func getRaw(vec *vector.Vector, row int) []byte {
	if vec.GetType().IsVarlen() {
		return vec.GetBytesAt(row)
	}
	return vec.GetRawBytesAt(row)
}

// EmptyStruct is the private state of aggregates that keep none.
type EmptyStruct struct{}

func (s *EmptyStruct) Grows(_ int, _ *arena.Arena) {}

func (s *EmptyStruct) MarshalBinary() ([]byte, error) {
	return nil, nil
}

func (s *EmptyStruct) UnmarshalBinary(_ []byte) error {
	return nil
}
