// Copyright 2022 Matrix Origin
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
	"bytes"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

type Compare interface {
	constraints.Integer | constraints.Float
}

// MinMax keeps the least, or the greatest, non NULL value of each group.
type MinMax[T Compare] struct {
	EmptyStruct
	isMax bool
}

// BoolMinMax orders false before true.
type BoolMinMax struct {
	EmptyStruct
	isMax bool
}

// StrMinMax compares bytewise. Kept values live in the agg arena, the input
// batches can be released once filled.
type StrMinMax struct {
	isMax bool
	arena *arena.Arena
}

var MinMaxSupported = []types.T{
	types.T_bool,
	types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64,
	types.T_int8, types.T_int16, types.T_int32, types.T_int64,
	types.T_float32, types.T_float64,
	types.T_date, types.T_datetime, types.T_timestamp,
	types.T_varchar,
}

func MinMaxReturnType(typs []types.Type) types.Type {
	return types.WrapNullable(typs[0])
}

func NewMinMax[T Compare](isMax bool) *MinMax[T] {
	return &MinMax[T]{isMax: isMax}
}

func (m *MinMax[T]) better(v, ov T) bool {
	if m.isMax {
		return v > ov
	}
	return v < ov
}

func (m *MinMax[T]) Eval(vs []T) ([]T, error) {
	return vs, nil
}

func (m *MinMax[T]) Fill(_ int64, value T, ov T, isEmpty bool, isNull bool) (T, bool, error) {
	if isNull {
		return ov, isEmpty, nil
	}
	if isEmpty || m.better(value, ov) {
		return value, false, nil
	}
	return ov, false, nil
}

func (m *MinMax[T]) Merge(_ int64, _ int64, x T, y T, xEmpty bool, yEmpty bool, _ any) (T, bool, error) {
	if yEmpty {
		return x, xEmpty, nil
	}
	if xEmpty || m.better(y, x) {
		return y, false, nil
	}
	return x, false, nil
}

func NewBoolMinMax(isMax bool) *BoolMinMax {
	return &BoolMinMax{isMax: isMax}
}

func (m *BoolMinMax) better(v, ov bool) bool {
	if m.isMax {
		return v && !ov
	}
	return !v && ov
}

func (m *BoolMinMax) Eval(vs []bool) ([]bool, error) {
	return vs, nil
}

func (m *BoolMinMax) Fill(_ int64, value bool, ov bool, isEmpty bool, isNull bool) (bool, bool, error) {
	if isNull {
		return ov, isEmpty, nil
	}
	if isEmpty || m.better(value, ov) {
		return value, false, nil
	}
	return ov, false, nil
}

func (m *BoolMinMax) Merge(_ int64, _ int64, x bool, y bool, xEmpty bool, yEmpty bool, _ any) (bool, bool, error) {
	if yEmpty {
		return x, xEmpty, nil
	}
	if xEmpty || m.better(y, x) {
		return y, false, nil
	}
	return x, false, nil
}

func NewStrMinMax(isMax bool) *StrMinMax {
	return &StrMinMax{isMax: isMax}
}

func (m *StrMinMax) Grows(_ int, a *arena.Arena) {
	m.arena = a
}

func (m *StrMinMax) better(v, ov []byte) bool {
	if m.isMax {
		return bytes.Compare(v, ov) > 0
	}
	return bytes.Compare(v, ov) < 0
}

func (m *StrMinMax) Eval(vs [][]byte) ([][]byte, error) {
	return vs, nil
}

func (m *StrMinMax) Fill(_ int64, value []byte, ov []byte, isEmpty bool, isNull bool) ([]byte, bool, error) {
	if isNull {
		return ov, isEmpty, nil
	}
	if isEmpty || m.better(value, ov) {
		return m.arena.Bytes(m.arena.Copy(value)), false, nil
	}
	return ov, false, nil
}

func (m *StrMinMax) Merge(_ int64, _ int64, x []byte, y []byte, xEmpty bool, yEmpty bool, _ any) ([]byte, bool, error) {
	if yEmpty {
		return x, xEmpty, nil
	}
	if xEmpty || m.better(y, x) {
		return m.arena.Bytes(m.arena.Copy(y)), false, nil
	}
	return x, false, nil
}

func (m *StrMinMax) MarshalBinary() ([]byte, error) {
	return nil, nil
}

func (m *StrMinMax) UnmarshalBinary(_ []byte) error {
	return nil
}

func newGenericMinMax[T Compare](op int, ityp types.Type) Agg {
	m := NewMinMax[T](op == AggregateMax)
	return NewUnaryAgg(op, m, false, ityp, MinMaxReturnType([]types.Type{ityp}),
		getFixed[T], putFixed[T], m.Fill, m.Merge, m.Eval)
}

func newMinMax(op int, ityp types.Type) Agg {
	switch ityp.Oid {
	case types.T_bool:
		m := NewBoolMinMax(op == AggregateMax)
		return NewUnaryAgg(op, m, false, ityp, MinMaxReturnType([]types.Type{ityp}),
			getFixed[bool], putFixed[bool], m.Fill, m.Merge, m.Eval)
	case types.T_int8:
		return newGenericMinMax[int8](op, ityp)
	case types.T_int16:
		return newGenericMinMax[int16](op, ityp)
	case types.T_int32:
		return newGenericMinMax[int32](op, ityp)
	case types.T_int64:
		return newGenericMinMax[int64](op, ityp)
	case types.T_uint8:
		return newGenericMinMax[uint8](op, ityp)
	case types.T_uint16:
		return newGenericMinMax[uint16](op, ityp)
	case types.T_uint32:
		return newGenericMinMax[uint32](op, ityp)
	case types.T_uint64:
		return newGenericMinMax[uint64](op, ityp)
	case types.T_float32:
		return newGenericMinMax[float32](op, ityp)
	case types.T_float64:
		return newGenericMinMax[float64](op, ityp)
	case types.T_date:
		return newGenericMinMax[types.Date](op, ityp)
	case types.T_datetime:
		return newGenericMinMax[types.Datetime](op, ityp)
	case types.T_timestamp:
		return newGenericMinMax[types.Timestamp](op, ityp)
	case types.T_varchar:
		m := NewStrMinMax(op == AggregateMax)
		return NewUnaryAgg(op, m, false, ityp, MinMaxReturnType([]types.Type{ityp}),
			getBytes, putBytes, m.Fill, m.Merge, m.Eval)
	}
	return nil
}
