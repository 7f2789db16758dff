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
	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// Anyvalue keeps the first non NULL value each group sees.
type Anyvalue[T types.Fixed] struct {
	NotSet []bool
}

type StrAnyvalue struct {
	NotSet []bool
	arena  *arena.Arena
}

func AnyValueReturnType(typs []types.Type) types.Type {
	return types.WrapNullable(typs[0])
}

func NewAnyValue[T types.Fixed]() *Anyvalue[T] {
	return &Anyvalue[T]{}
}

func (a *Anyvalue[T]) Grows(size int, _ *arena.Arena) {
	for i := 0; i < size; i++ {
		a.NotSet = append(a.NotSet, false)
	}
}

func (a *Anyvalue[T]) Eval(vs []T) ([]T, error) {
	return vs, nil
}

func (a *Anyvalue[T]) Fill(i int64, value T, ov T, isEmpty bool, isNull bool) (T, bool, error) {
	if !isNull && !a.NotSet[i] {
		a.NotSet[i] = true
		return value, false, nil
	}
	return ov, isEmpty, nil
}

func (a *Anyvalue[T]) Merge(xIndex int64, yIndex int64, x T, y T, xEmpty bool, yEmpty bool, yAnyValue any) (T, bool, error) {
	if !yEmpty {
		ya := yAnyValue.(*Anyvalue[T])
		if ya.NotSet[yIndex] && !a.NotSet[xIndex] {
			a.NotSet[xIndex] = true
			return y, false, nil
		}
	}
	return x, xEmpty, nil
}

func (a *Anyvalue[T]) MarshalBinary() ([]byte, error) {
	return types.EncodeSlice(a.NotSet), nil
}

func (a *Anyvalue[T]) UnmarshalBinary(data []byte) error {
	a.NotSet = decodeNotSet(data)
	return nil
}

func NewStrAnyValue() *StrAnyvalue {
	return &StrAnyvalue{}
}

func (a *StrAnyvalue) Grows(size int, ar *arena.Arena) {
	a.arena = ar
	for i := 0; i < size; i++ {
		a.NotSet = append(a.NotSet, false)
	}
}

func (a *StrAnyvalue) Eval(vs [][]byte) ([][]byte, error) {
	return vs, nil
}

func (a *StrAnyvalue) Fill(i int64, value []byte, ov []byte, isEmpty bool, isNull bool) ([]byte, bool, error) {
	if !isNull && !a.NotSet[i] {
		a.NotSet[i] = true
		return a.arena.Bytes(a.arena.Copy(value)), false, nil
	}
	return ov, isEmpty, nil
}

func (a *StrAnyvalue) Merge(xIndex int64, yIndex int64, x []byte, y []byte, xEmpty bool, yEmpty bool, yAnyValue any) ([]byte, bool, error) {
	if !yEmpty {
		ya := yAnyValue.(*StrAnyvalue)
		if ya.NotSet[yIndex] && !a.NotSet[xIndex] {
			a.NotSet[xIndex] = true
			return a.arena.Bytes(a.arena.Copy(y)), false, nil
		}
	}
	return x, xEmpty, nil
}

func (a *StrAnyvalue) MarshalBinary() ([]byte, error) {
	return types.EncodeSlice(a.NotSet), nil
}

func (a *StrAnyvalue) UnmarshalBinary(data []byte) error {
	a.NotSet = decodeNotSet(data)
	return nil
}

func decodeNotSet(data []byte) []bool {
	notSet := make([]bool, len(data))
	copy(types.EncodeSlice(notSet), data)
	return notSet
}

func newGenericAnyValue[T types.Fixed](ityp types.Type) Agg {
	a := NewAnyValue[T]()
	return NewUnaryAgg(AggregateAnyValue, a, false, ityp, AnyValueReturnType([]types.Type{ityp}),
		getFixed[T], putFixed[T], a.Fill, a.Merge, a.Eval)
}

func newAnyValue(ityp types.Type) Agg {
	switch ityp.Oid {
	case types.T_bool:
		return newGenericAnyValue[bool](ityp)
	case types.T_int8:
		return newGenericAnyValue[int8](ityp)
	case types.T_int16:
		return newGenericAnyValue[int16](ityp)
	case types.T_int32:
		return newGenericAnyValue[int32](ityp)
	case types.T_int64:
		return newGenericAnyValue[int64](ityp)
	case types.T_uint8:
		return newGenericAnyValue[uint8](ityp)
	case types.T_uint16:
		return newGenericAnyValue[uint16](ityp)
	case types.T_uint32:
		return newGenericAnyValue[uint32](ityp)
	case types.T_uint64:
		return newGenericAnyValue[uint64](ityp)
	case types.T_float32:
		return newGenericAnyValue[float32](ityp)
	case types.T_float64:
		return newGenericAnyValue[float64](ityp)
	case types.T_date:
		return newGenericAnyValue[types.Date](ityp)
	case types.T_datetime:
		return newGenericAnyValue[types.Datetime](ityp)
	case types.T_timestamp:
		return newGenericAnyValue[types.Timestamp](ityp)
	case types.T_interval:
		return newGenericAnyValue[int64](ityp)
	case types.T_varchar:
		a := NewStrAnyValue()
		return NewUnaryAgg(AggregateAnyValue, a, false, ityp, AnyValueReturnType([]types.Type{ityp}),
			getBytes, putBytes, a.Fill, a.Merge, a.Eval)
	}
	return nil
}
