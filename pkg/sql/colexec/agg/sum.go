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
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

type Numeric interface {
	types.Number
}

type SumResult interface {
	int64 | uint64 | float64
}

// Sum adds the non NULL values, integer sums wrap around.
type Sum[T1 Numeric, T2 SumResult] struct {
	EmptyStruct
}

var SumSupported = []types.T{
	types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64,
	types.T_int8, types.T_int16, types.T_int32, types.T_int64,
	types.T_float32, types.T_float64,
}

// SumReturnType widens signed to Int64, unsigned to UInt64 and floats to
// Float64. An empty group sums to NULL.
func SumReturnType(typs []types.Type) types.Type {
	switch {
	case typs[0].Oid.IsSignedInt():
		return types.WrapNullable(types.T_int64.ToType())
	case typs[0].Oid.IsUnsignedInt():
		return types.WrapNullable(types.T_uint64.ToType())
	case typs[0].Oid.IsFloat():
		return types.WrapNullable(types.T_float64.ToType())
	}
	return types.Type{}
}

func NewSum[T1 Numeric, T2 SumResult]() *Sum[T1, T2] {
	return &Sum[T1, T2]{}
}

func (s *Sum[T1, T2]) Eval(vs []T2) ([]T2, error) {
	return vs, nil
}

func (s *Sum[T1, T2]) Fill(_ int64, value T1, ov T2, isEmpty bool, isNull bool) (T2, bool, error) {
	if isNull {
		return ov, isEmpty, nil
	}
	return ov + T2(value), false, nil
}

func (s *Sum[T1, T2]) Merge(_ int64, _ int64, x T2, y T2, xEmpty bool, yEmpty bool, _ any) (T2, bool, error) {
	switch {
	case yEmpty:
		return x, xEmpty, nil
	case xEmpty:
		return y, false, nil
	}
	return x + y, false, nil
}

func newGenericSum[T1 Numeric, T2 SumResult](ityp types.Type) Agg {
	s := NewSum[T1, T2]()
	return NewUnaryAgg(AggregateSum, s, false, ityp, SumReturnType([]types.Type{ityp}),
		getFixed[T1], putFixed[T2], s.Fill, s.Merge, s.Eval)
}

func newSum(ityp types.Type) Agg {
	switch ityp.Oid {
	case types.T_int8:
		return newGenericSum[int8, int64](ityp)
	case types.T_int16:
		return newGenericSum[int16, int64](ityp)
	case types.T_int32:
		return newGenericSum[int32, int64](ityp)
	case types.T_int64:
		return newGenericSum[int64, int64](ityp)
	case types.T_uint8:
		return newGenericSum[uint8, uint64](ityp)
	case types.T_uint16:
		return newGenericSum[uint16, uint64](ityp)
	case types.T_uint32:
		return newGenericSum[uint32, uint64](ityp)
	case types.T_uint64:
		return newGenericSum[uint64, uint64](ityp)
	case types.T_float32:
		return newGenericSum[float32, float64](ityp)
	case types.T_float64:
		return newGenericSum[float64, float64](ityp)
	}
	return nil
}
