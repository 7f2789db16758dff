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

package vector

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mo-vexec/pkg/container/nulls"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// FunctionParameterWrapper is generated from a vector.
// It hides the relevant details of vector (like scalar and contain null or not.)
// and provides a series of methods to get values.
type FunctionParameterWrapper[T any] interface {
	// GetType will return the type info of wrapped parameter.
	GetType() types.Type

	// GetSourceVector return the source vector.
	GetSourceVector() *Vector

	// GetValue return the Idx th value and if it's null or not.
	GetValue(idx uint64) (T, bool)

	// GetStrValue return the Idx th string value and if it's null or not.
	GetStrValue(idx uint64) ([]byte, bool)

	// UnSafeGetAllValue return all the values.
	// please use it carefully because we didn't check the null situation.
	UnSafeGetAllValue() []T
}

var _ FunctionParameterWrapper[int64] = &FunctionParameterNormal[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterWithoutNull[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterScalar[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterScalarNull[int64]{}

func GenerateFunctionFixedTypeParameter[T types.Fixed](v *Vector) FunctionParameterWrapper[T] {
	t := v.GetType()
	if v.IsConstNull() || t.Oid == types.T_any {
		return &FunctionParameterScalarNull[T]{
			typ:          *t,
			sourceVector: v,
		}
	}
	cols := MustFixedCol[T](v)
	if v.IsConst() {
		return &FunctionParameterScalar[T]{
			typ:          *t,
			sourceVector: v,
			scalarValue:  cols[0],
		}
	}
	if v.nsp.Any() {
		return &FunctionParameterNormal[T]{
			typ:          *t,
			sourceVector: v,
			values:       cols,
			nullMap:      v.nsp,
		}
	}
	return &FunctionParameterWithoutNull[T]{
		typ:          *t,
		sourceVector: v,
		values:       cols,
	}
}

// GenerateFunctionStrParameter wraps a string vector, values are slices of
// the vector's area.
func GenerateFunctionStrParameter(v *Vector) FunctionParameterWrapper[[]byte] {
	t := v.GetType()
	if v.IsConstNull() || t.Oid == types.T_any {
		return &FunctionParameterScalarNull[[]byte]{
			typ:          *t,
			sourceVector: v,
		}
	}
	if v.IsConst() {
		str := v.GetBytesAt(0)
		return &FunctionParameterScalar[[]byte]{
			typ:          *t,
			sourceVector: v,
			scalarValue:  str,
			scalarStr:    str,
		}
	}
	strs := make([][]byte, v.length)
	for i := range strs {
		strs[i] = v.GetBytesAt(i)
	}
	if v.nsp.Any() {
		return &FunctionParameterNormal[[]byte]{
			typ:          *t,
			sourceVector: v,
			values:       strs,
			strValues:    strs,
			nullMap:      v.nsp,
		}
	}
	return &FunctionParameterWithoutNull[[]byte]{
		typ:          *t,
		sourceVector: v,
		values:       strs,
		strValues:    strs,
	}
}

// FunctionParameterNormal is a wrapper of normal vector which
// may contains null value.
type FunctionParameterNormal[T any] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
	strValues    [][]byte
	nullMap      *nulls.Nulls
}

func (p *FunctionParameterNormal[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterNormal[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterNormal[T]) GetValue(idx uint64) (value T, isNull bool) {
	if p.nullMap.Contains(idx) {
		return value, true
	}
	return p.values[idx], false
}

func (p *FunctionParameterNormal[T]) GetStrValue(idx uint64) (value []byte, isNull bool) {
	if p.nullMap.Contains(idx) {
		return nil, true
	}
	return p.strValues[idx], false
}

func (p *FunctionParameterNormal[T]) UnSafeGetAllValue() []T {
	return p.values
}

// FunctionParameterWithoutNull is a wrapper of normal vector but
// without null value.
type FunctionParameterWithoutNull[T any] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
	strValues    [][]byte
}

func (p *FunctionParameterWithoutNull[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterWithoutNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterWithoutNull[T]) GetValue(idx uint64) (T, bool) {
	return p.values[idx], false
}

func (p *FunctionParameterWithoutNull[T]) GetStrValue(idx uint64) ([]byte, bool) {
	return p.strValues[idx], false
}

func (p *FunctionParameterWithoutNull[T]) UnSafeGetAllValue() []T {
	return p.values
}

// FunctionParameterScalar is a wrapper of scalar vector.
type FunctionParameterScalar[T any] struct {
	typ          types.Type
	sourceVector *Vector
	scalarValue  T
	scalarStr    []byte
}

func (p *FunctionParameterScalar[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterScalar[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterScalar[T]) GetValue(_ uint64) (T, bool) {
	return p.scalarValue, false
}

func (p *FunctionParameterScalar[T]) GetStrValue(_ uint64) ([]byte, bool) {
	return p.scalarStr, false
}

func (p *FunctionParameterScalar[T]) UnSafeGetAllValue() []T {
	return []T{p.scalarValue}
}

// FunctionParameterScalarNull is a wrapper of scalar null vector.
type FunctionParameterScalarNull[T any] struct {
	typ          types.Type
	sourceVector *Vector
}

func (p *FunctionParameterScalarNull[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterScalarNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterScalarNull[T]) GetValue(_ uint64) (value T, isNull bool) {
	return value, true
}

func (p *FunctionParameterScalarNull[T]) GetStrValue(_ uint64) ([]byte, bool) {
	return nil, true
}

func (p *FunctionParameterScalarNull[T]) UnSafeGetAllValue() []T {
	return nil
}

type FunctionResultWrapper interface {
	GetResultVector() *Vector
	Free()
}

var _ FunctionResultWrapper = &FunctionResult[int64]{}

type FunctionResult[T any] struct {
	vec *Vector
}

func MustFunctionResult[T any](wrapper FunctionResultWrapper) *FunctionResult[T] {
	if fr, ok := wrapper.(*FunctionResult[T]); ok {
		return fr
	}
	panic("wrong type for FunctionResultWrapper")
}

func newResultFunc[T any](v *Vector) *FunctionResult[T] {
	return &FunctionResult[T]{
		vec: v,
	}
}

// Append adds a fixed width value, strings go through AppendBytes.
func (fr *FunctionResult[T]) Append(val T, isnull bool) {
	if isnull {
		fr.vec.AppendNull()
		return
	}
	sz := int(unsafe.Sizeof(val))
	if fr.vec.typ.IsVarlen() || sz != fr.vec.typ.TypeSize() {
		panic(fmt.Sprintf("append a %d bytes value to a result of type %s", sz, fr.vec.typ))
	}
	n := len(fr.vec.data)
	fr.vec.data = slices.Grow(fr.vec.data, sz)[:n+sz]
	*(*T)(unsafe.Pointer(&fr.vec.data[n])) = val
	fr.vec.length++
}

func (fr *FunctionResult[T]) AppendBytes(val []byte, isnull bool) {
	AppendBytes(fr.vec, val, isnull)
}

func (fr *FunctionResult[T]) GetType() types.Type {
	return *fr.vec.GetType()
}

func (fr *FunctionResult[T]) GetResultVector() *Vector {
	return fr.vec
}

func (fr *FunctionResult[T]) Free() {
	fr.vec.Free()
}

// NewFunctionResultWrapper returns an empty flat result with room for
// length rows.
func NewFunctionResultWrapper(typ types.Type, length int) FunctionResultWrapper {
	v := NewVec(typ)
	v.PreExtend(length)

	switch typ.Oid {
	case types.T_varchar:
		return newResultFunc[[]byte](v)
	case types.T_bool:
		return newResultFunc[bool](v)
	case types.T_int8:
		return newResultFunc[int8](v)
	case types.T_int16:
		return newResultFunc[int16](v)
	case types.T_int32:
		return newResultFunc[int32](v)
	case types.T_int64, types.T_interval:
		return newResultFunc[int64](v)
	case types.T_uint8:
		return newResultFunc[uint8](v)
	case types.T_uint16:
		return newResultFunc[uint16](v)
	case types.T_uint32:
		return newResultFunc[uint32](v)
	case types.T_uint64:
		return newResultFunc[uint64](v)
	case types.T_float32:
		return newResultFunc[float32](v)
	case types.T_float64:
		return newResultFunc[float64](v)
	case types.T_date:
		return newResultFunc[types.Date](v)
	case types.T_datetime:
		return newResultFunc[types.Datetime](v)
	case types.T_timestamp:
		return newResultFunc[types.Timestamp](v)
	}
	panic(fmt.Sprintf("unexpected type %s for function result", typ))
}
