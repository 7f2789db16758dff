// Copyright 2021 - 2022 Matrix Origin
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

// Package convert moves columns between the legacy arrow array/scalar pair
// and vectors. Constants stay constants in both directions.
package convert

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

// LegacyColumn is either a full array or a scalar repeated Size times.
type LegacyColumn struct {
	Array  arrow.Array
	Scalar scalar.Scalar
	Size   int
}

func (c LegacyColumn) IsConst() bool {
	return c.Scalar != nil
}

func (c LegacyColumn) Len() int {
	if c.IsConst() {
		return c.Size
	}
	return c.Array.Len()
}

// Release drops the array reference held by c.
func (c LegacyColumn) Release() {
	if c.Array != nil {
		c.Array.Release()
	}
}

// FromLegacy converts col declared as field. A nullable field whose array
// carries no validity bitmap gets an all-valid one.
func FromLegacy(field arrow.Field, col LegacyColumn) (vector.ColumnWithField, error) {
	typ, err := types.FromArrowField(field)
	if err != nil {
		return vector.ColumnWithField{}, err
	}
	f := types.NewField(field.Name, typ)

	if col.IsConst() {
		val, err := scalarToValue(col.Scalar)
		if err != nil {
			return vector.ColumnWithField{}, err
		}
		if val.IsNull() && !typ.Nullable {
			return vector.ColumnWithField{}, moerr.NewDataStructMismatchNoCtx("field %s is not nullable but holds a NULL constant", field.Name)
		}
		vec, err := vector.NewConstFromValue(typ, val, col.Size)
		if err != nil {
			return vector.ColumnWithField{}, err
		}
		return vector.NewColumnWithField(vec, f), nil
	}

	arr := col.Array
	if arr.NullN() > 0 && !typ.Nullable {
		return vector.ColumnWithField{}, moerr.NewDataStructMismatchNoCtx("field %s is not nullable but holds %d NULL values", field.Name, arr.NullN())
	}
	vec := vector.NewVec(typ)
	vec.PreExtend(arr.Len())
	switch a := arr.(type) {
	case *array.Null:
		for i := 0; i < a.Len(); i++ {
			vec.AppendNull()
		}
	case *array.Boolean:
		for i := 0; i < a.Len(); i++ {
			vector.AppendFixed(vec, a.Value(i), a.IsNull(i))
		}
	case *array.Int8:
		fromValues[int8, int8](vec, a.Int8Values(), a)
	case *array.Int16:
		fromValues[int16, int16](vec, a.Int16Values(), a)
	case *array.Int32:
		fromValues[int32, int32](vec, a.Int32Values(), a)
	case *array.Int64:
		switch typ.Oid {
		case types.T_timestamp:
			fromValues[int64, types.Timestamp](vec, a.Int64Values(), a)
		default:
			fromValues[int64, int64](vec, a.Int64Values(), a)
		}
	case *array.Uint8:
		fromValues[uint8, uint8](vec, a.Uint8Values(), a)
	case *array.Uint16:
		fromValues[uint16, uint16](vec, a.Uint16Values(), a)
	case *array.Uint32:
		if typ.Oid == types.T_datetime {
			fromValues[uint32, types.Datetime](vec, a.Uint32Values(), a)
		} else {
			fromValues[uint32, uint32](vec, a.Uint32Values(), a)
		}
	case *array.Uint64:
		fromValues[uint64, uint64](vec, a.Uint64Values(), a)
	case *array.Float32:
		fromValues[float32, float32](vec, a.Float32Values(), a)
	case *array.Float64:
		fromValues[float64, float64](vec, a.Float64Values(), a)
	case *array.Date32:
		fromValues[arrow.Date32, types.Date](vec, a.Date32Values(), a)
	case *array.Binary:
		for i := 0; i < a.Len(); i++ {
			vector.AppendBytes(vec, a.Value(i), a.IsNull(i))
		}
	case *array.String:
		for i := 0; i < a.Len(); i++ {
			vector.AppendBytes(vec, []byte(a.Value(i)), a.IsNull(i))
		}
	default:
		return vector.ColumnWithField{}, moerr.NewIllegalDataTypeNoCtx("unsupported arrow array %s", arr.DataType())
	}
	return vector.NewColumnWithField(vec, f), nil
}

func fromValues[S, T types.Number](vec *vector.Vector, vals []S, arr arrow.Array) {
	for i, v := range vals {
		vector.AppendFixed(vec, T(v), arr.IsNull(i))
	}
}

// ToLegacy converts cwf back, a constant becomes a scalar without being
// materialized.
func ToLegacy(cwf vector.ColumnWithField) (LegacyColumn, error) {
	typ := cwf.Field.Typ
	vec := cwf.Vec
	if vec.IsConst() {
		sc, err := valueToScalar(typ, vec.GetValue(0))
		if err != nil {
			return LegacyColumn{}, err
		}
		return LegacyColumn{Scalar: sc, Size: vec.Length()}, nil
	}

	mem := memory.DefaultAllocator
	var arr arrow.Array
	switch typ.Oid {
	case types.T_any:
		arr = array.NewNull(vec.Length())
	case types.T_bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i, v := range vector.MustFixedCol[bool](vec) {
			if vec.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(v)
			}
		}
		arr = b.NewArray()
	case types.T_int8:
		arr = buildArray[int8, int8](vec, array.NewInt8Builder(mem))
	case types.T_int16:
		arr = buildArray[int16, int16](vec, array.NewInt16Builder(mem))
	case types.T_int32:
		arr = buildArray[int32, int32](vec, array.NewInt32Builder(mem))
	case types.T_int64, types.T_interval:
		arr = buildArray[int64, int64](vec, array.NewInt64Builder(mem))
	case types.T_timestamp:
		arr = buildArray[types.Timestamp, int64](vec, array.NewInt64Builder(mem))
	case types.T_uint8:
		arr = buildArray[uint8, uint8](vec, array.NewUint8Builder(mem))
	case types.T_uint16:
		arr = buildArray[uint16, uint16](vec, array.NewUint16Builder(mem))
	case types.T_uint32:
		arr = buildArray[uint32, uint32](vec, array.NewUint32Builder(mem))
	case types.T_datetime:
		arr = buildArray[types.Datetime, uint32](vec, array.NewUint32Builder(mem))
	case types.T_uint64:
		arr = buildArray[uint64, uint64](vec, array.NewUint64Builder(mem))
	case types.T_float32:
		arr = buildArray[float32, float32](vec, array.NewFloat32Builder(mem))
	case types.T_float64:
		arr = buildArray[float64, float64](vec, array.NewFloat64Builder(mem))
	case types.T_date:
		arr = buildArray[types.Date, arrow.Date32](vec, array.NewDate32Builder(mem))
	case types.T_varchar:
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		for i := 0; i < vec.Length(); i++ {
			if vec.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(vec.GetBytesAt(i))
			}
		}
		arr = b.NewArray()
	default:
		return LegacyColumn{}, moerr.NewIllegalDataTypeNoCtx("unsupported type %s", typ)
	}
	return LegacyColumn{Array: arr}, nil
}

type appender[E any] interface {
	Append(E)
	AppendNull()
	NewArray() arrow.Array
	Release()
}

func buildArray[T, E types.Number](vec *vector.Vector, b appender[E]) arrow.Array {
	defer b.Release()
	for i, v := range vector.MustFixedCol[T](vec) {
		if vec.IsNull(i) {
			b.AppendNull()
		} else {
			b.Append(E(v))
		}
	}
	return b.NewArray()
}

func scalarToValue(sc scalar.Scalar) (types.Value, error) {
	if !sc.IsValid() {
		return types.NullValue(), nil
	}
	switch s := sc.(type) {
	case *scalar.Boolean:
		return types.BoolValue(s.Value), nil
	case *scalar.Int8:
		return types.Int64Value(int64(s.Value)), nil
	case *scalar.Int16:
		return types.Int64Value(int64(s.Value)), nil
	case *scalar.Int32:
		return types.Int64Value(int64(s.Value)), nil
	case *scalar.Int64:
		return types.Int64Value(s.Value), nil
	case *scalar.Uint8:
		return types.UInt64Value(uint64(s.Value)), nil
	case *scalar.Uint16:
		return types.UInt64Value(uint64(s.Value)), nil
	case *scalar.Uint32:
		return types.UInt64Value(uint64(s.Value)), nil
	case *scalar.Uint64:
		return types.UInt64Value(s.Value), nil
	case *scalar.Float32:
		return types.Float64Value(float64(s.Value)), nil
	case *scalar.Float64:
		return types.Float64Value(s.Value), nil
	case *scalar.Date32:
		return types.Int64Value(int64(s.Value)), nil
	case *scalar.Binary:
		return types.BytesValue(append([]byte(nil), s.Data()...)), nil
	case *scalar.String:
		return types.BytesValue(append([]byte(nil), s.Data()...)), nil
	}
	return types.Value{}, moerr.NewIllegalDataTypeNoCtx("unsupported arrow scalar %s", sc.DataType())
}

func valueToScalar(typ types.Type, val types.Value) (scalar.Scalar, error) {
	if val.IsNull() {
		return scalar.MakeNullScalar(typ.ArrowType()), nil
	}
	var err error
	var i int64
	var u uint64
	var f float64
	switch typ.Oid {
	case types.T_bool:
		var b bool
		if b, err = val.AsBool(); err == nil {
			return scalar.NewBooleanScalar(b), nil
		}
	case types.T_int8, types.T_int16, types.T_int32, types.T_int64, types.T_timestamp, types.T_interval, types.T_date:
		if i, err = val.AsInt64(); err == nil {
			switch typ.Oid {
			case types.T_int8:
				return scalar.NewInt8Scalar(int8(i)), nil
			case types.T_int16:
				return scalar.NewInt16Scalar(int16(i)), nil
			case types.T_int32:
				return scalar.NewInt32Scalar(int32(i)), nil
			case types.T_date:
				return scalar.NewDate32Scalar(arrow.Date32(i)), nil
			}
			return scalar.NewInt64Scalar(i), nil
		}
	case types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64, types.T_datetime:
		if u, err = val.AsUint64(); err == nil {
			switch typ.Oid {
			case types.T_uint8:
				return scalar.NewUint8Scalar(uint8(u)), nil
			case types.T_uint16:
				return scalar.NewUint16Scalar(uint16(u)), nil
			case types.T_uint64:
				return scalar.NewUint64Scalar(u), nil
			}
			return scalar.NewUint32Scalar(uint32(u)), nil
		}
	case types.T_float32:
		if f, err = val.AsFloat64(); err == nil {
			return scalar.NewFloat32Scalar(float32(f)), nil
		}
	case types.T_float64:
		if f, err = val.AsFloat64(); err == nil {
			return scalar.NewFloat64Scalar(f), nil
		}
	case types.T_varchar:
		var b []byte
		if b, err = val.AsBytes(); err == nil {
			return scalar.NewBinaryScalar(memory.NewBufferBytes(b), arrow.BinaryTypes.Binary), nil
		}
	default:
		err = moerr.NewIllegalDataTypeNoCtx("unsupported type %s", typ)
	}
	return nil, err
}
