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

package types

import (
	"math"
	"testing"
	gotime "time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

func TestTypeNames(t *testing.T) {
	require.Equal(t, "Int8", T_int8.String())
	require.Equal(t, "UInt64", T_uint64.String())
	require.Equal(t, "DateTime32", New(T_datetime).Name())
	require.Equal(t, "DateTime64(3)", NewTimestamp(3, "").Name())
	require.Equal(t, "Interval(Day)", NewInterval(IntervalDay).Name())
	require.Equal(t, "Nullable(String)", WrapNullable(New(T_varchar)).String())
	require.Equal(t, []string{"DateTime"}, New(T_datetime).Aliases())

	for _, name := range []string{"int32", "INTEGER", "Int", "datetime", "DateTime32", "text", "varchar", "String"} {
		_, ok := TypeFromName(name)
		require.True(t, ok, name)
	}
	typ, ok := TypeFromName("DATETIME")
	require.True(t, ok)
	require.Equal(t, T_datetime, typ.Oid)
	_, ok = TypeFromName("geometry")
	require.False(t, ok)
}

func TestTypeEquality(t *testing.T) {
	require.True(t, NewDatetime("UTC").Eq(NewDatetime("UTC")))
	require.False(t, NewDatetime("UTC").Eq(NewDatetime("Asia/Shanghai")))
	require.False(t, New(T_int32).Eq(WrapNullable(New(T_int32))))
	require.True(t, New(T_int32).EqIgnoreNullable(WrapNullable(New(T_int32))))
	require.False(t, NewInterval(IntervalDay).Eq(NewInterval(IntervalYear)))
}

func TestFixedLength(t *testing.T) {
	tests := map[T]int{
		T_bool: 1, T_int8: 1, T_uint16: 2, T_int32: 4, T_float32: 4, T_date: 4,
		T_datetime: 4, T_int64: 8, T_float64: 8, T_timestamp: 8, T_interval: 8, T_varchar: -1,
	}
	for oid, size := range tests {
		require.Equal(t, size, oid.FixedLength(), oid.String())
	}
	require.Equal(t, int32(4), New(T_datetime).Size)
	require.True(t, New(T_varchar).IsVarlen())
	require.False(t, New(T_varchar).IsFixedLen())
}

func TestDefaultValue(t *testing.T) {
	require.Equal(t, Int64Value(0), New(T_int16).DefaultValue())
	require.Equal(t, UInt64Value(0), New(T_uint8).DefaultValue())
	require.Equal(t, UInt64Value(0), NewDatetime("").DefaultValue())
	require.Equal(t, Int64Value(0), NewInterval(IntervalMonth).DefaultValue())
	require.Equal(t, Float64Value(0), New(T_float32).DefaultValue())
	require.Equal(t, StringValue(""), New(T_varchar).DefaultValue())
	require.True(t, WrapNullable(New(T_int8)).DefaultValue().IsNull())
}

func TestValue(t *testing.T) {
	v := Int64Value(-3)
	i, err := v.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(-3), i)
	f, err := v.AsFloat64()
	require.NoError(t, err)
	require.Equal(t, float64(-3), f)
	_, err = v.AsUint64()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	_, err = UInt64Value(math.MaxUint64).AsInt64()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	_, err = StringValue("1").AsInt64()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))
	s, err := StringValue("abc").AsString()
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	_, err = Int64Value(1).AsString()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	b, err := UInt64Value(2).AsBool()
	require.NoError(t, err)
	require.True(t, b)

	require.Equal(t, "NULL", NullValue().String())
	require.Equal(t, "1.5", Float64Value(1.5).String())
	require.True(t, NullValue().Equal(NullValue()))
	require.False(t, Int64Value(1).Equal(UInt64Value(1)))
	require.True(t, BytesValue([]byte("x")).Equal(StringValue("x")))
}

func TestResultTypeOfBinary(t *testing.T) {
	tests := []struct {
		l, r T
		op   BinaryOp
		want T
	}{
		{T_int8, T_int8, OpAddMul, T_int16},
		{T_uint8, T_uint8, OpAddMul, T_uint16},
		{T_uint8, T_int16, OpAddMul, T_int32},
		{T_int32, T_int32, OpAddMul, T_int64},
		{T_int64, T_int64, OpAddMul, T_int64},
		{T_uint64, T_uint64, OpAddMul, T_uint64},
		{T_uint64, T_int8, OpAddMul, T_int64},
		{T_uint8, T_uint8, OpMinus, T_int16},
		{T_uint64, T_uint64, OpMinus, T_int64},
		{T_int8, T_int8, OpDiv, T_float64},
		{T_float32, T_int8, OpAddMul, T_float64},
		{T_float32, T_float32, OpMinus, T_float64},
		{T_uint16, T_int8, OpModulo, T_uint16},
		{T_int8, T_uint32, OpModulo, T_int32},
		{T_float64, T_int8, OpModulo, T_float64},
	}
	for _, tt := range tests {
		got, err := ResultTypeOfBinary(New(tt.l), WrapNullable(New(tt.r)), tt.op)
		require.NoError(t, err)
		require.Equal(t, tt.want, got.Oid, "%s %s %s", tt.l, tt.op, tt.r)
		require.False(t, got.Nullable)
	}

	_, err := ResultTypeOfBinary(New(T_varchar), New(T_int8), OpAddMul)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))
}

func TestLeastSupertype(t *testing.T) {
	typ, err := LeastSupertype(New(T_int8), New(T_uint8))
	require.NoError(t, err)
	require.Equal(t, T_int16, typ.Oid)

	typ, err = LeastSupertype(New(T_int64), New(T_uint32))
	require.NoError(t, err)
	require.Equal(t, T_int64, typ.Oid)

	typ, err = LeastSupertype(New(T_int16), New(T_float32))
	require.NoError(t, err)
	require.Equal(t, T_float32, typ.Oid)

	typ, err = LeastSupertype(New(T_int32), New(T_float32))
	require.NoError(t, err)
	require.Equal(t, T_float64, typ.Oid)

	typ, err = LeastSupertype(New(T_any), New(T_varchar))
	require.NoError(t, err)
	require.Equal(t, WrapNullable(New(T_varchar)), typ)

	typ, err = LeastSupertype(New(T_date), NewDatetime("UTC"))
	require.NoError(t, err)
	require.Equal(t, NewDatetime("UTC"), typ)

	typ, err = LeastSupertype(New(T_any))
	require.NoError(t, err)
	require.Equal(t, T_any, typ.Oid)
	require.True(t, typ.Nullable)

	_, err = LeastSupertype(New(T_uint64), New(T_int8))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIllegalDataType))
	_, err = LeastSupertype(New(T_varchar), New(T_int8))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIllegalDataType))
}

func TestArrowType(t *testing.T) {
	require.Equal(t, arrow.PrimitiveTypes.Uint32, NewDatetime("UTC").ArrowType())
	require.Equal(t, arrow.BinaryTypes.Binary, New(T_varchar).ArrowType())
	require.Nil(t, New(T_int32).CustomArrowMeta())
	require.Equal(t, map[string]string{
		"ARROW:extension:name":     "DateTime32",
		"ARROW:extension:metadata": "Asia/Shanghai",
	}, NewDatetime("Asia/Shanghai").CustomArrowMeta())

	for _, typ := range []Type{
		New(T_int8), WrapNullable(New(T_uint64)), NewDatetime(""), NewDatetime("Asia/Shanghai"),
		NewTimestamp(3, ""), NewInterval(IntervalHour), New(T_date), New(T_varchar),
	} {
		got, err := FromArrowField(typ.ToArrowField("c"))
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2021-03-04")
	require.NoError(t, err)
	require.Equal(t, DateFromCalendar(2021, gotime.March, 4), d)
	require.Equal(t, "2021-03-04", d.String())
	_, err = ParseDate("2021-13-04")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	d, err = ParseDate("1969-12-31")
	require.NoError(t, err)
	require.Equal(t, Date(-1), d)

	loc, err := GetLocation("")
	require.NoError(t, err)
	dt, err := ParseDatetime("2021-01-01 00:00:01", loc)
	require.NoError(t, err)
	require.Equal(t, Datetime(1609459201), dt)
	require.Equal(t, "2021-01-01 00:00:01", dt.String())

	ts, err := ParseTimestamp("2021-01-01 00:00:01.5", loc)
	require.NoError(t, err)
	require.Equal(t, Timestamp(1609459201500000), ts)
	require.Equal(t, "2021-01-01 00:00:01.500", ts.Format(loc, 3))

	_, err = GetLocation("Not/AZone")
	require.Error(t, err)
}

func TestEncoding(t *testing.T) {
	vs := []int32{1, -2, 3}
	require.Equal(t, vs, DecodeSlice[int32](EncodeSlice(vs)))
	require.Nil(t, EncodeSlice[int64](nil))

	buf := make([]byte, 8)
	require.Equal(t, 8, PutFixed(buf, uint64(7)))
	require.Equal(t, uint64(7), DecodeFixed[uint64](buf))
	require.Equal(t, float64(1.25), DecodeFixed[float64](EncodeFixed(1.25)))
}

func TestParseBool(t *testing.T) {
	v, err := ParseBool("TrUe")
	require.NoError(t, err)
	require.True(t, v)
	v, err = ParseBool("0")
	require.NoError(t, err)
	require.False(t, v)
	v, err = ParseBool("-2.5")
	require.NoError(t, err)
	require.True(t, v)
	for _, s := range []string{"maybe", "ture", ""} {
		_, err = ParseBool(s)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), s)
	}
}
