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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

func TestNewFromValues(t *testing.T) {
	typ := types.WrapNullable(types.T_uint8.ToType())
	vec, err := NewFromValues(typ, []types.Value{types.UInt64Value(1), types.NullValue(), types.Int64Value(3)})
	require.NoError(t, err)
	require.Equal(t, 3, vec.Length())
	require.Equal(t, []uint8{1, 0, 3}, MustFixedCol[uint8](vec))
	require.True(t, vec.IsNull(1))
	require.Equal(t, "[1 NULL 3]", vec.String())

	_, err = NewFromValues(types.T_int32.ToType(), []types.Value{types.NullValue()})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	_, err = NewFromValues(types.T_int32.ToType(), []types.Value{types.StringValue("x")})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	_, err = NewFromValues(types.T_varchar.ToType(), []types.Value{types.Int64Value(1)})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))
}

func TestConst(t *testing.T) {
	vec, err := NewConstFromValue(types.T_int64.ToType(), types.Int64Value(-9), 5)
	require.NoError(t, err)
	require.True(t, vec.IsConst())
	require.False(t, vec.IsConstNull())
	require.Equal(t, 5, vec.Length())
	require.Equal(t, int64(-9), GetFixedAt[int64](vec, 4))
	require.Len(t, MustFixedCol[int64](vec), 1)
	require.Equal(t, "const([-9] x 5)", vec.String())

	flat := vec.ToFlat()
	require.False(t, flat.IsConst())
	require.Equal(t, []int64{-9, -9, -9, -9, -9}, MustFixedCol[int64](flat))

	_, err = NewConstFromValue(types.T_int64.ToType(), types.NullValue(), 5)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	null, err := NewConstFromValue(types.WrapNullable(types.T_varchar.ToType()), types.NullValue(), 3)
	require.NoError(t, err)
	require.True(t, null.IsConstNull())
	require.True(t, null.IsNull(2))
	flat = null.ToFlat()
	require.Equal(t, 3, flat.GetNulls().Count())

	s := NewConstBytes(types.T_varchar.ToType(), []byte("abc"), 2)
	require.Equal(t, "abc", s.GetStringAt(1))

	c := NewVec(types.T_date.ToType())
	AppendFixed(c, types.Date(3), false)
	k := c.ToConst(0, 8)
	require.True(t, k.IsConst())
	require.Equal(t, types.Date(3), GetFixedAt[types.Date](k, 7))

	require.Panics(t, func() { NewConstFixed(types.T_int64.ToType(), int32(1), 1) })
}

func TestUnion(t *testing.T) {
	typ := types.WrapNullable(types.T_varchar.ToType())
	a := NewVec(typ)
	AppendStringList(a, []string{"x", "yy"}, []bool{false, true})
	b := NewVec(typ)
	AppendStringList(b, []string{"p", "qq", "rrr"}, []bool{false, false, true})

	require.NoError(t, a.UnionBatch(b, 1, 2))
	require.Equal(t, 4, a.Length())
	require.Equal(t, "[x NULL qq NULL]", a.String())

	require.NoError(t, a.UnionOne(b, 0))
	require.Equal(t, "p", a.GetStringAt(4))

	require.NoError(t, a.UnionBatch(NewConstBytes(typ, []byte("z"), 2), 0, 2))
	require.Equal(t, "[x NULL qq NULL p z z]", a.String())

	require.NoError(t, a.UnionBatch(NewConstNull(types.T_any.ToType(), 1), 0, 1))
	require.True(t, a.IsNull(7))

	err := a.UnionBatch(b, 2, 5)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	err = a.UnionOne(NewVec(types.T_int8.ToType()), 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))

	f := NewVec(types.WrapNullable(types.T_float64.ToType()))
	g := NewVec(types.WrapNullable(types.T_float64.ToType()))
	AppendFixedList(g, []float64{1.5, 2.5, 3.5}, []bool{true, false, false})
	require.NoError(t, f.UnionBatch(g, 0, 3))
	require.NoError(t, f.UnionBatch(g, 0, 1))
	require.Equal(t, []uint64{0, 3}, f.GetNulls().ToArray())
	require.Equal(t, []float64{0, 2.5, 3.5, 0}, MustFixedCol[float64](f))

	d := f.Dup()
	AppendFixed(d, 9.0, false)
	require.Equal(t, 4, f.Length())
	require.Equal(t, 5, d.Length())
}

func TestGetValue(t *testing.T) {
	dt := NewVec(types.NewDatetime(""))
	AppendFixed(dt, types.Datetime(100), false)
	require.Equal(t, types.UInt64Value(100), dt.GetValue(0))

	b := NewVec(types.T_bool.ToType())
	AppendFixed(b, true, false)
	require.Equal(t, types.BoolValue(true), b.GetValue(0))

	f := NewVec(types.T_float32.ToType())
	AppendFixed(f, float32(0.5), false)
	require.Equal(t, types.Float64Value(0.5), f.GetValue(0))
}

func TestMutableAndSerde(t *testing.T) {
	m := NewMutable(types.WrapNullable(types.T_int16.ToType()), 4)
	require.NoError(t, m.Append(types.Int64Value(2)))
	require.NoError(t, m.AppendNull())
	require.NoError(t, m.AppendDefault())
	require.Equal(t, 3, m.Len())
	vec := m.Finish()
	require.Equal(t, 0, m.Len())
	require.Equal(t, "[2 NULL NULL]", vec.String())

	nn := NewMutable(types.T_int16.ToType(), 1)
	require.Error(t, nn.AppendNull())
	require.NoError(t, nn.AppendDefault())
	require.Equal(t, "[0]", nn.Finish().String())

	typ := types.WrapNullable(types.NewDatetime("Asia/Shanghai"))
	de, err := NewDeserializer(typ, 3)
	require.NoError(t, err)
	require.NoError(t, de.DeText([]byte("2021-01-01 08:00:00")))
	require.NoError(t, de.DeText([]byte("NULL")))
	require.NoError(t, de.DeNull())
	require.Error(t, de.DeText([]byte("yesterday")))
	require.Equal(t, 3, de.Len())
	col := de.FinishToColumn()
	require.Equal(t, types.Datetime(1609459200), GetFixedAt[types.Datetime](col, 0))

	se, err := NewSerializer(typ)
	require.NoError(t, err)
	strs, err := se.SerializeColumn(col)
	require.NoError(t, err)
	require.Equal(t, []string{"2021-01-01 08:00:00", "NULL", "NULL"}, strs)

	ds, err := NewSerializer(types.T_date.ToType())
	require.NoError(t, err)
	s, err := ds.SerializeValue(types.Int64Value(0))
	require.NoError(t, err)
	require.Equal(t, "1970-01-01", s)

	ide, err := NewDeserializer(types.T_int8.ToType(), 1)
	require.NoError(t, err)
	err = ide.DeText([]byte("300"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.NoError(t, ide.DeText([]byte("-7")))
	require.Equal(t, "[-7]", ide.FinishToColumn().String())
}

func TestColumnWithField(t *testing.T) {
	vec := NewVec(types.T_int8.ToType())
	cwf := NewColumnWithField(vec, types.NewField("a", types.T_int8.ToType()))
	require.Equal(t, types.T_int8, cwf.Type().Oid)
	require.Equal(t, "a Int8", cwf.Field.String())
}
