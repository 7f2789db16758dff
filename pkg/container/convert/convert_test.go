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

package convert

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

func TestFromLegacySynthesizesValidity(t *testing.T) {
	b := array.NewInt32Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues([]int32{1, 2, 3}, nil)
	arr := b.NewArray()
	defer arr.Release()
	require.Equal(t, 0, arr.NullN())

	field := arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true}
	cwf, err := FromLegacy(field, LegacyColumn{Array: arr})
	require.NoError(t, err)
	require.True(t, cwf.Type().Nullable)
	require.False(t, cwf.Vec.GetNulls().Any())
	require.Equal(t, []int32{1, 2, 3}, vector.MustFixedCol[int32](cwf.Vec))
}

func TestFromLegacyNulls(t *testing.T) {
	b := array.NewBinaryBuilder(memory.DefaultAllocator, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Append([]byte("x"))
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	cwf, err := FromLegacy(arrow.Field{Name: "s", Type: arrow.BinaryTypes.Binary, Nullable: true}, LegacyColumn{Array: arr})
	require.NoError(t, err)
	require.Equal(t, "[x NULL]", cwf.Vec.String())

	_, err = FromLegacy(arrow.Field{Name: "s", Type: arrow.BinaryTypes.Binary}, LegacyColumn{Array: arr})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDataStructMismatch))
}

func TestFromLegacyDatetime(t *testing.T) {
	typ := types.NewDatetime("Asia/Shanghai")
	field := typ.ToArrowField("ts")
	b := array.NewUint32Builder(memory.DefaultAllocator)
	defer b.Release()
	b.Append(1609459200)
	arr := b.NewArray()
	defer arr.Release()

	cwf, err := FromLegacy(field, LegacyColumn{Array: arr})
	require.NoError(t, err)
	require.Equal(t, typ, cwf.Type())
	require.Equal(t, types.Datetime(1609459200), vector.GetFixedAt[types.Datetime](cwf.Vec, 0))
}

func TestConstRoundTrip(t *testing.T) {
	field := arrow.Field{Name: "c", Type: arrow.PrimitiveTypes.Int64}
	cwf, err := FromLegacy(field, LegacyColumn{Scalar: scalar.NewInt64Scalar(42), Size: 5})
	require.NoError(t, err)
	require.True(t, cwf.Vec.IsConst())
	require.Equal(t, 5, cwf.Vec.Length())

	col, err := ToLegacy(cwf)
	require.NoError(t, err)
	require.True(t, col.IsConst())
	require.Equal(t, 5, col.Len())
	require.Equal(t, int64(42), col.Scalar.(*scalar.Int64).Value)

	nullField := arrow.Field{Name: "n", Type: arrow.BinaryTypes.Binary, Nullable: true}
	cwf, err = FromLegacy(nullField, LegacyColumn{Scalar: scalar.MakeNullScalar(arrow.BinaryTypes.Binary), Size: 2})
	require.NoError(t, err)
	require.True(t, cwf.Vec.IsConstNull())
	col, err = ToLegacy(cwf)
	require.NoError(t, err)
	require.False(t, col.Scalar.IsValid())

	_, err = FromLegacy(arrow.Field{Name: "n", Type: arrow.BinaryTypes.Binary}, LegacyColumn{Scalar: scalar.MakeNullScalar(arrow.BinaryTypes.Binary), Size: 2})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDataStructMismatch))
}

func TestToLegacyRoundTrip(t *testing.T) {
	vecs := []*vector.Vector{}
	fields := []types.Field{}

	d := vector.NewVec(types.WrapNullable(types.T_date.ToType()))
	vector.AppendFixedList(d, []types.Date{1, 2}, []bool{false, true})
	vecs = append(vecs, d)
	fields = append(fields, types.NewField("d", *d.GetType()))

	s := vector.NewVec(types.T_varchar.ToType())
	vector.AppendStringList(s, []string{"a", "bc"}, nil)
	vecs = append(vecs, s)
	fields = append(fields, types.NewField("s", *s.GetType()))

	f := vector.NewVec(types.T_float32.ToType())
	vector.AppendFixedList(f, []float32{0.5, -1}, nil)
	vecs = append(vecs, f)
	fields = append(fields, types.NewField("f", *f.GetType()))

	bo := vector.NewVec(types.T_bool.ToType())
	vector.AppendFixedList(bo, []bool{true, false}, nil)
	vecs = append(vecs, bo)
	fields = append(fields, types.NewField("b", *bo.GetType()))

	for i, vec := range vecs {
		col, err := ToLegacy(vector.NewColumnWithField(vec, fields[i]))
		require.NoError(t, err)
		require.False(t, col.IsConst())
		require.Equal(t, 2, col.Len())
		back, err := FromLegacy(fields[i].Typ.ToArrowField(fields[i].Name), col)
		require.NoError(t, err)
		require.Equal(t, vec.String(), back.Vec.String())
		require.Equal(t, fields[i], back.Field)
		col.Release()
	}
}
