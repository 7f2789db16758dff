// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashmap

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

func newFixedVector[T types.Fixed](typ types.Type, vals []T, nullRows ...int) *vector.Vector {
	vec := vector.NewVec(typ)
	isNulls := make([]bool, len(vals))
	for _, row := range nullRows {
		isNulls[row] = true
	}
	vector.AppendFixedList(vec, vals, isNulls)
	return vec
}

func newStrVector(typ types.Type, vals []string, nullRows ...int) *vector.Vector {
	vec := vector.NewVec(typ)
	isNulls := make([]bool, len(vals))
	for _, row := range nullRows {
		isNulls[row] = true
	}
	vector.AppendStringList(vec, vals, isNulls)
	return vec
}

func TestChooseKeyMethod(t *testing.T) {
	i8 := types.New(types.T_int8)
	u8 := types.New(types.T_uint8)
	i16 := types.New(types.T_int16)
	i32 := types.New(types.T_int32)
	i64 := types.New(types.T_int64)
	str := types.New(types.T_varchar)
	tests := []struct {
		name string
		typs []types.Type
		want KeyMethod
	}{
		{"no columns", nil, KeysU8},
		{"int8", []types.Type{i8}, KeysU8},
		{"nullable int8", []types.Type{types.WrapNullable(i8)}, KeysU16},
		{"three bytes", []types.Type{u8, u8, u8}, KeysU32},
		{"two int16", []types.Type{i16, i16}, KeysU32},
		{"nullable int32", []types.Type{types.WrapNullable(i32)}, KeysU64},
		{"int64", []types.Type{i64}, KeysU64},
		{"date and datetime", []types.Type{types.New(types.T_date), types.NewDatetime("")}, KeysU64},
		{"nullable int64", []types.Type{types.WrapNullable(i64)}, Serialized},
		{"nine bytes", []types.Type{i32, i32, i8}, Serialized},
		{"string", []types.Type{str}, Serialized},
		{"int8 and string", []types.Type{i8, str}, Serialized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ChooseKeyMethod(tt.typs))
		})
	}
}

func TestFixedKeyPacking(t *testing.T) {
	i8 := types.New(types.T_int8)
	u16 := types.New(types.T_uint16)
	typs := []types.Type{i8, u16}
	vecs := []*vector.Vector{
		newFixedVector(i8, []int8{1, -1}),
		newFixedVector(u16, []uint16{0x0203, 0}),
	}
	keys := make([]uint64, 2)
	NewFixedKeyBuilder(typs).BuildKeys(vecs, 0, 2, keys)
	require.Equal(t, []uint64{0x010203, 0xff0000}, keys)

	vals := DecodeFixedKey(keys[1], typs)
	require.Equal(t, []types.Value{types.Int64Value(-1), types.UInt64Value(0)}, vals)

	// the null flag precedes the value
	ni8 := types.WrapNullable(i8)
	vec := newFixedVector(ni8, []int8{5, 0, -2}, 1)
	keys = make([]uint64, 3)
	NewFixedKeyBuilder([]types.Type{ni8}).BuildKeys([]*vector.Vector{vec}, 0, 3, keys)
	require.Equal(t, []uint64{0x0005, 0x0100, 0x00fe}, keys)

	cols := DecodeFixedKeys(keys, []types.Type{ni8})
	require.Equal(t, "[5 NULL -2]", cols[0].String())
}

func TestFixedKeyConstant(t *testing.T) {
	i32 := types.New(types.T_int32)
	typs := []types.Type{i32, i32}
	vecs := []*vector.Vector{
		vector.NewConstFixed(i32, int32(7), 3),
		newFixedVector(i32, []int32{1, 2, 1}),
	}
	keys := make([]uint64, 3)
	NewFixedKeyBuilder(typs).BuildKeys(vecs, 0, 3, keys)
	require.Equal(t, keys[0], keys[2])
	require.NotEqual(t, keys[0], keys[1])
	require.Equal(t, uint64(7)<<32|1, keys[0])
}

func TestIntHashMap(t *testing.T) {
	stubs := gostub.Stub(&UnitLimit, 3)
	defer stubs.Reset()

	i32 := types.New(types.T_int32)
	u32 := types.New(types.T_uint32)
	rowCount := 10
	vecs := []*vector.Vector{
		newFixedVector(i32, []int32{-1, -1, -1, 2, 2, 2, 3, 3, 3, 4}),
		newFixedVector(u32, []uint32{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}),
	}
	mp, err := NewHashMap([]types.Type{i32, u32}, nil)
	require.NoError(t, err)
	require.Equal(t, KeysU64, mp.Method())

	vs := make([]uint64, rowCount)
	newGroups, err := mp.Insert(vecs, 0, rowCount, vs)
	require.NoError(t, err)
	require.Equal(t, 4, newGroups)
	require.Equal(t, []uint64{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}, vs)

	newGroups, err = mp.Insert(vecs, 5, 5, vs)
	require.NoError(t, err)
	require.Equal(t, 0, newGroups)
	require.Equal(t, []uint64{2, 3, 3, 3, 4}, vs[:5])

	require.NoError(t, mp.Find(vecs, 0, rowCount, vs))
	require.Equal(t, []uint64{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}, vs)

	cols, err := mp.BuildKeyColumns()
	require.NoError(t, err)
	require.Equal(t, "[-1 2 3 4]", cols[0].String())
	require.Equal(t, "[1 2 3 4]", cols[1].String())
	mp.Free()
}

func TestIntHashMapNulls(t *testing.T) {
	ni8 := types.WrapNullable(types.New(types.T_int8))
	ni16 := types.WrapNullable(types.New(types.T_int16))
	vecs := []*vector.Vector{
		newFixedVector(ni8, []int8{0, 1, 0, 2, 0, 3}, 0, 2, 4),
		newFixedVector(ni16, []int16{0, 1, 0, 2, 0, 3}, 0, 2, 4),
	}
	mp, err := NewIntHashMap([]types.Type{ni8, ni16})
	require.NoError(t, err)
	require.Equal(t, KeysU64, mp.Method())

	vs := make([]uint64, 6)
	_, err = mp.Insert(vecs, 0, 6, vs)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 1, 3, 1, 4}, vs)

	cols, err := mp.BuildKeyColumns()
	require.NoError(t, err)
	require.Equal(t, "[NULL 1 2 3]", cols[0].String())
	require.Equal(t, "[NULL 1 2 3]", cols[1].String())
}

func TestSmallFixedMaps(t *testing.T) {
	u8 := types.New(types.T_uint8)
	mp, err := NewIntHashMap([]types.Type{u8})
	require.NoError(t, err)
	require.Equal(t, KeysU8, mp.Method())
	vs := make([]uint64, 4)
	_, err = mp.Insert([]*vector.Vector{newFixedVector(u8, []uint8{9, 0, 9, 255})}, 0, 4, vs)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 1, 3}, vs)
	require.Equal(t, []uint64{9, 0, 255}, mp.Keys())

	b := types.New(types.T_bool)
	mp, err = NewIntHashMap([]types.Type{b, u8})
	require.NoError(t, err)
	require.Equal(t, KeysU16, mp.Method())
	_, err = mp.Insert([]*vector.Vector{
		newFixedVector(b, []bool{true, false, true, true}),
		newFixedVector(u8, []uint8{1, 1, 1, 2}),
	}, 0, 4, vs)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 1, 3}, vs)
	cols, err := mp.BuildKeyColumns()
	require.NoError(t, err)
	require.Equal(t, "[true false true]", cols[0].String())
}

func TestSerializedKeys(t *testing.T) {
	str := types.New(types.T_varchar)
	nstr := types.WrapNullable(str)
	i8 := types.New(types.T_int8)
	typs := []types.Type{nstr, i8}
	vecs := []*vector.Vector{
		newStrVector(nstr, []string{"1a", "2b", "4d", "", "2b", ""}, 5),
		newFixedVector(i8, []int8{1, 1, 1, 1, 1, 1}),
	}
	keys := make([][]byte, 6)
	NewSerializedKeyBuilder(typs).BuildKeys(vecs, 0, 6, keys)
	require.Equal(t, []byte{0, 2, '1', 'a', 1}, keys[0])
	require.Equal(t, []byte{0, 0, 1}, keys[3])
	require.Equal(t, []byte{1, 1}, keys[5])
	require.Equal(t, keys[1], keys[4])
	require.NotEqual(t, keys[0], keys[1])
	require.NotEqual(t, keys[1], keys[2])
	require.NotEqual(t, keys[3], keys[5])

	vals, err := DecodeSerializedKey(keys[2], typs)
	require.NoError(t, err)
	require.Equal(t, []types.Value{types.StringValue("4d"), types.Int64Value(1)}, vals)
	vals, err = DecodeSerializedKey(keys[5], typs)
	require.NoError(t, err)
	require.True(t, vals[0].IsNull())

	_, err = DecodeSerializedKey([]byte{0, 9, 'x'}, typs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	_, err = DecodeSerializedKey(append(keys[0], 0), typs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestSerializedKeysAreUnambiguous(t *testing.T) {
	str := types.New(types.T_varchar)
	typs := []types.Type{str, str}
	vecs := []*vector.Vector{
		newStrVector(str, []string{"a", "ab"}),
		newStrVector(str, []string{"bc", "c"}),
	}
	mp, err := NewStrHashMap(typs, nil)
	require.NoError(t, err)
	vs := make([]uint64, 2)
	newGroups, err := mp.Insert(vecs, 0, 2, vs)
	require.NoError(t, err)
	require.Equal(t, 2, newGroups)
	require.Equal(t, []uint64{1, 2}, vs)
}

func TestStrHashMap(t *testing.T) {
	stubs := gostub.Stub(&UnitLimit, 2)
	defer stubs.Reset()

	str := types.New(types.T_varchar)
	a := arena.New(64)
	mp, err := NewHashMap([]types.Type{str}, a)
	require.NoError(t, err)
	require.Equal(t, Serialized, mp.Method())

	vec := newStrVector(str, []string{"1a", "2b", "4d", "2b", "1a"})
	vs := make([]uint64, 5)
	newGroups, err := mp.Insert([]*vector.Vector{vec}, 0, 5, vs)
	require.NoError(t, err)
	require.Equal(t, 3, newGroups)
	require.Equal(t, []uint64{1, 2, 3, 2, 1}, vs)
	// one length byte plus two bytes per distinct key
	require.Equal(t, 9, a.Size())
	require.Equal(t, mp.(*StrHashMap).hashMap.Size(), mp.Size())

	require.NoError(t, mp.Find([]*vector.Vector{newStrVector(str, []string{"4d", "zz"})}, 0, 2, vs))
	require.Equal(t, []uint64{3, 0}, vs[:2])

	cols, err := mp.BuildKeyColumns()
	require.NoError(t, err)
	require.Equal(t, "[1a 2b 4d]", cols[0].String())
}

func TestMergeGroups(t *testing.T) {
	i64 := types.New(types.T_int64)
	left, err := NewHashMap([]types.Type{i64}, nil)
	require.NoError(t, err)
	right, err := NewHashMap([]types.Type{i64}, nil)
	require.NoError(t, err)

	vs := make([]uint64, 3)
	_, err = left.Insert([]*vector.Vector{newFixedVector(i64, []int64{10, 20, 30})}, 0, 3, vs)
	require.NoError(t, err)
	_, err = right.Insert([]*vector.Vector{newFixedVector(i64, []int64{30, 40, 10})}, 0, 3, vs)
	require.NoError(t, err)

	mapping, newGroups, err := left.MergeGroups(right)
	require.NoError(t, err)
	require.Equal(t, 1, newGroups)
	require.Equal(t, []uint64{3, 4, 1}, mapping)
	require.Equal(t, uint64(4), left.GroupCount())

	str := types.New(types.T_varchar)
	sl, err := NewHashMap([]types.Type{str}, nil)
	require.NoError(t, err)
	sr, err := NewHashMap([]types.Type{str}, nil)
	require.NoError(t, err)
	_, err = sl.Insert([]*vector.Vector{newStrVector(str, []string{"x", "y"})}, 0, 2, vs)
	require.NoError(t, err)
	_, err = sr.Insert([]*vector.Vector{newStrVector(str, []string{"z", "x"})}, 0, 2, vs)
	require.NoError(t, err)
	mapping, newGroups, err = sl.MergeGroups(sr)
	require.NoError(t, err)
	require.Equal(t, 1, newGroups)
	require.Equal(t, []uint64{3, 1}, mapping)

	_, _, err = left.MergeGroups(sr)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}
