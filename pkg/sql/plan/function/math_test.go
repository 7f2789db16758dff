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

package function

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/testutil"
)

func testSign[T types.Number](t *testing.T, oid types.T, vs []T, want []int8) {
	arg := testutil.MakeFixedVector(oid, append(vs, 0), []uint64{uint64(len(vs))})
	vec := mustEval(t, "sign", arg)
	require.Equal(t, types.WrapNullable(types.T_int8.ToType()), *vec.GetType(), "%s", oid)
	require.Equal(t, want, vector.MustFixedCol[int8](vec)[:len(vs)], "%s", oid)
	require.True(t, vec.IsNull(len(vs)), "%s", oid)
}

func TestSign(t *testing.T) {
	testSign(t, types.T_int8, []int8{-128, -1, 0, 1, 127}, []int8{-1, -1, 0, 1, 1})
	testSign(t, types.T_int16, []int16{-300, 0, 300}, []int8{-1, 0, 1})
	testSign(t, types.T_int32, []int32{-70000, 0, 70000}, []int8{-1, 0, 1})
	testSign(t, types.T_int64, []int64{math.MinInt64, 0, math.MaxInt64}, []int8{-1, 0, 1})
	testSign(t, types.T_uint8, []uint8{0, 255}, []int8{0, 1})
	testSign(t, types.T_uint16, []uint16{0, 65535}, []int8{0, 1})
	testSign(t, types.T_uint32, []uint32{0, 1}, []int8{0, 1})
	testSign(t, types.T_uint64, []uint64{0, math.MaxUint64}, []int8{0, 1})
	testSign(t, types.T_float32, []float32{-0.5, 0, 1e-3}, []int8{-1, 0, 1})
	testSign(t, types.T_float64, []float64{-1e300, 0, 2.5}, []int8{-1, 0, 1})

	_, _, err := GetFunction(context.Background(), "sign", []types.Type{types.T_varchar.ToType()})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIllegalDataType))
	require.Contains(t, err.Error(), "Expected a numeric type, but got String")
}

func TestAbs(t *testing.T) {
	vec := mustEval(t, "abs", testutil.MakeFixedVector(types.T_int8, []int8{-128, -1, 5}, nil))
	require.Equal(t, types.T_uint8, vec.GetType().Oid)
	require.Equal(t, []uint8{128, 1, 5}, vector.MustFixedCol[uint8](vec))

	vec = mustEval(t, "abs", testutil.MakeFixedVector(types.T_int64, []int64{math.MinInt64}, nil))
	require.Equal(t, []uint64{1 << 63}, vector.MustFixedCol[uint64](vec))

	vec = mustEval(t, "abs", testutil.MakeFloat64Vector([]float64{-2.5, 3}, nil))
	require.Equal(t, []float64{2.5, 3}, vector.MustFixedCol[float64](vec))
}

func TestAngles(t *testing.T) {
	vec := mustEval(t, "degrees", testutil.MakeFloat64Vector([]float64{math.Pi, math.Pi / 2, 0}, []uint64{2}))
	got := vector.MustFixedCol[float64](vec)
	require.InDelta(t, 180.0, got[0], 1e-9)
	require.InDelta(t, 90.0, got[1], 1e-9)
	require.True(t, vec.IsNull(2))

	vec = mustEval(t, "radians", testutil.MakeInt64Vector([]int64{180, 0}, []uint64{1}))
	require.InDelta(t, math.Pi, vector.GetFixedAt[float64](vec, 0), 1e-12)
	require.True(t, vec.IsNull(1))

	vec, err := evalFunction(t, "pi", 3)
	require.NoError(t, err)
	require.True(t, vec.IsConst())
	require.Equal(t, math.Pi, vector.GetFixedAt[float64](vec, 2))
}
