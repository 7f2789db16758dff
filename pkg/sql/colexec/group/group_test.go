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

package group

import (
	"bytes"
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/hashmap"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec"
	"github.com/matrixorigin/mo-vexec/pkg/testutil"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

var int64Type = types.T_int64.ToType()

func newTestProcess(unitLimit int) *process.Process {
	return process.New(context.TODO(), process.Limitation{UnitLimit: unitLimit})
}

func columnValues(vec *vector.Vector) []types.Value {
	vs := make([]types.Value, vec.Length())
	for i := range vs {
		vs[i] = vec.GetValue(i)
	}
	return vs
}

func int64Values(vs ...int64) []types.Value {
	out := make([]types.Value, len(vs))
	for i, v := range vs {
		out[i] = types.Int64Value(v)
	}
	return out
}

func newIntArgument() *Argument {
	return &Argument{
		Exprs: []colexec.ExpressionExecutor{colexec.NewColumnExecutor(0, "k", int64Type)},
		Aggs: []AggExpr{
			{Name: "count"},
			{Name: "sum", Expr: colexec.NewColumnExecutor(1, "v", int64Type)},
			{Name: "min", Expr: colexec.NewColumnExecutor(1, "v", int64Type)},
		},
		NodeId: -1,
	}
}

func TestGroupByFixedKeys(t *testing.T) {
	// small units force several inserts per batch
	stubs := gostub.Stub(&hashmap.UnitLimit, 2)
	defer stubs.Reset()
	proc := newTestProcess(2)

	arg := newIntArgument()
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	require.Equal(t, hashmap.KeysU64, arg.ctr.state.Method())

	bat := testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(int64Type, []int64{1, 2, 1, 3, 2}),
		testutil.NewFixedVector(int64Type, []int64{10, 20, 30, 40, 50}),
	})
	require.NoError(t, arg.Accumulate(proc, bat))
	require.NoError(t, arg.Accumulate(proc, batch.EmptyBatch))

	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, 3, res.RowCount())
	require.Equal(t, []string{"k", "count(*)", "sum(v)", "min(v)"}, res.Attrs)
	require.Equal(t, int64Values(1, 2, 3), columnValues(res.Vecs[0]))
	require.Equal(t, int64Values(2, 2, 1), columnValues(res.Vecs[1]))
	require.Equal(t, int64Values(40, 70, 40), columnValues(res.Vecs[2]))
	require.Equal(t, int64Values(10, 20, 40), columnValues(res.Vecs[3]))

	_, err = arg.Finalize(proc)
	require.Error(t, err)
	require.Error(t, arg.Accumulate(proc, bat))
}

func TestGroupByNullKey(t *testing.T) {
	proc := newTestProcess(0)
	nullKeys := func(typ types.Type) *batch.Batch {
		return testutil.NewBatchWithVectors([]*vector.Vector{
			vector.NewConstNull(typ, 2),
			testutil.NewFixedVector(int64Type, []int64{1, 1}),
		})
	}

	// a null in a non-nullable key column would pack like 0
	arg := newIntArgument()
	require.NoError(t, arg.Prepare(proc))
	err := arg.Accumulate(proc, nullKeys(int64Type))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	arg.Free()

	int64Null := types.WrapNullable(int64Type)
	arg = newIntArgument()
	arg.Exprs = []colexec.ExpressionExecutor{colexec.NewColumnExecutor(0, "k", int64Null)}
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	require.NoError(t, arg.Accumulate(proc, nullKeys(int64Null)))
	require.NoError(t, arg.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(int64Null, []int64{0}),
		testutil.NewFixedVector(int64Type, []int64{5}),
	})))

	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, 2, res.RowCount())
	require.Equal(t, []types.Value{types.NullValue(), types.Int64Value(0)}, columnValues(res.Vecs[0]))
	require.Equal(t, int64Values(2, 1), columnValues(res.Vecs[1]))
	require.Equal(t, int64Values(2, 5), columnValues(res.Vecs[2]))
	require.Equal(t, int64Values(1, 5), columnValues(res.Vecs[3]))
}

func TestGroupBySmallKeys(t *testing.T) {
	proc := newTestProcess(0)
	u8 := types.T_uint8.ToType()
	arg := &Argument{
		Exprs:  []colexec.ExpressionExecutor{colexec.NewColumnExecutor(0, "k", u8)},
		Aggs:   []AggExpr{{Name: "count"}},
		NodeId: -1,
	}
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	require.Equal(t, hashmap.KeysU8, arg.ctr.state.Method())

	require.NoError(t, arg.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(u8, []uint8{255, 0, 255, 7}),
	})))
	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, []types.Value{types.UInt64Value(255), types.UInt64Value(0), types.UInt64Value(7)}, columnValues(res.Vecs[0]))
	require.Equal(t, int64Values(2, 1, 1), columnValues(res.Vecs[1]))
}

func TestGroupBySerializedKeys(t *testing.T) {
	proc := newTestProcess(0)
	varchar := types.T_varchar.ToType()
	int32Null := types.WrapNullable(types.T_int32.ToType())
	arg := &Argument{
		Exprs: []colexec.ExpressionExecutor{
			colexec.NewColumnExecutor(0, "s", varchar),
			colexec.NewColumnExecutor(1, "n", int32Null),
		},
		Aggs:   []AggExpr{{Name: "count"}, {Name: "max", Expr: colexec.NewColumnExecutor(0, "s", varchar)}},
		Attrs:  []string{"s", "n", "c", "m"},
		NodeId: -1,
	}
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	require.Equal(t, hashmap.Serialized, arg.ctr.state.Method())

	bat := testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.MakeVarcharVector([]string{"a", "b", "a", "a"}, nil),
		testutil.MakeFixedVector(types.T_int32, []int32{1, 0, 1, 0}, []uint64{1, 3}),
	})
	require.NoError(t, arg.Accumulate(proc, bat))
	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, []string{"s", "n", "c", "m"}, res.Attrs)
	require.Equal(t, []types.Value{types.StringValue("a"), types.StringValue("b"), types.StringValue("a")}, columnValues(res.Vecs[0]))
	require.Equal(t, []types.Value{types.Int64Value(1), types.NullValue(), types.NullValue()}, columnValues(res.Vecs[1]))
	require.Equal(t, int64Values(2, 1, 1), columnValues(res.Vecs[2]))
}

func TestGroupByWithoutKeys(t *testing.T) {
	proc := newTestProcess(0)
	newArg := func() *Argument {
		return &Argument{
			Aggs: []AggExpr{
				{Name: "count", Expr: colexec.NewColumnExecutor(0, "v", types.WrapNullable(int64Type))},
				{Name: "sum", Expr: colexec.NewColumnExecutor(0, "v", types.WrapNullable(int64Type))},
			},
			NodeId: -1,
		}
	}

	// an empty input still gives one row
	arg := newArg()
	require.NoError(t, arg.Prepare(proc))
	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount())
	require.Equal(t, int64Values(0), columnValues(res.Vecs[0]))
	require.Equal(t, []types.Value{types.NullValue()}, columnValues(res.Vecs[1]))
	arg.Free()

	arg = newArg()
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	vec := testutil.MakeInt64Vector([]int64{1, 0, 5}, []uint64{1})
	require.NoError(t, arg.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{vec})))
	require.NoError(t, arg.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{vec})))
	res, err = arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, int64Values(4), columnValues(res.Vecs[0]))
	require.Equal(t, int64Values(12), columnValues(res.Vecs[1]))
}

func TestGroupByEmptyWithKeys(t *testing.T) {
	proc := newTestProcess(0)
	arg := newIntArgument()
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, 0, res.RowCount())
	require.Equal(t, 4, len(res.Vecs))
}

func TestGroupByConstKey(t *testing.T) {
	proc := newTestProcess(0)
	arg := &Argument{
		Exprs:  []colexec.ExpressionExecutor{colexec.NewNullExecutor()},
		Aggs:   []AggExpr{{Name: "sum", Expr: colexec.NewColumnExecutor(0, "v", int64Type)}},
		NodeId: -1,
	}
	defer arg.Free()
	require.NoError(t, arg.Prepare(proc))
	require.NoError(t, arg.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(int64Type, []int64{1, 2, 3}),
	})))
	res, err := arg.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount())
	require.Equal(t, int64Values(6), columnValues(res.Vecs[1]))
}

func TestGroupByMerge(t *testing.T) {
	proc := newTestProcess(0)
	x, y := newIntArgument(), newIntArgument()
	defer x.Free()
	require.NoError(t, x.Prepare(proc))
	require.NoError(t, y.Prepare(proc))

	require.NoError(t, x.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(int64Type, []int64{1, 2}),
		testutil.NewFixedVector(int64Type, []int64{5, 6}),
	})))
	require.NoError(t, y.Accumulate(proc, testutil.NewBatchWithVectors([]*vector.Vector{
		testutil.NewFixedVector(int64Type, []int64{3, 2, 2}),
		testutil.NewFixedVector(int64Type, []int64{1, 1, 9}),
	})))
	require.NoError(t, x.Merge(proc, y))
	// y is consumed
	require.Nil(t, y.ctr)

	res, err := x.Finalize(proc)
	require.NoError(t, err)
	require.Equal(t, int64Values(1, 2, 3), columnValues(res.Vecs[0]))
	require.Equal(t, int64Values(1, 3, 1), columnValues(res.Vecs[1]))
	require.Equal(t, int64Values(5, 16, 1), columnValues(res.Vecs[2]))
	require.Equal(t, int64Values(5, 1, 1), columnValues(res.Vecs[3]))
}

func TestGroupByBadAggregate(t *testing.T) {
	proc := newTestProcess(0)
	arg := &Argument{
		Aggs: []AggExpr{
			{Name: "count"},
			{Name: "sum", Expr: colexec.NewColumnExecutor(0, "s", types.T_varchar.ToType())},
		},
	}
	require.Error(t, arg.Prepare(proc))
	arg.Free()
}

func TestString(t *testing.T) {
	var buf bytes.Buffer
	newIntArgument().String(&buf)
	require.Equal(t, "group([k], [count(*), sum(v), min(v)])", buf.String())
}
