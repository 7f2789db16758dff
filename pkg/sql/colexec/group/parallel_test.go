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
	"strings"
	"testing"
	"time"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/config"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec"
	"github.com/matrixorigin/mo-vexec/pkg/testutil"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

// afterTest reports goroutines started since it was called that are
// still running when the returned func runs. Pool scavengers tick on
// their own clock and are not counted, pool workers are.
func afterTest(t *testing.T) func() {
	orig := leaktest.GetInterestedGoroutines()
	return func() {
		if t.Failed() {
			return
		}
		for i := 0; ; i++ {
			var leaked []string
			for id, stack := range leaktest.GetInterestedGoroutines() {
				if _, ok := orig[id]; !ok && !strings.Contains(stack, "(*Pool).purgePeriodically") {
					leaked = append(leaked, stack)
				}
			}
			if len(leaked) == 0 {
				return
			}
			if i == 100 {
				for _, g := range leaked {
					t.Errorf("Leaked goroutine: %v", g)
				}
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func testExecParameters(workers int) config.ExecParameters {
	return config.ExecParameters{
		Workers:    workers,
		PoolExpiry: config.Duration{Duration: 10 * time.Millisecond},
	}
}

// makePartitions returns parts partitions of bats batches of rows rows,
// column 0 is row % 10 and column 1 is 1.
func makePartitions(parts, bats, rows int) [][]*batch.Batch {
	ps := make([][]*batch.Batch, parts)
	for p := range ps {
		for b := 0; b < bats; b++ {
			keys := make([]int64, rows)
			vals := make([]int64, rows)
			for i := range keys {
				keys[i] = int64(i % 10)
				vals[i] = 1
			}
			ps[p] = append(ps[p], testutil.NewBatchWithVectors([]*vector.Vector{
				testutil.NewFixedVector(int64Type, keys),
				testutil.NewFixedVector(int64Type, vals),
			}))
		}
	}
	return ps
}

func TestParallel(t *testing.T) {
	defer afterTest(t)()
	proc := newTestProcess(0)

	res, err := Parallel(proc, testExecParameters(2), newIntArgument, makePartitions(4, 2, 100))
	require.NoError(t, err)
	require.Equal(t, 10, res.RowCount())
	for i := 0; i < 10; i++ {
		require.Equal(t, types.Int64Value(int64(i)), res.Vecs[0].GetValue(i))
		require.Equal(t, types.Int64Value(80), res.Vecs[1].GetValue(i))
		require.Equal(t, types.Int64Value(80), res.Vecs[2].GetValue(i))
		require.Equal(t, types.Int64Value(1), res.Vecs[3].GetValue(i))
	}
}

func TestParallelNoPartitions(t *testing.T) {
	defer afterTest(t)()
	proc := newTestProcess(0)

	build := func() *Argument {
		return &Argument{Aggs: []AggExpr{{Name: "count"}}, NodeId: -1}
	}
	res, err := Parallel(proc, testExecParameters(0), build, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount())
	require.Equal(t, types.Int64Value(0), res.Vecs[0].GetValue(0))
}

func TestParallelWorkerError(t *testing.T) {
	defer afterTest(t)()
	proc := newTestProcess(0)

	// the key column is int64, the executor expects varchar
	build := func() *Argument {
		return &Argument{
			Exprs:  []colexec.ExpressionExecutor{colexec.NewColumnExecutor(0, "k", types.T_varchar.ToType())},
			Aggs:   []AggExpr{{Name: "count"}},
			NodeId: -1,
		}
	}
	_, err := Parallel(proc, testExecParameters(2), build, makePartitions(3, 4, 10))
	require.Error(t, err)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDataStructMismatch))
}

type panicExecutor struct{}

func (panicExecutor) Type() types.Type { return int64Type }

func (panicExecutor) Eval(*process.Process, *batch.Batch) (*vector.Vector, error) {
	panic("broken executor")
}

func (panicExecutor) Free() {}

func (panicExecutor) String() string { return "panic" }

func TestParallelWorkerPanic(t *testing.T) {
	defer afterTest(t)()
	proc := newTestProcess(0)

	build := func() *Argument {
		return &Argument{
			Exprs:  []colexec.ExpressionExecutor{panicExecutor{}},
			Aggs:   []AggExpr{{Name: "count"}},
			NodeId: -1,
		}
	}
	_, err := Parallel(proc, testExecParameters(2), build, makePartitions(2, 1, 10))
	require.Error(t, err)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestParallelCancelled(t *testing.T) {
	defer afterTest(t)()
	proc := newTestProcess(0)
	proc.Cancel()

	_, err := Parallel(proc, testExecParameters(1), newIntArgument, makePartitions(2, 1, 10))
	require.Error(t, err)
}
