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

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/config"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/logutil"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec/group"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

type benchOptions struct {
	rows       int
	groups     int
	partitions int
	keys       string
	seed       int64
	show       int
}

func benchCommand(opts *options) *cobra.Command {
	bo := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a parallel group by over generated data",
		Long: "Generate partitions of (id, x) rows, group them by id % groups and " +
			"aggregate x with count, sum, avg, max and approx_count_distinct",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), opts.cfg, bo, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&bo.rows, "rows", 1_000_000, "rows per partition")
	cmd.Flags().IntVar(&bo.groups, "groups", 1000, "number of distinct keys")
	cmd.Flags().IntVar(&bo.partitions, "partitions", 4, "number of partitions")
	cmd.Flags().StringVar(&bo.keys, "keys", "int", "key type, int or string")
	cmd.Flags().Int64Var(&bo.seed, "seed", 1, "seed of the generated values")
	cmd.Flags().IntVar(&bo.show, "show", 10, "result rows to print")
	return cmd
}

func (bo benchOptions) validate(ctx context.Context) error {
	if bo.rows < 0 || bo.groups <= 0 || bo.partitions <= 0 {
		return moerr.NewInvalidArg(ctx, "bench rows/groups/partitions", fmt.Sprintf("%d/%d/%d", bo.rows, bo.groups, bo.partitions))
	}
	if bo.keys != "int" && bo.keys != "string" {
		return moerr.NewInvalidArg(ctx, "bench keys", bo.keys)
	}
	return nil
}

func runBench(ctx context.Context, cfg *config.Config, bo benchOptions, w io.Writer) error {
	if err := bo.validate(ctx); err != nil {
		return err
	}
	proc := process.New(ctx, process.Limitation{
		BatchRows:      int64(cfg.Exec.BatchRows),
		UnitLimit:      cfg.Exec.UnitLimit,
		ArenaChunkSize: cfg.Exec.ArenaChunkSize,
	})
	defer proc.Cancel()
	node := proc.AddAnalyzeInfo(0)

	start := time.Now()
	parts, keyType, err := generatePartitions(proc, bo)
	if err != nil {
		return err
	}
	logutil.Info("bench data generated",
		logutil.Elapsed(start),
		zap.Int("partitions", bo.partitions),
		zap.Int("rows", bo.rows),
		zap.String("key-type", keyType.String()))

	build := func() *group.Argument {
		return &group.Argument{
			Exprs: []colexec.ExpressionExecutor{colexec.NewColumnExecutor(0, "k", keyType)},
			Aggs: []group.AggExpr{
				{Name: "count"},
				{Name: "sum", Expr: colexec.NewColumnExecutor(1, "x", types.T_float64.ToType())},
				{Name: "avg", Expr: colexec.NewColumnExecutor(1, "x", types.T_float64.ToType())},
				{Name: "max", Expr: colexec.NewColumnExecutor(1, "x", types.T_float64.ToType())},
				{Name: "approx_count_distinct", Expr: colexec.NewColumnExecutor(1, "x", types.T_float64.ToType())},
			},
			NodeId: node,
		}
	}

	start = time.Now()
	res, err := group.Parallel(proc, cfg.Exec, build, parts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	info := proc.AnalInfos[node]
	logutil.Info("bench group by done",
		zap.Duration("elapsed", elapsed),
		zap.Int("groups", res.RowCount()),
		zap.Int64("input-rows", info.InputRows),
		zap.Int64("memory", info.MemorySize))

	fmt.Fprintf(w, "groups: %d, input rows: %d, elapsed: %s\n", res.RowCount(), info.InputRows, elapsed)
	printBatch(w, res, bo.show)
	return nil
}

// generatePartitions builds raw (id, x) batches and projects them to
// (id % groups, x), the key cast to a string when asked.
func generatePartitions(proc *process.Process, bo benchOptions) ([][]*batch.Batch, types.Type, error) {
	ctx := proc.Context()
	batchRows := int(proc.GetLim().BatchRows)
	id := colexec.NewColumnExecutor(0, "id", types.T_int64.ToType())
	groups, err := colexec.NewConstExecutor(types.T_int64.ToType(), types.Int64Value(int64(bo.groups)))
	if err != nil {
		return nil, types.Type{}, err
	}
	var key colexec.ExpressionExecutor
	if key, err = colexec.NewFunctionExecutor(ctx, "%", id, groups); err != nil {
		return nil, types.Type{}, err
	}
	if bo.keys == "string" {
		if key, err = colexec.NewFunctionExecutor(ctx, "tostring", key); err != nil {
			return nil, types.Type{}, err
		}
	}
	projection := colexec.NewProjection([]string{"k", "x"}, key, colexec.NewColumnExecutor(1, "x", types.T_float64.ToType()))
	defer projection.Free(proc)

	r := rand.New(rand.NewSource(bo.seed))
	parts := make([][]*batch.Batch, bo.partitions)
	next := int64(0)
	for p := range parts {
		for done := 0; done < bo.rows; done += batchRows {
			n := bo.rows - done
			if n > batchRows {
				n = batchRows
			}
			ids := vector.NewVec(types.T_int64.ToType())
			xs := vector.NewVec(types.T_float64.ToType())
			ids.PreExtend(n)
			xs.PreExtend(n)
			for i := 0; i < n; i++ {
				vector.AppendFixed(ids, next, false)
				vector.AppendFixed(xs, float64(r.Intn(1000)), false)
				next++
			}
			raw := batch.NewWithVectors([]string{"id", "x"}, []*vector.Vector{ids, xs})
			raw.SetRowCount(n)
			bat, err := projection.Eval(raw, proc)
			if err != nil {
				return nil, types.Type{}, err
			}
			parts[p] = append(parts[p], bat)
		}
	}
	return parts, key.Type(), nil
}

func printBatch(w io.Writer, bat *batch.Batch, limit int) {
	fmt.Fprintln(w, strings.Join(bat.Attrs, "\t"))
	rows := bat.RowCount()
	if limit >= 0 && rows > limit {
		rows = limit
	}
	for i := 0; i < rows; i++ {
		cols := make([]string, len(bat.Vecs))
		for j, vec := range bat.Vecs {
			cols[j] = vec.GetValue(i).String()
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if rows < bat.RowCount() {
		fmt.Fprintf(w, "... %d more\n", bat.RowCount()-rows)
	}
}
