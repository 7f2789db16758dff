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

	"go.uber.org/zap"

	"github.com/matrixorigin/mo-vexec/pkg/common/hashmap"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec/agg"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString("group([")
	for i, expr := range arg.Exprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(expr.String())
	}
	buf.WriteString("], [")
	attrs := arg.attrs()[len(arg.Exprs):]
	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a)
	}
	buf.WriteString("])")
}

// Prepare creates the aggregates and chooses the key method.
func (arg *Argument) Prepare(proc *process.Process) error {
	aggs := make([]agg.Agg, len(arg.Aggs))
	for i, ag := range arg.Aggs {
		name := ag.Name
		if ag.Expr == nil {
			name = agg.Names[agg.AggregateStarCount]
		}
		a, err := agg.New(proc.Context(), name, arg.aggInputType(i))
		if err != nil {
			freeAggs(aggs[:i])
			return err
		}
		aggs[i] = a
	}
	state, err := NewAggregatorState(arg.groupTypes(), aggs, proc.NewArena())
	if err != nil {
		freeAggs(aggs)
		return err
	}

	arg.ctr = &container{
		state:     state,
		unit:      proc.GetLim().UnitLimit,
		groupVecs: make([]*vector.Vector, len(arg.Exprs)),
		aggVecs:   make([]*vector.Vector, len(arg.Aggs)),
	}
	if arg.ctr.unit <= 0 {
		arg.ctr.unit = hashmap.UnitLimit
	}
	arg.ctr.groups = make([]uint64, arg.ctr.unit)
	if state.HasKeys() {
		proc.Debug("group by strategy", zap.String("method", state.Method().String()), zap.Int("keys", len(arg.Exprs)))
	}
	return nil
}

// Accumulate adds the rows of bat to the groups.
func (arg *Argument) Accumulate(proc *process.Process, bat *batch.Batch) error {
	ctr := arg.ctr
	if ctr == nil || ctr.finalized {
		return moerr.NewInternalError(proc.Context(), "group by accumulates before prepare or after finalize")
	}
	count := bat.RowCount()
	if count == 0 {
		return nil
	}
	anal := proc.GetAnalyze(arg.NodeId)
	anal.Start()
	defer anal.Stop()
	anal.Input(count, bat.Size())

	if err := ctr.evalAggVectors(proc, arg, bat); err != nil {
		return err
	}
	if !ctr.state.HasKeys() {
		return ctr.state.FillAll(ctr.aggVecs, count)
	}
	if err := ctr.evalGroupVectors(proc, arg, bat); err != nil {
		return err
	}

	before := ctr.state.Size()
	for i := 0; i < count; i += ctr.unit {
		n := count - i
		if n > ctr.unit {
			n = ctr.unit
		}
		groups := ctr.groups[:n]
		if _, err := ctr.state.InsertBatch(ctr.groupVecs, i, n, groups); err != nil {
			return err
		}
		if err := ctr.state.Fill(ctr.aggVecs, i, groups); err != nil {
			return err
		}
	}
	anal.Alloc(ctr.state.Size() - before)
	return nil
}

// Merge folds the groups of other into arg and frees other. Both must
// be prepared from the same expressions and not finalized.
func (arg *Argument) Merge(proc *process.Process, other *Argument) error {
	if arg.ctr == nil || other.ctr == nil || arg.ctr.finalized || other.ctr.finalized {
		return moerr.NewInternalError(proc.Context(), "merge group by operators that are not accumulating")
	}
	defer other.Free()
	return arg.ctr.state.Merge(other.ctr.state)
}

// Finalize returns the key columns followed by the aggregate results, a
// row per group in group id order, and releases the state. Without group
// columns there is exactly one row, even for an empty input.
func (arg *Argument) Finalize(proc *process.Process) (*batch.Batch, error) {
	ctr := arg.ctr
	if ctr == nil || ctr.finalized {
		return nil, moerr.NewInternalError(proc.Context(), "group by finalizes before prepare or twice")
	}
	anal := proc.GetAnalyze(arg.NodeId)
	anal.Start()
	defer anal.Stop()

	keys, err := ctr.state.BuildKeyColumns()
	if err != nil {
		return nil, err
	}
	results, err := ctr.state.EvalAggs()
	if err != nil {
		return nil, err
	}
	rows := int(ctr.state.GroupCount())
	ctr.finalized = true
	ctr.cleanState()

	bat := batch.NewWithVectors(arg.attrs(), append(keys, results...))
	bat.SetRowCount(rows)
	anal.Output(rows, bat.Size())
	return bat, nil
}

func (ctr *container) evalAggVectors(proc *process.Process, arg *Argument, bat *batch.Batch) (err error) {
	for i, ag := range arg.Aggs {
		if ag.Expr == nil {
			ctr.aggVecs[i] = vector.NewConstFixed(starInputType, true, bat.RowCount())
			continue
		}
		if ctr.aggVecs[i], err = ag.Expr.Eval(proc, bat); err != nil {
			return err
		}
	}
	return nil
}

func (ctr *container) evalGroupVectors(proc *process.Process, arg *Argument, bat *batch.Batch) (err error) {
	for i, e := range arg.Exprs {
		if ctr.groupVecs[i], err = e.Eval(proc, bat); err != nil {
			return err
		}
		// the key of a non-nullable column has no null flag, a null would pack as zero
		if typ := e.Type(); !typ.Nullable && typ.Oid != types.T_any && ctr.groupVecs[i].HasNull() {
			return moerr.NewInternalError(proc.Context(), "group column %s is not nullable but holds nulls", e)
		}
	}
	return nil
}

func freeAggs(aggs []agg.Agg) {
	for _, a := range aggs {
		if a != nil {
			a.Free()
		}
	}
}
