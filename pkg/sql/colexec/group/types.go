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
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/colexec"
)

// AggExpr is one aggregate call. Expr is nil for count(*).
type AggExpr struct {
	Name string
	Expr colexec.ExpressionExecutor
}

type container struct {
	state *AggregatorState

	// unit is the number of rows inserted at once
	unit   int
	groups []uint64

	groupVecs []*vector.Vector
	aggVecs   []*vector.Vector

	finalized bool
}

// Argument is one group by operator. Each worker owns its own Argument.
type Argument struct {
	ctr *container

	Exprs []colexec.ExpressionExecutor // group Expressions
	Aggs  []AggExpr                    // aggregations

	// Attrs names the output columns, generated from the expressions when
	// empty.
	Attrs []string

	// NodeId indexes the analyze info the operator records into, a
	// negative id records nothing.
	NodeId int
}

func (arg *Argument) groupTypes() []types.Type {
	typs := make([]types.Type, len(arg.Exprs))
	for i, e := range arg.Exprs {
		typs[i] = e.Type()
	}
	return typs
}

func (arg *Argument) aggInputType(i int) types.Type {
	if arg.Aggs[i].Expr == nil {
		return starInputType
	}
	return arg.Aggs[i].Expr.Type()
}

// count(*) is fed a constant non NULL column.
var starInputType = types.T_bool.ToType()

func (arg *Argument) attrs() []string {
	if len(arg.Attrs) == len(arg.Exprs)+len(arg.Aggs) {
		return arg.Attrs
	}
	attrs := make([]string, 0, len(arg.Exprs)+len(arg.Aggs))
	for _, e := range arg.Exprs {
		attrs = append(attrs, e.String())
	}
	for _, a := range arg.Aggs {
		if a.Expr == nil {
			attrs = append(attrs, a.Name+"(*)")
			continue
		}
		attrs = append(attrs, a.Name+"("+a.Expr.String()+")")
	}
	return attrs
}

// Free releases the state and the expressions. It is safe to call more
// than once.
func (arg *Argument) Free() {
	ctr := arg.ctr
	if ctr != nil {
		ctr.cleanState()
		ctr.cleanVectors()
	}
	for _, e := range arg.Exprs {
		e.Free()
	}
	for _, a := range arg.Aggs {
		if a.Expr != nil {
			a.Expr.Free()
		}
	}
	arg.ctr = nil
}

func (ctr *container) cleanState() {
	if ctr.state != nil {
		ctr.state.Free()
		ctr.state = nil
	}
}

func (ctr *container) cleanVectors() {
	for i := range ctr.groupVecs {
		ctr.groupVecs[i] = nil
	}
	for i := range ctr.aggVecs {
		ctr.aggVecs[i] = nil
	}
}
