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

package colexec

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/sql/plan/function"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

// ExpressionExecutor
// evaluates an expression over the rows of a batch.
type ExpressionExecutor interface {
	// Type is the type of every vector Eval returns.
	Type() types.Type

	// Eval returns a vector with one row per row of bat. The vector may be
	// a column of bat itself, callers that keep or modify it must Dup it.
	Eval(proc *process.Process, bat *batch.Batch) (*vector.Vector, error)

	// Free releases what the executor holds, it is called once the query
	// is done.
	Free()

	String() string
}

// ColumnExpressionExecutor returns a column of the input batch.
type ColumnExpressionExecutor struct {
	colIndex int
	typ      types.Type
	name     string
}

// FixedVectorExpressionExecutor returns a literal as a constant vector.
// e.g.
//
//	ConstVector [1, 1, 1, 1, 1]
//	ConstVector [null, null, null]
type FixedVectorExpressionExecutor struct {
	typ types.Type
	val types.Value
}

// FunctionExpressionExecutor calls a resolved scalar function on the
// results of its parameter executors.
type FunctionExpressionExecutor struct {
	name     string
	fn       function.Function
	features function.FunctionFeatures
	typ      types.Type

	parameterResults  []*vector.Vector
	parameterExecutor []ExpressionExecutor
}

func NewColumnExecutor(colIndex int, name string, typ types.Type) *ColumnExpressionExecutor {
	return &ColumnExpressionExecutor{colIndex: colIndex, name: name, typ: typ}
}

// NewConstExecutor checks val against typ once, Eval cannot fail after.
func NewConstExecutor(typ types.Type, val types.Value) (*FixedVectorExpressionExecutor, error) {
	if _, err := vector.NewConstFromValue(typ, val, 1); err != nil {
		return nil, err
	}
	return &FixedVectorExpressionExecutor{typ: typ, val: val}, nil
}

// NewNullExecutor is the NULL literal.
func NewNullExecutor() *FixedVectorExpressionExecutor {
	return &FixedVectorExpressionExecutor{typ: types.Type{Oid: function.ScalarNull, Nullable: true}, val: types.NullValue()}
}

// NewFunctionExecutor resolves name for the types of args.
func NewFunctionExecutor(ctx context.Context, name string, args ...ExpressionExecutor) (*FunctionExpressionExecutor, error) {
	typs := make([]types.Type, len(args))
	for i, arg := range args {
		typs[i] = arg.Type()
	}
	fn, typ, err := function.GetFunction(ctx, name, typs)
	if err != nil {
		return nil, err
	}
	features, err := function.Instance().GetFeatures(ctx, name)
	if err != nil {
		return nil, err
	}
	return &FunctionExpressionExecutor{
		name:              name,
		fn:                fn,
		features:          features,
		typ:               typ,
		parameterResults:  make([]*vector.Vector, len(args)),
		parameterExecutor: args,
	}, nil
}

func (expr *ColumnExpressionExecutor) Type() types.Type {
	return expr.typ
}

func (expr *ColumnExpressionExecutor) Eval(proc *process.Process, bat *batch.Batch) (*vector.Vector, error) {
	if bat == nil || len(bat.Vecs) <= expr.colIndex {
		return nil, moerr.NewInternalError(proc.Context(), "unexpected input batch for column expression %s", expr)
	}
	vec := bat.Vecs[expr.colIndex]
	if !vec.GetType().Eq(expr.typ) && !vec.IsConstNull() {
		return nil, moerr.NewDataStructMismatch(proc.Context(), "column %s expects %s, got %s", expr, expr.typ, vec.GetType())
	}
	if !expr.typ.Nullable && expr.typ.Oid != types.T_any && vec.HasNull() {
		return nil, moerr.NewInternalError(proc.Context(), "column %s is not nullable but holds nulls", expr)
	}
	return vec, nil
}

func (expr *ColumnExpressionExecutor) Free() {
	// Nothing should do.
}

func (expr *ColumnExpressionExecutor) String() string {
	if expr.name != "" {
		return expr.name
	}
	return fmt.Sprintf("#%d", expr.colIndex)
}

func (expr *FixedVectorExpressionExecutor) Type() types.Type {
	return expr.typ
}

func (expr *FixedVectorExpressionExecutor) Eval(proc *process.Process, bat *batch.Batch) (*vector.Vector, error) {
	length := 1
	if bat != nil {
		length = bat.RowCount()
	}
	if expr.val.IsNull() {
		return vector.NewConstNull(expr.typ, length), nil
	}
	return vector.NewConstFromValue(expr.typ, expr.val, length)
}

func (expr *FixedVectorExpressionExecutor) Free() {}

func (expr *FixedVectorExpressionExecutor) String() string {
	return expr.val.String()
}

func (expr *FunctionExpressionExecutor) Type() types.Type {
	return expr.typ
}

func (expr *FunctionExpressionExecutor) Eval(proc *process.Process, bat *batch.Batch) (*vector.Vector, error) {
	var err error
	for i := range expr.parameterExecutor {
		expr.parameterResults[i], err = expr.parameterExecutor[i].Eval(proc, bat)
		if err != nil {
			return nil, err
		}
	}
	length := 1
	if bat != nil {
		length = bat.RowCount()
	}
	return expr.fn.Eval(proc, expr.parameterResults, length)
}

func (expr *FunctionExpressionExecutor) Free() {
	for _, p := range expr.parameterExecutor {
		p.Free()
	}
	expr.parameterResults = nil
}

func (expr *FunctionExpressionExecutor) Function() function.Function {
	return expr.fn
}

func (expr *FunctionExpressionExecutor) Features() function.FunctionFeatures {
	return expr.features
}

func (expr *FunctionExpressionExecutor) String() string {
	args := make([]string, len(expr.parameterExecutor))
	for i, p := range expr.parameterExecutor {
		args[i] = p.String()
	}
	return expr.name + "(" + strings.Join(args, ", ") + ")"
}

// EvalExpressionOnce evaluates expr on bat and frees it. The result never
// aliases bat.
func EvalExpressionOnce(proc *process.Process, expr ExpressionExecutor, bat *batch.Batch) (*vector.Vector, error) {
	defer expr.Free()
	vec, err := expr.Eval(proc, bat)
	if err != nil {
		return nil, err
	}
	if bat != nil {
		for _, v := range bat.Vecs {
			if v == vec {
				return vec.Dup(), nil
			}
		}
	}
	return vec, nil
}

// ExprMonotonicity reports how expr moves when column colIndex of the input
// increases. Literals are constant, other columns are not monotonic, and a
// function call combines its arguments when it declares monotonicity.
func ExprMonotonicity(expr ExpressionExecutor, colIndex int) function.Monotonicity {
	switch e := expr.(type) {
	case *FixedVectorExpressionExecutor:
		return literalMonotonicity(e.val)
	case *ColumnExpressionExecutor:
		if e.colIndex == colIndex {
			return function.Monotonic(true)
		}
		return function.NonMonotonic()
	case *FunctionExpressionExecutor:
		if !e.features.HasMonotonicity {
			return function.NonMonotonic()
		}
		args := make([]function.Monotonicity, len(e.parameterExecutor))
		for i, p := range e.parameterExecutor {
			args[i] = ExprMonotonicity(p, colIndex)
		}
		return e.fn.Monotonicity(args)
	}
	return function.NonMonotonic()
}

// literalMonotonicity carries the sign of numeric literals, products and
// quotients need it.
func literalMonotonicity(v types.Value) function.Monotonicity {
	if !v.IsNumeric() {
		return function.Constant()
	}
	f, err := v.AsFloat64()
	if err != nil || math.IsNaN(f) {
		return function.Constant()
	}
	switch {
	case f > 0:
		return function.ConstantWithSign(1)
	case f < 0:
		return function.ConstantWithSign(-1)
	}
	return function.ConstantWithSign(0)
}
