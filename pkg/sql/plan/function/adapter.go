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

package function

import (
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/nulls"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

var _ Function = new(Adapter)

// Adapter wraps every resolved function. For functions passing nulls
// through it hides nullability from the inner function: a NULL literal
// argument makes the whole result NULL, and a null row in any argument is
// a null row of the result. Calls with only constant arguments are
// evaluated on one row and returned as a constant.
type Adapter struct {
	inner Function
	typ   types.Type
}

func NewAdapter(inner Function, typ types.Type) *Adapter {
	return &Adapter{inner: inner, typ: typ}
}

func (a *Adapter) Inner() Function {
	return a.inner
}

func (a *Adapter) Name() string {
	return a.inner.Name()
}

func (a *Adapter) PassThroughNull() bool {
	return a.inner.PassThroughNull()
}

func (a *Adapter) Monotonicity(args []Monotonicity) Monotonicity {
	return a.inner.Monotonicity(args)
}

// ReturnType is the inner return type, made nullable when a nullable
// argument is passed through.
func (a *Adapter) ReturnType(args []types.Type) (types.Type, error) {
	return adaptReturnType(a.inner, args)
}

func adaptReturnType(inner Function, args []types.Type) (types.Type, error) {
	if !inner.PassThroughNull() {
		return inner.ReturnType(args)
	}
	nullable := false
	stripped := make([]types.Type, len(args))
	for i, arg := range args {
		if arg.Oid == ScalarNull {
			return types.Type{Oid: types.T_any, Nullable: true}, nil
		}
		nullable = nullable || arg.Nullable
		stripped[i] = types.RemoveNullable(arg)
	}
	typ, err := inner.ReturnType(stripped)
	if err != nil {
		return types.Type{}, err
	}
	if nullable {
		typ = types.WrapNullable(typ)
	}
	return typ, nil
}

// Eval evaluates length rows.
func (a *Adapter) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	if a.inner.PassThroughNull() {
		for _, arg := range args {
			if arg.IsConstNull() || arg.GetType().Oid == ScalarNull {
				return vector.NewConstNull(a.typ, length), nil
			}
		}
	}

	if len(args) > 0 && allConst(args) {
		folded := make([]*vector.Vector, len(args))
		for i, arg := range args {
			folded[i] = arg.ToConst(0, 1)
		}
		vec, err := a.evalInner(proc, folded, 1)
		if err != nil {
			return nil, err
		}
		if vec.IsConstNull() {
			return vector.NewConstNull(a.typ, length), nil
		}
		return vec.ToConst(0, length), nil
	}

	return a.evalInner(proc, args, length)
}

func (a *Adapter) evalInner(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	vec, err := a.inner.Eval(proc, args, length)
	if err != nil {
		return nil, err
	}
	if vec.Length() != length {
		return nil, moerr.NewInternalError(proc.Context(), "function %s returned %d rows for %d rows", a.inner.Name(), vec.Length(), length)
	}
	for _, arg := range args {
		if vec == arg {
			// never retype or add nulls to a caller's column
			vec = vec.Dup()
			break
		}
	}
	if a.inner.PassThroughNull() && !vec.IsConst() {
		for _, arg := range args {
			if !arg.IsConst() && arg.GetNulls().Any() {
				vec.GetNulls().Or(arg.GetNulls())
			}
		}
	}
	vec.SetType(a.typ)
	return vec, nil
}

func allConst(args []*vector.Vector) bool {
	for _, arg := range args {
		if !arg.IsConst() {
			return false
		}
	}
	return true
}

// newResult allocates the result wrapper of a kernel call.
func newResult(typ types.Type, length int) vector.FunctionResultWrapper {
	return vector.NewFunctionResultWrapper(types.RemoveNullable(typ), length)
}

// evalKernel runs k into a fresh result of typ.
func evalKernel(proc *process.Process, k Kernel, typ types.Type, args []*vector.Vector, length int) (*vector.Vector, error) {
	result := newResult(typ, length)
	if err := k(args, result, proc, length); err != nil {
		result.Free()
		return nil, err
	}
	vec := result.GetResultVector()
	if nulls.Any(vec.GetNulls()) {
		vec.SetType(types.WrapNullable(typ))
	}
	return vec, nil
}
