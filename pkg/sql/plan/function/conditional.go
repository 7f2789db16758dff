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
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

func registerConditional(f *Factory) {
	f.Register("if", Description{
		Creator: func(name string) (Function, error) {
			return &ifFunction{baseFunction: baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(3),
	})
	f.Register("isnull", Description{
		Creator: func(name string) (Function, error) {
			return &isNullFunction{baseFunction: baseFunction{name: name}, want: true}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithBoolFunc().WithNegativeFunction("isnotnull").WithNumArgs(1),
	})
	f.Register("isnotnull", Description{
		Creator: func(name string) (Function, error) {
			return &isNullFunction{baseFunction: baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithBoolFunc().WithNegativeFunction("isnull").WithNumArgs(1),
	})
}

// ifFunction is if(cond, then, else). Only the picked branch decides
// whether a row is NULL.
type ifFunction struct {
	baseFunction
	typ types.Type
}

func (f *ifFunction) PassThroughNull() bool {
	return false
}

func (f *ifFunction) ReturnType(args []types.Type) (types.Type, error) {
	cond := args[0]
	if cond.Oid != types.T_bool && cond.Oid != ScalarNull && !cond.Oid.IsNumeric() {
		return types.Type{}, moerr.NewIllegalDataTypeNoCtx("Illegal type %s of the condition of function %s, expected bool or numeric", cond, f.name)
	}
	typ, err := types.LeastSupertype(args[1], args[2])
	if err != nil {
		return types.Type{}, err
	}
	if cond.Nullable {
		typ = types.WrapNullable(typ)
	}
	f.typ = typ
	return typ, nil
}

func (f *ifFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	if f.typ.Oid == types.T_any {
		return vector.NewConstNull(f.typ, length), nil
	}
	cond, err := CastVector(proc, args[0], types.T_bool.ToType())
	if err != nil {
		return nil, err
	}
	typ := types.RemoveNullable(f.typ)
	then, err := CastVector(proc, args[1], typ)
	if err != nil {
		return nil, err
	}
	els, err := CastVector(proc, args[2], typ)
	if err != nil {
		return nil, err
	}
	params := []*vector.Vector{cond, then, els}

	var k Kernel
	switch typ.Oid {
	case types.T_bool:
		k = ifKernel[bool]
	case types.T_int8:
		k = ifKernel[int8]
	case types.T_int16:
		k = ifKernel[int16]
	case types.T_int32:
		k = ifKernel[int32]
	case types.T_int64, types.T_interval:
		k = ifKernel[int64]
	case types.T_uint8:
		k = ifKernel[uint8]
	case types.T_uint16:
		k = ifKernel[uint16]
	case types.T_uint32:
		k = ifKernel[uint32]
	case types.T_uint64:
		k = ifKernel[uint64]
	case types.T_float32:
		k = ifKernel[float32]
	case types.T_float64:
		k = ifKernel[float64]
	case types.T_date:
		k = ifKernel[types.Date]
	case types.T_datetime:
		k = ifKernel[types.Datetime]
	case types.T_timestamp:
		k = ifKernel[types.Timestamp]
	case types.T_varchar:
		k = ifStrKernel
	default:
		return nil, moerr.NewNYI(proc.Context(), "if over %s", typ)
	}
	return evalKernel(proc, k, typ, params, length)
}

func pickThen(cond vector.FunctionParameterWrapper[bool], i uint64) bool {
	c, null := cond.GetValue(i)
	return c && !null
}

func ifKernel[T types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int) error {
	cond := vector.GenerateFunctionFixedTypeParameter[bool](parameters[0])
	then := vector.GenerateFunctionFixedTypeParameter[T](parameters[1])
	els := vector.GenerateFunctionFixedTypeParameter[T](parameters[2])
	rs := vector.MustFunctionResult[T](result)
	for i := uint64(0); i < uint64(length); i++ {
		if pickThen(cond, i) {
			rs.Append(then.GetValue(i))
		} else {
			rs.Append(els.GetValue(i))
		}
	}
	return nil
}

func ifStrKernel(parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int) error {
	cond := vector.GenerateFunctionFixedTypeParameter[bool](parameters[0])
	then := vector.GenerateFunctionStrParameter(parameters[1])
	els := vector.GenerateFunctionStrParameter(parameters[2])
	rs := vector.MustFunctionResult[[]byte](result)
	for i := uint64(0); i < uint64(length); i++ {
		if pickThen(cond, i) {
			rs.AppendBytes(then.GetStrValue(i))
		} else {
			rs.AppendBytes(els.GetStrValue(i))
		}
	}
	return nil
}

// isNullFunction is isnull when want is set, isnotnull otherwise. Its
// result is never NULL.
type isNullFunction struct {
	baseFunction
	want bool
}

func (f *isNullFunction) PassThroughNull() bool {
	return false
}

func (f *isNullFunction) ReturnType(_ []types.Type) (types.Type, error) {
	return types.T_bool.ToType(), nil
}

func (f *isNullFunction) Eval(_ *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	arg := args[0]
	if arg.IsConst() {
		return vector.NewConstFixed(types.T_bool.ToType(), arg.IsConstNull() == f.want, length), nil
	}
	result := newResult(types.T_bool.ToType(), length)
	rs := vector.MustFunctionResult[bool](result)
	nsp := arg.GetNulls()
	for i := uint64(0); i < uint64(length); i++ {
		rs.Append(nsp.Contains(i) == f.want, false)
	}
	return result.GetResultVector(), nil
}
