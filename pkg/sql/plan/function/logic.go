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

type logicOp uint8

const (
	logicAnd logicOp = iota
	logicOr
	logicXor
)

func registerLogic(f *Factory) {
	variadic := FunctionFeatures{}.WithDeterministic().WithBoolFunc().WithVariadicArgs(2, VariadicArgs)
	for name, op := range map[string]logicOp{"and": logicAnd, "or": logicOr, "xor": logicXor} {
		op := op
		f.Register(name, Description{
			Creator: func(name string) (Function, error) {
				return &logicFunction{baseFunction: baseFunction{name: name}, op: op}, nil
			},
			Features: variadic,
		})
	}
	f.Register("not", Description{
		Creator: func(name string) (Function, error) {
			return &notFunction{baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithBoolFunc().WithNumArgs(1),
	})
}

func checkLogicArgs(name string, args []types.Type) (nullable bool, err error) {
	for _, arg := range args {
		if arg.Oid != types.T_bool && arg.Oid != ScalarNull && !arg.Oid.IsNumeric() {
			return false, moerr.NewIllegalDataTypeNoCtx("Illegal type %s of argument of function %s, expected bool or numeric", arg, name)
		}
		nullable = nullable || arg.Nullable || arg.Oid == ScalarNull
	}
	return nullable, nil
}

func castToBool(proc *process.Process, args []*vector.Vector) ([]vector.FunctionParameterWrapper[bool], error) {
	params := make([]vector.FunctionParameterWrapper[bool], len(args))
	for i, arg := range args {
		vec, err := CastVector(proc, arg, types.T_bool.ToType())
		if err != nil {
			return nil, err
		}
		params[i] = vector.GenerateFunctionFixedTypeParameter[bool](vec)
	}
	return params, nil
}

// logicFunction is the n-ary and/or/xor. and and or follow three valued
// logic: a false argument decides and, a true argument decides or, even
// next to a NULL.
type logicFunction struct {
	baseFunction
	op logicOp
}

func (f *logicFunction) PassThroughNull() bool {
	return f.op == logicXor
}

func (f *logicFunction) ReturnType(args []types.Type) (types.Type, error) {
	nullable, err := checkLogicArgs(f.name, args)
	if err != nil {
		return types.Type{}, err
	}
	typ := types.T_bool.ToType()
	typ.Nullable = nullable
	return typ, nil
}

func (f *logicFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	params, err := castToBool(proc, args)
	if err != nil {
		return nil, err
	}
	result := newResult(types.T_bool.ToType(), length)
	rs := vector.MustFunctionResult[bool](result)
	for i := uint64(0); i < uint64(length); i++ {
		v, null := f.row(params, i)
		rs.Append(v, null)
	}
	return result.GetResultVector(), nil
}

func (f *logicFunction) row(params []vector.FunctionParameterWrapper[bool], i uint64) (bool, bool) {
	switch f.op {
	case logicAnd:
		sawNull := false
		for _, p := range params {
			v, null := p.GetValue(i)
			if null {
				sawNull = true
			} else if !v {
				return false, false
			}
		}
		return !sawNull, sawNull
	case logicOr:
		sawNull := false
		for _, p := range params {
			v, null := p.GetValue(i)
			if null {
				sawNull = true
			} else if v {
				return true, false
			}
		}
		return false, sawNull
	}
	r := false
	for _, p := range params {
		v, null := p.GetValue(i)
		if null {
			return false, true
		}
		r = r != v
	}
	return r, false
}

type notFunction struct {
	baseFunction
}

func (f *notFunction) ReturnType(args []types.Type) (types.Type, error) {
	if _, err := checkLogicArgs(f.name, args); err != nil {
		return types.Type{}, err
	}
	return types.T_bool.ToType(), nil
}

func (f *notFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	vec, err := CastVector(proc, args[0], types.T_bool.ToType())
	if err != nil {
		return nil, err
	}
	return evalKernel(proc, func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToFixed[bool, bool](parameters, result, proc, length, func(v bool) bool { return !v })
	}, types.T_bool.ToType(), []*vector.Vector{vec}, length)
}
