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
	"bytes"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

type compareOp uint8

const (
	cmpEq compareOp = iota
	cmpNe
	cmpLt
	cmpLe
	cmpGt
	cmpGe
)

var compareSymbols = [...]string{"=", "!=", "<", "<=", ">", ">="}

func (op compareOp) String() string {
	return compareSymbols[op]
}

// holds reports whether op accepts the result of a three way comparison.
func (op compareOp) holds(c int) bool {
	switch op {
	case cmpEq:
		return c == 0
	case cmpNe:
		return c != 0
	case cmpLt:
		return c < 0
	case cmpLe:
		return c <= 0
	case cmpGt:
		return c > 0
	}
	return c >= 0
}

func registerComparison(f *Factory) {
	for _, reg := range []struct {
		names    []string
		op       compareOp
		negative string
	}{
		{[]string{"=", "equals"}, cmpEq, "!="},
		{[]string{"!=", "<>", "notequals"}, cmpNe, "="},
		{[]string{"<", "less"}, cmpLt, ">="},
		{[]string{"<=", "lessorequals"}, cmpLe, ">"},
		{[]string{">", "greater"}, cmpGt, "<="},
		{[]string{">=", "greaterorequals"}, cmpGe, "<"},
	} {
		op := reg.op
		desc := Description{
			Creator: func(name string) (Function, error) {
				return &comparisonFunction{baseFunction: baseFunction{name: name}, op: op}, nil
			},
			Features: FunctionFeatures{}.WithDeterministic().WithBoolFunc().WithNegativeFunction(reg.negative).WithNumArgs(2),
		}
		for _, name := range reg.names {
			f.Register(name, desc)
		}
	}
}

type comparisonFunction struct {
	baseFunction
	op compareOp
	// common type both sides are cast to
	typ types.Type
}

// ComparisonType returns the type two operands are compared as.
func ComparisonType(l, r types.Type) (types.Type, error) {
	l, r = types.RemoveNullable(l), types.RemoveNullable(r)
	typ, err := types.LeastSupertype(l, r)
	if err == nil {
		return types.RemoveNullable(typ), nil
	}
	if l.Oid.IsNumeric() && r.Oid.IsNumeric() {
		// Int64 against UInt64
		return types.T_float64.ToType(), nil
	}
	return types.Type{}, err
}

func (f *comparisonFunction) ReturnType(args []types.Type) (types.Type, error) {
	typ, err := ComparisonType(args[0], args[1])
	if err != nil {
		return types.Type{}, moerr.NewBadDataValueTypeNoCtx("Unsupported comparison (%s) %s (%s)", args[0].Name(), f.op, args[1].Name())
	}
	if typ.Oid.IsInterval() {
		return types.Type{}, moerr.NewBadDataValueTypeNoCtx("Unsupported comparison (%s) %s (%s)", args[0].Name(), f.op, args[1].Name())
	}
	f.typ = typ
	return types.T_bool.ToType(), nil
}

func (f *comparisonFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	if f.typ.Oid == types.T_any {
		if _, err := f.ReturnType([]types.Type{*args[0].GetType(), *args[1].GetType()}); err != nil {
			return nil, err
		}
	}
	l, err := CastVector(proc, args[0], f.typ)
	if err != nil {
		return nil, err
	}
	r, err := CastVector(proc, args[1], f.typ)
	if err != nil {
		return nil, err
	}

	var k Kernel
	switch f.typ.Oid {
	case types.T_bool:
		k = compareKernel[uint8](f.op)
		if l, err = CastVector(proc, l, types.T_uint8.ToType()); err != nil {
			return nil, err
		}
		if r, err = CastVector(proc, r, types.T_uint8.ToType()); err != nil {
			return nil, err
		}
	case types.T_int8:
		k = compareKernel[int8](f.op)
	case types.T_int16:
		k = compareKernel[int16](f.op)
	case types.T_int32:
		k = compareKernel[int32](f.op)
	case types.T_int64:
		k = compareKernel[int64](f.op)
	case types.T_uint8:
		k = compareKernel[uint8](f.op)
	case types.T_uint16:
		k = compareKernel[uint16](f.op)
	case types.T_uint32:
		k = compareKernel[uint32](f.op)
	case types.T_uint64:
		k = compareKernel[uint64](f.op)
	case types.T_float32:
		k = compareKernel[float32](f.op)
	case types.T_float64:
		k = compareKernel[float64](f.op)
	case types.T_date:
		k = compareKernel[types.Date](f.op)
	case types.T_datetime:
		k = compareKernel[types.Datetime](f.op)
	case types.T_timestamp:
		k = compareKernel[types.Timestamp](f.op)
	case types.T_varchar:
		op := f.op
		k = func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
			return opBinaryStrStrToFixed[bool](parameters, result, proc, length, func(v1, v2 []byte) bool {
				return op.holds(bytes.Compare(v1, v2))
			})
		}
	default:
		return nil, moerr.NewBadDataValueType(proc.Context(), "Unsupported comparison (%s) %s (%s)", args[0].GetType().Name(), f.op, args[1].GetType().Name())
	}
	return evalKernel(proc, k, types.T_bool.ToType(), []*vector.Vector{l, r}, length)
}

func compareKernel[T types.Number](op compareOp) Kernel {
	var fn func(v1, v2 T) bool
	switch op {
	case cmpEq:
		fn = func(v1, v2 T) bool { return v1 == v2 }
	case cmpNe:
		fn = func(v1, v2 T) bool { return v1 != v2 }
	case cmpLt:
		fn = func(v1, v2 T) bool { return v1 < v2 }
	case cmpLe:
		fn = func(v1, v2 T) bool { return v1 <= v2 }
	case cmpGt:
		fn = func(v1, v2 T) bool { return v1 > v2 }
	default:
		fn = func(v1, v2 T) bool { return v1 >= v2 }
	}
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opBinaryFixedFixedToFixed[T, T, bool](parameters, result, proc, length, fn)
	}
}
