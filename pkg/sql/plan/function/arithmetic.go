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
	"math"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

type arithmeticOp uint8

const (
	opPlus arithmeticOp = iota
	opMinus
	opMultiply
	opDivide
	opModulo
	opNegate
)

var arithmeticSymbols = [...]string{"+", "-", "*", "/", "%", "negate"}

func (op arithmeticOp) String() string {
	return arithmeticSymbols[op]
}

func registerArithmetic(f *Factory) {
	binary := FunctionFeatures{}.WithDeterministic().WithMonotonicity().WithNumArgs(2)
	for _, reg := range []struct {
		names []string
		op    arithmeticOp
	}{
		{[]string{"+", "plus"}, opPlus},
		{[]string{"-", "minus"}, opMinus},
		{[]string{"*", "multiply"}, opMultiply},
		{[]string{"/", "divide"}, opDivide},
		{[]string{"%", "modulo"}, opModulo},
	} {
		op := reg.op
		desc := ArithmeticDescription{
			Creator: func(name string, args []types.Type) (Function, error) {
				return newArithmeticFunction(name, op, args)
			},
			Features: binary,
		}
		for _, name := range reg.names {
			f.RegisterArithmetic(name, desc)
		}
	}

	f.RegisterArithmetic("negate", ArithmeticDescription{
		Creator: func(name string, args []types.Type) (Function, error) {
			return newNegateFunction(name, args)
		},
		Features: FunctionFeatures{}.WithDeterministic().WithMonotonicity().WithNumArgs(1),
	})
}

// arithmeticFunction is one binary operator bound to its operand types.
// Both operands are cast to their operand types and the kernel runs on
// the casted columns.
type arithmeticFunction struct {
	baseFunction
	op arithmeticOp

	typ          types.Type
	leftOperand  types.Type
	rightOperand types.Type
	kernel       Kernel
}

func unsupportedArithmetic(l types.Type, op arithmeticOp, r types.Type) error {
	return moerr.NewBadDataValueTypeNoCtx("Unsupported arithmetic (%s) %s (%s)", l.Name(), op, r.Name())
}

func newArithmeticFunction(name string, op arithmeticOp, args []types.Type) (*arithmeticFunction, error) {
	f := &arithmeticFunction{baseFunction: baseFunction{name: name}, op: op}
	l, r := types.RemoveNullable(args[0]), types.RemoveNullable(args[1])
	if l.Oid == ScalarNull || r.Oid == ScalarNull {
		// evaluated as NULL by the adapter
		f.typ = types.Type{Oid: types.T_any, Nullable: true}
		return f, nil
	}
	if l.Oid.IsInterval() || r.Oid.IsInterval() {
		return nil, unsupportedArithmetic(l, op, r)
	}

	lDate, rDate := l.Oid.IsDateRelate(), r.Oid.IsDateRelate()
	switch {
	case lDate && rDate:
		if op != opMinus || l.Oid != r.Oid || l.Oid == types.T_timestamp {
			return nil, unsupportedArithmetic(l, op, r)
		}
		f.typ = types.T_int32.ToType()
		f.leftOperand, f.rightOperand = types.T_int32.ToType(), types.T_int32.ToType()
		f.kernel = numericKernel[int32](opMinus)
		return f, nil

	case lDate || rDate:
		date, other := l, r
		if rDate {
			date, other = r, l
		}
		if !other.Oid.IsNumeric() || (op != opPlus && op != opMinus) {
			return nil, unsupportedArithmetic(l, op, r)
		}
		f.typ = date
		f.leftOperand, f.rightOperand = l, r
		if lDate {
			f.rightOperand = types.T_int64.ToType()
		} else {
			f.leftOperand = types.T_int64.ToType()
		}
		f.kernel = dateKernel(date.Oid, op, lDate)
		return f, nil
	}

	if !l.Oid.IsNumeric() || !r.Oid.IsNumeric() {
		return nil, unsupportedArithmetic(l, op, r)
	}
	var binOp types.BinaryOp
	switch op {
	case opPlus, opMultiply:
		binOp = types.OpAddMul
	case opMinus:
		binOp = types.OpMinus
	case opDivide:
		binOp = types.OpDiv
	case opModulo:
		binOp = types.OpModulo
	}
	typ, err := types.ResultTypeOfBinary(l, r, binOp)
	if err != nil {
		return nil, err
	}
	f.typ = typ
	f.leftOperand, f.rightOperand = typ, typ
	f.kernel = kernelOfType(typ.Oid, op)
	if op == opModulo {
		f.typ = types.WrapNullable(typ)
	}
	return f, nil
}

func (f *arithmeticFunction) ReturnType(_ []types.Type) (types.Type, error) {
	return f.typ, nil
}

func (f *arithmeticFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	l, err := CastVector(proc, args[0], f.leftOperand)
	if err != nil {
		return nil, err
	}
	r, err := CastVector(proc, args[1], f.rightOperand)
	if err != nil {
		return nil, err
	}
	return evalKernel(proc, f.kernel, types.RemoveNullable(f.typ), []*vector.Vector{l, r}, length)
}

func (f *arithmeticFunction) Monotonicity(args []Monotonicity) Monotonicity {
	monotonicityArgs(f.name, args, 2)
	switch f.op {
	case opPlus:
		return PlusMonotonicity(args[0], args[1])
	case opMinus:
		return MinusMonotonicity(args[0], args[1])
	case opMultiply:
		return MulMonotonicity(args[0], args[1])
	case opDivide:
		return DivMonotonicity(args[0], args[1])
	}
	if args[0].IsConstant && args[1].IsConstant {
		return Constant()
	}
	return NonMonotonic()
}

func kernelOfType(oid types.T, op arithmeticOp) Kernel {
	switch oid {
	case types.T_int8:
		return integerKernel[int8](op)
	case types.T_int16:
		return integerKernel[int16](op)
	case types.T_int32:
		return integerKernel[int32](op)
	case types.T_int64:
		return integerKernel[int64](op)
	case types.T_uint8:
		return integerKernel[uint8](op)
	case types.T_uint16:
		return integerKernel[uint16](op)
	case types.T_uint32:
		return integerKernel[uint32](op)
	case types.T_uint64:
		return integerKernel[uint64](op)
	case types.T_float32:
		return floatKernel[float32](op)
	case types.T_float64:
		return floatKernel[float64](op)
	}
	panic(moerr.NewInternalErrorNoCtx("no arithmetic kernel for %s", oid))
}

// numericKernel covers + - * and /. Integer results wrap around on
// overflow, which only happens for 64 bit results since narrower
// operands are widened first.
func numericKernel[T types.Number](op arithmeticOp) Kernel {
	var fn func(v1, v2 T) T
	switch op {
	case opPlus:
		fn = func(v1, v2 T) T { return v1 + v2 }
	case opMinus:
		fn = func(v1, v2 T) T { return v1 - v2 }
	case opMultiply:
		fn = func(v1, v2 T) T { return v1 * v2 }
	case opDivide:
		fn = func(v1, v2 T) T { return v1 / v2 }
	default:
		panic(moerr.NewInternalErrorNoCtx("no numeric kernel for %s", op))
	}
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opBinaryFixedFixedToFixed[T, T, T](parameters, result, proc, length, fn)
	}
}

func integerKernel[T constraints.Integer](op arithmeticOp) Kernel {
	if op != opModulo {
		return numericKernel[T](op)
	}
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opBinaryFixedFixedToFixedWithNull[T, T, T](parameters, result, proc, length, func(v1, v2 T) (T, bool) {
			if v2 == 0 {
				return 0, true
			}
			return v1 % v2, false
		})
	}
}

// floatKernel divides following IEEE 754, a zero divisor gives an
// infinity or NaN.
func floatKernel[T constraints.Float](op arithmeticOp) Kernel {
	if op != opModulo {
		return numericKernel[T](op)
	}
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opBinaryFixedFixedToFixedWithNull[T, T, T](parameters, result, proc, length, func(v1, v2 T) (T, bool) {
			if v2 == 0 {
				return 0, true
			}
			return T(math.Mod(float64(v1), float64(v2))), false
		})
	}
}

func dateKernel(oid types.T, op arithmeticOp, dateOnLeft bool) Kernel {
	switch oid {
	case types.T_date:
		return dateIntKernel[types.Date](op, dateOnLeft)
	case types.T_datetime:
		return dateIntKernel[types.Datetime](op, dateOnLeft)
	}
	return dateIntKernel[types.Timestamp](op, dateOnLeft)
}

// dateIntKernel shifts a date by an integer count of its own unit.
func dateIntKernel[D constraints.Integer](op arithmeticOp, dateOnLeft bool) Kernel {
	sign := int64(1)
	if op == opMinus {
		sign = -1
	}
	if dateOnLeft {
		return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
			return opBinaryFixedFixedToFixed[D, int64, D](parameters, result, proc, length, func(d D, n int64) D {
				return D(int64(d) + sign*n)
			})
		}
	}
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opBinaryFixedFixedToFixed[int64, D, D](parameters, result, proc, length, func(n int64, d D) D {
			return D(n + sign*int64(d))
		})
	}
}

// negateFunction is unary minus. Unsigned inputs become the signed type
// of the next size so that every value has a negation.
type negateFunction struct {
	baseFunction
	typ types.Type
}

func newNegateFunction(name string, args []types.Type) (*negateFunction, error) {
	arg := types.RemoveNullable(args[0])
	f := &negateFunction{baseFunction: baseFunction{name: name}}
	switch {
	case arg.Oid == ScalarNull:
		f.typ = types.Type{Oid: types.T_any, Nullable: true}
	case arg.Oid.IsFloat() || arg.Oid.IsSignedInt():
		f.typ = arg
	case arg.Oid.IsUnsignedInt():
		size := arg.Oid.FixedLength()
		if size < 8 {
			size *= 2
		}
		f.typ = types.IntegerOfSize(size, true).ToType()
	default:
		return nil, moerr.NewIllegalDataTypeNoCtx("Expected a numeric type, but got %s", arg)
	}
	return f, nil
}

func (f *negateFunction) ReturnType(_ []types.Type) (types.Type, error) {
	return f.typ, nil
}

func (f *negateFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	vec, err := CastVector(proc, args[0], f.typ)
	if err != nil {
		return nil, err
	}
	var k Kernel
	switch f.typ.Oid {
	case types.T_int8:
		k = negateKernel[int8]
	case types.T_int16:
		k = negateKernel[int16]
	case types.T_int32:
		k = negateKernel[int32]
	case types.T_int64:
		k = negateKernel[int64]
	case types.T_float32:
		k = negateKernel[float32]
	default:
		k = negateKernel[float64]
	}
	return evalKernel(proc, k, f.typ, []*vector.Vector{vec}, length)
}

func negateKernel[T constraints.Signed | constraints.Float](parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
	return opUnaryFixedToFixed[T, T](parameters, result, proc, length, func(v T) T { return -v })
}

func (f *negateFunction) Monotonicity(args []Monotonicity) Monotonicity {
	monotonicityArgs(f.name, args, 1)
	return args[0].negate()
}
