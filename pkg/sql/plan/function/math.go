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

func registerMath(f *Factory) {
	unary := FunctionFeatures{}.WithDeterministic().WithMonotonicity().WithNumArgs(1)
	f.Register("sign", Description{
		Creator: func(name string) (Function, error) {
			return &signFunction{baseFunction{name: name}}, nil
		},
		Features: unary,
	})
	f.Register("abs", Description{
		Creator: func(name string) (Function, error) {
			return &absFunction{baseFunction{name: name}}, nil
		},
		Features: unary,
	})
	f.Register("degrees", Description{
		Creator: func(name string) (Function, error) {
			return &scaleFunction{baseFunction: baseFunction{name: name}, factor: 180 / math.Pi}, nil
		},
		Features: unary,
	})
	f.Register("radians", Description{
		Creator: func(name string) (Function, error) {
			return &scaleFunction{baseFunction: baseFunction{name: name}, factor: math.Pi / 180}, nil
		},
		Features: unary,
	})
	f.Register("pi", Description{
		Creator: func(name string) (Function, error) {
			return &piFunction{baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithMonotonicity().WithNumArgs(0),
	})
}

func expectNumeric(arg types.Type) error {
	if !arg.Oid.IsNumeric() {
		return moerr.NewIllegalDataTypeNoCtx("Expected a numeric type, but got %s", arg.Name())
	}
	return nil
}

// numericKernelOf instantiates gen for the physical type of oid.
func numericKernelOf(oid types.T, gen numericKernelGen) Kernel {
	switch oid {
	case types.T_int8:
		return gen.int8()
	case types.T_int16:
		return gen.int16()
	case types.T_int32:
		return gen.int32()
	case types.T_int64:
		return gen.int64()
	case types.T_uint8:
		return gen.uint8()
	case types.T_uint16:
		return gen.uint16()
	case types.T_uint32:
		return gen.uint32()
	case types.T_uint64:
		return gen.uint64()
	case types.T_float32:
		return gen.float32()
	}
	return gen.float64()
}

type numericKernelGen interface {
	int8() Kernel
	int16() Kernel
	int32() Kernel
	int64() Kernel
	uint8() Kernel
	uint16() Kernel
	uint32() Kernel
	uint64() Kernel
	float32() Kernel
	float64() Kernel
}

// signFunction returns -1, 0 or 1 as Int8.
type signFunction struct {
	baseFunction
}

func (f *signFunction) ReturnType(args []types.Type) (types.Type, error) {
	if err := expectNumeric(args[0]); err != nil {
		return types.Type{}, err
	}
	return types.T_int8.ToType(), nil
}

func signOf[T types.Number](v T) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

type signKernels struct{}

func signKernel[T types.Number]() Kernel {
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToFixed[T, int8](parameters, result, proc, length, signOf[T])
	}
}

func (signKernels) int8() Kernel    { return signKernel[int8]() }
func (signKernels) int16() Kernel   { return signKernel[int16]() }
func (signKernels) int32() Kernel   { return signKernel[int32]() }
func (signKernels) int64() Kernel   { return signKernel[int64]() }
func (signKernels) uint8() Kernel   { return signKernel[uint8]() }
func (signKernels) uint16() Kernel  { return signKernel[uint16]() }
func (signKernels) uint32() Kernel  { return signKernel[uint32]() }
func (signKernels) uint64() Kernel  { return signKernel[uint64]() }
func (signKernels) float32() Kernel { return signKernel[float32]() }
func (signKernels) float64() Kernel { return signKernel[float64]() }

func (f *signFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	k := numericKernelOf(args[0].GetType().Oid, signKernels{})
	return evalKernel(proc, k, types.T_int8.ToType(), args, length)
}

// sign never reverses the order of its input.
func (f *signFunction) Monotonicity(args []Monotonicity) Monotonicity {
	monotonicityArgs(f.name, args, 1)
	return args[0]
}

// absFunction maps signed integers to the unsigned type of the same
// width, so abs of the minimum value is representable.
type absFunction struct {
	baseFunction
}

func (f *absFunction) ReturnType(args []types.Type) (types.Type, error) {
	arg := args[0]
	if err := expectNumeric(arg); err != nil {
		return types.Type{}, err
	}
	if arg.Oid.IsSignedInt() {
		return types.IntegerOfSize(arg.Oid.FixedLength(), false).ToType(), nil
	}
	return types.RemoveNullable(arg), nil
}

func absSigned[T constraints.Signed, R constraints.Unsigned]() Kernel {
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToFixed[T, R](parameters, result, proc, length, func(v T) R {
			if v < 0 {
				return R(-v)
			}
			return R(v)
		})
	}
}

func absIdentity[T types.Number]() Kernel {
	return func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToFixed[T, T](parameters, result, proc, length, func(v T) T {
			if v < 0 {
				return -v
			}
			return v
		})
	}
}

type absKernels struct{}

func (absKernels) int8() Kernel    { return absSigned[int8, uint8]() }
func (absKernels) int16() Kernel   { return absSigned[int16, uint16]() }
func (absKernels) int32() Kernel   { return absSigned[int32, uint32]() }
func (absKernels) int64() Kernel   { return absSigned[int64, uint64]() }
func (absKernels) uint8() Kernel   { return absIdentity[uint8]() }
func (absKernels) uint16() Kernel  { return absIdentity[uint16]() }
func (absKernels) uint32() Kernel  { return absIdentity[uint32]() }
func (absKernels) uint64() Kernel  { return absIdentity[uint64]() }
func (absKernels) float32() Kernel { return absIdentity[float32]() }
func (absKernels) float64() Kernel { return absIdentity[float64]() }

func (f *absFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	typ, err := f.ReturnType([]types.Type{*args[0].GetType()})
	if err != nil {
		return nil, err
	}
	k := numericKernelOf(args[0].GetType().Oid, absKernels{})
	return evalKernel(proc, k, typ, args, length)
}

func (f *absFunction) Monotonicity(args []Monotonicity) Monotonicity {
	monotonicityArgs(f.name, args, 1)
	if args[0].IsConstant {
		return Constant()
	}
	return NonMonotonic()
}

// scaleFunction multiplies by a positive constant in Float64, it backs
// degrees and radians.
type scaleFunction struct {
	baseFunction
	factor float64
}

func (f *scaleFunction) ReturnType(args []types.Type) (types.Type, error) {
	if err := expectNumeric(args[0]); err != nil {
		return types.Type{}, err
	}
	return types.T_float64.ToType(), nil
}

func (f *scaleFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	vec, err := CastVector(proc, args[0], types.T_float64.ToType())
	if err != nil {
		return nil, err
	}
	factor := f.factor
	return evalKernel(proc, func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToFixed[float64, float64](parameters, result, proc, length, func(v float64) float64 {
			return v * factor
		})
	}, types.T_float64.ToType(), []*vector.Vector{vec}, length)
}

func (f *scaleFunction) Monotonicity(args []Monotonicity) Monotonicity {
	monotonicityArgs(f.name, args, 1)
	return args[0]
}

type piFunction struct {
	baseFunction
}

func (f *piFunction) ReturnType(_ []types.Type) (types.Type, error) {
	return types.T_float64.ToType(), nil
}

func (f *piFunction) Eval(_ *process.Process, _ []*vector.Vector, length int) (*vector.Vector, error) {
	return vector.NewConstFixed(types.T_float64.ToType(), math.Pi, length), nil
}

func (f *piFunction) Monotonicity(_ []Monotonicity) Monotonicity {
	return Constant()
}
