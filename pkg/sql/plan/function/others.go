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
	"encoding/binary"
	"net/netip"

	"github.com/google/uuid"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

func registerOthers(f *Factory) {
	f.Register("runningdifference", Description{
		Creator: func(name string) (Function, error) {
			return &runningDifferenceFunction{baseFunction: baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithNumArgs(1),
	})

	for name, strict := range map[string]bool{"inet_aton": true, "try_inet_aton": false} {
		strict := strict
		f.Register(name, Description{
			Creator: func(name string) (Function, error) {
				return &inetAtonFunction{baseFunction: baseFunction{name: name}, strict: strict}, nil
			},
			Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(1),
		})
	}
	for _, name := range []string{"inet_ntoa", "try_inet_ntoa"} {
		f.Register(name, Description{
			Creator: func(name string) (Function, error) {
				return &inetNtoaFunction{baseFunction{name: name}}, nil
			},
			Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(1),
		})
	}

	f.Register("generateuuidv4", Description{
		Creator: func(name string) (Function, error) {
			return &uuidFunction{baseFunction: baseFunction{name: name}, random: true}, nil
		},
		Features: FunctionFeatures{}.WithNumArgs(0),
	})
	f.Register("zerouuid", Description{
		Creator: func(name string) (Function, error) {
			return &uuidFunction{baseFunction: baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(0),
	})
}

// runningDifferenceFunction returns the difference between a row and the
// row before it inside one block. The first row is 0, a row is NULL when
// it or its predecessor is NULL.
type runningDifferenceFunction struct {
	baseFunction
}

func (f *runningDifferenceFunction) PassThroughNull() bool {
	return false
}

func (f *runningDifferenceFunction) ReturnType(args []types.Type) (types.Type, error) {
	arg := types.RemoveNullable(args[0])
	var oid types.T
	switch arg.Oid {
	case ScalarNull:
		return types.Type{Oid: types.T_any, Nullable: true}, nil
	case types.T_int8, types.T_uint8:
		oid = types.T_int16
	case types.T_int16, types.T_uint16:
		oid = types.T_int32
	case types.T_int32, types.T_uint32, types.T_int64, types.T_uint64,
		types.T_date, types.T_datetime, types.T_timestamp:
		oid = types.T_int64
	case types.T_float32, types.T_float64:
		oid = types.T_float64
	default:
		return types.Type{}, moerr.NewIllegalDataTypeNoCtx("Argument for function %s must have numeric type, but got %s", f.name, arg.Name())
	}
	return types.WrapNullable(oid.ToType()), nil
}

func (f *runningDifferenceFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	typ, err := f.ReturnType([]types.Type{*args[0].GetType()})
	if err != nil {
		return nil, err
	}
	if typ.Oid == types.T_any || args[0].IsConstNull() {
		return vector.NewConstNull(typ, length), nil
	}
	vec, err := CastVector(proc, args[0], types.RemoveNullable(typ))
	if err != nil {
		return nil, err
	}
	var k Kernel
	switch typ.Oid {
	case types.T_int16:
		k = runningDifferenceKernel[int16]
	case types.T_int32:
		k = runningDifferenceKernel[int32]
	case types.T_int64:
		k = runningDifferenceKernel[int64]
	default:
		k = runningDifferenceKernel[float64]
	}
	return evalKernel(proc, k, types.RemoveNullable(typ), []*vector.Vector{vec}, length)
}

func runningDifferenceKernel[T int16 | int32 | int64 | float64](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int) error {
	p := vector.GenerateFunctionFixedTypeParameter[T](parameters[0])
	rs := vector.MustFunctionResult[T](result)
	var prev T
	prevNull := true
	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetValue(i)
		switch {
		case null:
			rs.Append(0, true)
		case i == 0:
			rs.Append(0, false)
		case prevNull:
			rs.Append(0, true)
		default:
			rs.Append(v-prev, false)
		}
		prev, prevNull = v, null
	}
	return nil
}

// inetAtonFunction parses a dotted IPv4 address into a UInt32. The strict
// form fails on a malformed address, the try form returns NULL.
type inetAtonFunction struct {
	baseFunction
	strict bool
}

func (f *inetAtonFunction) ReturnType(args []types.Type) (types.Type, error) {
	if args[0].Oid != types.T_varchar {
		return types.Type{}, moerr.NewIllegalDataTypeNoCtx("Expected string or null type, but got %s", args[0].Name())
	}
	typ := types.T_uint32.ToType()
	typ.Nullable = !f.strict
	return typ, nil
}

func (f *inetAtonFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	strict := f.strict
	return evalKernel(proc, func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryStrToFixedWithNull[uint32](parameters, result, proc, length, func(s []byte) (uint32, bool, error) {
			addr, err := netip.ParseAddr(string(s))
			if err != nil || !addr.Is4() {
				if strict {
					return 0, false, moerr.NewInvalidInput(proc.Context(), "Failed to parse '%s' into a IPV4 address, invalid IP address syntax", string(s))
				}
				return 0, true, nil
			}
			ip := addr.As4()
			return binary.BigEndian.Uint32(ip[:]), false, nil
		})
	}, types.T_uint32.ToType(), args, length)
}

// inetNtoaFunction formats the low 32 bits of a number as an IPv4
// address. A number always has such an address, so inet_ntoa and
// try_inet_ntoa agree.
type inetNtoaFunction struct {
	baseFunction
}

func (f *inetNtoaFunction) ReturnType(args []types.Type) (types.Type, error) {
	if !args[0].Oid.IsNumeric() {
		return types.Type{}, moerr.NewIllegalDataTypeNoCtx("Expected numeric or null type, but got %s", args[0].Name())
	}
	return types.T_varchar.ToType(), nil
}

func (f *inetNtoaFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	arg := args[0]
	if arg.GetType().Oid.IsFloat() {
		// truncate toward zero first, a negative float has no uint32 value
		var err error
		if arg, err = CastVector(proc, arg, types.T_int64.ToType()); err != nil {
			return nil, err
		}
	}
	vec, err := CastVector(proc, arg, types.T_uint32.ToType())
	if err != nil {
		return nil, err
	}
	return evalKernel(proc, func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error {
		return opUnaryFixedToStr[uint32](parameters, result, proc, length, func(v uint32) []byte {
			var ip [4]byte
			binary.BigEndian.PutUint32(ip[:], v)
			return netip.AddrFrom4(ip).AppendTo(nil)
		})
	}, types.T_varchar.ToType(), []*vector.Vector{vec}, length)
}

// uuidFunction is generateUUIDv4 when random is set and zeroUUID
// otherwise.
type uuidFunction struct {
	baseFunction
	random bool
}

func (f *uuidFunction) ReturnType(_ []types.Type) (types.Type, error) {
	return types.T_varchar.ToType(), nil
}

func (f *uuidFunction) Eval(_ *process.Process, _ []*vector.Vector, length int) (*vector.Vector, error) {
	if !f.random {
		return vector.NewConstBytes(types.T_varchar.ToType(), []byte(uuid.Nil.String()), length), nil
	}
	result := newResult(types.T_varchar.ToType(), length)
	rs := vector.MustFunctionResult[[]byte](result)
	for i := 0; i < length; i++ {
		rs.AppendBytes([]byte(uuid.NewString()), false)
	}
	return result.GetResultVector(), nil
}
