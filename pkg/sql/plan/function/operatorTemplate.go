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
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

// Kernel evaluates a function over its arguments into an empty result of
// the function's return type.
type Kernel func(parameters []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, length int) error

// mustSameLength panics when an argument does not have length rows. A
// mismatch is a bug in the caller, not bad input.
func mustSameLength(parameters []*vector.Vector, length int) {
	for i, p := range parameters {
		if p.Length() != length {
			panic(moerr.NewInternalErrorNoCtx("argument %d has %d rows, but %d rows are evaluated", i, p.Length(), length))
		}
	}
}

// opBinaryFixedFixedToFixed applies fn row by row. The four const/array
// combinations are handled separately so that a constant side is read
// once. Two constants run fn a single time and the value is repeated for
// length rows; Adapter folds such calls into a constant vector.
func opBinaryFixedFixedToFixed[T1, T2, R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v1 T1, v2 T2) R) error {
	mustSameLength(parameters, length)
	p1 := vector.GenerateFunctionFixedTypeParameter[T1](parameters[0])
	p2 := vector.GenerateFunctionFixedTypeParameter[T2](parameters[1])
	rs := vector.MustFunctionResult[R](result)
	c1, c2 := parameters[0].IsConst(), parameters[1].IsConst()

	var zero R
	switch {
	case c1 && c2:
		v1, null1 := p1.GetValue(0)
		v2, null2 := p2.GetValue(0)
		if null1 || null2 {
			for i := 0; i < length; i++ {
				rs.Append(zero, true)
			}
			return nil
		}
		r := fn(v1, v2)
		for i := 0; i < length; i++ {
			rs.Append(r, false)
		}

	case c1:
		v1, null1 := p1.GetValue(0)
		if null1 {
			for i := 0; i < length; i++ {
				rs.Append(zero, true)
			}
			return nil
		}
		if !parameters[1].GetNulls().Any() {
			for _, v2 := range p2.UnSafeGetAllValue()[:length] {
				rs.Append(fn(v1, v2), false)
			}
			return nil
		}
		for i := uint64(0); i < uint64(length); i++ {
			v2, null2 := p2.GetValue(i)
			if null2 {
				rs.Append(zero, true)
				continue
			}
			rs.Append(fn(v1, v2), false)
		}

	case c2:
		v2, null2 := p2.GetValue(0)
		if null2 {
			for i := 0; i < length; i++ {
				rs.Append(zero, true)
			}
			return nil
		}
		if !parameters[0].GetNulls().Any() {
			for _, v1 := range p1.UnSafeGetAllValue()[:length] {
				rs.Append(fn(v1, v2), false)
			}
			return nil
		}
		for i := uint64(0); i < uint64(length); i++ {
			v1, null1 := p1.GetValue(i)
			if null1 {
				rs.Append(zero, true)
				continue
			}
			rs.Append(fn(v1, v2), false)
		}

	default:
		if !parameters[0].GetNulls().Any() && !parameters[1].GetNulls().Any() {
			vs1, vs2 := p1.UnSafeGetAllValue()[:length], p2.UnSafeGetAllValue()[:length]
			for i := range vs1 {
				rs.Append(fn(vs1[i], vs2[i]), false)
			}
			return nil
		}
		for i := uint64(0); i < uint64(length); i++ {
			v1, null1 := p1.GetValue(i)
			v2, null2 := p2.GetValue(i)
			if null1 || null2 {
				rs.Append(zero, true)
				continue
			}
			rs.Append(fn(v1, v2), false)
		}
	}
	return nil
}

// opBinaryFixedFixedToFixedWithNull is opBinaryFixedFixedToFixed for
// kernels that may turn a row into NULL, like modulo by zero.
func opBinaryFixedFixedToFixedWithNull[T1, T2, R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v1 T1, v2 T2) (R, bool)) error {
	mustSameLength(parameters, length)
	p1 := vector.GenerateFunctionFixedTypeParameter[T1](parameters[0])
	p2 := vector.GenerateFunctionFixedTypeParameter[T2](parameters[1])
	rs := vector.MustFunctionResult[R](result)

	var zero R
	if parameters[0].IsConst() && parameters[1].IsConst() {
		v1, null1 := p1.GetValue(0)
		v2, null2 := p2.GetValue(0)
		r, null := zero, true
		if !null1 && !null2 {
			r, null = fn(v1, v2)
		}
		for i := 0; i < length; i++ {
			rs.Append(r, null)
		}
		return nil
	}
	for i := uint64(0); i < uint64(length); i++ {
		v1, null1 := p1.GetValue(i)
		v2, null2 := p2.GetValue(i)
		if null1 || null2 {
			rs.Append(zero, true)
			continue
		}
		rs.Append(fn(v1, v2))
	}
	return nil
}

func opBinaryStrStrToFixed[R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v1, v2 []byte) R) error {
	mustSameLength(parameters, length)
	p1 := vector.GenerateFunctionStrParameter(parameters[0])
	p2 := vector.GenerateFunctionStrParameter(parameters[1])
	rs := vector.MustFunctionResult[R](result)

	var zero R
	if parameters[0].IsConst() && parameters[1].IsConst() {
		v1, null1 := p1.GetStrValue(0)
		v2, null2 := p2.GetStrValue(0)
		r, null := zero, null1 || null2
		if !null {
			r = fn(v1, v2)
		}
		for i := 0; i < length; i++ {
			rs.Append(r, null)
		}
		return nil
	}
	for i := uint64(0); i < uint64(length); i++ {
		v1, null1 := p1.GetStrValue(i)
		v2, null2 := p2.GetStrValue(i)
		if null1 || null2 {
			rs.Append(zero, true)
			continue
		}
		rs.Append(fn(v1, v2), false)
	}
	return nil
}

func opUnaryFixedToFixed[T, R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v T) R) error {
	mustSameLength(parameters, length)
	p := vector.GenerateFunctionFixedTypeParameter[T](parameters[0])
	rs := vector.MustFunctionResult[R](result)

	var zero R
	if !parameters[0].IsConst() && !parameters[0].GetNulls().Any() {
		for _, v := range p.UnSafeGetAllValue()[:length] {
			rs.Append(fn(v), false)
		}
		return nil
	}
	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetValue(i)
		if null {
			rs.Append(zero, true)
			continue
		}
		rs.Append(fn(v), false)
	}
	return nil
}

func opUnaryFixedToFixedWithErrorCheck[T, R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v T) (R, error)) error {
	mustSameLength(parameters, length)
	p := vector.GenerateFunctionFixedTypeParameter[T](parameters[0])
	rs := vector.MustFunctionResult[R](result)

	var zero R
	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetValue(i)
		if null {
			rs.Append(zero, true)
			continue
		}
		r, err := fn(v)
		if err != nil {
			return err
		}
		rs.Append(r, false)
	}
	return nil
}

func opUnaryFixedToStr[T types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v T) []byte) error {
	mustSameLength(parameters, length)
	p := vector.GenerateFunctionFixedTypeParameter[T](parameters[0])
	rs := vector.MustFunctionResult[[]byte](result)

	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetValue(i)
		if null {
			rs.AppendBytes(nil, true)
			continue
		}
		rs.AppendBytes(fn(v), false)
	}
	return nil
}

// opUnaryStrToFixedWithNull lets fn reject a row: the row becomes NULL
// when fn reports null, or the evaluation fails when fn returns an error.
func opUnaryStrToFixedWithNull[R types.Fixed](parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v []byte) (R, bool, error)) error {
	mustSameLength(parameters, length)
	p := vector.GenerateFunctionStrParameter(parameters[0])
	rs := vector.MustFunctionResult[R](result)

	var zero R
	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetStrValue(i)
		if null {
			rs.Append(zero, true)
			continue
		}
		r, null, err := fn(v)
		if err != nil {
			return err
		}
		rs.Append(r, null)
	}
	return nil
}

func opUnaryStrToStr(parameters []*vector.Vector, result vector.FunctionResultWrapper, _ *process.Process, length int, fn func(v []byte) []byte) error {
	mustSameLength(parameters, length)
	p := vector.GenerateFunctionStrParameter(parameters[0])
	rs := vector.MustFunctionResult[[]byte](result)

	for i := uint64(0); i < uint64(length); i++ {
		v, null := p.GetStrValue(i)
		if null {
			rs.AppendBytes(nil, true)
			continue
		}
		rs.AppendBytes(fn(v), false)
	}
	return nil
}
