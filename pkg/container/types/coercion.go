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

package types

import (
	"strings"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

// BinaryOp groups the arithmetic operators sharing one result type rule.
type BinaryOp uint8

const (
	OpAddMul BinaryOp = iota
	OpMinus
	OpDiv
	OpModulo
)

func (op BinaryOp) String() string {
	switch op {
	case OpAddMul:
		return "+*"
	case OpMinus:
		return "-"
	case OpDiv:
		return "/"
	case OpModulo:
		return "%"
	}
	return "?"
}

var (
	signedBySize   = map[int]T{1: T_int8, 2: T_int16, 4: T_int32, 8: T_int64}
	unsignedBySize = map[int]T{1: T_uint8, 2: T_uint16, 4: T_uint32, 8: T_uint64}
)

// IntegerOfSize returns the integer type of size bytes, size is capped at 8.
func IntegerOfSize(size int, signed bool) T {
	if size > 8 {
		size = 8
	}
	if signed {
		return signedBySize[size]
	}
	return unsignedBySize[size]
}

func nextSize(size int) int {
	if size >= 8 {
		return 8
	}
	return size * 2
}

// ResultTypeOfBinary is the coercion table of the numeric arithmetic
// operators. Both sides must be primitive numeric types, nullability is
// ignored.
func ResultTypeOfBinary(l, r Type, op BinaryOp) (Type, error) {
	if !l.Oid.IsNumeric() || !r.Oid.IsNumeric() {
		return Type{}, moerr.NewBadDataValueTypeNoCtx("Unsupported arithmetic (%v) %s (%v)", RemoveNullable(l), op, RemoveNullable(r))
	}
	if op == OpDiv || l.Oid.IsFloat() || r.Oid.IsFloat() {
		return New(T_float64), nil
	}

	ls, rs := l.Oid.FixedLength(), r.Oid.FixedLength()
	size := ls
	if rs > size {
		size = rs
	}
	anySigned := l.Oid.IsSignedInt() || r.Oid.IsSignedInt()
	switch op {
	case OpAddMul:
		return New(IntegerOfSize(nextSize(size), anySigned)), nil
	case OpMinus:
		return New(IntegerOfSize(nextSize(size), true)), nil
	case OpModulo:
		return New(IntegerOfSize(size, l.Oid.IsSignedInt())), nil
	}
	return Type{}, moerr.NewInternalErrorNoCtx("unknown binary op %d", op)
}

var dateRank = map[T]int{T_date: 0, T_datetime: 1, T_timestamp: 2}

// LeastSupertype returns the narrowest type every argument converts to
// without loss. NULL literals are absorbed and make the result nullable.
func LeastSupertype(typs ...Type) (Type, error) {
	nullable := false
	var rest []Type
	for _, t := range typs {
		if t.Nullable || t.Oid == T_any {
			nullable = true
		}
		if t.Oid != T_any {
			rest = append(rest, RemoveNullable(t))
		}
	}
	if len(rest) == 0 {
		return Type{Oid: T_any, Nullable: true}, nil
	}
	result, err := leastSupertype(rest)
	if err != nil {
		return Type{}, err
	}
	result.Nullable = nullable
	return result, nil
}

func leastSupertype(typs []Type) (Type, error) {
	first := typs[0]
	same := true
	for _, t := range typs[1:] {
		if !t.Eq(first) {
			same = false
			break
		}
	}
	if same {
		return first, nil
	}

	noSupertype := func() (Type, error) {
		names := make([]string, len(typs))
		for i, t := range typs {
			names[i] = t.String()
		}
		return Type{}, moerr.NewIllegalDataTypeNoCtx("There is no supertype for types %s", strings.Join(names, ", "))
	}

	var nString, nBool, nDate, nNumeric, nInterval int
	for _, t := range typs {
		switch {
		case t.Oid == T_varchar:
			nString++
		case t.Oid == T_bool:
			nBool++
		case t.Oid.IsDateRelate():
			nDate++
		case t.Oid.IsNumeric():
			nNumeric++
		case t.Oid.IsInterval():
			nInterval++
		}
	}
	switch len(typs) {
	case nString:
		return New(T_varchar), nil
	case nBool:
		return New(T_bool), nil
	case nInterval:
		// units differ, otherwise all types were equal
		return noSupertype()
	case nDate:
		best := typs[0]
		for _, t := range typs[1:] {
			if dateRank[t.Oid] > dateRank[best.Oid] {
				best = t
			} else if t.Oid == T_timestamp && best.Oid == T_timestamp && t.Precision > best.Precision {
				best.Precision = t.Precision
			}
		}
		return best, nil
	case nNumeric:
		return numericSupertype(typs, noSupertype)
	}
	return noSupertype()
}

func numericSupertype(typs []Type, noSupertype func() (Type, error)) (Type, error) {
	maxFloat, maxSigned, maxUnsigned := 0, 0, 0
	for _, t := range typs {
		size := t.Oid.FixedLength()
		switch {
		case t.Oid.IsFloat():
			if size > maxFloat {
				maxFloat = size
			}
		case t.Oid.IsSignedInt():
			if size > maxSigned {
				maxSigned = size
			}
		default:
			if size > maxUnsigned {
				maxUnsigned = size
			}
		}
	}

	if maxFloat > 0 {
		// float32 holds integers up to 16 bits exactly
		if maxFloat == 4 && maxSigned <= 2 && maxUnsigned <= 2 {
			return New(T_float32), nil
		}
		return New(T_float64), nil
	}
	if maxSigned == 0 {
		return New(IntegerOfSize(maxUnsigned, false)), nil
	}
	if maxUnsigned == 0 {
		return New(IntegerOfSize(maxSigned, true)), nil
	}
	// mixed signedness needs a signed type wider than every unsigned one
	size := maxSigned
	if maxUnsigned >= size {
		size = maxUnsigned * 2
	}
	if size > 8 {
		return noSupertype()
	}
	return New(IntegerOfSize(size, true)), nil
}
