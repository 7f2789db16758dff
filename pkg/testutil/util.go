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

package testutil

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/container/nulls"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

func NewProcess() *process.Process {
	return process.New(context.Background(), process.Limitation{})
}

func NewBatch(ts []types.Type, random bool, n int) *batch.Batch {
	bat := batch.NewWithSize(len(ts))
	bat.SetRowCount(n)
	for i := range bat.Vecs {
		bat.Vecs[i] = NewVector(n, ts[i], random, nil)
	}
	return bat
}

// NewBatchWithNulls is NewBatch with every even row NULL.
func NewBatchWithNulls(ts []types.Type, random bool, n int) *batch.Batch {
	bat := batch.NewWithSize(len(ts))
	bat.SetRowCount(n)
	for i := range bat.Vecs {
		vec := NewVector(n, types.WrapNullable(ts[i]), random, nil)
		for j := 0; j < n; j += 2 {
			nulls.Add(vec.GetNulls(), uint64(j))
		}
		bat.Vecs[i] = vec
	}
	return bat
}

func NewBatchWithVectors(vs []*vector.Vector) *batch.Batch {
	bat := batch.NewWithSize(len(vs))
	if len(vs) > 0 {
		bat.SetRowCount(vs[0].Length())
		bat.Vecs = vs
	}
	return bat
}

// NewVector builds n rows of typ from values, or counts 0..n-1 (random
// values with random set) when values is nil.
func NewVector(n int, typ types.Type, random bool, values any) *vector.Vector {
	switch typ.Oid {
	case types.T_bool:
		if vs, ok := values.([]bool); ok {
			return NewFixedVector(typ, vs)
		}
		return newCountVector(n, typ, random, func(v int) bool { return v%2 == 1 })
	case types.T_int8:
		return newNumberVector[int8](n, typ, random, values)
	case types.T_int16:
		return newNumberVector[int16](n, typ, random, values)
	case types.T_int32:
		return newNumberVector[int32](n, typ, random, values)
	case types.T_int64:
		return newNumberVector[int64](n, typ, random, values)
	case types.T_uint8:
		return newNumberVector[uint8](n, typ, random, values)
	case types.T_uint16:
		return newNumberVector[uint16](n, typ, random, values)
	case types.T_uint32:
		return newNumberVector[uint32](n, typ, random, values)
	case types.T_uint64:
		return newNumberVector[uint64](n, typ, random, values)
	case types.T_float32:
		return newNumberVector[float32](n, typ, random, values)
	case types.T_float64:
		return newNumberVector[float64](n, typ, random, values)
	case types.T_date:
		if vs, ok := values.([]string); ok {
			return NewDateVector(typ, vs)
		}
		return newNumberVector[types.Date](n, typ, random, nil)
	case types.T_datetime:
		if vs, ok := values.([]string); ok {
			return NewDatetimeVector(typ, vs)
		}
		return newNumberVector[types.Datetime](n, typ, random, nil)
	case types.T_timestamp:
		return newNumberVector[types.Timestamp](n, typ, random, values)
	case types.T_varchar:
		if vs, ok := values.([]string); ok {
			return NewStringVector(typ, vs, nil)
		}
		return newCountVectorBytes(n, typ, random)
	default:
		panic(moerr.NewInternalErrorNoCtx("unsupport vector's type '%v", typ))
	}
}

func newNumberVector[T types.Number](n int, typ types.Type, random bool, values any) *vector.Vector {
	if vs, ok := values.([]T); ok {
		return NewFixedVector(typ, vs)
	}
	return newCountVector(n, typ, random, func(v int) T { return T(v) })
}

func newCountVector[T types.Fixed](n int, typ types.Type, random bool, conv func(int) T) *vector.Vector {
	vec := vector.NewVec(typ)
	for i := 0; i < n; i++ {
		v := i
		if random {
			v = rand.Int()
		}
		vector.AppendFixed(vec, conv(v), false)
	}
	return vec
}

func newCountVectorBytes(n int, typ types.Type, random bool) *vector.Vector {
	vec := vector.NewVec(typ)
	for i := 0; i < n; i++ {
		v := i
		if random {
			v = rand.Int()
		}
		vector.AppendBytes(vec, []byte(strconv.Itoa(v)), false)
	}
	return vec
}

// NewFixedVector builds a vector holding vs.
func NewFixedVector[T types.Fixed](typ types.Type, vs []T) *vector.Vector {
	vec := vector.NewVec(typ)
	vector.AppendFixedList(vec, vs, nil)
	return vec
}

// MakeFixedVector builds a nullable vector of vs, the rows listed in
// nullRows are NULL.
func MakeFixedVector[T types.Fixed](oid types.T, vs []T, nullRows []uint64) *vector.Vector {
	typ := oid.ToType()
	if nullRows != nil {
		typ = types.WrapNullable(typ)
	}
	vec := NewFixedVector(typ, vs)
	nulls.Add(vec.GetNulls(), nullRows...)
	return vec
}

func MakeInt64Vector(vs []int64, nullRows []uint64) *vector.Vector {
	return MakeFixedVector(types.T_int64, vs, nullRows)
}

func MakeFloat64Vector(vs []float64, nullRows []uint64) *vector.Vector {
	return MakeFixedVector(types.T_float64, vs, nullRows)
}

func MakeBoolVector(vs []bool, nullRows []uint64) *vector.Vector {
	return MakeFixedVector(types.T_bool, vs, nullRows)
}

func MakeVarcharVector(vs []string, nullRows []uint64) *vector.Vector {
	typ := types.T_varchar.ToType()
	if nullRows != nil {
		typ = types.WrapNullable(typ)
	}
	isNulls := make([]bool, len(vs))
	for _, row := range nullRows {
		isNulls[row] = true
	}
	return NewStringVector(typ, vs, isNulls)
}

func NewStringVector(typ types.Type, vs []string, isNulls []bool) *vector.Vector {
	vec := vector.NewVec(typ)
	vector.AppendStringList(vec, vs, isNulls)
	return vec
}

func NewDateVector(typ types.Type, vs []string) *vector.Vector {
	vec := vector.NewVec(typ)
	for _, s := range vs {
		d, err := types.ParseDate(s)
		if err != nil {
			panic(err)
		}
		vector.AppendFixed(vec, d, false)
	}
	return vec
}

func NewDatetimeVector(typ types.Type, vs []string) *vector.Vector {
	vec := vector.NewVec(typ)
	for _, s := range vs {
		dt, err := types.ParseDatetime(s, time.UTC)
		if err != nil {
			panic(err)
		}
		vector.AppendFixed(vec, dt, false)
	}
	return vec
}

// MakeScalarNull is a NULL literal of length rows.
func MakeScalarNull(length int) *vector.Vector {
	return vector.NewConstNull(types.Type{Oid: types.T_any, Nullable: true}, length)
}

func MakeScalarInt64(v int64, length int) *vector.Vector {
	return vector.NewConstFixed(types.T_int64.ToType(), v, length)
}

func MakeScalarVarchar(v string, length int) *vector.Vector {
	return vector.NewConstBytes(types.T_varchar.ToType(), []byte(v), length)
}

// CompareVectors reports whether two vectors hold the same rows, NULL rows
// included. Constness is ignored.
func CompareVectors(expected, got *vector.Vector) bool {
	if expected.Length() != got.Length() {
		return false
	}
	for i := 0; i < expected.Length(); i++ {
		if !expected.GetValue(i).Equal(got.GetValue(i)) {
			return false
		}
	}
	return true
}

// Values returns every row of vec as a value.
func Values(vec *vector.Vector) []types.Value {
	vs := make([]types.Value, vec.Length())
	for i := range vs {
		vs[i] = vec.GetValue(i)
	}
	return vs
}
