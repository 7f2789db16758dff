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

package agg

import (
	"encoding/json"
	"math"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// Stddevpop is the population standard deviation, sqrt(E[x^2] - E[x]^2).
// The per group result holds the sum, Squares and Counts the rest.
type Stddevpop[T Numeric] struct {
	Squares []float64
	Counts  []int64
}

func StdDevPopReturnType(_ []types.Type) types.Type {
	return types.WrapNullable(types.T_float64.ToType())
}

func NewStdDevPop[T Numeric]() *Stddevpop[T] {
	return &Stddevpop[T]{}
}

func (s *Stddevpop[T]) Grows(size int, _ *arena.Arena) {
	for i := 0; i < size; i++ {
		s.Squares = append(s.Squares, 0)
		s.Counts = append(s.Counts, 0)
	}
}

func (s *Stddevpop[T]) Eval(vs []float64) ([]float64, error) {
	for i, sum := range vs {
		if s.Counts[i] == 0 {
			continue
		}
		n := float64(s.Counts[i])
		avg := sum / n
		variance := s.Squares[i]/n - avg*avg
		if variance < 0 {
			// rounding
			variance = 0
		}
		vs[i] = math.Sqrt(variance)
	}
	return vs, nil
}

func (s *Stddevpop[T]) Fill(i int64, value T, ov float64, isEmpty bool, isNull bool) (float64, bool, error) {
	if isNull {
		return ov, isEmpty, nil
	}
	v := float64(value)
	s.Squares[i] += v * v
	s.Counts[i]++
	return ov + v, false, nil
}

func (s *Stddevpop[T]) Merge(xIndex int64, yIndex int64, x float64, y float64, xEmpty bool, yEmpty bool, yPriv any) (float64, bool, error) {
	if yEmpty {
		return x, xEmpty, nil
	}
	ys := yPriv.(*Stddevpop[T])
	s.Squares[xIndex] += ys.Squares[yIndex]
	s.Counts[xIndex] += ys.Counts[yIndex]
	if xEmpty {
		return y, false, nil
	}
	return x + y, false, nil
}

func (s *Stddevpop[T]) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Stddevpop[T]) UnmarshalBinary(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return moerr.ConvertGoError(moerr.Context(), err)
	}
	if len(s.Squares) != len(s.Counts) {
		return moerr.NewInternalErrorNoCtx("corrupted stddev_pop state")
	}
	return nil
}

func newGenericStdDevPop[T Numeric](ityp types.Type) Agg {
	s := NewStdDevPop[T]()
	return NewUnaryAgg(AggregateStdDevPop, s, false, ityp, StdDevPopReturnType(nil),
		getFixed[T], putFixed[float64], s.Fill, s.Merge, s.Eval)
}

func newStdDevPop(ityp types.Type) Agg {
	switch ityp.Oid {
	case types.T_int8:
		return newGenericStdDevPop[int8](ityp)
	case types.T_int16:
		return newGenericStdDevPop[int16](ityp)
	case types.T_int32:
		return newGenericStdDevPop[int32](ityp)
	case types.T_int64:
		return newGenericStdDevPop[int64](ityp)
	case types.T_uint8:
		return newGenericStdDevPop[uint8](ityp)
	case types.T_uint16:
		return newGenericStdDevPop[uint16](ityp)
	case types.T_uint32:
		return newGenericStdDevPop[uint32](ityp)
	case types.T_uint64:
		return newGenericStdDevPop[uint64](ityp)
	case types.T_float32:
		return newGenericStdDevPop[float32](ityp)
	case types.T_float64:
		return newGenericStdDevPop[float64](ityp)
	}
	return nil
}
