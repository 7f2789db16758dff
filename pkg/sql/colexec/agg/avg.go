// Copyright 2022 Matrix Origin
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
	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

type Avg[T Numeric] struct {
	Cnts []int64
}

var AvgSupported = SumSupported

func AvgReturnType(_ []types.Type) types.Type {
	return types.WrapNullable(types.T_float64.ToType())
}

func NewAvg[T Numeric]() *Avg[T] {
	return &Avg[T]{}
}

func (a *Avg[T]) Grows(cnt int, _ *arena.Arena) {
	for i := 0; i < cnt; i++ {
		a.Cnts = append(a.Cnts, 0)
	}
}

func (a *Avg[T]) Eval(vs []float64) ([]float64, error) {
	for i := range vs {
		if a.Cnts[i] == 0 {
			continue
		}
		vs[i] = vs[i] / float64(a.Cnts[i])
	}
	return vs, nil
}

func (a *Avg[T]) Fill(i int64, value T, ov float64, isEmpty bool, isNull bool) (float64, bool, error) {
	if !isNull {
		a.Cnts[i]++
		return ov + float64(value), false, nil
	}
	return ov, isEmpty, nil
}

func (a *Avg[T]) Merge(xIndex int64, yIndex int64, x float64, y float64, xEmpty bool, yEmpty bool, yAvg any) (float64, bool, error) {
	if !yEmpty {
		ya := yAvg.(*Avg[T])
		a.Cnts[xIndex] += ya.Cnts[yIndex]
		if !xEmpty {
			return x + y, false, nil
		}
		return y, false, nil
	}

	return x, xEmpty, nil
}

func (a *Avg[T]) MarshalBinary() ([]byte, error) {
	return types.EncodeSlice(a.Cnts), nil
}

func (a *Avg[T]) UnmarshalBinary(data []byte) error {
	if len(data)%8 != 0 {
		return moerr.NewInternalErrorNoCtx("corrupted avg state")
	}
	// the decoded slice must not alias data
	copyData := make([]byte, len(data))
	copy(copyData, data)
	a.Cnts = types.DecodeSlice[int64](copyData)
	return nil
}

func newGenericAvg[T Numeric](ityp types.Type) Agg {
	a := NewAvg[T]()
	return NewUnaryAgg(AggregateAvg, a, false, ityp, AvgReturnType(nil),
		getFixed[T], putFixed[float64], a.Fill, a.Merge, a.Eval)
}

func newAvg(ityp types.Type) Agg {
	switch ityp.Oid {
	case types.T_int8:
		return newGenericAvg[int8](ityp)
	case types.T_int16:
		return newGenericAvg[int16](ityp)
	case types.T_int32:
		return newGenericAvg[int32](ityp)
	case types.T_int64:
		return newGenericAvg[int64](ityp)
	case types.T_uint8:
		return newGenericAvg[uint8](ityp)
	case types.T_uint16:
		return newGenericAvg[uint16](ityp)
	case types.T_uint32:
		return newGenericAvg[uint32](ityp)
	case types.T_uint64:
		return newGenericAvg[uint64](ityp)
	case types.T_float32:
		return newGenericAvg[float32](ityp)
	case types.T_float64:
		return newGenericAvg[float64](ityp)
	}
	return nil
}
