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
	"encoding/binary"

	hll "github.com/axiomhq/hyperloglog"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// ApproxCountDistinct estimates the number of distinct non NULL values of
// each group with one sketch per group.
type ApproxCountDistinct struct {
	Sk []*hll.Sketch
}

func ApproxCountDistinctReturnType(_ []types.Type) types.Type {
	return types.T_uint64.ToType()
}

func NewApproxCountDistinct() *ApproxCountDistinct {
	return &ApproxCountDistinct{}
}

func (a *ApproxCountDistinct) Grows(size int, _ *arena.Arena) {
	for i := 0; i < size; i++ {
		a.Sk = append(a.Sk, hll.New())
	}
}

func (a *ApproxCountDistinct) Eval(vs []uint64) ([]uint64, error) {
	for i := range vs {
		vs[i] = a.Sk[i].Estimate()
	}
	return vs, nil
}

func (a *ApproxCountDistinct) Fill(i int64, value []byte, ov uint64, _ bool, isNull bool) (uint64, bool, error) {
	if !isNull {
		a.Sk[i].Insert(value)
	}
	return ov, false, nil
}

func (a *ApproxCountDistinct) Merge(xIndex int64, yIndex int64, x uint64, _ uint64, _ bool, _ bool, yPriv any) (uint64, bool, error) {
	ya := yPriv.(*ApproxCountDistinct)
	if err := a.Sk[xIndex].Merge(ya.Sk[yIndex]); err != nil {
		return x, false, moerr.ConvertGoError(moerr.Context(), err)
	}
	return x, false, nil
}

func (a *ApproxCountDistinct) MarshalBinary() ([]byte, error) {
	var data []byte
	for _, sk := range a.Sk {
		buf, err := sk.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = binary.AppendUvarint(data, uint64(len(buf)))
		data = append(data, buf...)
	}
	return data, nil
}

func (a *ApproxCountDistinct) UnmarshalBinary(data []byte) error {
	a.Sk = a.Sk[:0]
	for len(data) > 0 {
		l, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data)-n) < l {
			return moerr.NewInternalErrorNoCtx("corrupted approx_count_distinct state")
		}
		sk := hll.New()
		if err := sk.UnmarshalBinary(data[n : n+int(l)]); err != nil {
			return moerr.ConvertGoError(moerr.Context(), err)
		}
		a.Sk = append(a.Sk, sk)
		data = data[n+int(l):]
	}
	return nil
}

func newApproxCountDistinct(ityp types.Type) Agg {
	a := NewApproxCountDistinct()
	return NewUnaryAgg(AggregateApproxCountDistinct, a, true, ityp, ApproxCountDistinctReturnType(nil),
		getRaw, putFixed[uint64], a.Fill, a.Merge, a.Eval)
}
