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
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

// Count counts the non NULL rows, or every row for count(*).
type Count struct {
	EmptyStruct
	isStar bool
}

func CountReturnType(_ []types.Type) types.Type {
	return types.T_int64.ToType()
}

func NewCount(isStar bool) *Count {
	return &Count{isStar: isStar}
}

func (c *Count) Eval(vs []int64) ([]int64, error) {
	return vs, nil
}

func (c *Count) Fill(_ int64, _ bool, ov int64, _ bool, isNull bool) (int64, bool, error) {
	if c.isStar || !isNull {
		return ov + 1, false, nil
	}
	return ov, false, nil
}

func (c *Count) Merge(_ int64, _ int64, x int64, y int64, _ bool, _ bool, _ any) (int64, bool, error) {
	return x + y, false, nil
}

func newCount(op int, ityp types.Type) Agg {
	c := NewCount(op == AggregateStarCount)
	return NewUnaryAgg(op, c, true, ityp, CountReturnType(nil), noValue, putFixed[int64], c.Fill, c.Merge, c.Eval)
}

// noValue skips reading rows whose value the aggregate ignores.
func noValue(_ *vector.Vector, _ int) bool {
	return false
}
