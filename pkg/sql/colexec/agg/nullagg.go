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
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

// nullAgg is any value aggregate over the NULL type, every group is NULL.
type nullAgg struct {
	EmptyStruct
}

func (n *nullAgg) Eval(vs []bool) ([]bool, error) {
	return vs, nil
}

func (n *nullAgg) Fill(_ int64, _ bool, ov bool, isEmpty bool, _ bool) (bool, bool, error) {
	return ov, isEmpty, nil
}

func (n *nullAgg) Merge(_ int64, _ int64, x bool, _ bool, xEmpty bool, _ bool, _ any) (bool, bool, error) {
	return x, xEmpty, nil
}

func newNullAgg(op int, ityp types.Type) Agg {
	n := &nullAgg{}
	return NewUnaryAgg(op, n, false, ityp, types.Type{Oid: types.T_any, Nullable: true},
		noValue, putNull, n.Fill, n.Merge, n.Eval)
}

func putNull(vec *vector.Vector, _ bool, _ bool) {
	vec.AppendNull()
}
