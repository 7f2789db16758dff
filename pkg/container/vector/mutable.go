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

package vector

import (
	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// Mutable builds a flat vector row by row.
type Mutable struct {
	vec *Vector
}

func NewMutable(typ types.Type, capacity int) *Mutable {
	vec := NewVec(typ)
	vec.PreExtend(capacity)
	return &Mutable{vec: vec}
}

func (m *Mutable) Append(val types.Value) error {
	return m.vec.AppendValue(val)
}

func (m *Mutable) AppendNull() error {
	if !m.vec.typ.Nullable && m.vec.typ.Oid != types.T_any {
		return moerr.NewBadDataValueTypeNoCtx("Can't append NULL to column of non-nullable type %s", m.vec.typ)
	}
	m.vec.AppendNull()
	return nil
}

func (m *Mutable) AppendDefault() error {
	return m.vec.AppendValue(m.vec.typ.DefaultValue())
}

func (m *Mutable) Len() int {
	return m.vec.length
}

// Vector exposes the vector under construction for typed appends.
func (m *Mutable) Vector() *Vector {
	return m.vec
}

// Finish hands the built vector over and resets the builder.
func (m *Mutable) Finish() *Vector {
	vec := m.vec
	m.vec = NewVec(vec.typ)
	return vec
}

// ColumnWithField is a vector plus the field it was declared as.
type ColumnWithField struct {
	Vec   *Vector
	Field types.Field
}

func NewColumnWithField(vec *Vector, field types.Field) ColumnWithField {
	return ColumnWithField{Vec: vec, Field: field}
}

func (c ColumnWithField) Type() types.Type {
	return c.Field.Typ
}
