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

package batch

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/logutil"
)

func New(attrs []string) *Batch {
	return &Batch{
		Cnt:      1,
		Attrs:    attrs,
		Vecs:     make([]*vector.Vector, len(attrs)),
		rowCount: 0,
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Cnt:      1,
		Attrs:    make([]string, n),
		Vecs:     make([]*vector.Vector, n),
		rowCount: 0,
	}
}

// NewWithVectors builds a batch whose row count is taken from its first vector.
func NewWithVectors(attrs []string, vecs []*vector.Vector) *Batch {
	bat := &Batch{Cnt: 1, Attrs: attrs, Vecs: vecs}
	if len(vecs) > 0 {
		bat.rowCount = vecs[0].Length()
	}
	return bat
}

// Schema returns one field per column, in column order.
func (bat *Batch) Schema() []types.Field {
	fields := make([]types.Field, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		fields[i] = types.NewField(bat.Attrs[i], *vec.GetType())
	}
	return fields
}

func (bat *Batch) Size() int {
	var size int

	for _, vec := range bat.Vecs {
		size += vec.Size()
	}
	return size
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(rowCount int) {
	bat.rowCount = rowCount
}

func (bat *Batch) AddRowCount(rowCount int) {
	bat.rowCount += rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) SetAttributes(attrs []string) {
	bat.Attrs = attrs
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) GetSubBatch(cols []string) *Batch {
	mp := make(map[string]int)
	for i, attr := range bat.Attrs {
		mp[attr] = i
	}
	rbat := NewWithSize(len(cols))
	for i, col := range cols {
		rbat.Attrs[i] = col
		rbat.Vecs[i] = bat.Vecs[mp[col]]
	}
	rbat.rowCount = bat.rowCount
	return rbat
}

// Clean drops one reference and frees the vectors with the last one.
func (bat *Batch) Clean() {
	if bat == EmptyBatch {
		return
	}
	if atomic.LoadInt64(&bat.Cnt) == 0 {
		return
	}
	if atomic.AddInt64(&bat.Cnt, -1) > 0 {
		return
	}
	for _, vec := range bat.Vecs {
		if vec != nil {
			vec.Free()
		}
	}
	bat.Attrs = nil
	bat.rowCount = 0
	bat.Vecs = nil
}

func (bat *Batch) AddCnt(cnt int) {
	atomic.AddInt64(&bat.Cnt, int64(cnt))
}

func (bat *Batch) GetCnt() int64 {
	return atomic.LoadInt64(&bat.Cnt)
}

func (bat *Batch) IsEmpty() bool {
	return bat.rowCount == 0
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		buf.WriteString(fmt.Sprintf("%d : %s\n", i, vec.String()))
	}
	return buf.String()
}

func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 {
		return
	}
	logutil.Infof("\n" + tag + "\n" + bat.String())
}

// Dup returns a deep copy, constants stay constants.
func (bat *Batch) Dup() *Batch {
	rbat := NewWithSize(len(bat.Vecs))
	copy(rbat.Attrs, bat.Attrs)
	for j, vec := range bat.Vecs {
		rbat.Vecs[j] = vec.Dup()
	}
	rbat.rowCount = bat.rowCount
	return rbat
}

// Append copies the rows of b behind the rows of bat, the schemas must
// already be known to match.
func (bat *Batch) Append(ctx context.Context, b *Batch) (*Batch, error) {
	if bat == nil {
		return b.Dup(), nil
	}
	if len(bat.Vecs) != len(b.Vecs) {
		return nil, moerr.NewInternalError(ctx, "unexpected error happens in batch append")
	}

	for i := range bat.Vecs {
		if err := bat.Vecs[i].UnionBatch(b.Vecs[i], 0, b.rowCount); err != nil {
			return bat, err
		}
	}
	bat.rowCount += b.rowCount
	return bat, nil
}

// ConcatBatches concatenates bats column-wise in schema order. It fails with
// EmptyData on no input and DataStructMismatch when any schema differs from
// the first one; nothing is copied in either case.
func ConcatBatches(ctx context.Context, bats []*Batch) (*Batch, error) {
	if len(bats) == 0 {
		return nil, moerr.NewEmptyData(ctx, "Can't concat empty blocks")
	}

	schema := bats[0].Schema()
	rows := 0
	for i, bat := range bats {
		if i > 0 {
			other := bat.Schema()
			if !sameSchema(schema, other) {
				return nil, moerr.NewDataStructMismatch(ctx, "Schema not matched, block %d has %s, expected %s", i, fieldsString(other), fieldsString(schema))
			}
		}
		for j, vec := range bat.Vecs {
			if vec.Length() != bat.rowCount {
				return nil, moerr.NewDataStructMismatch(ctx, "column %d of block %d has %d rows, expected %d", j, i, vec.Length(), bat.rowCount)
			}
		}
		rows += bat.rowCount
	}

	rbat := NewWithSize(len(schema))
	for j, field := range schema {
		rbat.Attrs[j] = field.Name
		vec := vector.NewVec(field.Typ)
		vec.PreExtend(rows)
		for _, bat := range bats {
			if err := vec.UnionBatch(bat.Vecs[j], 0, bat.rowCount); err != nil {
				return nil, err
			}
		}
		rbat.Vecs[j] = vec
	}
	rbat.rowCount = rows
	return rbat, nil
}

func sameSchema(a, b []types.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func fieldsString(fields []types.Field) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteByte(']')
	return buf.String()
}
