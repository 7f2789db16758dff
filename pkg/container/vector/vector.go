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
	"bytes"
	"fmt"
	"unsafe"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/nulls"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent a uncompressed vector
	CONSTANT        // const vector
)

// Vector represent a column
type Vector struct {
	// vector's class
	class int
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// data of fixed length element, one element for a const vector
	data []byte

	// offs[i], offs[i+1] delimit the i-th string inside area
	offs []uint32
	// area for holding strings.
	area []byte

	length int
}

func NewVec(typ types.Type) *Vector {
	vec := &Vector{
		typ:   typ,
		class: FLAT,
		nsp:   &nulls.Nulls{},
	}
	if typ.IsVarlen() {
		vec.offs = []uint32{0}
	}
	return vec
}

// NewConstNull returns a constant NULL of length rows.
func NewConstNull(typ types.Type, length int) *Vector {
	vec := &Vector{
		typ:    typ,
		class:  CONSTANT,
		nsp:    nulls.Build(1, 0),
		length: length,
	}
	if typ.IsVarlen() {
		vec.offs = []uint32{0, 0}
	} else {
		vec.data = make([]byte, typ.TypeSize())
	}
	return vec
}

func NewConstFixed[T types.Fixed](typ types.Type, val T, length int) *Vector {
	vec := &Vector{
		typ:    typ,
		class:  CONSTANT,
		nsp:    &nulls.Nulls{},
		length: length,
	}
	vec.data = append([]byte(nil), types.EncodeFixed(val)...)
	if len(vec.data) != typ.TypeSize() {
		panic(moerr.NewInternalErrorNoCtx("constant of %d bytes for type %s", len(vec.data), typ))
	}
	return vec
}

func NewConstBytes(typ types.Type, val []byte, length int) *Vector {
	vec := &Vector{
		typ:    typ,
		class:  CONSTANT,
		nsp:    &nulls.Nulls{},
		length: length,
	}
	vec.area = append([]byte(nil), val...)
	vec.offs = []uint32{0, uint32(len(val))}
	return vec
}

// NewConstFromValue builds a constant of length rows holding val coerced to typ.
func NewConstFromValue(typ types.Type, val types.Value, length int) (*Vector, error) {
	if val.IsNull() {
		if !typ.Nullable && typ.Oid != types.T_any {
			return nil, moerr.NewBadDataValueTypeNoCtx("Can't create constant NULL of non-nullable type %s", typ)
		}
		return NewConstNull(typ, length), nil
	}
	vec := NewVec(typ)
	if err := vec.AppendValue(val); err != nil {
		return nil, err
	}
	vec.class = CONSTANT
	vec.length = length
	return vec, nil
}

// NewFromValues builds a flat vector, a NULL value is only accepted by
// nullable types.
func NewFromValues(typ types.Type, vals []types.Value) (*Vector, error) {
	vec := NewVec(typ)
	vec.PreExtend(len(vals))
	for _, val := range vals {
		if err := vec.AppendValue(val); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) SetLength(n int) {
	v.length = n
}

// Size is only meaningful for (approximate) memory accounting.
func (v *Vector) Size() int {
	return len(v.data) + len(v.area) + 4*len(v.offs)
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) SetType(typ types.Type) {
	v.typ = typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	v.nsp = nsp
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

// IsConstNull return true if the vector means a scalar Null.
// e.g.
//
//	a + Null, and the vector of right part will return true
func (v *Vector) IsConstNull() bool {
	return v.IsConst() && nulls.Contains(v.nsp, 0)
}

// HasNull reports whether any row of v is null.
func (v *Vector) HasNull() bool {
	return nulls.Any(v.nsp)
}

func (v *Vector) IsNull(i int) bool {
	if v.IsConst() {
		i = 0
	}
	return nulls.Contains(v.nsp, uint64(i))
}

func (v *Vector) GetArea() []byte {
	return v.area
}

func (v *Vector) PreExtend(rows int) {
	if v.typ.IsVarlen() {
		v.offs = slices.Grow(v.offs, rows)
		return
	}
	v.data = slices.Grow(v.data, rows*v.typ.TypeSize())
}

// MustFixedCol returns the typed view of a fixed width vector, a const
// vector has exactly one element.
func MustFixedCol[T types.Fixed](v *Vector) []T {
	return types.DecodeSlice[T](v.data)
}

func GetFixedAt[T types.Fixed](v *Vector, i int) T {
	if v.IsConst() {
		i = 0
	}
	sz := int(unsafe.Sizeof(*new(T)))
	return types.DecodeFixed[T](v.data[i*sz:])
}

func (v *Vector) GetBytesAt(i int) []byte {
	if v.IsConst() {
		i = 0
	}
	return v.area[v.offs[i]:v.offs[i+1]:v.offs[i+1]]
}

// GetRawBytesAt returns the in-memory bytes of row i of a fixed width vector.
func (v *Vector) GetRawBytesAt(i int) []byte {
	if v.IsConst() {
		i = 0
	}
	sz := v.typ.TypeSize()
	return v.data[i*sz : (i+1)*sz]
}

func (v *Vector) GetStringAt(i int) string {
	return string(v.GetBytesAt(i))
}

// GetValue returns row i widened to its physical class.
func (v *Vector) GetValue(i int) types.Value {
	if v.IsNull(i) || v.typ.Oid == types.T_any {
		return types.NullValue()
	}
	switch v.typ.Oid {
	case types.T_bool:
		return types.BoolValue(GetFixedAt[bool](v, i))
	case types.T_int8:
		return types.Int64Value(int64(GetFixedAt[int8](v, i)))
	case types.T_int16:
		return types.Int64Value(int64(GetFixedAt[int16](v, i)))
	case types.T_int32:
		return types.Int64Value(int64(GetFixedAt[int32](v, i)))
	case types.T_int64, types.T_interval:
		return types.Int64Value(GetFixedAt[int64](v, i))
	case types.T_uint8:
		return types.UInt64Value(uint64(GetFixedAt[uint8](v, i)))
	case types.T_uint16:
		return types.UInt64Value(uint64(GetFixedAt[uint16](v, i)))
	case types.T_uint32:
		return types.UInt64Value(uint64(GetFixedAt[uint32](v, i)))
	case types.T_uint64:
		return types.UInt64Value(GetFixedAt[uint64](v, i))
	case types.T_float32:
		return types.Float64Value(float64(GetFixedAt[float32](v, i)))
	case types.T_float64:
		return types.Float64Value(GetFixedAt[float64](v, i))
	case types.T_date:
		return types.Int64Value(int64(GetFixedAt[types.Date](v, i)))
	case types.T_datetime:
		return types.UInt64Value(uint64(GetFixedAt[types.Datetime](v, i)))
	case types.T_timestamp:
		return types.Int64Value(int64(GetFixedAt[types.Timestamp](v, i)))
	case types.T_varchar:
		return types.BytesValue(v.GetBytesAt(i))
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected type %s", v.typ))
}

func AppendFixed[T types.Fixed](v *Vector, val T, isNull bool) {
	if isNull {
		v.AppendNull()
		return
	}
	n := len(v.data)
	sz := int(unsafe.Sizeof(val))
	v.data = slices.Grow(v.data, sz)[:n+sz]
	types.PutFixed(v.data[n:], val)
	v.length++
}

func AppendFixedList[T types.Fixed](v *Vector, vals []T, isNulls []bool) {
	for i, val := range vals {
		AppendFixed(v, val, len(isNulls) > 0 && isNulls[i])
	}
}

func AppendBytes(v *Vector, val []byte, isNull bool) {
	if isNull {
		v.AppendNull()
		return
	}
	v.area = append(v.area, val...)
	v.offs = append(v.offs, uint32(len(v.area)))
	v.length++
}

func AppendStringList(v *Vector, vals []string, isNulls []bool) {
	for i, val := range vals {
		AppendBytes(v, []byte(val), len(isNulls) > 0 && isNulls[i])
	}
}

func (v *Vector) AppendNull() {
	nulls.Add(v.nsp, uint64(v.length))
	if v.typ.IsVarlen() {
		v.offs = append(v.offs, uint32(len(v.area)))
	} else if sz := v.typ.TypeSize(); sz > 0 {
		v.data = append(v.data, make([]byte, sz)...)
	}
	v.length++
}

// AppendValue appends val coerced to the vector's type.
func (v *Vector) AppendValue(val types.Value) error {
	if val.IsNull() {
		if !v.typ.Nullable && v.typ.Oid != types.T_any {
			return moerr.NewBadDataValueTypeNoCtx("Can't append NULL to column of non-nullable type %s", v.typ)
		}
		v.AppendNull()
		return nil
	}
	switch v.typ.Oid {
	case types.T_bool:
		b, err := val.AsBool()
		if err != nil {
			return err
		}
		AppendFixed(v, b, false)
	case types.T_int8, types.T_int16, types.T_int32, types.T_int64, types.T_interval,
		types.T_date, types.T_timestamp:
		i, err := val.AsInt64()
		if err != nil {
			return err
		}
		appendInt(v, i)
	case types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64, types.T_datetime:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		appendUint(v, u)
	case types.T_float32:
		f, err := val.AsFloat64()
		if err != nil {
			return err
		}
		AppendFixed(v, float32(f), false)
	case types.T_float64:
		f, err := val.AsFloat64()
		if err != nil {
			return err
		}
		AppendFixed(v, f, false)
	case types.T_varchar:
		b, err := val.AsBytes()
		if err != nil {
			return err
		}
		AppendBytes(v, b, false)
	default:
		return moerr.NewBadDataValueTypeNoCtx("Can't append %s value to column of type %s", val.Kind(), v.typ)
	}
	return nil
}

func appendInt(v *Vector, i int64) {
	switch v.typ.Oid {
	case types.T_int8:
		AppendFixed(v, int8(i), false)
	case types.T_int16:
		AppendFixed(v, int16(i), false)
	case types.T_int32:
		AppendFixed(v, int32(i), false)
	case types.T_date:
		AppendFixed(v, types.Date(i), false)
	case types.T_timestamp:
		AppendFixed(v, types.Timestamp(i), false)
	default:
		AppendFixed(v, i, false)
	}
}

func appendUint(v *Vector, u uint64) {
	switch v.typ.Oid {
	case types.T_uint8:
		AppendFixed(v, uint8(u), false)
	case types.T_uint16:
		AppendFixed(v, uint16(u), false)
	case types.T_uint32:
		AppendFixed(v, uint32(u), false)
	case types.T_datetime:
		AppendFixed(v, types.Datetime(u), false)
	default:
		AppendFixed(v, u, false)
	}
}

func (v *Vector) checkUnion(w *Vector) error {
	if v.IsConst() {
		return moerr.NewInternalErrorNoCtx("union into a const vector")
	}
	if v.typ.Oid != w.typ.Oid && w.typ.Oid != types.T_any {
		return moerr.NewInternalErrorNoCtx("union vector of type %s into %s", w.typ, v.typ)
	}
	return nil
}

// UnionOne appends row sel of w to v.
func (v *Vector) UnionOne(w *Vector, sel int) error {
	if err := v.checkUnion(w); err != nil {
		return err
	}
	v.unionOne(w, sel)
	return nil
}

func (v *Vector) unionOne(w *Vector, sel int) {
	if w.IsConst() {
		sel = 0
	}
	if nulls.Contains(w.nsp, uint64(sel)) || w.typ.Oid == types.T_any {
		v.AppendNull()
		return
	}
	if v.typ.IsVarlen() {
		AppendBytes(v, w.GetBytesAt(sel), false)
		return
	}
	sz := v.typ.TypeSize()
	v.data = append(v.data, w.data[sel*sz:(sel+1)*sz]...)
	v.length++
}

// UnionBatch appends cnt rows of w starting at offset, a constant is
// expanded.
func (v *Vector) UnionBatch(w *Vector, offset, cnt int) error {
	if err := v.checkUnion(w); err != nil {
		return err
	}
	if w.IsConst() || w.typ.Oid == types.T_any {
		v.PreExtend(cnt)
		for i := 0; i < cnt; i++ {
			v.unionOne(w, 0)
		}
		return nil
	}
	if offset+cnt > w.length {
		return moerr.NewInternalErrorNoCtx("union rows [%d, %d) of a vector of %d rows", offset, offset+cnt, w.length)
	}

	if nulls.Any(w.nsp) {
		for i := 0; i < cnt; i++ {
			if w.nsp.Contains(uint64(offset + i)) {
				nulls.Add(v.nsp, uint64(v.length+i))
			}
		}
	}
	if v.typ.IsVarlen() {
		base := v.offs[len(v.offs)-1]
		start := w.offs[offset]
		for i := 1; i <= cnt; i++ {
			v.offs = append(v.offs, base+w.offs[offset+i]-start)
		}
		v.area = append(v.area, w.area[start:w.offs[offset+cnt]]...)
	} else {
		sz := v.typ.TypeSize()
		v.data = append(v.data, w.data[offset*sz:(offset+cnt)*sz]...)
	}
	v.length += cnt
	return nil
}

// Dup returns a deep copy.
func (v *Vector) Dup() *Vector {
	return &Vector{
		class:  v.class,
		typ:    v.typ,
		nsp:    v.nsp.Clone(),
		data:   slices.Clone(v.data),
		offs:   slices.Clone(v.offs),
		area:   slices.Clone(v.area),
		length: v.length,
	}
}

// ToFlat materializes a constant, a flat vector is returned as is.
func (v *Vector) ToFlat() *Vector {
	if !v.IsConst() {
		return v
	}
	w := NewVec(v.typ)
	_ = w.UnionBatch(v, 0, v.length)
	return w
}

// ToConst returns a constant of length rows holding row of v.
func (v *Vector) ToConst(row, length int) *Vector {
	if v.IsConst() {
		w := v.Dup()
		w.length = length
		return w
	}
	w := NewVec(v.typ)
	w.unionOne(v, row)
	w.class = CONSTANT
	w.length = length
	return w
}

func (v *Vector) Free() {
	v.data = nil
	v.offs = nil
	v.area = nil
	v.nsp = &nulls.Nulls{}
	v.length = 0
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	if v.IsConst() {
		buf.WriteString("const(")
	}
	buf.WriteByte('[')
	n := v.length
	if v.IsConst() && n > 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(v.GetValue(i).String())
	}
	buf.WriteByte(']')
	if v.IsConst() {
		fmt.Fprintf(&buf, " x %d)", v.length)
	}
	return buf.String()
}
