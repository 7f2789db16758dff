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
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// T is the stable type id every dispatch in the execution core switches on.
type T uint8

const (
	// T_any is the type of the NULL literal.
	T_any T = 0

	T_bool T = 10

	// numeric/integer family
	T_int8   T = 20
	T_int16  T = 21
	T_int32  T = 22
	T_int64  T = 23
	T_uint8  T = 25
	T_uint16 T = 26
	T_uint32 T = 27
	T_uint64 T = 28

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31

	// date family
	T_date      T = 50 // days since 1970-01-01, int32
	T_datetime  T = 51 // DateTime32, seconds since epoch, uint32
	T_timestamp T = 52 // DateTime64, microseconds since epoch, int64
	T_interval  T = 53 // count of Unit, int64

	// string family
	T_varchar T = 61
)

// IntervalKind is the unit of an interval value.
type IntervalKind uint8

const (
	IntervalSecond IntervalKind = iota
	IntervalMinute
	IntervalHour
	IntervalDay
	IntervalMonth
	IntervalYear
)

var intervalKindNames = [...]string{"Second", "Minute", "Hour", "Day", "Month", "Year"}

func (k IntervalKind) String() string {
	if int(k) < len(intervalKindNames) {
		return intervalKindNames[k]
	}
	return fmt.Sprintf("IntervalKind(%d)", uint8(k))
}

// Fixed lists the physical representations of fixed width types. Date,
// Datetime and Timestamp are covered through their underlying integers.
type Fixed interface {
	bool | constraints.Integer | constraints.Float
}

// Number is every physical type arithmetic and comparisons run on.
type Number interface {
	constraints.Integer | constraints.Float
}

// Type is a T plus the parameters that make two types distinct.
type Type struct {
	Oid T
	// Size is the physical width in bytes, 0 for variable width.
	Size int32
	// Precision of DateTime64, digits after the second.
	Precision int32
	Nullable  bool
	// Tz of DateTime32/DateTime64, empty means UTC.
	Tz   string
	Unit IntervalKind
}

var tNames = map[T]string{
	T_any:       "Null",
	T_bool:      "Boolean",
	T_int8:      "Int8",
	T_int16:     "Int16",
	T_int32:     "Int32",
	T_int64:     "Int64",
	T_uint8:     "UInt8",
	T_uint16:    "UInt16",
	T_uint32:    "UInt32",
	T_uint64:    "UInt64",
	T_float32:   "Float32",
	T_float64:   "Float64",
	T_date:      "Date",
	T_datetime:  "DateTime32",
	T_timestamp: "DateTime64",
	T_interval:  "Interval",
	T_varchar:   "String",
}

var tAliases = map[T][]string{
	T_bool:      {"Bool"},
	T_int8:      {"TinyInt"},
	T_int16:     {"SmallInt"},
	T_int32:     {"Int", "Integer"},
	T_int64:     {"BigInt"},
	T_float32:   {"Float"},
	T_float64:   {"Double"},
	T_datetime:  {"DateTime"},
	T_timestamp: {"Timestamp"},
	T_varchar:   {"Varchar", "Text"},
}

var nameToT map[string]T

func init() {
	nameToT = make(map[string]T, len(tNames)*2)
	for t, name := range tNames {
		nameToT[strings.ToLower(name)] = t
	}
	for t, names := range tAliases {
		for _, name := range names {
			nameToT[strings.ToLower(name)] = t
		}
	}
}

func (t T) String() string {
	if name, ok := tNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unexpected type: %d", uint8(t))
}

func (t T) OidString() string {
	switch t {
	case T_any:
		return "T_any"
	case T_bool:
		return "T_bool"
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_uint8:
		return "T_uint8"
	case T_uint16:
		return "T_uint16"
	case T_uint32:
		return "T_uint32"
	case T_uint64:
		return "T_uint64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_date:
		return "T_date"
	case T_datetime:
		return "T_datetime"
	case T_timestamp:
		return "T_timestamp"
	case T_interval:
		return "T_interval"
	case T_varchar:
		return "T_varchar"
	}
	return "unknown_type"
}

// FixedLength returns the physical width in bytes, -1 for variable width.
func (t T) FixedLength() int {
	switch t {
	case T_any:
		return 0
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32, T_date, T_datetime:
		return 4
	case T_int64, T_uint64, T_float64, T_timestamp, T_interval:
		return 8
	case T_varchar:
		return -1
	}
	panic(fmt.Sprintf("unknown type %d", t))
}

func (t T) ToType() Type {
	return New(t)
}

func New(oid T) Type {
	typ := Type{Oid: oid}
	if n := oid.FixedLength(); n > 0 {
		typ.Size = int32(n)
	}
	return typ
}

// NewDatetime returns a DateTime32 in tz.
func NewDatetime(tz string) Type {
	typ := New(T_datetime)
	typ.Tz = tz
	return typ
}

// NewTimestamp returns a DateTime64 with precision digits in tz.
func NewTimestamp(precision int32, tz string) Type {
	typ := New(T_timestamp)
	typ.Precision = precision
	typ.Tz = tz
	return typ
}

func NewInterval(unit IntervalKind) Type {
	typ := New(T_interval)
	typ.Unit = unit
	return typ
}

// TypeFromName resolves a name or alias, case-insensitively.
func TypeFromName(name string) (Type, bool) {
	t, ok := nameToT[strings.ToLower(name)]
	if !ok {
		return Type{}, false
	}
	return New(t), true
}

func (t Type) Name() string {
	switch t.Oid {
	case T_interval:
		return fmt.Sprintf("Interval(%s)", t.Unit)
	case T_timestamp:
		return fmt.Sprintf("DateTime64(%d)", t.Precision)
	}
	return t.Oid.String()
}

func (t Type) Aliases() []string {
	return tAliases[t.Oid]
}

func (t Type) String() string {
	if t.Nullable {
		return fmt.Sprintf("Nullable(%s)", t.Name())
	}
	return t.Name()
}

func (t Type) DescString() string {
	return t.String()
}

// Eq reports whether both the id and every parameter match.
func (t Type) Eq(b Type) bool {
	return t == b
}

// EqIgnoreNullable compares two types as if neither was nullable.
func (t Type) EqIgnoreNullable(b Type) bool {
	return RemoveNullable(t) == RemoveNullable(b)
}

func (t Type) IsFixedLen() bool {
	return t.Oid.FixedLength() >= 0
}

func (t Type) IsVarlen() bool {
	return t.Oid == T_varchar
}

func (t Type) TypeSize() int {
	return int(t.Size)
}

func WrapNullable(t Type) Type {
	t.Nullable = true
	return t
}

func RemoveNullable(t Type) Type {
	t.Nullable = false
	return t
}

func (t T) IsInteger() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64, T_uint8, T_uint16, T_uint32, T_uint64:
		return true
	}
	return false
}

func (t T) IsSignedInt() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64:
		return true
	}
	return false
}

func (t T) IsUnsignedInt() bool {
	switch t {
	case T_uint8, T_uint16, T_uint32, T_uint64:
		return true
	}
	return false
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

// IsNumeric reports the primitive numeric types, date types excluded.
func (t T) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

func (t T) IsDateRelate() bool {
	return t == T_date || t == T_datetime || t == T_timestamp
}

func (t T) IsInterval() bool {
	return t == T_interval
}

func (t T) IsNull() bool {
	return t == T_any
}

// DefaultValue returns the value a column of t is padded with.
func (t Type) DefaultValue() Value {
	if t.Nullable {
		return NullValue()
	}
	switch t.Oid {
	case T_any:
		return NullValue()
	case T_bool:
		return BoolValue(false)
	case T_int8, T_int16, T_int32, T_int64, T_date, T_timestamp, T_interval:
		return Int64Value(0)
	case T_uint8, T_uint16, T_uint32, T_uint64, T_datetime:
		return UInt64Value(0)
	case T_float32, T_float64:
		return Float64Value(0)
	case T_varchar:
		return StringValue("")
	}
	panic(fmt.Sprintf("unknown type %d", t.Oid))
}
