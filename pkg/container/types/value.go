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
	"bytes"
	"math"
	"strconv"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt64
	ValueUInt64
	ValueFloat64
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "Null"
	case ValueBool:
		return "Boolean"
	case ValueInt64:
		return "Int64"
	case ValueUInt64:
		return "UInt64"
	case ValueFloat64:
		return "Float64"
	case ValueString:
		return "String"
	}
	return "Unknown"
}

// Value is a single scalar used for constants, defaults and folding.
// Numbers are kept in their widest physical class.
type Value struct {
	kind ValueKind
	bits uint64
	str  []byte
}

func NullValue() Value { return Value{kind: ValueNull} }

func BoolValue(v bool) Value {
	if v {
		return Value{kind: ValueBool, bits: 1}
	}
	return Value{kind: ValueBool}
}

func Int64Value(v int64) Value { return Value{kind: ValueInt64, bits: uint64(v)} }

func UInt64Value(v uint64) Value { return Value{kind: ValueUInt64, bits: v} }

func Float64Value(v float64) Value { return Value{kind: ValueFloat64, bits: math.Float64bits(v)} }

func StringValue(v string) Value { return Value{kind: ValueString, str: []byte(v)} }

func BytesValue(v []byte) Value { return Value{kind: ValueString, str: v} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == ValueNull }

func (v Value) IsNumeric() bool {
	return v.kind == ValueInt64 || v.kind == ValueUInt64 || v.kind == ValueFloat64
}

func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case ValueBool:
		return v.bits != 0, nil
	case ValueInt64, ValueUInt64:
		return v.bits != 0, nil
	}
	return false, moerr.NewBadDataValueTypeNoCtx("Unexpected type:%s to get boolean", v.kind)
}

func (v Value) AsInt64() (int64, error) {
	switch v.kind {
	case ValueInt64:
		return int64(v.bits), nil
	case ValueUInt64:
		if v.bits > math.MaxInt64 {
			return 0, moerr.NewBadDataValueTypeNoCtx("UInt64 value %d overflows i64", v.bits)
		}
		return int64(v.bits), nil
	case ValueBool:
		return int64(v.bits), nil
	}
	return 0, moerr.NewBadDataValueTypeNoCtx("Unexpected type:%s to get i64 number", v.kind)
}

func (v Value) AsUint64() (uint64, error) {
	switch v.kind {
	case ValueUInt64, ValueBool:
		return v.bits, nil
	case ValueInt64:
		if int64(v.bits) < 0 {
			return 0, moerr.NewBadDataValueTypeNoCtx("Int64 value %d is negative, can't get u64 number", int64(v.bits))
		}
		return v.bits, nil
	}
	return 0, moerr.NewBadDataValueTypeNoCtx("Unexpected type:%s to get u64 number", v.kind)
}

func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case ValueInt64:
		return float64(int64(v.bits)), nil
	case ValueUInt64:
		return float64(v.bits), nil
	case ValueFloat64:
		return math.Float64frombits(v.bits), nil
	}
	return 0, moerr.NewBadDataValueTypeNoCtx("Unexpected type:%s to get f64 number", v.kind)
}

func (v Value) AsBytes() ([]byte, error) {
	if v.kind == ValueString {
		return v.str, nil
	}
	return nil, moerr.NewBadDataValueTypeNoCtx("Unexpected type:%s to get string", v.kind)
}

func (v Value) AsString() (string, error) {
	b, err := v.AsBytes()
	return string(b), err
}

// Equal compares kind and payload. Two nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == ValueString {
		return bytes.Equal(v.str, o.str)
	}
	return v.bits == o.bits
}

func (v Value) String() string {
	switch v.kind {
	case ValueNull:
		return "NULL"
	case ValueBool:
		return strconv.FormatBool(v.bits != 0)
	case ValueInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	case ValueUInt64:
		return strconv.FormatUint(v.bits, 10)
	case ValueFloat64:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case ValueString:
		return string(v.str)
	}
	return "?"
}
