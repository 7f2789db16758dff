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
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

const (
	ArrowExtensionName     = "ARROW:extension:name"
	ArrowExtensionMetadata = "ARROW:extension:metadata"
)

// ArrowType returns the physical wire type of t.
func (t Type) ArrowType() arrow.DataType {
	switch t.Oid {
	case T_any:
		return arrow.Null
	case T_bool:
		return arrow.FixedWidthTypes.Boolean
	case T_int8:
		return arrow.PrimitiveTypes.Int8
	case T_int16:
		return arrow.PrimitiveTypes.Int16
	case T_int32:
		return arrow.PrimitiveTypes.Int32
	case T_int64, T_timestamp, T_interval:
		return arrow.PrimitiveTypes.Int64
	case T_uint8:
		return arrow.PrimitiveTypes.Uint8
	case T_uint16:
		return arrow.PrimitiveTypes.Uint16
	case T_uint32, T_datetime:
		return arrow.PrimitiveTypes.Uint32
	case T_uint64:
		return arrow.PrimitiveTypes.Uint64
	case T_float32:
		return arrow.PrimitiveTypes.Float32
	case T_float64:
		return arrow.PrimitiveTypes.Float64
	case T_date:
		return arrow.FixedWidthTypes.Date32
	case T_varchar:
		return arrow.BinaryTypes.Binary
	}
	panic(moerr.NewInternalErrorNoCtx("unknown type %d", t.Oid))
}

// CustomArrowMeta returns the field metadata of types layered on a
// physical integer, nil for the others.
func (t Type) CustomArrowMeta() map[string]string {
	switch t.Oid {
	case T_datetime:
		return map[string]string{
			ArrowExtensionName:     "DateTime32",
			ArrowExtensionMetadata: t.tzOrUTC(),
		}
	case T_timestamp:
		return map[string]string{
			ArrowExtensionName:     "DateTime64",
			ArrowExtensionMetadata: t.tzOrUTC() + "," + strconv.Itoa(int(t.Precision)),
		}
	case T_interval:
		return map[string]string{
			ArrowExtensionName:     "Interval",
			ArrowExtensionMetadata: t.Unit.String(),
		}
	}
	return nil
}

func (t Type) tzOrUTC() string {
	if t.Tz == "" {
		return "UTC"
	}
	return t.Tz
}

// ToArrowField builds the field a column named name of type t is shipped as.
func (t Type) ToArrowField(name string) arrow.Field {
	field := arrow.Field{Name: name, Type: t.ArrowType(), Nullable: t.Nullable}
	if meta := t.CustomArrowMeta(); meta != nil {
		keys := make([]string, 0, len(meta))
		vals := make([]string, 0, len(meta))
		for _, k := range []string{ArrowExtensionName, ArrowExtensionMetadata} {
			keys = append(keys, k)
			vals = append(vals, meta[k])
		}
		field.Metadata = arrow.NewMetadata(keys, vals)
	}
	return field
}

// FromArrowField is the inverse of ToArrowField.
func FromArrowField(field arrow.Field) (Type, error) {
	var typ Type
	ext := ""
	extMeta := ""
	if idx := field.Metadata.FindKey(ArrowExtensionName); idx >= 0 {
		ext = field.Metadata.Values()[idx]
	}
	if idx := field.Metadata.FindKey(ArrowExtensionMetadata); idx >= 0 {
		extMeta = field.Metadata.Values()[idx]
	}

	switch field.Type.ID() {
	case arrow.NULL:
		typ = New(T_any)
	case arrow.BOOL:
		typ = New(T_bool)
	case arrow.INT8:
		typ = New(T_int8)
	case arrow.INT16:
		typ = New(T_int16)
	case arrow.INT32:
		typ = New(T_int32)
	case arrow.INT64:
		switch ext {
		case "DateTime64":
			typ = New(T_timestamp)
			typ.Tz, typ.Precision = parseTimestampMeta(extMeta)
		case "Interval":
			typ = New(T_interval)
			for i, name := range intervalKindNames {
				if name == extMeta {
					typ.Unit = IntervalKind(i)
				}
			}
		default:
			typ = New(T_int64)
		}
	case arrow.UINT8:
		typ = New(T_uint8)
	case arrow.UINT16:
		typ = New(T_uint16)
	case arrow.UINT32:
		if ext == "DateTime32" {
			typ = NewDatetime(extMeta)
			if typ.Tz == "UTC" {
				typ.Tz = ""
			}
		} else {
			typ = New(T_uint32)
		}
	case arrow.UINT64:
		typ = New(T_uint64)
	case arrow.FLOAT32:
		typ = New(T_float32)
	case arrow.FLOAT64:
		typ = New(T_float64)
	case arrow.DATE32:
		typ = New(T_date)
	case arrow.BINARY, arrow.STRING, arrow.LARGE_BINARY, arrow.LARGE_STRING:
		typ = New(T_varchar)
	default:
		return Type{}, moerr.NewIllegalDataTypeNoCtx("unsupported arrow type %s", field.Type)
	}
	typ.Nullable = field.Nullable
	return typ, nil
}

func parseTimestampMeta(meta string) (string, int32) {
	for i := len(meta) - 1; i >= 0; i-- {
		if meta[i] == ',' {
			p, _ := strconv.Atoi(meta[i+1:])
			tz := meta[:i]
			if tz == "UTC" {
				tz = ""
			}
			return tz, int32(p)
		}
	}
	return "", 0
}
