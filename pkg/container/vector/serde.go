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
	"strconv"
	gotime "time"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

const nullText = "NULL"

// Serializer renders values of one type as text.
type Serializer interface {
	SerializeValue(val types.Value) (string, error)
	SerializeColumn(vec *Vector) ([]string, error)
}

// Deserializer parses text into a column of one type.
type Deserializer interface {
	DeText(data []byte) error
	DeNull() error
	DeDefault() error
	Len() int
	FinishToColumn() *Vector
}

type textSerializer struct {
	typ types.Type
	loc *gotime.Location
}

func NewSerializer(typ types.Type) (Serializer, error) {
	loc, err := types.GetLocation(typ.Tz)
	if err != nil {
		return nil, err
	}
	return &textSerializer{typ: typ, loc: loc}, nil
}

func (s *textSerializer) SerializeValue(val types.Value) (string, error) {
	if val.IsNull() {
		return nullText, nil
	}
	switch s.typ.Oid {
	case types.T_bool:
		b, err := val.AsBool()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case types.T_float32:
		f, err := val.AsFloat64()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'g', -1, 32), nil
	case types.T_date:
		d, err := val.AsInt64()
		if err != nil {
			return "", err
		}
		return types.Date(d).String(), nil
	case types.T_datetime:
		dt, err := val.AsUint64()
		if err != nil {
			return "", err
		}
		return types.Datetime(dt).Format(s.loc), nil
	case types.T_timestamp:
		ts, err := val.AsInt64()
		if err != nil {
			return "", err
		}
		return types.Timestamp(ts).Format(s.loc, s.typ.Precision), nil
	case types.T_varchar:
		return val.AsString()
	}
	return val.String(), nil
}

func (s *textSerializer) SerializeColumn(vec *Vector) ([]string, error) {
	rs := make([]string, vec.Length())
	for i := range rs {
		str, err := s.SerializeValue(vec.GetValue(i))
		if err != nil {
			return nil, err
		}
		rs[i] = str
	}
	return rs, nil
}

type textDeserializer struct {
	typ     types.Type
	loc     *gotime.Location
	builder *Mutable
}

func NewDeserializer(typ types.Type, capacity int) (Deserializer, error) {
	loc, err := types.GetLocation(typ.Tz)
	if err != nil {
		return nil, err
	}
	return &textDeserializer{typ: typ, loc: loc, builder: NewMutable(typ, capacity)}, nil
}

func (d *textDeserializer) DeNull() error {
	return d.builder.AppendNull()
}

func (d *textDeserializer) DeDefault() error {
	return d.builder.AppendDefault()
}

func (d *textDeserializer) Len() int {
	return d.builder.Len()
}

func (d *textDeserializer) FinishToColumn() *Vector {
	return d.builder.Finish()
}

func (d *textDeserializer) DeText(data []byte) error {
	vec := d.builder.Vector()
	if d.typ.Nullable && bytes.Equal(data, []byte(nullText)) {
		vec.AppendNull()
		return nil
	}
	s := string(data)
	switch d.typ.Oid {
	case types.T_any:
		return d.cannotParse(s)
	case types.T_bool:
		b, err := types.ParseBool(s)
		if err != nil {
			return err
		}
		AppendFixed(vec, b, false)
	case types.T_int8, types.T_int16, types.T_int32, types.T_int64, types.T_interval:
		i, err := strconv.ParseInt(s, 10, 8*d.typ.Oid.FixedLength())
		if err != nil {
			return d.cannotParse(s)
		}
		appendInt(vec, i)
	case types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64:
		u, err := strconv.ParseUint(s, 10, 8*d.typ.Oid.FixedLength())
		if err != nil {
			return d.cannotParse(s)
		}
		appendUint(vec, u)
	case types.T_float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return d.cannotParse(s)
		}
		AppendFixed(vec, float32(f), false)
	case types.T_float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return d.cannotParse(s)
		}
		AppendFixed(vec, f, false)
	case types.T_date:
		v, err := types.ParseDate(s)
		if err != nil {
			return err
		}
		AppendFixed(vec, v, false)
	case types.T_datetime:
		v, err := types.ParseDatetime(s, d.loc)
		if err != nil {
			return err
		}
		AppendFixed(vec, v, false)
	case types.T_timestamp:
		v, err := types.ParseTimestamp(s, d.loc)
		if err != nil {
			return err
		}
		AppendFixed(vec, v, false)
	case types.T_varchar:
		AppendBytes(vec, data, false)
	}
	return nil
}

func (d *textDeserializer) cannotParse(s string) error {
	return moerr.NewInvalidInputNoCtx("Cannot parse value:'%s' to Data type %s", s, d.typ)
}
