// Copyright 2021 - 2022 Matrix Origin
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

package function

import (
	"strconv"
	"strings"
	gotime "time"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

const secsPerDay = 24 * 60 * 60

var castTargets = map[string]types.T{
	"toboolean":    types.T_bool,
	"toint8":       types.T_int8,
	"toint16":      types.T_int16,
	"toint32":      types.T_int32,
	"toint64":      types.T_int64,
	"touint8":      types.T_uint8,
	"touint16":     types.T_uint16,
	"touint32":     types.T_uint32,
	"touint64":     types.T_uint64,
	"tofloat32":    types.T_float32,
	"tofloat64":    types.T_float64,
	"tostring":     types.T_varchar,
	"todate":       types.T_date,
	"todatetime":   types.T_datetime,
	"todatetime64": types.T_timestamp,
}

func registerCast(f *Factory) {
	for name, oid := range castTargets {
		target := oid.ToType()
		if oid == types.T_timestamp {
			target = types.NewTimestamp(3, "")
		}
		f.Register(name, Description{
			Creator: func(name string) (Function, error) {
				return &castFunction{baseFunction: baseFunction{name: name}, target: target}, nil
			},
			Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(1),
		})
	}
}

type castFunction struct {
	baseFunction
	target types.Type
}

func (f *castFunction) ReturnType(args []types.Type) (types.Type, error) {
	if !CanCast(args[0], f.target) {
		return types.Type{}, moerr.NewBadDataValueTypeNoCtx("Unsupported cast from %s to %s", args[0], f.target)
	}
	return f.target, nil
}

func (f *castFunction) Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error) {
	mustSameLength(args, length)
	vec, err := CastVector(proc, args[0], f.target)
	if err != nil {
		return nil, err
	}
	if vec == args[0] {
		vec = vec.Dup()
	}
	return vec, nil
}

// CanCast reports whether CastVector supports from -> to.
func CanCast(from, to types.Type) bool {
	if from.Oid == types.T_any {
		return true
	}
	if from.Oid.IsInterval() || to.Oid.IsInterval() {
		return from.EqIgnoreNullable(to)
	}
	return to.Oid != types.T_any
}

// CastVector converts vec to typ keeping its nulls, and a constant stays
// a constant. vec itself is returned when nothing needs converting.
func CastVector(proc *process.Process, vec *vector.Vector, typ types.Type) (*vector.Vector, error) {
	from := *vec.GetType()
	typ.Nullable = typ.Nullable || from.Nullable
	if from.Eq(typ) {
		return vec, nil
	}
	if from.Oid == types.T_any || vec.IsConstNull() {
		return vector.NewConstNull(types.WrapNullable(typ), vec.Length()), nil
	}
	if !CanCast(from, typ) {
		return nil, moerr.NewBadDataValueType(proc.Context(), "Unsupported cast from %s to %s", from, typ)
	}
	if from.Oid == typ.Oid {
		// only a parameter differs, like the timezone
		w := vec.Dup()
		w.SetType(typ)
		return w, nil
	}

	length := vec.Length()
	src := vec
	n := length
	if vec.IsConst() {
		src, n = vec.ToConst(0, 1), 1
	}
	result := newResult(typ, n)
	if err := castKernel(proc, src, result, typ, n); err != nil {
		result.Free()
		return nil, err
	}
	out := result.GetResultVector()
	out.SetType(typ)
	if vec.IsConst() {
		return out.ToConst(0, length), nil
	}
	return out, nil
}

func castKernel(proc *process.Process, src *vector.Vector, result vector.FunctionResultWrapper, to types.Type, n int) error {
	from := *src.GetType()
	params := []*vector.Vector{src}
	switch from.Oid {
	case types.T_bool:
		return castFromBool(proc, params, result, to, n)
	case types.T_int8:
		return castFromNumber[int8](proc, params, result, to, n)
	case types.T_int16:
		return castFromNumber[int16](proc, params, result, to, n)
	case types.T_int32:
		return castFromNumber[int32](proc, params, result, to, n)
	case types.T_int64:
		return castFromNumber[int64](proc, params, result, to, n)
	case types.T_uint8:
		return castFromNumber[uint8](proc, params, result, to, n)
	case types.T_uint16:
		return castFromNumber[uint16](proc, params, result, to, n)
	case types.T_uint32:
		return castFromNumber[uint32](proc, params, result, to, n)
	case types.T_uint64:
		return castFromNumber[uint64](proc, params, result, to, n)
	case types.T_float32:
		return castFromNumber[float32](proc, params, result, to, n)
	case types.T_float64:
		return castFromNumber[float64](proc, params, result, to, n)
	case types.T_date, types.T_datetime, types.T_timestamp:
		return castFromDate(proc, params, result, from, to, n)
	case types.T_varchar:
		return castFromStr(proc, params, result, to, n)
	}
	return moerr.NewBadDataValueType(proc.Context(), "Unsupported cast from %s to %s", from, to)
}

func convertNumber[F, T types.Number](v F) T {
	return T(v)
}

func castFromNumber[F types.Number](proc *process.Process, params []*vector.Vector, result vector.FunctionResultWrapper, to types.Type, n int) error {
	switch to.Oid {
	case types.T_bool:
		return opUnaryFixedToFixed[F, bool](params, result, proc, n, func(v F) bool { return v != 0 })
	case types.T_int8:
		return opUnaryFixedToFixed[F, int8](params, result, proc, n, convertNumber[F, int8])
	case types.T_int16:
		return opUnaryFixedToFixed[F, int16](params, result, proc, n, convertNumber[F, int16])
	case types.T_int32:
		return opUnaryFixedToFixed[F, int32](params, result, proc, n, convertNumber[F, int32])
	case types.T_int64:
		return opUnaryFixedToFixed[F, int64](params, result, proc, n, convertNumber[F, int64])
	case types.T_uint8:
		return opUnaryFixedToFixed[F, uint8](params, result, proc, n, convertNumber[F, uint8])
	case types.T_uint16:
		return opUnaryFixedToFixed[F, uint16](params, result, proc, n, convertNumber[F, uint16])
	case types.T_uint32:
		return opUnaryFixedToFixed[F, uint32](params, result, proc, n, convertNumber[F, uint32])
	case types.T_uint64:
		return opUnaryFixedToFixed[F, uint64](params, result, proc, n, convertNumber[F, uint64])
	case types.T_float32:
		return opUnaryFixedToFixed[F, float32](params, result, proc, n, convertNumber[F, float32])
	case types.T_float64:
		return opUnaryFixedToFixed[F, float64](params, result, proc, n, convertNumber[F, float64])
	case types.T_date:
		return opUnaryFixedToFixed[F, types.Date](params, result, proc, n, convertNumber[F, types.Date])
	case types.T_datetime:
		return opUnaryFixedToFixed[F, types.Datetime](params, result, proc, n, convertNumber[F, types.Datetime])
	case types.T_timestamp:
		return opUnaryFixedToFixed[F, types.Timestamp](params, result, proc, n, convertNumber[F, types.Timestamp])
	case types.T_varchar:
		from := params[0].GetType().Oid
		return opUnaryFixedToStr[F](params, result, proc, n, func(v F) []byte {
			return formatNumber(from, v)
		})
	}
	return moerr.NewBadDataValueType(proc.Context(), "Unsupported cast from %s to %s", *params[0].GetType(), to)
}

func formatNumber[F types.Number](oid types.T, v F) []byte {
	switch {
	case oid == types.T_float32:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 32)
	case oid == types.T_float64:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 64)
	case oid.IsUnsignedInt():
		return strconv.AppendUint(nil, uint64(v), 10)
	}
	return strconv.AppendInt(nil, int64(v), 10)
}

func boolToNumber[T types.Number](b bool) T {
	if b {
		return 1
	}
	return 0
}

func castFromBool(proc *process.Process, params []*vector.Vector, result vector.FunctionResultWrapper, to types.Type, n int) error {
	switch to.Oid {
	case types.T_int8:
		return opUnaryFixedToFixed[bool, int8](params, result, proc, n, boolToNumber[int8])
	case types.T_int16:
		return opUnaryFixedToFixed[bool, int16](params, result, proc, n, boolToNumber[int16])
	case types.T_int32:
		return opUnaryFixedToFixed[bool, int32](params, result, proc, n, boolToNumber[int32])
	case types.T_int64:
		return opUnaryFixedToFixed[bool, int64](params, result, proc, n, boolToNumber[int64])
	case types.T_uint8:
		return opUnaryFixedToFixed[bool, uint8](params, result, proc, n, boolToNumber[uint8])
	case types.T_uint16:
		return opUnaryFixedToFixed[bool, uint16](params, result, proc, n, boolToNumber[uint16])
	case types.T_uint32:
		return opUnaryFixedToFixed[bool, uint32](params, result, proc, n, boolToNumber[uint32])
	case types.T_uint64:
		return opUnaryFixedToFixed[bool, uint64](params, result, proc, n, boolToNumber[uint64])
	case types.T_float32:
		return opUnaryFixedToFixed[bool, float32](params, result, proc, n, boolToNumber[float32])
	case types.T_float64:
		return opUnaryFixedToFixed[bool, float64](params, result, proc, n, boolToNumber[float64])
	case types.T_varchar:
		return opUnaryFixedToStr[bool](params, result, proc, n, func(v bool) []byte {
			return strconv.AppendBool(nil, v)
		})
	}
	return moerr.NewBadDataValueType(proc.Context(), "Unsupported cast from %s to %s", *params[0].GetType(), to)
}

// castFromDate converts between the date types through their instant,
// other targets see the physical integer.
func castFromDate(proc *process.Process, params []*vector.Vector, result vector.FunctionResultWrapper, from, to types.Type, n int) error {
	fromLoc, err := types.GetLocation(from.Tz)
	if err != nil {
		return err
	}
	switch {
	case from.Oid == types.T_date && to.Oid == types.T_datetime:
		return opUnaryFixedToFixed[types.Date, types.Datetime](params, result, proc, n, func(v types.Date) types.Datetime {
			return types.Datetime(int64(v) * secsPerDay)
		})
	case from.Oid == types.T_date && to.Oid == types.T_timestamp:
		return opUnaryFixedToFixed[types.Date, types.Timestamp](params, result, proc, n, func(v types.Date) types.Timestamp {
			return types.Timestamp(int64(v) * secsPerDay * 1000000)
		})
	case from.Oid == types.T_datetime && to.Oid == types.T_date:
		return opUnaryFixedToFixed[types.Datetime, types.Date](params, result, proc, n, func(v types.Datetime) types.Date {
			return dateOf(v.ToTime(fromLoc))
		})
	case from.Oid == types.T_datetime && to.Oid == types.T_timestamp:
		return opUnaryFixedToFixed[types.Datetime, types.Timestamp](params, result, proc, n, func(v types.Datetime) types.Timestamp {
			return types.Timestamp(int64(v) * 1000000)
		})
	case from.Oid == types.T_timestamp && to.Oid == types.T_date:
		return opUnaryFixedToFixed[types.Timestamp, types.Date](params, result, proc, n, func(v types.Timestamp) types.Date {
			return dateOf(v.ToTime(fromLoc))
		})
	case from.Oid == types.T_timestamp && to.Oid == types.T_datetime:
		return opUnaryFixedToFixed[types.Timestamp, types.Datetime](params, result, proc, n, func(v types.Timestamp) types.Datetime {
			return types.Datetime(int64(v) / 1000000)
		})
	case to.Oid == types.T_varchar:
		switch from.Oid {
		case types.T_date:
			return opUnaryFixedToStr[types.Date](params, result, proc, n, func(v types.Date) []byte {
				return []byte(v.String())
			})
		case types.T_datetime:
			return opUnaryFixedToStr[types.Datetime](params, result, proc, n, func(v types.Datetime) []byte {
				return []byte(v.Format(fromLoc))
			})
		default:
			return opUnaryFixedToStr[types.Timestamp](params, result, proc, n, func(v types.Timestamp) []byte {
				return []byte(v.Format(fromLoc, from.Precision))
			})
		}
	}
	switch from.Oid {
	case types.T_date:
		return castFromNumber[types.Date](proc, params, result, to, n)
	case types.T_datetime:
		return castFromNumber[types.Datetime](proc, params, result, to, n)
	}
	return castFromNumber[types.Timestamp](proc, params, result, to, n)
}

func dateOf(t gotime.Time) types.Date {
	return types.DateFromCalendar(t.Year(), t.Month(), t.Day())
}

func cannotParse(proc *process.Process, s []byte, to types.Type) error {
	return moerr.NewInvalidInput(proc.Context(), "Cannot parse '%s' as %s", string(s), to)
}

func parseInt[T types.Number](proc *process.Process, to types.Type, bits int) func([]byte) (T, bool, error) {
	return func(s []byte) (T, bool, error) {
		v, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, bits)
		if err != nil {
			return 0, false, cannotParse(proc, s, to)
		}
		return T(v), false, nil
	}
}

func parseUint[T types.Number](proc *process.Process, to types.Type, bits int) func([]byte) (T, bool, error) {
	return func(s []byte) (T, bool, error) {
		v, err := strconv.ParseUint(strings.TrimSpace(string(s)), 10, bits)
		if err != nil {
			return 0, false, cannotParse(proc, s, to)
		}
		return T(v), false, nil
	}
}

func parseFloat[T types.Number](proc *process.Process, to types.Type, bits int) func([]byte) (T, bool, error) {
	return func(s []byte) (T, bool, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), bits)
		if err != nil {
			return 0, false, cannotParse(proc, s, to)
		}
		return T(v), false, nil
	}
}

func castFromStr(proc *process.Process, params []*vector.Vector, result vector.FunctionResultWrapper, to types.Type, n int) error {
	switch to.Oid {
	case types.T_bool:
		return opUnaryStrToFixedWithNull[bool](params, result, proc, n, func(s []byte) (bool, bool, error) {
			b, err := types.ParseBool(string(s))
			if err != nil {
				return false, false, cannotParse(proc, s, to)
			}
			return b, false, nil
		})
	case types.T_int8:
		return opUnaryStrToFixedWithNull[int8](params, result, proc, n, parseInt[int8](proc, to, 8))
	case types.T_int16:
		return opUnaryStrToFixedWithNull[int16](params, result, proc, n, parseInt[int16](proc, to, 16))
	case types.T_int32:
		return opUnaryStrToFixedWithNull[int32](params, result, proc, n, parseInt[int32](proc, to, 32))
	case types.T_int64:
		return opUnaryStrToFixedWithNull[int64](params, result, proc, n, parseInt[int64](proc, to, 64))
	case types.T_uint8:
		return opUnaryStrToFixedWithNull[uint8](params, result, proc, n, parseUint[uint8](proc, to, 8))
	case types.T_uint16:
		return opUnaryStrToFixedWithNull[uint16](params, result, proc, n, parseUint[uint16](proc, to, 16))
	case types.T_uint32:
		return opUnaryStrToFixedWithNull[uint32](params, result, proc, n, parseUint[uint32](proc, to, 32))
	case types.T_uint64:
		return opUnaryStrToFixedWithNull[uint64](params, result, proc, n, parseUint[uint64](proc, to, 64))
	case types.T_float32:
		return opUnaryStrToFixedWithNull[float32](params, result, proc, n, parseFloat[float32](proc, to, 32))
	case types.T_float64:
		return opUnaryStrToFixedWithNull[float64](params, result, proc, n, parseFloat[float64](proc, to, 64))
	case types.T_date:
		return opUnaryStrToFixedWithNull[types.Date](params, result, proc, n, func(s []byte) (types.Date, bool, error) {
			d, err := types.ParseDate(string(s))
			return d, false, err
		})
	case types.T_datetime:
		loc, err := types.GetLocation(to.Tz)
		if err != nil {
			return err
		}
		return opUnaryStrToFixedWithNull[types.Datetime](params, result, proc, n, func(s []byte) (types.Datetime, bool, error) {
			dt, err := types.ParseDatetime(string(s), loc)
			return dt, false, err
		})
	case types.T_timestamp:
		loc, err := types.GetLocation(to.Tz)
		if err != nil {
			return err
		}
		return opUnaryStrToFixedWithNull[types.Timestamp](params, result, proc, n, func(s []byte) (types.Timestamp, bool, error) {
			ts, err := types.ParseTimestamp(string(s), loc)
			return ts, false, err
		})
	case types.T_varchar:
		return opUnaryStrToStr(params, result, proc, n, func(s []byte) []byte { return s })
	}
	return moerr.NewBadDataValueType(proc.Context(), "Unsupported cast from %s to %s", *params[0].GetType(), to)
}
