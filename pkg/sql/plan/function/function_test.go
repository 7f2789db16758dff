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

package function

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/testutil"
)

// evalFunction resolves name for the argument vectors and evaluates it
// over length rows.
func evalFunction(t *testing.T, name string, length int, args ...*vector.Vector) (*vector.Vector, error) {
	typs := make([]types.Type, len(args))
	for i, arg := range args {
		typs[i] = *arg.GetType()
	}
	fn, typ, err := GetFunction(context.Background(), name, typs)
	if err != nil {
		return nil, err
	}
	vec, err := fn.Eval(testutil.NewProcess(), args, length)
	if err != nil {
		return nil, err
	}
	require.Equal(t, length, vec.Length())
	require.True(t, typ.Eq(*vec.GetType()), "declared %s, got %s", typ, vec.GetType())
	return vec, nil
}

func mustEval(t *testing.T, name string, args ...*vector.Vector) *vector.Vector {
	length := 1
	if len(args) > 0 {
		length = args[0].Length()
	}
	vec, err := evalFunction(t, name, length, args...)
	require.NoError(t, err)
	return vec
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	convey.Convey("unknown function", t, func() {
		_, _, err := GetFunction(ctx, "no_such_function", nil)
		convey.So(moerr.IsMoErrCode(err, moerr.ErrUnknownFunction), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldContainSubstring, "no_such_function")
	})

	convey.Convey("case insensitive", t, func() {
		for _, name := range []string{"sign", "SIGN", "Sign"} {
			_, typ, err := GetFunction(ctx, name, []types.Type{types.T_int32.ToType()})
			convey.So(err, convey.ShouldBeNil)
			convey.So(typ.Oid, convey.ShouldEqual, types.T_int8)
		}
		convey.So(Instance().Check("RunningDifference"), convey.ShouldBeTrue)
	})

	convey.Convey("arity", t, func() {
		_, _, err := GetFunction(ctx, "sign", []types.Type{types.T_int32.ToType(), types.T_int32.ToType()})
		convey.So(moerr.IsMoErrCode(err, moerr.ErrNumberArgumentsNotMatch), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldEqual, "function sign expects 1 arguments, but got 2")

		_, _, err = GetFunction(ctx, "and", []types.Type{types.T_bool.ToType()})
		convey.So(err.Error(), convey.ShouldEqual, "function and expects 2 or more arguments, but got 1")

		_, _, err = GetFunction(ctx, "+", []types.Type{types.T_int8.ToType()})
		convey.So(moerr.IsMoErrCode(err, moerr.ErrNumberArgumentsNotMatch), convey.ShouldBeTrue)
	})

	convey.Convey("features", t, func() {
		features, err := Instance().GetFeatures(ctx, "<")
		convey.So(err, convey.ShouldBeNil)
		convey.So(features.IsBoolFunc, convey.ShouldBeTrue)
		convey.So(features.NegativeFunction, convey.ShouldEqual, ">=")
		convey.So(features.Deterministic, convey.ShouldBeTrue)

		features, err = Instance().GetFeatures(ctx, "plus")
		convey.So(err, convey.ShouldBeNil)
		convey.So(features.HasMonotonicity, convey.ShouldBeTrue)

		features, err = Instance().GetFeatures(ctx, "generateUUIDv4")
		convey.So(err, convey.ShouldBeNil)
		convey.So(features.Deterministic, convey.ShouldBeFalse)

		_, err = Instance().GetFeatures(ctx, "nope")
		convey.So(moerr.IsMoErrCode(err, moerr.ErrUnknownFunction), convey.ShouldBeTrue)
	})

	convey.Convey("names", t, func() {
		names := Instance().FunctionNames()
		convey.So(slices.IsSorted(names), convey.ShouldBeTrue)
		for _, name := range []string{"+", "negate", "if", "isnull", "runningdifference", "inet_aton", "todate", "zerouuid"} {
			convey.So(slices.Contains(names, name), convey.ShouldBeTrue)
		}
	})
}

func TestFactoryRegister(t *testing.T) {
	f := NewFactory()
	f.Register("MyPi", Description{
		Creator: func(name string) (Function, error) {
			return &piFunction{baseFunction{name: name}}, nil
		},
		Features: FunctionFeatures{}.WithDeterministic().WithNumArgs(0),
	})
	require.True(t, f.Check("mypi"))
	fn, typ, err := f.Get(context.Background(), "MYPI", nil)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, typ.Oid)
	require.Equal(t, "MYPI", fn.Name())
	require.Equal(t, []string{"mypi"}, f.FunctionNames())

	_, _, err = f.Get(context.Background(), "sign", []types.Type{types.T_int8.ToType()})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnknownFunction))
}

func TestArityString(t *testing.T) {
	require.Equal(t, "2", FunctionFeatures{}.WithNumArgs(2).arityString())
	require.Equal(t, "1 to 3", FunctionFeatures{}.WithVariadicArgs(1, 3).arityString())
	require.Equal(t, "2 or more", FunctionFeatures{}.WithVariadicArgs(2, VariadicArgs).arityString())
	require.True(t, FunctionFeatures{}.WithVariadicArgs(2, VariadicArgs).CheckArity(10))
	require.False(t, FunctionFeatures{}.WithVariadicArgs(1, 3).CheckArity(4))
}

func TestAdapterNulls(t *testing.T) {
	convey.Convey("null literal", t, func() {
		vec := mustEval(t, "+", testutil.MakeInt64Vector([]int64{1, 2, 3}, nil), testutil.MakeScalarNull(3))
		convey.So(vec.IsConstNull(), convey.ShouldBeTrue)
		convey.So(vec.Length(), convey.ShouldEqual, 3)
	})

	convey.Convey("null rows pass through", t, func() {
		arg := testutil.MakeInt64Vector([]int64{1, 2, 3}, []uint64{1})
		vec := mustEval(t, "negate", arg)
		convey.So(vec.GetType().Nullable, convey.ShouldBeTrue)
		convey.So(testutil.CompareVectors(testutil.MakeInt64Vector([]int64{-1, 0, -3}, []uint64{1}), vec), convey.ShouldBeTrue)
		// the argument is untouched
		convey.So(arg.IsNull(1), convey.ShouldBeTrue)
		convey.So(arg.IsNull(0), convey.ShouldBeFalse)
	})

	convey.Convey("constant folding", t, func() {
		vec := mustEval(t, "*", testutil.MakeScalarInt64(6, 4), testutil.MakeScalarInt64(7, 4))
		convey.So(vec.IsConst(), convey.ShouldBeTrue)
		convey.So(vec.Length(), convey.ShouldEqual, 4)
		convey.So(vector.GetFixedAt[int64](vec, 3), convey.ShouldEqual, 42)
	})
}

func TestCast(t *testing.T) {
	proc := testutil.NewProcess()

	vec, err := CastVector(proc, testutil.MakeVarcharVector([]string{"1", " 22 ", "-3"}, nil), types.T_int16.ToType())
	require.NoError(t, err)
	require.Equal(t, []int16{1, 22, -3}, vector.MustFixedCol[int16](vec))

	_, err = CastVector(proc, testutil.MakeVarcharVector([]string{"x"}, nil), types.T_int16.ToType())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Contains(t, err.Error(), "Cannot parse 'x' as Int16")

	vec, err = CastVector(proc, testutil.MakeInt64Vector([]int64{0, 7}, nil), types.T_bool.ToType())
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, vector.MustFixedCol[bool](vec))

	vec, err = CastVector(proc, testutil.MakeFloat64Vector([]float64{1.5}, nil), types.T_varchar.ToType())
	require.NoError(t, err)
	require.Equal(t, "1.5", vec.GetStringAt(0))

	dates := testutil.NewDateVector(types.T_date.ToType(), []string{"1970-01-02"})
	vec, err = CastVector(proc, dates, types.NewDatetime(""))
	require.NoError(t, err)
	require.Equal(t, types.Datetime(86400), vector.GetFixedAt[types.Datetime](vec, 0))

	vec, err = CastVector(proc, vec, types.T_date.ToType())
	require.NoError(t, err)
	require.Equal(t, "1970-01-02", vector.GetFixedAt[types.Date](vec, 0).String())

	// nothing to convert
	src := testutil.MakeInt64Vector([]int64{1}, nil)
	vec, err = CastVector(proc, src, types.T_int64.ToType())
	require.NoError(t, err)
	require.Same(t, src, vec)

	// constants stay constant
	vec, err = CastVector(proc, testutil.MakeScalarInt64(5, 3), types.T_float64.ToType())
	require.NoError(t, err)
	require.True(t, vec.IsConst())
	require.Equal(t, 3, vec.Length())
	require.Equal(t, 5.0, vector.GetFixedAt[float64](vec, 2))

	_, err = CastVector(proc, src, types.NewInterval(types.IntervalDay))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadDataValueType))

	out := mustEval(t, "toString", testutil.MakeInt64Vector([]int64{-12}, nil))
	require.Equal(t, "-12", out.GetStringAt(0))
}
