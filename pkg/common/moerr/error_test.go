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

package moerr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	ctx := context.TODO()
	tests := []struct {
		name string
		err  *Error
		code uint16
		msg  string
	}{
		{"empty data", NewEmptyData(ctx, "can't concat empty blocks"), ErrEmptyData, "empty data: can't concat empty blocks"},
		{"mismatch", NewDataStructMismatch(ctx, "schema %d", 1), ErrDataStructMismatch, "data struct mismatch: schema 1"},
		{"bad value", NewBadDataValueType(ctx, "Unsupported arithmetic (%v) %s (%v)", "Int8", "+", "String"), ErrBadDataValueType, "DataValue Error: Unsupported arithmetic (Int8) + (String)"},
		{"illegal", NewIllegalDataType(ctx, "Expected a numeric type, but got %s", "String"), ErrIllegalDataType, "illegal data type: Expected a numeric type, but got String"},
		{"unknown", NewUnknownFunction(ctx, "foo"), ErrUnknownFunction, "unsupported function name: foo"},
		{"arguments", NewNumberArgumentsNotMatch(ctx, "sign", "1", 2), ErrNumberArgumentsNotMatch, "function sign expects 1 arguments, but got 2"},
		{"div", NewDivByZero(ctx), ErrDivByZero, "division by zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, tt.err.ErrorCode())
			require.Equal(t, tt.msg, tt.err.Error())
			require.True(t, IsMoErrCode(tt.err, tt.code))
			require.False(t, tt.err.Succeeded())
		})
	}
}

func TestIsMoErrCode(t *testing.T) {
	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(errors.New("x"), ErrInternal))
	require.True(t, IsMoErrCode(GetOkExpectedEOB(), OkExpectedEOB))
	require.True(t, GetOkExpectedEOB().Succeeded())
}

func TestConvert(t *testing.T) {
	ctx := context.TODO()
	require.Nil(t, ConvertGoError(ctx, nil))

	e := NewInvalidInput(ctx, "x")
	require.Equal(t, error(e), ConvertGoError(ctx, e))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrInvalidInput))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, errors.New("boom")), ErrInternal))

	require.Equal(t, e, ConvertPanicError(ctx, e))
	require.True(t, IsMoErrCode(ConvertPanicError(ctx, "runtime"), ErrInternal))
	require.True(t, IsMoErrCode(DowncastError(errors.New("y")), ErrInternal))
}

func TestDisplay(t *testing.T) {
	e := NewInternalErrorNoCtx("worker %d", 3)
	require.Equal(t, "internal error: worker 3", e.Display())
	e.WithDetail("partition 7")
	require.Equal(t, "internal error: worker 3: partition 7", e.Display())
	require.Equal(t, "partition 7", e.Detail())
}

func TestUnknownCodePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	newError(context.TODO(), 12345)
}
