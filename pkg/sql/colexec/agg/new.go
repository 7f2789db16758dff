// Copyright 2022 Matrix Origin
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

package agg

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// New returns an empty aggregate called name over values of typ.
func New(ctx context.Context, name string, typ types.Type) (Agg, error) {
	op, ok := OpOf(name)
	if !ok {
		return nil, moerr.NewUnknownFunction(ctx, name)
	}
	a, err := newAgg(op, typ)
	if err != nil {
		return nil, moerr.NewIllegalDataType(ctx, "%s for aggregate function %s", typ, name)
	}
	return a, nil
}

// OpOf resolves an aggregate name, case insensitively.
func OpOf(name string) (int, bool) {
	name = strings.ToLower(name)
	for op, n := range Names {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// ReturnType is the output type of aggregate name over typ.
func ReturnType(ctx context.Context, name string, typ types.Type) (types.Type, error) {
	a, err := New(ctx, name, typ)
	if err != nil {
		return types.Type{}, err
	}
	defer a.Free()
	return a.OutputType(), nil
}

// UnmarshalAgg rebuilds an aggregate marshaled by Agg.MarshalBinary.
func UnmarshalAgg(data []byte) (Agg, error) {
	var ea EncodeAgg
	if err := json.Unmarshal(data, &ea); err != nil {
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	if ea.Op < 0 || ea.Op >= len(Names) {
		return nil, moerr.NewInternalErrorNoCtx("unknown aggregate %d", ea.Op)
	}
	a, err := newAgg(ea.Op, ea.InputType)
	if err != nil {
		return nil, err
	}
	if err = a.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return a, nil
}

func newAgg(op int, typ types.Type) (Agg, error) {
	var a Agg
	switch {
	case op == AggregateCount || op == AggregateStarCount:
		a = newCount(op, typ)
	case typ.Oid == types.T_any:
		// every input is NULL
		switch op {
		case AggregateApproxCountDistinct:
			a = newApproxCountDistinct(typ)
		default:
			a = newNullAgg(op, typ)
		}
	case op == AggregateSum:
		a = newSum(typ)
	case op == AggregateAvg:
		a = newAvg(typ)
	case op == AggregateMin || op == AggregateMax:
		a = newMinMax(op, typ)
	case op == AggregateAnyValue:
		a = newAnyValue(typ)
	case op == AggregateApproxCountDistinct:
		if typ.Oid != types.T_interval {
			a = newApproxCountDistinct(typ)
		}
	case op == AggregateStdDevPop:
		a = newStdDevPop(typ)
	}
	if a == nil {
		return nil, moerr.NewIllegalDataTypeNoCtx("%s for aggregate function %s", typ, Names[op])
	}
	return a, nil
}
