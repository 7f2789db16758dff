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
	"context"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
)

// Factory resolves function names. Names are matched case-insensitively,
// the by-name registry is consulted before the arithmetic one.
type Factory struct {
	descs      map[string]Description
	arithmetic map[string]ArithmeticDescription
}

var (
	instance     *Factory
	instanceOnce sync.Once
)

// Instance returns the process wide factory holding every built-in
// function. It is filled on first use and read-only afterwards.
func Instance() *Factory {
	instanceOnce.Do(func() {
		f := NewFactory()
		registerArithmetic(f)
		registerComparison(f)
		registerLogic(f)
		registerConditional(f)
		registerCast(f)
		registerMath(f)
		registerOthers(f)
		instance = f
	})
	return instance
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{
		descs:      make(map[string]Description),
		arithmetic: make(map[string]ArithmeticDescription),
	}
}

func (f *Factory) Register(name string, desc Description) {
	f.descs[strings.ToLower(name)] = desc
}

func (f *Factory) RegisterArithmetic(name string, desc ArithmeticDescription) {
	f.arithmetic[strings.ToLower(name)] = desc
}

// Get resolves name for the argument types and returns the function ready
// to evaluate along with its result type.
func (f *Factory) Get(ctx context.Context, name string, args []types.Type) (Function, types.Type, error) {
	lower := strings.ToLower(name)

	var fn Function
	var err error
	if desc, ok := f.descs[lower]; ok {
		if !desc.Features.CheckArity(len(args)) {
			return nil, types.Type{}, moerr.NewNumberArgumentsNotMatch(ctx, name, desc.Features.arityString(), len(args))
		}
		fn, err = desc.Creator(name)
	} else if desc, ok := f.arithmetic[lower]; ok {
		if !desc.Features.CheckArity(len(args)) {
			return nil, types.Type{}, moerr.NewNumberArgumentsNotMatch(ctx, name, desc.Features.arityString(), len(args))
		}
		fn, err = desc.Creator(name, args)
	} else {
		return nil, types.Type{}, moerr.NewUnknownFunction(ctx, name)
	}
	if err != nil {
		return nil, types.Type{}, err
	}

	typ, err := adaptReturnType(fn, args)
	if err != nil {
		return nil, types.Type{}, err
	}
	return NewAdapter(fn, typ), typ, nil
}

func (f *Factory) GetFeatures(ctx context.Context, name string) (FunctionFeatures, error) {
	lower := strings.ToLower(name)
	if desc, ok := f.descs[lower]; ok {
		return desc.Features, nil
	}
	if desc, ok := f.arithmetic[lower]; ok {
		return desc.Features, nil
	}
	return FunctionFeatures{}, moerr.NewUnknownFunction(ctx, name)
}

func (f *Factory) Check(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := f.descs[lower]; ok {
		return true
	}
	_, ok := f.arithmetic[lower]
	return ok
}

// FunctionNames returns every registered name, sorted.
func (f *Factory) FunctionNames() []string {
	names := append(maps.Keys(f.descs), maps.Keys(f.arithmetic)...)
	slices.Sort(names)
	return slices.Compact(names)
}

// GetFunction resolves name through the built-in factory.
func GetFunction(ctx context.Context, name string, args []types.Type) (Function, types.Type, error) {
	return Instance().Get(ctx, name, args)
}
