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

	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

const (
	// ScalarNull means of scalar NULL
	// which can meet each required type.
	// e.g.
	// if we input a SQL `select built_in_function(columnA, NULL);`, and columnA is int64 column.
	// the NULL argument is typed as ScalarNull when resolving the function.
	ScalarNull = types.T_any

	// VariadicArgs is the MaxArgs of a function without an upper bound.
	VariadicArgs = -1
)

// Function is a resolved scalar function, bound to the argument types it
// was created for.
type Function interface {
	Name() string

	// ReturnType checks the argument types and returns the result type.
	ReturnType(args []types.Type) (types.Type, error)

	// Eval computes length rows. Every argument has length rows and the
	// returned vector has exactly length rows.
	Eval(proc *process.Process, args []*vector.Vector, length int) (*vector.Vector, error)

	// Monotonicity combines the monotonicity of the arguments, only
	// asked when Features().HasMonotonicity is set.
	Monotonicity(args []Monotonicity) Monotonicity

	// PassThroughNull is false for functions that read null rows
	// themselves, like if or isnull.
	PassThroughNull() bool
}

// FunctionFeatures are the static properties the binder reads without
// creating the function.
type FunctionFeatures struct {
	Deterministic bool
	// MinArgs and MaxArgs bound the arity, MaxArgs may be VariadicArgs.
	MinArgs int
	MaxArgs int

	IsBoolFunc bool
	// NegativeFunction is the predicate computing NOT f, "" when absent.
	NegativeFunction string
	HasMonotonicity  bool
}

func (f FunctionFeatures) WithDeterministic() FunctionFeatures {
	f.Deterministic = true
	return f
}

func (f FunctionFeatures) WithNumArgs(n int) FunctionFeatures {
	f.MinArgs, f.MaxArgs = n, n
	return f
}

func (f FunctionFeatures) WithVariadicArgs(min, max int) FunctionFeatures {
	f.MinArgs, f.MaxArgs = min, max
	return f
}

func (f FunctionFeatures) WithBoolFunc() FunctionFeatures {
	f.IsBoolFunc = true
	return f
}

func (f FunctionFeatures) WithNegativeFunction(name string) FunctionFeatures {
	f.NegativeFunction = name
	return f
}

func (f FunctionFeatures) WithMonotonicity() FunctionFeatures {
	f.HasMonotonicity = true
	return f
}

// CheckArity reports whether n arguments fit the declared range.
func (f FunctionFeatures) CheckArity(n int) bool {
	if n < f.MinArgs {
		return false
	}
	return f.MaxArgs == VariadicArgs || n <= f.MaxArgs
}

func (f FunctionFeatures) arityString() string {
	switch {
	case f.MaxArgs == VariadicArgs:
		return strconv.Itoa(f.MinArgs) + " or more"
	case f.MinArgs == f.MaxArgs:
		return strconv.Itoa(f.MinArgs)
	}
	return strconv.Itoa(f.MinArgs) + " to " + strconv.Itoa(f.MaxArgs)
}

// Creator builds a function from the name it was called with.
type Creator func(name string) (Function, error)

// ArithmeticCreator also receives the argument types, an arithmetic
// kernel depends on both operand types.
type ArithmeticCreator func(name string, args []types.Type) (Function, error)

type Description struct {
	Creator  Creator
	Features FunctionFeatures
}

type ArithmeticDescription struct {
	Creator  ArithmeticCreator
	Features FunctionFeatures
}

// baseFunction carries the common no-op parts of Function.
type baseFunction struct {
	name string
}

func (f *baseFunction) Name() string {
	return f.name
}

func (f *baseFunction) Monotonicity(_ []Monotonicity) Monotonicity {
	return NonMonotonic()
}

func (f *baseFunction) PassThroughNull() bool {
	return true
}
