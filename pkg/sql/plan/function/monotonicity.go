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

import "fmt"

// Monotonicity describes how an expression moves with one input column.
// Answering NonMonotonic is always safe, claiming monotonicity wrongly
// breaks range pruning.
type Monotonicity struct {
	IsMonotonic bool
	// IsPositive is true for increasing, false for decreasing.
	IsPositive bool
	IsConstant bool
	// Sign of a numeric constant, -1, 0 or 1, valid when HasSign is set.
	Sign    int
	HasSign bool
}

// Monotonic returns an increasing (positive) or decreasing fact.
func Monotonic(positive bool) Monotonicity {
	return Monotonicity{IsMonotonic: true, IsPositive: positive}
}

// Constant is the fact of an expression independent of the column.
func Constant() Monotonicity {
	return Monotonicity{IsMonotonic: true, IsPositive: true, IsConstant: true}
}

// ConstantWithSign is the fact of a numeric constant whose sign is known.
func ConstantWithSign(sign int) Monotonicity {
	m := Constant()
	m.Sign, m.HasSign = sign, true
	return m
}

func NonMonotonic() Monotonicity {
	return Monotonicity{}
}

func (m Monotonicity) String() string {
	switch {
	case m.IsConstant:
		return "constant"
	case !m.IsMonotonic:
		return "non-monotonic"
	case m.IsPositive:
		return "increasing"
	}
	return "decreasing"
}

func (m Monotonicity) negate() Monotonicity {
	if m.IsConstant {
		m.Sign = -m.Sign
		return m
	}
	if !m.IsMonotonic {
		return m
	}
	m.IsPositive = !m.IsPositive
	return m
}

// PlusMonotonicity combines f(x) + g(x).
func PlusMonotonicity(f, g Monotonicity) Monotonicity {
	if !f.IsMonotonic || !g.IsMonotonic {
		return NonMonotonic()
	}
	if f.IsConstant && g.IsConstant {
		switch {
		case !f.HasSign || !g.HasSign:
			return Constant()
		case f.Sign == 0 || f.Sign == g.Sign:
			return g
		case g.Sign == 0:
			return f
		}
		return Constant()
	}
	if f.IsConstant {
		return g
	}
	if g.IsConstant {
		return f
	}
	if f.IsPositive != g.IsPositive {
		return NonMonotonic()
	}
	return Monotonic(f.IsPositive)
}

// MinusMonotonicity combines f(x) - g(x), which is f(x) + (-g(x)).
func MinusMonotonicity(f, g Monotonicity) Monotonicity {
	return PlusMonotonicity(f, g.negate())
}

// MulMonotonicity combines f(x) * g(x). Scaling by a constant keeps the
// direction of the other side when the constant is positive and reverses
// it when negative. Two varying sides are not monotonic in general.
func MulMonotonicity(f, g Monotonicity) Monotonicity {
	if f.IsConstant && g.IsConstant {
		if f.HasSign && g.HasSign {
			return ConstantWithSign(f.Sign * g.Sign)
		}
		return Constant()
	}
	if g.IsConstant {
		f, g = g, f
	}
	if !f.IsConstant || !f.HasSign || !g.IsMonotonic {
		return NonMonotonic()
	}
	switch f.Sign {
	case 0:
		return ConstantWithSign(0)
	case 1:
		return g
	}
	return g.negate()
}

// DivMonotonicity combines f(x) / g(x). Only a constant divisor keeps
// the fact: c / g(x) turns at the zero of g, whose range is unknown.
func DivMonotonicity(f, g Monotonicity) Monotonicity {
	if !g.IsConstant || !g.HasSign || g.Sign == 0 {
		if f.IsConstant && g.IsConstant {
			return Constant()
		}
		return NonMonotonic()
	}
	if f.IsConstant {
		if f.HasSign {
			return ConstantWithSign(f.Sign * g.Sign)
		}
		return Constant()
	}
	if !f.IsMonotonic {
		return NonMonotonic()
	}
	if g.Sign > 0 {
		return f
	}
	return f.negate()
}

func monotonicityArgs(name string, args []Monotonicity, n int) {
	if len(args) != n {
		panic(fmt.Sprintf("%s expects %d monotonicity facts, got %d", name, n, len(args)))
	}
}
