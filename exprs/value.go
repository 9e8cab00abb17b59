// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exprs implements a constant/conditional expression parser and
// evaluator over a MacroLexer token stream, used for the preprocessor's
// `#if`/`#elif` conditions. The type/declarator readers do not parse
// through it; only its Value type appears there, as the result of the
// declarator handler's optional EvalExpr hook.
package exprs

import (
	"fmt"
	"strconv"
)

// Kind tags which field of a Value is meaningful: a tagged union of
// integer, float, string, or undefined.
type Kind int

const (
	KindUndefined Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "undefined"
	}
}

// Value is the result of evaluating an Expr.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

func IntValue(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func Undefined() Value           { return Value{Kind: KindUndefined} }
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// Truthy reports whether v counts as true in a boolean context, as needed
// to decide a `#if`/`#elif` branch.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		return v.Str != ""
	default:
		return false
	}
}

// AsInt coerces v to an integer, as required for array bounds and bitfield
// widths.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindFloat:
		return int64(v.Float), true
	default:
		return 0, false
	}
}

// String renders v for diagnostics and for Expr.String() round-tripping.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	default:
		return "<undefined>"
	}
}

func (v Value) GoString() string { return fmt.Sprintf("Value(%s: %s)", v.Kind, v.String()) }
