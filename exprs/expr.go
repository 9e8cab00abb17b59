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

package exprs

import (
	"fmt"
	"strings"
)

// Expr is an expression AST node: a `#if`/`#elif` condition, a constant
// array-bound/bitfield-width expression, or (opaquely, for the declarator
// handler to attach to an initializer) any general expression.
type Expr interface {
	fmt.Stringer
	Eval(env *Environment) (Value, error)
}

type (
	// Ident is a bare identifier: a macro name in #if context, or an
	// enumerator/constant name resolved through Environment.Resolve.
	Ident string

	ConstantInt    int64
	ConstantFloat  float64
	ConstantString string

	// Defined implements the `defined(X)` / `defined X` operator.
	Defined struct{ Name Ident }

	Not    struct{ X Expr }
	Negate struct{ X Expr } // unary -
	Plus   struct{ X Expr } // unary +
	BitNot struct{ X Expr } // ~

	And struct{ L, R Expr }
	Or  struct{ L, R Expr }

	// Compare is a relational/equality comparison: ==, !=, <, <=, >, >=.
	Compare struct {
		Left  Expr
		Op    string
		Right Expr
	}

	// Arith is a binary arithmetic or bitwise operator: + - * / % & | ^ << >>.
	Arith struct {
		Left  Expr
		Op    string
		Right Expr
	}

	// Ternary is the `cond ? then : else` operator.
	Ternary struct{ Cond, Then, Else Expr }

	// Call is a function-like macro invocation. Function-like macro
	// expansion is not performed; Eval treats the call as defined/true.
	Call struct {
		Name Ident
		Args []Expr
	}
)

func (e Ident) String() string          { return string(e) }
func (e ConstantInt) String() string    { return fmt.Sprintf("%d", int64(e)) }
func (e ConstantFloat) String() string  { return fmt.Sprintf("%g", float64(e)) }
func (e ConstantString) String() string { return fmt.Sprintf("%q", string(e)) }
func (e Defined) String() string        { return fmt.Sprintf("defined(%s)", e.Name) }
func (e Not) String() string            { return "!(" + e.X.String() + ")" }
func (e Negate) String() string         { return "-(" + e.X.String() + ")" }
func (e Plus) String() string           { return "+(" + e.X.String() + ")" }
func (e BitNot) String() string         { return "~(" + e.X.String() + ")" }
func (e And) String() string            { return e.L.String() + " && " + e.R.String() }
func (e Or) String() string             { return e.L.String() + " || " + e.R.String() }
func (e Compare) String() string        { return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right) }
func (e Arith) String() string          { return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right) }
func (e Ternary) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Cond, e.Then, e.Else)
}
func (e Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}
