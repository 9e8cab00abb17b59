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

	"github.com/gocppdecl/cppdecl/lexer"
)

// Evaluate parses and evaluates one `#if`/`#elif` condition from mlex. Its
// signature matches lexer.CondEval's structurally, so it is assignable
// directly into lexer.Options.CondEval without lexer importing this
// package, avoiding an import cycle.
func Evaluate(mlex *lexer.MacroLexer, macros lexer.MacroTable) (bool, error) {
	expr, err := Parse(mlex)
	if err != nil {
		return false, fmt.Errorf("parsing #if condition: %w", err)
	}
	v, err := expr.Eval(NewEnvironment(macros))
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", expr, err)
	}
	return v.Truthy(), nil
}

// EvalConstant parses and evaluates a general constant expression (an array
// bound or bitfield width) against env, returning its integer value. It
// reads from a MacroLexer, so typeread/declread/declarator, which read the
// main Lexer's tokens, do not call it.
func EvalConstant(mlex *lexer.MacroLexer, env *Environment) (int64, error) {
	expr, err := Parse(mlex)
	if err != nil {
		return 0, fmt.Errorf("parsing constant expression: %w", err)
	}
	v, err := expr.Eval(env)
	if err != nil {
		return 0, fmt.Errorf("evaluating %s: %w", expr, err)
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("expression %s does not evaluate to an integer", expr)
	}
	return i, nil
}
