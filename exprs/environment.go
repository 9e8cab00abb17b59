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
	"strconv"
	"strings"

	"github.com/gocppdecl/cppdecl/lexer"
)

// Environment supplies identifier values during Eval: macro bodies for
// `#if`/`#elif` conditions, and (via Resolve) scope lookups for constant
// expressions evaluated outside the preprocessor, e.g. an enumerator used
// as an array bound.
type Environment struct {
	Macros  lexer.MacroTable
	Resolve func(name string) (Value, bool)
}

// NewEnvironment builds an Environment backed by macros, with no scope
// resolver (suitable for #if/#elif expressions).
func NewEnvironment(macros lexer.MacroTable) *Environment {
	return &Environment{Macros: macros}
}

// Lookup resolves name to a Value. An identifier that is neither a resolved
// scope symbol nor a macro evaluates to 0, matching the C preprocessor's
// treatment of an undefined identifier in a #if condition; a macro whose
// replacement text is not itself an integer literal is treated as truthy
// (it exists to signal a feature flag, not to carry a numeric payload).
func (e *Environment) Lookup(name string) Value {
	if e.Resolve != nil {
		if v, ok := e.Resolve(name); ok {
			return v
		}
	}
	if e.Macros == nil {
		return IntValue(0)
	}
	m, ok := e.Macros.Lookup(name)
	if !ok {
		return IntValue(0)
	}
	if v, ok := parseIntLiteral(m.Replacement); ok {
		return IntValue(v)
	}
	return IntValue(1)
}

// IsDefined reports whether name has a macro definition, powering the
// `defined(X)` operator.
func (e *Environment) IsDefined(name string) bool {
	return e.Macros != nil && e.Macros.IsDefined(name)
}

// parseIntLiteral parses a decimal, octal or hex integer literal, ignoring
// trailing C integer suffixes (u/U/l/L).
func parseIntLiteral(tok string) (int64, bool) {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimRightFunc(tok, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
