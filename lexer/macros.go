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

package lexer

// Macro is one #define entry. ArgCount < 0 marks an object-like macro; only
// object-like expansion is performed by the lexer itself, so function-like
// macros (ArgCount >= 0) are recorded but are reported as a diagnostic at
// the use site rather than expanded.
type Macro struct {
	Name        string
	ArgCount    int // -1 for object-like macros
	Replacement string
}

// MacroTable is the lexer's object-macro table, mutated by #define/#undef
// and consulted whenever an identifier is lexed.
type MacroTable map[string]*Macro

// Define installs or replaces an object-like macro.
func (t MacroTable) Define(name, replacement string) {
	t[name] = &Macro{Name: name, ArgCount: -1, Replacement: replacement}
}

// DefineFunctionLike installs a function-like macro definition. Expansion
// of function-like macros is not performed by this lexer; the definition
// is retained so `defined(NAME)` and #undef still see it.
func (t MacroTable) DefineFunctionLike(name string, argCount int, replacement string) {
	t[name] = &Macro{Name: name, ArgCount: argCount, Replacement: replacement}
}

// Undef removes a macro definition, if any.
func (t MacroTable) Undef(name string) {
	delete(t, name)
}

// Lookup returns the macro named name, if defined.
func (t MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t[name]
	return m, ok
}

// IsDefined reports whether name has a macro definition, powering the
// preprocessor's `defined(X)` operator.
func (t MacroTable) IsDefined(name string) bool {
	_, ok := t[name]
	return ok
}
