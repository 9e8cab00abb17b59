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

package types

// Definition is the polymorphic abstract entity — a name, owning parent
// scope, and flag set — underlying every declared C++ thing: a variable,
// function, class/union/enum/namespace, template, or dependent
// (hypothetical) type. The common header is {Name, Parent, Flags}; the
// variant payload is selected by Kind, and only the field(s) matching Kind
// are meaningful.
type Definition struct {
	Name   string
	Parent *Scope // weak back-reference; nil only for the root scope's definition, if any
	Kind   DefKind
	Flags  TypeFlags

	// Type is populated for DefTyped and DefFunction.
	Type FullType

	// Overloads is populated for DefFunction: the set of signatures sharing
	// this name in Parent.
	Overloads *OverloadSet

	// ScopeFlags and Members are populated for DefScope (class/union/enum/
	// namespace): Members is the child scope this definition owns.
	ScopeFlags ScopeFlag
	Members    *Scope

	// Template is populated for DefTemplate.
	Template *Template

	// Hypothetical is populated for DefHypothetical.
	Hypothetical *Hypothetical
}

// NewTyped constructs a DefTyped definition: a plain variable, typedef
// target, or parameter binding.
func NewTyped(name string, parent *Scope, typ FullType) *Definition {
	return &Definition{Name: name, Parent: parent, Kind: DefTyped, Type: typ, Flags: typ.Flags}
}

// NewFunction constructs a DefFunction definition with a fresh overload
// set containing only sig.
func NewFunction(name string, parent *Scope, typ FullType, sig string) *Definition {
	d := &Definition{Name: name, Parent: parent, Kind: DefFunction, Type: typ, Flags: typ.Flags}
	d.Overloads = NewOverloadSet()
	d.Overloads.Register(sig, d)
	return d
}

// NewScopeDef constructs a DefScope definition (class/union/enum/
// namespace) and its owned child scope.
func NewScopeDef(name string, parent *Scope, flags ScopeFlag) *Definition {
	d := &Definition{Name: name, Parent: parent, Kind: DefScope, ScopeFlags: flags}
	d.Members = NewScope(parent, flags)
	return d
}

// NewTemplateDef wraps inner (the templated definition) in a DefTemplate
// definition.
func NewTemplateDef(name string, parent *Scope, params []TemplateParam, inner *Definition) *Definition {
	d := &Definition{Name: name, Parent: parent, Kind: DefTemplate}
	d.Template = &Template{Def: inner, Params: params, Specializations: make(map[string]*Definition)}
	return d
}

// NewHypotheticalDef wraps h in a DefHypothetical definition named after
// h's "(?=<expr>)" placeholder.
func NewHypotheticalDef(parent *Scope, h *Hypothetical) *Definition {
	return &Definition{Name: h.Name(), Parent: parent, Kind: DefHypothetical, Hypothetical: h}
}

// OverloadSet is a function definition's signature table, keyed by a
// canonical parameter-signature string — an ArgKey.String() built from the
// function's parameter types.
type OverloadSet struct {
	Overloads map[string]*Definition
	Order     []*Definition
}

func NewOverloadSet() *OverloadSet {
	return &OverloadSet{Overloads: make(map[string]*Definition)}
}

// Register installs def under sig if sig is not already taken. Reports
// whether it succeeded (false means a conflicting signature already
// exists — the overload-resolution failure case).
func (o *OverloadSet) Register(sig string, def *Definition) bool {
	if _, exists := o.Overloads[sig]; exists {
		return false
	}
	o.Overloads[sig] = def
	o.Order = append(o.Order, def)
	return true
}

// Lookup finds the overload registered under sig, if any.
func (o *OverloadSet) Lookup(sig string) (*Definition, bool) {
	d, ok := o.Overloads[sig]
	return d, ok
}
