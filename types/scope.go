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

// Scope is a named container holding an ordered declaration list and a
// name→definition mapping. Parent is a weak back-reference — Scope never
// owns its parent, only its own Members/DecOrder/CTags.
type Scope struct {
	Flags  ScopeFlag
	Parent *Scope

	// Members maps a name to its definition: Members[d.Name] == d and
	// d.Parent == this scope, for every d.
	Members map[string]*Definition
	// DecOrder preserves insertion order for traversal and diagnostics; it
	// also holds hypotheticals, which are not named entries in Members but
	// are owned by their enclosing scope's declaration-order list.
	DecOrder []*Definition
	// CTags is the C-style tag namespace cross-index: a class/union/enum
	// name is reachable here even after a typed definition reuses the same
	// identifier in Members — the tag and the typed name coexist.
	CTags map[string]*Definition
}

// NewScope allocates an empty scope with the given flags and parent. parent
// is nil only for the root scope.
func NewScope(parent *Scope, flags ScopeFlag) *Scope {
	return &Scope{
		Flags:    flags,
		Parent:   parent,
		Members:  make(map[string]*Definition),
		CTags:    make(map[string]*Definition),
		DecOrder: nil,
	}
}

// Lookup searches this scope's Members only (no parent walk — name
// resolution across enclosing scopes, `::`-qualified lookup, and using-
// declarations are the declarator handler's concern, not the scope's).
func (s *Scope) Lookup(name string) (*Definition, bool) {
	d, ok := s.Members[name]
	return d, ok
}

// LookupTag searches the C-style tag namespace cross-index.
func (s *Scope) LookupTag(name string) (*Definition, bool) {
	d, ok := s.CTags[name]
	return d, ok
}

// AppendDecl records def in the declaration-order list without touching
// Members/CTags — used for hypotheticals, which are owned by a scope's
// declaration order but are not named lookup targets.
func (s *Scope) AppendDecl(def *Definition) {
	s.DecOrder = append(s.DecOrder, def)
}

// Insert attempts to install def under def.Name, applying the collision
// rules below (new/tag-coexist/overload/redeclare/conflict). overload, when
// non-nil, is invoked only when the
// collision is between two functions; it should attempt to register def's
// signature on existing's OverloadSet and report whether it succeeded.
func (s *Scope) Insert(def *Definition, overload func(existing, def *Definition) bool) (*Definition, InsertResult) {
	existing, collided := s.Members[def.Name]
	if !collided {
		s.Members[def.Name] = def
		s.DecOrder = append(s.DecOrder, def)
		if def.Kind == DefScope {
			s.CTags[def.Name] = def
		}
		return def, InsertedNew
	}

	switch {
	case existing.Kind == DefScope:
		// A class/union/enum tag coexists with a typed name reusing it.
		s.CTags[def.Name] = existing
		s.Members[def.Name] = def
		s.DecOrder = append(s.DecOrder, def)
		return def, InsertedTagCoexist

	case existing.Kind == DefFunction && def.Kind == DefFunction:
		if overload != nil && overload(existing, def) {
			return existing, InsertedOverload
		}
		return existing, InsertConflict

	case existing.Kind != DefTyped:
		return existing, InsertConflict

	default:
		// Silent redeclaration of a typed entity.
		return existing, InsertedRedeclare
	}
}
