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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeInsertNew(t *testing.T) {
	s := NewScope(nil, 0)
	def := NewTyped("x", s, FullType{})

	got, result := s.Insert(def, nil)

	assert.Equal(t, InsertedNew, result)
	assert.Same(t, def, got)
	found, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, def, found)
}

func TestScopeInsertTagCoexist(t *testing.T) {
	s := NewScope(nil, 0)
	tag := NewScopeDef("Point", s, ScopeClass)
	s.Insert(tag, nil)

	typed := NewTyped("Point", s, FullType{})
	got, result := s.Insert(typed, nil)

	assert.Equal(t, InsertedTagCoexist, result)
	assert.Same(t, typed, got)

	member, ok := s.Lookup("Point")
	require.True(t, ok)
	assert.Same(t, typed, member)

	taggedDef, ok := s.LookupTag("Point")
	require.True(t, ok)
	assert.Same(t, tag, taggedDef)
}

func TestScopeInsertOverload(t *testing.T) {
	s := NewScope(nil, 0)
	f1 := NewFunction("f", s, FullType{}, "<int>")
	s.Insert(f1, nil)

	f2 := NewFunction("f", s, FullType{}, "<double>")
	overload := func(existing, def *Definition) bool {
		return existing.Overloads.Register("<double>", def)
	}
	got, result := s.Insert(f2, overload)

	assert.Equal(t, InsertedOverload, result)
	assert.Same(t, f1, got, "existing overload-set owner stays the scope entry")

	_, ok := f1.Overloads.Lookup("<double>")
	assert.True(t, ok)
}

func TestScopeInsertOverloadConflict(t *testing.T) {
	s := NewScope(nil, 0)
	f1 := NewFunction("f", s, FullType{}, "<int>")
	s.Insert(f1, nil)

	f2 := NewFunction("f", s, FullType{}, "<int>")
	overload := func(existing, def *Definition) bool {
		return existing.Overloads.Register("<int>", def)
	}
	_, result := s.Insert(f2, overload)

	assert.Equal(t, InsertConflict, result)
}

func TestScopeInsertRedeclareTyped(t *testing.T) {
	s := NewScope(nil, 0)
	d1 := NewTyped("x", s, FullType{Flags: FlagConst})
	s.Insert(d1, nil)

	d2 := NewTyped("x", s, FullType{Flags: FlagConst})
	got, result := s.Insert(d2, nil)

	assert.Equal(t, InsertedRedeclare, result)
	assert.Same(t, d1, got)
}

func TestScopeInsertConflictKindMismatch(t *testing.T) {
	s := NewScope(nil, 0)
	fn := NewFunction("x", s, FullType{}, "<>")
	s.Insert(fn, nil)

	typed := NewTyped("x", s, FullType{})
	_, result := s.Insert(typed, nil)

	assert.Equal(t, InsertConflict, result)
}

func TestScopeAppendDeclDoesNotCreateLookupEntry(t *testing.T) {
	s := NewScope(nil, 0)
	tmpl := &Template{Specializations: map[string]*Definition{}}
	h := NewHypothetical(tmpl, s, ParamRef{Param: "T"})
	def := NewHypotheticalDef(s, h)

	s.AppendDecl(def)

	_, ok := s.Lookup(def.Name)
	assert.False(t, ok)
	require.Len(t, s.DecOrder, 1)
	assert.Same(t, def, s.DecOrder[0])
}
