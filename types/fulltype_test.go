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
)

func TestFullTypeStringPlainInt(t *testing.T) {
	ft := FullType{}
	assert.Equal(t, "int", ft.String())
}

func TestFullTypeStringNamedWithFlags(t *testing.T) {
	s := NewScope(nil, 0)
	def := NewScopeDef("Point", s, ScopeClass)
	ft := FullType{Def: def, Flags: FlagConst}
	assert.Equal(t, "const Point", ft.String())
}

func TestRefStackSimplePointer(t *testing.T) {
	rs := RefStack{
		Name: "p",
		Nodes: []RefNode{
			{Kind: RefPointer},
		},
	}
	assert.Equal(t, "*p", rs.declString())
}

func TestRefStackArray(t *testing.T) {
	rs := RefStack{
		Name: "a",
		Nodes: []RefNode{
			{Kind: RefArray, ArrayBound: ArrayUnspecified},
		},
	}
	assert.Equal(t, "a[]", rs.declString())
}

func TestRefStackPointerToArray(t *testing.T) {
	// int (*p)[10]: the pointer is grouped in parens around p, so it is
	// closest to the name (processed first); the array wraps the whole
	// parenthesized group, so it is outermost. ref_stack: [ARRAY[10], POINTER_TO].
	rs := RefStack{
		Name: "p",
		Nodes: []RefNode{
			{Kind: RefArray, ArrayBound: 10},
			{Kind: RefPointer},
		},
	}
	assert.Equal(t, "(*p)[10]", rs.declString())
}

func TestRefStackArrayOfPointers(t *testing.T) {
	// int *a[10]: no grouping parens are written, so `*` and `[10]` sit in
	// the same unnested declarator; `*` is read before the name, `[10]`
	// after it, giving ref_stack [POINTER_TO, ARRAY[10]] (POINTER_TO
	// outermost, ARRAY[10] closest to the name) and no parens on output.
	rs := RefStack{
		Name: "a",
		Nodes: []RefNode{
			{Kind: RefPointer},
			{Kind: RefArray, ArrayBound: 10},
		},
	}
	assert.Equal(t, "*a[10]", rs.declString())
}

func TestRefStackPointerToFunction(t *testing.T) {
	// T (*f)(int, char): ref_stack outermost-first is
	// [FUNCTION[int,char], POINTER_TO] — outermost node first.
	rs := RefStack{
		Name: "f",
		Nodes: []RefNode{
			{Kind: RefFunction, Params: []Param{{Type: FullType{}}, {Type: FullType{}}}},
			{Kind: RefPointer},
		},
	}
	assert.Equal(t, "(*f)(int, int)", rs.declString())
}

func TestRefStackConstPointer(t *testing.T) {
	rs := RefStack{
		Name: "p",
		Nodes: []RefNode{
			{Kind: RefPointer, PointerConst: true},
		},
	}
	assert.Equal(t, "*p const", rs.declString())
}

func TestRefStackFunctionVariadic(t *testing.T) {
	rs := RefStack{
		Name: "f",
		Nodes: []RefNode{
			{Kind: RefFunction, Params: []Param{{Type: FullType{}}}, Variadic: true},
		},
	}
	assert.Equal(t, "f(int, ...)", rs.declString())
}

func TestFullTypeStringAbstractDeclaratorNoTrailingSpace(t *testing.T) {
	ft := FullType{Flags: FlagConst}
	assert.Equal(t, "const int", ft.String())
}
