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
	"fmt"
	"strings"
)

// FullType is the triple (def, flags, refs) that describes a declared
// entity's type: the base type definition (nil for inferred int),
// accumulated qualifier/storage flags, and the outside-in declarator stack.
type FullType struct {
	Def   *Definition // nil means inferred int
	Flags TypeFlags
	Refs  RefStack
}

// RefNodeKind tags one declarator node in a RefStack.
type RefNodeKind int

const (
	RefPointer RefNodeKind = iota
	RefReference
	RefArray
	RefFunction
)

// ArrayUnspecified is the sentinel array bound for `T a[]`, an array
// declared without a bound.
const ArrayUnspecified = -1

// Param is one parameter record in a RefFunction node: its type, and a
// per-parameter variadic flag. package declread never sets Variadic; a
// trailing `...` sets RefNode.Variadic instead.
type Param struct {
	Type     FullType
	Variadic bool
}

// RefNode is one declarator node read outside-in: a pointer, reference,
// array, or function layer wrapped around the base type.
type RefNode struct {
	Kind RefNodeKind

	// RefPointer only: cv-qualifiers on the pointer itself.
	PointerConst    bool
	PointerVolatile bool

	// RefArray only.
	ArrayBound int // ArrayUnspecified, or a non-negative bound

	// RefFunction only.
	Params   []Param
	Variadic bool // trailing `...` after named parameters
}

// RefStack is the ordered declarator-node sequence plus the declared name.
// Nodes[0] is outermost; type printing (declString) applies it last.
type RefStack struct {
	Name  string
	Nodes []RefNode
}

// String renders the C-style declaration this FullType/RefStack pair
// describes, e.g. "int *const p" or "int (*f)(int, char)".
func (t FullType) String() string {
	base := "int"
	if t.Def != nil {
		base = t.Def.Name
	}
	flags := t.Flags.String()
	if flags != "" {
		base = flags + " " + base
	}
	decl := t.Refs.declString()
	if decl == "" {
		return base
	}
	return base + " " + decl
}

// declString renders the declarator stack around Name using the standard
// C declarator-printing algorithm: process Nodes closest-to-name first
// (index len-1 down to 0, since Nodes[0] is outermost). A
// pointer/reference prefixes the expression built so far; an array or
// function suffixes it, but first parenthesizes the expression if its
// outermost operation is a not-yet-parenthesized pointer/reference —
// postfix `[]`/`()` bind tighter than prefix `*`/`&`, so `*f` followed by a
// call must print as `(*f)(...)`, not `*f(...)`.
func (r RefStack) declString() string {
	expr := r.Name
	prefixPending := false
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		n := r.Nodes[i]
		switch n.Kind {
		case RefPointer, RefReference:
			sigil := "*"
			if n.Kind == RefReference {
				sigil = "&"
			}
			cv := ""
			if n.PointerConst {
				cv += " const"
			}
			if n.PointerVolatile {
				cv += " volatile"
			}
			expr = sigil + expr + cv
			prefixPending = true
		case RefArray:
			if prefixPending {
				expr = "(" + expr + ")"
				prefixPending = false
			}
			bound := ""
			if n.ArrayBound != ArrayUnspecified {
				bound = fmt.Sprintf("%d", n.ArrayBound)
			}
			expr = expr + "[" + bound + "]"
		case RefFunction:
			if prefixPending {
				expr = "(" + expr + ")"
				prefixPending = false
			}
			expr = expr + "(" + paramsString(n.Params, n.Variadic) + ")"
		}
	}
	return expr
}

func paramsString(params []Param, variadic bool) string {
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		parts = append(parts, p.Type.String())
	}
	if variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}
