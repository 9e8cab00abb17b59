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
	"strings"

	"github.com/gocppdecl/cppdecl/exprs"
)

// ArgNode is one slot of a template argument list: either a type argument
// (for a type template parameter) or a value argument (for a non-type
// parameter).
type ArgNode struct {
	IsType bool
	Type   FullType
	Value  exprs.Value
}

func (n ArgNode) String() string {
	if n.IsType {
		return n.Type.String()
	}
	return n.Value.String()
}

// ArgKey is a fixed-length (len == template's parameter count) sequence of
// template arguments. Go map keys must be comparable, and ArgNode holds a
// FullType (containing a *Definition) and an exprs.Value (containing a
// string) — neither directly comparable in a way that preserves semantic
// equality for map-keying purposes reliably across separately-built
// FullTypes naming the same definition — so Template.Specializations is
// keyed by ArgKey.String()'s canonical encoding rather than by ArgKey
// itself. Less/Compare are kept as first-class operations for callers that
// want a true total order (e.g. a stable diagnostic dump of a template's
// specializations).
type ArgKey []ArgNode

// String renders the canonical encoding used as the specialization map
// key, following the same round-trip convention Expr.String() uses
// (exprs/expr.go): the encoding is meant to be re-parseable back into an
// equivalent value, not just human-readable.
func (k ArgKey) String() string {
	parts := make([]string, len(k))
	for i, n := range k {
		parts[i] = n.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Compare implements a total order over ArgKeys of equal length: first by
// IsType (type arguments sort before value arguments, arbitrarily but
// consistently), then by each node's canonical string. Two ArgKeys of
// different length compare by length first — template specializations
// are always looked up with a key of the template's own parameter count,
// so this case is only reachable when comparing keys across different
// templates.
func (k ArgKey) Compare(other ArgKey) int {
	if len(k) != len(other) {
		if len(k) < len(other) {
			return -1
		}
		return 1
	}
	for i := range k {
		a, b := k[i], other[i]
		if a.IsType != b.IsType {
			if !a.IsType {
				return -1
			}
			return 1
		}
		as, bs := a.String(), b.String()
		if as != bs {
			if as < bs {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether k sorts before other under the total order Compare
// defines.
func (k ArgKey) Less(other ArgKey) bool { return k.Compare(other) < 0 }
