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

import "github.com/gocppdecl/cppdecl/exprs"

// TemplateParam is one entry of a template's parameter list: a name, whether
// it is a type parameter (`typename T`) or a non-type one (`int N`), and its
// default, if any. A type parameter's default lives in DefaultType; a
// non-type parameter's default lives in DefaultValue. At most one is set,
// selected by IsType.
type TemplateParam struct {
	Name         string
	IsType       bool
	DefaultType  *FullType
	DefaultValue *exprs.Value
}

// Template holds a parameterized definition: its parameter list, the
// memoized specializations produced by prior instantiations, and the
// hypotheticals that depend on (and must be re-resolved by) a future
// instantiation.
type Template struct {
	// Def is the templated entity itself — a class/function/typedef
	// definition whose body may reference Params by name.
	Def *Definition

	Params []TemplateParam

	// Specializations memoizes instantiate(args) results, keyed by
	// ArgKey.String() (see argkey.go's doc comment for why the string
	// encoding rather than ArgKey itself).
	Specializations map[string]*Definition

	// Dependents lists the hypotheticals created against this template
	// that remain unresolved; instantiating the template with concrete
	// arguments re-evaluates each one.
	Dependents []*Hypothetical
}

// Specialization looks up a previously memoized instantiation.
func (t *Template) Specialization(key ArgKey) (*Definition, bool) {
	d, ok := t.Specializations[key.String()]
	return d, ok
}

// Memoize records args -> def as a completed instantiation.
func (t *Template) Memoize(key ArgKey, def *Definition) {
	t.Specializations[key.String()] = def
}
