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

// Package builtins assembles the builtin-declarators table that must exist
// before parsing begins: the primitive type names
// (int, char, bool, ...), the standalone-implying modifiers (unsigned,
// signed, long, short), and the pure qualifier/storage-class flags (const,
// volatile, static, ...), each bound to a types.Definition or a TypeFlags
// bit and installed into a lexer.Table the host hands to lexer.Options.
package builtins

import (
	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/types"
)

// primitive is one row of the table this package builds: a name, the
// definition it resolves to when it stands alone (IntType, CharType, ...),
// and how the type reader is meant to treat it when it appears alongside
// other declarators.
type primitive struct {
	name  string
	usage lexer.Usage
	def   *types.Definition // nil for a pure flag entry
	flag  types.TypeFlags   // the swap-in/accumulated flag bit, if any
}

// Set is the fully-built builtin environment: the root scope holding every
// primitive type definition, and the lexer.Table the host installs as
// lexer.Options.Builtins.
type Set struct {
	Root  *types.Scope
	Table lexer.Table

	// Named handles for the few primitives the readers special-case
	// directly rather than going through a table lookup: plain int (the
	// default base type when none is named) and __builtin_va_list.
	IntType    *types.Definition
	VaListType *types.Definition

	// Named handles for the two flag bits the referencer reader inspects
	// directly when deciding whether a pointer is cv-qualified.
	ConstFlag    types.TypeFlags
	VolatileFlag types.TypeFlags
}

// New builds the full builtin Set: a fresh root scope populated with one
// DefTyped definition per primitive type, plus the lexer.Table mapping
// every recognized name (types, standalone modifiers, and pure flags) to
// its Entry.
func New() *Set {
	root := types.NewScope(nil, 0)
	s := &Set{Root: root, Table: lexer.Table{}}

	for _, p := range primitiveRows(root) {
		entry := &lexer.Entry{Name: p.name, Usage: p.usage, FlagBit: uint64(p.flag)}
		if p.def != nil {
			entry.Def = p.def
		}
		s.Table[p.name] = entry
	}

	s.IntType, _ = root.Lookup("int")
	s.VaListType, _ = root.Lookup("__builtin_va_list")
	s.ConstFlag = types.FlagConst
	s.VolatileFlag = types.FlagVolatile
	return s
}

// primitiveRows builds every table row, registering each named type as a
// DefTyped definition in root along the way.
func primitiveRows(root *types.Scope) []primitive {
	named := func(name string) *types.Definition {
		def := types.NewTyped(name, root, types.FullType{})
		root.Insert(def, nil)
		return def
	}

	intType := named("int")

	rows := []primitive{
		// Concrete primitive types: naming one of these alone fixes the
		// declaration's base type outright.
		{name: "void", usage: lexer.UFPrimitive, def: named("void")},
		{name: "bool", usage: lexer.UFPrimitive, def: named("bool")},
		{name: "char", usage: lexer.UFPrimitive, def: named("char")},
		{name: "wchar_t", usage: lexer.UFPrimitive, def: named("wchar_t")},
		{name: "int", usage: lexer.UFPrimitive, def: intType},
		{name: "float", usage: lexer.UFPrimitive, def: named("float")},
		{name: "double", usage: lexer.UFPrimitive, def: named("double")},
		{name: "__builtin_va_list", usage: lexer.UFPrimitive, def: named("__builtin_va_list")},

		// Standalone-implying modifiers: combinable with a following
		// primitive (e.g. "unsigned int"), but imply a type on their own
		// (bare "unsigned" means "unsigned int"): the standalone usage
		// carries both the implied type and the flag bit. All four share
		// intType rather than registering their own "int" definition, so
		// the type reader sees the same *types.Definition whichever name
		// supplied it.
		{name: "unsigned", usage: lexer.UFStandalone, def: intType, flag: types.FlagUnsigned},
		{name: "signed", usage: lexer.UFStandalone, def: intType, flag: types.FlagSigned},
		{name: "long", usage: lexer.UFStandalone, def: intType, flag: types.FlagLong},
		{name: "short", usage: lexer.UFStandalone, def: intType, flag: types.FlagShort},

		// Pure qualifier/storage-class flags: never imply a type of their
		// own.
		{name: "const", usage: lexer.UFStandaloneFlag, flag: types.FlagConst},
		{name: "volatile", usage: lexer.UFStandaloneFlag, flag: types.FlagVolatile},
		{name: "static", usage: lexer.UFStandaloneFlag, flag: types.FlagStatic},
		{name: "extern", usage: lexer.UFStandaloneFlag, flag: types.FlagExtern},
		{name: "inline", usage: lexer.UFStandaloneFlag, flag: types.FlagInline},
		{name: "virtual", usage: lexer.UFStandaloneFlag, flag: types.FlagVirtual},
		{name: "mutable", usage: lexer.UFStandaloneFlag, flag: types.FlagMutable},
		{name: "explicit", usage: lexer.UFStandaloneFlag, flag: types.FlagExplicit},
		{name: "friend", usage: lexer.UFStandaloneFlag, flag: types.FlagFriend},
	}
	return rows
}
