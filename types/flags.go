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

// Package types models the C++ scope/definition graph: named scopes holding
// ordered declarations, polymorphic definitions (typed, function,
// class/union/enum/namespace, template, hypothetical), and the
// full-type/ref-stack/arg-key triple that describes a declared entity's
// type.
package types

import "strings"

// ScopeFlag tags what kind of scope a Scope is: class, union, enum,
// namespace, template, or a transient template-parameter scope.
type ScopeFlag uint16

const (
	ScopeClass ScopeFlag = 1 << iota
	ScopeUnion
	ScopeEnum
	ScopeNamespace
	ScopeTemplate
	// ScopeTempScope marks a transient template-parameter scope, live only
	// while the declarator handler resolves a template's parameter list.
	ScopeTempScope
)

func (f ScopeFlag) Has(bit ScopeFlag) bool { return f&bit != 0 }

func (f ScopeFlag) String() string {
	var names []string
	for bit, name := range map[ScopeFlag]string{
		ScopeClass: "class", ScopeUnion: "union", ScopeEnum: "enum",
		ScopeNamespace: "namespace", ScopeTemplate: "template", ScopeTempScope: "tempscope",
	} {
		if f.Has(bit) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// TypeFlags is the qualifier/storage-class bitset carried by a FullType:
// const, volatile, static, extern, signed, unsigned, long (including the
// long-long combination), short, and the declaration-specifier keywords
// (inline, virtual, mutable, explicit, friend, typedef).
type TypeFlags uint32

const (
	FlagConst TypeFlags = 1 << iota
	FlagVolatile
	FlagStatic
	FlagExtern
	FlagSigned
	FlagUnsigned
	FlagLong
	FlagLongLong
	FlagShort
	FlagInline
	FlagVirtual
	FlagMutable
	FlagExplicit
	FlagFriend
	FlagTypedef
)

func (f TypeFlags) Has(bit TypeFlags) bool { return f&bit != 0 }

var flagNames = []struct {
	bit  TypeFlags
	name string
}{
	{FlagConst, "const"}, {FlagVolatile, "volatile"}, {FlagStatic, "static"},
	{FlagExtern, "extern"}, {FlagSigned, "signed"}, {FlagUnsigned, "unsigned"},
	{FlagLong, "long"}, {FlagLongLong, "long long"}, {FlagShort, "short"},
	{FlagInline, "inline"}, {FlagVirtual, "virtual"}, {FlagMutable, "mutable"},
	{FlagExplicit, "explicit"}, {FlagFriend, "friend"}, {FlagTypedef, "typedef"},
}

// String renders the set flags in declaration order, e.g. "const unsigned".
func (f TypeFlags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, " ")
}

// DefKind tags which variant of the polymorphic Definition union is live —
// a tagged variant rather than an interface-per-kind hierarchy, since most
// operations (Name, Parent, inserting into a scope) are common to all kinds
// and only a few fields vary.
type DefKind int

const (
	// DefTyped is a plain typed entity: a variable, a typedef target, a
	// class/function parameter, a non-type template parameter's binding.
	DefTyped DefKind = iota
	// DefFunction is a typed definition that additionally owns an overload
	// set keyed by parameter signature.
	DefFunction
	// DefScope is a class/union/enum/namespace: it owns a child Scope.
	DefScope
	// DefTemplate wraps a parameterized definition (Template.Def), holding
	// the parameter list, specialization map and dependents list.
	DefTemplate
	// DefHypothetical is an unresolved dependent type awaiting its
	// enclosing template's instantiation.
	DefHypothetical
)

func (k DefKind) String() string {
	switch k {
	case DefTyped:
		return "typed"
	case DefFunction:
		return "function"
	case DefScope:
		return "scope"
	case DefTemplate:
		return "template"
	case DefHypothetical:
		return "hypothetical"
	default:
		return "unknown"
	}
}

// InsertResult reports how Scope.Insert resolved a name against whatever
// (if anything) already occupied it.
type InsertResult int

const (
	// InsertedNew: the name was absent; def was installed fresh.
	InsertedNew InsertResult = iota
	// InsertedTagCoexist: def collided with an existing class/union/enum
	// tag; both now coexist (def lives in Members, the tag additionally
	// lives in CTags).
	InsertedTagCoexist
	// InsertedOverload: def collided with an existing function; the new
	// signature was registered as an additional overload.
	InsertedOverload
	// InsertedRedeclare: def collided with an existing typed definition;
	// the redeclaration is silently permitted, the existing definition is
	// kept.
	InsertedRedeclare
	// InsertConflict: def collided with something that cannot coexist,
	// overload, or redeclare (e.g. a typed name reused for a function).
	InsertConflict
)
