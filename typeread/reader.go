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

// Package typeread implements the type reader: given the
// current token, it consumes declarator-flag keywords (builtin primitives,
// qualifiers, storage-class specifiers) and, where one is present, a
// class/union/enum head or an existing type name, producing a
// types.FullType. It then hands off to package declread to consume any
// pointer/array/function declarator suffix.
package typeread

import (
	"fmt"

	"github.com/gocppdecl/cppdecl/declread"
	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/types"
)

// ScopeHandlers dispatches to the external scope-body handlers this
// package calls but does not implement itself: reading a
// class/union/enum head, and — when the head is followed by `{` — its
// member list. Each handler receives the head token and must leave *tok
// positioned at the first token following the construct (its name, if
// forward-declared, or its closing `}` and beyond).
type ScopeHandlers interface {
	HandleClass(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error)
	HandleUnion(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error)
	HandleEnum(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error)
}

// Options configures ReadType. Resolve and Handlers are threaded straight
// through to declread.ReadReferencers for nested parameter-list types: type
// reading and referencer reading are mutually recursive, since a function
// parameter is itself a full_type.
type Options struct {
	Resolve    lexer.IdentResolver
	Handlers   ScopeHandlers // nil is valid: only already-declared type names are then accepted as a class/union/enum head
	VaListType *types.Definition
}

// ReadType reads one full_type starting at *tok, advancing
// *tok via lx as it consumes declarator-flag keywords, at most one
// class/union/enum head, and the trailing referencer sequence.
func ReadType(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope, opts Options) (types.FullType, error) {
	var (
		inferredType    *types.Definition
		overridableType *types.Definition
		rdef            *types.Definition
		rflags          types.TypeFlags
		swif            types.TypeFlags
	)

	advance := func() { *tok = lx.GetTokenInScope(opts.Resolve) }

	switch tok.Type {
	case lexer.CLASS, lexer.STRUCT, lexer.UNION, lexer.ENUM:
		def, err := dispatchScope(lx, scope, tok, opts)
		if err != nil {
			return types.FullType{}, err
		}
		rdef = def
	case lexer.ELLIPSIS:
		rdef = opts.VaListType
		advance()
	case lexer.DECLARATOR:
		rdef = entryDef(tok)
		advance()
	case lexer.DEFINITION:
		rdef, _ = tok.Def.(*types.Definition)
		advance()
	case lexer.DECFLAG:
		applyHeadFlag(tok, &overridableType, &rflags, &swif)
		advance()
	default:
		return types.FullType{}, fmt.Errorf("type name expected here before %s", tok.Type)
	}

	for {
		for tok.Type == lexer.DECLARATOR || tok.Type == lexer.DECFLAG || tok.Type == lexer.DEFINITION {
			switch tok.Type {
			case lexer.DECLARATOR, lexer.DEFINITION:
				var def *types.Definition
				if tok.Type == lexer.DECLARATOR {
					def = entryDef(tok)
				} else {
					def, _ = tok.Def.(*types.Definition)
				}
				if rdef != nil {
					return types.FullType{}, fmt.Errorf("two types named in expression")
				}
				rdef = def
				rflags |= swif
				swif = 0
			case lexer.DECFLAG:
				entry, _ := tok.Def.(*lexer.Entry)
				if entry == nil {
					break
				}
				switch entry.Usage {
				case lexer.UFStandalone:
					if rdef != nil {
						return types.FullType{}, fmt.Errorf("two types named in expression")
					}
					overridableType, _ = entry.Def.(*types.Definition)
					rflags |= swif
					swif = types.TypeFlags(entry.FlagBit)
					if swif == types.FlagLong && rflags.Has(types.FlagLong) {
						// A second `long` turns `long` into `long long`.
						rflags &^= types.FlagLong
						swif = types.FlagLongLong
					}
				case lexer.UFStandaloneFlag:
					if def, ok := entry.Def.(*types.Definition); ok {
						inferredType = def
					}
					rflags |= types.TypeFlags(entry.FlagBit)
				}
			}
			advance()
		}

		if rdef == nil {
			switch tok.Type {
			case lexer.CLASS, lexer.STRUCT, lexer.UNION, lexer.ENUM:
				def, err := dispatchScope(lx, scope, tok, opts)
				if err != nil {
					return types.FullType{}, err
				}
				rdef = def
				continue
			}
		}
		break
	}

	// Apply any modifier read but never combined with a following
	// primitive (e.g. a bare "unsigned;"): the original C++ only folds
	// `swif` into `rflags` when a second declarator token follows in the
	// same loop iteration, which silently drops the modifier for a
	// standalone occurrence. Folding it here instead (unconditionally,
	// once) is a deliberate fix — see DESIGN.md's typeread entry.
	rflags |= swif

	if rdef == nil {
		rdef = overridableType
	}
	if rdef == nil {
		rdef = inferredType
	}

	ft := types.FullType{Def: rdef, Flags: rflags}
	if rdef != nil {
		refs, extra, err := declread.ReadReferencers(lx, tok, scope, declread.Options{
			Resolve: opts.Resolve,
			ReadType: func(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope) (types.FullType, error) {
				return ReadType(lx, tok, scope, opts)
			},
		})
		if err != nil {
			return types.FullType{}, err
		}
		ft.Refs = refs
		ft.Flags |= extra
	}
	return ft, nil
}

// entryDef extracts the bound type definition from a DECLARATOR token's
// *lexer.Entry payload.
func entryDef(tok *lexer.Token) *types.Definition {
	entry, ok := tok.Def.(*lexer.Entry)
	if !ok {
		return nil
	}
	def, _ := entry.Def.(*types.Definition)
	return def
}

// applyHeadFlag handles the first DECFLAG token of a type (the head
// dispatch, before the typeloop proper starts): a standalone-implying
// modifier becomes the overridable type plus a pending flag bit; a pure
// flag is folded straight into rflags.
func applyHeadFlag(tok *lexer.Token, overridableType **types.Definition, rflags, swif *types.TypeFlags) {
	entry, ok := tok.Def.(*lexer.Entry)
	if !ok {
		return
	}
	switch entry.Usage {
	case lexer.UFStandalone:
		*overridableType, _ = entry.Def.(*types.Definition)
		*swif = types.TypeFlags(entry.FlagBit)
	case lexer.UFStandaloneFlag:
		*rflags |= types.TypeFlags(entry.FlagBit)
	}
}

// dispatchScope routes a class/struct/union/enum head to its external
// handler. With no Handlers configured, only an already-declared type name
// may follow — there is nothing to parse a member list with.
func dispatchScope(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, opts Options) (*types.Definition, error) {
	if opts.Handlers == nil {
		*tok = lx.GetTokenInScope(opts.Resolve)
		if tok.Type != lexer.DEFINITION && tok.Type != lexer.DECLARATOR {
			return nil, fmt.Errorf("existing class name must follow class/struct token at this point")
		}
		if tok.Type == lexer.DECLARATOR {
			return entryDef(tok), nil
		}
		def, _ := tok.Def.(*types.Definition)
		return def, nil
	}
	switch tok.Type {
	case lexer.CLASS, lexer.STRUCT:
		return opts.Handlers.HandleClass(lx, scope, tok, 0)
	case lexer.UNION:
		return opts.Handlers.HandleUnion(lx, scope, tok, 0)
	case lexer.ENUM:
		return opts.Handlers.HandleEnum(lx, scope, tok, 0)
	default:
		return nil, fmt.Errorf("internal error: dispatchScope called on non-scope token %s", tok.Type)
	}
}
