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

package declarator

import (
	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/types"
)

// HandleClass implements typeread.ScopeHandlers — the type reader calls
// this but does not implement it itself; this is the one concrete
// implementation this module supplies. class and struct share a scope kind
// here: the default-member-access distinction between them is access-
// control semantics, which this module's Definition carries no field for,
// so it is not modeled.
func (h *Handler) HandleClass(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error) {
	return h.handleScopeHead(lx, scope, tok, types.ScopeClass, "class")
}

// HandleUnion implements typeread.ScopeHandlers.
func (h *Handler) HandleUnion(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error) {
	return h.handleScopeHead(lx, scope, tok, types.ScopeUnion, "union")
}

// handleScopeHead reads a class/struct/union head — `class/struct/union
// IDENT? ( '{' member-list '}' )?` — and its member list, if any. Each
// member is itself read via Handle, recursively: Handle treats a top-level
// declaration and a class member identically; only the Context.Enclosing
// it's given differs.
func (h *Handler) handleScopeHead(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, flag types.ScopeFlag, label string) (*types.Definition, error) {
	h.advance(lx, tok) // consume class/struct/union

	name := ""
	if tok.Type == lexer.IDENTIFIER {
		name = tok.Content
		h.advance(lx, tok)
	}

	var def *types.Definition
	if name != "" {
		if existing, ok := scope.Lookup(name); ok && existing.Kind == types.DefScope {
			def = existing // reopening a forward-declared (or previously bodied) tag
		}
	}
	if def == nil {
		def = types.NewScopeDef(name, scope, flag)
		if name != "" {
			scope.Insert(def, nil)
		} else {
			scope.AppendDecl(def)
		}
	}

	if tok.Type == lexer.LEFTBRACE {
		h.advance(lx, tok)
		if err := h.parseMemberList(lx, def, tok, label); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// parseMemberList reads member declarations inside an already-consumed `{`
// up to and including the matching `}`, tracking (but not storing —
// accessibility isn't part of the data model) public/private/protected
// section markers.
func (h *Handler) parseMemberList(lx *lexer.Lexer, owner *types.Definition, tok *lexer.Token, label string) error {
	for {
		switch tok.Type {
		case lexer.RIGHTBRACE:
			h.advance(lx, tok)
			return nil
		case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED:
			h.advance(lx, tok)
			if tok.Type == lexer.COLON {
				h.advance(lx, tok)
			}
		case lexer.SEMICOLON:
			h.advance(lx, tok)
		case lexer.ENDOFCODE:
			return h.errf(tok.Location, "unexpected end of input inside %s body", label)
		default:
			if _, err := h.Handle(lx, owner.Members, Context{Enclosing: owner}, tok, 0); err != nil {
				return err
			}
			// Handle's post-insert tail stops at the terminating token
			// without consuming it; the loop's RIGHTBRACE/SEMICOLON cases
			// above pick up from there.
		}
	}
}

// HandleEnum implements typeread.ScopeHandlers. Enumerators are a distinct
// grammar from ordinary member declarators — a comma-separated
// `IDENT ('=' expr)?` list — so it is read directly rather than through
// Handle.
func (h *Handler) HandleEnum(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error) {
	h.advance(lx, tok) // consume enum

	name := ""
	if tok.Type == lexer.IDENTIFIER {
		name = tok.Content
		h.advance(lx, tok)
	}

	var def *types.Definition
	if name != "" {
		if existing, ok := scope.Lookup(name); ok && existing.Kind == types.DefScope {
			def = existing
		}
	}
	if def == nil {
		def = types.NewScopeDef(name, scope, types.ScopeEnum)
		if name != "" {
			scope.Insert(def, nil)
		} else {
			scope.AppendDecl(def)
		}
	}

	if tok.Type != lexer.LEFTBRACE {
		return def, nil
	}
	h.advance(lx, tok)

	for tok.Type != lexer.RIGHTBRACE {
		if tok.Type != lexer.IDENTIFIER {
			return nil, h.errf(tok.Location, "expected enumerator name, found %s", tok.Type)
		}
		enumerator := types.NewTyped(tok.Content, def.Members, types.FullType{Def: def})
		def.Members.Insert(enumerator, nil)
		h.advance(lx, tok)

		if tok.Type == lexer.OPERATOR && tok.Content == "=" {
			h.advance(lx, tok)
			if _, err := h.evalOrSkip(lx, tok); err != nil {
				return nil, err
			}
		}
		if tok.Type == lexer.COMMA {
			h.advance(lx, tok)
			continue
		}
		break
	}
	if tok.Type != lexer.RIGHTBRACE {
		return nil, h.errf(tok.Location, "expected '}' to close enum body, found %s", tok.Type)
	}
	h.advance(lx, tok)
	return def, nil
}
