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

// Package declarator implements the declarator handler: the entry point
// that reads one full_type via package typeread, resolves the
// constructor/destructor/anonymous-field/qualified-redeclaration special
// cases, inserts the resulting definition into its scope, and processes the
// post-insert tail (initializers, bitfields, comma-separated declarator
// lists). It also implements the hypothetical/template instantiation glue
// and the class/union/enum scope-body handlers that the type reader leaves
// external (package typeread calls them but does not implement them; this
// package supplies one concrete, self-hosted implementation so the whole
// pipeline runs end to end).
package declarator

import (
	"fmt"

	"github.com/gocppdecl/cppdecl/declread"
	"github.com/gocppdecl/cppdecl/exprs"
	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/typeread"
	"github.com/gocppdecl/cppdecl/types"
)

// Context carries the two pieces of ambient state the original obtains by
// walking a definition_scope's `parent` chain (definition_scope doubles as
// both a scope and the definition that owns it, in the original's class
// hierarchy). This module's types.Scope, by contrast, carries no back-link
// to the *types.Definition that owns it (see DESIGN.md's types entry) — so
// rather than retrofitting that back-link, the caller that descends into a
// class/template body (HandleClass/HandleUnion, or a future HandleTemplate)
// threads the two facts through explicitly.
type Context struct {
	// Enclosing is the class/struct whose member list we're directly
	// inside, for constructor/destructor detection. Nil at namespace/global
	// scope, where neither is possible.
	Enclosing *types.Definition

	// Template is the nearest enclosing template, if any — the one a
	// dependent template access occurring in this declaration owes its
	// hypothetical to, mirroring handle_hypothetical_ast's walk up the
	// scope's parent chain for the nearest DEF_TEMPLATE ancestor. Nil
	// outside any template body.
	Template *types.Template
}

// Options configures a Handler.
type Options struct {
	Resolve    lexer.IdentResolver
	VaListType *types.Definition
	IntType    *types.Definition // the base type bitfields are legal on (a bitfield width on anything else is a "non-integer declaration" diagnostic)

	// Sink, if set, receives non-fatal warnings — "declaration without
	// name is meaningless outside of a class" is the one branch of the
	// handler that reports a diagnostic but does not fail the parse.
	// Errors are always returned as Go errors instead of routed through
	// Sink, matching typeread/declread's convention.
	Sink lexer.Sink

	// EvalExpr, if set, parses and evaluates one expression starting at
	// *tok (an initializer, a bitfield width, or a non-type template
	// argument), leaving *tok positioned just past it. When nil, the
	// expression's tokens are skipped (balanced on brackets/parens/braces) without
	// evaluation — the same non-erroring fallback declread.Options.
	// EvalArrayBound uses, for the same reason: package exprs's Parse/
	// Evaluate are bound to *lexer.MacroLexer, not the main *lexer.Lexer
	// token stream this package consumes (see DESIGN.md's declread entry).
	EvalExpr func(lx *lexer.Lexer, tok *lexer.Token) (exprs.Value, error)
}

// Handler implements the declarator handler and, via HandleClass/
// HandleUnion/HandleEnum, typeread.ScopeHandlers.
type Handler struct {
	Opts Options

	anonCount uint32 // the anonymous-field counter, threaded through the parse context instead of a process-wide global
}

// New constructs a Handler. The returned value is single-use per parse —
// parsing is single-threaded and non-reentrant — but may drive any number
// of Handle calls across that one parse.
func New(opts Options) *Handler { return &Handler{Opts: opts} }

func (h *Handler) readTypeOpts() typeread.Options {
	return typeread.Options{Resolve: h.Opts.Resolve, Handlers: h, VaListType: h.Opts.VaListType}
}

func (h *Handler) declreadOpts() declread.Options {
	return declread.Options{
		Resolve: h.Opts.Resolve,
		ReadType: func(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope) (types.FullType, error) {
			return typeread.ReadType(lx, tok, scope, h.readTypeOpts())
		},
	}
}

func (h *Handler) advance(lx *lexer.Lexer, tok *lexer.Token) {
	*tok = lx.GetTokenInScope(h.Opts.Resolve)
}

func (h *Handler) errf(at lexer.Cursor, format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{at}, args...)...)
}

func (h *Handler) warnf(at lexer.Cursor, format string, args ...any) {
	if h.Opts.Sink != nil {
		h.Opts.Sink.Warnf(at, format, args...)
	}
}

func (h *Handler) nextAnonName() string {
	name := fmt.Sprintf("<anonymousField%010d>", h.anonCount)
	h.anonCount++
	return name
}

// Handle reads one declaration starting at *tok, advancing *tok via lx, and
// returns the definition it resolves to (nil, nil when the type read is
// followed by no declarator name, e.g. a bare class definition —
// handle_declarators' final "else return" case). A first token that does
// not begin a type is an error.
func (h *Handler) Handle(lx *lexer.Lexer, scope *types.Scope, ctx Context, tok *lexer.Token, inherited types.TypeFlags) (*types.Definition, error) {
	dtor := tok.Type == lexer.TILDE
	if dtor {
		h.advance(lx, tok)
	}

	tp, err := typeread.ReadType(lx, tok, scope, h.readTypeOpts())
	if err != nil {
		return nil, err
	}
	if tp.Def == nil {
		return nil, h.errf(tok.Location, "Declaration does not give a valid type")
	}

	if dtor {
		isBareFunc := tp.Refs.Name == "" && tp.Def == ctx.Enclosing && tp.Flags == 0 &&
			len(tp.Refs.Nodes) == 1 && tp.Refs.Nodes[0].Kind == types.RefFunction
		if !isBareFunc {
			return nil, h.errf(tok.Location, "Junk destructor; remove tilde?")
		}
		tp.Refs.Name = "<destruct>"
	}

	return h.handleWithType(lx, scope, ctx, tok, tp, inherited)
}

// handleWithType is the re-entry point extraLoop's comma case uses:
// tp.Def/tp.Flags are fixed (shared by every declarator in a comma list),
// and a fresh tp.Refs has just been read for this particular name.
func (h *Handler) handleWithType(lx *lexer.Lexer, scope *types.Scope, ctx Context, tok *lexer.Token, tp types.FullType, inherited types.TypeFlags) (*types.Definition, error) {
	var res *types.Definition

	if tp.Refs.Name == "" {
		potentialCtor := ctx.Enclosing != nil && tp.Def == ctx.Enclosing
		switch {
		case potentialCtor && tp.Flags == 0 && len(tp.Refs.Nodes) == 1 && tp.Refs.Nodes[0].Kind == types.RefFunction:
			tp.Refs.Name = "<construct>"
			if tok.Type == lexer.COLON {
				for {
					h.advance(lx, tok)
					if tok.Type == lexer.SEMICOLON {
						return nil, h.errf(tok.Location, "Expected constructor body here after initializers.")
					}
					if tok.Type == lexer.LEFTBRACE {
						break
					}
				}
			}

		case tok.Type == lexer.COLON:
			if scope.Flags.Has(types.ScopeClass) {
				tp.Refs.Name = h.nextAnonName()
			} else {
				h.warnf(tok.Location, "Declaration without name is meaningless outside of a class")
				return nil, nil
			}

		case tok.Type == lexer.DEFINITION || tok.Type == lexer.DECLARATOR:
			d, err := h.readQualifiedName(lx, scope, ctx, tok)
			if err != nil {
				return nil, err
			}
			refs, extra, err := declread.ReadReferencers(lx, tok, scope, h.declreadOpts())
			if err != nil {
				return nil, err
			}
			tp.Refs.Nodes = append(tp.Refs.Nodes, refs.Nodes...)
			tp.Flags |= extra
			res = d
			return h.extraLoop(lx, scope, ctx, tok, tp, res, inherited)

		default:
			return nil, nil
		}
	}

	def, ierr := h.insert(scope, tp, inherited)
	if ierr != nil {
		return nil, h.errf(tok.Location, "%s", ierr)
	}
	res = def
	return h.extraLoop(lx, scope, ctx, tok, tp, res, inherited)
}

// readQualifiedName walks the `name(::name)*` chain a qualified
// redeclaration or template access spells out, resolving each segment
// inside the previous one's own scope (never the enclosing scope —
// types.Scope.Lookup deliberately never walks outward, mirroring the
// original's `read_next_token((definition_scope*)d)`). A `<` after a
// template definition instantiates-or-hypothesizes (resolveTemplateAccess)
// and continues the walk; a `::` after a hypothetical produces a further
// hypothetical member access (HandleHypotheticalAccess) rather than a scope
// lookup, since a hypothetical has no members of its own to look up yet.
func (h *Handler) readQualifiedName(lx *lexer.Lexer, scope *types.Scope, ctx Context, tok *lexer.Token) (*types.Definition, error) {
	d := defOf(tok)
	h.advance(lx, tok)

	for {
		for tok.Type == lexer.SCOPE {
			switch d.Kind {
			case types.DefScope:
				inner := func(name string) (lexer.Definable, bool) { return d.Members.Lookup(name) }
				*tok = lx.GetTokenInScope(inner)
				if tok.Type != lexer.DEFINITION && tok.Type != lexer.DECLARATOR {
					return nil, h.errf(tok.Location, "Expected qualified-id before %s; not a member of `%s'", tok.Type, d.Name)
				}
				d = defOf(tok)
				h.advance(lx, tok)

			case types.DefHypothetical:
				*tok = lx.GetTokenInScope(nil)
				if tok.Type != lexer.IDENTIFIER {
					return nil, h.errf(tok.Location, "Expected identifier after `::' on dependent type `%s'", d.Name)
				}
				d = HandleHypotheticalAccess(d.Hypothetical, tok.Content)
				h.advance(lx, tok)

			default:
				return nil, h.errf(tok.Location, "Cannot access `%s' as scope", d.Name)
			}
		}

		if tok.Type == lexer.LESSTHAN && d.Kind == types.DefTemplate {
			key, err := h.parseTemplateArgs(lx, scope, tok, d.Template)
			if err != nil {
				return nil, err
			}
			next, err := h.resolveTemplateAccess(scope, ctx, tok, d, key)
			if err != nil {
				return nil, err
			}
			d = next
			h.advance(lx, tok)
			continue
		}
		break
	}
	return d, nil
}

// parseTemplateArgs reads the comma-separated argument list between an
// already-consumed `<` and its matching `>`, dispatching each slot to a
// type or value reader per temp.Params[i].IsType — the parameter's own
// declared kind resolves the type/value ambiguity the original's generic
// parser otherwise has to guess at.
func (h *Handler) parseTemplateArgs(lx *lexer.Lexer, scope *types.Scope, tok *lexer.Token, temp *types.Template) (types.ArgKey, error) {
	h.advance(lx, tok) // consume '<'
	var key types.ArgKey
	i := 0
	for tok.Type != lexer.GREATERTHAN {
		if i >= len(temp.Params) {
			return nil, h.errf(tok.Location, "too many template arguments")
		}
		param := temp.Params[i]
		if param.IsType {
			ft, err := typeread.ReadType(lx, tok, scope, h.readTypeOpts())
			if err != nil {
				return nil, err
			}
			key = append(key, types.ArgNode{IsType: true, Type: ft})
		} else {
			val, err := h.evalOrSkip(lx, tok)
			if err != nil {
				return nil, err
			}
			key = append(key, types.ArgNode{Value: val})
		}
		i++
		if tok.Type == lexer.COMMA {
			h.advance(lx, tok)
			continue
		}
		break
	}
	if tok.Type != lexer.GREATERTHAN {
		return nil, h.errf(tok.Location, "expected '>' to close template argument list, found %s", tok.Type)
	}
	return key, nil
}

// resolveTemplateAccess resolves a template access such as `V<int>`: a
// specialization lookup is attempted first; failing that, a hypothetical
// stands in, since actually substituting temp's body with key's concrete
// arguments (full template instantiation) isn't implemented here. The
// hypothetical belongs to the template the current declaration is nested
// in (ctx.Template) — not to temp, the template being accessed — mirroring
// handle_hypothetical_ast: a dependent access only makes sense while
// reading the body of some other, still-uninstantiated template, and it is
// that enclosing template's future instantiation which will resolve it.
// Outside of any template body there is nothing to defer to, so this is a
// hard error ("Cannot infer type outside of template"), not a silent
// fallback.
func (h *Handler) resolveTemplateAccess(scope *types.Scope, ctx Context, tok *lexer.Token, temp *types.Definition, key types.ArgKey) (*types.Definition, error) {
	if def, ok := temp.Template.Specialization(key); ok {
		return def, nil
	}
	if ctx.Template == nil {
		return nil, h.errf(tok.Location, "Cannot infer type outside of template")
	}
	h_ := types.NewHypothetical(ctx.Template, scope, types.ParamRef{Param: temp.Name + key.String()})
	def := types.NewHypotheticalDef(scope, h_)
	scope.AppendDecl(def)
	return def, nil
}

// HandleHypotheticalAccess implements hypothetical member access (`h::id`):
// the result is itself a hypothetical, owned by the same scope as h, whose
// expression composes h's.
func HandleHypotheticalAccess(h *types.Hypothetical, member string) *types.Definition {
	child := h.AccessMember(member)
	def := types.NewHypotheticalDef(h.Scope, child)
	h.Scope.AppendDecl(def)
	return def
}

// insert installs tp.Refs.Name into scope, applying the declaration's
// name-collision outcome (new/tag-coexist/overload/redeclare/conflict) and
// returning the definition res should become.
func (h *Handler) insert(scope *types.Scope, tp types.FullType, inherited types.TypeFlags) (*types.Definition, error) {
	name := tp.Refs.Name
	isFunc := len(tp.Refs.Nodes) > 0 && tp.Refs.Nodes[0].Kind == types.RefFunction

	var def *types.Definition
	if isFunc {
		def = types.NewFunction(name, scope, tp, paramSig(tp.Refs.Nodes[0].Params))
	} else {
		def = types.NewTyped(name, scope, tp)
	}
	def.Flags |= inherited

	overload := func(existing, fresh *types.Definition) bool {
		sig := paramSig(fresh.Type.Refs.Nodes[0].Params)
		return existing.Overloads.Register(sig, fresh)
	}

	res, result := scope.Insert(def, overload)
	switch result {
	case types.InsertedNew, types.InsertedTagCoexist, types.InsertedOverload:
		// Insert echoes back the pre-existing "family" head on
		// InsertedOverload; the definition actually produced by this
		// declaration is the fresh one we just built. Point its Overloads
		// at the family's shared set — the overload callback above already
		// registered def's own signature there — rather than leaving def
		// attached to the single-entry set NewFunction gave it, which no
		// other overload of this name will ever see.
		if result == types.InsertedOverload {
			def.Overloads = res.Overloads
			return def, nil
		}
		return res, nil
	case types.InsertedRedeclare:
		return res, nil
	default: // InsertConflict
		if res.Kind == types.DefFunction && isFunc {
			// Both sides are functions: Insert only reaches InsertConflict
			// here when the overload callback itself failed to register a
			// fresh signature (a genuinely conflicting overload).
			return nil, fmt.Errorf("Attempt to redeclare `%s' failed due to conflicts", name)
		}
		return nil, fmt.Errorf("Redeclaration of `%s' as a different kind of symbol", name)
	}
}

// extraLoop is the post-insert tail shared by every successful
// declaration, whatever path produced res: an initializer, a bitfield
// width, a comma-separated next declarator, or a terminal token.
func (h *Handler) extraLoop(lx *lexer.Lexer, scope *types.Scope, ctx Context, tok *lexer.Token, tp types.FullType, res *types.Definition, inherited types.TypeFlags) (*types.Definition, error) {
	for {
		switch tok.Type {
		case lexer.OPERATOR:
			if tok.Content != "=" {
				return nil, h.errf(tok.Location, "Unexpected operator `%s' at this point", tok.Content)
			}
			h.advance(lx, tok)
			if _, err := h.evalOrSkip(lx, tok); err != nil {
				return nil, err
			}
			continue

		case lexer.LESSTHAN, lexer.GREATERTHAN:
			return nil, h.errf(tok.Location, "Unexpected operator `%s' at this point", tok.Type)

		case lexer.COMMA:
			h.advance(lx, tok)
			refs, extra, err := declread.ReadReferencers(lx, tok, scope, h.declreadOpts())
			if err != nil {
				return nil, err
			}
			next := tp
			next.Refs = refs
			next.Flags = tp.Flags | extra
			return h.handleWithType(lx, scope, ctx, tok, next, inherited)

		case lexer.COLON:
			if tp.Def != h.Opts.IntType {
				return nil, h.errf(tok.Location, "Attempt to assign bit count in non-integer declaration")
			}
			h.advance(lx, tok)
			val, err := h.evalOrSkip(lx, tok)
			if err != nil {
				return nil, err
			}
			if _, ok := val.AsInt(); h.Opts.EvalExpr != nil && !ok {
				return nil, h.errf(tok.Location, "Bit count is not an integer")
			}
			continue

		case lexer.STRINGLITERAL, lexer.CHARLITERAL, lexer.DECLITERAL, lexer.HEXLITERAL, lexer.OCTLITERAL:
			return nil, h.errf(tok.Location, "Expected initializer `=' here before literal.")

		default:
			return res, nil
		}
	}
}

// evalOrSkip runs Opts.EvalExpr when configured; otherwise it skips the
// expression's tokens (balanced on parens/brackets/braces), never erroring
// — the same fallback declread.Options.EvalArrayBound documents.
func (h *Handler) evalOrSkip(lx *lexer.Lexer, tok *lexer.Token) (exprs.Value, error) {
	if h.Opts.EvalExpr != nil {
		return h.Opts.EvalExpr(lx, tok)
	}
	depth := 0
	for {
		switch tok.Type {
		case lexer.LEFTPARENTH, lexer.LEFTBRACKET, lexer.LEFTBRACE:
			depth++
		case lexer.RIGHTPARENTH, lexer.RIGHTBRACKET, lexer.RIGHTBRACE:
			if depth == 0 {
				return exprs.Undefined(), nil
			}
			depth--
		case lexer.COMMA, lexer.SEMICOLON:
			if depth == 0 {
				return exprs.Undefined(), nil
			}
		case lexer.ENDOFCODE:
			return exprs.Undefined(), nil
		}
		h.advance(lx, tok)
	}
}

// paramSig builds the canonical overload-signature string for params,
// reusing ArgKey's encoding (types/argkey.go) rather than inventing a
// parallel one.
func paramSig(params []types.Param) string {
	key := make(types.ArgKey, len(params))
	for i, p := range params {
		key[i] = types.ArgNode{IsType: true, Type: p.Type}
	}
	return key.String()
}

// defOf extracts the *types.Definition a DEFINITION or DECLARATOR token
// resolves to: a DEFINITION token carries it directly (an IdentResolver
// always resolves to a *types.Definition in this module); a DECLARATOR
// token carries a *lexer.Entry whose own Def field does (mirrors
// typeread.entryDef, grounded the same way on builtins.Set's table rows).
func defOf(tok *lexer.Token) *types.Definition {
	if def, ok := tok.Def.(*types.Definition); ok {
		return def
	}
	if entry, ok := tok.Def.(*lexer.Entry); ok {
		def, _ := entry.Def.(*types.Definition)
		return def
	}
	return nil
}
