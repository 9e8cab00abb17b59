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

// Package declread implements the referencer reader: the
// declarator grammar following a type specifier — pointer/reference
// prefixes, the declared name (or an `operator` name, or an empty abstract
// core), and array/function postfixes, including the grouping-paren nested
// case and recursive parameter-list types.
package declread

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/types"
)

// Options configures ReadReferencers. ReadType is a callback into
// typeread.ReadType, threaded through rather than imported directly so
// typeread and declread can call each other without an import cycle
// (typeread.ReadType calls ReadReferencers for the trailing declarator;
// ReadReferencers calls back into ReadType for each function parameter).
type Options struct {
	Resolve lexer.IdentResolver
	ReadType func(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope) (types.FullType, error)

	// EvalArrayBound, if set, evaluates every non-empty array-bound
	// expression (literal or not) starting at *tok, leaving *tok
	// positioned at the closing `]`. When nil, only a single literal token is recognized
	// as a bound; any other expression yields ArrayUnspecified.
	EvalArrayBound func(lx *lexer.Lexer, tok *lexer.Token) (int, error)
}

// ReadReferencers parses the declarator grammar starting at *tok (already
// positioned at the first prefix/core/postfix token by the type reader),
// advancing *tok via lx until a token outside the grammar is reached. It
// returns the ref_stack plus any cv-qualifier bits that had no preceding
// pointer/reference node to attach to and so belong on the base type
// instead.
func ReadReferencers(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope, opts Options) (types.RefStack, types.TypeFlags, error) {
	var (
		refs    []types.RefNode // prefix nodes (*, &), encounter order
		postfix []types.RefNode // suffix nodes ([], ()), encounter order
		extra   types.TypeFlags
		name    string

		hasGrouping bool
		groupedName string
		groupedRefs []types.RefNode

		rhs bool
	)

	advance := func() { *tok = lx.GetTokenInScope(opts.Resolve) }

loop:
	for {
		switch tok.Type {
		case lexer.OPERATOR:
			switch tok.Content {
			case "*":
				node := types.RefNode{Kind: types.RefPointer}
				advance()
				consumeCV(lx, tok, opts, &node)
				refs = append(refs, node)
				continue
			case "&", "&&":
				// Rvalue references (&&) are not distinguished from lvalue
				// references in the data model, which only has a single
				// reference ref-node kind; fold both into it.
				node := types.RefNode{Kind: types.RefReference}
				advance()
				consumeCV(lx, tok, opts, &node)
				refs = append(refs, node)
				continue
			default:
				break loop
			}

		case lexer.DECFLAG:
			// A cv qualifier with no preceding pointer/reference node in
			// this chain: attaches to the base type's qualifiers.
			if entry, ok := tok.Def.(*lexer.Entry); ok {
				extra |= types.TypeFlags(entry.FlagBit)
			}
			advance()
			continue

		case lexer.LEFTBRACKET:
			advance()
			bound := types.ArrayUnspecified
			if tok.Type != lexer.RIGHTBRACKET {
				n, err := readArrayBound(lx, tok, opts)
				if err != nil {
					return types.RefStack{}, 0, err
				}
				bound = n
			}
			if tok.Type != lexer.RIGHTBRACKET {
				return types.RefStack{}, 0, fmt.Errorf("expected ']' to close array declarator, found %s", tok.Type)
			}
			advance()
			postfix = append(postfix, types.RefNode{Kind: types.RefArray, ArrayBound: bound})
			rhs = true
			continue

		case lexer.LEFTPARENTH:
			if !rhs {
				advance() // consume '(': *tok is now the lookahead token
				if isParamListStart(tok) {
					node, trailing, done, err := readFunctionPostfix(lx, tok, scope, opts, false)
					if err != nil {
						return types.RefStack{}, 0, err
					}
					postfix = append(postfix, node)
					extra |= trailing
					rhs = true
					if done {
						break loop
					}
					continue
				}
				// Nested grouped declarator: *tok already positions its
				// first token.
				nested, nestedExtra, err := ReadReferencers(lx, tok, scope, opts)
				if err != nil {
					return types.RefStack{}, 0, err
				}
				extra |= nestedExtra
				if tok.Type != lexer.RIGHTPARENTH {
					return types.RefStack{}, 0, fmt.Errorf("expected ')' to close grouped declarator, found %s", tok.Type)
				}
				advance()
				hasGrouping = true
				groupedName = nested.Name
				groupedRefs = nested.Nodes
				rhs = true
				continue
			}
			advance()
			node, trailing, done, err := readFunctionPostfix(lx, tok, scope, opts, hasGrouping)
			if err != nil {
				return types.RefStack{}, 0, err
			}
			postfix = append(postfix, node)
			extra |= trailing
			rhs = true
			if done {
				break loop
			}
			continue

		case lexer.OPERATORKW:
			advance()
			switch {
			case tok.Type == lexer.LEFTBRACKET:
				advance()
				if tok.Type != lexer.RIGHTBRACKET {
					return types.RefStack{}, 0, fmt.Errorf("expected ']' after 'operator[', found %s", tok.Type)
				}
				advance()
				name = "operator[]"
			case tok.Type == lexer.LEFTPARENTH:
				advance()
				if tok.Type != lexer.RIGHTPARENTH {
					return types.RefStack{}, 0, fmt.Errorf("expected ')' after 'operator(', found %s", tok.Type)
				}
				advance()
				name = "operator()"
			case tok.Type == lexer.OPERATOR:
				name = "operator" + tok.Content
				advance()
			default:
				return types.RefStack{}, 0, fmt.Errorf("operator token expected after 'operator', found %s", tok.Type)
			}
			rhs = true
			continue

		case lexer.IDENTIFIER:
			name = tok.Content
			advance()
			rhs = true
			continue

		default:
			break loop
		}
	}

	// Prefixes are read outermost first; postfixes innermost first (in
	// `a[2][3]`, `[3]` is the outer layer), so postfix is appended reversed.
	nodes := append([]types.RefNode{}, refs...)
	for i := len(postfix) - 1; i >= 0; i-- {
		nodes = append(nodes, postfix[i])
	}
	if hasGrouping {
		nodes = append(nodes, groupedRefs...)
		if name == "" {
			name = groupedName
		}
	}

	return types.RefStack{Name: name, Nodes: nodes}, extra, nil
}

// consumeCV folds trailing const/volatile decflags immediately following a
// pointer/reference node into that node's own cv bits.
func consumeCV(lx *lexer.Lexer, tok *lexer.Token, opts Options, node *types.RefNode) {
	for tok.Type == lexer.DECFLAG {
		entry, ok := tok.Def.(*lexer.Entry)
		if !ok {
			return
		}
		switch types.TypeFlags(entry.FlagBit) {
		case types.FlagConst:
			node.PointerConst = true
		case types.FlagVolatile:
			node.PointerVolatile = true
		default:
			return
		}
		*tok = lx.GetTokenInScope(opts.Resolve)
	}
}

// isParamListStart reports whether tok begins a parameter list rather than
// a nested grouped declarator (the `(` ambiguity only arises before any
// declarator core has been seen).
func isParamListStart(tok *lexer.Token) bool {
	switch tok.Type {
	case lexer.DECLARATOR, lexer.DECFLAG, lexer.DEFINITION, lexer.DECLTYPE, lexer.RIGHTPARENTH:
		return true
	default:
		return false
	}
}

// readFunctionPostfix parses a parameter list starting at *tok (already
// positioned just inside the already-consumed `(`) and, when grouped is
// false, the trailing cv/throw modifiers following the closing `)`.
// done reports whether the declarator is now fully read (true whenever
// grouped is false: a flat declarator's parameter list is always its last
// postfix, since a function cannot directly return a function type).
func readFunctionPostfix(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope, opts Options, grouped bool) (types.RefNode, types.TypeFlags, bool, error) {
	params, variadic, err := readParamList(lx, tok, scope, opts)
	if err != nil {
		return types.RefNode{}, 0, false, err
	}
	if tok.Type != lexer.RIGHTPARENTH {
		return types.RefNode{}, 0, false, fmt.Errorf("expected ')' to close parameter list, found %s", tok.Type)
	}
	*tok = lx.GetTokenInScope(opts.Resolve)

	node := types.RefNode{Kind: types.RefFunction, Params: params, Variadic: variadic}
	if grouped {
		return node, 0, false, nil
	}

	extra := consumeTrailingModifiers(lx, tok, opts)
	return node, extra, true, nil
}

// readParamList parses comma-separated full_types up to (but not
// consuming) the closing `)`. A bare `...` — with or without preceding
// named parameters — marks the function variadic; per-parameter
// variadic-type detection (e.g. a parameter whose own type is itself a
// pack, looked up in a variadic-types registry) is not modeled here — see
// DESIGN.md's declread entry.
func readParamList(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope, opts Options) ([]types.Param, bool, error) {
	if tok.Type == lexer.RIGHTPARENTH {
		return nil, false, nil
	}
	var params []types.Param
	variadic := false
	for {
		if tok.Type == lexer.ELLIPSIS {
			variadic = true
			*tok = lx.GetTokenInScope(opts.Resolve)
			break
		}
		ft, err := opts.ReadType(lx, tok, scope)
		if err != nil {
			return nil, false, err
		}
		params = append(params, types.Param{Type: ft})
		if tok.Type == lexer.COMMA {
			*tok = lx.GetTokenInScope(opts.Resolve)
			continue
		}
		break
	}
	if tok.Type != lexer.RIGHTPARENTH {
		return nil, false, fmt.Errorf("expected ')' or ',' in parameter list, found %s", tok.Type)
	}
	return params, variadic, nil
}

// consumeTrailingModifiers eats const/volatile decflags and an old-style
// `throw(...)` exception specification following a flat declarator's
// closing `)`, folding any cv bits into the returned flags.
func consumeTrailingModifiers(lx *lexer.Lexer, tok *lexer.Token, opts Options) types.TypeFlags {
	var extra types.TypeFlags
	for {
		if tok.Type == lexer.DECFLAG {
			if entry, ok := tok.Def.(*lexer.Entry); ok {
				extra |= types.TypeFlags(entry.FlagBit)
			}
			*tok = lx.GetTokenInScope(opts.Resolve)
			continue
		}
		if tok.Type == lexer.IDENTIFIER && tok.Content == "throw" {
			*tok = lx.GetTokenInScope(opts.Resolve)
			if tok.Type == lexer.LEFTPARENTH {
				depth := 0
				for {
					switch tok.Type {
					case lexer.LEFTPARENTH:
						depth++
					case lexer.RIGHTPARENTH:
						depth--
					case lexer.ENDOFCODE:
						return extra
					}
					*tok = lx.GetTokenInScope(opts.Resolve)
					if depth == 0 {
						break
					}
				}
			}
			continue
		}
		return extra
	}
}

// readArrayBound reads a single array-bound token or expression starting
// at *tok, leaving *tok positioned at the closing `]`. Without an
// EvalArrayBound hook, only a plain integer literal is recognized; any
// other token sequence is skipped (balanced on nested brackets) and
// treated as ArrayUnspecified rather than erroring.
func readArrayBound(lx *lexer.Lexer, tok *lexer.Token, opts Options) (int, error) {
	if opts.EvalArrayBound != nil {
		return opts.EvalArrayBound(lx, tok)
	}

	switch tok.Type {
	case lexer.DECLITERAL:
		n, err := strconv.ParseInt(strings.TrimRight(tok.Content, "uUlL"), 10, 64)
		*tok = lx.GetTokenInScope(opts.Resolve)
		if err != nil || n < 0 {
			return types.ArrayUnspecified, nil
		}
		return int(n), nil
	case lexer.HEXLITERAL:
		n, err := strconv.ParseInt(strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(tok.Content, "0x"), "0X"), "uUlL"), 16, 64)
		*tok = lx.GetTokenInScope(opts.Resolve)
		if err != nil || n < 0 {
			return types.ArrayUnspecified, nil
		}
		return int(n), nil
	case lexer.OCTLITERAL:
		trimmed := strings.TrimRight(tok.Content, "uUlL")
		n, err := strconv.ParseInt(trimmed, 8, 64)
		if trimmed == "0" {
			n, err = 0, nil
		}
		*tok = lx.GetTokenInScope(opts.Resolve)
		if err != nil || n < 0 {
			return types.ArrayUnspecified, nil
		}
		return int(n), nil
	default:
		depth := 0
		for {
			switch tok.Type {
			case lexer.LEFTBRACKET:
				depth++
			case lexer.RIGHTBRACKET:
				if depth == 0 {
					return types.ArrayUnspecified, nil
				}
				depth--
			case lexer.ENDOFCODE:
				return types.ArrayUnspecified, nil
			}
			*tok = lx.GetTokenInScope(opts.Resolve)
		}
	}
}
