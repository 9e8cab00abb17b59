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

package exprs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gocppdecl/cppdecl/lexer"
)

// precedence drives a Pratt/precedence-climbing parser, covering the full
// arithmetic/bitwise/ternary grammar needed by constant array-bound and
// bitfield-width expressions, not just boolean #if conditions.
type precedence int

const (
	precLowest precedence = iota
	precTernary
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

type (
	prefixParseFn func(p *parser, tok lexer.Token) (Expr, error)
	infixParseFn  func(p *parser, tok lexer.Token, left Expr) (Expr, error)
	parseRule     struct {
		precedence precedence
		prefix     prefixParseFn
		infix      infixParseFn
	}
)

var rules map[string]parseRule

func init() {
	rules = map[string]parseRule{
		"!":       {precedence: precUnary, prefix: parseUnaryNot},
		"-":       {precedence: precAdditive, prefix: parseUnaryMinus, infix: parseBinary(precAdditive)},
		"+":       {precedence: precAdditive, prefix: parseUnaryPlus, infix: parseBinary(precAdditive)},
		"~":       {precedence: precUnary, prefix: parseUnaryBitNot},
		"(":       {precedence: precCall, prefix: parseGrouping},
		"defined": {precedence: precLowest, prefix: parseDefined},
		"?":       {precedence: precTernary, infix: parseTernary},
		"||":      {precedence: precOr, infix: parseBinaryLogic(precOr, func(l, r Expr) Expr { return Or{l, r} })},
		"&&":      {precedence: precAnd, infix: parseBinaryLogic(precAnd, func(l, r Expr) Expr { return And{l, r} })},
		"|":       {precedence: precBitOr, infix: parseBinary(precBitOr)},
		"^":       {precedence: precBitXor, infix: parseBinary(precBitXor)},
		"&":       {precedence: precBitAnd, infix: parseBinary(precBitAnd)},
		"==":      {precedence: precEquality, infix: parseCompare(precEquality)},
		"!=":      {precedence: precEquality, infix: parseCompare(precEquality)},
		"<":       {precedence: precRelational, infix: parseCompare(precRelational)},
		"<=":      {precedence: precRelational, infix: parseCompare(precRelational)},
		">":       {precedence: precRelational, infix: parseCompare(precRelational)},
		">=":      {precedence: precRelational, infix: parseCompare(precRelational)},
		"<<":      {precedence: precShift, infix: parseBinary(precShift)},
		">>":      {precedence: precShift, infix: parseBinary(precShift)},
		"*":       {precedence: precMultiplicative, infix: parseBinary(precMultiplicative)},
		"/":       {precedence: precMultiplicative, infix: parseBinary(precMultiplicative)},
		"%":       {precedence: precMultiplicative, infix: parseBinary(precMultiplicative)},
	}
}

// parser drives precedence-climbing over a single MacroLexer's token
// stream, buffering exactly one token of lookahead.
type parser struct {
	ml     *lexer.MacroLexer
	lookhd *lexer.Token
}

func newParser(ml *lexer.MacroLexer) *parser { return &parser{ml: ml} }

func (p *parser) next() lexer.Token {
	if p.lookhd != nil {
		tok := *p.lookhd
		p.lookhd = nil
		return tok
	}
	return p.ml.NextToken()
}

func (p *parser) peek() lexer.Token {
	if p.lookhd == nil {
		tok := p.ml.NextToken()
		p.lookhd = &tok
	}
	return *p.lookhd
}

func (p *parser) expect(content string) error {
	tok := p.next()
	if tok.Content != content {
		return fmt.Errorf("expected %q, got %q", content, tok.Content)
	}
	return nil
}

// Parse reads one complete expression from ml (spec's `#if`/`#elif`
// condition, or a constant array-bound/bitfield-width expression). Trailing
// tokens past the expression (there should be none — ml is already scoped
// to a single logical line) are ignored.
func Parse(ml *lexer.MacroLexer) (Expr, error) {
	p := newParser(ml)
	expr, err := p.parseExprPrecedence(precLowest)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseExprPrecedence(min precedence) (Expr, error) {
	tok := p.next()
	rule, ok := rules[tok.Content]
	var left Expr
	var err error
	if ok && rule.prefix != nil {
		left, err = rule.prefix(p, tok)
	} else {
		left, err = parseLiteralOrIdent(tok)
	}
	if err != nil {
		return nil, err
	}

	for {
		peeked := p.peek()
		if peeked.Type == lexer.ENDOFCODE {
			return left, nil
		}
		rule, ok := rules[peeked.Content]
		if ok && rule.infix != nil && rule.precedence >= min {
			p.next()
			left, err = rule.infix(p, peeked, left)
			if err != nil {
				return nil, err
			}
			continue
		}
		if peeked.Type == lexer.LEFTPARENTH {
			if ident, isIdent := left.(Ident); isIdent {
				p.next()
				left, err = parseCallArgs(p, ident)
				if err != nil {
					return nil, err
				}
				continue
			}
		}
		return left, nil
	}
}

func parseLiteralOrIdent(tok lexer.Token) (Expr, error) {
	switch tok.Type {
	case lexer.IDENTIFIER:
		return Ident(tok.Content), nil
	case lexer.DECLITERAL, lexer.HEXLITERAL, lexer.OCTLITERAL:
		return parseNumericLiteral(tok.Content)
	case lexer.STRINGLITERAL:
		return ConstantString(unquote(tok.Content)), nil
	case lexer.CHARLITERAL:
		return parseCharLiteral(tok.Content)
	case lexer.ENDOFCODE:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected token %q in expression", tok.Content)
	}
}

func parseNumericLiteral(tok string) (Expr, error) {
	isHex := strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X")
	suffix := func(r rune) bool {
		if isHex {
			return r == 'u' || r == 'U' || r == 'l' || r == 'L'
		}
		return r == 'u' || r == 'U' || r == 'l' || r == 'L' || r == 'f' || r == 'F'
	}
	trimmed := strings.TrimRightFunc(tok, suffix)
	if !isHex && strings.ContainsAny(trimmed, ".eE") {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err == nil {
			return ConstantFloat(f), nil
		}
	}
	v, err := strconv.ParseInt(trimmed, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric literal %q: %w", tok, err)
	}
	return ConstantInt(v), nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		if s[len(s)-1] == '"' {
			return s[1 : len(s)-1]
		}
		return s[1:]
	}
	return s
}

// parseCharLiteral decodes a quoted character literal's content, including
// the handful of C escape sequences that turn up in constant expressions
// ('\0', '\n', '\t', '\\', '\'').
func parseCharLiteral(s string) (Expr, error) {
	if len(s) < 2 || s[0] != '\'' {
		return nil, fmt.Errorf("malformed character literal %q", s)
	}
	inner := s[1:]
	if len(inner) > 0 && inner[len(inner)-1] == '\'' {
		inner = inner[:len(inner)-1]
	}
	if inner == "" {
		return nil, fmt.Errorf("empty character literal")
	}
	if inner[0] != '\\' {
		return ConstantInt(int64(inner[0])), nil
	}
	if len(inner) < 2 {
		return nil, fmt.Errorf("malformed escape in character literal %q", s)
	}
	switch inner[1] {
	case 'n':
		return ConstantInt('\n'), nil
	case 't':
		return ConstantInt('\t'), nil
	case 'r':
		return ConstantInt('\r'), nil
	case '0':
		return ConstantInt(0), nil
	case '\\':
		return ConstantInt('\\'), nil
	case '\'':
		return ConstantInt('\''), nil
	default:
		return ConstantInt(int64(inner[1])), nil
	}
}

func parseUnaryNot(p *parser, _ lexer.Token) (Expr, error) {
	x, err := p.parseExprPrecedence(precUnary)
	if err != nil {
		return nil, err
	}
	return Not{x}, nil
}

func parseUnaryMinus(p *parser, _ lexer.Token) (Expr, error) {
	x, err := p.parseExprPrecedence(precUnary)
	if err != nil {
		return nil, err
	}
	return Negate{x}, nil
}

func parseUnaryPlus(p *parser, _ lexer.Token) (Expr, error) {
	x, err := p.parseExprPrecedence(precUnary)
	if err != nil {
		return nil, err
	}
	return Plus{x}, nil
}

func parseUnaryBitNot(p *parser, _ lexer.Token) (Expr, error) {
	x, err := p.parseExprPrecedence(precUnary)
	if err != nil {
		return nil, err
	}
	return BitNot{x}, nil
}

func parseGrouping(p *parser, _ lexer.Token) (Expr, error) {
	x, err := p.parseExprPrecedence(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return x, nil
}

// parseDefined implements the preprocessor's `defined(X)` / `defined X`
// operator.
func parseDefined(p *parser, _ lexer.Token) (Expr, error) {
	if p.peek().Content == "(" {
		p.next()
		name := p.next()
		if name.Type != lexer.IDENTIFIER {
			return nil, fmt.Errorf("defined(...) expects an identifier, got %q", name.Content)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Defined{Ident(name.Content)}, nil
	}
	name := p.next()
	if name.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("defined expects an identifier, got %q", name.Content)
	}
	return Defined{Ident(name.Content)}, nil
}

func parseBinary(prec precedence) infixParseFn {
	return func(p *parser, tok lexer.Token, left Expr) (Expr, error) {
		right, err := p.parseExprPrecedence(prec + 1)
		if err != nil {
			return nil, err
		}
		return Arith{Left: left, Op: tok.Content, Right: right}, nil
	}
}

func parseCompare(prec precedence) infixParseFn {
	return func(p *parser, tok lexer.Token, left Expr) (Expr, error) {
		right, err := p.parseExprPrecedence(prec + 1)
		if err != nil {
			return nil, err
		}
		return Compare{Left: left, Op: tok.Content, Right: right}, nil
	}
}

func parseBinaryLogic(prec precedence, build func(l, r Expr) Expr) infixParseFn {
	return func(p *parser, _ lexer.Token, left Expr) (Expr, error) {
		right, err := p.parseExprPrecedence(prec + 1)
		if err != nil {
			return nil, err
		}
		return build(left, right), nil
	}
}

func parseTernary(p *parser, _ lexer.Token, cond Expr) (Expr, error) {
	then, err := p.parseExprPrecedence(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.parseExprPrecedence(precTernary)
	if err != nil {
		return nil, err
	}
	return Ternary{Cond: cond, Then: then, Else: els}, nil
}

func parseCallArgs(p *parser, name Ident) (Expr, error) {
	var args []Expr
	if p.peek().Content != ")" {
		for {
			arg, err := p.parseExprPrecedence(precTernary + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Content == "," {
				p.next()
				continue
			}
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return Call{Name: name, Args: args}, nil
}
