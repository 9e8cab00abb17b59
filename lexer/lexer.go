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

// Package lexer tokenizes C/C++ source text, expanding object-like macros
// and interpreting preprocessor directives as it goes. Identifier
// classification (keyword vs. macro vs. known type name vs. plain
// identifier) depends on the caller's current scope, so the primary entry
// point takes an IdentResolver supplied fresh for every token.
package lexer


// IdentResolver classifies an identifier against the caller's current
// scope. It returns a non-nil def and true when name already names a
// definition visible there (producing a DEFINITION token). The lexer only
// consults it for names that are not a macro, keyword or builtin; when it
// reports false, the name is a plain IDENTIFIER.
type IdentResolver func(name string) (def Definable, ok bool)

// Sink receives diagnostics produced while lexing.
type Sink interface {
	Errorf(at Cursor, format string, args ...any)
	Warnf(at Cursor, format string, args ...any)
}

// Options configures a Lexer at construction time.
type Options struct {
	Builtins Table      // builtin declarators/decflags table (host-owned)
	Macros   MacroTable // initial macro table; created empty if nil
	Sink     Sink
	// CondEval evaluates #if/#elif expressions. Package exprs provides an
	// implementation; left nil, #if/#elif conditions are diagnosed as
	// unsupported and treated as false.
	CondEval CondEval
}

// Lexer produces a token stream from C/C++ source bytes.
type Lexer struct {
	src       *source
	builtins  Table
	macros    MacroTable
	sink      Sink
	cond      *conditionalStack
	condEval  CondEval
	maxDepth  int
	fileDepth int
}

// NewLexer constructs a Lexer reading name/data with opts.
func NewLexer(name string, data []byte, opts Options) *Lexer {
	macros := opts.Macros
	if macros == nil {
		macros = MacroTable{}
	}
	return &Lexer{
		src:      newSource(name, data),
		builtins: opts.Builtins,
		macros:   macros,
		sink:     opts.Sink,
		cond:     newConditionalStack(),
		condEval: opts.CondEval,
		maxDepth: 4096,
	}
}

// Macros exposes the live macro table, e.g. so a caller can seed
// command-line -D definitions before parsing starts.
func (lx *Lexer) Macros() MacroTable { return lx.macros }

func (lx *Lexer) errorf(at Cursor, format string, args ...any) {
	if lx.sink != nil {
		lx.sink.Errorf(at, format, args...)
	}
}

func (lx *Lexer) warnf(at Cursor, format string, args ...any) {
	if lx.sink != nil {
		lx.sink.Warnf(at, format, args...)
	}
}

// GetToken returns the next token with no scope-dependent classification
// (every identifier that isn't a macro, keyword or builtin comes back as
// plain IDENTIFIER). Useful for contexts with no scope, e.g. the top level
// of a fresh file before any declarations exist.
func (lx *Lexer) GetToken() Token {
	return lx.GetTokenInScope(nil)
}

// GetTokenInScope returns the next token, consulting resolve to classify
// identifiers that are neither macros, keywords nor builtins. Contract:
// returns ENDOFCODE at the true end of input, after all pushed file-stack
// entries have been exhausted.
func (lx *Lexer) GetTokenInScope(resolve IdentResolver) Token {
	for {
		if lx.src.empty() {
			if lx.src.pop() {
				lx.fileDepth--
				continue
			}
			return EOF(lx.src.cursor)
		}

		b, _ := lx.src.byteAt(0)

		if !lx.cond.active() && !lx.lineHasDirectiveAhead() {
			lx.skipInactiveLine()
			continue
		}

		switch {
		case isSpace(b):
			lx.skipWhitespace()
			continue
		case b == '\n':
			lx.src.advance(1)
			continue
		case b == '\r':
			n := 1
			if nb, ok := lx.src.byteAt(1); ok && nb == '\n' {
				n = 2
			}
			lx.src.advance(n)
			continue
		case b == '/':
			if _, consumed := lx.tryComment(); consumed {
				continue
			}
			return lx.lexOperator()
		case b == '#':
			if lx.handleDirectiveLine(resolve) {
				continue
			}
			return lx.GetTokenInScope(resolve)
		case isIdentStart(b):
			if tok, expanded := lx.lexIdentifier(resolve); !expanded {
				return tok
			} else {
				continue
			}
		case isDigit(b):
			return lx.lexNumber()
		case b == '\'':
			return lx.lexCharLiteral()
		case b == '"':
			return lx.lexStringLiteral()
		default:
			if tok, ok := lx.lexPunctuation(); ok {
				return tok
			}
			at := lx.src.cursor
			lx.src.advance(1)
			return Invalid(at, b)
		}
	}
}

// lineHasDirectiveAhead reports whether the rest of the current line, after
// only horizontal whitespace, begins with '#' — i.e. whether it is a
// directive line rather than ordinary code text.
func (lx *Lexer) lineHasDirectiveAhead() bool {
	n := 0
	for {
		b, ok := lx.src.byteAt(n)
		if !ok {
			return false
		}
		if b == '#' {
			return true
		}
		if !isSpace(b) {
			return false
		}
		n++
	}
}

// skipInactiveLine discards one raw source line, newline included, without
// tokenizing its content. Used while inside a false #if/#elif/#else branch:
// only directive lines are inspected there, so ordinary code text never
// reaches the tokenizer.
func (lx *Lexer) skipInactiveLine() {
	n := 0
	for {
		b, ok := lx.src.byteAt(n)
		if !ok || b == '\n' {
			break
		}
		n++
	}
	if b, ok := lx.src.byteAt(n); ok && b == '\n' {
		n++
	}
	lx.src.advance(n)
}

func (lx *Lexer) skipWhitespace() {
	n := 0
	for {
		b, ok := lx.src.byteAt(n)
		if !ok || !isSpace(b) {
			break
		}
		n++
	}
	lx.src.advance(n)
}

// tryComment consumes a line or block comment starting at the current
// position, returning consumed=true if anything (including an empty,
// diagnosed, unterminated comment) was eaten.
func (lx *Lexer) tryComment() (Token, bool) {
	b1, _ := lx.src.byteAt(1)
	if b1 != '/' && b1 != '*' {
		return Token{}, false
	}
	start := lx.src.cursor
	if b1 == '/' {
		n := 2
		for {
			b, ok := lx.src.byteAt(n)
			if !ok || b == '\n' || b == '\r' {
				break
			}
			n++
		}
		lx.src.advance(n)
		return Token{}, true
	}
	// block comment
	n := 2
	for {
		b, ok := lx.src.byteAt(n)
		if !ok {
			lx.errorf(start, "unterminated block comment")
			lx.src.advance(n)
			return Token{}, true
		}
		if b == '*' {
			if b2, ok2 := lx.src.byteAt(n + 1); ok2 && b2 == '/' {
				n += 2
				lx.src.advance(n)
				return Token{}, true
			}
		}
		n++
	}
}

func (lx *Lexer) lexIdentifier(resolve IdentResolver) (Token, bool) {
	at := lx.src.cursor
	n := 1
	for {
		b, ok := lx.src.byteAt(n)
		if !ok || !isIdentCont(b) {
			break
		}
		n++
	}
	name := string(lx.src.data[:n])
	lx.src.advance(n)

	if m, ok := lx.macros.Lookup(name); ok {
		if m.ArgCount < 0 {
			lx.expandObjectMacro(m)
			return Token{}, true
		}
		lx.errorf(at, "function-like macro %q used without argument-expansion support", name)
		return Token{Type: IDENTIFIER, Location: at, Content: name}, false
	}
	if kw, ok := keywordTokens[name]; ok {
		return Token{Type: kw, Location: at, Content: name}, false
	}
	if entry, ok := lx.builtins[name]; ok {
		typ := DECFLAG
		if entry.Usage&UFPrimitive == UFPrimitive && entry.Usage == UFPrimitive {
			typ = DECLARATOR
		}
		return Token{Type: typ, Location: at, Content: name, Def: entry}, false
	}
	if resolve != nil {
		if def, ok := resolve(name); ok {
			return Token{Type: DEFINITION, Location: at, Content: name, Def: def}, false
		}
	}
	return Token{Type: IDENTIFIER, Location: at, Content: name}, false
}

// expandObjectMacro pushes the current source and starts reading from the
// macro's replacement text: the current reader goes onto the file stack,
// the macro's replacement text becomes a new buffer, and position resets
// to 0.
func (lx *Lexer) expandObjectMacro(m *Macro) {
	lx.fileDepth++
	if lx.fileDepth > lx.maxDepth {
		lx.errorf(lx.src.cursor, "macro expansion depth exceeded while expanding %q", m.Name)
		lx.fileDepth--
		return
	}
	lx.src.consume("<macro:"+m.Name+">", []byte(m.Replacement))
}

// isSpace matches horizontal whitespace only. '\r' is deliberately excluded:
// it is a line terminator (alone or as part of "\r\n"), handled explicitly
// alongside '\n' in GetTokenInScope so each of \n, \r, \r\n advances the
// cursor by exactly one line.
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\v' || b == '\f' }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }
func isDigit(b byte) bool     { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (lx *Lexer) lexNumber() Token {
	at := lx.src.cursor
	n := 0
	if b0, _ := lx.src.byteAt(0); b0 == '0' {
		if b1, ok := lx.src.byteAt(1); ok && (b1 == 'x' || b1 == 'X') {
			n = 2
			for {
				b, ok := lx.src.byteAt(n)
				if !ok || !isHexDigit(b) {
					break
				}
				n++
			}
			n = lx.consumeSuffix(n)
			content := string(lx.src.data[:n])
			lx.src.advance(n)
			return Token{Type: HEXLITERAL, Location: at, Content: content}
		}
		n = 1
		for {
			b, ok := lx.src.byteAt(n)
			if !ok || b < '0' || b > '7' {
				break
			}
			n++
		}
		if n == 1 {
			// bare "0", or "0" followed by non-octal digits/suffix: still octal per spec
		}
		n = lx.consumeSuffix(n)
		content := string(lx.src.data[:n])
		lx.src.advance(n)
		return Token{Type: OCTLITERAL, Location: at, Content: content}
	}
	n = 1
	for {
		b, ok := lx.src.byteAt(n)
		if !ok || !isDigit(b) {
			break
		}
		n++
	}
	n = lx.consumeSuffix(n)
	content := string(lx.src.data[:n])
	lx.src.advance(n)
	return Token{Type: DECLITERAL, Location: at, Content: content}
}

// consumeSuffix extends n past any trailing integer-suffix letters
// (u/U/l/L combinations).
func (lx *Lexer) consumeSuffix(n int) int {
	for {
		b, ok := lx.src.byteAt(n)
		if !ok {
			break
		}
		switch b {
		case 'u', 'U', 'l', 'L':
			n++
		default:
			return n
		}
	}
	return n
}

func (lx *Lexer) lexCharLiteral() Token {
	return lx.lexQuoted('\'', CHARLITERAL)
}

func (lx *Lexer) lexStringLiteral() Token {
	return lx.lexQuoted('"', STRINGLITERAL)
}

func (lx *Lexer) lexQuoted(quote byte, typ TokenType) Token {
	at := lx.src.cursor
	n := 1
	for {
		b, ok := lx.src.byteAt(n)
		if !ok {
			lx.errorf(at, "unterminated literal")
			content := string(lx.src.data[:n])
			lx.src.advance(n)
			return Token{Type: typ, Location: at, Content: content}
		}
		if b == '\\' {
			if nb, ok2 := lx.src.byteAt(n + 1); ok2 && nb == '\n' {
				n += 2
				continue
			}
			n += 2
			continue
		}
		if b == quote {
			n++
			content := string(lx.src.data[:n])
			lx.src.advance(n)
			return Token{Type: typ, Location: at, Content: content}
		}
		n++
	}
}

func (lx *Lexer) lexOperator() Token {
	at := lx.src.cursor
	b0, _ := lx.src.byteAt(0)
	b1, hasB1 := lx.src.byteAt(1)
	two := func(want byte) bool { return hasB1 && b1 == want }
	switch b0 {
	case '/':
		if two('=') {
			return lx.emitOp(at, "/=", 2)
		}
		return lx.emitOp(at, "/", 1)
	default:
		return Invalid(at, b0)
	}
}

func (lx *Lexer) emitOp(at Cursor, text string, n int) Token {
	lx.src.advance(n)
	return Token{Type: OPERATOR, Location: at, Content: text}
}

// lexPunctuation handles single-character structural tokens and the
// multi-character compound operator families (<<=, ->, etc.).
func (lx *Lexer) lexPunctuation() (Token, bool) {
	at := lx.src.cursor
	b0, _ := lx.src.byteAt(0)
	switch b0 {
	case ';':
		return lx.emitFixed(at, SEMICOLON, 1), true
	case ',':
		return lx.emitFixed(at, COMMA, 1), true
	case '(':
		return lx.emitFixed(at, LEFTPARENTH, 1), true
	case ')':
		return lx.emitFixed(at, RIGHTPARENTH, 1), true
	case '[':
		return lx.emitFixed(at, LEFTBRACKET, 1), true
	case ']':
		return lx.emitFixed(at, RIGHTBRACKET, 1), true
	case '{':
		return lx.emitFixed(at, LEFTBRACE, 1), true
	case '}':
		return lx.emitFixed(at, RIGHTBRACE, 1), true
	case '~':
		return lx.emitFixed(at, TILDE, 1), true
	case '.':
		if lx.has(1, '.') && lx.has(2, '.') {
			lx.src.advance(3)
			return Token{Type: ELLIPSIS, Location: at, Content: "..."}, true
		}
		lx.src.advance(1)
		return Token{Type: OPERATOR, Location: at, Content: "."}, true
	case ':':
		if lx.has(1, ':') {
			lx.src.advance(2)
			return Token{Type: SCOPE, Location: at, Content: "::"}, true
		}
		lx.src.advance(1)
		return Token{Type: COLON, Location: at, Content: ":"}, true
	case '<':
		if lx.has(1, '<') {
			if lx.has(2, '=') {
				return lx.emitOpTok(at, "<<=", 3), true
			}
			return lx.emitOpTok(at, "<<", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "<=", 2), true
		}
		lx.src.advance(1)
		return Token{Type: LESSTHAN, Location: at, Content: "<"}, true
	case '>':
		if lx.has(1, '>') {
			if lx.has(2, '=') {
				return lx.emitOpTok(at, ">>=", 3), true
			}
			return lx.emitOpTok(at, ">>", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, ">=", 2), true
		}
		lx.src.advance(1)
		return Token{Type: GREATERTHAN, Location: at, Content: ">"}, true
	case '+':
		if lx.has(1, '+') {
			return lx.emitOpTok(at, "++", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "+=", 2), true
		}
		return lx.emitOpTok(at, "+", 1), true
	case '-':
		if lx.has(1, '-') {
			return lx.emitOpTok(at, "--", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "-=", 2), true
		}
		if lx.has(1, '>') {
			return lx.emitOpTok(at, "->", 2), true
		}
		return lx.emitOpTok(at, "-", 1), true
	case '*':
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "*=", 2), true
		}
		return lx.emitOpTok(at, "*", 1), true
	case '^':
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "^=", 2), true
		}
		return lx.emitOpTok(at, "^", 1), true
	case '=':
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "==", 2), true
		}
		return lx.emitOpTok(at, "=", 1), true
	case '&':
		if lx.has(1, '&') {
			return lx.emitOpTok(at, "&&", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "&=", 2), true
		}
		return lx.emitOpTok(at, "&", 1), true
	case '|':
		if lx.has(1, '|') {
			return lx.emitOpTok(at, "||", 2), true
		}
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "|=", 2), true
		}
		return lx.emitOpTok(at, "|", 1), true
	case '!':
		if lx.has(1, '=') {
			return lx.emitOpTok(at, "!=", 2), true
		}
		return lx.emitOpTok(at, "!", 1), true
	default:
		return Token{}, false
	}
}

func (lx *Lexer) has(offset int, want byte) bool {
	b, ok := lx.src.byteAt(offset)
	return ok && b == want
}

func (lx *Lexer) emitFixed(at Cursor, typ TokenType, n int) Token {
	content := string(lx.src.data[:n])
	lx.src.advance(n)
	return Token{Type: typ, Location: at, Content: content}
}

func (lx *Lexer) emitOpTok(at Cursor, text string, n int) Token {
	lx.src.advance(n)
	return Token{Type: OPERATOR, Location: at, Content: text}
}

