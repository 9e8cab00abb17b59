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

package lexer

// TokenType is the wire-level token kind consumed by the type reader,
// referencer reader and declarator handler.
type TokenType int

const (
	IDENTIFIER TokenType = iota
	DEFINITION
	DECLARATOR
	DECFLAG

	CLASS
	STRUCT
	UNION
	ENUM
	NAMESPACE
	EXTERN
	TEMPLATE
	TYPENAME
	TYPEDEF
	USING
	PUBLIC
	PRIVATE
	PROTECTED
	ASM
	SIZEOF
	ISEMPTY
	OPERATORKW
	DECLTYPE

	OPERATOR
	TILDE
	COMMA
	SEMICOLON
	COLON
	SCOPE
	ELLIPSIS

	LEFTPARENTH
	RIGHTPARENTH
	LEFTBRACKET
	RIGHTBRACKET
	LEFTBRACE
	RIGHTBRACE
	LESSTHAN
	GREATERTHAN

	STRINGLITERAL
	CHARLITERAL
	DECLITERAL
	HEXLITERAL
	OCTLITERAL

	CONCAT   // macro-mode only: ##
	TOSTRING // macro-mode only: #

	ENDOFCODE
	INVALID
)

//go:generate stringer -type=TokenType
func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var tokenTypeNames = map[TokenType]string{
	IDENTIFIER: "IDENTIFIER", DEFINITION: "DEFINITION", DECLARATOR: "DECLARATOR", DECFLAG: "DECFLAG",
	CLASS: "CLASS", STRUCT: "STRUCT", UNION: "UNION", ENUM: "ENUM", NAMESPACE: "NAMESPACE",
	EXTERN: "EXTERN", TEMPLATE: "TEMPLATE", TYPENAME: "TYPENAME", TYPEDEF: "TYPEDEF", USING: "USING",
	PUBLIC: "PUBLIC", PRIVATE: "PRIVATE", PROTECTED: "PROTECTED", ASM: "ASM", SIZEOF: "SIZEOF",
	ISEMPTY: "ISEMPTY", OPERATORKW: "OPERATORKW", DECLTYPE: "DECLTYPE",
	OPERATOR: "OPERATOR", TILDE: "TILDE", COMMA: "COMMA", SEMICOLON: "SEMICOLON", COLON: "COLON",
	SCOPE: "SCOPE", ELLIPSIS: "ELLIPSIS",
	LEFTPARENTH: "LEFTPARENTH", RIGHTPARENTH: "RIGHTPARENTH", LEFTBRACKET: "LEFTBRACKET",
	RIGHTBRACKET: "RIGHTBRACKET", LEFTBRACE: "LEFTBRACE", RIGHTBRACE: "RIGHTBRACE",
	LESSTHAN: "LESSTHAN", GREATERTHAN: "GREATERTHAN",
	STRINGLITERAL: "STRINGLITERAL", CHARLITERAL: "CHARLITERAL", DECLITERAL: "DECLITERAL",
	HEXLITERAL: "HEXLITERAL", OCTLITERAL: "OCTLITERAL",
	CONCAT: "CONCAT", TOSTRING: "TOSTRING",
	ENDOFCODE: "ENDOFCODE", INVALID: "INVALID",
}

// Definable is implemented by whatever the type/scope model hands back to
// the lexer as the payload of a DECLARATOR/DECFLAG/DEFINITION token. The
// lexer never inspects it beyond carrying it — classification is purely a
// scope lookup performed by the caller (see IdentResolver).
type Definable any

// Token is a single lexical unit, carrying its kind, source location and
// payload. Content is the raw source slice for literal/identifier/operator
// tokens; Def carries the resolved definition/typeflag handle for
// DECLARATOR/DECFLAG/DEFINITION tokens (nil otherwise).
type Token struct {
	Type     TokenType
	Location Cursor
	Content  string
	Def      Definable
}

// EOF is the sentinel token returned once no more input is available.
func EOF(at Cursor) Token { return Token{Type: ENDOFCODE, Location: at} }

// Invalid is returned for a single byte that could not be classified.
func Invalid(at Cursor, b byte) Token {
	return Token{Type: INVALID, Location: at, Content: string(b)}
}
