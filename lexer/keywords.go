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

// Usage bits describe how a builtin-declarator table entry behaves when
// encountered by the type reader.
type Usage uint8

const (
	// UFPrimitive marks an entry that names a concrete type outright (e.g.
	// "int"). The type reader binds it directly as the base type; a second
	// concrete type in the same specifier (e.g. "int char") is an error.
	UFPrimitive Usage = 1 << iota
	// UFStandalone marks an entry that implies a type when used with no
	// other declarator present (e.g. bare "unsigned" implies "unsigned int").
	UFStandalone
	// UFStandaloneFlag marks a pure qualifier/storage-class entry that
	// never implies a type of its own (e.g. "const", "static").
	UFStandaloneFlag
)

// Entry is one row of the builtin-declarators table. Def is set
// when the entry names a concrete type; FlagBit carries the qualifier bits
// to OR into a full_type's flags. Both Def and FlagBit are opaque to the
// lexer — only the type reader interprets them — which is why this package
// carries them as Definable/uint64 rather than importing the type model.
type Entry struct {
	Name    string
	Usage   Usage
	Def     Definable // set by the host when this entry names a concrete type
	FlagBit uint64    // set by the host: qualifier/storage-class bit(s)
}

// Table is the builtin-declarators map consulted by the lexer when an
// identifier is not itself a macro or a fixed keyword. It is built and
// owned by the host (package builtins), not by the lexer; the lexer only
// ever reads it.
type Table map[string]*Entry

// keywordTokens are the fixed C++ keywords recognized directly by the
// lexer. They never change meaning with scope; the macro table is
// consulted first, so a macro of the same name takes precedence.
var keywordTokens = map[string]TokenType{
	"class":     CLASS,
	"struct":    STRUCT,
	"union":     UNION,
	"enum":      ENUM,
	"namespace": NAMESPACE,
	"extern":    EXTERN,
	"template":  TEMPLATE,
	"typename":  TYPENAME,
	"typedef":   TYPEDEF,
	"using":     USING,
	"public":    PUBLIC,
	"private":   PRIVATE,
	"protected": PROTECTED,
	"asm":       ASM,
	"sizeof":    SIZEOF,
	"__is_empty": ISEMPTY,
	"operator":  OPERATORKW,
	"decltype":  DECLTYPE,
}
