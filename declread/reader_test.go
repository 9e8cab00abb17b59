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

package declread

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocppdecl/cppdecl/builtins"
	"github.com/gocppdecl/cppdecl/lexer"
	"github.com/gocppdecl/cppdecl/types"
)

type errSink struct{ errs []string }

func (s *errSink) Errorf(at lexer.Cursor, format string, args ...any) {
	s.errs = append(s.errs, fmt.Sprintf(format, args...))
}
func (s *errSink) Warnf(lexer.Cursor, string, ...any) {}

// stubReadType parses a single builtin-declarator token as a parameter
// type, enough to exercise readParamList without depending on package
// typeread (which itself depends on declread).
func stubReadType(lx *lexer.Lexer, tok *lexer.Token, scope *types.Scope) (types.FullType, error) {
	if tok.Type != lexer.DECLARATOR {
		return types.FullType{}, fmt.Errorf("stubReadType: expected DECLARATOR, got %s", tok.Type)
	}
	entry := tok.Def.(*lexer.Entry)
	def := entry.Def.(*types.Definition)
	*tok = lx.GetTokenInScope(nil)
	return types.FullType{Def: def}, nil
}

// readRefs lexes src (whose first token is assumed to already be positioned
// at the start of the declarator, e.g. by skipping a leading type keyword
// the caller doesn't care about) and runs ReadReferencers over it.
func readRefs(t *testing.T, b *builtins.Set, src string) (types.RefStack, types.TypeFlags, lexer.Token) {
	t.Helper()
	sink := &errSink{}
	lx := lexer.NewLexer("t.cc", []byte(src), lexer.Options{Builtins: b.Table, Sink: sink})
	resolve := func(name string) (lexer.Definable, bool) { return b.Root.Lookup(name) }
	tok := lx.GetTokenInScope(resolve)
	refs, extra, err := ReadReferencers(lx, &tok, b.Root, Options{Resolve: resolve, ReadType: stubReadType})
	require.NoError(t, err, "source %q", src)
	require.Empty(t, sink.errs, "source %q", src)
	return refs, extra, tok
}

func TestReadReferencersPlainIdentifier(t *testing.T) {
	b := builtins.New()
	refs, extra, tok := readRefs(t, b, "x;")
	assert.Equal(t, "x", refs.Name)
	assert.Empty(t, refs.Nodes)
	assert.Zero(t, extra)
	assert.Equal(t, lexer.SEMICOLON, tok.Type)
}

func TestReadReferencersPointer(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "*p;")
	require.Len(t, refs.Nodes, 1)
	assert.Equal(t, types.RefPointer, refs.Nodes[0].Kind)
	assert.Equal(t, "p", refs.Name)
}

func TestReadReferencersReference(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "&r;")
	require.Len(t, refs.Nodes, 1)
	assert.Equal(t, types.RefReference, refs.Nodes[0].Kind)
}

func TestReadReferencersConstPointerAttachesToPointer(t *testing.T) {
	b := builtins.New()
	refs, extra, _ := readRefs(t, b, "*const p;")
	require.Len(t, refs.Nodes, 1)
	assert.True(t, refs.Nodes[0].PointerConst)
	assert.Zero(t, extra)
}

func TestReadReferencersLeadingCVWithNoPointerAttachesToBase(t *testing.T) {
	b := builtins.New()
	_, extra, _ := readRefs(t, b, "const x;")
	assert.True(t, extra.Has(types.FlagConst))
}

func TestReadReferencersArrayWithBound(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "a[10];")
	require.Len(t, refs.Nodes, 1)
	assert.Equal(t, types.RefArray, refs.Nodes[0].Kind)
	assert.Equal(t, 10, refs.Nodes[0].ArrayBound)
}

func TestReadReferencersArrayUnspecified(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "a[];")
	require.Len(t, refs.Nodes, 1)
	assert.Equal(t, types.ArrayUnspecified, refs.Nodes[0].ArrayBound)
}

func TestReadReferencersArrayNonLiteralBoundIsUnspecified(t *testing.T) {
	// No EvalArrayBound hook configured: a non-literal bound expression
	// falls back to ArrayUnspecified rather than erroring.
	b := builtins.New()
	refs, _, tok := readRefs(t, b, "a[N];")
	require.Len(t, refs.Nodes, 1)
	assert.Equal(t, types.ArrayUnspecified, refs.Nodes[0].ArrayBound)
	assert.Equal(t, lexer.SEMICOLON, tok.Type)
}

func TestReadReferencersGroupedPointerToArray(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "(*p)[10];")
	require.Len(t, refs.Nodes, 2)
	assert.Equal(t, types.RefArray, refs.Nodes[0].Kind)
	assert.Equal(t, types.RefPointer, refs.Nodes[1].Kind)
	assert.Equal(t, "p", refs.Name)
	assert.Equal(t, 10, refs.Nodes[0].ArrayBound)
}

func TestReadReferencersFlatFunctionParams(t *testing.T) {
	b := builtins.New()
	refs, _, tok := readRefs(t, b, "f(int, char);")
	require.Len(t, refs.Nodes, 1)
	require.Equal(t, types.RefFunction, refs.Nodes[0].Kind)
	require.Len(t, refs.Nodes[0].Params, 2)
	assert.Same(t, b.IntType, refs.Nodes[0].Params[0].Type.Def)
	assert.False(t, refs.Nodes[0].Variadic)
	assert.Equal(t, lexer.SEMICOLON, tok.Type, "a flat function declarator ends the referencer chain")
}

func TestReadReferencersFlatFunctionVariadic(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "f(int, ...);")
	require.Len(t, refs.Nodes, 1)
	assert.True(t, refs.Nodes[0].Variadic)
	require.Len(t, refs.Nodes[0].Params, 1)
}

func TestReadReferencersEmptyParams(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "f();")
	require.Len(t, refs.Nodes, 1)
	assert.Empty(t, refs.Nodes[0].Params)
	assert.False(t, refs.Nodes[0].Variadic)
}

func TestReadReferencersGroupedPointerToFunction(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "(*f)(int, char);")
	require.Len(t, refs.Nodes, 2)
	assert.Equal(t, types.RefFunction, refs.Nodes[0].Kind)
	assert.Equal(t, types.RefPointer, refs.Nodes[1].Kind)
	require.Len(t, refs.Nodes[0].Params, 2)
	assert.Same(t, b.IntType, refs.Nodes[0].Params[0].Type.Def)
}

func TestReadReferencersOperatorSymbolName(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "operator+(int);")
	assert.Equal(t, "operator+", refs.Name)
	require.Len(t, refs.Nodes, 1)
}

func TestReadReferencersOperatorIndexName(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "operator[](int);")
	assert.Equal(t, "operator[]", refs.Name)
}

func TestReadReferencersOperatorCallName(t *testing.T) {
	b := builtins.New()
	refs, _, _ := readRefs(t, b, "operator()(int);")
	assert.Equal(t, "operator()", refs.Name)
}

func TestReadReferencersTrailingConstOnFlatFunction(t *testing.T) {
	b := builtins.New()
	refs, extra, tok := readRefs(t, b, "f(int) const;")
	require.Len(t, refs.Nodes, 1)
	assert.True(t, extra.Has(types.FlagConst))
	assert.Equal(t, lexer.SEMICOLON, tok.Type)
}

func TestReadReferencersAbstractDeclaratorNoName(t *testing.T) {
	b := builtins.New()
	refs, _, tok := readRefs(t, b, ");")
	assert.Empty(t, refs.Name)
	assert.Empty(t, refs.Nodes)
	assert.Equal(t, lexer.RIGHTPARENTH, tok.Type)
}
