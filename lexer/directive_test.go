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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constEval stands in for the real exprs evaluator in tests that only need
// #if itself, not its expression grammar.
func constEval(result bool) CondEval {
	return func(mlex *MacroLexer, macros MacroTable) (bool, error) { return result, nil }
}

func TestDefineAndUndef(t *testing.T) {
	toks, sink := tokenize(t, "#define WIDTH 80\nWIDTH\n#undef WIDTH\nWIDTH")
	require.Empty(t, sink.errors)
	require.Len(t, toks, 2)
	assert.Equal(t, DECLITERAL, toks[0].Type)
	assert.Equal(t, "80", toks[0].Content)
	assert.Equal(t, IDENTIFIER, toks[1].Type)
	assert.Equal(t, "WIDTH", toks[1].Content)
}

func TestIfdefBranches(t *testing.T) {
	src := "#ifdef FOO\nyes\n#else\nno\n#endif"
	sink := &recordingSink{}
	lx := NewLexer("t.cc", []byte(src), Options{Sink: sink})
	tok := lx.GetToken()
	assert.Equal(t, "no", tok.Content)
	assert.Equal(t, ENDOFCODE, lx.GetToken().Type)
	assert.Equal(t, 0, lx.ConditionalDepth())

	sink = &recordingSink{}
	lx = NewLexer("t.cc", []byte(src), Options{Sink: sink, Macros: MacroTable{"FOO": {Name: "FOO", ArgCount: -1}}})
	tok = lx.GetToken()
	assert.Equal(t, "yes", tok.Content)
}

func TestIfElifElse(t *testing.T) {
	src := "#if 0\na\n#elif 0\nb\n#elif 1\nc\n#else\nd\n#endif"
	sink := &recordingSink{}
	evalCalls := 0
	lx := NewLexer("t.cc", []byte(src), Options{Sink: sink, CondEval: func(mlex *MacroLexer, macros MacroTable) (bool, error) {
		evalCalls++
		tok := mlex.NextToken()
		return tok.Content == "1", nil
	}})
	tok := lx.GetToken()
	assert.Equal(t, "c", tok.Content)
	assert.Empty(t, sink.errors)
}

func TestNestedConditionalInactiveBranchSkipsInnerDirectives(t *testing.T) {
	src := "#if 0\n#define X 1\n#endif\nX"
	sink := &recordingSink{}
	lx := NewLexer("t.cc", []byte(src), Options{Sink: sink, CondEval: constEval(false)})
	tok := lx.GetToken()
	assert.Equal(t, IDENTIFIER, tok.Type, "macro defined inside a skipped branch must not take effect")
	assert.Equal(t, "X", tok.Content)
}

func TestEndifWithoutIfDiagnosed(t *testing.T) {
	_, sink := tokenize(t, "#endif\n")
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "#endif without matching #if")
}

func TestErrorAndWarningDirectives(t *testing.T) {
	sink := &recordingSink{}
	lx := NewLexer("t.cc", []byte("#error boom\n#warning careful"), Options{Sink: sink})
	for lx.GetToken().Type != ENDOFCODE {
	}
	require.Len(t, sink.errors, 1)
	assert.Equal(t, "boom", sink.errors[0])
	require.Len(t, sink.warns, 1)
	assert.Equal(t, "careful", sink.warns[0])
}

func TestErrorSuppressedInInactiveBranch(t *testing.T) {
	sink := &recordingSink{}
	lx := NewLexer("t.cc", []byte("#if 0\n#error boom\n#endif"), Options{Sink: sink, CondEval: constEval(false)})
	for lx.GetToken().Type != ENDOFCODE {
	}
	assert.Empty(t, sink.errors)
}

func TestPragmaOnceAndLineAreRecognizedButInert(t *testing.T) {
	toks, sink := tokenize(t, "#pragma once\n#line 42 \"other.h\"\nint x;")
	require.Empty(t, sink.errors)
	require.Len(t, toks, 3)
	assert.Equal(t, "int", toks[0].Content)
}

func TestUnknownDirectiveDiagnosed(t *testing.T) {
	_, sink := tokenize(t, "#bogus foo\n")
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "unknown preprocessor directive")
}

func TestInactiveBranchContentIsSkipped(t *testing.T) {
	src := "#if 0\nthis is garbage ) ( @@@\n  #else\nreal_token\n#endif"
	sink := &recordingSink{}
	lx := NewLexer("t.cc", []byte(src), Options{Sink: sink, CondEval: constEval(false)})
	tok := lx.GetToken()
	assert.Equal(t, "real_token", tok.Content, "content inside an inactive branch must never be tokenized")
	assert.Equal(t, ENDOFCODE, lx.GetToken().Type)
	assert.Empty(t, sink.errors, "garbage in the skipped branch must not surface as lexer errors")
}

func TestFunctionLikeMacroUseDiagnosed(t *testing.T) {
	toks, sink := tokenize(t, "#define SQUARE(x) ((x)*(x))\nSQUARE(3)")
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "function-like macro")
	require.NotEmpty(t, toks)
	assert.Equal(t, "SQUARE", toks[0].Content)
}
