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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocppdecl/cppdecl/lexer"
)

func parseLine(t *testing.T, src string) Expr {
	t.Helper()
	ml := lexer.NewMacroLexer([]byte(src), lexer.CursorInit("t.cc"), lexer.MacroTable{})
	expr, err := Parse(ml)
	require.NoError(t, err)
	return expr
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"1 == 2 && 3 == 4", "1 == 2 && 3 == 4"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"-1 + 2", "((-(1)) + 2)"},
		{"~0", "~(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr := parseLine(t, tt.src)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestParseDefined(t *testing.T) {
	tests := []struct {
		src  string
		want Expr
	}{
		{"defined(FOO)", Defined{"FOO"}},
		{"defined FOO", Defined{"FOO"}},
		{"!defined(FOO)", Not{Defined{"FOO"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLine(t, tt.src))
		})
	}
}

func TestParseFunctionLikeCall(t *testing.T) {
	expr := parseLine(t, "FOO(1, 2)")
	call, ok := expr.(Call)
	require.True(t, ok)
	assert.Equal(t, Ident("FOO"), call.Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, ConstantInt(1), call.Args[0])
	assert.Equal(t, ConstantInt(2), call.Args[1])
}

func TestParseCharLiteralEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want ConstantInt
	}{
		{"'a'", ConstantInt('a')},
		{`'\n'`, ConstantInt('\n')},
		{`'\t'`, ConstantInt('\t')},
		{`'\0'`, ConstantInt(0)},
		{`'\''`, ConstantInt('\'')},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLine(t, tt.src))
		})
	}
}

func TestParseHexAndFloatLiterals(t *testing.T) {
	assert.Equal(t, ConstantInt(255), parseLine(t, "0xFF"))
	assert.Equal(t, ConstantInt(8), parseLine(t, "010"))
	assert.Equal(t, ConstantFloat(1.5), parseLine(t, "1.5"))
}

func TestParseUnexpectedEOF(t *testing.T) {
	ml := lexer.NewMacroLexer([]byte("1 +"), lexer.CursorInit("t.cc"), lexer.MacroTable{})
	_, err := Parse(ml)
	assert.Error(t, err)
}
