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

func mustEval(t *testing.T, src string, macros lexer.MacroTable) Value {
	t.Helper()
	ml := lexer.NewMacroLexer([]byte(src), lexer.CursorInit("t.cc"), macros)
	expr, err := Parse(ml)
	require.NoError(t, err)
	v, err := expr.Eval(NewEnvironment(macros))
	require.NoError(t, err)
	return v
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 3", 3},
		{"10 % 3", 1},
		{"1 << 4", 16},
		{"255 & 0x0F", 15},
		{"1 | 2 | 4", 7},
		{"5 ^ 1", 4},
		{"~0", -1},
		{"-5 + 2", -3},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := mustEval(t, tt.src, lexer.MacroTable{})
			i, ok := v.AsInt()
			require.True(t, ok)
			assert.Equal(t, tt.want, i)
		})
	}
}

func TestEvalComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 == 1", true},
		{"1 != 2", true},
		{"1 < 2 && 2 < 3", true},
		{"1 > 2 || 2 > 1", true},
		{"1 > 2 || 2 > 3", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := mustEval(t, tt.src, lexer.MacroTable{})
			assert.Equal(t, tt.want, v.Truthy())
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	ml := lexer.NewMacroLexer([]byte("1 / 0"), lexer.CursorInit("t.cc"), lexer.MacroTable{})
	expr, err := Parse(ml)
	require.NoError(t, err)
	_, err = expr.Eval(NewEnvironment(lexer.MacroTable{}))
	assert.ErrorContains(t, err, "division by zero")
}

func TestEvalModuloByZero(t *testing.T) {
	ml := lexer.NewMacroLexer([]byte("1 % 0"), lexer.CursorInit("t.cc"), lexer.MacroTable{})
	expr, err := Parse(ml)
	require.NoError(t, err)
	_, err = expr.Eval(NewEnvironment(lexer.MacroTable{}))
	assert.ErrorContains(t, err, "modulo by zero")
}

func TestEvalMacroLookup(t *testing.T) {
	macros := lexer.MacroTable{}
	macros.Define("WIDTH", "80")
	macros.Define("FEATURE_X", "")
	v := mustEval(t, "WIDTH + 1", macros)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(81), i)

	assert.True(t, mustEval(t, "FEATURE_X", macros).Truthy())
	assert.False(t, mustEval(t, "UNDEFINED_MACRO", macros).Truthy())
}

func TestEvalDefined(t *testing.T) {
	macros := lexer.MacroTable{}
	macros.Define("FOO", "1")
	assert.True(t, mustEval(t, "defined(FOO)", macros).Truthy())
	assert.False(t, mustEval(t, "defined(BAR)", macros).Truthy())
	assert.True(t, mustEval(t, "!defined(BAR)", macros).Truthy())
}

func TestEvalStringComparison(t *testing.T) {
	v := mustEval(t, `"abc" == "abc"`, lexer.MacroTable{})
	assert.True(t, v.Truthy())
	v = mustEval(t, `"abc" == "def"`, lexer.MacroTable{})
	assert.False(t, v.Truthy())
}

func TestEvalFunctionLikeCallIsTruthy(t *testing.T) {
	v := mustEval(t, "FOO(1, 2)", lexer.MacroTable{})
	assert.True(t, v.Truthy())
}

func TestEvaluateBridgeMatchesCondEvalSignature(t *testing.T) {
	var _ lexer.CondEval = Evaluate
	macros := lexer.MacroTable{}
	macros.Define("FOO", "1")
	ml := lexer.NewMacroLexer([]byte("defined(FOO) && FOO == 1"), lexer.CursorInit("t.cc"), macros)
	ok, err := Evaluate(ml, macros)
	require.NoError(t, err)
	assert.True(t, ok)
}
