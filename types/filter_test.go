/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperator(t *testing.T) {
	cases := map[string]Operator{
		"=":  OpEq,
		"!=": OpNe,
		">":  OpGt,
		"<":  OpLt,
		">=": OpGte,
		"<=": OpLte,
	}
	for symbol, want := range cases {
		got, ok := ParseOperator(symbol)
		require.True(t, ok, symbol)
		assert.Equal(t, want, got, symbol)
	}

	for _, bad := range []string{"", "==", "=>", "<>", "like", "in", "eq", "EQ", "gte", " >= ", "= "} {
		op, ok := ParseOperator(bad)
		assert.False(t, ok, bad)
		assert.False(t, op.IsValid(), bad)
	}
}

func TestOperatorEnum(t *testing.T) {
	assert.Len(t, Operators(), 6)
	for _, op := range Operators() {
		assert.True(t, op.IsValid())
		assert.NotEqual(t, IllegalName, op.String())
		assert.NotEqual(t, IllegalDesc, op.Desc())
	}
	assert.Equal(t, ">=", OpGte.String())
	assert.Equal(t, "gte", OpGte.Name())
	assert.True(t, OpLt.Ordering())
	assert.False(t, OpNe.Ordering())
	assert.Equal(t, IllegalValue, Operator(42).Number())
	assert.Equal(t, IllegalName, Operator(42).String())
}

func TestValueList(t *testing.T) {
	values, list := ValueList(352)
	assert.False(t, list)
	assert.Equal(t, []any{352}, values)

	values, list = ValueList([]int{352, 57})
	assert.True(t, list)
	assert.Equal(t, []any{352, 57}, values)

	values, list = ValueList([2]string{"a", "b"})
	assert.True(t, list)
	assert.Equal(t, []any{"a", "b"}, values)

	values, list = ValueList([]byte("raw"))
	assert.False(t, list)
	assert.Equal(t, []any{[]byte("raw")}, values)

	values, list = ValueList(nil)
	assert.False(t, list)
	assert.Equal(t, []any{nil}, values)

	values, list = ValueList([]any{})
	assert.True(t, list)
	assert.Empty(t, values)
}

func TestFilterSpecConditions(t *testing.T) {
	spec := FilterSpec{
		"xp":   {"<=": 400, "=": []int{352, 57}},
		"name": {"!=": "mark"},
		"age":  {"~": 1},
	}
	conds := spec.Conditions()
	require.Len(t, conds, 4)

	assert.Equal(t, "age", conds[0].Field)
	assert.False(t, conds[0].Resolved)
	assert.Equal(t, "~", conds[0].Symbol)

	assert.Equal(t, "name", conds[1].Field)
	assert.Equal(t, OpNe, conds[1].Op)
	assert.False(t, conds[1].List)
	assert.Equal(t, []any{"mark"}, conds[1].Values)

	assert.Equal(t, "xp", conds[2].Field)
	assert.Equal(t, OpEq, conds[2].Op)
	assert.True(t, conds[2].List)
	assert.Equal(t, []any{352, 57}, conds[2].Values)

	assert.Equal(t, OpLte, conds[3].Op)
	assert.True(t, conds[3].Resolved)
}

func TestFilterSpecConditionsEmpty(t *testing.T) {
	assert.Empty(t, FilterSpec(nil).Conditions())
	assert.Empty(t, FilterSpec{}.Conditions())
}

func TestCond(t *testing.T) {
	c := Cond("xp", OpGt, 100)
	assert.True(t, c.Resolved)
	assert.False(t, c.List)
	assert.Equal(t, ">", c.Symbol)

	c = Cond("xp", OpEq, 1, 2)
	assert.True(t, c.List)
	assert.Len(t, c.Values, 2)

	c = Cond("xp", Operator(99), 1)
	assert.False(t, c.Resolved)
}
