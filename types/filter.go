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
	"reflect"
	"sort"
)

// Operator is the closed set of comparison operators a filter may use.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpLt
	OpGte
	OpLte
)

var operators = []Operator{OpEq, OpNe, OpGt, OpLt, OpGte, OpLte}

var operatorSymbols = map[Operator]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpGt:  ">",
	OpLt:  "<",
	OpGte: ">=",
	OpLte: "<=",
}

var operatorNames = map[Operator]string{
	OpEq:  "eq",
	OpNe:  "ne",
	OpGt:  "gt",
	OpLt:  "lt",
	OpGte: "gte",
	OpLte: "lte",
}

var operatorDescs = map[Operator]string{
	OpEq:  "equal to (any of)",
	OpNe:  "not equal to (any of)",
	OpGt:  "greater than",
	OpLt:  "less than",
	OpGte: "greater than or equal to",
	OpLte: "less than or equal to",
}

var _ BaseEnum = OpEq

// Operators returns every supported operator in evaluation order.
func Operators() []Operator {
	out := make([]Operator, len(operators))
	copy(out, operators)
	return out
}

// ParseOperator maps one of the exact symbols "=", "!=", ">", "<", ">=",
// "<=" to an Operator. Names and padded symbols are not accepted.
func ParseOperator(s string) (Operator, bool) {
	for _, op := range operators {
		if operatorSymbols[op] == s {
			return op, true
		}
	}
	return Operator(IllegalValue), false
}

func (o Operator) IsValid() bool {
	_, ok := operatorSymbols[o]
	return ok
}

func (o Operator) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

// String returns the operator symbol.
func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return IllegalName
}

func (o Operator) Name() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return IllegalName
}

func (o Operator) Desc() string {
	if s, ok := operatorDescs[o]; ok {
		return s
	}
	return IllegalDesc
}

// Ordering reports whether the operator is one of > < >= <=.
func (o Operator) Ordering() bool {
	return o == OpGt || o == OpLt || o == OpGte || o == OpLte
}

// OperatorMap maps an operator symbol to a scalar value or a slice of values.
type OperatorMap map[string]any

// FilterSpec maps a field name to the operators applied to it. Every
// field/operator pair is combined with AND.
//
//	types.FilterSpec{"xp": {"=": []int{352, 57}}, "name": {"!=": "mark"}}
type FilterSpec map[string]OperatorMap

// Condition is one parsed field/operator entry of a FilterSpec.
type Condition struct {
	Field    string
	Op       Operator
	Symbol   string
	Values   []any
	List     bool
	Resolved bool
}

// Conditions flattens the filter into conditions ordered by field name and then
// by operator. Operators are not validated here; unknown symbols come back
// with Resolved=false so the compiler can report them with their field.
func (f FilterSpec) Conditions() []Condition {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var conds []Condition
	for _, field := range fields {
		ops := f[field]
		symbols := make([]string, 0, len(ops))
		for symbol := range ops {
			symbols = append(symbols, symbol)
		}
		sort.Slice(symbols, func(i, j int) bool {
			oi, _ := ParseOperator(symbols[i])
			oj, _ := ParseOperator(symbols[j])
			if oi != oj {
				return uint(oi) < uint(oj)
			}
			return symbols[i] < symbols[j]
		})
		for _, symbol := range symbols {
			op, ok := ParseOperator(symbol)
			values, list := ValueList(ops[symbol])
			conds = append(conds, Condition{
				Field:    field,
				Op:       op,
				Symbol:   symbol,
				Values:   values,
				List:     list,
				Resolved: ok,
			})
		}
	}
	return conds
}

// Cond builds a resolved condition. A single value is treated as a scalar,
// more than one as a list.
func Cond(field string, op Operator, values ...any) Condition {
	return Condition{
		Field:    field,
		Op:       op,
		Symbol:   op.String(),
		Values:   values,
		List:     len(values) != 1,
		Resolved: op.IsValid(),
	}
}

// ValueList normalizes a filter value. Slices and arrays (other than []byte)
// are expanded element by element and reported as lists.
func ValueList(v any) ([]any, bool) {
	if v == nil {
		return []any{nil}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{v}, false
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return []any{v}, false
	}
}
