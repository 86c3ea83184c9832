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

package query

import (
	"github.com/tomoncle/branchrepo/types"

	"github.com/uptrace/bun"
)

// Clause is a single WHERE expression in Bun placeholder syntax.
type Clause struct {
	Query string
	Args  []interface{}
}

// Predicate is a conjunction of clauses compiled from a filter spec.
type Predicate struct {
	clauses []Clause
	fields  []string
}

// Compile parses and compiles a filter spec. A nil or empty spec yields an
// empty predicate that matches every row.
func Compile(spec types.FilterSpec) (*Predicate, error) {
	return CompileConditions(spec.Conditions()...)
}

// CompileConditions compiles already parsed conditions.
func CompileConditions(conds ...types.Condition) (*Predicate, error) {
	p := &Predicate{}
	seen := make(map[string]struct{})
	for _, c := range conds {
		if c.Field == "" {
			return nil, &FilterError{Field: c.Field, Operator: c.Symbol, Err: ErrEmptyFilterField}
		}
		if !c.Resolved || !c.Op.IsValid() {
			return nil, &FilterError{Field: c.Field, Operator: c.Symbol, Err: ErrInvalidFilterOperator}
		}
		clauses, err := compileCondition(c)
		if err != nil {
			return nil, err
		}
		p.clauses = append(p.clauses, clauses...)
		if _, ok := seen[c.Field]; !ok {
			seen[c.Field] = struct{}{}
			p.fields = append(p.fields, c.Field)
		}
	}
	return p, nil
}

func compileCondition(c types.Condition) ([]Clause, error) {
	if len(c.Values) == 0 {
		return nil, &FilterError{Field: c.Field, Operator: c.Op.String(), Err: ErrEmptyFilterValue}
	}
	col := bun.Ident(c.Field)

	switch c.Op {
	case types.OpEq:
		if c.List {
			values, hasNil := splitNil(c.Values)
			switch {
			case len(values) == 0:
				return []Clause{{Query: "? IS NULL", Args: []interface{}{col}}}, nil
			case hasNil:
				return []Clause{{Query: "(? IN (?) OR ? IS NULL)", Args: []interface{}{col, bun.In(values), col}}}, nil
			}
			return []Clause{{Query: "? IN (?)", Args: []interface{}{col, bun.In(values)}}}, nil
		}
		if c.Values[0] == nil {
			return []Clause{{Query: "? IS NULL", Args: []interface{}{col}}}, nil
		}
		return []Clause{{Query: "? = ?", Args: []interface{}{col, c.Values[0]}}}, nil
	case types.OpNe:
		if c.List {
			values, hasNil := splitNil(c.Values)
			clauses := make([]Clause, 0, 2)
			if len(values) > 0 {
				clauses = append(clauses, Clause{Query: "? NOT IN (?)", Args: []interface{}{col, bun.In(values)}})
			}
			if hasNil {
				clauses = append(clauses, Clause{Query: "? IS NOT NULL", Args: []interface{}{col}})
			}
			return clauses, nil
		}
		if c.Values[0] == nil {
			return []Clause{{Query: "? IS NOT NULL", Args: []interface{}{col}}}, nil
		}
		return []Clause{{Query: "? <> ?", Args: []interface{}{col, c.Values[0]}}}, nil
	default:
		// one comparison per value, all ANDed
		expr := "? " + c.Op.String() + " ?"
		clauses := make([]Clause, 0, len(c.Values))
		for _, v := range c.Values {
			clauses = append(clauses, Clause{Query: expr, Args: []interface{}{col, v}})
		}
		return clauses, nil
	}
}

// splitNil removes nil from a value list; bun.In cannot render it.
func splitNil(values []any) ([]any, bool) {
	out := make([]any, 0, len(values))
	hasNil := false
	for _, v := range values {
		if v == nil {
			hasNil = true
			continue
		}
		out = append(out, v)
	}
	return out, hasNil
}

// Apply adds every clause to q as an ANDed WHERE condition.
func (p *Predicate) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if p == nil {
		return q
	}
	for _, c := range p.clauses {
		q = q.Where(c.Query, c.Args...)
	}
	return q
}

// Clauses returns a copy of the compiled clauses.
func (p *Predicate) Clauses() []Clause {
	if p == nil {
		return nil
	}
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// Fields returns the filtered field names in first-seen order.
func (p *Predicate) Fields() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

func (p *Predicate) Empty() bool {
	return p == nil || len(p.clauses) == 0
}
