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
	"fmt"
	"math"

	"github.com/tomoncle/branchrepo/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// Assembler turns a types.Query into a Plan for one Bun table.
type Assembler struct {
	table   *schema.Table
	dialect dialect.Name
}

// NewAssembler returns an assembler validating fields against table.
func NewAssembler(table *schema.Table, name dialect.Name) *Assembler {
	return &Assembler{table: table, dialect: name}
}

// Plan is an assembled select: projection, predicate, order and window.
type Plan struct {
	columns   []string
	predicate *Predicate
	orders    []types.SortField
	limit     types.Optional[int]
	offset    types.Optional[int]
	dialect   dialect.Name
}

// Assemble validates q and builds its plan. A nil query selects everything.
func (a *Assembler) Assemble(q *types.Query) (*Plan, error) {
	if q == nil {
		q = types.NewQuery()
	}
	plan := &Plan{dialect: a.dialect, limit: q.Limit, offset: q.Offset}

	if projection, ok := q.Projection.Get(); ok {
		seen := make(map[string]struct{}, len(projection))
		for _, field := range projection {
			if err := a.checkField(field, "projection"); err != nil {
				return nil, err
			}
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			plan.columns = append(plan.columns, field)
		}
	}

	if filter, ok := q.Filter.Get(); ok {
		predicate, err := Compile(filter)
		if err != nil {
			return nil, err
		}
		for _, field := range predicate.Fields() {
			if err := a.checkField(field, "filter"); err != nil {
				return nil, err
			}
		}
		plan.predicate = predicate
	}

	if sort, ok := q.Sort.Get(); ok {
		for _, s := range sort {
			if err := a.checkField(s.Field, "sort"); err != nil {
				return nil, err
			}
			if !s.Direction.IsValid() {
				return nil, fmt.Errorf("sort field %q: %w", s.Field, types.ErrInvalidSortDirection)
			}
			plan.orders = append(plan.orders, s)
		}
	}
	plan.orders = a.withTieBreak(plan.orders)

	if limit, ok := q.Limit.Get(); ok && limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPage, limit)
	}
	if offset, ok := q.Offset.Get(); ok && offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidPage, offset)
	}
	return plan, nil
}

// PageQuery windows q to the given page: offset (pageNumber-1)*pageSize and
// limit pageSize. Out of range values use the PageRequest defaults.
func PageQuery(q *types.Query, pageSize, pageNumber int) *types.Query {
	return types.NewPageRequest(pageNumber, pageSize).Apply(q)
}

// withTieBreak appends the primary key so equal sort keys, and the default
// order, come back the same way on every execution.
func (a *Assembler) withTieBreak(orders []types.SortField) []types.SortField {
	if a.table == nil {
		return orders
	}
	for _, pk := range a.table.PKs {
		if types.SortSpec(orders).Has(pk.Name) {
			continue
		}
		orders = append(orders, types.SortField{Field: pk.Name, Direction: types.Asc})
	}
	return orders
}

func (a *Assembler) checkField(field, clause string) error {
	if a.table == nil {
		return nil
	}
	if _, ok := a.table.FieldMap[field]; !ok {
		return &FieldError{Field: field, Clause: clause, Table: a.table.Name}
	}
	return nil
}

// Apply builds the full select: columns, where, order, offset and limit.
func (p *Plan) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if len(p.columns) > 0 {
		q = q.Column(p.columns...)
	}
	q = p.ApplyFilter(q)
	for _, o := range p.orders {
		q = q.OrderExpr("? "+o.Direction.Desc(), bun.Ident(o.Field))
	}

	limit, hasLimit := p.limit.Get()
	if offset, ok := p.offset.Get(); ok && offset > 0 {
		q = q.Offset(offset)
		if !hasLimit {
			limit, hasLimit = p.unbounded()
		}
	}
	if hasLimit {
		q = q.Limit(limit)
	}
	return q
}

// ApplyFilter adds only the where clauses; used for counting.
func (p *Plan) ApplyFilter(q *bun.SelectQuery) *bun.SelectQuery {
	return p.predicate.Apply(q)
}

// Columns returns the projected columns in order, or nil for all columns.
func (p *Plan) Columns() []string {
	if len(p.columns) == 0 {
		return nil
	}
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}

// Orders returns the effective order, tie-break included.
func (p *Plan) Orders() []types.SortField {
	out := make([]types.SortField, len(p.orders))
	copy(out, p.orders)
	return out
}

func (p *Plan) Predicate() *Predicate { return p.predicate }

// unbounded returns the limit some dialects need before an OFFSET. Bun drops
// negative limits, so SQLite gets the largest int instead of -1.
func (p *Plan) unbounded() (int, bool) {
	switch p.dialect {
	case dialect.SQLite, dialect.MySQL:
		return math.MaxInt, true
	default:
		return 0, false
	}
}
