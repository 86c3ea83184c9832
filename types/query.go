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

// Projection is the ordered list of fields returned for each record.
type Projection []string

// Query describes a fetch: projection, filter, sort and a limit/offset window.
// Each part is independently optional; the zero Query selects every record
// with every field.
type Query struct {
	Projection Optional[Projection]
	Filter     Optional[FilterSpec]
	Sort       Optional[SortSpec]
	Limit      Optional[int]
	Offset     Optional[int]
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Select sets the projection.
func (q *Query) Select(fields ...string) *Query {
	q.Projection = Some(Projection(fields))
	return q
}

// Where sets the filter.
func (q *Query) Where(filter FilterSpec) *Query {
	q.Filter = Some(filter)
	return q
}

// OrderBy sets the sort order.
func (q *Query) OrderBy(sort SortSpec) *Query {
	q.Sort = Some(sort)
	return q
}

func (q *Query) WithLimit(limit int) *Query {
	q.Limit = Some(limit)
	return q
}

func (q *Query) WithOffset(offset int) *Query {
	q.Offset = Some(offset)
	return q
}

// Clone returns a shallow copy of the query; specs are shared.
func (q *Query) Clone() *Query {
	if q == nil {
		return NewQuery()
	}
	c := *q
	return &c
}
