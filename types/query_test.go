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
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	var unset Optional[int]
	_, ok := unset.Get()
	assert.False(t, ok)
	assert.False(t, unset.IsSet())
	assert.Equal(t, 7, unset.OrElse(7))
	assert.False(t, None[string]().IsSet())

	zero := Some(0)
	v, ok := zero.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 0, zero.OrElse(7))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("ASC")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)

	d, err = ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Desc, d)
	assert.Equal(t, "DESC", d.Desc())

	_, err = ParseDirection("up")
	assert.True(t, errors.Is(err, ErrInvalidSortDirection))
}

func TestSortBy(t *testing.T) {
	spec, err := SortBy("name", "asc", "xp", "desc")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{{Field: "name", Direction: Asc}, {Field: "xp", Direction: Desc}}, spec)
	assert.True(t, spec.Has("xp"))
	assert.False(t, spec.Has("id"))

	_, err = SortBy("name")
	assert.ErrorIs(t, err, ErrInvalidSortDirection)

	_, err = SortBy("name", "sideways")
	assert.ErrorIs(t, err, ErrInvalidSortDirection)

	assert.Panics(t, func() { MustSortBy("name", "sideways") })
}

func TestQueryBuilder(t *testing.T) {
	q := NewQuery().
		Select("username", "xp").
		Where(FilterSpec{"xp": {"=": 352}}).
		OrderBy(MustSortBy("name", "asc")).
		WithLimit(2).
		WithOffset(1)

	projection, ok := q.Projection.Get()
	require.True(t, ok)
	assert.Equal(t, Projection{"username", "xp"}, projection)
	assert.True(t, q.Filter.IsSet())
	assert.True(t, q.Sort.IsSet())
	assert.Equal(t, 2, q.Limit.OrElse(0))
	assert.Equal(t, 1, q.Offset.OrElse(0))

	c := q.Clone()
	c.WithLimit(5)
	assert.Equal(t, 2, q.Limit.OrElse(0))
	assert.Equal(t, 5, c.Limit.OrElse(0))

	var nilQuery *Query
	assert.NotNil(t, nilQuery.Clone())
}

func TestPageRequest(t *testing.T) {
	p := NewPageRequest(3, 2)
	assert.Equal(t, 4, p.GetOffset())

	p = NewPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, DefaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	q := NewQuery().WithLimit(100)
	paged := NewPageRequest(2, 5).Apply(q)
	assert.Equal(t, 5, paged.Limit.OrElse(0))
	assert.Equal(t, 5, paged.Offset.OrElse(0))
	assert.Equal(t, 100, q.Limit.OrElse(0))
	assert.False(t, q.Offset.IsSet())
}

func TestPaginationSetTotal(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 2)
	assert.NotNil(t, p.Items)
	p.SetTotal(5)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.Pages)
	p.SetTotal(0)
	assert.Equal(t, 0, p.Pages)
}

func TestRecord(t *testing.T) {
	r := NewRecord(2)
	r.Set("username", "mark")
	r.Set("xp", 172)
	r.Set("username", "markii1607")

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"username", "xp"}, r.Keys())
	assert.Equal(t, []interface{}{"markii1607", 172}, r.Values())
	v, ok := r.Get("xp")
	assert.True(t, ok)
	assert.Equal(t, 172, v)
	_, ok = r.Get("name")
	assert.False(t, ok)
	assert.Equal(t, Attributes{"username": "markii1607", "xp": 172}, r.Attributes())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"markii1607","xp":172}`, string(b))

	var empty Record
	empty.Set("a", nil)
	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{"a":null}`, string(b))
}
