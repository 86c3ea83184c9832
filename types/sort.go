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
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSortDirection is returned for a direction other than asc/desc.
var ErrInvalidSortDirection = errors.New("invalid sort direction")

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

var directions = []Direction{Asc, Desc}

var _ BaseEnum = Asc

// ParseDirection parses "asc" or "desc", ignoring case.
func ParseDirection(s string) (Direction, error) {
	d, ok := LookupEnum(directions, strings.ToLower(s))
	if !ok {
		return Direction(IllegalValue), fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
	}
	return d, nil
}

func (d Direction) IsValid() bool { return d == Asc || d == Desc }

func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return IllegalName
	}
}

func (d Direction) Name() string { return d.String() }

// Desc returns the SQL keyword.
func (d Direction) Desc() string {
	switch d {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	default:
		return IllegalDesc
	}
}

// SortField is one entry of a SortSpec.
type SortField struct {
	Field     string
	Direction Direction
}

// SortSpec is an ordered list of sort fields; the first entry is the primary
// sort key.
type SortSpec []SortField

// SortBy builds a SortSpec from "field", "direction" pairs:
//
//	types.SortBy("name", "asc", "xp", "desc")
func SortBy(pairs ...string) (SortSpec, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of sort arguments", ErrInvalidSortDirection)
	}
	spec := make(SortSpec, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		d, err := ParseDirection(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("sort field %q: %w", pairs[i], err)
		}
		spec = append(spec, SortField{Field: pairs[i], Direction: d})
	}
	return spec, nil
}

// MustSortBy is SortBy that panics on malformed input.
func MustSortBy(pairs ...string) SortSpec {
	spec, err := SortBy(pairs...)
	if err != nil {
		panic(err)
	}
	return spec
}

// Has reports whether field is already part of the spec.
func (s SortSpec) Has(field string) bool {
	for _, f := range s {
		if f.Field == field {
			return true
		}
	}
	return false
}
