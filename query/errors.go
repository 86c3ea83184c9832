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
	"errors"
	"fmt"
)

var (
	ErrInvalidFilterOperator = errors.New("invalid filter operator")
	ErrEmptyFilterValue      = errors.New("empty filter value")
	ErrEmptyFilterField      = errors.New("empty filter field")
	ErrUnknownField          = errors.New("unknown field")
	ErrInvalidPage           = errors.New("invalid page window")
)

// FilterError reports a malformed filter entry.
type FilterError struct {
	Field    string
	Operator string
	Err      error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter on %q with operator %q: %v", e.Field, e.Operator, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// FieldError reports a field that does not belong to the queried table.
type FieldError struct {
	Field  string
	Clause string // projection, filter or sort
	Table  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field %q is not a column of %s", e.Clause, e.Field, e.Table)
}

func (e *FieldError) Unwrap() error { return ErrUnknownField }
