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

package repository

import (
	"errors"
	"fmt"

	"github.com/tomoncle/branchrepo/branch"
	"github.com/tomoncle/branchrepo/database"
	"github.com/tomoncle/branchrepo/query"
	"github.com/tomoncle/branchrepo/types"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrStorageWrite    = errors.New("storage write failed")
	ErrStorageRead     = errors.New("storage read failed")
	ErrNilEntity       = errors.New("nil entity")
	ErrNoPrimaryKey    = errors.New("model has no primary key")
	ErrNoBranchContext = branch.ErrNoContext

	ErrInvalidFilterOperator = query.ErrInvalidFilterOperator
	ErrEmptyFilterValue      = query.ErrEmptyFilterValue
	ErrEmptyFilterField      = query.ErrEmptyFilterField
	ErrUnknownField          = query.ErrUnknownField
	ErrInvalidPage           = query.ErrInvalidPage
	ErrInvalidSortDirection  = types.ErrInvalidSortDirection
)

// StorageError wraps a driver failure. It matches ErrStorageWrite or
// ErrStorageRead and the driver error with errors.Is.
type StorageError struct {
	Op    string
	Table string
	Kind  database.SQLError
	Class error
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v (%s): %v", e.Op, e.Table, e.Class, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{e.Class, e.Err} }

func newStorageError(op, table string, class, err error) *StorageError {
	_, kind := database.IsSqlError(err)
	return &StorageError{Op: op, Table: table, Kind: kind, Class: class, Err: err}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
