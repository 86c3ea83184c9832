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
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/branchrepo/branch"
	"github.com/tomoncle/branchrepo/types"
)

// CrudRepository defines single-record operations for a generic entity type.
type CrudRepository[T any] interface {
	// Create inserts entity, stamping the resolved branch id first when T is
	// branch scoped, and returns it with generated values filled in.
	Create(ctx context.Context, entity *T) (*T, error)

	Find(ctx context.Context, id any) (*T, error)

	// Update writes the given columns of the record with id and returns the
	// stored record. The branch id and primary key are never changed.
	Update(ctx context.Context, attrs types.Attributes, id any) (*T, error)

	Delete(ctx context.Context, id any) error
}

// FetchRepository defines the declarative read operations.
type FetchRepository[T any] interface {
	Fetch(ctx context.Context, q *types.Query) ([]*T, error)

	// FetchRecords returns the same rows as Fetch restricted to the projected
	// fields, in projection order.
	FetchRecords(ctx context.Context, q *types.Query) ([]types.Record, error)

	// Paginate returns one page of q plus the total number of matches.
	// q's own limit and offset are replaced by the page window.
	Paginate(ctx context.Context, q *types.Query, pageSize, pageNumber int) (*types.Pagination[T], error)
}

// BranchRepository configures branch stamping on create.
type BranchRepository interface {
	SetBranchID(id branch.ID)
	SetBranch(id branch.ID)
	BranchID(ctx context.Context) (branch.ID, error)
	Scoped() bool
}

// Repository combines every operation and exposes Bun query builders for
// advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	FetchRepository[T]
	BranchRepository

	// WithTx returns a repository running on tx and sharing the branch override.
	WithTx(tx bun.Tx) Repository[T]

	Dialect() schema.Dialect
	Table() *schema.Table
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
