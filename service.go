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

package branchrepo

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/branchrepo/branch"
	"github.com/tomoncle/branchrepo/database"
	"github.com/tomoncle/branchrepo/repository"
	"github.com/tomoncle/branchrepo/types"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// Fetch returns the entities matching q.
	Fetch(ctx context.Context, q *types.Query) ([]*T, error)

	// FetchRecords returns the projected attributes of the entities matching q.
	FetchRecords(ctx context.Context, q *types.Query) ([]types.Record, error)

	// Page returns one page of the entities matching q.
	Page(ctx context.Context, q *types.Query, pageSize, pageNumber int) (*types.Pagination[T], error)

	// Save inserts a new entity, stamping the current branch when scoped.
	Save(ctx context.Context, model *T) (*T, error)

	// Update modifies the given attributes of an existing entity.
	Update(ctx context.Context, attrs types.Attributes, id any) (*T, error)

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) error

	SaveWithTx(ctx context.Context, tx bun.Tx, model *T) (*T, error)
	UpdateWithTx(ctx context.Context, tx bun.Tx, attrs types.Attributes, id any) (*T, error)
	DeleteWithTx(ctx context.Context, tx bun.Tx, id any) error

	// SetBranch fixes the branch used by Save for this service.
	SetBranch(id branch.ID)

	// Repository returns the underlying repository.
	Repository() repository.Repository[T]
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	opts []repository.Option
	once sync.Once
}

// NewService returns a Service over the global database connection. Branch
// ids come from the call context first, then from the process-wide session
// (branch.SetSession), so hosts that track the current branch globally keep
// working.
func NewService[T any](opts ...repository.Option) Service[T] {
	o := []repository.Option{repository.WithBranchSources(branch.ContextSource, branch.SessionSource)}
	return &baseServiceImpl[T]{opts: append(o, opts...)}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](database.GetDB(), s.opts...) })
	return s.repo
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T]) SetBranch(id branch.ID) {
	s.baseRepo().SetBranch(id)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model *T) (*T, error) {
	return s.baseRepo().Create(ctx, model)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().Find(ctx, id)
}

func (s *baseServiceImpl[T]) Fetch(ctx context.Context, q *types.Query) ([]*T, error) {
	return s.baseRepo().Fetch(ctx, q)
}

func (s *baseServiceImpl[T]) FetchRecords(ctx context.Context, q *types.Query) ([]types.Record, error) {
	return s.baseRepo().FetchRecords(ctx, q)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, q *types.Query, pageSize, pageNumber int) (*types.Pagination[T], error) {
	return s.baseRepo().Paginate(ctx, q, pageSize, pageNumber)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, attrs types.Attributes, id any) (*T, error) {
	return s.baseRepo().Update(ctx, attrs, id)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx bun.Tx, model *T) (*T, error) {
	return s.baseRepo().WithTx(tx).Create(ctx, model)
}

func (s *baseServiceImpl[T]) UpdateWithTx(ctx context.Context, tx bun.Tx, attrs types.Attributes, id any) (*T, error) {
	return s.baseRepo().WithTx(tx).Update(ctx, attrs, id)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx bun.Tx, id any) error {
	return s.baseRepo().WithTx(tx).Delete(ctx, id)
}
