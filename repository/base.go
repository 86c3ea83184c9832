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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/branchrepo/branch"
	"github.com/tomoncle/branchrepo/database"
	"github.com/tomoncle/branchrepo/query"
	"github.com/tomoncle/branchrepo/types"
)

const updatedAtColumn = "updated_at"

type options struct {
	branchID branch.ID
	sources  []branch.Source
	logger   database.Logger
}

// Option configures NewRepository.
type Option func(*options)

// WithBranchID sets the instance override used by every create.
func WithBranchID(id branch.ID) Option {
	return func(o *options) { o.branchID = id }
}

// WithBranchSources replaces the per-call branch sources. The default is
// branch.ContextSource only.
func WithBranchSources(sources ...branch.Source) Option {
	return func(o *options) { o.sources = sources }
}

func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}

type baseRepositoryImpl[T any] struct {
	db        bun.IDB
	table     *schema.Table
	pk        *schema.Field
	assembler *query.Assembler
	resolver  *branch.Resolver
	scoped    bool
	logger    database.Logger
}

// NewRepository returns a generic repository for the Bun model T. Whether T
// is branch scoped (*T implements branch.Scopable) is decided here, once.
func NewRepository[T any](db bun.IDB, opts ...Option) Repository[T] {
	o := options{sources: []branch.Source{branch.ContextSource}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = database.GetLogger()
	}

	table := db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
	var pk *schema.Field
	if len(table.PKs) == 1 {
		pk = table.PKs[0]
	}
	_, scoped := any(new(T)).(branch.Scopable)

	resolver := branch.NewResolver(o.sources...)
	resolver.SetOverride(o.branchID)

	return &baseRepositoryImpl[T]{
		db:        db,
		table:     table,
		pk:        pk,
		assembler: query.NewAssembler(table, db.Dialect().Name()),
		resolver:  resolver,
		scoped:    scoped,
		logger:    o.logger,
	}
}

func (r *baseRepositoryImpl[T]) WithTx(tx bun.Tx) Repository[T] {
	c := *r
	c.db = &tx
	return &c
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) Table() *schema.Table { return r.table }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

// SetBranchID sets the instance override. Zero clears it.
func (r *baseRepositoryImpl[T]) SetBranchID(id branch.ID) { r.resolver.SetOverride(id) }

func (r *baseRepositoryImpl[T]) SetBranch(id branch.ID) { r.SetBranchID(id) }

func (r *baseRepositoryImpl[T]) BranchID(ctx context.Context) (branch.ID, error) {
	return r.resolver.Resolve(ctx)
}

func (r *baseRepositoryImpl[T]) Scoped() bool { return r.scoped }

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	if r.scoped {
		id, err := r.resolver.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", r.table.Name, err)
		}
		any(entity).(branch.Scopable).SetBranchID(id)
		r.logger.Debug("Branch id stamped", "table", r.table.Name, "branch_id", id)
	}

	q := r.db.NewInsert().Model(entity)
	if r.db.Dialect().Features().Has(feature.InsertReturning) {
		q = q.Returning("*")
	}
	if _, err := q.Exec(ctx); err != nil {
		return nil, newStorageError("create", r.table.Name, ErrStorageWrite, err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, id any) (*T, error) {
	if r.pk == nil {
		return nil, fmt.Errorf("find %s: %w", r.table.Name, ErrNoPrimaryKey)
	}
	entity := new(T)
	err := r.db.NewSelect().
		Model(entity).
		Where("? = ?", bun.Ident(r.pk.Name), id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s=%v", ErrNotFound, r.table.Name, r.pk.Name, id)
	}
	if err != nil {
		return nil, newStorageError("find", r.table.Name, ErrStorageRead, err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, attrs types.Attributes, id any) (*T, error) {
	if r.pk == nil {
		return nil, fmt.Errorf("update %s: %w", r.table.Name, ErrNoPrimaryKey)
	}
	values, err := r.updateValues(attrs)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		_, err := r.db.NewUpdate().
			Model(&values).
			TableExpr("?", r.table.SQLName).
			Where("? = ?", bun.Ident(r.pk.Name), id).
			Exec(ctx)
		if err != nil {
			return nil, newStorageError("update", r.table.Name, ErrStorageWrite, err)
		}
	}
	// re-read: rows affected is not reliable on MySQL when nothing changed
	return r.Find(ctx, id)
}

// updateValues validates attrs against the table. The branch column and the
// primary key are dropped; updated_at is stamped unless given.
func (r *baseRepositoryImpl[T]) updateValues(attrs types.Attributes) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(attrs)+1)
	for column, value := range attrs {
		if _, ok := r.table.FieldMap[column]; !ok {
			return nil, &query.FieldError{Field: column, Clause: "update", Table: r.table.Name}
		}
		if column == branch.Column || column == r.pk.Name {
			r.logger.Debug("Update column ignored", "table", r.table.Name, "column", column)
			continue
		}
		values[column] = value
	}
	if len(values) == 0 {
		return values, nil
	}
	if _, ok := r.table.FieldMap[updatedAtColumn]; ok {
		if _, set := values[updatedAtColumn]; !set {
			values[updatedAtColumn] = time.Now()
		}
	}
	return values, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	if r.pk == nil {
		return fmt.Errorf("delete %s: %w", r.table.Name, ErrNoPrimaryKey)
	}
	res, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(r.pk.Name), id).
		Exec(ctx)
	if err != nil {
		return newStorageError("delete", r.table.Name, ErrStorageWrite, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s %s=%v", ErrNotFound, r.table.Name, r.pk.Name, id)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Fetch(ctx context.Context, q *types.Query) ([]*T, error) {
	plan, err := r.assembler.Assemble(q)
	if err != nil {
		return nil, err
	}
	return r.scan(ctx, plan)
}

func (r *baseRepositoryImpl[T]) scan(ctx context.Context, plan *query.Plan) ([]*T, error) {
	entities := make([]*T, 0)
	if err := plan.Apply(r.db.NewSelect().Model(&entities)).Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, newStorageError("fetch", r.table.Name, ErrStorageRead, err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FetchRecords(ctx context.Context, q *types.Query) ([]types.Record, error) {
	plan, err := r.assembler.Assemble(q)
	if err != nil {
		return nil, err
	}
	entities, err := r.scan(ctx, plan)
	if err != nil {
		return nil, err
	}

	fields := r.table.Fields
	if columns := plan.Columns(); columns != nil {
		fields = make([]*schema.Field, len(columns))
		for i, c := range columns {
			fields[i] = r.table.FieldMap[c]
		}
	}

	records := make([]types.Record, len(entities))
	for i, e := range entities {
		v := reflect.ValueOf(e).Elem()
		rec := types.NewRecord(len(fields))
		for _, f := range fields {
			rec.Set(f.Name, f.Value(v).Interface())
		}
		records[i] = rec
	}
	return records, nil
}

func (r *baseRepositoryImpl[T]) Paginate(ctx context.Context, q *types.Query, pageSize, pageNumber int) (*types.Pagination[T], error) {
	if pageSize < 1 || pageNumber < 1 {
		return nil, fmt.Errorf("%w: page size %d, page number %d", ErrInvalidPage, pageSize, pageNumber)
	}
	page := types.NewPageRequest(pageNumber, pageSize)
	plan, err := r.assembler.Assemble(page.Apply(q))
	if err != nil {
		return nil, err
	}

	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := plan.ApplyFilter(r.db.NewSelect().Model((*T)(nil))).Count(ctx)
	if err != nil {
		return nil, newStorageError("count", r.table.Name, ErrStorageRead, err)
	}
	pagination.SetTotal(total)
	if total == 0 {
		return pagination, nil
	}

	entities, err := r.scan(ctx, plan)
	if err != nil {
		return nil, err
	}
	pagination.Items = entities
	return pagination, nil
}
