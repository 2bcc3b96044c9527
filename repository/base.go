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
	"fmt"
	"strings"

	"github.com/tomoncle/webhookdb/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db   *bun.DB
	idb  bun.IDB
	inTx bool
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db, idb: db}
}

func (r *baseRepositoryImpl[T]) WithTx(tx bun.Tx) Repository[T] {
	return &baseRepositoryImpl[T]{db: r.db, idb: tx, inTx: true}
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, r.WithTx(tx))
	})
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.idb.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.idb.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.idb.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.idb.NewDelete() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	entity := new(T)
	if err := r.idb.NewSelect().Model(entity).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.List(ctx, nil)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.filtered(r.idb.NewSelect().Model(&entities), filter).Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return r.List(ctx, types.NewQueryFilter(query, args...))
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	return r.filtered(r.idb.NewSelect().Model((*T)(nil)), filter).Count(ctx)
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, filter *types.QueryFilter) (bool, error) {
	return r.filtered(r.idb.NewSelect().Model((*T)(nil)), filter).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())

	total, err := r.Count(ctx, page.GetFilter())
	if err != nil || total == 0 {
		return pagination, err
	}

	entities := make([]*T, 0, page.GetPageSize())
	err = r.filtered(r.idb.NewSelect().Model(&entities), page.GetFilter()).
		Order(page.GetOrders()...).
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := r.toSlice(entity)
	_, err := r.idb.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.idb.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	_, err := r.idb.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// Upsert inserts entities, updating fields on rows that collide on
// conflictKeys ("id" when empty). MySQL ignores conflictKeys and uses every
// unique key of the table.
func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := r.toSlice(entity)
	features := r.db.Dialect().Features()

	switch {
	case features.Has(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, fields, conflictKeys, entities)
	case features.Has(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, fields, entities)
	default:
		return r.upsertFallback(ctx, entities)
	}
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, fields []string, conflictKeys []string, entities []*T) error {
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	placeholders := make([]string, len(conflictKeys))
	keys := make([]interface{}, len(conflictKeys))
	for i, k := range conflictKeys {
		placeholders[i] = "?"
		keys[i] = bun.Ident(k)
	}

	q := r.idb.NewInsert().
		Model(&entities).
		On("CONFLICT ("+strings.Join(placeholders, ", ")+") DO UPDATE", keys...)
	for _, f := range fields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(f), bun.Ident(f))
	}
	_, err := q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, fields []string, entities []*T) error {
	q := r.idb.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE")
	for _, f := range fields {
		q = q.Set("? = VALUES(?)", bun.Ident(f), bun.Ident(f))
	}
	_, err := q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		if _, err := r.idb.NewInsert().Model(entity).Exec(ctx); err != nil {
			if _, updateErr := r.idb.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed: insert error: %v, update error: %w", err, updateErr)
			}
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) filtered(q *bun.SelectQuery, filter *types.QueryFilter) *bun.SelectQuery {
	if filter != nil && filter.Schema != "" {
		q = q.Where(filter.Schema, filter.Args...)
	}
	return q
}

func (r *baseRepositoryImpl[T]) toSlice(entity []*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}
