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

	"github.com/tomoncle/webhookdb/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
// Entities are looked up by their "id" column.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Count(ctx context.Context, filter *types.QueryFilter) (int, error)

	Exists(ctx context.Context, filter *types.QueryFilter) (bool, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// TransactionRepository binds a repository to a transaction.
type TransactionRepository[T any] interface {
	// WithTx returns a repository running every statement on tx.
	WithTx(tx bun.Tx) Repository[T]

	// RunInTx runs fn in a transaction, committing when fn returns nil. A
	// repository already bound to a transaction runs fn on it directly.
	//
	// The transaction holds the only connection of the database handle, so
	// inside fn a repository that is not bound to it blocks forever waiting
	// for that connection. For work across tables open the transaction with
	// bun.DB.RunInTx and bind each repository with WithTx(tx).
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error
}

// Repository combines CRUD, pagination, and transactional operations and
// exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
