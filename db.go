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

// Package webhookdb connects the webhook service to its database and exposes
// the query interface bound to the webhook schema.
package webhookdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomoncle/webhookdb/database"
	"github.com/tomoncle/webhookdb/repository"
	"github.com/tomoncle/webhookdb/schema"
	"github.com/uptrace/bun"
)

// DB is the query interface of the webhook service: the Bun handle bound to
// the webhook schema, with a repository per table.
type DB struct {
	*bun.DB

	Schema *schema.Descriptor

	Endpoints  repository.Repository[schema.Endpoint]
	Events     repository.Repository[schema.Event]
	Deliveries repository.Repository[schema.Delivery]

	manager database.AbstractDatabaseManager
}

var (
	connectMu sync.Mutex
	connected *DB
)

// Open connects to the database described by cfg and returns its query
// interface. The caller owns the result and must Close it.
func Open(ctx context.Context, cfg *database.ConnectionConfig) (*DB, error) {
	manager, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db, err := New(manager)
	if err != nil {
		_ = manager.Disconnect()
		return nil, err
	}
	return db, nil
}

// New wraps an already connected manager.
func New(manager database.AbstractDatabaseManager) (*DB, error) {
	if manager == nil || manager.GetDB() == nil {
		return nil, database.ErrNotConnected
	}
	bdb := manager.GetDB()
	models := schema.Default()
	bdb.RegisterModel(models.Instances()...)

	desc, err := schema.Describe(bdb, models.Models()...)
	if err != nil {
		return nil, fmt.Errorf("describe schema: %w", err)
	}

	return &DB{
		DB:         bdb,
		Schema:     desc,
		Endpoints:  repository.NewRepository[schema.Endpoint](bdb),
		Events:     repository.NewRepository[schema.Event](bdb),
		Deliveries: repository.NewRepository[schema.Delivery](bdb),
		manager:    manager,
	}, nil
}

// Connect returns the process-wide query interface, configured from a .env
// file and DATABASE_URL. The first successful call opens the connection;
// later calls return the same value while the process-wide manager installed
// by database.InitDB is still the one it wraps.
func Connect(ctx context.Context) (*DB, error) {
	connectMu.Lock()
	defer connectMu.Unlock()

	if connected != nil && connected.manager == database.GetDatabaseManager() {
		return connected, nil
	}
	connected = nil

	if err := database.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := database.ConfigFromEnv()
	if _, err := database.InitDB(ctx, &cfg.ConnectionConfig); err != nil {
		return nil, err
	}
	db, err := New(database.GetDatabaseManager())
	if err != nil {
		return nil, err
	}
	connected = db
	return db, nil
}

// Close releases the connection. Closing the process-wide value lets the next
// Connect open a fresh one; a stale value only closes its own manager.
func (db *DB) Close() error {
	connectMu.Lock()
	defer connectMu.Unlock()

	if connected == db {
		connected = nil
	}
	if db.manager == database.GetDatabaseManager() {
		return database.CloseDB()
	}
	return db.manager.Disconnect()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.manager.Ping(ctx)
}

func (db *DB) Stats() *database.DBStats {
	return db.manager.GetStats()
}

// Target describes where the handle is connected, without credentials.
func (db *DB) Target() *database.Target {
	return db.manager.Target()
}
