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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

type defaultDatabaseManager struct {
	config    *ConnectionConfig
	target    *Target
	db        *bun.DB
	sqlDB     *sql.DB
	logger    Logger
	mu        sync.RWMutex
	connected bool
}

// NewDatabaseManager returns a manager for config. Nothing is opened until
// Connect. A nil config falls back to DefaultConnectionConfig, which has no URL.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{
		config: config,
		logger: GetLogger(),
	}
}

// Open creates a manager for cfg and connects it. The returned manager is
// always connected; on error nothing stays open.
func Open(ctx context.Context, cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	manager := NewDatabaseManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	return manager, nil
}

func (dm *defaultDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.connected && dm.db != nil {
		return nil
	}

	target, err := ParseConnectionURL(dm.config.URL, dm.config.PostgresDriver)
	if err != nil {
		return err
	}

	sqlDB, db, err := dm.createConnection(target)
	if err != nil {
		return &ConnectError{Target: target.String(), Err: err}
	}
	pinSingleConnection(sqlDB)

	pingCtx := ctx
	if dm.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, dm.config.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		if dm.logger != nil {
			dm.logger.Error("Database connection failed", "target", target.String(), "error", err)
		}
		return &ConnectError{Target: target.String(), Err: err}
	}

	dm.target = target
	dm.sqlDB = sqlDB
	dm.db = db
	dm.connected = true

	if dm.logger != nil {
		dm.logger.Info("Database connected successfully",
			"dialect", target.Dialect,
			"driver", target.DriverName,
			"host", target.Host,
			"database", target.Database,
		)
	}
	return nil
}

func (dm *defaultDatabaseManager) createConnection(target *Target) (*sql.DB, *bun.DB, error) {
	var dialect schema.Dialect
	switch target.Dialect {
	case DialectPostgres:
		dialect = pgdialect.New()
	case DialectMySQL:
		dialect = mysqldialect.New()
	case DialectSQLite:
		dialect = sqlitedialect.New()
	default:
		return nil, nil, fmt.Errorf("unsupported database dialect: %s", target.Dialect)
	}

	sqlDB, err := sql.Open(target.DriverName, target.DSN)
	if err != nil {
		return nil, nil, err
	}
	db := bun.NewDB(sqlDB, dialect)

	w := dm.queryLogWriter()
	db.AddQueryHook(newQueryLogHook(dm.config, w))
	if dm.config.SlowQueryTime > 0 {
		db.AddQueryHook(NewSlowQueryHook(dm.config.SlowQueryTime, w, dm.logger))
	}
	return sqlDB, db, nil
}

func (dm *defaultDatabaseManager) queryLogWriter() io.Writer {
	if dm.config.QueryLogWriter != nil {
		return dm.config.QueryLogWriter
	}
	return os.Stdout
}

// pinSingleConnection keeps exactly one connection open; concurrent callers
// queue on it inside database/sql.
func pinSingleConnection(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
}

func (dm *defaultDatabaseManager) Disconnect() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.db == nil {
		return nil
	}
	err := dm.db.Close()
	dm.db = nil
	dm.sqlDB = nil
	dm.connected = false

	if dm.logger != nil {
		if err != nil {
			dm.logger.Error("Failed to close database connection", "error", err)
		} else {
			dm.logger.Info("Database connection closed")
		}
	}
	return err
}

func (dm *defaultDatabaseManager) Ping(ctx context.Context) error {
	dm.mu.RLock()
	db := dm.db
	dm.mu.RUnlock()

	if db == nil {
		return ErrNotConnected
	}
	return db.PingContext(ctx)
}

func (dm *defaultDatabaseManager) Connected() bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.connected
}

func (dm *defaultDatabaseManager) Target() *Target {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.target
}

func (dm *defaultDatabaseManager) GetDB() *bun.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.db
}

func (dm *defaultDatabaseManager) GetSQLDB() *sql.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.sqlDB
}

func (dm *defaultDatabaseManager) GetStats() *DBStats {
	dm.mu.RLock()
	sqlDB := dm.sqlDB
	dm.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}

	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns: stats.MaxOpenConnections,
		OpenConns:    stats.OpenConnections,
		InUse:        stats.InUse,
		Idle:         stats.Idle,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration,
	}
}

func (dm *defaultDatabaseManager) SetLogger(logger Logger) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.logger = logger
}
