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
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.Mutex
	globalManager AbstractDatabaseManager
)

// InitDB connects the process-wide database. Once a call has succeeded every
// later call returns the same handle and cfg is ignored; a failed call leaves
// nothing behind.
func InitDB(ctx context.Context, cfg *ConnectionConfig) (*bun.DB, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		return globalManager.GetDB(), nil
	}
	manager, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	globalManager = manager
	return manager.GetDB(), nil
}

// GetDB returns the process-wide handle, nil before InitDB succeeds.
func GetDB() *bun.DB {
	if m := GetDatabaseManager(); m != nil {
		return m.GetDB()
	}
	return nil
}

func GetDatabaseManager() AbstractDatabaseManager {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager
}

func GetDatabaseStats() *DBStats {
	if m := GetDatabaseManager(); m != nil {
		return m.GetStats()
	}
	return &DBStats{}
}

// CloseDB closes the process-wide connection. A later InitDB connects again.
func CloseDB() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		return nil
	}
	err := globalManager.Disconnect()
	globalManager = nil
	return err
}
