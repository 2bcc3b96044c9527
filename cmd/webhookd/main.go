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

// Command webhookd opens the webhook database, verifies it with "select 1"
// and holds the connection until SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/webhookdb"
	"github.com/tomoncle/webhookdb/database"
	"github.com/tomoncle/webhookdb/utils"
)

const envConfigFile = "WEBHOOKDB_CONFIG"

func main() {
	configPath := flag.String("config", os.Getenv(envConfigFile), "path to YAML config file, environment only when empty")
	flag.Parse()

	logger := utils.NewLogger("WEBHOOKD")

	if err := database.LoadDotEnv(); err != nil {
		logger.WithError(err).Error("failed to load .env")
		os.Exit(1)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		os.Exit(1)
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := webhookdb.Open(ctx, &cfg.ConnectionConfig)
	if err != nil {
		logger.WithError(err).WithField("config_error", database.IsConfigError(err)).Error("failed to connect to database")
		os.Exit(1)
	}

	var one int
	if err := db.NewRaw("select 1").Scan(ctx, &one); err != nil {
		logger.WithError(err).Error("database check failed")
		_ = db.Close()
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"target": db.Target().String(),
		"tables": db.Schema.Names(),
	}).Info("webhook database ready")

	<-ctx.Done()
	logger.Info("received shutdown signal")
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("failed to close database")
	}
}

func loadConfig(path string) (*database.Config, error) {
	if path == "" {
		return database.ConfigFromEnv(), nil
	}
	return database.LoadConfigFile(path)
}
