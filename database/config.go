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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tomoncle/webhookdb/utils"
	"gopkg.in/yaml.v3"
)

const (
	EnvDatabaseURL     = "DATABASE_URL"
	EnvPostgresDriver  = "DB_POSTGRES_DRIVER"
	EnvConnectTimeout  = "DB_CONNECT_TIMEOUT"   // seconds
	EnvEnableQueryLog  = "DB_ENABLE_QUERY_LOG"  // true, false
	EnvQueryLogVerbose = "DB_QUERY_LOG_VERBOSE" // true, false
	EnvSlowQueryTime   = "DB_SLOW_QUERY_TIME"   // milliseconds
)

// LoadDotEnv loads KEY=VALUE files into the process environment. Variables
// already set are left alone and missing files are skipped. With no
// arguments ".env" in the working directory is used.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat env file %s: %w", f, err)
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ConfigFromEnv builds a Config from defaults plus environment variables.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg.ConnectionConfig)
	cfg.Log.Level = utils.EnvDefaultString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = utils.EnvDefaultString("CONSOLE_LOG_FORMAT", cfg.Log.Format)
	return cfg
}

// LoadConfigFile reads a YAML config, expanding ${VAR} references from the
// environment. DB_* variables override the file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	ApplyEnv(&cfg.ConnectionConfig)
	return cfg, nil
}

// ApplyEnv overrides configuration values from environment variables.
func ApplyEnv(cfg *ConnectionConfig) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(EnvPostgresDriver); v != "" {
		cfg.PostgresDriver = strings.ToLower(strings.TrimSpace(v))
	}
	cfg.ConnectTimeout = utils.EnvDefaultDuration(EnvConnectTimeout, time.Second, cfg.ConnectTimeout)
	cfg.EnableQueryLog = utils.EnvDefaultBool(EnvEnableQueryLog, cfg.EnableQueryLog)
	cfg.QueryLogVerbose = utils.EnvDefaultBool(EnvQueryLogVerbose, cfg.QueryLogVerbose)
	cfg.SlowQueryTime = utils.EnvDefaultDuration(EnvSlowQueryTime, time.Millisecond, cfg.SlowQueryTime)
}

// Validate checks the configuration without touching the network.
func (c *ConnectionConfig) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Err: errors.New("database configuration cannot be empty")}
	}
	if c.ConnectTimeout < 0 {
		return &ConfigError{Field: "connect_timeout", Err: fmt.Errorf("must not be negative, got %s", c.ConnectTimeout)}
	}
	if c.SlowQueryTime < 0 {
		return &ConfigError{Field: "slow_query_time", Err: fmt.Errorf("must not be negative, got %s", c.SlowQueryTime)}
	}
	_, err := ParseConnectionURL(c.URL, c.PostgresDriver)
	return err
}
