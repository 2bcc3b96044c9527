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
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bundebug"
)

// newQueryLogHook prints executed statements. BUNDEBUG=0/1/2 in the
// environment overrides the configured switches.
func newQueryLogHook(cfg *ConnectionConfig, w io.Writer) bun.QueryHook {
	return bundebug.NewQueryHook(
		bundebug.WithEnabled(cfg.EnableQueryLog),
		bundebug.WithVerbose(cfg.QueryLogVerbose),
		bundebug.WithWriter(w),
		bundebug.FromEnv("BUNDEBUG"),
	)
}

// SlowQueryHook reports successful statements slower than a threshold.
type SlowQueryHook struct {
	slowTime time.Duration
	writer   io.Writer
	logger   Logger
	mu       sync.Mutex
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func NewSlowQueryHook(slowTime time.Duration, w io.Writer, logger Logger) *SlowQueryHook {
	if w == nil {
		w = os.Stdout
	}
	return &SlowQueryHook{slowTime: slowTime, writer: w, logger: logger}
}

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.slowTime <= 0 {
		return
	}
	duration := time.Since(event.StartTime)
	if duration <= h.slowTime {
		return
	}

	h.mu.Lock()
	_, _ = fmt.Fprintln(h.writer,
		time.Now().Format("2006-01-02 15:04:05.000"),
		color.New(color.FgYellow).Sprintf("%15s", "[BUN_SLOW]"),
		fmt.Sprintf("%17s", duration.Round(time.Microsecond)),
		" ", operationColor(event.Operation()).Sprint(event.Query),
	)
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"operation", event.Operation(),
		)
	}
}

func operationColor(operation string) *color.Color {
	switch operation {
	case "SELECT":
		return color.New(color.BgGreen, color.FgHiWhite)
	case "INSERT":
		return color.New(color.BgBlue, color.FgHiWhite)
	case "UPDATE":
		return color.New(color.BgYellow, color.FgHiWhite)
	case "DELETE":
		return color.New(color.BgMagenta, color.FgHiWhite)
	default:
		return color.New(color.BgRed, color.FgHiWhite)
	}
}
