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

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_STR", "value")
	t.Setenv("UTILS_BOOL", "true")
	t.Setenv("UTILS_BAD_BOOL", "maybe")
	t.Setenv("UTILS_INT", "42")
	t.Setenv("UTILS_SECONDS", "3")
	t.Setenv("UTILS_NEGATIVE", "-3")

	assert.Equal(t, "value", EnvDefaultString("UTILS_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("UTILS_UNSET", "def"))
	assert.True(t, EnvDefaultBool("UTILS_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_BAD_BOOL", true))
	assert.Equal(t, 42, EnvDefaultInt("UTILS_INT", 1))
	assert.Equal(t, 3*time.Second, EnvDefaultDuration("UTILS_SECONDS", time.Second, time.Minute))
	assert.Equal(t, time.Minute, EnvDefaultDuration("UTILS_NEGATIVE", time.Second, time.Minute))
	assert.Equal(t, time.Minute, EnvDefaultDuration("UTILS_UNSET", time.Second, time.Minute))
}
