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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonObjectValue(t *testing.T) {
	v, err := JsonObject{"event": "payment.completed"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"event":"payment.completed"}`, v)

	v, err = JsonObject(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJsonObjectScan(t *testing.T) {
	var fromBytes JsonObject
	require.NoError(t, fromBytes.Scan([]byte(`{"amount":10}`)))
	assert.Equal(t, float64(10), fromBytes["amount"])

	var fromText JsonObject
	require.NoError(t, fromText.Scan(`{"ref":"QK12"}`))
	ref, ok := fromText.GetString("ref")
	assert.True(t, ok)
	assert.Equal(t, "QK12", ref)

	var empty JsonObject
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var bad JsonObject
	assert.Error(t, bad.Scan(42))
}

func TestJsonArrayScan(t *testing.T) {
	var arr JsonArray
	require.NoError(t, arr.Scan(`[{"a":1},{"b":2}]`))
	assert.Len(t, arr, 2)

	v, err := arr.Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1},{"b":2}]`, v)
}
