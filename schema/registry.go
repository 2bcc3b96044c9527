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

package schema

import (
	"sort"
	"sync"
)

// SQLModel is a table model with an ordering priority; lower values come first
// so referenced tables precede the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// Registry holds the models of the service.
type Registry struct {
	mu     sync.RWMutex
	models []SQLModel
}

func NewRegistry(models ...SQLModel) *Registry {
	r := &Registry{}
	for _, m := range models {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(model SQLModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, model)
}

// Models returns the registered models sorted by priority. Models with equal
// priority keep registration order.
func (r *Registry) Models() []SQLModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

// Instances returns the model instances in priority order, ready for
// bun.DB.RegisterModel or NewCreateTable.
func (r *Registry) Instances() []interface{} {
	models := r.Models()
	out := make([]interface{}, len(models))
	for i, m := range models {
		out[i] = m.Instance()
	}
	return out
}

type modelAdapter struct {
	instance interface{}
	priority int
}

// NewModel wraps a struct pointer and priority into an SQLModel.
func NewModel(instance interface{}, priority int) SQLModel {
	return &modelAdapter{instance: instance, priority: priority}
}

func (a *modelAdapter) Instance() interface{} { return a.instance }

func (a *modelAdapter) Priority() int { return a.priority }

var defaultRegistry = NewRegistry(
	NewModel((*Endpoint)(nil), 10),
	NewModel((*Event)(nil), 10),
	NewModel((*Delivery)(nil), 20),
)

// Default returns the registry with the webhook tables.
func Default() *Registry {
	return defaultRegistry
}
