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
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
	bunschema "github.com/uptrace/bun/schema"
)

// Column is one column of a described table.
type Column struct {
	Name    string `json:"name"`
	SQLType string `json:"sql_type"`
	PK      bool   `json:"pk"`
	NotNull bool   `json:"not_null"`
	Default string `json:"default,omitempty"`
}

// Table is a described table. Values handed out by a Descriptor are copies.
type Table struct {
	Name    string   `json:"name"`
	Alias   string   `json:"alias"`
	Columns []Column `json:"columns"`
}

// Column looks a column up by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Descriptor maps table names to their columns. It is built once and never
// changes afterwards.
type Descriptor struct {
	order  []string
	tables map[string]Table
}

// Describe builds a Descriptor for models using the table metadata of the db
// dialect, so column types are the ones that dialect would create.
func Describe(db *bun.DB, models ...SQLModel) (*Descriptor, error) {
	d := &Descriptor{tables: make(map[string]Table, len(models))}
	for _, m := range models {
		typ := reflect.TypeOf(m.Instance())
		if typ == nil {
			return nil, fmt.Errorf("model instance is nil")
		}
		for typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return nil, fmt.Errorf("model %s is not a struct", typ)
		}

		t := describeTable(db.Table(typ))
		if _, dup := d.tables[t.Name]; dup {
			return nil, fmt.Errorf("table %s registered twice", t.Name)
		}
		d.order = append(d.order, t.Name)
		d.tables[t.Name] = t
	}
	return d, nil
}

func describeTable(bt *bunschema.Table) Table {
	t := Table{
		Name:    bt.Name,
		Alias:   bt.Alias,
		Columns: make([]Column, 0, len(bt.Fields)),
	}
	for _, f := range bt.Fields {
		t.Columns = append(t.Columns, Column{
			Name:    f.Name,
			SQLType: f.CreateTableSQLType,
			PK:      f.IsPK,
			NotNull: f.NotNull || f.IsPK,
			Default: f.SQLDefault,
		})
	}
	return t
}

// Table returns the named table.
func (d *Descriptor) Table(name string) (Table, bool) {
	t, ok := d.tables[name]
	if !ok {
		return Table{}, false
	}
	return copyTable(t), true
}

// Names lists table names in registration priority order.
func (d *Descriptor) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Tables lists all tables in registration priority order.
func (d *Descriptor) Tables() []Table {
	out := make([]Table, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, copyTable(d.tables[name]))
	}
	return out
}

func copyTable(t Table) Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	t.Columns = cols
	return t
}
