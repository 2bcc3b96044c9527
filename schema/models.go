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
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/webhookdb/types"
	"github.com/uptrace/bun"
)

// Endpoint is a subscriber URL that receives webhook deliveries.
type Endpoint struct {
	bun.BaseModel `bun:"table:webhook_endpoints,alias:we"`

	ID          int64            `bun:"id,pk,autoincrement" json:"id"`
	URL         string           `bun:"url,type:varchar(2048),notnull,unique" json:"url"`
	Secret      string           `bun:"secret,type:varchar(255),notnull" json:"-"`
	Description string           `bun:"description,type:varchar(255)" json:"description"`
	Headers     types.JsonObject `bun:"headers,type:text" json:"headers,omitempty"`
	Active      bool             `bun:"active,notnull,default:true" json:"active"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Event is a notification received by the service, e.g. a payment callback.
type Event struct {
	bun.BaseModel `bun:"table:webhook_events,alias:wev"`

	ID         uuid.UUID        `bun:"id,pk,type:varchar(36)" json:"id"`
	Type       string           `bun:"type,type:varchar(128),notnull" json:"type"`
	Source     string           `bun:"source,type:varchar(128)" json:"source"`
	Payload    types.JsonObject `bun:"payload,type:text,notnull" json:"payload"`
	ReceivedAt time.Time        `bun:"received_at,nullzero,notnull,default:current_timestamp" json:"received_at"`
}

// NewEvent returns an event with a fresh random id. A nil payload is stored
// as an empty object.
func NewEvent(eventType, source string, payload types.JsonObject) *Event {
	if payload == nil {
		payload = types.JsonObject{}
	}
	return &Event{
		ID:      uuid.New(),
		Type:    eventType,
		Source:  source,
		Payload: payload,
	}
}

// Delivery records sending one Event to one Endpoint.
type Delivery struct {
	bun.BaseModel `bun:"table:webhook_deliveries,alias:wd"`

	ID           int64          `bun:"id,pk,autoincrement" json:"id"`
	EventID      uuid.UUID      `bun:"event_id,type:varchar(36),notnull" json:"event_id"`
	EndpointID   int64          `bun:"endpoint_id,notnull" json:"endpoint_id"`
	Status       DeliveryStatus `bun:"status,notnull,default:0" json:"status"`
	Attempts     int            `bun:"attempts,notnull,default:0" json:"attempts"`
	ResponseCode int            `bun:"response_code" json:"response_code,omitempty"`
	LastError    string         `bun:"last_error,type:text" json:"last_error,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Event    *Event    `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	Endpoint *Endpoint `bun:"rel:belongs-to,join:endpoint_id=id" json:"endpoint,omitempty"`
}
