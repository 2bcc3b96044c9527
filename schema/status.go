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
	"github.com/tomoncle/webhookdb/types"
)

// DeliveryStatus is the state of a Delivery.
type DeliveryStatus int

const (
	DeliveryPending DeliveryStatus = iota
	DeliverySucceeded
	DeliveryFailed
)

var _ types.BaseEnum = DeliveryPending

var deliveryStatusNames = map[DeliveryStatus][2]string{
	DeliveryPending:   {"pending", "waiting to be sent"},
	DeliverySucceeded: {"succeeded", "accepted by the endpoint"},
	DeliveryFailed:    {"failed", "rejected or unreachable"},
}

func DeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{DeliveryPending, DeliverySucceeded, DeliveryFailed}
}

// ParseDeliveryStatus maps a name such as "failed" back to its status.
func ParseDeliveryStatus(name string) (DeliveryStatus, bool) {
	return types.ParseEnum(name, DeliveryStatuses()...)
}

func (s DeliveryStatus) IsValid() bool {
	_, ok := deliveryStatusNames[s]
	return ok
}

func (s DeliveryStatus) Number() int {
	if !s.IsValid() {
		return types.IllegalValue
	}
	return int(s)
}

func (s DeliveryStatus) Name() string {
	if n, ok := deliveryStatusNames[s]; ok {
		return n[0]
	}
	return types.IllegalName
}

func (s DeliveryStatus) Desc() string {
	if n, ok := deliveryStatusNames[s]; ok {
		return n[1]
	}
	return types.IllegalDesc
}

func (s DeliveryStatus) String() string {
	return s.Name()
}
