/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc returns a new identifier with the given prefix ("node", "conn").
// Identifiers only need to be unique within a session.
type IDFunc func(prefix string) string

// UUIDs is the default generator: "<prefix>-<uuid>".
func UUIDs(prefix string) string { return prefix + "-" + uuid.NewString() }

// Sequential returns a deterministic generator producing "<prefix>-1", "<prefix>-2", ...
// The counter is shared across prefixes.
func Sequential() IDFunc {
	var n atomic.Int64
	return func(prefix string) string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
