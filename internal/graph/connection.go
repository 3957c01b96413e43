/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import "sync"

// Connection is a directed edge between two node identifiers.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ConnectionStore keeps edges in creation order. A (source,target) pair is
// stored at most once and self loops are never stored.
type ConnectionStore struct {
	mu    sync.RWMutex
	conns []Connection
	newID IDFunc
}

func NewConnectionStore(ids IDFunc) *ConnectionStore {
	if ids == nil {
		ids = UUIDs
	}
	return &ConnectionStore{newID: ids}
}

// Create adds source->target. It returns false without changing anything when
// the pair already exists or source == target.
func (s *ConnectionStore) Create(source, target string) (Connection, bool) {
	if source == "" || target == "" || source == target {
		return Connection{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if c.Source == source && c.Target == target {
			return Connection{}, false
		}
	}
	c := Connection{ID: s.newID("conn"), Source: source, Target: target}
	s.conns = append(s.conns, c)
	return c, true
}

// DeleteTouching removes every connection with nodeID as source or target and
// returns how many were removed.
func (s *ConnectionStore) DeleteTouching(nodeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.conns[:0]
	removed := 0
	for _, c := range s.conns {
		if c.Source == nodeID || c.Target == nodeID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	// clear the tail so removed values are not retained
	for i := len(kept); i < len(s.conns); i++ {
		s.conns[i] = Connection{}
	}
	s.conns = kept
	return removed
}

func (s *ConnectionStore) Exists(source, target string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conns {
		if c.Source == source && c.Target == target {
			return true
		}
	}
	return false
}

// Connections returns a snapshot copy in creation order.
func (s *ConnectionStore) Connections() []Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Connection(nil), s.conns...)
}

func (s *ConnectionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}
