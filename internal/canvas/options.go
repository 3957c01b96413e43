/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "strings"

const (
	// Footprint is the edge length of the square every node occupies.
	Footprint float32 = 96
	// SnapThreshold is the distance below which a dragged node snaps.
	SnapThreshold float32 = 20
	// PortSize is the edge length of the square hit box centred on a port.
	PortSize float32 = 32
	// DeleteSize is the edge length of the delete button hit box.
	DeleteSize float32 = 24
	// ZoomStep scales scroll deltas into a zoom factor.
	ZoomStep float32 = 0.01
)

// SnapPolicy decides which candidate wins when several nodes are in range.
type SnapPolicy string

const (
	// SnapLastMatch applies candidates in store order; the last one in range wins.
	SnapLastMatch SnapPolicy = "last"
	// SnapClosest picks the candidate with the smallest distance per axis.
	SnapClosest SnapPolicy = "closest"
)

// ParseSnapPolicy maps a config string to a policy, defaulting to SnapLastMatch.
func ParseSnapPolicy(s string) SnapPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closest", "nearest":
		return SnapClosest
	default:
		return SnapLastMatch
	}
}

// Options tunes node geometry and snapping.
type Options struct {
	Footprint     float32
	SnapThreshold float32
	// SnapGap is the spacing kept between horizontally adjacent nodes. 0 = flush.
	SnapGap    float32
	SnapPolicy SnapPolicy
}

func DefaultOptions() Options {
	return Options{Footprint: Footprint, SnapThreshold: SnapThreshold, SnapPolicy: SnapLastMatch}
}

func (o Options) normalized() Options {
	if o.Footprint <= 0 {
		o.Footprint = Footprint
	}
	if o.SnapThreshold < 0 {
		o.SnapThreshold = 0
	}
	if o.SnapGap < 0 {
		o.SnapGap = 0
	}
	if o.SnapPolicy == "" {
		o.SnapPolicy = SnapLastMatch
	}
	return o
}
