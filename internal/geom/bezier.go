/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"fmt"
	"strconv"
)

// Bezier is a cubic curve from P0 to P3 with control points P1 and P2.
type Bezier struct {
	P0, P1, P2, P3 Pt
}

// HorizontalS builds the S-curve used for links: horizontal tangents at both
// ends, control points pulled out by half the horizontal distance.
func HorizontalS(from, to Pt) Bezier {
	d := abs32(to.X-from.X) * 0.5
	return Bezier{
		P0: from,
		P1: Pt{from.X + d, from.Y},
		P2: Pt{to.X - d, to.Y},
		P3: to,
	}
}

// Eval returns the point at parameter t in [0,1].
func (b Bezier) Eval(t float32) Pt {
	u := 1 - t
	a := u * u * u
	c := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Pt{
		X: a*b.P0.X + c*b.P1.X + d*b.P2.X + e*b.P3.X,
		Y: a*b.P0.Y + c*b.P1.Y + d*b.P2.Y + e*b.P3.Y,
	}
}

// Flatten approximates the curve with n line segments (n+1 points).
func (b Bezier) Flatten(n int) []Pt {
	if n < 1 {
		n = 1
	}
	out := make([]Pt, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, b.Eval(float32(i)/float32(n)))
	}
	return out
}

// Map applies an affine transform to every control point.
func (b Bezier) Map(m Affine2D) Bezier {
	return Bezier{P0: m.Apply(b.P0), P1: m.Apply(b.P1), P2: m.Apply(b.P2), P3: m.Apply(b.P3)}
}

// PathData renders the curve as SVG path data ("M x y C ...").
func (b Bezier) PathData() string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(b.P0.X), num(b.P0.Y), num(b.P1.X), num(b.P1.Y),
		num(b.P2.X), num(b.P2.Y), num(b.P3.X), num(b.P3.Y))
}

func num(v float32) string {
	return strconv.FormatFloat(float64(FloatRound(v, 3)), 'f', -1, 32)
}
