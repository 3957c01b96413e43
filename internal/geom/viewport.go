/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

const (
	MinZoom float32 = 0.1
	MaxZoom float32 = 4.0
)

// Viewport maps world space onto the canvas: screen = world*Zoom + (X,Y).
// X and Y are the pan offset in screen units.
type Viewport struct {
	X, Y float32
	Zoom float32
}

// IdentityViewport has no pan and a zoom of 1.
var IdentityViewport = Viewport{Zoom: 1}

func (v Viewport) zoom() float32 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// Transform returns the world->canvas affine transform.
func (v Viewport) Transform() Affine2D {
	z := v.zoom()
	return Translate(v.X, v.Y).Mul(Scale(z, z))
}

// Pan moves the offset by a screen-space delta. Zoom does not scale the delta.
func (v Viewport) Pan(dx, dy float32) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt changes the zoom to z (clamped) while keeping the world point under the
// canvas-relative position anchor fixed on screen.
func (v Viewport) ZoomAt(anchor Pt, z float32) Viewport {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	old := v.zoom()
	wx := (anchor.X - v.X) / old
	wy := (anchor.Y - v.Y) / old
	return Viewport{X: anchor.X - wx*z, Y: anchor.Y - wy*z, Zoom: z}
}

// ScreenToWorld converts a pointer position to world coordinates. origin is the
// top-left of the canvas element in the same space as screen; it must be
// supplied fresh for every event since layout can move the canvas.
func ScreenToWorld(screen Pt, vp Viewport, origin Pt) Pt {
	z := vp.zoom()
	return Pt{
		X: (screen.X - origin.X - vp.X) / z,
		Y: (screen.Y - origin.Y - vp.Y) / z,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(world Pt, vp Viewport, origin Pt) Pt {
	z := vp.zoom()
	return Pt{
		X: world.X*z + vp.X + origin.X,
		Y: world.Y*z + vp.Y + origin.Y,
	}
}
