/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package geom holds the percentage-space coordinate model for source-frame
// regions. All operations are pure and deterministic; coordinates are
// percentages of the source frame (0–100 on both axes), independent of the
// pixel resolution of any rendering surface. Invalid intermediate states are
// prevented by clamping, never by returning errors.
package geom

// Frame bounds and the minimum usable region size, in percent.
const (
	FrameSize = 100.0
	MinSize   = 10.0
)

// Region is a rectangular selection over the source frame representing one
// compositing input (e.g., screen content vs. webcam). X/Y/Width/Height are
// percentages of the frame. Invariants: 0 ≤ X, 0 ≤ Y, X+Width ≤ 100,
// Y+Height ≤ 100, Width ≥ 10, Height ≥ 10.
type Region struct {
	ID           string  `json:"id"`
	Label        string  `json:"label,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Color        string  `json:"color,omitempty"`
	AspectLocked bool    `json:"aspectLocked"`
}

// Ratio returns the region's width:height ratio in percentage space.
func (r Region) Ratio() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Right returns the x coordinate of the east edge.
func (r Region) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the south edge.
func (r Region) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point (px, py) lies inside the region,
// edges inclusive.
func (r Region) Contains(px, py float64) bool {
	return px >= r.X && py >= r.Y && px <= r.Right() && py <= r.Bottom()
}

// Clamp forces r back onto the invariants: size floored at MinSize, capped at
// the frame, and the origin shifted so the rectangle stays fully inside.
func Clamp(r Region) Region {
	r.Width = clamp(r.Width, MinSize, FrameSize)
	r.Height = clamp(r.Height, MinSize, FrameSize)
	r.X = clamp(r.X, 0, FrameSize-r.Width)
	r.Y = clamp(r.Y, 0, FrameSize-r.Height)
	return r
}

// Move returns r translated by (dx, dy) with the rectangle kept fully inside
// the frame. The size never changes; only the origin is clamped.
func Move(r Region, dx, dy float64) Region {
	r.X = clamp(r.X+dx, 0, FrameSize-r.Width)
	r.Y = clamp(r.Y+dy, 0, FrameSize-r.Height)
	return r
}

// ResizeEdge returns r resized by dragging the given handle by (dx, dy),
// without any aspect constraint. Each touched edge adjusts its dimension;
// north/west handles also shift the origin so the opposite edge stays fixed,
// including when the dimension is floored at MinSize. The rectangle never
// leaves the frame.
func ResizeEdge(r Region, h Handle, dx, dy float64) Region {
	if h.East() {
		r.Width = clamp(r.Width+dx, MinSize, FrameSize-r.X)
	}
	if h.South() {
		r.Height = clamp(r.Height+dy, MinSize, FrameSize-r.Y)
	}
	if h.West() {
		right := r.Right()
		r.Width = clamp(r.Width-dx, MinSize, right)
		r.X = right - r.Width
	}
	if h.North() {
		bottom := r.Bottom()
		r.Height = clamp(r.Height-dy, MinSize, bottom)
		r.Y = bottom - r.Height
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
