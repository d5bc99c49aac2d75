/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

import "strings"

// Handle identifies one of the eight resize targets around a region:
// four edges and four corners. Corner handles touch two edges, e.g. "se"
// touches south and east.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists all eight handles in a stable order (corners first, matching
// the draw order of the selection overlay).
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleE, HandleW}

func (h Handle) North() bool { return strings.Contains(string(h), "n") }
func (h Handle) South() bool { return strings.Contains(string(h), "s") }
func (h Handle) East() bool  { return strings.Contains(string(h), "e") }
func (h Handle) West() bool  { return strings.Contains(string(h), "w") }

// Corner reports whether the handle touches two edges.
func (h Handle) Corner() bool { return len(h) == 2 }

// Horizontal reports whether the handle touches the east or west edge.
func (h Handle) Horizontal() bool { return h.East() || h.West() }

// Vertical reports whether the handle touches the north or south edge.
func (h Handle) Vertical() bool { return h.North() || h.South() }

// Valid reports whether h is one of the eight known handles.
func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

// HandleAt returns the handle whose hit zone contains (px, py) for the given
// region, or "" if none. The hit zone is a square of side 2*tol centered on
// the handle position (corners on the region corners, edge handles on edge
// midpoints). Corners win over edges when zones overlap.
func HandleAt(r Region, px, py, tol float64) Handle {
	type spot struct {
		h    Handle
		x, y float64
	}
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	spots := []spot{
		{HandleNW, r.X, r.Y},
		{HandleNE, r.Right(), r.Y},
		{HandleSW, r.X, r.Bottom()},
		{HandleSE, r.Right(), r.Bottom()},
		{HandleN, cx, r.Y},
		{HandleS, cx, r.Bottom()},
		{HandleE, r.Right(), cy},
		{HandleW, r.X, cy},
	}
	for _, s := range spots {
		if px >= s.x-tol && px <= s.x+tol && py >= s.y-tol && py <= s.y+tol {
			return s.h
		}
	}
	return ""
}
