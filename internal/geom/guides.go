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

// Snapping helpers for interactive region dragging. UI-agnostic and
// deterministic so they can be unit tested and reused across frontends.
// Snapping applies to moves only; aspect-locked resizing must not snap.

import "math"

// SnapOptions controls which guide candidates are considered and the
// threshold, in percent of the frame.
type SnapOptions struct {
	// Threshold is the maximum distance at which snapping occurs.
	// Typical values are 1–2 percent.
	Threshold float64
	// SnapToEdges considers frame and sibling edges (left/right/top/bottom).
	SnapToEdges bool
	// SnapToCenters considers the frame center and sibling centers.
	SnapToCenters bool
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate in percent.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
}

// frameAnchors are the static snap targets every drag considers: the frame
// edges, center lines, and thirds.
var frameAnchorsX = []anchorLine{
	{0, "edge"}, {FrameSize, "edge"},
	{FrameSize / 2, "center"},
	{FrameSize / 3, "edge"}, {2 * FrameSize / 3, "edge"},
}

var frameAnchorsY = []anchorLine{
	{0, "edge"}, {FrameSize, "edge"},
	{FrameSize / 2, "center"},
	{FrameSize / 3, "edge"}, {2 * FrameSize / 3, "edge"},
}

type anchorLine struct {
	pos  float64
	kind string
}

// SnapMove snaps a moving region against the frame anchors and the given
// sibling regions. It returns the snapped region plus any guide lines to
// render. Snapping happens independently per axis; the nearest candidate
// within the threshold wins.
func SnapMove(moving Region, siblings []Region, opts SnapOptions) (Region, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 1.5
	}

	xs := append([]anchorLine(nil), frameAnchorsX...)
	ys := append([]anchorLine(nil), frameAnchorsY...)
	for _, s := range siblings {
		if s.ID == moving.ID {
			continue
		}
		xs = append(xs,
			anchorLine{s.X, "edge"},
			anchorLine{s.Right(), "edge"},
			anchorLine{s.X + s.Width/2, "center"})
		ys = append(ys,
			anchorLine{s.Y, "edge"},
			anchorLine{s.Bottom(), "edge"},
			anchorLine{s.Y + s.Height/2, "center"})
	}

	var guides []GuideLine
	if dx, g, ok := bestSnap(moving.X, moving.X+moving.Width/2, moving.Right(), xs, opts); ok {
		moving.X = clamp(moving.X-dx, 0, FrameSize-moving.Width)
		guides = append(guides, GuideLine{Orientation: "vertical", Kind: g.kind, Position: g.pos})
	}
	if dy, g, ok := bestSnap(moving.Y, moving.Y+moving.Height/2, moving.Bottom(), ys, opts); ok {
		moving.Y = clamp(moving.Y-dy, 0, FrameSize-moving.Height)
		guides = append(guides, GuideLine{Orientation: "horizontal", Kind: g.kind, Position: g.pos})
	}
	return moving, guides
}

// bestSnap finds the smallest delta between one of the moving features
// (leading edge, center, trailing edge) and an anchor line within threshold.
func bestSnap(lo, mid, hi float64, anchors []anchorLine, opts SnapOptions) (float64, anchorLine, bool) {
	bestDist := math.Inf(1)
	var bestDelta float64
	var bestAnchor anchorLine
	consider := func(feature float64, a anchorLine) {
		d := feature - a.pos
		dist := math.Abs(d)
		if dist <= opts.Threshold && dist < bestDist {
			bestDist = dist
			bestDelta = d
			bestAnchor = a
		}
	}
	for _, a := range anchors {
		switch a.kind {
		case "edge":
			if !opts.SnapToEdges {
				continue
			}
			consider(lo, a)
			consider(hi, a)
		case "center":
			if !opts.SnapToCenters {
				continue
			}
			consider(mid, a)
		}
	}
	if math.IsInf(bestDist, 1) {
		return 0, anchorLine{}, false
	}
	return bestDelta, bestAnchor, true
}
