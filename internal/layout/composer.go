/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package layout

import (
	"log/slog"

	"clipframe/internal/geom"
	applog "clipframe/internal/log"
)

// RegionAccess is the composer's view of the active clip's region set.
// Update applies a transformation to the current regions and writes the
// result back; implementations route it to whichever clip is active.
type RegionAccess interface {
	Update(func(regions []geom.Region) []geom.Region)
}

// Composer owns the global layout parameters and keeps aspect-locked regions
// consistent with them. Every mutation of the stack proportions recomputes
// the locked regions before returning; there is no deferred or implicit
// recomputation path.
type Composer struct {
	mode    Mode
	stack   StackParams
	pip     PipParams
	regions RegionAccess
	log     *slog.Logger
}

// NewComposer creates a composer in stack mode with the given defaults.
func NewComposer(regions RegionAccess, stack StackParams, pip PipParams) *Composer {
	c := &Composer{
		mode:    ModeStack,
		stack:   stack,
		pip:     pip,
		regions: regions,
		log:     applog.WithComponent("layout"),
	}
	c.stack.SplitRatio = clampRatio(c.stack.SplitRatio)
	return c
}

func clampRatio(r float64) float64 {
	if r < minPortion {
		return minPortion
	}
	if r > 1-minPortion {
		return 1 - minPortion
	}
	return r
}

// Mode returns the active composition mode.
func (c *Composer) Mode() Mode { return c.mode }

// Stack returns the current stack parameters.
func (c *Composer) Stack() StackParams { return c.stack }

// Pip returns the current picture-in-picture parameters.
func (c *Composer) Pip() PipParams { return c.pip }

// SetMode switches between stack and PiP composition. Entering stack mode
// re-solves the locked regions against the stack proportions.
func (c *Composer) SetMode(m Mode) {
	if m != ModeStack && m != ModePiP {
		return
	}
	c.mode = m
	if m == ModeStack {
		c.RecomputeLockedRegions()
	}
}

// SetSplitRatio updates the top slot's share of output height and recomputes
// all aspect-locked regions before returning.
func (c *Composer) SetSplitRatio(r float64) {
	c.stack.SplitRatio = clampRatio(r)
	c.RecomputeLockedRegions()
}

// SetTopRegion selects which region occupies the top slot and recomputes.
func (c *Composer) SetTopRegion(regionID string) {
	if regionID == "" || regionID == c.stack.TopRegionID {
		return
	}
	c.stack.TopRegionID = regionID
	c.RecomputeLockedRegions()
}

// SwapTopRegion exchanges the top and bottom slots. The other region id is
// discovered from the active region set; the parameter write and recompute
// run through SetTopRegion so all stack mutations share one path.
func (c *Composer) SwapTopRegion() {
	var other string
	c.regions.Update(func(regions []geom.Region) []geom.Region {
		for _, r := range regions {
			if r.ID != c.stack.TopRegionID {
				other = r.ID
				break
			}
		}
		return regions
	})
	c.SetTopRegion(other)
}

// SetPipParams replaces the PiP parameters, clamping size into its 10–40
// band. PiP regions are not aspect-derived, so no recomputation happens.
func (c *Composer) SetPipParams(p PipParams) {
	if p.Size < 10 {
		p.Size = 10
	}
	if p.Size > 40 {
		p.Size = 40
	}
	if p.Margin < 0 {
		p.Margin = 0
	}
	c.pip = p
}

// SwapPipRoles exchanges the background and overlay region ids.
func (c *Composer) SwapPipRoles() {
	c.pip.BackgroundRegionID, c.pip.OverlayRegionID = c.pip.OverlayRegionID, c.pip.BackgroundRegionID
}

// SetAspectLocked toggles a region's aspect lock. Toggling is a no-op on
// geometry: a freshly locked region keeps its shape until the next resize or
// parameter change re-solves it.
func (c *Composer) SetAspectLocked(regionID string, locked bool) {
	c.regions.Update(func(regions []geom.Region) []geom.Region {
		for i := range regions {
			if regions[i].ID == regionID {
				regions[i].AspectLocked = locked
			}
		}
		return regions
	})
}

// TargetRatioFor returns the ratio an aspect-locked resize must preserve for
// the given region, or ok=false when the region is not aspect-solved in the
// current mode (PiP regions resize freely).
func (c *Composer) TargetRatioFor(regionID string) (float64, bool) {
	if c.mode != ModeStack {
		return 0, false
	}
	return c.stack.RegionTargetRatio(regionID), true
}

// RecomputeLockedRegions re-solves every aspect-locked region of the active
// clip against the current stack proportions. Height is held fixed and width
// derived, keeping the visible frame stable while the shape adapts. The
// operation is idempotent: with unchanged parameters a second call produces
// no further change.
func (c *Composer) RecomputeLockedRegions() {
	if c.mode != ModeStack {
		return
	}
	c.regions.Update(func(regions []geom.Region) []geom.Region {
		for i := range regions {
			if !regions[i].AspectLocked {
				continue
			}
			ratio := c.stack.RegionTargetRatio(regions[i].ID)
			w := regions[i].Height * ratio
			if w > geom.FrameSize {
				w = geom.FrameSize
			}
			if w < geom.MinSize {
				w = geom.MinSize
			}
			regions[i].Width = w
			if regions[i].Right() > geom.FrameSize {
				regions[i].X = geom.FrameSize - regions[i].Width
			}
		}
		return regions
	})
	c.log.Debug("recomputed locked regions",
		slog.Float64("split", c.stack.SplitRatio),
		slog.String("top", c.stack.TopRegionID))
}
