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
	"math"
	"testing"

	"clipframe/internal/geom"
)

// sliceAccess adapts a plain slice to RegionAccess for tests.
type sliceAccess struct{ regions []geom.Region }

func (s *sliceAccess) Update(fn func([]geom.Region) []geom.Region) {
	s.regions = fn(s.regions)
}

func testRegions() *sliceAccess {
	return &sliceAccess{regions: []geom.Region{
		{ID: "content", X: 2, Y: 0, Width: 53, Height: 100, AspectLocked: true},
		{ID: "webcam", X: 62, Y: 58, Width: 32, Height: 40, AspectLocked: true},
	}}
}

func newTestComposer(acc *sliceAccess) *Composer {
	return NewComposer(acc,
		StackParams{SplitRatio: 0.6, TopRegionID: "content"},
		PipParams{BackgroundRegionID: "content", OverlayRegionID: "webcam", Position: CornerBottomRight, Size: 25, Shape: PipRounded, Margin: 16})
}

func TestRecomputeHoldsHeightDerivesWidth(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.RecomputeLockedRegions()
	content := acc.regions[0]
	if content.Height != 100 {
		t.Fatalf("height must be held fixed, got %v", content.Height)
	}
	if math.Abs(content.Width-52.734375) > eps {
		t.Fatalf("content width = %v, want 52.734375", content.Width)
	}
	webcam := acc.regions[1]
	wantW := 40 * TargetRatio(0.4)
	if math.Abs(webcam.Width-wantW) > eps {
		t.Fatalf("webcam width = %v, want %v", webcam.Width, wantW)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.RecomputeLockedRegions()
	first := append([]geom.Region(nil), acc.regions...)
	c.RecomputeLockedRegions()
	for i := range first {
		if first[i] != acc.regions[i] {
			t.Fatalf("second recompute changed region %d: %+v vs %+v", i, first[i], acc.regions[i])
		}
	}
}

func TestRecomputeSkipsUnlockedRegions(t *testing.T) {
	acc := testRegions()
	acc.regions[1].AspectLocked = false
	acc.regions[1].Width = 25
	c := newTestComposer(acc)
	c.RecomputeLockedRegions()
	if acc.regions[1].Width != 25 {
		t.Fatalf("unlocked region must not change: %+v", acc.regions[1])
	}
}

func TestSetSplitRatioRecomputesBeforeReturning(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.SetSplitRatio(0.5)
	// both slots are half the output now; both regions share the same ratio
	want := TargetRatio(0.5)
	if math.Abs(acc.regions[0].Width-100*want) > eps {
		t.Fatalf("content width after SetSplitRatio = %v, want %v", acc.regions[0].Width, 100*want)
	}
	if math.Abs(acc.regions[1].Width-40*want) > eps {
		t.Fatalf("webcam width after SetSplitRatio = %v, want %v", acc.regions[1].Width, 40*want)
	}
}

func TestSetSplitRatioClampsExtremes(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.SetSplitRatio(0)
	if c.Stack().SplitRatio != minPortion {
		t.Fatalf("split ratio should clamp low: %v", c.Stack().SplitRatio)
	}
	c.SetSplitRatio(1)
	if c.Stack().SplitRatio != 1-minPortion {
		t.Fatalf("split ratio should clamp high: %v", c.Stack().SplitRatio)
	}
	for _, r := range acc.regions {
		if r.X < 0 || r.Right() > geom.FrameSize {
			t.Fatalf("recompute pushed region out of frame: %+v", r)
		}
	}
}

func TestSwapTopRegionTwiceRestoresWidths(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.RecomputeLockedRegions()
	orig := append([]geom.Region(nil), acc.regions...)
	c.SwapTopRegion()
	if c.Stack().TopRegionID != "webcam" {
		t.Fatalf("swap did not change top region: %v", c.Stack().TopRegionID)
	}
	if acc.regions[0].Width == orig[0].Width {
		t.Fatalf("swap should re-derive widths")
	}
	c.SwapTopRegion()
	if c.Stack().TopRegionID != "content" {
		t.Fatalf("second swap should restore top region")
	}
	for i := range orig {
		if math.Abs(acc.regions[i].Width-orig[i].Width) > eps {
			t.Fatalf("width not restored for %s: %v vs %v", orig[i].ID, acc.regions[i].Width, orig[i].Width)
		}
	}
}

func TestAspectLockToggleLeavesGeometryAlone(t *testing.T) {
	acc := testRegions()
	acc.regions[1].AspectLocked = false
	acc.regions[1].Width = 21 // deliberately off-ratio
	c := newTestComposer(acc)
	before := acc.regions[1]
	c.SetAspectLocked("webcam", true)
	after := acc.regions[1]
	if !after.AspectLocked {
		t.Fatalf("lock flag not set")
	}
	after.AspectLocked = before.AspectLocked
	if after != before {
		t.Fatalf("locking must not change geometry: %+v vs %+v", acc.regions[1], before)
	}
}

func TestPipModeDisablesAspectSolving(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.SetMode(ModePiP)
	if _, ok := c.TargetRatioFor("content"); ok {
		t.Fatalf("pip mode must not aspect-solve regions")
	}
	before := append([]geom.Region(nil), acc.regions...)
	c.RecomputeLockedRegions()
	for i := range before {
		if before[i] != acc.regions[i] {
			t.Fatalf("recompute in pip mode must be a no-op")
		}
	}
}

func TestSetPipParamsClampsSize(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	p := c.Pip()
	p.Size = 80
	c.SetPipParams(p)
	if c.Pip().Size != 40 {
		t.Fatalf("pip size should clamp to 40, got %v", c.Pip().Size)
	}
	p.Size = 3
	c.SetPipParams(p)
	if c.Pip().Size != 10 {
		t.Fatalf("pip size should clamp to 10, got %v", c.Pip().Size)
	}
}

func TestSwapPipRoles(t *testing.T) {
	acc := testRegions()
	c := newTestComposer(acc)
	c.SwapPipRoles()
	if c.Pip().BackgroundRegionID != "webcam" || c.Pip().OverlayRegionID != "content" {
		t.Fatalf("pip roles not swapped: %+v", c.Pip())
	}
}
