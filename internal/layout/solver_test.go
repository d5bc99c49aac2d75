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
)

const eps = 1e-6

func TestTargetRatioShippedDefault(t *testing.T) {
	// splitRatio=0.6 top slot: outputAR = 9/(16*0.6) = 0.9375,
	// targetRatio = 0.9375 * 9/16 = 0.52734375. A full-height region
	// resolves to width ≈ 52.7, matching the shipped default of 53.
	got := TargetRatio(0.6)
	if math.Abs(got-0.52734375) > eps {
		t.Fatalf("TargetRatio(0.6) = %v, want 0.52734375", got)
	}
	if w := 100 * got; math.Abs(w-52.734375) > eps {
		t.Fatalf("full-height width = %v, want ≈52.7", w)
	}
}

func TestTargetRatioBottomSlot(t *testing.T) {
	p := StackParams{SplitRatio: 0.6, TopRegionID: "content"}
	top := p.RegionTargetRatio("content")
	bottom := p.RegionTargetRatio("webcam")
	if math.Abs(top-TargetRatio(0.6)) > eps {
		t.Fatalf("top ratio = %v", top)
	}
	if math.Abs(bottom-TargetRatio(0.4)) > eps {
		t.Fatalf("bottom ratio = %v", bottom)
	}
	// a smaller portion of output height needs a wider source selection
	if bottom <= top {
		t.Fatalf("bottom slot should need wider selection: top=%v bottom=%v", top, bottom)
	}
}

func TestTargetRatioClampsPortionAwayFromZero(t *testing.T) {
	if got := TargetRatio(0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("portion 0 must not blow up: %v", got)
	}
	if got, want := TargetRatio(0.0001), TargetRatio(minPortion); math.Abs(got-want) > eps {
		t.Fatalf("tiny portions should clamp to minPortion: got %v want %v", got, want)
	}
}

func TestPortionSelection(t *testing.T) {
	p := StackParams{SplitRatio: 0.7, TopRegionID: "webcam"}
	if got := p.Portion("webcam"); got != 0.7 {
		t.Fatalf("top portion = %v", got)
	}
	if got := p.Portion("content"); math.Abs(got-0.3) > eps {
		t.Fatalf("bottom portion = %v", got)
	}
}
