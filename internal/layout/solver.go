/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layout owns the output-composition parameters (stack vs.
// picture-in-picture) and the aspect-ratio math tying source-frame regions to
// their slots in the vertical output canvas.
//
// The source frame is 16:9 and the output canvas is 9:16. A selection of
// width% × height% of the source has true aspect ratio
// (width%*16)/(height%*9); a stack slot occupying `portion` of the output
// height has aspect 9/(16*portion). Setting the two equal gives the
// closed-form target width:height ratio, in percentage space, that an
// aspect-locked region must keep.
package layout

// Source and output frame aspect components.
const (
	sourceW = 16.0
	sourceH = 9.0
	outputW = 9.0
	outputH = 16.0
)

// minPortion keeps the solver away from division blow-up when a split ratio
// approaches 0 or 1. Callers clamp the resulting dimensions, not the solver.
const minPortion = 0.05

// Mode selects how regions are composed into the output canvas.
type Mode string

const (
	ModeStack Mode = "stack"
	ModePiP   Mode = "pip"
)

// TargetRatio returns the width:height ratio, in source-frame percentage
// space, a region must satisfy to exactly fill a stack slot occupying
// `portion` of the output height, without letterboxing or stretching.
func TargetRatio(portion float64) float64 {
	if portion < minPortion {
		portion = minPortion
	}
	outputAR := outputW / (outputH * portion)
	return outputAR * sourceH / sourceW
}

// StackParams proportions the two stacked slots of the output canvas.
// SplitRatio is the fraction of output height given to the top slot.
type StackParams struct {
	SplitRatio  float64 `json:"splitRatio"`
	TopRegionID string  `json:"topRegionId"`
}

// Portion returns the share of output height the given region occupies.
func (p StackParams) Portion(regionID string) float64 {
	if regionID == p.TopRegionID {
		return p.SplitRatio
	}
	return 1 - p.SplitRatio
}

// RegionTargetRatio returns the target ratio for a region in stack mode.
// Only stack-mode regions are aspect-solved; PiP regions keep free geometry.
func (p StackParams) RegionTargetRatio(regionID string) float64 {
	return TargetRatio(p.Portion(regionID))
}

// Corner positions the PiP overlay.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// PipShape selects the overlay mask.
type PipShape string

const (
	PipRounded PipShape = "rounded"
	PipCircle  PipShape = "circle"
)

// PipParams describes the background/overlay arrangement.
// Size is a percentage of output width (10–40); Margin is in output pixels.
type PipParams struct {
	BackgroundRegionID string   `json:"backgroundRegionId"`
	OverlayRegionID    string   `json:"overlayRegionId"`
	Position           Corner   `json:"position"`
	Size               float64  `json:"size"`
	Shape              PipShape `json:"shape"`
	Margin             float64  `json:"margin"`
}
