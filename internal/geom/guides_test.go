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

import "testing"

func TestSnapMoveToFrameEdge(t *testing.T) {
	opts := SnapOptions{Threshold: 2, SnapToEdges: true}
	moving := Region{ID: "a", X: 1.2, Y: 50, Width: 30, Height: 20}
	snapped, guides := SnapMove(moving, nil, opts)
	if snapped.X != 0 {
		t.Fatalf("expected snap to left frame edge, got x=%v", snapped.X)
	}
	if len(guides) != 1 || guides[0].Orientation != "vertical" || guides[0].Position != 0 {
		t.Fatalf("unexpected guides: %+v", guides)
	}
}

func TestSnapMoveToSiblingEdge(t *testing.T) {
	opts := SnapOptions{Threshold: 2, SnapToEdges: true}
	sibling := Region{ID: "b", X: 40, Y: 10, Width: 20, Height: 20}
	moving := Region{ID: "a", X: 61.3, Y: 50, Width: 20, Height: 20}
	snapped, _ := SnapMove(moving, []Region{sibling}, opts)
	if snapped.X != 60 { // abuts sibling's right edge
		t.Fatalf("expected snap to sibling edge at 60, got x=%v", snapped.X)
	}
}

func TestSnapMoveCenterToFrameCenter(t *testing.T) {
	opts := SnapOptions{Threshold: 2, SnapToCenters: true}
	moving := Region{ID: "a", X: 41, Y: 30, Width: 20, Height: 20}
	snapped, guides := SnapMove(moving, nil, opts)
	if snapped.X != 40 { // center 51 -> 50
		t.Fatalf("expected centered at x=40, got %v", snapped.X)
	}
	if len(guides) != 1 || guides[0].Kind != "center" {
		t.Fatalf("expected a center guide, got %+v", guides)
	}
}

func TestSnapMoveIgnoresSelf(t *testing.T) {
	opts := SnapOptions{Threshold: 2, SnapToEdges: true, SnapToCenters: true}
	moving := Region{ID: "a", X: 24, Y: 24, Width: 30, Height: 30}
	// the only sibling is the moving region itself; only frame anchors apply
	snapped, _ := SnapMove(moving, []Region{moving}, opts)
	if snapped.Y != 24 {
		t.Fatalf("self-snapping must not occur, got y=%v", snapped.Y)
	}
}

func TestSnapMoveOutsideThresholdIsNoop(t *testing.T) {
	opts := SnapOptions{Threshold: 1, SnapToEdges: true, SnapToCenters: true}
	moving := Region{ID: "a", X: 24.2, Y: 57.7, Width: 30, Height: 30}
	snapped, guides := SnapMove(moving, nil, opts)
	if snapped != moving || len(guides) != 0 {
		t.Fatalf("expected no snap: %+v %+v", snapped, guides)
	}
}
