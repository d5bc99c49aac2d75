/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

// Typed constructors for the editor's event vocabulary. They keep event
// names and property keys in one place so the analytics side never sees a
// misspelled ad-hoc map. Region ids ("content", "webcam") are template
// identifiers, not user data.

// EditorOpened records an editing session starting.
func EditorOpened(clips int) {
	Event("editor_opened", map[string]any{"clips": clips})
}

// ClipSelected records the user switching to another clip.
func ClipSelected(clip int) {
	Event("clip_selected", map[string]any{"clip": clip})
}

// GestureEnded records a completed drag or resize gesture.
// kind is "move" or "resize".
func GestureEnded(kind, regionID string, clip int) {
	Event("gesture_ended", map[string]any{
		"kind":   kind,
		"region": regionID,
		"clip":   clip,
	})
}

// LayoutChanged records a switch of the composition parameters.
func LayoutChanged(mode string, splitRatio float64) {
	Event("layout_changed", map[string]any{
		"layout_mode": mode,
		"split_ratio": splitRatio,
	})
}

// ClipsSubmitted records a batch submission to the compositor.
func ClipsSubmitted(count int, mode string, captions bool) {
	Event("clips_submitted", map[string]any{
		"count":       count,
		"layout_mode": mode,
		"captions":    captions,
	})
}
