/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render builds and submits composition requests to the rendering
// compositor. The request format is the engine's outbound contract: region
// geometry in percentage space plus the layout parameters, exactly as the
// editor last left them.
package render

import (
	"fmt"

	"clipframe/internal/geom"
	"clipframe/internal/layout"
	"clipframe/internal/session"
)

// ComposeRegion is a region as sent to the compositor: geometry only, no
// editor-side presentation fields.
type ComposeRegion struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CaptionOptions selects burned-in caption rendering for the output. The
// compositor transcribes the clip and overlays word groups styled by these
// fields; zero values fall back to its own defaults, so only Enabled is
// required.
type CaptionOptions struct {
	Enabled           bool    `json:"enabled"`
	WordsPerGroup     int     `json:"words_per_group,omitempty"`
	SilenceThreshold  float64 `json:"silence_threshold,omitempty"`
	FontSize          int     `json:"font_size,omitempty"`
	FontName          string  `json:"font_name,omitempty"`
	PrimaryColor      string  `json:"primary_color,omitempty"`
	HighlightColor    string  `json:"highlight_color,omitempty"`
	HighlightScale    float64 `json:"highlight_scale,omitempty"`
	PositionY         int     `json:"position_y,omitempty"` // percent from the top
	TextStyle         string  `json:"text_style,omitempty"`
	AnimationStyle    string  `json:"animation_style,omitempty"`
	WordSpacing       int     `json:"word_spacing,omitempty"`
	OutlineEnabled    bool    `json:"outline_enabled,omitempty"`
	OutlineColor      string  `json:"outline_color,omitempty"`
	OutlineWidth      int     `json:"outline_width,omitempty"`
	ShadowEnabled     bool    `json:"shadow_enabled,omitempty"`
	ShadowColor       string  `json:"shadow_color,omitempty"`
	BackgroundEnabled bool    `json:"background_enabled,omitempty"`
	BackgroundColor   string  `json:"background_color,omitempty"`
	BackgroundOpacity int     `json:"background_opacity,omitempty"`
}

// DefaultCaptionOptions returns the caption styling used when the user
// enables captions without customizing anything.
func DefaultCaptionOptions() *CaptionOptions {
	return &CaptionOptions{
		Enabled:          true,
		WordsPerGroup:    3,
		SilenceThreshold: 0.5,
		FontSize:         56,
		FontName:         "Arial Black",
		PrimaryColor:     "#ffffff",
		HighlightColor:   "#fbbf24",
		HighlightScale:   1.3,
		PositionY:        85,
		TextStyle:        "normal",
		AnimationStyle:   "both",
		WordSpacing:      8,
		OutlineEnabled:   true,
		OutlineColor:     "#000000",
		OutlineWidth:     3,
		ShadowEnabled:    true,
		ShadowColor:      "#000000",
	}
}

// ComposeRequest describes one clip to render: the cut boundaries plus the
// full region/layout state.
type ComposeRequest struct {
	Source      string             `json:"source"`
	StartTime   float64            `json:"start_time"`
	EndTime     float64            `json:"end_time"`
	Title       string             `json:"title,omitempty"`
	Regions     []ComposeRegion    `json:"regions"`
	LayoutMode  layout.Mode        `json:"layout_mode"`
	Layout      layout.StackParams `json:"layout"`
	PipSettings *layout.PipParams  `json:"pip_settings,omitempty"`
	Captions    *CaptionOptions    `json:"captions,omitempty"`
}

// JobStatus is the compositor's view of a submitted job.
type JobStatus struct {
	ID        string  `json:"id"`
	State     string  `json:"state"` // "queued", "running", "done", "failed"
	Progress  float64 `json:"progress"`
	OutputURL string  `json:"output_url,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// BuildRequest assembles the compose request for one clip of a session. The
// region geometry is read as-is; the editor keeps it valid, so no re-solving
// happens here.
func BuildRequest(s *session.Session, clip int, captions *CaptionOptions) (ComposeRequest, error) {
	if clip < 0 || (len(s.Clips) > 0 && clip >= len(s.Clips)) {
		return ComposeRequest{}, fmt.Errorf("clip index %d out of range", clip)
	}
	req := ComposeRequest{
		Source:     s.SourceName,
		LayoutMode: s.Composer().Mode(),
		Layout:     s.Composer().Stack(),
		Captions:   captions,
	}
	if len(s.Clips) > 0 {
		m := s.Clips[clip].Moment
		req.StartTime = m.Start
		req.EndTime = m.End
		req.Title = m.Title
	}
	if req.LayoutMode == layout.ModePiP {
		pip := s.Composer().Pip()
		req.PipSettings = &pip
	}
	for _, r := range s.Store().Regions(clip) {
		req.Regions = append(req.Regions, fromRegion(r))
	}
	return req, nil
}

func fromRegion(r geom.Region) ComposeRegion {
	return ComposeRegion{ID: r.ID, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
