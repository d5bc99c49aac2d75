/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"clipframe/internal/geom"
	"clipframe/internal/layout"
	applog "clipframe/internal/log"
)

// Session ties the clip list, the per-clip region store and the layout
// composer together. The composer always operates on the active clip's
// regions through the activeRegions adapter, so switching clips is a pure
// selector change with no geometry side effects.
type Session struct {
	SourceName string
	Clips      []Clip

	store    *RegionStore
	active   int
	composer *layout.Composer
	previews *PreviewBuffer
	scratch  *ScratchCache
	log      *slog.Logger
}

// activeRegions adapts the store's active-clip view to layout.RegionAccess.
type activeRegions struct{ s *Session }

func (a activeRegions) Update(fn func([]geom.Region) []geom.Region) {
	a.s.store.SetRegions(a.s.active, fn)
}

// New creates a session for the given clips with default layout parameters.
func New(sourceName string, clips []Clip) *Session {
	s := &Session{
		SourceName: sourceName,
		Clips:      clips,
		store:      NewRegionStore(nil),
		previews:   NewPreviewBuffer(),
		log:        applog.WithComponent("session"),
	}
	s.composer = layout.NewComposer(activeRegions{s},
		layout.StackParams{SplitRatio: 0.6, TopRegionID: "content"},
		layout.PipParams{
			BackgroundRegionID: "content",
			OverlayRegionID:    "webcam",
			Position:           layout.CornerBottomRight,
			Size:               25,
			Shape:              layout.PipRounded,
			Margin:             16,
		})
	return s
}

// Composer returns the layout composer bound to the active clip.
func (s *Session) Composer() *layout.Composer { return s.composer }

// Store returns the per-clip region store.
func (s *Session) Store() *RegionStore { return s.store }

// ActiveClip returns the index of the clip being edited.
func (s *Session) ActiveClip() int { return s.active }

// Previews returns the per-clip preview frame buffer.
func (s *Session) Previews() *PreviewBuffer { return s.previews }

// AttachScratchCache hands the session a thumbnail scratch cache to close on
// teardown. Any previously attached cache is closed first.
func (s *Session) AttachScratchCache(c *ScratchCache) {
	if s.scratch != nil && s.scratch != c {
		if err := s.scratch.Close(); err != nil {
			s.log.Warn("close scratch cache", slog.Any("err", err))
		}
	}
	s.scratch = c
}

// Scratch returns the attached thumbnail cache, if any.
func (s *Session) Scratch() *ScratchCache { return s.scratch }

// Close releases every preview frame and removes the scratch cache file.
// The session remains usable for region edits afterwards; only the preview
// machinery is torn down.
func (s *Session) Close() error {
	s.previews.ReleaseAll()
	if s.scratch == nil {
		return nil
	}
	err := s.scratch.Close()
	s.scratch = nil
	return err
}

// SelectClip switches editing to another clip. It is a pure selector change:
// every clip's regions stay exactly as left, and the target clip's set is
// materialized on first read. Only the previous clip's preview frame is
// released.
func (s *Session) SelectClip(idx int) error {
	if idx < 0 || (len(s.Clips) > 0 && idx >= len(s.Clips)) {
		return fmt.Errorf("clip index %d out of range", idx)
	}
	if idx != s.active {
		s.previews.Release(s.active)
	}
	s.active = idx
	s.log.Debug("selected clip", slog.Int("clip", idx))
	return nil
}

// ActiveRegions returns a copy of the active clip's region set.
func (s *Session) ActiveRegions() []geom.Region {
	return s.store.Regions(s.active)
}

// Snapshot is the JSON form of a saved session: layout parameters plus every
// clip's region set. It exists for explicit save/load only.
type Snapshot struct {
	Version    int                   `json:"version"`
	SourceName string                `json:"sourceName"`
	Clips      []Clip                `json:"clips"`
	ActiveClip int                   `json:"activeClip"`
	Mode       layout.Mode           `json:"layoutMode"`
	Stack      layout.StackParams    `json:"layout"`
	Pip        layout.PipParams      `json:"pipSettings"`
	Regions    map[int][]geom.Region `json:"regions"`
}

const snapshotVersion = 1

// SaveSnapshot writes the session state to path as JSON.
func (s *Session) SaveSnapshot(path string) error {
	snap := Snapshot{
		Version:    snapshotVersion,
		SourceName: s.SourceName,
		Clips:      s.Clips,
		ActiveClip: s.active,
		Mode:       s.composer.Mode(),
		Stack:      s.composer.Stack(),
		Pip:        s.composer.Pip(),
		Regions:    make(map[int][]geom.Region, len(s.Clips)),
	}
	for i := range s.Clips {
		snap.Regions[i] = s.store.Regions(i)
	}
	if len(s.Clips) == 0 {
		snap.Regions[0] = s.store.Regions(0)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.log.Info("snapshot saved", slog.String("path", path))
	return nil
}

// LoadSnapshot restores a session from a snapshot file written by
// SaveSnapshot.
func LoadSnapshot(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	s := New(snap.SourceName, snap.Clips)
	// Replay layout parameters first: their mutators re-solve the active
	// clip's regions, and that must not touch the saved geometry installed
	// below.
	s.composer.SetPipParams(snap.Pip)
	s.composer.SetTopRegion(snap.Stack.TopRegionID)
	s.composer.SetSplitRatio(snap.Stack.SplitRatio)
	s.composer.SetMode(snap.Mode)
	for idx, regions := range snap.Regions {
		s.store.Replace(idx, regions)
	}
	if snap.ActiveClip >= 0 && (len(snap.Clips) == 0 || snap.ActiveClip < len(snap.Clips)) {
		s.active = snap.ActiveClip
	}
	return s, nil
}
