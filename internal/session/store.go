/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package session holds the in-memory editing state: one independent region
// set per clip, the clip/moment metadata, and the preview buffer lifecycle.
// Nothing here persists region state beyond the session; explicit snapshot
// save/load is a user-initiated export of the outbound description.
package session

import (
	"sync"

	"clipframe/internal/geom"
)

// DefaultTemplate returns the region set a clip starts with: a full-height
// content selection (width matching the 0.6 split default) and a smaller
// webcam selection. Each call returns a fresh copy.
func DefaultTemplate() []geom.Region {
	return []geom.Region{
		{ID: "content", Label: "Content", X: 2, Y: 0, Width: 53, Height: 100, Color: "#3b82f6", AspectLocked: true},
		{ID: "webcam", Label: "Webcam", X: 62, Y: 58, Width: 32, Height: 40, Color: "#f59e0b", AspectLocked: true},
	}
}

// RegionStore holds one independent region set per clip index, materializing
// the default template on first read so no clip index ever observes a nil
// set. Reads hand out copies; writes go through SetRegions.
type RegionStore struct {
	mu       sync.Mutex
	sets     map[int][]geom.Region
	template func() []geom.Region
}

// NewRegionStore creates a store backed by the given template factory.
// A nil factory uses DefaultTemplate.
func NewRegionStore(template func() []geom.Region) *RegionStore {
	if template == nil {
		template = DefaultTemplate
	}
	return &RegionStore{sets: make(map[int][]geom.Region), template: template}
}

// Regions returns a copy of the region set for the clip, materializing a
// fresh template copy on first access. Materializing is idempotent and never
// mutates shared defaults.
func (s *RegionStore) Regions(clip int) []geom.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]geom.Region(nil), s.materializeLocked(clip)...)
}

// Region returns the region with the given id for the clip, if present.
func (s *RegionStore) Region(clip int, id string) (geom.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.materializeLocked(clip) {
		if r.ID == id {
			return r, true
		}
	}
	return geom.Region{}, false
}

// SetRegions applies an updater to the clip's region set and writes the
// result back. Only the entry for this clip changes; all other clips' sets
// are untouched.
func (s *RegionStore) SetRegions(clip int, update func([]geom.Region) []geom.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := append([]geom.Region(nil), s.materializeLocked(clip)...)
	next := update(cur)
	s.sets[clip] = append([]geom.Region(nil), next...)
}

// Replace installs a replacement region set for the clip.
func (s *RegionStore) Replace(clip int, regions []geom.Region) {
	s.SetRegions(clip, func([]geom.Region) []geom.Region { return regions })
}

// PutRegion replaces the region matching r.ID in the clip's set. Regions
// other than r are never touched.
func (s *RegionStore) PutRegion(clip int, r geom.Region) {
	s.SetRegions(clip, func(regions []geom.Region) []geom.Region {
		for i := range regions {
			if regions[i].ID == r.ID {
				regions[i] = r
			}
		}
		return regions
	})
}

// Clear discards every clip's region set. The next read materializes fresh
// template copies.
func (s *RegionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = make(map[int][]geom.Region)
}

func (s *RegionStore) materializeLocked(clip int) []geom.Region {
	if set, ok := s.sets[clip]; ok {
		return set
	}
	set := s.template()
	s.sets[clip] = set
	return set
}
