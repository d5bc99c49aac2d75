/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo keeps an in-memory undo/redo history of region sets, one
// stack pair per clip, with byte and depth caps so long editing sessions
// stay bounded.
package undo

import (
	"sync"
	"time"

	"clipframe/internal/geom"
)

// Entry is one recorded region-set state for a clip.
type Entry struct {
	Clip    int
	Regions []geom.Region
	TS      time.Time
}

// entrySize estimates an entry's memory cost for the byte cap.
func entrySize(e Entry) int {
	size := 0
	for _, r := range e.Regions {
		size += 64 + len(r.ID) + len(r.Label) + len(r.Color)
	}
	return size
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxPerClip limits entries kept per clip (0 means unlimited).
	MaxPerClip int
	// MinInterval coalesces entries recorded within the interval for the
	// same clip, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides per-clip undo/redo stacks. Safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[int][]Entry
	redo map[int][]Entry

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 4 * 1024 * 1024
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[int][]Entry), redo: make(map[int][]Entry)}
}

// Push records the clip's region set as it was before a change. Entries
// recorded within MinInterval of the previous one for the same clip replace
// it. Any push invalidates the clip's redo stack.
func (m *Manager) Push(clip int, regions []geom.Region, ts time.Time) {
	e := Entry{Clip: clip, Regions: append([]geom.Region(nil), regions...), TS: ts}
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[clip]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if e.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes += entrySize(e) - entrySize(last)
			stack[n-1] = e
			m.undo[clip] = stack
			m.redo[clip] = nil
			m.enforceCapsLocked(clip)
			return
		}
	}
	m.undo[clip] = append(stack, e)
	m.totalBytes += entrySize(e)
	m.redo[clip] = nil
	m.enforceCapsLocked(clip)
}

// Undo pops the most recent entry for the clip and returns its region set.
// The caller passes the clip's current regions, which move to the redo stack
// so Redo can restore them.
func (m *Manager) Undo(clip int, current []geom.Region) ([]geom.Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[clip]
	if len(stack) == 0 {
		return nil, false
	}
	e := stack[len(stack)-1]
	m.undo[clip] = stack[:len(stack)-1]
	m.totalBytes -= entrySize(e)
	cur := Entry{Clip: clip, Regions: append([]geom.Region(nil), current...), TS: time.Now()}
	m.redo[clip] = append(m.redo[clip], cur)
	return e.Regions, true
}

// Redo reverses the most recent Undo for the clip, moving the clip's current
// regions back onto the undo stack.
func (m *Manager) Redo(clip int, current []geom.Region) ([]geom.Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[clip]
	if len(r) == 0 {
		return nil, false
	}
	e := r[len(r)-1]
	m.redo[clip] = r[:len(r)-1]
	cur := Entry{Clip: clip, Regions: append([]geom.Region(nil), current...), TS: time.Now()}
	m.undo[clip] = append(m.undo[clip], cur)
	m.totalBytes += entrySize(cur)
	m.enforceCapsLocked(clip)
	return e.Regions, true
}

// CanUndo reports whether the clip has undo history.
func (m *Manager) CanUndo(clip int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[clip]) > 0
}

// CanRedo reports whether the clip has redo history.
func (m *Manager) CanRedo(clip int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[clip]) > 0
}

// ClearClip drops both stacks for a clip to free memory.
func (m *Manager) ClearClip(clip int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.undo[clip] {
		m.totalBytes -= entrySize(e)
	}
	delete(m.undo, clip)
	delete(m.redo, clip)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes, clips, totalEntries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clips = len(m.undo)
	for _, v := range m.undo {
		totalEntries += len(v)
	}
	return m.totalBytes, clips, totalEntries
}

func (m *Manager) enforceCapsLocked(clip int) {
	if m.cfg.MaxPerClip > 0 {
		stack := m.undo[clip]
		if len(stack) > m.cfg.MaxPerClip {
			toDrop := len(stack) - m.cfg.MaxPerClip
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= entrySize(stack[i])
			}
			m.undo[clip] = append([]Entry{}, stack[toDrop:]...)
		}
	}
	// Global cap: prune the oldest entry across all clips until under budget.
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestClip := 0
		var oldestTS time.Time
		found := false
		for c, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestClip, oldestTS, found = c, stack[0].TS, true
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestClip]
		m.totalBytes -= entrySize(stack[0])
		if len(stack) == 1 {
			delete(m.undo, oldestClip)
		} else {
			m.undo[oldestClip] = append([]Entry{}, stack[1:]...)
		}
	}
}
