/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"

	"clipframe/internal/geom"
)

func regionsAt(x float64) []geom.Region {
	return []geom.Region{{ID: "content", X: x, Y: 0, Width: 50, Height: 100}}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Push(0, regionsAt(2), t0)
	current := regionsAt(20)

	prev, ok := m.Undo(0, current)
	if !ok {
		t.Fatalf("undo should succeed")
	}
	if prev[0].X != 2 {
		t.Fatalf("undo returned wrong state: %+v", prev)
	}
	redone, ok := m.Redo(0, prev)
	if !ok {
		t.Fatalf("redo should succeed")
	}
	if redone[0].X != 20 {
		t.Fatalf("redo should restore the undone state: %+v", redone)
	}
	if !m.CanUndo(0) {
		t.Fatalf("redo should repopulate the undo stack")
	}
}

func TestUndoEmptyStack(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(0, regionsAt(1)); ok {
		t.Fatalf("undo on empty stack must fail")
	}
	if _, ok := m.Redo(0, regionsAt(1)); ok {
		t.Fatalf("redo on empty stack must fail")
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Push(0, regionsAt(2), t0)
	if _, ok := m.Undo(0, regionsAt(10)); !ok {
		t.Fatalf("undo failed")
	}
	if !m.CanRedo(0) {
		t.Fatalf("redo stack should be populated")
	}
	m.Push(0, regionsAt(30), t0.Add(time.Second))
	if m.CanRedo(0) {
		t.Fatalf("new push must clear redo history")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: 100 * time.Millisecond})
	t0 := time.Now()
	m.Push(0, regionsAt(2), t0)
	m.Push(0, regionsAt(3), t0.Add(10*time.Millisecond))
	m.Push(0, regionsAt(4), t0.Add(20*time.Millisecond))
	_, _, entries := m.Stats()
	if entries != 1 {
		t.Fatalf("rapid pushes should coalesce, got %d entries", entries)
	}
	prev, _ := m.Undo(0, regionsAt(9))
	if prev[0].X != 4 {
		t.Fatalf("coalesced entry should hold the latest state: %+v", prev)
	}
}

func TestPerClipDepthCap(t *testing.T) {
	m := NewManager(Config{MaxPerClip: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 5; i++ {
		m.Push(0, regionsAt(float64(i)), t0.Add(time.Duration(i)*time.Second))
	}
	_, _, entries := m.Stats()
	if entries != 2 {
		t.Fatalf("depth cap not enforced: %d entries", entries)
	}
	prev, _ := m.Undo(0, regionsAt(99))
	if prev[0].X != 4 {
		t.Fatalf("newest entry should survive the cap: %+v", prev)
	}
}

func TestClipIsolation(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Push(0, regionsAt(1), t0)
	m.Push(1, regionsAt(2), t0)
	m.ClearClip(0)
	if m.CanUndo(0) {
		t.Fatalf("clip 0 history should be gone")
	}
	if !m.CanUndo(1) {
		t.Fatalf("clip 1 history must survive clearing clip 0")
	}
}

func TestGlobalByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 200, MinInterval: time.Millisecond})
	t0 := time.Now()
	// each entry is ~71 bytes; the fourth push must evict the first
	for i := 0; i < 4; i++ {
		m.Push(0, regionsAt(float64(i)), t0.Add(time.Duration(i)*time.Second))
	}
	total, _, entries := m.Stats()
	if total > 200 {
		t.Fatalf("byte cap exceeded: %d", total)
	}
	if entries >= 4 {
		t.Fatalf("oldest entries not pruned: %d", entries)
	}
}
