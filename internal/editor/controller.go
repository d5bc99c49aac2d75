/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor implements the pointer interaction layer: a drag/resize
// state machine over the active clip's regions. All geometry is computed
// from the gesture's start snapshot plus the live pointer delta, so region
// state never drifts across a long gesture and a cancelled gesture restores
// the exact starting geometry.
package editor

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"clipframe/internal/geom"
	applog "clipframe/internal/log"
	"clipframe/internal/session"
	"clipframe/internal/undo"
)

// HandleTolerance is the half-size of a handle's hit zone, in percent.
const HandleTolerance = 2.5

// State enumerates the interaction machine's states. Any pointer-up returns
// to Idle regardless of the state it interrupts.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Controller runs the drag/resize state machine for the session's active
// clip. It writes region geometry through the session's store and records
// one undo entry per completed gesture.
type Controller struct {
	sess    *session.Session
	history *undo.Manager

	snapEnabled bool
	snap        geom.SnapOptions

	state    State
	regionID string
	handle   geom.Handle
	start    geom.Region   // gesture-start geometry of the grabbed region
	startSet []geom.Region // full set at gesture start, for undo and cancel
	anchorX  float64       // pointer position at gesture start
	anchorY  float64
	guides   []geom.GuideLine

	log *slog.Logger
}

// NewController creates an idle controller. history may be nil when gesture
// undo is not wanted.
func NewController(sess *session.Session, history *undo.Manager, snapEnabled bool, snap geom.SnapOptions) *Controller {
	return &Controller{
		sess:        sess,
		history:     history,
		snapEnabled: snapEnabled,
		snap:        snap,
		log:         applog.WithComponent("editor"),
	}
}

// State returns the current machine state.
func (c *Controller) State() State { return c.state }

// ActiveRegion returns the id of the region being dragged or resized.
func (c *Controller) ActiveRegion() (string, bool) {
	if c.state == Idle {
		return "", false
	}
	return c.regionID, true
}

// Guides returns the snap guide lines produced by the last pointer move.
// Empty outside of a snapping drag.
func (c *Controller) Guides() []geom.GuideLine { return c.guides }

// SetSnapping toggles move snapping for subsequent gestures.
func (c *Controller) SetSnapping(enabled bool) { c.snapEnabled = enabled }

// HitTest resolves a pointer position to a region and optionally a resize
// handle. Regions later in the set are considered on top. A non-empty handle
// means the point grabbed a resize target; an empty handle with ok=true
// means the region body.
func (c *Controller) HitTest(px, py float64) (regionID string, handle geom.Handle, ok bool) {
	regions := c.sess.ActiveRegions()
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if h := geom.HandleAt(r, px, py, HandleTolerance); h != "" {
			return r.ID, h, true
		}
	}
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if r.Contains(px, py) {
			return r.ID, "", true
		}
	}
	return "", "", false
}

// StartMove begins dragging a region body. The pointer position anchors the
// gesture; all subsequent moves are deltas against it.
func (c *Controller) StartMove(regionID string, px, py float64) error {
	if err := c.begin(regionID, px, py); err != nil {
		return err
	}
	c.state = Dragging
	c.log.Debug("drag started", slog.String("region", regionID))
	return nil
}

// StartResize begins resizing a region by the given handle.
func (c *Controller) StartResize(regionID string, h geom.Handle, px, py float64) error {
	if !h.Valid() {
		return fmt.Errorf("invalid handle %q", h)
	}
	if err := c.begin(regionID, px, py); err != nil {
		return err
	}
	c.state = Resizing
	c.handle = h
	c.log.Debug("resize started", slog.String("region", regionID), slog.String("handle", string(h)))
	return nil
}

func (c *Controller) begin(regionID string, px, py float64) error {
	if c.state != Idle {
		return fmt.Errorf("gesture already in progress (%s)", c.state)
	}
	r, ok := c.sess.Store().Region(c.sess.ActiveClip(), regionID)
	if !ok {
		return fmt.Errorf("unknown region %q", regionID)
	}
	c.regionID = regionID
	c.start = r
	c.startSet = c.sess.ActiveRegions()
	c.anchorX, c.anchorY = px, py
	c.guides = nil
	return nil
}

// PointerMove applies the current pointer position to the active gesture.
// The result is always computed from the start snapshot, never from the
// previous intermediate state. A no-op while Idle.
func (c *Controller) PointerMove(px, py float64) {
	if c.state == Idle {
		return
	}
	dx := px - c.anchorX
	dy := py - c.anchorY

	var next geom.Region
	c.guides = nil
	switch c.state {
	case Dragging:
		next = geom.Move(c.start, dx, dy)
		if c.snapEnabled {
			next, c.guides = geom.SnapMove(next, c.startSet, c.snap)
		}
	case Resizing:
		next = c.resize(dx, dy)
	}
	c.sess.Store().PutRegion(c.sess.ActiveClip(), next)
}

// resize computes the resized region for the current handle and delta,
// honoring the aspect lock when the composer solves this region.
func (c *Controller) resize(dx, dy float64) geom.Region {
	ratio, solved := c.sess.Composer().TargetRatioFor(c.regionID)
	if c.start.AspectLocked && solved {
		return resizeLocked(c.start, c.handle, dx, dy, ratio)
	}
	return geom.ResizeEdge(c.start, c.handle, dx, dy)
}

// resizeLocked resizes while preserving the target width:height ratio.
// The touched dimension is authoritative and the other is derived; corner
// handles pick the authority per sample from the dominant delta. Clamps on
// the derived dimension propagate back so the ratio survives everywhere
// except at the frame boundary, where the final safety clamps win.
func resizeLocked(start geom.Region, h geom.Handle, dx, dy, ratio float64) geom.Region {
	w := start.Width
	ht := start.Height
	if h.East() {
		w = start.Width + dx
	}
	if h.West() {
		w = start.Width - dx
	}
	if h.South() {
		ht = start.Height + dy
	}
	if h.North() {
		ht = start.Height - dy
	}

	widthLeads := h.Horizontal()
	if h.Corner() {
		widthLeads = math.Abs(dx) >= math.Abs(dy)
	}

	if widthLeads {
		w = clampDim(w)
		ht = w / ratio
		if clamped := clampDim(ht); clamped != ht {
			ht = clamped
			w = ht * ratio
		}
	} else {
		ht = clampDim(ht)
		w = ht * ratio
		if clamped := clampDim(w); clamped != w {
			w = clamped
			ht = w / ratio
		}
	}
	w = clampDim(w)
	ht = clampDim(ht)

	r := start
	r.Width = w
	r.Height = ht
	if h.West() {
		r.X = start.Right() - w
	}
	if h.North() {
		r.Y = start.Bottom() - ht
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	// frame-boundary safety clamps; these may break the ratio, by then the
	// rectangle is pinned against the frame anyway
	if r.Right() > geom.FrameSize {
		r.Width = geom.FrameSize - r.X
	}
	if r.Bottom() > geom.FrameSize {
		r.Height = geom.FrameSize - r.Y
	}
	return r
}

func clampDim(v float64) float64 {
	if v < geom.MinSize {
		return geom.MinSize
	}
	if v > geom.FrameSize {
		return geom.FrameSize
	}
	return v
}

// PointerUp ends the active gesture, recording an undo entry when the
// geometry actually changed. Unconditionally returns to Idle.
func (c *Controller) PointerUp() {
	if c.state == Idle {
		return
	}
	final, _ := c.sess.Store().Region(c.sess.ActiveClip(), c.regionID)
	if final != c.start && c.history != nil {
		c.history.Push(c.sess.ActiveClip(), c.startSet, time.Now())
	}
	c.log.Debug("gesture finished",
		slog.String("region", c.regionID),
		slog.String("state", c.state.String()),
		slog.Bool("changed", final != c.start))
	c.reset()
}

// Cancel aborts the gesture and restores the start geometry.
func (c *Controller) Cancel() {
	if c.state == Idle {
		return
	}
	c.sess.Store().Replace(c.sess.ActiveClip(), c.startSet)
	c.reset()
}

func (c *Controller) reset() {
	c.state = Idle
	c.regionID = ""
	c.handle = ""
	c.startSet = nil
	c.guides = nil
}

// Undo restores the active clip's previous region set, if any.
func (c *Controller) Undo() bool {
	if c.history == nil || c.state != Idle {
		return false
	}
	clip := c.sess.ActiveClip()
	prev, ok := c.history.Undo(clip, c.sess.ActiveRegions())
	if !ok {
		return false
	}
	c.sess.Store().Replace(clip, prev)
	return true
}

// Redo reverses the most recent Undo for the active clip.
func (c *Controller) Redo() bool {
	if c.history == nil || c.state != Idle {
		return false
	}
	clip := c.sess.ActiveClip()
	next, ok := c.history.Redo(clip, c.sess.ActiveRegions())
	if !ok {
		return false
	}
	c.sess.Store().Replace(clip, next)
	return true
}
