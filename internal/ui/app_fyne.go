//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"clipframe/internal/config"
	"clipframe/internal/editor"
	"clipframe/internal/export"
	"clipframe/internal/geom"
	applog "clipframe/internal/log"
	"clipframe/internal/layout"
	"clipframe/internal/render"
	"clipframe/internal/session"
	"clipframe/internal/telemetry"
	"clipframe/internal/undo"
)

// Run starts the desktop editor. snapshotPath may name a saved session to
// reopen; empty starts a fresh single-clip session.
func Run(snapshotPath string) error {
	l := applog.WithComponent("ui")

	cfg, token, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var sess *session.Session
	if snapshotPath != "" {
		sess, err = session.LoadSnapshot(snapshotPath)
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
	} else {
		sess = session.New("untitled.mp4", nil)
	}
	if cache, err := session.OpenScratchCache("", session.DefaultScratchCap); err != nil {
		l.Warn("preview cache unavailable", slog.Any("err", err))
	} else {
		sess.AttachScratchCache(cache)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			l.Warn("session teardown", slog.Any("err", err))
		}
	}()

	hist := undo.NewManager(undo.Config{MaxPerClip: 100})
	ctrl := editor.NewController(sess, hist, cfg.Editor.SnapEnabled, geom.SnapOptions{
		Threshold:     cfg.Editor.SnapThreshold,
		SnapToEdges:   true,
		SnapToCenters: true,
	})

	a := app.NewWithID("dev.clipframe.editor")
	w := a.NewWindow("ClipFrame")

	cv := NewEditorCanvas(sess, ctrl)

	splitSlider := widget.NewSlider(0.05, 0.95)
	splitSlider.Step = 0.01
	splitSlider.Value = sess.Composer().Stack().SplitRatio
	splitLabel := widget.NewLabel(splitText(sess))
	splitSlider.OnChanged = func(v float64) {
		sess.Composer().SetSplitRatio(v)
		splitLabel.SetText(splitText(sess))
		cv.Refresh()
	}

	swapBtn := widget.NewButton("Swap top/bottom", func() {
		sess.Composer().SwapTopRegion()
		splitLabel.SetText(splitText(sess))
		cv.Refresh()
	})

	pipSwapBtn := widget.NewButton("Swap PiP roles", func() {
		sess.Composer().SwapPipRoles()
		cv.Refresh()
	})

	modeSelect := widget.NewSelect([]string{"stack", "pip"}, func(s string) {
		sess.Composer().SetMode(layout.Mode(s))
		if layout.Mode(s) == layout.ModePiP {
			pipSwapBtn.Enable()
		} else {
			pipSwapBtn.Disable()
		}
		telemetry.LayoutChanged(s, sess.Composer().Stack().SplitRatio)
		cv.Refresh()
	})
	modeSelect.SetSelected(string(sess.Composer().Mode()))

	lockChecks := container.NewVBox()
	rebuildLocks := func() {
		lockChecks.Objects = nil
		for _, r := range sess.ActiveRegions() {
			id := r.ID
			chk := widget.NewCheck(fmt.Sprintf("Lock %s aspect", labelFor(r)), func(on bool) {
				sess.Composer().SetAspectLocked(id, on)
				cv.Refresh()
			})
			chk.Checked = r.AspectLocked
			lockChecks.Add(chk)
		}
		lockChecks.Refresh()
	}
	rebuildLocks()

	clipNames := make([]string, 0, len(sess.Clips))
	for i, c := range sess.Clips {
		name := fmt.Sprintf("Clip %d", i+1)
		if c.Moment.Title != "" {
			name = fmt.Sprintf("Clip %d — %s", i+1, c.Moment.Title)
		}
		clipNames = append(clipNames, name)
	}
	var clipSelect *widget.Select
	if len(clipNames) > 0 {
		clipSelect = widget.NewSelect(clipNames, nil)
		clipSelect.OnChanged = func(string) {
			if err := sess.SelectClip(clipSelect.SelectedIndex()); err != nil {
				l.Error("select clip", slog.Any("err", err))
				return
			}
			telemetry.ClipSelected(sess.ActiveClip())
			rebuildLocks()
			cv.Refresh()
		}
		clipSelect.SetSelectedIndex(sess.ActiveClip())
	}

	saveBtn := widget.NewButton("Save session", func() {
		dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil || uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			if err := sess.SaveSnapshot(path); err != nil {
				dialog.ShowError(err, w)
			}
		}, w)
	})

	exportBtn := widget.NewButton("Export storyboard", func() {
		dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil || uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			if err := export.WriteStoryboard(sess, path, export.StoryboardOptions{}); err != nil {
				dialog.ShowError(err, w)
			}
		}, w)
	})

	captionsCheck := widget.NewCheck("Burn in captions", nil)

	submitBtn := widget.NewButton("Submit clips", func() {
		client := render.NewClient(cfg.Compositor.BaseURL, token, cfg.EffectiveTimeout(), cfg.Compositor.TLSInsecure)
		var captions *render.CaptionOptions
		if captionsCheck.Checked {
			captions = render.DefaultCaptionOptions()
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			results, err := render.SubmitAll(ctx, client, sess, captions, render.DefaultBatchWorkers)
			telemetry.ClipsSubmitted(len(results), string(sess.Composer().Mode()), captions != nil)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				dialog.ShowInformation("Submitted", fmt.Sprintf("%d clip(s) queued", len(results)), w)
			})
		}()
	})

	undoBtn := widget.NewButton("Undo", func() {
		if ctrl.Undo() {
			cv.Refresh()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if ctrl.Redo() {
			cv.Refresh()
		}
	})

	side := container.NewVBox(
		widget.NewLabelWithStyle("Layout", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		modeSelect,
		splitLabel,
		splitSlider,
		swapBtn,
		pipSwapBtn,
		widget.NewSeparator(),
		lockChecks,
		widget.NewSeparator(),
		undoBtn, redoBtn,
		widget.NewSeparator(),
		captionsCheck,
		saveBtn, exportBtn, submitBtn,
	)
	if clipSelect != nil {
		side.Objects = append([]fyne.CanvasObject{clipSelect, widget.NewSeparator()}, side.Objects...)
	}

	w.SetContent(container.NewBorder(nil, nil, nil, container.NewVScroll(side), cv))
	w.Resize(fyne.NewSize(1100, 650))

	telemetry.SetSessionContext(map[string]any{
		"clips":       len(sess.Clips),
		"layout_mode": string(sess.Composer().Mode()),
	})
	telemetry.EditorOpened(len(sess.Clips))
	w.ShowAndRun()
	return nil
}

func splitText(s *session.Session) string {
	st := s.Composer().Stack()
	return fmt.Sprintf("Top slot (%s): %.0f%%", st.TopRegionID, st.SplitRatio*100)
}

func labelFor(r geom.Region) string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// EditorCanvas draws the 16:9 source frame with its regions and routes
// pointer gestures to the drag/resize controller. All geometry crossing the
// widget boundary converts between widget points and frame percentages.
type EditorCanvas struct {
	widget.BaseWidget

	sess *session.Session
	ctrl *editor.Controller

	selected string
	dragging bool
}

func NewEditorCanvas(sess *session.Session, ctrl *editor.Controller) *EditorCanvas {
	ec := &EditorCanvas{sess: sess, ctrl: ctrl}
	ec.ExtendBaseWidget(ec)
	return ec
}

// frameRect returns the letterboxed 16:9 drawing area inside the widget.
func (ec *EditorCanvas) frameRect() (x, y, w, h float32) {
	size := ec.Size()
	w = size.Width
	h = w * 9 / 16
	if h > size.Height {
		h = size.Height
		w = h * 16 / 9
	}
	x = (size.Width - w) / 2
	y = (size.Height - h) / 2
	return
}

// toPercent converts a widget position to frame percentage coordinates.
func (ec *EditorCanvas) toPercent(p fyne.Position) (float64, float64) {
	fx, fy, fw, fh := ec.frameRect()
	if fw <= 0 || fh <= 0 {
		return 0, 0
	}
	return float64(p.X-fx) / float64(fw) * geom.FrameSize,
		float64(p.Y-fy) / float64(fh) * geom.FrameSize
}

// Tapped selects the region under the pointer.
func (ec *EditorCanvas) Tapped(e *fyne.PointEvent) {
	px, py := ec.toPercent(e.Position)
	if id, _, ok := ec.ctrl.HitTest(px, py); ok {
		ec.selected = id
	} else {
		ec.selected = ""
	}
	ec.Refresh()
}

// Dragged starts a gesture on the first event and feeds the pointer position
// to the controller on every event.
func (ec *EditorCanvas) Dragged(e *fyne.DragEvent) {
	px, py := ec.toPercent(e.Position)
	if !ec.dragging {
		// gesture anchor is where the drag began, one delta behind
		sx, sy := ec.toPercent(fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY))
		id, h, ok := ec.ctrl.HitTest(sx, sy)
		if !ok {
			return
		}
		ec.selected = id
		var err error
		if h != "" {
			err = ec.ctrl.StartResize(id, h, sx, sy)
		} else {
			err = ec.ctrl.StartMove(id, sx, sy)
		}
		if err != nil {
			return
		}
		ec.dragging = true
	}
	ec.ctrl.PointerMove(px, py)
	ec.Refresh()
}

// DragEnd finishes the gesture; the controller returns to idle regardless.
func (ec *EditorCanvas) DragEnd() {
	if ec.dragging {
		kind := "move"
		if ec.ctrl.State() == editor.Resizing {
			kind = "resize"
		}
		if id, ok := ec.ctrl.ActiveRegion(); ok {
			telemetry.GestureEnded(kind, id, ec.sess.ActiveClip())
		}
	}
	ec.ctrl.PointerUp()
	ec.dragging = false
	ec.Refresh()
}

func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 24, G: 24, B: 28, A: 255})
	frame := canvas.NewRectangle(color.RGBA{R: 40, G: 40, B: 46, A: 255})
	frame.StrokeColor = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	frame.StrokeWidth = 1.5
	return &editorCanvasRenderer{ec: ec, bg: bg, frame: frame}
}

type editorCanvasRenderer struct {
	ec    *EditorCanvas
	bg    *canvas.Rectangle
	frame *canvas.Rectangle

	regionRects []*canvas.Rectangle
	labels      []*canvas.Text
	handles     []*canvas.Rectangle
	guides      []*canvas.Line
}

func (r *editorCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(640, 360) }

func (r *editorCanvasRenderer) Layout(fyne.Size) { r.Refresh() }

func (r *editorCanvasRenderer) Destroy() {}

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.frame}
	for _, rr := range r.regionRects {
		objs = append(objs, rr)
	}
	for _, t := range r.labels {
		objs = append(objs, t)
	}
	for _, g := range r.guides {
		objs = append(objs, g)
	}
	for _, h := range r.handles {
		objs = append(objs, h)
	}
	return objs
}

func (r *editorCanvasRenderer) Refresh() {
	ec := r.ec
	size := ec.Size()
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	fx, fy, fw, fh := ec.frameRect()
	r.frame.Move(fyne.NewPos(fx, fy))
	r.frame.Resize(fyne.NewSize(fw, fh))

	regions := ec.sess.ActiveRegions()
	r.ensureObjects(len(regions))

	toPos := func(px, py float64) fyne.Position {
		return fyne.NewPos(
			fx+float32(px/geom.FrameSize)*fw,
			fy+float32(py/geom.FrameSize)*fh)
	}

	var selected *geom.Region
	for i, reg := range regions {
		rect := r.regionRects[i]
		pos := toPos(reg.X, reg.Y)
		rect.Move(pos)
		rect.Resize(fyne.NewSize(
			float32(reg.Width/geom.FrameSize)*fw,
			float32(reg.Height/geom.FrameSize)*fh))
		cr, cg, cb := regionColor(reg)
		rect.FillColor = color.RGBA{R: cr, G: cg, B: cb, A: 50}
		rect.StrokeColor = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		rect.StrokeWidth = 2
		rect.Show()
		rect.Refresh()

		label := r.labels[i]
		label.Text = labelFor(reg)
		label.Color = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		label.TextSize = 12
		label.Move(fyne.NewPos(pos.X+4, pos.Y+2))
		label.Show()
		label.Refresh()

		if reg.ID == ec.selected {
			sel := reg
			selected = &sel
		}
	}

	// handles on the selected region
	if selected != nil {
		spots := [][2]float64{
			{selected.X, selected.Y},
			{selected.Right(), selected.Y},
			{selected.X, selected.Bottom()},
			{selected.Right(), selected.Bottom()},
			{selected.X + selected.Width/2, selected.Y},
			{selected.X + selected.Width/2, selected.Bottom()},
			{selected.Right(), selected.Y + selected.Height/2},
			{selected.X, selected.Y + selected.Height/2},
		}
		const hs = 8
		for i, sp := range spots {
			h := r.handles[i]
			p := toPos(sp[0], sp[1])
			h.Move(fyne.NewPos(p.X-hs/2, p.Y-hs/2))
			h.Resize(fyne.NewSize(hs, hs))
			h.Show()
			h.Refresh()
		}
	} else {
		for _, h := range r.handles {
			h.Hide()
		}
	}

	// live snap guides
	lines := ec.ctrl.Guides()
	r.ensureGuides(len(lines))
	for i, g := range lines {
		ln := r.guides[i]
		if g.Orientation == "vertical" {
			p := toPos(g.Position, 0)
			ln.Position1 = fyne.NewPos(p.X, fy)
			ln.Position2 = fyne.NewPos(p.X, fy+fh)
		} else {
			p := toPos(0, g.Position)
			ln.Position1 = fyne.NewPos(fx, p.Y)
			ln.Position2 = fyne.NewPos(fx+fw, p.Y)
		}
		ln.Show()
		ln.Refresh()
	}
	for i := len(lines); i < len(r.guides); i++ {
		r.guides[i].Hide()
	}
}

func (r *editorCanvasRenderer) ensureObjects(n int) {
	for len(r.regionRects) < n {
		rect := canvas.NewRectangle(color.Transparent)
		r.regionRects = append(r.regionRects, rect)
		r.labels = append(r.labels, canvas.NewText("", color.White))
	}
	for i := n; i < len(r.regionRects); i++ {
		r.regionRects[i].Hide()
		r.labels[i].Hide()
	}
	for len(r.handles) < 8 {
		h := canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		h.Hide()
		r.handles = append(r.handles, h)
	}
}

func (r *editorCanvasRenderer) ensureGuides(n int) {
	for len(r.guides) < n {
		ln := canvas.NewLine(color.RGBA{R: 255, G: 80, B: 200, A: 200})
		ln.StrokeWidth = 1
		r.guides = append(r.guides, ln)
	}
}

func regionColor(r geom.Region) (uint8, uint8, uint8) {
	s := r.Color
	if len(s) == 7 && s[0] == '#' {
		var cr, cg, cb uint8
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &cr, &cg, &cb); err == nil {
			return cr, cg, cb
		}
	}
	return 120, 160, 220
}
