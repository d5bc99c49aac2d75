/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders session state into shareable documents. The
// storyboard PDF gives one page per clip: the source frame with its regions
// drawn to scale, plus the cut boundaries and layout parameters, so a cut
// can be reviewed away from the editor.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"clipframe/internal/geom"
	"clipframe/internal/layout"
	"clipframe/internal/session"
)

// StoryboardOptions controls storyboard rendering. Units are points.
type StoryboardOptions struct {
	// PageWidth/PageHeight default to A4 landscape when zero.
	PageWidth  float64
	PageHeight float64
	// Clips limits output to the given clip indexes; empty means all.
	Clips []int
}

const (
	a4LandscapeW = 841.89
	a4LandscapeH = 595.28
	pageMargin   = 36.0
	headerHeight = 60.0
)

// WriteStoryboard writes the session storyboard PDF to outPath.
func WriteStoryboard(s *session.Session, outPath string, opt StoryboardOptions) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	pageW := opt.PageWidth
	pageH := opt.PageHeight
	if pageW <= 0 || pageH <= 0 {
		pageW, pageH = a4LandscapeW, a4LandscapeH
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Storyboard", s.SourceName), false)
	pdf.SetFont("Helvetica", "", 11)

	clips := opt.Clips
	if len(clips) == 0 {
		for i := range s.Clips {
			clips = append(clips, i)
		}
		if len(clips) == 0 {
			clips = []int{0}
		}
	}

	for _, idx := range clips {
		if idx < 0 || (len(s.Clips) > 0 && idx >= len(s.Clips)) {
			continue
		}
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pageW, Ht: pageH})
		drawClipPage(pdf, s, idx, pageW, pageH)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write storyboard: %w", err)
	}
	return nil
}

func drawClipPage(pdf *gofpdf.Fpdf, s *session.Session, clip int, pageW, pageH float64) {
	// header: clip title, cut boundaries, layout parameters
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pageMargin, pageMargin)
	title := fmt.Sprintf("Clip %d", clip+1)
	var mom session.Moment
	if clip < len(s.Clips) {
		mom = s.Clips[clip].Moment
		if mom.Title != "" {
			title = fmt.Sprintf("Clip %d — %s", clip+1, mom.Title)
		}
	}
	pdf.CellFormat(0, 16, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(pageMargin)
	line := fmt.Sprintf("%s  %s – %s   layout: %s",
		s.SourceName,
		session.FormatTimestamp(mom.Start),
		session.FormatTimestamp(mom.End),
		layoutSummary(s))
	pdf.CellFormat(0, 12, line, "", 1, "L", false, 0, "")

	// frame: 16:9 box scaled into the remaining page area
	availW := pageW - 2*pageMargin
	availH := pageH - 2*pageMargin - headerHeight
	frameW := availW
	frameH := frameW * 9 / 16
	if frameH > availH {
		frameH = availH
		frameW = frameH * 16 / 9
	}
	fx := pageMargin + (availW-frameW)/2
	fy := pageMargin + headerHeight

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(1)
	pdf.Rect(fx, fy, frameW, frameH, "D")

	for _, r := range s.Store().Regions(clip) {
		drawRegion(pdf, r, fx, fy, frameW, frameH)
	}
}

func drawRegion(pdf *gofpdf.Fpdf, r geom.Region, fx, fy, frameW, frameH float64) {
	x := fx + r.X/geom.FrameSize*frameW
	y := fy + r.Y/geom.FrameSize*frameH
	w := r.Width / geom.FrameSize * frameW
	h := r.Height / geom.FrameSize * frameH

	cr, cg, cb := hexColor(r.Color)
	pdf.SetDrawColor(cr, cg, cb)
	pdf.SetFillColor(cr, cg, cb)
	pdf.SetAlpha(0.15, "Normal")
	pdf.Rect(x, y, w, h, "F")
	pdf.SetAlpha(1, "Normal")
	pdf.SetLineWidth(1.2)
	pdf.Rect(x, y, w, h, "D")

	label := r.Label
	if label == "" {
		label = r.ID
	}
	if r.AspectLocked {
		label += " (locked)"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(cr, cg, cb)
	pdf.SetXY(x+3, y+3)
	pdf.CellFormat(w-6, 10, label, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func layoutSummary(s *session.Session) string {
	c := s.Composer()
	if c.Mode() == layout.ModePiP {
		p := c.Pip()
		return fmt.Sprintf("pip (%s over %s, %s)", p.OverlayRegionID, p.BackgroundRegionID, p.Position)
	}
	st := c.Stack()
	return fmt.Sprintf("stack (top: %s, split %.0f%%)", st.TopRegionID, st.SplitRatio*100)
}

// hexColor parses "#rrggbb" into RGB components, defaulting to mid gray.
func hexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 120, 120, 120
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 120, 120, 120
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}
