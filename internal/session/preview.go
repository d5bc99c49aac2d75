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
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"clipframe/internal/geom"
)

// PreviewBuffer holds the decoded still frame shown under the region overlay
// for each clip. Frames are released explicitly when a clip leaves the
// visible set so long sessions do not accumulate decoded images.
type PreviewBuffer struct {
	mu     sync.Mutex
	frames map[int]image.Image
}

// NewPreviewBuffer creates an empty buffer.
func NewPreviewBuffer() *PreviewBuffer {
	return &PreviewBuffer{frames: make(map[int]image.Image)}
}

// Acquire installs the decoded frame for a clip, replacing any previous one.
func (b *PreviewBuffer) Acquire(clip int, frame image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames[clip] = frame
}

// Frame returns the clip's frame, if one is loaded.
func (b *PreviewBuffer) Frame(clip int) (image.Image, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.frames[clip]
	return f, ok
}

// Release drops the clip's frame.
func (b *PreviewBuffer) Release(clip int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.frames, clip)
}

// ReleaseAll drops every frame.
func (b *PreviewBuffer) ReleaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = make(map[int]image.Image)
}

// Len reports how many frames are currently held.
func (b *PreviewBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// RegionPixels maps a percentage-space region onto the pixel bounds of a
// source frame.
func RegionPixels(frame image.Rectangle, r geom.Region) image.Rectangle {
	w := float64(frame.Dx())
	h := float64(frame.Dy())
	x0 := frame.Min.X + int(math.Round(r.X/geom.FrameSize*w))
	y0 := frame.Min.Y + int(math.Round(r.Y/geom.FrameSize*h))
	x1 := frame.Min.X + int(math.Round(r.Right()/geom.FrameSize*w))
	y1 := frame.Min.Y + int(math.Round(r.Bottom()/geom.FrameSize*h))
	return image.Rect(x0, y0, x1, y1)
}

// Thumbnail scales a frame down to fit within maxW×maxH, preserving aspect.
// Frames already small enough are returned unchanged.
func Thumbnail(frame image.Image, maxW, maxH int) image.Image {
	b := frame.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return frame
	}
	scale := math.Min(float64(maxW)/float64(b.Dx()), float64(maxH)/float64(b.Dy()))
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, b, xdraw.Over, nil)
	return dst
}

// EncodeThumbnailPNG scales a frame and returns it PNG-encoded, ready for the
// scratch cache.
func EncodeThumbnailPNG(frame image.Image, maxW, maxH int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Thumbnail(frame, maxW, maxH)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
