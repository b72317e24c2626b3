// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package session implements the engine's per-handle memoization
// layer (spec.md §4.F): cached decoded preview buffers per PreviewKind
// and cached mask-runtime bitmaps keyed by the masks JSON subtree and
// frame dimensions that produced them, behind a per-session mutex.
package session

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/mlnoga/rawforge/internal/engineerr"
	"github.com/mlnoga/rawforge/internal/metadata"
	"github.com/mlnoga/rawforge/internal/payload"
	"github.com/mlnoga/rawforge/internal/raw"
	"github.com/mlnoga/rawforge/internal/render"
)

// PreviewKind enumerates the resolution tiers of spec.md §6.
type PreviewKind int

const (
	SuperLow PreviewKind = iota
	Low
	Preview
)

// Dims returns the fixed (maxW,maxH) box for kind, per spec.md §6
// "PreviewKind -> max (width,height)".
func (k PreviewKind) Dims() (w, h int) {
	switch k {
	case SuperLow:
		return 64, 64
	case Low:
		return 256, 256
	case Preview:
		return 1280, 720
	default:
		return 1280, 720
	}
}

// fastDemosaic reports whether this kind should trade demosaic quality
// for decode speed -- true for the two smallest preview tiers.
func (k PreviewKind) fastDemosaic() bool {
	return k == SuperLow || k == Low
}

// maskCacheEntry memoizes one PreviewKind's compiled mask runtimes,
// keyed on the exact masks JSON subtree that produced them -- deep
// equality, not identity, per spec.md §9 ("hosts may rebuild the same
// JSON subtree on every frame").
type maskCacheEntry struct {
	width, height int
	masksJSON     []byte
	runtimes      []render.MaskRuntime
}

// Session is one RAW file's engine-side state: the owned raw bytes,
// best-effort metadata, and the lazily-populated per-kind caches.
// Kept state is write-once (populated on first use, never invalidated
// by adjustment changes) per spec.md §3's session invariants.
type Session struct {
	mu sync.Mutex

	rawBytes     []byte
	metadataJSON []byte

	buffers [3]*raw.Image          // indexed by PreviewKind
	masks   [3]*maskCacheEntry     // indexed by PreviewKind
}

func newSession(rawBytes []byte) *Session {
	info := metadata.Extract(rawBytes)
	m, err := json.Marshal(info)
	if err != nil {
		m = []byte("{}")
	}
	return &Session{rawBytes: rawBytes, metadataJSON: m}
}

// MetadataJSON returns the session's best-effort metadata record.
func (s *Session) MetadataJSON() []byte {
	return s.metadataJSON
}

// Render decodes (on first call for this kind) or reuses the cached
// linear buffer for kind, compiles/caches masks for the parsed
// payload, and composes the final JPEG. Concurrent calls on the same
// session serialize at s.mu, per spec.md §5.
func (s *Session) Render(kind PreviewKind, adjustmentsJSON []byte) (jpg []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = engineerr.New(engineerr.LockPoisoned, nil)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	img := s.buffers[kind]
	if img == nil {
		maxW, maxH := kind.Dims()
		img, err = render.DecodeAndFit(s.rawBytes, maxW, maxH, kind.fastDemosaic())
		if err != nil {
			return nil, err
		}
		s.buffers[kind] = img
	}

	p, perr := payload.Parse(adjustmentsJSON)
	if perr != nil {
		p = payload.Default()
	}

	masks := s.masksFor(kind, img.Width, img.Height, p)
	return render.RenderFromImageWithMasks(img, p, masks, render.QualityPreview)
}

// masksFor returns p.Masks compiled at (width,height), reusing the
// cached slice if the masks JSON subtree is unchanged.
func (s *Session) masksFor(kind PreviewKind, width, height int, p payload.Payload) []render.MaskRuntime {
	masksJSON, err := json.Marshal(p.Masks)
	if err != nil {
		masksJSON = nil
	}

	entry := s.masks[kind]
	if entry != nil && entry.width == width && entry.height == height && bytes.Equal(entry.masksJSON, masksJSON) {
		return entry.runtimes
	}

	runtimes := render.CompileMasks(p.Masks, width, height)
	s.masks[kind] = &maskCacheEntry{width: width, height: height, masksJSON: masksJSON, runtimes: runtimes}
	return runtimes
}

// RenderFullRes bypasses every cache: it decodes and composes at full
// sensor resolution in one shot, per spec.md §4.F, so no full-resolution
// float buffer is ever retained in the session.
func (s *Session) RenderFullRes(adjustmentsJSON []byte) ([]byte, error) {
	img, err := render.DecodeAndFit(s.rawBytes, 0, 0, false)
	if err != nil {
		return nil, err
	}
	return render.RenderFromImage(img, adjustmentsJSON, render.QualityFull)
}
