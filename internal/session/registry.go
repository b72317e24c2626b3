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

package session

import (
	"sync"

	"github.com/mlnoga/rawforge/internal/engineerr"
)

// Handle is the opaque 64-bit session identifier exposed across the
// host ABI boundary (spec.md §6). 0 denotes "invalid".
type Handle uint64

// Registry is the process-wide, mutex-guarded handle->Session mapping
// of spec.md §4.F/§9. Its mutex covers only insertion/lookup/removal;
// per-session state lives behind each Session's own mutex.
type Registry struct {
	mu      sync.Mutex
	next    uint64
	byHandle map[Handle]*Session
}

// NewRegistry constructs an empty registry with handle issuance
// starting at 1.
func NewRegistry() *Registry {
	return &Registry{next: 1, byHandle: make(map[Handle]*Session)}
}

// Create registers rawBytes as a new session and returns its handle.
func (r *Registry) Create(rawBytes []byte) Handle {
	s := newSession(rawBytes)

	r.mu.Lock()
	defer r.mu.Unlock()
	h := Handle(r.next)
	r.next++
	r.byHandle[h] = s
	return h
}

// Release removes h from the registry. Releasing an unknown or
// already-released handle is a no-op.
func (r *Registry) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHandle, h)
}

// lookup returns h's Session, or an InvalidHandle error.
func (r *Registry) lookup(h Handle) (*Session, error) {
	r.mu.Lock()
	s, ok := r.byHandle[h]
	r.mu.Unlock()
	if !ok {
		return nil, engineerr.New(engineerr.InvalidHandle, nil)
	}
	return s, nil
}

// MetadataJSON returns h's best-effort metadata, or an InvalidHandle error.
func (r *Registry) MetadataJSON(h Handle) ([]byte, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.MetadataJSON(), nil
}

// Render renders h at the given PreviewKind with the given adjustments
// JSON, or returns an InvalidHandle error if h is unknown.
func (r *Registry) Render(h Handle, kind PreviewKind, adjustmentsJSON []byte) ([]byte, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.Render(kind, adjustmentsJSON)
}

// RenderFullRes renders h at full sensor resolution, bypassing every
// cache, or returns an InvalidHandle error if h is unknown.
func (r *Registry) RenderFullRes(h Handle, adjustmentsJSON []byte) ([]byte, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.RenderFullRes(adjustmentsJSON)
}
