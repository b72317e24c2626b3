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

// Package engineerr defines the engine's error taxonomy, so that host
// bindings (or the REST facade and CLI standing in for them) can map
// a failure to the null/0 return values spec.md §7 calls for without
// string-matching error text.
package engineerr

import "errors"

// Kind identifies one of the engine's error categories.
type Kind int

const (
	// DecodeError: the RAW file could not be parsed or developed.
	DecodeError Kind = iota
	// InvalidHandle: a session lookup found nothing for the given handle.
	InvalidHandle
	// LockPoisoned: a per-session mutex was left in a bad state.
	LockPoisoned
	// PayloadError: the adjustments JSON was malformed. Never escapes
	// render: the payload parser recovers with neutral defaults.
	PayloadError
	// EncodeError: the JPEG encoder failed.
	EncodeError
)

func (k Kind) String() string {
	switch k {
	case DecodeError:
		return "DecodeError"
	case InvalidHandle:
		return "InvalidHandle"
	case LockPoisoned:
		return "LockPoisoned"
	case PayloadError:
		return "PayloadError"
	case EncodeError:
		return "EncodeError"
	default:
		return "UnknownError"
	}
}

// Error wraps an underlying cause with its Kind, so callers can
// errors.As into it and branch on Kind without parsing messages.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
