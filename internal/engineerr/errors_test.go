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

package engineerr

import (
	"errors"
	"testing"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	cause := errors.New("boom")
	err := New(DecodeError, cause)
	wrapped := errors.New("context: " + err.Error())
	_ = wrapped

	if !Is(err, DecodeError) {
		t.Errorf("Is(err, DecodeError)=false; want true")
	}
	if Is(err, EncodeError) {
		t.Errorf("Is(err, EncodeError)=true; want false")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), DecodeError) {
		t.Errorf("Is(plain error, _)=true; want false")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := New(EncodeError, errors.New("disk full"))
	if got := err.Error(); got != "EncodeError: disk full" {
		t.Errorf("Error()=%q; want %q", got, "EncodeError: disk full")
	}
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := New(InvalidHandle, nil)
	if got := err.Error(); got != "InvalidHandle" {
		t.Errorf("Error()=%q; want %q", got, "InvalidHandle")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(PayloadError, cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause)=false; want true via Unwrap")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		DecodeError:   "DecodeError",
		InvalidHandle: "InvalidHandle",
		LockPoisoned:  "LockPoisoned",
		PayloadError:  "PayloadError",
		EncodeError:   "EncodeError",
		Kind(99):      "UnknownError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String()=%q; want %q", k, got, want)
		}
	}
}
