/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sigmaerr is the shared error taxonomy for the Sigma codec.
// The bcd, tag and protocol/sigma layers report failures through the
// single Error type defined here so callers can branch on Kind with
// errors.Is instead of parsing message strings; protocol/sigma/stream
// wraps them, and its own framing failures, in stream.Error.
package sigmaerr

import (
	"errors"
	"fmt"
)

// Kind identifies the taxonomy of a Sigma codec error.
type Kind int32

const (
	// UnknownKind is never returned; it is the zero value of Kind.
	UnknownKind Kind = iota

	// Bounds is returned when a buffer is too short to satisfy a read,
	// or a numeric value falls outside its allowed range.
	Bounds

	// IncorrectTag is returned when a tag byte sequence or textual tag
	// name could not be parsed.
	IncorrectTag

	// IncorrectFieldData is returned when header or field content had
	// the wrong JSON/wire shape.
	IncorrectFieldData

	// MissingField is returned when a required JSON field was absent.
	MissingField

	// IncorrectData is returned for any other structural invariant
	// violation.
	IncorrectData
)

// Error lets a Kind be passed directly as an errors.Is target.
func (k Kind) Error() string { return k.String() }

func (k Kind) String() string {
	switch k {
	case Bounds:
		return "Bounds"
	case IncorrectTag:
		return "IncorrectTag"
	case IncorrectFieldData:
		return "IncorrectFieldData"
	case MissingField:
		return "MissingField"
	case IncorrectData:
		return "IncorrectData"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type produced by the bcd, tag and
// protocol/sigma layers of the Sigma codec. It carries enough context (Field/ShouldBe) to reproduce the
// JSON-adapter and wire-decoder error messages the spec calls for,
// while remaining comparable by Kind via errors.Is.
type Error struct {
	Kind Kind

	// Field is the offending JSON key, tag name, or wire-header label,
	// when applicable. Empty otherwise.
	Field string

	// ShouldBe is a human-readable description of the expected shape,
	// used by IncorrectFieldData.
	ShouldBe string

	// Msg is a free-form message used by Bounds and IncorrectData,
	// where there is no single offending field.
	Msg string

	err error // wrapped cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case IncorrectFieldData:
		return fmt.Sprintf("incorrect field %q, should be %s", e.Field, e.ShouldBe)
	case MissingField:
		return fmt.Sprintf("missing field %q", e.Field)
	case IncorrectTag:
		if e.Field != "" {
			return fmt.Sprintf("incorrect tag: %s", e.Field)
		}
		return "incorrect tag"
	default:
		return e.Msg
	}
}

// Unwrap lets errors.Is/As reach through to the underlying cause, e.g.
// a strconv.NumError from a failed numeric parse.
func (e *Error) Unwrap() error { return e.err }

// Is makes errors.Is(err, sigmaerr.Bounds) (and the other Kind
// sentinels below) work against any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	switch k := target.(type) {
	case Kind:
		return e.Kind == k
	case kindSentinel:
		return e.Kind == Kind(k)
	}
	return false
}

// kindSentinel backs the package-level Err* comparison targets below.
type kindSentinel Kind

func (k kindSentinel) Error() string { return Kind(k).String() }

// NewBounds reports a buffer-too-short or out-of-range-value failure.
func NewBounds(format string, args ...interface{}) *Error {
	return &Error{Kind: Bounds, Msg: fmt.Sprintf(format, args...)}
}

// NewIncorrectTag reports a malformed tag, binary or textual.
func NewIncorrectTag(detail string) *Error {
	return &Error{Kind: IncorrectTag, Field: detail}
}

// NewIncorrectFieldData reports a field whose content had the wrong
// shape, naming the offending field and the expected shape.
func NewIncorrectFieldData(field, shouldBe string) *Error {
	return &Error{Kind: IncorrectFieldData, Field: field, ShouldBe: shouldBe}
}

// NewMissingField reports a required JSON field that was absent.
func NewMissingField(field string) *Error {
	return &Error{Kind: MissingField, Field: field}
}

// NewIncorrectData reports any other structural invariant violation.
func NewIncorrectData(format string, args ...interface{}) *Error {
	return &Error{Kind: IncorrectData, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a lower-level cause (e.g. a strconv parse error) to an
// *Error so callers can still reach it through errors.Unwrap/As.
func Wrap(e *Error, cause error) *Error {
	e.err = cause
	return e
}

var (
	_ error = (*Error)(nil)
)

// the Kind constants above are usable directly as errors.Is targets
// since Kind implements error; declare package-level error aliases so
// `errors.Is(err, sigmaerr.ErrBounds)` reads naturally at call sites.
var (
	// ErrBounds is the comparison target for Bounds-kind errors.
	ErrBounds error = kindSentinel(Bounds)
	// ErrIncorrectTag is the comparison target for IncorrectTag-kind errors.
	ErrIncorrectTag error = kindSentinel(IncorrectTag)
	// ErrIncorrectFieldData is the comparison target for IncorrectFieldData-kind errors.
	ErrIncorrectFieldData error = kindSentinel(IncorrectFieldData)
	// ErrMissingField is the comparison target for MissingField-kind errors.
	ErrMissingField error = kindSentinel(MissingField)
	// ErrIncorrectData is the comparison target for IncorrectData-kind errors.
	ErrIncorrectData error = kindSentinel(IncorrectData)
)

// As is a small convenience for call sites that want the concrete
// *Error rather than just a Kind comparison.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
