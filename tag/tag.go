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

// Package tag implements the Sigma wire protocol's tag identifiers: the
// 4-byte binary form used on the wire and the textual form used as
// JSON object keys.
package tag

import (
	"fmt"
	"strconv"

	"github.com/cloudwego/sigma/bcd"
	"github.com/cloudwego/sigma/sigmaerr"
)

// Kind distinguishes the three tag variants. Kind values are ordered
// Regular < Iso < IsoSubfield to match Tag's total order.
type Kind uint8

const (
	Regular Kind = iota
	Iso
	IsoSubfield
)

func (k Kind) byte() byte {
	switch k {
	case Regular:
		return 'T'
	case Iso:
		return 'I'
	case IsoSubfield:
		return 'S'
	default:
		return 0
	}
}

// Tag identifies one named slot in a Sigma message. Index is always a
// decimal value in [0,9999]; Sub is only meaningful for IsoSubfield,
// in [0,99].
type Tag struct {
	Kind  Kind
	Index uint16
	Sub   uint8
}

// NewRegular builds a Regular(i) tag.
func NewRegular(i uint16) Tag { return Tag{Kind: Regular, Index: i} }

// NewIso builds an Iso(i) tag.
func NewIso(i uint16) Tag { return Tag{Kind: Iso, Index: i} }

// NewIsoSubfield builds an IsoSubfield(i, si) tag.
func NewIsoSubfield(i uint16, si uint8) Tag { return Tag{Kind: IsoSubfield, Index: i, Sub: si} }

// Less reports whether t sorts before other: variant order Regular <
// Iso < IsoSubfield, then by Index, then by Sub.
func (t Tag) Less(other Tag) bool {
	if t.Kind != other.Kind {
		return t.Kind < other.Kind
	}
	if t.Index != other.Index {
		return t.Index < other.Index
	}
	return t.Sub < other.Sub
}

// String renders the textual form: T%04d, i%03d, s%04d%02d.
func (t Tag) String() string {
	switch t.Kind {
	case Regular:
		return fmt.Sprintf("T%04d", t.Index)
	case Iso:
		return fmt.Sprintf("i%03d", t.Index)
	case IsoSubfield:
		return fmt.Sprintf("s%04d%02d", t.Index, t.Sub)
	default:
		return ""
	}
}

// EncodeTo appends the 4-byte binary form of t to buf and returns the
// extended slice: kind byte, BCD-x4 index, sub byte (BCD-x2 encoded,
// zero for Regular/Iso).
func (t Tag) EncodeTo(buf []byte) ([]byte, error) {
	idx, err := bcd.EncodeX4(t.Index)
	if err != nil {
		return buf, err
	}
	switch t.Kind {
	case Regular:
		return append(buf, 'T', idx[0], idx[1], 0), nil
	case Iso:
		return append(buf, 'I', idx[0], idx[1], 0), nil
	case IsoSubfield:
		sub, err := bcd.EncodeX2(t.Sub)
		if err != nil {
			return buf, err
		}
		return append(buf, 'S', idx[0], idx[1], sub), nil
	default:
		return buf, sigmaerr.NewIncorrectTag("unknown tag kind")
	}
}

// Decode parses the 4-byte binary form from the front of buf, returning
// the tag. buf must be exactly 4 bytes (callers split the exact slice
// off a cursor before calling Decode, mirroring the field codec).
func Decode(buf []byte) (Tag, error) {
	if len(buf) < 4 {
		return Tag{}, sigmaerr.NewIncorrectTag("should be 4 bytes long")
	}
	idx, err := bcd.DecodeX4(buf[1], buf[2])
	if err != nil {
		return Tag{}, err
	}
	sub, err := bcd.DecodeX2(buf[3])
	if err != nil {
		return Tag{}, err
	}
	switch buf[0] {
	case 'T':
		return Tag{Kind: Regular, Index: idx}, nil
	case 'I':
		return Tag{Kind: Iso, Index: idx}, nil
	case 'S':
		return Tag{Kind: IsoSubfield, Index: idx, Sub: sub}, nil
	default:
		return Tag{}, sigmaerr.NewIncorrectTag("unknown kind")
	}
}

// Parse parses the textual form used in JSON keys: T followed by 4
// digits, i followed by 3 digits, or s followed by 4+2 digits. The
// kind letter is matched case-insensitively.
func Parse(s string) (Tag, error) {
	if len(s) == 0 {
		return Tag{}, sigmaerr.NewIncorrectTag("empty")
	}
	switch {
	case (s[0] == 'T' || s[0] == 't') && len(s) == 5:
		v, err := strconv.ParseUint(s[1:5], 10, 16)
		if err != nil {
			return Tag{}, sigmaerr.NewIncorrectTag("incorrect format for T")
		}
		return Tag{Kind: Regular, Index: uint16(v)}, nil
	case (s[0] == 'I' || s[0] == 'i') && len(s) == 4:
		v, err := strconv.ParseUint(s[1:4], 10, 16)
		if err != nil {
			return Tag{}, sigmaerr.NewIncorrectTag("incorrect format for i")
		}
		return Tag{Kind: Iso, Index: uint16(v)}, nil
	case (s[0] == 'S' || s[0] == 's') && len(s) == 7:
		v, err := strconv.ParseUint(s[1:5], 10, 16)
		if err != nil {
			return Tag{}, sigmaerr.NewIncorrectTag("incorrect format for S")
		}
		sv, err := strconv.ParseUint(s[5:7], 10, 8)
		if err != nil {
			return Tag{}, sigmaerr.NewIncorrectTag("incorrect format for S")
		}
		return Tag{Kind: IsoSubfield, Index: uint16(v), Sub: uint8(sv)}, nil
	default:
		return Tag{}, sigmaerr.NewIncorrectTag(fmt.Sprintf("starts with: %q, length: %d", s[0], len(s)))
	}
}
