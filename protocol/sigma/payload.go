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

package sigma

import (
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/sigma/unsafex"
)

// Payload is one ISO/ISO-subfield field's content. It is either valid
// UTF-8 text or an arbitrary byte sequence (e.g. a binary-safe
// passthrough blob); both round-trip their exact bytes, and both can
// be viewed lossily as text.
type Payload interface {
	// Bytes returns the exact bytes this payload carries.
	Bytes() []byte

	// LossyText renders the payload as text, replacing any invalid
	// UTF-8 byte run with the Unicode replacement character. It never
	// fails and never mutates the underlying bytes.
	LossyText() string
}

// Text is a Payload known to already be valid UTF-8.
type Text string

func (p Text) Bytes() []byte     { return []byte(p) }
func (p Text) LossyText() string { return string(p) }

// Raw is a Payload carrying arbitrary bytes, not necessarily valid
// UTF-8 (e.g. a base64 blob or binary passthrough content).
type Raw []byte

func (p Raw) Bytes() []byte { return []byte(p) }
func (p Raw) LossyText() string {
	return strings.ToValidUTF8(string(p), "�")
}

// PromotePayload classifies raw wire bytes into a Payload: Text if the
// bytes are valid UTF-8, Raw otherwise. It copies b. DecodeRequest
// applies the same rule to every ISO and ISO-subfield field through
// promoteOwnedPayload.
func PromotePayload(b []byte) Payload {
	if utf8.Valid(b) {
		return Text(string(b))
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Raw(cp)
}

// promoteOwnedPayload is PromotePayload's zero-copy twin for callers
// that already hold an exclusive, freshly-allocated copy of b (e.g.
// decodeField's per-field buffer) and therefore don't need a second
// defensive copy.
func promoteOwnedPayload(b []byte) Payload {
	if utf8.Valid(b) {
		return Text(unsafex.BinaryToString(b))
	}
	return Raw(b)
}
