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
	"github.com/cloudwego/sigma/bufiox"

	"github.com/cloudwego/sigma/bcd"
	"github.com/cloudwego/sigma/sigmaerr"
	"github.com/cloudwego/sigma/tag"
)

// encodeField writes one tagged TLV field — 4-byte tag, BCD-x4 length,
// payload — to bw. It fails if the payload is longer than 9999 bytes
// or the tag itself fails to encode.
func encodeField(bw *bufiox.BytesWriter, t tag.Tag, payload []byte) error {
	tbuf, err := t.EncodeTo(nil)
	if err != nil {
		return err
	}
	if _, err := bw.WriteBinary(tbuf); err != nil {
		return err
	}
	if len(payload) > 9999 {
		return sigmaerr.NewBounds("field payload length %d exceeds 9999", len(payload))
	}
	lbuf, err := bcd.EncodeX4(uint16(len(payload)))
	if err != nil {
		return err
	}
	if _, err := bw.WriteBinary(lbuf[:]); err != nil {
		return err
	}
	_, err = bw.WriteBinary(payload)
	return err
}

// decodeField reads one tagged TLV field from br: 4-byte tag, BCD-x4
// length, then that many payload bytes. Every split fails with a
// Bounds error if the cursor runs out of data.
func decodeField(br *bufiox.BytesReader) (tag.Tag, []byte, error) {
	tbuf, err := br.Next(4)
	if err != nil {
		return tag.Tag{}, nil, sigmaerr.NewBounds("field tag: %v", err)
	}
	t, err := tag.Decode(tbuf)
	if err != nil {
		return tag.Tag{}, nil, err
	}
	lbuf, err := br.Next(2)
	if err != nil {
		return tag.Tag{}, nil, sigmaerr.NewBounds("field length: %v", err)
	}
	l, err := bcd.DecodeX4(lbuf[0], lbuf[1])
	if err != nil {
		return tag.Tag{}, nil, err
	}
	payload, err := br.Next(int(l))
	if err != nil {
		return tag.Tag{}, nil, sigmaerr.NewBounds("field payload: %v", err)
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return t, out, nil
}
