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

// Package stream implements the Sigma stream framing codec: an
// incremental Decoder over a growing byte buffer for sources that
// deliver arbitrary, possibly partial chunks (Feed/Decode), a blocking
// ReadResponse for callers that already hold a plain io.Reader (e.g. a
// net.Conn) and are content to block until a whole frame arrives, and
// a one-shot Request encoder.
package stream

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cloudwego/sigma/bufiox"
	"github.com/cloudwego/sigma/cache/mempool"
	"github.com/cloudwego/sigma/protocol/sigma"
)

// Error wraps a lower-level codec, I/O, or parse failure as a
// framing-level failure. The stream codec has no resync strategy: any
// Error should cause the caller to close the connection.
type Error struct {
	Op  string
	err error
}

func (e *Error) Error() string { return fmt.Sprintf("stream: %s: %v", e.Op, e.err) }
func (e *Error) Unwrap() error { return e.err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, err: err}
}

// prefixLen is the width of the ASCII decimal frame-length prefix.
const prefixLen = 5

// Decoder incrementally decodes Response frames from a byte stream.
// It is stateless between decoded frames: all state lives in its
// internal accumulation buffer, which is append-only during Feed and
// shrinks only by the exact frame length on a successful Decode.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends newly-arrived bytes to the decoder's internal buffer.
// It never blocks and never parses; call Decode afterwards to attempt
// to extract a frame.
func (d *Decoder) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	d.buf = mempool.Append(d.buf, p...)
}

// Decode attempts to extract one complete Response frame from the
// internal buffer.
//
// If fewer than 5 bytes are buffered, or the parsed frame is not yet
// fully buffered, it returns (nil, false, nil) — "need more data" —
// and leaves the buffer untouched so a later Feed+Decode can
// re-parse it from the start. Once a whole frame is available, it
// consumes exactly that many bytes and returns the decoded response.
func (d *Decoder) Decode() (*sigma.Response, bool, error) {
	if len(d.buf) < prefixLen {
		return nil, false, nil
	}
	n, err := strconv.ParseUint(string(d.buf[:prefixLen]), 10, 64)
	if err != nil {
		return nil, false, wrapErr("parse frame length", err)
	}
	if n > uint64(math.MaxInt-prefixLen) {
		return nil, false, wrapErr("parse frame length", fmt.Errorf("frame length %d overflows", n))
	}
	total := int(n) + prefixLen
	if len(d.buf) < total {
		return nil, false, nil
	}

	frame := make([]byte, total)
	copy(frame, d.buf[:total])

	resp, err := sigma.DecodeResponse(frame)
	if err != nil {
		return nil, false, wrapErr("decode response", err)
	}

	remaining := len(d.buf) - total
	copy(d.buf, d.buf[total:])
	d.buf = d.buf[:remaining]

	return resp, true, nil
}

// Release returns the decoder's internal buffer to the shared pool.
// The Decoder must not be used afterwards.
func (d *Decoder) Release() {
	if d.buf != nil {
		mempool.Free(d.buf)
		d.buf = nil
	}
}

// ReadResponse blocks on r until one complete Response frame has
// arrived, then decodes and returns it. Unlike Decoder, it keeps no
// state across calls: each call opens a fresh buffered read over r,
// so it suits a caller that owns a plain io.Reader (a net.Conn, a
// pipe) and reads one frame at a time from it directly.
func ReadResponse(r io.Reader) (*sigma.Response, error) {
	// The limit keeps the buffered reader from reading past this frame.
	lr := &io.LimitedReader{R: r, N: prefixLen}
	dr := bufiox.NewDefaultReader(lr)
	defer dr.Release(nil)

	lenBuf, err := dr.Next(prefixLen)
	if err != nil {
		return nil, wrapErr("read frame prefix", err)
	}
	n, err := strconv.ParseUint(string(lenBuf), 10, 64)
	if err != nil {
		return nil, wrapErr("parse frame length", err)
	}
	if n > uint64(math.MaxInt) {
		return nil, wrapErr("parse frame length", fmt.Errorf("frame length %d overflows", n))
	}

	lr.N = int64(n)
	bodyBuf, err := dr.Next(int(n))
	if err != nil {
		return nil, wrapErr("read frame body", err)
	}

	frame := make([]byte, 0, prefixLen+len(bodyBuf))
	frame = append(frame, lenBuf...)
	frame = append(frame, bodyBuf...)

	resp, err := sigma.DecodeResponse(frame)
	if err != nil {
		return nil, wrapErr("decode response", err)
	}
	return resp, nil
}

// Encode renders req into its Sigma wire form and writes it to w,
// buffering the write through a bufiox.DefaultWriter rather than
// writing the encoded bytes to w directly.
func Encode(w io.Writer, req *sigma.Request) error {
	data, err := req.Encode()
	if err != nil {
		return wrapErr("encode request", err)
	}
	dw := bufiox.NewDefaultWriter(w)
	if _, err := dw.WriteBinary(data); err != nil {
		return wrapErr("write request", err)
	}
	if err := dw.Flush(); err != nil {
		return wrapErr("flush request", err)
	}
	return nil
}
