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

package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/sigma/protocol/sigma"
)

func TestDecodeZero(t *testing.T) {
	d := NewDecoder()
	resp, ok, err := d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestDecodeIncompleteLength(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("0002"))
	resp, ok, err := d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestDecodeCompleteLength(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("00024"))
	resp, ok, err := d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestDecodeIncompleteData(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("0002401104007040978T\x00\x31\x00\x00\x0484"))
	resp, ok, err := d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestDecodeCompleteData(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("0002401104007040978T\x00\x31\x00\x00\x048495"))
	resp, ok, err := d.Decode()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, resp)
	assert.Equal(t, "0110", resp.MTI())
	assert.EqualValues(t, 4007040978, resp.AuthSerno)
	assert.EqualValues(t, 8495, resp.Reason)

	// buffer is now fully drained
	_, ok, err = d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeTwoFramesBackToBack(t *testing.T) {
	frame := "0002401104007040978T\x00\x31\x00\x00\x048495"
	d := NewDecoder()
	d.Feed([]byte(frame + frame))

	resp1, ok, err := d.Decode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 8495, resp1.Reason)

	resp2, ok, err := d.Decode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 8495, resp2.Reason)

	_, ok, err = d.Decode()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeIncrementalOneByteAtATime(t *testing.T) {
	frame := "0002401104007040978T\x00\x31\x00\x00\x048495"
	d := NewDecoder()

	var resp *sigma.Response
	for i := 0; i < len(frame); i++ {
		d.Feed([]byte{frame[i]})
		got, ok, err := d.Decode()
		require.NoError(t, err)
		if ok {
			resp = got
			assert.Equal(t, i, len(frame)-1)
		}
	}
	require.NotNil(t, resp)
	assert.EqualValues(t, 4007040978, resp.AuthSerno)
	assert.EqualValues(t, 8495, resp.Reason)
}

func TestEncodeWritesRequestBytes(t *testing.T) {
	req, err := sigma.NewRequest("Y", "M", "0200", 6007040979)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, req))

	got, err := sigma.DecodeRequest(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, req.MTI(), got.MTI())
	assert.Equal(t, req.AuthSerno, got.AuthSerno)
}

func TestReadResponseBlocksUntilWholeFrame(t *testing.T) {
	frame := "0002401104007040978T\x00\x31\x00\x00\x048495"
	r := bytes.NewReader([]byte(frame))

	resp, err := ReadResponse(r)
	require.NoError(t, err)
	assert.Equal(t, "0110", resp.MTI())
	assert.EqualValues(t, 4007040978, resp.AuthSerno)
	assert.EqualValues(t, 8495, resp.Reason)
}

func TestReadResponseTruncatedStreamErrors(t *testing.T) {
	frame := "0002401104007040978T\x00\x31\x00\x00\x0484"
	r := bytes.NewReader([]byte(frame))

	_, err := ReadResponse(r)
	require.Error(t, err)
}

func TestReadResponseNegativeLengthPrefixErrors(t *testing.T) {
	r := bytes.NewReader([]byte("-0012abcdefghijklmnop"))

	_, err := ReadResponse(r)
	require.Error(t, err)
}

func TestDecodeNegativeLengthPrefixDoesNotPanic(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("-0012abcdefghijklmnop"))

	assert.NotPanics(t, func() {
		_, ok, err := d.Decode()
		require.Error(t, err)
		assert.False(t, ok)
	})
}
