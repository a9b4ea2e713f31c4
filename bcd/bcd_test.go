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

package bcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/sigma/sigmaerr"
)

func TestEncodeDecodeX2RoundTrip(t *testing.T) {
	for v := uint8(0); v <= 99; v++ {
		b, err := EncodeX2(v)
		require.NoError(t, err)
		got, err := DecodeX2(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEncodeX2Bounds(t *testing.T) {
	_, err := EncodeX2(100)
	require.Error(t, err)
	assert.ErrorIs(t, err, sigmaerr.Bounds)

	b, err := EncodeX2(99)
	require.NoError(t, err)
	assert.Equal(t, byte(0x99), b)

	b, err = EncodeX2(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), b)
}

func TestDecodeX2NonDecimalNibble(t *testing.T) {
	_, err := DecodeX2(0xA0)
	require.Error(t, err)
	assert.ErrorIs(t, err, sigmaerr.Bounds)

	_, err = DecodeX2(0x0A)
	require.Error(t, err)
	assert.ErrorIs(t, err, sigmaerr.Bounds)
}

func TestEncodeDecodeX4RoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 1, 9, 10, 99, 100, 999, 1000, 9999} {
		buf, err := EncodeX4(v)
		require.NoError(t, err)
		got, err := DecodeX4(buf[0], buf[1])
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEncodeX4Bounds(t *testing.T) {
	_, err := EncodeX4(10000)
	require.Error(t, err)
	assert.ErrorIs(t, err, sigmaerr.Bounds)

	buf, err := EncodeX4(9999)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x99, 0x99}, buf)
}

func TestEncodeX4KnownVectors(t *testing.T) {
	// 22 -> tag index used by T0022 in the original test fixtures.
	buf, err := EncodeX4(22)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x00, 0x22}, buf)

	// 191 -> used by i191 style ISO field indices.
	buf, err = EncodeX4(191)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x01, 0x91}, buf)
}

func TestDecodeX4NonDecimalNibble(t *testing.T) {
	_, err := DecodeX4(0xFF, 0x00)
	require.Error(t, err)
	assert.ErrorIs(t, err, sigmaerr.Bounds)
}
