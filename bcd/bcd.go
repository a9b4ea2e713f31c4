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

// Package bcd implements packed binary-coded-decimal encoding for the
// Sigma wire protocol: two digits per byte (EncodeX2/DecodeX2) and four
// digits across two bytes (EncodeX4/DecodeX4), with strict per-nibble
// digit-range validation.
package bcd

import "github.com/cloudwego/sigma/sigmaerr"

// EncodeX2 packs v (0..99) into one BCD byte: high nibble v/10, low
// nibble v%10. It returns a Bounds error if v > 99.
func EncodeX2(v uint8) (byte, error) {
	if v > 99 {
		return 0, sigmaerr.NewBounds("bcd: value %d out of range [0,99]", v)
	}
	return (v/10)<<4 | (v % 10), nil
}

// DecodeX2 unpacks one BCD byte into 0..99. It returns a Bounds error
// if either nibble exceeds 9.
func DecodeX2(b byte) (uint8, error) {
	hi := b >> 4
	lo := b & 0x0f
	if hi > 9 || lo > 9 {
		return 0, sigmaerr.NewBounds("bcd: byte 0x%02x has a non-decimal nibble", b)
	}
	return hi*10 + lo, nil
}

// EncodeX4 packs v (0..9999) into two BCD bytes, most significant
// digit pair first. It returns a Bounds error if v > 9999.
func EncodeX4(v uint16) ([2]byte, error) {
	if v > 9999 {
		return [2]byte{}, sigmaerr.NewBounds("bcd: value %d out of range [0,9999]", v)
	}
	d3 := byte((v / 1000) % 10)
	d2 := byte((v / 100) % 10)
	d1 := byte((v / 10) % 10)
	d0 := byte(v % 10)
	return [2]byte{d3<<4 | d2, d1<<4 | d0}, nil
}

// DecodeX4 unpacks two BCD bytes into 0..9999, validating every
// nibble.
func DecodeX4(b0, b1 byte) (uint16, error) {
	hi, err := DecodeX2(b0)
	if err != nil {
		return 0, err
	}
	lo, err := DecodeX2(b1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)*100 + uint16(lo), nil
}
