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

// Package sigma implements the Sigma wire protocol's message model:
// Request and Response, their JSON adapter, and their binary wire
// encoding/decoding.
package sigma

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/sigma/bufiox"
	"github.com/cloudwego/sigma/sigmaerr"
	"github.com/cloudwego/sigma/tag"
)

// isoSubfieldKey is the composite (index, subfield-index) key used by
// Request.IsoSubfields.
type isoSubfieldKey struct {
	Index uint16
	Sub   uint8
}

// Request is the outbound authorization message: a validated header
// (SAF/Source/MTI/AuthSerno) plus three field maps, one per tag
// variant. The maps are unordered; Encode sorts each by key.
type Request struct {
	saf    string
	source string
	mti    string

	// AuthSerno is the authorization serial number; zero unless set
	// explicitly or generated.
	AuthSerno uint64

	// Tags holds Regular-tag fields, always text.
	Tags map[uint16]string

	// IsoFields holds Iso-tag fields, text or raw.
	IsoFields map[uint16]Payload

	// IsoSubfields holds IsoSubfield-tag fields, text or raw.
	IsoSubfields map[isoSubfieldKey]Payload
}

// ValidateSAF accepts exactly "Y" or "N".
func ValidateSAF(s string) error {
	if s != "Y" && s != "N" {
		return sigmaerr.NewIncorrectFieldData("SAF", `char "Y" or "N"`)
	}
	return nil
}

// ValidateSource accepts any single-byte ASCII string.
func ValidateSource(s string) error {
	if len(s) != 1 {
		return sigmaerr.NewIncorrectFieldData("SRC", "single ASCII char")
	}
	return nil
}

// ValidateMTI accepts exactly 4 ASCII decimal digits.
func ValidateMTI(s string) error {
	if len(s) != 4 {
		return sigmaerr.NewIncorrectFieldData("MTI", "4 digit number (string)")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return sigmaerr.NewIncorrectFieldData("MTI", "4 digit number (string)")
		}
	}
	return nil
}

// NewRequest validates saf, source and mti and returns a Request with
// empty field maps.
func NewRequest(saf, source, mti string, authSerno uint64) (*Request, error) {
	if err := ValidateSAF(saf); err != nil {
		return nil, err
	}
	if err := ValidateSource(source); err != nil {
		return nil, err
	}
	if err := ValidateMTI(mti); err != nil {
		return nil, err
	}
	return &Request{
		saf:          saf,
		source:       source,
		mti:          mti,
		AuthSerno:    authSerno,
		Tags:         make(map[uint16]string),
		IsoFields:    make(map[uint16]Payload),
		IsoSubfields: make(map[isoSubfieldKey]Payload),
	}, nil
}

// newDefaultRequest returns the "N"/"X"/"0100"/0 zero-value request
// used as the starting point before a JSON adapter or wire decoder
// fills it in.
func newDefaultRequest() *Request {
	r, _ := NewRequest("N", "X", "0100", 0)
	return r
}

// SAF returns the current store-and-forward flag.
func (r *Request) SAF() string { return r.saf }

// SetSAF re-validates v and, on success, replaces saf. On failure the
// field is left unchanged.
func (r *Request) SetSAF(v string) error {
	if err := ValidateSAF(v); err != nil {
		return err
	}
	r.saf = v
	return nil
}

// Source returns the current source character.
func (r *Request) Source() string { return r.source }

// SetSource re-validates v and, on success, replaces source.
func (r *Request) SetSource(v string) error {
	if err := ValidateSource(v); err != nil {
		return err
	}
	r.source = v
	return nil
}

// MTI returns the current message type indicator.
func (r *Request) MTI() string { return r.mti }

// SetMTI re-validates v and, on success, replaces mti.
func (r *Request) SetMTI(v string) error {
	if err := ValidateMTI(v); err != nil {
		return err
	}
	r.mti = v
	return nil
}

// Encode renders r into the Sigma wire form: a 5-byte ASCII length
// prefix followed by the fixed header and the field groups in
// Regular, Iso, IsoSubfield order, ascending by key within each group.
func (r *Request) Encode() ([]byte, error) {
	var body []byte
	bw := bufiox.NewBytesWriter(&body)

	if _, err := bw.WriteBinary([]byte(r.saf)); err != nil {
		return nil, err
	}
	if _, err := bw.WriteBinary([]byte(r.source)); err != nil {
		return nil, err
	}
	if _, err := bw.WriteBinary([]byte(r.mti)); err != nil {
		return nil, err
	}
	if _, err := bw.WriteBinary([]byte(formatAuthSerno(r.AuthSerno))); err != nil {
		return nil, err
	}

	regularKeys := make([]uint16, 0, len(r.Tags))
	for k := range r.Tags {
		regularKeys = append(regularKeys, k)
	}
	sort.Slice(regularKeys, func(i, j int) bool { return regularKeys[i] < regularKeys[j] })
	for _, k := range regularKeys {
		if err := encodeField(bw, tag.NewRegular(k), []byte(r.Tags[k])); err != nil {
			return nil, err
		}
	}

	isoKeys := make([]uint16, 0, len(r.IsoFields))
	for k := range r.IsoFields {
		isoKeys = append(isoKeys, k)
	}
	sort.Slice(isoKeys, func(i, j int) bool { return isoKeys[i] < isoKeys[j] })
	for _, k := range isoKeys {
		if err := encodeField(bw, tag.NewIso(k), r.IsoFields[k].Bytes()); err != nil {
			return nil, err
		}
	}

	subKeys := make([]isoSubfieldKey, 0, len(r.IsoSubfields))
	for k := range r.IsoSubfields {
		subKeys = append(subKeys, k)
	}
	sort.Slice(subKeys, func(i, j int) bool {
		if subKeys[i].Index != subKeys[j].Index {
			return subKeys[i].Index < subKeys[j].Index
		}
		return subKeys[i].Sub < subKeys[j].Sub
	})
	for _, k := range subKeys {
		if err := encodeField(bw, tag.NewIsoSubfield(k.Index, k.Sub), r.IsoSubfields[k].Bytes()); err != nil {
			return nil, err
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, err
	}

	var out []byte
	ow := bufiox.NewBytesWriter(&out)
	if _, err := ow.WriteBinary([]byte(formatFrameLen(len(body)))); err != nil {
		return nil, err
	}
	if _, err := ow.WriteBinary(body); err != nil {
		return nil, err
	}
	if err := ow.Flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func formatFrameLen(n int) string {
	s := strconv.Itoa(n)
	if len(s) >= 5 {
		return s
	}
	return strings.Repeat("0", 5-len(s)) + s
}

// DecodeRequest parses the Sigma wire form of a Request: the 5-byte
// ASCII length prefix, the fixed header, and a sequence of TLV fields
// routed into Tags/IsoFields/IsoSubfields by tag variant.
func DecodeRequest(data []byte) (*Request, error) {
	req := newDefaultRequest()

	r := bufiox.NewBytesReader(data)
	lenBuf, err := r.Next(5)
	if err != nil {
		return nil, sigmaerr.NewBounds("request: %v", err)
	}
	n64, err := strconv.ParseUint(string(lenBuf), 10, 64)
	if err != nil || n64 > math.MaxInt {
		return nil, sigmaerr.NewIncorrectFieldData("message length", "valid integer")
	}
	body, err := r.Next(int(n64))
	if err != nil {
		return nil, sigmaerr.NewBounds("request body: %v", err)
	}

	br := bufiox.NewBytesReader(body)
	safBuf, err := br.Next(1)
	if err != nil {
		return nil, sigmaerr.NewBounds("request saf: %v", err)
	}
	if err := req.SetSAF(string(safBuf)); err != nil {
		return nil, err
	}
	sourceBuf, err := br.Next(1)
	if err != nil {
		return nil, sigmaerr.NewBounds("request source: %v", err)
	}
	if err := req.SetSource(string(sourceBuf)); err != nil {
		return nil, err
	}
	mtiBuf, err := br.Next(4)
	if err != nil {
		return nil, sigmaerr.NewBounds("request mti: %v", err)
	}
	if err := req.SetMTI(string(mtiBuf)); err != nil {
		return nil, err
	}
	sernoBuf, err := br.Next(10)
	if err != nil {
		return nil, sigmaerr.NewBounds("request auth_serno: %v", err)
	}
	authSerno, err := strconv.ParseUint(strings.TrimSpace(string(sernoBuf)), 10, 64)
	if err != nil {
		return nil, sigmaerr.NewIncorrectFieldData("Serno", "u64")
	}
	req.AuthSerno = authSerno

	for len(body)-br.ReadLen() > 0 {
		t, payload, err := decodeField(br)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case tag.Regular:
			req.Tags[t.Index] = string(payload)
		case tag.Iso:
			req.IsoFields[t.Index] = promoteOwnedPayload(payload)
		case tag.IsoSubfield:
			req.IsoSubfields[isoSubfieldKey{Index: t.Index, Sub: t.Sub}] = promoteOwnedPayload(payload)
		}
	}

	return req, nil
}
