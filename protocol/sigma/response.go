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
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/sigma/bufiox"
	"github.com/cloudwego/sigma/sigmaerr"
	"github.com/cloudwego/sigma/tag"
	"github.com/cloudwego/sigma/unsafex"
)

// Response is the inbound authorization reply: an mti/auth_serno
// header, a reason code, zero or more FeeData entries and optional
// additional text data. Only tags Regular(31), Regular(32) and
// Regular(48) are interpreted on decode; all others are ignored.
type Response struct {
	mti string

	AuthSerno uint64
	Reason    uint32
	Fees      []FeeData
	AData     *string
}

// NewResponse validates mti and returns a Response with no fees and
// no additional data.
func NewResponse(mti string, authSerno uint64, reason uint32) (*Response, error) {
	if err := ValidateMTI(mti); err != nil {
		return nil, err
	}
	return &Response{mti: mti, AuthSerno: authSerno, Reason: reason}, nil
}

// MTI returns the current message type indicator.
func (r *Response) MTI() string { return r.mti }

// SetMTI re-validates v and, on success, replaces mti.
func (r *Response) SetMTI(v string) error {
	if err := ValidateMTI(v); err != nil {
		return err
	}
	r.mti = v
	return nil
}

// Encode renders r into the Sigma wire form: a 5-byte ASCII length
// prefix, the mti/auth_serno header, a Regular(31) reason field, one
// Regular(32) field per fee, and a Regular(48) field for AData if set.
func (r *Response) Encode() ([]byte, error) {
	var body []byte
	bw := bufiox.NewBytesWriter(&body)

	if _, err := bw.WriteBinary([]byte(r.mti)); err != nil {
		return nil, err
	}
	if _, err := bw.WriteBinary([]byte(formatAuthSerno(r.AuthSerno))); err != nil {
		return nil, err
	}
	if err := encodeField(bw, tag.NewRegular(31), []byte(strconv.FormatUint(uint64(r.Reason), 10))); err != nil {
		return nil, err
	}
	for _, fee := range r.Fees {
		feeBytes, err := fee.Encode()
		if err != nil {
			return nil, err
		}
		if err := encodeField(bw, tag.NewRegular(32), feeBytes); err != nil {
			return nil, err
		}
	}
	if r.AData != nil {
		if err := encodeField(bw, tag.NewRegular(48), unsafex.StringToBinary(*r.AData)); err != nil {
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

// DecodeResponse parses the Sigma wire form of a Response. A response
// carrying no Regular(31) field decodes with Reason left at zero; this
// is a valid frame, not an error.
func DecodeResponse(data []byte) (*Response, error) {
	resp, err := NewResponse("0100", 0, 0)
	if err != nil {
		return nil, err
	}

	r := bufiox.NewBytesReader(data)
	lenBuf, err := r.Next(5)
	if err != nil {
		return nil, sigmaerr.NewBounds("response: %v", err)
	}
	n64, err := strconv.ParseUint(string(lenBuf), 10, 64)
	if err != nil || n64 > math.MaxInt {
		return nil, sigmaerr.NewIncorrectFieldData("message length", "valid integer")
	}
	body, err := r.Next(int(n64))
	if err != nil {
		return nil, sigmaerr.NewBounds("response body: %v", err)
	}

	br := bufiox.NewBytesReader(body)
	mtiBuf, err := br.Next(4)
	if err != nil {
		return nil, sigmaerr.NewBounds("response mti: %v", err)
	}
	if err := resp.SetMTI(string(mtiBuf)); err != nil {
		return nil, err
	}
	sernoBuf, err := br.Next(10)
	if err != nil {
		return nil, sigmaerr.NewBounds("response auth_serno: %v", err)
	}
	authSerno, err := strconv.ParseUint(strings.TrimSpace(string(sernoBuf)), 10, 64)
	if err != nil {
		return nil, sigmaerr.NewIncorrectFieldData("Serno", "u64")
	}
	resp.AuthSerno = authSerno

	for len(body)-br.ReadLen() > 0 {
		t, payload, err := decodeField(br)
		if err != nil {
			return nil, err
		}
		if t.Kind != tag.Regular {
			continue
		}
		switch t.Index {
		case 31:
			reason, err := strconv.ParseUint(string(payload), 10, 32)
			if err != nil {
				return nil, sigmaerr.NewIncorrectFieldData("reason", "should be u32")
			}
			resp.Reason = uint32(reason)
		case 32:
			fee, err := DecodeFeeData(payload)
			if err != nil {
				return nil, err
			}
			resp.Fees = append(resp.Fees, fee)
		case 48:
			adata := strings.ToValidUTF8(unsafex.BinaryToString(payload), "�")
			resp.AData = &adata
		}
	}

	return resp, nil
}
