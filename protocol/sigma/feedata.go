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
	"fmt"
	"strconv"

	"github.com/cloudwego/sigma/sigmaerr"
)

// FeeData is one fee line item attached to a Response, carried as the
// payload of a Regular(32) field.
type FeeData struct {
	Reason   uint16 `json:"reason"`
	Currency uint16 `json:"currency"`
	Amount   uint64 `json:"amount"`
}

// Encode renders f as its ASCII payload: 4-digit reason, 3-digit
// currency, then the decimal amount with no fixed width. It fails
// with Bounds if reason > 9999 or currency > 999.
func (f FeeData) Encode() ([]byte, error) {
	if f.Reason > 9999 {
		return nil, sigmaerr.NewBounds("FeeData.reason should be less or equal 9999")
	}
	if f.Currency > 999 {
		return nil, sigmaerr.NewBounds("FeeData.currency should be less or equal 999")
	}
	return []byte(fmt.Sprintf("%04d%03d%d", f.Reason, f.Currency, f.Amount)), nil
}

// DecodeFeeData parses the FeeData payload layout: bytes 0-3 reason,
// 4-6 currency, 7-end amount. It requires at least 8 bytes.
func DecodeFeeData(data []byte) (FeeData, error) {
	if len(data) < 8 {
		return FeeData{}, sigmaerr.NewIncorrectData("FeeData slice should be at least 8 bytes long")
	}
	reason, err := strconv.ParseUint(string(data[0:4]), 10, 16)
	if err != nil {
		return FeeData{}, sigmaerr.NewIncorrectFieldData("FeeData.reason", "valid integer")
	}
	currency, err := strconv.ParseUint(string(data[4:7]), 10, 16)
	if err != nil {
		return FeeData{}, sigmaerr.NewIncorrectFieldData("FeeData.currency", "valid integer")
	}
	amount, err := strconv.ParseUint(string(data[7:]), 10, 64)
	if err != nil {
		return FeeData{}, sigmaerr.NewIncorrectFieldData("FeeData.amount", "valid integer")
	}
	return FeeData{Reason: uint16(reason), Currency: uint16(currency), Amount: uint64(amount)}, nil
}
