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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeeData(t *testing.T) {
	fee, err := DecodeFeeData([]byte("8116978300"))
	require.NoError(t, err)
	assert.EqualValues(t, 8116, fee.Reason)
	assert.EqualValues(t, 978, fee.Currency)
	assert.EqualValues(t, 300, fee.Amount)
}

func TestDecodeFeeDataLargeAmount(t *testing.T) {
	fee, err := DecodeFeeData([]byte("8116643123456789"))
	require.NoError(t, err)
	assert.EqualValues(t, 8116, fee.Reason)
	assert.EqualValues(t, 643, fee.Currency)
	assert.EqualValues(t, 123456789, fee.Amount)
}

func TestDecodeFeeDataTooShort(t *testing.T) {
	_, err := DecodeFeeData([]byte("123"))
	require.Error(t, err)
}

func TestEncodeFeeData(t *testing.T) {
	fee := FeeData{Reason: 8123, Currency: 643, Amount: 1234567890}
	out, err := fee.Encode()
	require.NoError(t, err)
	assert.Equal(t, "81236431234567890", string(out))
}

func TestEncodeFeeDataPadded(t *testing.T) {
	fee := FeeData{Reason: 1, Currency: 2, Amount: 3}
	out, err := fee.Encode()
	require.NoError(t, err)
	assert.Equal(t, "00010023", string(out))
}

func TestEncodeFeeDataBoundsErrors(t *testing.T) {
	_, err := FeeData{Reason: 10000, Currency: 643, Amount: 1234567890}.Encode()
	require.Error(t, err)

	_, err = FeeData{Reason: 8123, Currency: 6430, Amount: 1234567890}.Encode()
	require.Error(t, err)
}

func TestFeeDataRoundTrip(t *testing.T) {
	fee := FeeData{Reason: 42, Currency: 978, Amount: 9999999999}
	buf, err := fee.Encode()
	require.NoError(t, err)
	got, err := DecodeFeeData(buf)
	require.NoError(t, err)
	assert.Equal(t, fee, got)
}
