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
	"math/rand/v2"
	"strconv"
)

// authSernoOverflow is 10^10 - 1, the largest auth_serno that fits the
// wire form's 10-byte field without truncation.
const authSernoOverflow = 9999999999

// AuthSernoSource is the pluggable source of authorization serial
// numbers, drawn once per JSON-decoded request whose payload omits
// "Serno". It is injectable for deterministic testing.
type AuthSernoSource interface {
	Next() uint64
}

type randomAuthSernoSource struct{}

// NewRandomAuthSernoSource returns an AuthSernoSource backed by
// math/rand/v2, matching the uniformly-random 64-bit draw the original
// auth-serno generator performs.
func NewRandomAuthSernoSource() AuthSernoSource { return randomAuthSernoSource{} }

func (randomAuthSernoSource) Next() uint64 { return rand.Uint64() }

// formatAuthSerno renders v as the 10-byte ASCII decimal field used by
// both Request and Response wire forms. When v is at least 10^10, the
// first 10 decimal digits of v are used instead of the last — a
// deliberate truncation behavior, not a bug.
func formatAuthSerno(v uint64) string {
	if v > authSernoOverflow {
		s := strconv.FormatUint(v, 10)
		return s[:10]
	}
	return fmt.Sprintf("%010d", v)
}
