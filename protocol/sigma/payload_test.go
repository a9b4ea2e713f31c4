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
)

func TestPromotePayloadText(t *testing.T) {
	p := PromotePayload([]byte("hello"))
	_, ok := p.(Text)
	assert.True(t, ok)
	assert.Equal(t, "hello", p.LossyText())
	assert.Equal(t, []byte("hello"), p.Bytes())
}

func TestPromotePayloadRaw(t *testing.T) {
	invalid := []byte{0xff, 0xfe, 'o', 'k'}
	p := PromotePayload(invalid)
	_, ok := p.(Raw)
	assert.True(t, ok)
	assert.Equal(t, invalid, p.Bytes())
	assert.Contains(t, p.LossyText(), "ok")
}

func TestRawLossyTextReplacesInvalidRuns(t *testing.T) {
	r := Raw([]byte{'a', 0xff, 'b'})
	assert.Equal(t, "a�b", r.LossyText())
}
