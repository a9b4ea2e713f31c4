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
	"encoding/json"
	"math"
	"strconv"

	"github.com/cloudwego/sigma/sigmaerr"
	"github.com/cloudwego/sigma/tag"
)

// RequestFromJSON populates a Request from an already-decoded JSON
// object tree (the shape produced by encoding/json when unmarshaling
// into interface{} or map[string]interface{} — JSON parsing itself is
// out of scope for this package). src supplies AuthSerno when the
// object omits "Serno".
func RequestFromJSON(v interface{}, src AuthSernoSource) (*Request, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, sigmaerr.NewIncorrectData("SigmaRequest JSON should be object")
	}

	req := newDefaultRequest()

	saf, err := requiredJSONString(obj, "SAF")
	if err != nil {
		return nil, err
	}
	if err := req.SetSAF(saf); err != nil {
		return nil, err
	}

	source, err := requiredJSONString(obj, "SRC")
	if err != nil {
		return nil, err
	}
	if err := req.SetSource(source); err != nil {
		return nil, err
	}

	mti, err := requiredJSONString(obj, "MTI")
	if err != nil {
		return nil, err
	}
	if err := req.SetMTI(mti); err != nil {
		return nil, err
	}

	if serno, ok := obj["Serno"]; ok {
		v, err := sernoToUint64(serno)
		if err != nil {
			return nil, err
		}
		req.AuthSerno = v
	} else {
		req.AuthSerno = src.Next()
	}

	for name, fieldData := range obj {
		if name == "SAF" || name == "SRC" || name == "MTI" || name == "Serno" {
			continue
		}
		t, err := tag.Parse(name)
		if err != nil {
			return nil, sigmaerr.NewIncorrectTag(name)
		}
		content, err := jsonScalarToText(name, fieldData)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case tag.Regular:
			req.Tags[t.Index] = content
		case tag.Iso:
			req.IsoFields[t.Index] = Text(content)
		case tag.IsoSubfield:
			req.IsoSubfields[isoSubfieldKey{Index: t.Index, Sub: t.Sub}] = Text(content)
		}
	}

	return req, nil
}

func requiredJSONString(obj map[string]interface{}, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", sigmaerr.NewMissingField(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", sigmaerr.NewIncorrectFieldData(key, "String")
	}
	return s, nil
}

// sernoToUint64 accepts "Serno" as either a decimal string or a JSON
// number, matching the spec's fixed (latest-revision) behavior of
// accepting either shape.
func sernoToUint64(v interface{}) (uint64, error) {
	switch x := v.(type) {
	case string:
		n, err := strconv.ParseUint(x, 10, 64)
		if err != nil {
			return 0, sigmaerr.NewIncorrectFieldData("Serno", "integer")
		}
		return n, nil
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, sigmaerr.NewIncorrectFieldData("Serno", "u64 or String with integer")
		}
		return uint64(x), nil
	case json.Number:
		n, err := strconv.ParseUint(x.String(), 10, 64)
		if err != nil {
			return 0, sigmaerr.NewIncorrectFieldData("Serno", "u64 or String with integer")
		}
		return n, nil
	default:
		return 0, sigmaerr.NewIncorrectFieldData("Serno", "u64 or String with integer")
	}
}

// jsonScalarToText renders a tag's JSON value as text: strings pass
// through, JSON integers render with their shortest decimal form,
// anything else is IncorrectFieldData naming the offending key.
func jsonScalarToText(key string, v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return "", sigmaerr.NewIncorrectFieldData(key, "u64 or String with integer")
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		if _, err := strconv.ParseUint(x.String(), 10, 64); err != nil {
			return "", sigmaerr.NewIncorrectFieldData(key, "u64 or String with integer")
		}
		return x.String(), nil
	default:
		return "", sigmaerr.NewIncorrectFieldData(key, "u64 or String with integer")
	}
}

// MarshalJSON renders r in the same shape RequestFromJSON consumes:
// SAF/SRC/MTI/Serno plus one key per tag field.
func (r *Request) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, 4+len(r.Tags)+len(r.IsoFields)+len(r.IsoSubfields))
	obj["SAF"] = r.saf
	obj["SRC"] = r.source
	obj["MTI"] = r.mti
	obj["Serno"] = strconv.FormatUint(r.AuthSerno, 10)
	for k, v := range r.Tags {
		obj[tag.NewRegular(k).String()] = v
	}
	for k, v := range r.IsoFields {
		obj[tag.NewIso(k).String()] = v.LossyText()
	}
	for k, v := range r.IsoSubfields {
		obj[tag.NewIsoSubfield(k.Index, k.Sub).String()] = v.LossyText()
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes the same shape MarshalJSON produces, drawing a
// fresh random AuthSerno when "Serno" is absent.
func (r *Request) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	req, err := RequestFromJSON(v, NewRandomAuthSernoSource())
	if err != nil {
		return err
	}
	*r = *req
	return nil
}

// responseJSON mirrors the §6.2 JSON shape for Response; fees is
// omitted when empty and adata when absent.
type responseJSON struct {
	MTI       string    `json:"mti"`
	AuthSerno uint64    `json:"auth_serno"`
	Reason    uint32    `json:"reason"`
	Fees      []FeeData `json:"fees,omitempty"`
	AData     *string   `json:"adata,omitempty"`
}

// MarshalJSON renders r per §6.2: mti, auth_serno, reason, fees
// (omitted when empty), adata (omitted when absent).
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		MTI:       r.mti,
		AuthSerno: r.AuthSerno,
		Reason:    r.Reason,
		Fees:      r.Fees,
		AData:     r.AData,
	})
}

// UnmarshalJSON parses the §6.2 shape back into r, validating mti.
func (r *Response) UnmarshalJSON(data []byte) error {
	var j responseJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if err := ValidateMTI(j.MTI); err != nil {
		return err
	}
	r.mti = j.MTI
	r.AuthSerno = j.AuthSerno
	r.Reason = j.Reason
	r.Fees = j.Fees
	r.AData = j.AData
	return nil
}
