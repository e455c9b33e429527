package httpclient

import (
	"bytes"

	jsonitor "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Envelope is the response shape shared by every endpoint. A returned Envelope
// always describes a successful call; failures are reported as errors instead.
type Envelope struct {
	Data  jsonitor.RawMessage `json:"data,omitempty"`
	Token string              `json:"token,omitempty"`

	// Pagination, present on some list responses.
	Count int `json:"count,omitempty"`
	Total int `json:"total,omitempty"`
	Page  int `json:"page,omitempty"`
	Pages int `json:"pages,omitempty"`
}

type wireEnvelope struct {
	Envelope
	Success *bool `json:"success"`
}

// HasData reports whether the envelope carries a non-null data member.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Decode unmarshals the data member into v. An absent data member leaves v untouched.
func (e *Envelope) Decode(v any) error {
	if !e.HasData() {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return ErrDecode.MsgErr("unable to decode response data", err)
	}
	return nil
}

// decodeEnvelope parses a response body. The failure message is the envelope's
// error member when it is a non-empty string.
func decodeEnvelope(body []byte) (env *Envelope, ok bool, msg string, err error) {
	if !gjson.ValidBytes(body) {
		return nil, false, "", ErrDecode.Msg("response is not valid JSON")
	}
	var w wireEnvelope
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, false, "", ErrDecode.MsgErr("response is not a JSON envelope", err)
	}
	if e := gjson.GetBytes(body, "error"); e.Type == gjson.String {
		msg = e.Str
	}
	ok = (w.Success == nil || *w.Success) && msg == ""
	return &w.Envelope, ok, msg, nil
}
