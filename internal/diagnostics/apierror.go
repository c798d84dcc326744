package diagnostics

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FromAPIError builds a Report from a raw provider response body.
// OpenAI-style payloads carry {"error": {"message": ..., "type": ...}};
// anything else is kept verbatim as the message.
func FromAPIError(tool string, body []byte) Report {
	r := Report{
		Tool:    tool,
		Message: strings.TrimSpace(string(body)),
	}
	raw := string(body)
	if !gjson.Valid(raw) {
		return r
	}
	parsed := gjson.Parse(raw)
	if msg := parsed.Get("error.message"); msg.Exists() && strings.TrimSpace(msg.String()) != "" {
		r.Message = msg.String()
	}
	if typ := parsed.Get("error.type"); typ.Exists() && strings.TrimSpace(typ.String()) != "" {
		r.Kind = Kind(typ.String())
	}
	return r
}
