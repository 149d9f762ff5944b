package backend

import (
	"bytes"
	"encoding/json"
)

// Detail extracts the server-provided "detail" field. parsed is false when the body is
// missing, null or not a JSON object; detail is empty when the object has no usable detail.
func (e *StatusError) Detail() (detail string, parsed bool) {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return "", false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return "", false
	}
	field, ok := raw["detail"]
	if !ok {
		return "", true
	}
	var text string
	if err := json.Unmarshal(field, &text); err != nil {
		// FastAPI validation errors carry a list here; there is no single message to show.
		return "", true
	}
	return text, true
}
