package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Opaque is a scalar JSON value (string, number or bool) kept as its text form.
// Zone identifiers and weekday markers arrive in any of these shapes.
type Opaque string

func (o *Opaque) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Opaque(s)
	case '{', '[':
		return fmt.Errorf("expected scalar, got %c", b[0])
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*o = Opaque(n.String())
			return nil
		}
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if v {
			*o = "true"
		} else {
			*o = "false"
		}
	}
	return nil
}

func (o Opaque) String() string { return string(o) }
