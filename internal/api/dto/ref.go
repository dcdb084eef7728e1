package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

var errBadReference = errors.New("reference must be a numeric id or a name")

// RefValue decodes a directory reference: a JSON number is an id and a JSON
// string is a name. Floor labels such as "15" therefore stay names.
type RefValue struct {
	domain.Ref
	set bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RefValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = RefValue{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = RefValue{Ref: domain.RefByName(name), set: true}
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil || id <= 0 {
		return errBadReference
	}
	*r = RefValue{Ref: domain.RefByID(id), set: true}
	return nil
}

// Present reports whether the field carried a non-empty value.
func (r RefValue) Present() bool {
	return r.set && !r.IsZero()
}
