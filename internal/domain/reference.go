package domain

import (
	"strconv"
	"strings"
)

// Ref points at a directory record either by numeric id or by name.
type Ref struct {
	ID   int64
	Name string
}

// RefByID builds an id reference.
func RefByID(id int64) Ref { return Ref{ID: id} }

// RefByName builds a name reference.
func RefByName(name string) Ref { return Ref{Name: strings.TrimSpace(name)} }

// ParseRef interprets a query-string value: digits are an id, anything else a name.
func ParseRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return RefByID(id)
	}
	return RefByName(raw)
}

// IsZero reports whether the reference points at nothing.
func (r Ref) IsZero() bool { return r.ID == 0 && r.Name == "" }

// ByID reports whether the reference is an id lookup.
func (r Ref) ByID() bool { return r.ID > 0 }

func (r Ref) String() string {
	if r.ByID() {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Name
}
