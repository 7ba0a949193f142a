package models

import (
	"sort"
	"strings"

	"github.com/divinity/dspace.go/pkg/constants"
)

// MetaValue is one value of a metadata field.
type MetaValue struct {
	Value      string  `json:"value"`
	Language   string  `json:"language"`
	Authority  *string `json:"authority"`
	Confidence int     `json:"confidence"`
}

// NewMetaValue returns a value with the default language and confidence.
func NewMetaValue(value string) MetaValue {
	return MetaValue{
		Value:      strings.TrimSpace(value),
		Language:   constants.DefaultLanguage,
		Confidence: constants.DefaultConfidence,
	}
}

// WithLanguage returns a copy of v in language lang.
func (v MetaValue) WithLanguage(lang string) MetaValue {
	v.Language = lang
	return v
}

// WithAuthority returns a copy of v bound to an authority record.
func (v MetaValue) WithAuthority(authority string, confidence int) MetaValue {
	v.Authority = &authority
	v.Confidence = confidence
	return v
}

// Metadata maps dotted field keys such as "dc.title" to their values in order.
// A key is present only while it has at least one value.
type Metadata map[string][]MetaValue

// Keys returns the field keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, vs := range m {
		out[k] = append([]MetaValue(nil), vs...)
	}
	return out
}
