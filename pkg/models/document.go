package models

import (
	"strings"

	"github.com/buger/jsonparser"
	"github.com/goccy/go-json"
)

// Document is one raw JSON object returned by the REST API.
//
// Lookups read straight from the bytes, so a Document is cheap to pass around
// and only the fields a caller asks for are ever decoded.
type Document []byte

// Get returns the raw value at keys.
func (d Document) Get(keys ...string) ([]byte, jsonparser.ValueType, bool) {
	value, dataType, _, err := jsonparser.Get(d, keys...)
	if err != nil || dataType == jsonparser.NotExist {
		return nil, jsonparser.NotExist, false
	}
	return value, dataType, true
}

// Lookup resolves a dotted path such as "_links.self.href".
// Strings are unescaped, null yields "", and any other value is returned as raw JSON.
func (d Document) Lookup(path string) (string, bool) {
	return d.LookupKeys(strings.Split(path, ".")...)
}

// LookupKeys is Lookup with the path already split.
func (d Document) LookupKeys(keys ...string) (string, bool) {
	value, dataType, ok := d.Get(keys...)
	if !ok {
		return "", false
	}
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return string(value), true
		}
		return s, true
	case jsonparser.Null:
		return "", true
	default:
		return string(value), true
	}
}

// String is Lookup without the presence flag.
func (d Document) String(path string) string {
	s, _ := d.Lookup(path)
	return s
}

// Href returns _links.<rel>.href.
func (d Document) Href(rel string) string {
	s, _ := d.LookupKeys("_links", rel, "href")
	return s
}

// Object returns the nested object at keys.
func (d Document) Object(keys ...string) (Document, bool) {
	value, dataType, ok := d.Get(keys...)
	if !ok || dataType != jsonparser.Object {
		return nil, false
	}
	return Document(value), true
}

// Array returns the elements of the array at keys. Missing or non-array values yield nil.
func (d Document) Array(keys ...string) []Document {
	var out []Document
	_, err := jsonparser.ArrayEach(d, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil {
			return
		}
		if dataType == jsonparser.String {
			value = []byte(`"` + string(value) + `"`)
		}
		out = append(out, Document(value))
	}, keys...)
	if err != nil {
		return nil
	}
	return out
}

// Embedded returns the _embedded.<rel> collection.
func (d Document) Embedded(rel string) []Document {
	return d.Array("_embedded", rel)
}

// MetaValues returns the trimmed values of metadata[key].
func (d Document) MetaValues(key string) []string {
	var out []string
	for _, entry := range d.Array("metadata", key) {
		if v, ok := entry.LookupKeys("value"); ok {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

// Decode unmarshals the document into dst.
func (d Document) Decode(dst any) error {
	return json.Unmarshal(d, dst)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}
