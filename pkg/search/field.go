package search

import (
	"strings"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// Field names a value to project out of a search hit.
// It is either a MetadataField or a PathField.
type Field interface {
	// Name is the field key or path without any prefix.
	Name() string
	// Resolve extracts the field from doc.
	Resolve(doc models.Document) (string, bool)

	field()
}

// MetadataField reads every value of a metadata key, joined with "; ".
type MetadataField struct {
	Key string
}

func (f MetadataField) Name() string { return f.Key }

func (f MetadataField) Resolve(doc models.Document) (string, bool) {
	values := doc.MetaValues(f.Key)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, constants.MetaJoinSeparator), true
}

func (f MetadataField) String() string { return constants.MetaFieldPrefix + f.Key }

func (MetadataField) field() {}

// PathField reads a dotted path such as "_links.self.href".
type PathField struct {
	Path string
}

func (f PathField) Name() string { return f.Path }

func (f PathField) Resolve(doc models.Document) (string, bool) {
	return doc.Lookup(f.Path)
}

func (f PathField) String() string { return f.Path }

func (PathField) field() {}

// ParseField maps "meta:<key>" to a MetadataField and anything else to a PathField.
func ParseField(s string) Field {
	if key, ok := strings.CutPrefix(s, constants.MetaFieldPrefix); ok {
		return MetadataField{Key: key}
	}
	return PathField{Path: s}
}

// Projection is a field together with the key it is reported under.
type Projection struct {
	Field Field
	Alias string
}

// Key is the alias, falling back to the field name.
func (p Projection) Key() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Field.Name()
}
