// Package models holds the repository objects exchanged with the REST API.
package models

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/divinity/dspace.go/pkg/constants"
)

// Item is a repository object together with the files and linked entities
// that should be created alongside it.
//
// An Item built locally has no ID; Submit assigns ID and Handle from the
// server response. Owning collection is fixed once the item is submitted.
type Item struct {
	ID     string
	Handle string
	Name   string

	// OwningCollectionID is required before submission.
	OwningCollectionID string

	// RelationshipTypeID is set when the item is attached to another item as a
	// linked entity. Zero means unset.
	RelationshipTypeID int

	// BitstreamsURI and PrimaryBitstreamURI cache the upload links of the
	// item's bundle once it has been looked up or created.
	BitstreamsURI       string
	PrimaryBitstreamURI string

	props    map[string]any
	meta     Metadata
	files    []*File
	entities []*Item
}

// NewItem creates an unsubmitted item with the default properties.
func NewItem(name string) *Item {
	item := &Item{Name: name, meta: Metadata{}}
	item.SetDefaultProperties("item")
	return item
}

// ItemFromDocument builds an item from a REST response object.
// Only property keys already known to the item are copied from the response.
func ItemFromDocument(doc Document) (*Item, error) {
	var raw struct {
		ID         string   `json:"id"`
		UUID       string   `json:"uuid"`
		Name       string   `json:"name"`
		Handle     string   `json:"handle"`
		EntityType string   `json:"entityType"`
		Metadata   Metadata `json:"metadata"`
	}
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	var all map[string]any
	if err := doc.Decode(&all); err != nil {
		return nil, fmt.Errorf("decode item properties: %w", err)
	}

	item := NewItem(raw.Name)
	item.ID = raw.ID
	if item.ID == "" {
		item.ID = raw.UUID
	}
	item.Handle = raw.Handle
	for k := range item.props {
		if v, ok := all[k]; ok {
			item.props[k] = v
		}
	}
	for k, vs := range raw.Metadata {
		if len(vs) > 0 {
			item.meta[k] = vs
		}
	}
	if raw.EntityType != "" && !item.HasMeta(constants.EntityTypeKey) {
		item.SetEntityType(raw.EntityType)
	}
	return item, nil
}

// Properties returns a copy of the flags merged into the outbound payload.
func (i *Item) Properties() map[string]any {
	out := make(map[string]any, len(i.props))
	for k, v := range i.props {
		out[k] = v
	}
	return out
}

func (i *Item) SetProperty(key string, value any) *Item {
	if i.props == nil {
		i.props = make(map[string]any)
	}
	i.props[key] = value
	return i
}

// SetProperties replaces all properties.
func (i *Item) SetProperties(props map[string]any) *Item {
	i.props = make(map[string]any, len(props))
	for k, v := range props {
		i.props[k] = v
	}
	return i
}

func (i *Item) SetDefaultProperties(itemType string) *Item {
	return i.SetProperties(map[string]any{
		"inArchive":    true,
		"discoverable": true,
		"withdrawn":    false,
		"type":         itemType,
	})
}

// AddMeta appends one record per non-empty value, in order.
func (i *Item) AddMeta(key string, values ...string) *Item {
	for _, v := range values {
		i.AddMetaValue(key, NewMetaValue(v))
	}
	return i
}

// AddMetaValue appends v unless its trimmed value is empty.
func (i *Item) AddMetaValue(key string, v MetaValue) *Item {
	v.Value = strings.TrimSpace(v.Value)
	if v.Value == "" {
		return i
	}
	if i.meta == nil {
		i.meta = Metadata{}
	}
	i.meta[key] = append(i.meta[key], v)
	return i
}

// SetMeta replaces every value of key. No values removes the key.
func (i *Item) SetMeta(key string, values ...string) *Item {
	delete(i.meta, key)
	return i.AddMeta(key, values...)
}

func (i *Item) HasMeta(key string) bool {
	_, ok := i.meta[key]
	return ok
}

// Meta returns the first value of key.
func (i *Item) Meta(key string) (string, bool) {
	vs := i.MetaValues(key)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// MetaValues returns every value of key, trimmed.
func (i *Item) MetaValues(key string) []string {
	records := i.meta[key]
	if len(records) == 0 {
		return nil
	}
	out := make([]string, len(records))
	for n, r := range records {
		out[n] = strings.TrimSpace(r.Value)
	}
	return out
}

// MetaWildcard collects the values of every key starting with the part of
// pattern before "*". With first set only the first value per key is kept.
func (i *Item) MetaWildcard(pattern string, first bool) map[string][]string {
	prefix, _, _ := strings.Cut(pattern, "*")
	found := make(map[string][]string)
	for key, records := range i.meta {
		if !strings.HasPrefix(key, prefix) || len(records) == 0 {
			continue
		}
		if first {
			found[key] = []string{records[0].Value}
			continue
		}
		for _, r := range records {
			found[key] = append(found[key], r.Value)
		}
	}
	return found
}

// Metadata returns a copy of the metadata map.
func (i *Item) Metadata() Metadata {
	return i.meta.Clone()
}

func (i *Item) EntityType() string {
	v, _ := i.Meta(constants.EntityTypeKey)
	return v
}

// SetEntityType replaces the dspace.entity.type value.
func (i *Item) SetEntityType(entityType string) *Item {
	return i.SetMeta(constants.EntityTypeKey, entityType)
}

func (i *Item) AddFile(f *File) *Item {
	i.files = append(i.files, f)
	return i
}

func (i *Item) HasFiles() bool {
	return len(i.files) > 0
}

func (i *Item) Files() []*File {
	return append([]*File(nil), i.files...)
}

// AddEntity links entity to the item. The entity must already carry a
// relationship type id and an entity type.
func (i *Item) AddEntity(entity *Item) error {
	if entity == nil {
		return fmt.Errorf("%w: linked entity is nil", constants.ErrInvalidArgument)
	}
	if entity.RelationshipTypeID == 0 {
		return fmt.Errorf("%w: linked entities must have a relationship type id", constants.ErrInvalidArgument)
	}
	if entity.EntityType() == "" {
		return fmt.Errorf("%w: linked entities must have an entity type", constants.ErrInvalidArgument)
	}
	i.entities = append(i.entities, entity)
	return nil
}

func (i *Item) HasEntities() bool {
	return len(i.entities) > 0
}

func (i *Item) Entities() []*Item {
	return append([]*Item(nil), i.entities...)
}

// HasEntity reports whether an entity of entityType with id is linked.
// A zero relationshipTypeID matches any relationship type.
func (i *Item) HasEntity(entityType, id string, relationshipTypeID int) bool {
	for _, e := range i.entities {
		if e.EntityType() == entityType && e.ID == id &&
			(relationshipTypeID == 0 || e.RelationshipTypeID == relationshipTypeID) {
			return true
		}
	}
	return false
}

// HasEntityByID is HasEntity without the entity type check.
func (i *Item) HasEntityByID(id string, relationshipTypeID int) bool {
	for _, e := range i.entities {
		if e.ID == id && (relationshipTypeID == 0 || e.RelationshipTypeID == relationshipTypeID) {
			return true
		}
	}
	return false
}

// Payload is the object sent on create and replace.
func (i *Item) Payload() map[string]any {
	meta := i.meta
	if meta == nil {
		meta = Metadata{}
	}
	out := map[string]any{
		"name":     i.Name,
		"metadata": meta,
	}
	for k, v := range i.props {
		out[k] = v
	}
	if i.ID != "" {
		out["id"] = i.ID
		out["uuid"] = i.ID
	}
	if i.Handle != "" {
		out["handle"] = i.Handle
	}
	return out
}

func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Payload())
}
