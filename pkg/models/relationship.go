package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Relationship is a typed link from a left item to a right item.
type Relationship struct {
	ID                 string
	SelfHref           string
	LeftItemID         string
	RightItemID        string
	RelationshipTypeID int
	LeftPlace          int
	RightPlace         int
	LeftwardValue      string
	RightwardValue     string
}

// RelationshipKey identifies a relationship by type and right item.
func RelationshipKey(typeID int, rightItemID string) string {
	return fmt.Sprintf("%d_%s", typeID, rightItemID)
}

func (r Relationship) Key() string {
	return RelationshipKey(r.RelationshipTypeID, r.RightItemID)
}

// RelationshipFromDocument reads a relationship object. The item and type ids
// are the last path segment of the leftItem, rightItem and relationshipType links.
func RelationshipFromDocument(doc Document) (Relationship, error) {
	rel := Relationship{
		ID:             doc.String("id"),
		SelfHref:       doc.Href("self"),
		LeftItemID:     lastSegment(doc.Href("leftItem")),
		RightItemID:    lastSegment(doc.Href("rightItem")),
		LeftwardValue:  doc.String("leftwardValue"),
		RightwardValue: doc.String("rightwardValue"),
	}
	rel.LeftPlace, _ = strconv.Atoi(doc.String("leftPlace"))
	rel.RightPlace, _ = strconv.Atoi(doc.String("rightPlace"))

	if t := lastSegment(doc.Href("relationshipType")); t != "" {
		id, err := strconv.Atoi(t)
		if err != nil {
			return rel, fmt.Errorf("relationship %s: bad relationship type id %q: %w", rel.ID, t, err)
		}
		rel.RelationshipTypeID = id
	}
	return rel, nil
}

// RelationshipType describes one kind of relationship between entity types.
type RelationshipType struct {
	ID              int
	LeftwardType    string
	RightwardType   string
	LeftEntityType  string
	RightEntityType string
}

// RelationshipTypeFromDocument reads a relationshiptype object, including the
// embedded left and right entity types when present.
func RelationshipTypeFromDocument(doc Document) (RelationshipType, error) {
	id, err := strconv.Atoi(doc.String("id"))
	if err != nil {
		return RelationshipType{}, fmt.Errorf("bad relationship type id: %w", err)
	}
	return RelationshipType{
		ID:              id,
		LeftwardType:    doc.String("leftwardType"),
		RightwardType:   doc.String("rightwardType"),
		LeftEntityType:  doc.String("_embedded.leftType.label"),
		RightEntityType: doc.String("_embedded.rightType.label"),
	}, nil
}

func lastSegment(href string) string {
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
