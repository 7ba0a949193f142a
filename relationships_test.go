package dspace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

func entity(id string, typeID int) *models.Item {
	e := models.NewItem(id)
	e.ID = id
	e.RelationshipTypeID = typeID
	e.SetEntityType("Person")
	return e
}

func remoteRel(left, right string, typeID int) models.Relationship {
	return models.Relationship{
		SelfHref:           "https://repo.test/server/api/core/relationships/" + right,
		LeftItemID:         left,
		RightItemID:        right,
		RelationshipTypeID: typeID,
	}
}

func keys(rels []models.Relationship) []string {
	var out []string
	for _, r := range rels {
		out = append(out, r.Key())
	}
	return out
}

func ids(items []*models.Item) []string {
	var out []string
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestDiffRelationships(t *testing.T) {
	rules := []struct {
		Name   string
		Local  []*models.Item
		Remote []models.Relationship
		Delete []string
		Create []string
	}{
		{
			Name:   "NoLocalDeletesAll",
			Remote: []models.Relationship{remoteRel("I", "A", 1), remoteRel("I", "B", 2)},
			Delete: []string{"1_A", "2_B"},
		},
		{
			Name:   "InSync",
			Local:  []*models.Item{entity("A", 1)},
			Remote: []models.Relationship{remoteRel("I", "A", 1)},
		},
		{
			Name:   "AddAndRemove",
			Local:  []*models.Item{entity("A", 1), entity("C", 3)},
			Remote: []models.Relationship{remoteRel("I", "A", 1), remoteRel("I", "B", 2)},
			Delete: []string{"2_B"},
			Create: []string{"C"},
		},
		{
			Name:   "TypeChangeIsDeleteAndCreate",
			Local:  []*models.Item{entity("A", 2)},
			Remote: []models.Relationship{remoteRel("I", "A", 1)},
			Delete: []string{"1_A"},
			Create: []string{"A"},
		},
		{
			Name:   "DuplicateLocalCreatedOnce",
			Local:  []*models.Item{entity("A", 1), entity("A", 1)},
			Create: []string{"A"},
		},
		{
			Name:   "OtherLeftSideDeleted",
			Local:  []*models.Item{entity("A", 1)},
			Remote: []models.Relationship{remoteRel("X", "I", 5), remoteRel("I", "A", 1)},
			Delete: []string{"5_I"},
		},
		{
			Name:   "NoLocalDeletesBothSides",
			Remote: []models.Relationship{remoteRel("X", "I", 5), remoteRel("I", "A", 1)},
			Delete: []string{"5_I", "1_A"},
		},
	}

	for _, r := range rules {
		t.Run(r.Name, func(t *testing.T) {
			plan := DiffRelationships("I", r.Local, r.Remote)
			assert.Equal(t, r.Delete, keys(plan.Delete))
			assert.Equal(t, r.Create, ids(plan.Create))
			assert.Equal(t, len(r.Delete) == 0 && len(r.Create) == 0, plan.Empty())
		})
	}
}

func TestDiffRelationshipsLeftSideOnly(t *testing.T) {
	remote := []models.Relationship{remoteRel("X", "I", 5), remoteRel("I", "A", 1)}

	plan := DiffRelationships("I", nil, remote, LeftSideOnly())
	assert.Equal(t, []string{"1_A"}, keys(plan.Delete))

	plan = DiffRelationships("I", []*models.Item{entity("A", 1)}, remote, LeftSideOnly())
	assert.True(t, plan.Empty())
}

const relationshipTypesPage = `{
  "_embedded": {"relationshiptypes": [
    {"id": 1, "leftwardType": "isAuthorOfPublication", "rightwardType": "isPublicationOfAuthor",
     "_embedded": {"leftType": {"label": "Person"}, "rightType": {"label": "Publication"}}},
    {"id": 2, "leftwardType": "isProjectOfPublication", "rightwardType": "isPublicationOfProject",
     "_embedded": {"leftType": {"label": "Publication"}, "rightType": {"label": "Project"}}},
    {"id": 3, "leftwardType": "isAuthorOfPublication", "rightwardType": "isPublicationOfAuthor",
     "_embedded": {"leftType": {"label": "Person"}, "rightType": {"label": "Publication"}}}
  ]},
  "page": {"totalPages": 1}
}`

func TestRelationshipTypeID(t *testing.T) {
	ctx := context.Background()

	c, s := newScriptedClient(jsonResponse(http.StatusOK, relationshipTypesPage))
	id, err := c.RelationshipTypeID(ctx, "isPublicationOfProject", "Publication", "Project")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Contains(t, s.requests()[0].URL, "embed=leftType&embed=rightType")

	c, _ = newScriptedClient(jsonResponse(http.StatusOK, relationshipTypesPage))
	_, err = c.RelationshipTypeID(ctx, "isAuthorOfPublication", "Person", "Publication")
	assert.ErrorIs(t, err, constants.ErrAmbiguous)

	c, _ = newScriptedClient(jsonResponse(http.StatusOK, relationshipTypesPage))
	_, err = c.RelationshipTypeID(ctx, "isAuthorOfPublication", "Publication", "Person")
	assert.ErrorIs(t, err, constants.ErrNotFound)
}

func TestCreateRelationshipSendsURIList(t *testing.T) {
	c, s := newScriptedClient(jsonResponse(http.StatusCreated, `{
		"id": 9,
		"_links": {
			"self": {"href": "https://repo.test/server/api/core/relationships/9"},
			"leftItem": {"href": "https://repo.test/server/api/core/items/L"},
			"rightItem": {"href": "https://repo.test/server/api/core/items/R"},
			"relationshipType": {"href": "https://repo.test/server/api/core/relationshiptypes/4"}
		}
	}`))

	rel, err := c.CreateRelationship(context.Background(), 4, "L", "R")
	require.NoError(t, err)
	assert.Equal(t, "4_R", rel.Key())
	assert.Equal(t, "L", rel.LeftItemID)

	sent := s.requests()[0]
	assert.Equal(t, http.MethodPost, sent.Method)
	assert.Contains(t, sent.URL, "relationshipType=4")
	assert.Equal(t, []string{
		"https://repo.test/server/api/core/items/L",
		"https://repo.test/server/api/core/items/R",
	}, sent.URIList)
}

func TestSyncRequiresSubmittedItem(t *testing.T) {
	c, s := newScriptedClient()
	_, err := c.SyncRelationships(context.Background(), models.NewItem("draft"))
	assert.ErrorIs(t, err, constants.ErrInvalidArgument)
	assert.Empty(t, s.requests())
}
