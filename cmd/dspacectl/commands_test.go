package main

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dspace "github.com/divinity/dspace.go"
	"github.com/divinity/dspace.go/pkg/models"
)

func TestParseLink(t *testing.T) {
	e, err := parseLink("4:abc:Person")
	require.NoError(t, err)
	assert.Equal(t, "abc", e.ID)
	assert.Equal(t, 4, e.RelationshipTypeID)
	assert.Equal(t, "Person", e.EntityType())

	e, err = parseLink("2:def")
	require.NoError(t, err)
	assert.Equal(t, "Item", e.EntityType())

	for _, bad := range []string{"", "4", "x:abc", "0:abc", "4:", "1:2:3:4"} {
		_, err := parseLink(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildSearch(t *testing.T) {
	q, err := buildSearch("graphs", "col-1", []string{"entityType=Publication", "f.author=Ada,contains"}, "dc.title,desc", []string{"meta:dc.title=title", "handle"})
	require.NoError(t, err)

	endpoint, err := url.Parse(q.Endpoint())
	require.NoError(t, err)
	values := endpoint.Query()
	assert.Equal(t, "graphs", values.Get("query"))
	assert.Equal(t, "col-1", values.Get("scope"))
	assert.Equal(t, "Publication,equals", values.Get("f.entityType"))
	assert.Equal(t, "Ada,contains", values.Get("f.author"))
	assert.Equal(t, "dc.title,DESC", values.Get("sort"))
	require.Len(t, q.Projections, 2)
	assert.Equal(t, "title", q.Projections[0].Key())

	_, err = buildSearch("", "", []string{"novalue"}, "", nil)
	assert.Error(t, err)
	_, err = buildSearch("", "", nil, "dc.title,sideways", nil)
	assert.Error(t, err)
}

func TestEmitWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	plan := dspace.RelationshipPlan{
		Delete: []models.Relationship{{RelationshipTypeID: 1, RightItemID: "a"}},
	}
	require.NoError(t, emit(planOutput(plan, true)))
	require.NoError(t, emit(map[string]any{"n": 1}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"dryRun":true,"delete":["1_a"],"create":[]}`, lines[0])
	assert.JSONEq(t, `{"n":1}`, lines[1])
}
