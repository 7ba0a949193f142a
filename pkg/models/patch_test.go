package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataAddOperations(t *testing.T) {
	md := Metadata{
		"dc.title":   {NewMetaValue("T")},
		"dc.subject": {NewMetaValue("a"), NewMetaValue("b")},
	}
	ops := MetadataAddOperations(md)
	require.Len(t, ops, 3)
	assert.Equal(t, "/metadata/dc.subject/-", ops[0].Path)
	assert.Equal(t, "a", ops[0].Value.(MetaValue).Value)
	assert.Equal(t, "b", ops[1].Value.(MetaValue).Value)
	assert.Equal(t, "/metadata/dc.title/-", ops[2].Path)
	for _, op := range ops {
		assert.Equal(t, "add", op.Op)
	}

	assert.Empty(t, MetadataAddOperations(nil))
}

func TestMetadataRemoveAndReplace(t *testing.T) {
	assert.Equal(t, PatchOperation{Op: "remove", Path: "/metadata/dc.title"}, MetadataRemoveOperation("dc.title", -1))
	assert.Equal(t, "/metadata/dc.title/1", MetadataRemoveOperation("dc.title", 1).Path)

	op := MetadataReplaceOperation("dc.title", 0, NewMetaValue("New"))
	assert.Equal(t, "replace", op.Op)
	assert.Equal(t, "/metadata/dc.title/0", op.Path)
}

func TestPolicyPayload(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewGroupPolicy("g-1")
	p.StartDate = &start

	body := p.Payload()
	assert.Equal(t, "TYPE_CUSTOM", body["policyType"])
	assert.Equal(t, "READ", body["action"])
	assert.Equal(t, "2025-03-01", body["startDate"])
	assert.NotContains(t, body, "endDate")

	assert.Equal(t, map[string]string{"resource": "bs-1", "group": "g-1"}, p.Query("bs-1"))
	assert.Equal(t, map[string]string{"resource": "bs-1", "eperson": "e-1"}, NewPersonPolicy("e-1").Query("bs-1"))

	assert.Equal(t, "READ", Policy{}.Payload()["action"])
}
