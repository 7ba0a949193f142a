package dspace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// ItemRelationships lists every relationship the item takes part in, on
// either side.
func (c *Client) ItemRelationships(ctx context.Context, itemID string) ([]models.Relationship, error) {
	if itemID == "" {
		return nil, invalidArgument("item id is empty")
	}
	doc, err := c.getDocument(ctx, itemEndpoint(itemID)+"/relationships")
	if err != nil {
		return nil, err
	}
	var out []models.Relationship
	for _, d := range doc.Embedded("relationships") {
		rel, err := models.RelationshipFromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

// CreateRelationship links leftID to rightID with relationship type typeID.
func (c *Client) CreateRelationship(ctx context.Context, typeID int, leftID, rightID string) (models.Relationship, error) {
	if typeID == 0 || leftID == "" || rightID == "" {
		return models.Relationship{}, invalidArgument("relationship needs a type id and both item ids")
	}
	endpoint := constants.EndpointRelationships + "?relationshipType=" + strconv.Itoa(typeID)
	req := connection.NewRequest(http.MethodPost, endpoint).
		WithURIList(c.URL(itemEndpoint(leftID)), c.URL(itemEndpoint(rightID)))

	resp, err := c.Request(ctx, req)
	if err != nil {
		return models.Relationship{}, err
	}
	c.logger.Debug("created relationship", "type", typeID, "left", leftID, "right", rightID)
	doc := document(resp)
	if doc == nil {
		return models.Relationship{RelationshipTypeID: typeID, LeftItemID: leftID, RightItemID: rightID}, nil
	}
	return models.RelationshipFromDocument(doc)
}

// DeleteRelationship deletes the relationship at its self link.
func (c *Client) DeleteRelationship(ctx context.Context, selfHref string) error {
	if selfHref == "" {
		return invalidArgument("relationship has no self link")
	}
	_, err := c.Request(ctx, connection.NewRequest(http.MethodDelete, selfHref))
	return err
}

// RelationshipTypes lists every relationship type with its entity types.
func (c *Client) RelationshipTypes(ctx context.Context) ([]models.RelationshipType, error) {
	var out []models.RelationshipType
	for page := 0; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(constants.DefaultPageSize))
		q.Add("embed", "leftType")
		q.Add("embed", "rightType")

		doc, err := c.getDocument(ctx, constants.EndpointRelationshipTypes+"?"+q.Encode())
		if err != nil {
			return nil, err
		}
		types := doc.Embedded("relationshiptypes")
		for _, d := range types {
			rt, err := models.RelationshipTypeFromDocument(d)
			if err != nil {
				return nil, err
			}
			out = append(out, rt)
		}

		totalPages, _ := strconv.Atoi(doc.String("page.totalPages"))
		if len(types) == 0 || page+1 >= totalPages {
			return out, nil
		}
	}
}

// RelationshipTypeID finds the type whose leftward or rightward name is key
// and which links leftType to rightType. More than one match is ErrAmbiguous.
func (c *Client) RelationshipTypeID(ctx context.Context, key, leftType, rightType string) (int, error) {
	types, err := c.RelationshipTypes(ctx)
	if err != nil {
		return 0, err
	}
	var matches []int
	for _, rt := range types {
		if (rt.LeftwardType == key || rt.RightwardType == key) &&
			rt.LeftEntityType == leftType && rt.RightEntityType == rightType {
			matches = append(matches, rt.ID)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("relationship type %s (%s -> %s): %w", key, leftType, rightType, constants.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("relationship type %s (%s -> %s) matches ids %v: %w", key, leftType, rightType, matches, constants.ErrAmbiguous)
	}
}

// RelationshipPlan is what it takes to make the remote relationships of an
// item match its linked entities.
type RelationshipPlan struct {
	Delete []models.Relationship
	Create []*models.Item
}

func (p RelationshipPlan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0
}

// DiffOption narrows what DiffRelationships considers.
type DiffOption func(*diffOptions)

type diffOptions struct {
	leftSideOnly bool
}

// LeftSideOnly keeps remote relationships whose left item is another item
// out of the plan, so they are never deleted.
func LeftSideOnly() DiffOption {
	return func(o *diffOptions) { o.leftSideOnly = true }
}

// DiffRelationships compares the linked entities of item itemID with its
// remote relationships.
//
// With no linked entities every remote relationship is deleted. Otherwise a
// remote relationship is deleted when no local entity has both its right
// item id and its type id, and a local entity is created when no remote
// relationship has its composite key.
func DiffRelationships(itemID string, local []*models.Item, remote []models.Relationship, opts ...DiffOption) RelationshipPlan {
	var o diffOptions
	for _, opt := range opts {
		opt(&o)
	}
	var plan RelationshipPlan

	owned := remote
	if o.leftSideOnly {
		owned = remote[:0:0]
		for _, r := range remote {
			if r.LeftItemID == "" || r.LeftItemID == itemID {
				owned = append(owned, r)
			}
		}
	}

	if len(local) == 0 {
		plan.Delete = owned
		return plan
	}

	for _, r := range owned {
		wanted := false
		for _, e := range local {
			if e.ID == r.RightItemID && e.RelationshipTypeID == r.RelationshipTypeID {
				wanted = true
				break
			}
		}
		if !wanted {
			plan.Delete = append(plan.Delete, r)
		}
	}

	existing := make(map[string]struct{}, len(owned))
	for _, r := range owned {
		existing[r.Key()] = struct{}{}
	}
	for _, e := range local {
		key := models.RelationshipKey(e.RelationshipTypeID, e.ID)
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		plan.Create = append(plan.Create, e)
	}
	return plan
}

// PlanRelationshipSync reads the remote relationships of item and diffs them
// against its linked entities without changing anything.
func (c *Client) PlanRelationshipSync(ctx context.Context, item *models.Item) (RelationshipPlan, error) {
	if item.ID == "" {
		return RelationshipPlan{}, invalidArgument("item has no id: has it been submitted yet?")
	}
	for _, e := range item.Entities() {
		if err := requireLinkable(e); err != nil {
			return RelationshipPlan{}, err
		}
	}
	remote, err := c.ItemRelationships(ctx, item.ID)
	if err != nil {
		return RelationshipPlan{}, err
	}
	return DiffRelationships(item.ID, item.Entities(), remote), nil
}

// SyncRelationships applies the plan from PlanRelationshipSync.
func (c *Client) SyncRelationships(ctx context.Context, item *models.Item) (RelationshipPlan, error) {
	plan, err := c.PlanRelationshipSync(ctx, item)
	if err != nil {
		return plan, err
	}
	c.logger.Info("syncing relationships", "item", item.ID, "delete", len(plan.Delete), "create", len(plan.Create))
	return plan, c.applyPlan(ctx, item, plan)
}

func (c *Client) applyPlan(ctx context.Context, item *models.Item, plan RelationshipPlan) error {
	for _, r := range plan.Delete {
		if err := c.DeleteRelationship(ctx, r.SelfHref); err != nil {
			return fmt.Errorf("delete relationship %s: %w", r.Key(), err)
		}
	}
	for _, e := range plan.Create {
		if _, err := c.CreateRelationship(ctx, e.RelationshipTypeID, item.ID, e.ID); err != nil {
			return fmt.Errorf("create relationship %s: %w", models.RelationshipKey(e.RelationshipTypeID, e.ID), err)
		}
	}
	return nil
}

// requireLinkable checks that a linked entity can become a relationship.
func requireLinkable(e *models.Item) error {
	if e.ID == "" {
		return invalidArgument("linked entity %q has no id", e.Name)
	}
	if e.RelationshipTypeID == 0 {
		return invalidArgument("linked entity %s has no relationship type id", e.ID)
	}
	return nil
}
