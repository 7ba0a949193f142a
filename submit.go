package dspace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// Strategy says what Update does with an item's files or relationships.
type Strategy int

const (
	// NoChange leaves the remote side alone.
	NoChange Strategy = iota
	// Add uploads or links what the item carries and keeps what is already there.
	Add
	// Replace removes everything remote first, then adds.
	Replace
	// Sync deletes and creates only the difference. Relationships only.
	Sync
)

func (s Strategy) String() string {
	switch s {
	case NoChange:
		return "no-change"
	case Add:
		return "add"
	case Replace:
		return "replace"
	case Sync:
		return "sync"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps the names printed by String back to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no-change", "nochange", "none":
		return NoChange, nil
	case "add":
		return Add, nil
	case "replace":
		return Replace, nil
	case "sync":
		return Sync, nil
	}
	return NoChange, invalidArgument("unknown strategy %q", s)
}

type submitOptions struct {
	files         bool
	relationships bool
}

// SubmitOption configures Submit.
type SubmitOption func(*submitOptions)

// WithoutFiles skips uploading the item's files.
func WithoutFiles() SubmitOption {
	return func(o *submitOptions) { o.files = false }
}

// WithoutRelationships skips linking the item's entities.
func WithoutRelationships() SubmitOption {
	return func(o *submitOptions) { o.relationships = false }
}

// Submit creates item in its owning collection and sets its ID and Handle,
// then uploads its files and links its entities. Linked entities must
// already exist remotely.
func (c *Client) Submit(ctx context.Context, item *models.Item, opts ...SubmitOption) error {
	o := submitOptions{files: true, relationships: true}
	for _, opt := range opts {
		opt(&o)
	}

	if item.OwningCollectionID == "" {
		return invalidArgument("item %q has no owning collection", item.Name)
	}
	if item.ID != "" {
		return invalidArgument("item %s has already been submitted", item.ID)
	}
	if o.relationships {
		for _, e := range item.Entities() {
			if err := requireLinkable(e); err != nil {
				return err
			}
		}
	}

	endpoint := constants.EndpointItems + "?owningCollection=" + url.QueryEscape(item.OwningCollectionID)
	doc, err := c.sendJSON(ctx, http.MethodPost, endpoint, item.Payload())
	if err != nil {
		return fmt.Errorf("submit item %q: %w", item.Name, err)
	}
	id := doc.String("id")
	if id == "" {
		id = doc.String("uuid")
	}
	if id == "" {
		return &RequestFailureError{Op: "submit item " + item.Name, Missing: "id", Body: doc}
	}
	item.ID = id
	item.Handle = doc.String("handle")
	c.logger.Info("submitted item", "id", item.ID, "handle", item.Handle, "collection", item.OwningCollectionID)

	if o.files && item.HasFiles() {
		if _, err := c.UploadItemFiles(ctx, item); err != nil {
			return err
		}
	}
	if o.relationships {
		for _, e := range item.Entities() {
			if _, err := c.CreateRelationship(ctx, e.RelationshipTypeID, item.ID, e.ID); err != nil {
				return fmt.Errorf("link %s to %s: %w", e.ID, item.ID, err)
			}
		}
	}
	return nil
}

// Update replaces the remote item with item and then applies files to its
// bitstreams and relationships to its links. Sync is not valid for files.
// Strategies are checked before anything is sent.
func (c *Client) Update(ctx context.Context, item *models.Item, files, relationships Strategy) error {
	if item.ID == "" {
		return invalidArgument("item %q has no id: has it been submitted yet?", item.Name)
	}
	switch files {
	case NoChange, Add, Replace:
	default:
		return invalidArgument("file strategy %s", files)
	}
	switch relationships {
	case NoChange, Add, Replace, Sync:
	default:
		return invalidArgument("relationship strategy %s", relationships)
	}
	if relationships != NoChange {
		for _, e := range item.Entities() {
			if err := requireLinkable(e); err != nil {
				return err
			}
		}
	}

	doc, err := c.sendJSON(ctx, http.MethodPut, itemEndpoint(item.ID), item.Payload())
	if err != nil {
		return fmt.Errorf("update item %s: %w", item.ID, err)
	}
	if h := doc.String("handle"); h != "" {
		item.Handle = h
	}

	if err := c.applyFileStrategy(ctx, item, files); err != nil {
		return err
	}
	return c.applyRelationshipStrategy(ctx, item, relationships)
}

func (c *Client) applyFileStrategy(ctx context.Context, item *models.Item, s Strategy) error {
	switch s {
	case Replace:
		bundle, err := c.FindOrCreateBundle(ctx, item, constants.DefaultBundleName)
		if err != nil {
			return err
		}
		existing, err := c.ListBitstreams(ctx, bundle.BitstreamsHref)
		if err != nil {
			return err
		}
		for _, bs := range existing {
			if err := c.DeleteBitstream(ctx, bs.ID); err != nil {
				return err
			}
		}
		c.logger.Info("removed remote files", "item", item.ID, "count", len(existing))
		fallthrough
	case Add:
		if !item.HasFiles() {
			return nil
		}
		_, err := c.UploadItemFiles(ctx, item)
		return err
	}
	return nil
}

func (c *Client) applyRelationshipStrategy(ctx context.Context, item *models.Item, s Strategy) error {
	switch s {
	case Add:
		return c.applyPlan(ctx, item, RelationshipPlan{Create: item.Entities()})
	case Replace:
		remote, err := c.ItemRelationships(ctx, item.ID)
		if err != nil {
			return err
		}
		plan := DiffRelationships(item.ID, nil, remote)
		plan.Create = item.Entities()
		return c.applyPlan(ctx, item, plan)
	case Sync:
		_, err := c.SyncRelationships(ctx, item)
		return err
	}
	return nil
}
