package dspace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// Bundles lists the bundles of an item.
func (c *Client) Bundles(ctx context.Context, itemID string) ([]models.Bundle, error) {
	doc, err := c.getDocument(ctx, itemEndpoint(itemID)+"/bundles")
	if err != nil {
		return nil, err
	}
	var out []models.Bundle
	for _, d := range doc.Embedded("bundles") {
		out = append(out, models.BundleFromDocument(d))
	}
	return out, nil
}

// FindOrCreateBundle returns the item's bundle called name, creating it when
// the item has none by that name. The bundle's upload links are cached on the
// item, and a cached item makes no request at all.
func (c *Client) FindOrCreateBundle(ctx context.Context, item *models.Item, name string) (models.Bundle, error) {
	if item.ID == "" {
		return models.Bundle{}, invalidArgument("item %q has no id: has it been submitted yet?", item.Name)
	}
	if item.BitstreamsURI != "" {
		return models.Bundle{Name: name, BitstreamsHref: item.BitstreamsURI, PrimaryBitstreamURI: item.PrimaryBitstreamURI}, nil
	}
	if name == "" {
		name = constants.DefaultBundleName
	}

	bundles, err := c.Bundles(ctx, item.ID)
	if err != nil {
		return models.Bundle{}, err
	}
	var bundle models.Bundle
	found := false
	for _, b := range bundles {
		if b.Name == name {
			bundle, found = b, true
			break
		}
	}
	if !found {
		doc, err := c.sendJSON(ctx, http.MethodPost, itemEndpoint(item.ID)+"/bundles",
			map[string]any{"name": name, "metadata": map[string]any{}})
		if err != nil {
			return models.Bundle{}, fmt.Errorf("create bundle %s: %w", name, err)
		}
		bundle = models.BundleFromDocument(doc)
		c.logger.Info("created bundle", "item", item.ID, "bundle", name)
	}
	if bundle.BitstreamsHref == "" {
		return bundle, &RequestFailureError{Op: "bundle " + name, Missing: "_links.bitstreams.href"}
	}

	item.BitstreamsURI = bundle.BitstreamsHref
	item.PrimaryBitstreamURI = bundle.PrimaryBitstreamURI
	return bundle, nil
}

// UploadResult is the outcome of uploading one file.
type UploadResult struct {
	File *models.File
	Err  error
}

// UploadItemFiles uploads every file of item into its ORIGINAL bundle. A
// failed file does not stop the others; the returned error joins every failure.
func (c *Client) UploadItemFiles(ctx context.Context, item *models.Item) ([]UploadResult, error) {
	if !item.HasFiles() {
		return nil, nil
	}
	if _, err := c.FindOrCreateBundle(ctx, item, constants.DefaultBundleName); err != nil {
		return nil, err
	}

	var (
		results []UploadResult
		errs    []error
	)
	for _, f := range item.Files() {
		err := c.uploadFile(ctx, item, f)
		if err != nil {
			c.logger.Error("upload failed", "item", item.ID, "file", f.Filename, "error", err)
			errs = append(errs, fmt.Errorf("upload %s: %w", f.Filename, err))
		} else {
			c.logger.Info("uploaded file", "item", item.ID, "file", f.Filename, "bitstream", f.ID)
		}
		results = append(results, UploadResult{File: f, Err: err})
	}
	return results, errors.Join(errs...)
}

// uploadFile sends one file from a local copy that is removed afterwards
// whatever the outcome.
func (c *Client) uploadFile(ctx context.Context, item *models.Item, f *models.File) error {
	return f.WithLocalCopy(ctx, c.fetcher, func(path string) error {
		req := connection.NewRequest(http.MethodPost, item.BitstreamsURI).
			WithFile(&connection.FilePart{Filename: f.Filename, MimeType: f.MimeType, Path: path}).
			WithBody(map[string]any{"name": f.Filename})

		resp, err := c.Request(ctx, req)
		if err != nil {
			return err
		}
		doc := document(resp)
		id := doc.String("id")
		if id == "" {
			id = doc.String("uuid")
		}
		if id == "" {
			return &RequestFailureError{Op: "upload " + f.Filename, Missing: "id", Body: doc}
		}
		f.ID = id

		for _, p := range f.Policies {
			if err := c.CreatePolicy(ctx, f.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreatePolicy applies a resource policy to a bitstream.
func (c *Client) CreatePolicy(ctx context.Context, resourceID string, p models.Policy) error {
	if p.GroupID == "" && p.PersonID == "" {
		return invalidArgument("policy for %s names neither a group nor a person", resourceID)
	}
	q := url.Values{}
	for k, v := range p.Query(resourceID) {
		q.Set(k, v)
	}
	_, err := c.sendJSON(ctx, http.MethodPost, constants.EndpointResourcePolicies+"?"+q.Encode(), p.Payload())
	if err != nil {
		return fmt.Errorf("create policy on %s: %w", resourceID, err)
	}
	return nil
}

// ListBitstreams lists the bitstreams behind a bundle's bitstreams link.
func (c *Client) ListBitstreams(ctx context.Context, bitstreamsHref string) ([]models.Bitstream, error) {
	if bitstreamsHref == "" {
		return nil, invalidArgument("bundle has no bitstreams link")
	}
	doc, err := c.getDocument(ctx, bitstreamsHref)
	if err != nil {
		return nil, err
	}
	var out []models.Bitstream
	for _, d := range doc.Embedded("bitstreams") {
		out = append(out, models.BitstreamFromDocument(d))
	}
	return out, nil
}

func (c *Client) DeleteBitstream(ctx context.Context, id string) error {
	if id == "" {
		return invalidArgument("bitstream id is empty")
	}
	_, err := c.Request(ctx, connection.NewRequest(http.MethodDelete, constants.EndpointBitstreams+"/"+url.PathEscape(id)))
	return err
}

// BitstreamContent downloads the stored file.
func (c *Client) BitstreamContent(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, invalidArgument("bitstream id is empty")
	}
	req := connection.NewRequest(http.MethodGet, constants.EndpointBitstreams+"/"+url.PathEscape(id)+"/content")
	req.Header.Set("Accept", "*/*")
	resp, err := c.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
