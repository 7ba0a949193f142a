package dspace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

func itemsPageEndpoint(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return constants.EndpointItems + "?" + q.Encode()
}

func itemEndpoint(id string) string {
	return constants.EndpointItems + "/" + url.PathEscape(id)
}

// GetItemsByPage adds the items of one page to result, keyed by the value at
// the dotted path keyBy, and returns how many it added. A key already in
// result is a *DuplicateKeyError.
func (c *Client) GetItemsByPage(ctx context.Context, page, size int, keyBy string, result map[string]models.Document) (int, error) {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	doc, err := c.getDocument(ctx, itemsPageEndpoint(page, size))
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range doc.Embedded("items") {
		key, ok := item.Lookup(keyBy)
		if !ok || key == "" {
			return count, &RequestFailureError{Op: "get items page " + strconv.Itoa(page), Missing: keyBy, Body: item}
		}
		if _, dup := result[key]; dup {
			return count, &DuplicateKeyError{KeyBy: keyBy, Key: key, Page: page}
		}
		result[key] = item
		count++
	}
	return count, nil
}

// GetAllItems fetches pages from zero until one comes back empty.
func (c *Client) GetAllItems(ctx context.Context, keyBy string, pageSize int) (map[string]models.Document, error) {
	result := make(map[string]models.Document)
	total := 0
	for page := 0; ; page++ {
		found, err := c.GetItemsByPage(ctx, page, pageSize, keyBy, result)
		if err != nil {
			return nil, err
		}
		if found == 0 {
			break
		}
		total += found
		c.logger.Debug("fetched items page", "page", page, "found", found)
	}
	c.logger.Info("fetched all items", "total", total)
	return result, nil
}

// GetItem reads one item.
func (c *Client) GetItem(ctx context.Context, id string) (*models.Item, error) {
	if id == "" {
		return nil, invalidArgument("item id is empty")
	}
	doc, err := c.getDocument(ctx, itemEndpoint(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &RequestFailureError{Op: "get item " + id, Missing: "item body"}
	}
	return models.ItemFromDocument(doc)
}

// DeleteItem removes an item by id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return invalidArgument("item id is empty")
	}
	_, err := c.Request(ctx, connection.NewRequest(http.MethodDelete, itemEndpoint(id)))
	return err
}

// PatchItem applies JSON Patch operations to an item.
func (c *Client) PatchItem(ctx context.Context, id string, ops []models.PatchOperation) (models.Document, error) {
	if id == "" {
		return nil, invalidArgument("item id is empty")
	}
	if len(ops) == 0 {
		return nil, invalidArgument("no patch operations for item %s", id)
	}
	return c.sendJSON(ctx, http.MethodPatch, itemEndpoint(id), ops)
}

// PatchMetadata appends every value of meta to the item.
func (c *Client) PatchMetadata(ctx context.Context, id string, meta models.Metadata) (models.Document, error) {
	return c.PatchItem(ctx, id, models.MetadataAddOperations(meta))
}

// Collections returns every collection keyed by uuid.
func (c *Client) Collections(ctx context.Context) (map[string]models.Document, error) {
	doc, err := c.getDocument(ctx, constants.EndpointCollections)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Document)
	for _, col := range doc.Embedded("collections") {
		out[col.String("uuid")] = col
	}
	return out, nil
}

// ServerInfo is what the API root reports about the server.
type ServerInfo struct {
	Name    string
	UIURL   string
	Server  string
	Version *semver.Version
}

// ServerInfo reads the API root and parses the reported DSpace version.
func (c *Client) ServerInfo(ctx context.Context) (ServerInfo, error) {
	doc, err := c.getDocument(ctx, constants.EndpointRoot)
	if err != nil {
		return ServerInfo{}, err
	}
	info := ServerInfo{
		Name:   doc.String("dspaceName"),
		UIURL:  doc.String("dspaceUI"),
		Server: doc.String("dspaceServer"),
	}
	raw := doc.String("dspaceVersion")
	if raw == "" {
		return info, &RequestFailureError{Op: "server info", Missing: "dspaceVersion", Body: doc}
	}
	v, err := semver.NewVersion(strings.TrimSpace(strings.TrimPrefix(raw, "DSpace")))
	if err != nil {
		return info, fmt.Errorf("parse server version %q: %w", raw, err)
	}
	info.Version = v
	return info, nil
}
