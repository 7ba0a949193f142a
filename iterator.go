package dspace

import (
	"context"
	"net/http"
	"strconv"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// ListOption configures ListItems.
type ListOption func(*ItemIterator)

// WithPageSize sets how many items each page request asks for.
func WithPageSize(size int) ListOption {
	return func(it *ItemIterator) {
		if size > 0 {
			it.size = size
		}
	}
}

// WithRequestFunc routes page requests through fn, typically a cache wrapped
// around Client.Request.
func WithRequestFunc(fn connection.RequestFunc) ListOption {
	return func(it *ItemIterator) {
		if fn != nil {
			it.do = fn
		}
	}
}

// ItemIterator walks every item one page at a time. It only moves forward;
// call ListItems again to start over.
//
//	it := client.ListItems()
//	for it.Next(ctx) {
//		item := it.Item()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type ItemIterator struct {
	do   connection.RequestFunc
	size int

	page       int
	totalPages int
	buf        []models.Document
	pos        int

	item *models.Item
	doc  models.Document
	err  error
	done bool
}

// ListItems returns an iterator over all items. Nothing is fetched until Next.
func (c *Client) ListItems(opts ...ListOption) *ItemIterator {
	it := &ItemIterator{
		do:         c.Request,
		size:       constants.DefaultPageSize,
		totalPages: -1,
	}
	if c.pageCache != nil {
		cached := c.pageCache.Wrap(c.Request)
		it.do = func(ctx context.Context, req *connection.Request) (*connection.Response, error) {
			abs := req.Clone()
			abs.URL = c.URL(req.URL)
			return cached(ctx, abs)
		}
	}
	for _, o := range opts {
		o(it)
	}
	return it
}

// Next advances to the next item, fetching a page when the current one is
// used up. It returns false at the end or on error.
func (it *ItemIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	for it.pos >= len(it.buf) {
		if it.totalPages >= 0 && it.page >= it.totalPages {
			it.done = true
			return false
		}
		if !it.fetch(ctx) {
			return false
		}
	}

	doc := it.buf[it.pos]
	it.pos++
	item, err := models.ItemFromDocument(doc)
	if err != nil {
		it.err = err
		return false
	}
	it.item, it.doc = item, doc
	return true
}

func (it *ItemIterator) fetch(ctx context.Context) bool {
	resp, err := it.do(ctx, connection.NewRequest(http.MethodGet, itemsPageEndpoint(it.page, it.size)))
	if err != nil {
		it.err = err
		return false
	}
	doc := document(resp)
	if total, ok := doc.LookupKeys("page", "totalPages"); ok {
		if n, err := strconv.Atoi(total); err == nil {
			it.totalPages = n
		}
	}
	it.buf = doc.Embedded("items")
	it.pos = 0
	it.page++
	if len(it.buf) == 0 {
		it.done = true
		return false
	}
	return true
}

// Item is the current item.
func (it *ItemIterator) Item() *models.Item {
	return it.item
}

// Document is the raw object behind Item.
func (it *ItemIterator) Document() models.Document {
	return it.doc
}

func (it *ItemIterator) Err() error {
	return it.err
}

// Page is the index of the next page to fetch.
func (it *ItemIterator) Page() int {
	return it.page
}
