package dspace

import (
	"context"
	"fmt"

	"github.com/divinity/dspace.go/pkg/search"
)

// Search runs s once and records the server's pagination on s, so the caller
// can continue with s.NextPage. Each hit is keyed by the dotted path keyBy
// when it is not empty. Without projections a hit's Value is its raw object.
func (c *Client) Search(ctx context.Context, s *search.Search, keyBy string) (search.Hits, error) {
	if err := s.Validate(); err != nil {
		return nil, invalidArgument("search: %v", err)
	}

	doc, err := c.getDocument(ctx, s.Endpoint())
	if err != nil {
		return nil, err
	}

	result, ok := doc.Object("_embedded", "searchResult")
	if !ok {
		return nil, &RequestFailureError{Op: "search", Missing: "_embedded.searchResult", Body: doc}
	}
	if page, ok := result.Object("page"); ok {
		var info search.PageInfo
		if err := page.Decode(&info); err != nil {
			return nil, fmt.Errorf("search: decode page: %w", err)
		}
		s.SetPageInfo(info)
	}

	objects := result.Array("_embedded", "objects")
	hits := make(search.Hits, 0, len(objects))
	for _, obj := range objects {
		indexable, ok := obj.Object("_embedded", "indexableObject")
		if !ok {
			continue
		}
		hit := search.Hit{Document: indexable, Value: indexable}
		if keyBy != "" {
			hit.Key, _ = indexable.Lookup(keyBy)
		}
		if len(s.Projections) > 0 {
			hit.Value = s.Project(indexable)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
