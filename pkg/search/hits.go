package search

import "github.com/divinity/dspace.go/pkg/models"

// Hit is one search result. Value is the projection when fields were
// requested, otherwise the raw Document.
type Hit struct {
	Key      string
	Document models.Document
	Value    any
}

// Hits keeps the order the server returned them in.
type Hits []Hit

// ByKey indexes the hits by Key. Hits without a key are skipped and a later
// hit with the same key replaces an earlier one.
func (h Hits) ByKey() map[string]Hit {
	out := make(map[string]Hit, len(h))
	for _, hit := range h {
		if hit.Key != "" {
			out[hit.Key] = hit
		}
	}
	return out
}

// Values returns Value of every hit in order.
func (h Hits) Values() []any {
	out := make([]any, len(h))
	for i, hit := range h {
		out[i] = hit.Value
	}
	return out
}
