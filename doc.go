// Package dspace is a client for the DSpace 7 REST API.
//
// # Sessions
//
// A [Client] authenticates lazily. Every call goes through [Client.Request],
// which sends the current bearer and anti-forgery tokens from its
// [store.TokenStore], logs in again when the server answers 401 or 403, and
// retries the call exactly once. Tokens found in any response header replace
// the stored ones.
//
// # Items
//
// Build a [models.Item] locally with metadata, files and linked entities, then
// [Client.Submit] creates it with its bitstreams and relationships.
// [Client.Update] replaces an existing item and applies a [Strategy] to its
// files and relationships independently.
//
// # Reading
//
// [Client.GetAllItems] and [Client.GetItemsByPage] fetch pages eagerly,
// [Client.ListItems] walks them lazily, and [Client.Search] runs a
// [search.Search] against the discovery endpoint.
//
// [store.TokenStore]: github.com/divinity/dspace.go/pkg/store.TokenStore
// [models.Item]: github.com/divinity/dspace.go/pkg/models.Item
// [search.Search]: github.com/divinity/dspace.go/pkg/search.Search
package dspace
