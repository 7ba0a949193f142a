// Package contrib holds helpers built on the DSpace client that are not part
// of the client itself.
//
// [github.com/divinity/dspace.go/contrib/testenv] gives tests a client
// configured from the environment for live servers, or one wired to an
// in-process fake with its logs captured.
//
// Packages under contrib are outside the compatibility guarantees of the
// client and may change without a major version bump.
package contrib
