// Package fakedspace provides an in-process fake of the DSpace 7 REST API for
// tests. It keeps items, bundles, bitstreams and relationships in memory and
// speaks enough of the session protocol to exercise re-authentication.
//
// Sessions follow the real server: every response carries a fresh
// DSPACE-XSRF-TOKEN when the request had none, login needs that token, and a
// successful login returns "Authorization: Bearer <jwt>". Expire drops the
// current bearer so the next call gets 401.
//
// Failures can be injected per route with Fail, and Calls counts requests by
// method and path.
package fakedspace

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Version is reported by the API root.
const Version = "DSpace 7.6.1"

// Failure makes the next Times requests matching Method and Path answer Status.
type Failure struct {
	Method string
	// Path is matched against the request path below the API root, e.g. "/api/core/items".
	Path   string
	Status int
	Times  int
	Body   string
}

type item struct {
	id         string
	handle     string
	collection string
	doc        map[string]any
}

type bundle struct {
	id     string
	name   string
	itemID string
}

type bitstream struct {
	id         string
	name       string
	bundleID   string
	mimeType   string
	content    []byte
	properties string
}

type relationship struct {
	id     int
	typeID int
	left   string
	right  string
}

// RelationshipType is a relationship type known to the fake.
type RelationshipType struct {
	ID            int
	LeftwardType  string
	RightwardType string
	LeftType      string
	RightType     string
}

// Policy is a resource policy posted to the fake.
type Policy struct {
	Resource string
	Group    string
	EPerson  string
	Body     map[string]any
}

// Server is a fake DSpace backend.
type Server struct {
	Username string
	Password string

	mu            sync.Mutex
	srv           *httptest.Server
	router        chi.Router
	secret        []byte
	bearer        string
	csrf          string
	seq           int
	items         []*item
	bundles       []*bundle
	bitstreams    []*bitstream
	relationships []*relationship
	relTypes      []RelationshipType
	policies      []Policy
	failures      []*Failure
	calls         map[string]int
	uriLists      []string
	pageSize      int
}

// NewServer starts a fake accepting username and password.
func NewServer(username, password string) *Server {
	s := &Server{
		Username: username,
		Password: password,
		secret:   []byte(uuid.NewString()),
		calls:    make(map[string]int),
	}
	s.router = s.routes()
	s.srv = httptest.NewServer(s.router)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// APIRoot is the root a client should be created with.
func (s *Server) APIRoot() string {
	return s.srv.URL + "/server"
}

// Expire invalidates the current bearer token.
func (s *Server) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = ""
}

// RotateCSRF makes the server expect a new anti-forgery token, which it hands
// out on the next response.
func (s *Server) RotateCSRF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrf = ""
}

// Fail injects f.
func (s *Server) Fail(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, &f)
}

// Calls counts requests for "METHOD /api/..." so far.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// TotalCalls counts every request.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// ResetCalls zeroes the counters.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// AddItem stores an item directly and returns its id.
func (s *Server) AddItem(name, collection string, metadata map[string][]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	md := map[string]any{}
	for k, vs := range metadata {
		var values []any
		for _, v := range vs {
			values = append(values, map[string]any{"value": v, "language": nil, "authority": nil, "confidence": -1})
		}
		md[k] = values
	}
	return s.insertItem(collection, map[string]any{"name": name, "metadata": md}).id
}

// AddRelationshipType registers rt.
func (s *Server) AddRelationshipType(rt RelationshipType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relTypes = append(s.relTypes, rt)
}

// AddRelationship stores a relationship directly and returns its id.
func (s *Server) AddRelationship(typeID int, left, right string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertRelationship(typeID, left, right).id
}

// AddBitstream stores a file in the item's bundle, creating the bundle.
func (s *Server) AddBitstream(itemID, bundleName, name string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b *bundle
	for _, candidate := range s.bundles {
		if candidate.itemID == itemID && candidate.name == bundleName {
			b = candidate
		}
	}
	if b == nil {
		b = &bundle{id: uuid.NewString(), name: bundleName, itemID: itemID}
		s.bundles = append(s.bundles, b)
	}
	bs := &bitstream{id: uuid.NewString(), name: name, bundleID: b.id, content: content}
	s.bitstreams = append(s.bitstreams, bs)
	return bs.id
}

// SetItemsPageSize caps the page size of item listings.
func (s *Server) SetItemsPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

// Relationships returns "typeID_left_right" for every stored relationship.
func (s *Server) Relationships() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.relationships {
		out = append(out, fmt.Sprintf("%d_%s_%s", r.typeID, r.left, r.right))
	}
	return out
}

// Bitstreams returns the names of the files stored for an item.
func (s *Server) Bitstreams(itemID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, b := range s.bundles {
		if b.itemID != itemID {
			continue
		}
		for _, bs := range s.bitstreams {
			if bs.bundleID == b.id {
				out = append(out, bs.name)
			}
		}
	}
	return out
}

// BitstreamProperties returns the properties field sent with an upload.
func (s *Server) BitstreamProperties(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bs := range s.bitstreams {
		if bs.id == id {
			return bs.properties
		}
	}
	return ""
}

// Item returns the stored document of an item.
func (s *Server) Item(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it := s.findItem(id); it != nil {
		return it.doc, true
	}
	return nil, false
}

// ItemCount is the number of stored items.
func (s *Server) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Policies returns every posted resource policy.
func (s *Server) Policies() []Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Policy(nil), s.policies...)
}

// URILists returns the bodies of every relationship creation.
func (s *Server) URILists() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uriLists...)
}

func (s *Server) newBearer() string {
	claims := jwt.RegisteredClaims{
		Subject:   s.Username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) takeFailure(method, path string) *Failure {
	for _, f := range s.failures {
		if f.Times > 0 && strings.EqualFold(f.Method, method) && f.Path == path {
			f.Times--
			return f
		}
	}
	return nil
}

func (s *Server) nextHandle() string {
	s.seq++
	return fmt.Sprintf("123456789/%d", s.seq)
}

func (s *Server) findItem(id string) *item {
	for _, it := range s.items {
		if it.id == id {
			return it
		}
	}
	return nil
}

func (s *Server) insertItem(collection string, doc map[string]any) *item {
	it := &item{id: uuid.NewString(), handle: s.nextHandle(), collection: collection}
	it.doc = s.normalizeItem(it, doc)
	s.items = append(s.items, it)
	return it
}

func (s *Server) insertRelationship(typeID int, left, right string) *relationship {
	s.seq++
	r := &relationship{id: s.seq, typeID: typeID, left: left, right: right}
	s.relationships = append(s.relationships, r)
	return r
}
