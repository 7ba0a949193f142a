package fakedspace

import (
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/constants"
)

var jsonCodec = codec.NewJSON()

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.counter, s.csrfMiddleware, s.failureMiddleware)

	r.Route("/server/api", func(r chi.Router) {
		r.Get("/", s.root)
		r.Get("/authn/status", s.status)
		r.Post("/authn/login", s.login)
		r.Post("/authn/logout", s.logout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/core/collections", s.collections)
			r.Get("/core/items", s.listItems)
			r.Post("/core/items", s.createItem)
			r.Get("/core/items/{id}", s.getItem)
			r.Put("/core/items/{id}", s.replaceItem)
			r.Patch("/core/items/{id}", s.patchItem)
			r.Delete("/core/items/{id}", s.deleteItem)
			r.Get("/core/items/{id}/bundles", s.listBundles)
			r.Post("/core/items/{id}/bundles", s.createBundle)
			r.Get("/core/items/{id}/relationships", s.itemRelationships)
			r.Get("/core/bundles/{id}/bitstreams", s.listBitstreams)
			r.Post("/core/bundles/{id}/bitstreams", s.uploadBitstream)
			r.Delete("/core/bitstreams/{id}", s.deleteBitstream)
			r.Get("/core/bitstreams/{id}/content", s.bitstreamContent)
			r.Post("/core/relationships", s.createRelationship)
			r.Delete("/core/relationships/{id}", s.deleteRelationship)
			r.Get("/core/relationshiptypes", s.relationshipTypes)
			r.Post("/authz/resourcepolicies", s.createPolicy)
			r.Get("/discover/search/objects", s.search)
		})
	})
	return r
}

func apiPath(r *http.Request) string {
	p := strings.TrimPrefix(r.URL.Path, "/server")
	if p != "/api" {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func (s *Server) counter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+apiPath(r)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// csrfMiddleware hands out the current token to requests that lack it and
// rejects state-changing requests without it.
func (s *Server) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		if s.csrf == "" {
			s.csrf = uuid.NewString()
		}
		csrf := s.csrf
		s.mu.Unlock()

		sent := r.Header.Get(constants.CSRFRequestHeader)
		if sent != csrf {
			w.Header().Set(constants.CSRFResponseHeader, csrf)
			if r.Method != http.MethodGet {
				writeJSON(w, http.StatusForbidden, errorBody("Forbidden", "Access is denied. Invalid CSRF token."))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.takeFailure(r.Method, apiPath(r))
		s.mu.Unlock()
		if f != nil {
			if f.Body != "" {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(f.Status)
				_, _ = io.WriteString(w, f.Body)
				return
			}
			writeJSON(w, f.Status, errorBody(http.StatusText(f.Status), "injected failure"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		bearer := s.bearer
		s.mu.Unlock()

		token, ok := strings.CutPrefix(r.Header.Get(constants.AuthorizationHeader), constants.BearerPrefix+" ")
		if !ok || bearer == "" || token != bearer {
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized", "Authentication is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/hal+json;charset=UTF-8")
	w.WriteHeader(status)
	_ = jsonCodec.NewEncoder(w).Encode(v)
}

func errorBody(errText, message string) map[string]any {
	return map[string]any{"error": errText, "message": message}
}

func readJSON(r *http.Request, dst any) error {
	return jsonCodec.NewDecoder(r.Body).Decode(dst)
}

func link(href string) map[string]any {
	return map[string]any{"href": href}
}

func pageBlock(number, size, total int) map[string]any {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return map[string]any{"number": number, "size": size, "totalElements": total, "totalPages": pages}
}

func paging(r *http.Request, def int) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = def
	}
	return page, size
}

func window[T any](all []T, page, size int) []T {
	start := page * size
	if start >= len(all) || start < 0 {
		return nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"dspaceName":    "Fake DSpace",
		"dspaceUI":      "http://localhost:4000",
		"dspaceServer":  s.APIRoot(),
		"dspaceVersion": Version,
		"type":          "root",
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	bearer := s.bearer
	s.mu.Unlock()
	token, _ := strings.CutPrefix(r.Header.Get(constants.AuthorizationHeader), constants.BearerPrefix+" ")
	authenticated := bearer != "" && token == bearer
	body := map[string]any{"okay": true, "authenticated": authenticated, "type": "status"}
	if authenticated {
		body["_links"] = map[string]any{"eperson": link(s.APIRoot() + "/api/eperson/epersons/me")}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", err.Error()))
		return
	}
	if r.PostForm.Get("user") != s.Username || r.PostForm.Get("password") != s.Password {
		writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized", "Authentication failed"))
		return
	}
	s.mu.Lock()
	s.bearer = s.newBearer()
	s.csrf = uuid.NewString()
	bearer, csrf := s.bearer, s.csrf
	s.mu.Unlock()

	w.Header().Set(constants.AuthorizationHeader, constants.BearerPrefix+" "+bearer)
	w.Header().Set(constants.CSRFResponseHeader, csrf)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.bearer = ""
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) collections(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	seen := map[string]bool{}
	var cols []any
	for _, it := range s.items {
		if it.collection != "" && !seen[it.collection] {
			seen[it.collection] = true
			cols = append(cols, map[string]any{"id": it.collection, "uuid": it.collection, "type": "collection"})
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"_embedded": map[string]any{"collections": cols}})
}

// normalizeItem fills the server-owned fields of an item document.
func (s *Server) normalizeItem(it *item, doc map[string]any) map[string]any {
	out := map[string]any{
		"inArchive":    true,
		"discoverable": true,
		"withdrawn":    false,
		"metadata":     map[string]any{},
	}
	for k, v := range doc {
		out[k] = v
	}
	out["id"] = it.id
	out["uuid"] = it.id
	out["handle"] = it.handle
	out["type"] = "item"
	out["_links"] = map[string]any{
		"self":          link(s.APIRoot() + "/api/core/items/" + it.id),
		"bundles":       link(s.APIRoot() + "/api/core/items/" + it.id + "/bundles"),
		"relationships": link(s.APIRoot() + "/api/core/items/" + it.id + "/relationships"),
	}
	if md, ok := out["metadata"].(map[string]any); ok {
		if values, ok := md[constants.EntityTypeKey].([]any); ok && len(values) > 0 {
			if first, ok := values[0].(map[string]any); ok {
				out["entityType"] = first["value"]
			}
		}
	}
	return out
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, size := paging(r, 20)
	if s.pageSize > 0 && size > s.pageSize {
		size = s.pageSize
	}
	var docs []any
	for _, it := range window(s.items, page, size) {
		docs = append(docs, it.doc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_embedded": map[string]any{"items": docs},
		"page":      pageBlock(page, size, len(s.items)),
	})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("owningCollection")
	if collection == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", "owningCollection is required"))
		return
	}
	var doc map[string]any
	if err := readJSON(r, &doc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", err.Error()))
		return
	}
	s.mu.Lock()
	it := s.insertItem(collection, doc)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, it.doc)
}

func (s *Server) withItem(w http.ResponseWriter, r *http.Request, fn func(it *item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.findItem(chi.URLParam(r, "id"))
	if it == nil {
		writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no item "+chi.URLParam(r, "id")))
		return
	}
	fn(it)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(it *item) { writeJSON(w, http.StatusOK, it.doc) })
}

func (s *Server) replaceItem(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := readJSON(r, &doc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", err.Error()))
		return
	}
	s.withItem(w, r, func(it *item) {
		it.doc = s.normalizeItem(it, doc)
		writeJSON(w, http.StatusOK, it.doc)
	})
}

func (s *Server) patchItem(w http.ResponseWriter, r *http.Request) {
	var ops []struct {
		Op    string         `json:"op"`
		Path  string         `json:"path"`
		Value map[string]any `json:"value"`
	}
	if err := readJSON(r, &ops); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", err.Error()))
		return
	}
	s.withItem(w, r, func(it *item) {
		md, _ := it.doc["metadata"].(map[string]any)
		if md == nil {
			md = map[string]any{}
		}
		for _, op := range ops {
			rest, ok := strings.CutPrefix(op.Path, "/metadata/")
			if !ok {
				writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "unsupported path "+op.Path))
				return
			}
			key, index, _ := strings.Cut(rest, "/")
			values, _ := md[key].([]any)
			switch op.Op {
			case "add":
				md[key] = append(values, op.Value)
			case "remove":
				if index == "" {
					delete(md, key)
					continue
				}
				n, err := strconv.Atoi(index)
				if err != nil || n < 0 || n >= len(values) {
					writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "bad index "+index))
					return
				}
				md[key] = append(values[:n:n], values[n+1:]...)
			default:
				writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "unsupported op "+op.Op))
				return
			}
		}
		it.doc["metadata"] = md
		it.doc = s.normalizeItem(it, it.doc)
		writeJSON(w, http.StatusOK, it.doc)
	})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(it *item) {
		for i, candidate := range s.items {
			if candidate == it {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) bundleDoc(b *bundle) map[string]any {
	base := s.APIRoot() + "/api/core/bundles/" + b.id
	return map[string]any{
		"id": b.id, "uuid": b.id, "name": b.name, "type": "bundle", "metadata": map[string]any{},
		"_links": map[string]any{
			"self":             link(base),
			"bitstreams":       link(base + "/bitstreams"),
			"primaryBitstream": link(base + "/primaryBitstream"),
		},
	}
}

func (s *Server) listBundles(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(it *item) {
		var docs []any
		for _, b := range s.bundles {
			if b.itemID == it.id {
				docs = append(docs, s.bundleDoc(b))
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"_embedded": map[string]any{"bundles": docs}})
	})
}

func (s *Server) createBundle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &body); err != nil || body.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "bundle name is required"))
		return
	}
	s.withItem(w, r, func(it *item) {
		b := &bundle{id: uuid.NewString(), name: body.Name, itemID: it.id}
		s.bundles = append(s.bundles, b)
		writeJSON(w, http.StatusCreated, s.bundleDoc(b))
	})
}

func (s *Server) findBundle(id string) *bundle {
	for _, b := range s.bundles {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (s *Server) bitstreamDoc(bs *bitstream) map[string]any {
	base := s.APIRoot() + "/api/core/bitstreams/" + bs.id
	return map[string]any{
		"id": bs.id, "uuid": bs.id, "name": bs.name, "type": "bitstream",
		"sizeBytes": len(bs.content),
		"checkSum":  map[string]any{"checkSumAlgorithm": "MD5", "value": fmt.Sprintf("%x", md5.Sum(bs.content))},
		"_links": map[string]any{
			"self":    link(base),
			"content": link(base + "/content"),
		},
	}
}

func (s *Server) listBitstreams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.findBundle(chi.URLParam(r, "id"))
	if b == nil {
		writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no bundle"))
		return
	}
	var docs []any
	for _, bs := range s.bitstreams {
		if bs.bundleID == b.id {
			docs = append(docs, s.bitstreamDoc(bs))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"_embedded": map[string]any{"bitstreams": docs}})
}

func (s *Server) uploadBitstream(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", err.Error()))
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", "file part is required"))
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.findBundle(chi.URLParam(r, "id"))
	if b == nil {
		writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no bundle"))
		return
	}
	bs := &bitstream{
		id:         uuid.NewString(),
		name:       header.Filename,
		bundleID:   b.id,
		mimeType:   header.Header.Get("Content-Type"),
		content:    content,
		properties: r.FormValue("properties"),
	}
	s.bitstreams = append(s.bitstreams, bs)
	writeJSON(w, http.StatusCreated, s.bitstreamDoc(bs))
}

func (s *Server) deleteBitstream(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i, bs := range s.bitstreams {
		if bs.id == id {
			s.bitstreams = append(s.bitstreams[:i], s.bitstreams[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no bitstream "+id))
}

func (s *Server) bitstreamContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for _, bs := range s.bitstreams {
		if bs.id == id {
			ct := bs.mimeType
			if ct == "" {
				ct = "application/octet-stream"
			}
			w.Header().Set("Content-Type", ct)
			_, _ = w.Write(bs.content)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no bitstream "+id))
}

func (s *Server) relationshipDoc(rel *relationship) map[string]any {
	root := s.APIRoot() + "/api/core/"
	return map[string]any{
		"id": rel.id, "type": "relationship", "leftPlace": 0, "rightPlace": 0,
		"leftwardValue": nil, "rightwardValue": nil,
		"_links": map[string]any{
			"self":             link(root + "relationships/" + strconv.Itoa(rel.id)),
			"leftItem":         link(root + "items/" + rel.left),
			"rightItem":        link(root + "items/" + rel.right),
			"relationshipType": link(root + "relationshiptypes/" + strconv.Itoa(rel.typeID)),
		},
	}
}

func (s *Server) itemRelationships(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(it *item) {
		var docs []any
		for _, rel := range s.relationships {
			if rel.left == it.id || rel.right == it.id {
				docs = append(docs, s.relationshipDoc(rel))
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"_embedded": map[string]any{"relationships": docs}})
	})
}

func (s *Server) createRelationship(w http.ResponseWriter, r *http.Request) {
	typeID, err := strconv.Atoi(r.URL.Query().Get("relationshipType"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", "relationshipType is required"))
		return
	}
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, constants.ContentTypeURIList) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody("Unsupported Media Type", ct))
		return
	}
	raw, _ := io.ReadAll(r.Body)
	uris := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(uris) != 2 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "expected two item uris"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uriLists = append(s.uriLists, string(raw))
	ids := make([]string, 2)
	for i, u := range uris {
		u = strings.TrimSpace(u)
		if !strings.HasPrefix(u, s.APIRoot()+"/api/core/items/") {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", "not an item uri: "+u))
			return
		}
		ids[i] = u[strings.LastIndex(u, "/")+1:]
	}
	rel := s.insertRelationship(typeID, ids[0], ids[1])
	writeJSON(w, http.StatusCreated, s.relationshipDoc(rel))
}

func (s *Server) deleteRelationship(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	for i, rel := range s.relationships {
		if rel.id == id {
			s.relationships = append(s.relationships[:i], s.relationships[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("Not Found", "no relationship"))
}

func (s *Server) relationshipTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, size := paging(r, 20)
	embeds := r.URL.Query()["embed"]
	embed := func(name string) bool {
		for _, e := range embeds {
			if e == name {
				return true
			}
		}
		return false
	}

	var docs []any
	for _, rt := range window(s.relTypes, page, size) {
		doc := map[string]any{
			"id": rt.ID, "type": "relationshiptype",
			"leftwardType": rt.LeftwardType, "rightwardType": rt.RightwardType,
		}
		embedded := map[string]any{}
		if embed("leftType") {
			embedded["leftType"] = map[string]any{"label": rt.LeftType, "type": "entitytype"}
		}
		if embed("rightType") {
			embedded["rightType"] = map[string]any{"label": rt.RightType, "type": "entitytype"}
		}
		if len(embedded) > 0 {
			doc["_embedded"] = embedded
		}
		docs = append(docs, doc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_embedded": map[string]any{"relationshiptypes": docs},
		"page":      pageBlock(page, size, len(s.relTypes)),
	})
}

func (s *Server) createPolicy(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := readJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("Unprocessable Entity", err.Error()))
		return
	}
	q := r.URL.Query()
	p := Policy{Resource: q.Get("resource"), Group: q.Get("group"), EPerson: q.Get("eperson"), Body: body}
	if p.Resource == "" || (p.Group == "") == (p.EPerson == "") {
		writeJSON(w, http.StatusBadRequest, errorBody("Bad Request", "resource and exactly one of group or eperson are required"))
		return
	}
	s.mu.Lock()
	s.policies = append(s.policies, p)
	body["id"] = len(s.policies)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := r.URL.Query()
	page, size := paging(r, 20)
	query := strings.ToLower(q.Get("query"))
	scope := q.Get("scope")

	type filter struct{ key, value, op string }
	var filters []filter
	for key, values := range q {
		if !strings.HasPrefix(key, "f.") {
			continue
		}
		for _, v := range values {
			value, op, _ := strings.Cut(v, ",")
			filters = append(filters, filter{strings.TrimPrefix(key, "f."), value, op})
		}
	}

	var matched []*item
	for _, it := range s.items {
		if scope != "" && it.collection != scope {
			continue
		}
		name, _ := it.doc["name"].(string)
		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		ok := true
		for _, f := range filters {
			got := ""
			if f.key == "entityType" {
				got, _ = it.doc["entityType"].(string)
			}
			switch f.op {
			case "notequals":
				ok = ok && got != f.value
			case "contains":
				ok = ok && strings.Contains(got, f.value)
			default:
				ok = ok && got == f.value
			}
		}
		if ok {
			matched = append(matched, it)
		}
	}

	if sortParam := q.Get("sort"); strings.HasPrefix(sortParam, "dc.title") {
		desc := strings.HasSuffix(sortParam, ",DESC")
		sort.SliceStable(matched, func(i, j int) bool {
			a, _ := matched[i].doc["name"].(string)
			b, _ := matched[j].doc["name"].(string)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	var objects []any
	for _, it := range window(matched, page, size) {
		objects = append(objects, map[string]any{
			"type":          "discover",
			"hitHighlights": nil,
			"_embedded":     map[string]any{"indexableObject": it.doc},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type": "discover",
		"_embedded": map[string]any{
			"searchResult": map[string]any{
				"page":      pageBlock(page, size, len(matched)),
				"_embedded": map[string]any{"objects": objects},
			},
		},
	})
}
