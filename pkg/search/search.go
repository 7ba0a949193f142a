// Package search builds requests against the discovery endpoint and projects
// fields out of the hits it returns.
package search

import (
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type Filter struct {
	Key      string
	Value    string
	Operator string
}

func (f Filter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Key, validation.Required),
		validation.Field(&f.Value, validation.Required),
		validation.Field(&f.Operator, validation.Required),
	)
}

// PageInfo is the pagination block of the last response.
type PageInfo struct {
	Number     int `json:"number"`
	TotalPages int `json:"totalPages"`
	Size       int `json:"size"`
	Total      int `json:"totalElements"`
}

// Search is a discovery query. The zero value searches everything.
type Search struct {
	Scope         string
	Query         string
	Filters       []Filter
	SortField     string
	SortDirection Direction
	PageSize      int
	Page          int
	Projections   []Projection

	pageInfo *PageInfo
}

func New() *Search {
	return &Search{}
}

// AddFilter appends a filter. The operator defaults to "equals".
func (s *Search) AddFilter(key, value string, operator ...string) *Search {
	op := constants.DefaultFilterOperator
	if len(operator) > 0 && operator[0] != "" {
		op = operator[0]
	}
	s.Filters = append(s.Filters, Filter{Key: key, Value: value, Operator: op})
	return s
}

func (s *Search) SortBy(field string, dir Direction) *Search {
	s.SortField = field
	s.SortDirection = dir
	return s
}

// Pluck requests field in the projection, optionally under alias.
// Fields prefixed with "meta:" are read from the hit's metadata.
func (s *Search) Pluck(field string, alias ...string) *Search {
	p := Projection{Field: ParseField(field)}
	if len(alias) > 0 {
		p.Alias = alias[0]
	}
	s.Projections = append(s.Projections, p)
	return s
}

// Endpoint returns the request path with its query string.
func (s *Search) Endpoint() string {
	q := url.Values{}
	if s.Scope != "" {
		q.Set("scope", s.Scope)
	}
	if s.SortField != "" {
		dir := s.SortDirection
		if dir == "" {
			dir = Asc
		}
		q.Set("sort", s.SortField+","+string(dir))
	}
	for _, f := range s.Filters {
		q.Add(f.Key, f.Value+","+f.Operator)
	}
	if s.PageSize > 0 {
		q.Set("size", strconv.Itoa(s.PageSize))
	}
	if query := strings.TrimSpace(s.Query); query != "" {
		q.Set("query", query)
	}
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page))
	}

	endpoint := constants.EndpointDiscoverSearch
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

func (s *Search) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.PageSize, validation.Min(0)),
		validation.Field(&s.Page, validation.Min(0)),
		validation.Field(&s.SortDirection, validation.In(Asc, Desc)),
		validation.Field(&s.Filters),
	)
}

// SetPageInfo records the pagination block of the last response.
func (s *Search) SetPageInfo(info PageInfo) {
	s.pageInfo = &info
}

// PageInfo returns the last recorded pagination block, if any.
func (s *Search) PageInfo() (PageInfo, bool) {
	if s.pageInfo == nil {
		return PageInfo{}, false
	}
	return *s.pageInfo, true
}

// HasMorePages reports whether the server has a page after the last one seen.
// Before any response it reports true.
func (s *Search) HasMorePages() bool {
	if s.pageInfo == nil {
		return true
	}
	return s.pageInfo.Number+1 < s.pageInfo.TotalPages
}

// NextPage moves the cursor one page past the last one seen.
func (s *Search) NextPage() bool {
	if !s.HasMorePages() {
		return false
	}
	if s.pageInfo != nil {
		s.Page = s.pageInfo.Number + 1
	}
	return true
}

// Project applies the requested projections to doc. A single projection
// yields the bare string; several yield a map keyed by alias. Missing fields
// are reported as "".
func (s *Search) Project(doc models.Document) any {
	if len(s.Projections) == 1 {
		v, _ := s.Projections[0].Field.Resolve(doc)
		return v
	}
	out := make(map[string]string, len(s.Projections))
	for _, p := range s.Projections {
		v, _ := p.Field.Resolve(doc)
		out[p.Key()] = v
	}
	return out
}
