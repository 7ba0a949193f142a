package constants

import "time"

// Session headers and cookies exchanged with the DSpace REST API.
const (
	// CSRFResponseHeader carries a fresh anti-forgery token on any response.
	CSRFResponseHeader = "DSPACE-XSRF-TOKEN"
	// CSRFRequestHeader echoes the current anti-forgery token back to the server.
	CSRFRequestHeader = "X-XSRF-TOKEN"
	// CSRFCookie is the cookie the server pairs with CSRFRequestHeader.
	CSRFCookie = "DSPACE-XSRF-COOKIE"
	// AuthorizationHeader carries the bearer token in both directions.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeHAL       = "application/hal+json"
	ContentTypeURIList   = "text/uri-list"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

const (
	// DefaultConnectTimeout bounds dialing the server.
	DefaultConnectTimeout = 10 * time.Second
	// DefaultHTTPTimeout bounds a whole exchange, body included.
	DefaultHTTPTimeout = 30 * time.Second
)

const (
	// DefaultBundleName is the bundle files are uploaded into.
	DefaultBundleName = "ORIGINAL"
	// DefaultPageSize is used by paginated fetches when the caller passes zero.
	DefaultPageSize = 100
	// DefaultLanguage is attached to metadata values added without one.
	DefaultLanguage = "en"
	// DefaultConfidence marks metadata values without an authority confidence.
	DefaultConfidence = -1
	// DefaultFilterOperator applies to search filters added without an operator.
	DefaultFilterOperator = "equals"
	// EntityTypeKey is the metadata field holding an item's entity type.
	EntityTypeKey = "dspace.entity.type"
	// MetaFieldPrefix marks a projection field resolved against item metadata.
	MetaFieldPrefix = "meta:"
	// MetaJoinSeparator joins multiple metadata values in a projection.
	MetaJoinSeparator = "; "
)

// REST endpoints, relative to the API root.
const (
	EndpointRoot              = "/api"
	EndpointLogin             = "/api/authn/login"
	EndpointLogout            = "/api/authn/logout"
	EndpointStatus            = "/api/authn/status"
	EndpointItems             = "/api/core/items"
	EndpointCollections       = "/api/core/collections"
	EndpointBitstreams        = "/api/core/bitstreams"
	EndpointRelationships     = "/api/core/relationships"
	EndpointRelationshipTypes = "/api/core/relationshiptypes"
	EndpointResourcePolicies  = "/api/authz/resourcepolicies"
	EndpointDiscoverSearch    = "/api/discover/search/objects"
)

var (
	HTTPScheme       = "http"
	HTTPSecureScheme = "https"
	S3Scheme         = "s3"
	GCSScheme        = "gs"
)
