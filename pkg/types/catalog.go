// Package types defines the shared data model for the apimatch engine:
// the endpoint catalog consumed by the matchers and the match result
// contract returned to callers.
package types

import "strings"

// Parameter locations within an HTTP request.
const (
	LocationPath   = "path"
	LocationQuery  = "query"
	LocationHeader = "header"
	LocationBody   = "body"
)

// APIMeta identifies the upstream API a catalog was ingested from.
type APIMeta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
}

// ParameterDescriptor describes one declared parameter of an endpoint.
type ParameterDescriptor struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string|integer|number|boolean|array|object
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"` // path|query|header|body; empty = inferred
}

// BodyProperty describes one field of a request body.
type BodyProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// RequestBodyDescriptor describes the JSON request body of a mutating endpoint.
// Every name in RequiredFields must be a key of Properties.
type RequestBodyDescriptor struct {
	Properties     map[string]BodyProperty `json:"properties"`
	RequiredFields []string                `json:"required_fields,omitempty"`
}

// EndpointDescriptor is one operation in the catalog. The (Path, Method)
// pair is unique within a catalog and identifies the endpoint.
type EndpointDescriptor struct {
	Path        string                 `json:"path"` // may contain {name} placeholders
	Method      string                 `json:"method"`
	Description string                 `json:"description,omitempty"`
	Parameters  []ParameterDescriptor  `json:"parameters,omitempty"`
	RequestBody *RequestBodyDescriptor `json:"request_body,omitempty"`
}

// IsMutating reports whether the endpoint method carries a request body.
func (e *EndpointDescriptor) IsMutating() bool {
	switch strings.ToUpper(e.Method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// HasPathPlaceholder reports whether {name} appears in the endpoint path.
func (e *EndpointDescriptor) HasPathPlaceholder(name string) bool {
	return strings.Contains(e.Path, "{"+name+"}")
}

// Catalog is an immutable set of endpoint descriptors plus API metadata.
// A new catalog wholesale-replaces the old one; it is never mutated after
// construction.
type Catalog struct {
	Meta      APIMeta              `json:"meta"`
	Endpoints []EndpointDescriptor `json:"endpoints"`
}

// Find returns the descriptor with the given path and method, or nil.
func (c *Catalog) Find(path, method string) *EndpointDescriptor {
	if c == nil {
		return nil
	}
	method = strings.ToUpper(method)
	for i := range c.Endpoints {
		if c.Endpoints[i].Path == path && strings.ToUpper(c.Endpoints[i].Method) == method {
			return &c.Endpoints[i]
		}
	}
	return nil
}

// Len returns the number of endpoints in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Endpoints)
}
