// Package ingest builds endpoint catalogs from API specification documents:
// OpenAPI 3 specs and a simpler collection-style JSON format. Ingestion is
// the only writer of the catalog store; every load replaces the snapshot
// wholesale.
package ingest

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/usestring/apimatch-mcp/pkg/fieldtype"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// Document is the collection-style spec format: a flat list of endpoint
// definitions plus API metadata. It exists for APIs that have no OpenAPI
// spec; hand-written collections are validated against the JSON Schema
// derived from these types before conversion.
type Document struct {
	Name        string              `json:"name" jsonschema:"required"`
	Description string              `json:"description,omitempty"`
	Version     string              `json:"version,omitempty"`
	BaseURL     string              `json:"base_url,omitempty"`
	Endpoints   []DocumentEndpoint  `json:"endpoints" jsonschema:"required"`
}

// DocumentEndpoint is one operation in a collection document.
type DocumentEndpoint struct {
	Path        string              `json:"path" jsonschema:"required"`
	Method      string              `json:"method" jsonschema:"required,enum=GET,enum=POST,enum=PUT,enum=PATCH,enum=DELETE"`
	Description string              `json:"description,omitempty"`
	Parameters  []DocumentParameter `json:"parameters,omitempty"`
	Body        *DocumentBody       `json:"body,omitempty"`
}

// DocumentParameter is one declared parameter.
type DocumentParameter struct {
	Name        string `json:"name" jsonschema:"required"`
	Type        string `json:"type,omitempty" jsonschema:"enum=string,enum=integer,enum=number,enum=boolean,enum=array,enum=object"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty" jsonschema:"enum=path,enum=query,enum=header,enum=body"`
}

// DocumentBody describes a request body.
type DocumentBody struct {
	Properties map[string]DocumentProperty `json:"properties" jsonschema:"required"`
	Required   []string                    `json:"required,omitempty"`
}

// DocumentProperty is one request-body field.
type DocumentProperty struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// DocumentSchema reflects the collection document types into a JSON Schema
// used by the validator.
func DocumentSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		// Inline everything so the validator sees one self-contained schema.
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Document{})

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("ingest: marshaling document schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ingest: unmarshaling document schema: %w", err)
	}
	return out, nil
}

// ToCatalog converts a validated document into a catalog. Untyped or
// string-typed fields run through name-based type inference; missing
// required markers are reconciled between the properties and the required
// list.
func (d *Document) ToCatalog() *types.Catalog {
	cat := &types.Catalog{
		Meta: types.APIMeta{
			Name:        d.Name,
			Description: d.Description,
			Version:     d.Version,
			BaseURL:     d.BaseURL,
		},
		Endpoints: make([]types.EndpointDescriptor, 0, len(d.Endpoints)),
	}

	for _, de := range d.Endpoints {
		ep := types.EndpointDescriptor{
			Path:        de.Path,
			Method:      de.Method,
			Description: de.Description,
		}

		for _, dp := range de.Parameters {
			inf := fieldtype.Infer(dp.Name, fieldtype.Hint{Type: dp.Type, Description: dp.Description})
			ep.Parameters = append(ep.Parameters, types.ParameterDescriptor{
				Name:        dp.Name,
				Type:        inf.Type,
				Required:    dp.Required,
				Description: dp.Description,
				Location:    dp.Location,
			})
		}

		if de.Body != nil {
			ep.RequestBody = convertBody(de.Body)
		}

		cat.Endpoints = append(cat.Endpoints, ep)
	}

	return cat
}

func convertBody(db *DocumentBody) *types.RequestBodyDescriptor {
	body := &types.RequestBodyDescriptor{
		Properties: make(map[string]types.BodyProperty, len(db.Properties)),
	}

	requiredSet := make(map[string]bool, len(db.Required))
	for _, name := range db.Required {
		requiredSet[name] = true
	}

	var inlineRequired []string
	for name, prop := range db.Properties {
		inf := fieldtype.Infer(name, fieldtype.Hint{Type: prop.Type, Description: prop.Description})
		required := prop.Required || requiredSet[name]
		body.Properties[name] = types.BodyProperty{
			Type:        inf.Type,
			Description: prop.Description,
			Required:    required,
		}
		if prop.Required && !requiredSet[name] {
			requiredSet[name] = true
			inlineRequired = append(inlineRequired, name)
		}
	}
	slices.Sort(inlineRequired)

	// RequiredFields keeps only names that exist as properties. The declared
	// required list comes first in its given order; inline-required properties
	// follow sorted, so the order does not depend on map iteration.
	for _, name := range slices.Concat(db.Required, inlineRequired) {
		if _, ok := body.Properties[name]; ok {
			body.RequiredFields = append(body.RequiredFields, name)
		}
	}

	return body
}
