package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/usestring/apimatch-mcp/pkg/fieldtype"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// ParseOpenAPI parses an OpenAPI 3 document (JSON or YAML) into a catalog.
// Only the pieces the matching engine cares about are kept: paths, methods,
// descriptions, parameters and JSON request-body properties.
func ParseOpenAPI(data []byte) (*types.Catalog, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("ingest: parsing OpenAPI spec: %w", err)
	}

	cat := &types.Catalog{}
	if doc.Info != nil {
		cat.Meta.Name = doc.Info.Title
		cat.Meta.Description = doc.Info.Description
		cat.Meta.Version = doc.Info.Version
	}
	if len(doc.Servers) > 0 {
		cat.Meta.BaseURL = doc.Servers[0].URL
	}

	if doc.Paths == nil {
		return cat, nil
	}

	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			ep := parseOperation(path, strings.ToUpper(method), pathItem, op)
			cat.Endpoints = append(cat.Endpoints, ep)
		}
	}

	slog.Debug("parsed OpenAPI spec",
		"api", cat.Meta.Name,
		"endpoints", len(cat.Endpoints))

	return cat, nil
}

func parseOperation(path, method string, pathItem *openapi3.PathItem, op *openapi3.Operation) types.EndpointDescriptor {
	ep := types.EndpointDescriptor{
		Path:        path,
		Method:      method,
		Description: operationDescription(op),
	}

	// Path-level parameters apply to every operation under the path.
	for _, paramRef := range pathItem.Parameters {
		if paramRef.Value != nil {
			ep.Parameters = append(ep.Parameters, parseParameter(paramRef.Value))
		}
	}
	for _, paramRef := range op.Parameters {
		if paramRef.Value != nil {
			ep.Parameters = append(ep.Parameters, parseParameter(paramRef.Value))
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		ep.RequestBody = parseRequestBody(op.RequestBody.Value)
	}

	return ep
}

func operationDescription(op *openapi3.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return op.Description
}

func parseParameter(param *openapi3.Parameter) types.ParameterDescriptor {
	declared := ""
	description := param.Description
	if param.Schema != nil && param.Schema.Value != nil {
		declared = schemaType(param.Schema.Value)
		if description == "" {
			description = param.Schema.Value.Description
		}
	}

	inf := fieldtype.Infer(param.Name, fieldtype.Hint{Type: declared, Description: description})

	return types.ParameterDescriptor{
		Name:        param.Name,
		Type:        inf.Type,
		Required:    param.Required,
		Description: description,
		Location:    mapLocation(param.In),
	}
}

// parseRequestBody flattens the first JSON media type's object schema into
// body properties. Non-object bodies are skipped; the engine only completes
// named fields.
func parseRequestBody(body *openapi3.RequestBody) *types.RequestBodyDescriptor {
	mediaType := body.Content.Get("application/json")
	if mediaType == nil {
		for _, mt := range body.Content {
			mediaType = mt
			break
		}
	}
	if mediaType == nil || mediaType.Schema == nil || mediaType.Schema.Value == nil {
		return nil
	}

	schema := mediaType.Schema.Value
	if schema.Type != nil && !schema.Type.Is("object") {
		return nil
	}
	if len(schema.Properties) == 0 {
		return nil
	}

	out := &types.RequestBodyDescriptor{
		Properties: make(map[string]types.BodyProperty, len(schema.Properties)),
	}

	requiredSet := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = true
	}

	for name, propRef := range schema.Properties {
		if propRef.Value == nil {
			continue
		}
		inf := fieldtype.Infer(name, fieldtype.Hint{
			Type:        schemaType(propRef.Value),
			Description: propRef.Value.Description,
		})
		out.Properties[name] = types.BodyProperty{
			Type:        inf.Type,
			Description: propRef.Value.Description,
			Required:    requiredSet[name],
		}
		if requiredSet[name] {
			out.RequiredFields = append(out.RequiredFields, name)
		}
	}

	return out
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	slice := schema.Type.Slice()
	if len(slice) == 0 {
		return ""
	}
	return slice[0]
}

func mapLocation(in string) string {
	switch in {
	case openapi3.ParameterInPath:
		return types.LocationPath
	case openapi3.ParameterInQuery:
		return types.LocationQuery
	case openapi3.ParameterInHeader:
		return types.LocationHeader
	default:
		return ""
	}
}
