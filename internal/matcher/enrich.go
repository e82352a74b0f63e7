package matcher

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

const defaultExpectedResponse = "JSON response from the API"

// Enrich merges a raw match result with catalog metadata: endpoint
// description, per-parameter detail with location and source, a synthesized
// summary when the matcher did not supply one, and guidance text when
// required information is missing.
//
// An endpoint reference not present in the catalog is tolerated: the
// semantic matcher occasionally emits a path that is not byte-identical to
// the catalog entry. Enrichment then degrades to whatever the raw result
// carried.
func Enrich(raw *types.MatchResult, cat *types.Catalog) *types.MatchResult {
	result := *raw
	result.APIName = cat.Meta.Name

	ep := cat.Find(result.Endpoint, result.Method)
	if ep == nil {
		slog.Warn("matched endpoint not found in catalog, enriching best-effort",
			"endpoint", result.Endpoint, "method", result.Method)
	} else {
		result.EndpointDescription = ep.Description
		result.ParameterDetails = buildParameterDetails(ep, result.Params)
	}

	if result.Summary == "" {
		result.Summary = synthesizeSummary(result.Method, result.Endpoint)
	}
	if result.ExpectedResponse == "" {
		result.ExpectedResponse = defaultExpectedResponse
	}
	if result.MissingInfo != nil {
		result.Guidance = buildGuidance(result.MissingInfo)
	}

	return &result
}

// buildParameterDetails lists every declared parameter and body field of the
// endpoint with its resolved location and extraction source.
func buildParameterDetails(ep *types.EndpointDescriptor, params map[string]any) []types.ParameterDetail {
	details := make([]types.ParameterDetail, 0, len(ep.Parameters))

	for i := range ep.Parameters {
		p := &ep.Parameters[i]
		detail := types.ParameterDetail{
			Name:        p.Name,
			Description: p.Description,
			Type:        p.Type,
			Required:    p.Required,
			Location:    catalog.InferLocation(ep, p),
		}
		if value, ok := params[p.Name]; ok {
			detail.Value = value
			detail.Source = types.SourceExtracted
		} else if p.Required {
			detail.Source = types.SourceMissing
		} else {
			detail.Source = types.SourceOptional
		}
		details = append(details, detail)
	}

	if ep.RequestBody == nil {
		return details
	}

	required := make(map[string]bool, len(ep.RequestBody.RequiredFields))
	for _, name := range ep.RequestBody.RequiredFields {
		required[name] = true
	}

	for _, name := range sortedKeys(ep.RequestBody.Properties) {
		prop := ep.RequestBody.Properties[name]
		detail := types.ParameterDetail{
			Name:        name,
			Description: prop.Description,
			Type:        prop.Type,
			Required:    required[name] || prop.Required,
			Location:    types.LocationBody,
		}
		if value, ok := params[name]; ok {
			detail.Value = value
			detail.Source = types.SourceExtracted
		} else if detail.Required {
			detail.Source = types.SourceMissing
		} else {
			detail.Source = types.SourceOptional
		}
		details = append(details, detail)
	}

	return details
}

// synthesizeSummary builds a one-sentence description of the planned action.
func synthesizeSummary(method, path string) string {
	var verb string
	switch strings.ToUpper(method) {
	case "GET":
		verb = "Retrieving"
	case "POST":
		verb = "Creating"
	case "PUT", "PATCH":
		verb = "Updating"
	case "DELETE":
		verb = "Deleting"
	default:
		verb = "Processing"
	}
	return fmt.Sprintf("%s %s via the API", verb, resourcePhrase(path))
}

// buildGuidance renders missing-info analysis as labeled blocks: body
// fields, then parameters, then suggestions, then the example query.
func buildGuidance(mi *types.MissingInfo) string {
	var sb strings.Builder

	if len(mi.RequestBodyFields) > 0 {
		sb.WriteString("Missing request body fields: ")
		sb.WriteString(strings.Join(mi.RequestBodyFields, ", "))
		sb.WriteByte('\n')
	}
	if len(mi.RequiredParams) > 0 {
		sb.WriteString("Missing required parameters: ")
		sb.WriteString(strings.Join(mi.RequiredParams, ", "))
		sb.WriteByte('\n')
	}
	if len(mi.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		for _, s := range mi.Suggestions {
			sb.WriteString("  - ")
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	if mi.ExampleQuery != "" {
		sb.WriteString("Example: ")
		sb.WriteString(mi.ExampleQuery)
	}

	return strings.TrimRight(sb.String(), "\n")
}
