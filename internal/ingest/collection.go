package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

// ParseCollection validates collection-format JSON and converts it into a
// catalog. Validation errors are aggregated into a single error so the
// caller can surface all of them at once.
func ParseCollection(data []byte) (*types.Catalog, error) {
	if errs := ValidateDocument(data); len(errs) > 0 {
		return nil, fmt.Errorf("ingest: invalid collection document: %s", strings.Join(errs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ingest: parsing collection document: %w", err)
	}

	return doc.ToCatalog(), nil
}

// sniffFormat decides whether raw spec data is an OpenAPI document or a
// collection document. OpenAPI 3 documents always carry a top-level
// "openapi" version string; swagger 2 carries "swagger". Everything else
// is treated as a collection. YAML input never parses as JSON, so it
// falls through to OpenAPI, the only format we accept YAML for.
func sniffFormat(data []byte) string {
	var probe struct {
		OpenAPI string `json:"openapi"`
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return formatOpenAPI
	}
	if probe.OpenAPI != "" || probe.Swagger != "" {
		return formatOpenAPI
	}
	return formatCollection
}

const (
	formatOpenAPI    = "openapi"
	formatCollection = "collection"
)

// Parse dispatches raw spec data to the right parser based on format
// sniffing.
func Parse(data []byte) (*types.Catalog, error) {
	switch sniffFormat(data) {
	case formatOpenAPI:
		return ParseOpenAPI(data)
	default:
		return ParseCollection(data)
	}
}
