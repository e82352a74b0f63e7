package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apimatch-mcp/internal/mcp/tools"
)

// MimeJSON is the MIME type for JSON resource contents.
const MimeJSON = "application/json"

// Resource URI scheme: apimatch://
// Supported URIs:
//   apimatch://catalog
//   apimatch://endpoint/{method}/{path...}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         "apimatch://catalog",
		Name:        "Endpoint Catalog",
		Description: "The full active catalog: API metadata plus every endpoint with parameters and request bodies. High context cost - the list and describe tools return slimmer views.",
		MIMEType:    MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceCatalog)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "apimatch://endpoint/{method}/{path*}",
		Name:        "Endpoint Declaration",
		Description: "One endpoint's full descriptor. Equivalent to the describe_endpoint tool output.",
		MIMEType:    MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceEndpoint)
}

func (s *Server) handleResourceCatalog(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	cat, version, err := s.deps.Snapshot()
	if err != nil {
		return nil, tools.WrapEngineError(err)
	}

	content := map[string]any{
		"catalog_version": version,
		"meta":            cat.Meta,
		"endpoints":       cat.Endpoints,
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceEndpoint(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	method, path, err := parseEndpointURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	cat, _, err := s.deps.Snapshot()
	if err != nil {
		return nil, tools.WrapEngineError(err)
	}

	ep := cat.Find(path, method)
	if ep == nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, ep)
}

// parseEndpointURI splits apimatch://endpoint/{method}/{path...} into its
// method and path. The path keeps its leading slash.
func parseEndpointURI(uri string) (method, path string, err error) {
	if !strings.HasPrefix(uri, "apimatch://") {
		return "", "", tools.ErrInvalidInput("invalid URI scheme: expected apimatch://")
	}

	rest := strings.TrimPrefix(uri, "apimatch://")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] != "endpoint" {
		return "", "", tools.ErrInvalidInput("endpoint URI requires method and path")
	}

	return strings.ToUpper(parts[1]), "/" + parts[2], nil
}

func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
