package catalog

import (
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// InferLocation resolves the request location of a parameter. Explicit
// declarations win; otherwise the parameter is a path parameter if {name}
// appears in the endpoint path, a body field for mutating methods, and a
// query parameter for everything else.
func InferLocation(ep *types.EndpointDescriptor, p *types.ParameterDescriptor) string {
	if p.Location != "" {
		return p.Location
	}
	if ep.HasPathPlaceholder(p.Name) {
		return types.LocationPath
	}
	if ep.IsMutating() {
		return types.LocationBody
	}
	return types.LocationQuery
}
