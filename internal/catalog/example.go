package catalog

import (
	"github.com/usestring/apimatch-mcp/pkg/fieldtype"
)

// ExampleLiteral returns a JSON example literal for a field, used when
// embedding the catalog into the semantic matcher prompt. Name-based
// semantic kinds (date, time, email, phone) take precedence over the plain
// base type so the model sees the expected canonical format.
func ExampleLiteral(name, declaredType string) string {
	inf := fieldtype.Infer(name, fieldtype.Hint{Type: declaredType})

	switch inf.Kind {
	case fieldtype.KindDate:
		return `"2025-12-12"`
	case fieldtype.KindTime:
		return `"14:30"`
	case fieldtype.KindDateTime:
		return `"2025-12-12T14:30:00Z"`
	case fieldtype.KindEmail:
		return `"user@example.com"`
	case fieldtype.KindPhone:
		return `"+1-555-0123"`
	}

	switch inf.Type {
	case "integer":
		return "123"
	case "number":
		return "99.99"
	case "boolean":
		return "true"
	case "array":
		return `["item1","item2"]`
	case "object":
		return `{"key":"value"}`
	}
	return `"example"`
}
