package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

func petCatalog() *types.Catalog {
	return &types.Catalog{
		Meta: types.APIMeta{Name: "Pet Store", Version: "1.0"},
		Endpoints: []types.EndpointDescriptor{
			{
				Path:   "/pets",
				Method: "GET",
				Parameters: []types.ParameterDescriptor{
					{Name: "limit", Type: "integer"},
				},
			},
			{
				Path:   "/pets",
				Method: "POST",
				RequestBody: &types.RequestBodyDescriptor{
					Properties: map[string]types.BodyProperty{
						"name": {Type: "string", Required: true},
						"age":  {Type: "integer"},
					},
					RequiredFields: []string{"name"},
				},
			},
		},
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()

	_, _, err := s.Snapshot()
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	// An installed catalog with zero endpoints is still empty.
	s.Replace(&types.Catalog{})
	_, _, err = s.Snapshot()
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestStoreReplaceBumpsVersion(t *testing.T) {
	s := NewStore()
	s.Replace(petCatalog())

	c1, v1, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, c1.Len())

	s.Replace(petCatalog())
	c2, v2, err := s.Snapshot()
	require.NoError(t, err)

	assert.Greater(t, v2, v1)
	assert.NotSame(t, c1, c2, "replacement must swap the snapshot, not mutate it")
}

func TestInferLocation(t *testing.T) {
	get := &types.EndpointDescriptor{Path: "/garages/{garage_id}/slots", Method: "GET"}
	post := &types.EndpointDescriptor{Path: "/bookings", Method: "POST"}

	tests := []struct {
		name     string
		ep       *types.EndpointDescriptor
		param    types.ParameterDescriptor
		expected string
	}{
		{"explicit wins", get, types.ParameterDescriptor{Name: "garage_id", Location: "header"}, types.LocationHeader},
		{"path placeholder", get, types.ParameterDescriptor{Name: "garage_id"}, types.LocationPath},
		{"query on GET", get, types.ParameterDescriptor{Name: "date"}, types.LocationQuery},
		{"body on POST", post, types.ParameterDescriptor{Name: "customer_name"}, types.LocationBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferLocation(tt.ep, &tt.param))
		})
	}
}

func TestExampleLiteral(t *testing.T) {
	tests := []struct {
		field    string
		declared string
		expected string
	}{
		{"limit", "integer", "123"},
		{"price", "number", "99.99"},
		{"is_active", "boolean", "true"},
		{"tags", "array", `["item1","item2"]`},
		{"filters", "object", `{"key":"value"}`},
		{"appointment_date", "string", `"2025-12-12"`},
		{"time_slot", "string", `"14:30"`},
		{"created_at", "string", `"2025-12-12T14:30:00Z"`},
		{"customer_email", "string", `"user@example.com"`},
		{"phone", "string", `"+1-555-0123"`},
		{"notes", "string", `"example"`},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExampleLiteral(tt.field, tt.declared))
		})
	}
}
