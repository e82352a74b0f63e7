package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

func petCatalog() *types.Catalog {
	return &types.Catalog{
		Meta: types.APIMeta{Name: "Pet Store", Version: "1.0"},
		Endpoints: []types.EndpointDescriptor{
			{
				Path:        "/pets",
				Method:      "GET",
				Description: "List pets in the store",
				Parameters: []types.ParameterDescriptor{
					{Name: "limit", Type: "integer"},
				},
			},
			{
				Path:        "/pets",
				Method:      "POST",
				Description: "Create a pet",
				RequestBody: &types.RequestBodyDescriptor{
					Properties: map[string]types.BodyProperty{
						"name": {Type: "string"},
						"age":  {Type: "integer"},
					},
					RequiredFields: []string{"name"},
				},
			},
		},
	}
}

func bookingCatalog() *types.Catalog {
	return &types.Catalog{
		Meta: types.APIMeta{Name: "Garage Booking"},
		Endpoints: []types.EndpointDescriptor{
			{
				Path:        "/garages/{garage_id}/slots",
				Method:      "GET",
				Description: "List available appointment slots for a garage",
				Parameters: []types.ParameterDescriptor{
					{Name: "garage_id", Type: "integer", Required: true},
					{Name: "date", Type: "string"},
					{Name: "price", Type: "number"},
				},
			},
			{
				Path:        "/bookings",
				Method:      "POST",
				Description: "Create a booking appointment",
				RequestBody: &types.RequestBodyDescriptor{
					Properties: map[string]types.BodyProperty{
						"customer_name":    {Type: "string"},
						"email":            {Type: "string"},
						"appointment_date": {Type: "string"},
						"time_slot":        {Type: "string"},
						"service":          {Type: "string"},
					},
					RequiredFields: []string{"customer_name", "email", "appointment_date"},
				},
			},
		},
	}
}

func TestFallbackMethodInferenceOrdering(t *testing.T) {
	// "list all users" must hit GET /users even with POST /users present.
	cat := &types.Catalog{
		Endpoints: []types.EndpointDescriptor{
			{Path: "/users", Method: "POST", Description: "Create a user"},
			{Path: "/users", Method: "GET", Description: "List users"},
		},
	}

	result, err := NewFallback().Match(context.Background(), "list all users", cat)
	require.NoError(t, err)
	assert.Equal(t, "/users", result.Endpoint)
	assert.Equal(t, "GET", result.Method)
}

func TestFallbackDeterminism(t *testing.T) {
	f := NewFallback()
	cat := bookingCatalog()
	query := `Book an oil change at Joe's Garage for customer Jane Doe on 2025-01-15 at 2:30pm`

	first, err := f.Match(context.Background(), query, cat)
	require.NoError(t, err)
	for range 5 {
		again, err := f.Match(context.Background(), query, cat)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFallbackTypeFidelity(t *testing.T) {
	result, err := NewFallback().Match(context.Background(),
		"find slots garage_id=123 price=99.99", bookingCatalog())
	require.NoError(t, err)

	assert.Equal(t, "/garages/{garage_id}/slots", result.Endpoint)
	assert.Equal(t, 123, result.Params["garage_id"])
	assert.Equal(t, 99.99, result.Params["price"])
}

func TestFallbackDateNormalization(t *testing.T) {
	f := NewFallback()

	iso, err := f.Match(context.Background(), "find slots garage_id=1 for 2025-01-15", bookingCatalog())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", iso.Params["date"])

	spelled, err := f.Match(context.Background(), "find slots garage_id=1 for Jan 15 2025", bookingCatalog())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", spelled.Params["date"])
}

func TestFallbackMissingInfoCompleteness(t *testing.T) {
	f := NewFallback()

	// Only customer_name supplied: the other two required fields are missing.
	partial, err := f.Match(context.Background(),
		`create a booking customer_name="Jane Doe"`, bookingCatalog())
	require.NoError(t, err)
	require.NotNil(t, partial.MissingInfo)
	assert.ElementsMatch(t, []string{"email", "appointment_date"}, partial.MissingInfo.RequestBodyFields)
	assert.NotEmpty(t, partial.MissingInfo.Suggestions)
	assert.NotEmpty(t, partial.MissingInfo.ExampleQuery)

	// All three supplied: missingInfo must be absent entirely.
	complete, err := f.Match(context.Background(),
		`create a booking customer_name="Jane Doe" email=jane@example.com appointment_date=2025-01-15`,
		bookingCatalog())
	require.NoError(t, err)
	assert.Nil(t, complete.MissingInfo)
}

func TestFallbackNaturalLanguageBodyExtraction(t *testing.T) {
	query := `Book an oil change appointment at 2:30pm on 2025-01-15 for customer Jane Doe, email jane@example.com`
	result, err := NewFallback().Match(context.Background(), query, bookingCatalog())
	require.NoError(t, err)

	assert.Equal(t, "/bookings", result.Endpoint)
	assert.Equal(t, "POST", result.Method)
	assert.Equal(t, "Jane Doe", result.Params["customer_name"])
	assert.Equal(t, "jane@example.com", result.Params["email"])
	assert.Equal(t, "2025-01-15", result.Params["appointment_date"])
	assert.Equal(t, "14:30", result.Params["time_slot"])
	assert.Equal(t, "oil change", result.Params["service"])
	assert.Nil(t, result.MissingInfo)
}

func TestFallbackScenarioCreatePetComplete(t *testing.T) {
	result, err := NewFallback().Match(context.Background(),
		"create a pet named Max age=3", petCatalog())
	require.NoError(t, err)

	assert.Equal(t, "/pets", result.Endpoint)
	assert.Equal(t, "POST", result.Method)
	assert.Equal(t, "Max", result.Params["name"])
	assert.Equal(t, 3, result.Params["age"])
	assert.Nil(t, result.MissingInfo)
}

func TestFallbackScenarioCreatePetMissingName(t *testing.T) {
	result, err := NewFallback().Match(context.Background(), "create a pet", petCatalog())
	require.NoError(t, err)

	assert.Equal(t, "/pets", result.Endpoint)
	assert.Equal(t, "POST", result.Method)
	require.NotNil(t, result.MissingInfo)
	assert.Contains(t, result.MissingInfo.RequiredParams, "name")
	assert.NotEmpty(t, result.MissingInfo.ExampleQuery)
}

func TestFallbackScenarioGetPetsLimit(t *testing.T) {
	result, err := NewFallback().Match(context.Background(), "get pets limit 10", petCatalog())
	require.NoError(t, err)

	assert.Equal(t, "/pets", result.Endpoint)
	assert.Equal(t, "GET", result.Method)
	assert.Equal(t, 10, result.Params["limit"])
}

func TestFallbackEmptyCatalog(t *testing.T) {
	_, err := NewFallback().Match(context.Background(), "anything", &types.Catalog{})
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)
}

func TestFallbackConfidenceClamped(t *testing.T) {
	cat := &types.Catalog{
		Endpoints: []types.EndpointDescriptor{
			{
				Path:        "/pets/search",
				Method:      "GET",
				Description: "search pets with many matching words pets search list",
			},
		},
	}

	result, err := NewFallback().Match(context.Background(),
		"search pets list many matching words pets search", cat)
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
}

func TestFallbackNoMatchStillPicksFirst(t *testing.T) {
	cat := &types.Catalog{
		Endpoints: []types.EndpointDescriptor{
			{Path: "/alpha", Method: "POST"},
			{Path: "/beta", Method: "POST"},
		},
	}

	// No verb, no segment, no description hit: first entry wins at low confidence.
	result, err := NewFallback().Match(context.Background(), "zzz", cat)
	require.NoError(t, err)
	assert.Equal(t, "/alpha", result.Endpoint)
	assert.LessOrEqual(t, result.Confidence, 0.1)
}

func TestGuessMethod(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"fetch the latest orders", "GET"},
		{"add a new customer", "POST"},
		{"modify booking 5", "PUT"},
		{"remove old entries", "DELETE"},
		{"patch the record", "PATCH"},
		{"hello there", "GET"},
		// "list" (GET) outranks "create" (POST) by set priority.
		{"list create", "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, guessMethod(tt.query))
		})
	}
}
