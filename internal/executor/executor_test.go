package executor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

func testCatalog(baseURL string) *types.Catalog {
	return &types.Catalog{
		Meta: types.APIMeta{Name: "Garage Booking API", BaseURL: baseURL},
		Endpoints: []types.EndpointDescriptor{
			{
				Path:        "/garages/{garage_id}/slots",
				Method:      "GET",
				Description: "List available slots",
				Parameters: []types.ParameterDescriptor{
					{Name: "garage_id", Type: "integer", Required: true},
					{Name: "date", Type: "string", Required: true},
					{Name: "X-Request-ID", Type: "string", Location: types.LocationHeader},
				},
			},
			{
				Path:        "/bookings",
				Method:      "POST",
				Description: "Create a booking",
				RequestBody: &types.RequestBodyDescriptor{
					Properties: map[string]types.BodyProperty{
						"customer_name": {Type: "string", Required: true},
						"service":       {Type: "string"},
					},
					RequiredFields: []string{"customer_name"},
				},
			},
		},
	}
}

func TestExecuteGet(t *testing.T) {
	var gotPath, gotQuery, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("date")
		gotHeader = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slots": ["09:00", "10:30"]}`))
	}))
	defer srv.Close()

	exec := New()
	resp, err := exec.Execute(context.Background(), testCatalog(srv.URL),
		"/garages/{garage_id}/slots", "GET", map[string]any{
			"garage_id":    123,
			"date":         "2025-12-12",
			"X-Request-ID": "abc",
		})
	require.NoError(t, err)

	assert.Equal(t, "/garages/123/slots", gotPath)
	assert.Equal(t, "2025-12-12", gotQuery)
	assert.Equal(t, "abc", gotHeader)
	assert.Equal(t, http.StatusOK, resp.Status)
	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, body, "slots")
}

func TestExecutePostBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	exec := New(WithHeader("Authorization", "Bearer token"))
	resp, err := exec.Execute(context.Background(), testCatalog(srv.URL),
		"/bookings", "POST", map[string]any{
			"customer_name": "Jane Doe",
			"service":       "oil change",
		})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Jane Doe", gotBody["customer_name"])
	assert.Equal(t, "oil change", gotBody["service"])
}

func TestExecuteStaticHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec := New(WithHeader("Authorization", "Bearer secret"))
	_, err := exec.Execute(context.Background(), testCatalog(srv.URL),
		"/garages/{garage_id}/slots", "GET", map[string]any{
			"garage_id": 1, "date": "2025-01-01",
		})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestExecuteErrors(t *testing.T) {
	cat := testCatalog("https://api.example.com")

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := New().Execute(context.Background(), cat, "/nope", "GET", nil)
		assert.ErrorContains(t, err, "not in catalog")
	})

	t.Run("missing required params", func(t *testing.T) {
		_, err := New().Execute(context.Background(), cat,
			"/garages/{garage_id}/slots", "GET", map[string]any{"date": "2025-01-01"})
		assert.ErrorContains(t, err, "garage_id")
	})

	t.Run("missing required body field", func(t *testing.T) {
		_, err := New().Execute(context.Background(), cat,
			"/bookings", "POST", map[string]any{"service": "oil change"})
		assert.ErrorContains(t, err, "customer_name")
	})

	t.Run("no base URL", func(t *testing.T) {
		bare := testCatalog("")
		_, err := New().Execute(context.Background(), bare,
			"/bookings", "POST", map[string]any{"customer_name": "Jane"})
		assert.ErrorContains(t, err, "base URL")
	})
}

func TestExecuteNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text"))
	}))
	defer srv.Close()

	resp, err := New().Execute(context.Background(), testCatalog(srv.URL),
		"/garages/{garage_id}/slots", "GET", map[string]any{
			"garage_id": 1, "date": "2025-01-01",
		})
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
	assert.Equal(t, "plain text", resp.Raw)
}

func TestRouteParamsUnknownParam(t *testing.T) {
	cat := testCatalog("https://api.example.com")

	// Unknown params go to the query string on reads.
	get := cat.Find("/garages/{garage_id}/slots", "GET")
	path, query, _, body, err := routeParams(get, map[string]any{
		"garage_id": 5, "date": "2025-01-01", "limit": 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "/garages/5/slots", path)
	assert.Equal(t, "10", query.Get("limit"))
	assert.Empty(t, body)

	// And to the body on mutations.
	post := cat.Find("/bookings", "POST")
	_, _, _, body, err = routeParams(post, map[string]any{
		"customer_name": "Jane", "notes": "urgent",
	})
	require.NoError(t, err)
	assert.Equal(t, "urgent", body["notes"])
}
