package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

const petstoreSpec = `{
	"openapi": "3.0.0",
	"info": {
		"title": "Petstore",
		"description": "A sample pet store API",
		"version": "1.0.0"
	},
	"servers": [{"url": "https://petstore.example.com/v1"}],
	"paths": {
		"/pets": {
			"get": {
				"summary": "List all pets",
				"parameters": [
					{
						"name": "limit",
						"in": "query",
						"required": false,
						"schema": {"type": "integer"}
					}
				]
			},
			"post": {
				"summary": "Create a pet",
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"type": "object",
								"properties": {
									"name": {"type": "string", "description": "Pet name"},
									"age": {"type": "integer"},
									"tag": {"type": "string"}
								},
								"required": ["name"]
							}
						}
					}
				}
			}
		},
		"/pets/{pet_id}": {
			"parameters": [
				{
					"name": "pet_id",
					"in": "path",
					"required": true,
					"schema": {"type": "integer"}
				}
			],
			"delete": {
				"description": "Delete a pet by id"
			}
		}
	}
}`

func TestParseOpenAPI(t *testing.T) {
	cat, err := ParseOpenAPI([]byte(petstoreSpec))
	require.NoError(t, err)

	assert.Equal(t, "Petstore", cat.Meta.Name)
	assert.Equal(t, "1.0.0", cat.Meta.Version)
	assert.Equal(t, "https://petstore.example.com/v1", cat.Meta.BaseURL)
	require.Equal(t, 3, cat.Len())

	list := cat.Find("/pets", "GET")
	require.NotNil(t, list)
	assert.Equal(t, "List all pets", list.Description)
	require.Len(t, list.Parameters, 1)
	assert.Equal(t, "limit", list.Parameters[0].Name)
	assert.Equal(t, "integer", list.Parameters[0].Type)
	assert.Equal(t, types.LocationQuery, list.Parameters[0].Location)
	assert.False(t, list.Parameters[0].Required)

	create := cat.Find("/pets", "POST")
	require.NotNil(t, create)
	require.NotNil(t, create.RequestBody)
	assert.Equal(t, []string{"name"}, create.RequestBody.RequiredFields)
	assert.Equal(t, "string", create.RequestBody.Properties["name"].Type)
	assert.True(t, create.RequestBody.Properties["name"].Required)
	assert.Equal(t, "integer", create.RequestBody.Properties["age"].Type)
	assert.False(t, create.RequestBody.Properties["tag"].Required)

	del := cat.Find("/pets/{pet_id}", "DELETE")
	require.NotNil(t, del)
	// Path-level parameter applies to the operation.
	require.Len(t, del.Parameters, 1)
	assert.Equal(t, "pet_id", del.Parameters[0].Name)
	assert.Equal(t, types.LocationPath, del.Parameters[0].Location)
	assert.True(t, del.Parameters[0].Required)
	assert.Nil(t, del.RequestBody)
}

func TestParseOpenAPIYAML(t *testing.T) {
	spec := `
openapi: 3.0.0
info:
  title: Minimal
  version: 0.1.0
paths:
  /things:
    get:
      summary: List things
`
	cat, err := ParseOpenAPI([]byte(spec))
	require.NoError(t, err)
	assert.Equal(t, "Minimal", cat.Meta.Name)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, "List things", cat.Endpoints[0].Description)
}

func TestParseOpenAPIInvalid(t *testing.T) {
	_, err := ParseOpenAPI([]byte(`{{not a spec`))
	assert.Error(t, err)
}

func TestParseOpenAPINonObjectBody(t *testing.T) {
	spec := `{
		"openapi": "3.0.0",
		"info": {"title": "Raw", "version": "1.0.0"},
		"paths": {
			"/upload": {
				"post": {
					"requestBody": {
						"content": {
							"application/json": {
								"schema": {"type": "array", "items": {"type": "string"}}
							}
						}
					}
				}
			}
		}
	}`

	cat, err := ParseOpenAPI([]byte(spec))
	require.NoError(t, err)
	ep := cat.Find("/upload", "POST")
	require.NotNil(t, ep)
	assert.Nil(t, ep.RequestBody)
}
