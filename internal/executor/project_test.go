package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	value := map[string]any{
		"slots": []any{
			map[string]any{"time": "09:00", "available": true},
			map[string]any{"time": "10:30", "available": false},
			map[string]any{"time": "14:00", "available": true},
		},
	}

	tests := []struct {
		name       string
		expression string
		maxResults int
		want       []any
	}{
		{
			name:       "extract field",
			expression: ".slots[].time",
			want:       []any{"09:00", "10:30", "14:00"},
		},
		{
			name:       "filter",
			expression: ".slots[] | select(.available) | .time",
			want:       []any{"09:00", "14:00"},
		},
		{
			name:       "max results",
			expression: ".slots[].time",
			maxResults: 2,
			want:       []any{"09:00", "10:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Project(value, tt.expression, tt.maxResults)
			require.NoError(t, err)
			assert.Empty(t, result.Errors)
			assert.Equal(t, tt.want, result.Values)
		})
	}
}

func TestProjectInvalidExpression(t *testing.T) {
	_, err := Project(map[string]any{}, ".[invalid", 0)
	assert.Error(t, err)
}

func TestProjectRuntimeError(t *testing.T) {
	result, err := Project(map[string]any{"a": nil}, ".a[]", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "may not exist")
}

func TestProjectNormalizesTypedValues(t *testing.T) {
	type slot struct {
		Time string `json:"time"`
	}
	result, err := Project([]slot{{Time: "09:00"}}, ".[].time", 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"09:00"}, result.Values)
}

func TestValidateExpression(t *testing.T) {
	assert.NoError(t, ValidateExpression(".a.b[]"))
	assert.Error(t, ValidateExpression(".[broken"))
}
