package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"

	"localrag/src/core/rag"
)

func TestClassName(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		want       string
	}{
		{name: "default collection", collection: "my_collection", want: "My_collection"},
		{name: "already valid", collection: "Docs", want: "Docs"},
		{name: "dashes and dots", collection: "team-docs.v2", want: "Team_docs_v2"},
		{name: "leading digit", collection: "2024reports", want: "C_2024reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassName(tt.collection))
		})
	}
}

func TestParseGetResult(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"My_collection": []interface{}{
				map[string]interface{}{
					"text":       "first",
					"chunkIndex": float64(2),
					"_additional": map[string]interface{}{
						"id":       "6f1c1d1e-0000-4000-8000-000000000001",
						"distance": 0.125,
					},
				},
				map[string]interface{}{
					"text":       "second",
					"chunkIndex": float64(0),
					"_additional": map[string]interface{}{
						"id":       "6f1c1d1e-0000-4000-8000-000000000002",
						"distance": 0.5,
					},
				},
			},
		},
	}

	results, err := parseGetResult(data, "My_collection")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "6f1c1d1e-0000-4000-8000-000000000001", results[0].ID)
	assert.Equal(t, 0.125, results[0].Distance)
	assert.Equal(t, "first", results[0].Properties["text"])
	assert.NotContains(t, results[0].Properties, "_additional")

	empty, err := parseGetResult(map[string]models.JSONObject{}, "My_collection")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseGetResult(map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"My_collection": []interface{}{map[string]interface{}{"text": "x"}},
		},
	}, "My_collection")
	assert.Error(t, err)
}

func TestParseAggregateCount(t *testing.T) {
	data := map[string]models.JSONObject{
		"Aggregate": map[string]interface{}{
			"My_collection": []interface{}{
				map[string]interface{}{
					"meta": map[string]interface{}{"count": float64(3)},
				},
			},
		},
	}
	n, err := parseAggregateCount(data, "My_collection")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = parseAggregateCount(map[string]models.JSONObject{
		"Aggregate": map[string]interface{}{},
	}, "My_collection")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = parseAggregateCount(map[string]models.JSONObject{}, "My_collection")
	assert.Error(t, err)
}

func TestChunkProperties(t *testing.T) {
	chunk := rag.Chunk{
		Index:        7,
		DocumentID:   1790000000000000001,
		DocumentName: "./docs/manual.pdf",
		Page:         2,
		Content:      "Chunk text",
	}

	props := chunkToProperties(chunk)
	// Weaviate returns numbers as float64 after JSON decoding.
	props[propChunkIndex] = float64(props[propChunkIndex].(int))
	props[propPage] = float64(props[propPage].(int))

	assert.Equal(t, chunk, propertiesToChunk(props))
}

func TestGraphQLError(t *testing.T) {
	assert.NoError(t, graphQLError(nil))
	err := graphQLError([]*models.GraphQLError{{Message: "class not found"}, {Message: "bad vector"}})
	assert.EqualError(t, err, "graphql: class not found; bad vector")
}
