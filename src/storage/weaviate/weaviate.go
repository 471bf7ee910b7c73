package weaviate

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// SDK encapsulates all Weaviate operations
type SDK struct {
	client *weaviate.Client
}

// NewSDK creates a new instance of SDK
func NewSDK(client *weaviate.Client) *SDK {
	return &SDK{
		client: client,
	}
}

// ClassName converts a collection name into a valid Weaviate class name:
// the first letter is upper-cased and characters outside [A-Za-z0-9_] become
// underscores. "my_collection" becomes "My_collection".
func ClassName(collection string) string {
	var b strings.Builder
	for i, r := range collection {
		switch {
		case i == 0 && unicode.IsLetter(r) && r < unicode.MaxASCII:
			b.WriteRune(unicode.ToUpper(r))
		case i == 0:
			b.WriteString("C_")
			if isClassRune(r) {
				b.WriteRune(r)
			} else {
				b.WriteRune('_')
			}
		case isClassRune(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isClassRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// Ready reports whether the Weaviate instance accepts requests
func (w *SDK) Ready(ctx context.Context) (bool, error) {
	return w.client.Misc().ReadyChecker().Do(ctx)
}

// CreateSchema creates a new class schema in Weaviate
func (w *SDK) CreateSchema(ctx context.Context, className string, properties []*models.Property, vectorizer string) error {
	// Check if class already exists
	exists, err := w.ClassExists(ctx, className)
	if err != nil {
		return fmt.Errorf("failed to check if class exists: %w", err)
	}
	if exists {
		return fmt.Errorf("class %s already exists", className)
	}

	class := &models.Class{
		Class:      className,
		Properties: properties,
		Vectorizer: vectorizer,
	}

	err = w.client.Schema().ClassCreator().WithClass(class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Weaviate class: %w", err)
	}

	return nil
}

// ClassExists checks if a class exists in the schema
func (w *SDK) ClassExists(ctx context.Context, className string) (bool, error) {
	schema, err := w.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}

	for _, class := range schema.Classes {
		if class.Class == className {
			return true, nil
		}
	}

	return false, nil
}

// DeleteSchema deletes a class schema from Weaviate
func (w *SDK) DeleteSchema(ctx context.Context, className string) error {
	err := w.client.Schema().ClassDeleter().WithClassName(className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete Weaviate class: %w", err)
	}

	return nil
}

// VectorObject represents a single object with its vector and properties
type VectorObject struct {
	Vector     []float32
	Properties map[string]interface{}
}

// AddVector adds a single vector object to a class and returns the ID
// Weaviate assigned to it
func (w *SDK) AddVector(ctx context.Context, className string, object VectorObject) (string, error) {
	created, err := w.client.Data().Creator().
		WithClassName(className).
		WithProperties(object.Properties).
		WithVector(object.Vector).
		Do(ctx)

	if err != nil {
		return "", fmt.Errorf("failed to add vector: %w", err)
	}
	if created == nil || created.Object == nil {
		return "", nil
	}

	return string(created.Object.ID), nil
}

// QueryConfig represents configuration for vector similarity search
type QueryConfig struct {
	Fields    []string // Fields to return in the result
	Limit     int      // Maximum number of results
	Distance  float64  // Optional distance threshold
	Certainty float64  // Optional certainty threshold (1/distance)
}

const DefaultQueryLimit = 20

// QueryResult represents a single result from vector similarity search
type QueryResult struct {
	ID         string
	Distance   float64
	Properties map[string]interface{}
}

// QueryVectors performs vector similarity search in a class. Results come
// back nearest first.
func (w *SDK) QueryVectors(ctx context.Context, className string, vector []float32, config QueryConfig) ([]QueryResult, error) {
	// Convert string fields to GraphQL fields
	fields := make([]graphql.Field, len(config.Fields))
	for i, field := range config.Fields {
		fields[i] = graphql.Field{Name: field}
	}
	// Add _additional field for metadata
	fields = append(fields, graphql.Field{Name: "_additional { id distance }"})

	// Build near vector arguments
	nearVectorBuilder := w.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	if config.Distance > 0 {
		nearVectorBuilder.WithDistance(float32(config.Distance))
	}
	if config.Certainty > 0 {
		nearVectorBuilder.WithCertainty(float32(config.Certainty))
	}

	if config.Limit <= 0 {
		config.Limit = DefaultQueryLimit
	}

	// Execute query
	result, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithFields(fields...).
		WithNearVector(nearVectorBuilder).
		WithLimit(config.Limit).
		Do(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	if err := graphQLError(result.Errors); err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	return parseGetResult(result.Data, className)
}

// Count returns the number of objects in a class
func (w *SDK) Count(ctx context.Context, className string) (int, error) {
	meta := graphql.Field{
		Name:   "meta",
		Fields: []graphql.Field{{Name: "count"}},
	}

	result, err := w.client.GraphQL().Aggregate().
		WithClassName(className).
		WithFields(meta).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}
	if err := graphQLError(result.Errors); err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}

	return parseAggregateCount(result.Data, className)
}

func graphQLError(errs []*models.GraphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			messages = append(messages, e.Message)
		}
	}
	return fmt.Errorf("graphql: %s", strings.Join(messages, "; "))
}

// parseGetResult extracts objects from a GraphQL Get response
func parseGetResult(data map[string]models.JSONObject, className string) ([]QueryResult, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	objects, ok := get[className].([]interface{})
	if !ok {
		return nil, nil
	}

	queryResults := make([]QueryResult, 0, len(objects))
	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		additional, ok := objMap["_additional"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("object in class %s has no _additional metadata", className)
		}

		// Create properties map excluding _additional
		properties := make(map[string]interface{}, len(objMap))
		for k, v := range objMap {
			if k != "_additional" {
				properties[k] = v
			}
		}

		id, _ := additional["id"].(string)
		distance, _ := additional["distance"].(float64)
		queryResults = append(queryResults, QueryResult{
			ID:         id,
			Distance:   distance,
			Properties: properties,
		})
	}

	return queryResults, nil
}

// parseAggregateCount reads meta.count from a GraphQL Aggregate response
func parseAggregateCount(data map[string]models.JSONObject, className string) (int, error) {
	aggregate, ok := data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("aggregate response has no Aggregate field")
	}
	groups, ok := aggregate[className].([]interface{})
	if !ok || len(groups) == 0 {
		return 0, nil
	}
	group, ok := groups[0].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected aggregate group type %T", groups[0])
	}
	meta, ok := group["meta"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("aggregate group has no meta field")
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected meta.count type %T", meta["count"])
	}
	return int(count), nil
}
