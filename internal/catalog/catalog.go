package catalog

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable is the single sentinel for every upstream catalog failure:
// connection errors, timeouts, non-2xx responses and unreadable bodies all
// collapse into it.
var ErrUnavailable = errors.New("exercise catalog unavailable")

// ProxyResult carries an upstream response through unchanged, including its
// status code.
type ProxyResult struct {
	Status      int
	ContentType string
	Body        []byte
}

// Service fronts the external exercise catalog. Responses are passed through
// as raw JSON; the catalog's payload shapes are its own business.
type Service interface {
	// ListExercises forwards limit/offset/search untouched; zero values mean
	// the upstream defaults.
	ListExercises(ctx context.Context, limit, offset int, search string) (json.RawMessage, error)
	GetExercise(ctx context.Context, exerciseID string) (json.RawMessage, error)
	ListCategories(ctx context.Context) (json.RawMessage, error)
	ListMuscleGroups(ctx context.Context) (json.RawMessage, error)
	ExercisesByCategory(ctx context.Context, category string) (json.RawMessage, error)
	ExercisesByMuscleGroup(ctx context.Context, muscleGroup string) (json.RawMessage, error)
	SearchExercises(ctx context.Context, query string) (json.RawMessage, error)
	Ping(ctx context.Context) error
	// Proxy forwards a request under the upstream items tree: method, query
	// and body pass through untouched.
	Proxy(ctx context.Context, method, subpath, rawQuery string, body []byte) (*ProxyResult, error)
}
