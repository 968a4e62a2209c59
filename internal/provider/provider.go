package provider

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable covers transport failures and responses whose shape does
	// not match the expected table rows.
	ErrUnavailable = errors.New("managed data provider unavailable")
	// ErrNotFound is returned when a row does not exist or belongs to another
	// user.
	ErrNotFound = errors.New("record not found")
)

// User is a row in the provider's users table. The id is a provider-assigned
// UUID, unrelated to the local Mongo ids.
type User struct {
	ID         string `json:"id"`
	TelegramID *int64 `json:"telegram_id,omitempty"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// UserPatch carries a partial provider user update; nil fields are left
// unchanged.
type UserPatch struct {
	TelegramID *int64  `json:"telegram_id,omitempty"`
	Username   *string `json:"username,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
}

// Session is a row in the workout_sessions table.
type Session struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// SessionExercise is a row in the session_exercises table.
type SessionExercise struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	CatalogID string `json:"catalog_id"`
	Position  int    `json:"position"`
}

// ExerciseSet is a row in the exercise_sets table.
type ExerciseSet struct {
	ID         string   `json:"id"`
	ExerciseID string   `json:"exercise_id"`
	SetNumber  int      `json:"set_number"`
	Weight     *float64 `json:"weight,omitempty"`
	Reps       *int     `json:"reps,omitempty"`
}

// SetInput is one set of an exercise being saved.
type SetInput struct {
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
}

// ExerciseInput is one exercise of a session being saved.
type ExerciseInput struct {
	CatalogID string     `json:"catalog_id"`
	Sets      []SetInput `json:"sets"`
}

// SessionInput is a full session as submitted by the client.
type SessionInput struct {
	Date      string          `json:"date"`
	Notes     *string         `json:"notes"`
	Exercises []ExerciseInput `json:"exercises"`
}

// SessionDetail is a session with its exercises and sets resolved.
type SessionDetail struct {
	Session   Session          `json:"session"`
	Exercises []ExerciseDetail `json:"exercises"`
}

// ExerciseDetail is one exercise with its sets resolved.
type ExerciseDetail struct {
	Exercise SessionExercise `json:"exercise"`
	Sets     []ExerciseSet   `json:"sets"`
}

// SaveResult reports what a save actually did.
type SaveResult struct {
	SessionID string `json:"session_id"`
	Created   bool   `json:"created"`
	Exercises int    `json:"exercises"`
	Sets      int    `json:"sets"`
}

// Service is the alternative persistence surface backed by a managed
// PostgREST-compatible provider. It exists side by side with the Mongo-backed
// API and keeps its own user namespace.
type Service interface {
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, userID string, patch UserPatch) (*User, error)
	ListSessions(ctx context.Context, userID string) ([]Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*SessionDetail, error)
	SaveSession(ctx context.Context, userID string, input SessionInput) (*SaveResult, error)
	UpdateSessionExercises(ctx context.Context, userID, sessionID string, exercises []ExerciseInput) (*SaveResult, error)
	DeleteSessionExercise(ctx context.Context, userID, sessionID, exerciseID string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
}
