package provider

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"
)

const (
	usersTable     = "users"
	sessionsTable  = "workout_sessions"
	exercisesTable = "session_exercises"
	setsTable      = "exercise_sets"
)

type providerService struct {
	rest *restClient
}

// NewService creates a provider service talking to a PostgREST-compatible
// endpoint with a service-role key.
func NewService(baseURL, serviceKey string, timeout time.Duration) Service {
	return &providerService{
		rest: newRESTClient(baseURL, serviceKey, timeout),
	}
}

// GetOrCreateUser resolves a provider user by username. When the row exists
// without a Telegram id and one is supplied, the id is backfilled; a stored
// Telegram id is never overwritten. Unknown usernames create a new row.
func (s *providerService) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error) {
	var users []User
	if username != "" {
		byName := url.Values{}
		byName.Set("username", eq(username))
		if err := s.rest.selectRows(ctx, usersTable, byName, &users); err != nil {
			return nil, err
		}
	} else {
		byTelegram := url.Values{}
		byTelegram.Set("telegram_id", eq(strconv.FormatInt(telegramID, 10)))
		if err := s.rest.selectRows(ctx, usersTable, byTelegram, &users); err != nil {
			return nil, err
		}
	}
	if len(users) > 0 {
		existing := users[0]
		if telegramID != 0 && existing.TelegramID == nil {
			patch := UserPatch{TelegramID: &telegramID}
			if firstName != "" {
				patch.FirstName = &firstName
			}
			if lastName != "" {
				patch.LastName = &lastName
			}
			return s.UpdateUser(ctx, existing.ID, patch)
		}
		return &existing, nil
	}

	newUser := User{
		TelegramID: &telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}
	var created []User
	if err := s.rest.insertRow(ctx, usersTable, []User{newUser}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, ErrUnavailable
	}
	return &created[0], nil
}

// GetUserByID fetches a provider user by its UUID.
func (s *providerService) GetUserByID(ctx context.Context, userID string) (*User, error) {
	filters := url.Values{}
	filters.Set("id", eq(userID))

	var users []User
	if err := s.rest.selectRows(ctx, usersTable, filters, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

// UpdateUser patches a provider user; nil fields are left unchanged.
func (s *providerService) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	filters := url.Values{}
	filters.Set("id", eq(userID))

	var updated []User
	if err := s.rest.updateRows(ctx, usersTable, filters, patch, &updated); err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return &updated[0], nil
}

// ListSessions returns all sessions of a provider user.
func (s *providerService) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	filters := url.Values{}
	filters.Set("user_id", eq(userID))
	filters.Set("order", "date.desc")

	var sessions []Session
	if err := s.rest.selectRows(ctx, sessionsTable, filters, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ownedSession loads a session and checks it belongs to the user. A session
// owned by someone else is reported as absent.
func (s *providerService) ownedSession(ctx context.Context, userID, sessionID string) (*Session, error) {
	filters := url.Values{}
	filters.Set("id", eq(sessionID))
	filters.Set("user_id", eq(userID))

	var sessions []Session
	if err := s.rest.selectRows(ctx, sessionsTable, filters, &sessions); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return &sessions[0], nil
}

func (s *providerService) sessionExercises(ctx context.Context, sessionID string) ([]SessionExercise, error) {
	filters := url.Values{}
	filters.Set("session_id", eq(sessionID))
	filters.Set("order", "position.asc")

	var exercises []SessionExercise
	if err := s.rest.selectRows(ctx, exercisesTable, filters, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (s *providerService) exerciseSets(ctx context.Context, exerciseID string) ([]ExerciseSet, error) {
	filters := url.Values{}
	filters.Set("exercise_id", eq(exerciseID))
	filters.Set("order", "set_number.asc")

	var sets []ExerciseSet
	if err := s.rest.selectRows(ctx, setsTable, filters, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// GetSession returns a session with its exercises and sets.
func (s *providerService) GetSession(ctx context.Context, userID, sessionID string) (*SessionDetail, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.sessionExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{
		Session:   *session,
		Exercises: make([]ExerciseDetail, 0, len(exercises)),
	}
	for _, ex := range exercises {
		sets, err := s.exerciseSets(ctx, ex.ID)
		if err != nil {
			return nil, err
		}
		detail.Exercises = append(detail.Exercises, ExerciseDetail{Exercise: ex, Sets: sets})
	}
	return detail, nil
}

// insertExercises writes exercises and their sets in order. Inputs without a
// catalog id are skipped. A set insert failure aborts immediately; rows
// written so far stay in place.
func (s *providerService) insertExercises(ctx context.Context, sessionID string, inputs []ExerciseInput) (int, int, error) {
	exerciseCount, setCount := 0, 0
	for position, input := range inputs {
		if input.CatalogID == "" {
			log.Printf("WARN: skipping session exercise without catalog id at position %d", position)
			continue
		}
		exercise := SessionExercise{
			SessionID: sessionID,
			CatalogID: input.CatalogID,
			Position:  position,
		}
		var created []SessionExercise
		if err := s.rest.insertRow(ctx, exercisesTable, []SessionExercise{exercise}, &created); err != nil {
			return exerciseCount, setCount, err
		}
		if len(created) == 0 {
			return exerciseCount, setCount, ErrUnavailable
		}
		exerciseCount++

		for number, set := range input.Sets {
			row := ExerciseSet{
				ExerciseID: created[0].ID,
				SetNumber:  number + 1,
				Weight:     set.Weight,
				Reps:       set.Reps,
			}
			if err := s.rest.insertRow(ctx, setsTable, []ExerciseSet{row}, nil); err != nil {
				return exerciseCount, setCount, err
			}
			setCount++
		}
	}
	return exerciseCount, setCount, nil
}

// SaveSession persists a full session. Saving the same date twice is
// idempotent: when the existing session already has exercises, nothing is
// written and the current counts are returned.
func (s *providerService) SaveSession(ctx context.Context, userID string, input SessionInput) (*SaveResult, error) {
	filters := url.Values{}
	filters.Set("user_id", eq(userID))
	filters.Set("date", eq(input.Date))

	var existing []Session
	if err := s.rest.selectRows(ctx, sessionsTable, filters, &existing); err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		sessionID := existing[0].ID
		exercises, err := s.sessionExercises(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if len(exercises) > 0 {
			setCount := 0
			for _, ex := range exercises {
				sets, err := s.exerciseSets(ctx, ex.ID)
				if err != nil {
					return nil, err
				}
				setCount += len(sets)
			}
			return &SaveResult{
				SessionID: sessionID,
				Created:   false,
				Exercises: len(exercises),
				Sets:      setCount,
			}, nil
		}

		exerciseCount, setCount, err := s.insertExercises(ctx, sessionID, input.Exercises)
		if err != nil {
			return nil, err
		}
		return &SaveResult{SessionID: sessionID, Created: false, Exercises: exerciseCount, Sets: setCount}, nil
	}

	session := Session{
		UserID: userID,
		Date:   input.Date,
		Notes:  input.Notes,
	}
	var created []Session
	if err := s.rest.insertRow(ctx, sessionsTable, []Session{session}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, ErrUnavailable
	}

	exerciseCount, setCount, err := s.insertExercises(ctx, created[0].ID, input.Exercises)
	if err != nil {
		return nil, err
	}
	return &SaveResult{SessionID: created[0].ID, Created: true, Exercises: exerciseCount, Sets: setCount}, nil
}

// exerciseSignature maps catalog id to total set count. Two exercise lists
// with the same signature are treated as the same workout content.
func exerciseSignature(exercises []ExerciseDetail) map[string]int {
	sig := make(map[string]int)
	for _, ex := range exercises {
		sig[ex.Exercise.CatalogID] += len(ex.Sets)
	}
	return sig
}

func inputSignature(inputs []ExerciseInput) map[string]int {
	sig := make(map[string]int)
	for _, in := range inputs {
		sig[in.CatalogID] += len(in.Sets)
	}
	return sig
}

func signaturesEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// UpdateSessionExercises replaces a session's exercises. When the incoming
// list matches the stored content by catalog id and set count, the call is a
// no-op and reports the current state.
func (s *providerService) UpdateSessionExercises(ctx context.Context, userID, sessionID string, exercises []ExerciseInput) (*SaveResult, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	detail, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if signaturesEqual(exerciseSignature(detail.Exercises), inputSignature(exercises)) {
		setCount := 0
		for _, ex := range detail.Exercises {
			setCount += len(ex.Sets)
		}
		return &SaveResult{
			SessionID: sessionID,
			Created:   false,
			Exercises: len(detail.Exercises),
			Sets:      setCount,
		}, nil
	}

	for _, ex := range detail.Exercises {
		setFilter := url.Values{}
		setFilter.Set("exercise_id", eq(ex.Exercise.ID))
		if err := s.rest.deleteRows(ctx, setsTable, setFilter); err != nil {
			return nil, err
		}
	}
	exerciseFilter := url.Values{}
	exerciseFilter.Set("session_id", eq(sessionID))
	if err := s.rest.deleteRows(ctx, exercisesTable, exerciseFilter); err != nil {
		return nil, err
	}

	exerciseCount, setCount, err := s.insertExercises(ctx, sessionID, exercises)
	if err != nil {
		return nil, err
	}
	return &SaveResult{SessionID: sessionID, Created: false, Exercises: exerciseCount, Sets: setCount}, nil
}

// DeleteSessionExercise removes one exercise and its sets from a session.
func (s *providerService) DeleteSessionExercise(ctx context.Context, userID, sessionID, exerciseID string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	filters := url.Values{}
	filters.Set("id", eq(exerciseID))
	filters.Set("session_id", eq(sessionID))
	var exercises []SessionExercise
	if err := s.rest.selectRows(ctx, exercisesTable, filters, &exercises); err != nil {
		return err
	}
	if len(exercises) == 0 {
		return ErrNotFound
	}

	setFilter := url.Values{}
	setFilter.Set("exercise_id", eq(exerciseID))
	if err := s.rest.deleteRows(ctx, setsTable, setFilter); err != nil {
		return err
	}
	return s.rest.deleteRows(ctx, exercisesTable, filters)
}

// DeleteSession removes a session and its dependent rows, leaves first.
func (s *providerService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	exercises, err := s.sessionExercises(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, ex := range exercises {
		setFilter := url.Values{}
		setFilter.Set("exercise_id", eq(ex.ID))
		if err := s.rest.deleteRows(ctx, setsTable, setFilter); err != nil {
			return err
		}
	}

	exerciseFilter := url.Values{}
	exerciseFilter.Set("session_id", eq(sessionID))
	if err := s.rest.deleteRows(ctx, exercisesTable, exerciseFilter); err != nil {
		return err
	}

	sessionFilter := url.Values{}
	sessionFilter.Set("id", eq(sessionID))
	sessionFilter.Set("user_id", eq(userID))
	return s.rest.deleteRows(ctx, sessionsTable, sessionFilter)
}
