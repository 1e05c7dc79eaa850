package reconcile

import (
	"context"
	"errors"
	"testing"

	"campus-feedback-backend/internal/authsvc"
	"campus-feedback-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAdmin = Admin{Email: "yashpatil@admin.com", Name: "Yash Patil (Admin)"}

// fakeStore is an in-memory UserStore with failure injection.
type fakeStore struct {
	users     []*models.User
	createErr error
	// raceOnCreate simulates a concurrent login inserting the row between
	// the failed create and the retry lookup.
	raceOnCreate bool
	createCalls  int
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(_ context.Context, user *models.User) error {
	s.createCalls++
	if s.createErr != nil {
		if s.raceOnCreate {
			raced := *user
			raced.ID = "raced-" + user.ID
			s.users = append(s.users, &raced)
		}
		return s.createErr
	}
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *fakeStore) SetAdmin(_ context.Context, id, name string) error {
	for _, u := range s.users {
		if u.ID == id {
			u.IsAdmin = true
			u.Name = name
			return nil
		}
	}
	return errors.New("no such user")
}

func TestResolveCreatesProfileWithLocalPartName(t *testing.T) {
	store := &fakeStore{}

	user, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "u1", Email: "alice@students.edu"})
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.False(t, user.IsAdmin)
	assert.Len(t, store.users, 1)
}

func TestResolveAdminFirstLogin(t *testing.T) {
	store := &fakeStore{}

	user, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "admin-1", Email: testAdmin.Email})
	require.NoError(t, err)

	assert.True(t, user.IsAdmin)
	assert.Equal(t, testAdmin.Name, user.Name)
}

func TestResolveIdempotent(t *testing.T) {
	store := &fakeStore{}
	identity := authsvc.Identity{ID: "u1", Email: "alice@students.edu"}

	first, err := Resolve(context.Background(), store, testAdmin, identity)
	require.NoError(t, err)
	second, err := Resolve(context.Background(), store, testAdmin, identity)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.users, 1, "no duplicate records")
	assert.Equal(t, 1, store.createCalls)
}

func TestResolveFallsBackToEmailLookup(t *testing.T) {
	// The id index may lag the email index in the external store.
	store := &fakeStore{users: []*models.User{
		{ID: "old-id", Email: "alice@students.edu", Name: "alice"},
	}}

	user, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "new-id", Email: "alice@students.edu"})
	require.NoError(t, err)

	assert.Equal(t, "old-id", user.ID)
	assert.Equal(t, 0, store.createCalls)
}

func TestResolveRetriesLookupAfterCreateRace(t *testing.T) {
	store := &fakeStore{
		createErr:    errors.New("duplicate key"),
		raceOnCreate: true,
	}

	user, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "u1", Email: "alice@students.edu"})
	require.NoError(t, err)

	assert.Equal(t, "raced-u1", user.ID)
}

func TestResolveUnresolvable(t *testing.T) {
	store := &fakeStore{createErr: errors.New("insert rejected")}

	_, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "u1", Email: "alice@students.edu"})
	assert.ErrorIs(t, err, ErrUserRecordUnresolvable)
}

func TestResolveHealsAdminFlag(t *testing.T) {
	// Record created before the reserved address was designated administrator.
	store := &fakeStore{users: []*models.User{
		{ID: "admin-1", Email: testAdmin.Email, Name: "yashpatil", IsAdmin: false},
	}}

	user, err := Resolve(context.Background(), store, testAdmin, authsvc.Identity{ID: "admin-1", Email: testAdmin.Email})
	require.NoError(t, err)

	assert.True(t, user.IsAdmin)
	assert.Equal(t, testAdmin.Name, user.Name)

	// The healing is persisted, not just reflected in the return value.
	stored, err := store.FindByID(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
	assert.Equal(t, testAdmin.Name, stored.Name)
}

func TestNewProfileKeepsSuppliedName(t *testing.T) {
	profile := NewProfile(testAdmin, "u1", "bob@students.edu", "Bobby")
	assert.Equal(t, "Bobby", profile.Name)
	assert.False(t, profile.IsAdmin)
}

func TestNewProfileIgnoresSuppliedNameForAdmin(t *testing.T) {
	profile := NewProfile(testAdmin, "admin-1", testAdmin.Email, "Someone Else")
	assert.Equal(t, testAdmin.Name, profile.Name)
	assert.True(t, profile.IsAdmin)
}
