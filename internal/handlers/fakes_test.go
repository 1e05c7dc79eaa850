package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campus-feedback-backend/internal/authsvc"
	"campus-feedback-backend/internal/middleware"
	"campus-feedback-backend/internal/models"
	"campus-feedback-backend/internal/notify"
	"campus-feedback-backend/internal/reconcile"
	"campus-feedback-backend/internal/repository"
	"campus-feedback-backend/internal/sentiment"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var testAdmin = reconcile.Admin{Email: "yashpatil@admin.com", Name: "Yash Patil (Admin)"}

// --- In-memory stores ---

type fakeUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == user.ID || u.Email == user.Email {
			return fmt.Errorf("%w: users", repository.ErrDuplicate)
		}
	}
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *fakeUserStore) SetAdmin(_ context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.IsAdmin = true
			u.Name = name
			return nil
		}
	}
	return fmt.Errorf("no such user %s", id)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.CreatedAt = time.Now()
	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *fakeSessionStore) FindByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

type fakeFeedbackStore struct {
	mu      sync.Mutex
	entries []models.Feedback
}

func (s *fakeFeedbackStore) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedback.ID = bson.NewObjectID()
	feedback.CreatedAt = time.Now().Add(time.Duration(len(s.entries)) * time.Millisecond)
	s.entries = append(s.entries, *feedback)
	return nil
}

func (s *fakeFeedbackStore) FindAll(_ context.Context) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Feedback{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *fakeFeedbackStore) FindByStudent(_ context.Context, studentID string) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Feedback{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].StudentID == studentID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

// --- Test environment ---

type testEnv struct {
	router   http.Handler
	auth     *authsvc.Mock
	users    *fakeUserStore
	sessions *fakeSessionStore
	feedback *fakeFeedbackStore
}

// newTestEnv wires the handlers into a router mirroring cmd/server.
func newTestEnv(classifier sentiment.Classifier) *testEnv {
	env := &testEnv{
		auth:     authsvc.NewMock(),
		users:    &fakeUserStore{},
		sessions: newFakeSessionStore(),
		feedback: &fakeFeedbackStore{},
	}

	authHandler := NewAuthHandler(env.auth, env.users, env.sessions, testAdmin, false)
	feedbackHandler := NewFeedbackHandler(env.feedback, classifier, notify.NewLogNotifier())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(env.sessions))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/status", authHandler.Status)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/submit", feedbackHandler.Submit)
			r.Get("/all", feedbackHandler.All)
			r.Get("/stats", feedbackHandler.Stats)
			r.Get("/my-feedback", feedbackHandler.MyFeedback)
			r.Get("/analytics", feedbackHandler.Analytics)
		})
	})

	env.router = r
	return env
}

// seedSession creates a session directly in the store and returns its cookie.
func (e *testEnv) seedSession(t *testing.T, user models.SessionUser) *http.Cookie {
	t.Helper()
	session := &models.Session{
		Token:       uuid.New().String(),
		User:        user,
		AccessToken: "test-access-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, e.sessions.Create(context.Background(), session))
	return &http.Cookie{Name: middleware.CookieName, Value: session.Token}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
