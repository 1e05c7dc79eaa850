package authsvc

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Mock implements the Service interface with an in-memory account table.
// Used in tests and local development without a hosted auth provider.
type Mock struct {
	mu       sync.Mutex
	accounts map[string]mockAccount
	nextID   int
}

type mockAccount struct {
	id       string
	password string
}

func NewMock() *Mock {
	return &Mock{accounts: make(map[string]mockAccount)}
}

// Seed registers an account with a fixed id, bypassing SignUp.
func (m *Mock) Seed(id, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[email] = mockAccount{id: id, password: password}
}

func (m *Mock) SignUp(_ context.Context, email, password string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[email]; exists {
		return Identity{}, &AuthError{StatusCode: http.StatusBadRequest, Message: "User already registered"}
	}
	m.nextID++
	account := mockAccount{id: fmt.Sprintf("mock-user-%d", m.nextID), password: password}
	m.accounts[email] = account
	return Identity{ID: account.id, Email: email}, nil
}

func (m *Mock) SignIn(_ context.Context, email, password string) (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, exists := m.accounts[email]
	if !exists || account.password != password {
		return Credentials{}, &AuthError{StatusCode: http.StatusUnauthorized, Message: "Invalid login credentials"}
	}
	return Credentials{
		Identity:    Identity{ID: account.id, Email: email},
		AccessToken: "mock-access-token-" + account.id,
		ExpiresAt:   time.Now().Add(defaultTokenLifetime),
	}, nil
}
