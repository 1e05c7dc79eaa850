// Package reconcile guarantees that an authenticated identity has a matching
// profile record, and that the reserved administrator account always carries
// the admin flag and canonical display name.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-feedback-backend/internal/authsvc"
	"campus-feedback-backend/internal/models"
)

// ErrUserRecordUnresolvable means lookup, creation, and the retry lookup all
// failed. The caller must not establish a session.
var ErrUserRecordUnresolvable = errors.New("user record could not be resolved")

// UserStore is the slice of the user repository reconciliation needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetAdmin(ctx context.Context, id, name string) error
}

// Admin is the reserved administrator identity. Any record with this email
// is forced to carry the admin flag and canonical name.
type Admin struct {
	Email string
	Name  string
}

// Resolve finds or creates the profile record for an authenticated identity.
// Lookup is by id first, then by email — the external store's id index may
// lag inside eventual-consistency windows. If creation loses a race, the
// email lookup is retried once before giving up.
func Resolve(ctx context.Context, store UserStore, admin Admin, identity authsvc.Identity) (*models.User, error) {
	user, err := store.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = store.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		user = NewProfile(admin, identity.ID, identity.Email, "")
		if createErr := store.Create(ctx, user); createErr != nil {
			// A concurrent login may have created the row; look again.
			user, err = store.FindByEmail(ctx, identity.Email)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, fmt.Errorf("%w: %v", ErrUserRecordUnresolvable, createErr)
			}
		}
	}

	// Always re-checked regardless of path taken: self-heal records created
	// before the reserved address was designated administrator.
	if user.Email == admin.Email && !user.IsAdmin {
		if err := store.SetAdmin(ctx, user.ID, admin.Name); err != nil {
			return nil, err
		}
		user.IsAdmin = true
		user.Name = admin.Name
	}

	return user, nil
}

// NewProfile builds a profile record for a fresh identity. The display name
// defaults to the local part of the email unless the identity is the
// reserved administrator.
func NewProfile(admin Admin, id, email, name string) *models.User {
	if email == admin.Email {
		return &models.User{ID: id, Email: email, Name: admin.Name, IsAdmin: true}
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &models.User{ID: id, Email: email, Name: name}
}
