package session

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
)

type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Principal is a profile that can be logged in.
type Principal interface {
	SessionKind() Kind
}

// UserPrincipal wraps a guest profile.
type UserPrincipal model.UserProfile

func (UserPrincipal) SessionKind() Kind { return KindUser }

// AdminPrincipal wraps an admin profile.
type AdminPrincipal model.AdminProfile

func (AdminPrincipal) SessionKind() Kind { return KindAdmin }

// State is the snapshot returned by Current. A nil profile means logged out.
type State struct {
	User  *model.UserProfile
	Admin *model.AdminProfile
}

func (s State) UserLoggedIn() bool  { return s.User != nil }
func (s State) AdminLoggedIn() bool { return s.Admin != nil }

// Owner returns the booking owner for the logged-in user, or "".
func (s State) Owner() model.OwnerID {
	if s.User == nil {
		return ""
	}
	return s.User.Owner()
}

// Provider is the only reader and writer of the session keys.
type Provider struct {
	store *storage.Store
}

func NewProvider(store *storage.Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Login(ctx context.Context, principal Principal) error {
	switch v := principal.(type) {
	case UserPrincipal:
		p.store.PutJSON(ctx, storage.KeyUserData, model.UserProfile(v))
		p.store.SetFlag(ctx, storage.KeyUserLoggedIn, true)
	case AdminPrincipal:
		p.store.PutJSON(ctx, storage.KeyAdminUser, model.AdminProfile(v))
		p.store.SetFlag(ctx, storage.KeyAdminLoggedIn, true)
	default:
		return fmt.Errorf("login: unsupported principal %T", principal)
	}
	return nil
}

func (p *Provider) Logout(ctx context.Context, kind Kind) error {
	switch kind {
	case KindUser:
		p.store.Remove(ctx, storage.KeyUserLoggedIn, storage.KeyUserData)
	case KindAdmin:
		p.store.Remove(ctx, storage.KeyAdminLoggedIn, storage.KeyAdminUser)
	default:
		return fmt.Errorf("logout: unknown session kind %q", kind)
	}
	return nil
}

// Current reads both sessions. A set flag with an unreadable profile
// counts as logged out.
func (p *Provider) Current(ctx context.Context) State {
	var st State

	if p.store.Flag(ctx, storage.KeyUserLoggedIn) {
		var profile model.UserProfile
		if p.store.GetJSON(ctx, storage.KeyUserData, &profile) {
			st.User = &profile
		}
	}
	if p.store.Flag(ctx, storage.KeyAdminLoggedIn) {
		var profile model.AdminProfile
		if p.store.GetJSON(ctx, storage.KeyAdminUser, &profile) {
			st.Admin = &profile
		}
	}
	return st
}
