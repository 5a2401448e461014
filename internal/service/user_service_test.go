package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpForm() model.SignUpForm {
	return model.SignUpForm{
		Name:            "Ann Lee",
		Email:           "ann@example.com",
		Phone:           "+1 555 0100",
		Password:        "secret",
		ConfirmPassword: "secret",
	}
}

func TestSignUpAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	profile, err := h.users.SignUp(ctx, signUpForm())
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), profile.UserID)
	assert.True(t, h.users.Session(ctx).UserLoggedIn())

	_, err = h.users.SignUp(ctx, signUpForm())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, h.store.Users(ctx), 1)

	require.NoError(t, h.users.Logout(ctx, session.KindUser))
	assert.False(t, h.users.Session(ctx).UserLoggedIn())

	_, err = h.users.Login(ctx, "ANN@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.users.Login(ctx, "", "")
	assert.True(t, validation.IsValidation(err))

	profile, err = h.users.Login(ctx, "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", profile.Name)
	assert.Equal(t, model.OwnerID("1747735200000"), h.users.Session(ctx).Owner())
}

func TestAdminLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.users.AdminLogin(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	profile, err := h.users.AdminLogin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
	assert.True(t, h.users.Session(ctx).AdminLoggedIn())
	assert.False(t, h.users.Session(ctx).UserLoggedIn())
}

func TestSettings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Equal(t, domain.DefaultHotelInfo(), h.settings.HotelInfo(ctx))

	info := domain.DefaultHotelInfo()
	info.Name = "Lakeside"
	h.settings.UpdateHotelInfo(ctx, info)
	assert.Equal(t, "Lakeside", h.settings.HotelInfo(ctx).Name)

	h.store.PutRooms(ctx, domain.DefaultRooms())
	h.resetEvents()
	h.settings.ResetSystem(ctx)

	assert.Empty(t, h.store.Rooms(ctx))
	assert.Equal(t, domain.DefaultHotelInfo(), h.settings.HotelInfo(ctx))
	assert.Equal(t, []eventbus.Event{eventbus.DataRefreshEvent{Source: eventbus.SourceSystemReset}}, h.Events())
}
