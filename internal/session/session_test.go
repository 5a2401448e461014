package session

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvider_LoginLogout(t *testing.T) {
	kv := storage.NewMemoryKV()
	p := NewProvider(storage.NewStore(kv, zap.NewNop()))
	ctx := context.Background()

	assert.False(t, p.Current(ctx).UserLoggedIn())

	require.NoError(t, p.Login(ctx, UserPrincipal{UserID: 1718000000000, Name: "Ann", Email: "ann@example.com", LoginTime: time.Now()}))
	require.NoError(t, p.Login(ctx, AdminPrincipal{Username: "admin", Name: "Hotel Admin", Role: "administrator"}))

	st := p.Current(ctx)
	require.True(t, st.UserLoggedIn())
	require.True(t, st.AdminLoggedIn())
	assert.Equal(t, model.OwnerID("1718000000000"), st.Owner())
	assert.Equal(t, "admin", st.Admin.Username)

	flag, err := kv.Get(ctx, storage.KeyUserLoggedIn)
	require.NoError(t, err)
	assert.Equal(t, "true", flag)

	require.NoError(t, p.Logout(ctx, KindUser))
	st = p.Current(ctx)
	assert.False(t, st.UserLoggedIn())
	assert.True(t, st.AdminLoggedIn(), "sessions are independent")
	assert.Equal(t, model.OwnerID(""), st.Owner())

	assert.Error(t, p.Logout(ctx, Kind("guest")))
}

func TestProvider_OwnerFallsBackToEmail(t *testing.T) {
	p := NewProvider(storage.NewStore(storage.NewMemoryKV(), zap.NewNop()))
	ctx := context.Background()

	require.NoError(t, p.Login(ctx, UserPrincipal{Email: "bob@example.com"}))

	assert.Equal(t, model.OwnerID("bob@example.com"), p.Current(ctx).Owner())
}

func TestProvider_CorruptProfileIsLoggedOut(t *testing.T) {
	kv := storage.NewMemoryKV()
	p := NewProvider(storage.NewStore(kv, zap.NewNop()))
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, storage.KeyAdminLoggedIn, "true"))
	require.NoError(t, kv.Set(ctx, storage.KeyAdminUser, "{"))

	assert.False(t, p.Current(ctx).AdminLoggedIn())
}
