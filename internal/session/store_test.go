package session

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_CreateGetDelete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	staff := domain.Identity{
		Role:        domain.RoleStaff,
		UserID:      "ops",
		DisplayName: "Ada",
		AirlineName: "China Eastern",
		Permissions: []domain.Permission{domain.PermissionAdmin},
	}

	id, err := store.Create(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, id, 32)
	assert.True(t, mr.Exists("session:"+id))
	assert.Equal(t, time.Hour, mr.TTL("session:"+id))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, staff, *got)
	assert.True(t, got.Has(domain.PermissionAdmin))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_IDsAreUnique(t *testing.T) {
	store, _ := newStore(t)
	identity := domain.Identity{Role: domain.RoleCustomer, UserID: "alice@example.com"}

	first, err := store.Create(context.Background(), identity)
	require.NoError(t, err)
	second, err := store.Create(context.Background(), identity)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRedisStore_Expired(t *testing.T) {
	store, mr := newStore(t)

	id, err := store.Create(context.Background(), domain.Identity{Role: domain.RoleAgent, UserID: "agent@example.com"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_GetDoesNotExtendExpiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, domain.Identity{Role: domain.RoleCustomer, UserID: "alice@example.com"})
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL("session:"+id))

	mr.FastForward(11 * time.Minute)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_RejectsUnauthenticatedPayload(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("session:bogus", `{"role":"pilot","user_id":"x"}`))

	_, err := store.Get(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}
