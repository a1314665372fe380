package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func newTestRecord(id string) *Record {
	return &Record{
		ID:       id,
		UserID:   7,
		Username: "zhangsan",
		IssuedAt: time.Now().Truncate(time.Second),
		Data:     map[string]interface{}{"theme": "dark"},
		Cookie: Cookie{
			MaxAge:   3600,
			Path:     "/",
			HTTPOnly: true,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec := newTestRecord("sid-1")
	require.NoError(t, store.Write(ctx, "sid-1", rec))

	got, err := store.Read(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.Equal(t, rec.Username, got.Username)
	assert.Equal(t, rec.Cookie.MaxAge, got.Cookie.MaxAge)
	assert.Equal(t, "dark", got.Data["theme"])
}

func TestReadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Read(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDestroy(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "sid-1", newTestRecord("sid-1")))
	require.NoError(t, store.Destroy(ctx, "sid-1"))

	got, err := store.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// 幂等：再次销毁不报错
	require.NoError(t, store.Destroy(ctx, "sid-1"))
}

func TestKeyNamespace(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Write(context.Background(), "sid-1", newTestRecord("sid-1")))
	assert.True(t, mr.Exists("session:sid-1"))
}

func TestWriteSetsBackendTTL(t *testing.T) {
	store, mr := newTestStore(t)

	rec := newTestRecord("sid-1")
	rec.Cookie.MaxAge = 60
	require.NoError(t, store.Write(context.Background(), "sid-1", rec))

	ttl := mr.TTL("session:sid-1")
	assert.Equal(t, time.Minute, ttl)
}

func TestTouchRefreshesExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	rec := newTestRecord("sid-1")
	rec.Cookie.MaxAge = 60
	require.NoError(t, store.Write(ctx, "sid-1", rec))

	// 时间推进后touch应重置过期时间
	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Touch(ctx, "sid-1", rec))
	assert.Equal(t, time.Minute, mr.TTL("session:sid-1"))
}

func TestExpiredSessionAbsent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	rec := newTestRecord("sid-1")
	rec.Cookie.MaxAge = 60
	require.NoError(t, store.Write(ctx, "sid-1", rec))

	mr.FastForward(2 * time.Minute)

	got, err := store.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCorruptPayloadIsError(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Set("session:broken", "{not json")

	got, err := store.Read(context.Background(), "broken")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestNewID(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 43) // 32字节的base64编码长度
}
