package user

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserPermission{}))
	return NewRepositoryWithDB(db), db
}

func seedUser(t *testing.T, repo Repository, username, role string, status int8) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "hashed",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoadIdentity(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, repo, "alice", "user", 1)
	require.NoError(t, repo.ReplaceGrants(ctx, u.ID, []string{"dashboard", "clients"}))

	identity, err := repo.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "user", identity.Role)
	assert.ElementsMatch(t, []string{"dashboard", "clients"}, identity.Permissions)
}

func TestLoadIdentity_MissingUser(t *testing.T) {
	repo, _ := newTestRepo(t)

	identity, err := repo.LoadIdentity(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestLoadIdentity_DisabledUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, repo, "bob", "user", 0)

	identity, err := repo.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestReplaceGrants(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, repo, "carol", "user", 1)
	require.NoError(t, repo.ReplaceGrants(ctx, u.ID, []string{"dashboard", "revenue"}))

	// 整体替换，旧授予全部清除
	require.NoError(t, repo.ReplaceGrants(ctx, u.ID, []string{"contracts"}))

	identity, err := repo.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, []string{"contracts"}, identity.Permissions)

	var count int64
	require.NoError(t, db.Model(&model.UserPermission{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReplaceGrants_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, repo, "dave", "user", 1)
	require.NoError(t, repo.ReplaceGrants(ctx, u.ID, []string{"dashboard"}))
	require.NoError(t, repo.ReplaceGrants(ctx, u.ID, nil))

	identity, err := repo.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Empty(t, identity.Permissions)
}

func TestFindByUsername(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "erin", "admin", 1)

	found, err := repo.FindByUsername(ctx, "erin")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "admin", found.Role)

	missing, err := repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
