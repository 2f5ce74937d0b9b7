package repositories

import (
	"context"
	"testing"

	"filatrack/internal/database"

	. "filatrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}
	require.NoError(t, db.MigrateModels())

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createGroup(t *testing.T, db database.DB, repo LinkGroupRepository, name string) *LinkGroup {
	t.Helper()

	group := &LinkGroup{Name: name}
	require.NoError(t, repo.Create(context.Background(), db.SQL, group))
	return group
}

func TestLinkGroupIdentityExclusivity(t *testing.T) {
	db := testDB(t)
	repo := NewLinkGroupRepository()
	ctx := context.Background()

	identity := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Prusament"}

	first := createGroup(t, db, repo, "Black PLA")
	second := createGroup(t, db, repo, "Dark Filaments")

	link, err := repo.AddIdentity(ctx, db.SQL, first.ID, identity)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, first.ID, link.GroupID)

	t.Run("Re-adding to the same group is idempotent", func(t *testing.T) {
		again, err := repo.AddIdentity(ctx, db.SQL, first.ID, identity)

		require.NoError(t, err)
		assert.Equal(t, link.ID, again.ID)

		var count int64
		require.NoError(t, db.SQL.Model(&LinkedIdentity{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Adding to a different group is rejected", func(t *testing.T) {
		_, err := repo.AddIdentity(ctx, db.SQL, second.ID, identity)

		assert.ErrorIs(t, err, ErrIdentityLinkedElsewhere)
	})

	t.Run("Removal frees the identity for another group", func(t *testing.T) {
		require.NoError(t, repo.RemoveIdentity(ctx, db.SQL, first.ID, identity))

		moved, err := repo.AddIdentity(ctx, db.SQL, second.ID, identity)
		require.NoError(t, err)
		assert.Equal(t, second.ID, moved.GroupID)

		// The unlink must physically drop the old row, otherwise the unique
		// index on (type, color, brand) would still reject the new link.
		var count int64
		require.NoError(t, db.SQL.Model(&LinkedIdentity{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Removal and re-add to the original group", func(t *testing.T) {
		require.NoError(t, repo.RemoveIdentity(ctx, db.SQL, second.ID, identity))

		back, err := repo.AddIdentity(ctx, db.SQL, first.ID, identity)
		require.NoError(t, err)
		assert.Equal(t, first.ID, back.GroupID)
	})
}

func TestLinkGroupRemoveIdentityNotLinked(t *testing.T) {
	db := testDB(t)
	repo := NewLinkGroupRepository()
	ctx := context.Background()

	group := createGroup(t, db, repo, "Empty Group")
	identity := FilamentIdentity{Type: "PETG", Color: "Clear", Brand: "Overture"}

	err := repo.RemoveIdentity(ctx, db.SQL, group.ID, identity)

	assert.ErrorIs(t, err, ErrIdentityNotLinked)
}

func TestLinkGroupDeleteRemovesLinks(t *testing.T) {
	db := testDB(t)
	repo := NewLinkGroupRepository()
	ctx := context.Background()

	group := createGroup(t, db, repo, "Doomed")
	identity := FilamentIdentity{Type: "ABS", Color: "White", Brand: "Polymaker"}
	_, err := repo.AddIdentity(ctx, db.SQL, group.ID, identity)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, db.SQL, group.ID))

	var count int64
	require.NoError(t, db.SQL.Model(&LinkedIdentity{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	link, err := repo.FindLink(ctx, db.SQL, identity)
	require.NoError(t, err)
	assert.Nil(t, link)

	t.Run("Identity is linkable again after the group is gone", func(t *testing.T) {
		replacement := createGroup(t, db, repo, "Phoenix")

		relinked, err := repo.AddIdentity(ctx, db.SQL, replacement.ID, identity)
		require.NoError(t, err)
		assert.Equal(t, replacement.ID, relinked.GroupID)
	})
}

func TestIdealQuantityUpsert(t *testing.T) {
	db := testDB(t)
	repo := NewIdealQuantityRepository()
	ctx := context.Background()

	identity := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Prusament"}

	_, err := repo.Set(ctx, db.SQL, identity, 1000)
	require.NoError(t, err)

	updated, err := repo.Set(ctx, db.SQL, identity, 2500)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.Quantity)

	var count int64
	require.NoError(t, db.SQL.Model(&IdealQuantity{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	quantity, err := repo.Get(ctx, db.SQL, identity)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, quantity)

	t.Run("Missing target reads as zero", func(t *testing.T) {
		quantity, err := repo.Get(ctx, db.SQL, FilamentIdentity{
			Type: "TPU", Color: "Red", Brand: "NinjaTek",
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, quantity)
	})
}
