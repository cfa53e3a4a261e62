package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pixvault/pixvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, external string) *models.User {
	t.Helper()

	user := &models.User{FirstName: "Ada", LastName: "Lovelace", ExternalID: external}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedImages creates n images for the author with strictly increasing
// update times so the updated_at ordering is deterministic.
func seedImages(t *testing.T, db *gorm.DB, authorID uint, n int) []models.Image {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	images := make([]models.Image, 0, n)
	for i := 0; i < n; i++ {
		img := models.Image{
			AuthorID: authorID,
			PublicID: fmt.Sprintf("img_%d", i),
			URL:      fmt.Sprintf("https://assets.example.com/img_%d.png", i),
		}
		require.NoError(t, db.Create(&img).Error)
		require.NoError(t, db.Model(&img).
			UpdateColumn("updated_at", base.Add(time.Duration(i)*time.Minute)).Error)
		images = append(images, img)
	}

	return images
}

func TestImageRepositoryCreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "auth_1")
	repo := NewImageRepository(db)

	img := &models.Image{
		AuthorID: user.ID,
		PublicID: "sunset",
		URL:      "https://assets.example.com/sunset.png",
		Metadata: datatypes.JSON([]byte(`{"width":1024,"height":768}`)),
	}
	require.NoError(t, repo.Create(ctx, img))
	require.NotZero(t, img.ID)

	found, err := repo.FindByID(ctx, img.ID)
	require.NoError(t, err)

	assert.Equal(t, "sunset", found.PublicID)
	assert.JSONEq(t, `{"width":1024,"height":768}`, string(found.Metadata))

	// Author is populated with the allow-listed fields only.
	assert.Equal(t, user.ID, found.Author.ID)
	assert.Equal(t, "Ada", found.Author.FirstName)
	assert.Equal(t, "Lovelace", found.Author.LastName)
	assert.Equal(t, "auth_1", found.Author.ExternalID)
}

func TestImageRepositoryFindMissing(t *testing.T) {
	db := setupTestDB(t)

	repo := NewImageRepository(db)
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestImageRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "auth_1")
	repo := NewImageRepository(db)
	images := seedImages(t, db, user.ID, 1)

	require.NoError(t, repo.Delete(ctx, images[0].ID))

	_, err := repo.FindByID(ctx, images[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again reports absence.
	assert.ErrorIs(t, repo.Delete(ctx, images[0].ID), gorm.ErrRecordNotFound)
}

func TestImageRepositoryListPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "auth_1")
	repo := NewImageRepository(db)
	seedImages(t, db, user.ID, 5)

	page1, err := repo.List(ctx, ListFilter{}, 0, 2)
	require.NoError(t, err)
	page2, err := repo.List(ctx, ListFilter{}, 2, 2)
	require.NoError(t, err)

	require.Len(t, page1, 2)
	require.Len(t, page2, 2)

	// Most recently updated first: img_4, img_3, then img_2, img_1.
	assert.Equal(t, "img_4", page1[0].PublicID)
	assert.Equal(t, "img_3", page1[1].PublicID)
	assert.Equal(t, "img_2", page2[0].PublicID)
	assert.Equal(t, "img_1", page2[1].PublicID)

	// The two pages line up with the first four of a double-size page.
	combined, err := repo.List(ctx, ListFilter{}, 0, 4)
	require.NoError(t, err)
	require.Len(t, combined, 4)
	for i, img := range append(page1[:len(page1):len(page1)], page2...) {
		assert.Equal(t, img.ID, combined[i].ID)
	}
}

func TestImageRepositoryFilterByPublicIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "auth_1")
	repo := NewImageRepository(db)
	seedImages(t, db, user.ID, 4)

	matches, err := repo.List(ctx, ListFilter{PublicIDs: []string{"img_1", "img_3"}}, 0, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "img_3", matches[0].PublicID)
	assert.Equal(t, "img_1", matches[1].PublicID)

	// An empty candidate set matches nothing.
	none, err := repo.List(ctx, ListFilter{PublicIDs: []string{}}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := repo.Count(ctx, ListFilter{PublicIDs: []string{"img_1", "img_3"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestImageRepositoryCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "auth_alice")
	bob := createTestUser(t, db, "auth_bob")
	repo := NewImageRepository(db)

	seedImages(t, db, alice.ID, 3)
	for i := 0; i < 2; i++ {
		img := models.Image{AuthorID: bob.ID, PublicID: fmt.Sprintf("bob_%d", i)}
		require.NoError(t, db.Create(&img).Error)
	}

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	forAlice, err := repo.Count(ctx, ListFilter{AuthorID: &alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, forAlice)
}
