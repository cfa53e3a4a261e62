package repository

import (
	"context"

	"github.com/pixvault/pixvault/models"
	"gorm.io/gorm"
)

// ListFilter narrows image queries. A nil PublicIDs slice means no
// search restriction; an empty non-nil slice matches nothing (the
// search gateway returned no candidates).
type ListFilter struct {
	AuthorID  *uint
	PublicIDs []string
}

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// authorProjection restricts the populated author to the allow-listed
// fields exposed by the API.
func authorProjection(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "first_name", "last_name", "external_id")
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByID fetches an image with its author populated.
func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).
		Preload("Author", authorProjection).
		First(&image, id).Error
	if err != nil {
		return nil, err
	}

	return &image, nil
}

// Save persists all mutable fields of an existing image. The author
// association is never written back.
func (r *ImageRepository) Save(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Omit("Author").Save(image).Error
}

// Delete removes an image record. Deleting an absent id reports
// gorm.ErrRecordNotFound.
func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.Image{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// List returns one page of images matching the filter, most recently
// updated first, with authors populated.
func (r *ImageRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]models.Image, error) {
	var images []models.Image
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Author", authorProjection).
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, err
	}

	return images, nil
}

// Count returns the number of images matching the filter.
func (r *ImageRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Image{}), filter).
		Count(&count).Error

	return count, err
}

// CountAll returns the total number of stored images, ignoring filters.
func (r *ImageRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Image{}).Count(&count).Error

	return count, err
}

func (r *ImageRepository) applyFilter(tx *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.AuthorID != nil {
		tx = tx.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.PublicIDs != nil {
		tx = tx.Where("public_id IN ?", filter.PublicIDs)
	}

	return tx
}
