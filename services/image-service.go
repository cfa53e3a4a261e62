package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pixvault/pixvault/models"
	"github.com/pixvault/pixvault/repository"
	"github.com/pixvault/pixvault/signals"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultPageSize is used when a list request does not specify a limit.
const DefaultPageSize = 9

// homePath is invalidated after deletions; the delete handler also
// redirects there.
const homePath = "/"

// MediaSearcher returns the public identifiers of assets matching a
// search term within the configured folder.
type MediaSearcher interface {
	Search(ctx context.Context, term string) ([]string, error)
}

type ImageService struct {
	users  *repository.UserRepository
	images *repository.ImageRepository
	search MediaSearcher // nil when the asset store is not configured
	signal signals.Invalidator
}

func NewImageService(
	users *repository.UserRepository,
	images *repository.ImageRepository,
	search MediaSearcher,
	signal signals.Invalidator,
) *ImageService {
	return &ImageService{
		users:  users,
		images: images,
		search: search,
		signal: signal,
	}
}

type AddImageInput struct {
	AuthorID uint
	PublicID string
	URL      string
	Metadata json.RawMessage
	Path     string
}

type UpdateImageInput struct {
	ID       uint
	AuthorID uint
	PublicID string
	URL      string
	Metadata json.RawMessage
	Path     string
}

type ListQuery struct {
	Limit  int
	Page   int
	Search string
}

func (q *ListQuery) normalize() {
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
}

func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// AuthorResult is the allow-listed author projection.
type AuthorResult struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ExternalID string `json:"external_id"`
}

// ImageResult is the plain serializable shape returned by every
// operation, with store-internal types stripped.
type ImageResult struct {
	ID        uint            `json:"id"`
	PublicID  string          `json:"public_id"`
	URL       string          `json:"url"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Author    *AuthorResult   `json:"author,omitempty"`
}

type ImagePage struct {
	Data       []ImageResult `json:"data"`
	TotalPages int64         `json:"totalPages"`
	// SavedImages counts every stored image, ignoring the search
	// filter. Set only by ListAll, so a zero count still serializes
	// there while ListByUser payloads omit the field entirely.
	SavedImages *int64 `json:"savedImages,omitempty"`
}

// Add creates an image owned by the resolved author and signals cache
// invalidation for the given path.
func (s *ImageService) Add(ctx context.Context, in AddImageInput) (*ImageResult, error) {
	author, err := s.users.FindByID(ctx, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving author: %w", err)
	}

	image := &models.Image{
		AuthorID: author.ID,
		PublicID: in.PublicID,
		URL:      in.URL,
		Metadata: datatypes.JSON(in.Metadata),
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("creating image: %w", err)
	}

	s.signal.Invalidate(in.Path)

	image.Author = *author
	return toImageResult(image), nil
}

// Update replaces the mutable fields of an image after verifying the
// caller owns it. The author is never reassigned.
func (s *ImageService) Update(ctx context.Context, in UpdateImageInput) (*ImageResult, error) {
	image, err := s.images.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("fetching image: %w", err)
	}

	if image.AuthorID != in.AuthorID {
		return nil, ErrNotOwner
	}

	image.PublicID = in.PublicID
	image.URL = in.URL
	image.Metadata = datatypes.JSON(in.Metadata)
	if err := s.images.Save(ctx, image); err != nil {
		return nil, fmt.Errorf("updating image: %w", err)
	}

	s.signal.Invalidate(in.Path)

	return toImageResult(image), nil
}

// Delete removes an image after verifying ownership. The home-path
// invalidation signal fires on every exit path, success or failure.
func (s *ImageService) Delete(ctx context.Context, imageID, userID uint) error {
	defer s.signal.Invalidate(homePath)

	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("fetching image: %w", err)
	}

	if image.AuthorID != userID {
		return ErrNotOwner
	}

	if err := s.images.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}

	return nil
}

// GetByID fetches a single image with its author populated.
func (s *ImageService) GetByID(ctx context.Context, imageID uint) (*ImageResult, error) {
	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("fetching image: %w", err)
	}

	return toImageResult(image), nil
}

// ListAll returns one page of images, most recently updated first. A
// non-empty search term restricts results to assets the media gateway
// reports as matching.
func (s *ImageService) ListAll(ctx context.Context, q ListQuery) (*ImagePage, error) {
	q.normalize()

	var filter repository.ListFilter
	if q.Search != "" {
		if s.search == nil {
			return nil, ErrSearchUnavailable
		}

		ids, err := s.search.Search(ctx, q.Search)
		if err != nil {
			return nil, fmt.Errorf("media search: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		filter.PublicIDs = ids
	}

	page, matching, err := s.listPage(ctx, filter, q)
	if err != nil {
		return nil, err
	}

	total, err := s.images.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting images: %w", err)
	}

	log.Debug().
		Int("page", q.Page).
		Int("limit", q.Limit).
		Str("search", q.Search).
		Int64("matching", matching).
		Msg("listed images")

	page.SavedImages = &total
	return page, nil
}

// ListByUser returns one page of the given user's images.
func (s *ImageService) ListByUser(ctx context.Context, q ListQuery, userID uint) (*ImagePage, error) {
	q.normalize()

	filter := repository.ListFilter{AuthorID: &userID}
	page, _, err := s.listPage(ctx, filter, q)
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (s *ImageService) listPage(ctx context.Context, filter repository.ListFilter, q ListQuery) (*ImagePage, int64, error) {
	images, err := s.images.List(ctx, filter, q.offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing images: %w", err)
	}

	matching, err := s.images.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting matches: %w", err)
	}

	results := make([]ImageResult, 0, len(images))
	for i := range images {
		results = append(results, *toImageResult(&images[i]))
	}

	return &ImagePage{
		Data:       results,
		TotalPages: totalPages(matching, q.Limit),
	}, matching, nil
}

// totalPages is ceil(matching / limit); zero matches yield zero pages.
func totalPages(matching int64, limit int) int64 {
	return (matching + int64(limit) - 1) / int64(limit)
}

func toImageResult(image *models.Image) *ImageResult {
	result := &ImageResult{
		ID:        image.ID,
		PublicID:  image.PublicID,
		URL:       image.URL,
		Metadata:  json.RawMessage(image.Metadata),
		CreatedAt: image.CreatedAt,
		UpdatedAt: image.UpdatedAt,
	}

	if image.Author.ID != 0 {
		result.Author = &AuthorResult{
			ID:         image.Author.ID,
			FirstName:  image.Author.FirstName,
			LastName:   image.Author.LastName,
			ExternalID: image.Author.ExternalID,
		}
	}

	return result
}
