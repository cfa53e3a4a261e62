package handler

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pixvault/pixvault/media"
	"github.com/pixvault/pixvault/middleware"
	"github.com/pixvault/pixvault/services"
	"github.com/rs/zerolog/log"
)

type ImageHandler struct {
	svc   *services.ImageService
	media *media.Store // nil when the asset store is not configured
}

func NewImageHandler(svc *services.ImageService, store *media.Store) *ImageHandler {
	return &ImageHandler{svc: svc, media: store}
}

type imagePayload struct {
	PublicID string          `json:"public_id"`
	URL      string          `json:"url"`
	Metadata json.RawMessage `json:"metadata"`
	Path     string          `json:"path"`
}

func (h *ImageHandler) Add(c *fiber.Ctx) error {
	var payload imagePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	result, err := h.svc.Add(c.Context(), services.AddImageInput{
		AuthorID: middleware.UserID(c),
		PublicID: payload.PublicID,
		URL:      payload.URL,
		Metadata: payload.Metadata,
		Path:     payload.Path,
	})
	if err != nil {
		return imageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Image added successfully",
		"data":    result,
	})
}

func (h *ImageHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	var payload imagePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	result, err := h.svc.Update(c.Context(), services.UpdateImageInput{
		ID:       id,
		AuthorID: middleware.UserID(c),
		PublicID: payload.PublicID,
		URL:      payload.URL,
		Metadata: payload.Metadata,
		Path:     payload.Path,
	})
	if err != nil {
		return imageError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Image updated successfully",
		"data":    result,
	})
}

// Delete reports the outcome in the log, then always redirects home.
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.svc.Delete(c.Context(), id, middleware.UserID(c)); err != nil {
		log.Error().Err(err).Uint("image_id", id).Msg("Failed to delete image")
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *ImageHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	result, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return imageError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Image found",
		"data":    result,
	})
}

func (h *ImageHandler) ListAll(c *fiber.Ctx) error {
	query := services.ListQuery{
		Limit:  c.QueryInt("limit", services.DefaultPageSize),
		Page:   c.QueryInt("page", 1),
		Search: c.Query("query"),
	}

	page, err := h.svc.ListAll(c.Context(), query)
	if err != nil {
		return imageError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Images found",
		"data":    page,
	})
}

func (h *ImageHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	query := services.ListQuery{
		Limit: c.QueryInt("limit", services.DefaultPageSize),
		Page:  c.QueryInt("page", 1),
	}

	page, err := h.svc.ListByUser(c.Context(), query, userID)
	if err != nil {
		return imageError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Images found",
		"data":    page,
	})
}

// Upload stores a multipart file in the asset store and records it for
// the caller.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	if h.media == nil {
		return mediaUnavailable(c)
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No file provided",
			"data":    nil,
		})
	}

	blob, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error opening the file",
			"data":    nil,
		})
	}
	defer blob.Close()

	publicID, url, err := h.media.Upload(c.Context(), blob, file.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("Upload failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error uploading the file",
			"data":    nil,
		})
	}

	result, err := h.svc.Add(c.Context(), services.AddImageInput{
		AuthorID: middleware.UserID(c),
		PublicID: publicID,
		URL:      url,
		Path:     "/",
	})
	if err != nil {
		return imageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Successfully uploaded the file",
		"data":    result,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Invalid image ID",
		"data":    nil,
	})
}

func mediaUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"status":  "error",
		"message": "Media storage is not configured",
		"data":    nil,
	})
}

// imageError maps service errors onto the response envelope.
func imageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "No user found with ID",
			"data":    nil,
		})
	case errors.Is(err, services.ErrImageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "No image found with ID",
			"data":    nil,
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Image belongs to another user",
			"data":    nil,
		})
	case errors.Is(err, services.ErrSearchUnavailable):
		return mediaUnavailable(c)
	default:
		log.Error().Err(err).Msg("Image operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
			"data":    nil,
		})
	}
}
