package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pixvault/pixvault/middleware"
	"github.com/pixvault/pixvault/services"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const maxPromptLength = 1000

func injectSysPrompt(prompt string) string {
	return fmt.Sprintf(`You are an AI image generation assistant. Create detailed, visual descriptions for image generation models. Focus on:

- Clear visual elements (colors, composition, lighting, style)
- Specific artistic techniques or photographic styles when relevant
- Safe, appropriate content only
- Realistic and achievable image concepts

Transform user requests into precise, descriptive prompts that will produce high-quality images.

User request: %s`, prompt)
}

// Generate produces an image from a text prompt, stores it in the asset
// store, and records it for the caller with the prompt as metadata.
func (h *ImageHandler) Generate(c *fiber.Ctx) error {
	if h.media == nil {
		return mediaUnavailable(c)
	}

	type GenerateImageRequest struct {
		Prompt string `json:"prompt"`
	}

	var genImage GenerateImageRequest
	if err := c.BodyParser(&genImage); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	if genImage.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Prompt is required",
			"data":    nil,
		})
	}

	if len(genImage.Prompt) > maxPromptLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Prompt too long (max 1000 characters)",
			"data":    nil,
		})
	}

	ctx := c.Context()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create genai client")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate image",
			"data":    nil,
		})
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-image-preview",
		genai.Text(injectSysPrompt(genImage.Prompt)),
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate image",
			"data":    nil,
		})
	}

	var imageBytes []byte
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != nil {
				imageBytes = part.InlineData.Data
				break
			}
		}
	}

	if len(imageBytes) == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "No image data found in response",
			"data":    nil,
		})
	}

	filename := fmt.Sprintf("generated_%d.png", time.Now().UnixNano())
	publicID, url, err := h.media.Upload(ctx, bytes.NewReader(imageBytes), filename)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload generated image")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload generated image",
			"data":    nil,
		})
	}

	metadata, _ := json.Marshal(map[string]string{"prompt": genImage.Prompt})

	created, err := h.svc.Add(ctx, services.AddImageInput{
		AuthorID: middleware.UserID(c),
		PublicID: publicID,
		URL:      url,
		Metadata: metadata,
		Path:     "/",
	})
	if err != nil {
		return imageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Successfully generated image",
		"data":    created,
	})
}
