package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kajiwara22/sf6chapter/internal/storage"
	"github.com/kajiwara22/sf6chapter/models"
	"github.com/kajiwara22/sf6chapter/utils"
)

// GetMatchesParquetURL returns a presigned URL for the matches dataset.
func (h *ApplicationHandler) GetMatchesParquetURL(c *fiber.Ctx) error {
	return h.presign(c, h.MatchesKey)
}

// GetVideosParquetURL returns a presigned URL for the videos dataset.
func (h *ApplicationHandler) GetVideosParquetURL(c *fiber.Ctx) error {
	return h.presign(c, h.VideosKey)
}

func (h *ApplicationHandler) presign(c *fiber.Ctx, key string) error {
	if h.Storage == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Object storage is not configured")
	}

	expiry := time.Duration(h.PresignExpirySeconds) * time.Second
	if expiry <= 0 {
		expiry = time.Hour
	}

	url, err := h.Storage.PresignedGet(c.Context(), key, expiry)
	if err != nil {
		h.Log.WithField("key", key).WithError(err).Error("Failed to generate presigned URL")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to generate presigned URL")
	}

	return c.Status(fiber.StatusOK).JSON(models.PresignedURLResponse{
		URL:       url,
		ExpiresIn: int(expiry.Seconds()),
	})
}

// GetVideoJSON streams a raw JSON file from the videos prefix.
func (h *ApplicationHandler) GetVideoJSON(c *fiber.Ctx) error {
	return h.rawJSON(c, "videos")
}

// GetMatchJSON streams a raw JSON file from the matches prefix.
func (h *ApplicationHandler) GetMatchJSON(c *fiber.Ctx) error {
	return h.rawJSON(c, "matches")
}

func (h *ApplicationHandler) rawJSON(c *fiber.Ctx, prefix string) error {
	filename := c.Params("filename")
	if !strings.HasSuffix(filename, ".json") {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Only JSON files are allowed")
	}

	if h.Storage == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Object storage is not configured")
	}

	key := prefix + "/" + filename
	body, err := h.Storage.GetObject(c.Context(), key)
	if err != nil {
		if storage.IsNotExist(err) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "File not found")
		}
		h.Log.WithField("key", key).WithError(err).Error("Failed to fetch object")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to fetch file")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendStream(body)
}
