package controllers

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ellinia-dev/ellinia/app/models"
	"github.com/ellinia-dev/ellinia/app/repository"
	"github.com/ellinia-dev/ellinia/internal/pkg/cache"
	"github.com/ellinia-dev/ellinia/internal/pkg/usercontext"
)

const (
	announcementListLimit = 50

	announcementCacheKey = "announcements:list"
	announcementCacheTTL = time.Minute
)

type createAnnouncementRequest struct {
	Type        string `json:"type" validate:"required,oneof=event update maintenance"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=1000"`
	Priority    int    `json:"priority" validate:"min=0,max=999"`
}

// HandleAnnouncements lists server announcements, highest priority first. The
// list is identical for every visitor, so it is served from the Redis cache
// between writes.
func HandleAnnouncements(c *fiber.Ctx) error {
	if cached, err := cache.Get(announcementCacheKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(cached)
	}

	announcements, err := repository.GetGlobalFactory().GetAnnouncementRepository().List(announcementListLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch announcements"})
	}

	body, err := json.Marshal(fiber.Map{"announcements": announcements})
	if err != nil {
		return c.JSON(fiber.Map{"announcements": announcements})
	}
	if err := cache.Set(announcementCacheKey, body, announcementCacheTTL); err != nil {
		log.Printf("announcements: cache write failed: %v", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// HandleAdminAnnouncementCreate creates an announcement on behalf of the
// logged-in admin.
func HandleAdminAnnouncementCreate(c *fiber.Ctx) error {
	var req createAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	announcement := &models.Announcement{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CreatedBy:   usercontext.GetUsername(c),
	}
	if err := repository.GetGlobalFactory().GetAnnouncementRepository().Create(announcement); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create announcement"})
	}

	if err := cache.Delete(announcementCacheKey); err != nil {
		log.Printf("announcements: cache invalidation failed: %v", err)
	}

	log.Printf("Admin %s created announcement %q", announcement.CreatedBy, announcement.Title)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"announcement": announcement})
}

// HandleAdminAnnouncementDelete removes an announcement.
func HandleAdminAnnouncementDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid announcement ID"})
	}

	if err := repository.GetGlobalFactory().GetAnnouncementRepository().Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete announcement"})
	}

	if err := cache.Delete(announcementCacheKey); err != nil {
		log.Printf("announcements: cache invalidation failed: %v", err)
	}

	log.Printf("Admin %s deleted announcement ID: %d", usercontext.GetUsername(c), id)
	return c.JSON(fiber.Map{"success": true, "message": "Announcement deleted"})
}
