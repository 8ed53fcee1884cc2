package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ellinia-dev/ellinia/app/repository"
	"github.com/ellinia-dev/ellinia/internal/pkg/usercontext"
)

const adminUserListLimit = 200

type updateNXRequest struct {
	UserID uint `json:"userId" validate:"required,min=1"`
	Amount int  `json:"amount" validate:"min=0"`
}

type updateMesoRequest struct {
	CharacterID uint  `json:"characterId" validate:"required,min=1"`
	Amount      int64 `json:"amount" validate:"min=0"`
}

type toggleBanRequest struct {
	UserID    uint `json:"userId" validate:"required,min=1"`
	BanStatus int  `json:"banStatus" validate:"min=0,max=1"`
}

// HandleAdminUsers lists accounts with their characters attached.
func HandleAdminUsers(c *fiber.Ctx) error {
	users, err := repository.GetGlobalFactory().GetAccountRepository().ListWithCharacters(adminUserListLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch users"})
	}
	return c.JSON(fiber.Map{
		"users": users,
		"total": len(users),
	})
}

// HandleAdminUpdateNX sets an account's NX balance to an absolute amount.
func HandleAdminUpdateNX(c *fiber.Ctx) error {
	var req updateNXRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := repository.GetGlobalFactory().GetAccountRepository().SetNXCredit(req.UserID, req.Amount); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update NX Credits"})
	}

	log.Printf("Admin %s updated NX for user ID %d to %d", usercontext.GetUsername(c), req.UserID, req.Amount)
	return c.JSON(fiber.Map{"success": true, "message": "NX Credits updated successfully"})
}

// HandleAdminUpdateMeso sets a character's meso to an absolute amount.
func HandleAdminUpdateMeso(c *fiber.Ctx) error {
	var req updateMesoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := repository.GetGlobalFactory().GetCharacterRepository().SetMeso(req.CharacterID, req.Amount); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update meso"})
	}

	log.Printf("Admin %s updated meso for character ID %d to %d", usercontext.GetUsername(c), req.CharacterID, req.Amount)
	return c.JSON(fiber.Map{"success": true, "message": "Meso updated successfully"})
}

// HandleAdminToggleBan bans or unbans an account.
func HandleAdminToggleBan(c *fiber.Ctx) error {
	var req toggleBanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := repository.GetGlobalFactory().GetAccountRepository().SetBanned(req.UserID, req.BanStatus); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update ban status"})
	}

	action := "unbanned"
	if req.BanStatus == 1 {
		action = "banned"
	}
	log.Printf("Admin %s %s user ID: %d", usercontext.GetUsername(c), action, req.UserID)
	return c.JSON(fiber.Map{"success": true, "message": "User " + action + " successfully"})
}

// HandleAdminUserInventory returns all inventory items, equipped items and the
// equipment stat blocks for every character on an account.
func HandleAdminUserInventory(c *fiber.Ctx) error {
	accountID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user ID"})
	}

	charRepo := repository.GetGlobalFactory().GetCharacterRepository()
	characters, err := charRepo.GetByAccountID(uint(accountID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch characters"})
	}
	if len(characters) == 0 {
		return c.JSON(fiber.Map{
			"items":      []fiber.Map{},
			"characters": []fiber.Map{},
			"message":    "No characters found for this user",
		})
	}

	characterIDs := make([]uint, len(characters))
	for i, char := range characters {
		characterIDs[i] = char.ID
	}

	items, err := charRepo.GetInventory(characterIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch inventory"})
	}
	equipped, err := charRepo.GetEquipped(characterIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch equipped items"})
	}

	itemIDs := make([]uint, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.InventoryItemID)
	}
	stats, err := charRepo.GetEquipmentStats(itemIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch equipment stats"})
	}

	statsByItem := make(map[uint]interface{}, len(stats))
	for _, stat := range stats {
		statsByItem[stat.InventoryItemID] = stat
	}

	return c.JSON(fiber.Map{
		"characters":     characters,
		"items":          items,
		"equipped":       equipped,
		"equipmentStats": statsByItem,
	})
}
