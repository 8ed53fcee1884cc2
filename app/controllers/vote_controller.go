package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/repository"
	"github.com/ellinia-dev/ellinia/internal/pkg/database"
	"github.com/ellinia-dev/ellinia/internal/pkg/usercontext"
	"github.com/ellinia-dev/ellinia/internal/pkg/vote"
)

var voteService *vote.Service

// InitializeVoteController builds the vote service from the environment and
// the shared database handle.
func InitializeVoteController() {
	cfg := vote.LoadConfigFromEnv()
	for _, problem := range cfg.Validate() {
		log.Printf("vote config: %s", problem)
	}
	voteService = vote.NewServiceFromDB(cfg, database.GetDB())
}

// SetVoteService swaps the vote service, used by tests to inject a service
// built on a fake repository.
func SetVoteService(svc *vote.Service) {
	voteService = svc
}

// HandleVoteWebhook processes a Gtop100 pingback delivery. The contract with
// Gtop100: 403 only on a bad pingback key, 400 only on a structurally broken
// JSON envelope, 200 for everything else - including internal errors - since
// Gtop100 retries any non-200 response.
func HandleVoteWebhook(c *fiber.Ctx) (err error) {
	clientIP := GetClientIP(c)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("vote webhook panic: %v", r)
			voteService.RecordDeliveryError(clientIP, fmt.Errorf("%v", r))
			// Still answer 200 to prevent retry spam from Gtop100.
			err = c.Status(fiber.StatusOK).SendString("Internal server error")
		}
	}()

	contentType := string(c.Request().Header.ContentType())

	var delivery *vote.Delivery
	requestType := "FORM"
	if strings.Contains(contentType, "application/json") {
		requestType = "JSON"
		parsed, parseErr := vote.ParseJSONPingback(c.Body())
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON data.")
		}
		delivery = parsed
	} else {
		delivery = vote.ParseFormPingback(func(key string) string {
			return c.FormValue(key)
		})
	}

	// Shared secret check happens once per delivery, before any record is
	// logged or processed.
	if !voteService.VerifyPingbackKey(delivery.PingbackKey) {
		log.Printf("vote webhook: invalid pingback key from %s", clientIP)
		return c.Status(fiber.StatusForbidden).SendString("Invalid pingback key.")
	}
	voteService.CheckSiteID(delivery.SiteID)

	deliveryID := voteService.RecordDelivery(clientIP, requestType, delivery.Records)
	summary := voteService.ProcessDelivery(delivery.Records, clientIP)
	voteService.MarkDeliveryProcessed(deliveryID)

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Status(fiber.StatusOK).SendString(summary.Render())
}

// HandleVoteWebhookPing answers Gtop100's endpoint verification probe.
func HandleVoteWebhookPing(c *fiber.Ctx) error {
	cfg := voteService.Config()
	return c.Status(fiber.StatusOK).
		SendString(fmt.Sprintf("%s Gtop100 webhook endpoint active", cfg.ServerName))
}

// HandleVoteStatus returns the vote dashboard data for the logged-in account:
// cooldown state, today's rewards, lifetime stats and recent audit rows.
func HandleVoteStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	account, err := repository.GetGlobalFactory().GetAccountRepository().GetByID(userCtx.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load account"})
	}

	cfg := voteService.Config()
	site := fiber.Map{
		"id":             1,
		"name":           "Gtop100",
		"url":            cfg.VoteURLFor(""),
		"nx_reward":      cfg.NXReward,
		"cooldown_hours": cfg.CooldownHours,
	}

	status, err := voteService.StatusFor(account.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load vote status"})
	}

	todayRewards, err := voteService.TodayRewards(account.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load today's rewards"})
	}

	stats, err := voteService.StatsFor(account.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load vote statistics"})
	}

	recentVotes, err := voteService.RecentVotes(account.Name, 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load vote history"})
	}

	return c.JSON(fiber.Map{
		"username": account.Name,
		"sites":    []fiber.Map{site},
		"voteStatus": fiber.Map{
			"gtop100": fiber.Map{
				"voted":        status.Voted,
				"pending":      false,
				"canVoteAt":    formatTimePtr(status.CanVoteAt),
				"lastVoteTime": formatTimePtr(status.LastVoteTime),
			},
		},
		"todayRewards": todayRewards,
		"currentNX":    account.NXCredit,
		"totalVotes":   account.VotePoints,
		"stats": fiber.Map{
			"daysVoted":            stats.DaysVoted,
			"totalSuccessfulVotes": stats.TotalSuccessfulVotes,
			"totalNXEarned":        stats.TotalNXEarned,
		},
		"recentVotes": recentVotes,
		"serverName":  cfg.ServerName,
	})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
