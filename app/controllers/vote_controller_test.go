package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
	"github.com/ellinia-dev/ellinia/internal/pkg/vote"
)

// webhookFakeRepo implements vote.Repository in memory for end-to-end webhook
// tests without a database.
type webhookFakeRepo struct {
	accounts    map[string]*models.Account
	voteLogs    []models.VoteLog
	webhookLogs []models.VoteWebhookLog
}

func newWebhookFakeRepo(accounts ...*models.Account) *webhookFakeRepo {
	r := &webhookFakeRepo{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		r.accounts[a.Name] = a
	}
	return r
}

func (r *webhookFakeRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *webhookFakeRepo) GetAccountForUpdate(tx *gorm.DB, name string) (*models.Account, error) {
	account, ok := r.accounts[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *webhookFakeRepo) ApplyReward(tx *gorm.DB, name string, newNX, newVotePoints int) (int64, error) {
	account, ok := r.accounts[name]
	if !ok {
		return 0, nil
	}
	account.NXCredit = newNX
	account.VotePoints = newVotePoints
	return 1, nil
}

func (r *webhookFakeRepo) InsertVoteLog(tx *gorm.DB, entry *models.VoteLog) error {
	r.voteLogs = append(r.voteLogs, *entry)
	return nil
}

func (r *webhookFakeRepo) InsertWebhookLog(entry *models.VoteWebhookLog) error {
	r.webhookLogs = append(r.webhookLogs, *entry)
	return nil
}

func (r *webhookFakeRepo) MarkWebhookLogProcessed(deliveryID string) error {
	for i := range r.webhookLogs {
		if r.webhookLogs[i].DeliveryID == deliveryID {
			r.webhookLogs[i].Processed = true
		}
	}
	return nil
}

func (r *webhookFakeRepo) LastSuccessfulVote(username, site string) (*models.VoteLog, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *webhookFakeRepo) TodayNX(username string) (int, error) { return 0, nil }

func (r *webhookFakeRepo) Stats(username string) (*vote.Stats, error) {
	return &vote.Stats{}, nil
}

func (r *webhookFakeRepo) RecentVotes(username string, limit int) ([]models.VoteLog, error) {
	return nil, nil
}

func newVoteWebhookApp(repo vote.Repository) *fiber.App {
	SetVoteService(vote.NewService(vote.Config{
		PingbackKey:   "secret123",
		SiteID:        "104927",
		NXReward:      8000,
		CooldownHours: 24,
		ServerName:    "Ellinia",
		EnableLogging: true,
	}, repo))

	app := fiber.New()
	app.Get("/api/vote/webhook", HandleVoteWebhookPing)
	app.Post("/api/vote/webhook", HandleVoteWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, contentType, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/vote/webhook", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestVoteWebhook_JSONSuccess(t *testing.T) {
	repo := newWebhookFakeRepo(&models.Account{Name: "hero1", NXCredit: 1000, VotePoints: 3})
	app := newVoteWebhookApp(repo)

	body := `{
		"pingbackkey": "secret123",
		"siteid": "104927",
		"Common": [[
			{"success": "0"},
			{"reason": ""},
			{"pb_name": "hero1"},
			{"ip": "1.2.3.4"}
		]]
	}`
	resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, text, "Successful: 1 votes")
	assert.Contains(t, text, "hero1: +8000 NX (Total: 9000)")

	assert.Equal(t, 9000, repo.accounts["hero1"].NXCredit)
	assert.Equal(t, 4, repo.accounts["hero1"].VotePoints)

	require.Len(t, repo.voteLogs, 1)
	assert.Equal(t, models.VoteStatusSuccess, repo.voteLogs[0].Status)
	assert.Equal(t, 8000, repo.voteLogs[0].NXAwarded)
	assert.Equal(t, "1.2.3.4", repo.voteLogs[0].IPAddress)

	require.Len(t, repo.webhookLogs, 1)
	assert.Equal(t, "JSON", repo.webhookLogs[0].RequestType)
	assert.True(t, repo.webhookLogs[0].Processed)
}

func TestVoteWebhook_JSONRejected(t *testing.T) {
	repo := newWebhookFakeRepo(&models.Account{Name: "hero1", NXCredit: 1000, VotePoints: 3})
	app := newVoteWebhookApp(repo)

	body := `{
		"pingbackkey": "secret123",
		"Common": [[
			{"success": "1"},
			{"reason": "Vote limit reached"},
			{"pb_name": "hero1"},
			{"ip": "1.2.3.4"}
		]]
	}`
	resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, text, "Failed: 1 votes")
	assert.Contains(t, text, "hero1: Vote limit reached")

	assert.Equal(t, 1000, repo.accounts["hero1"].NXCredit)
	assert.Equal(t, 3, repo.accounts["hero1"].VotePoints)

	require.Len(t, repo.voteLogs, 1)
	assert.Equal(t, models.VoteStatusFailed, repo.voteLogs[0].Status)
	require.NotNil(t, repo.voteLogs[0].FailureReason)
	assert.Equal(t, "Vote limit reached", *repo.voteLogs[0].FailureReason)
}

func TestVoteWebhook_FormUnknownUser(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newVoteWebhookApp(repo)

	form := url.Values{
		"Successful":   {"0"},
		"Reason":       {""},
		"pingUsername": {"ghost"},
		"VoterIP":      {"1.2.3.4"},
		"pingbackkey":  {"secret123"},
	}
	resp, text := postWebhook(t, app, fiber.MIMEApplicationForm, form.Encode())

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, text, "ghost: User not found")

	require.Len(t, repo.voteLogs, 1)
	assert.Equal(t, models.VoteStatusFailed, repo.voteLogs[0].Status)
	require.Len(t, repo.webhookLogs, 1)
	assert.Equal(t, "FORM", repo.webhookLogs[0].RequestType)
}

func TestVoteWebhook_InvalidPingbackKey(t *testing.T) {
	repo := newWebhookFakeRepo(&models.Account{Name: "hero1", NXCredit: 1000})
	app := newVoteWebhookApp(repo)

	body := `{
		"pingbackkey": "wrong",
		"Common": [[
			{"success": "0"},
			{"pb_name": "hero1"}
		]]
	}`
	resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, body)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid pingback key.", text)

	// Nothing is logged or credited before the key check passes.
	assert.Equal(t, 1000, repo.accounts["hero1"].NXCredit)
	assert.Empty(t, repo.voteLogs)
	assert.Empty(t, repo.webhookLogs)
}

func TestVoteWebhook_MalformedJSON(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newVoteWebhookApp(repo)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing Common", body: `{"pingbackkey": "secret123"}`},
		{name: "not JSON", body: `pingUsername=hero1`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, tc.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Invalid JSON data.", text)
		})
	}
}

func TestVoteWebhook_EmptyCommon(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newVoteWebhookApp(repo)

	resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, `{"pingbackkey": "secret123", "Common": []}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "No votes processed", text)
}

func TestVoteWebhook_MixedBatch(t *testing.T) {
	repo := newWebhookFakeRepo(&models.Account{Name: "hero1", NXCredit: 1000})
	app := newVoteWebhookApp(repo)

	body := `{
		"pingbackkey": "secret123",
		"Common": [
			[{"success": "0"}, {"pb_name": "hero1"}, {"ip": "1.2.3.4"}],
			[{"success": "1"}, {"reason": "Vote limit reached"}, {"pb_name": "hero2"}, {"ip": "5.6.7.8"}],
			[{"success": "0"}, {"pb_name": "ghost"}, {"ip": "4.3.2.1"}]
		]
	}`
	resp, text := postWebhook(t, app, fiber.MIMEApplicationJSON, body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, text, "Successful: 1 votes")
	assert.Contains(t, text, "hero1: +8000 NX (Total: 9000)")
	assert.Contains(t, text, "Failed: 2 votes")
	assert.Contains(t, text, "hero2: Vote limit reached")
	assert.Contains(t, text, "ghost: User not found")

	assert.Equal(t, 9000, repo.accounts["hero1"].NXCredit)
	assert.Len(t, repo.voteLogs, 3)
}

func TestVoteWebhookPing(t *testing.T) {
	app := newVoteWebhookApp(newWebhookFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/vote/webhook", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ellinia Gtop100 webhook endpoint active", string(raw))
}
