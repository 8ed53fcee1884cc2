package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
	"github.com/ellinia-dev/ellinia/app/repository"
)

type resetCall struct {
	accountID uint
	hash      string
}

// fakeAccountRepo implements repository.AccountRepository in memory.
type fakeAccountRepo struct {
	byName     map[string]*models.Account
	resetCalls []resetCall
}

func newFakeAccountRepo(accounts ...*models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{byName: make(map[string]*models.Account)}
	for _, a := range accounts {
		r.byName[a.Name] = a
	}
	return r
}

func (r *fakeAccountRepo) Create(account *models.Account) error {
	r.byName[account.Name] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(id uint) (*models.Account, error) {
	for _, a := range r.byName {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) GetByName(name string) (*models.Account, error) {
	if a, ok := r.byName[name]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	for _, a := range r.byName {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) Update(account *models.Account) error {
	r.byName[account.Name] = account
	return nil
}

func (r *fakeAccountRepo) ListWithCharacters(limit int) ([]repository.AccountWithCharacters, error) {
	return nil, nil
}

func (r *fakeAccountRepo) SetNXCredit(id uint, amount int) error { return nil }

func (r *fakeAccountRepo) SetBanned(id uint, banned int) error { return nil }

func (r *fakeAccountRepo) ResetPassword(id uint, hashedPassword string) error {
	r.resetCalls = append(r.resetCalls, resetCall{accountID: id, hash: hashedPassword})
	for _, a := range r.byName {
		if a.ID == id {
			a.Password = hashedPassword
			a.PIN = ""
			a.PIC = ""
		}
	}
	return nil
}

// fakeSecretQuestionRepo implements repository.SecretQuestionRepository.
type fakeSecretQuestionRepo struct {
	questions map[uint]*models.SecretQuestion
}

func (r *fakeSecretQuestionRepo) GetActive() ([]models.SecretQuestion, error) {
	var out []models.SecretQuestion
	for _, q := range r.questions {
		if q.IsActive {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeSecretQuestionRepo) GetByID(id uint) (*models.SecretQuestion, error) {
	if q, ok := r.questions[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSecretQuestionRepo) GetQuestionText(id uint) (string, error) {
	q, err := r.GetByID(id)
	if err != nil {
		return "", err
	}
	return q.QuestionText, nil
}

type loggedAttempt struct {
	accountID uint
	ip        string
	success   bool
}

// fakeResetAttemptRepo implements repository.ResetAttemptRepository.
type fakeResetAttemptRepo struct {
	attempts    []loggedAttempt
	failedCount int64
}

func (r *fakeResetAttemptRepo) Log(accountID uint, ipAddress string, success bool) error {
	r.attempts = append(r.attempts, loggedAttempt{accountID: accountID, ip: ipAddress, success: success})
	return nil
}

func (r *fakeResetAttemptRepo) CountRecentFailed(accountID uint, since time.Time) (int64, error) {
	return r.failedCount, nil
}

func defaultQuestionRepo() *fakeSecretQuestionRepo {
	return &fakeSecretQuestionRepo{questions: map[uint]*models.SecretQuestion{
		1: {ID: 1, QuestionText: "What is the name of your first pet?", IsActive: true},
	}}
}

func resetAccount() *models.Account {
	questionID := uint(1)
	return &models.Account{
		ID:               7,
		Name:             "hero1",
		Email:            "hero1@example.com",
		PIN:              "1234",
		PIC:              "567890",
		SecretQuestionID: &questionID,
		SecretAnswer:     "fluffy",
	}
}

func newAuthTestApp(accounts *fakeAccountRepo, questions *fakeSecretQuestionRepo, attempts *fakeResetAttemptRepo) *fiber.App {
	repository.SetRepositories(&repository.Repositories{
		Account:        accounts,
		SecretQuestion: questions,
		ResetAttempt:   attempts,
	})

	app := fiber.New()
	app.Get("/api/auth/secret-question/:username", HandleSecretQuestionForUser)
	app.Post("/api/auth/verify-security-answer", HandleVerifySecurityAnswer)
	app.Post("/api/auth/forgot-password", HandleForgotPassword)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestForgotPassword_Success(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	attempts := &fakeResetAttemptRepo{}
	app := newAuthTestApp(accounts, defaultQuestionRepo(), attempts)

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "  Fluffy ",
		"newPassword":  "NewPass123",
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password reset successful!", body["message"])
	assert.Contains(t, body["warning"], "PIN and PIC")

	require.Len(t, accounts.resetCalls, 1)
	call := accounts.resetCalls[0]
	assert.Equal(t, uint(7), call.accountID)
	assert.NotEqual(t, "NewPass123", call.hash)
	assert.True(t, models.CheckPasswordHash("NewPass123", call.hash))

	account := accounts.byName["hero1"]
	assert.Empty(t, account.PIN)
	assert.Empty(t, account.PIC)

	require.Len(t, attempts.attempts, 1)
	assert.True(t, attempts.attempts[0].success)
	assert.Equal(t, uint(7), attempts.attempts[0].accountID)
}

func TestForgotPassword_WrongAnswer(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	attempts := &fakeResetAttemptRepo{}
	app := newAuthTestApp(accounts, defaultQuestionRepo(), attempts)

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "rex",
		"newPassword":  "NewPass123",
	})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or security answer", body["message"])

	assert.Empty(t, accounts.resetCalls)
	require.Len(t, attempts.attempts, 1)
	assert.False(t, attempts.attempts[0].success)
}

func TestForgotPassword_UnknownUser(t *testing.T) {
	accounts := newFakeAccountRepo()
	attempts := &fakeResetAttemptRepo{}
	app := newAuthTestApp(accounts, defaultQuestionRepo(), attempts)

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "ghost",
		"secretAnswer": "fluffy",
		"newPassword":  "NewPass123",
	})

	// Same status and message as a wrong answer, so the endpoint cannot be
	// used to probe which usernames exist.
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or security answer", body["message"])
	assert.Empty(t, attempts.attempts)
}

func TestForgotPassword_BannedAccount(t *testing.T) {
	account := resetAccount()
	account.Banned = 1
	accounts := newFakeAccountRepo(account)
	app := newAuthTestApp(accounts, defaultQuestionRepo(), &fakeResetAttemptRepo{})

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "fluffy",
		"newPassword":  "NewPass123",
	})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["error"])
	assert.Empty(t, accounts.resetCalls)
}

func TestForgotPassword_Throttled(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	attempts := &fakeResetAttemptRepo{failedCount: maxResetAttemptsPerHour}
	app := newAuthTestApp(accounts, defaultQuestionRepo(), attempts)

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "fluffy",
		"newPassword":  "NewPass123",
	})

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "too_many_requests", body["error"])
	assert.Empty(t, accounts.resetCalls)
}

func TestForgotPassword_WeakPassword(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	app := newAuthTestApp(accounts, defaultQuestionRepo(), &fakeResetAttemptRepo{})

	resp, body := postJSON(t, app, "/api/auth/forgot-password", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "fluffy",
		"newPassword":  "alllowercase1",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "weak_password", body["error"])
	assert.Empty(t, accounts.resetCalls)
}

func TestVerifySecurityAnswer(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	attempts := &fakeResetAttemptRepo{}
	app := newAuthTestApp(accounts, defaultQuestionRepo(), attempts)

	resp, body := postJSON(t, app, "/api/auth/verify-security-answer", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "FLUFFY",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, attempts.attempts)

	resp, body = postJSON(t, app, "/api/auth/verify-security-answer", fiber.Map{
		"username":     "hero1",
		"secretAnswer": "rex",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or security answer", body["message"])
	require.Len(t, attempts.attempts, 1)
	assert.False(t, attempts.attempts[0].success)
}

func TestSecretQuestionForUser(t *testing.T) {
	accounts := newFakeAccountRepo(resetAccount())
	app := newAuthTestApp(accounts, defaultQuestionRepo(), &fakeResetAttemptRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/secret-question/hero1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["hasSecretQuestion"])
	assert.Equal(t, "What is the name of your first pet?", body["questionText"])

	req = httptest.NewRequest(http.MethodGet, "/api/auth/secret-question/ghost", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["hasSecretQuestion"])
}
