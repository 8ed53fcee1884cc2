package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
	"github.com/ellinia-dev/ellinia/app/repository"
	"github.com/ellinia-dev/ellinia/internal/pkg/session"
	"github.com/ellinia-dev/ellinia/internal/pkg/usercontext"
)

const maxResetAttemptsPerHour = 5

type registerRequest struct {
	Username         string `json:"username" validate:"required,min=4,max=13,username"`
	Email            string `json:"email" validate:"required,email,max=100"`
	Password         string `json:"password" validate:"required,min=6,max=50"`
	Birthday         string `json:"birthday" validate:"required,datetime=2006-01-02"`
	SecretQuestionID uint   `json:"secretQuestionId" validate:"required,min=1"`
	SecretAnswer     string `json:"secretAnswer" validate:"required,max=255"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=13"`
	Password string `json:"password" validate:"required,max=50"`
}

type verifyAnswerRequest struct {
	Username     string `json:"username" validate:"required,max=13"`
	SecretAnswer string `json:"secretAnswer" validate:"required,max=255"`
}

type forgotPasswordRequest struct {
	Username     string `json:"username" validate:"required,max=13"`
	SecretAnswer string `json:"secretAnswer" validate:"required,max=255"`
	NewPassword  string `json:"newPassword" validate:"required,min=6,max=50"`
}

// HandleAuthRegister creates a game account with a security question attached.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.SecretAnswer = strings.TrimSpace(req.SecretAnswer)
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}
	if !passwordMeetsPolicy(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "weak_password",
			"message": "Password must contain at least one uppercase letter, one lowercase letter and one number",
		})
	}

	repos := repository.GetGlobalFactory()
	accountRepo := repos.GetAccountRepository()

	if _, err := accountRepo.GetByName(req.Username); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Username already taken"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed. Please try again."})
	}
	if _, err := accountRepo.GetByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email already registered"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed. Please try again."})
	}

	question, err := repos.GetSecretQuestionRepository().GetByID(req.SecretQuestionID)
	if err != nil || !question.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid security question selected"})
	}

	hashed, err := models.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed. Please try again."})
	}

	now := time.Now()
	questionID := req.SecretQuestionID
	account := &models.Account{
		Name:             req.Username,
		Password:         hashed,
		Email:            req.Email,
		Birthday:         req.Birthday,
		CreatedAt:        &now,
		SecretQuestionID: &questionID,
		SecretAnswer:     models.NormalizeSecretAnswer(req.SecretAnswer),
	}
	if err := accountRepo.Create(account); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed. Please try again."})
	}

	if err := establishSession(c, account); err != nil {
		log.Printf("register: session setup failed for %s: %v", account.Name, err)
	}

	log.Printf("New user registered: %s from IP: %s", account.Name, GetClientIP(c))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"user": fiber.Map{
			"id":                account.ID,
			"username":          account.Name,
			"email":             account.Email,
			"hasSecretQuestion": true,
		},
	})
}

// HandleAuthLogin starts a session for an existing account.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	accountRepo := repository.GetGlobalFactory().GetAccountRepository()
	account, err := accountRepo.GetByName(req.Username)
	if err != nil || !account.CheckPassword(req.Password) {
		// Same answer for unknown user and wrong password.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid username or password"})
	}
	if account.IsBanned() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Account is banned"})
	}

	if err := establishSession(c, account); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed. Please try again."})
	}

	now := time.Now()
	account.LastLogin = &now
	if err := accountRepo.Update(account); err != nil {
		log.Printf("login: failed to update last login for %s: %v", account.Name, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":         account.ID,
			"username":   account.Name,
			"nx":         account.NXCredit,
			"votePoints": account.VotePoints,
			"isAdmin":    account.IsAdmin(),
		},
	})
}

// HandleAuthLogout destroys the current session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("logout: failed to destroy session: %v", err)
		}
	}
	c.Locals(usercontext.KeyFromProtected, false)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleSecretQuestions lists the selectable security questions.
func HandleSecretQuestions(c *fiber.Ctx) error {
	questions, err := repository.GetGlobalFactory().GetSecretQuestionRepository().GetActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch security questions"})
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// HandleSecretQuestionForUser returns the question text (never the answer)
// for the password reset flow.
func HandleSecretQuestionForUser(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Username required"})
	}

	repos := repository.GetGlobalFactory()
	account, err := repos.GetAccountRepository().GetByName(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"hasSecretQuestion": false, "error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"hasSecretQuestion": false, "error": "Failed to fetch security question"})
	}
	if !account.HasSecretQuestion() {
		return c.JSON(fiber.Map{"hasSecretQuestion": false, "error": "No security question found for this account"})
	}

	questionText, err := repos.GetSecretQuestionRepository().GetQuestionText(*account.SecretQuestionID)
	if err != nil {
		return c.JSON(fiber.Map{"hasSecretQuestion": false, "error": "Security question not found"})
	}

	return c.JSON(fiber.Map{"hasSecretQuestion": true, "questionText": questionText})
}

// HandleVerifySecurityAnswer checks a secret answer without changing anything.
// Failed attempts count against the reset throttle.
func HandleVerifySecurityAnswer(c *fiber.Ctx) error {
	var req verifyAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	repos := repository.GetGlobalFactory()
	account, err := repos.GetAccountRepository().GetByName(req.Username)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid username or security answer"})
	}
	if !account.HasSecretQuestion() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "No security question found for this account"})
	}

	if !account.CheckSecretAnswer(req.SecretAnswer) {
		ip := GetClientIP(c)
		if err := repos.GetResetAttemptRepository().Log(account.ID, ip, false); err != nil {
			log.Printf("verify answer: failed to log attempt for %s: %v", account.Name, err)
		}
		log.Printf("Failed security answer verification for user: %s from IP: %s", account.Name, ip)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid username or security answer"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Security answer verified"})
}

// HandleForgotPassword resets a password after a correct secret answer. PIN
// and PIC are wiped alongside the password.
func HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := validate.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}
	if !passwordMeetsPolicy(req.NewPassword) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "weak_password",
			"message": "Password must contain at least one uppercase letter, one lowercase letter and one number",
		})
	}

	repos := repository.GetGlobalFactory()
	accountRepo := repos.GetAccountRepository()
	attemptRepo := repos.GetResetAttemptRepository()
	ip := GetClientIP(c)

	account, err := accountRepo.GetByName(req.Username)
	if err != nil {
		// Don't reveal whether the username exists.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid username or security answer"})
	}
	if account.IsBanned() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Cannot reset password for banned account"})
	}
	if !account.HasSecretQuestion() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "No security question found for this account. Please contact support."})
	}

	if !account.CheckSecretAnswer(req.SecretAnswer) {
		if err := attemptRepo.Log(account.ID, ip, false); err != nil {
			log.Printf("forgot password: failed to log attempt for %s: %v", account.Name, err)
		}
		log.Printf("Failed password reset attempt for user: %s from IP: %s", account.Name, ip)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid username or security answer"})
	}

	recentFailed, err := attemptRepo.CountRecentFailed(account.ID, time.Now().Add(-time.Hour))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed. Please try again later."})
	}
	if recentFailed >= maxResetAttemptsPerHour {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests", "message": "Too many password reset attempts. Please try again later."})
	}

	hashed, err := models.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed. Please try again later."})
	}
	if err := accountRepo.ResetPassword(account.ID, hashed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed. Please try again later."})
	}

	if err := attemptRepo.Log(account.ID, ip, true); err != nil {
		log.Printf("forgot password: failed to log success for %s: %v", account.Name, err)
	}
	log.Printf("Password reset successful for user: %s from IP: %s", account.Name, ip)

	return c.JSON(fiber.Map{
		"message": "Password reset successful!",
		"warning": "Your PIN and PIC have been reset for security. Please log in and set them up again.",
	})
}

func establishSession(c *fiber.Ctx, account *models.Account) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyAccountID, account.ID)
	sess.Set(usercontext.KeyUsername, account.Name)
	sess.Set(usercontext.KeyIsAdmin, account.IsAdmin())
	return sess.Save()
}
