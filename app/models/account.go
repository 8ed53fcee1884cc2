package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Account maps the game server's accounts table. The table is owned by the
// game server and is never auto-migrated by this service; column names follow
// the game schema, not GORM conventions.
type Account struct {
	ID               uint       `gorm:"primaryKey;column:id" json:"id"`
	Name             string     `gorm:"column:name" json:"name" validate:"required,min=4,max=13,alphanumunderscore"`
	Password         string     `gorm:"column:password" json:"-" validate:"required"`
	Email            string     `gorm:"column:email" json:"email" validate:"required,email,max=100"`
	Birthday         string     `gorm:"column:birthday" json:"birthday"`
	CreatedAt        *time.Time `gorm:"column:createdat" json:"createdat"`
	LastLogin        *time.Time `gorm:"column:lastlogin" json:"lastlogin"`
	Banned           int        `gorm:"column:banned" json:"banned"`
	NXCredit         int        `gorm:"column:nxCredit" json:"nxCredit"`
	VotePoints       int        `gorm:"column:votepoints" json:"votepoints"`
	WebAdmin         int        `gorm:"column:webadmin" json:"webadmin"`
	LoggedIn         int        `gorm:"column:loggedin" json:"loggedin"`
	PIN              string     `gorm:"column:pin" json:"-"`
	PIC              string     `gorm:"column:pic" json:"-"`
	SecretQuestionID *uint      `gorm:"column:secret_question_id" json:"-"`
	SecretAnswer     string     `gorm:"column:secret_answer" json:"-"`
}

// TableName binds the model to the game schema's accounts table.
func (Account) TableName() string {
	return "accounts"
}

func (a *Account) Validate() error {
	v := validator.New()
	_ = v.RegisterValidation("alphanumunderscore", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
				return false
			}
		}
		return true
	})

	return v.Struct(a)
}

// IsBanned reports whether the account is currently banned.
func (a *Account) IsBanned() bool {
	return a.Banned > 0
}

// IsAdmin reports whether the account may use the admin dashboard.
func (a *Account) IsAdmin() bool {
	return a.WebAdmin > 0
}

// HasSecretQuestion reports whether a security question is set up for the account.
func (a *Account) HasSecretQuestion() bool {
	return a.SecretQuestionID != nil && a.SecretAnswer != ""
}

// CheckSecretAnswer compares a provided answer against the stored one using
// the same normalization both sides were written with.
func (a *Account) CheckSecretAnswer(answer string) bool {
	if !a.HasSecretQuestion() {
		return false
	}
	return NormalizeSecretAnswer(answer) == NormalizeSecretAnswer(a.SecretAnswer)
}

// CheckPassword verifies if the provided password matches the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.Password)
}

// SetPassword hashes and sets a new password for the account.
func (a *Account) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	a.Password = hashed
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// NormalizeSecretAnswer lowercases, trims and collapses whitespace so answers
// compare the same way they were stored at registration time.
func NormalizeSecretAnswer(answer string) string {
	return strings.Join(strings.Fields(strings.ToLower(answer)), " ")
}
