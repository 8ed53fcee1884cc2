package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// AccountRepository defines the interface for account-related database operations
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByName(name string) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	Update(account *models.Account) error
	ListWithCharacters(limit int) ([]AccountWithCharacters, error)
	SetNXCredit(id uint, amount int) error
	SetBanned(id uint, banned int) error
	ResetPassword(id uint, hashedPassword string) error
}

// CharacterRepository defines the interface for character and inventory operations
type CharacterRepository interface {
	GetByAccountID(accountID uint) ([]models.Character, error)
	SetMeso(characterID uint, amount int64) error
	GetInventory(characterIDs []uint) ([]models.InventoryItem, error)
	GetEquipped(characterIDs []uint) ([]models.InventoryItem, error)
	GetEquipmentStats(inventoryItemIDs []uint) ([]models.InventoryEquipment, error)
}

// SecretQuestionRepository defines the interface for security question operations
type SecretQuestionRepository interface {
	GetActive() ([]models.SecretQuestion, error)
	GetByID(id uint) (*models.SecretQuestion, error)
	GetQuestionText(id uint) (string, error)
}

// ResetAttemptRepository defines the interface for password reset attempt tracking
type ResetAttemptRepository interface {
	Log(accountID uint, ipAddress string, success bool) error
	CountRecentFailed(accountID uint, since time.Time) (int64, error)
}

// AnnouncementRepository defines the interface for announcement operations
type AnnouncementRepository interface {
	Create(announcement *models.Announcement) error
	Delete(id uint) error
	List(limit int) ([]models.Announcement, error)
}

// AccountWithCharacters represents an account with its characters attached
type AccountWithCharacters struct {
	models.Account
	Characters []models.Character `json:"characters"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Account        AccountRepository
	Character      CharacterRepository
	SecretQuestion SecretQuestionRepository
	ResetAttempt   ResetAttemptRepository
	Announcement   AnnouncementRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:        NewAccountRepository(db),
		Character:      NewCharacterRepository(db),
		SecretQuestion: NewSecretQuestionRepository(db),
		ResetAttempt:   NewResetAttemptRepository(db),
		Announcement:   NewAnnouncementRepository(db),
	}
}
