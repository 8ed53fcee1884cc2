package repository

import (
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the game database
func (r *accountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByName retrieves an account by its login name
func (r *accountRepository) GetByName(name string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("name = ?", name).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by its email address
func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update updates an existing account
func (r *accountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// ListWithCharacters returns up to limit accounts, newest first, with their
// characters attached via one grouped query.
func (r *accountRepository) ListWithCharacters(limit int) ([]AccountWithCharacters, error) {
	var accounts []models.Account
	if err := r.db.Order("id DESC").Limit(limit).Find(&accounts).Error; err != nil {
		return nil, err
	}

	result := make([]AccountWithCharacters, len(accounts))
	if len(accounts) == 0 {
		return result, nil
	}

	ids := make([]uint, len(accounts))
	for i, account := range accounts {
		ids[i] = account.ID
		result[i] = AccountWithCharacters{Account: account, Characters: []models.Character{}}
	}

	var characters []models.Character
	if err := r.db.Where("accountid IN ?", ids).Order("level DESC").Find(&characters).Error; err != nil {
		return nil, err
	}

	byAccount := make(map[uint][]models.Character)
	for _, char := range characters {
		byAccount[char.AccountID] = append(byAccount[char.AccountID], char)
	}
	for i := range result {
		if chars, ok := byAccount[result[i].ID]; ok {
			result[i].Characters = chars
		}
	}

	return result, nil
}

// SetNXCredit sets the NX balance for an account (admin action, absolute value)
func (r *accountRepository) SetNXCredit(id uint, amount int) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).Update("nxCredit", amount).Error
}

// SetBanned sets the ban flag for an account
func (r *accountRepository) SetBanned(id uint, banned int) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).Update("banned", banned).Error
}

// ResetPassword replaces the password hash and clears PIN/PIC so the user has
// to set them up again after a secret-question reset.
func (r *accountRepository) ResetPassword(id uint, hashedPassword string) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password": hashedPassword,
		"pin":      "",
		"pic":      "",
	}).Error
}
