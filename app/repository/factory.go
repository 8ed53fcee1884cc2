package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		if f.repos == nil {
			f.repos = NewRepositories(f.db)
		}
	})
	return f.repos
}

// GetAccountRepository returns the account repository instance
func (f *Factory) GetAccountRepository() AccountRepository {
	return f.GetRepositories().Account
}

// GetCharacterRepository returns the character repository instance
func (f *Factory) GetCharacterRepository() CharacterRepository {
	return f.GetRepositories().Character
}

// GetSecretQuestionRepository returns the secret question repository instance
func (f *Factory) GetSecretQuestionRepository() SecretQuestionRepository {
	return f.GetRepositories().SecretQuestion
}

// GetResetAttemptRepository returns the reset attempt repository instance
func (f *Factory) GetResetAttemptRepository() ResetAttemptRepository {
	return f.GetRepositories().ResetAttempt
}

// GetAnnouncementRepository returns the announcement repository instance
func (f *Factory) GetAnnouncementRepository() AnnouncementRepository {
	return f.GetRepositories().Announcement
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// SetRepositories swaps the global factory for one backed by pre-built
// repository instances, used by tests to inject fakes.
func SetRepositories(repos *Repositories) {
	globalFactory = &Factory{repos: repos}
}
