package repository

import (
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// characterRepository implements the CharacterRepository interface
type characterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository creates a new character repository instance
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

// GetByAccountID retrieves all characters belonging to an account
func (r *characterRepository) GetByAccountID(accountID uint) ([]models.Character, error) {
	var characters []models.Character
	err := r.db.Where("accountid = ?", accountID).Order("level DESC").Find(&characters).Error
	return characters, err
}

// SetMeso sets a character's meso to an absolute amount (admin action)
func (r *characterRepository) SetMeso(characterID uint, amount int64) error {
	return r.db.Model(&models.Character{}).Where("id = ?", characterID).Update("meso", amount).Error
}

// GetInventory returns all inventory items for the given characters, ordered
// by tab and slot position
func (r *characterRepository) GetInventory(characterIDs []uint) ([]models.InventoryItem, error) {
	if len(characterIDs) == 0 {
		return []models.InventoryItem{}, nil
	}
	var items []models.InventoryItem
	err := r.db.Where("characterid IN ?", characterIDs).
		Order("inventorytype, position").
		Find(&items).Error
	return items, err
}

// GetEquipped returns currently equipped items (negative positions)
func (r *characterRepository) GetEquipped(characterIDs []uint) ([]models.InventoryItem, error) {
	if len(characterIDs) == 0 {
		return []models.InventoryItem{}, nil
	}
	var items []models.InventoryItem
	err := r.db.Where("characterid IN ? AND position < 0", characterIDs).
		Order("position DESC").
		Find(&items).Error
	return items, err
}

// GetEquipmentStats returns the stat blocks for the given inventory items
func (r *characterRepository) GetEquipmentStats(inventoryItemIDs []uint) ([]models.InventoryEquipment, error) {
	if len(inventoryItemIDs) == 0 {
		return []models.InventoryEquipment{}, nil
	}
	var stats []models.InventoryEquipment
	err := r.db.Where("inventoryitemid IN ?", inventoryItemIDs).Find(&stats).Error
	return stats, err
}
