package vote

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ellinia-dev/ellinia/app/models"
)

// Repository is the persistence surface of the reward pipeline. The write
// methods take the enclosing transaction handle so the account lock, the
// balance update and the audit row share one commit; a nil tx falls back to
// the base connection for writes outside any transaction.
type Repository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	GetAccountForUpdate(tx *gorm.DB, name string) (*models.Account, error)
	ApplyReward(tx *gorm.DB, name string, newNX, newVotePoints int) (int64, error)
	InsertVoteLog(tx *gorm.DB, entry *models.VoteLog) error

	InsertWebhookLog(entry *models.VoteWebhookLog) error
	MarkWebhookLogProcessed(deliveryID string) error

	LastSuccessfulVote(username, site string) (*models.VoteLog, error)
	TodayNX(username string) (int, error)
	Stats(username string) (*Stats, error)
	RecentVotes(username string, limit int) ([]models.VoteLog, error)
}

// gormRepository implements Repository against the game database.
type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a vote repository from a GORM DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetAccountForUpdate locks the account row for the duration of the enclosing
// transaction so concurrent rewards for the same account serialize.
func (r *gormRepository) GetAccountForUpdate(tx *gorm.DB, name string) (*models.Account, error) {
	var account models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) ApplyReward(tx *gorm.DB, name string, newNX, newVotePoints int) (int64, error) {
	res := tx.Model(&models.Account{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{"nxCredit": newNX, "votepoints": newVotePoints})
	return res.RowsAffected, res.Error
}

func (r *gormRepository) InsertVoteLog(tx *gorm.DB, entry *models.VoteLog) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Create(entry).Error
}

func (r *gormRepository) InsertWebhookLog(entry *models.VoteWebhookLog) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) MarkWebhookLogProcessed(deliveryID string) error {
	return r.db.Model(&models.VoteWebhookLog{}).
		Where("delivery_id = ?", deliveryID).
		Update("processed", true).Error
}

func (r *gormRepository) LastSuccessfulVote(username, site string) (*models.VoteLog, error) {
	var entry models.VoteLog
	err := r.db.Where("username = ? AND site = ? AND status = ?", username, site, models.VoteStatusSuccess).
		Order("vote_time DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gormRepository) TodayNX(username string) (int, error) {
	var total *int
	err := r.db.Model(&models.VoteLog{}).
		Select("SUM(nx_awarded)").
		Where("username = ? AND DATE(vote_time) = CURDATE() AND status = ?", username, models.VoteStatusSuccess).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *gormRepository) Stats(username string) (*Stats, error) {
	var row struct {
		DaysVoted            int
		TotalSuccessfulVotes int
		TotalNXEarned        *int
	}
	err := r.db.Model(&models.VoteLog{}).
		Select("COUNT(DISTINCT DATE(vote_time)) AS days_voted, COUNT(*) AS total_successful_votes, SUM(nx_awarded) AS total_nx_earned").
		Where("username = ? AND status = ?", username, models.VoteStatusSuccess).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		DaysVoted:            row.DaysVoted,
		TotalSuccessfulVotes: row.TotalSuccessfulVotes,
	}
	if row.TotalNXEarned != nil {
		stats.TotalNXEarned = *row.TotalNXEarned
	}
	return stats, nil
}

func (r *gormRepository) RecentVotes(username string, limit int) ([]models.VoteLog, error) {
	var entries []models.VoteLog
	err := r.db.Where("username = ?", username).
		Order("vote_time DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// CooldownEnd computes when the account may vote again, given the last
// successful vote and the configured cooldown window.
func CooldownEnd(lastVote time.Time, cooldownHours int) time.Time {
	return lastVote.Add(time.Duration(cooldownHours) * time.Hour)
}
