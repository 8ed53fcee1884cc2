package vote

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// Service applies vote rewards. Each accepted record runs in its own
// transaction holding a row lock on the account, so one corrupt record cannot
// roll back the others in the same delivery and concurrent deliveries for the
// same account serialize on the lock.
type Service struct {
	cfg  Config
	repo Repository
}

// NewService creates a vote service from an injected repository.
func NewService(cfg Config, repo Repository) *Service {
	return &Service{cfg: cfg, repo: repo}
}

// NewServiceFromDB creates a vote service from a GORM DB handle.
func NewServiceFromDB(cfg Config, db *gorm.DB) *Service {
	return NewService(cfg, NewRepository(db))
}

// Config exposes the pipeline configuration for the status endpoint.
func (s *Service) Config() Config {
	return s.cfg
}

// VerifyPingbackKey checks the delivery's shared secret. The check runs once
// per delivery, before any record is touched.
func (s *Service) VerifyPingbackKey(key string) bool {
	return s.cfg.PingbackKey != "" && key == s.cfg.PingbackKey
}

// CheckSiteID logs a site identifier mismatch but never rejects on it; the
// field is informational.
func (s *Service) CheckSiteID(siteID string) {
	if siteID != "" && siteID != s.cfg.SiteID {
		s.debugf("site ID mismatch: expected %s, got %s", s.cfg.SiteID, siteID)
	}
}

// ProcessDelivery runs every record of a delivery to completion and returns
// the outcome summary. Per-record errors are absorbed into failed outcomes;
// this method itself never fails.
func (s *Service) ProcessDelivery(records []Record, clientIP string) *Summary {
	summary := &Summary{}

	for _, record := range records {
		s.processRecord(record, clientIP, summary)
	}

	return summary
}

func (s *Service) processRecord(record Record, clientIP string, summary *Summary) {
	if record.Username == "" {
		// Nothing to attribute the vote to; not even logged.
		s.debugf("vote record without username dropped")
		return
	}

	voterIP := record.VoterIP
	if voterIP == "" {
		voterIP = clientIP
	}

	if !record.Accepted() {
		// Gtop100 rejected the vote upstream. No currency is at risk, so the
		// audit row is written outside any transaction.
		reason := record.Reason
		if reason == "" {
			reason = "Vote rejected by Gtop100"
		}
		log.Printf("vote: failed vote for %s: %s", record.Username, reason)
		if err := s.repo.InsertVoteLog(nil, s.failedLog(record, voterIP, reason)); err != nil {
			log.Printf("vote: failed to log rejected vote for %s: %v", record.Username, err)
		}
		summary.AddFailed(record.Username, reason)
		return
	}

	// Gtop100 accepted the vote; credit the reward exactly once under a row
	// lock. Each record commits on its own.
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		account, err := s.repo.GetAccountForUpdate(tx, record.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("vote: vote received for non-existent user: %s", record.Username)
				if logErr := s.repo.InsertVoteLog(tx, s.failedLog(record, voterIP, "User not found")); logErr != nil {
					return logErr
				}
				summary.AddFailed(record.Username, "User not found")
				return nil
			}
			return err
		}

		newNX := account.NXCredit + s.cfg.NXReward
		newVotePoints := account.VotePoints + 1
		s.debugf("rewarding %s: %d -> %d NX (+%d)", account.Name, account.NXCredit, newNX, s.cfg.NXReward)

		rows, err := s.repo.ApplyReward(tx, record.Username, newNX, newVotePoints)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Account vanished between lock and update; treat as failure.
			log.Printf("vote: failed to update account for %s", record.Username)
			summary.AddFailed(record.Username, "Database update failed")
			return nil
		}

		if err := s.repo.InsertVoteLog(tx, &models.VoteLog{
			Username:  record.Username,
			Site:      record.Site,
			VoteTime:  time.Now(),
			NXAwarded: s.cfg.NXReward,
			IPAddress: voterIP,
			Status:    models.VoteStatusSuccess,
		}); err != nil {
			return err
		}

		log.Printf("vote: %s received %d NX", record.Username, s.cfg.NXReward)
		summary.AddProcessed(record.Username, s.cfg.NXReward, newNX)
		return nil
	})
	if err != nil {
		// The record's transaction rolled back; absorb the error so the rest
		// of the batch still runs.
		log.Printf("vote: transaction error for %s: %v", record.Username, err)
		summary.AddFailed(record.Username, "Transaction error")
	}
}

func (s *Service) failedLog(record Record, voterIP, reason string) *models.VoteLog {
	r := reason
	return &models.VoteLog{
		Username:      record.Username,
		Site:          record.Site,
		VoteTime:      time.Now(),
		NXAwarded:     0,
		IPAddress:     voterIP,
		Status:        models.VoteStatusFailed,
		FailureReason: &r,
	}
}

// RecordDelivery writes the forensic per-delivery row when webhook logging is
// enabled and returns its delivery ID, or "" when disabled or failed. Best
// effort only, never blocks processing.
func (s *Service) RecordDelivery(clientIP, requestType string, records []Record) string {
	if !s.cfg.EnableLogging {
		return ""
	}

	entry := &models.VoteWebhookLog{
		DeliveryID:  uuid.NewString(),
		IPAddress:   clientIP,
		RequestType: requestType,
		SuccessFlag: 1,
	}
	if len(records) > 0 {
		entry.Username = records[0].Username
		entry.SuccessFlag = records[0].Success
		if records[0].Reason != "" {
			reason := records[0].Reason
			entry.Reason = &reason
		}
	}
	if entry.Username == "" {
		entry.Username = "unknown"
	}

	if err := s.repo.InsertWebhookLog(entry); err != nil {
		log.Printf("vote: failed to record webhook delivery: %v", err)
		return ""
	}
	return entry.DeliveryID
}

// MarkDeliveryProcessed flips the processed flag on a recorded delivery.
func (s *Service) MarkDeliveryProcessed(deliveryID string) {
	if deliveryID == "" {
		return
	}
	if err := s.repo.MarkWebhookLogProcessed(deliveryID); err != nil {
		log.Printf("vote: failed to mark webhook delivery processed: %v", err)
	}
}

// RecordDeliveryError logs a delivery that blew up before records could be
// parsed, when webhook logging is enabled.
func (s *Service) RecordDeliveryError(clientIP string, cause error) {
	if !s.cfg.EnableLogging {
		return
	}
	msg := cause.Error()
	entry := &models.VoteWebhookLog{
		DeliveryID:   uuid.NewString(),
		IPAddress:    clientIP,
		RequestType:  "ERROR",
		Username:     "unknown",
		ErrorMessage: &msg,
	}
	if err := s.repo.InsertWebhookLog(entry); err != nil {
		log.Printf("vote: failed to record webhook error: %v", err)
	}
}

// StatusFor computes the cooldown state for one account from its last
// successful vote. The webhook path never reads this; Gtop100 enforces the
// cooldown upstream.
func (s *Service) StatusFor(username string) (*Status, error) {
	last, err := s.repo.LastSuccessfulVote(username, SiteGtop100)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Status{}, nil
		}
		return nil, err
	}

	status := &Status{LastVoteTime: &last.VoteTime}
	next := CooldownEnd(last.VoteTime, s.cfg.CooldownHours)
	if next.After(time.Now()) {
		status.Voted = true
		status.CanVoteAt = &next
	}
	return status, nil
}

// StatsFor aggregates the audit trail for one account.
func (s *Service) StatsFor(username string) (*Stats, error) {
	return s.repo.Stats(username)
}

// TodayRewards sums NX credited today for one account.
func (s *Service) TodayRewards(username string) (int, error) {
	return s.repo.TodayNX(username)
}

// RecentVotes returns the most recent audit rows for one account.
func (s *Service) RecentVotes(username string, limit int) ([]models.VoteLog, error) {
	return s.repo.RecentVotes(username, limit)
}

func (s *Service) debugf(format string, args ...interface{}) {
	if s.cfg.Debug {
		log.Printf("[VOTE_DEBUG] "+format, args...)
	}
}
