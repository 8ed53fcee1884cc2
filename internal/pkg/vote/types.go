package vote

import (
	"fmt"
	"strings"
	"time"
)

// SiteGtop100 is the only ranking site currently wired to the pingback.
const SiteGtop100 = "gtop100"

// Record is one normalized vote outcome from a pingback delivery. Success is
// zero when the ranking site accepted the vote; any other value means the site
// rejected it and Reason says why.
type Record struct {
	Success  int
	Reason   string
	Username string
	VoterIP  string
	Site     string
}

// Accepted reports whether the ranking site counted the vote.
func (r Record) Accepted() bool {
	return r.Success == 0
}

// Summary collects per-record outcome lines for the plain-text webhook
// response body.
type Summary struct {
	Processed []string
	Failed    []string
}

// AddProcessed records a credited vote.
func (s *Summary) AddProcessed(username string, reward, newBalance int) {
	s.Processed = append(s.Processed, fmt.Sprintf("%s: +%d NX (Total: %d)", username, reward, newBalance))
}

// AddFailed records a vote that did not credit, with the reason kept verbatim.
func (s *Summary) AddFailed(username, reason string) {
	s.Failed = append(s.Failed, fmt.Sprintf("%s: %s", username, reason))
}

// Render builds the multi-line response body Gtop100 sees. The body is
// informational only; the third party acts on the HTTP status alone.
func (s *Summary) Render() string {
	var lines []string
	if len(s.Processed) > 0 {
		lines = append(lines, fmt.Sprintf("Successful: %d votes", len(s.Processed)))
		lines = append(lines, s.Processed...)
	}
	if len(s.Failed) > 0 {
		lines = append(lines, fmt.Sprintf("Failed: %d votes", len(s.Failed)))
		lines = append(lines, s.Failed...)
	}
	if len(lines) == 0 {
		lines = append(lines, "No votes processed")
	}
	return strings.Join(lines, "\n")
}

// Status describes the vote state for one account as shown on the user
// dashboard.
type Status struct {
	Voted        bool       `json:"voted"`
	CanVoteAt    *time.Time `json:"can_vote_at"`
	LastVoteTime *time.Time `json:"last_vote_time"`
}

// Stats aggregates the audit trail for one account.
type Stats struct {
	DaysVoted            int `json:"days_voted"`
	TotalSuccessfulVotes int `json:"total_successful_votes"`
	TotalNXEarned        int `json:"total_nx_earned"`
}
