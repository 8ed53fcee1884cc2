package vote

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ellinia-dev/ellinia/internal/pkg/env"
)

// Config carries the Gtop100 pingback settings and feature flags for the vote
// pipeline. The cooldown is informational: Gtop100 enforces it upstream, the
// status endpoint only displays it.
type Config struct {
	PingbackKey   string
	SiteID        string
	VoteURL       string
	NXReward      int
	CooldownHours int
	ServerName    string
	EnableLogging bool
	Debug         bool
}

// LoadConfigFromEnv builds the vote configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		PingbackKey:   env.GetEnv("GTOP100_PINGBACK_KEY", ""),
		SiteID:        env.GetEnv("GTOP100_SITE_ID", "104927"),
		VoteURL:       env.GetEnv("GTOP100_VOTE_URL", "https://gtop100.com"),
		NXReward:      envInt("GTOP100_NX_REWARD", 8000),
		CooldownHours: envInt("GTOP100_COOLDOWN_HOURS", 24),
		ServerName:    env.GetEnv("SERVER_NAME", "Ellinia"),
		EnableLogging: env.GetEnv("ENABLE_VOTE_LOGGING", "") == "true",
		Debug:         env.GetEnv("ENABLE_VOTE_WEBHOOK_DEBUG", "") == "true",
	}
}

// Validate returns a list of configuration problems, empty when usable.
func (c Config) Validate() []string {
	var errs []string
	if c.PingbackKey == "" {
		errs = append(errs, "GTOP100_PINGBACK_KEY is not set")
	}
	if c.NXReward <= 0 {
		errs = append(errs, "GTOP100_NX_REWARD must be a positive number")
	}
	if c.CooldownHours <= 0 {
		errs = append(errs, "GTOP100_COOLDOWN_HOURS must be a positive number")
	}
	return errs
}

// VoteURLFor returns the outbound vote link with the pingback username filled in.
func (c Config) VoteURLFor(username string) string {
	sep := "?vote=1&"
	if u, err := url.Parse(c.VoteURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return fmt.Sprintf("%s%spingUsername=%s", c.VoteURL, sep, url.QueryEscape(username))
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(env.GetEnv(key, "")); err == nil {
		return v
	}
	return def
}
