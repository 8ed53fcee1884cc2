package vote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GTOP100_PINGBACK_KEY", "secret123")
	t.Setenv("GTOP100_NX_REWARD", "5000")
	t.Setenv("GTOP100_COOLDOWN_HOURS", "12")
	t.Setenv("ENABLE_VOTE_LOGGING", "true")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, "secret123", cfg.PingbackKey)
	assert.Equal(t, "104927", cfg.SiteID)
	assert.Equal(t, 5000, cfg.NXReward)
	assert.Equal(t, 12, cfg.CooldownHours)
	assert.True(t, cfg.EnableLogging)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("GTOP100_NX_REWARD", "not-a-number")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, 8000, cfg.NXReward)
	assert.Equal(t, 24, cfg.CooldownHours)
	assert.Equal(t, "Ellinia", cfg.ServerName)
	assert.False(t, cfg.EnableLogging)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{PingbackKey: "k", NXReward: 8000, CooldownHours: 24}
	assert.Empty(t, cfg.Validate())

	problems := Config{NXReward: -1}.Validate()
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "GTOP100_PINGBACK_KEY")
}

func TestVoteURLFor(t *testing.T) {
	cfg := Config{VoteURL: "https://gtop100.com/topsites/MapleStory/sitedetails/Ellinia-104927"}
	assert.Equal(t,
		"https://gtop100.com/topsites/MapleStory/sitedetails/Ellinia-104927?vote=1&pingUsername=hero1",
		cfg.VoteURLFor("hero1"))

	withQuery := Config{VoteURL: "https://gtop100.com/vote?id=104927"}
	assert.Equal(t,
		"https://gtop100.com/vote?id=104927&pingUsername=hero1",
		withQuery.VoteURLFor("hero1"))

	assert.Contains(t, cfg.VoteURLFor("hero one"), "pingUsername=hero+one")
}

func TestCooldownEnd(t *testing.T) {
	last := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, last.Add(24*time.Hour), CooldownEnd(last, 24))
}
