package cli

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matzehuels/bestof/pkg/cache"
)

// Settings are the secrets and backend locations of a run.
type Settings struct {
	GitHubToken     string
	GitLabToken     string
	LibrariesAPIKey string
	RedisURL        string
	MongoURI        string
	CacheTTL        time.Duration
}

// githubTokenVars are checked in order.
var githubTokenVars = []string{"GITHUB_TOKEN", "GH_TOKEN", "GITHUB_API_KEY"}

// loadSettings loads envFile into the environment, without overriding
// variables that are already set, and reads the settings from the
// environment. A missing envFile is ignored.
func loadSettings(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("BESTOF_CACHE_TTL", cache.DefaultTTL)

	s := Settings{
		GitLabToken:     v.GetString("GITLAB_TOKEN"),
		LibrariesAPIKey: v.GetString("LIBRARIES_API_KEY"),
		RedisURL:        v.GetString("BESTOF_REDIS_URL"),
		MongoURI:        v.GetString("BESTOF_MONGO_URI"),
		CacheTTL:        v.GetDuration("BESTOF_CACHE_TTL"),
	}
	for _, key := range githubTokenVars {
		if tok := v.GetString(key); tok != "" {
			s.GitHubToken = tok
			break
		}
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = cache.DefaultTTL
	}
	return s, nil
}
