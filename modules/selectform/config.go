package selectform

import "time"

// Config is loaded from the environment with the SELECTFORM_ prefix applied
// by the caller.
type Config struct {
	CookieName      string        `env:"SELECTFORM_COOKIE_NAME" envDefault:"depselect_sid"`
	LangCookieName  string        `env:"SELECTFORM_LANG_COOKIE" envDefault:"lang"`
	SessionTTL      time.Duration `env:"SELECTFORM_SESSION_TTL" envDefault:"30m"`
	MaxSessions     int           `env:"SELECTFORM_MAX_SESSIONS" envDefault:"10000"`
	JanitorInterval time.Duration `env:"SELECTFORM_JANITOR_INTERVAL" envDefault:"1m"`

	// InitialLoadTimeout bounds how long GET / waits for categories before
	// rendering the loading state.
	InitialLoadTimeout time.Duration `env:"SELECTFORM_INITIAL_LOAD_TIMEOUT" envDefault:"3s"`

	RetryCount int           `env:"SELECTFORM_RETRY_COUNT" envDefault:"2"`
	RetryDelay time.Duration `env:"SELECTFORM_RETRY_DELAY" envDefault:"1s"`
	CacheTime  time.Duration `env:"SELECTFORM_CACHE_TIME" envDefault:"30s"`

	DatastarScriptURL string `env:"SELECTFORM_DATASTAR_SCRIPT" envDefault:"https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		CookieName:         "depselect_sid",
		LangCookieName:     "lang",
		SessionTTL:         30 * time.Minute,
		MaxSessions:        10000,
		JanitorInterval:    time.Minute,
		InitialLoadTimeout: 3 * time.Second,
		RetryCount:         2,
		RetryDelay:         time.Second,
		CacheTime:          30 * time.Second,
		DatastarScriptURL:  "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js",
	}
}
