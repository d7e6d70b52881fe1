package cli

import (
	"time"

	"github.com/dmitrymomot/depselect/modules/selectform"
	"github.com/dmitrymomot/depselect/pkg/httpserver"
	"github.com/dmitrymomot/depselect/pkg/ratelimiter"
	"github.com/dmitrymomot/depselect/pkg/redis"
)

// Catalog sources.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
)

// AppConfig holds the settings every command needs. Postgres and cookie
// settings have required variables and are loaded only by the commands
// that use them.
type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_SERVICE" envDefault:"depselect"`
	LogLevel string `env:"LOG_LEVEL"`

	Source        string        `env:"CATALOG_SOURCE" envDefault:"memory"`
	MockLatency   time.Duration `env:"CATALOG_MOCK_LATENCY" envDefault:"500ms"`
	MockFaultRate float64       `env:"CATALOG_MOCK_FAULT_RATE" envDefault:"0.1"`

	EventsRedis  bool `env:"EVENTS_REDIS" envDefault:"false"`
	EventsBuffer int  `env:"EVENTS_BUFFER" envDefault:"64"`

	RateLimit bool `env:"RATELIMIT_ENABLED" envDefault:"true"`

	HTTP    httpserver.Config
	Form    selectform.Config
	Redis   redis.Config
	Limiter ratelimiter.Config
}
