package cookie

import (
	"net/http"
	"strings"
)

// Config is loaded from the environment. Secrets is a comma separated list;
// the first one signs, all of them verify.
type Config struct {
	Secrets  string `env:"COOKIE_SECRETS,required"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN"`
	MaxAge   int    `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	var secrets []string
	for s := range strings.SplitSeq(cfg.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}

	fromCfg := []Option{
		WithPath(cfg.Path),
		WithDomain(cfg.Domain),
		WithMaxAge(cfg.MaxAge),
		WithSecure(cfg.Secure),
		WithSameSite(parseSameSite(cfg.SameSite)),
	}
	return New(secrets, append(fromCfg, opts...)...)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
