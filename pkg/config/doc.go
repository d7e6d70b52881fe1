// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Each package that needs
// configuration declares its own struct (httpserver.Config, pg.Config and so
// on) and the binary composes them:
//
//	type AppConfig struct {
//		HTTP  httpserver.Config
//		Store pg.Config
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
