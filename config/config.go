/* config.go
 * Contains the environment-backed configuration. main.go loads a .env file
 * first so local runs work without exporting variables
 * Authors: Zachary Bower
 */

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot configuration read from the environment
type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
